// ABOUTME: Activity template decoded from a Notion page
// ABOUTME: Recurring task with a weekly schedule and per-weekday times
package models

import (
	"github.com/JoaoVitorDomingos/automacao-rotina/internal/notion"
	"github.com/JoaoVitorDomingos/automacao-rotina/internal/schedule"
)

// Property names shared across the three databases.
const (
	PropName     = "Nome"
	PropDate     = "Data"
	PropActive   = "Ativa"
	PropWeekdays = "Dias da semana"
	PropTime     = "Horário"
	PropDone     = "Concluido"
	PropNote     = "Observação"
	PropActivity = "Atividade"
	PropRoutines = "Execução"
)

const (
	// DefaultActivityName is used when an activity has no title
	DefaultActivityName = "Atividade"
	// DefaultRoutineIcon is used when an activity has no emoji icon
	DefaultRoutineIcon = "✅"
	// SummaryIcon marks daily summary pages
	SummaryIcon = "📆"
)

// Activity is a recurring task template. Read-only for this system.
type Activity struct {
	ID       string
	Name     string
	Active   bool
	Weekdays []string
	Icon     string
	// Times maps a schedule property name ("Horário Segunda") to its first text run.
	Times map[string]string
}

// ActivityFromPage decodes an activity, substituting defaults for missing fields.
func ActivityFromPage(p notion.Page) Activity {
	a := Activity{
		ID:    p.ID,
		Name:  DefaultActivityName,
		Times: make(map[string]string),
	}

	if prop, ok := p.Properties[PropName]; ok && len(prop.Title) > 0 {
		a.Name = notion.FirstPlainText(prop.Title)
	}
	if prop, ok := p.Properties[PropActive]; ok {
		a.Active = prop.Checkbox
	}
	if prop, ok := p.Properties[PropWeekdays]; ok {
		for _, opt := range prop.MultiSelect {
			a.Weekdays = append(a.Weekdays, opt.Name)
		}
	}
	if p.Icon != nil {
		a.Icon = p.Icon.Emoji
	}
	for _, weekday := range schedule.Weekdays {
		field, _ := schedule.ScheduleField(weekday)
		if prop, ok := p.Properties[field]; ok {
			if text := notion.FirstPlainText(prop.RichText); text != "" {
				a.Times[field] = text
			}
		}
	}
	return a
}

// ScheduleTime returns the activity's time text for weekday, or "" when the
// weekday is unmapped or the field is absent or empty.
func ScheduleTime(a Activity, weekday string) string {
	field, ok := schedule.ScheduleField(weekday)
	if !ok {
		return ""
	}
	return a.Times[field]
}

// IconOrDefault returns the activity's emoji or DefaultRoutineIcon.
func (a Activity) IconOrDefault() string {
	if a.Icon == "" {
		return DefaultRoutineIcon
	}
	return a.Icon
}
