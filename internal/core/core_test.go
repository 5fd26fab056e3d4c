// ABOUTME: Shared fixtures for workflow tests
// ABOUTME: Seeds an in-memory workspace with the three databases and activities
package core

import (
	"github.com/JoaoVitorDomingos/automacao-rotina/internal/config"
	"github.com/JoaoVitorDomingos/automacao-rotina/internal/models"
	"github.com/JoaoVitorDomingos/automacao-rotina/internal/notion"
	"github.com/JoaoVitorDomingos/automacao-rotina/internal/notion/notiontest"
	"github.com/JoaoVitorDomingos/automacao-rotina/internal/schedule"
)

const (
	activitiesDB = "1f2e3d4c-5b6a-4798-8776-655443322110"
	routineDB    = "2a2b2c2d-2e2f-4031-8233-343536373839"
	analysisDB   = "3a3b3c3d-3e3f-4041-8243-444546474849"
)

var (
	monday = schedule.Day{Year: 2026, Month: 10, Day: 12}
	friday = schedule.Day{Year: 2026, Month: 10, Day: 16}
)

// fixture is a workspace with the three databases registered.
type fixture struct {
	ws        *notiontest.Workspace
	databases config.Databases
	sources   DataSources
}

func newFixture() *fixture {
	ws := notiontest.NewWorkspace()
	return &fixture{
		ws:        ws,
		databases: config.Databases{Activities: activitiesDB, Routine: routineDB, Analysis: analysisDB},
		sources: DataSources{
			Activities: ws.AddDatabase(activitiesDB),
			Routine:    ws.AddDatabase(routineDB),
			Analysis:   ws.AddDatabase(analysisDB),
		},
	}
}

type activitySpec struct {
	name   string
	active bool
	days   []string
	icon   string
	times  map[string]string // weekday -> time text
}

func (f *fixture) addActivity(a activitySpec) notion.Page {
	props := map[string]notion.Property{
		models.PropActive: notion.CheckboxValue(a.active),
	}
	if a.name != "" {
		props[models.PropName] = notion.TitleValue(a.name)
	}
	options := make([]notion.SelectOption, 0, len(a.days))
	for _, d := range a.days {
		options = append(options, notion.SelectOption{Name: d})
	}
	props[models.PropWeekdays] = notion.Property{Type: notion.TypeMultiSelect, MultiSelect: options}
	for weekday, text := range a.times {
		field, _ := schedule.ScheduleField(weekday)
		props[field] = notion.RichTextValue(text)
	}

	page := notion.Page{Properties: props}
	if a.icon != "" {
		page.Icon = notion.Emoji(a.icon)
	}
	return f.ws.Seed(f.sources.Activities, page)
}

func (f *fixture) synchronizer() *Synchronizer {
	return NewSynchronizer(f.ws, f.databases, WithLogger(nil))
}

func titleOf(p notion.Page) string {
	return notion.FirstPlainText(p.Properties[models.PropName].Title)
}

func relationIDs(p notion.Page, prop string) []string {
	var ids []string
	for _, r := range p.Properties[prop].Relation {
		ids = append(ids, r.ID)
	}
	return ids
}
