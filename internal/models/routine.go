// ABOUTME: Per-day routine items and the daily summary page
// ABOUTME: Builds the property payloads sent to Notion on create and link
package models

import (
	"github.com/JoaoVitorDomingos/automacao-rotina/internal/notion"
	"github.com/JoaoVitorDomingos/automacao-rotina/internal/schedule"
)

// RoutineItem is one day's actionable instance of an Activity.
type RoutineItem struct {
	ID         string
	Name       string
	Date       string // day ISO, see schedule.Day.ISO
	Time       string
	Done       bool
	Note       string
	ActivityID string
	Icon       string
}

// NewRoutineItem instantiates activity for day.
func NewRoutineItem(a Activity, day schedule.Day) RoutineItem {
	return RoutineItem{
		Name:       a.Name,
		Date:       day.ISO(),
		Time:       ScheduleTime(a, day.Weekday()),
		ActivityID: a.ID,
		Icon:       a.IconOrDefault(),
	}
}

// Properties returns the create payload.
func (r RoutineItem) Properties() map[string]notion.Property {
	return map[string]notion.Property{
		PropName:     notion.TitleValue(r.Name),
		PropDate:     notion.DateValueOf(r.Date),
		PropTime:     notion.RichTextValue(r.Time),
		PropDone:     notion.CheckboxValue(r.Done),
		PropNote:     notion.RichTextValue(r.Note),
		PropActivity: notion.RelationValue(r.ActivityID),
	}
}

// CreateRequest builds the page creation request in the routine data source.
func (r RoutineItem) CreateRequest(dataSourceID string) notion.CreatePageRequest {
	return notion.CreatePageRequest{
		Parent:     notion.InDataSource(dataSourceID),
		Properties: r.Properties(),
		Icon:       notion.Emoji(r.Icon),
	}
}

// RoutineFilter matches the routine item of activityID on day.
func RoutineFilter(activityID string, day schedule.Day) *notion.Filter {
	return notion.And(
		notion.DateEquals(PropDate, day.ISO()),
		notion.RelationContains(PropActivity, activityID),
	)
}

// ActivitiesFilter matches active activities scheduled on weekday.
func ActivitiesFilter(weekday string) *notion.Filter {
	return notion.And(
		notion.CheckboxEquals(PropActive, true),
		notion.MultiSelectContains(PropWeekdays, weekday),
	)
}

// DailySummary aggregates one day's routine items.
type DailySummary struct {
	ID         string
	Title      string
	Date       string
	RoutineIDs []string
}

// NewDailySummary builds the summary for day.
func NewDailySummary(day schedule.Day) DailySummary {
	return DailySummary{
		Title: day.SummaryTitle(),
		Date:  day.ISO(),
	}
}

// CreateRequest builds the page creation request in the analysis data source.
func (s DailySummary) CreateRequest(dataSourceID string) notion.CreatePageRequest {
	return notion.CreatePageRequest{
		Parent: notion.InDataSource(dataSourceID),
		Properties: map[string]notion.Property{
			PropName: notion.TitleValue(s.Title),
			PropDate: notion.DateValueOf(s.Date),
		},
		Icon: notion.Emoji(SummaryIcon),
	}
}

// SummaryFilter matches the summary of day.
func SummaryFilter(day schedule.Day) *notion.Filter {
	f := notion.DateEquals(PropDate, day.ISO())
	return &f
}

// LinkProperties replaces the summary's routine relation with ids, in order.
func LinkProperties(ids []string) map[string]notion.Property {
	return map[string]notion.Property{
		PropRoutines: notion.RelationValue(ids...),
	}
}
