// ABOUTME: Calendar day pinned to Brazil civil time (fixed UTC-3)
// ABOUTME: Canonical "today" used for every date comparison and payload
package schedule

import (
	"fmt"
	"time"
)

// OffsetHours is the fixed offset that defines the day boundary.
// It is a business rule, not derived from the host timezone.
const OffsetHours = -3

// Zone is the fixed-offset location for OffsetHours.
var Zone = time.FixedZone("UTC-3", OffsetHours*60*60)

// localizedDateLayout matches pt-BR short dates (16/10/2026).
const localizedDateLayout = "02/01/2006"

// Day is a calendar day in Zone.
type Day struct {
	Year  int
	Month time.Month
	Day   int
}

// DayOf returns the day in Zone that contains t.
func DayOf(t time.Time) Day {
	y, m, d := t.In(Zone).Date()
	return Day{Year: y, Month: m, Day: d}
}

// Today returns the current day in Zone.
func Today() Day {
	return DayOf(time.Now())
}

// Midnight returns the first instant of the day in Zone.
func (d Day) Midnight() time.Time {
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, Zone)
}

// ISO returns midnight of the day as an RFC 3339 timestamp with the fixed
// offset, e.g. 2026-10-16T00:00:00-03:00.
func (d Day) ISO() string {
	return d.Midnight().Format(time.RFC3339)
}

// Weekday returns the localized weekday name for the day.
func (d Day) Weekday() string {
	return WeekdayName(int(d.Midnight().Weekday()))
}

// Localized returns the pt-BR short date.
func (d Day) Localized() string {
	return d.Midnight().Format(localizedDateLayout)
}

// SummaryTitle returns the daily summary title, e.g. "16/10/2026 - Sexta".
func (d Day) SummaryTitle() string {
	return fmt.Sprintf("%s - %s", d.Localized(), d.Weekday())
}

func (d Day) String() string {
	return d.Midnight().Format(time.DateOnly)
}
