// ABOUTME: Localized weekday names and the weekday -> schedule field table
// ABOUTME: Shared by the activity filter and the schedule-time lookup
package schedule

// Weekdays holds the pt-BR weekday names indexed by time.Weekday (Sunday=0).
var Weekdays = [7]string{
	"Domingo",
	"Segunda",
	"Terça",
	"Quarta",
	"Quinta",
	"Sexta",
	"Sábado",
}

var scheduleFields = map[string]string{
	"Segunda": "Horário Segunda",
	"Terça":   "Horário Terça",
	"Quarta":  "Horário Quarta",
	"Quinta":  "Horário Quinta",
	"Sexta":   "Horário Sexta",
	"Sábado":  "Horário Sábado",
	"Domingo": "Horário Domingo",
}

// WeekdayName maps a day-of-week index (Sunday=0) to its name.
// Out-of-range indexes yield "".
func WeekdayName(i int) string {
	if i < 0 || i >= len(Weekdays) {
		return ""
	}
	return Weekdays[i]
}

// ScheduleField returns the activity property holding the time for weekday.
func ScheduleField(weekday string) (string, bool) {
	field, ok := scheduleFields[weekday]
	return field, ok
}
