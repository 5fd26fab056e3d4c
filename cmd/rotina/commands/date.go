// ABOUTME: Parses the --date flag into a calendar day in the fixed UTC-3 zone
// ABOUTME: Accepts ISO and pt-BR dates or natural language in English and Portuguese
package commands

import (
	"fmt"
	"strings"
	"time"

	"github.com/olebedev/when"
	"github.com/olebedev/when/rules/br"
	"github.com/olebedev/when/rules/common"
	"github.com/olebedev/when/rules/en"

	"github.com/JoaoVitorDomingos/automacao-rotina/internal/schedule"
)

var dateLayouts = []string{time.DateOnly, "02/01/2006"}

func newDateParser() *when.Parser {
	w := when.New(nil)
	w.Add(en.All...)
	w.Add(br.All...)
	w.Add(common.All...)
	return w
}

// parseDay resolves input relative to now. Empty input means today.
func parseDay(input string, now time.Time) (schedule.Day, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return schedule.DayOf(now), nil
	}

	for _, layout := range dateLayouts {
		if t, err := time.ParseInLocation(layout, input, schedule.Zone); err == nil {
			return schedule.DayOf(t), nil
		}
	}

	result, err := newDateParser().Parse(input, now.In(schedule.Zone))
	if err != nil {
		return schedule.Day{}, fmt.Errorf("parsing date %q: %w", input, err)
	}
	if result == nil {
		return schedule.Day{}, fmt.Errorf("unrecognized date %q (use YYYY-MM-DD, DD/MM/YYYY or e.g. \"yesterday\")", input)
	}
	return schedule.DayOf(result.Time), nil
}
