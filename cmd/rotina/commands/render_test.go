// ABOUTME: Tests for terminal rendering
// ABOUTME: Verifies plain output of run, plan and resolve reports
package commands

import (
	"bytes"
	"strings"
	"testing"

	"github.com/JoaoVitorDomingos/automacao-rotina/internal/core"
	"github.com/JoaoVitorDomingos/automacao-rotina/internal/schedule"
)

var renderDay = schedule.Day{Year: 2026, Month: 10, Day: 12}

func TestNewPrinter_NonTerminal(t *testing.T) {
	if newPrinter(&bytes.Buffer{}).color {
		t.Error("buffer output should not be colored")
	}
}

func TestPrinter_Result(t *testing.T) {
	result := &core.Result{
		Day:           renderDay,
		SummaryID:     "sum-1",
		SummaryStatus: core.StatusCreated,
		Linked:        true,
		Items: []core.Item{
			{Name: "Yoga", Time: "07:00", RoutineID: "r-1", Status: core.StatusCreated},
			{Name: "Leitura", RoutineID: "r-2", Status: core.StatusExisting},
		},
	}

	out := printer{}.result(result, false)

	for _, want := range []string{
		"12/10/2026 - Segunda",
		"Summary  sum-1  created",
		"Activity",
		"Yoga",
		"exists",
		"1 created, 1 existing, summary linked to 2 items",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output should contain %q, got:\n%s", want, out)
		}
	}
	if strings.Contains(out, "\x1b[") {
		t.Error("plain printer should not emit ANSI escapes")
	}
}

func TestPrinter_Plan(t *testing.T) {
	result := &core.Result{
		Day:           renderDay,
		SummaryStatus: core.StatusPending,
		Items: []core.Item{
			{Name: "Yoga", Status: core.StatusPending},
		},
	}

	out := printer{}.result(result, true)

	for _, want := range []string{"Summary  -  would create", "1 to create, 0 existing"} {
		if !strings.Contains(out, want) {
			t.Errorf("output should contain %q, got:\n%s", want, out)
		}
	}
}

func TestPrinter_EmptyDay(t *testing.T) {
	out := printer{}.result(&core.Result{Day: renderDay, Empty: true}, false)

	if !strings.Contains(out, "No active activities scheduled for Segunda") {
		t.Errorf("unexpected output:\n%s", out)
	}
	if strings.Contains(out, "Summary") {
		t.Error("empty day should not render a summary line")
	}
}

func TestPrinter_TableAlignment(t *testing.T) {
	out := printer{}.table([]string{"A", "B"}, [][]string{{"long value", "x"}, {"s", "y"}})
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")

	if len(lines) != 4 {
		t.Fatalf("lines = %d, want 4:\n%s", len(lines), out)
	}
	col := strings.Index(lines[2], "x")
	for _, line := range []string{lines[0], lines[3]} {
		if got := strings.IndexAny(line, "By"); got != col {
			t.Errorf("column starts at %d, want %d:\n%s", got, col, out)
		}
	}
}

func TestPrinter_DataSources(t *testing.T) {
	out := printer{}.dataSources(core.DataSources{Activities: "ds-a", Routine: "ds-r", Analysis: "ds-s"})

	for _, want := range []string{"activities", "ds-a", "routine", "ds-r", "analysis", "ds-s"} {
		if !strings.Contains(out, want) {
			t.Errorf("output should contain %q, got:\n%s", want, out)
		}
	}
}
