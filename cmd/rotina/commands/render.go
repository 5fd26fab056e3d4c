// ABOUTME: Terminal rendering of run, plan and resolve results
// ABOUTME: Lipgloss styles when stdout is a terminal, plain text otherwise
package commands

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"

	"github.com/JoaoVitorDomingos/automacao-rotina/internal/core"
)

var (
	colorGreen  = lipgloss.Color("#8ec07c")
	colorYellow = lipgloss.Color("#fabd2f")
	colorDim    = lipgloss.Color("#928374")
	colorHeader = lipgloss.Color("#fe8019")

	styleGreen  = lipgloss.NewStyle().Foreground(colorGreen)
	styleYellow = lipgloss.NewStyle().Foreground(colorYellow)
	styleDim    = lipgloss.NewStyle().Foreground(colorDim)
	styleHeader = lipgloss.NewStyle().Foreground(colorHeader).Bold(true)
)

// printer renders with or without ANSI styles.
type printer struct {
	color bool
}

// newPrinter enables styles only when w is a terminal.
func newPrinter(w io.Writer) printer {
	f, ok := w.(*os.File)
	if !ok {
		return printer{}
	}
	return printer{color: isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())}
}

func (p printer) paint(style lipgloss.Style, text string) string {
	if !p.color {
		return text
	}
	return style.Render(text)
}

func (p printer) status(s core.Status, dryRun bool) string {
	switch s {
	case core.StatusCreated:
		return p.paint(styleGreen, "created")
	case core.StatusExisting:
		return p.paint(styleDim, "exists")
	case core.StatusPending:
		if dryRun {
			return p.paint(styleYellow, "would create")
		}
	}
	return p.paint(styleDim, string(s))
}

// result renders a run (dryRun false) or a plan (dryRun true).
func (p printer) result(r *core.Result, dryRun bool) string {
	var b strings.Builder

	b.WriteString(p.paint(styleHeader, r.Day.SummaryTitle()))
	b.WriteString("\n")

	if r.Empty {
		fmt.Fprintf(&b, "No active activities scheduled for %s.\n", r.Day.Weekday())
		return b.String()
	}

	summary := r.SummaryID
	if summary == "" {
		summary = "-"
	}
	fmt.Fprintf(&b, "Summary  %s  %s\n\n", summary, p.status(r.SummaryStatus, dryRun))

	rows := make([][]string, 0, len(r.Items))
	for _, item := range r.Items {
		id := item.RoutineID
		if id == "" {
			id = "-"
		}
		when := item.Time
		if when == "" {
			when = "-"
		}
		rows = append(rows, []string{item.Name, when, p.status(item.Status, dryRun), p.paint(styleDim, id)})
	}
	b.WriteString(p.table([]string{"Activity", "Time", "Status", "Routine item"}, rows))

	if dryRun {
		fmt.Fprintf(&b, "\n%d to create, %d existing\n", r.Count(core.StatusPending), r.Count(core.StatusExisting))
	} else {
		fmt.Fprintf(&b, "\n%d created, %d existing, summary linked to %d items\n",
			r.Count(core.StatusCreated), r.Count(core.StatusExisting), len(r.RoutineIDs()))
	}
	return b.String()
}

func (p printer) dataSources(ds core.DataSources) string {
	rows := [][]string{
		{"activities", ds.Activities},
		{"routine", ds.Routine},
		{"analysis", ds.Analysis},
	}
	return p.table([]string{"Database", "Data source"}, rows)
}

// table renders aligned columns with a header separator.
func (p printer) table(headers []string, rows [][]string) string {
	const colGap = 2

	widths := make([]int, len(headers))
	for i, h := range headers {
		widths[i] = lipgloss.Width(h)
	}
	for _, row := range rows {
		for i := 0; i < len(headers) && i < len(row); i++ {
			if w := lipgloss.Width(row[i]); w > widths[i] {
				widths[i] = w
			}
		}
	}

	var b strings.Builder
	writeRow := func(cells []string) {
		for i := range headers {
			cell := ""
			if i < len(cells) {
				cell = cells[i]
			}
			b.WriteString(cell)
			if i < len(headers)-1 {
				b.WriteString(strings.Repeat(" ", max(widths[i]-lipgloss.Width(cell), 0)+colGap))
			}
		}
		b.WriteString("\n")
	}

	styled := make([]string, len(headers))
	for i, h := range headers {
		styled[i] = p.paint(styleHeader, h)
	}
	writeRow(styled)

	sep := make([]string, len(headers))
	for i, w := range widths {
		sep[i] = p.paint(styleDim, strings.Repeat("─", w))
	}
	writeRow(sep)

	for _, row := range rows {
		writeRow(row)
	}
	return b.String()
}
