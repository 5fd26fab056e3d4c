// ABOUTME: Plan command previewing a synchronization without writing
// ABOUTME: Shows which routine items and summary exist or would be created
package commands

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/JoaoVitorDomingos/automacao-rotina/internal/core"
)

var planDate string

// NewPlanCmd creates the plan command
func NewPlanCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "plan",
		Short: "Preview the day's routine without changing Notion",
		Long: `Show what "rotina run" would do for a day without creating or
updating any page.

Examples:
  rotina plan
  rotina plan --date 16/10/2026`,
		Args: cobra.NoArgs,
		RunE: runPlan,
	}

	cmd.Flags().StringVar(&planDate, "date", "", "Day to preview (YYYY-MM-DD, DD/MM/YYYY or natural language)")

	return cmd
}

func runPlan(cmd *cobra.Command, args []string) error {
	day, err := parseDay(planDate, time.Now())
	if err != nil {
		return err
	}

	s, err := openSession(cmd)
	if err != nil {
		return err
	}
	defer func() { _ = s.Close() }()

	synchronizer := core.NewSynchronizer(s.client, s.cfg.Databases, core.WithLogger(s.logger))
	result, err := synchronizer.Plan(cmd.Context(), day)
	if err != nil {
		return fmt.Errorf("planning %s: %w", day, err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprint(out, newPrinter(out).result(result, true))
	return nil
}
