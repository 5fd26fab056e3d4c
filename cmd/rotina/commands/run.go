// ABOUTME: Run command performing the daily routine synchronization
// ABOUTME: Entry point for cron; pushes run metrics when a Pushgateway is configured
package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/JoaoVitorDomingos/automacao-rotina/internal/core"
)

const metricsPushTimeout = 10 * time.Second

var runDate string

// NewRunCmd creates the run command
func NewRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Create the day's routine items and summary",
		Long: `Synchronize the routine for a day (today by default).

Existing routine items and the existing summary are reused, so running
twice on the same day is safe.

Examples:
  rotina run
  rotina run --date 2026-10-12
  rotina run --date yesterday`,
		Args: cobra.NoArgs,
		RunE: runRun,
	}

	cmd.Flags().StringVar(&runDate, "date", "", "Day to synchronize (YYYY-MM-DD, DD/MM/YYYY or natural language)")

	return cmd
}

func runRun(cmd *cobra.Command, args []string) error {
	day, err := parseDay(runDate, time.Now())
	if err != nil {
		return err
	}

	s, err := openSession(cmd)
	if err != nil {
		return err
	}
	defer func() { _ = s.Close() }()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	runID := uuid.NewString()[:8]
	s.logger.Printf("[Sync] Run %s started for %s (%s)", runID, day, day.Weekday())

	synchronizer := core.NewSynchronizer(s.client, s.cfg.Databases,
		core.WithLogger(s.logger),
		core.WithRecorder(s.recorder),
	)

	started := time.Now()
	result, runErr := synchronizer.Run(ctx, day)
	s.recorder.RecordRun(started, runErr)

	pushCtx, cancel := context.WithTimeout(context.Background(), metricsPushTimeout)
	defer cancel()
	if err := s.recorder.Push(pushCtx, s.cfg.PushgatewayURL); err != nil {
		s.logger.Printf("[Sync] Warning: %v", err)
	}

	if runErr != nil {
		s.logger.Printf("[Sync] Run %s failed: %v", runID, runErr)
		return fmt.Errorf("synchronizing %s: %w", day, runErr)
	}

	if !quiet {
		out := cmd.OutOrStdout()
		fmt.Fprint(out, newPrinter(out).result(result, false))
	}
	return nil
}
