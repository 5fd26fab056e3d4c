// ABOUTME: Root command and global flags for the rotina CLI
// ABOUTME: Wires run, plan, resolve and version subcommands
package commands

import (
	"github.com/spf13/cobra"
)

var (
	verbose bool
	quiet   bool
	logFile string
)

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rotina",
		Short: "Sync the daily Notion routine from activity templates",
		Long: `rotina builds today's routine in Notion.

It reads the active activities scheduled for the current weekday, creates
one routine item per activity and a daily summary page, and links the
items to the summary. Running it again on the same day creates nothing
new. Days are computed in Brazil time (UTC-3).

Configuration comes from the environment (or a .env file) and an optional
rotina.yaml. NOTION_TOKEN and the three database ids are required.`,
		SilenceUsage: true,
	}

	cmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log every Notion API call")
	cmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "Suppress logs and the run report (plan and resolve still print)")
	cmd.PersistentFlags().StringVar(&logFile, "log-file", "", "Also write logs to this file, rotated (overrides ROTINA_LOG_FILE)")
	cmd.MarkFlagsMutuallyExclusive("verbose", "quiet")

	cmd.AddCommand(NewRunCmd())
	cmd.AddCommand(NewPlanCmd())
	cmd.AddCommand(NewResolveCmd())
	cmd.AddCommand(NewVersionCmd())

	return cmd
}

// Execute runs the root command
func Execute() error {
	return NewRootCmd().Execute()
}
