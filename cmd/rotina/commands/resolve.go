// ABOUTME: Resolve command printing the data sources behind each database
// ABOUTME: Diagnoses database ids and integration access
package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/JoaoVitorDomingos/automacao-rotina/internal/core"
)

// NewResolveCmd creates the resolve command
func NewResolveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "resolve",
		Short: "Show the data source id of each configured database",
		Long: `Retrieve the activities, routine and analysis databases and print the
data source each one resolves to. Useful to check database ids and that
the integration has been shared with all three databases.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(cmd)
			if err != nil {
				return err
			}
			defer func() { _ = s.Close() }()

			sources, err := core.ResolveDataSources(cmd.Context(), s.client, s.cfg.Databases)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprint(out, newPrinter(out).dataSources(sources))
			return nil
		},
	}
}
