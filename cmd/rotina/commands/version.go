// ABOUTME: Version command reporting the rotina build
// ABOUTME: Prints build stamps set by main and the Notion API version in use
package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/JoaoVitorDomingos/automacao-rotina/internal/notion"
)

// build stamps, overwritten via ldflags in main
var build = struct{ version, commit, date string }{"dev", "none", "unknown"}

// SetVersion records the build stamps passed from main.
func SetVersion(version, commit, date string) {
	build.version, build.commit, build.date = version, commit, date
}

// NewVersionCmd creates the version command
func NewVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "rotina %s (%s, built %s)\nNotion: %s\n",
				build.version, build.commit, build.date, notion.DefaultVersion)
		},
	}
}
