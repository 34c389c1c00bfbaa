// Package cli implements the searchbench command-line workbench.
//
// searchbench exercises the keyword automaton outside the API service:
// bench races it against compiled regular expressions over a random-word
// corpus, and grep scans files for keyword-bearing lines.
package cli

import (
	"context"
	"os"

	charmlog "github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"searchapi/internal/buildinfo"
)

// Execute runs the searchbench CLI. Logging goes to stderr so command
// output stays pipeable; --verbose lowers the level to debug.
func Execute(ctx context.Context) error {
	var verbose bool

	root := &cobra.Command{
		Use:          "searchbench",
		Short:        "Workbench for the keyword search automaton",
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := charmlog.InfoLevel
			if verbose {
				level = charmlog.DebugLevel
			}
			cmd.SetContext(withLogger(cmd.Context(), newLogger(os.Stderr, level)))
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")

	root.AddCommand(newBenchCmd())
	root.AddCommand(newGrepCmd())

	return root.ExecuteContext(ctx)
}
