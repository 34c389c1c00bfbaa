package cli

import (
	"context"
	"fmt"
	"os"
	"runtime"

	"github.com/spf13/cobra"

	"searchapi/internal/parallel"
	"searchapi/internal/textsearch"
)

type grepResult struct {
	path  string
	lines []textsearch.LineMatch
}

func newGrepCmd() *cobra.Command {
	var (
		keywords []string
		jobs     int
	)

	cmd := &cobra.Command{
		Use:   "grep [-e keyword]... <keyword> <file>...",
		Short: "Print lines that contain any of the keywords",
		Long: `Compiles the keywords into one automaton and prints every line of the
given files that contains at least one of them. With -e flags all
positional arguments are files; otherwise the first argument is the
keyword.`,
		Args: func(cmd *cobra.Command, args []string) error {
			need := 2
			if len(keywords) > 0 {
				need = 1
			}
			if len(args) < need {
				return fmt.Errorf("requires a keyword and at least one file")
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			files := args
			if len(keywords) == 0 {
				keywords, files = args[:1], args[1:]
			}
			return runGrep(cmd, keywords, files, jobs)
		},
	}

	cmd.Flags().StringArrayVarP(&keywords, "keyword", "e", nil, "keyword to search for, repeatable")
	cmd.Flags().IntVarP(&jobs, "jobs", "j", runtime.NumCPU(), "files scanned in parallel")

	return cmd
}

func runGrep(cmd *cobra.Command, keywords, files []string, jobs int) error {
	logger := loggerFromContext(cmd.Context())

	searcher := textsearch.New()
	for _, kw := range keywords {
		if err := searcher.AddKeyword(kw, ""); err != nil {
			return fmt.Errorf("add keyword %q: %w", kw, err)
		}
	}
	if err := searcher.Compile(); err != nil {
		return fmt.Errorf("compile searcher: %w", err)
	}
	logger.Debug("searcher compiled",
		"keywords", searcher.KeywordCount(),
		"nodes", searcher.NodeCount(),
		"files", len(files))

	// A compiled searcher is immutable, so all workers share it.
	tasks := make([]parallel.Task[grepResult], len(files))
	for i, path := range files {
		path := path
		tasks[i] = func(ctx context.Context) (grepResult, error) {
			if err := ctx.Err(); err != nil {
				return grepResult{}, err
			}
			data, err := os.ReadFile(path)
			if err != nil {
				return grepResult{}, err
			}
			lines, err := searcher.MatchLines(string(data))
			if err != nil {
				return grepResult{}, fmt.Errorf("%s: %w", path, err)
			}
			return grepResult{path: path, lines: lines}, nil
		}
	}

	results, err := parallel.JoinAll(cmd.Context(), jobs, tasks)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	for _, res := range results {
		for _, lm := range res.lines {
			if len(files) > 1 {
				fmt.Fprintf(out, "%s:%s\n", res.path, lm.Line)
			} else {
				fmt.Fprintln(out, lm.Line)
			}
		}
	}
	return nil
}
