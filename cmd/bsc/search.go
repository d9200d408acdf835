package main

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/matsen/bibscope/internal/pipeline"
)

var searchLimit int

func init() {
	searchCmd.Flags().IntVar(&searchLimit, "limit", DefaultSearchLimit, "Maximum results to return")
	rootCmd.AddCommand(searchCmd)
}

var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Full-text search over the merged entries",
	Long: `Search titles, abstracts, and authors of the merged entries.

Results are listed in merged order.

Examples:
  bsc search robotics
  bsc search "computational thinking" --limit 10`,
	Args: cobra.ExactArgs(1),
	RunE: runSearch,
}

func runSearch(cmd *cobra.Command, args []string) error {
	cfg, log := mustSetup("search")

	records, err := pipeline.Search(cfg, log, args[0], searchLimit)
	if err != nil {
		exitWithStageError("search", err)
	}

	if !humanOutput {
		outputJSON(records)
		return nil
	}

	if len(records) == 0 {
		outputHuman("No results for %q\n", args[0])
		return nil
	}
	for i, r := range records {
		outputHuman("%d. %s\n", i+1, r.Key)
		outputHuman("   %s\n", truncateString(r.Title, SearchTitleMaxLen))
		if len(r.Authors) > 0 || r.Year != "" {
			outputHuman("   %s (%s)\n", strings.Join(r.Authors, "; "), r.Year)
		}
	}
	return nil
}
