package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matsen/bibscope/internal/pipeline"
)

var keywordCategories []string

func init() {
	keywordsCmd.Flags().StringArrayVarP(&keywordCategories, "category", "c", nil, "Analyze only this category, by name or slug (can be repeated)")
	rootCmd.AddCommand(keywordsCmd)
}

var keywordsCmd = &cobra.Command{
	Use:   "keywords",
	Short: "Count keyword frequencies and build co-occurrence graphs",
	Long: `Count keyword occurrences in the merged abstracts for each category.

Each term may list synonyms separated by " - "; all synonyms count toward the
first one. Matching is case-insensitive substring matching.

Per category, writes:
  <processed_dir>/<slug>_frequencies.json
  <figures_dir>/<slug>_cloud.html           (skipped when nothing matched)
  <figures_dir>/<slug>_cooccurrence.html    (skipped when no terms co-occur)

Examples:
  bsc keywords
  bsc keywords -c "Computational concepts" -c tool`,
	Args: cobra.NoArgs,
	RunE: runKeywords,
}

func runKeywords(cmd *cobra.Command, args []string) error {
	cfg, log := mustSetup("keywords")

	results, err := pipeline.Keywords(cfg, log, keywordCategories...)
	if err != nil {
		exitWithStageError("keywords", err)
	}

	if !humanOutput {
		outputJSON(results)
		return nil
	}
	printKeywordsHuman(results)
	return nil
}

func printKeywordsHuman(results []pipeline.CategoryResult) {
	for i, r := range results {
		if i > 0 {
			outputHuman("\n")
		}
		outputHuman("%s %s\n", heading(r.Name), dim(fmt.Sprintf("(%d terms, %d matched, %d co-occurrence edges)", r.Terms, len(r.Frequencies), r.Edges)))
		for _, tc := range r.Frequencies.Sorted() {
			outputHuman("  %s  %s\n", count(tc.Count), tc.Term)
		}
	}
}
