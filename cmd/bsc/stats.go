package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matsen/bibscope/internal/pipeline"
	"github.com/matsen/bibscope/internal/stats"
)

func init() {
	rootCmd.AddCommand(statsCmd)
}

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Compute bibliographic statistics over the merged entries",
	Long: `Compute statistics over merged.bib and write stats.json.

Reports the most frequent first authors, journals, and publishers, the
number of entries per type, and publication years per type.`,
	Args: cobra.NoArgs,
	RunE: runStats,
}

func runStats(cmd *cobra.Command, args []string) error {
	cfg, log := mustSetup("stats")

	report, err := pipeline.Stats(cfg, log)
	if err != nil {
		exitWithStageError("stats", err)
	}

	if humanOutput {
		printStatsHuman(report)
	} else {
		outputJSON(report)
	}
	return nil
}

func printStatsHuman(r *stats.Report) {
	outputHuman("%s %d\n", heading("Entries:"), r.Total)

	printRanking("Top first authors", r.TopAuthors)
	printRanking("Entry types", r.TypeCounts)
	printRanking("Top journals", r.TopJournals)
	printRanking("Top publishers", r.TopPublishers)

	if len(r.YearsByType) > 0 {
		outputHuman("\n%s\n", heading("Years by type:"))
		for _, ty := range r.YearsByType {
			outputHuman("  %s:", ty.Type)
			for _, y := range ty.Years {
				outputHuman(" %s%s", y.Value, dim(fmt.Sprintf("(%d)", y.N)))
			}
			outputHuman("\n")
		}
	}
}

func printRanking(title string, ranking stats.Ranking) {
	if len(ranking) == 0 {
		return
	}
	outputHuman("\n%s\n", heading(title+":"))
	for _, c := range ranking {
		outputHuman("  %s  %s\n", count(c.N), c.Value)
	}
}
