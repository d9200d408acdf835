package main

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/matsen/bibscope/internal/pipeline"
)

func init() {
	rootCmd.AddCommand(mergeCmd)
}

var mergeCmd = &cobra.Command{
	Use:   "merge",
	Short: "Merge raw .bib files and remove duplicates",
	Long: `Merge every .bib file in raw_dir into one bibliography.

Entries are identified by normalized DOI, or by normalized title when there
is no DOI. The first entry seen for an identity is kept; later ones go to
duplicates.bib. Files are read in name order.

Writes merged.bib, duplicates.bib, and merged.jsonl to processed_dir.`,
	Args: cobra.NoArgs,
	RunE: runMerge,
}

func runMerge(cmd *cobra.Command, args []string) error {
	cfg, log := mustSetup("merge")

	report, err := pipeline.Merge(cfg, log)
	if err != nil {
		exitWithStageError("merge", err)
	}

	if !humanOutput {
		outputJSON(report)
		return nil
	}

	outputHuman("%s %d entries from %d files\n", heading("Read"), report.Entries, len(report.Files))
	outputHuman("  unique:     %d\n", report.Unique)
	outputHuman("  duplicates: %d\n", report.Duplicates)
	if report.Keyless > 0 {
		outputHuman("  no DOI or title: %d\n", report.Keyless)
	}
	for _, g := range report.Groups {
		outputHuman("  %s kept over %s\n", g.Primary, dim(strings.Join(g.Duplicates, ", ")))
	}
	outputHuman("Wrote %s\n", report.MergedPath)
	return nil
}
