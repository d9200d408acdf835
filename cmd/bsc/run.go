package main

import (
	"math"

	"github.com/spf13/cobra"

	"github.com/matsen/bibscope/internal/logging"
	"github.com/matsen/bibscope/internal/pipeline"
	"github.com/matsen/bibscope/internal/similarity"
	"github.com/matsen/bibscope/internal/stats"
)

func init() {
	rootCmd.AddCommand(runCmd)
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run merge, stats, keywords, and both similarity methods",
	Args:  cobra.NoArgs,
	RunE:  runAll,
}

// RunResponse is the response for the run command.
type RunResponse struct {
	Merge      *pipeline.MergeReport        `json:"merge"`
	Stats      *stats.Report                `json:"stats"`
	Keywords   []pipeline.CategoryResult    `json:"keywords"`
	Similarity []*pipeline.SimilarityResult `json:"similarity"`
}

func runAll(cmd *cobra.Command, args []string) error {
	cfg, log := mustSetupBase()

	var resp RunResponse
	var err error

	if resp.Merge, err = pipeline.Merge(cfg, logging.WithStage(log, "merge")); err != nil {
		exitWithStageError("merge", err)
	}
	if resp.Stats, err = pipeline.Stats(cfg, logging.WithStage(log, "stats")); err != nil {
		exitWithStageError("stats", err)
	}
	if resp.Keywords, err = pipeline.Keywords(cfg, logging.WithStage(log, "keywords")); err != nil {
		exitWithStageError("keywords", err)
	}
	for _, method := range []string{similarity.JaccardName, similarity.TFIDFName} {
		res, err := pipeline.Similarity(cfg, logging.WithStage(log, "similarity"), pipeline.SimilarityOptions{
			Method:    method,
			Threshold: math.NaN(),
		})
		if err != nil {
			exitWithStageError("similar", err)
		}
		resp.Similarity = append(resp.Similarity, res)
	}

	if !humanOutput {
		outputJSON(resp)
		return nil
	}

	outputHuman("Merged %d entries into %d (%d duplicates)\n\n", resp.Merge.Entries, resp.Merge.Unique, resp.Merge.Duplicates)
	printStatsHuman(resp.Stats)
	outputHuman("\n")
	printKeywordsHuman(resp.Keywords)
	for _, res := range resp.Similarity {
		outputHuman("\n")
		printSimilarHuman(res)
	}
	return nil
}
