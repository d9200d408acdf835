package main

import (
	"math"

	"github.com/spf13/cobra"

	"github.com/matsen/bibscope/internal/pipeline"
	"github.com/matsen/bibscope/internal/similarity"
)

var (
	similarMethod    string
	similarThreshold float64
	similarRender    bool
)

func init() {
	similarCmd.Flags().StringVarP(&similarMethod, "method", "m", similarity.JaccardName, "Similarity method: jaccard or tfidf")
	similarCmd.Flags().Float64VarP(&similarThreshold, "threshold", "t", 0, "Minimum similarity in [0, 1] (default from bibscope.yml)")
	similarCmd.Flags().BoolVar(&similarRender, "render-only", false, "Redraw the graph from saved pairs without rescoring")
	rootCmd.AddCommand(similarCmd)
}

var similarCmd = &cobra.Command{
	Use:   "similar",
	Short: "Find pairs of entries with similar abstracts",
	Long: `Score every pair of abstracts and keep pairs at or above a threshold.

Methods:
  jaccard   Overlap of whitespace-separated words (default threshold 0.2)
  tfidf     Cosine similarity of TF-IDF vectors (default threshold 0.3)

Only entries with a citation key and an abstract longer than
min_abstract_length characters are compared. Scores are rounded to four
decimals.

Writes similarity_<method>.json to processed_dir and
similarity_<method>.html to figures_dir. With --render-only, the graph is
redrawn from an existing similarity_<method>.json using the current viz
settings.

Examples:
  bsc similar
  bsc similar --render-only --method tfidf
  bsc similar --method tfidf --threshold 0.5`,
	Args: cobra.NoArgs,
	RunE: runSimilar,
}

func runSimilar(cmd *cobra.Command, args []string) error {
	cfg, log := mustSetup("similarity")

	if similarRender {
		res, err := pipeline.RenderSimilarity(cfg, log, similarMethod)
		if err != nil {
			exitWithStageError("similar", err)
		}
		if !humanOutput {
			outputJSON(res)
			return nil
		}
		outputHuman("%s redrew %d pairs\n", heading(res.Method+":"), res.Pairs)
		if res.HTMLPath != "" {
			outputHuman("  %s\n", res.HTMLPath)
		}
		return nil
	}

	threshold := math.NaN()
	if cmd.Flags().Changed("threshold") {
		threshold = similarThreshold
	}

	res, err := pipeline.Similarity(cfg, log, pipeline.SimilarityOptions{
		Method:    similarMethod,
		Threshold: threshold,
	})
	if err != nil {
		exitWithStageError("similar", err)
	}

	if !humanOutput {
		outputJSON(res)
		return nil
	}
	printSimilarHuman(res)
	return nil
}

func printSimilarHuman(res *pipeline.SimilarityResult) {
	outputHuman("%s %d pairs at or above %g among %d abstracts\n", heading(res.Method+":"), len(res.Pairs), res.Threshold, res.Documents)
	for _, p := range res.Pairs {
		outputHuman("  [%.4f] %s  %s\n", p.Similarity, p.Source, p.Target)
	}
}
