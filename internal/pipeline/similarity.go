package pipeline

import (
	"errors"
	"math"

	"github.com/rs/zerolog"

	"github.com/matsen/bibscope/internal/config"
	"github.com/matsen/bibscope/internal/similarity"
	"github.com/matsen/bibscope/internal/storage"
	"github.com/matsen/bibscope/internal/viz"
)

// SimilarityOptions selects the strategy and threshold. A NaN threshold
// means the configured one for the method.
type SimilarityOptions struct {
	Method    string
	Threshold float64
}

// SimilarityResult summarizes a similarity run.
type SimilarityResult struct {
	Method    string            `json:"method"`
	Threshold float64           `json:"threshold"`
	Documents int               `json:"documents"`
	Pairs     []similarity.Pair `json:"pairs"`
	JSONPath  string            `json:"json_path"`
	HTMLPath  string            `json:"html_path,omitempty"` // Empty when no pair reached the threshold
}

// Similarity scores every pair of abstracts with the chosen strategy and
// writes similarity_<method>.json and similarity_<method>.html.
func Similarity(cfg *config.Config, log zerolog.Logger, opts SimilarityOptions) (*SimilarityResult, error) {
	strategy, err := similarity.ByName(opts.Method)
	if err != nil {
		return nil, err
	}

	threshold := opts.Threshold
	if math.IsNaN(threshold) {
		threshold = configuredThreshold(cfg, strategy)
	}

	entries, err := loadMerged(cfg)
	if err != nil {
		return nil, err
	}
	docs := Documents(entries, cfg.Similarity.MinAbstractLength)
	log.Info().
		Str("method", strategy.Name()).
		Int("documents", len(docs)).
		Float64("threshold", threshold).
		Msg("scoring abstracts")

	pairs, err := similarity.FindPairs(docs, strategy, threshold)
	if err != nil {
		return nil, err
	}

	res := &SimilarityResult{
		Method:    strategy.Name(),
		Threshold: threshold,
		Documents: len(docs),
		Pairs:     pairs,
		JSONPath:  cfg.ProcessedFile("similarity_" + strategy.Name() + ".json"),
	}
	if err := storage.WriteJSON(res.JSONPath, pairs); err != nil {
		return nil, err
	}

	res.HTMLPath, err = renderSimilarity(cfg, log, strategy.Name(), pairs)
	if err != nil {
		return nil, err
	}

	log.Info().Int("pairs", len(pairs)).Str("path", res.JSONPath).Msg("wrote similarity pairs")
	return res, nil
}

// RenderResult summarizes a re-render of saved similarity pairs.
type RenderResult struct {
	Method   string `json:"method"`
	Pairs    int    `json:"pairs"`
	JSONPath string `json:"json_path"`
	HTMLPath string `json:"html_path,omitempty"`
}

// RenderSimilarity redraws similarity_<method>.html from the pairs saved by
// an earlier Similarity run, picking up the current viz settings without
// rescoring.
func RenderSimilarity(cfg *config.Config, log zerolog.Logger, method string) (*RenderResult, error) {
	strategy, err := similarity.ByName(method)
	if err != nil {
		return nil, err
	}

	res := &RenderResult{
		Method:   strategy.Name(),
		JSONPath: cfg.ProcessedFile("similarity_" + strategy.Name() + ".json"),
	}
	pairs, err := storage.ReadPairs(res.JSONPath)
	if err != nil {
		return nil, err
	}
	res.Pairs = len(pairs)

	res.HTMLPath, err = renderSimilarity(cfg, log, strategy.Name(), pairs)
	if err != nil {
		return nil, err
	}
	return res, nil
}

// renderSimilarity writes the similarity graph and returns its path, or ""
// when there are no pairs to draw.
func renderSimilarity(cfg *config.Config, log zerolog.Logger, method string, pairs []similarity.Pair) (string, error) {
	html, err := viz.GenerateHTML(viz.FromSimilarity(pairs), viz.HTMLOptions{
		Layout: cfg.Viz.Layout,
		Title:  "Abstract similarity (" + method + ")",
	})
	if errors.Is(err, viz.ErrEmptyGraph) {
		log.Info().Msg("no pairs above threshold, skipping similarity graph")
		return "", nil
	}
	if err != nil {
		return "", err
	}

	path := cfg.FigureFile("similarity_" + method + ".html")
	if err := writeHTML(path, html); err != nil {
		return "", err
	}
	return path, nil
}

func configuredThreshold(cfg *config.Config, s similarity.Strategy) float64 {
	switch s.Name() {
	case similarity.JaccardName:
		return cfg.Similarity.JaccardThreshold
	case similarity.TFIDFName:
		return cfg.Similarity.TFIDFThreshold
	default:
		return s.DefaultThreshold()
	}
}
