package pipeline

import (
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/matsen/bibscope/internal/config"
	"github.com/matsen/bibscope/internal/keyword"
	"github.com/matsen/bibscope/internal/logging"
	"github.com/matsen/bibscope/internal/storage"
	"github.com/matsen/bibscope/internal/viz"
)

// CategoryResult summarizes the keyword analysis of one category.
type CategoryResult struct {
	Name            string                 `json:"name"`
	Slug            string                 `json:"slug"`
	Terms           int                    `json:"terms"`
	Abstracts       int                    `json:"abstracts"`
	Frequencies     keyword.FrequencyTable `json:"frequencies"`
	Nodes           int                    `json:"nodes"`
	Edges           int                    `json:"edges"`
	FrequenciesPath string                 `json:"frequencies_path"`
	CloudPath       string                 `json:"cloud_path,omitempty"`       // Empty when nothing was counted
	GraphPath       string                 `json:"cooccurrence_path,omitempty"` // Empty when the graph has no edges
}

// Keywords counts keyword frequencies and builds co-occurrence graphs for the
// named categories, or for every configured category when names is empty.
func Keywords(cfg *config.Config, log zerolog.Logger, names ...string) ([]CategoryResult, error) {
	categories, err := selectCategories(cfg, names)
	if err != nil {
		return nil, err
	}

	entries, err := loadMerged(cfg)
	if err != nil {
		return nil, err
	}
	abstracts := Abstracts(entries)
	log.Info().Int("entries", len(entries)).Int("abstracts", len(abstracts)).Msg("extracted abstracts")

	results := make([]CategoryResult, 0, len(categories))
	for _, cat := range categories {
		res, err := analyzeCategory(cfg, logging.WithCategory(log, cat.Name, cat.Slug()), cat, abstracts)
		if err != nil {
			return nil, fmt.Errorf("category %s: %w", cat.Name, err)
		}
		results = append(results, *res)
	}
	return results, nil
}

func selectCategories(cfg *config.Config, names []string) ([]config.Category, error) {
	if len(names) == 0 {
		return cfg.Categories, nil
	}
	out := make([]config.Category, 0, len(names))
	for _, n := range names {
		cat, ok := cfg.Category(n)
		if !ok {
			return nil, fmt.Errorf("unknown category %q", n)
		}
		out = append(out, cat)
	}
	return out, nil
}

func analyzeCategory(cfg *config.Config, log zerolog.Logger, cat config.Category, abstracts []string) (*CategoryResult, error) {
	m := keyword.BuildMap(cat.Terms)
	freq := keyword.Count(abstracts, m)
	graph := keyword.BuildGraph(abstracts, m)

	slug := cat.Slug()
	res := &CategoryResult{
		Name:            cat.Name,
		Slug:            slug,
		Terms:           m.Len(),
		Abstracts:       len(abstracts),
		Frequencies:     freq,
		Nodes:           graph.NumNodes(),
		Edges:           graph.NumEdges(),
		FrequenciesPath: cfg.ProcessedFile(slug + "_frequencies.json"),
	}

	if err := storage.WriteJSON(res.FrequenciesPath, freq); err != nil {
		return nil, err
	}

	cloud, err := viz.GenerateCloudHTML(cat.Name, freq)
	switch {
	case errors.Is(err, viz.ErrNoFrequencies):
		log.Info().Msg("no keyword matches, skipping keyword cloud")
	case err != nil:
		return nil, err
	default:
		res.CloudPath = cfg.FigureFile(slug + "_cloud.html")
		if err := writeHTML(res.CloudPath, cloud); err != nil {
			return nil, err
		}
	}

	html, err := viz.GenerateHTML(viz.FromCooccurrence(graph, freq), viz.HTMLOptions{
		Layout: cfg.Viz.Layout,
		Title:  cat.Name + " co-occurrence",
	})
	switch {
	case errors.Is(err, viz.ErrEmptyGraph):
		log.Info().Msg("no co-occurring keywords, skipping co-occurrence graph")
	case err != nil:
		return nil, err
	default:
		res.GraphPath = cfg.FigureFile(slug + "_cooccurrence.html")
		if err := writeHTML(res.GraphPath, html); err != nil {
			return nil, err
		}
	}

	log.Info().
		Int("matched_terms", len(freq)).
		Int("occurrences", freq.Total()).
		Int("edges", res.Edges).
		Msg("analyzed category")
	return res, nil
}
