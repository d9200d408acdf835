package main

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/matsen/bibscope/internal/config"
)

func init() {
	rootCmd.AddCommand(configCmd)
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show the resolved project configuration",
	Args:  cobra.NoArgs,
	RunE:  runConfig,
}

// ConfigResponse is the response for the config command.
type ConfigResponse struct {
	Root              string             `json:"root"`
	RawDir            string             `json:"raw_dir"`
	ProcessedDir      string             `json:"processed_dir"`
	FiguresDir        string             `json:"figures_dir"`
	KeepKeyless       bool               `json:"keep_keyless"`
	JaccardThreshold  float64            `json:"jaccard_threshold"`
	TFIDFThreshold    float64            `json:"tfidf_threshold"`
	MinAbstractLength int                `json:"min_abstract_length"`
	TopN              int                `json:"top_n"`
	Layout            string             `json:"layout"`
	Categories        []CategoryResponse `json:"categories"`
}

// CategoryResponse describes one keyword category.
type CategoryResponse struct {
	Name  string   `json:"name"`
	Slug  string   `json:"slug"`
	Terms []string `json:"terms"`
}

func runConfig(cmd *cobra.Command, args []string) error {
	global := mustLoadGlobalConfig()
	cfg := mustLoadConfig(mustFindProject(global))
	resp := newConfigResponse(cfg)

	if !humanOutput {
		outputJSON(resp)
		return nil
	}

	outputHuman("root:                %s\n", resp.Root)
	outputHuman("raw_dir:             %s\n", resp.RawDir)
	outputHuman("processed_dir:       %s\n", resp.ProcessedDir)
	outputHuman("figures_dir:         %s\n", resp.FiguresDir)
	outputHuman("keep_keyless:        %t\n", resp.KeepKeyless)
	outputHuman("jaccard_threshold:   %g\n", resp.JaccardThreshold)
	outputHuman("tfidf_threshold:     %g\n", resp.TFIDFThreshold)
	outputHuman("min_abstract_length: %d\n", resp.MinAbstractLength)
	outputHuman("top_n:               %d\n", resp.TopN)
	outputHuman("layout:              %s\n", resp.Layout)
	outputHuman("categories:\n")
	for _, c := range resp.Categories {
		outputHuman("  %s (%s): %s\n", c.Name, c.Slug, strings.Join(c.Terms, ", "))
	}
	return nil
}

func newConfigResponse(cfg *config.Config) ConfigResponse {
	resp := ConfigResponse{
		Root:              cfg.Root(),
		RawDir:            cfg.RawPath(),
		ProcessedDir:      cfg.ProcessedPath(),
		FiguresDir:        cfg.FiguresPath(),
		KeepKeyless:       cfg.Dedupe.KeepKeyless,
		JaccardThreshold:  cfg.Similarity.JaccardThreshold,
		TFIDFThreshold:    cfg.Similarity.TFIDFThreshold,
		MinAbstractLength: cfg.Similarity.MinAbstractLength,
		TopN:              cfg.Stats.TopN,
		Layout:            cfg.Viz.Layout,
		Categories:        make([]CategoryResponse, 0, len(cfg.Categories)),
	}
	for _, c := range cfg.Categories {
		resp.Categories = append(resp.Categories, CategoryResponse{
			Name:  c.Name,
			Slug:  c.Slug(),
			Terms: c.Terms,
		})
	}
	return resp
}
