package pipeline

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"

	"github.com/matsen/bibscope/internal/bibtex"
	"github.com/matsen/bibscope/internal/config"
	"github.com/matsen/bibscope/internal/dedupe"
	"github.com/matsen/bibscope/internal/storage"
)

// MergeReport summarizes a merge run.
type MergeReport struct {
	Files          []string                `json:"files"`
	Entries        int                     `json:"entries"`
	Unique         int                     `json:"unique"`
	Duplicates     int                     `json:"duplicates"`
	Keyless        int                     `json:"keyless"`
	Groups         []dedupe.DuplicateGroup `json:"groups"`
	MergedPath     string                  `json:"merged_path"`
	DuplicatesPath string                  `json:"duplicates_path"`
	RecordsPath    string                  `json:"records_path"`
}

// Merge reads every .bib file in the raw directory, removes duplicates, and
// writes merged.bib, duplicates.bib, and merged.jsonl.
func Merge(cfg *config.Config, log zerolog.Logger) (*MergeReport, error) {
	rawDir := cfg.RawPath()
	if info, err := os.Stat(rawDir); err != nil || !info.IsDir() {
		return nil, fmt.Errorf("%w: raw directory %s does not exist", ErrNoInput, rawDir)
	}

	entries, files, err := bibtex.ReadDir(rawDir)
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("%w: no .bib files in %s", ErrNoInput, rawDir)
	}
	for _, f := range files {
		log.Debug().Str("file", f).Msg("read bib file")
	}

	res := dedupe.Merge(entries, dedupe.Options{KeepKeyless: cfg.Dedupe.KeepKeyless})
	if res.Keyless > 0 {
		ev := log.Warn().Int("keyless", res.Keyless)
		if cfg.Dedupe.KeepKeyless {
			ev.Msg("entries without DOI or title kept as unique")
		} else {
			ev.Msg("entries without DOI or title share one identity; only the first is kept")
		}
	}

	if err := ensureDir(cfg.ProcessedPath()); err != nil {
		return nil, err
	}

	report := &MergeReport{
		Files:          files,
		Entries:        len(entries),
		Unique:         len(res.Unique),
		Duplicates:     len(res.Duplicates),
		Keyless:        res.Keyless,
		Groups:         res.Groups,
		MergedPath:     cfg.ProcessedFile(config.MergedFile),
		DuplicatesPath: cfg.ProcessedFile(config.DuplicatesFile),
		RecordsPath:    cfg.ProcessedFile(config.RecordsFile),
	}
	if report.Groups == nil {
		report.Groups = []dedupe.DuplicateGroup{}
	}

	if err := bibtex.WriteFile(report.MergedPath, res.Unique); err != nil {
		return nil, fmt.Errorf("writing merged bibliography: %w", err)
	}
	if err := bibtex.WriteFile(report.DuplicatesPath, res.Duplicates); err != nil {
		return nil, fmt.Errorf("writing duplicates: %w", err)
	}
	if err := storage.WriteRecords(report.RecordsPath, storage.RecordsFromEntries(res.Unique)); err != nil {
		return nil, fmt.Errorf("writing records: %w", err)
	}

	log.Info().
		Int("files", len(files)).
		Int("entries", report.Entries).
		Int("unique", report.Unique).
		Int("duplicates", report.Duplicates).
		Msg("merged bibliography")

	return report, nil
}
