package pipeline

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"

	"github.com/matsen/bibscope/internal/config"
	"github.com/matsen/bibscope/internal/stats"
	"github.com/matsen/bibscope/internal/storage"
)

// Index opens the SQLite index and rebuilds it from the merge output. The
// records file is used when present; otherwise merged.bib is parsed.
// The caller closes the returned database.
func Index(cfg *config.Config, log zerolog.Logger) (*storage.DB, error) {
	recordsPath := cfg.ProcessedFile(config.RecordsFile)

	var merged []storage.Record
	_, statErr := os.Stat(recordsPath)
	if statErr != nil {
		entries, err := loadMerged(cfg)
		if err != nil {
			return nil, err
		}
		merged = storage.RecordsFromEntries(entries)
	}

	if err := ensureDir(cfg.ProcessedPath()); err != nil {
		return nil, err
	}
	db, err := storage.OpenDB(cfg.ProcessedFile(config.IndexFile))
	if err != nil {
		return nil, err
	}

	var n int
	if statErr == nil {
		n, err = db.RebuildFromJSONL(recordsPath)
	} else {
		n, err = db.RebuildFromRecords(merged)
	}
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("rebuilding index: %w", err)
	}
	log.Debug().Int("entries", n).Bool("from_records", statErr == nil).Msg("rebuilt index")
	return db, nil
}

// Stats computes bibliographic statistics over the merged entries and writes
// stats.json.
func Stats(cfg *config.Config, log zerolog.Logger) (*stats.Report, error) {
	db, err := Index(cfg, log)
	if err != nil {
		return nil, err
	}
	defer db.Close()

	report, err := stats.Build(db, cfg.Stats.TopN)
	if err != nil {
		return nil, err
	}

	path := cfg.ProcessedFile(config.StatsFile)
	if err := storage.WriteJSON(path, report); err != nil {
		return nil, err
	}

	log.Info().
		Int("entries", report.Total).
		Str("path", path).
		Msg("wrote statistics")
	return report, nil
}

// Search runs a full-text query over titles, abstracts, and authors of the
// merged entries.
func Search(cfg *config.Config, log zerolog.Logger, query string, limit int) ([]storage.Record, error) {
	db, err := Index(cfg, log)
	if err != nil {
		return nil, err
	}
	defer db.Close()

	results, err := db.Search(query, limit)
	if err != nil {
		return nil, err
	}
	log.Debug().Str("query", query).Int("results", len(results)).Msg("searched index")
	return results, nil
}
