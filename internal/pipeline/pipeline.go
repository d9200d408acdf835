// Package pipeline runs the analysis stages over a project: merge, stats,
// keywords, similarity, and search. Each stage takes its configuration and
// logger explicitly.
package pipeline

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/matsen/bibscope/internal/bibtex"
	"github.com/matsen/bibscope/internal/config"
	"github.com/matsen/bibscope/internal/similarity"
)

// ErrNoInput is returned when a stage has nothing to read.
var ErrNoInput = errors.New("no input")

// loadMerged reads the merged bibliography written by Merge.
func loadMerged(cfg *config.Config) ([]bibtex.Entry, error) {
	path := cfg.ProcessedFile(config.MergedFile)
	entries, err := bibtex.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s not found (run merge first)", ErrNoInput, path)
		}
		return nil, err
	}
	return entries, nil
}

func ensureDir(path string) error {
	if err := os.MkdirAll(path, 0755); err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	return nil
}

func writeHTML(path, html string) error {
	if err := ensureDir(filepath.Dir(path)); err != nil {
		return err
	}
	if err := os.WriteFile(path, []byte(html), 0644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}

// Abstracts returns the cleaned abstract of every entry that has one,
// regardless of length or citation key.
func Abstracts(entries []bibtex.Entry) []string {
	var abstracts []string
	for _, e := range entries {
		if a, ok := e.Abstract(); ok {
			abstracts = append(abstracts, a)
		}
	}
	return abstracts
}

// Documents returns one similarity document per citation key for entries
// whose cleaned abstract is longer than minLength characters. Entries without
// a key are skipped. When a key repeats, the later abstract replaces the
// earlier one in the earlier position.
func Documents(entries []bibtex.Entry, minLength int) []similarity.Document {
	var docs []similarity.Document
	index := make(map[string]int)
	for _, e := range entries {
		if e.Key == "" {
			continue
		}
		a, ok := e.Abstract()
		if !ok || len([]rune(a)) <= minLength {
			continue
		}
		if i, seen := index[e.Key]; seen {
			docs[i].Text = a
			continue
		}
		index[e.Key] = len(docs)
		docs = append(docs, similarity.Document{Key: e.Key, Text: a})
	}
	return docs
}
