package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/matsen/bibscope/internal/keyword"
	"github.com/matsen/bibscope/internal/similarity"
)

// WriteJSON writes v as indented JSON followed by a newline, creating the
// parent directory if needed.
func WriteJSON(path string, v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding %s: %w", filepath.Base(path), err)
	}
	data = append(data, '\n')

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("creating directory for %s: %w", path, err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}

func readJSON(path string, v interface{}) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("parsing %s: %w", path, err)
	}
	return nil
}

// ReadFrequencies reads a keyword frequency table written by WriteJSON.
func ReadFrequencies(path string) (keyword.FrequencyTable, error) {
	freq := keyword.FrequencyTable{}
	if err := readJSON(path, &freq); err != nil {
		return nil, err
	}
	return freq, nil
}

// ReadPairs reads a similarity pair list written by WriteJSON.
func ReadPairs(path string) ([]similarity.Pair, error) {
	pairs := []similarity.Pair{}
	if err := readJSON(path, &pairs); err != nil {
		return nil, err
	}
	return pairs, nil
}
