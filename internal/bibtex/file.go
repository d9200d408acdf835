package bibtex

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"sort"
)

// ReadFile reads and parses every entry in a .bib file.
// A missing file is an error: the pipeline cannot proceed without its source.
func ReadFile(path string) ([]Entry, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening bib file: %w", err)
	}
	defer file.Close()

	var entries []Entry
	s := NewSplitter(file)
	for s.Next() {
		e, err := Parse(s.Block())
		if err != nil {
			continue
		}
		entries = append(entries, e)
	}
	if err := s.Err(); err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return entries, nil
}

// ReadDir reads every *.bib file in dir, in lexical file name order.
func ReadDir(dir string) ([]Entry, []string, error) {
	files, err := filepath.Glob(filepath.Join(dir, "*.bib"))
	if err != nil {
		return nil, nil, fmt.Errorf("listing bib files: %w", err)
	}
	sort.Strings(files)

	var entries []Entry
	for _, f := range files {
		fileEntries, err := ReadFile(f)
		if err != nil {
			return nil, nil, err
		}
		entries = append(entries, fileEntries...)
	}
	return entries, files, nil
}

// WriteFile writes the raw text of each entry followed by a blank line,
// replacing any existing content.
func WriteFile(path string, entries []Entry) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating bib file: %w", err)
	}
	defer file.Close()

	w := bufio.NewWriter(file)
	for _, e := range entries {
		if _, err := w.WriteString(e.Raw + "\n\n"); err != nil {
			return fmt.Errorf("writing entry %s: %w", e.Key, err)
		}
	}
	if err := w.Flush(); err != nil {
		return fmt.Errorf("flushing bib file: %w", err)
	}
	return file.Close()
}
