package storage

import (
	"github.com/matsen/bibscope/internal/bibtex"
)

// Record is the indexed, flattened form of a merged bibliography entry.
type Record struct {
	Key         string   `json:"key"`
	Type        string   `json:"type"`
	Year        string   `json:"year,omitempty"`
	Authors     []string `json:"authors,omitempty"`
	FirstAuthor string   `json:"first_author,omitempty"`
	Title       string   `json:"title,omitempty"`
	DOI         string   `json:"doi,omitempty"`
	Journal     string   `json:"journal,omitempty"`
	Publisher   string   `json:"publisher,omitempty"`
	Abstract    string   `json:"abstract,omitempty"` // Cleaned abstract
}

// RecordFromEntry flattens a parsed entry.
func RecordFromEntry(e bibtex.Entry) Record {
	abstract, _ := e.Abstract()
	return Record{
		Key:         e.Key,
		Type:        e.Type,
		Year:        e.Year(),
		Authors:     e.Authors(),
		FirstAuthor: e.FirstAuthor(),
		Title:       e.Title(),
		DOI:         e.DOI(),
		Journal:     e.Journal(),
		Publisher:   e.Publisher(),
		Abstract:    abstract,
	}
}

// RecordsFromEntries flattens entries, keeping order.
func RecordsFromEntries(entries []bibtex.Entry) []Record {
	records := make([]Record, len(entries))
	for i, e := range entries {
		records[i] = RecordFromEntry(e)
	}
	return records
}
