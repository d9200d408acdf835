// Package stats computes bibliographic statistics over the merged entries.
package stats

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/matsen/bibscope/internal/storage"
)

// DefaultTopN is the size of the author, journal, and publisher rankings.
const DefaultTopN = 15

// Ranking is an ordered list of counts. It encodes as a JSON object whose
// keys keep the ranking order.
type Ranking []storage.Count

// MarshalJSON encodes the ranking as {"value": count, ...} in order.
func (r Ranking) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, c := range r {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(c.Value)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		fmt.Fprintf(&buf, "%d", c.N)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON decodes an object written by MarshalJSON, preserving key order.
func (r *Ranking) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("ranking: expected object, got %v", tok)
	}

	out := Ranking{}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := tok.(string)
		if !ok {
			return fmt.Errorf("ranking: expected string key, got %v", tok)
		}
		var n int
		if err := dec.Decode(&n); err != nil {
			return fmt.Errorf("ranking value for %q: %w", key, err)
		}
		out = append(out, storage.Count{Value: key, N: n})
	}
	if _, err := dec.Token(); err != nil {
		return err
	}
	*r = out
	return nil
}

// YearsByType maps entry types to their per-year rankings, in first-seen
// type order.
type YearsByType []storage.TypeYears

// MarshalJSON encodes {"article": {"2020": 3, ...}, ...} in order.
func (y YearsByType) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, ty := range y {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(ty.Type)
		if err != nil {
			return nil, err
		}
		years, err := Ranking(ty.Years).MarshalJSON()
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(years)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// Report is the content of stats.json.
type Report struct {
	Total         int         `json:"total_entries"`
	TopAuthors    Ranking     `json:"top_authors"`
	YearsByType   YearsByType `json:"publication_year_by_type"`
	TypeCounts    Ranking     `json:"product_type_counts"`
	TopJournals   Ranking     `json:"top_journals"`
	TopPublishers Ranking     `json:"top_publishers"`
}

// Source is the index the report is computed from.
type Source interface {
	Count() (int, error)
	TopFirstAuthors(n int) ([]storage.Count, error)
	YearsByType() ([]storage.TypeYears, error)
	TypeCounts() ([]storage.Count, error)
	TopJournals(n int) ([]storage.Count, error)
	TopPublishers(n int) ([]storage.Count, error)
}

// Build computes the report. Rankings are limited to topN entries
// (DefaultTopN when topN <= 0); only the first author of each entry counts.
func Build(src Source, topN int) (*Report, error) {
	if topN <= 0 {
		topN = DefaultTopN
	}

	total, err := src.Count()
	if err != nil {
		return nil, fmt.Errorf("counting entries: %w", err)
	}
	authors, err := src.TopFirstAuthors(topN)
	if err != nil {
		return nil, fmt.Errorf("ranking first authors: %w", err)
	}
	years, err := src.YearsByType()
	if err != nil {
		return nil, fmt.Errorf("counting years by type: %w", err)
	}
	types, err := src.TypeCounts()
	if err != nil {
		return nil, fmt.Errorf("counting types: %w", err)
	}
	journals, err := src.TopJournals(topN)
	if err != nil {
		return nil, fmt.Errorf("ranking journals: %w", err)
	}
	publishers, err := src.TopPublishers(topN)
	if err != nil {
		return nil, fmt.Errorf("ranking publishers: %w", err)
	}

	return &Report{
		Total:         total,
		TopAuthors:    authors,
		YearsByType:   years,
		TypeCounts:    types,
		TopJournals:   journals,
		TopPublishers: publishers,
	}, nil
}
