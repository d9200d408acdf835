package keyword

import (
	"sort"
)

// FrequencyTable maps canonical terms to their total occurrence count.
type FrequencyTable map[string]int

// Count sums synonym occurrences across all abstracts, per canonical term.
//
// Matching is plain substring counting on already-lowercased text: a synonym
// found inside a longer word still counts, and an abstract mentioning a
// synonym three times contributes three. Terms with no hits are left out.
func Count(abstracts []string, m *Map) FrequencyTable {
	freq := make(FrequencyTable)
	for _, abstract := range abstracts {
		for _, t := range m.terms {
			if n := t.occurrences(abstract); n > 0 {
				freq[t.Canonical] += n
			}
		}
	}
	return freq
}

// Total returns the sum of all counts.
func (f FrequencyTable) Total() int {
	total := 0
	for _, n := range f {
		total += n
	}
	return total
}

// TermCount is a (term, count) pair.
type TermCount struct {
	Term  string `json:"term"`
	Count int    `json:"count"`
}

// Sorted returns the table ordered by count descending, then term.
func (f FrequencyTable) Sorted() []TermCount {
	out := make([]TermCount, 0, len(f))
	for term, n := range f {
		out = append(out, TermCount{Term: term, Count: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Term < out[j].Term
	})
	return out
}
