// Package keyword counts synonym-aware keyword occurrences in abstracts and
// builds keyword co-occurrence graphs.
package keyword

import (
	"strings"
)

// SynonymSeparator separates a canonical term from its synonyms in a raw
// category term, e.g. "ct - computational thinking".
const SynonymSeparator = " - "

// Term is a canonical keyword and the strings that count as it.
type Term struct {
	Canonical string   `json:"canonical" yaml:"canonical"`
	Synonyms  []string `json:"synonyms" yaml:"synonyms"` // Includes Canonical
}

// Map is an ordered, immutable mapping from canonical term to synonym set.
type Map struct {
	terms []Term
	index map[string]int
}

// BuildMap expands raw category terms into a Map. Each raw term is split on
// SynonymSeparator; pieces are trimmed and lowercased, the first piece is the
// canonical term. Empty pieces and repeated synonyms are dropped. If the same
// canonical term appears twice, the later synonym set replaces the earlier
// one in the earlier position.
func BuildMap(rawTerms []string) *Map {
	m := &Map{index: make(map[string]int)}

	for _, raw := range rawTerms {
		t, ok := parseTerm(raw)
		if !ok {
			continue
		}
		if i, exists := m.index[t.Canonical]; exists {
			m.terms[i] = t
			continue
		}
		m.index[t.Canonical] = len(m.terms)
		m.terms = append(m.terms, t)
	}

	return m
}

func parseTerm(raw string) (Term, bool) {
	seen := make(map[string]bool)
	var pieces []string
	for _, p := range strings.Split(raw, SynonymSeparator) {
		p = strings.ToLower(strings.TrimSpace(p))
		if p == "" || seen[p] {
			continue
		}
		seen[p] = true
		pieces = append(pieces, p)
	}
	if len(pieces) == 0 {
		return Term{}, false
	}
	return Term{Canonical: pieces[0], Synonyms: pieces}, true
}

// Terms returns the terms in input order.
func (m *Map) Terms() []Term {
	out := make([]Term, len(m.terms))
	copy(out, m.terms)
	return out
}

// Canonicals returns the canonical terms in input order.
func (m *Map) Canonicals() []string {
	out := make([]string, len(m.terms))
	for i, t := range m.terms {
		out[i] = t.Canonical
	}
	return out
}

// Synonyms returns the synonym set of a canonical term.
func (m *Map) Synonyms(canonical string) ([]string, bool) {
	i, ok := m.index[canonical]
	if !ok {
		return nil, false
	}
	out := make([]string, len(m.terms[i].Synonyms))
	copy(out, m.terms[i].Synonyms)
	return out, true
}

// Len returns the number of canonical terms.
func (m *Map) Len() int {
	return len(m.terms)
}

// AsSets returns the map as canonical -> set of synonyms.
func (m *Map) AsSets() map[string]map[string]bool {
	out := make(map[string]map[string]bool, len(m.terms))
	for _, t := range m.terms {
		set := make(map[string]bool, len(t.Synonyms))
		for _, s := range t.Synonyms {
			set[s] = true
		}
		out[t.Canonical] = set
	}
	return out
}

// present reports whether any synonym of t occurs in text.
func (t Term) present(text string) bool {
	for _, s := range t.Synonyms {
		if strings.Contains(text, s) {
			return true
		}
	}
	return false
}

// occurrences sums the non-overlapping occurrences of every synonym of t.
func (t Term) occurrences(text string) int {
	n := 0
	for _, s := range t.Synonyms {
		n += strings.Count(text, s)
	}
	return n
}
