package bibtex

import (
	"errors"
	"regexp"
	"strings"
)

// Field names consumed by the analysis pipeline.
const (
	FieldAuthor    = "author"
	FieldYear      = "year"
	FieldTitle     = "title"
	FieldDOI       = "doi"
	FieldAbstract  = "abstract"
	FieldJournal   = "journal"
	FieldPublisher = "publisher"
)

// ErrNotEntry is returned by Parse when a block has no "@type{" header.
var ErrNotEntry = errors.New("not a bibtex entry")

// headerRegex captures the entry type and citation key: @type{key,
var headerRegex = regexp.MustCompile(`^\s*@(\w+)\s*\{[ \t]*([^,\s{}=]*)`)

// Entry is one parsed bibliographic record.
type Entry struct {
	Type   string            // Lowercased entry tag, e.g. "article"
	Key    string            // Citation key, may be empty
	Fields map[string]string // Lowercased field name -> first value
	Raw    string            // Original block text
}

// Parse parses a single entry block. Repeated fields keep their first value.
func Parse(block string) (Entry, error) {
	m := headerRegex.FindStringSubmatch(block)
	if m == nil {
		return Entry{}, ErrNotEntry
	}

	e := Entry{
		Type:   strings.ToLower(m[1]),
		Key:    strings.TrimSpace(m[2]),
		Fields: make(map[string]string),
		Raw:    block,
	}
	scanFields(block, func(name, value string) bool {
		if _, seen := e.Fields[name]; !seen {
			e.Fields[name] = value
		}
		return true
	})
	return e, nil
}

// ParseAll parses every block, skipping ones without a header.
func ParseAll(blocks []string) []Entry {
	entries := make([]Entry, 0, len(blocks))
	for _, b := range blocks {
		e, err := Parse(b)
		if err != nil {
			continue
		}
		entries = append(entries, e)
	}
	return entries
}

// Field returns the named field value.
func (e Entry) Field(name string) (string, bool) {
	v, ok := e.Fields[strings.ToLower(name)]
	return v, ok
}

// Title returns the title field or "".
func (e Entry) Title() string { return e.Fields[FieldTitle] }

// DOI returns the doi field or "".
func (e Entry) DOI() string { return e.Fields[FieldDOI] }

// Year returns the year field or "".
func (e Entry) Year() string { return e.Fields[FieldYear] }

// Journal returns the journal field or "".
func (e Entry) Journal() string { return e.Fields[FieldJournal] }

// Publisher returns the publisher field or "".
func (e Entry) Publisher() string { return e.Fields[FieldPublisher] }

// Abstract returns the cleaned (single-line, lowercased) abstract and whether
// the entry has an abstract field at all.
func (e Entry) Abstract() (string, bool) {
	v, ok := e.Fields[FieldAbstract]
	if !ok {
		return "", false
	}
	return CleanAbstract(v), true
}

// Authors splits the author field on " and ".
func (e Entry) Authors() []string {
	raw := strings.Join(strings.Fields(e.Fields[FieldAuthor]), " ")
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, " and ")
	authors := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			authors = append(authors, p)
		}
	}
	return authors
}

// FirstAuthor returns the first listed author or "".
func (e Entry) FirstAuthor() string {
	authors := e.Authors()
	if len(authors) == 0 {
		return ""
	}
	return authors[0]
}
