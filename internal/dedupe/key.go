// Package dedupe detects duplicate bibliographic entries by DOI or title.
package dedupe

import (
	"strings"
	"unicode"

	"github.com/matsen/bibscope/internal/bibtex"
	"golang.org/x/text/unicode/norm"
)

// Key kinds.
const (
	KindDOI   = "doi"
	KindTitle = "title"
)

// Key identifies a publication. Two entries with equal keys are the same publication.
type Key struct {
	Kind  string `json:"kind"`
	Value string `json:"value"`
}

// String returns "kind:value", or "" for the zero key.
func (k Key) String() string {
	if k.Value == "" {
		return ""
	}
	return k.Kind + ":" + k.Value
}

// IsZero reports whether the key could not be determined.
func (k Key) IsZero() bool {
	return k.Value == ""
}

// IdentityKey returns the entry's DOI key if it has a usable DOI, otherwise
// its title key. The zero Key means the entry has neither.
func IdentityKey(e bibtex.Entry) Key {
	if doi := NormalizeDOI(e.DOI()); doi != "" {
		return Key{Kind: KindDOI, Value: doi}
	}
	if title := NormalizeTitle(e.Title()); title != "" {
		return Key{Kind: KindTitle, Value: title}
	}
	return Key{}
}

// doiPrefixes are stripped before comparison, checked against the lowercased DOI.
var doiPrefixes = []string{
	"https://doi.org/",
	"http://doi.org/",
	"https://dx.doi.org/",
	"http://dx.doi.org/",
	"doi.org/",
	"doi:",
}

// NormalizeDOI lowercases a DOI, removes resolver prefixes, and strips
// surrounding punctuation. Inner punctuation is kept: "10.1/23" and
// "10.12/3" are different DOIs.
func NormalizeDOI(doi string) string {
	doi = strings.ToLower(norm.NFC.String(strings.TrimSpace(doi)))
	for _, p := range doiPrefixes {
		if strings.HasPrefix(doi, p) {
			doi = strings.TrimSpace(strings.TrimPrefix(doi, p))
			break
		}
	}
	return strings.TrimFunc(doi, func(r rune) bool {
		return unicode.IsSpace(r) || unicode.IsPunct(r) || unicode.IsSymbol(r)
	})
}

// NormalizeTitle lowercases a title, drops punctuation and LaTeX braces,
// and collapses whitespace.
func NormalizeTitle(title string) string {
	title = strings.ToLower(norm.NFC.String(title))

	var sb strings.Builder
	sb.Grow(len(title))
	for _, r := range title {
		switch {
		case unicode.IsPunct(r) || unicode.IsSymbol(r):
			sb.WriteRune(' ')
		default:
			sb.WriteRune(r)
		}
	}
	return strings.Join(strings.Fields(sb.String()), " ")
}
