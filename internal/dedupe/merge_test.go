package dedupe

import (
	"fmt"
	"testing"

	"github.com/matsen/bibscope/internal/bibtex"
)

// entry builds a parsed entry with the given key, doi, and title.
// Empty doi or title are omitted from the block.
func entry(t *testing.T, key, doi, title string) bibtex.Entry {
	t.Helper()
	block := fmt.Sprintf("@article{%s,\n", key)
	if doi != "" {
		block += fmt.Sprintf("  doi = {%s},\n", doi)
	}
	if title != "" {
		block += fmt.Sprintf("  title = {%s},\n", title)
	}
	block += "}"
	e, err := bibtex.Parse(block)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	return e
}

func keys(entries []bibtex.Entry) []string {
	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = e.Key
	}
	return out
}

func TestIdentityKey(t *testing.T) {
	tests := []struct {
		name  string
		doi   string
		title string
		want  Key
	}{
		{"doi preferred", "10.1145/ABC.1", "Some Title", Key{KindDOI, "10.1145/abc.1"}},
		{"doi url prefix", "https://doi.org/10.1/X", "", Key{KindDOI, "10.1/x"}},
		{"doi prefix", "DOI: 10.1/X", "", Key{KindDOI, "10.1/x"}},
		{"doi trailing punctuation", "10.1/x.", "", Key{KindDOI, "10.1/x"}},
		{"title fallback", "", "Computational Thinking: A {Review}", Key{KindTitle, "computational thinking a review"}},
		{"title whitespace", "", "  Computational   Thinking ", Key{KindTitle, "computational thinking"}},
		{"keyless", "", "", Key{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := IdentityKey(entry(t, "k", tt.doi, tt.title))
			if got != tt.want {
				t.Errorf("IdentityKey() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestNormalizeDOI_KeepsInnerPunctuation(t *testing.T) {
	if NormalizeDOI("10.1/23") == NormalizeDOI("10.12/3") {
		t.Error("distinct DOIs normalized to the same key")
	}
}

func TestMerge(t *testing.T) {
	tests := []struct {
		name        string
		entries     func(t *testing.T) []bibtex.Entry
		opts        Options
		wantUnique  []string
		wantDupes   []string
		wantGroups  int
		wantKeyless int
	}{
		{
			name: "same doi different case",
			entries: func(t *testing.T) []bibtex.Entry {
				return []bibtex.Entry{
					entry(t, "a", "10.1/ABC", "Title A"),
					entry(t, "b", " 10.1/abc ", "Different Title"),
				}
			},
			wantUnique: []string{"a"},
			wantDupes:  []string{"b"},
			wantGroups: 1,
		},
		{
			name: "distinct dois",
			entries: func(t *testing.T) []bibtex.Entry {
				return []bibtex.Entry{
					entry(t, "a", "10.1/a", "Same Title"),
					entry(t, "b", "10.1/b", "Same Title"),
				}
			},
			wantUnique: []string{"a", "b"},
		},
		{
			name: "title fallback",
			entries: func(t *testing.T) []bibtex.Entry {
				return []bibtex.Entry{
					entry(t, "a", "", "Robotics in Preschool"),
					entry(t, "b", "", "robotics in preschool"),
					entry(t, "c", "", "Robotics in Primary School"),
				}
			},
			wantUnique: []string{"a", "c"},
			wantDupes:  []string{"b"},
			wantGroups: 1,
		},
		{
			name: "first seen order kept",
			entries: func(t *testing.T) []bibtex.Entry {
				return []bibtex.Entry{
					entry(t, "z", "10.1/z", ""),
					entry(t, "y", "10.1/y", ""),
					entry(t, "z2", "10.1/z", ""),
					entry(t, "x", "10.1/x", ""),
					entry(t, "z3", "10.1/z", ""),
				}
			},
			wantUnique: []string{"z", "y", "x"},
			wantDupes:  []string{"z2", "z3"},
			wantGroups: 1,
		},
		{
			name: "keyless entries collapse by default",
			entries: func(t *testing.T) []bibtex.Entry {
				return []bibtex.Entry{
					entry(t, "a", "", ""),
					entry(t, "b", "", ""),
				}
			},
			wantUnique:  []string{"a"},
			wantDupes:   []string{"b"},
			wantGroups:  1,
			wantKeyless: 2,
		},
		{
			name: "keyless entries kept when requested",
			entries: func(t *testing.T) []bibtex.Entry {
				return []bibtex.Entry{
					entry(t, "a", "", ""),
					entry(t, "b", "", ""),
				}
			},
			opts:        Options{KeepKeyless: true},
			wantUnique:  []string{"a", "b"},
			wantKeyless: 2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := Merge(tt.entries(t), tt.opts)

			if got := fmt.Sprint(keys(res.Unique)); got != fmt.Sprint(tt.wantUnique) {
				t.Errorf("unique = %v, want %v", got, tt.wantUnique)
			}
			wantDupes := tt.wantDupes
			if wantDupes == nil {
				wantDupes = []string{}
			}
			if got := fmt.Sprint(keys(res.Duplicates)); got != fmt.Sprint(wantDupes) {
				t.Errorf("duplicates = %v, want %v", got, wantDupes)
			}
			if len(res.Groups) != tt.wantGroups {
				t.Errorf("groups = %d, want %d", len(res.Groups), tt.wantGroups)
			}
			if res.Keyless != tt.wantKeyless {
				t.Errorf("keyless = %d, want %d", res.Keyless, tt.wantKeyless)
			}
		})
	}
}

func TestMerge_GroupsNamePrimary(t *testing.T) {
	res := Merge([]bibtex.Entry{
		entry(t, "first", "10.1/a", ""),
		entry(t, "second", "10.1/A", ""),
		entry(t, "third", "https://doi.org/10.1/a", ""),
	}, Options{})

	if len(res.Groups) != 1 {
		t.Fatalf("groups = %d, want 1", len(res.Groups))
	}
	g := res.Groups[0]
	if g.Primary != "first" || g.Key != "doi:10.1/a" {
		t.Errorf("group = %+v", g)
	}
	if fmt.Sprint(g.Duplicates) != "[second third]" {
		t.Errorf("group duplicates = %v", g.Duplicates)
	}
}

func TestMerge_Idempotent(t *testing.T) {
	entries := []bibtex.Entry{
		entry(t, "a", "10.1/a", "A"),
		entry(t, "b", "", "B"),
		entry(t, "a2", "10.1/A", "A again"),
		entry(t, "b2", "", "b"),
		entry(t, "c", "10.1/c", "C"),
	}
	first := Merge(entries, Options{})
	second := Merge(first.Unique, Options{})

	if len(second.Duplicates) != 0 {
		t.Errorf("re-merge found %d duplicates, want 0", len(second.Duplicates))
	}
	if fmt.Sprint(keys(second.Unique)) != fmt.Sprint(keys(first.Unique)) {
		t.Errorf("re-merge changed unique set: %v vs %v", keys(second.Unique), keys(first.Unique))
	}
}

func TestMerge_StrayBraceBeforeDOI(t *testing.T) {
	content := `@article{a,
  abstract = {We define the set {x : x > 0 and study it},
  doi = {10.1000/aaa},
  title = {First Paper},
}

@article{b,
  abstract = {Another {unbalanced abstract},
  doi = {10.1000/bbb},
  title = {Second Paper},
}
`
	entries := bibtex.ParseAll(bibtex.Split(content))
	if len(entries) != 2 {
		t.Fatalf("ParseAll() = %d entries, want 2", len(entries))
	}
	for i, want := range []string{"10.1000/aaa", "10.1000/bbb"} {
		if got := IdentityKey(entries[i]); got.IsZero() || got.String() != "doi:"+want {
			t.Errorf("IdentityKey(%s) = %q, want doi:%s", entries[i].Key, got.String(), want)
		}
	}

	res := Merge(entries, Options{})
	if len(res.Unique) != 2 || len(res.Duplicates) != 0 || res.Keyless != 0 {
		t.Errorf("Merge() unique=%d duplicates=%d keyless=%d, want 2/0/0",
			len(res.Unique), len(res.Duplicates), res.Keyless)
	}
}
