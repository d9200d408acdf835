package dedupe

import (
	"github.com/matsen/bibscope/internal/bibtex"
)

// Options controls merge behavior.
type Options struct {
	// KeepKeyless keeps every entry without DOI and title as unique.
	// By default all keyless entries share one empty key, so only the
	// first is kept and the rest are reported as duplicates.
	KeepKeyless bool
}

// DuplicateGroup is a set of entries sharing one identity key.
type DuplicateGroup struct {
	Key        string   `json:"key"`
	Primary    string   `json:"primary"`    // Citation key of the entry kept
	Duplicates []string `json:"duplicates"` // Citation keys of entries dropped
}

// Result is the outcome of a merge.
type Result struct {
	Unique     []bibtex.Entry
	Duplicates []bibtex.Entry
	Groups     []DuplicateGroup
	Keyless    int // Entries with neither DOI nor title
}

// Merge partitions entries into unique and duplicate sets. The first entry
// seen for each identity key is unique; every later entry with that key is
// a duplicate regardless of its content. Unique entries keep input order.
func Merge(entries []bibtex.Entry, opts Options) Result {
	var res Result
	groupIdx := make(map[string]int) // key -> index into res.Groups
	primaries := make(map[string]string)

	for _, e := range entries {
		key := IdentityKey(e)
		if key.IsZero() {
			res.Keyless++
			if opts.KeepKeyless {
				res.Unique = append(res.Unique, e)
				continue
			}
		}

		k := key.String()
		primary, seen := primaries[k]
		if !seen {
			primaries[k] = e.Key
			res.Unique = append(res.Unique, e)
			continue
		}

		res.Duplicates = append(res.Duplicates, e)
		idx, ok := groupIdx[k]
		if !ok {
			idx = len(res.Groups)
			groupIdx[k] = idx
			res.Groups = append(res.Groups, DuplicateGroup{Key: k, Primary: primary})
		}
		res.Groups[idx].Duplicates = append(res.Groups[idx].Duplicates, e.Key)
	}

	return res
}
