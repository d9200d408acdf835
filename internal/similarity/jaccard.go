package similarity

import "strings"

// JaccardName is the name of the Jaccard strategy.
const JaccardName = "jaccard"

// Jaccard returns |A∩B| / |A∪B| over the whitespace-separated token sets of
// a and b. It is 0 when either set is empty.
func Jaccard(a, b string) float64 {
	return jaccardSets(tokenSet(a), tokenSet(b))
}

func tokenSet(text string) map[string]struct{} {
	set := make(map[string]struct{})
	for _, tok := range strings.Fields(text) {
		set[tok] = struct{}{}
	}
	return set
}

func jaccardSets(a, b map[string]struct{}) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	if len(a) > len(b) {
		a, b = b, a
	}
	inter := 0
	for tok := range a {
		if _, ok := b[tok]; ok {
			inter++
		}
	}
	union := len(a) + len(b) - inter
	return float64(inter) / float64(union)
}

// JaccardStrategy scores documents by token set overlap.
type JaccardStrategy struct{}

func (JaccardStrategy) Name() string { return JaccardName }

func (JaccardStrategy) DefaultThreshold() float64 { return 0.2 }

func (JaccardStrategy) Prepare(docs []Document) Scorer {
	sets := make([]map[string]struct{}, len(docs))
	for i, d := range docs {
		sets[i] = tokenSet(d.Text)
	}
	return func(i, j int) float64 {
		return jaccardSets(sets[i], sets[j])
	}
}
