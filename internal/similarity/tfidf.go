package similarity

import (
	"math"
	"strings"
	"unicode"
)

// TFIDFName is the name of the TF-IDF cosine strategy.
const TFIDFName = "tfidf"

// Tokenize splits text into lowercased word tokens of at least two
// characters, where a word character is a letter, digit, or underscore.
// English stop words are dropped.
func Tokenize(text string) []string {
	var tokens []string
	var current strings.Builder
	n := 0

	flush := func() {
		if n >= 2 {
			tok := current.String()
			if !IsStopWord(tok) {
				tokens = append(tokens, tok)
			}
		}
		current.Reset()
		n = 0
	}

	for _, r := range text {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_' {
			current.WriteRune(unicode.ToLower(r))
			n++
			continue
		}
		flush()
	}
	flush()

	return tokens
}

// Vectorizer holds the corpus vocabulary and inverse document frequencies.
type Vectorizer struct {
	idf map[string]float64
}

// Fit learns smoothed idf weights from docs:
// idf(t) = ln((1 + n) / (1 + df(t))) + 1.
func Fit(docs []string) *Vectorizer {
	df := make(map[string]int)
	for _, d := range docs {
		seen := make(map[string]bool)
		for _, tok := range Tokenize(d) {
			if !seen[tok] {
				seen[tok] = true
				df[tok]++
			}
		}
	}

	n := float64(len(docs))
	idf := make(map[string]float64, len(df))
	for tok, c := range df {
		idf[tok] = math.Log((1+n)/(1+float64(c))) + 1
	}
	return &Vectorizer{idf: idf}
}

// VocabularySize returns the number of distinct terms seen during Fit.
func (v *Vectorizer) VocabularySize() int {
	return len(v.idf)
}

// Transform returns the L2-normalized tf-idf vector of text. Terms not seen
// during Fit are ignored. A text with no known terms yields an empty vector.
func (v *Vectorizer) Transform(text string) map[string]float64 {
	vec := make(map[string]float64)
	for _, tok := range Tokenize(text) {
		if w, ok := v.idf[tok]; ok {
			vec[tok] += w
		}
	}

	var norm float64
	for _, x := range vec {
		norm += x * x
	}
	if norm == 0 {
		return map[string]float64{}
	}
	norm = math.Sqrt(norm)
	for tok := range vec {
		vec[tok] /= norm
	}
	return vec
}

// Cosine returns the cosine similarity of two L2-normalized sparse vectors,
// clamped to [0, 1].
func Cosine(a, b map[string]float64) float64 {
	if len(a) > len(b) {
		a, b = b, a
	}
	var dot float64
	for tok, x := range a {
		dot += x * b[tok]
	}
	return clamp01(dot)
}

// TFIDFStrategy scores documents by cosine similarity of tf-idf vectors.
type TFIDFStrategy struct{}

func (TFIDFStrategy) Name() string { return TFIDFName }

func (TFIDFStrategy) DefaultThreshold() float64 { return 0.3 }

func (TFIDFStrategy) Prepare(docs []Document) Scorer {
	texts := make([]string, len(docs))
	for i, d := range docs {
		texts[i] = d.Text
	}
	v := Fit(texts)
	vecs := make([]map[string]float64, len(docs))
	for i, t := range texts {
		vecs[i] = v.Transform(t)
	}
	return func(i, j int) float64 {
		return Cosine(vecs[i], vecs[j])
	}
}
