// Package similarity scores pairwise abstract similarity and emits the pairs
// that reach a threshold.
package similarity

import (
	"errors"
	"fmt"
	"math"
	"strings"
)

// ErrInvalidThreshold is returned when a threshold is outside [0, 1].
var ErrInvalidThreshold = errors.New("threshold must be between 0 and 1")

// Document is one abstract identified by its citation key.
type Document struct {
	Key  string
	Text string
}

// Pair is a scored document pair.
type Pair struct {
	Source     string  `json:"source"`
	Target     string  `json:"target"`
	Similarity float64 `json:"similarity"`
}

// Scorer returns the similarity of documents i and j of a prepared corpus.
type Scorer func(i, j int) float64

// Strategy is a pairwise similarity measure.
type Strategy interface {
	// Name identifies the strategy in output file names and on the CLI.
	Name() string
	// DefaultThreshold is used when the caller does not set one.
	DefaultThreshold() float64
	// Prepare builds corpus-level state and returns a scorer over docs.
	Prepare(docs []Document) Scorer
}

// ByName returns the strategy with the given name.
func ByName(name string) (Strategy, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case JaccardName:
		return JaccardStrategy{}, nil
	case TFIDFName:
		return TFIDFStrategy{}, nil
	default:
		return nil, fmt.Errorf("unknown similarity method %q (valid: %s, %s)", name, JaccardName, TFIDFName)
	}
}

// Round rounds a score to 4 decimal places.
func Round(score float64) float64 {
	return math.Round(score*10000) / 10000
}

// FindPairs scores every unordered pair of documents, in document order, and
// returns those scoring at least threshold. Scores are rounded to 4 decimals;
// a pair is kept only if both the raw and the rounded score reach the
// threshold, so every emitted similarity is >= threshold.
func FindPairs(docs []Document, s Strategy, threshold float64) ([]Pair, error) {
	if math.IsNaN(threshold) || threshold < 0 || threshold > 1 {
		return nil, fmt.Errorf("%w: %v", ErrInvalidThreshold, threshold)
	}

	pairs := []Pair{}
	if len(docs) < 2 {
		return pairs, nil
	}

	score := s.Prepare(docs)
	for i := 0; i < len(docs); i++ {
		for j := i + 1; j < len(docs); j++ {
			if docs[i].Key == docs[j].Key {
				continue
			}
			raw := score(i, j)
			rounded := Round(raw)
			if raw < threshold || rounded < threshold {
				continue
			}
			pairs = append(pairs, Pair{
				Source:     docs[i].Key,
				Target:     docs[j].Key,
				Similarity: rounded,
			})
		}
	}
	return pairs, nil
}

func clamp01(x float64) float64 {
	if x < 0 {
		return 0
	}
	if x > 1 {
		return 1
	}
	return x
}
