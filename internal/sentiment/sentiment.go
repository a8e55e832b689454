// Package sentiment scores free text with a keyword heuristic.
package sentiment

import "strings"

// Step is how much one matching token moves the score.
const Step = 0.1

var (
	defaultPositive = []string{"growth", "surge", "boom", "strong", "excellent", "outstanding", "revolutionary", "breakthrough", "dominance"}
	defaultNegative = []string{"concern", "warning", "bubble", "risk", "decline", "fall", "crash", "scarcity", "shortage"}
)

// Scorer counts tokens containing a positive or negative stem. Matching is
// by substring, so "strongest" hits "strong" and "rainfall" hits "fall".
type Scorer struct {
	positive []string
	negative []string
}

// New returns a Scorer with the built-in stem lists.
func New() *Scorer {
	return &Scorer{positive: defaultPositive, negative: defaultNegative}
}

// NewWithStems returns a Scorer with custom stem lists. Stems are matched
// lower-cased.
func NewWithStems(positive, negative []string) *Scorer {
	return &Scorer{positive: lower(positive), negative: lower(negative)}
}

// Score returns a value in [-1, 1]. Text is lower-cased and split on
// whitespace; each token adds Step if it contains any positive stem and,
// independently, subtracts Step if it contains any negative stem.
func (s *Scorer) Score(text string) float64 {
	var pos, neg int
	for _, word := range strings.Fields(strings.ToLower(text)) {
		if containsAny(word, s.positive) {
			pos++
		}
		if containsAny(word, s.negative) {
			neg++
		}
	}
	score := float64(pos-neg) * Step
	return max(-1, min(1, score))
}

func containsAny(word string, stems []string) bool {
	for _, stem := range stems {
		if stem != "" && strings.Contains(word, stem) {
			return true
		}
	}
	return false
}

func lower(in []string) []string {
	out := make([]string, len(in))
	for i, s := range in {
		out[i] = strings.ToLower(s)
	}
	return out
}
