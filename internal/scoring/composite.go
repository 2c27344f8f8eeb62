// Package scoring combines five independently produced 0-10 factor scores
// (sentiment, catalyst proximity, insider activity, options flow, technical
// setup) into a weighted composite, and ranks candidate symbols by it. It
// also holds the deterministic mappers that turn raw collaborator outputs
// into factor scores.
package scoring

import (
	"math"
	"sort"

	"revoscan/internal/domain"
)

// Weights are the composite blend fractions per factor. They must sum to 1
// for the composite to keep its 0-10 bound; Normalized rescales arbitrary
// non-negative inputs.
type Weights struct {
	Sentiment float64 `yaml:"sentiment" json:"sentiment"`
	Catalyst  float64 `yaml:"catalyst" json:"catalyst"`
	Insider   float64 `yaml:"insider" json:"insider"`
	Options   float64 `yaml:"options" json:"options"`
	Technical float64 `yaml:"technical" json:"technical"`
}

// DefaultWeights are the stock screening defaults.
func DefaultWeights() Weights {
	return Weights{
		Sentiment: 0.30,
		Catalyst:  0.25,
		Insider:   0.15,
		Options:   0.15,
		Technical: 0.15,
	}
}

// Sum returns the total of all weight fractions.
func (w Weights) Sum() float64 {
	return w.Sentiment + w.Catalyst + w.Insider + w.Options + w.Technical
}

// Normalized clamps negative weights to zero and rescales the rest to sum
// to 1. An all-zero input falls back to the defaults.
func (w Weights) Normalized() Weights {
	c := Weights{
		Sentiment: math.Max(w.Sentiment, 0),
		Catalyst:  math.Max(w.Catalyst, 0),
		Insider:   math.Max(w.Insider, 0),
		Options:   math.Max(w.Options, 0),
		Technical: math.Max(w.Technical, 0),
	}
	sum := c.Sum()
	if sum == 0 {
		return DefaultWeights()
	}
	c.Sentiment /= sum
	c.Catalyst /= sum
	c.Insider /= sum
	c.Options /= sum
	c.Technical /= sum
	return c
}

// Composite computes the weighted factor blend rounded to two decimals.
// With weights summing to 1 and factors in [0,10] the result stays in
// [0,10] by construction.
func Composite(f domain.FactorScores, w Weights) float64 {
	score := f.Sentiment*w.Sentiment +
		f.Catalyst*w.Catalyst +
		f.Insider*w.Insider +
		f.Options*w.Options +
		f.Technical*w.Technical
	return round2(score)
}

// Rank computes composites for all analyses and returns them sorted
// descending by composite score with 1-based ranks assigned. The sort is
// stable: ties keep their input order. The input slice is not modified.
func Rank(analyses []domain.Analysis, w Weights) []domain.Analysis {
	ranked := make([]domain.Analysis, len(analyses))
	copy(ranked, analyses)
	for i := range ranked {
		ranked[i].Composite = Composite(ranked[i].Scores, w)
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Composite > ranked[j].Composite
	})
	for i := range ranked {
		ranked[i].Rank = i + 1
	}
	return ranked
}

// TopN returns the first n entries of a ranked slice.
func TopN(ranked []domain.Analysis, n int) []domain.Analysis {
	if n > len(ranked) {
		n = len(ranked)
	}
	if n < 0 {
		n = 0
	}
	return ranked[:n]
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
