// Package screener runs the per-symbol factor analysis pipeline and ranks
// a universe of candidates by weighted composite score. Provider failures
// degrade that symbol's factor to the neutral score instead of failing the
// whole scan.
package screener

import (
	"context"
	"log/slog"
	"time"

	"revoscan/internal/domain"
	"revoscan/internal/provider"
	"revoscan/internal/scoring"
)

const (
	// Calendar days of bar history fetched per symbol. Enough for the
	// 200-day moving average and the 52-week high with weekends and
	// holidays removed.
	barLookbackDays = 420

	// Calendar days of news history scored per symbol.
	newsLookbackDays = 7
)

// Screener analyzes symbols against the five factor collaborators.
type Screener struct {
	bars     provider.BarProvider
	news     provider.NewsProvider
	insiders provider.InsiderProvider
	options  provider.OptionsProvider
	earnings provider.EarningsProvider
	weights  scoring.Weights
	now      func() time.Time
	log      *slog.Logger
}

// New creates a Screener over the given collaborators. Weights are
// normalized once up front.
func New(bars provider.BarProvider, news provider.NewsProvider, insiders provider.InsiderProvider, options provider.OptionsProvider, earnings provider.EarningsProvider, weights scoring.Weights) *Screener {
	return &Screener{
		bars:     bars,
		news:     news,
		insiders: insiders,
		options:  options,
		earnings: earnings,
		weights:  weights.Normalized(),
		now:      time.Now,
		log:      slog.Default().With("component", "screener"),
	}
}

// Weights returns the normalized blend in effect.
func (s *Screener) Weights() scoring.Weights { return s.weights }

// Analyze produces the factor scores for one symbol. Composite and Rank
// are left unset; Scan assigns them across the universe.
func (s *Screener) Analyze(ctx context.Context, symbol string) (domain.Analysis, error) {
	if err := ctx.Err(); err != nil {
		return domain.Analysis{}, err
	}
	now := s.now()

	analysis := domain.Analysis{
		Symbol: symbol,
		Scores: domain.FactorScores{
			Sentiment: scoring.NeutralScore,
			Catalyst:  scoring.NeutralScore,
			Insider:   scoring.NeutralScore,
			Options:   scoring.NeutralScore,
			Technical: scoring.NeutralScore,
		},
	}

	// Technical: bar history drives both the score and the quoted price.
	bars, err := s.bars.DailyBars(ctx, symbol, now.AddDate(0, 0, -barLookbackDays), now)
	if err != nil {
		s.log.Warn("bar fetch failed", "symbol", symbol, "error", err)
	} else {
		snap := scoring.TechnicalScore(bars)
		analysis.Scores.Technical = snap.Score
		analysis.Price = snap.Price
	}

	// Sentiment: average headline polarity over the news window.
	headlines, err := s.news.Headlines(ctx, symbol, now.AddDate(0, 0, -newsLookbackDays), now)
	if err != nil {
		s.log.Warn("news fetch failed", "symbol", symbol, "error", err)
	} else {
		polarities := make([]float64, len(headlines))
		for i, h := range headlines {
			polarities[i] = h.Polarity
		}
		if avg, found := provider.AveragePolarity(polarities); found {
			analysis.Scores.Sentiment = scoring.SentimentScore(avg)
		}
	}

	// Insider flow.
	activity, err := s.insiders.InsiderActivity(ctx, symbol)
	if err != nil {
		s.log.Warn("insider fetch failed", "symbol", symbol, "error", err)
	} else {
		analysis.Scores.Insider = scoring.InsiderScore(activity)
	}

	// Options open-interest skew.
	ratio, found, err := s.options.CallOpenInterestRatio(ctx, symbol)
	if err != nil {
		s.log.Warn("options fetch failed", "symbol", symbol, "error", err)
	} else {
		analysis.Scores.Options = scoring.OptionsScore(ratio, found)
	}

	// Earnings proximity.
	days, found, err := s.earnings.DaysUntilEarnings(ctx, symbol, now)
	if err != nil {
		s.log.Warn("earnings fetch failed", "symbol", symbol, "error", err)
	} else {
		analysis.Scores.Catalyst = scoring.CatalystScore(days, found)
		if found {
			analysis.EarningsDate = now.AddDate(0, 0, days).Format("2006-01-02")
		}
	}

	return analysis, nil
}

// Scan analyzes every symbol in the universe and returns them ranked by
// composite score, best first. Symbols are processed sequentially; the
// scan stops early only on context cancellation.
func (s *Screener) Scan(ctx context.Context, universe []string) ([]domain.Analysis, error) {
	analyses := make([]domain.Analysis, 0, len(universe))
	for _, symbol := range universe {
		a, err := s.Analyze(ctx, symbol)
		if err != nil {
			return nil, err
		}
		analyses = append(analyses, a)
	}
	return scoring.Rank(analyses, s.weights), nil
}
