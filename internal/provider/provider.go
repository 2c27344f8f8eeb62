// Package provider defines the data collaborators the screener pulls from:
// daily bars, news headlines, insider activity, options open interest, and
// upcoming earnings dates. Each concern is its own small interface so the
// screener can mix a live source with fixtures per factor.
package provider

import (
	"context"
	"time"

	"revoscan/internal/domain"
)

// BarProvider returns daily OHLCV bars for a symbol, oldest first.
type BarProvider interface {
	DailyBars(ctx context.Context, symbol string, start, end time.Time) ([]domain.Bar, error)
}

// NewsProvider returns scored news headlines for a symbol within a window.
type NewsProvider interface {
	Headlines(ctx context.Context, symbol string, start, end time.Time) ([]domain.Headline, error)
}

// InsiderProvider classifies recent insider transaction flow for a symbol.
type InsiderProvider interface {
	InsiderActivity(ctx context.Context, symbol string) (domain.InsiderActivity, error)
}

// OptionsProvider returns the call share of total option open interest for
// a symbol. ok is false when no chain data is available.
type OptionsProvider interface {
	CallOpenInterestRatio(ctx context.Context, symbol string) (ratio float64, ok bool, err error)
}

// EarningsProvider returns the number of days from now until the symbol's
// next earnings event. ok is false when the date is unknown.
type EarningsProvider interface {
	DaysUntilEarnings(ctx context.Context, symbol string, now time.Time) (days int, ok bool, err error)
}

// ---------------------------------------------------------------------------
// Static provider
// ---------------------------------------------------------------------------

var _ BarProvider = (*Static)(nil)
var _ NewsProvider = (*Static)(nil)
var _ InsiderProvider = (*Static)(nil)
var _ OptionsProvider = (*Static)(nil)
var _ EarningsProvider = (*Static)(nil)

// Static serves fixed per-symbol data and implements every provider
// interface. It backs tests and offline runs.
type Static struct {
	Bars      map[string][]domain.Bar
	News      map[string][]domain.Headline
	Insiders  map[string]domain.InsiderActivity
	CallRatio map[string]float64
	Earnings  map[string]int // days until next earnings
}

// NewStatic returns an empty Static provider ready to be populated.
func NewStatic() *Static {
	return &Static{
		Bars:      make(map[string][]domain.Bar),
		News:      make(map[string][]domain.Headline),
		Insiders:  make(map[string]domain.InsiderActivity),
		CallRatio: make(map[string]float64),
		Earnings:  make(map[string]int),
	}
}

// DailyBars returns the fixture bars for symbol that fall inside the window.
func (s *Static) DailyBars(_ context.Context, symbol string, start, end time.Time) ([]domain.Bar, error) {
	var out []domain.Bar
	for _, b := range s.Bars[symbol] {
		if b.Timestamp.Before(start) || b.Timestamp.After(end) {
			continue
		}
		out = append(out, b)
	}
	return out, nil
}

// Headlines returns the fixture headlines for symbol inside the window.
func (s *Static) Headlines(_ context.Context, symbol string, start, end time.Time) ([]domain.Headline, error) {
	var out []domain.Headline
	for _, h := range s.News[symbol] {
		if h.Time.Before(start) || h.Time.After(end) {
			continue
		}
		out = append(out, h)
	}
	return out, nil
}

// InsiderActivity returns the fixture classification, defaulting to neutral.
func (s *Static) InsiderActivity(_ context.Context, symbol string) (domain.InsiderActivity, error) {
	if a, found := s.Insiders[symbol]; found {
		return a, nil
	}
	return domain.InsiderNeutral, nil
}

// CallOpenInterestRatio returns the fixture call ratio if one was set.
func (s *Static) CallOpenInterestRatio(_ context.Context, symbol string) (float64, bool, error) {
	r, found := s.CallRatio[symbol]
	return r, found, nil
}

// DaysUntilEarnings returns the fixture earnings distance if one was set.
func (s *Static) DaysUntilEarnings(_ context.Context, symbol string, _ time.Time) (int, bool, error) {
	d, found := s.Earnings[symbol]
	return d, found, nil
}
