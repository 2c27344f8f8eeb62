// Package builtins provides the built-in strategy implementations that ship
// with revoscan. Each strategy owns its parameter defaults and declared
// bounds, and documents whether its signal sequence is instantaneous
// (non-zero only on the triggering bar) or a forward-filled held position.
package builtins

import (
	"revoscan/internal/domain"
	"revoscan/internal/indicator"
	"revoscan/internal/strategy"
)

// Compile-time interface check.
var _ strategy.Strategy = (*BollingerBreakout)(nil)

// BollingerBreakout buys when the close breaks above the upper Bollinger
// band and sells when it breaks below the lower band. Signals are
// instantaneous: only the breakout bar carries a non-zero signal.
type BollingerBreakout struct {
	params strategy.Params
}

// NewBollingerBreakout creates the strategy with defaults (period 20,
// std_dev 2.0) and the given overrides applied.
func NewBollingerBreakout(overrides strategy.Params) *BollingerBreakout {
	p := strategy.Params{
		"period":  20,
		"std_dev": 2.0,
	}
	p.Apply(overrides)
	return &BollingerBreakout{params: p}
}

func (s *BollingerBreakout) Name() string { return "Bollinger Band Breakout" }

func (s *BollingerBreakout) Description() string {
	return "Buy when price > upper band, sell when price < lower band"
}

func (s *BollingerBreakout) Params() strategy.Params { return s.params.Clone() }

func (s *BollingerBreakout) SetParams(p strategy.Params) { s.params.Apply(p) }

func (s *BollingerBreakout) ParamSchema() []strategy.ParamSpec {
	return []strategy.ParamSpec{
		{Name: "period", Value: s.params["period"], Min: 5, Max: 50, Type: "int",
			Description: "Lookback period for Bollinger Bands"},
		{Name: "std_dev", Value: s.params["std_dev"], Min: 1.0, Max: 3.0, Type: "float",
			Description: "Standard deviation multiplier"},
	}
}

// GenerateSignals emits +1 on bars closing above the upper band and -1 on
// bars closing below the lower band. NaN bands during warm-up compare false
// and leave the signal flat.
func (s *BollingerBreakout) GenerateSignals(bars []domain.Bar) []domain.Signal {
	closes := domain.Closes(bars)
	upper, _, lower := indicator.BollingerBands(closes, s.params.Int("period"), s.params["std_dev"])

	signals := make([]domain.Signal, len(bars))
	for i := range bars {
		switch {
		case closes[i] > upper[i]:
			signals[i] = domain.SignalLong
		case closes[i] < lower[i]:
			signals[i] = domain.SignalExit
		}
	}
	return signals
}
