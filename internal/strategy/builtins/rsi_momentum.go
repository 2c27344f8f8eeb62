package builtins

import (
	"revoscan/internal/domain"
	"revoscan/internal/indicator"
	"revoscan/internal/strategy"
)

// Compile-time interface check.
var _ strategy.Strategy = (*RSIMomentum)(nil)

// RSIMomentum buys when RSI drops below the oversold threshold and sells
// when it rises above the overbought threshold. Signals are instantaneous
// per-bar level checks, not held positions.
type RSIMomentum struct {
	params strategy.Params
}

// NewRSIMomentum creates the strategy with defaults (period 14, oversold 30,
// overbought 70) and the given overrides applied.
func NewRSIMomentum(overrides strategy.Params) *RSIMomentum {
	p := strategy.Params{
		"period":     14,
		"oversold":   30,
		"overbought": 70,
	}
	p.Apply(overrides)
	return &RSIMomentum{params: p}
}

func (s *RSIMomentum) Name() string { return "RSI Momentum" }

func (s *RSIMomentum) Description() string {
	return "Buy at RSI < 30, sell at RSI > 70"
}

func (s *RSIMomentum) Params() strategy.Params { return s.params.Clone() }

func (s *RSIMomentum) SetParams(p strategy.Params) { s.params.Apply(p) }

func (s *RSIMomentum) ParamSchema() []strategy.ParamSpec {
	return []strategy.ParamSpec{
		{Name: "period", Value: s.params["period"], Min: 5, Max: 30, Type: "int",
			Description: "RSI calculation period"},
		{Name: "oversold", Value: s.params["oversold"], Min: 10, Max: 40, Type: "int",
			Description: "Oversold threshold (buy signal)"},
		{Name: "overbought", Value: s.params["overbought"], Min: 60, Max: 90, Type: "int",
			Description: "Overbought threshold (sell signal)"},
	}
}

// GenerateSignals emits +1 below the oversold level and -1 above the
// overbought level. NaN RSI during warm-up compares false and stays flat.
func (s *RSIMomentum) GenerateSignals(bars []domain.Bar) []domain.Signal {
	rsi := indicator.RSI(domain.Closes(bars), s.params.Int("period"))

	oversold := s.params["oversold"]
	overbought := s.params["overbought"]

	signals := make([]domain.Signal, len(bars))
	for i := range bars {
		switch {
		case rsi[i] < oversold:
			signals[i] = domain.SignalLong
		case rsi[i] > overbought:
			signals[i] = domain.SignalExit
		}
	}
	return signals
}
