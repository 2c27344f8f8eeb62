package builtins

import (
	"revoscan/internal/domain"
	"revoscan/internal/indicator"
	"revoscan/internal/strategy"
)

// Compile-time interface check.
var _ strategy.Strategy = (*MeanReversion)(nil)

// MeanReversion buys when the close drops below the lower Bollinger band and
// exits when it crosses back above the middle band. The signal is stateful:
// it reads +1 on every bar of the holding interval, -1 on the exit bar, and
// 0 while flat.
type MeanReversion struct {
	params strategy.Params
}

// NewMeanReversion creates the strategy with defaults (period 20,
// std_dev 2.0) and the given overrides applied.
func NewMeanReversion(overrides strategy.Params) *MeanReversion {
	p := strategy.Params{
		"period":  20,
		"std_dev": 2.0,
	}
	p.Apply(overrides)
	return &MeanReversion{params: p}
}

func (s *MeanReversion) Name() string { return "Mean Reversion" }

func (s *MeanReversion) Description() string {
	return "Buy when price < lower band, sell at the midline"
}

func (s *MeanReversion) Params() strategy.Params { return s.params.Clone() }

func (s *MeanReversion) SetParams(p strategy.Params) { s.params.Apply(p) }

func (s *MeanReversion) ParamSchema() []strategy.ParamSpec {
	return []strategy.ParamSpec{
		{Name: "period", Value: s.params["period"], Min: 5, Max: 50, Type: "int",
			Description: "Lookback period for Bollinger Bands"},
		{Name: "std_dev", Value: s.params["std_dev"], Min: 1.0, Max: 3.0, Type: "float",
			Description: "Standard deviation multiplier"},
	}
}

// GenerateSignals runs a sequential scan with an explicit position state:
// entries trigger only while flat, exits only while long.
func (s *MeanReversion) GenerateSignals(bars []domain.Bar) []domain.Signal {
	closes := domain.Closes(bars)
	_, middle, lower := indicator.BollingerBands(closes, s.params.Int("period"), s.params["std_dev"])

	signals := make([]domain.Signal, len(bars))
	position := domain.SignalFlat
	for i := 1; i < len(bars); i++ {
		if position == domain.SignalFlat {
			if closes[i] < lower[i] {
				signals[i] = domain.SignalLong
				position = domain.SignalLong
			}
		} else {
			if closes[i] > middle[i] {
				signals[i] = domain.SignalExit
				position = domain.SignalFlat
			} else {
				signals[i] = domain.SignalLong
			}
		}
	}
	return signals
}
