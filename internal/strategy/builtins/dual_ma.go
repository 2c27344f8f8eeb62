package builtins

import (
	"revoscan/internal/domain"
	"revoscan/internal/indicator"
	"revoscan/internal/strategy"
)

// Compile-time interface check.
var _ strategy.Strategy = (*DualMA)(nil)

// DualMA is the classic Golden Cross / Death Cross strategy: buy when the
// short SMA crosses above the long SMA, sell when it crosses below. Crossing
// events are forward-filled into a held position.
type DualMA struct {
	params strategy.Params
}

// NewDualMA creates the strategy with defaults (short 50, long 200) and the
// given overrides applied.
func NewDualMA(overrides strategy.Params) *DualMA {
	p := strategy.Params{
		"short_period": 50,
		"long_period":  200,
	}
	p.Apply(overrides)
	return &DualMA{params: p}
}

func (s *DualMA) Name() string { return "Dual MA (Golden Cross)" }

func (s *DualMA) Description() string {
	return "Buy on Golden Cross (short SMA > long SMA), sell on Death Cross"
}

func (s *DualMA) Params() strategy.Params { return s.params.Clone() }

func (s *DualMA) SetParams(p strategy.Params) { s.params.Apply(p) }

func (s *DualMA) ParamSchema() []strategy.ParamSpec {
	return []strategy.ParamSpec{
		{Name: "short_period", Value: s.params["short_period"], Min: 10, Max: 100, Type: "int",
			Description: "Short-term MA period"},
		{Name: "long_period", Value: s.params["long_period"], Min: 100, Max: 300, Type: "int",
			Description: "Long-term MA period"},
	}
}

// GenerateSignals detects SMA crossovers and forward-fills them into held
// positions. NaN SMA values during warm-up compare false, so no crossing can
// trigger before both windows are full.
func (s *DualMA) GenerateSignals(bars []domain.Bar) []domain.Signal {
	closes := domain.Closes(bars)
	short := indicator.SMA(closes, s.params.Int("short_period"))
	long := indicator.SMA(closes, s.params.Int("long_period"))

	signals := make([]domain.Signal, len(bars))
	for i := 1; i < len(bars); i++ {
		goldenCross := short[i] > long[i] && short[i-1] <= long[i-1]
		deathCross := short[i] < long[i] && short[i-1] >= long[i-1]
		switch {
		case goldenCross:
			signals[i] = domain.SignalLong
		case deathCross:
			signals[i] = domain.SignalExit
		}
	}
	return strategy.HoldPositions(signals)
}
