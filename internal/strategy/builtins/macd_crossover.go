package builtins

import (
	"revoscan/internal/domain"
	"revoscan/internal/indicator"
	"revoscan/internal/strategy"
)

// Compile-time interface check.
var _ strategy.Strategy = (*MACDCrossover)(nil)

// MACDCrossover buys when the MACD line crosses above its signal line and
// sells when it crosses below. Crossing events are forward-filled into a
// held position until the next opposite cross.
type MACDCrossover struct {
	params strategy.Params
}

// NewMACDCrossover creates the strategy with defaults (fast 12, slow 26,
// signal 9) and the given overrides applied.
func NewMACDCrossover(overrides strategy.Params) *MACDCrossover {
	p := strategy.Params{
		"fast_period":   12,
		"slow_period":   26,
		"signal_period": 9,
	}
	p.Apply(overrides)
	return &MACDCrossover{params: p}
}

func (s *MACDCrossover) Name() string { return "MACD Crossover" }

func (s *MACDCrossover) Description() string {
	return "Buy when MACD crosses above signal line, sell when crosses below"
}

func (s *MACDCrossover) Params() strategy.Params { return s.params.Clone() }

func (s *MACDCrossover) SetParams(p strategy.Params) { s.params.Apply(p) }

func (s *MACDCrossover) ParamSchema() []strategy.ParamSpec {
	return []strategy.ParamSpec{
		{Name: "fast_period", Value: s.params["fast_period"], Min: 5, Max: 20, Type: "int",
			Description: "Fast EMA period"},
		{Name: "slow_period", Value: s.params["slow_period"], Min: 15, Max: 50, Type: "int",
			Description: "Slow EMA period"},
		{Name: "signal_period", Value: s.params["signal_period"], Min: 5, Max: 15, Type: "int",
			Description: "Signal line period"},
	}
}

// GenerateSignals marks the crossing bars and forward-fills them into held
// positions.
func (s *MACDCrossover) GenerateSignals(bars []domain.Bar) []domain.Signal {
	macd, signalLine, _ := indicator.MACD(
		domain.Closes(bars),
		s.params.Int("fast_period"),
		s.params.Int("slow_period"),
		s.params.Int("signal_period"),
	)

	signals := make([]domain.Signal, len(bars))
	for i := 1; i < len(bars); i++ {
		crossedUp := macd[i] > signalLine[i] && macd[i-1] <= signalLine[i-1]
		crossedDown := macd[i] < signalLine[i] && macd[i-1] >= signalLine[i-1]
		switch {
		case crossedUp:
			signals[i] = domain.SignalLong
		case crossedDown:
			signals[i] = domain.SignalExit
		}
	}
	return strategy.HoldPositions(signals)
}
