package builtins

import (
	"revoscan/internal/domain"
	"revoscan/internal/indicator"
	"revoscan/internal/strategy"
)

// Compile-time interface check.
var _ strategy.Strategy = (*VolatilityBreakout)(nil)

// exitATRMultiplier widens the downside exit level relative to the entry
// breakout level.
const exitATRMultiplier = 2.0

// VolatilityBreakout buys when the close breaks above the previous bar's
// high plus an ATR cushion and exits when the close falls below the previous
// bar's low minus twice the ATR. Breakout events are forward-filled into a
// held position; an entry latches only from a flat state.
type VolatilityBreakout struct {
	params strategy.Params
}

// NewVolatilityBreakout creates the strategy with defaults (atr_period 14,
// atr_multiplier 1.5) and the given overrides applied.
func NewVolatilityBreakout(overrides strategy.Params) *VolatilityBreakout {
	p := strategy.Params{
		"atr_period":     14,
		"atr_multiplier": 1.5,
	}
	p.Apply(overrides)
	return &VolatilityBreakout{params: p}
}

func (s *VolatilityBreakout) Name() string { return "Volatility Breakout (ATR)" }

func (s *VolatilityBreakout) Description() string {
	return "Buy when price breaks above range with ATR confirmation"
}

func (s *VolatilityBreakout) Params() strategy.Params { return s.params.Clone() }

func (s *VolatilityBreakout) SetParams(p strategy.Params) { s.params.Apply(p) }

func (s *VolatilityBreakout) ParamSchema() []strategy.ParamSpec {
	return []strategy.ParamSpec{
		{Name: "atr_period", Value: s.params["atr_period"], Min: 7, Max: 30, Type: "int",
			Description: "ATR calculation period"},
		{Name: "atr_multiplier", Value: s.params["atr_multiplier"], Min: 0.5, Max: 3.0, Type: "float",
			Description: "ATR multiplier for breakout"},
	}
}

// GenerateSignals marks breakout and exit bars, then forward-fills into held
// positions. NaN ATR during warm-up compares false and stays flat.
func (s *VolatilityBreakout) GenerateSignals(bars []domain.Bar) []domain.Signal {
	atr := indicator.ATR(bars, s.params.Int("atr_period"))
	mult := s.params["atr_multiplier"]

	signals := make([]domain.Signal, len(bars))
	for i := 1; i < len(bars); i++ {
		upperBreakout := bars[i-1].High + atr[i]*mult
		lowerExit := bars[i-1].Low - atr[i]*exitATRMultiplier
		switch {
		case bars[i].Close > upperBreakout:
			signals[i] = domain.SignalLong
		case bars[i].Close < lowerExit:
			signals[i] = domain.SignalExit
		}
	}
	return strategy.HoldPositions(signals)
}
