package builtins

import (
	"math"

	"revoscan/internal/domain"
	"revoscan/internal/indicator"
	"revoscan/internal/strategy"
)

// Compile-time interface check.
var _ strategy.Strategy = (*Momentum)(nil)

const (
	shortROCLookback = 5
	trendSMAPeriod   = 50
)

// Momentum is a multi-timeframe momentum strategy: it buys when the main
// rate of change exceeds a threshold with short-term momentum and trend
// confirmation, and exits on momentum reversal. Events are forward-filled
// into a held position.
type Momentum struct {
	params strategy.Params
}

// NewMomentum creates the strategy with defaults (momentum_period 20,
// roc_threshold 5.0) and the given overrides applied.
func NewMomentum(overrides strategy.Params) *Momentum {
	p := strategy.Params{
		"momentum_period": 20,
		"roc_threshold":   5.0,
	}
	p.Apply(overrides)
	return &Momentum{params: p}
}

func (s *Momentum) Name() string { return "Momentum (Multi-TF)" }

func (s *Momentum) Description() string {
	return "Momentum-based trading with ROC confirmation"
}

func (s *Momentum) Params() strategy.Params { return s.params.Clone() }

func (s *Momentum) SetParams(p strategy.Params) { s.params.Apply(p) }

func (s *Momentum) ParamSchema() []strategy.ParamSpec {
	return []strategy.ParamSpec{
		{Name: "momentum_period", Value: s.params["momentum_period"], Min: 10, Max: 50, Type: "int",
			Description: "Momentum lookback period"},
		{Name: "roc_threshold", Value: s.params["roc_threshold"], Min: 2.0, Max: 15.0, Type: "float",
			Description: "ROC threshold for signals"},
	}
}

// GenerateSignals buys when the main ROC exceeds the threshold while the
// 5-bar ROC is positive and the close sits above the 50-bar SMA; it sells
// when the main ROC drops below the negative threshold or short-term
// momentum flips negative right after positive main momentum. Events are
// forward-filled into held positions.
func (s *Momentum) GenerateSignals(bars []domain.Bar) []domain.Signal {
	closes := domain.Closes(bars)
	roc := indicator.ROC(closes, s.params.Int("momentum_period"))
	rocShort := indicator.ROC(closes, shortROCLookback)
	sma50 := indicator.SMA(closes, trendSMAPeriod)

	threshold := s.params["roc_threshold"]

	signals := make([]domain.Signal, len(bars))
	for i := range bars {
		buy := roc[i] > threshold && rocShort[i] > 0 && closes[i] > sma50[i]

		prevROC := math.NaN()
		if i > 0 {
			prevROC = roc[i-1]
		}
		sell := roc[i] < -threshold || (rocShort[i] < 0 && prevROC > 0)

		// Sell wins when both conditions fire on the same bar.
		switch {
		case sell:
			signals[i] = domain.SignalExit
		case buy:
			signals[i] = domain.SignalLong
		}
	}
	return strategy.HoldPositions(signals)
}
