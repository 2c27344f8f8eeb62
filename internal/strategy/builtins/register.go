package builtins

import "revoscan/internal/strategy"

// Keys for the built-in strategies.
const (
	KeyBollingerBreakout  = "bollinger_breakout"
	KeyMeanReversion      = "mean_reversion"
	KeyRSIMomentum        = "rsi_momentum"
	KeyMACDCrossover      = "macd_crossover"
	KeyDualMA             = "dual_ma"
	KeyVolatilityBreakout = "volatility_breakout"
	KeyMomentum           = "momentum"
)

// NewRegistry returns a strategy registry with all built-in strategies
// registered.
func NewRegistry() *strategy.Registry {
	r := strategy.NewRegistry()
	r.Register(KeyBollingerBreakout, func(p strategy.Params) strategy.Strategy { return NewBollingerBreakout(p) })
	r.Register(KeyMeanReversion, func(p strategy.Params) strategy.Strategy { return NewMeanReversion(p) })
	r.Register(KeyRSIMomentum, func(p strategy.Params) strategy.Strategy { return NewRSIMomentum(p) })
	r.Register(KeyMACDCrossover, func(p strategy.Params) strategy.Strategy { return NewMACDCrossover(p) })
	r.Register(KeyDualMA, func(p strategy.Params) strategy.Strategy { return NewDualMA(p) })
	r.Register(KeyVolatilityBreakout, func(p strategy.Params) strategy.Strategy { return NewVolatilityBreakout(p) })
	r.Register(KeyMomentum, func(p strategy.Params) strategy.Strategy { return NewMomentum(p) })
	return r
}
