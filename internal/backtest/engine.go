// Package backtest converts a per-bar signal sequence plus a price series
// into strategy returns, an equity curve, and a battery of risk-adjusted
// performance metrics. The engine fails soft: degenerate input produces a
// well-formed neutral result, never an error or panic.
package backtest

import (
	"encoding/json"
	"math"

	"revoscan/internal/domain"
)

const (
	// DefaultRiskFreeRate is the annualized risk-free rate used for Sharpe
	// and Sortino when the caller does not configure one.
	DefaultRiskFreeRate = 0.04

	// PeriodsPerYear assumes daily bars and 252 trading days.
	PeriodsPerYear = 252.0
)

// Engine runs signal-based backtests over daily bars.
type Engine struct {
	InitialCapital float64
	RiskFreeRate   float64
}

// NewEngine creates an Engine with the given starting capital and the
// default risk-free rate.
func NewEngine(initialCapital float64) *Engine {
	return &Engine{
		InitialCapital: initialCapital,
		RiskFreeRate:   DefaultRiskFreeRate,
	}
}

// Result holds the per-bar series derived from one backtest run plus the
// scalar metrics summary. Series are aligned with the input bars; warm-up
// values follow the conventions documented per field. A Result is created
// fresh on every run and never mutated afterwards.
type Result struct {
	// DailyReturn is close[i]/close[i-1] - 1; NaN at index 0.
	DailyReturn []float64
	// StrategyReturn is signal[i-1] * DailyReturn[i], lagged one bar so a
	// position taken at the close of bar i-1 earns the return over bar i.
	// Undefined values are 0.
	StrategyReturn []float64
	// Cumulative is the compounded strategy return fraction up to bar i.
	Cumulative []float64
	// PortfolioValue is capital * (1 + Cumulative).
	PortfolioValue []float64
	// Peak is the running portfolio high-water mark.
	Peak []float64
	// Drawdown is the percent decline from Peak, always <= 0.
	Drawdown []float64

	Summary Summary
}

// Summary is the scalar metrics block for one backtest run.
type Summary struct {
	InitialCapital  float64 `json:"initialCapital"`
	FinalValue      float64 `json:"finalValue"`
	NetProfit       float64 `json:"netProfit"`
	NetProfitPct    float64 `json:"netProfitPct"`
	MaxDrawdownPct  float64 `json:"maxDrawdownPct"` // <= 0
	AnnualReturnPct float64 `json:"annualReturnPct"`
	AnnualVolPct    float64 `json:"annualVolPct"`
	SharpeRatio     float64 `json:"sharpeRatio"`
	SortinoRatio    float64 `json:"sortinoRatio"`
	CalmarRatio     float64 `json:"calmarRatio"`
	WinRatePct      float64 `json:"winRatePct"`
	ProfitFactor    float64 `json:"profitFactor"`
	AvgWinPct       float64 `json:"avgWinPct"`
	AvgLossPct      float64 `json:"avgLossPct"` // <= 0
	Trades          int     `json:"trades"`
	ObservedPeriods int     `json:"observedPeriods"`
}

// MarshalJSON renders the +Inf profit-factor sentinel as the string "inf",
// since JSON has no infinity literal.
func (s Summary) MarshalJSON() ([]byte, error) {
	type alias Summary
	out := struct {
		alias
		ProfitFactor any `json:"profitFactor"`
	}{alias: alias(s), ProfitFactor: s.ProfitFactor}
	if math.IsInf(s.ProfitFactor, 1) {
		out.ProfitFactor = "inf"
	}
	return json.Marshal(out)
}

// Run executes a backtest over aligned bars and signals. Empty or
// mismatched input, or fewer than two bars, yields a neutral result with
// the portfolio flat at the initial capital.
func (e *Engine) Run(bars []domain.Bar, signals []domain.Signal) *Result {
	capital := e.InitialCapital
	n := len(bars)
	if n < 2 || len(signals) != n {
		return e.neutralResult(n)
	}

	res := &Result{
		DailyReturn:    make([]float64, n),
		StrategyReturn: make([]float64, n),
		Cumulative:     make([]float64, n),
		PortfolioValue: make([]float64, n),
		Peak:           make([]float64, n),
		Drawdown:       make([]float64, n),
	}

	// Per-bar series.
	res.DailyReturn[0] = math.NaN()
	cum := 1.0
	for i := 0; i < n; i++ {
		if i > 0 {
			if bars[i-1].Close != 0 {
				res.DailyReturn[i] = bars[i].Close/bars[i-1].Close - 1
			}
			res.StrategyReturn[i] = float64(signals[i-1]) * res.DailyReturn[i]
			if math.IsNaN(res.StrategyReturn[i]) {
				res.StrategyReturn[i] = 0
			}
		}
		cum *= 1 + res.StrategyReturn[i]
		res.Cumulative[i] = cum - 1
		res.PortfolioValue[i] = capital * cum

		if i == 0 || res.PortfolioValue[i] > res.Peak[i-1] {
			res.Peak[i] = res.PortfolioValue[i]
		} else {
			res.Peak[i] = res.Peak[i-1]
		}
		if res.Peak[i] != 0 {
			res.Drawdown[i] = (res.PortfolioValue[i] - res.Peak[i]) / res.Peak[i] * 100
		}
	}

	res.Summary = e.summarize(res, signals)
	return res
}

// summarize computes the scalar metrics from the per-bar series.
func (e *Engine) summarize(res *Result, signals []domain.Signal) Summary {
	capital := e.InitialCapital
	n := len(res.PortfolioValue)
	final := res.PortfolioValue[n-1]

	s := Summary{
		InitialCapital:  capital,
		FinalValue:      final,
		NetProfit:       final - capital,
		ObservedPeriods: n - 1,
	}
	if capital != 0 {
		s.NetProfitPct = s.NetProfit / capital * 100
	}

	// Max drawdown.
	for _, dd := range res.Drawdown {
		if dd < s.MaxDrawdownPct {
			s.MaxDrawdownPct = dd
		}
	}

	// Trade count: bars where the signal differs from the prior bar. A
	// rough proxy, not a round-trip counter; forward-filled strategies
	// count entry and exit separately.
	for i := 1; i < len(signals); i++ {
		if signals[i] != signals[i-1] {
			s.Trades++
		}
	}

	// Win/loss tallies over the observed return periods.
	returns := res.StrategyReturn[1:]
	var wins, losses, nonzero int
	var sumWin, sumLoss float64
	for _, r := range returns {
		switch {
		case r > 0:
			wins++
			nonzero++
			sumWin += r
		case r < 0:
			losses++
			nonzero++
			sumLoss += r
		}
	}
	if nonzero > 0 {
		s.WinRatePct = float64(wins) / float64(nonzero) * 100
	}
	if losses > 0 {
		s.ProfitFactor = math.Abs(sumWin / sumLoss)
	} else {
		s.ProfitFactor = math.Inf(1)
	}
	if wins > 0 {
		s.AvgWinPct = sumWin / float64(wins) * 100
	}
	if losses > 0 {
		s.AvgLossPct = sumLoss / float64(losses) * 100
	}

	// Annualized return and volatility.
	periods := float64(len(returns))
	totalReturn := res.Cumulative[n-1]
	annualReturn := math.Pow(1+totalReturn, PeriodsPerYear/periods) - 1
	annualVol := sampleStd(returns) * math.Sqrt(PeriodsPerYear)
	s.AnnualReturnPct = annualReturn * 100
	s.AnnualVolPct = annualVol * 100

	// Risk-adjusted ratios with guarded denominators.
	if annualVol > 0 {
		s.SharpeRatio = (annualReturn - e.RiskFreeRate) / annualVol
	}

	downside := make([]float64, 0, len(returns))
	for _, r := range returns {
		if r < 0 {
			downside = append(downside, r)
		}
	}
	downsideVol := sampleStd(downside) * math.Sqrt(PeriodsPerYear)
	if downsideVol > 0 {
		s.SortinoRatio = (annualReturn - e.RiskFreeRate) / downsideVol
	}

	if maxDDFrac := math.Abs(s.MaxDrawdownPct) / 100; maxDDFrac > 0 {
		s.CalmarRatio = annualReturn / maxDDFrac
	}

	return s
}

// neutralResult is the fail-soft output for degenerate input: a flat
// portfolio at the initial capital with zeroed metrics.
func (e *Engine) neutralResult(n int) *Result {
	res := &Result{
		DailyReturn:    make([]float64, n),
		StrategyReturn: make([]float64, n),
		Cumulative:     make([]float64, n),
		PortfolioValue: make([]float64, n),
		Peak:           make([]float64, n),
		Drawdown:       make([]float64, n),
	}
	for i := 0; i < n; i++ {
		res.PortfolioValue[i] = e.InitialCapital
		res.Peak[i] = e.InitialCapital
		if i == 0 {
			res.DailyReturn[i] = math.NaN()
		}
	}
	res.Summary = Summary{
		InitialCapital: e.InitialCapital,
		FinalValue:     e.InitialCapital,
	}
	return res
}

// sampleStd is the sample standard deviation (ddof=1), 0 for fewer than two
// observations.
func sampleStd(xs []float64) float64 {
	if len(xs) < 2 {
		return 0
	}
	var mean float64
	for _, x := range xs {
		mean += x
	}
	mean /= float64(len(xs))

	var ss float64
	for _, x := range xs {
		d := x - mean
		ss += d * d
	}
	return math.Sqrt(ss / float64(len(xs)-1))
}
