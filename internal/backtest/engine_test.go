package backtest

import (
	"math"
	"strings"
	"testing"
	"time"

	"revoscan/internal/domain"
	"revoscan/internal/strategy/builtins"
)

func barsFromCloses(closes []float64) []domain.Bar {
	bars := make([]domain.Bar, len(closes))
	day := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)
	for i, c := range closes {
		bars[i] = domain.Bar{
			Symbol:    "TEST",
			Timestamp: day.AddDate(0, 0, i),
			Open:      c,
			High:      c,
			Low:       c,
			Close:     c,
			Volume:    1000,
		}
	}
	return bars
}

func allSignals(n int, s domain.Signal) []domain.Signal {
	out := make([]domain.Signal, n)
	for i := range out {
		out[i] = s
	}
	return out
}

func TestRunAllZeroSignals(t *testing.T) {
	bars := barsFromCloses([]float64{100, 105, 95, 110, 108})
	e := NewEngine(10000)

	res := e.Run(bars, allSignals(len(bars), domain.SignalFlat))

	for i, r := range res.StrategyReturn {
		if r != 0 {
			t.Errorf("StrategyReturn[%d] = %v, want 0", i, r)
		}
	}
	for i, dd := range res.Drawdown {
		if dd != 0 {
			t.Errorf("Drawdown[%d] = %v, want 0", i, dd)
		}
	}
	if got := res.Summary.FinalValue; got != 10000 {
		t.Errorf("FinalValue = %v, want exactly 10000", got)
	}
	if !math.IsInf(res.Summary.ProfitFactor, 1) {
		t.Errorf("ProfitFactor = %v, want +Inf sentinel with no losing periods", res.Summary.ProfitFactor)
	}
	if res.Summary.Trades != 0 {
		t.Errorf("Trades = %d, want 0", res.Summary.Trades)
	}
}

// A constant +1 signal reproduces buy-and-hold: the lag only drops the
// (nonexistent) return before the first bar.
func TestRunConstantLongMatchesBuyAndHold(t *testing.T) {
	closes := []float64{100, 102, 101, 107, 112, 109, 118}
	bars := barsFromCloses(closes)
	e := NewEngine(10000)

	res := e.Run(bars, allSignals(len(bars), domain.SignalLong))

	want := 10000 * closes[len(closes)-1] / closes[0]
	if math.Abs(res.Summary.FinalValue-want) > 1e-6 {
		t.Errorf("FinalValue = %v, want buy-and-hold %v", res.Summary.FinalValue, want)
	}
}

func TestRunDrawdown(t *testing.T) {
	// +10% then -20%.
	bars := barsFromCloses([]float64{100, 110, 88})
	e := NewEngine(10000)

	res := e.Run(bars, allSignals(3, domain.SignalLong))

	if got := res.PortfolioValue[1]; math.Abs(got-11000) > 1e-9 {
		t.Errorf("PortfolioValue[1] = %v, want 11000", got)
	}
	if got := res.PortfolioValue[2]; math.Abs(got-8800) > 1e-9 {
		t.Errorf("PortfolioValue[2] = %v, want 8800", got)
	}
	if got := res.Summary.MaxDrawdownPct; math.Abs(got-(-20)) > 1e-9 {
		t.Errorf("MaxDrawdownPct = %v, want -20", got)
	}
	for i, dd := range res.Drawdown {
		if dd > 0 {
			t.Errorf("Drawdown[%d] = %v, must never be positive", i, dd)
		}
	}
}

func TestRunSignalLag(t *testing.T) {
	// Signal fires at bar 1; only bar 2's return should be captured.
	bars := barsFromCloses([]float64{100, 100, 110, 110})
	signals := []domain.Signal{0, 1, 0, 0}
	e := NewEngine(10000)

	res := e.Run(bars, signals)

	if res.StrategyReturn[1] != 0 {
		t.Errorf("StrategyReturn[1] = %v, want 0 (no position at close of bar 0)", res.StrategyReturn[1])
	}
	if math.Abs(res.StrategyReturn[2]-0.10) > 1e-9 {
		t.Errorf("StrategyReturn[2] = %v, want 0.10 from the lagged signal", res.StrategyReturn[2])
	}
	if res.StrategyReturn[3] != 0 {
		t.Errorf("StrategyReturn[3] = %v, want 0 after the signal ends", res.StrategyReturn[3])
	}
}

func TestRunWinRateAndProfitFactor(t *testing.T) {
	// Two winning periods (+10%, +5%), one losing (-5%).
	bars := barsFromCloses([]float64{100, 110, 104.5, 109.725})
	e := NewEngine(10000)

	res := e.Run(bars, allSignals(4, domain.SignalLong))
	s := res.Summary

	if math.Abs(s.WinRatePct-100.0*2/3) > 1e-6 {
		t.Errorf("WinRatePct = %v, want %v", s.WinRatePct, 100.0*2/3)
	}
	wantPF := (0.10 + 0.05) / 0.05
	if math.Abs(s.ProfitFactor-wantPF) > 1e-6 {
		t.Errorf("ProfitFactor = %v, want %v", s.ProfitFactor, wantPF)
	}
	if s.AvgWinPct <= 0 {
		t.Errorf("AvgWinPct = %v, want positive", s.AvgWinPct)
	}
	if s.AvgLossPct >= 0 {
		t.Errorf("AvgLossPct = %v, want negative", s.AvgLossPct)
	}
}

func TestRunNoLossesSortinoZero(t *testing.T) {
	// Every held period gains; with no downside observations the Sortino
	// denominator is zero and the ratio reports 0, like the other guarded
	// ratios.
	bars := barsFromCloses([]float64{100, 105, 110.25, 115.7625})
	e := NewEngine(10000)

	res := e.Run(bars, allSignals(4, domain.SignalLong))
	if res.Summary.SortinoRatio != 0 {
		t.Errorf("SortinoRatio = %v, want 0 with no losing periods", res.Summary.SortinoRatio)
	}
	if !math.IsInf(res.Summary.ProfitFactor, 1) {
		t.Errorf("ProfitFactor = %v, want +Inf with no losing periods", res.Summary.ProfitFactor)
	}
}

func TestRunRiskFreeRate(t *testing.T) {
	// +10%, -5%, -2%: two distinct losing periods keep the downside
	// deviation nonzero so both ratios respond to the rate.
	bars := barsFromCloses([]float64{100, 110, 104.5, 102.41})
	signals := allSignals(4, domain.SignalLong)

	low := NewEngine(10000)
	low.RiskFreeRate = 0
	high := NewEngine(10000)
	high.RiskFreeRate = 0.08

	sLow := low.Run(bars, signals).Summary
	sHigh := high.Run(bars, signals).Summary

	vol := sLow.AnnualVolPct / 100
	wantDiff := 0.08 / vol
	if got := sLow.SharpeRatio - sHigh.SharpeRatio; math.Abs(got-wantDiff) > 1e-9 {
		t.Errorf("Sharpe spread between rates = %v, want %v", got, wantDiff)
	}
	if sLow.SortinoRatio <= sHigh.SortinoRatio {
		t.Errorf("Sortino at rate 0 (%v) should exceed Sortino at 0.08 (%v)",
			sLow.SortinoRatio, sHigh.SortinoRatio)
	}
}

func TestRunTradeCountProxy(t *testing.T) {
	bars := barsFromCloses([]float64{100, 101, 102, 103, 104, 105})
	// Transitions: 0->1, 1->0, 0->1 = 3 signal changes.
	signals := []domain.Signal{0, 1, 1, 0, 1, 1}
	e := NewEngine(10000)

	res := e.Run(bars, signals)
	if res.Summary.Trades != 3 {
		t.Errorf("Trades = %d, want 3 (signal-transition proxy)", res.Summary.Trades)
	}
}

func TestRunDegenerateInput(t *testing.T) {
	e := NewEngine(10000)

	for _, bars := range [][]domain.Bar{nil, barsFromCloses([]float64{100})} {
		res := e.Run(bars, allSignals(len(bars), domain.SignalLong))
		if res.Summary.FinalValue != 10000 {
			t.Errorf("FinalValue = %v, want 10000 for %d bars", res.Summary.FinalValue, len(bars))
		}
		if res.Summary.SharpeRatio != 0 || res.Summary.Trades != 0 {
			t.Error("degenerate input should produce zeroed metrics")
		}
	}

	// Mismatched lengths degrade the same way.
	res := e.Run(barsFromCloses([]float64{100, 101, 102}), allSignals(2, domain.SignalLong))
	if res.Summary.FinalValue != 10000 {
		t.Errorf("FinalValue = %v, want 10000 on length mismatch", res.Summary.FinalValue)
	}
}

// Ten flat bars produce a final value of exactly the initial capital for
// every built-in strategy: zero price deltas must not fabricate returns.
func TestFlatPriceAllStrategies(t *testing.T) {
	bars := barsFromCloses([]float64{100, 100, 100, 100, 100, 100, 100, 100, 100, 100})
	r := builtins.NewRegistry()
	e := NewEngine(10000)

	for _, key := range r.List() {
		s, err := r.New(key, nil)
		if err != nil {
			t.Fatalf("New(%s): %v", key, err)
		}
		res := e.Run(bars, s.GenerateSignals(bars))
		if got := res.Summary.FinalValue; got != 10000 {
			t.Errorf("%s: FinalValue = %v, want exactly 10000 on flat prices", key, got)
		}
	}
}

func TestSummaryMarshalInfProfitFactor(t *testing.T) {
	s := Summary{ProfitFactor: math.Inf(1)}
	data, err := s.MarshalJSON()
	if err != nil {
		t.Fatalf("MarshalJSON: %v", err)
	}
	if want := `"profitFactor":"inf"`; !strings.Contains(string(data), want) {
		t.Errorf("marshalled summary %s does not contain %s", data, want)
	}

	s.ProfitFactor = 1.5
	data, err = s.MarshalJSON()
	if err != nil {
		t.Fatalf("MarshalJSON: %v", err)
	}
	if want := `"profitFactor":1.5`; !strings.Contains(string(data), want) {
		t.Errorf("marshalled summary %s does not contain %s", data, want)
	}
}
