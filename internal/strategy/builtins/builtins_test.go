package builtins

import (
	"math"
	"testing"
	"time"

	"revoscan/internal/domain"
	"revoscan/internal/strategy"
)

// barsFromCloses synthesizes daily bars with a small intraday range around
// each close.
func barsFromCloses(closes []float64) []domain.Bar {
	bars := make([]domain.Bar, len(closes))
	day := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)
	for i, c := range closes {
		bars[i] = domain.Bar{
			Symbol:    "TEST",
			Timestamp: day.AddDate(0, 0, i),
			Open:      c,
			High:      c * 1.005,
			Low:       c * 0.995,
			Close:     c,
			Volume:    1_000_000,
		}
	}
	return bars
}

func flatBars(n int, price float64) []domain.Bar {
	closes := make([]float64, n)
	for i := range closes {
		closes[i] = price
	}
	bars := barsFromCloses(closes)
	// Remove the intraday range entirely: no movement at all.
	for i := range bars {
		bars[i].High = price
		bars[i].Low = price
	}
	return bars
}

func TestRegistryListsAllBuiltins(t *testing.T) {
	r := NewRegistry()
	want := []string{
		KeyBollingerBreakout, KeyDualMA, KeyMACDCrossover, KeyMeanReversion,
		KeyMomentum, KeyRSIMomentum, KeyVolatilityBreakout,
	}

	got := r.List()
	if len(got) != len(want) {
		t.Fatalf("List() returned %d strategies, want %d: %v", len(got), len(want), got)
	}
	for i, key := range want {
		if got[i] != key {
			t.Errorf("List()[%d] = %q, want %q (sorted)", i, got[i], key)
		}
	}
}

func TestRegistryNewAppliesOverrides(t *testing.T) {
	r := NewRegistry()

	s, err := r.New(KeyRSIMomentum, strategy.Params{"period": 7})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if got := s.Params()["period"]; got != 7 {
		t.Errorf("period = %v, want 7", got)
	}
	if got := s.Params()["oversold"]; got != 30 {
		t.Errorf("oversold = %v, want default 30", got)
	}
}

func TestRegistryNewUnknown(t *testing.T) {
	r := NewRegistry()
	if _, err := r.New("turtle", nil); err == nil {
		t.Fatal("expected error for unknown strategy key")
	}
}

func TestRegistryPermissiveVsStrict(t *testing.T) {
	r := NewRegistry()

	// Permissive construction accepts out-of-bounds values as-is.
	s, err := r.New(KeyDualMA, strategy.Params{"short_period": 5, "long_period": 20})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if got := s.Params()["short_period"]; got != 5 {
		t.Errorf("short_period = %v, want 5 (unvalidated)", got)
	}

	// Strict construction rejects the same values.
	if _, err := r.NewStrict(KeyDualMA, strategy.Params{"short_period": 5}); err == nil {
		t.Error("NewStrict should reject short_period below declared min")
	}
	if _, err := r.NewStrict(KeyDualMA, strategy.Params{"nope": 1}); err == nil {
		t.Error("NewStrict should reject undeclared parameter")
	}
	if _, err := r.NewStrict(KeyDualMA, strategy.Params{"short_period": 30}); err != nil {
		t.Errorf("NewStrict rejected in-bounds value: %v", err)
	}
}

func TestRegistryInfo(t *testing.T) {
	r := NewRegistry()

	info, err := r.Info(KeyBollingerBreakout)
	if err != nil {
		t.Fatalf("Info: %v", err)
	}
	if info.Name != "Bollinger Band Breakout" {
		t.Errorf("Name = %q", info.Name)
	}
	if len(info.Parameters) != 2 {
		t.Errorf("Parameters count = %d, want 2", len(info.Parameters))
	}

	if got := len(r.Infos()); got != 7 {
		t.Errorf("Infos() count = %d, want 7", got)
	}
}

// Inputs shorter than any lookback must yield all-neutral signals for every
// strategy, never a panic or error.
func TestAllStrategiesShortInput(t *testing.T) {
	r := NewRegistry()
	bars := barsFromCloses([]float64{100, 101, 99, 102, 98})

	for _, key := range r.List() {
		s, err := r.New(key, nil)
		if err != nil {
			t.Fatalf("New(%s): %v", key, err)
		}
		signals := s.GenerateSignals(bars)
		if len(signals) != len(bars) {
			t.Fatalf("%s: len(signals) = %d, want %d", key, len(signals), len(bars))
		}
		for i, sig := range signals {
			if sig != domain.SignalFlat {
				t.Errorf("%s: signals[%d] = %d, want 0 on short input", key, i, sig)
			}
		}
	}
}

func TestAllStrategiesEmptyInput(t *testing.T) {
	r := NewRegistry()
	for _, key := range r.List() {
		s, _ := r.New(key, nil)
		if got := s.GenerateSignals(nil); len(got) != 0 {
			t.Errorf("%s: GenerateSignals(nil) = %v, want empty", key, got)
		}
	}
}

// A strict 60-bar uptrend keeps RSI pinned high after warm-up, so the RSI
// strategy must not emit a single buy once the oscillator stabilizes.
func TestRSIMomentumNoBuysInStrictUptrend(t *testing.T) {
	closes := make([]float64, 60)
	for i := range closes {
		closes[i] = 100 + float64(i)*(60.0/59.0) // linear 100 -> 160
	}
	s := NewRSIMomentum(nil)

	signals := s.GenerateSignals(barsFromCloses(closes))
	for i := 20; i < len(signals); i++ {
		if signals[i] == domain.SignalLong {
			t.Errorf("signals[%d] = +1, want no buys after bar 20 in strict uptrend", i)
		}
	}
}

// A V-shaped series produces exactly one Golden Cross; the held-long state
// persists through the end because the series finishes above the crossover.
func TestDualMAVShapeSingleGoldenCross(t *testing.T) {
	closes := make([]float64, 60)
	for i := 0; i < 30; i++ {
		closes[i] = 150 - float64(i)*2 // decline 150 -> 92
	}
	for i := 30; i < 60; i++ {
		closes[i] = 92 + float64(i-30)*3 // recover 92 -> 179
	}

	s := NewDualMA(strategy.Params{"short_period": 5, "long_period": 20})
	signals := s.GenerateSignals(barsFromCloses(closes))

	entries := 0
	for i := 1; i < len(signals); i++ {
		if signals[i] == domain.SignalLong && signals[i-1] != domain.SignalLong {
			entries++
		}
	}
	if entries != 1 {
		t.Errorf("transitions into held-long = %d, want exactly 1", entries)
	}
	if signals[len(signals)-1] != domain.SignalLong {
		t.Error("series ends above the crossover, final signal should still be long")
	}
}

func TestBollingerBreakoutInstantaneous(t *testing.T) {
	// Gentle noise, then a single hard breakout bar, then back to quiet.
	closes := make([]float64, 40)
	for i := range closes {
		closes[i] = 100 + math.Sin(float64(i))*0.5
	}
	closes[30] = 120

	s := NewBollingerBreakout(nil)
	signals := s.GenerateSignals(barsFromCloses(closes))

	if signals[30] != domain.SignalLong {
		t.Errorf("signals[30] = %d, want +1 at the breakout bar", signals[30])
	}
	if signals[29] != domain.SignalFlat {
		t.Errorf("signals[29] = %d, want 0 before the breakout", signals[29])
	}
}

func TestMeanReversionHoldsUntilMidline(t *testing.T) {
	// Stable band, sharp drop below the lower band, then recovery through
	// the middle band.
	closes := make([]float64, 45)
	for i := 0; i < 25; i++ {
		closes[i] = 100 + math.Sin(float64(i))*0.5
	}
	closes[25] = 80 // far below the lower band
	for i := 26; i < 45; i++ {
		closes[i] = 80 + float64(i-25)*3 // recover through the midline
	}

	s := NewMeanReversion(nil)
	signals := s.GenerateSignals(barsFromCloses(closes))

	if signals[25] != domain.SignalLong {
		t.Fatalf("signals[25] = %d, want +1 entry below lower band", signals[25])
	}

	// The position holds at +1 until the exit bar, which reads -1.
	exit := -1
	for i := 26; i < len(signals); i++ {
		if signals[i] == domain.SignalExit {
			exit = i
			break
		}
		if signals[i] != domain.SignalLong {
			t.Errorf("signals[%d] = %d, want +1 while holding", i, signals[i])
		}
	}
	if exit < 0 {
		t.Fatal("no exit signal after recovery above the midline")
	}
	for i := exit + 1; i < len(signals); i++ {
		if signals[i] != domain.SignalFlat {
			t.Errorf("signals[%d] = %d, want 0 after exit", i, signals[i])
		}
	}
}

func TestVolatilityBreakoutHolds(t *testing.T) {
	// Quiet tape then a gap well beyond prior high + ATR cushion.
	closes := make([]float64, 40)
	for i := range closes {
		closes[i] = 100
	}
	for i := 25; i < 40; i++ {
		closes[i] = 130
	}
	bars := barsFromCloses(closes)

	s := NewVolatilityBreakout(nil)
	signals := s.GenerateSignals(bars)

	if signals[25] != domain.SignalLong {
		t.Fatalf("signals[25] = %d, want +1 on the breakout bar", signals[25])
	}
	for i := 26; i < len(signals); i++ {
		if signals[i] != domain.SignalLong {
			t.Errorf("signals[%d] = %d, want held +1 after breakout", i, signals[i])
		}
	}
}

func TestMomentumUptrendGoesLong(t *testing.T) {
	closes := make([]float64, 80)
	for i := range closes {
		closes[i] = 100 * math.Pow(1.01, float64(i)) // steady 1%/bar climb
	}

	s := NewMomentum(nil)
	signals := s.GenerateSignals(barsFromCloses(closes))

	if signals[len(signals)-1] != domain.SignalLong {
		t.Error("steady uptrend should end in a held long position")
	}
}

// Flat prices generate no spurious entries from any breakout or crossover
// strategy.
func TestFlatPriceNoSignals(t *testing.T) {
	bars := flatBars(10, 100)
	r := NewRegistry()

	for _, key := range r.List() {
		s, _ := r.New(key, nil)
		for i, sig := range s.GenerateSignals(bars) {
			if sig != domain.SignalFlat {
				t.Errorf("%s: signals[%d] = %d, want 0 on 10 flat bars", key, i, sig)
			}
		}
	}
}
