package provider

import (
	"context"
	"errors"
	"testing"
	"time"

	"revoscan/internal/domain"
	"revoscan/internal/store"
)

// countingBars wraps a Static provider and counts remote fetches.
type countingBars struct {
	static *Static
	calls  int
	fail   bool
}

func (c *countingBars) DailyBars(ctx context.Context, symbol string, start, end time.Time) ([]domain.Bar, error) {
	c.calls++
	if c.fail {
		return nil, errors.New("remote down")
	}
	return c.static.DailyBars(ctx, symbol, start, end)
}

func TestCachedBars(t *testing.T) {
	ctx := context.Background()
	ps := store.NewParquetStore(t.TempDir())

	static := NewStatic()
	day := time.Date(2025, 3, 3, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 10; i++ {
		static.Bars["AAPL"] = append(static.Bars["AAPL"], domain.Bar{
			Symbol:    "AAPL",
			Timestamp: day.AddDate(0, 0, i),
			Close:     100 + float64(i),
			Volume:    1000,
		})
	}
	remote := &countingBars{static: static}
	cb := NewCachedBars(ps, remote, "us")

	start, end := day, day.AddDate(0, 0, 9)

	// First call misses the cache and fetches remotely.
	bars, err := cb.DailyBars(ctx, "AAPL", start, end)
	if err != nil {
		t.Fatalf("DailyBars: %v", err)
	}
	if len(bars) != 10 {
		t.Fatalf("fetched %d bars, want 10", len(bars))
	}
	if remote.calls != 1 {
		t.Errorf("remote calls = %d, want 1", remote.calls)
	}

	// Second call is served from the parquet cache.
	bars, err = cb.DailyBars(ctx, "AAPL", start, end)
	if err != nil {
		t.Fatalf("DailyBars (cached): %v", err)
	}
	if len(bars) != 10 {
		t.Fatalf("cached read returned %d bars, want 10", len(bars))
	}
	if remote.calls != 1 {
		t.Errorf("remote calls after cache hit = %d, want 1", remote.calls)
	}

	// Remote failure with a warm cache still serves data.
	remote.fail = true
	bars, err = cb.DailyBars(ctx, "AAPL", start.AddDate(0, 0, -30), end)
	if err != nil {
		t.Fatalf("DailyBars (degraded): %v", err)
	}
	if len(bars) != 10 {
		t.Errorf("degraded read returned %d bars, want 10", len(bars))
	}

	// Remote failure with a cold cache surfaces the error.
	if _, err := cb.DailyBars(ctx, "MSFT", start, end); err == nil {
		t.Errorf("cold-cache remote failure returned nil error")
	}
}
