package provider

import (
	"context"
	"log/slog"
	"time"

	"revoscan/internal/domain"
	"revoscan/internal/store"
)

var _ BarProvider = (*CachedBars)(nil)

// CachedBars serves daily bars from a local bar store, falling back to a
// remote provider on a cache miss and writing the fetched bars back. A
// remote failure with a warm cache degrades to the cached data.
type CachedBars struct {
	store  store.BarStore
	remote BarProvider
	market string
	log    *slog.Logger
}

// NewCachedBars wraps remote with the given bar store cache.
func NewCachedBars(s store.BarStore, remote BarProvider, market string) *CachedBars {
	return &CachedBars{
		store:  s,
		remote: remote,
		market: market,
		log:    slog.Default().With("provider", "cached-bars"),
	}
}

// DailyBars returns cached bars when the requested window is already
// covered, otherwise fetches from the remote provider and caches the
// result.
func (c *CachedBars) DailyBars(ctx context.Context, symbol string, start, end time.Time) ([]domain.Bar, error) {
	cached, err := c.store.ReadBars(ctx, symbol, c.market, start, end)
	if err != nil {
		c.log.Warn("cache read failed", "symbol", symbol, "error", err)
	}
	if c.covers(cached, start, end) {
		return cached, nil
	}

	fetched, err := c.remote.DailyBars(ctx, symbol, start, end)
	if err != nil {
		if len(cached) > 0 {
			c.log.Warn("remote fetch failed, serving cache", "symbol", symbol, "error", err)
			return cached, nil
		}
		return nil, err
	}

	if err := c.store.WriteBars(ctx, c.market, fetched); err != nil {
		c.log.Warn("cache write failed", "symbol", symbol, "error", err)
	}
	return fetched, nil
}

// covers reports whether cached bars span the requested window closely
// enough to skip the remote fetch. The edges tolerate a few days of slack
// for weekends and holidays.
func (c *CachedBars) covers(bars []domain.Bar, start, end time.Time) bool {
	if len(bars) == 0 {
		return false
	}
	const slack = 5 * 24 * time.Hour
	first := bars[0].Timestamp
	last := bars[len(bars)-1].Timestamp
	return first.Sub(start) <= slack && end.Sub(last) <= slack
}
