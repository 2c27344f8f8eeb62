package provider

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/alpacahq/alpaca-trade-api-go/v3/marketdata"

	"revoscan/internal/domain"
	"revoscan/internal/util"
)

var _ BarProvider = (*Alpaca)(nil)
var _ NewsProvider = (*Alpaca)(nil)

const (
	alpacaMaxAttempts = 3
	alpacaRetryDelay  = 2 * time.Second
	newsTotalLimit    = 50

	// Free-tier Alpaca data API allows 200 requests per minute.
	requestsPerMin = 200
)

// Alpaca serves daily bars and news headlines from the Alpaca market-data
// API. Headlines are polarity-scored on fetch with the lexicon scorer.
// Requests are rate limited to stay under the API quota.
type Alpaca struct {
	client  *marketdata.Client
	feed    string
	limiter *util.RateLimiter
	log     *slog.Logger
}

// NewAlpaca creates an Alpaca provider with the given credentials. dataURL
// and feed may be empty to use the API defaults.
func NewAlpaca(apiKey, apiSecret, dataURL, feed string) *Alpaca {
	opts := marketdata.ClientOpts{
		APIKey:    apiKey,
		APISecret: apiSecret,
	}
	if dataURL != "" {
		opts.BaseURL = dataURL
	}
	if feed == "" {
		feed = "iex"
	}

	return &Alpaca{
		client:  marketdata.NewClient(opts),
		feed:    feed,
		limiter: util.NewRateLimiter(requestsPerMin),
		log:     slog.Default().With("provider", "alpaca"),
	}
}

// DailyBars fetches daily OHLCV bars for a single symbol.
func (a *Alpaca) DailyBars(ctx context.Context, symbol string, start, end time.Time) ([]domain.Bar, error) {
	symbol = strings.ToUpper(symbol)
	if err := a.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	var alpacaBars []marketdata.Bar
	err := util.Retry(ctx, alpacaMaxAttempts, alpacaRetryDelay, func() error {
		var err error
		alpacaBars, err = a.client.GetBars(symbol, marketdata.GetBarsRequest{
			TimeFrame: marketdata.OneDay,
			Start:     start,
			End:       end,
			Feed:      marketdata.Feed(a.feed),
		})
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("GetBars %s: %w", symbol, err)
	}

	bars := make([]domain.Bar, 0, len(alpacaBars))
	for _, ab := range alpacaBars {
		bars = append(bars, domain.Bar{
			Symbol:     symbol,
			Timestamp:  ab.Timestamp,
			Open:       ab.Open,
			High:       ab.High,
			Low:        ab.Low,
			Close:      ab.Close,
			Volume:     int64(ab.Volume),
			TradeCount: int64(ab.TradeCount),
			VWAP:       ab.VWAP,
		})
	}
	a.log.Debug("fetched bars", "symbol", symbol, "count", len(bars))
	return bars, nil
}

// Headlines fetches news for a symbol and polarity-scores each headline.
func (a *Alpaca) Headlines(ctx context.Context, symbol string, start, end time.Time) ([]domain.Headline, error) {
	symbol = strings.ToUpper(symbol)
	if err := a.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	var alpacaNews []marketdata.News
	err := util.Retry(ctx, alpacaMaxAttempts, alpacaRetryDelay, func() error {
		var err error
		alpacaNews, err = a.client.GetNews(marketdata.GetNewsRequest{
			Symbols:    []string{symbol},
			Start:      start,
			End:        end,
			TotalLimit: newsTotalLimit,
			Sort:       marketdata.SortDesc,
		})
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("GetNews %s: %w", symbol, err)
	}

	headlines := make([]domain.Headline, 0, len(alpacaNews))
	for _, n := range alpacaNews {
		headlines = append(headlines, domain.Headline{
			Time:     n.CreatedAt,
			Source:   "alpaca",
			Text:     n.Headline,
			Polarity: Polarity(n.Headline),
		})
	}
	a.log.Debug("fetched news", "symbol", symbol, "count", len(headlines))
	return headlines, nil
}
