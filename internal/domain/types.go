// Package domain defines the shared types used across the revoscan
// analysis pipeline: OHLCV bars, per-bar trading signals, factor analyses,
// and the paper-trading ledger records.
package domain

import "time"

// ---------------------------------------------------------------------------
// Market data
// ---------------------------------------------------------------------------

// Market identifies which exchange universe a symbol belongs to.
type Market string

const (
	MarketUS Market = "us"
)

// Bar is a single OHLCV trading period. Bars are immutable inputs: the
// indicator and backtest code derives new series from them and never writes
// back.
type Bar struct {
	Symbol     string
	Timestamp  time.Time
	Open       float64
	High       float64
	Low        float64
	Close      float64
	Volume     int64
	TradeCount int64
	VWAP       float64
}

// Closes extracts the close price series from a bar slice.
func Closes(bars []Bar) []float64 {
	out := make([]float64, len(bars))
	for i := range bars {
		out[i] = bars[i].Close
	}
	return out
}

// ---------------------------------------------------------------------------
// Signals
// ---------------------------------------------------------------------------

// Signal is the discrete per-bar trading instruction emitted by a strategy.
type Signal int8

const (
	SignalLong Signal = 1  // enter/hold long
	SignalFlat Signal = 0  // no position
	SignalExit Signal = -1 // exit/sell
)

// ---------------------------------------------------------------------------
// Screening
// ---------------------------------------------------------------------------

// Headline is a single news item with its sentiment polarity in [-1, 1].
type Headline struct {
	Time     time.Time
	Source   string
	Text     string
	Polarity float64
}

// InsiderActivity is the net direction of recent insider transactions.
type InsiderActivity string

const (
	InsiderBuying  InsiderActivity = "Buying"
	InsiderSelling InsiderActivity = "Selling"
	InsiderNeutral InsiderActivity = "Neutral"
)

// FactorScores holds the five independent 0-10 factor scores for one symbol.
type FactorScores struct {
	Sentiment float64 `json:"sentiment"`
	Catalyst  float64 `json:"catalyst"`
	Insider   float64 `json:"insider"`
	Options   float64 `json:"options"`
	Technical float64 `json:"technical"`
}

// Analysis is the full screening result for one symbol.
type Analysis struct {
	Symbol       string       `json:"symbol"`
	Name         string       `json:"name"`
	Sector       string       `json:"sector"`
	Price        float64      `json:"price"`
	MarketCap    float64      `json:"marketCap"`
	EarningsDate string       `json:"earningsDate,omitempty"` // YYYY-MM-DD, empty if unknown
	Scores       FactorScores `json:"scores"`
	Composite    float64      `json:"composite"`
	Rank         int          `json:"rank,omitempty"` // 1-based, set by ranking
}

// ---------------------------------------------------------------------------
// Paper-trading ledger
// ---------------------------------------------------------------------------

// OrderSide is the direction of a paper order.
type OrderSide string

const (
	OrderSideBuy  OrderSide = "buy"
	OrderSideSell OrderSide = "sell"
)

// OrderStatus is the lifecycle state of a paper order.
type OrderStatus string

const (
	OrderStatusFilled   OrderStatus = "filled"
	OrderStatusRejected OrderStatus = "rejected"
)

// Order is one record in the paper-trading ledger.
type Order struct {
	ID        int64
	AccountID int64
	Symbol    string
	Side      OrderSide
	Qty       int64
	Price     float64
	Status    OrderStatus
	Strategy  string
	CreatedAt time.Time
}

// Position is a held paper position with average cost basis.
type Position struct {
	AccountID int64
	Symbol    string
	Qty       int64
	AvgCost   float64
}

// Account is a paper-trading account.
type Account struct {
	ID          int64
	Username    string
	CashBalance float64
	InitialCash float64
	CreatedAt   time.Time
}
