package httpapi

import (
	"revoscan/internal/backtest"
	"revoscan/internal/domain"
	"revoscan/internal/strategy"
)

// StrategyListResponse is the payload for GET /api/strategies.
type StrategyListResponse struct {
	Strategies []strategy.Info `json:"strategies"`
}

// BacktestRequest is the payload for POST /api/backtest.
type BacktestRequest struct {
	Symbol         string          `json:"symbol"`
	Strategy       string          `json:"strategy"`
	Params         strategy.Params `json:"params,omitempty"`
	Start          string          `json:"start"` // YYYY-MM-DD
	End            string          `json:"end"`   // YYYY-MM-DD
	InitialCapital float64         `json:"initialCapital,omitempty"`
}

// BacktestResponse is the payload for POST /api/backtest.
type BacktestResponse struct {
	Symbol   string           `json:"symbol"`
	Strategy string           `json:"strategy"`
	Params   strategy.Params  `json:"params"`
	Bars     int              `json:"bars"`
	Summary  backtest.Summary `json:"summary"`
}

// ScanResponse is the payload for GET /api/scan.
type ScanResponse struct {
	Results []domain.Analysis `json:"results"`
}

// OrderRequest is the payload for POST /api/paper/{username}/orders.
type OrderRequest struct {
	Symbol   string  `json:"symbol"`
	Side     string  `json:"side"` // "buy" or "sell"
	Qty      int64   `json:"qty"`
	Price    float64 `json:"price,omitempty"` // 0 means mark at last close
	Strategy string  `json:"strategy,omitempty"`
}

// OrderResponse is the payload for order placement and history entries.
type OrderResponse struct {
	ID        int64   `json:"id"`
	Symbol    string  `json:"symbol"`
	Side      string  `json:"side"`
	Qty       int64   `json:"qty"`
	Price     float64 `json:"price"`
	Status    string  `json:"status"`
	Strategy  string  `json:"strategy,omitempty"`
	CreatedAt string  `json:"createdAt"`
}
