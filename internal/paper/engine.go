// Package paper implements simulated trading against the ledger store:
// cash-checked market orders, average-cost positions, and portfolio
// valuation. Orders fill instantly at the caller-supplied or last-close
// price; there is no slippage or commission model.
package paper

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"revoscan/internal/domain"
	"revoscan/internal/provider"
	"revoscan/internal/store"
)

// DefaultInitialCash is the starting balance for new accounts.
const DefaultInitialCash = 100000

// Rejection reasons returned by PlaceOrder.
var (
	ErrInsufficientCash   = errors.New("paper: insufficient cash")
	ErrInsufficientShares = errors.New("paper: insufficient shares")
	ErrInvalidOrder       = errors.New("paper: invalid order")
)

// Quote window when deriving a fill price from daily bars.
const quoteLookbackDays = 7

// Engine executes paper orders against a ledger. The bar provider is
// optional; it backs MarkPrice when the caller has no price at hand.
type Engine struct {
	// InitialCash is the starting balance for accounts created on first use.
	InitialCash float64

	ledger store.LedgerStore
	bars   provider.BarProvider
	log    *slog.Logger
}

// NewEngine creates a paper-trading engine over the given ledger. bars may
// be nil if callers always supply fill prices.
func NewEngine(ledger store.LedgerStore, bars provider.BarProvider) *Engine {
	return &Engine{
		InitialCash: DefaultInitialCash,
		ledger:      ledger,
		bars:        bars,
		log:         slog.Default().With("component", "paper"),
	}
}

// Holding is a position marked to a current price.
type Holding struct {
	Symbol        string  `json:"symbol"`
	Qty           int64   `json:"qty"`
	AvgCost       float64 `json:"avgCost"`
	Price         float64 `json:"price"`
	MarketValue   float64 `json:"marketValue"`
	UnrealizedPnL float64 `json:"unrealizedPnl"`
}

// Portfolio is the full account snapshot.
type Portfolio struct {
	Account    domain.Account `json:"account"`
	Holdings   []Holding      `json:"holdings"`
	Equity     float64        `json:"equity"`     // cash + market value
	TotalPnL   float64        `json:"totalPnl"`   // equity - initial cash
	ReturnPct  float64        `json:"returnPct"`  // total PnL over initial cash
	PricedAsOf time.Time      `json:"pricedAsOf"`
}

// Account fetches an account by username, creating it with the default
// starting cash on first use.
func (e *Engine) Account(ctx context.Context, username string) (*domain.Account, error) {
	acct, err := e.ledger.GetAccount(ctx, username)
	if errors.Is(err, store.ErrNotFound) {
		e.log.Info("creating account", "username", username)
		return e.ledger.CreateAccount(ctx, username, e.InitialCash)
	}
	return acct, err
}

// Reset restores the account to its starting cash and clears its orders
// and positions.
func (e *Engine) Reset(ctx context.Context, username string) error {
	acct, err := e.Account(ctx, username)
	if err != nil {
		return err
	}
	return e.ledger.ResetAccount(ctx, acct.ID)
}

// PlaceOrder executes a market order at the given price. Buys that exceed
// available cash and sells that exceed the held quantity are recorded as
// rejected and return the matching sentinel error.
func (e *Engine) PlaceOrder(ctx context.Context, username, symbol string, side domain.OrderSide, qty int64, price float64, strategy string) (*domain.Order, error) {
	if qty <= 0 || price <= 0 {
		return nil, fmt.Errorf("%w: qty=%d price=%v", ErrInvalidOrder, qty, price)
	}

	acct, err := e.Account(ctx, username)
	if err != nil {
		return nil, err
	}

	order := &domain.Order{
		AccountID: acct.ID,
		Symbol:    symbol,
		Side:      side,
		Qty:       qty,
		Price:     price,
		Status:    domain.OrderStatusFilled,
		Strategy:  strategy,
	}

	switch side {
	case domain.OrderSideBuy:
		cost := float64(qty) * price
		if cost > acct.CashBalance {
			order.Status = domain.OrderStatusRejected
			if err := e.ledger.SaveOrder(ctx, order); err != nil {
				return nil, err
			}
			return order, fmt.Errorf("%w: need %.2f, have %.2f", ErrInsufficientCash, cost, acct.CashBalance)
		}

		pos, err := e.ledger.GetPosition(ctx, acct.ID, symbol)
		if errors.Is(err, store.ErrNotFound) {
			pos = &domain.Position{AccountID: acct.ID, Symbol: symbol}
		} else if err != nil {
			return nil, err
		}
		newQty := pos.Qty + qty
		pos.AvgCost = (float64(pos.Qty)*pos.AvgCost + cost) / float64(newQty)
		pos.Qty = newQty
		if err := e.ledger.UpsertPosition(ctx, pos); err != nil {
			return nil, err
		}
		if err := e.ledger.UpdateCash(ctx, acct.ID, acct.CashBalance-cost); err != nil {
			return nil, err
		}

	case domain.OrderSideSell:
		pos, err := e.ledger.GetPosition(ctx, acct.ID, symbol)
		if errors.Is(err, store.ErrNotFound) || (err == nil && pos.Qty < qty) {
			order.Status = domain.OrderStatusRejected
			if serr := e.ledger.SaveOrder(ctx, order); serr != nil {
				return nil, serr
			}
			return order, fmt.Errorf("%w: selling %d of %s", ErrInsufficientShares, qty, symbol)
		} else if err != nil {
			return nil, err
		}

		pos.Qty -= qty
		if pos.Qty == 0 {
			if err := e.ledger.DeletePosition(ctx, acct.ID, symbol); err != nil {
				return nil, err
			}
		} else {
			if err := e.ledger.UpsertPosition(ctx, pos); err != nil {
				return nil, err
			}
		}
		if err := e.ledger.UpdateCash(ctx, acct.ID, acct.CashBalance+float64(qty)*price); err != nil {
			return nil, err
		}

	default:
		return nil, fmt.Errorf("%w: side %q", ErrInvalidOrder, side)
	}

	if err := e.ledger.SaveOrder(ctx, order); err != nil {
		return nil, err
	}
	e.log.Info("order filled",
		"username", username, "symbol", symbol, "side", side, "qty", qty, "price", price)
	return order, nil
}

// Orders returns the account's order history, most recent first.
func (e *Engine) Orders(ctx context.Context, username string, limit int) ([]domain.Order, error) {
	acct, err := e.Account(ctx, username)
	if err != nil {
		return nil, err
	}
	return e.ledger.ListOrders(ctx, acct.ID, limit)
}

// Portfolio marks all positions to the given prices and returns the full
// account snapshot. Symbols missing from prices are marked at cost.
func (e *Engine) Portfolio(ctx context.Context, username string, prices map[string]float64) (*Portfolio, error) {
	acct, err := e.Account(ctx, username)
	if err != nil {
		return nil, err
	}
	positions, err := e.ledger.ListPositions(ctx, acct.ID)
	if err != nil {
		return nil, err
	}

	p := &Portfolio{
		Account:    *acct,
		Holdings:   make([]Holding, 0, len(positions)),
		Equity:     acct.CashBalance,
		PricedAsOf: time.Now().UTC(),
	}
	for _, pos := range positions {
		price, found := prices[pos.Symbol]
		if !found {
			price = pos.AvgCost
		}
		mv := float64(pos.Qty) * price
		p.Holdings = append(p.Holdings, Holding{
			Symbol:        pos.Symbol,
			Qty:           pos.Qty,
			AvgCost:       pos.AvgCost,
			Price:         price,
			MarketValue:   mv,
			UnrealizedPnL: mv - float64(pos.Qty)*pos.AvgCost,
		})
		p.Equity += mv
	}
	p.TotalPnL = p.Equity - acct.InitialCash
	if acct.InitialCash > 0 {
		p.ReturnPct = p.TotalPnL / acct.InitialCash * 100
	}
	return p, nil
}

// MarkPrice returns the most recent daily close for a symbol from the bar
// provider.
func (e *Engine) MarkPrice(ctx context.Context, symbol string) (float64, error) {
	if e.bars == nil {
		return 0, fmt.Errorf("no bar provider configured")
	}
	now := time.Now()
	bars, err := e.bars.DailyBars(ctx, symbol, now.AddDate(0, 0, -quoteLookbackDays), now)
	if err != nil {
		return 0, err
	}
	if len(bars) == 0 {
		return 0, fmt.Errorf("no recent bars for %s", symbol)
	}
	return bars[len(bars)-1].Close, nil
}
