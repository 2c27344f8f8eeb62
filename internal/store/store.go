// Package store defines storage interfaces for persisting and retrieving
// domain objects: cached OHLCV bars and the paper-trading ledger of
// accounts, orders, and positions.
package store

import (
	"context"
	"errors"
	"time"

	"revoscan/internal/domain"
)

// ErrNotFound is returned when a requested record does not exist.
var ErrNotFound = errors.New("store: not found")

// BarStore persists and retrieves OHLCV bar data.
type BarStore interface {
	// WriteBars persists a batch of bars under the given market. Bars for
	// dates already stored are replaced.
	WriteBars(ctx context.Context, market string, bars []domain.Bar) error

	// ReadBars returns bars for the given symbol and market within [start, end].
	ReadBars(ctx context.Context, symbol string, market string, start, end time.Time) ([]domain.Bar, error)

	// ListSymbols returns all distinct symbols available in the given market.
	ListSymbols(ctx context.Context, market string) ([]string, error)
}

// LedgerStore persists the paper-trading ledger.
type LedgerStore interface {
	// CreateAccount inserts a new account with the given starting cash.
	CreateAccount(ctx context.Context, username string, initialCash float64) (*domain.Account, error)

	// GetAccount retrieves an account by username, or ErrNotFound.
	GetAccount(ctx context.Context, username string) (*domain.Account, error)

	// UpdateCash sets the cash balance for an account.
	UpdateCash(ctx context.Context, accountID int64, cash float64) error

	// ResetAccount restores the account's starting cash and removes all of
	// its orders and positions.
	ResetAccount(ctx context.Context, accountID int64) error

	// SaveOrder inserts a new order and fills in its ID.
	SaveOrder(ctx context.Context, order *domain.Order) error

	// ListOrders returns the account's most recent orders, up to limit.
	// limit <= 0 means no limit.
	ListOrders(ctx context.Context, accountID int64, limit int) ([]domain.Order, error)

	// UpsertPosition inserts or replaces the position for a symbol.
	UpsertPosition(ctx context.Context, pos *domain.Position) error

	// GetPosition retrieves the position for a symbol, or ErrNotFound.
	GetPosition(ctx context.Context, accountID int64, symbol string) (*domain.Position, error)

	// ListPositions returns all open positions for an account.
	ListPositions(ctx context.Context, accountID int64) ([]domain.Position, error)

	// DeletePosition removes the position for a symbol.
	DeletePosition(ctx context.Context, accountID int64, symbol string) error
}
