package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"revoscan/internal/domain"

	_ "modernc.org/sqlite" // Pure-Go SQLite driver.
)

// Compile-time interface check.
var _ LedgerStore = (*SQLiteStore)(nil)

// SQLiteStore implements LedgerStore backed by a SQLite database.
type SQLiteStore struct {
	db *sql.DB
}

const ledgerSchema = `
CREATE TABLE IF NOT EXISTS accounts (
	id           INTEGER PRIMARY KEY AUTOINCREMENT,
	username     TEXT NOT NULL UNIQUE,
	cash_balance REAL NOT NULL,
	initial_cash REAL NOT NULL,
	created_at   TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS orders (
	id         INTEGER PRIMARY KEY AUTOINCREMENT,
	account_id INTEGER NOT NULL REFERENCES accounts(id),
	symbol     TEXT NOT NULL,
	side       TEXT NOT NULL,
	qty        INTEGER NOT NULL,
	price      REAL NOT NULL,
	status     TEXT NOT NULL,
	strategy   TEXT NOT NULL DEFAULT '',
	created_at TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS positions (
	account_id INTEGER NOT NULL REFERENCES accounts(id),
	symbol     TEXT NOT NULL,
	qty        INTEGER NOT NULL,
	avg_cost   REAL NOT NULL,
	PRIMARY KEY (account_id, symbol)
);
`

// NewSQLiteStore opens (or creates) a SQLite database at dbPath, applies
// the ledger schema, and returns a ready-to-use SQLiteStore.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, err
	}
	if _, err := db.Exec(ledgerSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("applying ledger schema: %w", err)
	}
	return &SQLiteStore{db: db}, nil
}

// Close closes the underlying database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// ---------------------------------------------------------------------------
// Accounts
// ---------------------------------------------------------------------------

// CreateAccount inserts a new account with the given starting cash.
func (s *SQLiteStore) CreateAccount(ctx context.Context, username string, initialCash float64) (*domain.Account, error) {
	now := time.Now().UTC()
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO accounts (username, cash_balance, initial_cash, created_at) VALUES (?, ?, ?, ?)`,
		username, initialCash, initialCash, now.Format(time.RFC3339))
	if err != nil {
		return nil, fmt.Errorf("creating account %q: %w", username, err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}
	return &domain.Account{
		ID:          id,
		Username:    username,
		CashBalance: initialCash,
		InitialCash: initialCash,
		CreatedAt:   now,
	}, nil
}

// GetAccount retrieves an account by username.
func (s *SQLiteStore) GetAccount(ctx context.Context, username string) (*domain.Account, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, username, cash_balance, initial_cash, created_at FROM accounts WHERE username = ?`,
		username)

	var a domain.Account
	var created string
	if err := row.Scan(&a.ID, &a.Username, &a.CashBalance, &a.InitialCash, &created); err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, err
	}
	a.CreatedAt, _ = time.Parse(time.RFC3339, created)
	return &a, nil
}

// UpdateCash sets the cash balance for an account.
func (s *SQLiteStore) UpdateCash(ctx context.Context, accountID int64, cash float64) error {
	_, err := s.db.ExecContext(ctx,
		`UPDATE accounts SET cash_balance = ? WHERE id = ?`, cash, accountID)
	return err
}

// ResetAccount restores the account's starting cash and removes all of its
// orders and positions.
func (s *SQLiteStore) ResetAccount(ctx context.Context, accountID int64) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		`UPDATE accounts SET cash_balance = initial_cash WHERE id = ?`, accountID); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM orders WHERE account_id = ?`, accountID); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM positions WHERE account_id = ?`, accountID); err != nil {
		return err
	}
	return tx.Commit()
}

// ---------------------------------------------------------------------------
// Orders
// ---------------------------------------------------------------------------

// SaveOrder inserts a new order and fills in its ID.
func (s *SQLiteStore) SaveOrder(ctx context.Context, order *domain.Order) error {
	if order.CreatedAt.IsZero() {
		order.CreatedAt = time.Now().UTC()
	}
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO orders (account_id, symbol, side, qty, price, status, strategy, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		order.AccountID, order.Symbol, string(order.Side), order.Qty, order.Price,
		string(order.Status), order.Strategy, order.CreatedAt.Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("saving order for %s: %w", order.Symbol, err)
	}
	order.ID, err = res.LastInsertId()
	return err
}

// ListOrders returns the account's most recent orders, up to limit.
func (s *SQLiteStore) ListOrders(ctx context.Context, accountID int64, limit int) ([]domain.Order, error) {
	q := `SELECT id, account_id, symbol, side, qty, price, status, strategy, created_at
	      FROM orders WHERE account_id = ? ORDER BY id DESC`
	args := []any{accountID}
	if limit > 0 {
		q += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var orders []domain.Order
	for rows.Next() {
		var o domain.Order
		var side, status, created string
		if err := rows.Scan(&o.ID, &o.AccountID, &o.Symbol, &side, &o.Qty, &o.Price, &status, &o.Strategy, &created); err != nil {
			return nil, err
		}
		o.Side = domain.OrderSide(side)
		o.Status = domain.OrderStatus(status)
		o.CreatedAt, _ = time.Parse(time.RFC3339, created)
		orders = append(orders, o)
	}
	return orders, rows.Err()
}

// ---------------------------------------------------------------------------
// Positions
// ---------------------------------------------------------------------------

// UpsertPosition inserts or replaces the position for a symbol.
func (s *SQLiteStore) UpsertPosition(ctx context.Context, pos *domain.Position) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO positions (account_id, symbol, qty, avg_cost) VALUES (?, ?, ?, ?)
		 ON CONFLICT (account_id, symbol) DO UPDATE SET qty = excluded.qty, avg_cost = excluded.avg_cost`,
		pos.AccountID, pos.Symbol, pos.Qty, pos.AvgCost)
	return err
}

// GetPosition retrieves the position for a symbol.
func (s *SQLiteStore) GetPosition(ctx context.Context, accountID int64, symbol string) (*domain.Position, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT account_id, symbol, qty, avg_cost FROM positions WHERE account_id = ? AND symbol = ?`,
		accountID, symbol)

	var p domain.Position
	if err := row.Scan(&p.AccountID, &p.Symbol, &p.Qty, &p.AvgCost); err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}

// ListPositions returns all open positions for an account, sorted by symbol.
func (s *SQLiteStore) ListPositions(ctx context.Context, accountID int64) ([]domain.Position, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT account_id, symbol, qty, avg_cost FROM positions WHERE account_id = ? ORDER BY symbol`,
		accountID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var positions []domain.Position
	for rows.Next() {
		var p domain.Position
		if err := rows.Scan(&p.AccountID, &p.Symbol, &p.Qty, &p.AvgCost); err != nil {
			return nil, err
		}
		positions = append(positions, p)
	}
	return positions, rows.Err()
}

// DeletePosition removes the position for a symbol.
func (s *SQLiteStore) DeletePosition(ctx context.Context, accountID int64, symbol string) error {
	_, err := s.db.ExecContext(ctx,
		`DELETE FROM positions WHERE account_id = ? AND symbol = ?`, accountID, symbol)
	return err
}
