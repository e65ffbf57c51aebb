// Package postgres implements the ledger repository on PostgreSQL. All
// decimal columns travel as text so money never passes through floats.
package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/ludik-gifts/backend/internal/domain"
	"github.com/ludik-gifts/backend/internal/repository"
)

const userColumns = `user_id, username, first_name, last_name, balance::text,
	referral_code, referred_by_id, referral_earnings_pending::text, total_won::text, created_at`

const itemColumns = `item_id, user_id, name, image_ref, value::text, is_ton_prize, pending_withdrawal, obtained_at`

// LedgerRepository implements repository.Ledger for PostgreSQL
type LedgerRepository struct {
	db *pgxpool.Pool
}

// NewLedgerRepository creates a new LedgerRepository
func NewLedgerRepository(db *pgxpool.Pool) *LedgerRepository {
	return &LedgerRepository{db: db}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func parseDecimal(s, what string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to parse %s: %w", what, err)
	}
	return d, nil
}

func scanUser(row rowScanner) (*domain.User, error) {
	var (
		u                       domain.User
		balance, pending, total string
	)
	err := row.Scan(&u.ID, &u.Username, &u.FirstName, &u.LastName, &balance,
		&u.ReferralCode, &u.ReferredByID, &pending, &total, &u.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to scan user: %w", err)
	}

	if u.Balance, err = decimal.NewFromString(balance); err != nil {
		return nil, fmt.Errorf("failed to parse balance: %w", err)
	}
	if u.ReferralEarningsPending, err = decimal.NewFromString(pending); err != nil {
		return nil, fmt.Errorf("failed to parse referral earnings: %w", err)
	}
	if u.TotalWon, err = decimal.NewFromString(total); err != nil {
		return nil, fmt.Errorf("failed to parse total won: %w", err)
	}
	return &u, nil
}

func scanItem(row rowScanner) (*domain.InventoryItem, error) {
	var (
		item  domain.InventoryItem
		value string
	)
	err := row.Scan(&item.ID, &item.UserID, &item.Name, &item.ImageRef, &value,
		&item.IsTONPrize, &item.PendingWithdrawal, &item.ObtainedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to scan item: %w", err)
	}

	if item.Value, err = decimal.NewFromString(value); err != nil {
		return nil, fmt.Errorf("failed to parse item value: %w", err)
	}
	return &item, nil
}

func collectItems(rows pgx.Rows) ([]domain.InventoryItem, error) {
	defer rows.Close()

	var items []domain.InventoryItem
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read items: %w", err)
	}
	return items, nil
}

// GetUser returns the user or (nil, nil) when the row does not exist.
func (r *LedgerRepository) GetUser(ctx context.Context, userID int64) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE user_id = $1`
	return scanUser(r.db.QueryRow(ctx, query, userID))
}

// GetUserByReferralCode returns the code's owner or (nil, nil).
func (r *LedgerRepository) GetUserByReferralCode(ctx context.Context, code string) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE referral_code = $1`
	return scanUser(r.db.QueryRow(ctx, query, code))
}

// CountReferrals counts accounts that joined through this user's code.
func (r *LedgerRepository) CountReferrals(ctx context.Context, userID int64) (int, error) {
	var count int
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM users WHERE referred_by_id = $1`, userID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count referrals: %w", err)
	}
	return count, nil
}

// ListInventory returns the user's items in acquisition order.
func (r *LedgerRepository) ListInventory(ctx context.Context, userID int64) ([]domain.InventoryItem, error) {
	query := `SELECT ` + itemColumns + ` FROM inventory_items WHERE user_id = $1 ORDER BY item_id`
	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list inventory: %w", err)
	}
	return collectItems(rows)
}

// Leaderboard returns the top accounts by cumulative winnings.
func (r *LedgerRepository) Leaderboard(ctx context.Context, limit int) ([]domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users ORDER BY total_won DESC, user_id LIMIT $1`
	rows, err := r.db.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query leaderboard: %w", err)
	}
	defer rows.Close()

	var users []domain.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, *u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read leaderboard: %w", err)
	}
	return users, nil
}

// BeginTx opens an atomic ledger transaction.
func (r *LedgerRepository) BeginTx(ctx context.Context) (repository.Tx, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	return &ledgerTx{tx: tx}, nil
}
