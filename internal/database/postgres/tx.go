package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/ludik-gifts/backend/internal/domain"
)

// ledgerTx implements repository.Tx on a pgx transaction. ForUpdate reads
// take row locks that hold until Commit or Rollback.
type ledgerTx struct {
	tx pgx.Tx
}

func (t *ledgerTx) Commit(ctx context.Context) error {
	return t.tx.Commit(ctx)
}

func (t *ledgerTx) Rollback(ctx context.Context) error {
	return t.tx.Rollback(ctx)
}

func (t *ledgerTx) GetUserForUpdate(ctx context.Context, userID int64) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE user_id = $1 FOR UPDATE`
	return scanUser(t.tx.QueryRow(ctx, query, userID))
}

func (t *ledgerTx) CreateUser(ctx context.Context, user *domain.User) error {
	query := `
		INSERT INTO users (user_id, username, first_name, last_name, balance,
			referral_code, referred_by_id, referral_earnings_pending, total_won)
		VALUES ($1, $2, $3, $4, $5::numeric, $6, $7, $8::numeric, $9::numeric)
		RETURNING created_at
	`
	err := t.tx.QueryRow(ctx, query,
		user.ID, user.Username, user.FirstName, user.LastName, user.Balance.String(),
		user.ReferralCode, user.ReferredByID,
		user.ReferralEarningsPending.String(), user.TotalWon.String(),
	).Scan(&user.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert user: %w", err)
	}
	return nil
}

func (t *ledgerTx) UpdateUser(ctx context.Context, user domain.User) error {
	query := `
		UPDATE users
		SET username = $2, first_name = $3, last_name = $4, balance = $5::numeric,
			referred_by_id = $6, referral_earnings_pending = $7::numeric, total_won = $8::numeric
		WHERE user_id = $1
	`
	_, err := t.tx.Exec(ctx, query,
		user.ID, user.Username, user.FirstName, user.LastName, user.Balance.String(),
		user.ReferredByID, user.ReferralEarningsPending.String(), user.TotalWon.String(),
	)
	if err != nil {
		return fmt.Errorf("failed to update user: %w", err)
	}
	return nil
}

func (t *ledgerTx) GetItemForUpdate(ctx context.Context, userID, itemID int64) (*domain.InventoryItem, error) {
	query := `SELECT ` + itemColumns + ` FROM inventory_items WHERE user_id = $1 AND item_id = $2 FOR UPDATE`
	return scanItem(t.tx.QueryRow(ctx, query, userID, itemID))
}

func (t *ledgerTx) ListInventoryForUpdate(ctx context.Context, userID int64) ([]domain.InventoryItem, error) {
	query := `SELECT ` + itemColumns + ` FROM inventory_items WHERE user_id = $1 ORDER BY item_id FOR UPDATE`
	rows, err := t.tx.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list inventory for update: %w", err)
	}
	return collectItems(rows)
}

func (t *ledgerTx) InsertItem(ctx context.Context, item *domain.InventoryItem) error {
	query := `
		INSERT INTO inventory_items (user_id, name, image_ref, value, is_ton_prize, pending_withdrawal)
		VALUES ($1, $2, $3, $4::numeric, $5, $6)
		RETURNING item_id, obtained_at
	`
	err := t.tx.QueryRow(ctx, query,
		item.UserID, item.Name, item.ImageRef, item.Value.String(),
		item.IsTONPrize, item.PendingWithdrawal,
	).Scan(&item.ID, &item.ObtainedAt)
	if err != nil {
		return fmt.Errorf("failed to insert item: %w", err)
	}
	return nil
}

func (t *ledgerTx) DeleteItem(ctx context.Context, itemID int64) error {
	_, err := t.tx.Exec(ctx, `DELETE FROM inventory_items WHERE item_id = $1`, itemID)
	if err != nil {
		return fmt.Errorf("failed to delete item: %w", err)
	}
	return nil
}

func (t *ledgerTx) SetItemPendingWithdrawal(ctx context.Context, itemID int64, pending bool) error {
	tag, err := t.tx.Exec(ctx,
		`UPDATE inventory_items SET pending_withdrawal = $2 WHERE item_id = $1`, itemID, pending)
	if err != nil {
		return fmt.Errorf("failed to set pending withdrawal: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("failed to set pending withdrawal: %s", domain.ErrMsgItemNotFound)
	}
	return nil
}

func (t *ledgerTx) GetPromoForUpdate(ctx context.Context, code string) (*domain.PromoCode, error) {
	query := `SELECT promo_id, code, activations_left, amount::text FROM promo_codes WHERE code = $1 FOR UPDATE`
	var (
		promo  domain.PromoCode
		amount string
	)
	err := t.tx.QueryRow(ctx, query, code).Scan(&promo.ID, &promo.Code, &promo.ActivationsLeft, &amount)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get promo: %w", err)
	}
	if promo.Amount, err = parseDecimal(amount, "promo amount"); err != nil {
		return nil, err
	}
	return &promo, nil
}

func (t *ledgerTx) UpdatePromo(ctx context.Context, promo domain.PromoCode) error {
	_, err := t.tx.Exec(ctx,
		`UPDATE promo_codes SET activations_left = $2 WHERE promo_id = $1`,
		promo.ID, promo.ActivationsLeft)
	if err != nil {
		return fmt.Errorf("failed to update promo: %w", err)
	}
	return nil
}

func (t *ledgerTx) HasRedemption(ctx context.Context, userID, promoID int64) (bool, error) {
	var exists bool
	err := t.tx.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM promo_redemptions WHERE user_id = $1 AND promo_id = $2)`,
		userID, promoID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check redemption: %w", err)
	}
	return exists, nil
}

func (t *ledgerTx) InsertRedemption(ctx context.Context, userID, promoID int64) error {
	_, err := t.tx.Exec(ctx,
		`INSERT INTO promo_redemptions (user_id, promo_id) VALUES ($1, $2)`,
		userID, promoID)
	if err != nil {
		return fmt.Errorf("failed to insert redemption: %w", err)
	}
	return nil
}
