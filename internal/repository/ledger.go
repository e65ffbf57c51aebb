package repository

import (
	"context"

	"github.com/ludik-gifts/backend/internal/domain"
)

// Ledger defines persistence for accounts, inventory, promo codes, and
// redemptions. Read methods outside a transaction serve presentation;
// every mutation goes through BeginTx. Single-row lookups return
// (nil, nil) when the row does not exist; callers map that to the domain
// not-found sentinel.
type Ledger interface {
	GetUser(ctx context.Context, userID int64) (*domain.User, error)
	GetUserByReferralCode(ctx context.Context, code string) (*domain.User, error)
	CountReferrals(ctx context.Context, userID int64) (int, error)
	ListInventory(ctx context.Context, userID int64) ([]domain.InventoryItem, error)
	Leaderboard(ctx context.Context, limit int) ([]domain.User, error)

	BeginTx(ctx context.Context) (Tx, error)
}

// Tx is one atomic ledger transaction. ForUpdate reads take row-level
// locks so decision reads (balance, ownership, redemption uniqueness)
// cannot interleave with a conflicting mutation. All writes become
// visible together at Commit and not at all after Rollback.
type Tx interface {
	GetUserForUpdate(ctx context.Context, userID int64) (*domain.User, error)
	CreateUser(ctx context.Context, user *domain.User) error
	UpdateUser(ctx context.Context, user domain.User) error

	GetItemForUpdate(ctx context.Context, userID, itemID int64) (*domain.InventoryItem, error)
	ListInventoryForUpdate(ctx context.Context, userID int64) ([]domain.InventoryItem, error)
	InsertItem(ctx context.Context, item *domain.InventoryItem) error
	DeleteItem(ctx context.Context, itemID int64) error
	SetItemPendingWithdrawal(ctx context.Context, itemID int64, pending bool) error

	GetPromoForUpdate(ctx context.Context, code string) (*domain.PromoCode, error)
	UpdatePromo(ctx context.Context, promo domain.PromoCode) error
	HasRedemption(ctx context.Context, userID, promoID int64) (bool, error)
	InsertRedemption(ctx context.Context, userID, promoID int64) error

	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}
