// Package ledger coordinates every economic action: balances, inventory,
// winnings counters, promo codes, and referrals. Each operation runs under
// the owning account's lock and commits through a single database
// transaction, so partial outcomes are never visible.
package ledger

import (
	"context"
	"math/rand"

	"github.com/shopspring/decimal"

	"github.com/ludik-gifts/backend/internal/catalog"
	"github.com/ludik-gifts/backend/internal/concurrency"
	"github.com/ludik-gifts/backend/internal/domain"
	"github.com/ludik-gifts/backend/internal/fulfillment"
	"github.com/ludik-gifts/backend/internal/notify"
	"github.com/ludik-gifts/backend/internal/repository"
	"github.com/ludik-gifts/backend/internal/rtp"
)

// Operation limits
const (
	// MaxOpenQuantity caps how many draws one OpenCase request performs.
	MaxOpenQuantity = 3

	// Top-up bounds per request
	MinTopUpStr = "0.1"
	MaxTopUpStr = "10000"

	// LeaderboardLimit is how many accounts the leaderboard exposes.
	LeaderboardLimit = 100
)

var (
	minTopUp = decimal.RequireFromString(MinTopUpStr)
	maxTopUp = decimal.RequireFromString(MaxTopUpStr)
)

// AccountView is everything the web app needs to render a user's profile.
type AccountView struct {
	User           domain.User            `json:"user"`
	Inventory      []domain.InventoryItem `json:"inventory"`
	InvitedFriends int                    `json:"invited_friends_count"`
}

// OpenCaseResult reports the prizes won and the balance after the debit.
type OpenCaseResult struct {
	Prizes     []domain.InventoryItem `json:"won_prizes"`
	NewBalance decimal.Decimal        `json:"new_balance_ton"`
}

// UpgradeResult reports a single upgrade attempt. NewItem is nil when the
// attempt failed and the source item was consumed.
type UpgradeResult struct {
	Success bool                  `json:"success"`
	Chance  decimal.Decimal       `json:"chance"`
	NewItem *domain.InventoryItem `json:"item,omitempty"`
}

// SellAllResult reports a bulk conversion of sellable items to balance.
type SellAllResult struct {
	ItemsSold  int             `json:"items_sold"`
	TotalValue decimal.Decimal `json:"total_value"`
	NewBalance decimal.Decimal `json:"new_balance_ton"`
}

// RedeemResult reports a successful promo redemption.
type RedeemResult struct {
	Amount     decimal.Decimal `json:"amount"`
	NewBalance decimal.Decimal `json:"new_balance_ton"`
}

// ReferralEarningsResult reports moving pending referral earnings into the
// balance. Amount is zero when there was nothing to move.
type ReferralEarningsResult struct {
	Amount     decimal.Decimal `json:"amount"`
	NewBalance decimal.Decimal `json:"new_balance_ton"`
}

// Service defines the interface for ledger operations
type Service interface {
	GetAccount(ctx context.Context, identity domain.Identity) (*AccountView, error)
	OpenCase(ctx context.Context, userID int64, caseID string, quantity int) (*OpenCaseResult, error)
	Withdraw(ctx context.Context, userID int64, username string, itemID int64) (string, error)
	Upgrade(ctx context.Context, userID, itemID int64, desiredName string) (*UpgradeResult, error)
	ConvertToTON(ctx context.Context, userID, itemID int64) (decimal.Decimal, error)
	SellAll(ctx context.Context, userID int64) (*SellAllResult, error)
	RedeemPromo(ctx context.Context, userID int64, code string) (*RedeemResult, error)
	RegisterReferral(ctx context.Context, identity domain.Identity, refCode string) error
	InstantTopUp(ctx context.Context, userID int64, amount decimal.Decimal) (decimal.Decimal, error)
	WithdrawReferralEarnings(ctx context.Context, userID int64) (*ReferralEarningsResult, error)
	Leaderboard(ctx context.Context) ([]domain.LeaderboardEntry, error)
}

// Tuning carries the upgrade-model constants from configuration.
type Tuning struct {
	UpgradeMaxChance decimal.Decimal
	UpgradeMinChance decimal.Decimal
	UpgradeRisk      decimal.Decimal
}

type service struct {
	repo        repository.Ledger
	locks       *concurrency.LockManager
	catalog     *catalog.Snapshot
	sampler     *rtp.Sampler
	fulfillment fulfillment.Service
	notifier    notify.Notifier
	tuning      Tuning
	rnd         func() float64 // For rolling RNG
}

// NewService creates a new ledger service
func NewService(
	repo repository.Ledger,
	locks *concurrency.LockManager,
	snapshot *catalog.Snapshot,
	sampler *rtp.Sampler,
	fulfiller fulfillment.Service,
	notifier notify.Notifier,
	tuning Tuning,
) Service {
	return &service{
		repo:        repo,
		locks:       locks,
		catalog:     snapshot,
		sampler:     sampler,
		fulfillment: fulfiller,
		notifier:    notifier,
		tuning:      tuning,
		rnd:         rand.Float64, //nolint:gosec // Game odds, not key material
	}
}

func decimal64(n int) decimal.Decimal {
	return decimal.NewFromInt(int64(n))
}

// lockAccount serializes operations on one account.
func (s *service) lockAccount(userID int64) func() {
	mu := s.locks.AccountLock(userID)
	mu.Lock()
	return mu.Unlock
}

// lockAccountItem takes the account lock, then the item lock. Fixed order
// keeps concurrent operations on the same item deadlock-free.
func (s *service) lockAccountItem(userID, itemID int64) func() {
	accountMu := s.locks.AccountLock(userID)
	accountMu.Lock()
	itemMu := s.locks.ItemLock(itemID)
	itemMu.Lock()
	return func() {
		itemMu.Unlock()
		accountMu.Unlock()
	}
}
