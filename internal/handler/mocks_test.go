package handler

import (
	"context"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"

	"github.com/ludik-gifts/backend/internal/domain"
	"github.com/ludik-gifts/backend/internal/ledger"
)

// MockLedgerService implements ledger.Service for testing
type MockLedgerService struct {
	mock.Mock
}

func (m *MockLedgerService) GetAccount(ctx context.Context, identity domain.Identity) (*ledger.AccountView, error) {
	args := m.Called(ctx, identity)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ledger.AccountView), args.Error(1)
}

func (m *MockLedgerService) OpenCase(ctx context.Context, userID int64, caseID string, quantity int) (*ledger.OpenCaseResult, error) {
	args := m.Called(ctx, userID, caseID, quantity)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ledger.OpenCaseResult), args.Error(1)
}

func (m *MockLedgerService) Withdraw(ctx context.Context, userID int64, username string, itemID int64) (string, error) {
	args := m.Called(ctx, userID, username, itemID)
	return args.String(0), args.Error(1)
}

func (m *MockLedgerService) Upgrade(ctx context.Context, userID, itemID int64, desiredName string) (*ledger.UpgradeResult, error) {
	args := m.Called(ctx, userID, itemID, desiredName)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ledger.UpgradeResult), args.Error(1)
}

func (m *MockLedgerService) ConvertToTON(ctx context.Context, userID, itemID int64) (decimal.Decimal, error) {
	args := m.Called(ctx, userID, itemID)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

func (m *MockLedgerService) SellAll(ctx context.Context, userID int64) (*ledger.SellAllResult, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ledger.SellAllResult), args.Error(1)
}

func (m *MockLedgerService) RedeemPromo(ctx context.Context, userID int64, code string) (*ledger.RedeemResult, error) {
	args := m.Called(ctx, userID, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ledger.RedeemResult), args.Error(1)
}

func (m *MockLedgerService) RegisterReferral(ctx context.Context, identity domain.Identity, refCode string) error {
	args := m.Called(ctx, identity, refCode)
	return args.Error(0)
}

func (m *MockLedgerService) InstantTopUp(ctx context.Context, userID int64, amount decimal.Decimal) (decimal.Decimal, error) {
	args := m.Called(ctx, userID, amount)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

func (m *MockLedgerService) WithdrawReferralEarnings(ctx context.Context, userID int64) (*ledger.ReferralEarningsResult, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ledger.ReferralEarningsResult), args.Error(1)
}

func (m *MockLedgerService) Leaderboard(ctx context.Context) ([]domain.LeaderboardEntry, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.LeaderboardEntry), args.Error(1)
}
