package ledger

import (
	"context"
	"fmt"

	"github.com/ludik-gifts/backend/internal/domain"
	"github.com/ludik-gifts/backend/internal/logger"
	"github.com/ludik-gifts/backend/internal/metrics"
	"github.com/ludik-gifts/backend/internal/repository"
)

func (s *service) OpenCase(ctx context.Context, userID int64, caseID string, quantity int) (*OpenCaseResult, error) {
	log := logger.FromContext(ctx)
	log.Info("OpenCase called", "userID", userID, "caseID", caseID, "quantity", quantity)

	if quantity < 1 || quantity > MaxOpenQuantity {
		return nil, fmt.Errorf("%w: quantity must be between 1 and %d", domain.ErrInvalidInput, MaxOpenQuantity)
	}

	table, err := s.catalog.Calibrated(caseID)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", domain.ErrCaseNotFound, caseID)
	}
	cost := table.PriceTON.Mul(decimal64(quantity))

	unlock := s.lockAccount(userID)
	defer unlock()

	tx, err := s.repo.BeginTx(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer repository.SafeRollback(ctx, tx)

	user, err := tx.GetUserForUpdate(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if user == nil {
		return nil, domain.ErrUserNotFound
	}

	// Funds check before any mutation
	if user.Balance.LessThan(cost) {
		return nil, fmt.Errorf("%w: need %s, have %s", domain.ErrInsufficientFunds, cost, user.Balance)
	}
	user.Balance = user.Balance.Sub(cost)

	drawn, err := s.sampler.Draw(table, quantity)
	if err != nil {
		return nil, fmt.Errorf("failed to draw prizes: %w", err)
	}

	won := make([]domain.InventoryItem, 0, len(drawn))
	for _, prize := range drawn {
		item := domain.InventoryItem{
			UserID:     userID,
			Name:       prize.Name,
			ImageRef:   prize.ImageRef,
			Value:      prize.FloorValue,
			IsTONPrize: prize.IsTONPrize,
		}
		if err := tx.InsertItem(ctx, &item); err != nil {
			return nil, fmt.Errorf("failed to insert won item: %w", err)
		}
		won = append(won, item)
	}

	if err := tx.UpdateUser(ctx, *user); err != nil {
		return nil, fmt.Errorf("failed to update user: %w", err)
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	metrics.CasesOpened.WithLabelValues(caseID).Add(float64(quantity))
	metrics.TONDebited.WithLabelValues(metrics.ReasonCaseOpening).Add(cost.InexactFloat64())
	for _, item := range won {
		metrics.PrizesWon.WithLabelValues(caseID, item.Name).Inc()
	}

	log.Info("Case opened", "userID", userID, "caseID", caseID, "quantity", quantity, "cost", cost, "newBalance", user.Balance)
	return &OpenCaseResult{Prizes: won, NewBalance: user.Balance}, nil
}
