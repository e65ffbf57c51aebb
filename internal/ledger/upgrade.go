package ledger

import (
	"context"
	"fmt"

	"github.com/ludik-gifts/backend/internal/domain"
	"github.com/ludik-gifts/backend/internal/logger"
	"github.com/ludik-gifts/backend/internal/metrics"
	"github.com/ludik-gifts/backend/internal/repository"
	"github.com/ludik-gifts/backend/internal/upgrade"
)

func (s *service) Upgrade(ctx context.Context, userID, itemID int64, desiredName string) (*UpgradeResult, error) {
	log := logger.FromContext(ctx)
	log.Info("Upgrade called", "userID", userID, "itemID", itemID, "desired", desiredName)

	desiredValue := s.catalog.FloorPrice(desiredName)
	if !desiredValue.IsPositive() {
		return nil, fmt.Errorf("%w: %s", domain.ErrItemNotFound, desiredName)
	}

	unlock := s.lockAccountItem(userID, itemID)
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

	item, err := tx.GetItemForUpdate(ctx, userID, itemID)
	if err != nil {
		return nil, fmt.Errorf("failed to get item: %w", err)
	}
	if item == nil {
		return nil, domain.ErrItemNotFound
	}
	if item.PendingWithdrawal {
		return nil, domain.ErrItemPending
	}
	if item.IsTONPrize || !item.Value.IsPositive() {
		return nil, fmt.Errorf("%w: item cannot be upgraded", domain.ErrInvalidInput)
	}

	chance, err := upgrade.SuccessChance(item.Value, desiredValue,
		s.tuning.UpgradeMaxChance, s.tuning.UpgradeMinChance, s.tuning.UpgradeRisk)
	if err != nil {
		return nil, err
	}

	// The source item is consumed either way.
	if err := tx.DeleteItem(ctx, item.ID); err != nil {
		return nil, fmt.Errorf("failed to delete source item: %w", err)
	}

	result := &UpgradeResult{Chance: chance}
	if upgrade.Roll(chance, s.rnd) {
		creditWinnings(user, desiredValue.Sub(item.Value))

		newItem := domain.InventoryItem{
			UserID:   userID,
			Name:     desiredName,
			ImageRef: s.catalog.ImageRef(desiredName),
			Value:    desiredValue,
		}
		if err := tx.InsertItem(ctx, &newItem); err != nil {
			return nil, fmt.Errorf("failed to insert upgraded item: %w", err)
		}
		result.Success = true
		result.NewItem = &newItem
	} else {
		// Full stake leaves the winnings counter, no floor.
		debitWinnings(user, item.Value)
	}

	if err := tx.UpdateUser(ctx, *user); err != nil {
		return nil, fmt.Errorf("failed to update user: %w", err)
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	outcome := metrics.OutcomeFailed
	if result.Success {
		outcome = metrics.OutcomeSuccess
	}
	metrics.Upgrades.WithLabelValues(outcome).Inc()

	log.Info("Upgrade resolved", "userID", userID, "itemID", itemID, "desired", desiredName, "chance", chance, "success", result.Success)
	return result, nil
}
