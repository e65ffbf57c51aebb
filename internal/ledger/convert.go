package ledger

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/ludik-gifts/backend/internal/domain"
	"github.com/ludik-gifts/backend/internal/logger"
	"github.com/ludik-gifts/backend/internal/metrics"
	"github.com/ludik-gifts/backend/internal/repository"
)

func (s *service) ConvertToTON(ctx context.Context, userID, itemID int64) (decimal.Decimal, error) {
	log := logger.FromContext(ctx)
	log.Info("ConvertToTON called", "userID", userID, "itemID", itemID)

	unlock := s.lockAccountItem(userID, itemID)
	defer unlock()

	tx, err := s.repo.BeginTx(ctx)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer repository.SafeRollback(ctx, tx)

	user, err := tx.GetUserForUpdate(ctx, userID)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to get user: %w", err)
	}
	if user == nil {
		return decimal.Zero, domain.ErrUserNotFound
	}

	item, err := tx.GetItemForUpdate(ctx, userID, itemID)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to get item: %w", err)
	}
	if item == nil {
		return decimal.Zero, domain.ErrItemNotFound
	}
	if item.IsTONPrize {
		return decimal.Zero, domain.ErrNotConvertible
	}
	if item.PendingWithdrawal {
		return decimal.Zero, domain.ErrItemPending
	}

	user.Balance = user.Balance.Add(item.Value)
	debitWinningsFloored(user, item.Value)

	if err := tx.DeleteItem(ctx, item.ID); err != nil {
		return decimal.Zero, fmt.Errorf("failed to delete item: %w", err)
	}
	if err := tx.UpdateUser(ctx, *user); err != nil {
		return decimal.Zero, fmt.Errorf("failed to update user: %w", err)
	}
	if err := tx.Commit(ctx); err != nil {
		return decimal.Zero, fmt.Errorf("failed to commit transaction: %w", err)
	}

	metrics.TONCredited.WithLabelValues(metrics.SourceConversion).Add(item.Value.InexactFloat64())

	log.Info("Item converted", "userID", userID, "itemID", itemID, "value", item.Value, "newBalance", user.Balance)
	return user.Balance, nil
}

func (s *service) SellAll(ctx context.Context, userID int64) (*SellAllResult, error) {
	log := logger.FromContext(ctx)
	log.Info("SellAll called", "userID", userID)

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

	items, err := tx.ListInventoryForUpdate(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list inventory: %w", err)
	}

	total := decimal.Zero
	sellable := make([]domain.InventoryItem, 0, len(items))
	for _, item := range items {
		if item.Sellable() {
			sellable = append(sellable, item)
			total = total.Add(item.Value)
		}
	}
	if len(sellable) == 0 {
		return &SellAllResult{NewBalance: user.Balance}, nil
	}

	user.Balance = user.Balance.Add(total)
	debitWinningsFloored(user, total)

	for _, item := range sellable {
		if err := tx.DeleteItem(ctx, item.ID); err != nil {
			return nil, fmt.Errorf("failed to delete item %d: %w", item.ID, err)
		}
	}
	if err := tx.UpdateUser(ctx, *user); err != nil {
		return nil, fmt.Errorf("failed to update user: %w", err)
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	metrics.TONCredited.WithLabelValues(metrics.SourceSellAll).Add(total.InexactFloat64())

	log.Info("Inventory sold", "userID", userID, "itemsSold", len(sellable), "total", total, "newBalance", user.Balance)
	return &SellAllResult{
		ItemsSold:  len(sellable),
		TotalValue: total,
		NewBalance: user.Balance,
	}, nil
}
