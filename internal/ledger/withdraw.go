package ledger

import (
	"context"
	"fmt"

	"github.com/ludik-gifts/backend/internal/domain"
	"github.com/ludik-gifts/backend/internal/logger"
	"github.com/ludik-gifts/backend/internal/metrics"
	"github.com/ludik-gifts/backend/internal/repository"
)

// Withdraw sends a real gift to its owner on Telegram. The external call
// can take tens of seconds, so the item is reserved (pending_withdrawal)
// in a short transaction, the account lock is released for the duration of
// the transfer, and the reservation is finalized or rolled back afterward.
// The item is deleted only after the transfer succeeded; no other state is
// touched on failure.
func (s *service) Withdraw(ctx context.Context, userID int64, username string, itemID int64) (string, error) {
	log := logger.FromContext(ctx)
	log.Info("Withdraw called", "userID", userID, "itemID", itemID)

	if username == "" {
		return "", domain.ErrUsernameRequired
	}

	giftName, err := s.reserveItem(ctx, userID, itemID)
	if err != nil {
		return "", err
	}

	if err := s.fulfillment.Transfer(ctx, giftName, username); err != nil {
		metrics.Withdrawals.WithLabelValues(metrics.OutcomeFailed).Inc()
		s.releaseReservation(ctx, userID, itemID)
		return "", err
	}

	if err := s.finalizeWithdrawal(ctx, userID, itemID); err != nil {
		// The gift already left; surfacing an error here would prompt a
		// retry of a delivered withdrawal. Log loudly and report success.
		log.Error("Failed to finalize withdrawal after successful transfer",
			"userID", userID, "itemID", itemID, "error", err)
	}

	metrics.Withdrawals.WithLabelValues(metrics.OutcomeSuccess).Inc()
	log.Info("Gift withdrawn", "userID", userID, "itemID", itemID, "gift", giftName)
	return giftName, nil
}

// reserveItem marks the item pending under the account+item locks and
// returns its gift name.
func (s *service) reserveItem(ctx context.Context, userID, itemID int64) (string, error) {
	unlock := s.lockAccountItem(userID, itemID)
	defer unlock()

	tx, err := s.repo.BeginTx(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer repository.SafeRollback(ctx, tx)

	item, err := tx.GetItemForUpdate(ctx, userID, itemID)
	if err != nil {
		return "", fmt.Errorf("failed to get item: %w", err)
	}
	if item == nil {
		return "", domain.ErrItemNotFound
	}
	if item.IsTONPrize {
		return "", domain.ErrNotWithdrawable
	}
	if item.PendingWithdrawal {
		return "", domain.ErrItemPending
	}

	if err := tx.SetItemPendingWithdrawal(ctx, itemID, true); err != nil {
		return "", fmt.Errorf("failed to reserve item: %w", err)
	}
	if err := tx.Commit(ctx); err != nil {
		return "", fmt.Errorf("failed to commit transaction: %w", err)
	}
	return item.Name, nil
}

// releaseReservation clears the pending mark after a failed transfer.
func (s *service) releaseReservation(ctx context.Context, userID, itemID int64) {
	unlock := s.lockAccountItem(userID, itemID)
	defer unlock()

	log := logger.FromContext(ctx)

	tx, err := s.repo.BeginTx(ctx)
	if err != nil {
		log.Error("Failed to begin compensation transaction; item stays reserved",
			"userID", userID, "itemID", itemID, "error", err)
		return
	}
	defer repository.SafeRollback(ctx, tx)

	if err := tx.SetItemPendingWithdrawal(ctx, itemID, false); err != nil {
		log.Error("Failed to release item reservation",
			"userID", userID, "itemID", itemID, "error", err)
		return
	}
	if err := tx.Commit(ctx); err != nil {
		log.Error("Failed to commit reservation release",
			"userID", userID, "itemID", itemID, "error", err)
	}
}

// finalizeWithdrawal deletes the delivered item.
func (s *service) finalizeWithdrawal(ctx context.Context, userID, itemID int64) error {
	unlock := s.lockAccountItem(userID, itemID)
	defer unlock()

	tx, err := s.repo.BeginTx(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer repository.SafeRollback(ctx, tx)

	if err := tx.DeleteItem(ctx, itemID); err != nil {
		return fmt.Errorf("failed to delete withdrawn item: %w", err)
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}
