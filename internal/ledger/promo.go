package ledger

import (
	"context"
	"fmt"

	"github.com/ludik-gifts/backend/internal/domain"
	"github.com/ludik-gifts/backend/internal/logger"
	"github.com/ludik-gifts/backend/internal/metrics"
	"github.com/ludik-gifts/backend/internal/repository"
)

// RedeemPromo checks eligibility and credits the code's amount. Lookup,
// expiry, per-user uniqueness, decrement, and credit all happen inside one
// transaction with the promo row locked, so two users racing for the last
// activation cannot both win it.
func (s *service) RedeemPromo(ctx context.Context, userID int64, code string) (*RedeemResult, error) {
	log := logger.FromContext(ctx)
	log.Info("RedeemPromo called", "userID", userID)

	if code == "" {
		return nil, fmt.Errorf("%w: code required", domain.ErrInvalidInput)
	}

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

	promo, err := tx.GetPromoForUpdate(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("failed to get promo code: %w", err)
	}
	if promo == nil {
		return nil, domain.ErrPromoNotFound
	}
	if promo.Exhausted() {
		return nil, domain.ErrPromoExpired
	}

	redeemed, err := tx.HasRedemption(ctx, userID, promo.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to check redemption: %w", err)
	}
	if redeemed {
		return nil, domain.ErrAlreadyRedeemed
	}

	if promo.ActivationsLeft != domain.UnlimitedActivations {
		promo.ActivationsLeft--
		if err := tx.UpdatePromo(ctx, *promo); err != nil {
			return nil, fmt.Errorf("failed to update promo code: %w", err)
		}
	}

	user.Balance = user.Balance.Add(promo.Amount)
	if err := tx.UpdateUser(ctx, *user); err != nil {
		return nil, fmt.Errorf("failed to update user: %w", err)
	}
	if err := tx.InsertRedemption(ctx, userID, promo.ID); err != nil {
		return nil, fmt.Errorf("failed to record redemption: %w", err)
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	metrics.PromoRedemptions.Inc()
	metrics.TONCredited.WithLabelValues(metrics.SourcePromo).Add(promo.Amount.InexactFloat64())

	log.Info("Promo redeemed", "userID", userID, "amount", promo.Amount, "newBalance", user.Balance)
	return &RedeemResult{Amount: promo.Amount, NewBalance: user.Balance}, nil
}
