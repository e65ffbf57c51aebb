package ledger

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/ludik-gifts/backend/internal/domain"
	"github.com/ludik-gifts/backend/internal/logger"
	"github.com/ludik-gifts/backend/internal/metrics"
	"github.com/ludik-gifts/backend/internal/repository"
)

// GetAccount returns the account view for a verified identity, creating
// the account on first access. The Telegram user ID is the primary key,
// so creation is idempotent under the account lock.
func (s *service) GetAccount(ctx context.Context, identity domain.Identity) (*AccountView, error) {
	log := logger.FromContext(ctx)
	log.Info("GetAccount called", "userID", identity.ID)

	user, err := s.repo.GetUser(ctx, identity.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if user == nil {
		if user, err = s.createAccount(ctx, identity); err != nil {
			return nil, err
		}
	}

	inventory, err := s.repo.ListInventory(ctx, user.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to list inventory: %w", err)
	}
	invited, err := s.repo.CountReferrals(ctx, user.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to count referrals: %w", err)
	}

	return &AccountView{User: *user, Inventory: inventory, InvitedFriends: invited}, nil
}

func (s *service) createAccount(ctx context.Context, identity domain.Identity) (*domain.User, error) {
	unlock := s.lockAccount(identity.ID)
	defer unlock()

	tx, err := s.repo.BeginTx(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer repository.SafeRollback(ctx, tx)

	// Re-check under the lock: a concurrent request may have created it.
	user, err := tx.GetUserForUpdate(ctx, identity.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if user != nil {
		return user, nil
	}

	user = &domain.User{
		ID:           identity.ID,
		Username:     identity.Username,
		FirstName:    identity.FirstName,
		LastName:     identity.LastName,
		ReferralCode: s.newReferralCode(identity.ID),
	}
	if err := tx.CreateUser(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	logger.FromContext(ctx).Info("Account created", "userID", user.ID)
	return user, nil
}

// newReferralCode generates "ref_<id>_<nnnn>" with a random 4-digit
// suffix. The suffix only makes codes awkward to guess; uniqueness comes
// from the embedded user ID.
func (s *service) newReferralCode(userID int64) string {
	suffix := 1000 + int(s.rnd()*9000)
	return fmt.Sprintf("ref_%d_%d", userID, suffix)
}

func (s *service) InstantTopUp(ctx context.Context, userID int64, amount decimal.Decimal) (decimal.Decimal, error) {
	log := logger.FromContext(ctx)
	log.Info("InstantTopUp called", "userID", userID, "amount", amount)

	if amount.LessThan(minTopUp) || amount.GreaterThan(maxTopUp) {
		return decimal.Zero, fmt.Errorf("%w: amount must be between %s and %s",
			domain.ErrInvalidInput, MinTopUpStr, MaxTopUpStr)
	}

	unlock := s.lockAccount(userID)
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

	user.Balance = user.Balance.Add(amount)
	if err := tx.UpdateUser(ctx, *user); err != nil {
		return decimal.Zero, fmt.Errorf("failed to update user: %w", err)
	}
	if err := tx.Commit(ctx); err != nil {
		return decimal.Zero, fmt.Errorf("failed to commit transaction: %w", err)
	}

	metrics.TONCredited.WithLabelValues(metrics.SourceTopUp).Add(amount.InexactFloat64())

	log.Info("Balance topped up", "userID", userID, "amount", amount, "newBalance", user.Balance)
	return user.Balance, nil
}

func (s *service) WithdrawReferralEarnings(ctx context.Context, userID int64) (*ReferralEarningsResult, error) {
	log := logger.FromContext(ctx)
	log.Info("WithdrawReferralEarnings called", "userID", userID)

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

	amount := user.ReferralEarningsPending
	if !amount.IsPositive() {
		return &ReferralEarningsResult{NewBalance: user.Balance}, nil
	}

	user.Balance = user.Balance.Add(amount)
	user.ReferralEarningsPending = decimal.Zero

	if err := tx.UpdateUser(ctx, *user); err != nil {
		return nil, fmt.Errorf("failed to update user: %w", err)
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	metrics.TONCredited.WithLabelValues(metrics.SourceReferral).Add(amount.InexactFloat64())

	log.Info("Referral earnings withdrawn", "userID", userID, "amount", amount, "newBalance", user.Balance)
	return &ReferralEarningsResult{Amount: amount, NewBalance: user.Balance}, nil
}

// RegisterReferral links a (possibly brand-new) user to the owner of
// refCode. Idempotent: a user who already has a referrer keeps it.
func (s *service) RegisterReferral(ctx context.Context, identity domain.Identity, refCode string) error {
	log := logger.FromContext(ctx)
	log.Info("RegisterReferral called", "userID", identity.ID)

	if refCode == "" {
		return fmt.Errorf("%w: referral code required", domain.ErrInvalidInput)
	}

	referrer, err := s.repo.GetUserByReferralCode(ctx, refCode)
	if err != nil {
		return fmt.Errorf("failed to look up referral code: %w", err)
	}
	if referrer == nil {
		// Dead link; nothing to record.
		log.Info("Referral code unknown", "userID", identity.ID)
		return nil
	}
	if referrer.ID == identity.ID {
		return domain.ErrSelfReferral
	}

	unlock := s.lockAccount(identity.ID)
	defer unlock()

	tx, err := s.repo.BeginTx(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer repository.SafeRollback(ctx, tx)

	user, err := tx.GetUserForUpdate(ctx, identity.ID)
	if err != nil {
		return fmt.Errorf("failed to get user: %w", err)
	}
	if user == nil {
		user = &domain.User{
			ID:           identity.ID,
			Username:     identity.Username,
			FirstName:    identity.FirstName,
			LastName:     identity.LastName,
			ReferralCode: s.newReferralCode(identity.ID),
		}
		if err := tx.CreateUser(ctx, user); err != nil {
			return fmt.Errorf("failed to create user: %w", err)
		}
	}
	if user.ReferredByID != nil {
		return nil
	}

	user.ReferredByID = &referrer.ID
	if err := tx.UpdateUser(ctx, *user); err != nil {
		return fmt.Errorf("failed to update user: %w", err)
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	metrics.ReferralsRegistered.Inc()
	s.notifier.ReferralJoined(ctx, referrer.ID, user.DisplayName())

	log.Info("Referral registered", "userID", identity.ID, "referrerID", referrer.ID)
	return nil
}

func (s *service) Leaderboard(ctx context.Context) ([]domain.LeaderboardEntry, error) {
	users, err := s.repo.Leaderboard(ctx, LeaderboardLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to load leaderboard: %w", err)
	}

	entries := make([]domain.LeaderboardEntry, 0, len(users))
	for i, u := range users {
		entries = append(entries, domain.LeaderboardEntry{
			Rank:       i + 1,
			UserID:     u.ID,
			Name:       leaderboardName(&u),
			AvatarChar: avatarChar(&u),
			Income:     u.TotalWon,
		})
	}
	return entries, nil
}

// leaderboardName falls back to a truncated ID when the profile carries no
// usable name.
func leaderboardName(u *domain.User) string {
	if u.FirstName != "" {
		return u.FirstName
	}
	if u.Username != "" {
		return u.Username
	}
	id := strconv.FormatInt(u.ID, 10)
	if len(id) > 4 {
		id = id[:4]
	}
	return "User_" + id
}

func avatarChar(u *domain.User) string {
	name := u.FirstName
	if name == "" {
		return "U"
	}
	return strings.ToUpper(string([]rune(name)[0]))
}
