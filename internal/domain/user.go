package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// User represents an account. The ID is the Telegram user ID, so accounts
// are created lazily on first authenticated access and never deleted.
type User struct {
	ID                      int64           `json:"id"`
	Username                string          `json:"username,omitempty"`
	FirstName               string          `json:"first_name,omitempty"`
	LastName                string          `json:"last_name,omitempty"`
	Balance                 decimal.Decimal `json:"ton_balance"`
	ReferralCode            string          `json:"referral_code,omitempty"`
	ReferredByID            *int64          `json:"referred_by_id,omitempty"`
	ReferralEarningsPending decimal.Decimal `json:"referral_earnings_pending"`
	TotalWon                decimal.Decimal `json:"total_won_ton"`
	CreatedAt               time.Time       `json:"created_at"`
}

// Identity is a verified Telegram identity extracted from signed init data.
type Identity struct {
	ID        int64  `json:"id"`
	Username  string `json:"username"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

// DisplayName returns the best human-readable name for leaderboards and
// notifications, matching the precedence the web app uses.
func (u *User) DisplayName() string {
	if u.FirstName != "" {
		return u.FirstName
	}
	if u.Username != "" {
		return u.Username
	}
	return "User"
}
