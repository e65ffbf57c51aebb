package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// UnlimitedActivations marks a promo code that never expires.
const UnlimitedActivations = -1

// PromoCode credits a fixed TON amount, at most once per user.
type PromoCode struct {
	ID              int64           `json:"id"`
	Code            string          `json:"code"`
	ActivationsLeft int             `json:"activations_left"`
	Amount          decimal.Decimal `json:"ton_amount"`
}

// Exhausted reports whether the code has no activations remaining.
func (p *PromoCode) Exhausted() bool {
	return p.ActivationsLeft != UnlimitedActivations && p.ActivationsLeft <= 0
}

// Redemption records that a user redeemed a promo code.
// Unique per (UserID, PromoCodeID).
type Redemption struct {
	UserID      int64     `json:"user_id"`
	PromoCodeID int64     `json:"promo_code_id"`
	RedeemedAt  time.Time `json:"redeemed_at"`
}
