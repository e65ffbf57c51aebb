package ledger

import (
	"github.com/shopspring/decimal"

	"github.com/ludik-gifts/backend/internal/domain"
)

// The winnings counter (TotalWon) drives the leaderboard. Conversions and
// sales floor the counter at zero; a failed upgrade subtracts the full
// stake and can push it negative.

func creditWinnings(u *domain.User, amount decimal.Decimal) {
	u.TotalWon = u.TotalWon.Add(amount)
}

// debitWinningsFloored reduces the counter but never below zero. Used by
// ConvertToTON and SellAll.
func debitWinningsFloored(u *domain.User, amount decimal.Decimal) {
	next := u.TotalWon.Sub(amount)
	if next.IsNegative() {
		next = decimal.Zero
	}
	u.TotalWon = next
}

// debitWinnings reduces the counter without a floor. Used by upgrade
// failure.
func debitWinnings(u *domain.User, amount decimal.Decimal) {
	u.TotalWon = u.TotalWon.Sub(amount)
}
