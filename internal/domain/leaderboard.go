package domain

import "github.com/shopspring/decimal"

// LeaderboardEntry is one row of the top-winners board, ranked by
// cumulative net winnings descending.
type LeaderboardEntry struct {
	Rank       int             `json:"rank"`
	UserID     int64           `json:"user_id"`
	Name       string          `json:"name"`
	AvatarChar string          `json:"avatarChar"`
	Income     decimal.Decimal `json:"income"`
}
