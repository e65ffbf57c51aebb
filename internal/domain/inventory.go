package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// InventoryItem is a prize owned by exactly one user. Items are created by
// case opening or upgrade success and destroyed by withdrawal, conversion,
// sale, or upgrade consumption.
type InventoryItem struct {
	ID         int64           `json:"id"`
	UserID     int64           `json:"user_id"`
	Name       string          `json:"name"`
	ImageRef   string          `json:"imageFilename"`
	Value      decimal.Decimal `json:"currentValue"`
	IsTONPrize bool            `json:"is_ton_prize"`
	// PendingWithdrawal reserves the item during the external fulfillment
	// call so no other operation can sell, convert, or re-withdraw it while
	// the account lock is released.
	PendingWithdrawal bool      `json:"-"`
	ObtainedAt        time.Time `json:"obtained_at"`
}

// Sellable reports whether the item can be converted to balance.
// TON prizes and reserved items are excluded.
func (i *InventoryItem) Sellable() bool {
	return !i.IsTONPrize && !i.PendingWithdrawal
}
