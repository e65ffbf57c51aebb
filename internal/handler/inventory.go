package handler

import (
	"net/http"

	"github.com/shopspring/decimal"

	"github.com/ludik-gifts/backend/internal/ledger"
	"github.com/ludik-gifts/backend/internal/logger"
)

// WithdrawGiftRequest sends an owned prize to the user's Telegram account.
type WithdrawGiftRequest struct {
	ItemID   int64  `json:"item_id" validate:"required,gt=0"`
	Username string `json:"username" validate:"required"`
}

// WithdrawGiftResponse names the gift that was sent.
type WithdrawGiftResponse struct {
	Message  string `json:"message"`
	GiftName string `json:"gift_name"`
}

// HandleWithdrawGift reserves the item, calls the fulfillment service, and
// removes the item once the gift has been transferred.
func HandleWithdrawGift(svc ledger.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		identity, ok := mustIdentity(w, r)
		if !ok {
			return
		}

		var req WithdrawGiftRequest
		if err := DecodeAndValidateRequest(r, w, &req, "Withdraw gift"); err != nil {
			return
		}

		giftName, err := svc.Withdraw(r.Context(), identity.ID, req.Username, req.ItemID)
		if err != nil {
			respondServiceError(w, r, "Withdraw gift", err)
			return
		}

		logger.FromContext(r.Context()).Info("Gift withdrawn",
			"user_id", identity.ID, "item_id", req.ItemID, "gift", giftName)
		respondJSON(w, http.StatusOK, WithdrawGiftResponse{
			Message:  "Gift sent",
			GiftName: giftName,
		})
	}
}

// UpgradeItemRequest trades an owned prize for a chance at a pricier one.
type UpgradeItemRequest struct {
	ItemID          int64  `json:"item_id" validate:"required,gt=0"`
	DesiredItemName string `json:"desired_item_name" validate:"required"`
}

// HandleUpgradeItem consumes the source item and either grants the desired
// prize or nothing, at odds set by the value ratio.
func HandleUpgradeItem(svc ledger.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		identity, ok := mustIdentity(w, r)
		if !ok {
			return
		}

		var req UpgradeItemRequest
		if err := DecodeAndValidateRequest(r, w, &req, "Upgrade item"); err != nil {
			return
		}

		result, err := svc.Upgrade(r.Context(), identity.ID, req.ItemID, req.DesiredItemName)
		if err != nil {
			respondServiceError(w, r, "Upgrade item", err)
			return
		}

		logger.FromContext(r.Context()).Info("Upgrade attempted",
			"user_id", identity.ID,
			"item_id", req.ItemID,
			"desired", req.DesiredItemName,
			"success", result.Success)
		respondJSON(w, http.StatusOK, result)
	}
}

// ConvertToTONRequest sells one prize back to balance at its stored value.
type ConvertToTONRequest struct {
	ItemID int64 `json:"item_id" validate:"required,gt=0"`
}

// ConvertToTONResponse reports the balance after the conversion.
type ConvertToTONResponse struct {
	NewBalance decimal.Decimal `json:"new_balance_ton"`
}

// HandleConvertToTON converts a single prize into balance.
func HandleConvertToTON(svc ledger.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		identity, ok := mustIdentity(w, r)
		if !ok {
			return
		}

		var req ConvertToTONRequest
		if err := DecodeAndValidateRequest(r, w, &req, "Convert to TON"); err != nil {
			return
		}

		newBalance, err := svc.ConvertToTON(r.Context(), identity.ID, req.ItemID)
		if err != nil {
			respondServiceError(w, r, "Convert to TON", err)
			return
		}

		respondJSON(w, http.StatusOK, ConvertToTONResponse{NewBalance: newBalance})
	}
}

// HandleSellAllItems converts every sellable prize in one transaction.
func HandleSellAllItems(svc ledger.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		identity, ok := mustIdentity(w, r)
		if !ok {
			return
		}

		result, err := svc.SellAll(r.Context(), identity.ID)
		if err != nil {
			respondServiceError(w, r, "Sell all items", err)
			return
		}

		logger.FromContext(r.Context()).Info("Inventory sold",
			"user_id", identity.ID, "items", result.ItemsSold, "value", result.TotalValue)
		respondJSON(w, http.StatusOK, result)
	}
}
