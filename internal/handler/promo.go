package handler

import (
	"net/http"

	"github.com/ludik-gifts/backend/internal/ledger"
	"github.com/ludik-gifts/backend/internal/logger"
)

// RedeemPromoRequest redeems a promo code for a one-time TON credit.
type RedeemPromoRequest struct {
	Code string `json:"code" validate:"required"`
}

// HandleRedeemPromo credits the promo amount at most once per user.
func HandleRedeemPromo(svc ledger.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		identity, ok := mustIdentity(w, r)
		if !ok {
			return
		}

		var req RedeemPromoRequest
		if err := DecodeAndValidateRequest(r, w, &req, "Redeem promo"); err != nil {
			return
		}

		result, err := svc.RedeemPromo(r.Context(), identity.ID, req.Code)
		if err != nil {
			respondServiceError(w, r, "Redeem promo", err)
			return
		}

		logger.FromContext(r.Context()).Info("Promo redeemed",
			"user_id", identity.ID, "amount", result.Amount)
		respondJSON(w, http.StatusOK, result)
	}
}
