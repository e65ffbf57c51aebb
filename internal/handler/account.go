package handler

import (
	"net/http"

	"github.com/shopspring/decimal"

	"github.com/ludik-gifts/backend/internal/ledger"
	"github.com/ludik-gifts/backend/internal/logger"
)

// HandleGetUserData returns the authenticated user's profile, creating the
// account on first access.
func HandleGetUserData(svc ledger.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		identity, ok := mustIdentity(w, r)
		if !ok {
			return
		}

		account, err := svc.GetAccount(r.Context(), identity)
		if err != nil {
			respondServiceError(w, r, "Get user data", err)
			return
		}

		respondJSON(w, http.StatusOK, account)
	}
}

// InstantTopUpRequest credits the balance directly.
type InstantTopUpRequest struct {
	Amount decimal.Decimal `json:"amount" validate:"required"`
}

// InstantTopUpResponse reports the balance after the credit.
type InstantTopUpResponse struct {
	NewBalance decimal.Decimal `json:"new_balance_ton"`
}

// HandleInstantTopUp credits TON to the authenticated user's balance.
func HandleInstantTopUp(svc ledger.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		identity, ok := mustIdentity(w, r)
		if !ok {
			return
		}

		var req InstantTopUpRequest
		if err := DecodeAndValidateRequest(r, w, &req, "Instant top-up"); err != nil {
			return
		}

		newBalance, err := svc.InstantTopUp(r.Context(), identity.ID, req.Amount)
		if err != nil {
			respondServiceError(w, r, "Instant top-up", err)
			return
		}

		logger.FromContext(r.Context()).Info("Balance topped up",
			"user_id", identity.ID, "amount", req.Amount)
		respondJSON(w, http.StatusOK, InstantTopUpResponse{NewBalance: newBalance})
	}
}

// RegisterReferralRequest links the caller to the owner of a referral code.
type RegisterReferralRequest struct {
	ReferralCode string `json:"referral_code" validate:"required"`
}

// HandleRegisterReferral records who invited the authenticated user.
// Unknown codes and repeat registrations succeed silently so the web app
// can always fire this on startup.
func HandleRegisterReferral(svc ledger.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		identity, ok := mustIdentity(w, r)
		if !ok {
			return
		}

		var req RegisterReferralRequest
		if err := DecodeAndValidateRequest(r, w, &req, "Register referral"); err != nil {
			return
		}

		if err := svc.RegisterReferral(r.Context(), identity, req.ReferralCode); err != nil {
			respondServiceError(w, r, "Register referral", err)
			return
		}

		respondJSON(w, http.StatusOK, SuccessResponse{Message: "Referral processed"})
	}
}

// HandleWithdrawReferralEarnings moves pending referral earnings into the
// spendable balance.
func HandleWithdrawReferralEarnings(svc ledger.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		identity, ok := mustIdentity(w, r)
		if !ok {
			return
		}

		result, err := svc.WithdrawReferralEarnings(r.Context(), identity.ID)
		if err != nil {
			respondServiceError(w, r, "Withdraw referral earnings", err)
			return
		}

		respondJSON(w, http.StatusOK, result)
	}
}

// HandleGetLeaderboard returns the top winners board. Public shape: the
// caller still authenticates, but sees only names and winnings.
func HandleGetLeaderboard(svc ledger.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		entries, err := svc.Leaderboard(r.Context())
		if err != nil {
			respondServiceError(w, r, "Get leaderboard", err)
			return
		}

		respondJSON(w, http.StatusOK, entries)
	}
}
