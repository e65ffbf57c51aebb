package handler

import (
	"errors"
	"net/http"

	"github.com/ludik-gifts/backend/internal/domain"
)

// Generic HTTP error messages for client responses.
// These messages intentionally do not expose internal error details.
// Both handlers and tests should reference these constants to maintain consistency.
const (
	ErrMsgInvalidRequest        = "Invalid request body"
	ErrMsgInvalidRequestSummary = "Invalid request"
	ErrMsgMissingQueryParam     = "Missing %s query parameter"
)

// User-facing error messages for service errors.
// Derived from domain errors; short enough for the web app to show as-is.
const (
	ErrMsgUnknownError       = "Unknown error"
	ErrMsgServerErrorError   = "Server error occurred. Please try again."
	ErrMsgAuthFailedError    = "Authentication failed. Please reopen the app."
	ErrMsgUserNotFoundError  = "User not found"
	ErrMsgItemNotFoundError  = "Item not found"
	ErrMsgCaseNotFoundError  = "Case not found"
	ErrMsgPromoNotFoundError = "Promo code not found"

	ErrMsgNotEnoughTONError       = "Not enough TON"
	ErrMsgUsernameRequiredError   = "Telegram username is required for withdrawal"
	ErrMsgItemPendingError        = "This item has a withdrawal in progress"
	ErrMsgNotWithdrawableError    = "This prize cannot be withdrawn"
	ErrMsgNotConvertibleError     = "This prize cannot be converted"
	ErrMsgUpgradeTargetError      = "Desired item must be more valuable than yours"
	ErrMsgPromoExpiredError       = "This promo code has expired"
	ErrMsgAlreadyRedeemedError    = "You have already redeemed this code"
	ErrMsgSelfReferralError       = "You cannot use your own referral code"
	ErrMsgWithdrawalFailedError   = "Withdrawal failed. Your gift is safe, try again later."
	ErrMsgInvalidInputGuidanceErr = "Invalid request. Please check your inputs."
)

// mapServiceErrorToUserMessage maps domain errors to user-friendly HTTP
// responses. Internal failures collapse to a generic 500 so database and
// wire details never leak to the client.
func mapServiceErrorToUserMessage(err error) (int, string) {
	if err == nil {
		return http.StatusInternalServerError, ErrMsgUnknownError
	}

	switch {
	case errors.Is(err, domain.ErrAuthFailed):
		return http.StatusUnauthorized, ErrMsgAuthFailedError

	case errors.Is(err, domain.ErrUserNotFound):
		return http.StatusNotFound, ErrMsgUserNotFoundError
	case errors.Is(err, domain.ErrItemNotFound):
		return http.StatusNotFound, ErrMsgItemNotFoundError
	case errors.Is(err, domain.ErrCaseNotFound):
		return http.StatusNotFound, ErrMsgCaseNotFoundError
	case errors.Is(err, domain.ErrPromoNotFound):
		return http.StatusNotFound, ErrMsgPromoNotFoundError

	case errors.Is(err, domain.ErrInsufficientFunds):
		return http.StatusBadRequest, ErrMsgNotEnoughTONError
	case errors.Is(err, domain.ErrUsernameRequired):
		return http.StatusBadRequest, ErrMsgUsernameRequiredError
	case errors.Is(err, domain.ErrItemPending):
		return http.StatusBadRequest, ErrMsgItemPendingError
	case errors.Is(err, domain.ErrNotWithdrawable):
		return http.StatusBadRequest, ErrMsgNotWithdrawableError
	case errors.Is(err, domain.ErrNotConvertible):
		return http.StatusBadRequest, ErrMsgNotConvertibleError
	case errors.Is(err, domain.ErrUpgradeTargetTooCheap):
		return http.StatusBadRequest, ErrMsgUpgradeTargetError
	case errors.Is(err, domain.ErrPromoExpired):
		return http.StatusBadRequest, ErrMsgPromoExpiredError
	case errors.Is(err, domain.ErrAlreadyRedeemed):
		return http.StatusBadRequest, ErrMsgAlreadyRedeemedError
	case errors.Is(err, domain.ErrSelfReferral):
		return http.StatusBadRequest, ErrMsgSelfReferralError
	case errors.Is(err, domain.ErrInvalidInput):
		return http.StatusBadRequest, ErrMsgInvalidInputGuidanceErr

	// The whole fulfillment family (timeout, unavailable, rejected) is a
	// bad gateway: the upstream gift service failed, not us.
	case errors.Is(err, domain.ErrFulfillmentFailed):
		return http.StatusBadGateway, ErrMsgWithdrawalFailedError
	}

	return http.StatusInternalServerError, ErrMsgServerErrorError
}
