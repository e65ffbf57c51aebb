package domain

import "errors"

// Error message string constants - single source of truth for error messages
// Use these in assert.Contains() checks when testing error messages
const (
	// Auth errors
	ErrMsgAuthFailed = "authentication failed"

	// Account errors
	ErrMsgUserNotFound     = "user not found"
	ErrMsgUsernameRequired = "username required"

	// Case errors
	ErrMsgCaseNotFound      = "case not found"
	ErrMsgCaseNotCalibrated = "case is not calibrated"

	// Inventory errors
	ErrMsgItemNotFound    = "item not found"
	ErrMsgItemPending     = "item has a pending withdrawal"
	ErrMsgNotWithdrawable = "item cannot be withdrawn"
	ErrMsgNotConvertible  = "item cannot be converted"

	// Balance errors
	ErrMsgInsufficientFunds = "insufficient funds"

	// Upgrade errors
	ErrMsgUpgradeTargetTooCheap = "desired item must be more valuable"

	// Promo errors
	ErrMsgPromoNotFound   = "promo code not found"
	ErrMsgPromoExpired    = "promo code expired"
	ErrMsgAlreadyRedeemed = "promo code already redeemed"

	// Referral errors
	ErrMsgSelfReferral = "cannot refer yourself"

	// Validation errors (used for partial matches)
	ErrMsgInvalidInput    = "invalid input"
	ErrMsgInvalidQuantity = "quantity"
	ErrMsgInvalidAmount   = "amount"

	// Fulfillment errors
	ErrMsgFulfillmentFailed      = "fulfillment failed"
	ErrMsgFulfillmentUnavailable = "fulfillment service unavailable"
	ErrMsgFulfillmentTimeout     = "fulfillment request timed out"
	ErrMsgFulfillmentRejected    = "fulfillment request rejected"

	// Database/System errors
	ErrMsgTxClosed = "tx is closed"
)

// Common domain errors
// These errors should be used consistently across all layers of the application.
// Wrap these errors with fmt.Errorf("%w: %s", domain.ErrXxx, details) for additional context.
var (
	// Auth errors
	ErrAuthFailed = errors.New(ErrMsgAuthFailed)

	// Account errors
	ErrUserNotFound     = errors.New(ErrMsgUserNotFound)
	ErrUsernameRequired = errors.New(ErrMsgUsernameRequired)

	// Case errors
	ErrCaseNotFound      = errors.New(ErrMsgCaseNotFound)
	ErrCaseNotCalibrated = errors.New(ErrMsgCaseNotCalibrated)

	// Inventory errors
	ErrItemNotFound    = errors.New(ErrMsgItemNotFound)
	ErrItemPending     = errors.New(ErrMsgItemPending)
	ErrNotWithdrawable = errors.New(ErrMsgNotWithdrawable)
	ErrNotConvertible  = errors.New(ErrMsgNotConvertible)

	// Balance errors
	ErrInsufficientFunds = errors.New(ErrMsgInsufficientFunds)

	// Upgrade errors
	ErrUpgradeTargetTooCheap = errors.New(ErrMsgUpgradeTargetTooCheap)

	// Promo errors
	ErrPromoNotFound   = errors.New(ErrMsgPromoNotFound)
	ErrPromoExpired    = errors.New(ErrMsgPromoExpired)
	ErrAlreadyRedeemed = errors.New(ErrMsgAlreadyRedeemed)

	// Referral errors
	ErrSelfReferral = errors.New(ErrMsgSelfReferral)

	// Validation errors
	ErrInvalidInput = errors.New(ErrMsgInvalidInput)

	// Fulfillment errors
	// ErrFulfillmentFailed is the base; the sub-kinds wrap it so callers can
	// match the family with errors.Is(err, ErrFulfillmentFailed) and still
	// distinguish timeouts from rejections. All of them are retryable.
	ErrFulfillmentFailed      = errors.New(ErrMsgFulfillmentFailed)
	ErrFulfillmentUnavailable = wrap(ErrFulfillmentFailed, ErrMsgFulfillmentUnavailable)
	ErrFulfillmentTimeout     = wrap(ErrFulfillmentFailed, ErrMsgFulfillmentTimeout)
	ErrFulfillmentRejected    = wrap(ErrFulfillmentFailed, ErrMsgFulfillmentRejected)
)

type wrappedError struct {
	base error
	msg  string
}

func (e *wrappedError) Error() string { return e.msg }
func (e *wrappedError) Unwrap() error { return e.base }

func wrap(base error, msg string) error {
	return &wrappedError{base: base, msg: msg}
}
