package domain

import (
	"errors"
	"fmt"
)

// ErrorKind classifies a domain error for propagation policy and HTTP mapping.
type ErrorKind string

const (
	KindNotFound           ErrorKind = "NOT_FOUND"
	KindPreconditionFailed ErrorKind = "PRECONDITION_FAILED"
	KindUnauthorized       ErrorKind = "UNAUTHORIZED"
	KindPolicyViolation    ErrorKind = "POLICY_VIOLATION"
	KindConflict           ErrorKind = "CONFLICT"
	KindExternalFailure    ErrorKind = "EXTERNAL_FAILURE"
)

// Error is a domain error with a stable code and a classification kind.
type Error struct {
	Kind    ErrorKind
	Code    string
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

// WithDetail returns a copy of the error with extra context appended to the
// message. The code and kind stay stable so errors.Is keeps matching.
func (e *Error) WithDetail(format string, args ...any) *Error {
	return &Error{
		Kind:    e.Kind,
		Code:    e.Code,
		Message: fmt.Sprintf("%s: %s", e.Message, fmt.Sprintf(format, args...)),
	}
}

// Is matches by code, so detail-wrapped copies still compare equal to
// their sentinel.
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return e.Code == t.Code
}

var (
	// Not found
	ErrItemNotFound     = &Error{Kind: KindNotFound, Code: "ITEM_NOT_FOUND", Message: "item not found"}
	ErrOfferNotFound    = &Error{Kind: KindNotFound, Code: "OFFER_NOT_FOUND", Message: "offer not found"}
	ErrDeliveryNotFound = &Error{Kind: KindNotFound, Code: "DELIVERY_NOT_FOUND", Message: "delivery not found"}
	ErrEarningNotFound  = &Error{Kind: KindNotFound, Code: "EARNING_NOT_FOUND", Message: "earning not found"}
	ErrUserNotFound     = &Error{Kind: KindNotFound, Code: "USER_NOT_FOUND", Message: "user not found"}

	// Precondition failed
	ErrItemUnavailable     = &Error{Kind: KindPreconditionFailed, Code: "ITEM_UNAVAILABLE", Message: "item is not available"}
	ErrOfferNotPending     = &Error{Kind: KindPreconditionFailed, Code: "OFFER_NOT_PENDING", Message: "offer is not pending"}
	ErrOfferExpired        = &Error{Kind: KindPreconditionFailed, Code: "OFFER_EXPIRED", Message: "offer has expired"}
	ErrDeliveryFinalized   = &Error{Kind: KindPreconditionFailed, Code: "DELIVERY_FINALIZED", Message: "delivery is in a terminal state"}
	ErrInvalidTransition   = &Error{Kind: KindPreconditionFailed, Code: "INVALID_TRANSITION", Message: "invalid delivery status transition"}
	ErrEarningNotRequested = &Error{Kind: KindPreconditionFailed, Code: "EARNING_NOT_REQUESTED", Message: "earning has no pending payout request"}

	// Unauthorized
	ErrNotOwner    = &Error{Kind: KindUnauthorized, Code: "NOT_OWNER", Message: "caller is not the item owner"}
	ErrNotCourier  = &Error{Kind: KindUnauthorized, Code: "NOT_COURIER", Message: "caller is not the assigned courier"}
	ErrNotAdmin    = &Error{Kind: KindUnauthorized, Code: "NOT_ADMIN", Message: "caller is not an admin"}
	ErrNotAllowed  = &Error{Kind: KindUnauthorized, Code: "NOT_ALLOWED", Message: "caller may not perform this action"}

	// Policy violations
	ErrDuplicateOffer        = &Error{Kind: KindPolicyViolation, Code: "DUPLICATE_OFFER", Message: "an active offer already exists for this item and courier"}
	ErrOptionMismatch        = &Error{Kind: KindPolicyViolation, Code: "OPTION_MISMATCH", Message: "offer kind does not match the item fulfillment option"}
	ErrInvalidAmount         = &Error{Kind: KindPolicyViolation, Code: "INVALID_AMOUNT", Message: "payout amount must be positive"}
	ErrBelowMinimumPayout    = &Error{Kind: KindPolicyViolation, Code: "BELOW_MINIMUM_PAYOUT", Message: "payout amount is below the configured minimum"}
	ErrUnsupportedMethod     = &Error{Kind: KindPolicyViolation, Code: "UNSUPPORTED_METHOD", Message: "payout method is not supported"}
	ErrInsufficientAvailable = &Error{Kind: KindPolicyViolation, Code: "INSUFFICIENT_AVAILABLE", Message: "payout amount exceeds available earnings"}
	ErrPendingRequestExists  = &Error{Kind: KindPolicyViolation, Code: "PENDING_REQUEST_EXISTS", Message: "a payout request is already pending for this user"}
	ErrDailyCapExceeded      = &Error{Kind: KindPolicyViolation, Code: "DAILY_CAP_EXCEEDED", Message: "payout amount exceeds the daily cap"}
	ErrReasonTooShort        = &Error{Kind: KindPolicyViolation, Code: "REASON_TOO_SHORT", Message: "a reason of at least 5 characters is required"}
	ErrDuplicateTransaction  = &Error{Kind: KindPolicyViolation, Code: "DUPLICATE_TRANSACTION", Message: "transaction id is already used by another earning"}
	ErrMissingTransactionID  = &Error{Kind: KindPolicyViolation, Code: "MISSING_TRANSACTION_ID", Message: "a gateway transaction id is required"}
	ErrInvalidRate           = &Error{Kind: KindPolicyViolation, Code: "INVALID_RATE", Message: "commission rate must be between 0 and 1"}
	ErrPaymentNotConfirmed   = &Error{Kind: KindPolicyViolation, Code: "PAYMENT_NOT_CONFIRMED", Message: "item payment has not been confirmed"}

	// Concurrency / external
	ErrConflict        = &Error{Kind: KindConflict, Code: "CONFLICT", Message: "concurrent update lost, retry the operation"}
	ErrExternalFailure = &Error{Kind: KindExternalFailure, Code: "EXTERNAL_FAILURE", Message: "external service unavailable"}
)

// KindOf extracts the classification of err, defaulting to ExternalFailure
// for unrecognized (infrastructure) errors.
func KindOf(err error) ErrorKind {
	var de *Error
	if errors.As(err, &de) {
		return de.Kind
	}
	return KindExternalFailure
}
