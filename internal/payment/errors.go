package payment

import "errors"

// Validation errors surfaced synchronously to the URL-building caller, with
// no side effects performed.
var (
	ErrInvalidAmount       = errors.New("payment: amount must be positive")
	ErrOverpaymentRejected = errors.New("payment: amount exceeds outstanding balance")
	ErrMissingField        = errors.New("payment: missing required field")
)

// Notification errors. Both are security relevant: log them with context but
// never reveal expected-vs-received hash values to the caller.
var (
	ErrForged    = errors.New("payment: notification signature mismatch")
	ErrMalformed = errors.New("payment: notification missing required parameters")
)

// Settlement errors.
var (
	ErrFeeNotFound    = errors.New("payment: tuition fee not found")
	ErrStorageFailure = errors.New("payment: settlement storage failure")
)
