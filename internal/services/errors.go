package services

import "errors"

var (
	ErrNoUsers              = errors.New("no users registered")
	ErrInvalidCredentials   = errors.New("invalid user id or password")
	ErrNotLoggedIn          = errors.New("no active session")
	ErrUserNotSaved         = errors.New("user record missing after save")
	ErrConfirmationRequired = errors.New("confirmation required")
	ErrSubmissionInFlight   = errors.New("previous submission still in flight")

	ErrNoBillsSelected    = errors.New("no bills selected")
	ErrNoPaymentContext   = errors.New("no payment context")
	ErrPaymentIncomplete  = errors.New("payment context incomplete")
	ErrInvalidPaymentMode = errors.New("unsupported payment mode")
	ErrReceiptNotFound    = errors.New("receipt not found")
	ErrInvalidBillAmount  = errors.New("bill amount must be positive")

	ErrComplaintNotFound = errors.New("complaint not found")
)
