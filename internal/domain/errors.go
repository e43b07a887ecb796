package domain

import "errors"

// Validation failures. Handlers map these to 400 unless noted.
var (
	ErrUnknownPlan        = errors.New("unknown plan")
	ErrInvalidPlanDays    = errors.New("planDays must be at least 1 for Per Day plans")
	ErrStartBeforeCutoff  = errors.New("membership start date precedes the allowed cutoff")
	ErrInvalidAmount      = errors.New("amount must be greater than zero")
	ErrNegativeAmount     = errors.New("amounts must not be negative")
	ErrInvalidDebt        = errors.New("debt must lie between zero and the cost")
	ErrOverpayment        = errors.New("payment exceeds the amount due")
	ErrDebtExceeded       = errors.New("payment exceeds the outstanding debt")
	ErrInvalidPaymentMode = errors.New("invalid payment mode")
	ErrInvalidPaymentType = errors.New("invalid payment type")
	ErrUnknownStatus      = errors.New("unknown status")
	ErrExpiryRequired     = errors.New("expiryDate is required to unfreeze")

	// ErrInvalidTransition maps to 409.
	ErrInvalidTransition = errors.New("status transition not allowed")
)
