package internal

import "errors"

var (
	ErrLoginIsAlreadyTaken = errors.New("login is already taken")
	ErrInvalidCredentials  = errors.New("invalid credentials")

	ErrServiceRequired    = errors.New("service id is required")
	ErrInvalidQuantity    = errors.New("quantity must be positive")
	ErrQuantityOutOfRange = errors.New("quantity is out of range")
	ErrTooManyModifiers   = errors.New("too many modifiers")
	ErrInvalidCombination = errors.New("invalid modifier combination")

	ErrServiceNotFound  = errors.New("service not found")
	ErrModifierNotFound = errors.New("modifier not found")
	ErrNoRecords        = errors.New("no records")

	ErrInvalidDiscountType = errors.New("invalid discount type")
	ErrInvalidAmount       = errors.New("amount must be positive")

	ErrInvalidStatusTransition = errors.New("invalid status transition")
	ErrInvalidPaymentAmount    = errors.New("invalid payment amount")
	ErrPaymentExceedsTotal     = errors.New("payment exceeds order total")

	ErrClientRequired        = errors.New("client id is required")
	ErrBranchRequired        = errors.New("branch id is required")
	ErrNoItems               = errors.New("order must contain at least one item")
	ErrTooManyItems          = errors.New("too many order items")
	ErrInvalidCompletionDate = errors.New("completion date is out of range")
	ErrNotesTooLong          = errors.New("notes are too long")

	ErrLuhnInvalid = errors.New("number invalid by luhn")
)
