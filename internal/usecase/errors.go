package usecase

import (
	"errors"
	"fmt"
)

var (
	ErrValidation             = errors.New("validation failed")
	ErrNotFound               = errors.New("not found")
	ErrInsufficientStock      = errors.New("insufficient stock")
	ErrInvalidState           = errors.New("invalid state")
	ErrNotPendingVerification = errors.New("booking is not pending payment verification")
	ErrUnauthorized           = errors.New("unauthorized")
	ErrForbidden              = errors.New("forbidden")
	ErrConflict               = errors.New("conflict")
	ErrTooManyRequests        = errors.New("too many requests")
	ErrNotification           = errors.New("notification failed")
)

// Error pairs one of the sentinels above with a message safe to show clients.
type Error struct {
	Kind    error
	Message string
	Fields  map[string]string
}

func (e *Error) Error() string { return e.Message }

func (e *Error) Unwrap() error { return e.Kind }

func newError(kind error, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

func validationError(fields map[string]string) *Error {
	return &Error{Kind: ErrValidation, Message: "Validation failed", Fields: fields}
}

// InsufficientStockError names the item and the counts behind a refused
// reservation.
type InsufficientStockError struct {
	Item      string
	Available int
	Requested int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("Not enough stock for %s. Available: %d, Requested: %d", e.Item, e.Available, e.Requested)
}

func (e *InsufficientStockError) Is(target error) bool {
	return target == ErrInsufficientStock
}
