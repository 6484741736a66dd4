package services

import (
	"errors"
	"fmt"
)

// Error categories. Every service error wraps exactly one of them so handlers can
// map it to a status code with errors.Is.
var (
	ErrValidation   = errors.New("validation error")
	ErrNotFound     = errors.New("not found")
	ErrForbidden    = errors.New("forbidden")
	ErrConflict     = errors.New("conflict")
	ErrInvalidState = errors.New("invalid state")
)

// kind builds a specific sentinel that also matches its category.
func kind(category error, message string) error {
	return fmt.Errorf("%w: %s", category, message)
}

var (
	ErrInvalidQuantity     = kind(ErrValidation, "quantity must be a positive integer")
	ErrInvalidOrderStatus  = kind(ErrValidation, "invalid order status")
	ErrEmptyOrder          = kind(ErrValidation, "order must contain at least one item")
	ErrPeriodClosed        = kind(ErrValidation, "period is not accepting orders")
	ErrNoCongregation      = kind(ErrValidation, "user is not linked to a congregation")
	ErrMagazineNotFound    = kind(ErrNotFound, "magazine not found")
	ErrCombinationNotFound = kind(ErrNotFound, "combination not found")
	ErrOrderNotFound       = kind(ErrNotFound, "order not found")
	ErrPeriodNotFound      = kind(ErrNotFound, "period not found")
	ErrAreaNotFound        = kind(ErrNotFound, "area not found")
	ErrCongregationMissing = kind(ErrNotFound, "congregation not found")
	ErrUserNotFound        = kind(ErrNotFound, "user not found")
	ErrOrderNotEditable    = kind(ErrInvalidState, "order can only be changed while PENDING")
	ErrDuplicateCode       = kind(ErrConflict, "code already in use")
	ErrInUse               = kind(ErrConflict, "record is referenced by other records")
	ErrNotAllowed          = kind(ErrForbidden, "operation not allowed for this user")
)

// ErrInvalidCredentials is deliberately outside the taxonomy: it maps to 401.
var ErrInvalidCredentials = errors.New("invalid username or password")
