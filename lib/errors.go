package lib

import (
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
)

// Database errors
var (
	ErrConflict = errors.New("conflict")
	ErrNotFound = errors.New("not found")
)

// Checkout errors
var (
	ErrValidation      = errors.New("validation failed")
	ErrNoItems         = errors.New("no items in order")
	ErrItemNotFound    = errors.New("item not found")
	ErrInvalidQuantity = errors.New("quantity must be a positive integer")
	ErrAmountOverflow  = errors.New("order total exceeds the supported range")

	ErrCategoryNotFound = errors.New("category not found")

	// ErrOrderNumberTaken is returned by the store when another order already holds the number.
	ErrOrderNumberTaken = fmt.Errorf("order number already taken: %w", ErrConflict)

	// ErrOrderNumberExhausted means every attempt to claim a number collided.
	ErrOrderNumberExhausted = errors.New("could not allocate a unique order number")
)

// CheckoutError marks a rejected order request. It unwraps to both ErrValidation and its cause.
type CheckoutError struct {
	Cause  error
	ItemID int64
}

func (e *CheckoutError) Error() string {
	return e.Cause.Error()
}

func (e *CheckoutError) Unwrap() []error {
	return []error{ErrValidation, e.Cause}
}

func NewCheckoutError(cause error, itemID int64) *CheckoutError {
	return &CheckoutError{Cause: cause, ItemID: itemID}
}

func MapPgError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code { // SQLSTATE
		case "23505": // unique_violation
			if IsOrderNumberViolation(err) {
				return ErrOrderNumberTaken
			}
			return ErrConflict
		case "23503": // foreign_key_violation
			return ErrNotFound
		case "P0002": // no_data_found
			return ErrNotFound
		}
	}
	return err
}

// IsOrderNumberViolation reports whether err is a unique violation on orders.order_number.
func IsOrderNumberViolation(err error) bool {
	if errors.Is(err, ErrOrderNumberTaken) {
		return true
	}
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) || pgErr.Code != "23505" {
		return false
	}
	return strings.Contains(pgErr.ConstraintName, "order_number") ||
		strings.Contains(pgErr.Detail, "order_number")
}
