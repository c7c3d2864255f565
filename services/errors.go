package services

import (
	"errors"
	"fmt"
)

// Error taxonomy shared by the payout and notification services. Controllers
// branch on these with errors.Is instead of matching message text.
var (
	// ErrValidation marks caller mistakes (bad role, month out of range,
	// unknown cursor). Always raised before any store write.
	ErrValidation = errors.New("validation failed")

	// ErrNotFound marks a missing referenced row (investment, payout).
	ErrNotFound = errors.New("not found")

	// ErrDuplicatePayout marks a second payout creation for the same
	// investment and due date.
	ErrDuplicatePayout = errors.New("payout already exists for this period")
)

func validationErrorf(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}

func notFoundErrorf(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrNotFound, fmt.Sprintf(format, args...))
}
