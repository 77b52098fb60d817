package game

import (
	"errors"
	"fmt"
)

// Error kinds surfaced to callers. Wrap them with fmt.Errorf("...: %w") and
// test with errors.Is.
var (
	// ErrValidation: malformed user input, correctable by the caller.
	ErrValidation = errors.New("validation error")
	// ErrDailyLimitExceeded: the user already started DailyLimit games today.
	ErrDailyLimitExceeded = errors.New("daily game limit reached")
	// ErrInvalidSession: no game in progress; start one first.
	ErrInvalidSession = errors.New("no active game")
	// ErrNotFound: unknown user, word or game id.
	ErrNotFound = errors.New("not found")
	// ErrPersistence: the storage layer failed; not retried.
	ErrPersistence = errors.New("persistence failure")
)

// Persistence wraps a storage error so that errors.Is matches both
// ErrPersistence and the original cause.
func Persistence(op string, err error) error {
	return fmt.Errorf("%s: %w: %w", op, ErrPersistence, err)
}
