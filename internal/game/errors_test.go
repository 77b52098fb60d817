package game

import (
	"errors"
	"testing"
)

func TestErrorKindsMatchWithErrorsIs(t *testing.T) {
	if !errors.Is(ErrInvalidGuess, ErrValidation) {
		t.Error("ErrInvalidGuess should be a validation error")
	}
	cause := errors.New("disk full")
	err := Persistence("save guess", cause)
	if !errors.Is(err, ErrPersistence) || !errors.Is(err, cause) {
		t.Errorf("Persistence(...) = %v, want both ErrPersistence and the cause", err)
	}
	if errors.Is(err, ErrValidation) {
		t.Error("a persistence failure is not a validation error")
	}
}
