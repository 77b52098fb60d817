package auth

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/robalobadob/guessword/internal/game"
)

const (
	minUsernameLen  = 5
	maxUsernameLen  = 50
	minPasswordLen  = 5
	maxPasswordLen  = 72 // bcrypt ignores anything longer
	passwordSymbols = "$%*@"
)

func invalid(msg string) error {
	return fmt.Errorf("%w: %s", game.ErrValidation, msg)
}

// ValidateUsername enforces the registration rules: at least five
// characters with one ASCII lowercase and one ASCII uppercase letter.
func ValidateUsername(u string) error {
	n := utf8.RuneCountInString(u)
	if n < minUsernameLen {
		return invalid("username must be at least 5 characters long")
	}
	if n > maxUsernameLen {
		return invalid("username must be at most 50 characters long")
	}
	if !strings.ContainsFunc(u, isASCIILower) {
		return invalid("username must contain at least one lowercase letter")
	}
	if !strings.ContainsFunc(u, isASCIIUpper) {
		return invalid("username must contain at least one uppercase letter")
	}
	return nil
}

// ValidatePassword requires five or more characters including a letter,
// a digit and one of $ % * @.
func ValidatePassword(p string) error {
	if utf8.RuneCountInString(p) < minPasswordLen {
		return invalid("password must be at least 5 characters long")
	}
	// bcrypt's limit is in bytes.
	if len(p) > maxPasswordLen {
		return invalid("password must be at most 72 characters long")
	}
	if !strings.ContainsFunc(p, isASCIILetter) {
		return invalid("password must contain alphabetic characters")
	}
	if !strings.ContainsFunc(p, isASCIIDigit) {
		return invalid("password must contain numeric characters")
	}
	if !strings.ContainsAny(p, passwordSymbols) {
		return invalid("password must contain one of: $, %, *, @")
	}
	return nil
}

func isASCIILower(r rune) bool  { return r >= 'a' && r <= 'z' }
func isASCIIUpper(r rune) bool  { return r >= 'A' && r <= 'Z' }
func isASCIILetter(r rune) bool { return isASCIILower(r) || isASCIIUpper(r) }
func isASCIIDigit(r rune) bool  { return r >= '0' && r <= '9' }
