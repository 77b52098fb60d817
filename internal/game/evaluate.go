// internal/game/evaluate.go
//
// Guess evaluation.
//
// Scoring is position-first with no letter-frequency accounting: a guess
// letter that is not an exact hit is "present" whenever it appears anywhere
// in the target, even if that target letter is already matched elsewhere.
// Repeated guess letters can therefore all be marked present.
package game

import (
	"fmt"
	"strings"
)

// ErrInvalidGuess is returned by NormalizeGuess for malformed input.
var ErrInvalidGuess = fmt.Errorf("%w: please enter a valid 5-letter word", ErrValidation)

// Evaluate scores guess against target. Both must already be normalized
// (uppercase, WordLength ASCII letters); see NormalizeGuess.
func Evaluate(guess, target string) Feedback {
	out := make(Feedback, len(guess))
	for i := 0; i < len(guess); i++ {
		letter := guess[i : i+1]
		switch {
		case i < len(target) && guess[i] == target[i]:
			out[i] = LetterResult{Letter: letter, Status: StatusCorrect}
		case strings.IndexByte(target, guess[i]) >= 0:
			out[i] = LetterResult{Letter: letter, Status: StatusPresent}
		default:
			out[i] = LetterResult{Letter: letter, Status: StatusAbsent}
		}
	}
	return out
}

// NormalizeGuess trims and uppercases raw input and checks that it is
// exactly WordLength letters A–Z.
func NormalizeGuess(raw string) (string, error) {
	g := strings.ToUpper(strings.TrimSpace(raw))
	if len(g) != WordLength || !isAlpha(g) {
		return "", ErrInvalidGuess
	}
	return g, nil
}

// isAlpha checks that a string consists only of uppercase A–Z.
func isAlpha(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < 'A' || s[i] > 'Z' {
			return false
		}
	}
	return true
}
