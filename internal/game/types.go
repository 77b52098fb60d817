// internal/game/types.go
//
// Core type definitions for guess evaluation.
// Defines:
//   - Status: per-letter result of a guess (correct/present/absent).
//   - LetterResult: one tile of feedback.
//   - Feedback: one evaluated guess (WordLength tiles).

package game

// Status represents the evaluation result for a single letter in a guess.
//   - "correct": letter is in the target at the same position.
//   - "present": letter occurs somewhere else in the target.
//   - "absent":  letter does not occur in the target at all.
type Status string

const (
	StatusCorrect Status = "correct"
	StatusPresent Status = "present"
	StatusAbsent  Status = "absent"
)

const (
	WordLength  = 5 // letters per word
	MaxAttempts = 5 // guesses per game
	DailyLimit  = 3 // games per user per calendar day
)

// LetterResult is one tile of feedback.
type LetterResult struct {
	Letter string `json:"letter"`
	Status Status `json:"status"`
}

// Feedback is the evaluated form of one guess, in guess order.
type Feedback []LetterResult

// Word reassembles the guessed word from its tiles.
func (f Feedback) Word() string {
	b := make([]byte, 0, len(f))
	for _, lr := range f {
		b = append(b, lr.Letter...)
	}
	return string(b)
}

// Solved reports whether every tile is correct.
func (f Feedback) Solved() bool {
	if len(f) == 0 {
		return false
	}
	for _, lr := range f {
		if lr.Status != StatusCorrect {
			return false
		}
	}
	return true
}
