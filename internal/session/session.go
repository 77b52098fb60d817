// internal/session/session.go
//
// Ephemeral per-user state for the game in progress.
//
// An Active entry caches the id of the user's current game and the feedback
// rows played so far. It is a derived view of the persisted game session:
// callers rebuild it from storage whenever the two disagree.

package session

import (
	"context"
	"errors"

	"github.com/robalobadob/guessword/internal/game"
)

// ErrNoActive is returned by Get when the user has no game in progress.
var ErrNoActive = errors.New("session: no active game")

// Active is the cached in-progress game of one user.
type Active struct {
	GameID  int64           `json:"gameId"`
	Guesses []game.Feedback `json:"guesses"`
}

// clone returns a deep-enough copy so callers never share slices with the store.
func (a Active) clone() Active {
	out := Active{GameID: a.GameID, Guesses: make([]game.Feedback, len(a.Guesses))}
	for i, fb := range a.Guesses {
		out.Guesses[i] = append(game.Feedback(nil), fb...)
	}
	return out
}

// Store defines the persistence interface for active-game entries.
// Implementations may be backed by memory (memory.go) or Redis (redis.go).
type Store interface {
	// Get returns the user's entry or ErrNoActive.
	Get(ctx context.Context, userID int64) (Active, error)

	// Set replaces the user's entry.
	Set(ctx context.Context, userID int64, a Active) error

	// Clear removes the user's entry. Clearing a missing entry is not an error.
	Clear(ctx context.Context, userID int64) error
}
