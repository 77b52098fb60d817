// internal/store/store.go
//
// Persistence interface for users, words and game sessions.
// The SQLite implementation lives in sqlite.go; the interface lets the
// engine and report packages stay independent of the driver.

package store

import (
	"context"
	"errors"
	"time"

	"github.com/robalobadob/guessword/internal/game"
)

var (
	// ErrNotFound is returned when a keyed lookup matches no row.
	ErrNotFound = errors.New("store: not found")
	// ErrDuplicate is returned when a unique column would be violated.
	ErrDuplicate = errors.New("store: duplicate")
	// ErrLimitReached is returned by CreateSession when the per-day cap is hit.
	ErrLimitReached = errors.New("store: daily session limit reached")
	// ErrConflict is returned by UpdateSession when the row changed underneath.
	ErrConflict = errors.New("store: concurrent update")
)

// User is a registered account.
type User struct {
	ID           int64     `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	IsAdmin      bool      `json:"isAdmin"`
	CreatedAt    time.Time `json:"createdAt"`
}

// Word is one entry of the target vocabulary.
type Word struct {
	ID   int64  `json:"id"`
	Word string `json:"word"`
}

// GameSession is the persisted record of one game.
type GameSession struct {
	ID        int64           `json:"id"`
	UserID    int64           `json:"userId"`
	WordID    int64           `json:"wordId"`
	Date      string          `json:"date"` // YYYY-MM-DD
	Guesses   []game.Feedback `json:"guesses"`
	IsCorrect bool            `json:"isCorrect"`
	Attempts  int             `json:"attempts"`
	CreatedAt time.Time       `json:"createdAt"`
}

// Terminal reports whether the session can no longer accept guesses.
func (s *GameSession) Terminal() bool {
	return s.IsCorrect || s.Attempts >= game.MaxAttempts
}

// Store is implemented by *SQLite.
type Store interface {
	CreateUser(ctx context.Context, username, passwordHash string, isAdmin bool) (*User, error)
	UserByID(ctx context.Context, id int64) (*User, error)
	UserByUsername(ctx context.Context, username string) (*User, error)
	ListPlayers(ctx context.Context) ([]User, error)

	SeedWords(ctx context.Context, words []string) error
	Words(ctx context.Context) ([]Word, error)
	WordByID(ctx context.Context, id int64) (*Word, error)

	// CreateSession counts the user's sessions for date and inserts a new
	// one only if fewer than limit exist, atomically.
	CreateSession(ctx context.Context, userID, wordID int64, date string, limit int) (*GameSession, error)
	SessionByID(ctx context.Context, id int64) (*GameSession, error)
	// OpenSession returns the newest non-terminal session for (user, date).
	OpenSession(ctx context.Context, userID int64, date string) (*GameSession, error)
	CountSessions(ctx context.Context, userID int64, date string) (int, error)
	// UpdateSession writes guesses/attempts/is_correct, guarded on the
	// attempt count the caller read.
	UpdateSession(ctx context.Context, s *GameSession, prevAttempts int) error
	SessionsByDate(ctx context.Context, date string) ([]GameSession, error)
	SessionsByUser(ctx context.Context, userID int64) ([]GameSession, error)
}
