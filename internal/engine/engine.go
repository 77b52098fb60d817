// internal/engine/engine.go
//
// Game lifecycle for one user and one calendar day.
//
// States: no active game → in progress → terminal (won or lost).
//   - StartGame resumes the game in progress or creates a new one, subject
//     to the daily cap.
//   - SubmitGuess scores one guess, persists it, and ends the game on a win
//     or on the last attempt.
//
// The game_sessions row is the source of truth. The session.Store entry is
// a cache of it and is rebuilt or dropped whenever they disagree. Every
// mutating call holds a per-user mutex for its whole read-modify-write.

package engine

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/robalobadob/guessword/internal/game"
	"github.com/robalobadob/guessword/internal/session"
	"github.com/robalobadob/guessword/internal/store"
	"github.com/robalobadob/guessword/internal/words"
)

// WordSource picks and resolves target words (implemented by *words.Store).
type WordSource interface {
	Random(ctx context.Context) (store.Word, error)
	Get(ctx context.Context, id int64) (*store.Word, error)
}

// Engine orchestrates game sessions. Safe for concurrent use.
type Engine struct {
	store    store.Store
	words    WordSource
	sessions session.Store
	locks    *userLocks
}

// New wires an Engine.
func New(st store.Store, ws WordSource, ss session.Store) *Engine {
	return &Engine{store: st, words: ws, sessions: ss, locks: newUserLocks()}
}

// StartResult describes the game a player is now in.
type StartResult struct {
	GameID     int64           `json:"gameId"`
	Date       string          `json:"date"`
	Attempts   int             `json:"attempts"`
	Guesses    []game.Feedback `json:"guesses"`
	GamesToday int             `json:"gamesToday"`
	Resumed    bool            `json:"resumed"`
}

// GuessResult is the outcome of one accepted guess. RevealedWord is only
// set once the game is over.
type GuessResult struct {
	Feedback     game.Feedback `json:"result"`
	IsCorrect    bool          `json:"isCorrect"`
	GameOver     bool          `json:"gameOver"`
	RevealedWord string        `json:"correctWord,omitempty"`
	Attempts     int           `json:"attempts"`
}

// Status is the dashboard view for one user and day.
type Status struct {
	Date         string `json:"date"`
	GamesToday   int    `json:"gamesToday"`
	DailyLimit   int    `json:"dailyLimit"`
	CanPlay      bool   `json:"canPlay"`
	ActiveGameID int64  `json:"activeGameId,omitempty"`
}

// StartGame resumes userID's game in progress for today, or creates one.
func (e *Engine) StartGame(ctx context.Context, userID int64, today string) (*StartResult, error) {
	unlock := e.locks.lock(userID)
	defer unlock()

	if _, err := e.store.UserByID(ctx, userID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, fmt.Errorf("user %d: %w", userID, game.ErrNotFound)
		}
		return nil, game.Persistence("load user", err)
	}

	gs, err := e.reconcile(ctx, userID, today)
	if err != nil {
		return nil, err
	}
	resumed := gs != nil

	if gs == nil {
		w, err := e.words.Random(ctx)
		if err != nil {
			if errors.Is(err, words.ErrEmpty) {
				return nil, fmt.Errorf("no words available: %w", game.ErrNotFound)
			}
			return nil, game.Persistence("pick word", err)
		}
		gs, err = e.store.CreateSession(ctx, userID, w.ID, today, game.DailyLimit)
		if err != nil {
			if errors.Is(err, store.ErrLimitReached) {
				return nil, fmt.Errorf("%d games already played on %s: %w",
					game.DailyLimit, today, game.ErrDailyLimitExceeded)
			}
			return nil, game.Persistence("create game", err)
		}
		log.Info().Int64("user", userID).Int64("game", gs.ID).Str("date", today).Msg("game started")
	}

	if err := e.sessions.Set(ctx, userID, session.Active{GameID: gs.ID, Guesses: gs.Guesses}); err != nil {
		return nil, game.Persistence("store active game", err)
	}

	count, err := e.store.CountSessions(ctx, userID, today)
	if err != nil {
		return nil, game.Persistence("count games", err)
	}
	return &StartResult{
		GameID:     gs.ID,
		Date:       gs.Date,
		Attempts:   gs.Attempts,
		Guesses:    gs.Guesses,
		GamesToday: count,
		Resumed:    resumed,
	}, nil
}

// reconcile finds the game userID should continue today, if any.
//
// The cached entry is honoured only if its row is still in progress, owned by
// userID and dated today; otherwise it is dropped. Without a usable entry the
// newest in-progress row for today is resumed. Returns nil when a new game
// is needed.
func (e *Engine) reconcile(ctx context.Context, userID int64, today string) (*store.GameSession, error) {
	a, err := e.sessions.Get(ctx, userID)
	switch {
	case err == nil:
		gs, err := e.store.SessionByID(ctx, a.GameID)
		if err != nil && !errors.Is(err, store.ErrNotFound) {
			return nil, game.Persistence("load game", err)
		}
		if err == nil && gs.UserID == userID && gs.Date == today && !gs.Terminal() {
			return gs, nil
		}
		log.Debug().Int64("user", userID).Int64("game", a.GameID).Msg("dropping stale active game")
		if err := e.sessions.Clear(ctx, userID); err != nil {
			return nil, game.Persistence("clear active game", err)
		}
	case !errors.Is(err, session.ErrNoActive):
		return nil, game.Persistence("load active game", err)
	}

	gs, err := e.store.OpenSession(ctx, userID, today)
	if errors.Is(err, store.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, game.Persistence("find open game", err)
	}
	log.Info().Int64("user", userID).Int64("game", gs.ID).Msg("rebuilt active game from storage")
	return gs, nil
}

// SubmitGuess applies rawGuess to userID's active game.
func (e *Engine) SubmitGuess(ctx context.Context, userID int64, rawGuess string) (*GuessResult, error) {
	unlock := e.locks.lock(userID)
	defer unlock()

	a, err := e.sessions.Get(ctx, userID)
	if errors.Is(err, session.ErrNoActive) {
		return nil, game.ErrInvalidSession
	}
	if err != nil {
		return nil, game.Persistence("load active game", err)
	}

	guess, err := game.NormalizeGuess(rawGuess)
	if err != nil {
		return nil, err
	}

	gs, err := e.store.SessionByID(ctx, a.GameID)
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		return nil, game.Persistence("load game", err)
	}
	if err != nil || gs.UserID != userID || gs.Terminal() {
		// Persisted state wins: the cached game is gone, foreign or finished.
		if cerr := e.sessions.Clear(ctx, userID); cerr != nil {
			return nil, game.Persistence("clear active game", cerr)
		}
		return nil, game.ErrInvalidSession
	}

	target, err := e.words.Get(ctx, gs.WordID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, fmt.Errorf("word %d: %w", gs.WordID, game.ErrNotFound)
		}
		return nil, game.Persistence("load word", err)
	}

	fb := game.Evaluate(guess, target.Word)
	prev := gs.Attempts
	gs.Guesses = append(gs.Guesses, fb)
	gs.Attempts++
	gs.IsCorrect = guess == target.Word
	gameOver := gs.Terminal()

	if err := e.store.UpdateSession(ctx, gs, prev); err != nil {
		if errors.Is(err, store.ErrConflict) {
			// Another writer moved the row on; make the caller resume from storage.
			if cerr := e.sessions.Clear(ctx, userID); cerr != nil {
				return nil, game.Persistence("clear active game", cerr)
			}
			return nil, fmt.Errorf("game %d changed concurrently: %w", gs.ID, game.ErrInvalidSession)
		}
		return nil, game.Persistence("save guess", err)
	}

	res := &GuessResult{
		Feedback:  fb,
		IsCorrect: gs.IsCorrect,
		GameOver:  gameOver,
		Attempts:  gs.Attempts,
	}
	if gameOver {
		res.RevealedWord = target.Word
		log.Info().Int64("user", userID).Int64("game", gs.ID).Bool("won", gs.IsCorrect).
			Int("attempts", gs.Attempts).Msg("game finished")
		if err := e.sessions.Clear(ctx, userID); err != nil {
			// The row is terminal, so the next SubmitGuess drops the entry anyway.
			log.Warn().Err(err).Int64("user", userID).Msg("clear finished game")
		}
		return res, nil
	}

	if err := e.sessions.Set(ctx, userID, session.Active{GameID: gs.ID, Guesses: gs.Guesses}); err != nil {
		// The guess is already persisted; a stale cache is rebuilt on next StartGame.
		log.Warn().Err(err).Int64("user", userID).Msg("update active game")
	}
	return res, nil
}

// Status reports how many games userID has started on today and whether
// another may be started.
func (e *Engine) Status(ctx context.Context, userID int64, today string) (*Status, error) {
	count, err := e.store.CountSessions(ctx, userID, today)
	if err != nil {
		return nil, game.Persistence("count games", err)
	}
	st := &Status{
		Date:       today,
		GamesToday: count,
		DailyLimit: game.DailyLimit,
		CanPlay:    count < game.DailyLimit,
	}
	a, err := e.sessions.Get(ctx, userID)
	switch {
	case err == nil:
		st.ActiveGameID = a.GameID
		st.CanPlay = true
	case !errors.Is(err, session.ErrNoActive):
		return nil, game.Persistence("load active game", err)
	}
	return st, nil
}

// Abandon drops userID's cached game (used on logout). The persisted row is
// left as is and can be resumed by a later StartGame on the same day.
func (e *Engine) Abandon(ctx context.Context, userID int64) error {
	unlock := e.locks.lock(userID)
	defer unlock()
	if err := e.sessions.Clear(ctx, userID); err != nil {
		return game.Persistence("clear active game", err)
	}
	return nil
}
