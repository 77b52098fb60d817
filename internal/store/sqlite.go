// internal/store/sqlite.go
//
// SQLite implementation of Store.
// Timestamps are stored as RFC3339 text, session dates as YYYY-MM-DD text,
// and the feedback history as a JSON array in game_sessions.guesses.

package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/mattn/go-sqlite3"

	"github.com/robalobadob/guessword/internal/game"
)

// SQLite is a Store backed by a single SQLite database.
type SQLite struct {
	db  *sql.DB
	now func() time.Time
}

// Open opens the database at path (":memory:" for an ephemeral one) and
// applies the schema scripts found in migrations.
func Open(path string, migrations fs.FS) (*SQLite, error) {
	db, err := openDB(path)
	if err != nil {
		return nil, err
	}
	if err := migrate(db, migrations); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &SQLite{db: db, now: func() time.Time { return time.Now().UTC() }}, nil
}

// Close releases the underlying database handle.
func (s *SQLite) Close() error { return s.db.Close() }

// Ping checks the database connection (used by /health).
func (s *SQLite) Ping(ctx context.Context) error { return s.db.PingContext(ctx) }

/* --------------------------------- users --------------------------------- */

func (s *SQLite) CreateUser(ctx context.Context, username, passwordHash string, isAdmin bool) (*User, error) {
	created := s.now()
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO users (username, password_hash, is_admin, created_at) VALUES (?,?,?,?)`,
		username, passwordHash, isAdmin, created.Format(time.RFC3339))
	if err != nil {
		if isUniqueViolation(err) {
			return nil, ErrDuplicate
		}
		return nil, fmt.Errorf("insert user: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}
	return &User{ID: id, Username: username, PasswordHash: passwordHash, IsAdmin: isAdmin, CreatedAt: created}, nil
}

func (s *SQLite) UserByID(ctx context.Context, id int64) (*User, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, username, password_hash, is_admin, created_at FROM users WHERE id=?`, id)
	return scanUser(row)
}

func (s *SQLite) UserByUsername(ctx context.Context, username string) (*User, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, username, password_hash, is_admin, created_at FROM users WHERE username=?`, username)
	return scanUser(row)
}

// ListPlayers returns every non-admin user ordered by username.
func (s *SQLite) ListPlayers(ctx context.Context) ([]User, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, username, password_hash, is_admin, created_at
		 FROM users WHERE is_admin=0 ORDER BY username`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []User{}
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *u)
	}
	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner) (*User, error) {
	var u User
	var created string
	if err := row.Scan(&u.ID, &u.Username, &u.PasswordHash, &u.IsAdmin, &created); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	u.CreatedAt = mustParse(created)
	return &u, nil
}

/* --------------------------------- words --------------------------------- */

// SeedWords inserts any words that are not present yet.
func (s *SQLite) SeedWords(ctx context.Context, words []string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	now := s.now().Format(time.RFC3339)
	for _, w := range words {
		if _, err := tx.ExecContext(ctx,
			`INSERT OR IGNORE INTO words (word, created_at) VALUES (?, ?)`, w, now); err != nil {
			return fmt.Errorf("seed %s: %w", w, err)
		}
	}
	return tx.Commit()
}

func (s *SQLite) Words(ctx context.Context) ([]Word, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, word FROM words ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Word
	for rows.Next() {
		var w Word
		if err := rows.Scan(&w.ID, &w.Word); err != nil {
			return nil, err
		}
		out = append(out, w)
	}
	return out, rows.Err()
}

func (s *SQLite) WordByID(ctx context.Context, id int64) (*Word, error) {
	var w Word
	err := s.db.QueryRowContext(ctx, `SELECT id, word FROM words WHERE id=?`, id).Scan(&w.ID, &w.Word)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &w, nil
}

/* -------------------------------- sessions ------------------------------- */

const sessionColumns = `id, user_id, word_id, date, guesses, is_correct, attempts, created_at`

// CreateSession runs the count and the insert in one write transaction.
func (s *SQLite) CreateSession(ctx context.Context, userID, wordID int64, date string, limit int) (*GameSession, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback() }()

	var cnt int
	if err := tx.QueryRowContext(ctx,
		`SELECT COUNT(1) FROM game_sessions WHERE user_id=? AND date=?`, userID, date,
	).Scan(&cnt); err != nil {
		return nil, fmt.Errorf("count sessions: %w", err)
	}
	if cnt >= limit {
		return nil, ErrLimitReached
	}

	created := s.now()
	res, err := tx.ExecContext(ctx,
		`INSERT INTO game_sessions (user_id, word_id, date, guesses, is_correct, attempts, created_at)
		 VALUES (?, ?, ?, '[]', 0, 0, ?)`,
		userID, wordID, date, created.Format(time.RFC3339))
	if err != nil {
		return nil, fmt.Errorf("insert session: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return &GameSession{
		ID:        id,
		UserID:    userID,
		WordID:    wordID,
		Date:      date,
		Guesses:   []game.Feedback{},
		CreatedAt: created,
	}, nil
}

func (s *SQLite) SessionByID(ctx context.Context, id int64) (*GameSession, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+sessionColumns+` FROM game_sessions WHERE id=?`, id)
	return scanSession(row)
}

func (s *SQLite) OpenSession(ctx context.Context, userID int64, date string) (*GameSession, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+sessionColumns+` FROM game_sessions
		 WHERE user_id=? AND date=? AND is_correct=0 AND attempts < ?
		 ORDER BY id DESC LIMIT 1`, userID, date, game.MaxAttempts)
	return scanSession(row)
}

func (s *SQLite) CountSessions(ctx context.Context, userID int64, date string) (int, error) {
	var cnt int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(1) FROM game_sessions WHERE user_id=? AND date=?`, userID, date,
	).Scan(&cnt)
	return cnt, err
}

func (s *SQLite) UpdateSession(ctx context.Context, gs *GameSession, prevAttempts int) error {
	guesses, err := json.Marshal(gs.Guesses)
	if err != nil {
		return fmt.Errorf("encode guesses: %w", err)
	}
	res, err := s.db.ExecContext(ctx,
		`UPDATE game_sessions SET guesses=?, attempts=?, is_correct=?
		 WHERE id=? AND attempts=?`,
		string(guesses), gs.Attempts, gs.IsCorrect, gs.ID, prevAttempts)
	if err != nil {
		return fmt.Errorf("update session: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrConflict
	}
	return nil
}

func (s *SQLite) SessionsByDate(ctx context.Context, date string) ([]GameSession, error) {
	return s.querySessions(ctx,
		`SELECT `+sessionColumns+` FROM game_sessions WHERE date=? ORDER BY id`, date)
}

// SessionsByUser returns the user's sessions, newest date first.
func (s *SQLite) SessionsByUser(ctx context.Context, userID int64) ([]GameSession, error) {
	return s.querySessions(ctx,
		`SELECT `+sessionColumns+` FROM game_sessions WHERE user_id=? ORDER BY date DESC, id`, userID)
}

func (s *SQLite) querySessions(ctx context.Context, query string, args ...any) ([]GameSession, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []GameSession{}
	for rows.Next() {
		gs, err := scanSession(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *gs)
	}
	return out, rows.Err()
}

func scanSession(row rowScanner) (*GameSession, error) {
	var gs GameSession
	var guesses, created string
	if err := row.Scan(&gs.ID, &gs.UserID, &gs.WordID, &gs.Date, &guesses,
		&gs.IsCorrect, &gs.Attempts, &created); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if err := json.Unmarshal([]byte(guesses), &gs.Guesses); err != nil {
		return nil, fmt.Errorf("decode guesses for session %d: %w", gs.ID, err)
	}
	if gs.Guesses == nil {
		gs.Guesses = []game.Feedback{}
	}
	gs.CreatedAt = mustParse(created)
	return &gs, nil
}

/* ---------------------------------- util --------------------------------- */

// mustParse parses RFC3339 timestamps; on error returns zero time.
func mustParse(s string) time.Time {
	t, _ := time.Parse(time.RFC3339, s)
	return t
}

func isUniqueViolation(err error) bool {
	var se sqlite3.Error
	return errors.As(err, &se) && se.ExtendedCode == sqlite3.ErrConstraintUnique
}
