package store

import (
	"context"
	"errors"
	"testing"

	"github.com/robalobadob/guessword/assets"
	"github.com/robalobadob/guessword/internal/game"
)

func openTestStore(t *testing.T) *SQLite {
	t.Helper()
	s, err := Open(":memory:", assets.Migrations())
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestMigrateIsIdempotent(t *testing.T) {
	s := openTestStore(t)
	if err := migrate(s.db, assets.Migrations()); err != nil {
		t.Fatalf("re-run migrate: %v", err)
	}
	var n int
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM _migrations`).Scan(&n); err != nil {
		t.Fatalf("count migrations: %v", err)
	}
	if n != 1 {
		t.Errorf("expected 1 recorded migration, got %d", n)
	}
}

func TestCreateUserRejectsDuplicateUsername(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)

	u, err := s.CreateUser(ctx, "PlayerOne", "hash", false)
	if err != nil {
		t.Fatalf("create user: %v", err)
	}
	if u.ID == 0 {
		t.Error("expected a synthetic id")
	}
	if _, err := s.CreateUser(ctx, "PlayerOne", "other", false); !errors.Is(err, ErrDuplicate) {
		t.Fatalf("duplicate insert err = %v, want ErrDuplicate", err)
	}

	got, err := s.UserByUsername(ctx, "PlayerOne")
	if err != nil || got.ID != u.ID {
		t.Fatalf("UserByUsername = %+v, %v", got, err)
	}
	if _, err := s.UserByID(ctx, 9999); !errors.Is(err, ErrNotFound) {
		t.Errorf("UserByID(missing) err = %v, want ErrNotFound", err)
	}
}

func TestListPlayersSkipsAdmins(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)
	if _, err := s.CreateUser(ctx, "admin", "h", true); err != nil {
		t.Fatal(err)
	}
	if _, err := s.CreateUser(ctx, "ZedPlayer", "h", false); err != nil {
		t.Fatal(err)
	}
	if _, err := s.CreateUser(ctx, "AbePlayer", "h", false); err != nil {
		t.Fatal(err)
	}
	players, err := s.ListPlayers(ctx)
	if err != nil {
		t.Fatalf("list players: %v", err)
	}
	if len(players) != 2 || players[0].Username != "AbePlayer" || players[1].Username != "ZedPlayer" {
		t.Errorf("unexpected players: %+v", players)
	}
}

func TestSeedWordsIsIdempotent(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)
	for i := 0; i < 2; i++ {
		if err := s.SeedWords(ctx, []string{"APPLE", "CRANE"}); err != nil {
			t.Fatalf("seed #%d: %v", i, err)
		}
	}
	words, err := s.Words(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(words) != 2 {
		t.Fatalf("expected 2 words, got %d", len(words))
	}
	w, err := s.WordByID(ctx, words[1].ID)
	if err != nil || w.Word != "CRANE" {
		t.Errorf("WordByID = %+v, %v", w, err)
	}
}

func seedUserAndWord(t *testing.T, s *SQLite) (int64, int64) {
	t.Helper()
	ctx := context.Background()
	u, err := s.CreateUser(ctx, "PlayerOne", "h", false)
	if err != nil {
		t.Fatal(err)
	}
	if err := s.SeedWords(ctx, []string{"CRANE"}); err != nil {
		t.Fatal(err)
	}
	words, err := s.Words(ctx)
	if err != nil {
		t.Fatal(err)
	}
	return u.ID, words[0].ID
}

func TestCreateSessionEnforcesLimit(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)
	uid, wid := seedUserAndWord(t, s)

	for i := 0; i < 3; i++ {
		if _, err := s.CreateSession(ctx, uid, wid, "2026-10-17", 3); err != nil {
			t.Fatalf("create #%d: %v", i, err)
		}
	}
	if _, err := s.CreateSession(ctx, uid, wid, "2026-10-17", 3); !errors.Is(err, ErrLimitReached) {
		t.Fatalf("4th create err = %v, want ErrLimitReached", err)
	}
	// Another day has its own allowance.
	if _, err := s.CreateSession(ctx, uid, wid, "2026-10-18", 3); err != nil {
		t.Fatalf("next-day create: %v", err)
	}
	n, err := s.CountSessions(ctx, uid, "2026-10-17")
	if err != nil || n != 3 {
		t.Errorf("CountSessions = %d, %v; want 3", n, err)
	}
}

func TestUpdateSessionRoundTripAndGuard(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)
	uid, wid := seedUserAndWord(t, s)

	gs, err := s.CreateSession(ctx, uid, wid, "2026-10-17", 3)
	if err != nil {
		t.Fatal(err)
	}
	gs.Guesses = append(gs.Guesses, game.Evaluate("TRACE", "CRANE"))
	gs.Attempts = 1
	if err := s.UpdateSession(ctx, gs, 0); err != nil {
		t.Fatalf("update: %v", err)
	}
	// Stale attempt count must not overwrite.
	if err := s.UpdateSession(ctx, gs, 0); !errors.Is(err, ErrConflict) {
		t.Fatalf("stale update err = %v, want ErrConflict", err)
	}

	got, err := s.SessionByID(ctx, gs.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.Attempts != 1 || len(got.Guesses) != 1 || got.Guesses[0].Word() != "TRACE" {
		t.Errorf("unexpected session after reload: %+v", got)
	}
	if got.Terminal() {
		t.Error("one wrong guess should not be terminal")
	}

	open, err := s.OpenSession(ctx, uid, "2026-10-17")
	if err != nil || open.ID != gs.ID {
		t.Fatalf("OpenSession = %+v, %v", open, err)
	}

	got.IsCorrect = true
	got.Attempts = 2
	got.Guesses = append(got.Guesses, game.Evaluate("CRANE", "CRANE"))
	if err := s.UpdateSession(ctx, got, 1); err != nil {
		t.Fatal(err)
	}
	if _, err := s.OpenSession(ctx, uid, "2026-10-17"); !errors.Is(err, ErrNotFound) {
		t.Errorf("OpenSession after win err = %v, want ErrNotFound", err)
	}
}

func TestSessionsByDateAndUser(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)
	uid, wid := seedUserAndWord(t, s)

	for _, d := range []string{"2026-10-15", "2026-10-17", "2026-10-17"} {
		if _, err := s.CreateSession(ctx, uid, wid, d, 3); err != nil {
			t.Fatal(err)
		}
	}
	byDate, err := s.SessionsByDate(ctx, "2026-10-17")
	if err != nil || len(byDate) != 2 {
		t.Fatalf("SessionsByDate = %d rows, %v", len(byDate), err)
	}
	empty, err := s.SessionsByDate(ctx, "2001-01-01")
	if err != nil || len(empty) != 0 {
		t.Fatalf("SessionsByDate(empty) = %d rows, %v", len(empty), err)
	}
	byUser, err := s.SessionsByUser(ctx, uid)
	if err != nil || len(byUser) != 3 {
		t.Fatalf("SessionsByUser = %d rows, %v", len(byUser), err)
	}
	if byUser[0].Date != "2026-10-17" || byUser[2].Date != "2026-10-15" {
		t.Errorf("expected newest date first, got %s..%s", byUser[0].Date, byUser[2].Date)
	}
}
