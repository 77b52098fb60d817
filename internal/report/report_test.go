package report

import (
	"context"
	"errors"
	"testing"

	"github.com/robalobadob/guessword/assets"
	"github.com/robalobadob/guessword/internal/game"
	"github.com/robalobadob/guessword/internal/store"
)

type fixture struct {
	st    *store.SQLite
	svc   *Service
	alice int64
	bob   int64
	word  int64
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()
	st, err := store.Open(":memory:", assets.Migrations())
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = st.Close() })
	if err := st.SeedWords(ctx, []string{"CRANE"}); err != nil {
		t.Fatal(err)
	}
	words, _ := st.Words(ctx)
	a, err := st.CreateUser(ctx, "AlicePlays", "h", false)
	if err != nil {
		t.Fatal(err)
	}
	b, err := st.CreateUser(ctx, "BobPlays", "h", false)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := st.CreateUser(ctx, "admin", "h", true); err != nil {
		t.Fatal(err)
	}
	return &fixture{st: st, svc: New(st), alice: a.ID, bob: b.ID, word: words[0].ID}
}

// play records one finished game for userID on date.
func (f *fixture) play(t *testing.T, userID int64, date string, won bool) {
	t.Helper()
	ctx := context.Background()
	gs, err := f.st.CreateSession(ctx, userID, f.word, date, game.DailyLimit)
	if err != nil {
		t.Fatal(err)
	}
	guess := "TIGER"
	if won {
		guess = "CRANE"
	}
	gs.Guesses = append(gs.Guesses, game.Evaluate(guess, "CRANE"))
	gs.Attempts = 1
	gs.IsCorrect = won
	if err := f.st.UpdateSession(ctx, gs, 0); err != nil {
		t.Fatal(err)
	}
}

func TestDailyReportEmptyDateIsZeros(t *testing.T) {
	f := newFixture(t)
	got, err := f.svc.Daily(context.Background(), "2026-10-17")
	if err != nil {
		t.Fatalf("Daily: %v", err)
	}
	if got.UniqueUsers != 0 || got.CorrectGuesses != 0 || got.TotalGames != 0 {
		t.Errorf("Daily(empty) = %+v, want zeros", got)
	}
}

func TestDailyReportCountsExactDate(t *testing.T) {
	f := newFixture(t)
	f.play(t, f.alice, "2026-10-17", true)
	f.play(t, f.alice, "2026-10-17", false)
	f.play(t, f.bob, "2026-10-17", true)
	f.play(t, f.bob, "2026-10-16", true)

	got, err := f.svc.Daily(context.Background(), "2026-10-17")
	if err != nil {
		t.Fatal(err)
	}
	want := Daily{Date: "2026-10-17", UniqueUsers: 2, CorrectGuesses: 2, TotalGames: 3}
	if *got != want {
		t.Errorf("Daily = %+v, want %+v", *got, want)
	}
}

func TestUserReportGroupsByDate(t *testing.T) {
	f := newFixture(t)
	f.play(t, f.alice, "2026-10-15", false)
	f.play(t, f.alice, "2026-10-17", true)
	f.play(t, f.alice, "2026-10-17", true)
	f.play(t, f.alice, "2026-10-17", false)
	f.play(t, f.bob, "2026-10-17", true)

	got, err := f.svc.User(context.Background(), f.alice)
	if err != nil {
		t.Fatal(err)
	}
	if got.User.Username != "AlicePlays" {
		t.Errorf("user = %+v", got.User)
	}
	want := []DayStats{
		{Date: "2026-10-17", WordsTried: 3, CorrectGuesses: 2},
		{Date: "2026-10-15", WordsTried: 1, CorrectGuesses: 0},
	}
	if len(got.Days) != len(want) {
		t.Fatalf("days = %+v, want %+v", got.Days, want)
	}
	for i := range want {
		if got.Days[i] != want[i] {
			t.Errorf("day %d = %+v, want %+v", i, got.Days[i], want[i])
		}
	}
}

func TestUserReportWithoutGames(t *testing.T) {
	f := newFixture(t)
	got, err := f.svc.User(context.Background(), f.bob)
	if err != nil {
		t.Fatal(err)
	}
	if len(got.Days) != 0 {
		t.Errorf("days = %+v, want none", got.Days)
	}
}

func TestUserReportUnknownUser(t *testing.T) {
	f := newFixture(t)
	if _, err := f.svc.User(context.Background(), 999); !errors.Is(err, game.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestPlayersExcludesAdmins(t *testing.T) {
	f := newFixture(t)
	players, err := f.svc.Players(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(players) != 2 {
		t.Fatalf("players = %+v", players)
	}
	for _, p := range players {
		if p.IsAdmin {
			t.Errorf("admin listed as player: %+v", p)
		}
	}
}
