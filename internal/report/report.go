// internal/report/report.go
//
// Read-only admin aggregates over persisted game sessions.
//   - Daily: distinct players, wins and games for one date.
//   - User:  one user's games grouped by date (newest first).
//   - Players: the non-admin accounts a per-user report can be run for.

package report

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/samber/lo"

	"github.com/robalobadob/guessword/internal/game"
	"github.com/robalobadob/guessword/internal/store"
)

// Repository is the part of store.Store reports read from.
type Repository interface {
	UserByID(ctx context.Context, id int64) (*store.User, error)
	ListPlayers(ctx context.Context) ([]store.User, error)
	SessionsByDate(ctx context.Context, date string) ([]store.GameSession, error)
	SessionsByUser(ctx context.Context, userID int64) ([]store.GameSession, error)
}

// Service computes reports.
type Service struct {
	repo Repository
}

// New returns a Service reading from repo.
func New(repo Repository) *Service {
	return &Service{repo: repo}
}

// Daily is the report for one calendar day.
type Daily struct {
	Date           string `json:"date"`
	UniqueUsers    int    `json:"uniqueUsers"`
	CorrectGuesses int    `json:"correctGuesses"`
	TotalGames     int    `json:"totalGames"`
}

// DayStats is one row of a per-user report.
type DayStats struct {
	Date           string `json:"date"`
	WordsTried     int    `json:"wordsTried"`
	CorrectGuesses int    `json:"correctGuesses"`
}

// UserReport is a user's history grouped by day.
type UserReport struct {
	User store.User `json:"user"`
	Days []DayStats `json:"days"`
}

// Daily aggregates sessions dated exactly date. No sessions is all zeros.
func (s *Service) Daily(ctx context.Context, date string) (*Daily, error) {
	sessions, err := s.repo.SessionsByDate(ctx, date)
	if err != nil {
		return nil, game.Persistence("load sessions by date", err)
	}
	return summarizeDay(date, sessions), nil
}

func summarizeDay(date string, sessions []store.GameSession) *Daily {
	users := lo.Uniq(lo.Map(sessions, func(gs store.GameSession, _ int) int64 { return gs.UserID }))
	return &Daily{
		Date:           date,
		UniqueUsers:    len(users),
		CorrectGuesses: lo.CountBy(sessions, func(gs store.GameSession) bool { return gs.IsCorrect }),
		TotalGames:     len(sessions),
	}
}

// User groups userID's sessions by date.
func (s *Service) User(ctx context.Context, userID int64) (*UserReport, error) {
	u, err := s.repo.UserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, fmt.Errorf("user %d: %w", userID, game.ErrNotFound)
		}
		return nil, game.Persistence("load user", err)
	}
	sessions, err := s.repo.SessionsByUser(ctx, userID)
	if err != nil {
		return nil, game.Persistence("load sessions by user", err)
	}
	return &UserReport{User: *u, Days: groupByDay(sessions)}, nil
}

func groupByDay(sessions []store.GameSession) []DayStats {
	byDate := lo.GroupBy(sessions, func(gs store.GameSession) string { return gs.Date })
	days := lo.MapToSlice(byDate, func(date string, games []store.GameSession) DayStats {
		return DayStats{
			Date:           date,
			WordsTried:     len(games),
			CorrectGuesses: lo.CountBy(games, func(gs store.GameSession) bool { return gs.IsCorrect }),
		}
	})
	// YYYY-MM-DD sorts lexically.
	sort.Slice(days, func(i, j int) bool { return days[i].Date > days[j].Date })
	return days
}

// Players lists the non-admin accounts.
func (s *Service) Players(ctx context.Context) ([]store.User, error) {
	users, err := s.repo.ListPlayers(ctx)
	if err != nil {
		return nil, game.Persistence("list players", err)
	}
	return users, nil
}
