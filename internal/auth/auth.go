// internal/auth/auth.go
//
// User directory: registration, credential checks and the admin seed.
// Passwords are stored as bcrypt hashes and compared in constant time.

package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"

	"github.com/robalobadob/guessword/internal/game"
	"github.com/robalobadob/guessword/internal/store"
)

var (
	// ErrUsernameTaken is returned by Register for an existing username.
	ErrUsernameTaken = errors.New("username already exists")
	// ErrInvalidCredentials covers both unknown users and wrong passwords.
	ErrInvalidCredentials = errors.New("invalid username or password")
)

// Users is the part of store.Store the directory needs.
type Users interface {
	CreateUser(ctx context.Context, username, passwordHash string, isAdmin bool) (*store.User, error)
	UserByID(ctx context.Context, id int64) (*store.User, error)
	UserByUsername(ctx context.Context, username string) (*store.User, error)
}

// Service implements the credential store.
type Service struct {
	users Users
	cost  int
	// dummyHash is compared against when the username is unknown so the
	// response time does not reveal which usernames exist.
	dummyHash []byte
}

// NewService returns a Service hashing with bcrypt.DefaultCost.
func NewService(users Users) *Service {
	return NewServiceWithCost(users, bcrypt.DefaultCost)
}

// NewServiceWithCost lets tests use bcrypt.MinCost.
func NewServiceWithCost(users Users, cost int) *Service {
	dummy, err := bcrypt.GenerateFromPassword([]byte("guessword-placeholder"), cost)
	if err != nil {
		// Only fails for an out-of-range cost.
		panic(err)
	}
	return &Service{users: users, cost: cost, dummyHash: dummy}
}

// Register validates and creates a regular (non-admin) user.
func (s *Service) Register(ctx context.Context, username, password string) (*store.User, error) {
	username = strings.TrimSpace(username)
	if err := ValidateUsername(username); err != nil {
		return nil, err
	}
	if err := ValidatePassword(password); err != nil {
		return nil, err
	}
	return s.create(ctx, username, password, false)
}

func (s *Service) create(ctx context.Context, username, password string, isAdmin bool) (*store.User, error) {
	h, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	u, err := s.users.CreateUser(ctx, username, string(h), isAdmin)
	if err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			return nil, ErrUsernameTaken
		}
		return nil, game.Persistence("create user", err)
	}
	return u, nil
}

// Authenticate returns the user when password matches.
func (s *Service) Authenticate(ctx context.Context, username, password string) (*store.User, error) {
	u, err := s.users.UserByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			_ = bcrypt.CompareHashAndPassword(s.dummyHash, []byte(password))
			return nil, ErrInvalidCredentials
		}
		return nil, game.Persistence("load user", err)
	}
	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) != nil {
		return nil, ErrInvalidCredentials
	}
	return u, nil
}

// Lookup loads a user by id.
func (s *Service) Lookup(ctx context.Context, id int64) (*store.User, error) {
	u, err := s.users.UserByID(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, fmt.Errorf("user %d: %w", id, game.ErrNotFound)
		}
		return nil, game.Persistence("load user", err)
	}
	return u, nil
}

// EnsureAdmin creates the admin account if username does not exist yet.
// The seeded name is not held to the registration rules.
func (s *Service) EnsureAdmin(ctx context.Context, username, password string) error {
	_, err := s.users.UserByUsername(ctx, username)
	if err == nil {
		return nil
	}
	if !errors.Is(err, store.ErrNotFound) {
		return game.Persistence("load admin", err)
	}
	if _, err := s.create(ctx, username, password, true); err != nil && !errors.Is(err, ErrUsernameTaken) {
		return err
	}
	log.Info().Str("username", username).Msg("admin account created")
	return nil
}
