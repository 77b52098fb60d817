package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/guessword/assets"
	"github.com/robalobadob/guessword/internal/auth"
	"github.com/robalobadob/guessword/internal/daily"
	"github.com/robalobadob/guessword/internal/engine"
	"github.com/robalobadob/guessword/internal/httpserver"
	"github.com/robalobadob/guessword/internal/report"
	"github.com/robalobadob/guessword/internal/session"
	"github.com/robalobadob/guessword/internal/store"
	"github.com/robalobadob/guessword/internal/words"
)

// openStore opens the database and seeds the vocabulary and admin account.
func openStore(ctx context.Context, cfg *Config) (*store.SQLite, *words.Store, *auth.Service, error) {
	st, err := store.Open(cfg.dbPath, assets.Migrations())
	if err != nil {
		return nil, nil, nil, fmt.Errorf("open database: %w", err)
	}

	list, err := words.Load(cfg.wordsFile)
	if err != nil {
		_ = st.Close()
		return nil, nil, nil, fmt.Errorf("load words: %w", err)
	}
	ws := words.New(st)
	if err := ws.Seed(ctx, list); err != nil {
		_ = st.Close()
		return nil, nil, nil, fmt.Errorf("seed words: %w", err)
	}
	log.Info().Int("words", len(list)).Str("db", cfg.dbPath).Msg("vocabulary ready")

	users := auth.NewService(st)
	if err := users.EnsureAdmin(ctx, cfg.adminUsername, cfg.adminPassword); err != nil {
		_ = st.Close()
		return nil, nil, nil, fmt.Errorf("seed admin: %w", err)
	}
	return st, ws, users, nil
}

func openSessions(ctx context.Context, cfg *Config) (session.Store, func(), error) {
	if cfg.sessionStore != "redis" {
		return session.NewMemoryStore(), func() {}, nil
	}
	rdb, err := session.DialRedis(ctx, cfg.redisURL)
	if err != nil {
		return nil, nil, err
	}
	log.Info().Msg("active games cached in redis")
	// Entries outlive any game day.
	return session.NewRedisStore(rdb, "guessword", 48*time.Hour), func() { _ = rdb.Close() }, nil
}

func serve(ctx context.Context, cfg *Config) error {
	if err := cfg.validate(); err != nil {
		return err
	}
	cal, err := daily.LoadCalendar(cfg.timezone)
	if err != nil {
		return err
	}

	st, ws, users, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer st.Close()

	sessions, closeSessions, err := openSessions(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeSessions()

	secret := cfg.jwtSecret
	if secret == "" {
		secret = uuid.NewString()
		log.Warn().Msg("no jwt secret configured; tokens will not survive a restart")
	}

	srv := httpserver.New(httpserver.Deps{
		Engine:   engine.New(st, ws, sessions),
		Reports:  report.New(st),
		Users:    users,
		Tokens:   auth.NewTokenIssuer(secret, cfg.jwtExpires),
		Calendar: cal,
		DB:       st,
	}, httpserver.Options{
		CookieName:     cfg.cookieName,
		SecureCookies:  cfg.secureCookies,
		AllowedOrigin:  cfg.allowedOrigin,
		RequestTimeout: cfg.requestTimeout,
		RateLimitRPS:   cfg.rateLimitRPS,
		RateLimitBurst: cfg.rateLimitBurst,
	})

	log.Info().Str("version", releaseVersion).Str("timezone", cal.Location().String()).
		Str("sessions", cfg.sessionStore).Msg("starting guessword")
	if err := srv.Run(ctx, cfg.addr()); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
