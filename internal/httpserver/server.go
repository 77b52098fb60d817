// internal/httpserver/server.go
//
// HTTP server wiring for the guessword backend.
// Responsibilities:
//   - Router + middleware (request IDs, real IP, panic recovery, timeouts,
//     access log, compression, CORS, JSON content type).
//   - Public endpoints: "/", "/health", /auth/register, /auth/login, /auth/logout.
//   - Player endpoints (require auth): /auth/me, /game/status, /game/start, /game/guess.
//   - Admin endpoints (require admin): /admin/players, /admin/reports/*.
//
// Authenticated handlers resolve the caller from the auth cookie (or bearer token)
// and pass explicit user ids and dates down to the engine.

package httpserver

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/guessword/internal/auth"
	"github.com/robalobadob/guessword/internal/daily"
	"github.com/robalobadob/guessword/internal/engine"
	"github.com/robalobadob/guessword/internal/report"
)

// Pinger reports storage health.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Deps are the services the handlers call into.
type Deps struct {
	Engine   *engine.Engine
	Reports  *report.Service
	Users    *auth.Service
	Tokens   *auth.TokenIssuer
	Calendar *daily.Calendar
	DB       Pinger
}

// Options tune transport behaviour.
type Options struct {
	CookieName     string
	SecureCookies  bool
	AllowedOrigin  string
	RequestTimeout time.Duration
	RateLimitRPS   int
	RateLimitBurst int
}

func (o *Options) setDefaults() {
	if o.CookieName == "" {
		o.CookieName = "guessword_token"
	}
	if o.RequestTimeout <= 0 {
		o.RequestTimeout = 10 * time.Second
	}
	if o.RateLimitRPS <= 0 {
		o.RateLimitRPS = 5
	}
	if o.RateLimitBurst <= 0 {
		o.RateLimitBurst = 10
	}
}

// Server bundles router and dependencies.
type Server struct {
	r       *chi.Mux
	deps    Deps
	opts    Options
	limiter *limiter
	started time.Time
}

// New constructs a Server, installs middleware, and registers routes.
func New(deps Deps, opts Options) *Server {
	opts.setDefaults()
	s := &Server{
		r:       chi.NewRouter(),
		deps:    deps,
		opts:    opts,
		limiter: newLimiter(opts.RateLimitRPS, opts.RateLimitBurst),
		started: time.Now(),
	}

	// --- middleware ---
	s.r.Use(requestID)                          // X-Request-Id in and out
	s.r.Use(chimw.RealIP)                       // set RemoteAddr from X-Forwarded-For etc.
	s.r.Use(accessLog)                          // one zerolog line per request
	s.r.Use(chimw.Recoverer)                    // recover from panics
	s.r.Use(chimw.Timeout(opts.RequestTimeout)) // bound handler time
	s.r.Use(chimw.NoCache)                      // API responses are per-user
	s.r.Use(chimw.Compress(5, "application/json"))
	s.r.Use(jsonContentType)
	s.r.Use(s.cors)

	// --- diagnostics ---
	s.r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{
			"service":   "guessword",
			"endpoints": []string{"/health", "/auth/*", "/game/*", "/admin/*"},
		})
	})
	s.r.Get("/health", s.handleHealth)

	s.mountAuthRoutes()
	s.mountGameRoutes()
	s.mountAdminRoutes()

	s.r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusNotFound, errorBody{Error: "not_found", Message: r.URL.Path})
	})
	s.r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusMethodNotAllowed, errorBody{Error: "method_not_allowed", Message: r.Method})
	})
	return s
}

// Router exposes the internal router (useful for tests).
func (s *Server) Router() chi.Router { return s.r }

// Run serves HTTP on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.r,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", addr).Msg("listening")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info().Msg("shutdown signal received, draining connections")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	log.Info().Msg("server stopped")
	return nil
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	status, code := "ok", http.StatusOK
	if s.deps.DB != nil {
		if err := s.deps.DB.Ping(r.Context()); err != nil {
			log.Error().Err(err).Msg("health: database ping")
			status, code = "degraded", http.StatusServiceUnavailable
		}
	}
	writeJSON(w, code, map[string]any{
		"status":    status,
		"uptime":    time.Since(s.started).Round(time.Second).String(),
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

// cors enables credentialed CORS for a single configured origin.
func (s *Server) cors(next http.Handler) http.Handler {
	origin := s.opts.AllowedOrigin
	if origin == "" {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Vary", "Origin")
		w.Header().Set("Access-Control-Allow-Origin", origin)
		w.Header().Set("Access-Control-Allow-Credentials", "true")
		w.Header().Set("Access-Control-Allow-Methods", "GET,POST,OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}
