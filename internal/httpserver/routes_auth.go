// internal/httpserver/routes_auth.go
//
// Account endpoints and the auth middleware.
//   - POST /auth/register  create a player account and log in
//   - POST /auth/login     verify credentials, set the auth cookie
//   - POST /auth/logout    clear the cookie and drop the cached game
//   - GET  /auth/me        the current user
//
// Tokens are read from "Authorization: Bearer" first, then the cookie.

package httpserver

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/guessword/internal/game"
	"github.com/robalobadob/guessword/internal/store"
)

type credentialsReq struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type userView struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	IsAdmin  bool   `json:"isAdmin"`
}

type authResp struct {
	User      userView  `json:"user"`
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// authUser is the caller resolved from a verified token.
type authUser struct {
	ID       int64
	Username string
	Admin    bool
}

const userCtxKey = ctxKey("user")

func currentUser(r *http.Request) *authUser {
	u, _ := r.Context().Value(userCtxKey).(*authUser)
	return u
}

func (s *Server) mountAuthRoutes() {
	s.r.Route("/auth", func(r chi.Router) {
		r.Use(s.rateLimit)
		r.Post("/register", s.handleRegister)
		r.Post("/login", s.handleLogin)
		r.With(s.optionalAuth).Post("/logout", s.handleLogout)
		r.With(s.requireAuth).Get("/me", s.handleMe)
	})
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req credentialsReq
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	u, err := s.deps.Users.Register(r.Context(), req.Username, req.Password)
	if err != nil {
		writeError(w, r, err)
		return
	}
	log.Info().Int64("user", u.ID).Str("username", u.Username).Msg("user registered")
	s.issue(w, r, u, http.StatusCreated)
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req credentialsReq
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	u, err := s.deps.Users.Authenticate(r.Context(), req.Username, req.Password)
	if err != nil {
		writeError(w, r, err)
		return
	}
	s.issue(w, r, u, http.StatusOK)
}

func (s *Server) issue(w http.ResponseWriter, r *http.Request, u *store.User, code int) {
	tok, exp, err := s.deps.Tokens.Sign(u)
	if err != nil {
		writeError(w, r, err)
		return
	}
	s.setAuthCookie(w, tok, exp)
	writeJSON(w, code, authResp{User: viewOf(u), Token: tok, ExpiresAt: exp})
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	if u := currentUser(r); u != nil {
		if err := s.deps.Engine.Abandon(r.Context(), u.ID); err != nil {
			log.Warn().Err(err).Int64("user", u.ID).Msg("logout: drop active game")
		}
	}
	s.clearAuthCookie(w)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleMe(w http.ResponseWriter, r *http.Request) {
	u, err := s.deps.Users.Lookup(r.Context(), currentUser(r).ID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, viewOf(u))
}

func viewOf(u *store.User) userView {
	return userView{ID: u.ID, Username: u.Username, IsAdmin: u.IsAdmin}
}

/* ------------------------------- middleware ------------------------------ */

// resolve verifies the request token and checks the user still exists.
func (s *Server) resolve(r *http.Request) (*authUser, error) {
	tok := s.bearerOrCookie(r)
	if tok == "" {
		return nil, errNoToken
	}
	claims, err := s.deps.Tokens.Parse(tok)
	if err != nil {
		return nil, err
	}
	id, _ := claims.UserID()
	u, err := s.deps.Users.Lookup(r.Context(), id)
	if err != nil {
		return nil, err
	}
	return &authUser{ID: u.ID, Username: u.Username, Admin: u.IsAdmin}, nil
}

var errNoToken = errors.New("no token")

func withUser(r *http.Request, u *authUser) *http.Request {
	return r.WithContext(context.WithValue(r.Context(), userCtxKey, u))
}

func (s *Server) requireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		u, err := s.resolve(r)
		if err != nil {
			if errors.Is(err, game.ErrPersistence) {
				writeError(w, r, err)
				return
			}
			writeJSON(w, http.StatusUnauthorized, errorBody{Error: "unauthorized", Message: "Authentication required."})
			return
		}
		next.ServeHTTP(w, withUser(r, u))
	})
}

// optionalAuth attaches the user when a valid token is present.
func (s *Server) optionalAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if u, err := s.resolve(r); err == nil {
			r = withUser(r, u)
		}
		next.ServeHTTP(w, r)
	})
}

// requireAdmin must run after requireAuth.
func requireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if u := currentUser(r); u == nil || !u.Admin {
			writeJSON(w, http.StatusForbidden, errorBody{Error: "forbidden", Message: "Admin access required."})
			return
		}
		next.ServeHTTP(w, r)
	})
}

/* --------------------------------- cookies ------------------------------- */

func (s *Server) sameSite() http.SameSite {
	if s.opts.SecureCookies {
		return http.SameSiteNoneMode
	}
	return http.SameSiteLaxMode
}

func (s *Server) setAuthCookie(w http.ResponseWriter, token string, exp time.Time) {
	http.SetCookie(w, &http.Cookie{
		Name:     s.opts.CookieName,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		Secure:   s.opts.SecureCookies,
		SameSite: s.sameSite(),
		Expires:  exp,
	})
}

func (s *Server) clearAuthCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     s.opts.CookieName,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		Secure:   s.opts.SecureCookies,
		SameSite: s.sameSite(),
		MaxAge:   -1,
	})
}

func (s *Server) bearerOrCookie(r *http.Request) string {
	if a := r.Header.Get("Authorization"); strings.HasPrefix(strings.ToLower(a), "bearer ") {
		return strings.TrimSpace(a[7:])
	}
	if c, err := r.Cookie(s.opts.CookieName); err == nil {
		return c.Value
	}
	return ""
}
