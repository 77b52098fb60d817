// internal/httpserver/routes_admin.go
//
// Admin reports (require an admin token):
//   - GET /admin/players                 non-admin accounts
//   - GET /admin/reports/daily?date=...  totals for one day (default today)
//   - GET /admin/reports/users/{id}      one player's history by day

package httpserver

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/robalobadob/guessword/internal/daily"
	"github.com/robalobadob/guessword/internal/game"
)

func (s *Server) mountAdminRoutes() {
	s.r.Route("/admin", func(r chi.Router) {
		r.Use(s.requireAuth)
		r.Use(requireAdmin)
		r.Get("/players", s.handlePlayers)
		r.Get("/reports/daily", s.handleDailyReport)
		r.Get("/reports/users/{id}", s.handleUserReport)
	})
}

func (s *Server) handlePlayers(w http.ResponseWriter, r *http.Request) {
	players, err := s.deps.Reports.Players(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	out := make([]userView, 0, len(players))
	for i := range players {
		out = append(out, viewOf(&players[i]))
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleDailyReport(w http.ResponseWriter, r *http.Request) {
	date := s.deps.Calendar.Today()
	if q := r.URL.Query().Get("date"); q != "" {
		d, err := daily.ParseKey(q)
		if err != nil {
			writeError(w, r, err)
			return
		}
		date = d
	}
	rep, err := s.deps.Reports.Daily(r.Context(), date)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, rep)
}

func (s *Server) handleUserReport(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		writeError(w, r, fmt.Errorf("%w: user id must be a positive integer", game.ErrValidation))
		return
	}
	rep, err := s.deps.Reports.User(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, rep)
}
