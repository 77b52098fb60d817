// internal/httpserver/routes_game.go
//
// Player endpoints (all require auth):
//   - GET  /game/status  games played today and whether another may start
//   - POST /game/start   resume today's game in progress or start a new one
//   - POST /game/guess   body {"guess": "CRANE"}
//
// "Today" is always the server calendar's date, never client supplied.

package httpserver

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

type guessReq struct {
	Guess string `json:"guess"`
}

func (s *Server) mountGameRoutes() {
	s.r.Route("/game", func(r chi.Router) {
		r.Use(s.requireAuth)
		r.Use(s.rateLimit)
		r.Get("/status", s.handleStatus)
		r.Post("/start", s.handleStart)
		r.Post("/guess", s.handleGuess)
	})
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	st, err := s.deps.Engine.Status(r.Context(), currentUser(r).ID, s.deps.Calendar.Today())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, st)
}

func (s *Server) handleStart(w http.ResponseWriter, r *http.Request) {
	res, err := s.deps.Engine.StartGame(r.Context(), currentUser(r).ID, s.deps.Calendar.Today())
	if err != nil {
		writeError(w, r, err)
		return
	}
	code := http.StatusCreated
	if res.Resumed {
		code = http.StatusOK
	}
	writeJSON(w, code, res)
}

func (s *Server) handleGuess(w http.ResponseWriter, r *http.Request) {
	var req guessReq
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	res, err := s.deps.Engine.SubmitGuess(r.Context(), currentUser(r).ID, req.Guess)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}
