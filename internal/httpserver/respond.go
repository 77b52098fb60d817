package httpserver

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/robalobadob/guessword/internal/auth"
	"github.com/robalobadob/guessword/internal/game"
)

const maxBodyBytes = 1 << 16

type errorBody struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Warn().Err(err).Msg("encode response")
	}
}

// decodeJSON reads a bounded JSON body into dst. Failures are validation errors.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return fmt.Errorf("%w: invalid JSON body", game.ErrValidation)
	}
	return nil
}

// writeError maps domain errors onto HTTP statuses.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	code, kind, msg := classify(err)
	if code >= 500 {
		log.Error().Err(err).Str("request_id", requestIDFrom(r.Context())).
			Str("path", r.URL.Path).Msg("request failed")
	}
	writeJSON(w, code, errorBody{Error: kind, Message: msg})
}

func classify(err error) (int, string, string) {
	switch {
	case errors.Is(err, game.ErrValidation):
		return http.StatusBadRequest, "invalid_input", err.Error()
	case errors.Is(err, game.ErrDailyLimitExceeded):
		return http.StatusTooManyRequests, "daily_limit_exceeded",
			"Daily limit reached. You can only play 3 games per day."
	case errors.Is(err, game.ErrInvalidSession):
		return http.StatusConflict, "invalid_session", "No active game. Start a new game first."
	case errors.Is(err, auth.ErrUsernameTaken):
		return http.StatusConflict, "username_taken", err.Error()
	case errors.Is(err, auth.ErrInvalidCredentials):
		return http.StatusUnauthorized, "invalid_credentials", err.Error()
	case errors.Is(err, game.ErrNotFound):
		return http.StatusNotFound, "not_found", err.Error()
	default:
		return http.StatusInternalServerError, "internal_error", "Something went wrong. Please try again."
	}
}
