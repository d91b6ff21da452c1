package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/abramad/crisis-game-api/internal/domain"
)

// MessageEnvelope is the generic response wrapper.
type MessageEnvelope struct {
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`
}

// AuthEnvelope wraps admin login responses.
type AuthEnvelope struct {
	Bearer string `json:"Bearer,omitempty"`
	Error  string `json:"error,omitempty"`
}

// PaginatedLeadsEnvelope wraps paginated lead list responses.
type PaginatedLeadsEnvelope struct {
	Data       []domain.Lead `json:"data"`
	NextCursor string        `json:"next_cursor,omitempty"`
	Error      string        `json:"error,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, MessageEnvelope{Error: msg})
}

// httpError maps a domain error to an HTTP status with a safe message.
// Unknown errors are logged in full server-side and surfaced as a generic 500.
func httpError(w http.ResponseWriter, err error) {
	status, msg := errStatus(err)
	if status == http.StatusInternalServerError {
		writeError(w, status, "internal server error")
		return
	}
	writeError(w, status, msg)
}

func errStatus(err error) (int, string) {
	switch {
	case errors.Is(err, domain.ErrCodeInvalid),
		errors.Is(err, domain.ErrCodeExpired),
		errors.Is(err, domain.ErrCodeMismatch):
		return http.StatusBadRequest, err.Error()
	case errors.Is(err, domain.ErrBadRequest):
		return http.StatusBadRequest, reason(err, domain.ErrBadRequest)
	case errors.Is(err, domain.ErrUnauthorized):
		return http.StatusUnauthorized, reason(err, domain.ErrUnauthorized)
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound, reason(err, domain.ErrNotFound)
	case errors.Is(err, domain.ErrConflict):
		return http.StatusConflict, reason(err, domain.ErrConflict)
	default:
		slog.Error("request failed", "err", err)
		return http.StatusInternalServerError, ""
	}
}

// reason strips the trailing sentinel text from a wrapped error, leaving the
// human-readable part for the client.
func reason(err, sentinel error) string {
	return strings.TrimSuffix(err.Error(), ": "+sentinel.Error())
}
