package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/Aleph-Alpha/todoapi/v1/filter"
	"github.com/Aleph-Alpha/todoapi/v1/todo"
)

var (
	errInvalidID   = errors.New("id must be a positive integer")
	errInvalidBody = errors.New("request body is not valid JSON")
	errBodyTooBig  = errors.New("request body is too large")
)

type errorResponse struct {
	Error string `json:"error"`
}

// statusFor maps service errors onto HTTP status codes.
func statusFor(err error) int {
	var tooBig *http.MaxBytesError
	switch {
	case errors.As(err, &tooBig), errors.Is(err, errBodyTooBig):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, errInvalidID), errors.Is(err, errInvalidBody):
		return http.StatusBadRequest
	case filter.IsRequestError(err):
		return http.StatusBadRequest
	case errors.Is(err, todo.ErrInvalidTodo), errors.Is(err, todo.ErrIDMismatch):
		return http.StatusBadRequest
	case errors.Is(err, todo.ErrNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

// writeError renders err as {"error": "..."}. Server side failures are logged
// and their details withheld from the client.
func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	msg := err.Error()
	if status >= http.StatusInternalServerError {
		h.logger.ErrorWithContext(r.Context(), "request failed", err, map[string]interface{}{
			"method": r.Method,
			"path":   r.URL.Path,
		})
		msg = http.StatusText(status)
	}
	writeJSON(w, status, errorResponse{Error: msg})
}
