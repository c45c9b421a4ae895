package httpapi

import (
	"fmt"
	"net/http"
	"runtime/debug"
	"strconv"
	"time"

	"github.com/felixge/httpsnoop"
	"github.com/gorilla/mux"
)

// recoverer turns a panic in a handler into a 500 response.
func (h *Handler) recoverer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				if rec == http.ErrAbortHandler {
					panic(rec)
				}
				h.logger.ErrorWithContext(r.Context(), "panic while serving request", fmt.Errorf("%v", rec), map[string]interface{}{
					"method": r.Method,
					"path":   r.URL.Path,
					"stack":  string(debug.Stack()),
				})
				writeJSON(w, http.StatusInternalServerError, errorResponse{Error: http.StatusText(http.StatusInternalServerError)})
			}
		}()
		next.ServeHTTP(w, r)
	})
}

// instrument logs every request and records request metrics labelled with the
// route template, e.g. /api/v1/todos/{id}.
func (h *Handler) instrument(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		route := routeTemplate(r)

		m := httpsnoop.CaptureMetrics(next, w, r)

		if h.metrics != nil {
			h.metrics.IncrementRequests(r.Method, route, strconv.Itoa(m.Code))
			h.metrics.RecordRequestDuration(start, route)
		}

		fields := map[string]interface{}{
			"method":      r.Method,
			"route":       route,
			"path":        r.URL.Path,
			"status":      m.Code,
			"bytes":       m.Written,
			"duration_ms": m.Duration.Milliseconds(),
		}
		if m.Code >= http.StatusInternalServerError {
			h.logger.WarnWithContext(r.Context(), "request completed with server error", nil, fields)
			return
		}
		h.logger.InfoWithContext(r.Context(), "request completed", nil, fields)
	})
}

func routeTemplate(r *http.Request) string {
	if route := mux.CurrentRoute(r); route != nil {
		if tpl, err := route.GetPathTemplate(); err == nil {
			return tpl
		}
	}
	return "unmatched"
}
