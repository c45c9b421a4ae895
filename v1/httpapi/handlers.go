package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/Aleph-Alpha/todoapi/v1/filter"
	"github.com/Aleph-Alpha/todoapi/v1/todo"
	"github.com/gorilla/mux"
)

// Service is the todo use-case surface the handlers call. *todo.Service
// satisfies it.
type Service interface {
	List(ctx context.Context) ([]todo.Todo, error)
	Query(ctx context.Context, model filter.Model) ([]todo.Todo, error)
	Get(ctx context.Context, id int) (todo.Todo, error)
	Create(ctx context.Context, t todo.Todo) (todo.Todo, error)
	Update(ctx context.Context, id int, t todo.Todo) (todo.Todo, error)
	Delete(ctx context.Context, id int) error
	Ready(ctx context.Context) error
}

// Logger is the subset of the logger package the HTTP layer uses.
type Logger interface {
	InfoWithContext(ctx context.Context, msg string, err error, fields ...map[string]interface{})
	WarnWithContext(ctx context.Context, msg string, err error, fields ...map[string]interface{})
	ErrorWithContext(ctx context.Context, msg string, err error, fields ...map[string]interface{})
}

// Metrics records per-request metrics. *metrics.Metrics satisfies it.
type Metrics interface {
	IncrementRequests(method, route, status string)
	RecordRequestDuration(start time.Time, route string)
}

// Handler serves the todo REST API.
type Handler struct {
	svc          Service
	logger       Logger
	metrics      Metrics
	maxBodyBytes int64
}

// NewHandler returns a Handler. metrics may be nil.
func NewHandler(cfg Config, svc Service, logger Logger, metrics Metrics) *Handler {
	return &Handler{
		svc:          svc,
		logger:       logger,
		metrics:      metrics,
		maxBodyBytes: cfg.MaxBodyBytes,
	}
}

// Router builds the gorilla/mux router with all routes and middleware.
func (h *Handler) Router() *mux.Router {
	r := mux.NewRouter()
	r.Use(h.instrument, h.recoverer)
	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "route not found"})
	})
	r.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusMethodNotAllowed, errorResponse{Error: "method not allowed"})
	})

	api := r.PathPrefix("/api/v1").Subrouter()
	api.HandleFunc("/ready", h.ready).Methods(http.MethodGet)
	api.HandleFunc("/todos", h.listTodos).Methods(http.MethodGet)
	api.HandleFunc("/todos", h.createTodo).Methods(http.MethodPost)
	api.HandleFunc("/todos/query", h.queryTodos).Methods(http.MethodPost)
	api.HandleFunc("/todos/{id}", h.getTodo).Methods(http.MethodGet)
	api.HandleFunc("/todos/{id}", h.updateTodo).Methods(http.MethodPut)
	api.HandleFunc("/todos/{id}", h.deleteTodo).Methods(http.MethodDelete)
	return r
}

func (h *Handler) ready(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Ready(r.Context()); err != nil {
		h.writeError(w, r, fmt.Errorf("storage not ready: %w", err))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) listTodos(w http.ResponseWriter, r *http.Request) {
	todos, err := h.svc.List(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, todos)
}

func (h *Handler) queryTodos(w http.ResponseWriter, r *http.Request) {
	body, err := h.readBody(w, r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	model, err := filter.ParseModel(body)
	if err != nil {
		h.writeError(w, r, fmt.Errorf("%w: %v", errInvalidBody, err))
		return
	}

	todos, err := h.svc.Query(r.Context(), model)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, todos)
}

func (h *Handler) getTodo(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	t, err := h.svc.Get(r.Context(), id)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, t)
}

func (h *Handler) createTodo(w http.ResponseWriter, r *http.Request) {
	var in todo.Todo
	if err := h.decode(w, r, &in); err != nil {
		h.writeError(w, r, err)
		return
	}

	created, err := h.svc.Create(r.Context(), in)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	w.Header().Set("Location", fmt.Sprintf("/api/v1/todos/%d", created.ID))
	writeJSON(w, http.StatusCreated, created)
}

func (h *Handler) updateTodo(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	var in todo.Todo
	if err := h.decode(w, r, &in); err != nil {
		h.writeError(w, r, err)
		return
	}

	if _, err := h.svc.Update(r.Context(), id, in); err != nil {
		h.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) deleteTodo(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	if err := h.svc.Delete(r.Context(), id); err != nil {
		h.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func pathID(r *http.Request) (int, error) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil || id <= 0 {
		return 0, errInvalidID
	}
	return id, nil
}

func (h *Handler) readBody(w http.ResponseWriter, r *http.Request) ([]byte, error) {
	if h.maxBodyBytes > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, h.maxBodyBytes)
	}
	body, err := io.ReadAll(r.Body)
	if err != nil {
		var tooBig *http.MaxBytesError
		if errors.As(err, &tooBig) {
			return nil, errBodyTooBig
		}
		return nil, fmt.Errorf("failed to read request body: %w", err)
	}
	return body, nil
}

func (h *Handler) decode(w http.ResponseWriter, r *http.Request, dst interface{}) error {
	body, err := h.readBody(w, r)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, dst); err != nil {
		return fmt.Errorf("%w: %v", errInvalidBody, err)
	}
	return nil
}
