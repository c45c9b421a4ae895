package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/Aleph-Alpha/todoapi/v1/filter"
	"github.com/Aleph-Alpha/todoapi/v1/logger"
	"github.com/Aleph-Alpha/todoapi/v1/todo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

type requestCount struct {
	method, route, status string
}

type recordingMetrics struct {
	requests []requestCount
}

func (m *recordingMetrics) IncrementRequests(method, route, status string) {
	m.requests = append(m.requests, requestCount{method, route, status})
}

func (m *recordingMetrics) RecordRequestDuration(time.Time, string) {}

func newTestAPI(t *testing.T, repo todo.Repository, metrics Metrics) http.Handler {
	t.Helper()
	svc := todo.NewService(repo, nil, nil, nil, nil)
	h := NewHandler(Config{MaxBodyBytes: 1 << 10}, svc, logger.NewNop(), metrics)
	return h.Router()
}

func do(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decodeTodos(t *testing.T, rec *httptest.ResponseRecorder) []todo.Todo {
	t.Helper()
	var out []todo.Todo
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}

func errorMessage(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var out errorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out.Error
}

func seeded(t *testing.T) http.Handler {
	t.Helper()
	api := newTestAPI(t, todo.NewMemoryRepository(todo.Config{}, nil), nil)
	for _, body := range []string{
		`{"name":"milk"}`,
		`{"name":"bread","completed":true}`,
		`{"name":"Milkshake"}`,
	} {
		rec := do(t, api, http.MethodPost, "/api/v1/todos", body)
		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	}
	return api
}

func TestAPI_CreateAndGet(t *testing.T) {
	api := newTestAPI(t, todo.NewMemoryRepository(todo.Config{}, nil), nil)

	rec := do(t, api, http.MethodPost, "/api/v1/todos", `{"id":99,"name":"milk"}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "/api/v1/todos/1", rec.Header().Get("Location"))
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var created todo.Todo
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	assert.Equal(t, 1, created.ID)
	assert.Equal(t, "milk", created.Name)

	rec = do(t, api, http.MethodGet, "/api/v1/todos/1", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var got todo.Todo
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, created, got)
}

func TestAPI_CreateValidation(t *testing.T) {
	api := newTestAPI(t, todo.NewMemoryRepository(todo.Config{}, nil), nil)

	for _, body := range []string{`{"name":""}`, `{}`, `not json`, `{"name":"` + strings.Repeat("x", 256) + `"}`} {
		rec := do(t, api, http.MethodPost, "/api/v1/todos", body)
		assert.Equal(t, http.StatusBadRequest, rec.Code, body)
		assert.NotEmpty(t, errorMessage(t, rec))
	}

	rec := do(t, api, http.MethodPost, "/api/v1/todos", `{"name":"`+strings.Repeat("x", 2048)+`"}`)
	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
}

func TestAPI_List(t *testing.T) {
	api := seeded(t)

	rec := do(t, api, http.MethodGet, "/api/v1/todos", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decodeTodos(t, rec), 3)
}

func TestAPI_ListEmptyIsArray(t *testing.T) {
	api := newTestAPI(t, todo.NewMemoryRepository(todo.Config{}, nil), nil)

	rec := do(t, api, http.MethodGet, "/api/v1/todos", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())
}

func TestAPI_Query(t *testing.T) {
	api := seeded(t)

	tests := []struct {
		name string
		body string
		want []string
	}{
		{"empty model", `{}`, []string{"milk", "bread", "Milkshake"}},
		{"like is case sensitive", `{"name":{"like":"ilk"}}`, []string{"milk", "Milkshake"}},
		{"field names ignore case", `{"NAME":{"eq":"bread"}}`, []string{"bread"}},
		{"and", `{"completed":{"eq":false},"id":{"gt":1}}`, []string{"Milkshake"}},
		{"in", `{"id":{"in":[1,3]}}`, []string{"milk", "Milkshake"}},
		{"unknown field ignored", `{"colour":{"eq":"red"}}`, []string{"milk", "bread", "Milkshake"}},
		{"unknown operator ignored", `{"id":{"ne":1}}`, []string{"milk", "bread", "Milkshake"}},
		{"no match", `{"name":{"eq":"eggs"}}`, []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, api, http.MethodPost, "/api/v1/todos/query", tt.body)
			require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

			names := []string{}
			for _, td := range decodeTodos(t, rec) {
				names = append(names, td.Name)
			}
			assert.Equal(t, tt.want, names)
		})
	}
}

func TestAPI_QueryRejectsBadFilters(t *testing.T) {
	api := seeded(t)

	for _, body := range []string{
		`{"id":{"eq":"abc"}}`,
		`{"completed":{"gt":true}}`,
		`{"id":{"like":"1"}}`,
		`{"id":{"in":1}}`,
		`[1]`,
		``,
	} {
		rec := do(t, api, http.MethodPost, "/api/v1/todos/query", body)
		assert.Equal(t, http.StatusBadRequest, rec.Code, body)
		assert.NotEmpty(t, errorMessage(t, rec), body)
	}
}

func TestAPI_Update(t *testing.T) {
	api := seeded(t)

	rec := do(t, api, http.MethodPut, "/api/v1/todos/1", `{"id":1,"name":"oat milk","completed":true}`)
	require.Equal(t, http.StatusNoContent, rec.Code, rec.Body.String())

	rec = do(t, api, http.MethodGet, "/api/v1/todos/1", "")
	var got todo.Todo
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, "oat milk", got.Name)
	assert.True(t, got.Completed)

	rec = do(t, api, http.MethodPut, "/api/v1/todos/1", `{"id":2,"name":"x"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, api, http.MethodPut, "/api/v1/todos/42", `{"name":"x"}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestAPI_Delete(t *testing.T) {
	api := seeded(t)

	rec := do(t, api, http.MethodDelete, "/api/v1/todos/2", "")
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = do(t, api, http.MethodDelete, "/api/v1/todos/2", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = do(t, api, http.MethodGet, "/api/v1/todos/2", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestAPI_InvalidID(t *testing.T) {
	api := seeded(t)

	for _, path := range []string{"/api/v1/todos/abc", "/api/v1/todos/0", "/api/v1/todos/-1"} {
		rec := do(t, api, http.MethodGet, path, "")
		assert.Equal(t, http.StatusBadRequest, rec.Code, path)
	}
}

func TestAPI_Ready(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := todo.NewMockRepository(ctrl)
	api := newTestAPI(t, repo, nil)

	repo.EXPECT().Ping(gomock.Any()).Return(nil)
	rec := do(t, api, http.MethodGet, "/api/v1/ready", "")
	assert.Equal(t, http.StatusNoContent, rec.Code)

	repo.EXPECT().Ping(gomock.Any()).Return(errors.New("connection refused"))
	rec = do(t, api, http.MethodGet, "/api/v1/ready", "")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, http.StatusText(http.StatusInternalServerError), errorMessage(t, rec))
}

func TestAPI_UnknownRoute(t *testing.T) {
	api := seeded(t)

	rec := do(t, api, http.MethodGet, "/api/v2/todos", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = do(t, api, http.MethodPatch, "/api/v1/todos/1", "")
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

type stubService struct {
	Service
	query func(context.Context, filter.Model) ([]todo.Todo, error)
}

func (s stubService) Query(ctx context.Context, m filter.Model) ([]todo.Todo, error) {
	return s.query(ctx, m)
}

func TestAPI_UnsupportedTypeIsServerError(t *testing.T) {
	svc := stubService{query: func(context.Context, filter.Model) ([]todo.Todo, error) {
		return nil, &filter.ConditionError{Field: "blob", Operator: "eq", Err: filter.ErrUnsupportedType}
	}}
	api := NewHandler(Config{}, svc, logger.NewNop(), nil).Router()

	rec := do(t, api, http.MethodPost, "/api/v1/todos/query", `{"blob":{"eq":1}}`)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestAPI_PanicIsRecovered(t *testing.T) {
	svc := stubService{query: func(context.Context, filter.Model) ([]todo.Todo, error) {
		panic("boom")
	}}
	metrics := &recordingMetrics{}
	api := NewHandler(Config{}, svc, logger.NewNop(), metrics).Router()

	rec := do(t, api, http.MethodPost, "/api/v1/todos/query", `{}`)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	require.Len(t, metrics.requests, 1)
	assert.Equal(t, "500", metrics.requests[0].status)
}

func TestAPI_MetricsUseRouteTemplate(t *testing.T) {
	metrics := &recordingMetrics{}
	api := newTestAPI(t, todo.NewMemoryRepository(todo.Config{}, nil), metrics)

	do(t, api, http.MethodGet, "/api/v1/todos/7", "")
	do(t, api, http.MethodPost, "/api/v1/todos", `{"name":"milk"}`)

	assert.Equal(t, []requestCount{
		{http.MethodGet, "/api/v1/todos/{id}", "404"},
		{http.MethodPost, "/api/v1/todos", "201"},
	}, metrics.requests)
}

func TestNewServer(t *testing.T) {
	h := NewHandler(Config{}, stubService{}, logger.NewNop(), nil)
	srv := NewServer(Config{Address: ":0", ReadTimeout: time.Second}, h)

	assert.Equal(t, ":0", srv.Addr)
	assert.Equal(t, time.Second, srv.ReadTimeout)

	rec := httptest.NewRecorder()
	srv.Handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/nowhere", bytes.NewReader(nil)))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
