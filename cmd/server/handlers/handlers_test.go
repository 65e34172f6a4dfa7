package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/udayip/portfolio/logger"
	"github.com/udayip/portfolio/project"
)

// failingStore is a project.Store whose calls fail on demand.
type failingStore struct {
	*project.MemoryStore
	getErr error
	putErr error
	puts   int
}

func (s *failingStore) Get(ctx context.Context) ([]project.Project, error) {
	if s.getErr != nil {
		return nil, s.getErr
	}
	return s.MemoryStore.Get(ctx)
}

func (s *failingStore) Put(ctx context.Context, projects []project.Project) error {
	s.puts++
	if s.putErr != nil {
		return s.putErr
	}
	return s.MemoryStore.Put(ctx, projects)
}

func newFailingStore() *failingStore {
	return &failingStore{MemoryStore: project.NewMemoryStore(project.DefaultProjects(), logger.NewTestLogger())}
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder, dest interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), dest), w.Body.String())
}

func TestProjectHandler_List(t *testing.T) {
	store := newFailingStore()
	h := NewProjectHandler(store, logger.NewTestLogger())

	w := httptest.NewRecorder()
	h.List(w, httptest.NewRequest(http.MethodGet, "/projects", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
	var got []project.Project
	decodeBody(t, w, &got)
	assert.Equal(t, project.DefaultProjects(), got)
}

func TestProjectHandler_ListEmptyIsArray(t *testing.T) {
	store := project.NewMemoryStore(nil, logger.NewTestLogger())
	h := NewProjectHandler(store, logger.NewTestLogger())

	w := httptest.NewRecorder()
	h.List(w, httptest.NewRequest(http.MethodGet, "/projects", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[]`, w.Body.String())
}

func TestProjectHandler_ListFailure(t *testing.T) {
	store := newFailingStore()
	store.getErr = errors.New("disk on fire")
	log := logger.NewTestLogger()
	h := NewProjectHandler(store, log)

	w := httptest.NewRecorder()
	h.List(w, httptest.NewRequest(http.MethodGet, "/projects", nil))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	var resp ErrorResponse
	decodeBody(t, w, &resp)
	assert.Equal(t, "disk on fire", resp.Details)
	assert.True(t, log.HasEntry("error", "failed to get projects"))
}

func TestProjectHandler_Replace(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		putErr     error
		wantStatus int
		wantBody   string
		wantPuts   int
	}{
		{
			name:       "single project",
			body:       `[{"id":"1","name":"A","url":"http://a","description":"d"}]`,
			wantStatus: http.StatusOK,
			wantBody:   `{"success":true}`,
			wantPuts:   1,
		},
		{
			name:       "empty array",
			body:       `[]`,
			wantStatus: http.StatusOK,
			wantBody:   `{"success":true}`,
			wantPuts:   1,
		},
		{
			name:       "object",
			body:       `{"id":"1"}`,
			wantStatus: http.StatusBadRequest,
			wantBody:   `{"error":"Projects must be an array"}`,
		},
		{
			name:       "string",
			body:       `"projects"`,
			wantStatus: http.StatusBadRequest,
			wantBody:   `{"error":"Projects must be an array"}`,
		},
		{
			name:       "malformed json",
			body:       `[{"id":`,
			wantStatus: http.StatusBadRequest,
			wantBody:   `{"error":"Projects must be an array"}`,
		},
		{
			name:       "empty body",
			body:       ``,
			wantStatus: http.StatusBadRequest,
			wantBody:   `{"error":"Projects must be an array"}`,
		},
		{
			name:       "store failure",
			body:       `[]`,
			putErr:     errors.New("github: PUT contents/projects.json returned 409"),
			wantStatus: http.StatusInternalServerError,
			wantBody:   `{"error":"Internal server error","details":"github: PUT contents/projects.json returned 409"}`,
			wantPuts:   1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := newFailingStore()
			store.putErr = tt.putErr
			h := NewProjectHandler(store, logger.NewTestLogger())

			w := httptest.NewRecorder()
			h.Replace(w, httptest.NewRequest(http.MethodPut, "/projects", strings.NewReader(tt.body)))

			assert.Equal(t, tt.wantStatus, w.Code)
			assert.JSONEq(t, tt.wantBody, w.Body.String())
			assert.Equal(t, tt.wantPuts, store.puts)

			if tt.wantStatus != http.StatusOK {
				got, err := store.MemoryStore.Get(context.Background())
				require.NoError(t, err)
				assert.Equal(t, project.DefaultProjects(), got, "stored collection unchanged")
			}
		})
	}
}

func TestProjectHandler_ReplaceTooLarge(t *testing.T) {
	store := newFailingStore()
	h := NewProjectHandler(store, logger.NewTestLogger())

	body := "[" + strings.Repeat(" ", maxProjectsBody) + "]"
	w := httptest.NewRecorder()
	h.Replace(w, httptest.NewRequest(http.MethodPut, "/projects", strings.NewReader(body)))

	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
	assert.Equal(t, 0, store.puts)
}

func TestCORS(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})

	w := httptest.NewRecorder()
	NewCORS(ProjectMethods).Handler(next).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/projects", nil))

	assert.Equal(t, http.StatusTeapot, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "GET, PUT, OPTIONS", w.Header().Get("Access-Control-Allow-Methods"))
	assert.Contains(t, w.Header().Get("Access-Control-Allow-Headers"), "Content-Type")
}

func TestPreflightAndMethodNotAllowed(t *testing.T) {
	w := httptest.NewRecorder()
	Preflight(w, httptest.NewRequest(http.MethodOptions, "/auth", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, w.Body.String())

	w = httptest.NewRecorder()
	MethodNotAllowed(w, httptest.NewRequest(http.MethodDelete, "/auth", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
	assert.JSONEq(t, `{"error":"Method not allowed"}`, w.Body.String())
}

func TestRequestLogger(t *testing.T) {
	t.Run("generates and propagates request id", func(t *testing.T) {
		log := logger.NewTestLogger()
		var seen string
		next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			seen = logger.RequestID(r.Context())
			w.WriteHeader(http.StatusCreated)
		})

		w := httptest.NewRecorder()
		NewRequestLogger(log).Handler(next).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/x", nil))

		require.NotEmpty(t, seen)
		assert.Equal(t, seen, w.Header().Get(RequestIDHeader))

		entries := log.Entries()
		require.Len(t, entries, 1)
		assert.Equal(t, "request handled", entries[0].Message)
		assert.Equal(t, http.StatusCreated, entries[0].Fields["status"])
		assert.Equal(t, seen, entries[0].Fields["request_id"])
	})

	t.Run("keeps incoming request id", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/x", nil)
		req.Header.Set(RequestIDHeader, "abc-123")
		w := httptest.NewRecorder()

		NewRequestLogger(logger.NewTestLogger()).Handler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {})).ServeHTTP(w, req)

		assert.Equal(t, "abc-123", w.Header().Get(RequestIDHeader))
	})

	t.Run("recovers panics", func(t *testing.T) {
		log := logger.NewTestLogger()
		next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			panic("boom")
		})

		w := httptest.NewRecorder()
		NewRequestLogger(log).Handler(next).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/x", nil))

		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.JSONEq(t, `{"error":"Internal server error"}`, w.Body.String())
		assert.True(t, log.HasEntry("error", "panic while handling request"))
	})
}

func TestHealthHandler(t *testing.T) {
	w := httptest.NewRecorder()
	HealthHandler(w, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"healthy"}`, w.Body.String())
}
