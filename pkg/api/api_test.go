package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/getmockd/seedapi/pkg/seed"
	"github.com/getmockd/seedapi/pkg/stateful"
)

const testSeed = `{
	"companies": [{"id": 1, "name": "Acme"}],
	"cities": [{"id": 1, "name": "Zürich"}, {"id": 2, "name": "Oslo"}],
	"tags": [],
	"jobs": [{"id": "j-7", "title": "Go Engineer", "remote": true}],
	"cvs": [{"id": 3, "name": "Ada", "skills": ["go", "sql"]}]
}`

type testEnv struct {
	source  *seed.BytesSource
	store   *stateful.Store
	metrics *stateful.MetricsObserver
	server  *Server
}

func newTestEnv(t *testing.T, opts ...Option) *testEnv {
	t.Helper()

	src := seed.NewBytesSource("test", []byte(testSeed))
	metrics := stateful.NewMetricsObserver()
	store := stateful.NewStore(src, stateful.WithObserver(metrics))
	require.NoError(t, store.Load(context.Background()))

	opts = append([]Option{WithMetrics(metrics)}, opts...)
	return &testEnv{
		source:  src,
		store:   store,
		metrics: metrics,
		server:  NewServer(store, opts...),
	}
}

func (e *testEnv) do(t *testing.T, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var r *http.Request
	if body == "" {
		r = httptest.NewRequest(method, path, nil)
	} else {
		r = httptest.NewRequest(method, path, strings.NewReader(body))
		r.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	e.server.ServeHTTP(w, r)
	return w
}

func decodeObject(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), "body: %s", w.Body.String())
	return out
}

func decodeArray(t *testing.T, w *httptest.ResponseRecorder) []map[string]any {
	t.Helper()
	var out []map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), "body: %s", w.Body.String())
	return out
}

// ============================================================================
// End-to-end lifecycle
// ============================================================================

func TestCollectionLifecycle(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(t, http.MethodPost, "/api/companies", `{"name":"Beta"}`)
	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, map[string]any{"id": float64(2), "name": "Beta"}, decodeObject(t, w))

	w = env.do(t, http.MethodGet, "/api/companies?name=bet", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []map[string]any{{"id": float64(2), "name": "Beta"}}, decodeArray(t, w))

	w = env.do(t, http.MethodPatch, "/api/companies/2", `{"size":10}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, map[string]any{"id": float64(2), "name": "Beta", "size": float64(10)}, decodeObject(t, w))

	w = env.do(t, http.MethodDelete, "/api/companies/2", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, map[string]any{
		"success": true,
		"removed": map[string]any{"id": float64(2), "name": "Beta", "size": float64(10)},
	}, decodeObject(t, w))

	w = env.do(t, http.MethodGet, "/api/companies/2", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, map[string]any{"error": "companies not found"}, decodeObject(t, w))
}

func TestResetRestoresSeed(t *testing.T) {
	env := newTestEnv(t)

	env.do(t, http.MethodPost, "/api/companies", `{"name":"Beta"}`)
	env.do(t, http.MethodDelete, "/api/cities/1", "")
	env.do(t, http.MethodPatch, "/api/jobs/j-7", `{"remote":false}`)

	w := env.do(t, http.MethodPost, "/api/_reset", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, map[string]any{"ok": true}, decodeObject(t, w))

	w = env.do(t, http.MethodGet, "/api/companies", "")
	assert.Equal(t, []map[string]any{{"id": float64(1), "name": "Acme"}}, decodeArray(t, w))

	w = env.do(t, http.MethodGet, "/api/cities", "")
	assert.Len(t, decodeArray(t, w), 2)

	w = env.do(t, http.MethodGet, "/api/jobs/j-7", "")
	assert.Equal(t, true, decodeObject(t, w)["remote"])
}

func TestResetFailureLeavesStoreUntouched(t *testing.T) {
	env := newTestEnv(t)

	env.do(t, http.MethodPost, "/api/companies", `{"name":"Beta"}`)
	env.source.Data = []byte(`{not json`)

	w := env.do(t, http.MethodPost, "/api/_reset", "")
	require.Equal(t, http.StatusInternalServerError, w.Code)
	msg, ok := decodeObject(t, w)["error"].(string)
	require.True(t, ok)
	assert.Contains(t, msg, "reset")

	w = env.do(t, http.MethodGet, "/api/companies", "")
	assert.Len(t, decodeArray(t, w), 2)
}

func TestReset_NonObjectSeedEmptiesCollections(t *testing.T) {
	env := newTestEnv(t)
	env.source.Data = []byte(`[1,2]`)

	w := env.do(t, http.MethodPost, "/api/_reset", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, map[string]any{"ok": true}, decodeObject(t, w))

	for _, name := range env.store.Names() {
		w = env.do(t, http.MethodGet, "/api/"+name, "")
		assert.JSONEq(t, `[]`, w.Body.String(), name)
	}

	env.source.Data = []byte(`null`)
	w = env.do(t, http.MethodPost, "/api/_reset", "")
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

// ============================================================================
// List
// ============================================================================

func TestList(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		path  string
		count int
	}{
		{"all", "/api/cities", 2},
		{"trailing slash", "/api/cities/", 2},
		{"case insensitive unicode", "/api/cities?name=%C3%BCRICH", 1},
		{"and of keys", "/api/cities?name=o&id=2", 1},
		{"missing field excludes", "/api/cities?country=no", 0},
		{"boolean rendered", "/api/jobs?remote=TRUE", 1},
		{"array rendered with commas", "/api/cvs?skills=go,sql", 1},
		{"numeric id substring", "/api/cvs?id=3", 1},
		{"empty collection", "/api/tags", 0},
	}

	env := newTestEnv(t)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			w := env.do(t, http.MethodGet, tt.path, "")
			require.Equal(t, http.StatusOK, w.Code)
			assert.Len(t, decodeArray(t, w), tt.count)
		})
	}
}

func TestList_EmptyIsArray(t *testing.T) {
	env := newTestEnv(t)
	w := env.do(t, http.MethodGet, "/api/tags", "")
	assert.JSONEq(t, `[]`, w.Body.String())
	assert.Equal(t, "application/json; charset=utf-8", w.Header().Get("Content-Type"))
}

// ============================================================================
// Get
// ============================================================================

func TestGet_LooseIDMatch(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(t, http.MethodGet, "/api/jobs/j-7", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Go Engineer", decodeObject(t, w)["title"])

	w = env.do(t, http.MethodGet, "/api/cvs/3", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Ada", decodeObject(t, w)["name"])

	w = env.do(t, http.MethodGet, "/api/cvs/3.0", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, map[string]any{"error": "cvs not found"}, decodeObject(t, w))
}

func TestItemRoutes_TrailingSlash(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(t, http.MethodGet, "/api/companies/1/", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Acme", decodeObject(t, w)["name"])

	w = env.do(t, http.MethodPatch, "/api/companies/1/", `{"size":3}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, float64(3), decodeObject(t, w)["size"])

	w = env.do(t, http.MethodDelete, "/api/companies/1/", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, true, decodeObject(t, w)["success"])

	w = env.do(t, http.MethodGet, "/api/companies/1", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

// ============================================================================
// Create
// ============================================================================

func TestCreate(t *testing.T) {
	t.Run("keeps client id", func(t *testing.T) {
		env := newTestEnv(t)
		w := env.do(t, http.MethodPost, "/api/companies", `{"id":"abc","name":"X"}`)
		require.Equal(t, http.StatusCreated, w.Code)
		assert.Equal(t, "abc", decodeObject(t, w)["id"])
	})

	t.Run("duplicate id admitted", func(t *testing.T) {
		env := newTestEnv(t)
		w := env.do(t, http.MethodPost, "/api/companies", `{"id":1,"name":"Dup"}`)
		require.Equal(t, http.StatusCreated, w.Code)

		w = env.do(t, http.MethodGet, "/api/companies", "")
		assert.Len(t, decodeArray(t, w), 2)

		w = env.do(t, http.MethodGet, "/api/companies/1", "")
		assert.Equal(t, "Acme", decodeObject(t, w)["name"])
	})

	t.Run("null id is assigned", func(t *testing.T) {
		env := newTestEnv(t)
		w := env.do(t, http.MethodPost, "/api/companies", `{"id":null}`)
		require.Equal(t, http.StatusCreated, w.Code)
		assert.Equal(t, float64(2), decodeObject(t, w)["id"])
	})

	t.Run("empty body", func(t *testing.T) {
		env := newTestEnv(t)
		w := env.do(t, http.MethodPost, "/api/tags", "")
		require.Equal(t, http.StatusCreated, w.Code)
		assert.Equal(t, map[string]any{"id": float64(1)}, decodeObject(t, w))
	})

	t.Run("non-json content type is ignored", func(t *testing.T) {
		env := newTestEnv(t)
		r := httptest.NewRequest(http.MethodPost, "/api/tags", strings.NewReader("name=x"))
		r.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		w := httptest.NewRecorder()
		env.server.ServeHTTP(w, r)
		require.Equal(t, http.StatusCreated, w.Code)
		assert.Equal(t, map[string]any{"id": float64(1)}, decodeObject(t, w))
	})

	t.Run("body without json content type is ignored", func(t *testing.T) {
		for _, contentType := range []string{"", "application/vnd.api+json", "text/plain"} {
			env := newTestEnv(t)
			r := httptest.NewRequest(http.MethodPost, "/api/tags", strings.NewReader(`{"name":"x"}`))
			if contentType != "" {
				r.Header.Set("Content-Type", contentType)
			}
			w := httptest.NewRecorder()
			env.server.ServeHTTP(w, r)
			require.Equal(t, http.StatusCreated, w.Code, contentType)
			assert.Equal(t, map[string]any{"id": float64(1)}, decodeObject(t, w), contentType)
		}
	})

	t.Run("json content type with charset is parsed", func(t *testing.T) {
		env := newTestEnv(t)
		r := httptest.NewRequest(http.MethodPost, "/api/tags", strings.NewReader(`{"name":"x"}`))
		r.Header.Set("Content-Type", "application/json; charset=utf-8")
		w := httptest.NewRecorder()
		env.server.ServeHTTP(w, r)
		require.Equal(t, http.StatusCreated, w.Code)
		assert.Equal(t, "x", decodeObject(t, w)["name"])
	})

	t.Run("next id after string ids", func(t *testing.T) {
		env := newTestEnv(t)
		w := env.do(t, http.MethodPost, "/api/jobs", `{"title":"x"}`)
		assert.Equal(t, float64(1), decodeObject(t, w)["id"])
	})
}

func TestCreate_BadBodies(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		body   string
		status int
	}{
		{"invalid json", `{"name":`, http.StatusBadRequest},
		{"array", `[1,2]`, http.StatusBadRequest},
		{"scalar", `42`, http.StatusBadRequest},
		{"too large", `{"blob":"` + strings.Repeat("x", 200) + `"}`, http.StatusRequestEntityTooLarge},
	}

	env := newTestEnv(t, WithMaxBodyBytes(128))
	t.Run("group", func(t *testing.T) {
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				t.Parallel()
				w := env.do(t, http.MethodPost, "/api/tags", tt.body)
				assert.Equal(t, tt.status, w.Code)
				assert.Contains(t, decodeObject(t, w), "error")
			})
		}
	})

	assert.Equal(t, 0, env.store.Overview().Items["tags"])
}

// ============================================================================
// Update / Delete
// ============================================================================

func TestUpdate(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(t, http.MethodPatch, "/api/cities/9", `{"name":"x"}`)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, map[string]any{"error": "cities not found"}, decodeObject(t, w))

	w = env.do(t, http.MethodPatch, "/api/cities/1", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, map[string]any{"id": float64(1), "name": "Zürich"}, decodeObject(t, w))

	w = env.do(t, http.MethodPatch, "/api/cities/1", `{"id":"zrh"}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, http.StatusNotFound, env.do(t, http.MethodGet, "/api/cities/1", "").Code)
	assert.Equal(t, http.StatusOK, env.do(t, http.MethodGet, "/api/cities/zrh", "").Code)
}

func TestDelete_NotFound(t *testing.T) {
	env := newTestEnv(t)
	w := env.do(t, http.MethodDelete, "/api/tags/1", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, map[string]any{"error": "tags not found"}, decodeObject(t, w))
}

// ============================================================================
// Routing and middleware
// ============================================================================

func TestUnknownRoutes(t *testing.T) {
	env := newTestEnv(t)

	for _, tc := range []struct{ method, path string }{
		{http.MethodGet, "/api/users"},
		{http.MethodPut, "/api/companies/1"},
		{http.MethodPatch, "/api/companies"},
		{http.MethodGet, "/api/companies/1/extra"},
	} {
		w := env.do(t, tc.method, tc.path, "")
		assert.Equal(t, http.StatusNotFound, w.Code, "%s %s", tc.method, tc.path)
	}
}

func TestHealthStateAndStats(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(t, http.MethodGet, "/health", "")
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())

	env.do(t, http.MethodGet, "/api/companies", "")
	env.do(t, http.MethodGet, "/api/companies/404", "")

	w = env.do(t, http.MethodGet, "/api/_state", "")
	require.Equal(t, http.StatusOK, w.Code)
	state := decodeObject(t, w)
	assert.Equal(t, float64(5), state["collections"])
	assert.Equal(t, float64(5), state["totalItems"])

	w = env.do(t, http.MethodGet, "/api/_stats", "")
	require.Equal(t, http.StatusOK, w.Code)
	stats := decodeObject(t, w)
	ops, ok := stats["operations"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, float64(1), ops["listCount"])
	assert.Equal(t, float64(1), ops["errorCount"])
}

func TestStatsDisabledWithoutMetrics(t *testing.T) {
	store := stateful.NewStore(seed.NewBytesSource("test", []byte(testSeed)))
	srv := NewServer(store)
	w := httptest.NewRecorder()
	srv.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/_stats", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCORS(t *testing.T) {
	env := newTestEnv(t)

	r := httptest.NewRequest(http.MethodOptions, "/api/companies", nil)
	r.Header.Set("Origin", "http://example.com")
	r.Header.Set("Access-Control-Request-Method", "POST")
	w := httptest.NewRecorder()
	env.server.ServeHTTP(w, r)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Contains(t, w.Header().Get("Access-Control-Allow-Methods"), "PATCH")

	r = httptest.NewRequest(http.MethodGet, "/api/companies", nil)
	r.Header.Set("Origin", "http://example.com")
	w = httptest.NewRecorder()
	env.server.ServeHTTP(w, r)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestCORS_RestrictedOrigins(t *testing.T) {
	env := newTestEnv(t, WithCORS(CORSConfig{AllowedOrigins: []string{"http://ok.test"}}))

	r := httptest.NewRequest(http.MethodGet, "/api/companies", nil)
	r.Header.Set("Origin", "http://ok.test")
	w := httptest.NewRecorder()
	env.server.ServeHTTP(w, r)
	assert.Equal(t, "http://ok.test", w.Header().Get("Access-Control-Allow-Origin"))

	r = httptest.NewRequest(http.MethodGet, "/api/companies", nil)
	r.Header.Set("Origin", "http://evil.test")
	w = httptest.NewRecorder()
	env.server.ServeHTTP(w, r)
	assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRequestIDHeader(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(t, http.MethodGet, "/health", "")
	assert.Len(t, w.Header().Get(RequestIDHeader), 36)

	r := httptest.NewRequest(http.MethodGet, "/health", nil)
	r.Header.Set(RequestIDHeader, "req-1")
	w = httptest.NewRecorder()
	env.server.ServeHTTP(w, r)
	assert.Equal(t, "req-1", w.Header().Get(RequestIDHeader))
}

func TestConcurrentCreatesAndReset(t *testing.T) {
	env := newTestEnv(t)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			env.do(t, http.MethodPost, "/api/tags", `{"name":"t"}`)
		}()
		go func() {
			defer wg.Done()
			env.do(t, http.MethodGet, "/api/tags?name=t", "")
		}()
	}
	wg.Wait()

	w := env.do(t, http.MethodGet, "/api/tags", "")
	tags := decodeArray(t, w)
	require.Len(t, tags, 20)
	seen := make(map[float64]bool)
	for _, tag := range tags {
		seen[tag["id"].(float64)] = true
	}
	assert.Len(t, seen, 20, "ids must be unique when creates do not race on NextID")

	require.Equal(t, http.StatusOK, env.do(t, http.MethodPost, "/api/_reset", "").Code)
	assert.JSONEq(t, `[]`, env.do(t, http.MethodGet, "/api/tags", "").Body.String())
}

func TestDecodeRecord_KeepsIntegers(t *testing.T) {
	r := httptest.NewRequest(http.MethodPost, "/", bytes.NewReader([]byte(`{"id": 9007199254740993}`)))
	r.Header.Set("Content-Type", "application/json")
	rec, err := decodeRecord(httptest.NewRecorder(), r, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(9007199254740993), rec["id"])
}
