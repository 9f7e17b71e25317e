package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"

	"github.com/BerylCAtieno/paper-simplifier/internal/utils"
)

func newTestRouter(handler http.HandlerFunc) *mux.Router {
	r := mux.NewRouter()
	r.Use(RequestID())
	r.Use(Logger(utils.NewNopLogger()))
	r.Use(CORS([]string{"http://localhost:3000"}))
	r.Use(Recovery(utils.NewNopLogger()))
	r.HandleFunc("/api/thing", handler).Methods(http.MethodGet, http.MethodPost, http.MethodOptions)
	return r
}

func TestCORSPreflight(t *testing.T) {
	r := newTestRouter(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("preflight must not reach the handler")
	})

	req := httptest.NewRequest(http.MethodOptions, "/api/thing", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)

	assert.Equal(t, http.StatusNoContent, resp.Code)
	assert.Equal(t, "http://localhost:3000", resp.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "true", resp.Header().Get("Access-Control-Allow-Credentials"))
	assert.NotEmpty(t, resp.Header().Get("Access-Control-Allow-Methods"))
}

func TestCORSUnknownOrigin(t *testing.T) {
	r := newTestRouter(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/api/thing", nil)
	req.Header.Set("Origin", "https://evil.example")
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)

	assert.Equal(t, http.StatusOK, resp.Code)
	assert.Empty(t, resp.Header().Get("Access-Control-Allow-Origin"))
}

func TestRequestIDPropagation(t *testing.T) {
	var seen string
	r := newTestRouter(func(w http.ResponseWriter, r *http.Request) {
		seen = RequestIDFromContext(r.Context())
	})

	req := httptest.NewRequest(http.MethodGet, "/api/thing", nil)
	req.Header.Set(RequestIDHeader, "abc-123")
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)
	assert.Equal(t, "abc-123", seen)
	assert.Equal(t, "abc-123", resp.Header().Get(RequestIDHeader))

	resp = httptest.NewRecorder()
	r.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/api/thing", nil))
	assert.NotEmpty(t, resp.Header().Get(RequestIDHeader))
	assert.NotEqual(t, "abc-123", seen)
}

func TestRecoveryReturnsJSON500(t *testing.T) {
	r := newTestRouter(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	})

	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/api/thing", nil))

	assert.Equal(t, http.StatusInternalServerError, resp.Code)
	assert.JSONEq(t, `{"error":"Internal server error"}`, resp.Body.String())
}
