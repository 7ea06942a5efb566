package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/sighting-registry/internal/middleware"
)

const frontend = "http://localhost:5173"

func TestCORS_allowedOriginGetsHeaders(t *testing.T) {
	h := middleware.NewCORSHandler([]string{frontend})(okHandler)

	req := httptest.NewRequest(http.MethodGet, "/brands", nil)
	req.Header.Set("Origin", frontend)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, frontend, rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Contains(t, rec.Header().Get("Access-Control-Expose-Headers"), "Location")
}

// Browsers send Access-Control-Request-Headers in lowercase and rs/cors
// compares against its lowercased list.
func TestCORS_preflight(t *testing.T) {
	h := middleware.NewCORSHandler([]string{frontend})(okHandler)

	req := httptest.NewRequest(http.MethodOptions, "/sightings", nil)
	req.Header.Set("Origin", frontend)
	req.Header.Set("Access-Control-Request-Method", http.MethodPut)
	req.Header.Set("Access-Control-Request-Headers", "content-type")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.True(t, rec.Code == http.StatusNoContent || rec.Code == http.StatusOK,
		"expected 2xx for preflight, got %d", rec.Code)
	assert.Equal(t, frontend, rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Contains(t, rec.Header().Get("Access-Control-Allow-Methods"), http.MethodPut)
}

func TestCORS_disallowedOriginGetsNoHeader(t *testing.T) {
	h := middleware.NewCORSHandler([]string{frontend})(okHandler)

	req := httptest.NewRequest(http.MethodGet, "/brands", nil)
	req.Header.Set("Origin", "http://evil.example.com")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
}
