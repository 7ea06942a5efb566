package handler_test

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/sighting-registry/internal/dispatch"
	"github.com/pkordes/sighting-registry/internal/handler"
	"github.com/pkordes/sighting-registry/internal/imageurl"
)

var discard = slog.New(slog.NewTextHandler(io.Discard, nil))

// rootRelative addresses stored paths the way the local image store does.
type rootRelative struct{}

func (rootRelative) URL(p string) string { return "/" + p }

// newHTTPHandler wires a Server over a dispatcher populated by register.
// This mirrors how the serve command wires it in production, minus the
// real services.
func newHTTPHandler(t *testing.T, register func(d *dispatch.Dispatcher), opts ...func(*handler.Options)) http.Handler {
	t.Helper()
	d := dispatch.New(discard, nil)
	if register != nil {
		register(d)
	}
	o := handler.Options{Log: discard}
	for _, fn := range opts {
		fn(&o)
	}
	srv := handler.NewServer(d, imageurl.NewResolver(rootRelative{}, ""), o)
	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	srv.Routes(r)
	return r
}

func do(t *testing.T, h http.Handler, req *http.Request) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func jsonBody(t *testing.T, v any) *bytes.Buffer {
	t.Helper()
	b, err := json.Marshal(v)
	require.NoError(t, err)
	return bytes.NewBuffer(b)
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&v))
	return v
}
