// Package middleware provides the HTTP middleware of the sighting registry
// server: request logging, CORS, body size limits and write rate limiting.
package middleware

import (
	"net/http"

	"github.com/rs/cors"
)

// NewCORSHandler returns a middleware that applies CORS headers based on allowedOrigins.
// Each entry in allowedOrigins must be a full origin (scheme + host, no trailing slash).
// Location and X-Request-Id are exposed so browser clients can follow a 201
// and quote a request id when reporting an error.
func NewCORSHandler(allowedOrigins []string) func(http.Handler) http.Handler {
	c := cors.New(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type", "Authorization", "X-Request-Id"},
		ExposedHeaders: []string{"Location", "X-Request-Id", "Retry-After"},
		MaxAge:         600,
	})
	return c.Handler
}
