package handler

import (
	"context"
	"net/http"
	"time"
)

type healthResponse struct {
	Status   string `json:"status"`
	Database string `json:"database,omitempty"`
}

// health handles GET /healthz. It returns 200 {"status":"ok"} while the
// process is up and, when a database is wired, 503 if it cannot be pinged.
func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	if s.opts.DB == nil {
		writeJSON(w, http.StatusOK, healthResponse{Status: "ok"})
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()
	if err := s.opts.DB.Ping(ctx); err != nil {
		s.log.WarnContext(r.Context(), "health check: database unreachable", "error", err)
		writeJSON(w, http.StatusServiceUnavailable, healthResponse{Status: "degraded", Database: "unreachable"})
		return
	}
	writeJSON(w, http.StatusOK, healthResponse{Status: "ok", Database: "ok"})
}
