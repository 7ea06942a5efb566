package handler

import (
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/pkordes/sighting-registry/internal/dispatch"
)

// send dispatches req and writes the error response on failure. The result
// type comes first so callers name only it.
func send[Res, Req any](s *Server, w http.ResponseWriter, r *http.Request, req Req) (Res, bool) {
	res, err := dispatch.Send[Req, Res](r.Context(), s.d, req)
	if err != nil {
		s.fail(w, r, err)
		return res, false
	}
	return res, true
}

func created(w http.ResponseWriter, r *http.Request, id uuid.UUID) {
	w.Header().Set("Location", strings.TrimRight(r.URL.Path, "/")+"/"+id.String())
	writeJSON(w, http.StatusCreated, createdResponse{ID: id})
}

func noContent(w http.ResponseWriter) {
	w.WriteHeader(http.StatusNoContent)
}
