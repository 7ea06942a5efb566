package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/pkordes/sighting-registry/internal/domain"
)

// ErrorDetail is the body of every error response.
type ErrorDetail struct {
	Code    string              `json:"code"`
	Message string              `json:"message"`
	Details []domain.FieldError `json:"details,omitempty"`
}

type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// fail maps err to a status and error body. Sentinel errors carry a public
// message after their sentinel text; anything unrecognised is a 500 whose
// message only names the request id.
func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	var ve *domain.ValidationError
	var tooLarge *http.MaxBytesError
	switch {
	case errors.As(err, &ve):
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: ErrorDetail{
			Code: "validation_error", Message: "request validation failed", Details: ve.Fields,
		}})
	case errors.As(err, &tooLarge):
		writeError(w, http.StatusRequestEntityTooLarge, "request_too_large", "request body is too large")
	case errors.Is(err, domain.ErrValidation):
		writeError(w, http.StatusBadRequest, "validation_error", publicMessage(err, domain.ErrValidation, "invalid request"))
	case errors.Is(err, domain.ErrUnsupportedMedia):
		writeError(w, http.StatusBadRequest, "unsupported_media", publicMessage(err, domain.ErrUnsupportedMedia, "unsupported image"))
	case errors.Is(err, domain.ErrNotFound):
		writeError(w, http.StatusNotFound, "not_found", publicMessage(err, domain.ErrNotFound, "resource not found"))
	case errors.Is(err, domain.ErrConflict):
		writeError(w, http.StatusConflict, "conflict", publicMessage(err, domain.ErrConflict, "conflict"))
	default:
		reqID := chimiddleware.GetReqID(r.Context())
		s.log.ErrorContext(r.Context(), "request failed",
			"method", r.Method,
			"path", r.URL.Path,
			"request_id", reqID,
			"error", err,
		)
		msg := "internal server error"
		if reqID != "" {
			msg += " (request id " + reqID + ")"
		}
		writeError(w, http.StatusInternalServerError, "internal_error", msg)
	}
}

// publicMessage extracts the text following the last occurrence of the
// sentinel in err's chain.
// e.g. "service.BrandService.Create: conflict: brand \"Honda\" already exists" → "brand \"Honda\" already exists"
func publicMessage(err, sentinel error, fallback string) string {
	msg := err.Error()
	marker := sentinel.Error() + ": "
	if i := strings.LastIndex(msg, marker); i >= 0 && i+len(marker) < len(msg) {
		return msg[i+len(marker):]
	}
	return fallback
}

// badRequest reports input rejected before dispatch.
func badRequest(w http.ResponseWriter, fields ...domain.FieldError) {
	writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: ErrorDetail{
		Code: "validation_error", Message: "request validation failed", Details: fields,
	}})
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, ErrorResponse{Error: ErrorDetail{Code: code, Message: message}})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
