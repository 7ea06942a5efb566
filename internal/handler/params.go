package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/oapi-codegen/runtime"
	openapi_types "github.com/oapi-codegen/runtime/types"

	"github.com/pkordes/sighting-registry/internal/domain"
)

// pathID parses the {id} URL parameter.
func pathID(r *http.Request) (uuid.UUID, *domain.FieldError) {
	return parseUUID("id", chi.URLParam(r, "id"))
}

func parseUUID(field, raw string) (uuid.UUID, *domain.FieldError) {
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, &domain.FieldError{Field: field, Message: field + " must be a UUID"}
	}
	return id, nil
}

// decodeJSON reads a JSON body into dst. A malformed body is reported as a
// field error naming the offending field when the decoder knows it.
func decodeJSON(r *http.Request, dst any) error {
	err := json.NewDecoder(r.Body).Decode(dst)
	if err == nil {
		return nil
	}
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		return err
	}
	if errors.Is(err, domain.ErrValidation) {
		return err
	}
	if errors.Is(err, io.EOF) {
		return &domain.ValidationError{Fields: []domain.FieldError{{Message: "request body is required"}}}
	}
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) && typeErr.Field != "" {
		return &domain.ValidationError{Fields: []domain.FieldError{{
			Field:   typeErr.Field,
			Message: fmt.Sprintf("%s must be a %s", typeErr.Field, typeErr.Type),
		}}}
	}
	return &domain.ValidationError{Fields: []domain.FieldError{{Message: "malformed JSON body: " + err.Error()}}}
}

// queryInt binds an optional integer query parameter.
func queryInt(r *http.Request, name string) (*int, *domain.FieldError) {
	var v *int
	if err := runtime.BindQueryParameter("form", true, false, name, r.URL.Query(), &v); err != nil {
		return nil, &domain.FieldError{Field: name, Message: name + " must be an integer"}
	}
	return v, nil
}

// queryDate binds an optional YYYY-MM-DD query parameter as a UTC midnight.
func queryDate(r *http.Request, name string) (*time.Time, *domain.FieldError) {
	var d *openapi_types.Date
	if err := runtime.BindQueryParameter("form", true, false, name, r.URL.Query(), &d); err != nil {
		return nil, &domain.FieldError{Field: name, Message: name + " must be a date (YYYY-MM-DD)"}
	}
	if d == nil {
		return nil, nil
	}
	t := time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, time.UTC)
	return &t, nil
}

// queryUUID binds an optional UUID query parameter.
func queryUUID(r *http.Request, name string) (*uuid.UUID, *domain.FieldError) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return nil, nil
	}
	id, fe := parseUUID(name, raw)
	if fe != nil {
		return nil, fe
	}
	return &id, nil
}

// collect gathers the non-nil field errors.
func collect(errs ...*domain.FieldError) []domain.FieldError {
	var out []domain.FieldError
	for _, fe := range errs {
		if fe != nil {
			out = append(out, *fe)
		}
	}
	return out
}
