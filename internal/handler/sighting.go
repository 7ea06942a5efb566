package handler

import (
	"errors"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/pkordes/sighting-registry/internal/domain"
	"github.com/pkordes/sighting-registry/internal/imagestore"
	"github.com/pkordes/sighting-registry/internal/service"
)

// multipartMemory is how much of a multipart body is held in memory before
// parts spill to temporary files.
const multipartMemory = 8 << 20

// sightingForm is the decoded multipart body shared by create and update.
type sightingForm struct {
	cameraID     uuid.UUID
	motorcycleID uuid.UUID
	sightingTime time.Time
	notes        string
	image        *imagestore.Upload
	file         multipart.File
	undecoded    []domain.FieldError
}

func (f *sightingForm) close() {
	if f.file != nil {
		_ = f.file.Close()
	}
}

// readSightingForm parses the multipart body. Malformed identifiers and
// times are collected in undecoded and left zero, as are absent ones, so the
// validation pipeline reports them together with every other failed rule.
// Only a body that is not a multipart form at all fails here.
func readSightingForm(r *http.Request, imageField string, withMotorcycle bool) (*sightingForm, error) {
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return nil, err
		}
		return nil, &domain.ValidationError{Fields: []domain.FieldError{{Message: "request must be multipart/form-data"}}}
	}

	f := &sightingForm{notes: r.FormValue("notes")}
	uuidField := func(name string, dst *uuid.UUID) {
		raw := strings.TrimSpace(r.FormValue(name))
		if raw == "" {
			return
		}
		id, fe := parseUUID(name, raw)
		if fe != nil {
			f.undecoded = append(f.undecoded, *fe)
			return
		}
		*dst = id
	}
	uuidField("cameraId", &f.cameraID)
	if withMotorcycle {
		uuidField("motorcycleId", &f.motorcycleID)
	}

	if raw := strings.TrimSpace(r.FormValue("sightingTimeUtc")); raw != "" {
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			f.undecoded = append(f.undecoded, domain.FieldError{
				Field: "sightingTimeUtc", Message: "sightingTimeUtc must be an RFC 3339 timestamp",
			})
		} else {
			f.sightingTime = t.UTC()
		}
	}

	file, hdr, err := r.FormFile(imageField)
	switch {
	case errors.Is(err, http.ErrMissingFile):
	case err != nil:
		f.undecoded = append(f.undecoded, domain.FieldError{Field: imageField, Message: imageField + " could not be read"})
	default:
		f.file = file
		f.image = &imagestore.Upload{Filename: hdr.Filename, Size: hdr.Size, Content: file}
	}
	return f, nil
}

// createSighting handles POST /sightings (multipart/form-data).
func (s *Server) createSighting(w http.ResponseWriter, r *http.Request) {
	form, err := readSightingForm(r, "imageFile", true)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	defer cleanupForm(r, form)

	id, ok := send[uuid.UUID](s, w, r, service.CreateSighting{
		CameraID:     form.cameraID,
		MotorcycleID: form.motorcycleID,
		Image:        form.image,
		SightingTime: form.sightingTime,
		Notes:        form.notes,
		Undecoded:    form.undecoded,
	})
	if !ok {
		return
	}
	created(w, r, id)
}

// updateSighting handles PUT /sightings/{id} (multipart/form-data). The
// motorcycle cannot be changed; newImageFile optionally replaces the photo.
func (s *Server) updateSighting(w http.ResponseWriter, r *http.Request) {
	id, fe := pathID(r)
	if fe != nil {
		badRequest(w, *fe)
		return
	}
	form, err := readSightingForm(r, "newImageFile", false)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	defer cleanupForm(r, form)

	req := service.UpdateSighting{
		ID:           id,
		CameraID:     form.cameraID,
		SightingTime: form.sightingTime,
		Notes:        form.notes,
		NewImage:     form.image,
		Undecoded:    form.undecoded,
	}
	if _, ok := send[struct{}](s, w, r, req); ok {
		noContent(w)
	}
}

func cleanupForm(r *http.Request, f *sightingForm) {
	if f != nil {
		f.close()
	}
	if r.MultipartForm != nil {
		_ = r.MultipartForm.RemoveAll()
	}
}

func (s *Server) deleteSighting(w http.ResponseWriter, r *http.Request) {
	id, fe := pathID(r)
	if fe != nil {
		badRequest(w, *fe)
		return
	}
	if _, ok := send[struct{}](s, w, r, service.DeleteSighting{ID: id}); ok {
		noContent(w)
	}
}

func (s *Server) getSighting(w http.ResponseWriter, r *http.Request) {
	id, fe := pathID(r)
	if fe != nil {
		badRequest(w, *fe)
		return
	}
	v, ok := send[domain.SightingView](s, w, r, service.GetSighting{ID: id})
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, s.toSighting(r, v))
}

// defaultRecentLimit applies when ?limit= is omitted.
const defaultRecentLimit = 10

// recentSightings handles GET /sightings/recent?limit=N.
func (s *Server) recentSightings(w http.ResponseWriter, r *http.Request) {
	limit, fe := queryInt(r, "limit")
	if fe != nil {
		badRequest(w, *fe)
		return
	}
	req := service.ListRecentSightings{Limit: defaultRecentLimit}
	if limit != nil {
		req.Limit = *limit
	}
	views, ok := send[[]domain.SightingView](s, w, r, req)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, s.toSightings(r, views))
}
