package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/pkordes/sighting-registry/internal/domain"
	"github.com/pkordes/sighting-registry/internal/service"
)

// motorcycleRequest is the body of POST and PUT /motorcycles. Displacement
// accepts 650, "650", "650cc" or "Cc650".
type motorcycleRequest struct {
	ID           *uuid.UUID           `json:"id"`
	BrandID      uuid.UUID            `json:"brand_id"`
	LicensePlate string               `json:"license_plate"`
	Model        string               `json:"model"`
	Year         *int                 `json:"year"`
	Displacement *domain.Displacement `json:"displacement"`
	Color        string               `json:"color"`
}

// listMotorcycles handles GET /motorcycles?brandId=&model=&searchTerm=&page=&pageSize=.
func (s *Server) listMotorcycles(w http.ResponseWriter, r *http.Request) {
	brandID, fe1 := queryUUID(r, "brandId")
	page, fe2 := queryInt(r, "page")
	size, fe3 := queryInt(r, "pageSize")
	if fields := collect(fe1, fe2, fe3); len(fields) > 0 {
		badRequest(w, fields...)
		return
	}
	q := r.URL.Query()
	req := service.ListMotorcycles{
		BrandID:    brandID,
		Model:      q.Get("model"),
		SearchTerm: q.Get("searchTerm"),
		Page:       page,
		PageSize:   size,
	}
	p, ok := send[domain.Page[domain.MotorcycleView]](s, w, r, req)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, toMotorcyclePage(p))
}

func (s *Server) getMotorcycle(w http.ResponseWriter, r *http.Request) {
	id, fe := pathID(r)
	if fe != nil {
		badRequest(w, *fe)
		return
	}
	v, ok := send[domain.MotorcycleView](s, w, r, service.GetMotorcycle{ID: id})
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, toMotorcycle(v))
}

// getMotorcycleByLicensePlate handles GET /motorcycles/by-license-plate/{plate}.
func (s *Server) getMotorcycleByLicensePlate(w http.ResponseWriter, r *http.Request) {
	req := service.GetMotorcycleByLicensePlate{LicensePlate: chi.URLParam(r, "plate")}
	v, ok := send[domain.MotorcycleView](s, w, r, req)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, toMotorcycle(v))
}

// listMotorcycleSightings handles GET /motorcycles/{id}/sightings.
func (s *Server) listMotorcycleSightings(w http.ResponseWriter, r *http.Request) {
	id, fe := pathID(r)
	if fe != nil {
		badRequest(w, *fe)
		return
	}
	views, ok := send[[]domain.SightingView](s, w, r, service.ListMotorcycleSightings{MotorcycleID: id})
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, s.toSightings(r, views))
}

func (s *Server) createMotorcycle(w http.ResponseWriter, r *http.Request) {
	var body motorcycleRequest
	if err := decodeJSON(r, &body); err != nil {
		s.fail(w, r, err)
		return
	}
	id, ok := send[uuid.UUID](s, w, r, service.CreateMotorcycle{
		BrandID:      body.BrandID,
		LicensePlate: body.LicensePlate,
		Model:        body.Model,
		Year:         body.Year,
		Displacement: body.Displacement,
		Color:        body.Color,
	})
	if !ok {
		return
	}
	created(w, r, id)
}

func (s *Server) updateMotorcycle(w http.ResponseWriter, r *http.Request) {
	id, fe := pathID(r)
	if fe != nil {
		badRequest(w, *fe)
		return
	}
	var body motorcycleRequest
	if err := decodeJSON(r, &body); err != nil {
		s.fail(w, r, err)
		return
	}
	req := service.UpdateMotorcycle{
		ID:           id,
		BodyID:       body.ID,
		BrandID:      body.BrandID,
		LicensePlate: body.LicensePlate,
		Model:        body.Model,
		Year:         body.Year,
		Displacement: body.Displacement,
		Color:        body.Color,
	}
	if _, ok := send[struct{}](s, w, r, req); ok {
		noContent(w)
	}
}

func (s *Server) deleteMotorcycle(w http.ResponseWriter, r *http.Request) {
	id, fe := pathID(r)
	if fe != nil {
		badRequest(w, *fe)
		return
	}
	if _, ok := send[struct{}](s, w, r, service.DeleteMotorcycle{ID: id}); ok {
		noContent(w)
	}
}
