package handler

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/pkordes/sighting-registry/internal/domain"
	"github.com/pkordes/sighting-registry/internal/service"
)

type brandRequest struct {
	Name string `json:"name"`
}

// listBrands handles GET /brands.
func (s *Server) listBrands(w http.ResponseWriter, r *http.Request) {
	brands, ok := send[[]domain.Brand](s, w, r, service.ListBrands{})
	if !ok {
		return
	}
	out := make([]brandResponse, len(brands))
	for i, b := range brands {
		out[i] = toBrand(b)
	}
	writeJSON(w, http.StatusOK, out)
}

// getBrand handles GET /brands/{id}.
func (s *Server) getBrand(w http.ResponseWriter, r *http.Request) {
	id, fe := pathID(r)
	if fe != nil {
		badRequest(w, *fe)
		return
	}
	b, ok := send[domain.Brand](s, w, r, service.GetBrand{ID: id})
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, toBrand(b))
}

// createBrand handles POST /brands.
func (s *Server) createBrand(w http.ResponseWriter, r *http.Request) {
	var body brandRequest
	if err := decodeJSON(r, &body); err != nil {
		s.fail(w, r, err)
		return
	}
	id, ok := send[uuid.UUID](s, w, r, service.CreateBrand{Name: body.Name})
	if !ok {
		return
	}
	created(w, r, id)
}

// updateBrand handles PUT /brands/{id}.
func (s *Server) updateBrand(w http.ResponseWriter, r *http.Request) {
	id, fe := pathID(r)
	if fe != nil {
		badRequest(w, *fe)
		return
	}
	var body brandRequest
	if err := decodeJSON(r, &body); err != nil {
		s.fail(w, r, err)
		return
	}
	if _, ok := send[struct{}](s, w, r, service.UpdateBrand{ID: id, Name: body.Name}); ok {
		noContent(w)
	}
}

// deleteBrand handles DELETE /brands/{id}.
func (s *Server) deleteBrand(w http.ResponseWriter, r *http.Request) {
	id, fe := pathID(r)
	if fe != nil {
		badRequest(w, *fe)
		return
	}
	if _, ok := send[struct{}](s, w, r, service.DeleteBrand{ID: id}); ok {
		noContent(w)
	}
}
