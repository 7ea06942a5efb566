package handler

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/pkordes/sighting-registry/internal/domain"
	"github.com/pkordes/sighting-registry/internal/service"
)

type cameraRequest struct {
	Name     string                `json:"name"`
	Location *service.AddressInput `json:"location"`
}

func (s *Server) listCameras(w http.ResponseWriter, r *http.Request) {
	cams, ok := send[[]domain.Camera](s, w, r, service.ListCameras{})
	if !ok {
		return
	}
	out := make([]cameraResponse, len(cams))
	for i, c := range cams {
		out[i] = toCamera(c)
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) getCamera(w http.ResponseWriter, r *http.Request) {
	id, fe := pathID(r)
	if fe != nil {
		badRequest(w, *fe)
		return
	}
	c, ok := send[domain.Camera](s, w, r, service.GetCamera{ID: id})
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, toCamera(c))
}

func (s *Server) createCamera(w http.ResponseWriter, r *http.Request) {
	var body cameraRequest
	if err := decodeJSON(r, &body); err != nil {
		s.fail(w, r, err)
		return
	}
	id, ok := send[uuid.UUID](s, w, r, service.CreateCamera{Name: body.Name, Location: body.Location})
	if !ok {
		return
	}
	created(w, r, id)
}

func (s *Server) updateCamera(w http.ResponseWriter, r *http.Request) {
	id, fe := pathID(r)
	if fe != nil {
		badRequest(w, *fe)
		return
	}
	var body cameraRequest
	if err := decodeJSON(r, &body); err != nil {
		s.fail(w, r, err)
		return
	}
	req := service.UpdateCamera{ID: id, Name: body.Name, Location: body.Location}
	if _, ok := send[struct{}](s, w, r, req); ok {
		noContent(w)
	}
}

func (s *Server) deleteCamera(w http.ResponseWriter, r *http.Request) {
	id, fe := pathID(r)
	if fe != nil {
		badRequest(w, *fe)
		return
	}
	if _, ok := send[struct{}](s, w, r, service.DeleteCamera{ID: id}); ok {
		noContent(w)
	}
}
