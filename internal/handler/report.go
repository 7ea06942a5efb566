package handler

import (
	"net/http"

	"github.com/pkordes/sighting-registry/internal/domain"
	"github.com/pkordes/sighting-registry/internal/service"
)

// reportRange binds ?startDate=&endDate= (YYYY-MM-DD, inclusive, UTC).
func reportRange(r *http.Request) (service.ReportRange, []domain.FieldError) {
	start, fe1 := queryDate(r, "startDate")
	end, fe2 := queryDate(r, "endDate")
	return service.ReportRange{StartDate: start, EndDate: end}, collect(fe1, fe2)
}

// reportByCamera handles GET /sightings/reports/by-camera.
func (s *Server) reportByCamera(w http.ResponseWriter, r *http.Request) {
	rng, fields := reportRange(r)
	if len(fields) > 0 {
		badRequest(w, fields...)
		return
	}
	rows, ok := send[[]domain.CameraCount](s, w, r, service.SightingsByCamera{ReportRange: rng})
	if !ok {
		return
	}
	out := make([]cameraCountResponse, len(rows))
	for i, row := range rows {
		out[i] = cameraCountResponse{CameraName: row.CameraName, Count: row.Count}
	}
	writeJSON(w, http.StatusOK, out)
}

// reportByBrand handles GET /sightings/reports/by-brand.
func (s *Server) reportByBrand(w http.ResponseWriter, r *http.Request) {
	rng, fields := reportRange(r)
	if len(fields) > 0 {
		badRequest(w, fields...)
		return
	}
	rows, ok := send[[]domain.BrandCount](s, w, r, service.SightingsByBrand{ReportRange: rng})
	if !ok {
		return
	}
	out := make([]brandCountResponse, len(rows))
	for i, row := range rows {
		out[i] = brandCountResponse{BrandName: row.BrandName, Count: row.Count}
	}
	writeJSON(w, http.StatusOK, out)
}

// reportByDisplacement handles GET /sightings/reports/by-engine-displacement.
func (s *Server) reportByDisplacement(w http.ResponseWriter, r *http.Request) {
	rng, fields := reportRange(r)
	if len(fields) > 0 {
		badRequest(w, fields...)
		return
	}
	rows, ok := send[[]domain.DisplacementCount](s, w, r, service.SightingsByDisplacement{ReportRange: rng})
	if !ok {
		return
	}
	out := make([]displacementCountResponse, len(rows))
	for i, row := range rows {
		out[i] = displacementCountResponse{
			Displacement: int(row.Displacement),
			Count:        row.Count,
			DisplayLabel: row.DisplayLabel,
		}
	}
	writeJSON(w, http.StatusOK, out)
}
