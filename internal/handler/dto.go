package handler

import (
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/pkordes/sighting-registry/internal/domain"
)

type createdResponse struct {
	ID uuid.UUID `json:"id"`
}

type brandResponse struct {
	ID             uuid.UUID  `json:"id"`
	Name           string     `json:"name"`
	CreatedAt      time.Time  `json:"created_at"`
	LastModifiedAt *time.Time `json:"last_modified_at,omitempty"`
}

type addressDTO struct {
	Street string `json:"street"`
	City   string `json:"city"`
}

type cameraResponse struct {
	ID             uuid.UUID   `json:"id"`
	Name           string      `json:"name"`
	Location       *addressDTO `json:"location"`
	CreatedAt      time.Time   `json:"created_at"`
	LastModifiedAt *time.Time  `json:"last_modified_at,omitempty"`
}

type motorcycleResponse struct {
	ID                uuid.UUID  `json:"id"`
	BrandID           uuid.UUID  `json:"brand_id"`
	BrandName         string     `json:"brand_name"`
	LicensePlate      string     `json:"license_plate,omitempty"`
	Model             string     `json:"model,omitempty"`
	Year              *int       `json:"year,omitempty"`
	Displacement      *int       `json:"displacement,omitempty"`
	DisplacementLabel string     `json:"displacement_label,omitempty"`
	Color             string     `json:"color,omitempty"`
	CreatedAt         time.Time  `json:"created_at"`
	LastModifiedAt    *time.Time `json:"last_modified_at,omitempty"`
}

type pageResponse[T any] struct {
	Items      []T `json:"items"`
	Page       int `json:"page"`
	PageSize   int `json:"page_size"`
	TotalCount int `json:"total_count"`
	TotalPages int `json:"total_pages"`
}

type sightingResponse struct {
	ID                     uuid.UUID `json:"id"`
	SightingTime           time.Time `json:"sighting_time"`
	ImageURL               string    `json:"image_url"`
	Notes                  string    `json:"notes,omitempty"`
	CameraID               uuid.UUID `json:"camera_id"`
	CameraName             string    `json:"camera_name"`
	MotorcycleID           uuid.UUID `json:"motorcycle_id"`
	MotorcycleLicensePlate string    `json:"motorcycle_license_plate,omitempty"`
	MotorcycleModel        string    `json:"motorcycle_model,omitempty"`
	MotorcycleBrandName    string    `json:"motorcycle_brand_name"`
	MotorcycleYear         *int      `json:"motorcycle_year,omitempty"`
	MotorcycleColor        string    `json:"motorcycle_color,omitempty"`
	MotorcycleDisplacement *int      `json:"motorcycle_displacement,omitempty"`
}

type cameraCountResponse struct {
	CameraName string `json:"camera_name"`
	Count      int    `json:"count"`
}

type brandCountResponse struct {
	BrandName string `json:"brand_name"`
	Count     int    `json:"count"`
}

type displacementCountResponse struct {
	Displacement int    `json:"displacement"`
	Count        int    `json:"count"`
	DisplayLabel string `json:"display_label"`
}

// --- mapping helpers --------------------------------------------------------

func toBrand(b domain.Brand) brandResponse {
	return brandResponse{ID: b.ID, Name: b.Name, CreatedAt: b.CreatedAt, LastModifiedAt: b.LastModifiedAt}
}

func toCamera(c domain.Camera) cameraResponse {
	resp := cameraResponse{ID: c.ID, Name: c.Name, CreatedAt: c.CreatedAt, LastModifiedAt: c.LastModifiedAt}
	if c.Location != nil {
		resp.Location = &addressDTO{Street: c.Location.Street, City: c.Location.City}
	}
	return resp
}

func toMotorcycle(v domain.MotorcycleView) motorcycleResponse {
	resp := motorcycleResponse{
		ID:             v.ID,
		BrandID:        v.BrandID,
		BrandName:      v.BrandName,
		LicensePlate:   v.LicensePlate,
		Model:          v.Model,
		Year:           v.Year,
		Color:          v.Color,
		CreatedAt:      v.CreatedAt,
		LastModifiedAt: v.LastModifiedAt,
	}
	if v.Displacement != nil {
		cc := int(*v.Displacement)
		resp.Displacement = &cc
		resp.DisplacementLabel = v.Displacement.Label()
	}
	return resp
}

func toMotorcyclePage(p domain.Page[domain.MotorcycleView]) pageResponse[motorcycleResponse] {
	items := make([]motorcycleResponse, len(p.Items))
	for i, v := range p.Items {
		items[i] = toMotorcycle(v)
	}
	pages := 0
	if p.Limit > 0 {
		pages = (p.Total + p.Limit - 1) / p.Limit
	}
	return pageResponse[motorcycleResponse]{
		Items: items, Page: p.Page, PageSize: p.Limit, TotalCount: p.Total, TotalPages: pages,
	}
}

// toSighting projects a view and resolves its image URL against the request.
func (s *Server) toSighting(r *http.Request, v domain.SightingView) sightingResponse {
	resp := sightingResponse{
		ID:                     v.ID,
		SightingTime:           v.SightingTime.UTC(),
		ImageURL:               s.urls.Resolve(r, v.ImagePath),
		Notes:                  v.Notes,
		CameraID:               v.CameraID,
		CameraName:             v.CameraName,
		MotorcycleID:           v.MotorcycleID,
		MotorcycleLicensePlate: v.MotorcycleLicensePlate,
		MotorcycleModel:        v.MotorcycleModel,
		MotorcycleBrandName:    v.MotorcycleBrandName,
		MotorcycleYear:         v.MotorcycleYear,
		MotorcycleColor:        v.MotorcycleColor,
	}
	if v.MotorcycleDisplacement != nil {
		cc := int(*v.MotorcycleDisplacement)
		resp.MotorcycleDisplacement = &cc
	}
	return resp
}

func (s *Server) toSightings(r *http.Request, views []domain.SightingView) []sightingResponse {
	out := make([]sightingResponse, len(views))
	for i, v := range views {
		out[i] = s.toSighting(r, v)
	}
	return out
}
