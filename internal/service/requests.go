package service

import (
	"time"

	"github.com/google/uuid"

	"github.com/pkordes/sighting-registry/internal/domain"
	"github.com/pkordes/sighting-registry/internal/imagestore"
)

// Request types. Each one is registered with the dispatcher against exactly
// one handler. The json tags name fields in validation messages and match
// the names clients send.

// ---- Brands ----------------------------------------------------------------

type CreateBrand struct {
	Name string `json:"name" validate:"notblank,max=100"`
}

type UpdateBrand struct {
	ID   uuid.UUID `json:"id" validate:"required"`
	Name string    `json:"name" validate:"notblank,max=100"`
}

type DeleteBrand struct {
	ID uuid.UUID `json:"id" validate:"required"`
}

type GetBrand struct {
	ID uuid.UUID `json:"id" validate:"required"`
}

type ListBrands struct{}

// ---- Cameras ---------------------------------------------------------------

type AddressInput struct {
	Street string `json:"street" validate:"notblank,max=500"`
	City   string `json:"city" validate:"notblank,max=100"`
}

type CreateCamera struct {
	Name     string        `json:"name" validate:"notblank,max=200"`
	Location *AddressInput `json:"location"`
}

type UpdateCamera struct {
	ID       uuid.UUID     `json:"id" validate:"required"`
	Name     string        `json:"name" validate:"notblank,max=200"`
	Location *AddressInput `json:"location"`
}

type DeleteCamera struct {
	ID uuid.UUID `json:"id" validate:"required"`
}

type GetCamera struct {
	ID uuid.UUID `json:"id" validate:"required"`
}

type ListCameras struct{}

func (a *AddressInput) address() *domain.Address {
	if a == nil {
		return nil
	}
	return &domain.Address{Street: a.Street, City: a.City}
}

// ---- Motorcycles -----------------------------------------------------------

type CreateMotorcycle struct {
	BrandID      uuid.UUID            `json:"brand_id" validate:"required"`
	LicensePlate string               `json:"license_plate" validate:"max=20"`
	Model        string               `json:"model" validate:"max=100"`
	Year         *int                 `json:"year" validate:"omitempty,gte=1900,maxyear"`
	Displacement *domain.Displacement `json:"displacement" validate:"omitempty,displacement"`
	Color        string               `json:"color" validate:"max=50"`
}

// UpdateMotorcycle replaces every mutable field. BodyID is the id echoed in
// the request body, if any; it must match ID.
type UpdateMotorcycle struct {
	ID           uuid.UUID            `json:"id" validate:"required"`
	BodyID       *uuid.UUID           `json:"-"`
	BrandID      uuid.UUID            `json:"brand_id" validate:"required"`
	LicensePlate string               `json:"license_plate" validate:"max=20"`
	Model        string               `json:"model" validate:"max=100"`
	Year         *int                 `json:"year" validate:"omitempty,gte=1900,maxyear"`
	Displacement *domain.Displacement `json:"displacement" validate:"omitempty,displacement"`
	Color        string               `json:"color" validate:"max=50"`
}

type DeleteMotorcycle struct {
	ID uuid.UUID `json:"id" validate:"required"`
}

type GetMotorcycle struct {
	ID uuid.UUID `json:"id" validate:"required"`
}

type GetMotorcycleByLicensePlate struct {
	LicensePlate string `json:"licensePlate" validate:"notblank,max=20"`
}

type ListMotorcycles struct {
	BrandID    *uuid.UUID `json:"brandId"`
	Model      string     `json:"model" validate:"max=100"`
	SearchTerm string     `json:"searchTerm" validate:"max=100"`
	Page       *int       `json:"page"`
	PageSize   *int       `json:"pageSize"`
}

type ListMotorcycleSightings struct {
	MotorcycleID uuid.UUID `json:"id" validate:"required"`
}

func (r CreateMotorcycle) details() domain.MotorcycleDetails {
	return domain.MotorcycleDetails{
		BrandID:      r.BrandID,
		LicensePlate: r.LicensePlate,
		Model:        r.Model,
		Year:         r.Year,
		Displacement: r.Displacement,
		Color:        r.Color,
	}
}

func (r UpdateMotorcycle) details() domain.MotorcycleDetails {
	return domain.MotorcycleDetails{
		BrandID:      r.BrandID,
		LicensePlate: r.LicensePlate,
		Model:        r.Model,
		Year:         r.Year,
		Displacement: r.Displacement,
		Color:        r.Color,
	}
}

// ---- Sightings -------------------------------------------------------------

type CreateSighting struct {
	CameraID     uuid.UUID          `json:"cameraId" validate:"required"`
	MotorcycleID uuid.UUID          `json:"motorcycleId" validate:"required"`
	Image        *imagestore.Upload `json:"imageFile" validate:"-"`
	SightingTime time.Time          `json:"sightingTimeUtc" validate:"required"`
	Notes        string             `json:"notes" validate:"max=1000"`

	// Undecoded lists form fields the transport could not parse. They are
	// reported alongside the rule failures of the fields that did parse.
	Undecoded []domain.FieldError `json:"-" validate:"-"`
}

// UpdateSighting has no motorcycle field: a sighting's motorcycle is fixed.
type UpdateSighting struct {
	ID           uuid.UUID           `json:"id" validate:"required"`
	CameraID     uuid.UUID           `json:"cameraId" validate:"required"`
	SightingTime time.Time           `json:"sightingTimeUtc" validate:"required"`
	Notes        string              `json:"notes" validate:"max=1000"`
	NewImage     *imagestore.Upload  `json:"newImageFile" validate:"-"`
	Undecoded    []domain.FieldError `json:"-" validate:"-"`
}

func (r CreateSighting) undecoded() []domain.FieldError { return r.Undecoded }
func (r UpdateSighting) undecoded() []domain.FieldError { return r.Undecoded }

type DeleteSighting struct {
	ID uuid.UUID `json:"id" validate:"required"`
}

type GetSighting struct {
	ID uuid.UUID `json:"id" validate:"required"`
}

type ListRecentSightings struct {
	Limit int `json:"limit" validate:"gte=1,lte=100"`
}

// ---- Reports ---------------------------------------------------------------

// ReportRange is an optional inclusive range of UTC dates.
type ReportRange struct {
	StartDate *time.Time `json:"startDate"`
	EndDate   *time.Time `json:"endDate"`
}

func (r ReportRange) dateRange() (domain.DateRange, error) {
	return domain.NewDateRange(r.StartDate, r.EndDate)
}

type SightingsByCamera struct{ ReportRange }

type SightingsByBrand struct{ ReportRange }

type SightingsByDisplacement struct{ ReportRange }
