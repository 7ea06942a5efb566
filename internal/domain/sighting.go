package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Sighting records one motorcycle passing one camera, with a photograph.
// The motorcycle association is fixed at creation.
type Sighting struct {
	Auditable
	CameraID     uuid.UUID
	MotorcycleID uuid.UUID
	ImagePath    string
	SightingTime time.Time
	Notes        string
}

// NewSighting builds a Sighting from an already stored image.
func NewSighting(cameraID, motorcycleID uuid.UUID, imagePath string, at time.Time, notes string) (Sighting, error) {
	if motorcycleID == uuid.Nil {
		return Sighting{}, fmt.Errorf("%w: motorcycle id is required", ErrValidation)
	}
	if strings.TrimSpace(imagePath) == "" {
		return Sighting{}, fmt.Errorf("%w: image path is required", ErrValidation)
	}
	s := Sighting{Auditable: newAuditable(), MotorcycleID: motorcycleID, ImagePath: imagePath}
	if err := s.Update(cameraID, at, notes); err != nil {
		return Sighting{}, err
	}
	return s, nil
}

// Update changes the camera, time and notes. The time is normalised to UTC.
func (s *Sighting) Update(cameraID uuid.UUID, at time.Time, notes string) error {
	if cameraID == uuid.Nil {
		return fmt.Errorf("%w: camera id is required", ErrValidation)
	}
	if at.IsZero() {
		return fmt.Errorf("%w: sighting time is required", ErrValidation)
	}
	s.CameraID = cameraID
	s.SightingTime = at.UTC()
	s.Notes = strings.TrimSpace(notes)
	return nil
}

// ReplaceImage points the sighting at a newly stored image.
// The caller owns cleanup of the previous file.
func (s *Sighting) ReplaceImage(path string) error {
	if strings.TrimSpace(path) == "" {
		return fmt.Errorf("%w: image path is required", ErrValidation)
	}
	s.ImagePath = path
	return nil
}

// SightingView is the flattened read-side record of a sighting, built from
// the sighting, its camera, its motorcycle and the motorcycle's brand.
// ImagePath is still the stored relative path; URL resolution happens at the
// HTTP boundary.
type SightingView struct {
	ID           uuid.UUID
	SightingTime time.Time
	ImagePath    string
	Notes        string

	CameraID   uuid.UUID
	CameraName string

	MotorcycleID           uuid.UUID
	MotorcycleLicensePlate string
	MotorcycleModel        string
	MotorcycleBrandName    string
	MotorcycleYear         *int
	MotorcycleColor        string
	MotorcycleDisplacement *Displacement
}
