package domain

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// MotorcycleDetails holds every mutable motorcycle field.
// Empty strings and nil pointers mean "not set".
type MotorcycleDetails struct {
	BrandID      uuid.UUID
	LicensePlate string
	Model        string
	Year         *int
	Displacement *Displacement
	Color        string
}

// Motorcycle belongs to exactly one Brand and owns zero or more sightings.
type Motorcycle struct {
	Auditable
	MotorcycleDetails
}

// NewMotorcycle builds a Motorcycle with a fresh ID.
func NewMotorcycle(details MotorcycleDetails) (Motorcycle, error) {
	m := Motorcycle{Auditable: newAuditable()}
	if err := m.Update(details); err != nil {
		return Motorcycle{}, err
	}
	return m, nil
}

// Update replaces all mutable fields at once, enforcing the brand and
// displacement invariants.
func (m *Motorcycle) Update(details MotorcycleDetails) error {
	if details.BrandID == uuid.Nil {
		return fmt.Errorf("%w: brand id is required", ErrValidation)
	}
	if details.Displacement != nil && !details.Displacement.IsValid() {
		return fmt.Errorf("%w: unknown engine displacement %d", ErrValidation, int(*details.Displacement))
	}
	details.LicensePlate = strings.TrimSpace(details.LicensePlate)
	details.Model = strings.TrimSpace(details.Model)
	details.Color = strings.TrimSpace(details.Color)
	m.MotorcycleDetails = details
	return nil
}

// MotorcycleView is the read-side projection of a motorcycle with its
// brand name flattened in.
type MotorcycleView struct {
	Motorcycle
	BrandName string
}

// MotorcycleFilter narrows a motorcycle listing. Zero values do not filter.
type MotorcycleFilter struct {
	BrandID    *uuid.UUID
	Model      string
	SearchTerm string
}
