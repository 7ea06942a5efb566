package domain

import (
	"fmt"
	"strings"
)

// Address is the optional physical location of a camera.
type Address struct {
	Street string
	City   string
}

// Camera is a fixed capture point. It owns zero or more sightings.
type Camera struct {
	Auditable
	Name     string
	Location *Address
}

// NewCamera builds a Camera with a fresh ID.
func NewCamera(name string, location *Address) (Camera, error) {
	c := Camera{Auditable: newAuditable()}
	if err := c.UpdateDetails(name, location); err != nil {
		return Camera{}, err
	}
	return c, nil
}

// UpdateDetails replaces name and location. A location is kept only when
// both street and city are non-blank; otherwise it is cleared.
func (c *Camera) UpdateDetails(name string, location *Address) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return fmt.Errorf("%w: camera name is required", ErrValidation)
	}
	c.Name = name
	c.Location = nil
	if location != nil {
		street := strings.TrimSpace(location.Street)
		city := strings.TrimSpace(location.City)
		if street != "" && city != "" {
			c.Location = &Address{Street: street, City: city}
		}
	}
	return nil
}
