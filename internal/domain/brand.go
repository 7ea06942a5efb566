package domain

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// BrandNameMaxLen is the longest accepted brand name, in characters.
const BrandNameMaxLen = 100

// Brand is a motorcycle manufacturer. Names are unique among non-deleted
// brands, compared case-insensitively.
type Brand struct {
	Auditable
	Name string
}

// NewBrand builds a Brand with a fresh ID. Blank or over-long names are rejected.
func NewBrand(name string) (Brand, error) {
	name, err := brandName(name)
	if err != nil {
		return Brand{}, err
	}
	return Brand{Auditable: newAuditable(), Name: name}, nil
}

// Rename replaces the brand's name, applying the same rules as NewBrand.
func (b *Brand) Rename(name string) error {
	name, err := brandName(name)
	if err != nil {
		return err
	}
	b.Name = name
	return nil
}

func brandName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", fmt.Errorf("%w: brand name is required", ErrValidation)
	}
	if utf8.RuneCountInString(name) > BrandNameMaxLen {
		return "", fmt.Errorf("%w: brand name must be at most %d characters", ErrValidation, BrandNameMaxLen)
	}
	return name, nil
}
