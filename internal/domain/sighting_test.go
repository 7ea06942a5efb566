package domain_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/sighting-registry/internal/domain"
)

func TestNewSighting_Valid(t *testing.T) {
	cam, moto := uuid.New(), uuid.New()
	at := time.Date(2024, 1, 1, 2, 0, 0, 0, time.FixedZone("CET", 3600))

	s, err := domain.NewSighting(cam, moto, "images/sightings/a.jpg", at, " seen twice ")

	require.NoError(t, err)
	assert.Equal(t, cam, s.CameraID)
	assert.Equal(t, moto, s.MotorcycleID)
	assert.Equal(t, time.UTC, s.SightingTime.Location())
	assert.True(t, s.SightingTime.Equal(at))
	assert.Equal(t, "seen twice", s.Notes)
}

func TestNewSighting_MissingParts(t *testing.T) {
	at := time.Now()
	tests := map[string]func() error{
		"camera": func() error {
			_, err := domain.NewSighting(uuid.Nil, uuid.New(), "p.jpg", at, "")
			return err
		},
		"motorcycle": func() error {
			_, err := domain.NewSighting(uuid.New(), uuid.Nil, "p.jpg", at, "")
			return err
		},
		"image": func() error {
			_, err := domain.NewSighting(uuid.New(), uuid.New(), "", at, "")
			return err
		},
		"time": func() error {
			_, err := domain.NewSighting(uuid.New(), uuid.New(), "p.jpg", time.Time{}, "")
			return err
		},
	}
	for name, fn := range tests {
		t.Run(name, func(t *testing.T) {
			assert.ErrorIs(t, fn(), domain.ErrValidation)
		})
	}
}

func TestSighting_Update_KeepsMotorcycle(t *testing.T) {
	moto := uuid.New()
	s, err := domain.NewSighting(uuid.New(), moto, "p.jpg", time.Now(), "")
	require.NoError(t, err)

	newCam := uuid.New()
	require.NoError(t, s.Update(newCam, time.Now(), "moved"))

	assert.Equal(t, newCam, s.CameraID)
	assert.Equal(t, moto, s.MotorcycleID)
}

func TestSighting_ReplaceImage_Empty(t *testing.T) {
	s, err := domain.NewSighting(uuid.New(), uuid.New(), "p.jpg", time.Now(), "")
	require.NoError(t, err)

	err = s.ReplaceImage(" ")

	assert.ErrorIs(t, err, domain.ErrValidation)
	assert.Equal(t, "p.jpg", s.ImagePath)
}

func TestValidationError_IsErrValidation(t *testing.T) {
	err := &domain.ValidationError{Fields: []domain.FieldError{{Field: "name", Message: "name is required"}}}

	assert.ErrorIs(t, err, domain.ErrValidation)
	assert.Equal(t, "validation error: name is required", err.Error())
}
