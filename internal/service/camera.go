package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/pkordes/sighting-registry/internal/domain"
	"github.com/pkordes/sighting-registry/internal/repo"
)

// CameraService implements the Camera commands and queries.
type CameraService struct {
	store repo.Store
}

func NewCameraService(store repo.Store) *CameraService {
	return &CameraService{store: store}
}

func (s *CameraService) Create(ctx context.Context, req CreateCamera) (uuid.UUID, error) {
	c, err := domain.NewCamera(req.Name, req.Location.address())
	if err != nil {
		return uuid.Nil, fmt.Errorf("service.CameraService.Create: %w", err)
	}
	_, err = repo.InTx(ctx, s.store, func(tx repo.Tx) error {
		return tx.Cameras().Insert(ctx, &c)
	})
	if err != nil {
		return uuid.Nil, fmt.Errorf("service.CameraService.Create: %w", err)
	}
	return c.ID, nil
}

// Update replaces the name and, when both parts are given, the location.
func (s *CameraService) Update(ctx context.Context, req UpdateCamera) (struct{}, error) {
	_, err := repo.InTx(ctx, s.store, func(tx repo.Tx) error {
		c, err := tx.Cameras().GetByID(ctx, req.ID)
		if err != nil {
			return missing(err, "camera", req.ID)
		}
		if err := c.UpdateDetails(req.Name, req.Location.address()); err != nil {
			return err
		}
		return tx.Cameras().Update(ctx, &c)
	})
	if err != nil {
		return struct{}{}, fmt.Errorf("service.CameraService.Update: %w", err)
	}
	return struct{}{}, nil
}

// Delete soft-deletes a camera. Its sightings stay stored but drop out of
// every view and report.
func (s *CameraService) Delete(ctx context.Context, req DeleteCamera) (struct{}, error) {
	_, err := repo.InTx(ctx, s.store, func(tx repo.Tx) error {
		c, err := tx.Cameras().GetByID(ctx, req.ID)
		if err != nil {
			return missing(err, "camera", req.ID)
		}
		c.MarkDeleted()
		return tx.Cameras().Update(ctx, &c)
	})
	if err != nil {
		return struct{}{}, fmt.Errorf("service.CameraService.Delete: %w", err)
	}
	return struct{}{}, nil
}

func (s *CameraService) Get(ctx context.Context, req GetCamera) (domain.Camera, error) {
	c, err := s.store.Cameras().GetByID(ctx, req.ID)
	if err != nil {
		return domain.Camera{}, fmt.Errorf("service.CameraService.Get: %w", missing(err, "camera", req.ID))
	}
	return c, nil
}

func (s *CameraService) List(ctx context.Context, _ ListCameras) ([]domain.Camera, error) {
	cams, err := s.store.Cameras().List(ctx)
	if err != nil {
		return nil, fmt.Errorf("service.CameraService.List: %w", err)
	}
	return nonNil(cams), nil
}
