package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/pkordes/sighting-registry/internal/domain"
	"github.com/pkordes/sighting-registry/internal/imagestore"
	"github.com/pkordes/sighting-registry/internal/repo"
)

// SightingsFolder is the image store folder for sighting photographs.
const SightingsFolder = "sightings"

// SightingService implements the Sighting commands and queries. It owns the
// photograph lifecycle: the image is stored before the record is written, and
// a replaced image is removed on a best-effort basis.
type SightingService struct {
	store  repo.Store
	images imagestore.Store
	log    *slog.Logger
}

func NewSightingService(store repo.Store, images imagestore.Store, log *slog.Logger) *SightingService {
	return &SightingService{store: store, images: images, log: log}
}

// Create stores the photograph and records the sighting. The camera and the
// motorcycle must both exist. A rejected image leaves nothing persisted.
func (s *SightingService) Create(ctx context.Context, req CreateSighting) (uuid.UUID, error) {
	var id uuid.UUID
	_, err := repo.InTx(ctx, s.store, func(tx repo.Tx) error {
		if _, err := tx.Cameras().GetByID(ctx, req.CameraID); err != nil {
			return missing(err, "camera", req.CameraID)
		}
		if _, err := tx.Motorcycles().GetByID(ctx, req.MotorcycleID); err != nil {
			return missing(err, "motorcycle", req.MotorcycleID)
		}
		if req.Image == nil {
			return fmt.Errorf("%w: image file is required", domain.ErrValidation)
		}
		path, err := s.images.Save(ctx, *req.Image, SightingsFolder)
		if err != nil {
			return err
		}
		sg, err := domain.NewSighting(req.CameraID, req.MotorcycleID, path, req.SightingTime, req.Notes)
		if err != nil {
			return err
		}
		if err := tx.Sightings().Insert(ctx, &sg); err != nil {
			return err
		}
		id = sg.ID
		return nil
	})
	if err != nil {
		return uuid.Nil, fmt.Errorf("service.SightingService.Create: %w", err)
	}
	return id, nil
}

// Update changes camera, time and notes, and optionally swaps the photograph.
// The new image is stored first; the old one is then deleted and a failed
// delete does not fail the update.
func (s *SightingService) Update(ctx context.Context, req UpdateSighting) (struct{}, error) {
	_, err := repo.InTx(ctx, s.store, func(tx repo.Tx) error {
		sg, err := tx.Sightings().GetByID(ctx, req.ID)
		if err != nil {
			return missing(err, "sighting", req.ID)
		}
		if _, err := tx.Cameras().GetByID(ctx, req.CameraID); err != nil {
			return missing(err, "camera", req.CameraID)
		}

		newPath := ""
		if req.NewImage != nil {
			if newPath, err = s.images.Save(ctx, *req.NewImage, SightingsFolder); err != nil {
				return err
			}
			if sg.ImagePath != "" && !s.images.Delete(ctx, sg.ImagePath) {
				s.log.WarnContext(ctx, "previous sighting image not removed",
					slog.String("sighting_id", sg.ID.String()),
					slog.String("path", sg.ImagePath),
				)
			}
		}

		if err := sg.Update(req.CameraID, req.SightingTime, req.Notes); err != nil {
			return err
		}
		if newPath != "" {
			if err := sg.ReplaceImage(newPath); err != nil {
				return err
			}
		}
		return tx.Sightings().Update(ctx, &sg)
	})
	if err != nil {
		return struct{}{}, fmt.Errorf("service.SightingService.Update: %w", err)
	}
	return struct{}{}, nil
}

// Delete soft-deletes a sighting. The photograph is kept.
func (s *SightingService) Delete(ctx context.Context, req DeleteSighting) (struct{}, error) {
	_, err := repo.InTx(ctx, s.store, func(tx repo.Tx) error {
		sg, err := tx.Sightings().GetByID(ctx, req.ID)
		if err != nil {
			return missing(err, "sighting", req.ID)
		}
		sg.MarkDeleted()
		return tx.Sightings().Update(ctx, &sg)
	})
	if err != nil {
		return struct{}{}, fmt.Errorf("service.SightingService.Delete: %w", err)
	}
	return struct{}{}, nil
}

func (s *SightingService) Get(ctx context.Context, req GetSighting) (domain.SightingView, error) {
	v, err := s.store.Sightings().GetView(ctx, req.ID)
	if err != nil {
		return domain.SightingView{}, fmt.Errorf("service.SightingService.Get: %w", missing(err, "sighting", req.ID))
	}
	return v, nil
}

// Recent returns up to req.Limit visible sightings, newest first.
func (s *SightingService) Recent(ctx context.Context, req ListRecentSightings) ([]domain.SightingView, error) {
	views, err := s.store.Sightings().ListRecent(ctx, req.Limit)
	if err != nil {
		return nil, fmt.Errorf("service.SightingService.Recent: %w", err)
	}
	return nonNil(views), nil
}
