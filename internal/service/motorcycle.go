package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/pkordes/sighting-registry/internal/domain"
	"github.com/pkordes/sighting-registry/internal/repo"
)

// MotorcycleService implements the Motorcycle commands and queries.
type MotorcycleService struct {
	store repo.Store
}

func NewMotorcycleService(store repo.Store) *MotorcycleService {
	return &MotorcycleService{store: store}
}

// Create stores a new motorcycle. The brand must exist and not be deleted.
func (s *MotorcycleService) Create(ctx context.Context, req CreateMotorcycle) (uuid.UUID, error) {
	m, err := domain.NewMotorcycle(req.details())
	if err != nil {
		return uuid.Nil, fmt.Errorf("service.MotorcycleService.Create: %w", err)
	}
	_, err = repo.InTx(ctx, s.store, func(tx repo.Tx) error {
		if _, err := tx.Brands().GetByID(ctx, m.BrandID); err != nil {
			return missing(err, "brand", m.BrandID)
		}
		return tx.Motorcycles().Insert(ctx, &m)
	})
	if err != nil {
		return uuid.Nil, fmt.Errorf("service.MotorcycleService.Create: %w", err)
	}
	return m.ID, nil
}

// Update replaces every mutable field of a motorcycle.
func (s *MotorcycleService) Update(ctx context.Context, req UpdateMotorcycle) (struct{}, error) {
	_, err := repo.InTx(ctx, s.store, func(tx repo.Tx) error {
		m, err := tx.Motorcycles().GetByID(ctx, req.ID)
		if err != nil {
			return missing(err, "motorcycle", req.ID)
		}
		if req.BrandID != m.BrandID {
			if _, err := tx.Brands().GetByID(ctx, req.BrandID); err != nil {
				return missing(err, "brand", req.BrandID)
			}
		}
		if err := m.Update(req.details()); err != nil {
			return err
		}
		return tx.Motorcycles().Update(ctx, &m)
	})
	if err != nil {
		return struct{}{}, fmt.Errorf("service.MotorcycleService.Update: %w", err)
	}
	return struct{}{}, nil
}

// Delete soft-deletes a motorcycle. Its sightings are kept but hidden.
func (s *MotorcycleService) Delete(ctx context.Context, req DeleteMotorcycle) (struct{}, error) {
	_, err := repo.InTx(ctx, s.store, func(tx repo.Tx) error {
		m, err := tx.Motorcycles().GetByID(ctx, req.ID)
		if err != nil {
			return missing(err, "motorcycle", req.ID)
		}
		m.MarkDeleted()
		return tx.Motorcycles().Update(ctx, &m)
	})
	if err != nil {
		return struct{}{}, fmt.Errorf("service.MotorcycleService.Delete: %w", err)
	}
	return struct{}{}, nil
}

func (s *MotorcycleService) Get(ctx context.Context, req GetMotorcycle) (domain.MotorcycleView, error) {
	v, err := s.store.Motorcycles().GetView(ctx, req.ID)
	if err != nil {
		return domain.MotorcycleView{}, fmt.Errorf("service.MotorcycleService.Get: %w", missing(err, "motorcycle", req.ID))
	}
	return v, nil
}

func (s *MotorcycleService) GetByLicensePlate(ctx context.Context, req GetMotorcycleByLicensePlate) (domain.MotorcycleView, error) {
	plate := strings.TrimSpace(req.LicensePlate)
	v, err := s.store.Motorcycles().GetViewByLicensePlate(ctx, plate)
	if err != nil {
		return domain.MotorcycleView{}, fmt.Errorf("service.MotorcycleService.GetByLicensePlate: %w",
			notFoundAs(err, fmt.Sprintf("no motorcycle with license plate %q", plate)))
	}
	return v, nil
}

// List returns one page of motorcycles matching the filter.
func (s *MotorcycleService) List(ctx context.Context, req ListMotorcycles) (domain.Page[domain.MotorcycleView], error) {
	p := domain.NewPaginationParams(req.Page, req.PageSize)
	f := domain.MotorcycleFilter{
		BrandID:    req.BrandID,
		Model:      strings.TrimSpace(req.Model),
		SearchTerm: strings.TrimSpace(req.SearchTerm),
	}
	items, total, err := s.store.Motorcycles().List(ctx, f, p)
	if err != nil {
		return domain.Page[domain.MotorcycleView]{}, fmt.Errorf("service.MotorcycleService.List: %w", err)
	}
	return domain.Page[domain.MotorcycleView]{Items: nonNil(items), Page: p.Page, Limit: p.Limit, Total: total}, nil
}

// Sightings returns the visible sightings of one motorcycle, newest first.
func (s *MotorcycleService) Sightings(ctx context.Context, req ListMotorcycleSightings) ([]domain.SightingView, error) {
	if _, err := s.store.Motorcycles().GetByID(ctx, req.MotorcycleID); err != nil {
		return nil, fmt.Errorf("service.MotorcycleService.Sightings: %w", missing(err, "motorcycle", req.MotorcycleID))
	}
	views, err := s.store.Sightings().ListByMotorcycle(ctx, req.MotorcycleID)
	if err != nil {
		return nil, fmt.Errorf("service.MotorcycleService.Sightings: %w", err)
	}
	return nonNil(views), nil
}
