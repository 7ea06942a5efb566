package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/pkordes/sighting-registry/internal/domain"
	"github.com/pkordes/sighting-registry/internal/repo"
)

// BrandService implements the Brand commands and queries.
type BrandService struct {
	store repo.Store
}

func NewBrandService(store repo.Store) *BrandService {
	return &BrandService{store: store}
}

// Create stores a new brand. Returns domain.ErrConflict if another brand
// already uses the name (case-insensitive).
func (s *BrandService) Create(ctx context.Context, req CreateBrand) (uuid.UUID, error) {
	b, err := domain.NewBrand(req.Name)
	if err != nil {
		return uuid.Nil, fmt.Errorf("service.BrandService.Create: %w", err)
	}
	_, err = repo.InTx(ctx, s.store, func(tx repo.Tx) error {
		if err := ensureNameFree(ctx, tx, b.Name, uuid.Nil); err != nil {
			return err
		}
		return tx.Brands().Insert(ctx, &b)
	})
	if err != nil {
		return uuid.Nil, fmt.Errorf("service.BrandService.Create: %w", err)
	}
	return b.ID, nil
}

// Update renames a brand. Renaming to the brand's own name succeeds.
func (s *BrandService) Update(ctx context.Context, req UpdateBrand) (struct{}, error) {
	_, err := repo.InTx(ctx, s.store, func(tx repo.Tx) error {
		b, err := tx.Brands().GetByID(ctx, req.ID)
		if err != nil {
			return missing(err, "brand", req.ID)
		}
		if err := b.Rename(req.Name); err != nil {
			return err
		}
		if err := ensureNameFree(ctx, tx, b.Name, b.ID); err != nil {
			return err
		}
		return tx.Brands().Update(ctx, &b)
	})
	if err != nil {
		return struct{}{}, fmt.Errorf("service.BrandService.Update: %w", err)
	}
	return struct{}{}, nil
}

// Delete soft-deletes a brand. A brand that still has motorcycles cannot be
// deleted and yields domain.ErrConflict.
func (s *BrandService) Delete(ctx context.Context, req DeleteBrand) (struct{}, error) {
	_, err := repo.InTx(ctx, s.store, func(tx repo.Tx) error {
		b, err := tx.Brands().GetByID(ctx, req.ID)
		if err != nil {
			return missing(err, "brand", req.ID)
		}
		inUse, err := tx.Motorcycles().ExistsForBrand(ctx, b.ID)
		if err != nil {
			return err
		}
		if inUse {
			return fmt.Errorf("%w: brand %q still has motorcycles", domain.ErrConflict, b.Name)
		}
		b.MarkDeleted()
		return tx.Brands().Update(ctx, &b)
	})
	if err != nil {
		return struct{}{}, fmt.Errorf("service.BrandService.Delete: %w", err)
	}
	return struct{}{}, nil
}

func (s *BrandService) Get(ctx context.Context, req GetBrand) (domain.Brand, error) {
	b, err := s.store.Brands().GetByID(ctx, req.ID)
	if err != nil {
		return domain.Brand{}, fmt.Errorf("service.BrandService.Get: %w", missing(err, "brand", req.ID))
	}
	return b, nil
}

// List returns every brand ordered by name. Always non-nil.
func (s *BrandService) List(ctx context.Context, _ ListBrands) ([]domain.Brand, error) {
	brands, err := s.store.Brands().List(ctx)
	if err != nil {
		return nil, fmt.Errorf("service.BrandService.List: %w", err)
	}
	return nonNil(brands), nil
}

func ensureNameFree(ctx context.Context, tx repo.Tx, name string, self uuid.UUID) error {
	taken, err := tx.Brands().NameTaken(ctx, name, self)
	if err != nil {
		return err
	}
	if taken {
		return fmt.Errorf("%w: brand %q already exists", domain.ErrConflict, name)
	}
	return nil
}
