package repo

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/pkordes/sighting-registry/internal/domain"
)

// BrandRepo defines the persistence operations for Brands.
// Every read excludes soft-deleted rows.
type BrandRepo interface {
	// Insert stores a new brand and stamps its CreatedAt.
	// Returns domain.ErrConflict if the name is already taken.
	Insert(ctx context.Context, b *domain.Brand) error

	// Update writes the mutable fields (including the deleted flag) and
	// stamps LastModifiedAt. Returns domain.ErrNotFound if the brand is
	// absent or already deleted.
	Update(ctx context.Context, b *domain.Brand) error

	GetByID(ctx context.Context, id uuid.UUID) (domain.Brand, error)

	// List returns all brands ordered by name.
	List(ctx context.Context) ([]domain.Brand, error)

	// NameTaken reports whether another brand (not exclude) already uses name,
	// compared case-insensitively.
	NameTaken(ctx context.Context, name string, exclude uuid.UUID) (bool, error)
}

type pgBrandRepo struct {
	db  db
	now func() time.Time
}

const brandCols = `id, created_at, last_modified_at, is_deleted, name`

func (r *pgBrandRepo) Insert(ctx context.Context, b *domain.Brand) error {
	const q = `
		INSERT INTO brands (id, name, created_at)
		VALUES (@id, @name, @created_at)`

	createdAt := r.now()
	_, err := r.db.Exec(ctx, q, pgx.NamedArgs{
		"id":         b.ID,
		"name":       b.Name,
		"created_at": createdAt,
	})
	if err != nil {
		return fmt.Errorf("repo.BrandRepo.Insert: %w", uniqueViolation(err))
	}
	b.CreatedAt = createdAt
	return nil
}

func (r *pgBrandRepo) Update(ctx context.Context, b *domain.Brand) error {
	const q = `
		UPDATE brands
		SET name             = @name,
		    is_deleted       = @is_deleted,
		    last_modified_at = @now
		WHERE id = @id AND NOT is_deleted`

	now := r.now()
	tag, err := r.db.Exec(ctx, q, pgx.NamedArgs{
		"id":         b.ID,
		"name":       b.Name,
		"is_deleted": b.IsDeleted,
		"now":        now,
	})
	if err != nil {
		return fmt.Errorf("repo.BrandRepo.Update: %w", uniqueViolation(err))
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("repo.BrandRepo.Update: %w", domain.ErrNotFound)
	}
	b.LastModifiedAt = &now
	return nil
}

func (r *pgBrandRepo) GetByID(ctx context.Context, id uuid.UUID) (domain.Brand, error) {
	q := `SELECT ` + brandCols + ` FROM brands WHERE id = @id AND NOT is_deleted`

	b, err := scanBrand(r.db.QueryRow(ctx, q, pgx.NamedArgs{"id": id}))
	if err != nil {
		return domain.Brand{}, fmt.Errorf("repo.BrandRepo.GetByID: %w", err)
	}
	return b, nil
}

func (r *pgBrandRepo) List(ctx context.Context) ([]domain.Brand, error) {
	q := `SELECT ` + brandCols + ` FROM brands WHERE NOT is_deleted ORDER BY name, id`

	rows, err := r.db.Query(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("repo.BrandRepo.List: %w", err)
	}
	defer rows.Close()

	brands := []domain.Brand{}
	for rows.Next() {
		b, err := scanBrand(rows)
		if err != nil {
			return nil, fmt.Errorf("repo.BrandRepo.List: scan: %w", err)
		}
		brands = append(brands, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repo.BrandRepo.List: rows: %w", err)
	}
	return brands, nil
}

func (r *pgBrandRepo) NameTaken(ctx context.Context, name string, exclude uuid.UUID) (bool, error) {
	const q = `
		SELECT EXISTS (
			SELECT 1 FROM brands
			WHERE lower(name) = lower(@name) AND id <> @exclude AND NOT is_deleted
		)`

	var taken bool
	if err := r.db.QueryRow(ctx, q, pgx.NamedArgs{"name": name, "exclude": exclude}).Scan(&taken); err != nil {
		return false, fmt.Errorf("repo.BrandRepo.NameTaken: %w", err)
	}
	return taken, nil
}

func scanBrand(s scanner) (domain.Brand, error) {
	var (
		a    auditCols
		name string
	)
	if err := s.Scan(append(a.dest(), &name)...); err != nil {
		return domain.Brand{}, noRows(err)
	}
	return domain.Brand{Auditable: a.auditable(), Name: name}, nil
}
