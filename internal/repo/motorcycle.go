package repo

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/pkordes/sighting-registry/internal/domain"
)

// MotorcycleRepo defines the persistence operations for Motorcycles.
// Every read excludes soft-deleted rows.
type MotorcycleRepo interface {
	Insert(ctx context.Context, m *domain.Motorcycle) error
	// Update returns domain.ErrNotFound if the motorcycle is absent or already deleted.
	Update(ctx context.Context, m *domain.Motorcycle) error
	GetByID(ctx context.Context, id uuid.UUID) (domain.Motorcycle, error)

	// GetView returns the motorcycle with its brand name.
	GetView(ctx context.Context, id uuid.UUID) (domain.MotorcycleView, error)

	// GetViewByLicensePlate matches the plate case-insensitively.
	GetViewByLicensePlate(ctx context.Context, plate string) (domain.MotorcycleView, error)

	// List returns one page of motorcycles ordered by creation time, plus the
	// total number of matches.
	List(ctx context.Context, f domain.MotorcycleFilter, p domain.PaginationParams) ([]domain.MotorcycleView, int, error)

	// ExistsForBrand reports whether any non-deleted motorcycle references the brand.
	ExistsForBrand(ctx context.Context, brandID uuid.UUID) (bool, error)
}

type pgMotorcycleRepo struct {
	db  db
	now func() time.Time
}

const motorcycleCols = `m.id, m.created_at, m.last_modified_at, m.is_deleted,
	m.brand_id, m.license_plate, m.model, m.year, m.displacement, m.color`

const motorcycleViewFrom = `
	FROM motorcycles m
	JOIN brands b ON b.id = m.brand_id
	WHERE NOT m.is_deleted AND NOT b.is_deleted`

// motorcycleFilterSQL is appended to motorcycleViewFrom. Empty parameters
// disable their condition.
const motorcycleFilterSQL = `
	AND (@brand_id::uuid IS NULL OR m.brand_id = @brand_id)
	AND (@model = '' OR strpos(lower(coalesce(m.model, '')), lower(@model)) > 0)
	AND (@term = '' OR
	     strpos(lower(coalesce(m.license_plate, '')), lower(@term)) > 0 OR
	     strpos(lower(coalesce(m.model, '')), lower(@term)) > 0 OR
	     strpos(lower(b.name), lower(@term)) > 0 OR
	     strpos(lower(coalesce(m.color, '')), lower(@term)) > 0)`

func (r *pgMotorcycleRepo) Insert(ctx context.Context, m *domain.Motorcycle) error {
	const q = `
		INSERT INTO motorcycles (id, brand_id, license_plate, model, year, displacement, color, created_at)
		VALUES (@id, @brand_id, @license_plate, @model, @year, @displacement, @color, @created_at)`

	createdAt := r.now()
	args := motorcycleArgs(m)
	args["created_at"] = createdAt
	if _, err := r.db.Exec(ctx, q, args); err != nil {
		return fmt.Errorf("repo.MotorcycleRepo.Insert: %w", err)
	}
	m.CreatedAt = createdAt
	return nil
}

func (r *pgMotorcycleRepo) Update(ctx context.Context, m *domain.Motorcycle) error {
	const q = `
		UPDATE motorcycles
		SET brand_id         = @brand_id,
		    license_plate    = @license_plate,
		    model            = @model,
		    year             = @year,
		    displacement     = @displacement,
		    color            = @color,
		    is_deleted       = @is_deleted,
		    last_modified_at = @now
		WHERE id = @id AND NOT is_deleted`

	now := r.now()
	args := motorcycleArgs(m)
	args["now"] = now
	tag, err := r.db.Exec(ctx, q, args)
	if err != nil {
		return fmt.Errorf("repo.MotorcycleRepo.Update: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("repo.MotorcycleRepo.Update: %w", domain.ErrNotFound)
	}
	m.LastModifiedAt = &now
	return nil
}

func (r *pgMotorcycleRepo) GetByID(ctx context.Context, id uuid.UUID) (domain.Motorcycle, error) {
	q := `SELECT ` + motorcycleCols + ` FROM motorcycles m WHERE m.id = @id AND NOT m.is_deleted`

	m, err := scanMotorcycle(r.db.QueryRow(ctx, q, pgx.NamedArgs{"id": id}))
	if err != nil {
		return domain.Motorcycle{}, fmt.Errorf("repo.MotorcycleRepo.GetByID: %w", err)
	}
	return m, nil
}

func (r *pgMotorcycleRepo) GetView(ctx context.Context, id uuid.UUID) (domain.MotorcycleView, error) {
	q := `SELECT ` + motorcycleCols + `, b.name` + motorcycleViewFrom + ` AND m.id = @id`

	v, err := scanMotorcycleView(r.db.QueryRow(ctx, q, pgx.NamedArgs{"id": id}))
	if err != nil {
		return domain.MotorcycleView{}, fmt.Errorf("repo.MotorcycleRepo.GetView: %w", err)
	}
	return v, nil
}

func (r *pgMotorcycleRepo) GetViewByLicensePlate(ctx context.Context, plate string) (domain.MotorcycleView, error) {
	q := `SELECT ` + motorcycleCols + `, b.name` + motorcycleViewFrom + `
		AND lower(m.license_plate) = lower(@plate)
		ORDER BY m.created_at
		LIMIT 1`

	v, err := scanMotorcycleView(r.db.QueryRow(ctx, q, pgx.NamedArgs{"plate": plate}))
	if err != nil {
		return domain.MotorcycleView{}, fmt.Errorf("repo.MotorcycleRepo.GetViewByLicensePlate: %w", err)
	}
	return v, nil
}

func (r *pgMotorcycleRepo) List(ctx context.Context, f domain.MotorcycleFilter, p domain.PaginationParams) ([]domain.MotorcycleView, int, error) {
	args := pgx.NamedArgs{
		"brand_id": pgtype.UUID{},
		"model":    f.Model,
		"term":     f.SearchTerm,
		"limit":    p.Limit,
		"offset":   p.Offset(),
	}
	if f.BrandID != nil {
		args["brand_id"] = pgtype.UUID{Bytes: *f.BrandID, Valid: true}
	}

	var total int
	countQ := `SELECT count(*)` + motorcycleViewFrom + motorcycleFilterSQL
	if err := r.db.QueryRow(ctx, countQ, args).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("repo.MotorcycleRepo.List: count: %w", err)
	}

	q := `SELECT ` + motorcycleCols + `, b.name` + motorcycleViewFrom + motorcycleFilterSQL + `
		ORDER BY m.created_at, m.id
		LIMIT @limit OFFSET @offset`

	rows, err := r.db.Query(ctx, q, args)
	if err != nil {
		return nil, 0, fmt.Errorf("repo.MotorcycleRepo.List: %w", err)
	}
	defer rows.Close()

	out := []domain.MotorcycleView{}
	for rows.Next() {
		v, err := scanMotorcycleView(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("repo.MotorcycleRepo.List: scan: %w", err)
		}
		out = append(out, v)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("repo.MotorcycleRepo.List: rows: %w", err)
	}
	return out, total, nil
}

func (r *pgMotorcycleRepo) ExistsForBrand(ctx context.Context, brandID uuid.UUID) (bool, error) {
	const q = `
		SELECT EXISTS (
			SELECT 1 FROM motorcycles WHERE brand_id = @brand_id AND NOT is_deleted
		)`

	var exists bool
	if err := r.db.QueryRow(ctx, q, pgx.NamedArgs{"brand_id": brandID}).Scan(&exists); err != nil {
		return false, fmt.Errorf("repo.MotorcycleRepo.ExistsForBrand: %w", err)
	}
	return exists, nil
}

func motorcycleArgs(m *domain.Motorcycle) pgx.NamedArgs {
	return pgx.NamedArgs{
		"id":            m.ID,
		"brand_id":      m.BrandID,
		"license_plate": nullText(m.LicensePlate),
		"model":         nullText(m.Model),
		"year":          nullInt(m.Year),
		"displacement":  nullDisplacement(m.Displacement),
		"color":         nullText(m.Color),
		"is_deleted":    m.IsDeleted,
	}
}

func fillMotorcycle(a auditCols, brandID pgtype.UUID, plate, model, color pgtype.Text, year, cc pgtype.Int4) domain.Motorcycle {
	return domain.Motorcycle{
		Auditable: a.auditable(),
		MotorcycleDetails: domain.MotorcycleDetails{
			BrandID:      brandID.Bytes,
			LicensePlate: plate.String,
			Model:        model.String,
			Year:         intPtr(year),
			Displacement: displacementPtr(cc),
			Color:        color.String,
		},
	}
}

func scanMotorcycle(s scanner) (domain.Motorcycle, error) {
	var (
		a                   auditCols
		brandID             pgtype.UUID
		plate, model, color pgtype.Text
		year, cc            pgtype.Int4
	)
	if err := s.Scan(append(a.dest(), &brandID, &plate, &model, &year, &cc, &color)...); err != nil {
		return domain.Motorcycle{}, noRows(err)
	}
	return fillMotorcycle(a, brandID, plate, model, color, year, cc), nil
}

func scanMotorcycleView(s scanner) (domain.MotorcycleView, error) {
	var (
		a                   auditCols
		brandID             pgtype.UUID
		plate, model, color pgtype.Text
		year, cc            pgtype.Int4
		brandName           string
	)
	if err := s.Scan(append(a.dest(), &brandID, &plate, &model, &year, &cc, &color, &brandName)...); err != nil {
		return domain.MotorcycleView{}, noRows(err)
	}
	return domain.MotorcycleView{
		Motorcycle: fillMotorcycle(a, brandID, plate, model, color, year, cc),
		BrandName:  brandName,
	}, nil
}
