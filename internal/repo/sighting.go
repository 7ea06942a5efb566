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

// SightingRepo defines the persistence operations for Sightings.
type SightingRepo interface {
	Insert(ctx context.Context, s *domain.Sighting) error

	// Update writes camera, time, notes, image path and the deleted flag.
	// Returns domain.ErrNotFound if the sighting is absent or already deleted.
	Update(ctx context.Context, s *domain.Sighting) error

	// GetByID loads the entity for mutation. Only the sighting's own deleted
	// flag is checked.
	GetByID(ctx context.Context, id uuid.UUID) (domain.Sighting, error)

	// GetView returns the flattened record of a visible sighting.
	GetView(ctx context.Context, id uuid.UUID) (domain.SightingView, error)

	// ListRecent returns up to limit visible sightings, newest first.
	ListRecent(ctx context.Context, limit int) ([]domain.SightingView, error)

	// ListByMotorcycle returns every visible sighting of a motorcycle, newest first.
	ListByMotorcycle(ctx context.Context, motorcycleID uuid.UUID) ([]domain.SightingView, error)
}

// visibleSightings joins a sighting to its camera, motorcycle and brand and
// keeps only rows where none of the four is soft-deleted. Every sighting read
// path and every report starts from it.
const visibleSightings = `
	FROM sightings s
	JOIN cameras c     ON c.id = s.camera_id
	JOIN motorcycles m ON m.id = s.motorcycle_id
	JOIN brands b      ON b.id = m.brand_id
	WHERE NOT s.is_deleted
	  AND NOT c.is_deleted
	  AND NOT m.is_deleted
	  AND NOT b.is_deleted`

const sightingViewSelect = `
	SELECT s.id, s.sighting_time, s.image_path, s.notes,
	       c.id, c.name,
	       m.id, m.license_plate, m.model, b.name, m.year, m.color, m.displacement` + visibleSightings

type pgSightingRepo struct {
	db  db
	now func() time.Time
}

func (r *pgSightingRepo) Insert(ctx context.Context, s *domain.Sighting) error {
	const q = `
		INSERT INTO sightings (id, camera_id, motorcycle_id, image_path, sighting_time, notes, created_at)
		VALUES (@id, @camera_id, @motorcycle_id, @image_path, @sighting_time, @notes, @created_at)`

	createdAt := r.now()
	_, err := r.db.Exec(ctx, q, pgx.NamedArgs{
		"id":            s.ID,
		"camera_id":     s.CameraID,
		"motorcycle_id": s.MotorcycleID,
		"image_path":    s.ImagePath,
		"sighting_time": s.SightingTime,
		"notes":         nullText(s.Notes),
		"created_at":    createdAt,
	})
	if err != nil {
		return fmt.Errorf("repo.SightingRepo.Insert: %w", err)
	}
	s.CreatedAt = createdAt
	return nil
}

func (r *pgSightingRepo) Update(ctx context.Context, s *domain.Sighting) error {
	const q = `
		UPDATE sightings
		SET camera_id        = @camera_id,
		    image_path       = @image_path,
		    sighting_time    = @sighting_time,
		    notes            = @notes,
		    is_deleted       = @is_deleted,
		    last_modified_at = @now
		WHERE id = @id AND NOT is_deleted`

	now := r.now()
	tag, err := r.db.Exec(ctx, q, pgx.NamedArgs{
		"id":            s.ID,
		"camera_id":     s.CameraID,
		"image_path":    s.ImagePath,
		"sighting_time": s.SightingTime,
		"notes":         nullText(s.Notes),
		"is_deleted":    s.IsDeleted,
		"now":           now,
	})
	if err != nil {
		return fmt.Errorf("repo.SightingRepo.Update: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("repo.SightingRepo.Update: %w", domain.ErrNotFound)
	}
	s.LastModifiedAt = &now
	return nil
}

func (r *pgSightingRepo) GetByID(ctx context.Context, id uuid.UUID) (domain.Sighting, error) {
	const q = `
		SELECT id, created_at, last_modified_at, is_deleted,
		       camera_id, motorcycle_id, image_path, sighting_time, notes
		FROM sightings
		WHERE id = @id AND NOT is_deleted`

	var (
		a              auditCols
		cameraID, moto pgtype.UUID
		s              domain.Sighting
		notes          pgtype.Text
	)
	dest := append(a.dest(), &cameraID, &moto, &s.ImagePath, &s.SightingTime, &notes)
	if err := r.db.QueryRow(ctx, q, pgx.NamedArgs{"id": id}).Scan(dest...); err != nil {
		return domain.Sighting{}, fmt.Errorf("repo.SightingRepo.GetByID: %w", noRows(err))
	}
	s.Auditable = a.auditable()
	s.CameraID = cameraID.Bytes
	s.MotorcycleID = moto.Bytes
	s.SightingTime = s.SightingTime.UTC()
	s.Notes = notes.String
	return s, nil
}

func (r *pgSightingRepo) GetView(ctx context.Context, id uuid.UUID) (domain.SightingView, error) {
	q := sightingViewSelect + ` AND s.id = @id`

	v, err := scanSightingView(r.db.QueryRow(ctx, q, pgx.NamedArgs{"id": id}))
	if err != nil {
		return domain.SightingView{}, fmt.Errorf("repo.SightingRepo.GetView: %w", err)
	}
	return v, nil
}

func (r *pgSightingRepo) ListRecent(ctx context.Context, limit int) ([]domain.SightingView, error) {
	q := sightingViewSelect + `
		ORDER BY s.sighting_time DESC, s.id
		LIMIT @limit`

	views, err := r.listViews(ctx, q, pgx.NamedArgs{"limit": limit})
	if err != nil {
		return nil, fmt.Errorf("repo.SightingRepo.ListRecent: %w", err)
	}
	return views, nil
}

func (r *pgSightingRepo) ListByMotorcycle(ctx context.Context, motorcycleID uuid.UUID) ([]domain.SightingView, error) {
	q := sightingViewSelect + `
		AND s.motorcycle_id = @motorcycle_id
		ORDER BY s.sighting_time DESC, s.id`

	views, err := r.listViews(ctx, q, pgx.NamedArgs{"motorcycle_id": motorcycleID})
	if err != nil {
		return nil, fmt.Errorf("repo.SightingRepo.ListByMotorcycle: %w", err)
	}
	return views, nil
}

func (r *pgSightingRepo) listViews(ctx context.Context, q string, args pgx.NamedArgs) ([]domain.SightingView, error) {
	rows, err := r.db.Query(ctx, q, args)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	views := []domain.SightingView{}
	for rows.Next() {
		v, err := scanSightingView(rows)
		if err != nil {
			return nil, fmt.Errorf("scan: %w", err)
		}
		views = append(views, v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}
	return views, nil
}

// scanSightingView builds the flattened projection straight from the joined row.
func scanSightingView(s scanner) (domain.SightingView, error) {
	var (
		v                          domain.SightingView
		id, cameraID, moto         pgtype.UUID
		notes, plate, model, color pgtype.Text
		year, cc                   pgtype.Int4
	)
	err := s.Scan(
		&id, &v.SightingTime, &v.ImagePath, &notes,
		&cameraID, &v.CameraName,
		&moto, &plate, &model, &v.MotorcycleBrandName, &year, &color, &cc,
	)
	if err != nil {
		return domain.SightingView{}, noRows(err)
	}
	v.ID = id.Bytes
	v.SightingTime = v.SightingTime.UTC()
	v.Notes = notes.String
	v.CameraID = cameraID.Bytes
	v.MotorcycleID = moto.Bytes
	v.MotorcycleLicensePlate = plate.String
	v.MotorcycleModel = model.String
	v.MotorcycleColor = color.String
	v.MotorcycleYear = intPtr(year)
	v.MotorcycleDisplacement = displacementPtr(cc)
	return v, nil
}
