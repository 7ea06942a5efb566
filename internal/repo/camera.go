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

// CameraRepo defines the persistence operations for Cameras.
// Every read excludes soft-deleted rows.
type CameraRepo interface {
	Insert(ctx context.Context, c *domain.Camera) error
	// Update returns domain.ErrNotFound if the camera is absent or already deleted.
	Update(ctx context.Context, c *domain.Camera) error
	GetByID(ctx context.Context, id uuid.UUID) (domain.Camera, error)
	// List returns all cameras ordered by name.
	List(ctx context.Context) ([]domain.Camera, error)
}

type pgCameraRepo struct {
	db  db
	now func() time.Time
}

const cameraCols = `id, created_at, last_modified_at, is_deleted, name, street, city`

func (r *pgCameraRepo) Insert(ctx context.Context, c *domain.Camera) error {
	const q = `
		INSERT INTO cameras (id, name, street, city, created_at)
		VALUES (@id, @name, @street, @city, @created_at)`

	createdAt := r.now()
	args := cameraArgs(c)
	args["created_at"] = createdAt
	if _, err := r.db.Exec(ctx, q, args); err != nil {
		return fmt.Errorf("repo.CameraRepo.Insert: %w", err)
	}
	c.CreatedAt = createdAt
	return nil
}

func (r *pgCameraRepo) Update(ctx context.Context, c *domain.Camera) error {
	const q = `
		UPDATE cameras
		SET name             = @name,
		    street           = @street,
		    city             = @city,
		    is_deleted       = @is_deleted,
		    last_modified_at = @now
		WHERE id = @id AND NOT is_deleted`

	now := r.now()
	args := cameraArgs(c)
	args["now"] = now
	tag, err := r.db.Exec(ctx, q, args)
	if err != nil {
		return fmt.Errorf("repo.CameraRepo.Update: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("repo.CameraRepo.Update: %w", domain.ErrNotFound)
	}
	c.LastModifiedAt = &now
	return nil
}

func (r *pgCameraRepo) GetByID(ctx context.Context, id uuid.UUID) (domain.Camera, error) {
	q := `SELECT ` + cameraCols + ` FROM cameras WHERE id = @id AND NOT is_deleted`

	c, err := scanCamera(r.db.QueryRow(ctx, q, pgx.NamedArgs{"id": id}))
	if err != nil {
		return domain.Camera{}, fmt.Errorf("repo.CameraRepo.GetByID: %w", err)
	}
	return c, nil
}

func (r *pgCameraRepo) List(ctx context.Context) ([]domain.Camera, error) {
	q := `SELECT ` + cameraCols + ` FROM cameras WHERE NOT is_deleted ORDER BY name, id`

	rows, err := r.db.Query(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("repo.CameraRepo.List: %w", err)
	}
	defer rows.Close()

	cameras := []domain.Camera{}
	for rows.Next() {
		c, err := scanCamera(rows)
		if err != nil {
			return nil, fmt.Errorf("repo.CameraRepo.List: scan: %w", err)
		}
		cameras = append(cameras, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repo.CameraRepo.List: rows: %w", err)
	}
	return cameras, nil
}

func cameraArgs(c *domain.Camera) pgx.NamedArgs {
	args := pgx.NamedArgs{
		"id":         c.ID,
		"name":       c.Name,
		"is_deleted": c.IsDeleted,
		"street":     pgtype.Text{},
		"city":       pgtype.Text{},
	}
	if c.Location != nil {
		args["street"] = nullText(c.Location.Street)
		args["city"] = nullText(c.Location.City)
	}
	return args
}

func scanCamera(s scanner) (domain.Camera, error) {
	var (
		a            auditCols
		name         string
		street, city pgtype.Text
	)
	if err := s.Scan(append(a.dest(), &name, &street, &city)...); err != nil {
		return domain.Camera{}, noRows(err)
	}
	c := domain.Camera{Auditable: a.auditable(), Name: name}
	if street.Valid && city.Valid {
		c.Location = &domain.Address{Street: street.String, City: city.String}
	}
	return c, nil
}
