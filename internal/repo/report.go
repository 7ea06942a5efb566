package repo

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/pkordes/sighting-registry/internal/domain"
)

// ReportRepo runs the grouped sighting counts behind the dashboard reports.
// Each query starts from visibleSightings, so soft-deleted rows never count.
type ReportRepo interface {
	// CountByCamera groups by camera name, ordered by count desc then name.
	CountByCamera(ctx context.Context, r domain.DateRange) ([]domain.CameraCount, error)

	// CountByBrand groups by the motorcycle's brand name, ordered by count desc then name.
	CountByBrand(ctx context.Context, r domain.DateRange) ([]domain.BrandCount, error)

	// CountByDisplacement groups by engine displacement, ascending. Sightings
	// of motorcycles without a displacement are left out.
	CountByDisplacement(ctx context.Context, r domain.DateRange) ([]domain.DisplacementCount, error)
}

type pgReportRepo struct {
	db db
}

const inDateRange = `
	  AND (@from::timestamptz IS NULL OR s.sighting_time >= @from)
	  AND (@until::timestamptz IS NULL OR s.sighting_time < @until)`

func rangeArgs(r domain.DateRange) pgx.NamedArgs {
	from, until := r.Bounds()
	return pgx.NamedArgs{"from": from, "until": until}
}

func (r *pgReportRepo) CountByCamera(ctx context.Context, dr domain.DateRange) ([]domain.CameraCount, error) {
	q := `SELECT c.name, count(*)` + visibleSightings + inDateRange + `
		GROUP BY c.name
		ORDER BY count(*) DESC, c.name ASC`

	out := []domain.CameraCount{}
	err := r.collect(ctx, q, rangeArgs(dr), func(s scanner) error {
		var row domain.CameraCount
		if err := s.Scan(&row.CameraName, &row.Count); err != nil {
			return err
		}
		out = append(out, row)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("repo.ReportRepo.CountByCamera: %w", err)
	}
	return out, nil
}

func (r *pgReportRepo) CountByBrand(ctx context.Context, dr domain.DateRange) ([]domain.BrandCount, error) {
	q := `SELECT b.name, count(*)` + visibleSightings + inDateRange + `
		GROUP BY b.name
		ORDER BY count(*) DESC, b.name ASC`

	out := []domain.BrandCount{}
	err := r.collect(ctx, q, rangeArgs(dr), func(s scanner) error {
		var row domain.BrandCount
		if err := s.Scan(&row.BrandName, &row.Count); err != nil {
			return err
		}
		out = append(out, row)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("repo.ReportRepo.CountByBrand: %w", err)
	}
	return out, nil
}

func (r *pgReportRepo) CountByDisplacement(ctx context.Context, dr domain.DateRange) ([]domain.DisplacementCount, error) {
	q := `SELECT m.displacement, count(*)` + visibleSightings + inDateRange + `
		  AND m.displacement IS NOT NULL
		GROUP BY m.displacement
		ORDER BY m.displacement ASC`

	out := []domain.DisplacementCount{}
	err := r.collect(ctx, q, rangeArgs(dr), func(s scanner) error {
		var (
			cc    int32
			count int
		)
		if err := s.Scan(&cc, &count); err != nil {
			return err
		}
		d := domain.Displacement(cc)
		out = append(out, domain.DisplacementCount{Displacement: d, Count: count, DisplayLabel: d.Label()})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("repo.ReportRepo.CountByDisplacement: %w", err)
	}
	return out, nil
}

func (r *pgReportRepo) collect(ctx context.Context, q string, args pgx.NamedArgs, each func(scanner) error) error {
	rows, err := r.db.Query(ctx, q, args)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		if err := each(rows); err != nil {
			return fmt.Errorf("scan: %w", err)
		}
	}
	return rows.Err()
}
