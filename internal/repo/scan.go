package repo

import (
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/pkordes/sighting-registry/internal/domain"
)

// scanner is satisfied by both pgx.Row and pgx.Rows.
type scanner interface {
	Scan(dest ...any) error
}

// noRows converts pgx.ErrNoRows into domain.ErrNotFound.
func noRows(err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.ErrNotFound
	}
	return err
}

// uniqueViolation converts a Postgres unique_violation into domain.ErrConflict.
func uniqueViolation(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return domain.ErrConflict
	}
	return err
}

// nullText maps "" to SQL NULL.
func nullText(s string) pgtype.Text {
	return pgtype.Text{String: s, Valid: s != ""}
}

func nullInt(v *int) pgtype.Int4 {
	if v == nil {
		return pgtype.Int4{}
	}
	return pgtype.Int4{Int32: int32(*v), Valid: true}
}

func nullDisplacement(d *domain.Displacement) pgtype.Int4 {
	if d == nil {
		return pgtype.Int4{}
	}
	return pgtype.Int4{Int32: int32(*d), Valid: true}
}

func intPtr(v pgtype.Int4) *int {
	if !v.Valid {
		return nil
	}
	n := int(v.Int32)
	return &n
}

func displacementPtr(v pgtype.Int4) *domain.Displacement {
	if !v.Valid {
		return nil
	}
	d := domain.Displacement(v.Int32)
	return &d
}

func timePtr(v pgtype.Timestamptz) *time.Time {
	if !v.Valid {
		return nil
	}
	t := v.Time.UTC()
	return &t
}

// auditCols is the scan target for the columns every table shares.
type auditCols struct {
	id           pgtype.UUID
	createdAt    time.Time
	lastModified pgtype.Timestamptz
	isDeleted    bool
}

func (a *auditCols) dest() []any {
	return []any{&a.id, &a.createdAt, &a.lastModified, &a.isDeleted}
}

func (a *auditCols) auditable() domain.Auditable {
	return domain.Auditable{
		ID:             a.id.Bytes,
		CreatedAt:      a.createdAt.UTC(),
		LastModifiedAt: timePtr(a.lastModified),
		IsDeleted:      a.isDeleted,
	}
}
