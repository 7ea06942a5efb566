// Package repo contains all database access for the sighting registry.
// Each entity has its own file with an interface and a Postgres implementation.
// No business logic lives here, only SQL and type mapping.
package repo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// db is the minimal interface satisfied by *pgxpool.Pool, pgx.Conn, and pgx.Tx.
// Integration tests pass a transaction that is rolled back after each test.
type db interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// beginner is a db that can open a transaction. *pgxpool.Pool and pgx.Tx
// (as a savepoint) both satisfy it.
type beginner interface {
	db
	Begin(ctx context.Context) (pgx.Tx, error)
}

// Collections exposes one typed repository per entity plus the report queries.
type Collections interface {
	Brands() BrandRepo
	Cameras() CameraRepo
	Motorcycles() MotorcycleRepo
	Sightings() SightingRepo
	Reports() ReportRepo
}

// Store is the persistence port. Collections obtained directly from the
// Store run outside any transaction and are meant for reads.
type Store interface {
	Collections
	Begin(ctx context.Context) (Tx, error)
}

// Tx groups every write of one handler invocation. Nothing is durable until
// Commit succeeds.
type Tx interface {
	Collections
	// Commit makes the writes durable and returns the number of rows written.
	// A cancelled context rolls the transaction back instead.
	Commit(ctx context.Context) (int64, error)
	// Rollback discards the writes. It is a no-op after Commit.
	Rollback(ctx context.Context) error
}

// InTx runs fn inside a transaction, committing when fn returns nil and
// rolling back on error or panic.
func InTx(ctx context.Context, s Store, fn func(tx Tx) error) (n int64, err error) {
	tx, err := s.Begin(ctx)
	if err != nil {
		return 0, err
	}
	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback(context.WithoutCancel(ctx))
			panic(p)
		}
		if err != nil {
			_ = tx.Rollback(context.WithoutCancel(ctx))
		}
	}()

	if err = fn(tx); err != nil {
		return 0, err
	}
	return tx.Commit(ctx)
}

type pgStore struct {
	conn beginner
	now  func() time.Time
}

// NewStore constructs a Store backed by the provided connection.
// In production pass *pgxpool.Pool; in tests pass a pgx.Tx for rollback isolation.
func NewStore(conn beginner) Store {
	return &pgStore{conn: conn, now: utcNow}
}

func utcNow() time.Time { return time.Now().UTC() }

func (s *pgStore) Brands() BrandRepo           { return &pgBrandRepo{db: s.conn, now: s.now} }
func (s *pgStore) Cameras() CameraRepo         { return &pgCameraRepo{db: s.conn, now: s.now} }
func (s *pgStore) Motorcycles() MotorcycleRepo { return &pgMotorcycleRepo{db: s.conn, now: s.now} }
func (s *pgStore) Sightings() SightingRepo     { return &pgSightingRepo{db: s.conn, now: s.now} }
func (s *pgStore) Reports() ReportRepo         { return &pgReportRepo{db: s.conn} }

func (s *pgStore) Begin(ctx context.Context) (Tx, error) {
	tx, err := s.conn.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("repo.Store.Begin: %w", err)
	}
	return &pgTx{tx: tx, now: s.now}, nil
}

type pgTx struct {
	tx      pgx.Tx
	now     func() time.Time
	written int64
}

func (t *pgTx) conn() db { return countingDB{db: t.tx, n: &t.written} }

func (t *pgTx) Brands() BrandRepo           { return &pgBrandRepo{db: t.conn(), now: t.now} }
func (t *pgTx) Cameras() CameraRepo         { return &pgCameraRepo{db: t.conn(), now: t.now} }
func (t *pgTx) Motorcycles() MotorcycleRepo { return &pgMotorcycleRepo{db: t.conn(), now: t.now} }
func (t *pgTx) Sightings() SightingRepo     { return &pgSightingRepo{db: t.conn(), now: t.now} }
func (t *pgTx) Reports() ReportRepo         { return &pgReportRepo{db: t.conn()} }

func (t *pgTx) Commit(ctx context.Context) (int64, error) {
	if err := ctx.Err(); err != nil {
		_ = t.tx.Rollback(context.WithoutCancel(ctx))
		return 0, fmt.Errorf("repo.Tx.Commit: %w", err)
	}
	if err := t.tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("repo.Tx.Commit: %w", err)
	}
	return t.written, nil
}

func (t *pgTx) Rollback(ctx context.Context) error {
	err := t.tx.Rollback(ctx)
	if err != nil && !errors.Is(err, pgx.ErrTxClosed) {
		return fmt.Errorf("repo.Tx.Rollback: %w", err)
	}
	return nil
}

// countingDB tallies rows affected by Exec so Commit can report them.
type countingDB struct {
	db
	n *int64
}

func (c countingDB) Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	tag, err := c.db.Exec(ctx, sql, args...)
	if err == nil {
		*c.n += tag.RowsAffected()
	}
	return tag, err
}
