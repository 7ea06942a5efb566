// Package testutil holds helpers shared by the Postgres integration tests.
// Everything here skips the calling test when TEST_DATABASE_URL is unset,
// so `go test ./...` stays green on machines without a database.
package testutil

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"testing"

	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/jackc/pgx/v5/stdlib" // "pgx" driver for database/sql
)

// DSNEnv names the variable holding the integration database URL.
const DSNEnv = "TEST_DATABASE_URL"

// NewPool returns a pgx pool on the test database, closed at cleanup.
func NewPool(t *testing.T) *pgxpool.Pool {
	t.Helper()
	ctx := context.Background()

	pool, err := pgxpool.New(ctx, dsn(t))
	if err != nil {
		t.Fatalf("testutil.NewPool: %v", err)
	}
	t.Cleanup(pool.Close)
	if err := pool.Ping(ctx); err != nil {
		t.Fatalf("testutil.NewPool: ping: %v", err)
	}
	return pool
}

// NewSQLDB returns a database/sql handle on the test database, which is what
// goose needs. Closed at cleanup.
func NewSQLDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := OpenSQLDB(dsn(t))
	if err != nil {
		t.Fatalf("testutil.NewSQLDB: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db
}

// OpenSQLDB opens and pings a database/sql handle over the pgx driver. It is
// for TestMain, where there is no *testing.T; the caller closes the handle.
func OpenSQLDB(url string) (*sql.DB, error) {
	db, err := sql.Open("pgx", url)
	if err != nil {
		return nil, fmt.Errorf("open: %w", err)
	}
	if err := db.PingContext(context.Background()); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping: %w", err)
	}
	return db, nil
}

func dsn(t *testing.T) string {
	t.Helper()
	v := os.Getenv(DSNEnv)
	if v == "" {
		t.Skip(DSNEnv + " not set; skipping integration test")
	}
	return v
}
