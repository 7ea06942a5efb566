package repo_test

import (
	"context"
	"log"
	"os"
	"testing"

	"github.com/pkordes/sighting-registry/migrations"
	"github.com/pkordes/sighting-registry/testutil"
)

// TestMain migrates the test database once before the package runs. Without
// TEST_DATABASE_URL every test skips itself via testutil.
func TestMain(m *testing.M) {
	url := os.Getenv(testutil.DSNEnv)
	if url == "" {
		os.Exit(m.Run())
	}

	db, err := testutil.OpenSQLDB(url)
	if err != nil {
		log.Fatalf("TestMain: %v", err)
	}
	provider, err := migrations.NewProvider(db)
	if err != nil {
		log.Fatalf("TestMain: %v", err)
	}
	if _, err := provider.Up(context.Background()); err != nil {
		log.Fatalf("TestMain: migrate: %v", err)
	}
	_ = db.Close()

	os.Exit(m.Run())
}
