package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/pkordes/sighting-registry/internal/domain"
	"github.com/pkordes/sighting-registry/internal/repo"
)

// NewTxStore opens a transaction against the test database and returns a
// repo.Store bound to it. Store.Begin opens savepoints inside that
// transaction, and everything is rolled back when the test finishes.
func NewTxStore(t *testing.T) repo.Store {
	t.Helper()
	pool := NewPool(t)

	tx, err := pool.Begin(context.Background())
	require.NoError(t, err, "begin transaction")

	t.Cleanup(func() {
		_ = tx.Rollback(context.Background())
	})
	return repo.NewStore(tx)
}

// Graph is a brand, camera and motorcycle inserted together so sightings
// have something to point at.
type Graph struct {
	Brand      domain.Brand
	Camera     domain.Camera
	Motorcycle domain.Motorcycle
}

// SeedGraph inserts a brand, a camera and a motorcycle of that brand.
// cc may be nil for a motorcycle without a displacement.
func SeedGraph(t *testing.T, s repo.Collections, brand, camera string, cc *domain.Displacement) Graph {
	t.Helper()
	ctx := context.Background()

	b, err := domain.NewBrand(brand)
	require.NoError(t, err)
	require.NoError(t, s.Brands().Insert(ctx, &b))

	c, err := domain.NewCamera(camera, nil)
	require.NoError(t, err)
	require.NoError(t, s.Cameras().Insert(ctx, &c))

	m, err := domain.NewMotorcycle(domain.MotorcycleDetails{BrandID: b.ID, Model: brand + " model", Displacement: cc})
	require.NoError(t, err)
	require.NoError(t, s.Motorcycles().Insert(ctx, &m))

	return Graph{Brand: b, Camera: c, Motorcycle: m}
}

// SeedSighting inserts a sighting of g.Motorcycle at g.Camera.
func SeedSighting(t *testing.T, s repo.Collections, g Graph, at time.Time) domain.Sighting {
	t.Helper()
	sg, err := domain.NewSighting(g.Camera.ID, g.Motorcycle.ID, "images/sightings/"+g.Motorcycle.ID.String()+".jpg", at, "")
	require.NoError(t, err)
	require.NoError(t, s.Sightings().Insert(context.Background(), &sg))
	return sg
}

