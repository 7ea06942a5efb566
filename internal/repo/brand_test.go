package repo_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/sighting-registry/internal/domain"
	"github.com/pkordes/sighting-registry/testutil"
)

func TestBrandRepo_InsertAndGet(t *testing.T) {
	s := testutil.NewTxStore(t)
	ctx := context.Background()

	b, err := domain.NewBrand("Honda")
	require.NoError(t, err)
	require.NoError(t, s.Brands().Insert(ctx, &b))

	got, err := s.Brands().GetByID(ctx, b.ID)

	require.NoError(t, err)
	assert.Equal(t, "Honda", got.Name)
	assert.False(t, got.CreatedAt.IsZero(), "CreatedAt should be stamped on insert")
	assert.Nil(t, got.LastModifiedAt)
}

func TestBrandRepo_GetByID_NotFound(t *testing.T) {
	s := testutil.NewTxStore(t)

	_, err := s.Brands().GetByID(context.Background(), uuid.New())

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestBrandRepo_Insert_DuplicateNameIgnoresCase(t *testing.T) {
	s := testutil.NewTxStore(t)
	ctx := context.Background()

	first, _ := domain.NewBrand("Honda")
	require.NoError(t, s.Brands().Insert(ctx, &first))

	// Insert into a savepoint so the failed statement does not poison the test tx.
	tx, err := s.Begin(ctx)
	require.NoError(t, err)
	dup, _ := domain.NewBrand("HONDA")
	err = tx.Brands().Insert(ctx, &dup)
	require.NoError(t, tx.Rollback(ctx))

	assert.ErrorIs(t, err, domain.ErrConflict)
}

func TestBrandRepo_SoftDelete_HidesFromReads(t *testing.T) {
	s := testutil.NewTxStore(t)
	ctx := context.Background()

	b, _ := domain.NewBrand("Honda")
	require.NoError(t, s.Brands().Insert(ctx, &b))

	b.MarkDeleted()
	require.NoError(t, s.Brands().Update(ctx, &b))
	require.NotNil(t, b.LastModifiedAt, "soft delete should stamp LastModifiedAt")

	_, err := s.Brands().GetByID(ctx, b.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	list, err := s.Brands().List(ctx)
	require.NoError(t, err)
	assert.Empty(t, list)

	// A second write to a deleted row finds nothing.
	assert.ErrorIs(t, s.Brands().Update(ctx, &b), domain.ErrNotFound)
}

func TestBrandRepo_NameTaken(t *testing.T) {
	s := testutil.NewTxStore(t)
	ctx := context.Background()

	b, _ := domain.NewBrand("Honda")
	require.NoError(t, s.Brands().Insert(ctx, &b))

	taken, err := s.Brands().NameTaken(ctx, "honda", uuid.Nil)
	require.NoError(t, err)
	assert.True(t, taken)

	taken, err = s.Brands().NameTaken(ctx, "honda", b.ID)
	require.NoError(t, err)
	assert.False(t, taken, "a brand never conflicts with itself")
}

func TestMotorcycleRepo_ExistsForBrand_IgnoresDeleted(t *testing.T) {
	s := testutil.NewTxStore(t)
	ctx := context.Background()
	g := testutil.SeedGraph(t, s, "Honda", "North Gate", nil)

	exists, err := s.Motorcycles().ExistsForBrand(ctx, g.Brand.ID)
	require.NoError(t, err)
	assert.True(t, exists)

	g.Motorcycle.MarkDeleted()
	require.NoError(t, s.Motorcycles().Update(ctx, &g.Motorcycle))

	exists, err = s.Motorcycles().ExistsForBrand(ctx, g.Brand.ID)
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestMotorcycleRepo_ListFiltersAndPages(t *testing.T) {
	s := testutil.NewTxStore(t)
	ctx := context.Background()
	honda := testutil.SeedGraph(t, s, "Honda", "North Gate", nil)
	testutil.SeedGraph(t, s, "Yamaha", "South Gate", nil)

	page, total, err := s.Motorcycles().List(ctx, domain.MotorcycleFilter{SearchTerm: "yAm"}, domain.NewPaginationParams(nil, nil))
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	require.Len(t, page, 1)
	assert.Equal(t, "Yamaha", page[0].BrandName)

	page, total, err = s.Motorcycles().List(ctx, domain.MotorcycleFilter{BrandID: &honda.Brand.ID}, domain.NewPaginationParams(nil, nil))
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	require.Len(t, page, 1)
	assert.Equal(t, honda.Motorcycle.ID, page[0].ID)
}

func TestMotorcycleRepo_GetViewByLicensePlate(t *testing.T) {
	s := testutil.NewTxStore(t)
	ctx := context.Background()
	g := testutil.SeedGraph(t, s, "Honda", "North Gate", nil)

	g.Motorcycle.LicensePlate = "AB-123"
	require.NoError(t, s.Motorcycles().Update(ctx, &g.Motorcycle))

	v, err := s.Motorcycles().GetViewByLicensePlate(ctx, "ab-123")

	require.NoError(t, err)
	assert.Equal(t, g.Motorcycle.ID, v.ID)
	assert.Equal(t, "Honda", v.BrandName)
}
