package service_test

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/pkordes/sighting-registry/internal/domain"
	"github.com/pkordes/sighting-registry/internal/imagestore"
	"github.com/pkordes/sighting-registry/internal/repo"
)

// ---- fake store ------------------------------------------------------------

// fakeStore hands out the same mock repos inside and outside a transaction
// and counts transaction outcomes.
type fakeStore struct {
	brands      *mockBrandRepo
	cameras     *mockCameraRepo
	motorcycles *mockMotorcycleRepo
	sightings   *mockSightingRepo
	reports     *mockReportRepo

	commitErr error
	begun     int
	commits   int
	rollbacks int
}

func (f *fakeStore) Brands() repo.BrandRepo           { return f.brands }
func (f *fakeStore) Cameras() repo.CameraRepo         { return f.cameras }
func (f *fakeStore) Motorcycles() repo.MotorcycleRepo { return f.motorcycles }
func (f *fakeStore) Sightings() repo.SightingRepo     { return f.sightings }
func (f *fakeStore) Reports() repo.ReportRepo         { return f.reports }

func (f *fakeStore) Begin(_ context.Context) (repo.Tx, error) {
	f.begun++
	return &fakeTx{fakeStore: f}, nil
}

type fakeTx struct {
	*fakeStore
	done bool
}

func (t *fakeTx) Commit(ctx context.Context) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	if t.commitErr != nil {
		return 0, t.commitErr
	}
	t.done = true
	t.commits++
	return 1, nil
}

func (t *fakeTx) Rollback(_ context.Context) error {
	if !t.done {
		t.done = true
		t.rollbacks++
	}
	return nil
}

var (
	_ repo.Store = (*fakeStore)(nil)
	_ repo.Tx    = (*fakeTx)(nil)
)

// ---- mock repos ------------------------------------------------------------

type mockBrandRepo struct {
	insert    func(ctx context.Context, b *domain.Brand) error
	update    func(ctx context.Context, b *domain.Brand) error
	getByID   func(ctx context.Context, id uuid.UUID) (domain.Brand, error)
	list      func(ctx context.Context) ([]domain.Brand, error)
	nameTaken func(ctx context.Context, name string, exclude uuid.UUID) (bool, error)
}

func (m *mockBrandRepo) Insert(ctx context.Context, b *domain.Brand) error { return m.insert(ctx, b) }
func (m *mockBrandRepo) Update(ctx context.Context, b *domain.Brand) error { return m.update(ctx, b) }
func (m *mockBrandRepo) GetByID(ctx context.Context, id uuid.UUID) (domain.Brand, error) {
	return m.getByID(ctx, id)
}
func (m *mockBrandRepo) List(ctx context.Context) ([]domain.Brand, error) { return m.list(ctx) }
func (m *mockBrandRepo) NameTaken(ctx context.Context, name string, exclude uuid.UUID) (bool, error) {
	return m.nameTaken(ctx, name, exclude)
}

type mockCameraRepo struct {
	insert  func(ctx context.Context, c *domain.Camera) error
	update  func(ctx context.Context, c *domain.Camera) error
	getByID func(ctx context.Context, id uuid.UUID) (domain.Camera, error)
	list    func(ctx context.Context) ([]domain.Camera, error)
}

func (m *mockCameraRepo) Insert(ctx context.Context, c *domain.Camera) error { return m.insert(ctx, c) }
func (m *mockCameraRepo) Update(ctx context.Context, c *domain.Camera) error { return m.update(ctx, c) }
func (m *mockCameraRepo) GetByID(ctx context.Context, id uuid.UUID) (domain.Camera, error) {
	return m.getByID(ctx, id)
}
func (m *mockCameraRepo) List(ctx context.Context) ([]domain.Camera, error) { return m.list(ctx) }

type mockMotorcycleRepo struct {
	insert                func(ctx context.Context, m *domain.Motorcycle) error
	update                func(ctx context.Context, m *domain.Motorcycle) error
	getByID               func(ctx context.Context, id uuid.UUID) (domain.Motorcycle, error)
	getView               func(ctx context.Context, id uuid.UUID) (domain.MotorcycleView, error)
	getViewByLicensePlate func(ctx context.Context, plate string) (domain.MotorcycleView, error)
	list                  func(ctx context.Context, f domain.MotorcycleFilter, p domain.PaginationParams) ([]domain.MotorcycleView, int, error)
	existsForBrand        func(ctx context.Context, brandID uuid.UUID) (bool, error)
}

func (m *mockMotorcycleRepo) Insert(ctx context.Context, mc *domain.Motorcycle) error {
	return m.insert(ctx, mc)
}
func (m *mockMotorcycleRepo) Update(ctx context.Context, mc *domain.Motorcycle) error {
	return m.update(ctx, mc)
}
func (m *mockMotorcycleRepo) GetByID(ctx context.Context, id uuid.UUID) (domain.Motorcycle, error) {
	return m.getByID(ctx, id)
}
func (m *mockMotorcycleRepo) GetView(ctx context.Context, id uuid.UUID) (domain.MotorcycleView, error) {
	return m.getView(ctx, id)
}
func (m *mockMotorcycleRepo) GetViewByLicensePlate(ctx context.Context, plate string) (domain.MotorcycleView, error) {
	return m.getViewByLicensePlate(ctx, plate)
}
func (m *mockMotorcycleRepo) List(ctx context.Context, f domain.MotorcycleFilter, p domain.PaginationParams) ([]domain.MotorcycleView, int, error) {
	return m.list(ctx, f, p)
}
func (m *mockMotorcycleRepo) ExistsForBrand(ctx context.Context, brandID uuid.UUID) (bool, error) {
	return m.existsForBrand(ctx, brandID)
}

type mockSightingRepo struct {
	insert           func(ctx context.Context, s *domain.Sighting) error
	update           func(ctx context.Context, s *domain.Sighting) error
	getByID          func(ctx context.Context, id uuid.UUID) (domain.Sighting, error)
	getView          func(ctx context.Context, id uuid.UUID) (domain.SightingView, error)
	listRecent       func(ctx context.Context, limit int) ([]domain.SightingView, error)
	listByMotorcycle func(ctx context.Context, motorcycleID uuid.UUID) ([]domain.SightingView, error)
}

func (m *mockSightingRepo) Insert(ctx context.Context, s *domain.Sighting) error {
	return m.insert(ctx, s)
}
func (m *mockSightingRepo) Update(ctx context.Context, s *domain.Sighting) error {
	return m.update(ctx, s)
}
func (m *mockSightingRepo) GetByID(ctx context.Context, id uuid.UUID) (domain.Sighting, error) {
	return m.getByID(ctx, id)
}
func (m *mockSightingRepo) GetView(ctx context.Context, id uuid.UUID) (domain.SightingView, error) {
	return m.getView(ctx, id)
}
func (m *mockSightingRepo) ListRecent(ctx context.Context, limit int) ([]domain.SightingView, error) {
	return m.listRecent(ctx, limit)
}
func (m *mockSightingRepo) ListByMotorcycle(ctx context.Context, motorcycleID uuid.UUID) ([]domain.SightingView, error) {
	return m.listByMotorcycle(ctx, motorcycleID)
}

type mockReportRepo struct {
	countByCamera       func(ctx context.Context, r domain.DateRange) ([]domain.CameraCount, error)
	countByBrand        func(ctx context.Context, r domain.DateRange) ([]domain.BrandCount, error)
	countByDisplacement func(ctx context.Context, r domain.DateRange) ([]domain.DisplacementCount, error)
}

func (m *mockReportRepo) CountByCamera(ctx context.Context, r domain.DateRange) ([]domain.CameraCount, error) {
	return m.countByCamera(ctx, r)
}
func (m *mockReportRepo) CountByBrand(ctx context.Context, r domain.DateRange) ([]domain.BrandCount, error) {
	return m.countByBrand(ctx, r)
}
func (m *mockReportRepo) CountByDisplacement(ctx context.Context, r domain.DateRange) ([]domain.DisplacementCount, error) {
	return m.countByDisplacement(ctx, r)
}

// ---- mock image store ------------------------------------------------------

type mockImages struct {
	save    func(ctx context.Context, file imagestore.Upload, folder string) (string, error)
	delete  func(ctx context.Context, path string) bool
	saved   []string
	deleted []string
}

func (m *mockImages) Save(ctx context.Context, file imagestore.Upload, folder string) (string, error) {
	p, err := m.save(ctx, file, folder)
	if err == nil {
		m.saved = append(m.saved, p)
	}
	return p, err
}

func (m *mockImages) Delete(ctx context.Context, path string) bool {
	m.deleted = append(m.deleted, path)
	if m.delete == nil {
		return true
	}
	return m.delete(ctx, path)
}

func (m *mockImages) URL(path string) string { return "/" + path }

var _ imagestore.Store = (*mockImages)(nil)

// ---- helpers ---------------------------------------------------------------

var errDB = errors.New("connection reset")

func notFoundBrand(context.Context, uuid.UUID) (domain.Brand, error) {
	return domain.Brand{}, domain.ErrNotFound
}

func existingCamera(_ context.Context, id uuid.UUID) (domain.Camera, error) {
	c := domain.Camera{Name: "A1 North"}
	c.ID = id
	return c, nil
}

func existingMotorcycle(_ context.Context, id uuid.UUID) (domain.Motorcycle, error) {
	m := domain.Motorcycle{}
	m.ID = id
	m.BrandID = uuid.New()
	return m, nil
}
