package service_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/sighting-registry/internal/domain"
	"github.com/pkordes/sighting-registry/internal/service"
)

func countingReports(calls *int) *mockReportRepo {
	return &mockReportRepo{
		countByCamera: func(_ context.Context, _ domain.DateRange) ([]domain.CameraCount, error) {
			*calls++
			return []domain.CameraCount{{CameraName: "A1 North", Count: 2}}, nil
		},
		countByBrand: func(_ context.Context, _ domain.DateRange) ([]domain.BrandCount, error) {
			*calls++
			return nil, nil
		},
		countByDisplacement: func(_ context.Context, _ domain.DateRange) ([]domain.DisplacementCount, error) {
			*calls++
			return nil, errDB
		},
	}
}

func TestReportService_ByCamera_CachesPerRange(t *testing.T) {
	calls := 0
	store := &fakeStore{reports: countingReports(&calls)}
	cache := service.NewReportCache(time.Minute)
	svc := service.NewReportService(store, cache)
	jan := service.SightingsByCamera{ReportRange: service.ReportRange{
		StartDate: ptr(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)),
		EndDate:   ptr(time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC)),
	}}

	first, err := svc.ByCamera(context.Background(), jan)
	require.NoError(t, err)
	second, err := svc.ByCamera(context.Background(), jan)
	require.NoError(t, err)
	_, err = svc.ByCamera(context.Background(), service.SightingsByCamera{})
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, 2, calls)
	assert.Equal(t, 2, cache.Len())

	cache.Flush()
	_, err = svc.ByCamera(context.Background(), jan)
	require.NoError(t, err)
	assert.Equal(t, 3, calls)
}

func TestReportService_NilCacheAlwaysQueries(t *testing.T) {
	calls := 0
	svc := service.NewReportService(&fakeStore{reports: countingReports(&calls)}, service.NewReportCache(0))

	for range 3 {
		_, err := svc.ByCamera(context.Background(), service.SightingsByCamera{})
		require.NoError(t, err)
	}

	assert.Equal(t, 3, calls)
}

func TestReportService_ByBrand_EmptyIsNotNil(t *testing.T) {
	calls := 0
	svc := service.NewReportService(&fakeStore{reports: countingReports(&calls)}, nil)

	rows, err := svc.ByBrand(context.Background(), service.SightingsByBrand{})

	require.NoError(t, err)
	assert.NotNil(t, rows)
	assert.Empty(t, rows)
}

func TestReportService_ErrorsAreNotCached(t *testing.T) {
	calls := 0
	svc := service.NewReportService(&fakeStore{reports: countingReports(&calls)}, service.NewReportCache(time.Minute))

	_, err := svc.ByDisplacement(context.Background(), service.SightingsByDisplacement{})
	assert.ErrorIs(t, err, errDB)
	_, err = svc.ByDisplacement(context.Background(), service.SightingsByDisplacement{})
	assert.ErrorIs(t, err, errDB)

	assert.Equal(t, 2, calls)
}

func TestReportService_StartAfterEnd(t *testing.T) {
	calls := 0
	svc := service.NewReportService(&fakeStore{reports: countingReports(&calls)}, nil)

	_, err := svc.ByCamera(context.Background(), service.SightingsByCamera{ReportRange: service.ReportRange{
		StartDate: ptr(time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)),
		EndDate:   ptr(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)),
	}})

	assert.ErrorIs(t, err, domain.ErrValidation)
	assert.Equal(t, 0, calls)
}

func TestReportService_LoadOverlappingFlushIsNotCached(t *testing.T) {
	var (
		mu      sync.Mutex
		count   = 1
		started = make(chan struct{})
		release = make(chan struct{})
	)
	first := true
	reports := &mockReportRepo{
		countByCamera: func(_ context.Context, _ domain.DateRange) ([]domain.CameraCount, error) {
			mu.Lock()
			n, block := count, first
			first = false
			mu.Unlock()
			if block {
				close(started)
				<-release
			}
			return []domain.CameraCount{{CameraName: "North Gate", Count: n}}, nil
		},
	}
	cache := service.NewReportCache(time.Minute)
	svc := service.NewReportService(&fakeStore{reports: reports}, cache)

	done := make(chan []domain.CameraCount)
	go func() {
		rows, _ := svc.ByCamera(context.Background(), service.SightingsByCamera{})
		done <- rows
	}()

	<-started
	mu.Lock()
	count = 0 // the sighting is soft-deleted while the report is loading
	mu.Unlock()
	cache.Flush()
	close(release)

	inFlight := <-done
	require.Len(t, inFlight, 1)
	assert.Equal(t, 1, inFlight[0].Count)
	assert.Equal(t, 0, cache.Len())

	rows, err := svc.ByCamera(context.Background(), service.SightingsByCamera{})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, 0, rows[0].Count)
}
