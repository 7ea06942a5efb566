package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/patrickmn/go-cache"

	"github.com/pkordes/sighting-registry/internal/domain"
	"github.com/pkordes/sighting-registry/internal/repo"
)

// ReportCache memoises report results per report and date range until the
// TTL passes or a command succeeds. A nil *ReportCache caches nothing.
//
// gen counts flushes. A load that overlaps a flush may have read the rows
// the flushing command changed, so its result is returned but not stored.
type ReportCache struct {
	c *cache.Cache

	mu  sync.Mutex
	gen uint64
}

// NewReportCache returns nil when ttl is not positive.
func NewReportCache(ttl time.Duration) *ReportCache {
	if ttl <= 0 {
		return nil
	}
	return &ReportCache{c: cache.New(ttl, 2*ttl)}
}

// Flush drops every cached report.
func (rc *ReportCache) Flush() {
	if rc == nil {
		return
	}
	rc.mu.Lock()
	defer rc.mu.Unlock()
	rc.gen++
	rc.c.Flush()
}

func (rc *ReportCache) generation() uint64 {
	rc.mu.Lock()
	defer rc.mu.Unlock()
	return rc.gen
}

// store keeps v only if no flush happened since gen was read.
func (rc *ReportCache) store(key string, v any, gen uint64) {
	rc.mu.Lock()
	defer rc.mu.Unlock()
	if rc.gen == gen {
		rc.c.SetDefault(key, v)
	}
}

// Len reports the number of cached entries, including expired ones not yet
// swept.
func (rc *ReportCache) Len() int {
	if rc == nil {
		return 0
	}
	return rc.c.ItemCount()
}

func cached[T any](rc *ReportCache, key string, load func() (T, error)) (T, error) {
	if rc == nil {
		return load()
	}
	if v, ok := rc.c.Get(key); ok {
		if hit, ok := v.(T); ok {
			return hit, nil
		}
	}
	gen := rc.generation()
	v, err := load()
	if err != nil {
		return v, err
	}
	rc.store(key, v, gen)
	return v, nil
}

// ReportService answers the aggregate sighting reports. Only visible
// sightings are counted. Cached slices are shared and must not be modified.
type ReportService struct {
	store repo.Store
	cache *ReportCache
}

func NewReportService(store repo.Store, cache *ReportCache) *ReportService {
	return &ReportService{store: store, cache: cache}
}

func (s *ReportService) ByCamera(ctx context.Context, req SightingsByCamera) ([]domain.CameraCount, error) {
	dr, err := req.dateRange()
	if err != nil {
		return nil, fmt.Errorf("service.ReportService.ByCamera: %w", err)
	}
	rows, err := cached(s.cache, "camera:"+dr.Key(), func() ([]domain.CameraCount, error) {
		rows, err := s.store.Reports().CountByCamera(ctx, dr)
		return nonNil(rows), err
	})
	if err != nil {
		return nil, fmt.Errorf("service.ReportService.ByCamera: %w", err)
	}
	return rows, nil
}

func (s *ReportService) ByBrand(ctx context.Context, req SightingsByBrand) ([]domain.BrandCount, error) {
	dr, err := req.dateRange()
	if err != nil {
		return nil, fmt.Errorf("service.ReportService.ByBrand: %w", err)
	}
	rows, err := cached(s.cache, "brand:"+dr.Key(), func() ([]domain.BrandCount, error) {
		rows, err := s.store.Reports().CountByBrand(ctx, dr)
		return nonNil(rows), err
	})
	if err != nil {
		return nil, fmt.Errorf("service.ReportService.ByBrand: %w", err)
	}
	return rows, nil
}

func (s *ReportService) ByDisplacement(ctx context.Context, req SightingsByDisplacement) ([]domain.DisplacementCount, error) {
	dr, err := req.dateRange()
	if err != nil {
		return nil, fmt.Errorf("service.ReportService.ByDisplacement: %w", err)
	}
	rows, err := cached(s.cache, "displacement:"+dr.Key(), func() ([]domain.DisplacementCount, error) {
		rows, err := s.store.Reports().CountByDisplacement(ctx, dr)
		return nonNil(rows), err
	})
	if err != nil {
		return nil, fmt.Errorf("service.ReportService.ByDisplacement: %w", err)
	}
	return rows, nil
}
