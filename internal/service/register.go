package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/pkordes/sighting-registry/internal/dispatch"
	"github.com/pkordes/sighting-registry/internal/imagestore"
	"github.com/pkordes/sighting-registry/internal/repo"
)

// Deps are the collaborators the handlers need.
type Deps struct {
	Store  repo.Store
	Images imagestore.Store
	Cache  *ReportCache // nil disables report caching
	Log    *slog.Logger
	Now    func() time.Time // defaults to time.Now
}

// Register binds every request type to its handler and validators.
func Register(d *dispatch.Dispatcher, deps Deps) {
	now := deps.Now
	if now == nil {
		now = time.Now
	}
	log := deps.Log
	if log == nil {
		log = slog.Default()
	}
	rules := NewRules(now)
	c := deps.Cache

	brands := NewBrandService(deps.Store)
	dispatch.Register(d, flushing(c, brands.Create), Struct[CreateBrand](rules))
	dispatch.Register(d, flushing(c, brands.Update), Struct[UpdateBrand](rules))
	dispatch.Register(d, flushing(c, brands.Delete), Struct[DeleteBrand](rules))
	dispatch.Register(d, brands.Get, Struct[GetBrand](rules))
	dispatch.Register(d, brands.List)

	cameras := NewCameraService(deps.Store)
	dispatch.Register(d, flushing(c, cameras.Create), Struct[CreateCamera](rules))
	dispatch.Register(d, flushing(c, cameras.Update), Struct[UpdateCamera](rules))
	dispatch.Register(d, flushing(c, cameras.Delete), Struct[DeleteCamera](rules))
	dispatch.Register(d, cameras.Get, Struct[GetCamera](rules))
	dispatch.Register(d, cameras.List)

	motorcycles := NewMotorcycleService(deps.Store)
	dispatch.Register(d, flushing(c, motorcycles.Create), Struct[CreateMotorcycle](rules))
	dispatch.Register(d, flushing(c, motorcycles.Update), Struct[UpdateMotorcycle](rules), bodyIDMatches)
	dispatch.Register(d, flushing(c, motorcycles.Delete), Struct[DeleteMotorcycle](rules))
	dispatch.Register(d, motorcycles.Get, Struct[GetMotorcycle](rules))
	dispatch.Register(d, motorcycles.GetByLicensePlate, Struct[GetMotorcycleByLicensePlate](rules))
	dispatch.Register(d, motorcycles.List, Struct[ListMotorcycles](rules))
	dispatch.Register(d, motorcycles.Sightings, Struct[ListMotorcycleSightings](rules))

	sightings := NewSightingService(deps.Store, deps.Images, log)
	dispatch.Register(d, flushing(c, sightings.Create), Decoded(Struct[CreateSighting](rules), imageAttached))
	dispatch.Register(d, flushing(c, sightings.Update), Decoded(Struct[UpdateSighting](rules)))
	dispatch.Register(d, flushing(c, sightings.Delete), Struct[DeleteSighting](rules))
	dispatch.Register(d, sightings.Get, Struct[GetSighting](rules))
	dispatch.Register(d, sightings.Recent, Struct[ListRecentSightings](rules))

	reports := NewReportService(deps.Store, c)
	dispatch.Register(d, reports.ByCamera, rangeOrdered[SightingsByCamera])
	dispatch.Register(d, reports.ByBrand, rangeOrdered[SightingsByBrand])
	dispatch.Register(d, reports.ByDisplacement, rangeOrdered[SightingsByDisplacement])
}

// flushing drops cached reports after a command succeeds.
func flushing[Req, Res any](c *ReportCache, h dispatch.HandlerFunc[Req, Res]) dispatch.HandlerFunc[Req, Res] {
	if c == nil {
		return h
	}
	return func(ctx context.Context, req Req) (Res, error) {
		res, err := h(ctx, req)
		if err == nil {
			c.Flush()
		}
		return res, err
	}
}
