// Package handler implements the HTTP surface of the sighting registry.
// Handlers decode a request, send it through the dispatcher and project the
// result into a response DTO. They hold no business logic.
package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/pkordes/sighting-registry/internal/dispatch"
	"github.com/pkordes/sighting-registry/internal/imageurl"
)

// Pinger reports whether a dependency is reachable. *pgxpool.Pool satisfies it.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Options are the optional parts of the HTTP surface. Nil handlers leave the
// matching route unregistered.
type Options struct {
	DB      Pinger
	Metrics http.Handler // GET /metrics
	Images  http.Handler // GET /images/*
	Spec    []byte       // GET /openapi.yaml
	Log     *slog.Logger

	// Writes wrap every POST, PUT and DELETE route, e.g. with a rate limiter.
	Writes []func(http.Handler) http.Handler
}

// Server holds the dependencies shared by every handler.
// Methods are split into per-resource files.
type Server struct {
	d    *dispatch.Dispatcher
	urls *imageurl.Resolver
	opts Options
	log  *slog.Logger
}

func NewServer(d *dispatch.Dispatcher, urls *imageurl.Resolver, opts Options) *Server {
	log := opts.Log
	if log == nil {
		log = slog.Default()
	}
	return &Server{d: d, urls: urls, opts: opts, log: log}
}

// Routes registers every endpoint on r.
func (s *Server) Routes(r chi.Router) {
	r.Get("/healthz", s.health)
	if s.opts.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", s.opts.Metrics)
	}
	if s.opts.Spec != nil {
		r.Get("/openapi.yaml", s.spec)
	}
	if s.opts.Images != nil {
		r.Method(http.MethodGet, "/images/*", s.opts.Images)
	}

	w := r.With(s.opts.Writes...)

	r.Get("/brands", s.listBrands)
	r.Get("/brands/{id}", s.getBrand)
	w.Post("/brands", s.createBrand)
	w.Put("/brands/{id}", s.updateBrand)
	w.Delete("/brands/{id}", s.deleteBrand)

	r.Get("/cameras", s.listCameras)
	r.Get("/cameras/{id}", s.getCamera)
	w.Post("/cameras", s.createCamera)
	w.Put("/cameras/{id}", s.updateCamera)
	w.Delete("/cameras/{id}", s.deleteCamera)

	r.Get("/motorcycles", s.listMotorcycles)
	r.Get("/motorcycles/by-license-plate/{plate}", s.getMotorcycleByLicensePlate)
	r.Get("/motorcycles/{id}", s.getMotorcycle)
	r.Get("/motorcycles/{id}/sightings", s.listMotorcycleSightings)
	w.Post("/motorcycles", s.createMotorcycle)
	w.Put("/motorcycles/{id}", s.updateMotorcycle)
	w.Delete("/motorcycles/{id}", s.deleteMotorcycle)

	r.Get("/sightings/recent", s.recentSightings)
	r.Get("/sightings/reports/by-camera", s.reportByCamera)
	r.Get("/sightings/reports/by-brand", s.reportByBrand)
	r.Get("/sightings/reports/by-engine-displacement", s.reportByDisplacement)
	r.Get("/sightings/{id}", s.getSighting)
	w.Post("/sightings", s.createSighting)
	w.Put("/sightings/{id}", s.updateSighting)
	w.Delete("/sightings/{id}", s.deleteSighting)
}

func (s *Server) spec(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/yaml")
	_, _ = w.Write(s.opts.Spec)
}
