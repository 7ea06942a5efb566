package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/pkordes/sighting-registry/internal/config"
	"github.com/pkordes/sighting-registry/internal/dispatch"
	"github.com/pkordes/sighting-registry/internal/handler"
	"github.com/pkordes/sighting-registry/internal/imagestore"
	"github.com/pkordes/sighting-registry/internal/imageurl"
	"github.com/pkordes/sighting-registry/internal/middleware"
	"github.com/pkordes/sighting-registry/internal/repo"
	"github.com/pkordes/sighting-registry/internal/service"
	"github.com/pkordes/sighting-registry/migrations"
	"github.com/pkordes/sighting-registry/openapi"
)

// formOverhead is the room left for non-file multipart fields on top of the
// image size limit.
const formOverhead = 1 << 20

func newServeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("configuration: %w", err)
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return serve(ctx, cfg, newLogger(cfg.LogLevel))
		},
	}
}

func serve(ctx context.Context, cfg config.Config, logger *slog.Logger) error {
	slog.SetDefault(logger)

	// --- Database ---------------------------------------------------------
	pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("create database pool: %w", err)
	}
	defer pool.Close()
	if err := pool.Ping(ctx); err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}
	logger.Info("database connection established")

	if cfg.MigrateOnStart {
		if err := migrateUp(ctx, pool, logger); err != nil {
			return err
		}
	}

	// --- Images -----------------------------------------------------------
	images, imageFiles, closeImages, err := openImageStore(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer closeImages()

	// --- Dispatcher -------------------------------------------------------
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	d := dispatch.New(logger, dispatch.NewMetrics(reg))
	service.Register(d, service.Deps{
		Store:  repo.NewStore(pool),
		Images: images,
		Cache:  service.NewReportCache(cfg.ReportCacheTTL),
		Log:    logger,
	})

	// --- Router -----------------------------------------------------------
	// Order matters: the request id must exist before the logger reads it,
	// and CORS must answer preflights before the body limit applies.
	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.NewSlogLogger(logger))
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.NewCORSHandler(cfg.CORSOrigins))
	r.Use(middleware.NewMaxBodySizeHandler(cfg.MaxUploadBytes + formOverhead))

	opts := handler.Options{
		DB:      pool,
		Metrics: promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg}),
		Images:  imageFiles,
		Spec:    openapi.Document,
		Log:     logger,
	}
	if cfg.RateLimitRPM > 0 {
		limiter := middleware.NewRateLimiter(cfg.RateLimitRPM, cfg.RateLimitBurst, 10*time.Minute)
		defer limiter.Close()
		opts.Writes = append(opts.Writes, limiter.Handler)
	}
	handler.NewServer(d, imageurl.NewResolver(images, cfg.PublicBaseURL), opts).Routes(r)

	// --- HTTP Server ------------------------------------------------------
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server starting", "addr", srv.Addr, "image_store", cfg.ImageStore)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			return fmt.Errorf("server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	logger.Info("server stopped")
	return nil
}

// openImageStore builds the configured backend. The returned handler serves
// stored files and is nil for object storage, whose URLs are absolute.
func openImageStore(ctx context.Context, cfg config.Config, logger *slog.Logger) (imagestore.Store, http.Handler, func(), error) {
	policy := imagestore.Policy{MaxBytes: cfg.MaxUploadBytes}

	if cfg.ImageStore == config.ImageStoreS3 {
		s3, err := imagestore.NewS3(ctx, imagestore.S3Config{
			Bucket:    cfg.S3.Bucket,
			Region:    cfg.S3.Region,
			Endpoint:  cfg.S3.Endpoint,
			AccessKey: cfg.S3.AccessKey,
			SecretKey: cfg.S3.SecretKey,
			PublicURL: cfg.S3.PublicURL,
		}, policy, logger)
		if err != nil {
			return nil, nil, nil, err
		}
		return s3, nil, func() {}, nil
	}

	local, err := imagestore.NewLocal(cfg.ImageDir, policy, logger)
	if err != nil {
		return nil, nil, nil, err
	}
	return local, local.Handler(), func() { _ = local.Close() }, nil
}

func migrateUp(ctx context.Context, pool *pgxpool.Pool, logger *slog.Logger) error {
	db := stdlib.OpenDBFromPool(pool)
	defer db.Close()

	p, err := migrations.NewProvider(db)
	if err != nil {
		return err
	}
	results, err := p.Up(ctx)
	if err != nil {
		return fmt.Errorf("migrate on start: %w", err)
	}
	logger.Info("migrations applied", "count", len(results))
	return nil
}
