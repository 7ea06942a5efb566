// Package config loads and validates application configuration from environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Image store backends.
const (
	ImageStoreLocal = "local"
	ImageStoreS3    = "s3"
)

// Config holds all configuration values for the API server.
// Values are populated by Load from environment variables.
type Config struct {
	// Port is the TCP port the HTTP server listens on. Defaults to "8080".
	Port string

	// DatabaseURL is the Postgres connection string. Required.
	DatabaseURL string

	// LogLevel controls the minimum log level. Defaults to "info".
	// Valid values: debug, info, warn, error.
	LogLevel string

	// CORSOrigins is the list of allowed cross-origin request origins.
	// Set CORS_ORIGINS to a comma-separated list to override.
	CORSOrigins []string

	// PublicBaseURL replaces the request origin when image URLs are built.
	PublicBaseURL string

	// ImageStore selects the image backend: "local" (default) or "s3".
	ImageStore string
	// ImageDir is the root directory of the local backend.
	ImageDir string
	// MaxUploadBytes caps the size of one image.
	MaxUploadBytes int64
	S3             S3

	// ReportCacheTTL is how long report results are reused. 0 disables caching.
	ReportCacheTTL time.Duration

	// RateLimitRPM and RateLimitBurst bound write requests per client IP.
	// RateLimitRPM 0 disables the limiter.
	RateLimitRPM   int
	RateLimitBurst int

	// MigrateOnStart runs pending migrations before the server listens.
	MigrateOnStart bool
}

// S3 configures the object storage backend.
type S3 struct {
	Bucket    string
	Region    string
	Endpoint  string // non-empty for S3-compatible stores such as MinIO
	AccessKey string
	SecretKey string
	PublicURL string
}

// Load reads configuration from environment variables and returns a Config.
// Missing required variables and unparseable values are reported together
// in one error.
func Load() (Config, error) {
	var p parser
	cfg := Config{
		Port:           getEnv("PORT", "8080"),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		CORSOrigins:    splitCSV(getEnv("CORS_ORIGINS", "http://localhost:5173")),
		PublicBaseURL:  os.Getenv("PUBLIC_BASE_URL"),
		ImageStore:     strings.ToLower(getEnv("IMAGE_STORE", ImageStoreLocal)),
		ImageDir:       getEnv("IMAGE_DIR", "./data"),
		MaxUploadBytes: p.int64("MAX_UPLOAD_BYTES", 10<<20),
		S3: S3{
			Bucket:    os.Getenv("S3_BUCKET"),
			Region:    getEnv("S3_REGION", "us-east-1"),
			Endpoint:  os.Getenv("S3_ENDPOINT"),
			AccessKey: os.Getenv("S3_ACCESS_KEY"),
			SecretKey: os.Getenv("S3_SECRET_KEY"),
			PublicURL: os.Getenv("S3_PUBLIC_URL"),
		},
		ReportCacheTTL: p.duration("REPORT_CACHE_TTL", 30*time.Second),
		RateLimitRPM:   p.int("RATE_LIMIT_RPM", 120),
		RateLimitBurst: p.int("RATE_LIMIT_BURST", 20),
		MigrateOnStart: p.bool("MIGRATE_ON_START", false),
	}

	var missing []string
	cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	if cfg.DatabaseURL == "" {
		missing = append(missing, "DATABASE_URL")
	}

	switch cfg.ImageStore {
	case ImageStoreLocal:
	case ImageStoreS3:
		if cfg.S3.Bucket == "" {
			missing = append(missing, "S3_BUCKET")
		}
	default:
		p.errs = append(p.errs, fmt.Errorf("IMAGE_STORE: unknown backend %q (want %s or %s)", cfg.ImageStore, ImageStoreLocal, ImageStoreS3))
	}
	if cfg.MaxUploadBytes <= 0 {
		p.errs = append(p.errs, fmt.Errorf("MAX_UPLOAD_BYTES: must be positive"))
	}

	if len(missing) > 0 {
		p.errs = append([]error{fmt.Errorf("required environment variables not set: %s", strings.Join(missing, ", "))}, p.errs...)
	}
	if err := errors.Join(p.errs...); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// LoadDatabaseURL reads only DATABASE_URL, for commands that need nothing else.
func LoadDatabaseURL() (string, error) {
	url := os.Getenv("DATABASE_URL")
	if url == "" {
		return "", errors.New("required environment variables not set: DATABASE_URL")
	}
	return url, nil
}

// parser collects conversion errors so Load can report all of them.
type parser struct {
	errs []error
}

func (p *parser) int(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		p.errs = append(p.errs, fmt.Errorf("%s: %q is not a non-negative integer", key, v))
		return fallback
	}
	return n
}

func (p *parser) int64(key string, fallback int64) int64 {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		p.errs = append(p.errs, fmt.Errorf("%s: %q is not an integer", key, v))
		return fallback
	}
	return n
}

func (p *parser) duration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil || d < 0 {
		p.errs = append(p.errs, fmt.Errorf("%s: %q is not a duration", key, v))
		return fallback
	}
	return d
}

func (p *parser) bool(key string, fallback bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		p.errs = append(p.errs, fmt.Errorf("%s: %q is not a boolean", key, v))
		return fallback
	}
	return b
}

// getEnv returns the value of the environment variable named by key,
// or fallback if the variable is not set or is empty.
func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// splitCSV splits a comma-separated string into a trimmed slice, ignoring empty entries.
func splitCSV(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if t := strings.TrimSpace(part); t != "" {
			out = append(out, t)
		}
	}
	return out
}
