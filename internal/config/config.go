package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

type Config struct {
	Port string

	// Auth
	ExportAPIKey string

	// Raster geometry. Width is the off-screen layout width in CSS pixels,
	// Scale the oversampling factor applied for print sharpness.
	RasterWidth int
	RasterScale int

	// Physical page geometry in millimetres (defaults to A4 portrait).
	PageWidthMM  float64
	PageHeightMM float64

	// Worker pool for async exports
	WorkerCount  int
	MaxQueueSize int

	// Upload limits
	MaxUploadBytes int64

	// Job state
	JobTTL time.Duration

	// Default visual theme
	DefaultTheme string
}

func Load() Config {
	cfg := Config{
		Port: envOr("PORT", "8091"),

		ExportAPIKey: os.Getenv("EXPORT_API_KEY"),

		RasterWidth: envInt("RASTER_WIDTH", 794),
		RasterScale: envInt("RASTER_SCALE", 2),

		PageWidthMM:  envFloat("PAGE_WIDTH_MM", 210),
		PageHeightMM: envFloat("PAGE_HEIGHT_MM", 297),

		WorkerCount:  envInt("WORKER_COUNT", 4),
		MaxQueueSize: envInt("MAX_QUEUE_SIZE", 100),

		MaxUploadBytes: envInt64("MAX_UPLOAD_BYTES", 10485760), // 10MB

		JobTTL: envDuration("JOB_TTL", 1*time.Hour),

		DefaultTheme: envOr("DEFAULT_THEME", "light"),
	}

	if cfg.RasterWidth <= 0 {
		cfg.RasterWidth = 794
	}
	if cfg.RasterScale <= 0 {
		cfg.RasterScale = 2
	}
	if cfg.PageWidthMM <= 0 {
		cfg.PageWidthMM = 210
	}
	if cfg.PageHeightMM <= 0 {
		cfg.PageHeightMM = 297
	}
	if cfg.WorkerCount <= 0 {
		cfg.WorkerCount = 4
	}
	if cfg.MaxQueueSize <= 0 {
		cfg.MaxQueueSize = 100
	}
	if cfg.MaxUploadBytes <= 0 {
		cfg.MaxUploadBytes = 10485760
	}
	if cfg.JobTTL <= 0 {
		cfg.JobTTL = 1 * time.Hour
	}

	return cfg
}

func (c Config) Validate() error {
	if c.ExportAPIKey == "" {
		return fmt.Errorf("EXPORT_API_KEY is required")
	}
	return nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envInt64(key string, fallback int64) int64 {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			return n
		}
	}
	return fallback
}

func envFloat(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
