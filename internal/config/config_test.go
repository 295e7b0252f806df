package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()
	if cfg.Port != "8091" {
		t.Errorf("Port = %q, want 8091", cfg.Port)
	}
	if cfg.RasterWidth != 794 || cfg.RasterScale != 2 {
		t.Errorf("raster = %dx%d, want 794x2", cfg.RasterWidth, cfg.RasterScale)
	}
	if cfg.PageWidthMM != 210 || cfg.PageHeightMM != 297 {
		t.Errorf("page = %vx%v, want A4", cfg.PageWidthMM, cfg.PageHeightMM)
	}
	if cfg.WorkerCount != 4 {
		t.Errorf("WorkerCount = %d, want 4", cfg.WorkerCount)
	}
	if cfg.JobTTL != time.Hour {
		t.Errorf("JobTTL = %v, want 1h", cfg.JobTTL)
	}
	if cfg.DefaultTheme != "light" {
		t.Errorf("DefaultTheme = %q, want light", cfg.DefaultTheme)
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("PORT", "9000")
	t.Setenv("RASTER_WIDTH", "1024")
	t.Setenv("PAGE_HEIGHT_MM", "279.4")
	t.Setenv("JOB_TTL", "30m")
	t.Setenv("DEFAULT_THEME", "dark")

	cfg := Load()
	if cfg.Port != "9000" {
		t.Errorf("Port = %q", cfg.Port)
	}
	if cfg.RasterWidth != 1024 {
		t.Errorf("RasterWidth = %d", cfg.RasterWidth)
	}
	if cfg.PageHeightMM != 279.4 {
		t.Errorf("PageHeightMM = %v", cfg.PageHeightMM)
	}
	if cfg.JobTTL != 30*time.Minute {
		t.Errorf("JobTTL = %v", cfg.JobTTL)
	}
	if cfg.DefaultTheme != "dark" {
		t.Errorf("DefaultTheme = %q", cfg.DefaultTheme)
	}
}

func TestLoadClampsInvalidValues(t *testing.T) {
	t.Setenv("RASTER_WIDTH", "-10")
	t.Setenv("WORKER_COUNT", "0")
	t.Setenv("JOB_TTL", "-5m")

	cfg := Load()
	if cfg.RasterWidth != 794 {
		t.Errorf("RasterWidth = %d, want fallback 794", cfg.RasterWidth)
	}
	if cfg.WorkerCount != 4 {
		t.Errorf("WorkerCount = %d, want fallback 4", cfg.WorkerCount)
	}
	if cfg.JobTTL != time.Hour {
		t.Errorf("JobTTL = %v, want fallback 1h", cfg.JobTTL)
	}
}

func TestValidate(t *testing.T) {
	cfg := Load()
	cfg.ExportAPIKey = ""
	if err := cfg.Validate(); err == nil {
		t.Error("missing API key passed validation")
	}
	cfg.ExportAPIKey = "key"
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate: %v", err)
	}
}
