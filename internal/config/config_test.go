package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()

	if cfg.Port != "8000" {
		t.Errorf("Port = %q, want 8000", cfg.Port)
	}
	if cfg.MaxUploadBytes != 16<<20 {
		t.Errorf("MaxUploadBytes = %d, want %d", cfg.MaxUploadBytes, 16<<20)
	}
	if cfg.OutputDir != "extracted_images" {
		t.Errorf("OutputDir = %q", cfg.OutputDir)
	}
	if cfg.OCRLanguage != "eng" {
		t.Errorf("OCRLanguage = %q", cfg.OCRLanguage)
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("MAX_UPLOAD_BYTES", "1048576")
	t.Setenv("RATE_LIMIT_EVERY", "2s")

	cfg := Load()
	if cfg.Port != "9090" {
		t.Errorf("Port = %q, want 9090", cfg.Port)
	}
	if cfg.MaxUploadBytes != 1<<20 {
		t.Errorf("MaxUploadBytes = %d, want %d", cfg.MaxUploadBytes, 1<<20)
	}
	if cfg.RateLimitEvery != 2*time.Second {
		t.Errorf("RateLimitEvery = %v, want 2s", cfg.RateLimitEvery)
	}
}

func TestEnvRejectsInvalid(t *testing.T) {
	t.Setenv("MAX_UPLOAD_BYTES", "not a number")
	t.Setenv("RATE_LIMIT_BURST", "-5")

	cfg := Load()
	if cfg.MaxUploadBytes != 16<<20 {
		t.Errorf("invalid int should fall back, got %d", cfg.MaxUploadBytes)
	}
	if cfg.RateLimitBurst != 20 {
		t.Errorf("negative int should fall back, got %d", cfg.RateLimitBurst)
	}
}
