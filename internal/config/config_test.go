package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()

	if cfg.Port != "8080" {
		t.Errorf("expected default port 8080, got %s", cfg.Port)
	}
	if cfg.JWTExpiry != 24*time.Hour {
		t.Errorf("expected default JWT expiry 24h, got %s", cfg.JWTExpiry)
	}
	if cfg.S3Bucket != "segundavida" {
		t.Errorf("expected default bucket segundavida, got %s", cfg.S3Bucket)
	}
	if !cfg.IsDevelopment() {
		t.Error("expected default environment to be development")
	}
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("PORT", "9000")
	t.Setenv("JWT_EXPIRY_HOURS", "2")
	t.Setenv("S3_USE_SSL", "true")
	t.Setenv("ENVIRONMENT", "production")
	t.Setenv("WHATSAPP_NUMBER", "573001112233")

	cfg := Load()

	if cfg.Port != "9000" {
		t.Errorf("expected port 9000, got %s", cfg.Port)
	}
	if cfg.JWTExpiry != 2*time.Hour {
		t.Errorf("expected JWT expiry 2h, got %s", cfg.JWTExpiry)
	}
	if !cfg.S3UseSSL {
		t.Error("expected S3UseSSL true")
	}
	if !cfg.IsProduction() {
		t.Error("expected production environment")
	}
	if cfg.WhatsAppNumber != "573001112233" {
		t.Errorf("expected WhatsApp number from env, got %s", cfg.WhatsAppNumber)
	}
}

func TestInvalidEnvValuesFallBack(t *testing.T) {
	t.Setenv("JWT_EXPIRY_HOURS", "not-a-number")
	t.Setenv("S3_USE_SSL", "not-a-bool")

	cfg := Load()

	if cfg.JWTExpiry != 24*time.Hour {
		t.Errorf("expected fallback JWT expiry 24h, got %s", cfg.JWTExpiry)
	}
	if cfg.S3UseSSL {
		t.Error("expected fallback S3UseSSL false")
	}
}
