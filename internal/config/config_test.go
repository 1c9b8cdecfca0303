package config

import (
	"context"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(context.Background())
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}

	if cfg.ServerBaseURL != "http://localhost:3000" {
		t.Fatalf("ServerBaseURL = %q", cfg.ServerBaseURL)
	}
	if cfg.RosterPath != "Контингент 01.11.2025.docx" {
		t.Fatalf("RosterPath = %q", cfg.RosterPath)
	}
	if len(cfg.RosterPatterns) != 1 || cfg.RosterPatterns[0] != "*.docx" {
		t.Fatalf("RosterPatterns = %v", cfg.RosterPatterns)
	}
	if cfg.HealthMaxAttempts != 30 {
		t.Fatalf("HealthMaxAttempts = %d", cfg.HealthMaxAttempts)
	}
	if cfg.HealthInterval != 5*time.Second {
		t.Fatalf("HealthInterval = %s", cfg.HealthInterval)
	}
	if cfg.UploadTimeout != 90*time.Second {
		t.Fatalf("UploadTimeout = %s", cfg.UploadTimeout)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("SERVER_BASE_URL", "http://import.school.local:8080/")
	t.Setenv("ROSTER_PATH", "roster.docx")
	t.Setenv("ROSTER_PATTERNS", "*.docx, *.doc, ")
	t.Setenv("HEALTH_MAX_ATTEMPTS", "5")
	t.Setenv("HEALTH_INTERVAL", "100ms")

	cfg, err := Load(context.Background())
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}

	if cfg.ServerBaseURL != "http://import.school.local:8080" {
		t.Fatalf("ServerBaseURL = %q (trailing slash must be stripped)", cfg.ServerBaseURL)
	}
	if cfg.RosterPath != "roster.docx" {
		t.Fatalf("RosterPath = %q", cfg.RosterPath)
	}
	if len(cfg.RosterPatterns) != 2 {
		t.Fatalf("RosterPatterns = %v (empty entries must be dropped)", cfg.RosterPatterns)
	}
	if cfg.HealthMaxAttempts != 5 {
		t.Fatalf("HealthMaxAttempts = %d", cfg.HealthMaxAttempts)
	}
	if cfg.HealthInterval != 100*time.Millisecond {
		t.Fatalf("HealthInterval = %s", cfg.HealthInterval)
	}
}

func TestLoadInvalid(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{"bad scheme", "SERVER_BASE_URL", "ftp://localhost:3000"},
		{"missing host", "SERVER_BASE_URL", "http://"},
		{"empty roster path", "ROSTER_PATH", "   "},
		{"zero attempts", "HEALTH_MAX_ATTEMPTS", "0"},
		{"negative interval", "HEALTH_INTERVAL", "-1s"},
		{"zero upload timeout", "UPLOAD_TIMEOUT", "0s"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)
			if _, err := Load(context.Background()); err == nil {
				t.Fatalf("expected error for %s=%q", tt.key, tt.value)
			}
		})
	}
}
