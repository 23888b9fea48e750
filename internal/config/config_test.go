package config

import (
	"os"
	"testing"
)

func clearEnv() {
	for _, key := range []string{
		"SCRIBESTORE_HTTP_PORT",
		"SCRIBESTORE_METRICS_PORT",
		"SCRIBESTORE_DATA_DIR",
		"SCRIBESTORE_LOG_LEVEL",
		"SCRIBESTORE_SEARCH_MAX_RESULTS",
		"SCRIBESTORE_MAX_VERSIONS",
	} {
		_ = os.Unsetenv(key)
	}
}

func TestConfigDefaults(t *testing.T) {
	clearEnv()

	cfg, err := New()
	if err != nil {
		t.Fatalf("config load: %v", err)
	}
	if cfg.HTTPPort != 8080 || cfg.MetricsPort != 9090 {
		t.Fatalf("unexpected default ports: %+v", cfg)
	}
	if cfg.SearchContextSize != 50 || cfg.SearchMaxResults != 100 || cfg.MaxVersions != 10 {
		t.Fatalf("unexpected default limits: %+v", cfg)
	}
	if cfg.LogLevel != "info" {
		t.Fatalf("unexpected default log level: %s", cfg.LogLevel)
	}
}

func TestConfigEnvOverride(t *testing.T) {
	clearEnv()
	_ = os.Setenv("SCRIBESTORE_HTTP_PORT", "8181")
	_ = os.Setenv("SCRIBESTORE_MAX_VERSIONS", "25")
	defer clearEnv()

	cfg, err := New()
	if err != nil {
		t.Fatalf("config load: %v", err)
	}
	if cfg.HTTPPort != 8181 {
		t.Fatalf("port env override failed, got %d", cfg.HTTPPort)
	}
	if cfg.MaxVersions != 25 {
		t.Fatalf("max versions env override failed, got %d", cfg.MaxVersions)
	}
}

func TestConfigRejectsInvalid(t *testing.T) {
	clearEnv()
	defer clearEnv()

	tests := []struct {
		key, value string
	}{
		{"SCRIBESTORE_HTTP_PORT", "0"},
		{"SCRIBESTORE_HTTP_PORT", "70000"},
		{"SCRIBESTORE_LOG_LEVEL", "verbose"},
		{"SCRIBESTORE_SEARCH_MAX_RESULTS", "0"},
		{"SCRIBESTORE_MAX_VERSIONS", "0"},
	}

	for _, tt := range tests {
		clearEnv()
		_ = os.Setenv(tt.key, tt.value)
		if _, err := New(); err == nil {
			t.Errorf("expected error for %s=%s", tt.key, tt.value)
		}
	}
}

func TestConfigRejectsPortCollision(t *testing.T) {
	clearEnv()
	_ = os.Setenv("SCRIBESTORE_HTTP_PORT", "9090")
	defer clearEnv()

	if _, err := New(); err == nil {
		t.Error("expected error when HTTP and metrics ports collide")
	}
}
