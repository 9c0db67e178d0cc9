package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("CONFIG_FILE", "")
	t.Setenv("API_PORT", "")
	t.Setenv("NATS_SUBJECT", "")
	t.Setenv("VISION_URL", "")
	t.Setenv("API_QUEUE_TIMEOUT_SECONDS", "")

	cfg := Load()
	if cfg.APIPort != "8080" {
		t.Fatalf("expected default api port 8080, got %q", cfg.APIPort)
	}
	if cfg.NATSSubject != "documents.uploaded" {
		t.Fatalf("expected default subject documents.uploaded, got %q", cfg.NATSSubject)
	}
	if cfg.VisionURL != "" {
		t.Fatalf("expected vision disabled by default, got %q", cfg.VisionURL)
	}
	if cfg.APIQueueTimeoutSeconds != 5 {
		t.Fatalf("expected default queue timeout 5, got %d", cfg.APIQueueTimeoutSeconds)
	}
}

func TestLoadEnvOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := []byte("api_port: \"9999\"\nvision_url: \"http://vision:8000\"\napi_rate_limit_rps: 12.5\n")
	if err := os.WriteFile(path, content, 0o600); err != nil {
		t.Fatalf("write config file: %v", err)
	}

	t.Setenv("CONFIG_FILE", path)
	t.Setenv("API_PORT", "7777")
	t.Setenv("VISION_URL", "")
	t.Setenv("API_RATE_LIMIT_RPS", "")

	cfg := Load()
	if cfg.APIPort != "7777" {
		t.Fatalf("env should win over file: got %q", cfg.APIPort)
	}
	if cfg.VisionURL != "http://vision:8000" {
		t.Fatalf("file value expected when env unset, got %q", cfg.VisionURL)
	}
	if cfg.APIRateLimitRPS != 12.5 {
		t.Fatalf("expected rate limit 12.5 from file, got %v", cfg.APIRateLimitRPS)
	}
}

func TestLoadIgnoresBrokenFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("api_port: [not a string"), 0o600); err != nil {
		t.Fatalf("write config file: %v", err)
	}

	t.Setenv("CONFIG_FILE", path)
	t.Setenv("API_PORT", "")

	cfg := Load()
	if cfg.APIPort != "8080" {
		t.Fatalf("broken file should fall back to defaults, got %q", cfg.APIPort)
	}
}
