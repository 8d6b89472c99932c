package library

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestConfigEnvOverrides(t *testing.T) {
	t.Setenv("BIBLIO_SERVER", "http://biblio.test:9090")
	t.Setenv("BIBLIO_TIMEOUT", "3s")

	cfg, err := LoadConfig("")
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.ServerURL != "http://biblio.test:9090" {
		t.Fatalf("server url: %q", cfg.ServerURL)
	}
	if cfg.Timeout != 3*time.Second {
		t.Fatalf("timeout: %v", cfg.Timeout)
	}
}

func TestConfigFromYAMLFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := "server_url: http://file.test:8000\ntimeout: 5s\njournal_path: /tmp/biblio.db\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.ServerURL != "http://file.test:8000" {
		t.Fatalf("server url: %q", cfg.ServerURL)
	}
	if cfg.Timeout != 5*time.Second {
		t.Fatalf("timeout: %v", cfg.Timeout)
	}
	if cfg.JournalPath != "/tmp/biblio.db" {
		t.Fatalf("journal path: %q", cfg.JournalPath)
	}
}

func TestConfigExplicitMissingPathIsAnError(t *testing.T) {
	if _, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatalf("a typo'd --config path must be reported, not silently ignored")
	}
}

func TestConfigMissingEnvPathFallsBackToDefaults(t *testing.T) {
	t.Setenv("BIBLIO_CONFIG", filepath.Join(t.TempDir(), "nope.yaml"))

	cfg, err := LoadConfig("")
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.ServerURL == "" {
		t.Fatalf("default server url should apply")
	}
	if cfg.Timeout == 0 {
		t.Fatalf("default timeout should apply")
	}
}
