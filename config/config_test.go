package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestParse_MinimalConfig(t *testing.T) {
	yaml := `
printer:
  host: 192.168.1.50
`
	cfg, err := Parse([]byte(yaml))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	if cfg.Printer.Host != "192.168.1.50" {
		t.Errorf("Printer.Host = %q, want %q", cfg.Printer.Host, "192.168.1.50")
	}

	// check defaults applied
	if cfg.Printer.Port != 8013 {
		t.Errorf("Printer.Port = %d, want 8013", cfg.Printer.Port)
	}
	if cfg.ListenPort != 8080 {
		t.Errorf("ListenPort = %d, want 8080", cfg.ListenPort)
	}
	if cfg.PollInterval.Duration() != 30*time.Second {
		t.Errorf("PollInterval = %v, want 30s", cfg.PollInterval.Duration())
	}
	if cfg.SettingsPath != "" {
		t.Errorf("SettingsPath = %q, want empty", cfg.SettingsPath)
	}
	if cfg.APITokenHash != "" {
		t.Errorf("APITokenHash = %q, want empty", cfg.APITokenHash)
	}
}

func TestParse_FullConfig(t *testing.T) {
	yaml := `
printer:
  host: printer.local
  port: 9013

listen_port: 9090
poll_interval: 10s
settings_path: /var/lib/labelbridge/settings.toml
api_token_hash: $2a$10$abcdefghijklmnopqrstuv
`
	cfg, err := Parse([]byte(yaml))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	if cfg.Printer.Host != "printer.local" {
		t.Errorf("Printer.Host = %q, want %q", cfg.Printer.Host, "printer.local")
	}
	if cfg.Printer.Port != 9013 {
		t.Errorf("Printer.Port = %d, want 9013", cfg.Printer.Port)
	}
	if cfg.ListenPort != 9090 {
		t.Errorf("ListenPort = %d, want 9090", cfg.ListenPort)
	}
	if cfg.PollInterval.Duration() != 10*time.Second {
		t.Errorf("PollInterval = %v, want 10s", cfg.PollInterval.Duration())
	}
	if cfg.SettingsPath != "/var/lib/labelbridge/settings.toml" {
		t.Errorf("SettingsPath = %q", cfg.SettingsPath)
	}
	if cfg.APITokenHash != "$2a$10$abcdefghijklmnopqrstuv" {
		t.Errorf("APITokenHash = %q", cfg.APITokenHash)
	}
}

func TestParse_MissingHost(t *testing.T) {
	_, err := Parse([]byte("listen_port: 8080\n"))
	if err == nil {
		t.Fatal("Parse() error = nil, want error for missing printer.host")
	}
	if !strings.Contains(err.Error(), "printer.host") {
		t.Errorf("Parse() error = %v, want it to mention printer.host", err)
	}
}

func TestParse_InvalidValues(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"printer port out of range", "printer:\n  host: x\n  port: 70000\n"},
		{"listen port out of range", "printer:\n  host: x\nlisten_port: -1\n"},
		{"poll interval too short", "printer:\n  host: x\npoll_interval: 100ms\n"},
		{"poll interval too long", "printer:\n  host: x\npoll_interval: 2h\n"},
		{"malformed duration", "printer:\n  host: x\npoll_interval: soon\n"},
		{"not yaml", "printer: [\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Parse([]byte(tt.yaml)); err == nil {
				t.Errorf("Parse() error = nil, want error")
			}
		})
	}
}

func TestParse_EnvExpansion(t *testing.T) {
	t.Setenv("LB_TEST_HOST", "10.0.0.5")

	yaml := `
printer:
  host: ${LB_TEST_HOST}
api_token_hash: ${LB_TEST_HASH:-fallback-hash}
`
	cfg, err := Parse([]byte(yaml))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	if cfg.Printer.Host != "10.0.0.5" {
		t.Errorf("Printer.Host = %q, want %q", cfg.Printer.Host, "10.0.0.5")
	}
	// unset variable with a default falls back
	if cfg.APITokenHash != "fallback-hash" {
		t.Errorf("APITokenHash = %q, want %q", cfg.APITokenHash, "fallback-hash")
	}
}

func TestParse_EnvExpansionEmptyDefault(t *testing.T) {
	yaml := `
printer:
  host: localhost
api_token_hash: ${LB_UNSET_HASH:-}
`
	cfg, err := Parse([]byte(yaml))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if cfg.APITokenHash != "" {
		t.Errorf("APITokenHash = %q, want empty", cfg.APITokenHash)
	}
}

func TestParse_EnvExpansionMissingVar(t *testing.T) {
	yaml := `
printer:
  host: ${LB_DEFINITELY_UNSET_HOST}
`
	_, err := Parse([]byte(yaml))
	if err == nil {
		t.Fatal("Parse() error = nil, want error for unset variable without default")
	}
	if !strings.Contains(err.Error(), "LB_DEFINITELY_UNSET_HOST") {
		t.Errorf("Parse() error = %v, want it to name the variable", err)
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
printer:
  host: localhost
  port: 8013
poll_interval: 5s
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.PollInterval.Duration() != 5*time.Second {
		t.Errorf("PollInterval = %v, want 5s", cfg.PollInterval.Duration())
	}
}

func TestLoad_MissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatal("Load() error = nil, want error")
	}
}
