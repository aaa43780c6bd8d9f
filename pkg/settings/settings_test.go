package settings

import (
	"os"
	"path/filepath"
	"testing"
)

func writeSettings(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "broadseactl.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadDefaultsWhenAbsent(t *testing.T) {
	// Run from an empty directory so the default path does not exist.
	t.Chdir(t.TempDir())

	s, err := Load("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s.Output != ".env" || !s.UseEnv || s.Policy.Mode != "advisory" {
		t.Errorf("unexpected defaults: %+v", s)
	}
	if s.Logging.Level != "info" || s.Logging.Format != "console" {
		t.Errorf("unexpected logging defaults: %+v", s.Logging)
	}
}

func TestLoadExplicitMissingFileFails(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err == nil {
		t.Fatal("explicitly named missing settings file must fail")
	}
}

func TestLoadPartialFileKeepsDefaults(t *testing.T) {
	path := writeSettings(t, `
output: deploy/.env
overrides:
  - site.env
policy:
  mode: enforcing
`)

	s, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s.Output != "deploy/.env" {
		t.Errorf("expected overridden output, got %q", s.Output)
	}
	if len(s.Overrides) != 1 || s.Overrides[0] != "site.env" {
		t.Errorf("unexpected overrides: %v", s.Overrides)
	}
	if s.Policy.Mode != "enforcing" {
		t.Errorf("expected enforcing, got %q", s.Policy.Mode)
	}
	// Unset fields keep their defaults.
	if s.Template != "broadsea.env.template" || !s.History.Enabled {
		t.Errorf("defaults lost: %+v", s)
	}
}

func TestLoadRejectsUnknownFields(t *testing.T) {
	path := writeSettings(t, "outpt: typo.env\n")
	if _, err := Load(path); err == nil {
		t.Fatal("unknown field must be rejected")
	}
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"bad policy mode", "policy:\n  mode: strict\n"},
		{"bad log level", "logging:\n  level: chatty\n"},
		{"bad log format", "logging:\n  format: xml\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeSettings(t, tt.content)
			if _, err := Load(path); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}
