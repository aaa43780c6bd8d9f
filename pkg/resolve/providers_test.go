package resolve

import (
	"os"
	"path/filepath"
	"testing"
)

func TestFileProvider(t *testing.T) {
	t.Run("reads dotenv grammar", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "overrides.env")
		content := "# comment\nDB_HOST=db.example.com\nDB_PORT=6543\nQUOTED=\"a b\"\n"
		if err := os.WriteFile(path, []byte(content), 0644); err != nil {
			t.Fatal(err)
		}

		values, err := FileProvider{Path: path}.Load()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if values["DB_HOST"] != "db.example.com" || values["DB_PORT"] != "6543" {
			t.Errorf("unexpected values: %v", values)
		}
		if values["QUOTED"] != "a b" {
			t.Errorf("quoted value mishandled: %q", values["QUOTED"])
		}
	})

	t.Run("missing file errors", func(t *testing.T) {
		_, err := FileProvider{Path: filepath.Join(t.TempDir(), "nope.env")}.Load()
		if err == nil {
			t.Fatal("expected error for missing file")
		}
	})

	t.Run("required flag controls optionality", func(t *testing.T) {
		if !(FileProvider{Path: "x"}).Optional() {
			t.Error("provider should be optional by default")
		}
		if (FileProvider{Path: "x", Required: true}).Optional() {
			t.Error("required provider reported optional")
		}
	})
}

func TestEnvProvider(t *testing.T) {
	t.Setenv("BROADSEA_HOST", "demo.example.org")
	t.Setenv("UNRELATED_VARIABLE", "noise")

	p := NewEnvProvider([]string{"BROADSEA_HOST", "HTTP_TYPE"})
	values, err := p.Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if values["BROADSEA_HOST"] != "demo.example.org" {
		t.Errorf("expected declared env var to load, got %v", values)
	}
	if _, ok := values["UNRELATED_VARIABLE"]; ok {
		t.Error("undeclared environment variables must not load")
	}
	if _, ok := values["HTTP_TYPE"]; ok {
		t.Error("unset declared key must be absent, not empty")
	}
}
