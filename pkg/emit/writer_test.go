package emit

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"github.com/broadsea-tools/broadseactl/pkg/resolve"
	"github.com/broadsea-tools/broadseactl/pkg/template"
)

type mapProvider map[string]string

func (p mapProvider) Name() string   { return "test" }
func (p mapProvider) Optional() bool { return false }

func (p mapProvider) Load() (map[string]string, error) {
	return p, nil
}

func resolveFixture(t *testing.T, tmplContent string, overrides map[string]string) *resolve.Resolution {
	t.Helper()
	tmpl, err := template.Parse(strings.NewReader(tmplContent), "test.env")
	if err != nil {
		t.Fatal(err)
	}
	r := resolve.New(zerolog.Nop())
	ov, err := r.LoadOverrides([]resolve.Provider{mapProvider(overrides)})
	if err != nil {
		t.Fatal(err)
	}
	res, err := r.Resolve(tmpl, ov)
	if err != nil {
		t.Fatal(err)
	}
	return res
}

const fixtureTemplate = `
ZEBRA_KEY=last # Declared first, emitted last
DB_HOST=localhost # [required] Host
DB_PORT=5432 # [integer] Port
MESSAGE= # Free-form text
`

func TestRenderSortedAndDeterministic(t *testing.T) {
	overrides := map[string]string{"DB_PORT": "6543", "MESSAGE": "hello world"}

	first := Render(resolveFixture(t, fixtureTemplate, overrides))
	second := Render(resolveFixture(t, fixtureTemplate, overrides))

	if !bytes.Equal(first, second) {
		t.Error("identical inputs must render byte-identically")
	}

	lines := strings.Split(strings.TrimSpace(string(first)), "\n")
	// Header, blank, then sorted entries.
	want := []string{"DB_HOST=localhost", "DB_PORT=6543", `MESSAGE="hello world"`, "ZEBRA_KEY=last"}
	got := lines[len(lines)-len(want):]
	if !reflect.DeepEqual(got, want) {
		t.Errorf("unexpected entry lines:\n got %v\nwant %v", got, want)
	}
}

func TestWriteRoundTrip(t *testing.T) {
	overrides := map[string]string{
		"DB_PORT": "6543",
		"MESSAGE": `spaces and "quotes" and #hash`,
	}
	res := resolveFixture(t, fixtureTemplate, overrides)

	path := filepath.Join(t.TempDir(), "out", ".env")
	if err := Write(res, path); err != nil {
		t.Fatalf("unexpected write error: %v", err)
	}

	// Re-reading the emitted file through the same provider grammar
	// must reproduce the resolved values exactly.
	values, err := resolve.FileProvider{Path: path, Required: true}.Load()
	if err != nil {
		t.Fatalf("emitted file must be readable as overrides: %v", err)
	}
	if !reflect.DeepEqual(values, res.Map()) {
		t.Errorf("round trip mismatch:\n got %v\nwant %v", values, res.Map())
	}
}

func TestWriteRoundTripDollarValues(t *testing.T) {
	// The dotenv reader expands $VAR and ${VAR} inside double-quoted
	// values (DB_HOST here would resolve to the file's own DB_HOST
	// line); emission must escape them so they survive re-reading
	// literally.
	overrides := map[string]string{
		"MESSAGE": "pa ss $HOME and ${DB_HOST} end",
		"DB_PORT": "6543",
	}
	res := resolveFixture(t, fixtureTemplate, overrides)

	path := filepath.Join(t.TempDir(), ".env")
	if err := Write(res, path); err != nil {
		t.Fatalf("unexpected write error: %v", err)
	}

	values, err := resolve.FileProvider{Path: path, Required: true}.Load()
	if err != nil {
		t.Fatalf("emitted file must be readable as overrides: %v", err)
	}
	if !reflect.DeepEqual(values, res.Map()) {
		t.Errorf("round trip mismatch:\n got %v\nwant %v", values, res.Map())
	}

	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(content), `MESSAGE="pa ss \$HOME and \${DB_HOST} end"`) {
		t.Errorf("dollar signs not escaped in emitted file:\n%s", content)
	}
}

func TestQuoteIfNeeded(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain value untouched", "localhost", "localhost"},
		{"empty value untouched", "", ""},
		{"spaces quoted", "a b", `"a b"`},
		{"hash quoted", "ref#123", `"ref#123"`},
		{"quotes escaped", `say "hi"`, `"say \"hi\""`},
		{"bare dollar quoted and escaped", "$HOME", `"\$HOME"`},
		{"braced expansion escaped", "prefix-${DB_HOST}", `"prefix-\${DB_HOST}"`},
		{"backslash before dollar survives", `a \$ b`, `"a \\\$ b"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := quoteIfNeeded(tt.in); got != tt.want {
				t.Errorf("quoteIfNeeded(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestWriteOverwritesWithoutStrayTempFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")

	if err := Write(resolveFixture(t, fixtureTemplate, map[string]string{"DB_HOST": "old"}), path); err != nil {
		t.Fatal(err)
	}
	if err := Write(resolveFixture(t, fixtureTemplate, map[string]string{"DB_HOST": "new"}), path); err != nil {
		t.Fatal(err)
	}

	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(content), "DB_HOST=new") {
		t.Error("second write did not take effect")
	}

	// No temporary files may survive a successful write.
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	for _, e := range entries {
		if strings.HasPrefix(e.Name(), ".broadseactl-") {
			t.Errorf("stray temporary file %s left behind", e.Name())
		}
	}
}

func TestWriteFailureLeavesPreviousFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")

	res := resolveFixture(t, fixtureTemplate, nil)
	if err := Write(res, path); err != nil {
		t.Fatal(err)
	}
	previous, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}

	// Make the rename fail by turning the destination into a directory.
	if err := os.Remove(path); err != nil {
		t.Fatal(err)
	}
	if err := os.Mkdir(path, 0755); err != nil {
		t.Fatal(err)
	}
	err = Write(res, path)
	var writeErr *WriteError
	if err == nil {
		t.Fatal("expected write to a directory path to fail")
	}
	if !errors.As(err, &writeErr) {
		t.Fatalf("expected WriteError, got %T", err)
	}

	// Restore and confirm a fresh write still produces the original bytes.
	if err := os.Remove(path); err != nil {
		t.Fatal(err)
	}
	if err := Write(res, path); err != nil {
		t.Fatal(err)
	}
	current, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(previous, current) {
		t.Error("re-emitted content differs from the original complete file")
	}
}
