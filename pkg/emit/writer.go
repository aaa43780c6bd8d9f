package emit

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/broadsea-tools/broadseactl/pkg/resolve"
)

// Header is the fixed first line of every emitted file. It carries no
// timestamp so that identical resolutions stay byte-identical.
const Header = "# Generated by broadseactl. Do not edit by hand; edit the template or overrides and re-render."

// WriteError reports a failure to produce the output file. The
// destination is left untouched: either the previous complete file or
// the new complete file exists, never a partial one.
type WriteError struct {
	Path string
	Err  error
}

// Error implements the error interface.
func (e *WriteError) Error() string {
	return fmt.Sprintf("failed to write %s: %v", e.Path, e.Err)
}

// Unwrap returns the underlying error.
func (e *WriteError) Unwrap() error {
	return e.Err
}

// Render produces the environment-file content for a resolution: the
// static header followed by KEY=VALUE lines sorted lexicographically.
func Render(res *resolve.Resolution) []byte {
	keys := make([]string, 0, res.Len())
	for _, v := range res.Values {
		keys = append(keys, v.Key)
	}
	sort.Strings(keys)

	var b bytes.Buffer
	b.WriteString(Header)
	b.WriteString("\n\n")
	for _, key := range keys {
		v, _ := res.Get(key)
		fmt.Fprintf(&b, "%s=%s\n", key, quoteIfNeeded(v.Value))
	}
	return b.Bytes()
}

// Write atomically emits the resolution to path, overwriting any
// existing file. The temporary file lives in the destination directory
// so the final rename never crosses filesystems.
func Write(res *resolve.Resolution, path string) error {
	content := Render(res)

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return &WriteError{Path: path, Err: err}
	}

	tmp, err := os.CreateTemp(dir, ".broadseactl-*")
	if err != nil {
		return &WriteError{Path: path, Err: err}
	}
	tmpPath := tmp.Name()

	if err := writeAndSync(tmp, content); err != nil {
		os.Remove(tmpPath)
		return &WriteError{Path: path, Err: err}
	}

	if err := os.Chmod(tmpPath, 0644); err != nil {
		os.Remove(tmpPath)
		return &WriteError{Path: path, Err: err}
	}

	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return &WriteError{Path: path, Err: err}
	}

	return nil
}

func writeAndSync(f *os.File, content []byte) error {
	if _, err := f.Write(content); err != nil {
		f.Close()
		return err
	}
	if err := f.Sync(); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// quoteIfNeeded double-quotes values the bare KEY=VALUE grammar cannot
// carry unambiguously. Dollar signs are escaped inside the quotes
// because the dotenv reader expands $VAR and ${VAR} in double-quoted
// values; a '$' in a value also forces quoting so the escape applies.
func quoteIfNeeded(v string) string {
	if v == "" || !strings.ContainsAny(v, " \t#\"'$\n") {
		return v
	}
	escaped := strings.ReplaceAll(v, `\`, `\\`)
	escaped = strings.ReplaceAll(escaped, `"`, `\"`)
	escaped = strings.ReplaceAll(escaped, `$`, `\$`)
	escaped = strings.ReplaceAll(escaped, "\n", `\n`)
	return `"` + escaped + `"`
}
