package template

import (
	"bytes"
	_ "embed"
)

//go:embed defaults/broadsea.env
var defaultTemplate []byte

// DefaultTemplate returns the built-in Broadsea key template, used by
// the init command to scaffold a new deployment.
func DefaultTemplate() []byte {
	out := make([]byte, len(defaultTemplate))
	copy(out, defaultTemplate)
	return out
}

// LoadDefault parses the built-in Broadsea template.
func LoadDefault() (*Template, error) {
	return Parse(bytes.NewReader(defaultTemplate), "builtin:broadsea")
}
