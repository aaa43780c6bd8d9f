package template

import (
	"github.com/go-playground/validator/v10"
)

// Type is the type constraint attached to a declared key.
type Type string

const (
	// TypeString accepts any value. This is the default for untagged keys.
	TypeString Type = "string"

	// TypeInteger accepts base-10 integers only, parsed with a strict
	// locale-independent grammar.
	TypeInteger Type = "integer"

	// TypeBoolean accepts exactly "true" or "false".
	TypeBoolean Type = "boolean"

	// TypeURL accepts URLs with a scheme and a host. Reachability is
	// never checked; that is the deployed stack's concern.
	TypeURL Type = "url"

	// TypeEnum accepts one of a fixed set of values declared in the tag.
	TypeEnum Type = "enum"
)

// KeySpec is the declaration of a single configuration key. Immutable
// once the template is loaded.
type KeySpec struct {
	// Name is the unique key identifier, e.g. "BROADSEA_HOST".
	Name string `json:"name" validate:"required"`

	// Default is the declared default value. Meaningless when HasDefault
	// is false.
	Default string `json:"default,omitempty"`

	// HasDefault reports whether the declaration carried a non-empty
	// default value.
	HasDefault bool `json:"has_default"`

	// Type is the type constraint for supplied values.
	Type Type `json:"type" validate:"required,oneof=string integer boolean url enum"`

	// Enum lists the allowed values for TypeEnum keys.
	Enum []string `json:"enum,omitempty"`

	// Required marks keys that must end up with a value after merging
	// defaults and overrides.
	Required bool `json:"required"`

	// Description is the human-readable documentation for the key.
	Description string `json:"description,omitempty"`

	// Section is the template section banner the key appeared under,
	// if any. Used for grouping in explain output.
	Section string `json:"section,omitempty"`

	// Line is the 1-indexed template line the key was declared on.
	Line int `json:"line"`
}

// Template is the full, ordered set of key declarations loaded from a
// template file.
type Template struct {
	// Source is the path (or synthetic name) the template was read from.
	Source string

	// Keys holds the declarations in file order.
	Keys []KeySpec

	index map[string]int
}

// Lookup returns the declaration for name, if present.
func (t *Template) Lookup(name string) (KeySpec, bool) {
	i, ok := t.index[name]
	if !ok {
		return KeySpec{}, false
	}
	return t.Keys[i], true
}

// Names returns all declared key names in file order.
func (t *Template) Names() []string {
	names := make([]string, len(t.Keys))
	for i := range t.Keys {
		names[i] = t.Keys[i].Name
	}
	return names
}

// Len returns the number of declared keys.
func (t *Template) Len() int {
	return len(t.Keys)
}

// validateSpecs runs struct validation over every declaration. Parse
// errors are caught earlier with line information; this is the final
// consistency gate before the template is handed out.
func validateSpecs(keys []KeySpec) error {
	v := validator.New()
	for i := range keys {
		if err := v.Struct(&keys[i]); err != nil {
			return err
		}
	}
	return nil
}
