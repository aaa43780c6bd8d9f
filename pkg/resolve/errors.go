package resolve

import (
	"fmt"
	"strings"

	"github.com/broadsea-tools/broadseactl/pkg/template"
)

// SourceError reports a required override source that could not be
// loaded.
type SourceError struct {
	Source string
	Err    error
}

// Error implements the error interface.
func (e *SourceError) Error() string {
	return fmt.Sprintf("override source %s failed to load: %v", e.Source, e.Err)
}

// Unwrap returns the underlying error.
func (e *SourceError) Unwrap() error {
	return e.Err
}

// TypeViolation is a single supplied value that does not satisfy its
// key's declared type constraint.
type TypeViolation struct {
	// Key is the offending key name.
	Key string

	// Type is the constraint the key declares.
	Type template.Type

	// Value is the supplied value.
	Value string

	// Source is the provider the value came from.
	Source string

	// Reason describes why the value was rejected.
	Reason string
}

func (v TypeViolation) String() string {
	return fmt.Sprintf("%s: expected %s, got %q from %s (%s)", v.Key, v.Type, v.Value, v.Source, v.Reason)
}

// ValidationError aggregates every problem found while resolving a
// configuration: the complete set of required keys with neither an
// override nor a default, and every type constraint violation.
// Resolution never stops at the first problem.
type ValidationError struct {
	Missing    []string
	Violations []TypeViolation
}

// Error implements the error interface with one line per problem.
func (e *ValidationError) Error() string {
	var b strings.Builder
	b.WriteString("configuration is invalid:")
	if len(e.Missing) > 0 {
		fmt.Fprintf(&b, "\n  missing required keys: %s", strings.Join(e.Missing, ", "))
	}
	for _, v := range e.Violations {
		b.WriteString("\n  ")
		b.WriteString(v.String())
	}
	return b.String()
}

// HasMissing reports whether any required key lacked a value.
func (e *ValidationError) HasMissing() bool {
	return len(e.Missing) > 0
}
