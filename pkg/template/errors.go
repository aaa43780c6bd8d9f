package template

import (
	"fmt"
	"strings"
)

// NotFoundError reports a template path that does not exist.
type NotFoundError struct {
	Path string
	Err  error
}

// Error implements the error interface.
func (e *NotFoundError) Error() string {
	return fmt.Sprintf("template %s not found", e.Path)
}

// Unwrap returns the underlying error.
func (e *NotFoundError) Unwrap() error {
	return e.Err
}

// Issue is a single problem found while parsing a template, located by
// its 1-indexed line number.
type Issue struct {
	Line    int
	Message string
}

func (i Issue) String() string {
	return fmt.Sprintf("line %d: %s", i.Line, i.Message)
}

// ParseError aggregates every issue found in a template file. Parsing
// never stops at the first problem.
type ParseError struct {
	Path   string
	Issues []Issue
}

// Error implements the error interface with one line per issue.
func (e *ParseError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "template %s has %d problem(s):", e.Path, len(e.Issues))
	for _, issue := range e.Issues {
		b.WriteString("\n  ")
		b.WriteString(issue.String())
	}
	return b.String()
}
