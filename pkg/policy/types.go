package policy

import (
	"fmt"
	"time"
)

// Severity classifies a policy violation.
type Severity string

const (
	// SeverityInfo is for informational findings.
	SeverityInfo Severity = "info"

	// SeverityWarning is for findings that should be reviewed but do
	// not block emission in any mode.
	SeverityWarning Severity = "warning"

	// SeverityError is for findings that block emission in enforcing
	// mode.
	SeverityError Severity = "error"
)

// Mode controls what happens when violations are found.
type Mode string

const (
	// ModeAdvisory logs violations and lets the render proceed.
	ModeAdvisory Mode = "advisory"

	// ModeEnforcing fails the run on any error-severity violation.
	ModeEnforcing Mode = "enforcing"
)

// ParseMode converts a mode string, rejecting anything outside the two
// defined modes.
func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case ModeAdvisory:
		return ModeAdvisory, nil
	case ModeEnforcing:
		return ModeEnforcing, nil
	default:
		return "", fmt.Errorf("unknown policy mode %q (expected advisory or enforcing)", s)
	}
}

// Policy is one Rego rule set with its metadata.
type Policy struct {
	// Name is the unique policy name.
	Name string `json:"name"`

	// Description is a human-readable summary, extracted from leading
	// Rego comments for file-loaded policies.
	Description string `json:"description"`

	// Rego is the policy source.
	Rego string `json:"rego"`

	// Enabled marks the policy as active.
	Enabled bool `json:"enabled"`

	// Tags are labels for organizing policies.
	Tags []string `json:"tags,omitempty"`
}

// Violation is a single policy finding against a resolved configuration.
type Violation struct {
	// Policy is the name of the policy that produced the finding.
	Policy string `json:"policy"`

	// Key is the configuration key the finding concerns, if any.
	Key string `json:"key,omitempty"`

	// Message is the human-readable finding.
	Message string `json:"message"`

	// Severity is the finding's severity.
	Severity Severity `json:"severity"`
}

// Result is the outcome of evaluating all policies against one
// resolved configuration.
type Result struct {
	// Allowed is false when any error-severity violation was found.
	// Whether that blocks the run depends on the mode.
	Allowed bool `json:"allowed"`

	// Violations lists every finding.
	Violations []Violation `json:"violations,omitempty"`

	// EvaluatedPolicies names the policies that ran.
	EvaluatedPolicies []string `json:"evaluated_policies"`

	// EvaluatedAt is when the evaluation happened.
	EvaluatedAt time.Time `json:"evaluated_at"`

	// Duration is how long the evaluation took.
	Duration time.Duration `json:"duration"`
}

// Errors returns only the error-severity violations.
func (r *Result) Errors() []Violation {
	var out []Violation
	for _, v := range r.Violations {
		if v.Severity == SeverityError {
			out = append(out, v)
		}
	}
	return out
}

// Input is the document policies evaluate against.
type Input struct {
	// Config is the resolved key/value configuration.
	Config map[string]string `json:"config"`
}
