package policy

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/open-policy-agent/opa/rego"
	"github.com/rs/zerolog"
)

// Engine evaluates policies against resolved configurations.
type Engine struct {
	mu       sync.RWMutex
	policies map[string]*Policy
	logger   zerolog.Logger
}

// NewEngine creates a policy engine pre-loaded with the built-in
// Broadsea policies.
func NewEngine(logger zerolog.Logger) *Engine {
	e := &Engine{
		policies: make(map[string]*Policy),
		logger:   logger.With().Str("component", "policy-engine").Logger(),
	}

	for _, p := range BuiltinPolicies() {
		p := p
		e.policies[p.Name] = &p
	}

	return e
}

// LoadPolicies adds policies from the given file or directory paths. A
// loaded policy with the same name as a built-in replaces it.
func (e *Engine) LoadPolicies(paths []string) error {
	if len(paths) == 0 {
		return nil
	}

	loader := NewLoader(e.logger)
	policies, err := loader.LoadFromPaths(paths)
	if err != nil {
		return err
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	for i := range policies {
		e.policies[policies[i].Name] = &policies[i]
	}

	return nil
}

// Evaluate runs every enabled policy against the resolved configuration
// and aggregates the findings. A policy that fails to evaluate is
// reported as an error-severity violation rather than aborting the
// whole evaluation.
func (e *Engine) Evaluate(ctx context.Context, config map[string]string) (*Result, error) {
	start := time.Now()
	e.mu.RLock()
	defer e.mu.RUnlock()

	input := Input{Config: config}
	var violations []Violation
	evaluated := make([]string, 0, len(e.policies))

	for _, p := range e.policies {
		if !p.Enabled {
			continue
		}
		evaluated = append(evaluated, p.Name)

		found, err := e.evaluatePolicy(ctx, p, input)
		if err != nil {
			e.logger.Error().Err(err).Str("policy", p.Name).Msg("Policy evaluation failed")
			violations = append(violations, Violation{
				Policy:   p.Name,
				Message:  fmt.Sprintf("policy failed to evaluate: %v", err),
				Severity: SeverityError,
			})
			continue
		}
		violations = append(violations, found...)
	}

	allowed := true
	for i := range violations {
		if violations[i].Severity == SeverityError {
			allowed = false
			break
		}
	}

	result := &Result{
		Allowed:           allowed,
		Violations:        violations,
		EvaluatedPolicies: evaluated,
		EvaluatedAt:       time.Now(),
		Duration:          time.Since(start),
	}

	e.logger.Debug().
		Int("policies", len(evaluated)).
		Int("violations", len(violations)).
		Dur("duration", result.Duration).
		Msg("Policy evaluation completed")

	return result, nil
}

// evaluatePolicy queries the policy's deny set for one input document.
func (e *Engine) evaluatePolicy(ctx context.Context, p *Policy, input Input) ([]Violation, error) {
	query := fmt.Sprintf("data.%s.deny", extractPackageName(p.Rego))

	r := rego.New(
		rego.Module(p.Name, p.Rego),
		rego.Query(query),
		rego.Input(input),
	)

	results, err := r.Eval(ctx)
	if err != nil {
		return nil, fmt.Errorf("policy evaluation error: %w", err)
	}

	var violations []Violation
	for _, result := range results {
		for _, expr := range result.Expressions {
			denySet, ok := expr.Value.([]interface{})
			if !ok {
				continue
			}
			for _, d := range denySet {
				violations = append(violations, toViolation(p, d))
			}
		}
	}

	return violations, nil
}

// extractPackageName pulls the package declaration out of Rego source.
func extractPackageName(source string) string {
	for _, line := range strings.Split(source, "\n") {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "package ") {
			parts := strings.Fields(trimmed)
			if len(parts) >= 2 {
				return parts[1]
			}
		}
	}
	return "broadsea.policies"
}

// toViolation converts one deny-set entry into a Violation.
func toViolation(p *Policy, raw interface{}) Violation {
	v := Violation{
		Policy:   p.Name,
		Severity: SeverityWarning,
	}

	fields, ok := raw.(map[string]interface{})
	if !ok {
		v.Message = fmt.Sprintf("%v", raw)
		return v
	}

	if msg, ok := fields["message"].(string); ok {
		v.Message = msg
	}
	if key, ok := fields["key"].(string); ok {
		v.Key = key
	}
	if sev, ok := fields["severity"].(string); ok {
		switch Severity(sev) {
		case SeverityInfo, SeverityWarning, SeverityError:
			v.Severity = Severity(sev)
		}
	}

	return v
}
