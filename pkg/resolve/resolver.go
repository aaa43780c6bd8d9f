package resolve

import (
	"dario.cat/mergo"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/broadsea-tools/broadseactl/pkg/template"
)

// Overrides is the merged view of every consulted override source,
// with per-key provenance for the winning value.
type Overrides struct {
	Values  map[string]string
	Sources map[string]string
}

// Resolver merges override providers into a template and validates the
// result.
type Resolver struct {
	logger zerolog.Logger
}

// New creates a Resolver.
func New(logger zerolog.Logger) *Resolver {
	return &Resolver{
		logger: logger.With().Str("component", "resolver").Logger(),
	}
}

// LoadOverrides consults providers in order and merges their values
// strictly later-wins. An optional provider that fails to load is
// skipped with a warning; a required one failing returns a SourceError
// and aborts the run.
func (r *Resolver) LoadOverrides(providers []Provider) (Overrides, error) {
	merged := Overrides{
		Values:  make(map[string]string),
		Sources: make(map[string]string),
	}

	for _, p := range providers {
		values, err := p.Load()
		if err != nil {
			if p.Optional() {
				r.logger.Warn().Err(err).Str("source", p.Name()).Msg("Skipping unreadable override source")
				continue
			}
			return Overrides{}, &SourceError{Source: p.Name(), Err: err}
		}

		if err := mergo.Merge(&merged.Values, values, mergo.WithOverride); err != nil {
			return Overrides{}, &SourceError{Source: p.Name(), Err: err}
		}
		for key := range values {
			merged.Sources[key] = p.Name()
		}

		r.logger.Debug().
			Str("source", p.Name()).
			Int("keys", len(values)).
			Msg("Override source loaded")
	}

	return merged, nil
}

// Resolve produces the validated configuration for tmpl: for each
// declared key the override value if present, else the declared
// default. Every problem is collected before failing, so the returned
// ValidationError carries the complete set of missing required keys and
// type violations.
func (r *Resolver) Resolve(tmpl *template.Template, overrides Overrides) (*Resolution, error) {
	r.warnUndeclared(tmpl, overrides)

	var (
		values     []Value
		missing    []string
		violations []TypeViolation
	)

	for _, spec := range tmpl.Keys {
		raw, overridden := overrides.Values[spec.Name]

		switch {
		case overridden:
			if err := spec.CheckValue(raw); err != nil {
				violations = append(violations, TypeViolation{
					Key:    spec.Name,
					Type:   spec.Type,
					Value:  raw,
					Source: overrides.Sources[spec.Name],
					Reason: err.Error(),
				})
				continue
			}
			values = append(values, Value{Key: spec.Name, Value: raw, Source: overrides.Sources[spec.Name]})

		case spec.HasDefault:
			values = append(values, Value{Key: spec.Name, Value: spec.Default, Source: SourceDefault})

		case spec.Required:
			missing = append(missing, spec.Name)

		default:
			// Optional key with neither override nor default: omitted
			// from the resolution entirely.
		}
	}

	if len(missing) > 0 || len(violations) > 0 {
		return nil, &ValidationError{Missing: missing, Violations: violations}
	}

	res := newResolution(uuid.New().String(), values)

	r.logger.Info().
		Str("run_id", res.RunID).
		Str("template", tmpl.Source).
		Int("keys", res.Len()).
		Msg("Configuration resolved")

	return res, nil
}

// warnUndeclared logs override keys that no template declaration
// recognizes. They are ignored rather than failing the run; typos are
// left to the operator to spot in the log.
func (r *Resolver) warnUndeclared(tmpl *template.Template, overrides Overrides) {
	for key := range overrides.Values {
		if _, ok := tmpl.Lookup(key); !ok {
			r.logger.Warn().
				Str("key", key).
				Str("source", overrides.Sources[key]).
				Msg("Ignoring override for undeclared key")
		}
	}
}
