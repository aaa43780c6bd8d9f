package commands

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/broadsea-tools/broadseactl/pkg/policy"
	"github.com/broadsea-tools/broadseactl/pkg/resolve"
	"github.com/broadsea-tools/broadseactl/pkg/settings"
	"github.com/broadsea-tools/broadseactl/pkg/template"
)

// pipelineFlags are the per-command knobs shared by every subcommand
// that resolves a configuration. Empty values defer to the settings
// file.
type pipelineFlags struct {
	templatePath  string
	overridePaths []string
	noEnv         bool
	policyPaths   []string
	policyMode    string
}

// effective folds the settings file under the flags.
func (f *pipelineFlags) effective(s settings.Settings) (templatePath string, overridePaths []string, useEnv bool, policyPaths []string, policyMode string) {
	templatePath = f.templatePath
	if templatePath == "" {
		templatePath = s.Template
	}
	overridePaths = f.overridePaths
	if len(overridePaths) == 0 {
		overridePaths = s.Overrides
	}
	useEnv = s.UseEnv && !f.noEnv
	policyPaths = append(append([]string{}, s.Policy.Paths...), f.policyPaths...)
	policyMode = f.policyMode
	if policyMode == "" {
		policyMode = s.Policy.Mode
	}
	return
}

// resolvePipeline runs template load, override merge, and typed
// resolution: the common front half of render, validate, diff, and
// watch.
func resolvePipeline(templatePath string, overridePaths []string, useEnv bool) (*template.Template, *resolve.Resolution, error) {
	tmpl, err := template.Load(templatePath)
	if err != nil {
		return nil, nil, err
	}

	providers := make([]resolve.Provider, 0, len(overridePaths)+1)
	for _, p := range overridePaths {
		providers = append(providers, resolve.FileProvider{Path: p, Required: true})
	}
	// The environment is consulted last, so it wins over files.
	if useEnv {
		providers = append(providers, resolve.NewEnvProvider(tmpl.Names()))
	}

	resolver := resolve.New(log.Logger)
	overrides, err := resolver.LoadOverrides(providers)
	if err != nil {
		return nil, nil, err
	}

	res, err := resolver.Resolve(tmpl, overrides)
	if err != nil {
		return nil, nil, err
	}

	return tmpl, res, nil
}

// runPolicies evaluates cross-key policies against a resolution. In
// enforcing mode error-severity violations fail the run; in advisory
// mode everything is logged and the run proceeds.
func runPolicies(ctx context.Context, res *resolve.Resolution, paths []string, mode string) error {
	parsedMode, err := policy.ParseMode(mode)
	if err != nil {
		return err
	}

	engine := policy.NewEngine(log.Logger)
	if err := engine.LoadPolicies(paths); err != nil {
		return err
	}

	result, err := engine.Evaluate(ctx, res.Map())
	if err != nil {
		return err
	}

	for _, v := range result.Violations {
		event := log.Warn()
		if v.Severity == policy.SeverityError {
			event = log.Error()
		}
		event.
			Str("policy", v.Policy).
			Str("key", v.Key).
			Str("severity", string(v.Severity)).
			Msg(v.Message)
	}

	if parsedMode == policy.ModeEnforcing && !result.Allowed {
		return fmt.Errorf("policy check failed: %d error-severity violation(s)", len(result.Errors()))
	}

	return nil
}

// loadSettings resolves the settings file named by the global flag.
func loadSettings() (settings.Settings, error) {
	return settings.Load(settingsPath)
}
