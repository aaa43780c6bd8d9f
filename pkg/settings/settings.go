package settings

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// DefaultPath is where Load looks when no settings file is named
// explicitly.
const DefaultPath = "broadseactl.yaml"

// Settings is the tool's own configuration.
type Settings struct {
	// Template is the default template path.
	Template string `yaml:"template" validate:"required"`

	// Overrides lists override files consulted in order, before the
	// environment.
	Overrides []string `yaml:"overrides"`

	// Output is the default environment file destination.
	Output string `yaml:"output" validate:"required"`

	// UseEnv controls whether the process environment is consulted as
	// the final override source.
	UseEnv bool `yaml:"use_env"`

	// Policy configures cross-key policy evaluation.
	Policy PolicySettings `yaml:"policy"`

	// History configures the render history database.
	History HistorySettings `yaml:"history"`

	// Logging configures log output.
	Logging LoggingSettings `yaml:"logging"`
}

// PolicySettings configures policy evaluation.
type PolicySettings struct {
	// Paths lists extra .rego files or directories.
	Paths []string `yaml:"paths"`

	// Mode is advisory (log and proceed) or enforcing (fail on
	// error-severity violations).
	Mode string `yaml:"mode" validate:"required,oneof=advisory enforcing"`
}

// HistorySettings configures the render history database.
type HistorySettings struct {
	// Enabled turns history recording on or off.
	Enabled bool `yaml:"enabled"`

	// Path is the SQLite database location.
	Path string `yaml:"path" validate:"required"`
}

// LoggingSettings configures log output.
type LoggingSettings struct {
	// Level is the minimum level: debug, info, warn, or error.
	Level string `yaml:"level" validate:"required,oneof=debug info warn error"`

	// Format is console or json.
	Format string `yaml:"format" validate:"required,oneof=console json"`
}

// Default returns the settings used when no file is present.
func Default() Settings {
	return Settings{
		Template: "broadsea.env.template",
		Output:   ".env",
		UseEnv:   true,
		Policy: PolicySettings{
			Mode: "advisory",
		},
		History: HistorySettings{
			Enabled: true,
			Path:    ".broadseactl/history.db",
		},
		Logging: LoggingSettings{
			Level:  "info",
			Format: "console",
		},
	}
}

// Load reads settings from path. An empty path means DefaultPath, and a
// missing file at DefaultPath is not an error; a missing file named
// explicitly is. Unknown fields in the file are rejected.
func Load(path string) (Settings, error) {
	explicit := path != ""
	if !explicit {
		path = DefaultPath
	}

	s := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) && !explicit {
			return s, nil
		}
		return Settings{}, fmt.Errorf("failed to read settings %s: %w", path, err)
	}

	if err := unmarshalStrict(data, &s); err != nil {
		return Settings{}, fmt.Errorf("failed to parse settings %s: %w", path, err)
	}

	if err := validator.New().Struct(&s); err != nil {
		return Settings{}, fmt.Errorf("invalid settings in %s: %w", path, err)
	}

	return s, nil
}

// unmarshalStrict decodes YAML into s, rejecting unknown fields. An
// empty document keeps the defaults already in s.
func unmarshalStrict(data []byte, s *Settings) error {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	err := dec.Decode(s)
	if errors.Is(err, io.EOF) {
		return nil
	}
	return err
}
