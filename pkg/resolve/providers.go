package resolve

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
)

// Provider is one source of override values for declared keys.
type Provider interface {
	// Name identifies the source in logs, provenance, and errors.
	Name() string

	// Optional reports whether a load failure should skip the source
	// instead of failing the run.
	Optional() bool

	// Load returns the raw key/value pairs the source supplies.
	Load() (map[string]string, error)
}

// FileProvider reads overrides from a KEY=VALUE file.
type FileProvider struct {
	// Path is the override file location.
	Path string

	// Required makes an unreadable file fatal instead of skipped.
	Required bool
}

// Name implements Provider.
func (p FileProvider) Name() string {
	return "file:" + p.Path
}

// Optional implements Provider.
func (p FileProvider) Optional() bool {
	return !p.Required
}

// Load implements Provider using the dotenv grammar, which matches both
// the emitted output format and hand-written override files.
func (p FileProvider) Load() (map[string]string, error) {
	values, err := godotenv.Read(p.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to read override file: %w", err)
	}
	return values, nil
}

// EnvProvider reads overrides from the process environment, restricted
// to the declared key names so unrelated environment variables never
// leak into the configuration.
type EnvProvider struct {
	keys   []string
	lookup func(string) (string, bool)
}

// NewEnvProvider creates an environment provider for the given declared
// key names.
func NewEnvProvider(keys []string) EnvProvider {
	return EnvProvider{keys: keys, lookup: os.LookupEnv}
}

// Name implements Provider.
func (p EnvProvider) Name() string {
	return "env"
}

// Optional implements Provider. The environment is always readable, so
// the flag never matters in practice.
func (p EnvProvider) Optional() bool {
	return true
}

// Load implements Provider.
func (p EnvProvider) Load() (map[string]string, error) {
	values := make(map[string]string)
	for _, key := range p.keys {
		if v, ok := p.lookup(key); ok {
			values[key] = v
		}
	}
	return values, nil
}
