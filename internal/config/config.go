package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	yamlv3 "gopkg.in/yaml.v3"

	"github.com/ziadkadry99/magic8ball/internal/oracle"
)

// EnvPrefix is the prefix of environment variable overrides.
const EnvPrefix = "MAGIC8BALL_"

// Load reads configuration from the given YAML file, then overlays
// environment variable overrides (MAGIC8BALL_*). A missing file yields the
// defaults.
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	cfg := DefaultConfig()

	if _, err := os.Stat(path); err == nil {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("reading config %s: %w", path, err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("accessing config %s: %w", path, err)
	}

	// MAGIC8BALL_SESSION_DIR -> session_dir, MAGIC8BALL_ANIMATION_ENABLED -> animation.enabled.
	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return nil, fmt.Errorf("loading env overrides: %w", err)
	}

	// Configured maps replace the built-in ones instead of merging into them.
	if k.Exists("weights") {
		cfg.Weights = nil
	}
	if k.Exists("responses") {
		cfg.Responses = nil
	}

	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("unmarshalling config: %w", err)
	}

	return cfg, nil
}

func envKey(s string) string {
	key := strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	if strings.HasPrefix(key, "animation_") {
		key = "animation." + strings.TrimPrefix(key, "animation_")
	}
	return key
}

// LoadResponses reads a response catalog file mapping category names to
// phrase lists. YAML and JSON are both accepted.
func LoadResponses(path string) (map[string][]string, error) {
	k := koanf.New(".")
	if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
		return nil, fmt.Errorf("reading responses %s: %w", path, err)
	}
	out := map[string][]string{}
	if err := k.Unmarshal("", &out); err != nil {
		return nil, fmt.Errorf("unmarshalling responses %s: %w", path, err)
	}
	return out, nil
}

// Save writes the configuration to the given YAML file path.
func (c *Config) Save(path string) error {
	data, err := yamlv3.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshalling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config to %s: %w", path, err)
	}
	return nil
}

// Validate checks the non-catalog settings. Catalog and weights are checked
// by oracle.Resolve.
func (c *Config) Validate() error {
	if c.SessionDir == "" {
		return fmt.Errorf("session_dir is required")
	}
	return c.Animation.Validate()
}

// Validate checks that the animation can be rendered.
func (a AnimationConfig) Validate() error {
	if !a.Enabled {
		return nil
	}
	if len(a.Symbols) == 0 {
		return fmt.Errorf("animation.symbols must not be empty")
	}
	if a.Cycles < 0 {
		return fmt.Errorf("animation.cycles must be non-negative")
	}
	if a.Width <= 0 {
		return fmt.Errorf("animation.width must be positive")
	}
	if a.Delay < 0 || a.RevealDelay < 0 {
		return fmt.Errorf("animation delays must be non-negative")
	}
	return nil
}

// Resolved is the outcome of loading configuration: values that are always
// usable, plus every problem that forced a fallback.
type Resolved struct {
	Config   *Config
	Catalog  oracle.Catalog
	Weights  oracle.Weights
	Warnings []error
}

// Degraded reports whether any built-in default replaced configured values.
func (r *Resolved) Degraded() bool { return len(r.Warnings) > 0 }

// Resolve loads the config at path and turns it into a catalog and weight
// table that can serve answers. It never fails: unreadable or invalid
// sources are replaced by built-in defaults and reported in Warnings.
func Resolve(path string) *Resolved {
	r := &Resolved{}

	cfg, err := Load(path)
	if err != nil {
		r.Warnings = append(r.Warnings, fmt.Errorf("%w; using built-in defaults", err))
		cfg = DefaultConfig()
	}

	responses := cfg.Responses
	if cfg.ResponsesFile != "" {
		fromFile, err := LoadResponses(responsesPath(path, cfg.ResponsesFile))
		if err != nil {
			r.Warnings = append(r.Warnings, err)
		} else {
			responses = fromFile
		}
	}

	catalog, weights, warnings := oracle.Resolve(responses, cfg.Weights)
	r.Warnings = append(r.Warnings, warnings...)

	if err := cfg.Animation.Validate(); err != nil {
		r.Warnings = append(r.Warnings, fmt.Errorf("%w; using built-in animation", err))
		cfg.Animation = DefaultAnimation()
	}
	if cfg.SessionDir == "" {
		r.Warnings = append(r.Warnings, fmt.Errorf("session_dir is empty; using current directory"))
		cfg.SessionDir = "."
	}

	r.Config = cfg
	r.Catalog = catalog
	r.Weights = weights
	return r
}

// responsesPath resolves a relative responses file against the directory of
// the config file that names it.
func responsesPath(configPath, responsesFile string) string {
	if filepath.IsAbs(responsesFile) {
		return responsesFile
	}
	return filepath.Join(filepath.Dir(configPath), responsesFile)
}
