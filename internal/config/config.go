// Package config holds the extraction settings shared by the CLI and the
// config file, and loads them from defaults, a YAML or JSON file and
// COLOURSKIM_* environment variables, in that order.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// EnvPrefix prefixes every environment variable read by ApplyEnv.
const EnvPrefix = "COLOURSKIM_"

// Config is the full set of extraction settings.
type Config struct {
	Algorithm     string  `yaml:"algorithm" json:"algorithm"`
	Init          string  `yaml:"init" json:"init"`
	Space         string  `yaml:"space" json:"space"`
	Colours       string  `yaml:"colours" json:"colours"`
	Selection     string  `yaml:"selection" json:"selection"`
	Criterion     string  `yaml:"criterion" json:"criterion"`
	Resolution    float64 `yaml:"resolution" json:"resolution"`
	MaxPoints     int     `yaml:"max_points" json:"max_points"`
	SampleMethod  string  `yaml:"sample_method" json:"sample_method"`
	SeedMode      string  `yaml:"seed_mode" json:"seed_mode"`
	Seed          *int64  `yaml:"seed" json:"seed"`
	MaxIterations int     `yaml:"max_iterations" json:"max_iterations"`
	Parallelism   int     `yaml:"parallelism" json:"parallelism"`
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		Algorithm:     "macqueen",
		Init:          "kmeans++",
		Space:         "oklab",
		Colours:       "6",
		Selection:     "sampled",
		Criterion:     "elbow",
		Resolution:    1,
		MaxPoints:     1000 * 1000,
		SampleMethod:  "stride",
		SeedMode:      "content",
		MaxIterations: 1000,
	}
}

// DefaultPath returns $XDG_CONFIG_HOME/colourskim/config.yaml or its
// platform equivalent.
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("failed to locate config directory: %w", err)
	}
	return filepath.Join(dir, "colourskim", "config.yaml"), nil
}

// LoadFile overlays the settings in path onto cfg. Keys missing from the
// file keep their current value.
func LoadFile(path string, cfg *Config) error {
	data, err := os.ReadFile(expandPath(path)) // #nosec G304 - User-specified config file, intended to be read
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		if err := json.Unmarshal(data, cfg); err != nil {
			return fmt.Errorf("failed to parse JSON config: %w", err)
		}
	default:
		// YAML is a superset of JSON, so this also covers unknown extensions.
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return fmt.Errorf("failed to parse YAML config: %w", err)
		}
	}
	return nil
}

// ApplyEnv overlays COLOURSKIM_* variables found by lookup onto cfg.
func ApplyEnv(cfg *Config, lookup func(string) (string, bool)) error {
	str := func(key string, dst *string) {
		if v, ok := lookup(EnvPrefix + key); ok && v != "" {
			*dst = v
		}
	}
	integer := func(key string, dst *int) error {
		v, ok := lookup(EnvPrefix + key)
		if !ok || v == "" {
			return nil
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid %s%s: %w", EnvPrefix, key, err)
		}
		*dst = n
		return nil
	}

	str("ALGORITHM", &cfg.Algorithm)
	str("INIT", &cfg.Init)
	str("SPACE", &cfg.Space)
	str("COLOURS", &cfg.Colours)
	str("SELECTION", &cfg.Selection)
	str("CRITERION", &cfg.Criterion)
	str("SAMPLE_METHOD", &cfg.SampleMethod)
	str("SEED_MODE", &cfg.SeedMode)

	if v, ok := lookup(EnvPrefix + "RESOLUTION"); ok && v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("invalid %sRESOLUTION: %w", EnvPrefix, err)
		}
		cfg.Resolution = f
	}
	if v, ok := lookup(EnvPrefix + "SEED"); ok && v != "" {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return fmt.Errorf("invalid %sSEED: %w", EnvPrefix, err)
		}
		cfg.Seed = &n
	}
	for key, dst := range map[string]*int{
		"MAX_POINTS":     &cfg.MaxPoints,
		"MAX_ITERATIONS": &cfg.MaxIterations,
		"PARALLELISM":    &cfg.Parallelism,
	} {
		if err := integer(key, dst); err != nil {
			return err
		}
	}
	return nil
}

// Builder assembles a Config from its sources.
type Builder struct {
	path     string
	optional bool
	lookup   func(string) (string, bool)
}

// NewBuilder starts from Default.
func NewBuilder() *Builder {
	return &Builder{}
}

// WithFile reads path after the defaults. With optional set, a missing file
// is not an error.
func (b *Builder) WithFile(path string, optional bool) *Builder {
	b.path = path
	b.optional = optional
	return b
}

// WithEnv reads environment variables through lookup after the file.
// Pass os.LookupEnv for the process environment.
func (b *Builder) WithEnv(lookup func(string) (string, bool)) *Builder {
	b.lookup = lookup
	return b
}

// Build returns the assembled Config.
func (b *Builder) Build() (Config, error) {
	cfg := Default()
	if b.path != "" {
		if _, err := os.Stat(expandPath(b.path)); err == nil || !b.optional {
			if err := LoadFile(b.path, &cfg); err != nil {
				return Config{}, err
			}
		}
	}
	if b.lookup != nil {
		if err := ApplyEnv(&cfg, b.lookup); err != nil {
			return Config{}, err
		}
	}
	return cfg, nil
}

// expandPath expands a leading ~ to the home directory.
func expandPath(path string) string {
	if path == "~" || strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, strings.TrimPrefix(path, "~"))
		}
	}
	return path
}
