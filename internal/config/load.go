package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"regexp"

	"gopkg.in/yaml.v3"
)

// matches $(VAR_NAME)
var envPattern = regexp.MustCompile(`\$\(([A-Za-z0-9_]+)\)`)

// replaces $(VAR) with os.Getenv(VAR)
func expandEnvVars(s string) string {
	return envPattern.ReplaceAllStringFunc(s, func(m string) string {
		key := mapEnvKey(envPattern.FindStringSubmatch(m)[1])
		return os.Getenv(key)
	})
}

// Load reads the YAML config at path on top of the defaults.
// A missing file is not an error: the defaults reproduce the plain
// "archive once, no frills" invocation.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	// expand $(ENV_VAR) placeholders
	expanded := expandEnvVars(string(data))

	if err := yaml.Unmarshal([]byte(expanded), cfg); err != nil {
		return nil, fmt.Errorf("unmarshalling yaml: %w", err)
	}

	fillDefaults(cfg)
	return cfg, nil
}

// fillDefaults restores required fields a sparse config file left empty.
func fillDefaults(cfg *Config) {
	def := Default()
	if cfg.Source.Dir == "" {
		cfg.Source.Dir = def.Source.Dir
	}
	if cfg.Source.Name == "" {
		cfg.Source.Name = def.Source.Name
	}
	if cfg.Source.Watch.Mode == "" {
		cfg.Source.Watch.Mode = def.Source.Watch.Mode
	}
	if cfg.Source.Watch.PollInterval == 0 {
		cfg.Source.Watch.PollInterval = def.Source.Watch.PollInterval
	}
	if cfg.Source.Watch.DebounceWindow == 0 {
		cfg.Source.Watch.DebounceWindow = def.Source.Watch.DebounceWindow
	}
	if cfg.Source.Watch.StabilityWindow == 0 {
		cfg.Source.Watch.StabilityWindow = def.Source.Watch.StabilityWindow
	}
	if cfg.Destination.Dir == "" {
		cfg.Destination.Dir = def.Destination.Dir
	}
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = def.Logging.Level
	}
}
