package config

import (
	"fmt"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Source      SourceConfig      `yaml:"source"`
	Destination DestinationConfig `yaml:"destination"`
	Logging     LoggingConfig     `yaml:"logging"`
	Schedule    string            `yaml:"schedule"` // cron expression, empty = disabled
}

type SourceConfig struct {
	Dir   string      `yaml:"dir"`
	Name  string      `yaml:"name"`
	Watch WatchConfig `yaml:"watch"`
}

type WatchConfig struct {
	Enabled         bool     `yaml:"enabled"`
	Mode            string   `yaml:"mode"`            // "auto", "poll", "fsnotify"
	PollInterval    Duration `yaml:"pollInterval"`    // e.g. 5s
	DebounceWindow  Duration `yaml:"debounceWindow"`  // e.g. 500ms
	StabilityWindow Duration `yaml:"stabilityWindow"` // e.g. 1s
}

type DestinationConfig struct {
	Dir       string          `yaml:"dir"`
	Retention RetentionConfig `yaml:"retention"`
}

type RetentionConfig struct {
	Keep int `yaml:"keep"` // 0 = keep everything
}

type LoggingConfig struct {
	Level string `yaml:"level"` // "debug", "info", "warn", "error"
}

// Duration wraps time.Duration so YAML values like "5s" parse.
type Duration time.Duration

func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("parsing duration %q: %w", s, err)
	}
	*d = Duration(parsed)
	return nil
}

func (d Duration) Std() time.Duration { return time.Duration(d) }

// Daemon reports whether the config asks for a long-running process
// instead of a single archive run.
func (c *Config) Daemon() bool {
	return c.Source.Watch.Enabled || c.Schedule != ""
}

// Default returns the configuration matching a bare invocation:
// archive ./archive.db into ./archive/ once, keep everything.
func Default() *Config {
	return &Config{
		Source: SourceConfig{
			Dir:  ".",
			Name: "archive.db",
			Watch: WatchConfig{
				Mode:            "auto",
				PollInterval:    Duration(5 * time.Second),
				DebounceWindow:  Duration(500 * time.Millisecond),
				StabilityWindow: Duration(time.Second),
			},
		},
		Destination: DestinationConfig{
			Dir: "archive",
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}
