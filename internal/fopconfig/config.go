// Package fopconfig loads a fop.yaml configuration file supplying
// defaults for cmd/fop flags. CLI flags always override config values.
package fopconfig

import (
	"fmt"
	"time"
)

// Config represents a fop.yaml file. Every field is optional and acts
// as a default for the corresponding cmd/fop flag.
type Config struct {
	Recipe  string        `yaml:"recipe"`
	AsText  *bool         `yaml:"as_text"`
	Guard   GuardConfig   `yaml:"guard"`
	Scan    ScanConfig    `yaml:"scan"`
	Bounded BoundedConfig `yaml:"bounded"`
	Notify  NotifyConfig  `yaml:"notify"`
	Sink    SinkConfig    `yaml:"sink"`
}

// GuardConfig configures Parse and Guard's strictness.
type GuardConfig struct {
	Mode     bool `yaml:"mode"`
	FailFast bool `yaml:"fail_fast"`
}

// ScanConfig configures Glob's scan concurrency.
type ScanConfig struct {
	Permits int `yaml:"permits"`
}

// BoundedConfig configures recipe.ExecReadExecBounded's shared pool.
type BoundedConfig struct {
	Concurrency int      `yaml:"concurrency"`
	Timeout     Duration `yaml:"timeout"`
}

// NotifyConfig configures the optional pipeline-completion notifier.
type NotifyConfig struct {
	Type    string            `yaml:"type"`
	URL     string            `yaml:"url"`
	Channel string            `yaml:"channel,omitempty"`
	Headers map[string]string `yaml:"headers,omitempty"`
	Timeout Duration          `yaml:"timeout,omitempty"`
	Retries *int              `yaml:"retries,omitempty"`
}

// SinkConfig configures an optional terminal fs/S3 sink for pipeline
// output.
type SinkConfig struct {
	Backend  string `yaml:"backend"`
	Path     string `yaml:"path"`
	Bucket   string `yaml:"bucket"`
	Prefix   string `yaml:"prefix"`
	Region   string `yaml:"region"`
	Endpoint string `yaml:"endpoint"`
	PathStyle bool  `yaml:"path_style"`
}

// Duration wraps time.Duration for YAML string parsing (e.g. "10s").
type Duration struct {
	time.Duration
}

// UnmarshalYAML parses a duration string like "10s" or "5m30s".
func (d *Duration) UnmarshalYAML(unmarshal func(any) error) error {
	var s string
	if err := unmarshal(&s); err != nil {
		return err
	}
	if s == "" {
		return nil
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", s, err)
	}
	d.Duration = parsed
	return nil
}
