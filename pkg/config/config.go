// Package config loads a RunConfig in two layers: built-in defaults, then an
// optional YAML file that replaces only the fields it actually sets. There is
// no flag or environment-variable layer.
package config

import (
	"os"

	"gopkg.in/yaml.v3"

	"github.com/qcore-lang/qcore/pkg/logging"
)

// RunConfig holds everything a single eval/resolve run needs that isn't
// part of the program itself: which namespaces the prelude opens
// implicitly, how the debugger should start, and the ambient RNG/logging
// setup.
type RunConfig struct {
	Prelude     []string `yaml:"prelude"`
	InitialStep string   `yaml:"initial_step"`
	Seed        int64    `yaml:"seed"`
	LogLevel    string   `yaml:"log_level"`
	LogFormat   string   `yaml:"log_format"`
}

// DefaultPrelude is the fixed three-namespace prelude opened implicitly
// when no config file overrides it.
var DefaultPrelude = []string{"Std.Core", "Std.Intrinsic", "Std.Measurement"}

// Default returns the built-in baseline every RunConfig starts from.
func Default() RunConfig {
	return RunConfig{
		Prelude:     append([]string(nil), DefaultPrelude...),
		InitialStep: "continue",
		Seed:        0,
		LogLevel:    "info",
		LogFormat:   "text",
	}
}

// LoadFile overlays a YAML config file onto cfg, leaving fields the file
// doesn't mention untouched. A missing path is not an error: it's the same
// as running with no config file at all.
func LoadFile(cfg RunConfig, path string) (RunConfig, error) {
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// LogLevelValue maps the config's string LogLevel to logging.LogLevel,
// defaulting to Info on an unrecognized value.
func (c RunConfig) LogLevelValue() logging.LogLevel {
	switch c.LogLevel {
	case "debug":
		return logging.DEBUG
	case "warn":
		return logging.WARN
	case "error":
		return logging.ERROR
	case "fatal":
		return logging.FATAL
	default:
		return logging.INFO
	}
}

// LogFormatValue maps the config's string LogFormat to logging.LogFormat,
// defaulting to TextFormat on an unrecognized value.
func (c RunConfig) LogFormatValue() logging.LogFormat {
	if c.LogFormat == "json" {
		return logging.JSONFormat
	}
	return logging.TextFormat
}

// SeedOrTime returns Seed unless it's 0, in which case it returns
// nowUnixNano as a time-derived seed. Nothing records or prints the derived
// seed.
func (c RunConfig) SeedOrTime(nowUnixNano int64) int64 {
	if c.Seed != 0 {
		return c.Seed
	}
	return nowUnixNano
}
