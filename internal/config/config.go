package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/fjglira/featureplan/internal/domain"
)

// Environment variables that override values from the config file.
const (
	EnvTagExpression = "FEATUREPLAN_TAG_EXPRESSION"
	EnvOutputFile    = "FEATUREPLAN_OUTPUT"
	EnvLogLevel      = "FEATUREPLAN_LOG_LEVEL"
)

// Config is the top-level configuration struct.
type Config struct {
	Input   InputConfig   `yaml:"input" toml:"input"`
	Filter  FilterConfig  `yaml:"filter" toml:"filter"`
	Output  OutputConfig  `yaml:"output" toml:"output"`
	Logging LoggingConfig `yaml:"logging" toml:"logging"`
	DryRun  bool          `yaml:"dry_run" toml:"dry_run"`
}

type InputConfig struct {
	// FeaturePaths are files or directories; a file may carry ":LINE" suffixes.
	FeaturePaths []string `yaml:"feature_paths" toml:"feature_paths"`
	Include      []string `yaml:"include" toml:"include"`
	Exclude      []string `yaml:"exclude" toml:"exclude"`
	Recursive    *bool    `yaml:"recursive" toml:"recursive"` // pointer to distinguish unset from false
	Jobs         int      `yaml:"jobs" toml:"jobs"`           // 0 means GOMAXPROCS
}

type FilterConfig struct {
	TagExpression string   `yaml:"tag_expression" toml:"tag_expression"`
	Names         []string `yaml:"names" toml:"names"`
}

type OutputConfig struct {
	// File receives the test plan; empty or "-" writes to stdout.
	File string `yaml:"file" toml:"file"`
}

type LoggingConfig struct {
	Level string `yaml:"level" toml:"level"`
	File  string `yaml:"file" toml:"file"`
}

// IsRecursive resolves the recursive flag, defaulting to true.
func (c InputConfig) IsRecursive() bool {
	if c.Recursive == nil {
		return true
	}
	return *c.Recursive
}

// Load reads a YAML or TOML configuration file and returns a Config.
// The format is chosen by extension; anything but ".toml" is read as YAML.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, domain.NewError(domain.PhaseConfig, path, 0, "failed to read config file", err)
	}

	cfg := DefaultConfig()
	if strings.EqualFold(filepath.Ext(path), ".toml") {
		if err := toml.Unmarshal(data, cfg); err != nil {
			return nil, domain.NewError(domain.PhaseConfig, path, 0, "failed to parse TOML config file", err)
		}
		return cfg, nil
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, domain.NewError(domain.PhaseConfig, path, 0, "failed to parse config file", err)
	}

	return cfg, nil
}

// ApplyEnv overrides config values from FEATUREPLAN_* environment variables.
// Empty variables are ignored.
func ApplyEnv(cfg *Config) {
	if v, ok := os.LookupEnv(EnvTagExpression); ok && v != "" {
		cfg.Filter.TagExpression = v
	}
	if v, ok := os.LookupEnv(EnvOutputFile); ok && v != "" {
		cfg.Output.File = v
	}
	if v, ok := os.LookupEnv(EnvLogLevel); ok && v != "" {
		cfg.Logging.Level = v
	}
}
