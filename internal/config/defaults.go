package config

// DefaultConfig returns a Config with sensible default values.
func DefaultConfig() *Config {
	recursive := true
	return &Config{
		Input: InputConfig{
			FeaturePaths: []string{"features"},
			Include:      []string{"*.feature", "*.feature.md"},
			Exclude:      []string{"vendor/**", "node_modules/**"},
			Recursive:    &recursive,
		},
		Filter: FilterConfig{},
		Output: OutputConfig{
			File: "-",
		},
		Logging: LoggingConfig{
			Level: "info",
		},
		DryRun: false,
	}
}
