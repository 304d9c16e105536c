package config

import (
	"fmt"
	"regexp"
	"strings"

	tagexpressions "github.com/cucumber/tag-expressions/go/v6"

	"github.com/fjglira/featureplan/internal/domain"
)

// Validate checks the Config for required fields and valid values.
func Validate(cfg *Config) error {
	var errs []string

	// Input validation
	if len(cfg.Input.FeaturePaths) == 0 {
		errs = append(errs, "input.feature_paths must not be empty")
	}
	for i, p := range cfg.Input.FeaturePaths {
		if strings.TrimSpace(p) == "" {
			errs = append(errs, fmt.Sprintf("input.feature_paths[%d] must not be blank", i))
		}
	}
	if len(cfg.Input.Include) == 0 {
		errs = append(errs, "input.include must not be empty")
	}
	if cfg.Input.Jobs < 0 {
		errs = append(errs, fmt.Sprintf("input.jobs must not be negative (got %d)", cfg.Input.Jobs))
	}

	// Filter validation
	if strings.TrimSpace(cfg.Filter.TagExpression) != "" {
		if _, err := tagexpressions.Parse(cfg.Filter.TagExpression); err != nil {
			errs = append(errs, fmt.Sprintf("filter.tag_expression is not a valid tag expression: %v", err))
		}
	}
	for i, name := range cfg.Filter.Names {
		if _, err := regexp.Compile(name); err != nil {
			errs = append(errs, fmt.Sprintf("filter.names[%d] is not a valid regex: %v", i, err))
		}
	}

	// Validate logging level
	if cfg.Logging.Level != "" {
		validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
		if !validLevels[cfg.Logging.Level] {
			errs = append(errs, fmt.Sprintf("logging.level must be one of: debug, info, warn, error (got %q)", cfg.Logging.Level))
		}
	}

	if len(errs) > 0 {
		return domain.NewError(domain.PhaseConfig, "", 0, fmt.Sprintf("validation failed: %s", strings.Join(errs, "; ")), nil)
	}

	return nil
}
