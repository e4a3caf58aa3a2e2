package config

import (
	"fmt"
	"slices"
	"strings"

	"github.com/gobwas/glob"
)

// ValidationError represents a single validation failure
type ValidationError struct {
	Field   string // The config field path (e.g., "patching.failure_policy")
	Value   any    // The invalid value
	Message string // Human-readable error description
}

// Error implements the error interface for ValidationError
func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s (got: %v)", e.Field, e.Message, e.Value)
}

// ValidationErrors is a collection of validation errors
type ValidationErrors []ValidationError

// Error implements the error interface for ValidationErrors
func (e ValidationErrors) Error() string {
	if len(e) == 0 {
		return ""
	}
	if len(e) == 1 {
		return e[0].Error()
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%d validation errors:\n", len(e)))
	for i, err := range e {
		sb.WriteString(fmt.Sprintf("  %d. %s\n", i+1, err.Error()))
	}
	return sb.String()
}

// ValidLogLevels returns the list of valid log levels
func ValidLogLevels() []string {
	return []string{"debug", "info", "warn", "error"}
}

// ValidFailurePolicies returns the list of valid failure policy overrides.
// The empty string keeps each edit's own policy.
func ValidFailurePolicies() []string {
	return []string{"", "suppress", "propagate"}
}

// ValidColorModes returns the list of valid output color modes
func ValidColorModes() []string {
	return []string{"auto", "always", "never"}
}

// Validate checks the Config for invalid values and returns all validation errors found
func (c *Config) Validate() []ValidationError {
	var errors []ValidationError

	// Validate Patching config
	errors = append(errors, c.validatePatching()...)

	// Validate Logging config
	errors = append(errors, c.validateLogging()...)

	// Validate Output config
	errors = append(errors, c.validateOutput()...)

	return errors
}

// validatePatching validates the PatchingConfig
func (c *Config) validatePatching() []ValidationError {
	var errors []ValidationError

	if !slices.Contains(ValidFailurePolicies(), c.Patching.FailurePolicy) {
		errors = append(errors, ValidationError{
			Field:   "patching.failure_policy",
			Value:   c.Patching.FailurePolicy,
			Message: "must be empty, suppress, or propagate",
		})
	}

	for i, pattern := range c.Patching.Edits {
		field := fmt.Sprintf("patching.edits[%d]", i)
		if strings.TrimSpace(pattern) == "" {
			errors = append(errors, ValidationError{
				Field:   field,
				Value:   pattern,
				Message: "pattern cannot be empty",
			})
			continue
		}
		if _, err := glob.Compile(pattern); err != nil {
			errors = append(errors, ValidationError{
				Field:   field,
				Value:   pattern,
				Message: fmt.Sprintf("invalid glob pattern: %v", err),
			})
		}
	}

	return errors
}

// validateLogging validates the LoggingConfig
func (c *Config) validateLogging() []ValidationError {
	var errors []ValidationError

	// Validate log level
	if c.Logging.Level != "" && !slices.Contains(ValidLogLevels(), c.Logging.Level) {
		errors = append(errors, ValidationError{
			Field:   "logging.level",
			Value:   c.Logging.Level,
			Message: fmt.Sprintf("must be one of: %s", strings.Join(ValidLogLevels(), ", ")),
		})
	}

	if dir := c.Logging.Dir; dir != "" {
		// Check for null bytes which are invalid in paths
		if strings.ContainsRune(dir, '\x00') {
			errors = append(errors, ValidationError{
				Field:   "logging.dir",
				Value:   dir,
				Message: "path contains invalid null character",
			})
		}

		// Reasonable path length limit (most filesystems have limits around 4096)
		const maxPathLength = 4096
		if len(dir) > maxPathLength {
			errors = append(errors, ValidationError{
				Field:   "logging.dir",
				Value:   dir,
				Message: fmt.Sprintf("path exceeds maximum length of %d characters", maxPathLength),
			})
		}
	}

	return errors
}

// validateOutput validates the OutputConfig
func (c *Config) validateOutput() []ValidationError {
	var errors []ValidationError

	if !slices.Contains(ValidColorModes(), c.Output.Color) {
		errors = append(errors, ValidationError{
			Field:   "output.color",
			Value:   c.Output.Color,
			Message: fmt.Sprintf("must be one of: %s", strings.Join(ValidColorModes(), ", ")),
		})
	}

	return errors
}
