// Package errors provides error types for globe.
// This file contains configuration and account errors.
package errors

import (
	"fmt"
	"strings"
)

// Configuration-related error constructors.

// ConfigParseError creates an error for YAML parsing failures.
func ConfigParseError(configPath string, parseErr error) *GlobeError {
	return &GlobeError{
		Kind:    ErrConfig,
		Message: fmt.Sprintf("failed to parse configuration: %s", configPath),
		Cause:   parseErr,
		Details: map[string]string{
			"path": configPath,
		},
		Suggestion: `Check your config.yaml for syntax errors:
  1. Ensure proper YAML indentation (use spaces, not tabs)
  2. String values with special chars need quotes
  3. Durations use Go syntax, e.g. 30s or 2m`,
	}
}

// ConfigValidationError creates an error for invalid configuration values.
func ConfigValidationError(field, message string, validOptions []string) *GlobeError {
	suggestion := fmt.Sprintf("Fix the %q field in your globe config", field)
	if len(validOptions) > 0 {
		suggestion += fmt.Sprintf("\n  Valid options: %s", strings.Join(validOptions, ", "))
	}

	return &GlobeError{
		Kind:    ErrConfig,
		Message: fmt.Sprintf("invalid configuration: %s", message),
		Details: map[string]string{
			"field": field,
		},
		Suggestion: suggestion,
	}
}

// Account-related error constructors.

// NotSignedIn creates an error for commands that need a session.
func NotSignedIn() *GlobeError {
	return &GlobeError{
		Kind:       ErrAuth,
		Message:    "not signed in",
		Suggestion: "Sign in first:\n  globe login",
	}
}

// Validation creates an error for input rejected before submission.
func Validation(field, message string) *GlobeError {
	return &GlobeError{
		Kind:    ErrValidation,
		Message: message,
		Details: map[string]string{
			"field": field,
		},
	}
}

// StorageFailure wraps a local storage error.
func StorageFailure(path string, cause error) *GlobeError {
	err := &GlobeError{
		Kind:    ErrStorage,
		Message: "local storage failure",
		Cause:   cause,
	}
	if path != "" {
		err.Details = map[string]string{"path": path}
	}
	return err
}
