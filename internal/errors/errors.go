// Package errors provides error types with actionable suggestions for globe.
// Errors carry a kind, a user-facing message and optional context so the CLI
// can print something useful and the TUI can decide how to react.
package errors

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// Common sentinel errors for use with errors.Is().
var (
	// ErrAuth indicates an authentication failure (bad credentials, expired token).
	ErrAuth = errors.New("authentication error")
	// ErrConfig indicates a configuration error.
	ErrConfig = errors.New("configuration error")
	// ErrNetwork indicates a transport failure or a non-2xx response.
	ErrNetwork = errors.New("network error")
	// ErrParse indicates a response body that could not be decoded.
	ErrParse = errors.New("parse error")
	// ErrValidation indicates input rejected before it was submitted.
	ErrValidation = errors.New("validation error")
	// ErrNotFound indicates a resource was not found.
	ErrNotFound = errors.New("not found")
	// ErrStorage indicates a local storage failure.
	ErrStorage = errors.New("storage error")
)

// GlobeError is the base error type for globe errors.
// It wraps an underlying error and provides additional context.
type GlobeError struct {
	// Kind is the category of error (e.g., ErrAuth, ErrNetwork).
	Kind error
	// Message is the human-readable error message.
	Message string
	// Suggestion provides actionable advice for resolving the error.
	Suggestion string
	// Cause is the underlying error that caused this error.
	Cause error
	// Details provides additional context (e.g., url, status code).
	Details map[string]string
}

// Error implements the error interface.
func (e *GlobeError) Error() string {
	if e.Cause != nil && e.Cause.Error() != e.Message {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

// Unwrap returns the underlying cause for use with errors.Is/errors.As.
func (e *GlobeError) Unwrap() error {
	if e.Cause != nil {
		return e.Cause
	}
	return e.Kind
}

// Is reports whether the error's kind matches the target.
func (e *GlobeError) Is(target error) bool {
	return errors.Is(e.Kind, target)
}

// Format returns a formatted error message with details and suggestions.
func (e *GlobeError) Format() string {
	var sb strings.Builder

	sb.WriteString("Error: ")
	sb.WriteString(e.Error())
	sb.WriteString("\n")

	if len(e.Details) > 0 {
		keys := make([]string, 0, len(e.Details))
		for k := range e.Details {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		sb.WriteString("\nDetails:\n")
		for _, k := range keys {
			sb.WriteString(fmt.Sprintf("  %s: %s\n", k, e.Details[k]))
		}
	}

	if e.Suggestion != "" {
		sb.WriteString("\n💡 Suggestion: ")
		sb.WriteString(e.Suggestion)
		sb.WriteString("\n")
	}

	return sb.String()
}

// WithDetails adds details to the error.
func (e *GlobeError) WithDetails(key, value string) *GlobeError {
	if e.Details == nil {
		e.Details = make(map[string]string)
	}
	e.Details[key] = value
	return e
}

// WithCause sets the underlying cause of the error.
func (e *GlobeError) WithCause(cause error) *GlobeError {
	e.Cause = cause
	return e
}

// New creates a new GlobeError with the given kind and message.
func New(kind error, message string) *GlobeError {
	return &GlobeError{
		Kind:    kind,
		Message: message,
	}
}

// Wrap wraps an existing error with additional context.
func Wrap(err error, kind error, message string) *GlobeError {
	return &GlobeError{
		Kind:    kind,
		Message: message,
		Cause:   err,
	}
}

// WithSuggestion creates a new error with a suggestion.
func WithSuggestion(kind error, message, suggestion string) *GlobeError {
	return &GlobeError{
		Kind:       kind,
		Message:    message,
		Suggestion: suggestion,
	}
}

// Format renders any error for terminal output. GlobeErrors get their
// details and suggestion; anything else is printed as a plain message.
func Format(err error) string {
	if err == nil {
		return ""
	}
	var ge *GlobeError
	if errors.As(err, &ge) {
		return ge.Format()
	}
	return "Error: " + err.Error() + "\n"
}

// IsUserError returns true if the error is due to user input or configuration.
func IsUserError(err error) bool {
	var ge *GlobeError
	if !errors.As(err, &ge) {
		return false
	}
	switch ge.Kind {
	case ErrConfig, ErrAuth, ErrValidation:
		return true
	default:
		return false
	}
}
