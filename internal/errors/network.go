// Package errors provides error types for globe.
// This file contains network and backend response errors.
package errors

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
)

// StatusError is a non-2xx response from the backend. Message is the
// server-provided "error" field, or a generic status message when the body
// could not be parsed. ServerMessage is empty in the latter case.
type StatusError struct {
	Status        int
	Message       string
	ServerMessage string
}

func (e *StatusError) Error() string {
	return e.Message
}

// GenericStatusMessage is the fallback message for a failed response whose
// body carries no usable error.
func GenericStatusMessage(status int) string {
	return fmt.Sprintf("HTTP error! status: %d", status)
}

// Network-related error constructors.

// NetworkUnavailable creates an error for connectivity issues.
func NetworkUnavailable(url string, cause error) *GlobeError {
	err := &GlobeError{
		Kind:    ErrNetwork,
		Message: "request failed",
		Cause:   cause,
		Suggestion: `Check that the countries service is reachable:

  1. Verify the base URL: globe --api-url http://host:port
     (or set GLOBE_API_URL)
  2. For local development start the bundled backend: countryd`,
	}
	if url != "" {
		err.Details = map[string]string{"url": url}
	}
	return err
}

// ResponseStatus wraps a non-2xx response. 401 responses are ErrAuth, 404 are
// ErrNotFound and everything else is ErrNetwork. An empty serverMessage falls
// back to GenericStatusMessage.
func ResponseStatus(url string, status int, serverMessage string) *GlobeError {
	message := serverMessage
	if message == "" {
		message = GenericStatusMessage(status)
	}

	kind := ErrNetwork
	switch status {
	case http.StatusUnauthorized:
		kind = ErrAuth
	case http.StatusNotFound:
		kind = ErrNotFound
	}

	err := &GlobeError{
		Kind:    kind,
		Message: message,
		Cause:   &StatusError{Status: status, Message: message, ServerMessage: serverMessage},
		Details: map[string]string{
			"status": strconv.Itoa(status),
		},
	}
	if url != "" {
		err.Details["url"] = url
	}
	if status == http.StatusUnauthorized {
		err.Suggestion = "Your session is no longer valid. Sign in again with: globe login"
	}
	return err
}

// DecodeFailure creates an error for a response body that is not the
// expected JSON.
func DecodeFailure(url string, cause error) *GlobeError {
	return &GlobeError{
		Kind:    ErrParse,
		Message: "failed to parse response",
		Cause:   cause,
		Details: map[string]string{"url": url},
	}
}

// Status extracts the HTTP status carried by err, or 0 if there is none.
func Status(err error) int {
	var se *StatusError
	if errors.As(err, &se) {
		return se.Status
	}
	return 0
}

// ServerMessage returns the backend's own "error" text carried by err, or "".
func ServerMessage(err error) string {
	var se *StatusError
	if errors.As(err, &se) {
		return se.ServerMessage
	}
	return ""
}

// IsUnauthorized reports whether err carries a 401 response.
func IsUnauthorized(err error) bool {
	return Status(err) == http.StatusUnauthorized
}

// Message returns the user-facing message for err: the GlobeError message
// without the wrapped cause, or err.Error() for anything else.
func Message(err error) string {
	if err == nil {
		return ""
	}
	var ge *GlobeError
	if errors.As(err, &ge) {
		return ge.Message
	}
	return err.Error()
}
