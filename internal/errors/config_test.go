package errors

import (
	"errors"
	"strings"
	"testing"
)

func TestConfigParseError(t *testing.T) {
	parseErr := errors.New("unexpected end of file")
	err := ConfigParseError("/path/config.yaml", parseErr)

	if !errors.Is(err, ErrConfig) {
		t.Error("ConfigParseError should return ErrConfig")
	}
	if !errors.Is(err.Cause, parseErr) {
		t.Error("Should wrap the parse error")
	}
	if !strings.Contains(err.Suggestion, "YAML") {
		t.Error("Suggestion should mention YAML syntax")
	}
}

func TestConfigValidationError(t *testing.T) {
	err := ConfigValidationError("storage.backend", "unknown backend", []string{"file", "sqlite", "memory"})

	if !errors.Is(err, ErrConfig) {
		t.Error("ConfigValidationError should return ErrConfig")
	}
	if err.Details["field"] != "storage.backend" {
		t.Error("Should include field in details")
	}
	if !strings.Contains(err.Suggestion, "file, sqlite, memory") {
		t.Error("Suggestion should list valid options")
	}
}

func TestNotSignedIn(t *testing.T) {
	err := NotSignedIn()
	if !errors.Is(err, ErrAuth) {
		t.Error("NotSignedIn should return ErrAuth")
	}
	if !strings.Contains(err.Suggestion, "globe login") {
		t.Error("Suggestion should mention login command")
	}
}

func TestValidation(t *testing.T) {
	err := Validation("password_confirmation", "Passwords do not match")
	if !errors.Is(err, ErrValidation) {
		t.Error("Validation should return ErrValidation")
	}
	if err.Error() != "Passwords do not match" {
		t.Errorf("Error() = %q", err.Error())
	}
}

func TestStorageFailure(t *testing.T) {
	cause := errors.New("disk full")
	err := StorageFailure("/tmp/storage.json", cause)
	if !errors.Is(err, ErrStorage) {
		t.Error("StorageFailure should return ErrStorage")
	}
	if err.Details["path"] != "/tmp/storage.json" {
		t.Error("Should include path")
	}
}
