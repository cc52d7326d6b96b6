package device

import (
	"errors"
	"fmt"
)

// ConfigErrorCode categorizes configuration errors.
type ConfigErrorCode string

const (
	// ErrCodeInvalidPin indicates the PIN is not six decimal digits.
	ErrCodeInvalidPin ConfigErrorCode = "INVALID_PIN"

	// ErrCodeInvalidThresholds indicates the axis thresholds are out of range
	// or leave no dead zone.
	ErrCodeInvalidThresholds ConfigErrorCode = "INVALID_THRESHOLDS"

	// ErrCodeInvalidTiming indicates a non-positive poll period or debounce
	// window, a negative feedback pacing, or a timing above MaxTiming.
	ErrCodeInvalidTiming ConfigErrorCode = "INVALID_TIMING"

	// ErrCodeInvalidPolicy indicates an unknown press policy.
	ErrCodeInvalidPolicy ConfigErrorCode = "INVALID_POLICY"
)

// ConfigError reports a configuration value the device cannot run with.
type ConfigError struct {
	Code    ConfigErrorCode
	Message string
	Field   string
}

// Error implements the error interface.
func (e *ConfigError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("%s: %s (field=%s)", e.Code, e.Message, e.Field)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// IsConfigError returns true if err is (or wraps) a ConfigError.
func IsConfigError(err error) bool {
	var ce *ConfigError
	return errors.As(err, &ce)
}

// ConfigErrorCodeOf returns the code of a wrapped ConfigError, or "".
func ConfigErrorCodeOf(err error) ConfigErrorCode {
	var ce *ConfigError
	if errors.As(err, &ce) {
		return ce.Code
	}
	return ""
}
