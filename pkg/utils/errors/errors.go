package errors

import (
	"errors"
	"fmt"
)

// ErrorType classifies an engine error
type ErrorType uint

const (
	// ErrorTypeUnknown represents an unclassified error
	ErrorTypeUnknown ErrorType = iota
	// ErrorTypeConfiguration represents missing or inconsistent reference data;
	// fatal, surfaced immediately
	ErrorTypeConfiguration
	// ErrorTypeMissingForecast represents a forecast absent for the requested
	// month; recovered by carrying the nearest earlier value forward
	ErrorTypeMissingForecast
	// ErrorTypeNumericalDegradation represents a numerical fallback, e.g. a
	// correlation matrix that is not positive-definite
	ErrorTypeNumericalDegradation
	// ErrorTypeInvalidInput represents a non-positive volume, price, or
	// option-pricing input
	ErrorTypeInvalidInput
	// ErrorTypeNotFound represents a missing strategy, buyer, or destination
	ErrorTypeNotFound
	// ErrorTypeInternal represents an internal error
	ErrorTypeInternal
)

// EngineError is the error type used throughout the engine
type EngineError struct {
	Type    ErrorType
	Message string
	Err     error
}

// Error returns the error message
func (e *EngineError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the wrapped error
func (e *EngineError) Unwrap() error {
	return e.Err
}

// New creates a new unclassified error
func New(message string) error {
	return &EngineError{Type: ErrorTypeUnknown, Message: message}
}

// Newf creates a new unclassified error with a formatted message
func Newf(format string, args ...interface{}) error {
	return &EngineError{Type: ErrorTypeUnknown, Message: fmt.Sprintf(format, args...)}
}

// Wrap wraps an error with a message, preserving its type when it already
// carries one
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	var engErr *EngineError
	if errors.As(err, &engErr) {
		return &EngineError{Type: engErr.Type, Message: message, Err: err}
	}
	return &EngineError{Type: ErrorTypeUnknown, Message: message, Err: err}
}

// Wrapf wraps an error with a formatted message
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return Wrap(err, fmt.Sprintf(format, args...))
}

// TypeOf returns the classification of an error, or ErrorTypeUnknown for
// errors that did not originate in the engine
func TypeOf(err error) ErrorType {
	var engErr *EngineError
	if errors.As(err, &engErr) {
		return engErr.Type
	}
	return ErrorTypeUnknown
}

// IsType reports whether the error chain contains an EngineError of the
// given type
func IsType(err error, errType ErrorType) bool {
	var engErr *EngineError
	if errors.As(err, &engErr) {
		return engErr.Type == errType
	}
	return false
}

// Configuration creates a new configuration error
func Configuration(message string) error {
	return &EngineError{Type: ErrorTypeConfiguration, Message: message}
}

// Configurationf creates a new configuration error with a formatted message
func Configurationf(format string, args ...interface{}) error {
	return &EngineError{Type: ErrorTypeConfiguration, Message: fmt.Sprintf(format, args...)}
}

// MissingForecast creates a new missing-forecast error
func MissingForecast(message string) error {
	return &EngineError{Type: ErrorTypeMissingForecast, Message: message}
}

// NumericalDegradation creates a new numerical-degradation error
func NumericalDegradation(message string) error {
	return &EngineError{Type: ErrorTypeNumericalDegradation, Message: message}
}

// InvalidInput creates a new invalid-input error
func InvalidInput(message string) error {
	return &EngineError{Type: ErrorTypeInvalidInput, Message: message}
}

// InvalidInputf creates a new invalid-input error with a formatted message
func InvalidInputf(format string, args ...interface{}) error {
	return &EngineError{Type: ErrorTypeInvalidInput, Message: fmt.Sprintf(format, args...)}
}

// NotFound creates a new not-found error
func NotFound(message string) error {
	return &EngineError{Type: ErrorTypeNotFound, Message: message}
}

// Internal creates a new internal error
func Internal(message string) error {
	return &EngineError{Type: ErrorTypeInternal, Message: message}
}

// Sentinel errors for the most common failure modes
var (
	ErrNotFound      = errors.New("not found")
	ErrInvalidInput  = errors.New("invalid input")
	ErrConfiguration = errors.New("configuration error")
)
