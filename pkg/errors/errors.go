// Package errors provides custom error types for the capturedb system.
// These errors enable programmatic error checking across the key, source,
// and persistence layers, and drive the CLI's exit-code mapping.
package errors

import (
	"errors"
	"fmt"
)

// New returns an error that formats as the given text.
// It's an alias for the standard library errors.New for convenience.
var New = errors.New

// Is reports whether any error in err's chain matches target.
// It's an alias for the standard library errors.Is for convenience.
var Is = errors.Is

// Common sentinel errors for the capturedb system
var (
	// ErrKeyMissing indicates the capture ID key is not configured
	ErrKeyMissing = errors.New("capture ID key missing")

	// ErrKeyMalformed indicates the capture ID key is not 32 hex characters
	ErrKeyMalformed = errors.New("capture ID key malformed")

	// ErrKeyUntrusted indicates the key digest does not match the expected digest
	ErrKeyUntrusted = errors.New("capture ID key untrusted")

	// ErrNoRecords indicates a run in which no source contributed any records
	ErrNoRecords = errors.New("no records from any source")

	// ErrInvalidInput indicates that provided input was invalid
	ErrInvalidInput = errors.New("invalid input")

	// ErrNotFound indicates that a requested resource was not found
	ErrNotFound = errors.New("not found")
)

// KeyError describes a failure to obtain or validate the capture ID key.
// Every KeyError is fatal to the run.
type KeyError struct {
	Reason  error // one of ErrKeyMissing, ErrKeyMalformed, ErrKeyUntrusted
	Message string
}

// Error implements the error interface
func (e *KeyError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("%v: %s", e.Reason, e.Message)
	}
	return e.Reason.Error()
}

// Unwrap implements errors.Unwrap
func (e *KeyError) Unwrap() error {
	return e.Reason
}

// NewKeyError creates a new KeyError
func NewKeyError(reason error, message string) *KeyError {
	return &KeyError{Reason: reason, Message: message}
}

// IsKeyError checks if an error is any of the fatal key errors
func IsKeyError(err error) bool {
	return errors.Is(err, ErrKeyMissing) ||
		errors.Is(err, ErrKeyMalformed) ||
		errors.Is(err, ErrKeyUntrusted)
}

// ValidationError represents a validation failure
type ValidationError struct {
	Field   string
	Value   any
	Message string
}

// Error implements the error interface
func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("validation failed for field %s: %s", e.Field, e.Message)
	}
	return fmt.Sprintf("validation failed: %s", e.Message)
}

// Is implements errors.Is support
func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidInput
}

// NewValidationError creates a new ValidationError
func NewValidationError(field string, value any, message string) *ValidationError {
	return &ValidationError{Field: field, Value: value, Message: message}
}

// SourceError represents a failure of a whole catalog source. It is
// recoverable at source granularity: the source contributes zero records
// and reconciliation proceeds with the remaining sources.
type SourceError struct {
	Source  string
	Message string
	Err     error
}

// Error implements the error interface
func (e *SourceError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("source %s: %s: %v", e.Source, e.Message, e.Err)
	}
	return fmt.Sprintf("source %s: %v", e.Source, e.Err)
}

// Unwrap implements errors.Unwrap
func (e *SourceError) Unwrap() error {
	return e.Err
}

// NewSourceError creates a new SourceError
func NewSourceError(source, message string, err error) *SourceError {
	return &SourceError{Source: source, Message: message, Err: err}
}

// ParseError represents an error when parsing data formats
type ParseError struct {
	Format  string // "html", "xml", "json"
	Source  string
	Message string
	Err     error
}

// Error implements the error interface
func (e *ParseError) Error() string {
	if e.Source != "" {
		return fmt.Sprintf("%s parse error for %s: %s", e.Format, e.Source, e.Message)
	}
	return fmt.Sprintf("%s parse error: %s", e.Format, e.Message)
}

// Unwrap implements errors.Unwrap
func (e *ParseError) Unwrap() error {
	return e.Err
}

// NewParseError creates a new ParseError
func NewParseError(format, source, message string, err error) *ParseError {
	return &ParseError{Format: format, Source: source, Message: message, Err: err}
}

// IOError represents an error during I/O operations
type IOError struct {
	Operation string // "read", "write", "create", "rename"
	Path      string
	Err       error
}

// Error implements the error interface
func (e *IOError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("IO error during %s of %s: %v", e.Operation, e.Path, e.Err)
	}
	return fmt.Sprintf("IO error during %s: %v", e.Operation, e.Err)
}

// Unwrap implements errors.Unwrap
func (e *IOError) Unwrap() error {
	return e.Err
}

// NewIOError creates a new IOError
func NewIOError(operation, path string, err error) *IOError {
	return &IOError{Operation: operation, Path: path, Err: err}
}

// APIError represents an unexpected response from an upstream endpoint
type APIError struct {
	Source     string
	StatusCode int
	Message    string
	Endpoint   string
}

// Error implements the error interface
func (e *APIError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("API error from %s (status %d): %s", e.Source, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("API error from %s: %s", e.Source, e.Message)
}

// NewAPIError creates a new APIError
func NewAPIError(source string, statusCode int, message string) *APIError {
	return &APIError{Source: source, StatusCode: statusCode, Message: message}
}

// ConfigError represents a configuration error
type ConfigError struct {
	Component string
	Message   string
	Err       error
}

// Error implements the error interface
func (e *ConfigError) Error() string {
	if e.Component != "" {
		return fmt.Sprintf("configuration error in %s: %s", e.Component, e.Message)
	}
	return fmt.Sprintf("configuration error: %s", e.Message)
}

// Unwrap implements errors.Unwrap
func (e *ConfigError) Unwrap() error {
	return e.Err
}

// NewConfigError creates a new ConfigError
func NewConfigError(component, message string, err error) *ConfigError {
	return &ConfigError{Component: component, Message: message, Err: err}
}

// Helper wrapping functions for common patterns

// WrapIO wraps an error as an IOError
func WrapIO(operation, path string, err error) error {
	if err == nil {
		return nil
	}
	return NewIOError(operation, path, err)
}

// WrapParse wraps an error as a ParseError
func WrapParse(format, source string, err error) error {
	if err == nil {
		return nil
	}
	return NewParseError(format, source, err.Error(), err)
}

// WrapSource wraps an error as a SourceError
func WrapSource(source string, err error) error {
	if err == nil {
		return nil
	}
	return NewSourceError(source, "", err)
}
