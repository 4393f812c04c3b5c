// Package errors provides custom error types for the orch-csv system.
// These errors enable better error handling, programmatic error checking,
// and improved debugging throughout the application.
package errors

import (
	"errors"
	"fmt"
)

// New returns an error that formats as the given text.
// It's an alias for the standard library errors.New for convenience.
var New = errors.New

// Is and As are aliases for the standard library matchers so callers need
// only one errors import.
var (
	Is = errors.Is
	As = errors.As
)

// Common sentinel errors for the orch-csv system
var (
	// ErrNotFound indicates that a requested resource was not found
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates that provided input was invalid
	ErrInvalidInput = errors.New("invalid input")

	// ErrNoIdentity indicates that no identity could be derived for a record
	ErrNoIdentity = errors.New("no identity available")

	// ErrSkipRecord indicates that a record must be skipped entirely
	ErrSkipRecord = errors.New("record skipped")
)

// ValidationError represents a validation failure
type ValidationError struct {
	Field   string
	Value   interface{}
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
func NewValidationError(field string, value interface{}, message string) *ValidationError {
	return &ValidationError{Field: field, Value: value, Message: message}
}

// ConfigError represents a mapping-configuration error
type ConfigError struct {
	Section string
	Message string
	Err     error
}

// Error implements the error interface
func (e *ConfigError) Error() string {
	if e.Section != "" {
		return fmt.Sprintf("configuration error in %s: %s", e.Section, e.Message)
	}
	return fmt.Sprintf("configuration error: %s", e.Message)
}

// Unwrap implements errors.Unwrap
func (e *ConfigError) Unwrap() error {
	return e.Err
}

// NewConfigError creates a new ConfigError
func NewConfigError(section, message string, err error) *ConfigError {
	return &ConfigError{
		Section: section,
		Message: message,
		Err:     err,
	}
}

// ParseError represents an error when parsing data formats
type ParseError struct {
	Format  string // "yaml", "csv", "frontmatter"
	File    string
	Line    int
	Message string
	Err     error
}

// Error implements the error interface
func (e *ParseError) Error() string {
	if e.File != "" && e.Line > 0 {
		return fmt.Sprintf("parse error in %s at %s:%d: %s", e.Format, e.File, e.Line, e.Message)
	}
	if e.File != "" {
		return fmt.Sprintf("parse error in %s file %s: %s", e.Format, e.File, e.Message)
	}
	return fmt.Sprintf("%s parse error: %s", e.Format, e.Message)
}

// Unwrap implements errors.Unwrap
func (e *ParseError) Unwrap() error {
	return e.Err
}

// NewParseError creates a new ParseError
func NewParseError(format, file string, message string, err error) *ParseError {
	return &ParseError{
		Format:  format,
		File:    file,
		Message: message,
		Err:     err,
	}
}

// IOError represents an error during I/O operations
type IOError struct {
	Operation string // "read", "write", "create", "scan"
	Path      string
	Message   string
	Err       error
}

// Error implements the error interface
func (e *IOError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("IO error during %s of %s: %s", e.Operation, e.Path, e.Message)
	}
	return fmt.Sprintf("IO error during %s: %s", e.Operation, e.Message)
}

// Unwrap implements errors.Unwrap
func (e *IOError) Unwrap() error {
	return e.Err
}

// NewIOError creates a new IOError
func NewIOError(operation, path string, err error) *IOError {
	message := ""
	if err != nil {
		message = err.Error()
	}
	return &IOError{
		Operation: operation,
		Path:      path,
		Message:   message,
		Err:       err,
	}
}

// SyncError represents an error while syncing a record into the vault
type SyncError struct {
	Record int // 1-based position of the record in the source
	Target string
	Err    error
}

// Error implements the error interface
func (e *SyncError) Error() string {
	if e.Target != "" {
		return fmt.Sprintf("sync error for record %d (target %s): %v", e.Record, e.Target, e.Err)
	}
	return fmt.Sprintf("sync error for record %d: %v", e.Record, e.Err)
}

// Unwrap implements errors.Unwrap
func (e *SyncError) Unwrap() error {
	return e.Err
}

// NewSyncError creates a new SyncError
func NewSyncError(record int, target string, err error) *SyncError {
	return &SyncError{
		Record: record,
		Target: target,
		Err:    err,
	}
}

// Helper functions for error checking

// IsNotFound checks if an error is a not found error
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsValidationError checks if an error is a validation error
func IsValidationError(err error) bool {
	return errors.Is(err, ErrInvalidInput)
}

// IsSkip checks if an error signals that a record must be skipped
func IsSkip(err error) bool {
	return errors.Is(err, ErrSkipRecord)
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
func WrapParse(format, file string, err error) error {
	if err == nil {
		return nil
	}
	return NewParseError(format, file, err.Error(), err)
}
