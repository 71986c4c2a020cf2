// Package errors provides custom error types for the grouping system.
// These errors enable programmatic error checking and keep the distinction
// between row-scoped reconciliation failures, which demote a row to the
// diagnostic list, and collaborator I/O failures, which abort the run.
package errors

import (
	"errors"
	"fmt"
)

// New returns an error that formats as the given text.
// It's an alias for the standard library errors.New for convenience.
var New = errors.New

// Common sentinel errors for the grouping system.
var (
	// ErrNotFound indicates that a requested resource was not found
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates that provided input was invalid
	ErrInvalidInput = errors.New("invalid input")

	// ErrIneligibleClass indicates a class field that fails tokenizer eligibility
	ErrIneligibleClass = errors.New("ineligible class field")

	// ErrNoCandidate indicates a grouping from which no candidate could be derived
	ErrNoCandidate = errors.New("no candidate derived")

	// ErrNoReferenceMatch indicates the resolver chain was exhausted without a match
	ErrNoReferenceMatch = errors.New("no reference match")

	// ErrStructuralInvalid indicates a row that violated a first-level verification rule
	ErrStructuralInvalid = errors.New("structurally invalid")

	// ErrMissingColumn indicates a dataset is missing a required column
	ErrMissingColumn = errors.New("missing column")
)

// RowError represents a row-scoped reconciliation failure. Row errors are
// never fatal; the affected row joins the unprocessed diagnostics and the
// run continues.
type RowError struct {
	Row      int    // 1-based row number in the source dataset
	Grouping string // grouping text of the affected row, if any
	Reason   string
	Err      error // one of the row-scoped sentinels
}

// Error implements the error interface
func (e *RowError) Error() string {
	if e.Grouping != "" {
		return fmt.Sprintf("row %d (%s): %s", e.Row, e.Grouping, e.Reason)
	}
	return fmt.Sprintf("row %d: %s", e.Row, e.Reason)
}

// Unwrap implements errors.Unwrap
func (e *RowError) Unwrap() error {
	return e.Err
}

// NewRowError creates a new RowError wrapping the given sentinel.
func NewRowError(row int, grouping, reason string, sentinel error) *RowError {
	return &RowError{
		Row:      row,
		Grouping: grouping,
		Reason:   reason,
		Err:      sentinel,
	}
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
	return &ConfigError{
		Component: component,
		Message:   message,
		Err:       err,
	}
}

// ParseError represents an error when parsing data formats
type ParseError struct {
	Format  string // "csv", "yaml", etc.
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

// IOError represents an error during I/O with an external collaborator.
// IO errors are fatal: the run aborts without writing a partial artifact.
type IOError struct {
	Operation string // "read", "write", "create", "open", "close"
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

// Helper functions for error checking

// IsNotFound checks if an error is a not found error
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsValidationError checks if an error is a validation error
func IsValidationError(err error) bool {
	return errors.Is(err, ErrInvalidInput)
}

// IsRowError checks if an error is a row-scoped reconciliation failure.
func IsRowError(err error) bool {
	var re *RowError
	return errors.As(err, &re)
}

// IsFatal reports whether an error should abort the run. Row-scoped errors
// never do; everything else (I/O, config, parse) does.
func IsFatal(err error) bool {
	if err == nil {
		return false
	}
	return !IsRowError(err)
}

// Helper wrapping functions for common patterns

// WrapValidation wraps an error as a ValidationError
func WrapValidation(field string, err error) error {
	if err == nil {
		return nil
	}
	return &ValidationError{Field: field, Message: err.Error()}
}

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
