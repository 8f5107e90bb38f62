// Package errors provides standardized error types and helpers for the JuniperCanon codebase.
//
// Two kinds of error reach users of the engine: SetupError, raised while a
// collection is being hydrated, and ReferenceError, raised while resolving a
// reference against a hydrated collection. NotFoundError is the identifier
// index's flavour of ReferenceError and carries the closest fuzzy candidate.
package errors

import (
	"errors"
	"fmt"
)

// Sentinel errors for common cases
var (
	// ErrSetup indicates a fatal problem while building a collection
	ErrSetup = errors.New("setup error")
	// ErrReference indicates a reference could not be resolved
	ErrReference = errors.New("reference error")
	// ErrNotFound indicates a resource was not found
	ErrNotFound = errors.New("not found")
	// ErrInvalidInput indicates invalid input or validation failure
	ErrInvalidInput = errors.New("invalid input")
)

// SetupError reports a duplicate number or identifier, or a malformed
// identifier, encountered while registering an entity.
type SetupError struct {
	Entity  string // Entity being registered (e.g., "book", "chapter", "character")
	Message string // Human-readable error message
	Err     error  // Underlying error, if any
}

func (e *SetupError) Error() string {
	if e.Entity != "" {
		return fmt.Sprintf("setup %s: %s", e.Entity, e.Message)
	}
	return fmt.Sprintf("setup: %s", e.Message)
}

func (e *SetupError) Unwrap() error {
	if e.Err != nil {
		return e.Err
	}
	return ErrSetup
}

// ReferenceError reports a malformed reference, an out-of-range component or
// an inverted range. Pattern is set for syntax errors; First and Last are set
// when a number fell outside the valid bounds of its parent.
type ReferenceError struct {
	Reference string // Offending literal input
	Pattern   string // Governing grammar, for syntax errors
	Message   string // Human-readable error message
	First     int    // Lowest valid number, for range errors
	Last      int    // Highest valid number, for range errors
	Err       error  // Underlying error, if any
}

func (e *ReferenceError) Error() string {
	msg := e.Message
	if e.First != 0 || e.Last != 0 {
		msg = fmt.Sprintf("%s (valid range %d-%d)", msg, e.First, e.Last)
	}
	if e.Pattern != "" {
		msg = fmt.Sprintf("%s; expected grammar:\n%s", msg, e.Pattern)
	}
	if e.Reference != "" {
		return fmt.Sprintf("reference %q: %s", e.Reference, msg)
	}
	return fmt.Sprintf("reference: %s", msg)
}

func (e *ReferenceError) Unwrap() error {
	if e.Err != nil {
		return e.Err
	}
	return ErrReference
}

// NotFoundError is returned by identifier lookups. Closest and Ratio describe
// the best approximate candidate even though it fell below Threshold.
type NotFoundError struct {
	Key       string // Key that was looked up
	Closest   string // Best fuzzy candidate, empty when there was none
	Ratio     int    // Similarity of Closest to Key (0-100)
	Threshold int    // Minimum ratio required for a match
}

func (e *NotFoundError) Error() string {
	if e.Closest != "" {
		return fmt.Sprintf("%q not found: the closest match was %q with a ratio of %d, below the threshold of %d",
			e.Key, e.Closest, e.Ratio, e.Threshold)
	}
	return fmt.Sprintf("%q not found", e.Key)
}

func (e *NotFoundError) Unwrap() []error {
	return []error{ErrNotFound, ErrReference}
}

// ValidationError represents an input validation error with context
type ValidationError struct {
	Field   string // Field name that failed validation
	Value   string // Value that failed validation (may be redacted)
	Message string // Human-readable error message
	Err     error  // Underlying error, if any
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("validation failed for %s: %s", e.Field, e.Message)
	}
	return fmt.Sprintf("validation failed: %s", e.Message)
}

func (e *ValidationError) Unwrap() error {
	if e.Err != nil {
		return e.Err
	}
	return ErrInvalidInput
}

// IOError represents an I/O operation error with context
type IOError struct {
	Operation string // Operation being performed (e.g., "read", "write", "open")
	Path      string // File/resource path involved
	Err       error  // Underlying error
}

func (e *IOError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("failed to %s %s: %v", e.Operation, e.Path, e.Err)
	}
	return fmt.Sprintf("failed to %s: %v", e.Operation, e.Err)
}

func (e *IOError) Unwrap() error {
	return e.Err
}

// ParseError represents a parsing or deserialization error
type ParseError struct {
	Format  string // Format being parsed (e.g., "JSON", "OSIS", "TOML")
	Path    string // File path, if applicable
	Message string // Error details
	Err     error  // Underlying error, if any
}

func (e *ParseError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("failed to parse %s at %s: %s", e.Format, e.Path, e.Message)
	}
	return fmt.Sprintf("failed to parse %s: %s", e.Format, e.Message)
}

func (e *ParseError) Unwrap() error {
	if e.Err != nil {
		return e.Err
	}
	return ErrInvalidInput
}

// Helper functions for creating common errors

// NewSetup creates a SetupError
func NewSetup(entity, format string, args ...any) *SetupError {
	return &SetupError{
		Entity:  entity,
		Message: fmt.Sprintf(format, args...),
	}
}

// NewReference creates a ReferenceError for the given literal input
func NewReference(reference, format string, args ...any) *ReferenceError {
	return &ReferenceError{
		Reference: reference,
		Message:   fmt.Sprintf(format, args...),
	}
}

// NewSyntax creates a ReferenceError for input that does not match pattern
func NewSyntax(reference, pattern string, err error) *ReferenceError {
	msg := "does not match the expected grammar"
	if err != nil {
		msg = fmt.Sprintf("%s: %v", msg, err)
	}
	return &ReferenceError{
		Reference: reference,
		Pattern:   pattern,
		Message:   msg,
	}
}

// NewOutOfRange creates a ReferenceError for a number outside [first, last]
func NewOutOfRange(reference, what string, number, first, last int) *ReferenceError {
	return &ReferenceError{
		Reference: reference,
		Message:   fmt.Sprintf("%s %d does not exist", what, number),
		First:     first,
		Last:      last,
	}
}

// NewValidation creates a ValidationError
func NewValidation(field, message string) *ValidationError {
	return &ValidationError{
		Field:   field,
		Message: message,
	}
}

// NewIO creates an IOError
func NewIO(operation, path string, err error) *IOError {
	return &IOError{
		Operation: operation,
		Path:      path,
		Err:       err,
	}
}

// NewParse creates a ParseError
func NewParse(format, path, message string) *ParseError {
	return &ParseError{
		Format:  format,
		Path:    path,
		Message: message,
	}
}

// Wrap adds context to an error. If err is nil, returns nil.
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

// Is wraps errors.Is for convenience
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As wraps errors.As for convenience
func As(err error, target any) bool {
	return errors.As(err, target)
}
