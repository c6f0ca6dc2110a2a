// Package errors provides centralized error handling for flowsynth.
//
// This package defines sentinel errors used for programmatic error categorization
// throughout the application, plus the structured error types raised by the
// synthesis engine. All error types can be checked using errors.Is() and
// errors.As().
//
// IMPORTANT: This package MUST NOT import any other internal packages.
// Only standard library imports are allowed.
package errors

import (
	"errors"
	"fmt"
)

// Sentinel errors for error categorization.
// These allow callers to check error types with errors.Is().
// All errors use lowercase descriptions per Go conventions.
var (
	// ErrValidation indicates a descriptor or configuration map failed a field rule.
	ErrValidation = errors.New("validation failed")

	// ErrUnsupportedKind indicates a task kind outside the supported set.
	ErrUnsupportedKind = errors.New("unsupported task kind")

	// ErrReference indicates workflow text references a task that cannot be resolved.
	ErrReference = errors.New("unresolved task reference")

	// ErrTaskNameMissing indicates a function call omitted its Name field.
	ErrTaskNameMissing = errors.New("task name missing from call")

	// ErrTaskNotFound indicates a referenced task is absent from the registry.
	ErrTaskNotFound = errors.New("task not found")

	// ErrTaskDuplicate indicates two task files declare the same task name.
	ErrTaskDuplicate = errors.New("task already registered")

	// ErrTaskNil indicates a nil descriptor was provided.
	ErrTaskNil = errors.New("task descriptor cannot be nil")

	// ErrSyntax indicates workflow text contains an unbalanced call or an
	// unparsable argument literal.
	ErrSyntax = errors.New("syntax error")

	// ErrNotResolved indicates preprocessed content was requested before Resolve ran.
	ErrNotResolved = errors.New("workflow text not resolved")

	// ErrConfigNil indicates that a nil config was passed to validation.
	ErrConfigNil = errors.New("config is nil")

	// ErrConfigInvalidNaming indicates an invalid resources prefix or suffix.
	ErrConfigInvalidNaming = errors.New("invalid naming configuration")

	// ErrConfigInvalidPolicy indicates an unknown kind policy value.
	ErrConfigInvalidPolicy = errors.New("invalid kind policy")

	// ErrConfigInvalidDirectory indicates an empty tasks or state machines directory.
	ErrConfigInvalidDirectory = errors.New("invalid directory configuration")

	// ErrInvalidOutputFormat indicates an invalid output format was specified.
	ErrInvalidOutputFormat = errors.New("invalid output format")

	// ErrInvalidArgument indicates that an invalid argument was provided.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrJSONErrorOutput indicates that an error has already been output as JSON.
	// This ensures a non-zero exit code while preventing duplicate error messages.
	ErrJSONErrorOutput = errors.New("error output as JSON")
)

// ValidationError reports the first field rule violated by a raw descriptor.
type ValidationError struct {
	// Field is the dotted path of the offending field (e.g. "name", "cpu").
	Field string
	// Rule is the violated rule (e.g. "required", "alphanum", "max", "kind").
	Rule string
	// Param is the rule parameter, if any (e.g. "32" for max).
	Param string
	// Value is the rejected value.
	Value any
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	rule := e.Rule
	if e.Param != "" {
		rule = e.Rule + "=" + e.Param
	}
	if e.Rule == "kind" {
		return fmt.Sprintf("%s: field %q: %q is not supported, must be one of: %s",
			ErrUnsupportedKind, e.Field, e.Value, e.Param)
	}
	return fmt.Sprintf("%s: field %q violates rule %q (value: %v)", ErrValidation, e.Field, rule, e.Value)
}

// Unwrap exposes ErrValidation, plus ErrUnsupportedKind for kind violations.
func (e *ValidationError) Unwrap() []error {
	if e.Rule == "kind" {
		return []error{ErrValidation, ErrUnsupportedKind}
	}
	return []error{ErrValidation}
}

// NewValidationError creates a ValidationError.
func NewValidationError(field, rule, param string, value any) *ValidationError {
	return &ValidationError{Field: field, Rule: rule, Param: param, Value: value}
}

// ReferenceError reports a workflow call that cannot be bound to a task.
type ReferenceError struct {
	// TaskName is the referenced name; empty when the Name field was missing.
	TaskName string
	// Err is ErrTaskNameMissing or ErrTaskNotFound.
	Err error
}

// Error implements the error interface.
func (e *ReferenceError) Error() string {
	if e.TaskName == "" {
		return fmt.Sprintf("%s: %s", ErrReference, e.Err)
	}
	return fmt.Sprintf("%s: %s: %s", ErrReference, e.Err, e.TaskName)
}

// Unwrap exposes ErrReference and the specific cause.
func (e *ReferenceError) Unwrap() []error {
	return []error{ErrReference, e.Err}
}

// SyntaxError reports malformed call syntax in workflow text.
type SyntaxError struct {
	// Offset is the byte offset of the call in the escaped text.
	Offset int
	// Snippet is a short excerpt of the offending text.
	Snippet string
	// Err is the underlying parse error, if any.
	Err error
}

// Error implements the error interface.
func (e *SyntaxError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s at offset %d near %q: %v", ErrSyntax, e.Offset, e.Snippet, e.Err)
	}
	return fmt.Sprintf("%s at offset %d near %q", ErrSyntax, e.Offset, e.Snippet)
}

// Unwrap exposes ErrSyntax and the parse error.
func (e *SyntaxError) Unwrap() []error {
	if e.Err != nil {
		return []error{ErrSyntax, e.Err}
	}
	return []error{ErrSyntax}
}

// ExitCode2Error wraps an error to indicate exit code 2 should be used.
type ExitCode2Error struct {
	Err error
}

// NewExitCode2Error wraps an error to indicate exit code 2.
func NewExitCode2Error(err error) *ExitCode2Error {
	return &ExitCode2Error{Err: err}
}

// Error implements the error interface.
func (e *ExitCode2Error) Error() string {
	return e.Err.Error()
}

// Unwrap returns the underlying error.
func (e *ExitCode2Error) Unwrap() error {
	return e.Err
}

// IsExitCode2Error checks if an error should result in exit code 2.
func IsExitCode2Error(err error) bool {
	var e *ExitCode2Error
	return errors.As(err, &e)
}

// IsInputError reports whether err stems from author input (validation,
// reference or syntax problems) rather than the environment.
func IsInputError(err error) bool {
	return errors.Is(err, ErrValidation) || errors.Is(err, ErrReference) || errors.Is(err, ErrSyntax)
}
