// Package errors provides a lightweight structured error type (BlogBuilderError)
// for category-based classification in the build pipeline and CLI.
package errors

import (
	"errors"
	"fmt"
)

// ErrorCategory represents the category of a BlogBuilder error for classification
type ErrorCategory string

const (
	// User-facing configuration and input errors
	CategoryConfig     ErrorCategory = "config"
	CategoryValidation ErrorCategory = "validation"

	// Content processing errors
	CategoryContent ErrorCategory = "content"
	CategoryLayout  ErrorCategory = "layout"
	CategoryRender  ErrorCategory = "render"

	// Output and infrastructure errors
	CategoryOutput     ErrorCategory = "output"
	CategoryFileSystem ErrorCategory = "filesystem"
	CategoryGit        ErrorCategory = "git"
	CategoryInternal   ErrorCategory = "internal"
)

// ErrorSeverity indicates how critical an error is
type ErrorSeverity string

const (
	SeverityFatal   ErrorSeverity = "fatal"   // Stops execution
	SeverityError   ErrorSeverity = "error"   // Error, but not fatal
	SeverityWarning ErrorSeverity = "warning" // Continues with degraded functionality
)

// BlogBuilderError is a structured error with category, severity, and context
type BlogBuilderError struct {
	Category ErrorCategory `json:"category"`
	Severity ErrorSeverity `json:"severity"`
	Message  string        `json:"message"`
	Cause    error         `json:"cause,omitempty"`
	Context  ContextFields `json:"context,omitempty"`
}

// ContextFields carries structured context for BlogBuilderError
type ContextFields map[string]any

// Error implements the error interface
func (e *BlogBuilderError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s (%s): %s: %v", e.Category, e.Severity, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s (%s): %s", e.Category, e.Severity, e.Message)
}

// Unwrap implements error unwrapping for Go 1.13+ error handling
func (e *BlogBuilderError) Unwrap() error {
	return e.Cause
}

// WithContext adds context information to the error
func (e *BlogBuilderError) WithContext(key string, value any) *BlogBuilderError {
	if e.Context == nil {
		e.Context = make(ContextFields)
	}
	e.Context[key] = value
	return e
}

// New creates a new BlogBuilderError
func New(category ErrorCategory, severity ErrorSeverity, message string) *BlogBuilderError {
	return &BlogBuilderError{
		Category: category,
		Severity: severity,
		Message:  message,
	}
}

// Wrap creates a new BlogBuilderError that wraps an existing error
func Wrap(err error, category ErrorCategory, severity ErrorSeverity, message string) *BlogBuilderError {
	return &BlogBuilderError{
		Category: category,
		Severity: severity,
		Message:  message,
		Cause:    err,
	}
}

// IsCategory checks if an error belongs to a specific category
func IsCategory(err error, category ErrorCategory) bool {
	var bbe *BlogBuilderError
	if errors.As(err, &bbe) {
		return bbe.Category == category
	}
	return false
}

// GetCategory extracts the category from an error, or returns CategoryInternal if not a BlogBuilderError
func GetCategory(err error) ErrorCategory {
	var bbe *BlogBuilderError
	if errors.As(err, &bbe) {
		return bbe.Category
	}
	return CategoryInternal
}
