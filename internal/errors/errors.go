// Package errors provides structured error handling for kmeta.
// It defines error codes, categories, and formatting for both human-readable
// terminal output and machine-parseable JSON.
package errors

import (
	"encoding/json"
	"fmt"
)

// ErrorCode represents a unique error code. Codes double as sentinels:
// errors.Is(err, ErrFunctionNotFound) matches any *Error carrying that code.
type ErrorCode string

// Error implements the error interface so a code can be used as a target
// for errors.Is.
func (c ErrorCode) Error() string {
	return string(c)
}

// ErrorCategory represents the category of an error
type ErrorCategory string

const (
	// CategoryMetadata represents attachment decoding errors (MET001-099)
	CategoryMetadata ErrorCategory = "metadata"
	// CategoryCorrelation represents reflection/symbol matching errors (COR100-199)
	CategoryCorrelation ErrorCategory = "correlation"
	// CategoryAnnotation represents annotation query errors (ANN001-099)
	CategoryAnnotation ErrorCategory = "annotation"
)

// ErrorSeverity indicates the severity level of an error
type ErrorSeverity string

const (
	// SeverityError indicates an error that aborts the operation
	SeverityError ErrorSeverity = "error"
	// SeverityWarning indicates a problem the operation recovered from
	SeverityWarning ErrorSeverity = "warning"
	// SeverityInfo indicates informational messages
	SeverityInfo ErrorSeverity = "info"
)

// Error is a structured kmeta error
type Error struct {
	// Code is the unique error code (e.g., "MET001", "COR101")
	Code ErrorCode `json:"code"`
	// Type is a machine-readable error type identifier
	Type string `json:"type"`
	// Category is the error category
	Category ErrorCategory `json:"category"`
	// Severity is the error severity level
	Severity ErrorSeverity `json:"severity"`
	// Message is the primary error message
	Message string `json:"message"`
	// Subject is the qualified name of the unit, element or annotation involved
	Subject string `json:"subject,omitempty"`
	// Suggestion provides a hint for fixing the error (optional)
	Suggestion string `json:"suggestion,omitempty"`
	// Documentation is a URL to detailed error documentation
	Documentation string `json:"documentation,omitempty"`

	cause error
}

// Error implements the error interface with a single line
func (e *Error) Error() string {
	return FormatCompact(e)
}

// Format returns a multi-line human-readable message for terminal output
func (e *Error) Format() string {
	return FormatError(e)
}

// Unwrap returns the underlying cause, if any
func (e *Error) Unwrap() error {
	return e.cause
}

// Is matches an ErrorCode target against the error's code
func (e *Error) Is(target error) bool {
	code, ok := target.(ErrorCode)
	return ok && code == e.Code
}

// ToJSON returns the error as a JSON string
func (e *Error) ToJSON() (string, error) {
	bytes, err := json.MarshalIndent(e, "", "  ")
	if err != nil {
		return "", err
	}
	return string(bytes), nil
}

// WithSubject sets the qualified name the error is about
func (e *Error) WithSubject(subject string) *Error {
	e.Subject = subject
	return e
}

// WithSuggestion sets a suggestion for fixing the error
func (e *Error) WithSuggestion(suggestion string) *Error {
	e.Suggestion = suggestion
	return e
}

// WithCause records the underlying error
func (e *Error) WithCause(cause error) *Error {
	e.cause = cause
	return e
}

// ErrorList is a collection of errors
type ErrorList []*Error

// Error implements the error interface
func (el ErrorList) Error() string {
	if len(el) == 0 {
		return "no errors"
	}
	return FormatErrorList(el)
}

// HasErrors returns true if the list contains any errors (excludes warnings/info)
func (el ErrorList) HasErrors() bool {
	for _, err := range el {
		if err.Severity == SeverityError {
			return true
		}
	}
	return false
}

// ToJSON returns all errors as a JSON array
func (el ErrorList) ToJSON() (string, error) {
	bytes, err := json.MarshalIndent(el, "", "  ")
	if err != nil {
		return "", err
	}
	return string(bytes), nil
}

// ErrorCount returns the number of errors by severity
func (el ErrorList) ErrorCount() (errors, warnings, info int) {
	for _, err := range el {
		switch err.Severity {
		case SeverityError:
			errors++
		case SeverityWarning:
			warnings++
		case SeverityInfo:
			info++
		}
	}
	return
}

// documentationURL returns the documentation URL for an error code
func documentationURL(code ErrorCode) string {
	return fmt.Sprintf("https://docs.conduit-lang.org/kmeta/errors/%s", code)
}

// newError creates a new Error with the given parameters
func newError(
	code ErrorCode,
	typ string,
	category ErrorCategory,
	severity ErrorSeverity,
	message string,
) *Error {
	return &Error{
		Code:          code,
		Type:          typ,
		Category:      category,
		Severity:      severity,
		Message:       message,
		Documentation: documentationURL(code),
	}
}
