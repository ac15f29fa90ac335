package errors

import (
	"fmt"
	"strings"
)

// FormatError returns a human-readable error message for terminal output
func FormatError(e *Error) string {
	var b strings.Builder

	icon := severityIcon(e.Severity)
	subject := e.Subject
	if subject == "" {
		subject = "<session>"
	}

	fmt.Fprintf(&b, "%s %s [%s] in %s\n", icon, categoryDisplayName(e.Category), e.Code, subject)
	fmt.Fprintf(&b, "  %s\n", e.Message)

	if e.cause != nil {
		fmt.Fprintf(&b, "  Caused by: %v\n", e.cause)
	}

	if e.Suggestion != "" {
		fmt.Fprintf(&b, "\n💡 %s\n", e.Suggestion)
	}

	if e.Documentation != "" {
		fmt.Fprintf(&b, "\nLearn more: %s\n", e.Documentation)
	}

	return b.String()
}

// FormatErrorList returns a formatted string of all errors
func FormatErrorList(errors ErrorList) string {
	if len(errors) == 0 {
		return "no errors"
	}

	var b strings.Builder

	errCount, warnCount, infoCount := errors.ErrorCount()
	fmt.Fprintf(&b, "Found %d error(s), %d warning(s), %d info\n\n",
		errCount, warnCount, infoCount)

	for i, err := range errors {
		if i > 0 {
			b.WriteString("\n" + strings.Repeat("-", 80) + "\n\n")
		}
		b.WriteString(err.Format())
	}

	return b.String()
}

// FormatCompact returns a compact one-line error format
func FormatCompact(e *Error) string {
	if e.Subject == "" {
		return fmt.Sprintf("%s: %s [%s]", e.Severity, e.Message, e.Code)
	}
	return fmt.Sprintf("%s: %s: %s [%s]", e.Subject, e.Severity, e.Message, e.Code)
}

// severityIcon returns the emoji/icon for a severity level
func severityIcon(severity ErrorSeverity) string {
	switch severity {
	case SeverityError:
		return "❌"
	case SeverityWarning:
		return "⚠️ "
	case SeverityInfo:
		return "ℹ️ "
	default:
		return "❓"
	}
}

// categoryDisplayName returns a human-readable category name
func categoryDisplayName(category ErrorCategory) string {
	switch category {
	case CategoryMetadata:
		return "Metadata Error"
	case CategoryCorrelation:
		return "Correlation Error"
	case CategoryAnnotation:
		return "Annotation Error"
	default:
		return "Error"
	}
}
