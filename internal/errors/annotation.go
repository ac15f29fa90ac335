package errors

import "fmt"

// Annotation error codes (ANN001-099)
const (
	// ErrUnsupportedAnnotation indicates a query for an annotation class the session does not track
	ErrUnsupportedAnnotation ErrorCode = "ANN001"
)

// NewUnsupportedAnnotation creates an ANN001 error
func NewUnsupportedAnnotation(class string) *Error {
	return newError(
		ErrUnsupportedAnnotation,
		"unsupported_annotation",
		CategoryAnnotation,
		SeverityError,
		fmt.Sprintf("Annotation '%s' is not supported by this session", class),
	).WithSubject(class).
		WithSuggestion("Add the annotation class to annotations.supported")
}
