package errors

import "fmt"

// Metadata error codes (MET001-099)
const (
	// ErrInvalidMetadata indicates a malformed attachment payload
	ErrInvalidMetadata ErrorCode = "MET001"
	// ErrUnsupportedMetadataKind indicates an attachment kind the decoder cannot produce a container for
	ErrUnsupportedMetadataKind ErrorCode = "MET002"
	// ErrIncompatibleMetadata indicates a payload written by an incompatible format version
	ErrIncompatibleMetadata ErrorCode = "MET003"
)

// NewInvalidMetadata creates a MET001 error
func NewInvalidMetadata(unit string, cause error) *Error {
	msg := fmt.Sprintf("Invalid metadata attachment in '%s'", unit)
	if cause != nil {
		msg = fmt.Sprintf("%s: %v", msg, cause)
	}
	return newError(
		ErrInvalidMetadata,
		"invalid_metadata",
		CategoryMetadata,
		SeverityError,
		msg,
	).WithSubject(unit).WithCause(cause).
		WithSuggestion("Recompile the unit; the attachment is truncated or was not written by a supported compiler")
}

// NewUnsupportedMetadataKind creates a MET002 error
func NewUnsupportedMetadataKind(unit string, kind int) *Error {
	return newError(
		ErrUnsupportedMetadataKind,
		"unsupported_metadata_kind",
		CategoryMetadata,
		SeverityError,
		fmt.Sprintf("Unsupported metadata kind %d in '%s'", kind, unit),
	).WithSubject(unit).
		WithSuggestion("Only class (k=1) and file facade (k=2) attachments describe declaration containers")
}

// NewIncompatibleMetadata creates a MET003 error
func NewIncompatibleMetadata(unit, version string) *Error {
	return newError(
		ErrIncompatibleMetadata,
		"incompatible_metadata",
		CategoryMetadata,
		SeverityError,
		fmt.Sprintf("Metadata version %s of '%s' is not compatible", version, unit),
	).WithSubject(unit).
		WithSuggestion("Set metadata.incompatible_policy to 'substitute' to decode the payload on a best-effort basis")
}
