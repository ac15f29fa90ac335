package errors

import (
	"encoding/json"
	stderrors "errors"
	"fmt"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorCodeUniqueness(t *testing.T) {
	codes := map[ErrorCode]string{}
	all := map[string][]ErrorCode{
		"metadata": {ErrInvalidMetadata, ErrUnsupportedMetadataKind, ErrIncompatibleMetadata},
		"correlation": {
			ErrClassNotFound, ErrFunctionNotFound, ErrConstructorNotFound, ErrPropertyNotFound,
			ErrPropertyAccessorNotFound, ErrValueParameterNotFound, ErrTypeParameterNotFound, ErrNoRound,
		},
		"annotation": {ErrUnsupportedAnnotation},
	}

	for category, list := range all {
		for _, code := range list {
			prev, exists := codes[code]
			assert.False(t, exists, "duplicate error code %s (previously used for %s)", code, prev)
			codes[code] = category
		}
	}
}

func TestConstructors(t *testing.T) {
	tests := []struct {
		name     string
		err      *Error
		code     ErrorCode
		typ      string
		category ErrorCategory
		subject  string
	}{
		{"invalid metadata", NewInvalidMetadata("a.B", io.ErrUnexpectedEOF), ErrInvalidMetadata, "invalid_metadata", CategoryMetadata, "a.B"},
		{"unsupported kind", NewUnsupportedMetadataKind("a.B", 3), ErrUnsupportedMetadataKind, "unsupported_metadata_kind", CategoryMetadata, "a.B"},
		{"incompatible", NewIncompatibleMetadata("a.B", "0.9.0"), ErrIncompatibleMetadata, "incompatible_metadata", CategoryMetadata, "a.B"},
		{"class", NewClassNotFound("a.B"), ErrClassNotFound, "class_not_found", CategoryCorrelation, "a.B"},
		{"function", NewFunctionNotFound("a.B.f"), ErrFunctionNotFound, "function_not_found", CategoryCorrelation, "a.B.f"},
		{"constructor", NewConstructorNotFound("a.B.<init>"), ErrConstructorNotFound, "constructor_not_found", CategoryCorrelation, "a.B.<init>"},
		{"property", NewPropertyNotFound("a.B.x"), ErrPropertyNotFound, "property_not_found", CategoryCorrelation, "a.B.x"},
		{"accessor", NewPropertyAccessorNotFound("a.B.getX"), ErrPropertyAccessorNotFound, "property_accessor_not_found", CategoryCorrelation, "a.B.getX"},
		{"value parameter", NewValueParameterNotFound("a.B.f.p"), ErrValueParameterNotFound, "value_parameter_not_found", CategoryCorrelation, "a.B.f.p"},
		{"type parameter", NewTypeParameterNotFound("a.B.T"), ErrTypeParameterNotFound, "type_parameter_not_found", CategoryCorrelation, "a.B.T"},
		{"no round", NewNoRound(), ErrNoRound, "no_round", CategoryCorrelation, ""},
		{"unsupported annotation", NewUnsupportedAnnotation("a.Dump"), ErrUnsupportedAnnotation, "unsupported_annotation", CategoryAnnotation, "a.Dump"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.code, tt.err.Code)
			assert.Equal(t, tt.typ, tt.err.Type)
			assert.Equal(t, tt.category, tt.err.Category)
			assert.Equal(t, SeverityError, tt.err.Severity)
			assert.Equal(t, tt.subject, tt.err.Subject)
			assert.Contains(t, tt.err.Documentation, string(tt.code))
			assert.NotEmpty(t, tt.err.Message)
		})
	}
}

func TestErrorsIs(t *testing.T) {
	err := fmt.Errorf("query failed: %w", NewFunctionNotFound("a.B.f"))

	assert.True(t, stderrors.Is(err, ErrFunctionNotFound))
	assert.False(t, stderrors.Is(err, ErrPropertyNotFound))

	var kerr *Error
	require.True(t, stderrors.As(err, &kerr))
	assert.Equal(t, "a.B.f", kerr.Subject)
}

func TestUnwrapCause(t *testing.T) {
	err := NewInvalidMetadata("a.B", io.ErrUnexpectedEOF)

	assert.True(t, stderrors.Is(err, io.ErrUnexpectedEOF))
	assert.True(t, stderrors.Is(err, ErrInvalidMetadata))
	assert.Contains(t, err.Message, "unexpected EOF")
}

func TestErrorIsOneLine(t *testing.T) {
	err := NewClassNotFound("a.B")

	assert.Equal(t, "a.B: error: No decoded class matches 'a.B' [COR100]", err.Error())
	assert.Equal(t, "error: No round has run in this session [COR110]", NewNoRound().Error())
}

func TestFormat(t *testing.T) {
	out := NewPropertyAccessorNotFound("a.B.getX").Format()

	assert.Contains(t, out, "Correlation Error [COR104] in a.B.getX")
	assert.Contains(t, out, "💡")
	assert.Contains(t, out, "Learn more: https://docs.conduit-lang.org/kmeta/errors/COR104")
}

func TestToJSON(t *testing.T) {
	out, err := NewUnsupportedAnnotation("a.Dump").ToJSON()
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &decoded))
	assert.Equal(t, "ANN001", decoded["code"])
	assert.Equal(t, "annotation", decoded["category"])
	assert.Equal(t, "a.Dump", decoded["subject"])
}

func TestErrorList(t *testing.T) {
	var empty ErrorList
	assert.Equal(t, "no errors", empty.Error())
	assert.False(t, empty.HasErrors())

	warn := NewInvalidMetadata("a.C", nil)
	warn.Severity = SeverityWarning
	list := ErrorList{NewInvalidMetadata("a.B", nil), warn}

	errs, warns, info := list.ErrorCount()
	assert.Equal(t, 1, errs)
	assert.Equal(t, 1, warns)
	assert.Equal(t, 0, info)
	assert.True(t, list.HasErrors())

	out := list.Error()
	assert.True(t, strings.HasPrefix(out, "Found 1 error(s), 1 warning(s), 0 info"))
	assert.Contains(t, out, strings.Repeat("-", 80))

	js, err := list.ToJSON()
	require.NoError(t, err)
	var decoded []map[string]any
	require.NoError(t, json.Unmarshal([]byte(js), &decoded))
	assert.Len(t, decoded, 2)
}
