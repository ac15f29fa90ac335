package errors

import "fmt"

// Correlation error codes (COR100-199)
const (
	// ErrClassNotFound indicates an annotated class element with no decoded class
	ErrClassNotFound ErrorCode = "COR100"
	// ErrFunctionNotFound indicates an annotated method with no matching function
	ErrFunctionNotFound ErrorCode = "COR101"
	// ErrConstructorNotFound indicates an annotated constructor with no matching signature
	ErrConstructorNotFound ErrorCode = "COR102"
	// ErrPropertyNotFound indicates an annotated field or $annotations method with no property
	ErrPropertyNotFound ErrorCode = "COR103"
	// ErrPropertyAccessorNotFound indicates an annotated accessor with no backing property
	ErrPropertyAccessorNotFound ErrorCode = "COR104"
	// ErrValueParameterNotFound indicates an annotated parameter with no value parameter
	ErrValueParameterNotFound ErrorCode = "COR105"
	// ErrTypeParameterNotFound indicates an annotated type parameter with no declaration
	ErrTypeParameterNotFound ErrorCode = "COR106"
	// ErrNoRound indicates a query issued before any round ran
	ErrNoRound ErrorCode = "COR110"
)

func newNotFound(code ErrorCode, typ, what, name string) *Error {
	return newError(
		code,
		typ,
		CategoryCorrelation,
		SeverityError,
		fmt.Sprintf("No %s matches '%s'", what, name),
	).WithSubject(name)
}

// NewClassNotFound creates a COR100 error
func NewClassNotFound(name string) *Error {
	return newNotFound(ErrClassNotFound, "class_not_found", "decoded class", name).
		WithSuggestion("Make sure the class is reachable from the round's roots and carries a metadata attachment")
}

// NewFunctionNotFound creates a COR101 error
func NewFunctionNotFound(name string) *Error {
	return newNotFound(ErrFunctionNotFound, "function_not_found", "function", name).
		WithSuggestion("Compare the host signature with the function's rendered signature")
}

// NewConstructorNotFound creates a COR102 error
func NewConstructorNotFound(name string) *Error {
	return newNotFound(ErrConstructorNotFound, "constructor_not_found", "constructor", name)
}

// NewPropertyNotFound creates a COR103 error
func NewPropertyNotFound(name string) *Error {
	return newNotFound(ErrPropertyNotFound, "property_not_found", "property", name)
}

// NewPropertyAccessorNotFound creates a COR104 error
func NewPropertyAccessorNotFound(name string) *Error {
	return newNotFound(ErrPropertyAccessorNotFound, "property_accessor_not_found", "property for accessor", name).
		WithSuggestion("Accessors are matched by the decapitalized name after get/set and the full name for is")
}

// NewValueParameterNotFound creates a COR105 error
func NewValueParameterNotFound(name string) *Error {
	return newNotFound(ErrValueParameterNotFound, "value_parameter_not_found", "value parameter", name)
}

// NewTypeParameterNotFound creates a COR106 error
func NewTypeParameterNotFound(name string) *Error {
	return newNotFound(ErrTypeParameterNotFound, "type_parameter_not_found", "type parameter", name)
}

// NewNoRound creates a COR110 error
func NewNoRound() *Error {
	return newError(
		ErrNoRound,
		"no_round",
		CategoryCorrelation,
		SeverityError,
		"No round has run in this session",
	).WithSuggestion("Call RunRound with the session's root elements before querying")
}
