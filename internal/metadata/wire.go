package metadata

import (
	"fmt"

	"google.golang.org/protobuf/encoding/protowire"
)

// Field numbers of the payload messages. String-valued fields hold an index
// into the header's string table.

// Class message.
const (
	ClassFlags              protowire.Number = 1
	ClassFqName             protowire.Number = 2
	ClassCompanionName      protowire.Number = 3
	ClassTypeParameter      protowire.Number = 4
	ClassSupertype          protowire.Number = 5
	ClassNestedName         protowire.Number = 6
	ClassConstructor        protowire.Number = 7
	ClassFunction           protowire.Number = 8
	ClassProperty           protowire.Number = 9
	ClassTypeAlias          protowire.Number = 10
	ClassEnumEntry          protowire.Number = 11
	ClassSealedSubclass     protowire.Number = 12
	ClassVersionRequirement protowire.Number = 13
)

// Package message (file facades and multi-file class parts).
const (
	PackageFunction  protowire.Number = 3
	PackageProperty  protowire.Number = 4
	PackageTypeAlias protowire.Number = 5
)

// Function message.
const (
	FunctionFlags          protowire.Number = 1
	FunctionName           protowire.Number = 2
	FunctionReturnType     protowire.Number = 3
	FunctionTypeParameter  protowire.Number = 4
	FunctionReceiverType   protowire.Number = 5
	FunctionValueParameter protowire.Number = 6
	FunctionContract       protowire.Number = 7
)

// Property message.
const (
	PropertyFlags           protowire.Number = 1
	PropertyName            protowire.Number = 2
	PropertyReturnType      protowire.Number = 3
	PropertyTypeParameter   protowire.Number = 4
	PropertyReceiverType    protowire.Number = 5
	PropertySetterParameter protowire.Number = 6
	PropertyGetterFlags     protowire.Number = 7
	PropertySetterFlags     protowire.Number = 8
)

// Constructor message.
const (
	ConstructorFlags          protowire.Number = 1
	ConstructorValueParameter protowire.Number = 2
)

// TypeAlias message.
const (
	TypeAliasFlags          protowire.Number = 1
	TypeAliasName           protowire.Number = 2
	TypeAliasTypeParameter  protowire.Number = 3
	TypeAliasUnderlyingType protowire.Number = 4
	TypeAliasExpandedType   protowire.Number = 5
	TypeAliasAnnotation     protowire.Number = 6
)

// Annotation message.
const (
	AnnotationClassName protowire.Number = 1
)

// ValueParameter message.
const (
	ValueParameterFlags      protowire.Number = 1
	ValueParameterName       protowire.Number = 2
	ValueParameterType       protowire.Number = 3
	ValueParameterVarargType protowire.Number = 4
)

// TypeParameter message.
const (
	TypeParameterFlags      protowire.Number = 1
	TypeParameterID         protowire.Number = 2
	TypeParameterName       protowire.Number = 3
	TypeParameterVariance   protowire.Number = 4
	TypeParameterUpperBound protowire.Number = 5
)

// Type message.
const (
	TypeFlags           protowire.Number = 1
	TypeArgument        protowire.Number = 2
	TypeClassName       protowire.Number = 3
	TypeTypeAliasName   protowire.Number = 4
	TypeTypeParameterID protowire.Number = 5
	TypeAbbreviatedType protowire.Number = 6
	TypeFlexibleBound   protowire.Number = 7
	TypeOuterType       protowire.Number = 8
)

// Argument message (one type argument).
const (
	ArgumentProjection protowire.Number = 1
	ArgumentType       protowire.Number = 2
)

// FlexibleBound message.
const (
	FlexibleBoundID   protowire.Number = 1
	FlexibleBoundType protowire.Number = 2
)

// Lambda message.
const (
	LambdaFunction protowire.Number = 1
)

// Variance values of TypeParameterVariance.
const (
	WireInvariant uint64 = 0
	WireIn        uint64 = 1
	WireOut       uint64 = 2
)

// Projection values of ArgumentProjection. WireStar carries no type.
const (
	WireProjectionInvariant uint64 = 0
	WireProjectionIn        uint64 = 1
	WireProjectionOut       uint64 = 2
	WireStar                uint64 = 3
)

// Field is one field of a payload message.
type Field struct {
	Num  protowire.Number
	Type protowire.Type
	// Varint holds the value of varint fields.
	Varint uint64
	// Bytes holds the value of length-delimited fields (nested messages).
	Bytes []byte
}

// Int returns the varint value as an int.
func (f Field) Int() int {
	return int(f.Varint)
}

// IsMessage reports whether the field is length-delimited.
func (f Field) IsMessage() bool {
	return f.Type == protowire.BytesType
}

// Fields walks the fields of the message in b in wire order. Fields of
// types other than varint and bytes are skipped. fn's first error stops the
// walk and is returned.
func Fields(b []byte, fn func(Field) error) error {
	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return fmt.Errorf("malformed tag: %w", protowire.ParseError(n))
		}
		b = b[n:]

		field := Field{Num: num, Type: typ}
		switch typ {
		case protowire.VarintType:
			v, n := protowire.ConsumeVarint(b)
			if n < 0 {
				return fmt.Errorf("field %d: %w", num, protowire.ParseError(n))
			}
			field.Varint = v
			b = b[n:]
		case protowire.BytesType:
			v, n := protowire.ConsumeBytes(b)
			if n < 0 {
				return fmt.Errorf("field %d: %w", num, protowire.ParseError(n))
			}
			field.Bytes = v
			b = b[n:]
		default:
			n := protowire.ConsumeFieldValue(num, typ, b)
			if n < 0 {
				return fmt.Errorf("field %d: %w", num, protowire.ParseError(n))
			}
			b = b[n:]
			continue
		}

		if err := fn(field); err != nil {
			return err
		}
	}
	return nil
}
