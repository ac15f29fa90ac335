package symbols

// Flags is the bitset carried by every declaration and type in the
// attachment. Bits 0-5 are shared by all declarations; the meaning of the
// higher bits depends on the variant.
type Flags uint32

// Has reports whether every bit of f is set.
func (fl Flags) Has(f Flags) bool {
	return fl&f == f
}

const (
	// FlagHasAnnotations marks declarations with source annotations.
	FlagHasAnnotations Flags = 1 << 0

	visibilityShift = 1
	visibilityMask  = 0x7 << visibilityShift
	modalityShift   = 4
	modalityMask    = 0x3 << modalityShift
)

// Visibility of a declaration.
type Visibility int

const (
	VisibilityInternal Visibility = iota
	VisibilityPrivate
	VisibilityProtected
	VisibilityPublic
	VisibilityPrivateToThis
	VisibilityLocal
)

func (v Visibility) String() string {
	switch v {
	case VisibilityInternal:
		return "internal"
	case VisibilityPrivate:
		return "private"
	case VisibilityProtected:
		return "protected"
	case VisibilityPublic:
		return "public"
	case VisibilityPrivateToThis:
		return "private_to_this"
	case VisibilityLocal:
		return "local"
	default:
		return "private"
	}
}

// Visibility extracts the visibility field. Unknown values decode as private.
func (fl Flags) Visibility() Visibility {
	v := Visibility((fl & visibilityMask) >> visibilityShift)
	if v > VisibilityLocal {
		return VisibilityPrivate
	}
	return v
}

// VisibilityFlags encodes v into the visibility field.
func VisibilityFlags(v Visibility) Flags {
	return Flags(v) << visibilityShift & visibilityMask
}

// Modality of a declaration.
type Modality int

const (
	ModalityFinal Modality = iota
	ModalityOpen
	ModalityAbstract
	ModalitySealed
)

func (m Modality) String() string {
	switch m {
	case ModalityOpen:
		return "open"
	case ModalityAbstract:
		return "abstract"
	case ModalitySealed:
		return "sealed"
	default:
		return "final"
	}
}

// Modality extracts the modality field.
func (fl Flags) Modality() Modality {
	return Modality((fl & modalityMask) >> modalityShift)
}

// ModalityFlags encodes m into the modality field.
func ModalityFlags(m Modality) Flags {
	return Flags(m) << modalityShift & modalityMask
}

// Class flags.
const (
	classKindShift = 6
	classKindMask  = 0x7 << classKindShift

	ClassInner    Flags = 1 << 9
	ClassData     Flags = 1 << 10
	ClassExternal Flags = 1 << 11
	ClassExpect   Flags = 1 << 12
	ClassInline   Flags = 1 << 13
	ClassFun      Flags = 1 << 14
)

// ClassKind distinguishes the flavours of class declarations.
type ClassKind int

const (
	ClassKindClass ClassKind = iota
	ClassKindInterface
	ClassKindEnumClass
	ClassKindEnumEntry
	ClassKindAnnotationClass
	ClassKindObject
	ClassKindCompanionObject
)

func (k ClassKind) String() string {
	switch k {
	case ClassKindInterface:
		return "interface"
	case ClassKindEnumClass:
		return "enum class"
	case ClassKindEnumEntry:
		return "enum entry"
	case ClassKindAnnotationClass:
		return "annotation class"
	case ClassKindObject:
		return "object"
	case ClassKindCompanionObject:
		return "companion object"
	default:
		return "class"
	}
}

// ClassKind extracts the class kind field.
func (fl Flags) ClassKind() ClassKind {
	return ClassKind((fl & classKindMask) >> classKindShift)
}

// ClassKindFlags encodes k into the class kind field.
func ClassKindFlags(k ClassKind) Flags {
	return Flags(k) << classKindShift & classKindMask
}

// Constructor flags. Constructors without ConstructorSecondary are primary.
const (
	ConstructorSecondary Flags = 1 << 6
)

// MemberKind tells declared members apart from compiler-produced ones.
type MemberKind int

const (
	MemberDeclaration MemberKind = iota
	MemberFakeOverride
	MemberDelegation
	MemberSynthesized
)

const (
	memberKindShift = 6
	memberKindMask  = 0x3 << memberKindShift
)

// MemberKind extracts the member kind field of functions and properties.
func (fl Flags) MemberKind() MemberKind {
	return MemberKind((fl & memberKindMask) >> memberKindShift)
}

// MemberKindFlags encodes k into the member kind field.
func MemberKindFlags(k MemberKind) Flags {
	return Flags(k) << memberKindShift & memberKindMask
}

// Function flags.
const (
	FunctionOperator Flags = 1 << 8
	FunctionInfix    Flags = 1 << 9
	FunctionInline   Flags = 1 << 10
	FunctionTailrec  Flags = 1 << 11
	FunctionExternal Flags = 1 << 12
	FunctionSuspend  Flags = 1 << 13
	FunctionExpect   Flags = 1 << 14
)

// Property flags.
const (
	PropertyVar         Flags = 1 << 8
	PropertyHasGetter   Flags = 1 << 9
	PropertyHasSetter   Flags = 1 << 10
	PropertyConst       Flags = 1 << 11
	PropertyLateinit    Flags = 1 << 12
	PropertyHasConstant Flags = 1 << 13
	PropertyExternal    Flags = 1 << 14
	PropertyDelegated   Flags = 1 << 15
	PropertyExpect      Flags = 1 << 16
)

// Property accessor flags, stored separately for the getter and the setter.
const (
	AccessorNotDefault Flags = 1 << 6
	AccessorExternal   Flags = 1 << 7
	AccessorInline     Flags = 1 << 8
)

// Value parameter flags.
const (
	ValueParameterDeclaresDefault Flags = 1 << 1
	ValueParameterCrossinline     Flags = 1 << 2
	ValueParameterNoinline        Flags = 1 << 3
)

// Type flags.
const (
	TypeNullable Flags = 1 << 1
	TypeSuspend  Flags = 1 << 2
)

// Type parameter flags.
const (
	TypeParameterReified Flags = 1 << 1
)
