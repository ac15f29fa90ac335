package symbols

import "strings"

// TypeKind tells what a Type refers to.
type TypeKind int

const (
	// TypeKindNone is only used by the star projection sentinel.
	TypeKindNone TypeKind = iota
	TypeKindClass
	TypeKindTypeAlias
	TypeKindTypeParameter
)

func (k TypeKind) String() string {
	switch k {
	case TypeKindClass:
		return "class_type"
	case TypeKindTypeAlias:
		return "type_alias"
	case TypeKindTypeParameter:
		return "type_parameter"
	default:
		return "none"
	}
}

// Variance of a type argument or a type parameter.
type Variance int

const (
	VarianceInvariant Variance = iota
	VarianceIn
	VarianceOut
)

func (v Variance) String() string {
	switch v {
	case VarianceIn:
		return "in"
	case VarianceOut:
		return "out"
	default:
		return "invariant"
	}
}

func (v Variance) prefix() string {
	switch v {
	case VarianceIn:
		return "in "
	case VarianceOut:
		return "out "
	default:
		return ""
	}
}

// Type is a use of a type: a class, an alias or a type parameter, with its
// arguments and nullability.
type Type struct {
	node

	TypeKind  TypeKind
	Variance  Variance
	Arguments []*Type

	// ClassName is the slash-separated name for class and alias types.
	ClassName string
	// ParameterID is the scope-relative id of a type parameter reference.
	ParameterID int

	AbbreviatedType    *Type
	FlexibleUpperBound *Type
	FlexibilityID      string
	OuterType          *Type

	// parameter is set by the binder for type parameter references.
	parameter *TypeParameter
}

// StarProjection is the shared sentinel for `*` type arguments. It belongs to
// no arena and has no enclosing symbol.
var StarProjection = &Type{node: node{id: NoID, parent: NoID}, ClassName: "*"}

// NewType creates a type enclosed by parent.
func (a *Arena) NewType(parent Symbol, kind TypeKind, flags Flags) *Type {
	t := &Type{TypeKind: kind}
	a.attach(&t.node, t, parent, flags)
	return t
}

func (t *Type) Kind() Kind       { return KindType }
func (t *Type) Accept(v Visitor) { v.VisitType(t) }

func (t *Type) IsNullable() bool { return t.flags.Has(TypeNullable) }
func (t *Type) IsSuspend() bool  { return t.flags.Has(TypeSuspend) }

// IsStarProjection reports whether t is the star projection sentinel.
func (t *Type) IsStarProjection() bool { return t == StarProjection }

// Name returns the referenced name. Type parameter references have no name
// until they are bound; Name returns "" for them before binding.
func (t *Type) Name() string {
	if t.TypeKind == TypeKindTypeParameter {
		if t.parameter == nil {
			return ""
		}
		return t.parameter.Name
	}
	return t.ClassName
}

// Parameter returns the type parameter a bound reference points to.
func (t *Type) Parameter() *TypeParameter {
	return t.parameter
}

// IsBound reports whether t is not a type parameter reference, or is one
// that the binder resolved.
func (t *Type) IsBound() bool {
	return t.TypeKind != TypeKindTypeParameter || t.parameter != nil
}

// Bind points a type parameter reference at its declaration. A reference
// can be bound once; later calls are ignored and report false.
func (t *Type) Bind(p *TypeParameter) bool {
	if t.TypeKind != TypeKindTypeParameter || t.parameter != nil || p == nil {
		return false
	}
	t.parameter = p
	return true
}

// displayName is Name with a placeholder for unbound references.
func (t *Type) displayName() string {
	if !t.IsBound() {
		return "<unknown type parameter>"
	}
	return t.Name()
}

// String renders the type in source form, e.g. "out List<T>?".
func (t *Type) String() string {
	if t == nil {
		return "null"
	}
	var b strings.Builder
	if t.IsSuspend() {
		b.WriteString("suspend ")
	}
	b.WriteString(t.Variance.prefix())
	b.WriteString(t.displayName())
	t.writeArguments(&b)
	if t.IsNullable() {
		b.WriteString("?")
	}
	return b.String()
}

// KotlinName renders the type without its own variance, e.g. "List<out T>?".
func (t *Type) KotlinName() string {
	if t == nil {
		return "null"
	}
	var b strings.Builder
	b.WriteString(t.displayName())
	t.writeArguments(&b)
	if t.IsNullable() {
		b.WriteString("?")
	}
	return b.String()
}

func (t *Type) writeArguments(b *strings.Builder) {
	if len(t.Arguments) == 0 {
		return
	}
	b.WriteString("<")
	for i, arg := range t.Arguments {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(arg.String())
	}
	b.WriteString(">")
}

// TypeParameter is a generic parameter declared by a class, function,
// property or type alias.
type TypeParameter struct {
	node

	Name        string
	ParameterID int
	Variance    Variance
	UpperBounds []*Type
}

// NewTypeParameter creates a type parameter enclosed by parent.
func (a *Arena) NewTypeParameter(parent Symbol, name string, id int, variance Variance, flags Flags) *TypeParameter {
	p := &TypeParameter{Name: name, ParameterID: id, Variance: variance}
	a.attach(&p.node, p, parent, flags)
	return p
}

func (p *TypeParameter) Kind() Kind       { return KindTypeParameter }
func (p *TypeParameter) Accept(v Visitor) { v.VisitTypeParameter(p) }

func (p *TypeParameter) IsReified() bool { return p.flags.Has(TypeParameterReified) }

// UpperBound returns the first declared upper bound, if any.
func (p *TypeParameter) UpperBound() *Type {
	if len(p.UpperBounds) == 0 {
		return nil
	}
	return p.UpperBounds[0]
}

// JavaName is the name used in Java-facing signatures.
func (p *TypeParameter) JavaName() string {
	if p.Name == "*" {
		return "?"
	}
	return p.Name
}

func (p *TypeParameter) String() string {
	var b strings.Builder
	b.WriteString(p.Variance.prefix())
	b.WriteString(p.Name)
	if ub := p.UpperBound(); ub != nil {
		b.WriteString(": ")
		b.WriteString(ub.String())
	}
	return b.String()
}
