package symbols

import "strings"

// Class is a decoded class, interface, enum, object or annotation class.
type Class struct {
	node

	// Name is the dot-separated qualified name (nested classes keep their
	// outer class as a prefix, e.g. "a.b.Outer.Inner").
	Name string

	Constructors   []*Constructor
	FunctionList   []*Function
	PropertyList   []*Property
	TypeAliasList  []*TypeAlias
	TypeParameters []*TypeParameter
	Supertypes     []*Type

	CompanionObjectName string
	NestedClassNames    []string
	EnumEntryNames      []string
	SealedSubclassNames []string
}

// NewClass creates a class root in a.
func (a *Arena) NewClass(name string, flags Flags) *Class {
	c := &Class{Name: name}
	a.attach(&c.node, c, nil, flags)
	return c
}

func (c *Class) Kind() Kind                { return KindClass }
func (c *Class) Accept(v Visitor)          { v.VisitClass(c) }
func (c *Class) Arena() *Arena             { return c.arena }
func (c *Class) QualifiedName() string     { return c.Name }
func (c *Class) Functions() []*Function    { return c.FunctionList }
func (c *Class) Properties() []*Property   { return c.PropertyList }
func (c *Class) TypeAliases() []*TypeAlias { return c.TypeAliasList }

// SimpleName returns the last segment of the qualified name.
func (c *Class) SimpleName() string {
	if i := strings.LastIndexByte(c.Name, '.'); i >= 0 {
		return c.Name[i+1:]
	}
	return c.Name
}

// Supertype returns the first declared supertype, if any.
func (c *Class) Supertype() *Type {
	if len(c.Supertypes) == 0 {
		return nil
	}
	return c.Supertypes[0]
}

// ClassKind returns the flavour of the class declaration.
func (c *Class) ClassKind() ClassKind { return c.flags.ClassKind() }

func (c *Class) IsCommonClass() bool     { return c.ClassKind() == ClassKindClass }
func (c *Class) IsInterface() bool       { return c.ClassKind() == ClassKindInterface }
func (c *Class) IsEnumClass() bool       { return c.ClassKind() == ClassKindEnumClass }
func (c *Class) IsEnumEntry() bool       { return c.ClassKind() == ClassKindEnumEntry }
func (c *Class) IsAnnotationClass() bool { return c.ClassKind() == ClassKindAnnotationClass }
func (c *Class) IsObject() bool          { return c.ClassKind() == ClassKindObject }
func (c *Class) IsCompanionObject() bool { return c.ClassKind() == ClassKindCompanionObject }
func (c *Class) IsInner() bool           { return c.flags.Has(ClassInner) }
func (c *Class) IsData() bool            { return c.flags.Has(ClassData) }
func (c *Class) IsExternal() bool        { return c.flags.Has(ClassExternal) }
func (c *Class) IsExpect() bool          { return c.flags.Has(ClassExpect) }
func (c *Class) IsInline() bool          { return c.flags.Has(ClassInline) }

// PrimaryConstructor returns the primary constructor, if declared.
func (c *Class) PrimaryConstructor() *Constructor {
	for _, ctor := range c.Constructors {
		if ctor.IsPrimary() {
			return ctor
		}
	}
	return nil
}

// Property returns the property with the given name.
func (c *Class) Property(name string) *Property {
	return findProperty(c.PropertyList, name)
}

// TypeParameter returns the class type parameter with the given name.
func (c *Class) TypeParameter(name string) *TypeParameter {
	return findTypeParameter(c.TypeParameters, name)
}

// HasNested reports whether name is listed as a nested class or enum entry.
func (c *Class) HasNested(name string) bool {
	for _, n := range c.NestedClassNames {
		if n == name {
			return true
		}
	}
	for _, n := range c.EnumEntryNames {
		if n == name {
			return true
		}
	}
	return name != "" && name == c.CompanionObjectName
}

// Package is a decoded file facade: the top-level declarations of one file.
type Package struct {
	node

	// Name is the qualified name of the facade the declarations were
	// compiled into.
	Name string
	// PackageName is the dot-separated package the file belongs to.
	PackageName string

	FunctionList  []*Function
	PropertyList  []*Property
	TypeAliasList []*TypeAlias
}

// NewPackage creates a file facade root in a.
func (a *Arena) NewPackage(name string, flags Flags) *Package {
	p := &Package{Name: name}
	a.attach(&p.node, p, nil, flags)
	return p
}

func (p *Package) Kind() Kind                { return KindPackage }
func (p *Package) Accept(v Visitor)          { v.VisitPackage(p) }
func (p *Package) Arena() *Arena             { return p.arena }
func (p *Package) QualifiedName() string     { return p.Name }
func (p *Package) Functions() []*Function    { return p.FunctionList }
func (p *Package) Properties() []*Property   { return p.PropertyList }
func (p *Package) TypeAliases() []*TypeAlias { return p.TypeAliasList }

// Property returns the top-level property with the given name.
func (p *Package) Property(name string) *Property {
	return findProperty(p.PropertyList, name)
}

// Lambda is a decoded synthetic class wrapping a single function.
type Lambda struct {
	node

	Function *Function
}

// NewLambda creates a lambda root in a.
func (a *Arena) NewLambda(flags Flags) *Lambda {
	l := &Lambda{}
	a.attach(&l.node, l, nil, flags)
	return l
}

func (l *Lambda) Kind() Kind       { return KindLambda }
func (l *Lambda) Accept(v Visitor) { v.VisitLambda(l) }

// Constructor is a class constructor.
type Constructor struct {
	node

	ValueParameters []*ValueParameter
}

// NewConstructor creates a constructor enclosed by parent.
func (a *Arena) NewConstructor(parent Symbol, flags Flags) *Constructor {
	c := &Constructor{}
	a.attach(&c.node, c, parent, flags)
	return c
}

func (c *Constructor) Kind() Kind       { return KindConstructor }
func (c *Constructor) Accept(v Visitor) { v.VisitConstructor(c) }

// IsPrimary reports whether this is the class's primary constructor.
func (c *Constructor) IsPrimary() bool { return !c.flags.Has(ConstructorSecondary) }

// ValueParameter returns the parameter with the given name.
func (c *Constructor) ValueParameter(name string) *ValueParameter {
	return findValueParameter(c.ValueParameters, name)
}

// DeliveredProperties returns the properties of the enclosing class whose
// names match a parameter of this constructor, in property order. Only the
// primary constructor delivers properties.
func (c *Constructor) DeliveredProperties() []*Property {
	if !c.IsPrimary() {
		return nil
	}
	class, ok := c.Enclosing().(*Class)
	if !ok {
		return nil
	}

	names := make(map[string]struct{}, len(c.ValueParameters))
	for _, p := range c.ValueParameters {
		names[p.Name] = struct{}{}
	}

	var delivered []*Property
	for _, prop := range class.PropertyList {
		if _, ok := names[prop.Name]; ok {
			delivered = append(delivered, prop)
		}
	}
	return delivered
}

// Function is a member, top-level or local function.
type Function struct {
	node

	Name            string
	TypeParameters  []*TypeParameter
	ReceiverType    *Type
	ValueParameters []*ValueParameter
	ReturnType      *Type
}

// NewFunction creates a function enclosed by parent.
func (a *Arena) NewFunction(parent Symbol, name string, flags Flags) *Function {
	f := &Function{Name: name}
	a.attach(&f.node, f, parent, flags)
	return f
}

func (f *Function) Kind() Kind       { return KindFunction }
func (f *Function) Accept(v Visitor) { v.VisitFunction(f) }

func (f *Function) MemberKind() MemberKind     { return f.flags.MemberKind() }
func (f *Function) IsExplicitlyDeclared() bool { return f.MemberKind() == MemberDeclaration }
func (f *Function) IsFakeOverride() bool       { return f.MemberKind() == MemberFakeOverride }
func (f *Function) IsDelegation() bool         { return f.MemberKind() == MemberDelegation }
func (f *Function) IsSynthesized() bool        { return f.MemberKind() == MemberSynthesized }
func (f *Function) IsOperator() bool           { return f.flags.Has(FunctionOperator) }
func (f *Function) IsInfix() bool              { return f.flags.Has(FunctionInfix) }
func (f *Function) IsInline() bool             { return f.flags.Has(FunctionInline) }
func (f *Function) IsTailrec() bool            { return f.flags.Has(FunctionTailrec) }
func (f *Function) IsExternal() bool           { return f.flags.Has(FunctionExternal) }
func (f *Function) IsSuspend() bool            { return f.flags.Has(FunctionSuspend) }
func (f *Function) IsExpect() bool             { return f.flags.Has(FunctionExpect) }
func (f *Function) IsExtension() bool          { return f.ReceiverType != nil }

// ValueParameter returns the parameter with the given name.
func (f *Function) ValueParameter(name string) *ValueParameter {
	return findValueParameter(f.ValueParameters, name)
}

// TypeParameter returns the function type parameter with the given name.
func (f *Function) TypeParameter(name string) *TypeParameter {
	return findTypeParameter(f.TypeParameters, name)
}

// Property is a member or top-level property.
type Property struct {
	node

	Name            string
	TypeParameters  []*TypeParameter
	ReceiverType    *Type
	SetterParameter *ValueParameter
	ReturnType      *Type

	getterFlags Flags
	setterFlags Flags
}

// NewProperty creates a property enclosed by parent.
func (a *Arena) NewProperty(parent Symbol, name string, flags, getterFlags, setterFlags Flags) *Property {
	p := &Property{Name: name, getterFlags: getterFlags, setterFlags: setterFlags}
	a.attach(&p.node, p, parent, flags)
	return p
}

func (p *Property) Kind() Kind       { return KindProperty }
func (p *Property) Accept(v Visitor) { v.VisitProperty(p) }

func (p *Property) GetterFlags() Flags { return p.getterFlags }
func (p *Property) SetterFlags() Flags { return p.setterFlags }

func (p *Property) MemberKind() MemberKind     { return p.flags.MemberKind() }
func (p *Property) IsExplicitlyDeclared() bool { return p.MemberKind() == MemberDeclaration }
func (p *Property) IsFakeOverride() bool       { return p.MemberKind() == MemberFakeOverride }
func (p *Property) IsDelegation() bool         { return p.MemberKind() == MemberDelegation }
func (p *Property) IsSynthesized() bool        { return p.MemberKind() == MemberSynthesized }
func (p *Property) IsModifiable() bool         { return p.flags.Has(PropertyVar) }
func (p *Property) HasGetter() bool            { return p.flags.Has(PropertyHasGetter) }
func (p *Property) HasSetter() bool            { return p.flags.Has(PropertyHasSetter) }
func (p *Property) IsConstant() bool           { return p.flags.Has(PropertyConst) }
func (p *Property) IsLateinit() bool           { return p.flags.Has(PropertyLateinit) }
func (p *Property) HasConstant() bool          { return p.flags.Has(PropertyHasConstant) }
func (p *Property) IsExternal() bool           { return p.flags.Has(PropertyExternal) }
func (p *Property) IsDelegated() bool          { return p.flags.Has(PropertyDelegated) }
func (p *Property) IsExpect() bool             { return p.flags.Has(PropertyExpect) }
func (p *Property) IsExtension() bool          { return p.ReceiverType != nil }

func (p *Property) IsGetterNotDefault() bool { return p.getterFlags.Has(AccessorNotDefault) }
func (p *Property) IsSetterNotDefault() bool { return p.setterFlags.Has(AccessorNotDefault) }
func (p *Property) IsGetterExternal() bool   { return p.getterFlags.Has(AccessorExternal) }
func (p *Property) IsSetterExternal() bool   { return p.setterFlags.Has(AccessorExternal) }
func (p *Property) IsGetterInline() bool     { return p.getterFlags.Has(AccessorInline) }
func (p *Property) IsSetterInline() bool     { return p.setterFlags.Has(AccessorInline) }

// TypeParameter returns the property type parameter with the given name.
func (p *Property) TypeParameter(name string) *TypeParameter {
	return findTypeParameter(p.TypeParameters, name)
}

// TypeAlias is a typealias declaration. Aliases are erased from the host
// reflection view, so their annotations come from the attachment itself.
type TypeAlias struct {
	node

	Name           string
	TypeParameters []*TypeParameter
	UnderlyingType *Type
	ExpandedType   *Type

	// Declared holds the annotations recorded in the attachment.
	Declared []DeclaredAnnotation
}

// DeclaredAnnotation is an annotation stored in the attachment rather than
// seen through reflection.
type DeclaredAnnotation struct {
	// Class is the dot-separated annotation class name.
	Class string
}

// NewTypeAlias creates a type alias enclosed by parent.
func (a *Arena) NewTypeAlias(parent Symbol, name string, flags Flags) *TypeAlias {
	t := &TypeAlias{Name: name}
	a.attach(&t.node, t, parent, flags)
	return t
}

func (t *TypeAlias) Kind() Kind       { return KindTypeAlias }
func (t *TypeAlias) Accept(v Visitor) { v.VisitTypeAlias(t) }

// Declares reports whether the attachment lists an annotation of class.
func (t *TypeAlias) Declares(class string) bool {
	for _, d := range t.Declared {
		if d.Class == class {
			return true
		}
	}
	return false
}

// TypeParameter returns the alias type parameter with the given name.
func (t *TypeAlias) TypeParameter(name string) *TypeParameter {
	return findTypeParameter(t.TypeParameters, name)
}

// ValueParameter is a function, constructor or setter parameter.
type ValueParameter struct {
	node

	Name       string
	Type       *Type
	VarargType *Type
}

// NewValueParameter creates a value parameter enclosed by parent.
func (a *Arena) NewValueParameter(parent Symbol, name string, flags Flags) *ValueParameter {
	p := &ValueParameter{Name: name}
	a.attach(&p.node, p, parent, flags)
	return p
}

func (p *ValueParameter) Kind() Kind       { return KindValueParameter }
func (p *ValueParameter) Accept(v Visitor) { v.VisitValueParameter(p) }

func (p *ValueParameter) DeclaresDefaultValue() bool {
	return p.flags.Has(ValueParameterDeclaresDefault)
}
func (p *ValueParameter) IsCrossinline() bool { return p.flags.Has(ValueParameterCrossinline) }
func (p *ValueParameter) IsNoinline() bool    { return p.flags.Has(ValueParameterNoinline) }
func (p *ValueParameter) IsVararg() bool      { return p.VarargType != nil }

func (p *ValueParameter) String() string {
	var b strings.Builder
	switch {
	case p.IsCrossinline():
		b.WriteString("crossinline ")
	case p.IsNoinline():
		b.WriteString("noinline ")
	}
	if p.VarargType != nil {
		b.WriteString("vararg ")
		b.WriteString(p.Name)
		b.WriteString(": ")
		b.WriteString(p.VarargType.String())
		return b.String()
	}
	b.WriteString(p.Name)
	b.WriteString(": ")
	b.WriteString(p.Type.String())
	return b.String()
}

func findProperty(props []*Property, name string) *Property {
	for _, p := range props {
		if p.Name == name {
			return p
		}
	}
	return nil
}

func findValueParameter(params []*ValueParameter, name string) *ValueParameter {
	for _, p := range params {
		if p.Name == name {
			return p
		}
	}
	return nil
}

func findTypeParameter(params []*TypeParameter, name string) *TypeParameter {
	for _, p := range params {
		if p.Name == name {
			return p
		}
	}
	return nil
}
