// Package encoder writes a symbol tree back into a metadata attachment.
// It is the inverse of package decoder and is used to produce fixtures.
package encoder

import (
	"fmt"

	"google.golang.org/protobuf/encoding/protowire"

	"github.com/conduit-lang/kmeta/internal/metadata"
	"github.com/conduit-lang/kmeta/internal/symbols"
)

// Encode serializes a Class, Package or Lambda root into a header stamped
// with the current metadata version.
// The output is deterministic: the same tree always produces the same payload
// and string table.
func Encode(root symbols.Symbol) (*metadata.Header, error) {
	if root == nil {
		return nil, fmt.Errorf("root cannot be nil")
	}

	e := &encoder{st: metadata.NewStringTable()}
	var (
		w    metadata.Writer
		kind metadata.Kind
		pn   string
	)
	switch r := root.(type) {
	case *symbols.Class:
		kind = metadata.KindClass
		e.class(&w, r)
	case *symbols.Package:
		kind = metadata.KindFileFacade
		pn = r.PackageName
		e.pkg(&w, r)
	case *symbols.Lambda:
		if r.Function == nil {
			return nil, fmt.Errorf("lambda has no function")
		}
		kind = metadata.KindSyntheticClass
		w.Message(metadata.LambdaFunction, func(fw *metadata.Writer) { e.function(fw, r.Function) })
	default:
		return nil, fmt.Errorf("cannot encode a %s root", root.Kind())
	}
	if e.err != nil {
		return nil, e.err
	}

	return &metadata.Header{
		Kind:            kind,
		MetadataVersion: metadata.Current.Ints(),
		Data1:           w.Bytes(),
		Data2:           e.st.Strings(),
		PackageName:     pn,
	}, nil
}

type encoder struct {
	st  *metadata.StringTable
	err error
}

func (e *encoder) str(w *metadata.Writer, num protowire.Number, s string) {
	w.Uint(num, e.st.Index(s))
}

func (e *encoder) flags(w *metadata.Writer, num protowire.Number, f symbols.Flags) {
	if f != 0 {
		w.Uint(num, uint64(f))
	}
}

func (e *encoder) class(w *metadata.Writer, c *symbols.Class) {
	e.flags(w, metadata.ClassFlags, c.Flags())
	e.str(w, metadata.ClassFqName, c.Name)
	for _, tp := range c.TypeParameters {
		w.Message(metadata.ClassTypeParameter, func(m *metadata.Writer) { e.typeParameter(m, tp) })
	}
	for _, t := range c.Supertypes {
		w.Message(metadata.ClassSupertype, func(m *metadata.Writer) { e.typ(m, t) })
	}
	for _, ctor := range c.Constructors {
		w.Message(metadata.ClassConstructor, func(m *metadata.Writer) {
			e.flags(m, metadata.ConstructorFlags, ctor.Flags())
			for _, p := range ctor.ValueParameters {
				m.Message(metadata.ConstructorValueParameter, func(pm *metadata.Writer) { e.valueParameter(pm, p) })
			}
		})
	}
	e.members(w, c.FunctionList, c.PropertyList, c.TypeAliasList,
		metadata.ClassFunction, metadata.ClassProperty, metadata.ClassTypeAlias)

	if c.CompanionObjectName != "" {
		e.str(w, metadata.ClassCompanionName, c.CompanionObjectName)
	}
	for _, n := range c.NestedClassNames {
		e.str(w, metadata.ClassNestedName, n)
	}
	for _, n := range c.EnumEntryNames {
		e.str(w, metadata.ClassEnumEntry, n)
	}
	for _, n := range c.SealedSubclassNames {
		e.str(w, metadata.ClassSealedSubclass, n)
	}
}

func (e *encoder) pkg(w *metadata.Writer, p *symbols.Package) {
	e.members(w, p.FunctionList, p.PropertyList, p.TypeAliasList,
		metadata.PackageFunction, metadata.PackageProperty, metadata.PackageTypeAlias)
}

func (e *encoder) members(w *metadata.Writer, fs []*symbols.Function, ps []*symbols.Property, as []*symbols.TypeAlias,
	fnum, pnum, anum protowire.Number) {
	for _, f := range fs {
		w.Message(fnum, func(m *metadata.Writer) { e.function(m, f) })
	}
	for _, p := range ps {
		w.Message(pnum, func(m *metadata.Writer) { e.property(m, p) })
	}
	for _, a := range as {
		w.Message(anum, func(m *metadata.Writer) { e.typeAlias(m, a) })
	}
}

func (e *encoder) function(w *metadata.Writer, f *symbols.Function) {
	e.flags(w, metadata.FunctionFlags, f.Flags())
	e.str(w, metadata.FunctionName, f.Name)
	for _, tp := range f.TypeParameters {
		w.Message(metadata.FunctionTypeParameter, func(m *metadata.Writer) { e.typeParameter(m, tp) })
	}
	if f.ReceiverType != nil {
		w.Message(metadata.FunctionReceiverType, func(m *metadata.Writer) { e.typ(m, f.ReceiverType) })
	}
	for _, p := range f.ValueParameters {
		w.Message(metadata.FunctionValueParameter, func(m *metadata.Writer) { e.valueParameter(m, p) })
	}
	if f.ReturnType != nil {
		w.Message(metadata.FunctionReturnType, func(m *metadata.Writer) { e.typ(m, f.ReturnType) })
	}
}

func (e *encoder) property(w *metadata.Writer, p *symbols.Property) {
	e.flags(w, metadata.PropertyFlags, p.Flags())
	e.flags(w, metadata.PropertyGetterFlags, p.GetterFlags())
	e.flags(w, metadata.PropertySetterFlags, p.SetterFlags())
	e.str(w, metadata.PropertyName, p.Name)
	for _, tp := range p.TypeParameters {
		w.Message(metadata.PropertyTypeParameter, func(m *metadata.Writer) { e.typeParameter(m, tp) })
	}
	if p.ReceiverType != nil {
		w.Message(metadata.PropertyReceiverType, func(m *metadata.Writer) { e.typ(m, p.ReceiverType) })
	}
	if p.SetterParameter != nil {
		w.Message(metadata.PropertySetterParameter, func(m *metadata.Writer) { e.valueParameter(m, p.SetterParameter) })
	}
	if p.ReturnType != nil {
		w.Message(metadata.PropertyReturnType, func(m *metadata.Writer) { e.typ(m, p.ReturnType) })
	}
}

func (e *encoder) typeAlias(w *metadata.Writer, a *symbols.TypeAlias) {
	e.flags(w, metadata.TypeAliasFlags, a.Flags())
	e.str(w, metadata.TypeAliasName, a.Name)
	for _, tp := range a.TypeParameters {
		w.Message(metadata.TypeAliasTypeParameter, func(m *metadata.Writer) { e.typeParameter(m, tp) })
	}
	if a.UnderlyingType != nil {
		w.Message(metadata.TypeAliasUnderlyingType, func(m *metadata.Writer) { e.typ(m, a.UnderlyingType) })
	}
	if a.ExpandedType != nil {
		w.Message(metadata.TypeAliasExpandedType, func(m *metadata.Writer) { e.typ(m, a.ExpandedType) })
	}
	for _, d := range a.Declared {
		w.Message(metadata.TypeAliasAnnotation, func(m *metadata.Writer) { e.str(m, metadata.AnnotationClassName, d.Class) })
	}
}

func (e *encoder) valueParameter(w *metadata.Writer, p *symbols.ValueParameter) {
	e.flags(w, metadata.ValueParameterFlags, p.Flags())
	e.str(w, metadata.ValueParameterName, p.Name)
	if p.Type == nil {
		e.fail(fmt.Errorf("value parameter %s: missing type", p.Name))
		return
	}
	w.Message(metadata.ValueParameterType, func(m *metadata.Writer) { e.typ(m, p.Type) })
	if p.VarargType != nil {
		w.Message(metadata.ValueParameterVarargType, func(m *metadata.Writer) { e.typ(m, p.VarargType) })
	}
}

func (e *encoder) typeParameter(w *metadata.Writer, tp *symbols.TypeParameter) {
	e.flags(w, metadata.TypeParameterFlags, tp.Flags())
	w.Uint(metadata.TypeParameterID, uint64(tp.ParameterID))
	e.str(w, metadata.TypeParameterName, tp.Name)
	if tp.Variance != symbols.VarianceInvariant {
		w.Uint(metadata.TypeParameterVariance, wireVariance(tp.Variance))
	}
	for _, b := range tp.UpperBounds {
		w.Message(metadata.TypeParameterUpperBound, func(m *metadata.Writer) { e.typ(m, b) })
	}
}

func (e *encoder) typ(w *metadata.Writer, t *symbols.Type) {
	e.flags(w, metadata.TypeFlags, t.Flags())
	switch t.TypeKind {
	case symbols.TypeKindClass:
		e.str(w, metadata.TypeClassName, t.ClassName)
	case symbols.TypeKindTypeAlias:
		e.str(w, metadata.TypeTypeAliasName, t.ClassName)
	case symbols.TypeKindTypeParameter:
		if t.ParameterID < 0 {
			e.fail(fmt.Errorf("type parameter reference with negative id %d", t.ParameterID))
			return
		}
		w.Uint(metadata.TypeTypeParameterID, uint64(t.ParameterID))
	default:
		e.fail(fmt.Errorf("type %s has no classifier", t))
		return
	}

	for _, arg := range t.Arguments {
		w.Message(metadata.TypeArgument, func(m *metadata.Writer) {
			if arg.IsStarProjection() {
				m.Uint(metadata.ArgumentProjection, metadata.WireStar)
				return
			}
			if arg.Variance != symbols.VarianceInvariant {
				m.Uint(metadata.ArgumentProjection, wireVariance(arg.Variance))
			}
			m.Message(metadata.ArgumentType, func(am *metadata.Writer) { e.typ(am, arg) })
		})
	}
	if t.AbbreviatedType != nil {
		w.Message(metadata.TypeAbbreviatedType, func(m *metadata.Writer) { e.typ(m, t.AbbreviatedType) })
	}
	if t.FlexibleUpperBound != nil || t.FlexibilityID != "" {
		w.Message(metadata.TypeFlexibleBound, func(m *metadata.Writer) {
			if t.FlexibilityID != "" {
				e.str(m, metadata.FlexibleBoundID, t.FlexibilityID)
			}
			if t.FlexibleUpperBound != nil {
				m.Message(metadata.FlexibleBoundType, func(bm *metadata.Writer) { e.typ(bm, t.FlexibleUpperBound) })
			}
		})
	}
	if t.OuterType != nil {
		w.Message(metadata.TypeOuterType, func(m *metadata.Writer) { e.typ(m, t.OuterType) })
	}
}

// fail keeps the first error; encoding continues so the writer stays
// consistent but the result is discarded.
func (e *encoder) fail(err error) {
	if e.err == nil {
		e.err = err
	}
}

func wireVariance(v symbols.Variance) uint64 {
	switch v {
	case symbols.VarianceIn:
		return metadata.WireIn
	case symbols.VarianceOut:
		return metadata.WireOut
	default:
		return metadata.WireInvariant
	}
}
