package correlate

import (
	"strings"

	kerrors "github.com/conduit-lang/kmeta/internal/errors"
	"github.com/conduit-lang/kmeta/internal/host"
	"github.com/conduit-lang/kmeta/internal/symbols"
	jvmnames "github.com/conduit-lang/kmeta/internal/util/strings"
)

const annotationsSuffix = "$annotations"

// match is the outcome of pairing one element with a symbol.
type match struct {
	// symbol is nil when nothing matched.
	symbol symbols.Symbol
	// identified is set for elements the cursor accounts for without a
	// symbol of their own, such as nested class and enum entry names.
	identified bool
	// notFound builds the error reported when an annotated element has no
	// symbol.
	notFound func(name string) *kerrors.Error
}

func found(s symbols.Symbol) match {
	return match{symbol: s}
}

func missing(fn func(string) *kerrors.Error) match {
	return match{notFound: fn}
}

// match pairs el with a symbol below cursor.
func (e *Engine) match(el host.Element, cursor symbols.Symbol) match {
	kind := el.Kind()
	switch {
	case kind == host.KindMethod:
		return matchMethod(el, cursor)
	case kind == host.KindConstructor:
		return matchConstructor(el, cursor)
	case kind == host.KindField:
		if p := findProperty(cursor, el.SimpleName()); p != nil {
			return found(p)
		}
		return missing(kerrors.NewPropertyNotFound)
	case kind == host.KindParameter:
		return matchParameter(el, cursor)
	case kind == host.KindTypeParameter:
		return matchTypeParameter(el, cursor)
	case kind.IsClassLike() || kind == host.KindEnumConstant:
		if u, ok := e.byName[host.CanonicalName(el)]; ok {
			return found(u.Root)
		}
		// Listed nested names have no symbol; they are never added to a result.
		if c, ok := cursor.(*symbols.Class); ok && c.HasNested(el.SimpleName()) {
			return match{identified: true}
		}
		return missing(kerrors.NewClassNotFound)
	default:
		return missing(kerrors.NewClassNotFound)
	}
}

// matchMethod tries, in order: the "$annotations" holder of a property, a
// property accessor and a function with the same name and signature.
func matchMethod(el host.Element, cursor symbols.Symbol) match {
	name := el.SimpleName()

	if base, ok := strings.CutSuffix(name, annotationsSuffix); ok {
		if p := findProperty(cursor, base); p != nil {
			return found(p)
		}
		for _, prop := range jvmnames.AccessorProperties(base) {
			if p := findProperty(cursor, prop); p != nil {
				return found(p)
			}
		}
		return missing(kerrors.NewPropertyNotFound)
	}

	candidates := jvmnames.AccessorProperties(name)
	for _, prop := range candidates {
		if p := findProperty(cursor, prop); p != nil {
			return found(p)
		}
	}
	if f := findFunction(cursor, name, el.Signature()); f != nil {
		return found(f)
	}
	if candidates != nil {
		return missing(kerrors.NewPropertyAccessorNotFound)
	}
	return missing(kerrors.NewFunctionNotFound)
}

func matchConstructor(el host.Element, cursor symbols.Symbol) match {
	if c, ok := cursor.(*symbols.Class); ok {
		for _, ctor := range c.Constructors {
			if ctor.Signature() == el.Signature() {
				return found(ctor)
			}
		}
	}
	return missing(kerrors.NewConstructorNotFound)
}

func matchParameter(el host.Element, cursor symbols.Symbol) match {
	name := el.SimpleName()
	switch c := cursor.(type) {
	case *symbols.Function:
		if p := c.ValueParameter(name); p != nil {
			return found(p)
		}
	case *symbols.Constructor:
		if p := c.ValueParameter(name); p != nil {
			return found(p)
		}
	case *symbols.Property:
		if c.SetterParameter != nil {
			return found(c.SetterParameter)
		}
	}
	return missing(kerrors.NewValueParameterNotFound)
}

func matchTypeParameter(el host.Element, cursor symbols.Symbol) match {
	name := el.SimpleName()
	var tp *symbols.TypeParameter
	switch c := cursor.(type) {
	case *symbols.Class:
		tp = c.TypeParameter(name)
	case *symbols.Function:
		tp = c.TypeParameter(name)
	case *symbols.Property:
		tp = c.TypeParameter(name)
	case *symbols.TypeAlias:
		tp = c.TypeParameter(name)
	}
	if tp != nil {
		return found(tp)
	}
	return missing(kerrors.NewTypeParameterNotFound)
}

func findProperty(cursor symbols.Symbol, name string) *symbols.Property {
	c, ok := cursor.(symbols.Container)
	if !ok {
		return nil
	}
	for _, p := range c.Properties() {
		if p.Name == name {
			return p
		}
	}
	return nil
}

func findFunction(cursor symbols.Symbol, name, signature string) *symbols.Function {
	c, ok := cursor.(symbols.Container)
	if !ok {
		return nil
	}
	for _, f := range c.Functions() {
		if f.Name == name && f.Signature() == signature {
			return f
		}
	}
	return nil
}
