package sample

import "github.com/conduit-lang/kmeta/internal/symbols"

// typ creates a type under the given parent.
type typ func(parent symbols.Symbol) *symbols.Type

type builder struct {
	a *symbols.Arena
}

func newBuilder() *builder {
	return &builder{a: symbols.NewArena()}
}

func (b *builder) class(name string, flags symbols.Flags, args ...typ) typ {
	return func(parent symbols.Symbol) *symbols.Type {
		t := b.a.NewType(parent, symbols.TypeKindClass, flags)
		t.ClassName = name
		for _, arg := range args {
			t.Arguments = append(t.Arguments, arg(t))
		}
		return t
	}
}

func (b *builder) alias(name string, flags symbols.Flags) typ {
	return func(parent symbols.Symbol) *symbols.Type {
		t := b.a.NewType(parent, symbols.TypeKindTypeAlias, flags)
		t.ClassName = name
		return t
	}
}

func (b *builder) ref(id int, flags symbols.Flags) typ {
	return func(parent symbols.Symbol) *symbols.Type {
		t := b.a.NewType(parent, symbols.TypeKindTypeParameter, flags)
		t.ParameterID = id
		return t
	}
}

func out(t typ) typ {
	return func(parent symbols.Symbol) *symbols.Type {
		arg := t(parent)
		arg.Variance = symbols.VarianceOut
		return arg
	}
}

func star(symbols.Symbol) *symbols.Type {
	return symbols.StarProjection
}

func (b *builder) param(parent symbols.Symbol, name string, flags symbols.Flags, t typ) *symbols.ValueParameter {
	p := b.a.NewValueParameter(parent, name, flags)
	p.Type = t(p)
	return p
}

func (b *builder) typeParam(parent symbols.Symbol, name string, id int, flags symbols.Flags, bounds ...typ) *symbols.TypeParameter {
	tp := b.a.NewTypeParameter(parent, name, id, symbols.VarianceInvariant, flags)
	for _, bound := range bounds {
		tp.UpperBounds = append(tp.UpperBounds, bound(tp))
	}
	return tp
}

func (b *builder) property(parent symbols.Symbol, name string, flags, getterFlags symbols.Flags, ret typ) *symbols.Property {
	p := b.a.NewProperty(parent, name, public|flags, getterFlags, 0)
	p.ReturnType = ret(p)
	return p
}
