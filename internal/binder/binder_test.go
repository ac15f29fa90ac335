package binder

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/conduit-lang/kmeta/internal/symbols"
)

func ref(a *symbols.Arena, parent symbols.Symbol, id int) *symbols.Type {
	t := a.NewType(parent, symbols.TypeKindTypeParameter, 0)
	t.ParameterID = id
	return t
}

func class(a *symbols.Arena, parent symbols.Symbol, name string, args ...*symbols.Type) *symbols.Type {
	t := a.NewType(parent, symbols.TypeKindClass, 0)
	t.ClassName = name
	t.Arguments = args
	return t
}

func TestBindNestedScopes(t *testing.T) {
	a := symbols.NewArena()
	c := a.NewClass("a.Box", 0)
	tp := a.NewTypeParameter(c, "T", 0, symbols.VarianceOut, 0)
	c.TypeParameters = []*symbols.TypeParameter{tp}

	f := a.NewFunction(c, "map", 0)
	up := a.NewTypeParameter(f, "U", 1, symbols.VarianceInvariant, 0)
	f.TypeParameters = []*symbols.TypeParameter{up}
	x := a.NewValueParameter(f, "x", 0)
	x.Type = ref(a, x, 0)
	y := a.NewValueParameter(f, "y", 0)
	y.Type = ref(a, y, 1)
	f.ValueParameters = []*symbols.ValueParameter{x, y}
	f.ReturnType = class(a, f, "kotlin/collections/List", ref(a, f, 1))
	c.FunctionList = []*symbols.Function{f}

	stats := Bind(c)

	assert.Equal(t, Stats{Bound: 3}, stats)
	assert.Same(t, tp, x.Type.Parameter())
	assert.Equal(t, "T", x.Type.Name())
	assert.Same(t, up, y.Type.Parameter())
	assert.Equal(t, "kotlin/collections/List<U>", f.ReturnType.String())
}

func TestBindOutOfRange(t *testing.T) {
	a := symbols.NewArena()
	c := a.NewClass("a.Box", 0)
	c.TypeParameters = []*symbols.TypeParameter{a.NewTypeParameter(c, "T", 0, symbols.VarianceInvariant, 0)}

	p := a.NewProperty(c, "x", 0, 0, 0)
	p.ReturnType = ref(a, p, 5)
	neg := a.NewProperty(c, "y", 0, 0, 0)
	neg.ReturnType = ref(a, neg, -1)
	c.PropertyList = []*symbols.Property{p, neg}

	var stats Stats
	require.NotPanics(t, func() { stats = Bind(c) })

	assert.Equal(t, Stats{Unbound: 2}, stats)
	assert.False(t, p.ReturnType.IsBound())
	assert.Equal(t, "", p.ReturnType.Name())
	assert.Equal(t, "<unknown type parameter>", p.ReturnType.String())
}

func TestBindUpperBoundSeesOwnScope(t *testing.T) {
	a := symbols.NewArena()
	c := a.NewClass("a.Sorted", 0)
	tp := a.NewTypeParameter(c, "T", 0, symbols.VarianceInvariant, 0)
	tp.UpperBounds = []*symbols.Type{class(a, tp, "kotlin/Comparable", ref(a, tp, 0))}
	c.TypeParameters = []*symbols.TypeParameter{tp}

	Bind(c)

	assert.Equal(t, "T: kotlin/Comparable<T>", tp.String())
}

func TestBindScopesArePopped(t *testing.T) {
	a := symbols.NewArena()
	pkg := a.NewPackage("a.UtilsKt", 0)

	first := a.NewFunction(pkg, "first", 0)
	first.TypeParameters = []*symbols.TypeParameter{a.NewTypeParameter(first, "A", 0, symbols.VarianceInvariant, 0)}
	first.ReturnType = ref(a, first, 0)

	second := a.NewFunction(pkg, "second", 0)
	second.ReturnType = ref(a, second, 0)
	pkg.FunctionList = []*symbols.Function{first, second}

	stats := Bind(pkg)

	assert.Equal(t, Stats{Bound: 1, Unbound: 1}, stats)
	assert.Equal(t, "A", first.ReturnType.Name())
	assert.False(t, second.ReturnType.IsBound(), "the first function's scope must not leak")
}

func TestBindTypeAliasInsideClass(t *testing.T) {
	a := symbols.NewArena()
	c := a.NewClass("a.Registry", 0)
	tp := a.NewTypeParameter(c, "T", 0, symbols.VarianceInvariant, 0)
	c.TypeParameters = []*symbols.TypeParameter{tp}

	alias := a.NewTypeAlias(c, "ByKey", 0)
	k := a.NewTypeParameter(alias, "K", 1, symbols.VarianceInvariant, 0)
	alias.TypeParameters = []*symbols.TypeParameter{k}
	alias.UnderlyingType = class(a, alias, "kotlin/collections/Map", ref(a, alias, 1), ref(a, alias, 0))
	c.TypeAliasList = []*symbols.TypeAlias{alias}

	Bind(c)

	assert.Equal(t, "kotlin/collections/Map<K, T>", alias.UnderlyingType.String())
}

func TestBindConstructorUsesClassScope(t *testing.T) {
	a := symbols.NewArena()
	c := a.NewClass("a.Box", 0)
	tp := a.NewTypeParameter(c, "T", 0, symbols.VarianceInvariant, 0)
	c.TypeParameters = []*symbols.TypeParameter{tp}
	ctor := a.NewConstructor(c, 0)
	v := a.NewValueParameter(ctor, "value", 0)
	v.Type = ref(a, v, 0)
	ctor.ValueParameters = []*symbols.ValueParameter{v}
	c.Constructors = []*symbols.Constructor{ctor}

	Bind(c)

	assert.Same(t, tp, v.Type.Parameter())
}

func TestBindIsIdempotent(t *testing.T) {
	a := symbols.NewArena()
	l := a.NewLambda(0)
	f := a.NewFunction(l, "invoke", 0)
	tp := a.NewTypeParameter(f, "R", 0, symbols.VarianceInvariant, 0)
	f.TypeParameters = []*symbols.TypeParameter{tp}
	f.ReturnType = ref(a, f, 0)
	l.Function = f

	assert.Equal(t, Stats{Bound: 1}, Bind(l))
	assert.Equal(t, Stats{}, Bind(l))
	assert.Same(t, tp, f.ReturnType.Parameter())
}

func TestBindStarProjectionIsSkipped(t *testing.T) {
	a := symbols.NewArena()
	pkg := a.NewPackage("a.UtilsKt", 0)
	p := a.NewProperty(pkg, "all", 0, 0, 0)
	p.ReturnType = class(a, p, "kotlin/collections/List", symbols.StarProjection)
	pkg.PropertyList = []*symbols.Property{p}

	assert.Equal(t, Stats{}, Bind(pkg))
	assert.Nil(t, symbols.StarProjection.Parameter())
}

func TestBindNil(t *testing.T) {
	assert.Equal(t, Stats{}, Bind(nil))
}
