package correlate

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/conduit-lang/kmeta/internal/annotation"
	kerrors "github.com/conduit-lang/kmeta/internal/errors"
	"github.com/conduit-lang/kmeta/internal/host"
	"github.com/conduit-lang/kmeta/internal/metadata"
	"github.com/conduit-lang/kmeta/internal/sample"
	"github.com/conduit-lang/kmeta/internal/symbols"
)

const marker annotation.Class = "a.b.Marker"

func sampleEngine(t *testing.T, opts Options) *Engine {
	t.Helper()
	roots, err := sample.Module()
	require.NoError(t, err)
	e := New(opts)
	require.NoError(t, e.RunRound(sample.Elements(roots)))
	return e
}

func unitRoot(t *testing.T, e *Engine, name string) symbols.Container {
	t.Helper()
	u, ok := e.Lookup(name)
	require.True(t, ok, "unit %s not registered", name)
	return u.Root
}

// widget builds a small class with one property and one function and its
// reflected element inside package "a.b".
func widget(t *testing.T) (*symbols.Class, *host.Node, *sample.Mirror) {
	t.Helper()
	a := symbols.NewArena()
	c := a.NewClass("a.b.Widget", 0)

	name := a.NewProperty(c, "name", symbols.PropertyHasGetter, 0, 0)
	name.ReturnType = a.NewType(name, symbols.TypeKindClass, 0)
	name.ReturnType.ClassName = "kotlin/String"
	c.PropertyList = []*symbols.Property{name}

	f := a.NewFunction(c, "render", 0)
	c.FunctionList = []*symbols.Function{f}
	c.NestedClassNames = []string{"Inner"}

	m, err := sample.Reflect(c)
	require.NoError(t, err)
	pkg := host.NewPackage("a.b")
	pkg.Add(m.Element)
	return c, pkg, m
}

func TestUnitsAreDiscovered(t *testing.T) {
	e := sampleEngine(t, Options{})

	var names []string
	for _, u := range e.Units() {
		names = append(names, u.Name)
	}
	assert.Equal(t, []string{
		"summer.practice.kapt.classes.Class1",
		"summer.practice.kapt.classes.Class2",
		"summer.practice.kapt.classes.Class7",
		"summer.practice.kapt.facades.ClassesKt",
		"summer.practice.kapt.facades.X1",
		"summer.practice.kapt.facades.X2",
		"summer.practice.kapt.AnotherClass",
		"summer.practice.kapt.AnotherClass.SomeClass",
	}, names)
	assert.Empty(t, e.DecodeErrors())

	stats := e.Stats()
	assert.Equal(t, 1, stats.Rounds)
	assert.Equal(t, 8, stats.Units)
	assert.Zero(t, stats.Unbound)
	assert.Positive(t, stats.Bound)
}

func TestQueryConstructors(t *testing.T) {
	e := sampleEngine(t, Options{Supported: sample.Annotations})

	set, err := e.Query(sample.DumpConstructor)
	require.NoError(t, err)
	require.Equal(t, 3, set.Len())
	assert.Len(t, set.OfKind(symbols.KindConstructor), 3)

	class2 := unitRoot(t, e, "summer.practice.kapt.classes.Class2").(*symbols.Class)
	primary := class2.Constructors[0]
	assert.True(t, set.Contains(primary))
	assert.True(t, set.Contains(class2.Constructors[1]))

	inst, ok := primary.Annotations().Get(sample.DumpConstructor)
	require.True(t, ok)
	assert.True(t, inst.Bool("checkPrimary"))
}

func TestQueryCacheIdentity(t *testing.T) {
	e := sampleEngine(t, Options{})

	first, err := e.Query(sample.DumpFunction)
	require.NoError(t, err)
	second, err := e.Query(sample.DumpFunction)
	require.NoError(t, err)
	assert.Same(t, first, second)
	assert.Equal(t, 1, e.Stats().Cached)
}

func TestQueryGetterResolvesToProperty(t *testing.T) {
	e := sampleEngine(t, Options{})

	set, err := e.Query(sample.SomeAnno)
	require.NoError(t, err)

	some := unitRoot(t, e, "summer.practice.kapt.AnotherClass.SomeClass").(*symbols.Class)
	another := unitRoot(t, e, "summer.practice.kapt.AnotherClass").(*symbols.Class)

	assert.True(t, set.Contains(some.Property("x")))
	assert.True(t, set.Contains(some))
	assert.True(t, set.Contains(some.Constructors[0]))
	assert.True(t, set.Contains(some.Constructors[1]))
	assert.True(t, set.Contains(another.Constructors[0]))
	assert.False(t, set.Contains(another))
	assert.Equal(t, 5, set.Len())
}

func TestQueryOverloadsResolveToDistinctFunctions(t *testing.T) {
	e := sampleEngine(t, Options{})

	set, err := e.Query(sample.DumpFunction)
	require.NoError(t, err)

	class7 := unitRoot(t, e, "summer.practice.kapt.classes.Class7").(*symbols.Class)
	require.Len(t, class7.FunctionList, 3)
	first, second := class7.FunctionList[0], class7.FunctionList[1]
	require.Equal(t, first.Name, second.Name)
	assert.NotEqual(t, first.Signature(), second.Signature())

	assert.True(t, set.Contains(first))
	assert.False(t, set.Contains(second))
	assert.True(t, set.Contains(class7.FunctionList[2]))

	facade := unitRoot(t, e, "summer.practice.kapt.facades.ClassesKt")
	getX := facade.Functions()[0]
	assert.True(t, set.Contains(getX), "getX has no property x and falls back to the function")
	assert.Equal(t, 4, set.Len())
}

func TestQueryParametersAndTypeParameters(t *testing.T) {
	e := sampleEngine(t, Options{})

	set, err := e.Query(sample.IgnoreParameter)
	require.NoError(t, err)
	require.Equal(t, 2, set.Len())

	class7 := unitRoot(t, e, "summer.practice.kapt.classes.Class7").(*symbols.Class)
	v := class7.FunctionList[1].ValueParameter("v")
	require.NotNil(t, v)
	assert.True(t, set.Contains(v))
	assert.True(t, v.Annotations().Has(sample.IgnoreParameter))
	assert.False(t, class7.FunctionList[0].ValueParameter("v").Annotations().Has(sample.IgnoreParameter))

	getX := unitRoot(t, e, "summer.practice.kapt.facades.ClassesKt").Functions()[0]
	assert.True(t, set.Contains(getX.TypeParameter("T")))
	assert.False(t, set.Contains(getX.TypeParameter("U")))
}

func TestQueryTypeAliasCoverage(t *testing.T) {
	e := sampleEngine(t, Options{})

	set, err := e.Query(sample.PrintTypeAlias)
	require.NoError(t, err)
	require.Equal(t, 1, set.Len())

	alias, ok := set.Symbols()[0].(*symbols.TypeAlias)
	require.True(t, ok)
	assert.Equal(t, "Stroka", alias.Name)
	assert.True(t, alias.Annotations().Has(sample.PrintTypeAlias))
}

func TestQueryUnitRoot(t *testing.T) {
	e := sampleEngine(t, Options{})

	set, err := e.Query(sample.DumpIfClass)
	require.NoError(t, err)
	require.Equal(t, 1, set.Len())
	assert.Same(t, unitRoot(t, e, "summer.practice.kapt.classes.Class2"), set.Symbols()[0])
}

func TestQueryUnseenAnnotationIsEmpty(t *testing.T) {
	e := sampleEngine(t, Options{Supported: append([]annotation.Class{marker}, sample.Annotations...)})

	set, err := e.Query(marker)
	require.NoError(t, err)
	assert.Equal(t, 0, set.Len())
}

func TestQueryBeforeRound(t *testing.T) {
	e := New(Options{})
	_, err := e.Query(sample.DumpFunction)
	require.Error(t, err)
	assert.True(t, errors.Is(err, kerrors.ErrNoRound))
}

func TestQueryUnsupportedAnnotation(t *testing.T) {
	e := sampleEngine(t, Options{Supported: sample.Annotations})

	_, err := e.Query(marker)
	require.Error(t, err)
	assert.True(t, errors.Is(err, kerrors.ErrUnsupportedAnnotation))
	assert.False(t, e.Supports(marker))
	assert.True(t, e.Supports(sample.SomeAnno))
}

func TestQueryNotFound(t *testing.T) {
	tests := []struct {
		name    string
		element *host.Node
		code    kerrors.ErrorCode
	}{
		{"function", host.NewNode(host.KindMethod, "missing").WithSignature("()void"), kerrors.ErrFunctionNotFound},
		{"overload", host.NewNode(host.KindMethod, "render").WithSignature("(int)void"), kerrors.ErrFunctionNotFound},
		{"accessor", host.NewNode(host.KindMethod, "getSize").WithSignature("()int"), kerrors.ErrPropertyAccessorNotFound},
		{"annotations holder", host.NewNode(host.KindMethod, "size$annotations"), kerrors.ErrPropertyNotFound},
		{"field", host.NewNode(host.KindField, "size"), kerrors.ErrPropertyNotFound},
		{"constructor", host.NewNode(host.KindConstructor, "<init>").WithSignature("(int)void"), kerrors.ErrConstructorNotFound},
		{"class", host.NewNode(host.KindClass, "Ghost"), kerrors.ErrClassNotFound},
		{"type parameter", host.NewNode(host.KindTypeParameter, "T"), kerrors.ErrTypeParameterNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, pkg, m := widget(t)
			m.Element.Add(tt.element.Mark(marker))

			e := New(Options{})
			require.NoError(t, e.RunRound([]host.Element{pkg}))

			_, err := e.Query(marker)
			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.code), "got %v", err)

			var kerr *kerrors.Error
			require.True(t, errors.As(err, &kerr))
			assert.Equal(t, host.CanonicalName(tt.element), kerr.Subject)
		})
	}
}

func TestFailedQueryRecordsNothing(t *testing.T) {
	_, pkg, m := widget(t)
	getter := m.Element.Find("a.b.Widget.getName")
	require.NotNil(t, getter)
	getter.Mark(marker)
	m.Element.Add(host.NewNode(host.KindMethod, "missing").WithSignature("()void").Mark(marker))

	e := New(Options{})
	require.NoError(t, e.RunRound([]host.Element{pkg}))

	_, err := e.Query(marker)
	require.Error(t, err)
	assert.True(t, errors.Is(err, kerrors.ErrFunctionNotFound), "got %v", err)

	decoded := unitRoot(t, e, "a.b.Widget").(*symbols.Class)
	assert.False(t, decoded.Annotations().Has(marker))
	assert.False(t, decoded.Property("name").Annotations().Has(marker))
	for _, f := range decoded.Functions() {
		assert.False(t, f.Annotations().Has(marker), f.Name)
	}
}

func TestQueryValueParameterNotFound(t *testing.T) {
	_, pkg, m := widget(t)
	render := m.Element.Find("a.b.Widget.render")
	require.NotNil(t, render)
	render.AddParameter("ghost").Mark(marker)

	e := New(Options{})
	require.NoError(t, e.RunRound([]host.Element{pkg}))
	_, err := e.Query(marker)
	assert.True(t, errors.Is(err, kerrors.ErrValueParameterNotFound))
}

func TestQueryAccessorForms(t *testing.T) {
	c, pkg, m := widget(t)
	m.Element.Add(host.NewNode(host.KindMethod, "getName$annotations").Mark(marker))
	m.Element.Find("a.b.Widget.getName").Mark(marker)
	m.Element.Find("a.b.Widget.name").Mark(marker)

	e := New(Options{})
	require.NoError(t, e.RunRound([]host.Element{pkg}))
	set, err := e.Query(marker)
	require.NoError(t, err)

	decoded := unitRoot(t, e, "a.b.Widget").(*symbols.Class)
	assert.Equal(t, []symbols.Symbol{decoded.Property("name")}, set.Symbols())
	assert.NotSame(t, c, decoded, "the engine decodes its own tree")
}

func TestQueryNestedNameIsIdentified(t *testing.T) {
	_, pkg, m := widget(t)
	inner := m.Element.Add(host.NewNode(host.KindClass, "Inner").Mark(marker))
	inner.Add(host.NewNode(host.KindMethod, "getName").WithSignature("()java.lang.String").Mark(marker))

	e := New(Options{})
	require.NoError(t, e.RunRound([]host.Element{pkg}))
	set, err := e.Query(marker)
	require.NoError(t, err)

	decoded := unitRoot(t, e, "a.b.Widget").(*symbols.Class)
	assert.Equal(t, []symbols.Symbol{decoded.Property("name")}, set.Symbols(),
		"children of an identified element keep the outer cursor")
}

func TestQueryEnumEntryIsIdentified(t *testing.T) {
	a := symbols.NewArena()
	color := a.NewClass("a.b.Color", 0)
	color.EnumEntryNames = []string{"RED", "GREEN"}

	m, err := sample.Reflect(color)
	require.NoError(t, err)
	red := m.Element.Add(host.NewNode(host.KindEnumConstant, "RED").Mark(marker))
	pkg := host.NewPackage("a.b")
	pkg.Add(m.Element)

	e := New(Options{})
	require.NoError(t, e.RunRound([]host.Element{pkg}))
	set, err := e.Query(marker)
	require.NoError(t, err)
	assert.Zero(t, set.Len(), "enum entries have no symbol of their own")
	assert.Equal(t, "a.b.Color.RED", host.CanonicalName(red))

	ghost := m.Element.Add(host.NewNode(host.KindEnumConstant, "BLUE").Mark(marker))
	e = New(Options{})
	require.NoError(t, e.RunRound([]host.Element{pkg}))
	_, err = e.Query(marker)
	require.Error(t, err)
	assert.True(t, errors.Is(err, kerrors.ErrClassNotFound), "got %v", err)

	var kerr *kerrors.Error
	require.True(t, errors.As(err, &kerr))
	assert.Equal(t, host.CanonicalName(ghost), kerr.Subject)
}

func TestRoundsAreIncremental(t *testing.T) {
	roots, err := sample.Module()
	require.NoError(t, err)
	e := New(Options{})

	require.NoError(t, e.RunRound(sample.Elements(roots)))
	before, err := e.Query(sample.DumpFunction)
	require.NoError(t, err)

	require.NoError(t, e.RunRound(sample.Elements(roots)))
	assert.Len(t, e.Units(), 8)
	again, err := e.Query(sample.DumpFunction)
	require.NoError(t, err)
	assert.Same(t, before, again, "a round without new elements keeps the cache")

	_, pkg, _ := widget(t)
	require.NoError(t, e.RunRound([]host.Element{pkg}))
	assert.Len(t, e.Units(), 9)
	after, err := e.Query(sample.DumpFunction)
	require.NoError(t, err)
	assert.NotSame(t, before, after)
	assert.Equal(t, before.Symbols(), after.Symbols())
	assert.Equal(t, 3, e.Stats().Rounds)
}

func TestRoundSkipsUndecodableUnits(t *testing.T) {
	_, pkg, _ := widget(t)
	broken := host.NewNode(host.KindClass, "Broken").Annotate((&metadata.Header{
		Kind:            metadata.KindClass,
		MetadataVersion: metadata.Current.Ints(),
		Data1:           []byte{0x0a},
	}).Annotation())
	pkg.Add(broken)
	lambda := host.NewNode(host.KindClass, "Widget$1").Annotate(annotation.Instance{
		Class:  metadata.AnnotationClass,
		Values: map[string]any{"k": int(metadata.KindSyntheticClass), "mv": []int{1, 9, 0}},
	})
	pkg.Add(lambda)

	e := New(Options{})
	require.NoError(t, e.RunRound([]host.Element{pkg}))

	assert.Len(t, e.Units(), 1)
	errs := e.DecodeErrors()
	require.Len(t, errs, 2)
	assert.True(t, errors.Is(errs[0], kerrors.ErrInvalidMetadata))
	assert.Equal(t, "a.b.Broken", errs[0].Subject)
	assert.True(t, errors.Is(errs[1], kerrors.ErrUnsupportedMetadataKind))
}

func TestRoundRejectsNilRoot(t *testing.T) {
	e := New(Options{})
	assert.Error(t, e.RunRound([]host.Element{nil}))
	assert.Zero(t, e.Stats().Rounds)
}

func TestDuplicateUnitKeepsFirst(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	e := New(Options{Logger: zap.New(core)})

	_, first, _ := widget(t)
	_, second, _ := widget(t)
	require.NoError(t, e.RunRound([]host.Element{first, second}))

	require.Len(t, e.Units(), 1)
	assert.Same(t, first.Enclosed()[0], e.Units()[0].Element)
	require.Equal(t, 1, logs.FilterMessage("duplicate unit name, keeping the first").Len())
	entry := logs.All()[0]
	assert.Equal(t, e.Session(), entry.ContextMap()["session"])
}

func TestReset(t *testing.T) {
	e := sampleEngine(t, Options{})
	session := e.Session()
	_, err := e.Query(sample.DumpFunction)
	require.NoError(t, err)

	e.Reset()

	assert.NotEqual(t, session, e.Session())
	assert.Empty(t, e.Units())
	assert.Equal(t, Stats{}, e.Stats())
	_, err = e.Query(sample.DumpFunction)
	assert.True(t, errors.Is(err, kerrors.ErrNoRound))
}
