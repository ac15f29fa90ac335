// Package sample builds a small demonstration module: the reflection tree
// an annotation processor would see for a handful of annotated classes and
// file facades, each carrying a real metadata attachment. `kmeta sample`
// writes it out as a fixture.
package sample

import (
	"github.com/conduit-lang/kmeta/internal/annotation"
	"github.com/conduit-lang/kmeta/internal/host"
	"github.com/conduit-lang/kmeta/internal/symbols"
)

// Annotation classes used by the module.
const (
	DumpConstructor annotation.Class = "summer.practice.kapt.DumpConstructor"
	DumpFunction    annotation.Class = "summer.practice.kapt.DumpFunction"
	DumpIfClass     annotation.Class = "summer.practice.kapt.DumpIfClass"
	IgnoreParameter annotation.Class = "summer.practice.kapt.IgnoreParameter"
	PrintTypeAlias  annotation.Class = "summer.practice.kapt.PrintTypeAlias"
	SomeAnno        annotation.Class = "summer.practice.kapt.SomeAnno"
)

// Annotations lists every annotation class the module uses.
var Annotations = []annotation.Class{
	DumpConstructor, DumpFunction, DumpIfClass, IgnoreParameter, PrintTypeAlias, SomeAnno,
}

var public = symbols.VisibilityFlags(symbols.VisibilityPublic)

// Module builds the demonstration module. Each call returns fresh elements.
func Module() ([]*host.Node, error) {
	classes := host.NewPackage("summer.practice.kapt.classes")
	facades := host.NewPackage("summer.practice.kapt.facades")
	kapt := host.NewPackage("summer.practice.kapt")

	units := []struct {
		pkg   *host.Node
		build func() (*Mirror, error)
	}{
		{classes, class1},
		{classes, class2},
		{classes, class7},
		{facades, facade},
		{facades, x1},
		{facades, x2},
	}
	for _, u := range units {
		m, err := u.build()
		if err != nil {
			return nil, err
		}
		u.pkg.Add(m.Element)
	}

	another, err := anotherClass()
	if err != nil {
		return nil, err
	}
	some, err := someClass()
	if err != nil {
		return nil, err
	}
	another.Element.Add(some.Element)
	kapt.Add(another.Element)

	return []*host.Node{classes, facades, kapt}, nil
}

// Elements converts nodes into the Element slice RunRound takes.
func Elements(nodes []*host.Node) []host.Element {
	out := make([]host.Element, len(nodes))
	for i, n := range nodes {
		out[i] = n
	}
	return out
}

func checkPrimary() annotation.Instance {
	return annotation.Instance{Class: DumpConstructor, Values: map[string]any{"checkPrimary": true}}
}

// class Class1
func class1() (*Mirror, error) {
	b := newBuilder()
	c := b.a.NewClass("summer.practice.kapt.classes.Class1", public)
	c.Constructors = []*symbols.Constructor{b.a.NewConstructor(c, public)}
	return Reflect(c)
}

// Class2:
//
//	@DumpIfClass
//	data class Class2 @DumpConstructor(checkPrimary = true) constructor(var x: Int = 1, val y: Class1?) {
//	    @DumpConstructor(checkPrimary = true)
//	    constructor(z: List<MutableMap<String, Int?>>, vararg xs: Int?)
//	    @DumpFunction tailrec infix fun Int.haha(x: String?): String?
//	}
func class2() (*Mirror, error) {
	b := newBuilder()
	c := b.a.NewClass("summer.practice.kapt.classes.Class2", public|symbols.ClassData)
	c.Supertypes = []*symbols.Type{b.class("kotlin/Any", 0)(c)}

	primary := b.a.NewConstructor(c, public)
	primary.ValueParameters = []*symbols.ValueParameter{
		b.param(primary, "x", symbols.ValueParameterDeclaresDefault, b.class("kotlin/Int", 0)),
		b.param(primary, "y", 0, b.class("summer/practice/kapt/classes/Class1", symbols.TypeNullable)),
	}
	secondary := b.a.NewConstructor(c, public|symbols.ConstructorSecondary)
	xs := b.param(secondary, "xs", 0,
		b.class("kotlin/Array", 0, out(b.class("kotlin/Int", symbols.TypeNullable))))
	xs.VarargType = b.class("kotlin/Int", symbols.TypeNullable)(xs)
	secondary.ValueParameters = []*symbols.ValueParameter{
		b.param(secondary, "z", 0, b.class("kotlin/collections/List", 0,
			b.class("kotlin/collections/MutableMap", 0,
				b.class("kotlin/String", 0),
				b.class("kotlin/Int", symbols.TypeNullable)))),
		xs,
	}
	c.Constructors = []*symbols.Constructor{primary, secondary}

	x := b.property(c, "x", symbols.PropertyVar|symbols.PropertyHasGetter|symbols.PropertyHasSetter, 0,
		b.class("kotlin/Int", 0))
	x.SetterParameter = b.param(x, "<set-?>", 0, b.class("kotlin/Int", 0))
	y := b.property(c, "y", symbols.PropertyHasGetter, 0,
		b.class("summer/practice/kapt/classes/Class1", symbols.TypeNullable))
	c.PropertyList = []*symbols.Property{x, y}

	haha := b.a.NewFunction(c, "haha", public|symbols.FunctionTailrec|symbols.FunctionInfix)
	haha.ReceiverType = b.class("kotlin/Int", 0)(haha)
	haha.ValueParameters = []*symbols.ValueParameter{
		b.param(haha, "x", 0, b.class("kotlin/String", symbols.TypeNullable)),
	}
	haha.ReturnType = b.class("kotlin/String", symbols.TypeNullable)(haha)
	c.FunctionList = []*symbols.Function{haha}

	m, err := Reflect(c)
	if err != nil {
		return nil, err
	}
	m.Element.Mark(DumpIfClass)
	m.Of(primary).Annotate(checkPrimary())
	m.Of(secondary).Annotate(checkPrimary())
	m.Of(haha).Mark(DumpFunction)
	return m, nil
}

// Class7:
//
//	class Class7<T> {
//	    @DumpFunction fun <U : T, V : U> someFun(u: List<U>, v: MutableMap<out V, Map<T, out List<*>>>): U?
//	    fun <U : T, V : U> someFun(u: U, @IgnoreParameter v: MutableMap<out V, Map<T, out List<*>>>): U
//	    @DumpFunction inline fun <reified T, S : T> Map<T, S>.nextFun()
//	}
func class7() (*Mirror, error) {
	b := newBuilder()
	c := b.a.NewClass("summer.practice.kapt.classes.Class7", public)
	c.TypeParameters = []*symbols.TypeParameter{
		b.typeParam(c, "T", 0, 0, b.class("kotlin/Any", symbols.TypeNullable)),
	}
	c.Constructors = []*symbols.Constructor{b.a.NewConstructor(c, public)}

	someFun := func(first typ, ret symbols.Flags) *symbols.Function {
		f := b.a.NewFunction(c, "someFun", public)
		f.TypeParameters = []*symbols.TypeParameter{
			b.typeParam(f, "U", 1, 0, b.ref(0, 0)),
			b.typeParam(f, "V", 2, 0, b.ref(1, 0)),
		}
		f.ValueParameters = []*symbols.ValueParameter{
			b.param(f, "u", 0, first),
			b.param(f, "v", 0, b.class("kotlin/collections/MutableMap", 0,
				out(b.ref(2, 0)),
				b.class("kotlin/collections/Map", 0,
					b.ref(0, 0),
					out(b.class("kotlin/collections/List", 0, star))))),
		}
		f.ReturnType = b.ref(1, ret)(f)
		return f
	}
	first := someFun(b.class("kotlin/collections/List", 0, b.ref(1, 0)), symbols.TypeNullable)
	second := someFun(b.ref(1, 0), 0)

	next := b.a.NewFunction(c, "nextFun", public|symbols.FunctionInline)
	next.TypeParameters = []*symbols.TypeParameter{
		b.typeParam(next, "T", 1, symbols.TypeParameterReified, b.class("kotlin/Any", symbols.TypeNullable)),
		b.typeParam(next, "S", 2, 0, b.ref(1, 0)),
	}
	next.ReceiverType = b.class("kotlin/collections/Map", 0, b.ref(1, 0), b.ref(2, 0))(next)
	next.ReturnType = b.class("kotlin/Unit", 0)(next)
	c.FunctionList = []*symbols.Function{first, second, next}

	m, err := Reflect(c)
	if err != nil {
		return nil, err
	}
	m.Of(first).Mark(DumpFunction)
	m.Of(second.ValueParameters[1]).Mark(IgnoreParameter)
	m.Of(next).Mark(DumpFunction)
	return m, nil
}

// File facade of facades/classes.kt:
//
//	@DumpFunction infix fun <@IgnoreParameter T : Comparable<T>, U> Stroka?.getX(x: U): String?
//	val x5: Int get() = 42
//	@PrintTypeAlias typealias Stroka = String
func facade() (*Mirror, error) {
	b := newBuilder()
	p := b.a.NewPackage("summer.practice.kapt.facades.ClassesKt", 0)
	p.PackageName = "summer.practice.kapt.facades"

	getX := b.a.NewFunction(p, "getX", public|symbols.FunctionInfix)
	t := b.typeParam(getX, "T", 0, 0, b.class("kotlin/Comparable", 0, b.ref(0, 0)))
	getX.TypeParameters = []*symbols.TypeParameter{t, b.typeParam(getX, "U", 1, 0)}
	getX.ReceiverType = b.alias("summer/practice/kapt/facades/Stroka", symbols.TypeNullable)(getX)
	getX.ValueParameters = []*symbols.ValueParameter{b.param(getX, "x", 0, b.ref(1, 0))}
	getX.ReturnType = b.class("kotlin/String", symbols.TypeNullable)(getX)
	p.FunctionList = []*symbols.Function{getX}

	x5 := b.a.NewProperty(p, "x5", public|symbols.PropertyHasGetter, symbols.AccessorNotDefault, 0)
	x5.ReturnType = b.class("kotlin/Int", 0)(x5)
	p.PropertyList = []*symbols.Property{x5}

	stroka := b.a.NewTypeAlias(p, "Stroka", public)
	stroka.UnderlyingType = b.class("kotlin/String", 0)(stroka)
	stroka.ExpandedType = b.class("kotlin/String", 0)(stroka)
	stroka.Declared = []symbols.DeclaredAnnotation{{Class: string(PrintTypeAlias)}}
	p.TypeAliasList = []*symbols.TypeAlias{stroka}

	m, err := Reflect(p)
	if err != nil {
		return nil, err
	}
	m.Of(getX).Mark(DumpFunction)
	m.Of(t).Mark(IgnoreParameter)
	return m, nil
}

// class X1(val i: Int)
func x1() (*Mirror, error) {
	b := newBuilder()
	c := b.a.NewClass("summer.practice.kapt.facades.X1", public)
	ctor := b.a.NewConstructor(c, public)
	ctor.ValueParameters = []*symbols.ValueParameter{b.param(ctor, "i", 0, b.class("kotlin/Int", 0))}
	c.Constructors = []*symbols.Constructor{ctor}
	c.PropertyList = []*symbols.Property{b.property(c, "i", symbols.PropertyHasGetter, 0, b.class("kotlin/Int", 0))}
	return Reflect(c)
}

// class X2 @DumpConstructor(checkPrimary = true) constructor(val i: Int, val j: Int)
func x2() (*Mirror, error) {
	b := newBuilder()
	c := b.a.NewClass("summer.practice.kapt.facades.X2", public)
	ctor := b.a.NewConstructor(c, public)
	ctor.ValueParameters = []*symbols.ValueParameter{
		b.param(ctor, "i", 0, b.class("kotlin/Int", 0)),
		b.param(ctor, "j", 0, b.class("kotlin/Int", 0)),
	}
	c.Constructors = []*symbols.Constructor{ctor}
	c.PropertyList = []*symbols.Property{
		b.property(c, "i", symbols.PropertyHasGetter, 0, b.class("kotlin/Int", 0)),
		b.property(c, "j", symbols.PropertyHasGetter, 0, b.class("kotlin/Int", 0)),
	}

	m, err := Reflect(c)
	if err != nil {
		return nil, err
	}
	m.Of(ctor).Annotate(checkPrimary())
	return m, nil
}

// class AnotherClass @SomeAnno constructor(s: String, t: Int) { val y = 2; class SomeClass }
func anotherClass() (*Mirror, error) {
	b := newBuilder()
	c := b.a.NewClass("summer.practice.kapt.AnotherClass", public)
	ctor := b.a.NewConstructor(c, public)
	ctor.ValueParameters = []*symbols.ValueParameter{
		b.param(ctor, "s", 0, b.class("kotlin/String", 0)),
		b.param(ctor, "t", 0, b.class("kotlin/Int", 0)),
	}
	c.Constructors = []*symbols.Constructor{ctor}
	c.PropertyList = []*symbols.Property{b.property(c, "y", symbols.PropertyHasGetter, 0, b.class("kotlin/Int", 0))}
	c.NestedClassNames = []string{"SomeClass"}

	m, err := Reflect(c)
	if err != nil {
		return nil, err
	}
	m.Of(ctor).Mark(SomeAnno)
	return m, nil
}

// SomeClass, nested in AnotherClass:
//
//	@SomeAnno class SomeClass @SomeAnno constructor(val n: Int) {
//	    @SomeAnno constructor(s: String) : this(s.length)
//	    val x: Int @SomeAnno get() = 1
//	}
func someClass() (*Mirror, error) {
	b := newBuilder()
	c := b.a.NewClass("summer.practice.kapt.AnotherClass.SomeClass", public)
	primary := b.a.NewConstructor(c, public)
	primary.ValueParameters = []*symbols.ValueParameter{b.param(primary, "n", 0, b.class("kotlin/Int", 0))}
	secondary := b.a.NewConstructor(c, public|symbols.ConstructorSecondary)
	secondary.ValueParameters = []*symbols.ValueParameter{b.param(secondary, "s", 0, b.class("kotlin/String", 0))}
	c.Constructors = []*symbols.Constructor{primary, secondary}

	n := b.property(c, "n", symbols.PropertyHasGetter, 0, b.class("kotlin/Int", 0))
	x := b.property(c, "x", symbols.PropertyHasGetter|symbols.FlagHasAnnotations, symbols.AccessorNotDefault,
		b.class("kotlin/Int", 0))
	c.PropertyList = []*symbols.Property{n, x}

	m, err := Reflect(c)
	if err != nil {
		return nil, err
	}
	m.Element.Mark(SomeAnno)
	m.Of(primary).Mark(SomeAnno)
	m.Of(secondary).Mark(SomeAnno)
	m.Getter(x).Mark(SomeAnno)
	return m, nil
}
