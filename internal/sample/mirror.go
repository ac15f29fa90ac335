package sample

import (
	"strings"

	"github.com/conduit-lang/kmeta/internal/binder"
	"github.com/conduit-lang/kmeta/internal/encoder"
	"github.com/conduit-lang/kmeta/internal/host"
	"github.com/conduit-lang/kmeta/internal/symbols"
	jvmnames "github.com/conduit-lang/kmeta/internal/util/strings"
)

// Mirror is the reflection view a compiler host would expose for one
// decoded unit, together with the element each symbol was mirrored to.
type Mirror struct {
	Element *host.Node

	nodes   map[symbols.Symbol]*host.Node
	getters map[*symbols.Property]*host.Node
	setters map[*symbols.Property]*host.Node
}

// Of returns the element mirroring sym. For properties this is the backing
// field, which is nil when the property has a custom getter.
func (m *Mirror) Of(sym symbols.Symbol) *host.Node {
	return m.nodes[sym]
}

// Getter returns the accessor method mirroring p's getter.
func (m *Mirror) Getter(p *symbols.Property) *host.Node {
	return m.getters[p]
}

// Setter returns the accessor method mirroring p's setter.
func (m *Mirror) Setter(p *symbols.Property) *host.Node {
	return m.setters[p]
}

// Reflect binds root, encodes it into an attachment and builds the element
// the host would show for it: the attachment as an annotation, fields for
// properties with default getters, accessors, constructors and methods.
func Reflect(root symbols.Container) (*Mirror, error) {
	binder.Bind(root)
	h, err := encoder.Encode(root)
	if err != nil {
		return nil, err
	}

	m := &Mirror{
		nodes:   make(map[symbols.Symbol]*host.Node),
		getters: make(map[*symbols.Property]*host.Node),
		setters: make(map[*symbols.Property]*host.Node),
	}

	switch r := root.(type) {
	case *symbols.Class:
		m.Element = host.NewNode(elementKind(r), r.SimpleName())
		m.typeParameters(m.Element, r.TypeParameters)
	default:
		m.Element = host.NewNode(host.KindClass, simpleName(root.QualifiedName()))
	}
	m.Element.Annotate(h.Annotation())
	m.nodes[root] = m.Element

	for _, p := range root.Properties() {
		if p.IsExtension() || p.IsGetterNotDefault() {
			continue
		}
		m.nodes[p] = m.Element.Add(host.NewNode(host.KindField, p.Name))
	}
	if c, ok := root.(*symbols.Class); ok {
		for _, ctor := range c.Constructors {
			el := m.Element.Add(host.NewNode(host.KindConstructor, "<init>").WithSignature(ctor.Signature()))
			m.nodes[ctor] = el
			m.valueParameters(el, ctor.ValueParameters)
		}
	}
	for _, p := range root.Properties() {
		m.accessors(p)
	}
	for _, f := range root.Functions() {
		el := m.Element.Add(host.NewNode(host.KindMethod, f.Name).WithSignature(f.Signature()))
		m.nodes[f] = el
		m.typeParameters(el, f.TypeParameters)
		if f.ReceiverType != nil {
			el.AddParameter("$receiver")
		}
		m.valueParameters(el, f.ValueParameters)
	}
	return m, nil
}

func (m *Mirror) accessors(p *symbols.Property) {
	ret := "void"
	if p.ReturnType != nil {
		ret = p.ReturnType.JavaName()
	}
	receiver := ""
	if p.ReceiverType != nil {
		receiver = p.ReceiverType.JavaName()
	}

	if p.HasGetter() {
		g := m.Element.Add(host.NewNode(host.KindMethod, jvmnames.GetterName(p.Name)).
			WithSignature(symbols.NormalizeSignature("(" + receiver + ")" + ret)))
		if receiver != "" {
			g.AddParameter("$receiver")
		}
		m.getters[p] = g
	}
	if p.HasSetter() {
		params := ret
		if receiver != "" {
			params = receiver + "," + ret
		}
		s := m.Element.Add(host.NewNode(host.KindMethod, jvmnames.SetterName(p.Name)).
			WithSignature(symbols.NormalizeSignature("(" + params + ")void")))
		if receiver != "" {
			s.AddParameter("$receiver")
		}
		name := "value"
		if p.SetterParameter != nil {
			name = p.SetterParameter.Name
		}
		param := s.AddParameter(name)
		if p.SetterParameter != nil {
			m.nodes[p.SetterParameter] = param
		}
		m.setters[p] = s
	}
}

func (m *Mirror) typeParameters(el *host.Node, params []*symbols.TypeParameter) {
	for _, tp := range params {
		m.nodes[tp] = el.AddTypeParameter(tp.Name)
	}
}

func (m *Mirror) valueParameters(el *host.Node, params []*symbols.ValueParameter) {
	for _, p := range params {
		m.nodes[p] = el.AddParameter(p.Name)
	}
}

func elementKind(c *symbols.Class) host.ElementKind {
	switch c.ClassKind() {
	case symbols.ClassKindInterface:
		return host.KindInterface
	case symbols.ClassKindEnumClass:
		return host.KindEnum
	case symbols.ClassKindAnnotationClass:
		return host.KindAnnotationType
	case symbols.ClassKindEnumEntry:
		return host.KindEnumConstant
	default:
		return host.KindClass
	}
}

func simpleName(qualified string) string {
	if i := strings.LastIndexByte(qualified, '.'); i >= 0 {
		return qualified[i+1:]
	}
	return qualified
}
