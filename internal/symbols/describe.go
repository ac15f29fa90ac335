package symbols

import "strings"

// Name returns the declared name of s: the qualified name for roots, the
// simple name for members and parameters, "<init>" for constructors and
// the rendered type for types.
func Name(s Symbol) string {
	n := &namer{}
	s.Accept(n)
	return n.name
}

// QualifiedName joins the names along the enclosing chain of s. Roots
// already carry their qualified name, so the chain starts there.
func QualifiedName(s Symbol) string {
	path := Path(s)
	parts := make([]string, 0, len(path))
	for _, sym := range path {
		if sym.Kind() == KindType {
			continue
		}
		parts = append(parts, Name(sym))
	}
	return strings.Join(parts, ".")
}

// Describe returns a one-line label such as "function a.b.C.f(int)void".
func Describe(s Symbol) string {
	var b strings.Builder
	b.WriteString(s.Kind().String())
	b.WriteString(" ")
	b.WriteString(QualifiedName(s))
	switch sym := s.(type) {
	case *Function:
		b.WriteString(sym.Signature())
	case *Constructor:
		b.WriteString(sym.Signature())
	case *Property:
		if sym.ReturnType != nil {
			b.WriteString(": ")
			b.WriteString(sym.ReturnType.KotlinName())
		}
	case *Type:
		b.WriteString(" ")
		b.WriteString(sym.String())
	}
	return b.String()
}

type namer struct {
	name string
}

func (n *namer) VisitClass(c *Class)                   { n.name = c.Name }
func (n *namer) VisitPackage(p *Package)               { n.name = p.Name }
func (n *namer) VisitLambda(*Lambda)                   { n.name = "<lambda>" }
func (n *namer) VisitConstructor(*Constructor)         { n.name = "<init>" }
func (n *namer) VisitFunction(f *Function)             { n.name = f.Name }
func (n *namer) VisitProperty(p *Property)             { n.name = p.Name }
func (n *namer) VisitTypeAlias(a *TypeAlias)           { n.name = a.Name }
func (n *namer) VisitValueParameter(p *ValueParameter) { n.name = p.Name }
func (n *namer) VisitTypeParameter(p *TypeParameter)   { n.name = p.Name }
func (n *namer) VisitType(t *Type)                     { n.name = t.String() }
