package symbols

// Children returns the direct children of s in declaration order. The star
// projection sentinel is never returned since no node owns it.
func Children(s Symbol) []Symbol {
	c := &childCollector{}
	s.Accept(c)
	return c.out
}

// Walk visits s and all of its descendants depth-first, parents first.
// Returning false from fn skips the node's children.
func Walk(s Symbol, fn func(Symbol) bool) {
	if s == nil || !fn(s) {
		return
	}
	for _, child := range Children(s) {
		Walk(child, fn)
	}
}

type childCollector struct {
	out []Symbol
}

func (c *childCollector) add(s Symbol) {
	if t, ok := s.(*Type); ok && (t == nil || t.IsStarProjection()) {
		return
	}
	c.out = append(c.out, s)
}

func (c *childCollector) addType(t *Type) {
	if t != nil {
		c.add(t)
	}
}

func (c *childCollector) addTypes(ts []*Type) {
	for _, t := range ts {
		c.addType(t)
	}
}

func (c *childCollector) addTypeParameters(ps []*TypeParameter) {
	for _, p := range ps {
		c.add(p)
	}
}

func (c *childCollector) addValueParameters(ps []*ValueParameter) {
	for _, p := range ps {
		c.add(p)
	}
}

func (c *childCollector) addMembers(fs []*Function, ps []*Property, as []*TypeAlias) {
	for _, f := range fs {
		c.add(f)
	}
	for _, p := range ps {
		c.add(p)
	}
	for _, a := range as {
		c.add(a)
	}
}

func (c *childCollector) VisitClass(cl *Class) {
	c.addTypeParameters(cl.TypeParameters)
	c.addTypes(cl.Supertypes)
	for _, ctor := range cl.Constructors {
		c.add(ctor)
	}
	c.addMembers(cl.FunctionList, cl.PropertyList, cl.TypeAliasList)
}

func (c *childCollector) VisitPackage(p *Package) {
	c.addMembers(p.FunctionList, p.PropertyList, p.TypeAliasList)
}

func (c *childCollector) VisitLambda(l *Lambda) {
	if l.Function != nil {
		c.add(l.Function)
	}
}

func (c *childCollector) VisitConstructor(ctor *Constructor) {
	c.addValueParameters(ctor.ValueParameters)
}

func (c *childCollector) VisitFunction(f *Function) {
	c.addTypeParameters(f.TypeParameters)
	c.addType(f.ReceiverType)
	c.addValueParameters(f.ValueParameters)
	c.addType(f.ReturnType)
}

func (c *childCollector) VisitProperty(p *Property) {
	c.addTypeParameters(p.TypeParameters)
	c.addType(p.ReceiverType)
	if p.SetterParameter != nil {
		c.add(p.SetterParameter)
	}
	c.addType(p.ReturnType)
}

func (c *childCollector) VisitTypeAlias(a *TypeAlias) {
	c.addTypeParameters(a.TypeParameters)
	c.addType(a.UnderlyingType)
	c.addType(a.ExpandedType)
}

func (c *childCollector) VisitValueParameter(p *ValueParameter) {
	c.addType(p.Type)
	c.addType(p.VarargType)
}

func (c *childCollector) VisitTypeParameter(p *TypeParameter) {
	c.addTypes(p.UpperBounds)
}

func (c *childCollector) VisitType(t *Type) {
	c.addTypes(t.Arguments)
	c.addType(t.AbbreviatedType)
	c.addType(t.FlexibleUpperBound)
	c.addType(t.OuterType)
}
