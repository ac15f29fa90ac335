// Package binder resolves the type parameter references of a decoded tree.
//
// The attachment identifies a type parameter use by an integer that indexes
// the concatenation of every type parameter list in scope, outermost first.
// Decoding keeps the raw id; Bind walks the tree with a stack of scopes and
// points each reference at its declaration.
package binder

import "github.com/conduit-lang/kmeta/internal/symbols"

// Stats summarizes one Bind call.
type Stats struct {
	// Bound counts references resolved by this call.
	Bound int
	// Unbound counts references whose id is outside every scope. They keep
	// no name and render as an unknown type parameter.
	Unbound int
}

// Bind resolves every type parameter reference reachable from root.
// References that are already bound are left alone, so binding twice is
// harmless. Bind never fails.
func Bind(root symbols.Symbol) Stats {
	b := &binder{}
	if root != nil {
		root.Accept(b)
	}
	return b.stats
}

type binder struct {
	scopes [][]*symbols.TypeParameter
	stats  Stats
}

// resolve consumes id as an offset into the scopes, outermost first.
func (b *binder) resolve(id int) *symbols.TypeParameter {
	if id < 0 {
		return nil
	}
	offset := id
	for _, scope := range b.scopes {
		if offset < len(scope) {
			return scope[offset]
		}
		offset -= len(scope)
	}
	return nil
}

func (b *binder) children(s symbols.Symbol) {
	for _, child := range symbols.Children(s) {
		child.Accept(b)
	}
}

// scoped visits the children of s with params pushed as the innermost scope.
func (b *binder) scoped(s symbols.Symbol, params []*symbols.TypeParameter) {
	b.scopes = append(b.scopes, params)
	b.children(s)
	b.scopes = b.scopes[:len(b.scopes)-1]
}

func (b *binder) VisitClass(c *symbols.Class)         { b.scoped(c, c.TypeParameters) }
func (b *binder) VisitTypeAlias(a *symbols.TypeAlias) { b.scoped(a, a.TypeParameters) }
func (b *binder) VisitFunction(f *symbols.Function)   { b.scoped(f, f.TypeParameters) }
func (b *binder) VisitProperty(p *symbols.Property)   { b.scoped(p, p.TypeParameters) }

func (b *binder) VisitPackage(p *symbols.Package)               { b.children(p) }
func (b *binder) VisitLambda(l *symbols.Lambda)                 { b.children(l) }
func (b *binder) VisitConstructor(c *symbols.Constructor)       { b.children(c) }
func (b *binder) VisitValueParameter(p *symbols.ValueParameter) { b.children(p) }
func (b *binder) VisitTypeParameter(p *symbols.TypeParameter)   { b.children(p) }

func (b *binder) VisitType(t *symbols.Type) {
	if t.TypeKind == symbols.TypeKindTypeParameter && !t.IsBound() {
		if p := b.resolve(t.ParameterID); p != nil && t.Bind(p) {
			b.stats.Bound++
		} else {
			b.stats.Unbound++
		}
	}
	b.children(t)
}
