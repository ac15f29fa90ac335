// Package symbols defines the decoded declaration tree: classes, file facades,
// functions, properties, constructors, type aliases, parameters and types.
//
// Every node belongs to the Arena of the compilation unit it was decoded from.
// Children are owned through ordered slices on their parent; the reference
// back to the lexically enclosing node is an arena index, so the arena alone
// controls the lifetime of a unit's tree.
package symbols

import (
	"fmt"

	"github.com/conduit-lang/kmeta/internal/annotation"
)

// Kind identifies the variant of a Symbol.
type Kind int

const (
	KindClass Kind = iota + 1
	KindPackage
	KindLambda
	KindConstructor
	KindFunction
	KindProperty
	KindTypeAlias
	KindValueParameter
	KindTypeParameter
	KindType
)

var kindNames = map[Kind]string{
	KindClass:          "class",
	KindPackage:        "package",
	KindLambda:         "lambda",
	KindConstructor:    "constructor",
	KindFunction:       "function",
	KindProperty:       "property",
	KindTypeAlias:      "typealias",
	KindValueParameter: "value_parameter",
	KindTypeParameter:  "type_parameter",
	KindType:           "type",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// ID is the index of a node inside its arena. NoID marks "no node".
type ID int32

// NoID is the enclosing ID of roots and of nodes that live outside any arena.
const NoID ID = -1

// Symbol is the capability set shared by every node of the tree.
type Symbol interface {
	// Kind returns the variant tag.
	Kind() Kind
	// ID returns the node's index in its arena, or NoID for shared sentinels.
	ID() ID
	// Enclosing returns the lexically containing node, or nil for a root.
	Enclosing() Symbol
	// Flags returns the raw flag bitset the node was decoded with.
	Flags() Flags
	// Annotations returns the annotations attached by correlation.
	Annotations() *annotation.Set
	// Accept dispatches to the visitor method for the concrete variant.
	Accept(v Visitor)
}

// Visitor has one method per Symbol variant. Adding a variant adds a method,
// so every implementation stops compiling until it handles the new case.
type Visitor interface {
	VisitClass(*Class)
	VisitPackage(*Package)
	VisitLambda(*Lambda)
	VisitConstructor(*Constructor)
	VisitFunction(*Function)
	VisitProperty(*Property)
	VisitTypeAlias(*TypeAlias)
	VisitValueParameter(*ValueParameter)
	VisitTypeParameter(*TypeParameter)
	VisitType(*Type)
}

// Container is a declaration container: a Class or a file facade Package.
type Container interface {
	Symbol
	// QualifiedName is the dot-separated name the unit is registered under.
	QualifiedName() string
	Functions() []*Function
	Properties() []*Property
	TypeAliases() []*TypeAlias
	// Arena returns the arena owning the container's tree.
	Arena() *Arena
}

// node carries the state common to every variant.
type node struct {
	arena       *Arena
	id          ID
	parent      ID
	flags       Flags
	annotations annotation.Set
}

func (n *node) ID() ID {
	return n.id
}

func (n *node) Flags() Flags {
	return n.flags
}

func (n *node) Annotations() *annotation.Set {
	return &n.annotations
}

func (n *node) Enclosing() Symbol {
	if n.arena == nil || n.parent == NoID {
		return nil
	}
	return n.arena.Get(n.parent)
}

// Visibility decodes the visibility bits of the node's flags.
func (n *node) Visibility() Visibility {
	return n.flags.Visibility()
}

// Modality decodes the modality bits of the node's flags.
func (n *node) Modality() Modality {
	return n.flags.Modality()
}

func (n *node) HasAnnotations() bool { return n.flags.Has(FlagHasAnnotations) }
func (n *node) IsFinal() bool        { return n.flags.Modality() == ModalityFinal }
func (n *node) IsOpen() bool         { return n.flags.Modality() == ModalityOpen }
func (n *node) IsAbstract() bool     { return n.flags.Modality() == ModalityAbstract }
func (n *node) IsSealed() bool       { return n.flags.Modality() == ModalitySealed }

// Arena owns every node decoded from one compilation unit.
type Arena struct {
	nodes []Symbol
}

// NewArena creates an empty arena.
func NewArena() *Arena {
	return &Arena{nodes: make([]Symbol, 0, 32)}
}

// Get returns the node with the given ID, or nil when out of range.
func (a *Arena) Get(id ID) Symbol {
	if a == nil || id < 0 || int(id) >= len(a.nodes) {
		return nil
	}
	return a.nodes[id]
}

// Len returns the number of nodes in the arena.
func (a *Arena) Len() int {
	return len(a.nodes)
}

// Walk calls fn for every node in creation order. Parents are always created
// before their children.
func (a *Arena) Walk(fn func(Symbol)) {
	for _, s := range a.nodes {
		fn(s)
	}
}

// attach registers s with the arena and fixes its enclosing reference.
func (a *Arena) attach(n *node, s Symbol, parent Symbol, flags Flags) {
	n.arena = a
	n.id = ID(len(a.nodes))
	n.parent = NoID
	n.flags = flags
	if parent != nil {
		if parent.ID() == NoID {
			panic(fmt.Sprintf("symbols: %s cannot enclose a %s", parent.Kind(), s.Kind()))
		}
		n.parent = parent.ID()
	}
	a.nodes = append(a.nodes, s)
}

// Path returns the chain of enclosing symbols from the root down to s.
func Path(s Symbol) []Symbol {
	var chain []Symbol
	for cur := s; cur != nil; cur = cur.Enclosing() {
		chain = append(chain, cur)
	}
	for i, j := 0, len(chain)-1; i < j; i, j = i+1, j-1 {
		chain[i], chain[j] = chain[j], chain[i]
	}
	return chain
}

// Root returns the outermost enclosing symbol of s.
func Root(s Symbol) Symbol {
	for s != nil {
		parent := s.Enclosing()
		if parent == nil {
			return s
		}
		s = parent
	}
	return nil
}
