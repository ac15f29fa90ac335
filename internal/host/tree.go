package host

import "github.com/conduit-lang/kmeta/internal/annotation"

// Node is the in-memory Element used by fixtures and tests.
type Node struct {
	kind        ElementKind
	name        string
	signature   string
	parent      *Node
	enclosed    []*Node
	params      []*Node
	typeParams  []*Node
	annotations []annotation.Instance
}

// NewNode creates a detached element.
func NewNode(kind ElementKind, name string) *Node {
	return &Node{kind: kind, name: name}
}

// NewPackage creates a package element with the given dotted name.
func NewPackage(name string) *Node {
	return NewNode(KindPackage, name)
}

// Add encloses child in n and returns child.
func (n *Node) Add(child *Node) *Node {
	child.parent = n
	n.enclosed = append(n.enclosed, child)
	return child
}

// AddParameter appends a parameter to a method or constructor.
func (n *Node) AddParameter(name string) *Node {
	p := &Node{kind: KindParameter, name: name, parent: n}
	n.params = append(n.params, p)
	return p
}

// AddTypeParameter appends a type parameter.
func (n *Node) AddTypeParameter(name string) *Node {
	p := &Node{kind: KindTypeParameter, name: name, parent: n}
	n.typeParams = append(n.typeParams, p)
	return p
}

// Annotate records inst on n. A second instance of the same class replaces
// the first.
func (n *Node) Annotate(inst annotation.Instance) *Node {
	for i, a := range n.annotations {
		if a.Class == inst.Class {
			n.annotations[i] = inst
			return n
		}
	}
	n.annotations = append(n.annotations, inst)
	return n
}

// Mark annotates n with a value-less instance of each class.
func (n *Node) Mark(classes ...annotation.Class) *Node {
	for _, c := range classes {
		n.Annotate(annotation.Instance{Class: c})
	}
	return n
}

// WithSignature sets the host-rendered signature.
func (n *Node) WithSignature(sig string) *Node {
	n.signature = sig
	return n
}

func (n *Node) Kind() ElementKind  { return n.kind }
func (n *Node) SimpleName() string { return n.name }
func (n *Node) Signature() string  { return n.signature }

func (n *Node) Enclosing() Element {
	if n.parent == nil {
		return nil
	}
	return n.parent
}

func (n *Node) Enclosed() []Element       { return elements(n.enclosed) }
func (n *Node) Parameters() []Element     { return elements(n.params) }
func (n *Node) TypeParameters() []Element { return elements(n.typeParams) }

func (n *Node) Annotation(class annotation.Class) (annotation.Instance, bool) {
	for _, a := range n.annotations {
		if a.Class == class {
			return a, true
		}
	}
	return annotation.Instance{}, false
}

func (n *Node) Annotations() []annotation.Instance {
	out := make([]annotation.Instance, len(n.annotations))
	copy(out, n.annotations)
	return out
}

// Find returns the first element enclosed by n, at any depth, whose
// canonical name is name.
func (n *Node) Find(name string) *Node {
	if CanonicalName(n) == name {
		return n
	}
	for _, group := range [][]*Node{n.typeParams, n.params, n.enclosed} {
		for _, child := range group {
			if found := child.Find(name); found != nil {
				return found
			}
		}
	}
	return nil
}

func elements(nodes []*Node) []Element {
	if len(nodes) == 0 {
		return nil
	}
	out := make([]Element, len(nodes))
	for i, n := range nodes {
		out[i] = n
	}
	return out
}
