package host

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/conduit-lang/kmeta/internal/annotation"
)

// Fixture is the YAML form of a reflection tree:
//
//	roots:
//	  - kind: package
//	    name: a.b
//	    enclosed:
//	      - kind: class
//	        name: Person
//	        annotations:
//	          - class: kotlin.Metadata
//	            values: {k: 1, mv: [1, 9, 0], d1: ["..."], d2: ["..."]}
//	        enclosed:
//	          - kind: method
//	            name: getName
//	            signature: ()java.lang.String
type Fixture struct {
	Roots []FixtureElement `yaml:"roots"`
}

// FixtureElement is one element of a Fixture.
type FixtureElement struct {
	Kind           string                `yaml:"kind,omitempty"`
	Name           string                `yaml:"name"`
	Signature      string                `yaml:"signature,omitempty"`
	Annotations    []annotation.Instance `yaml:"annotations,omitempty"`
	TypeParameters []FixtureElement      `yaml:"type_parameters,omitempty"`
	Parameters     []FixtureElement      `yaml:"parameters,omitempty"`
	Enclosed       []FixtureElement      `yaml:"enclosed,omitempty"`
}

// LoadFile reads a fixture file and builds its roots.
func LoadFile(path string) ([]*Node, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading fixture %s: %w", path, err)
	}
	return ParseTree(data, path)
}

// ParseTree builds the roots of a YAML fixture. The path argument is used
// only for error messages.
func ParseTree(data []byte, path string) ([]*Node, error) {
	var f Fixture
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}

	roots := make([]*Node, 0, len(f.Roots))
	for i, fe := range f.Roots {
		n, err := fe.build(KindPackage)
		if err != nil {
			return nil, fmt.Errorf("%s: roots[%d]: %w", path, i, err)
		}
		roots = append(roots, n)
	}
	return roots, nil
}

// MarshalTree renders roots back into fixture YAML.
func MarshalTree(roots []*Node) ([]byte, error) {
	f := Fixture{Roots: make([]FixtureElement, len(roots))}
	for i, n := range roots {
		f.Roots[i] = fixtureOf(n)
	}
	return yaml.Marshal(&f)
}

func (fe FixtureElement) build(fallback ElementKind) (*Node, error) {
	kind := fallback
	if fe.Kind != "" {
		k, err := ParseElementKind(fe.Kind)
		if err != nil {
			return nil, err
		}
		kind = k
	}

	n := NewNode(kind, fe.Name).WithSignature(fe.Signature)
	for _, a := range fe.Annotations {
		n.Annotate(a)
	}
	for _, tp := range fe.TypeParameters {
		child, err := tp.build(KindTypeParameter)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", fe.Name, err)
		}
		child.parent = n
		n.typeParams = append(n.typeParams, child)
	}
	for _, p := range fe.Parameters {
		child, err := p.build(KindParameter)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", fe.Name, err)
		}
		child.parent = n
		n.params = append(n.params, child)
	}
	for _, e := range fe.Enclosed {
		if e.Kind == "" {
			return nil, fmt.Errorf("%s: enclosed %q: missing kind", fe.Name, e.Name)
		}
		child, err := e.build(0)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", fe.Name, err)
		}
		n.Add(child)
	}
	return n, nil
}

func fixtureOf(n *Node) FixtureElement {
	fe := FixtureElement{
		Kind:        n.kind.String(),
		Name:        n.name,
		Signature:   n.signature,
		Annotations: n.Annotations(),
	}
	if len(fe.Annotations) == 0 {
		fe.Annotations = nil
	}
	for _, tp := range n.typeParams {
		fe.TypeParameters = append(fe.TypeParameters, fixtureOf(tp))
	}
	for _, p := range n.params {
		fe.Parameters = append(fe.Parameters, fixtureOf(p))
	}
	for _, c := range n.enclosed {
		fe.Enclosed = append(fe.Enclosed, fixtureOf(c))
	}
	return fe
}
