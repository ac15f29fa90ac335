// Package host models the reflection view a compiler host exposes over
// compiled declarations: elements with a kind, a simple name, an enclosing
// element, enclosed elements and annotations. The view is coarser than the
// decoded symbol tree; correlate matches the two.
package host

import (
	"fmt"
	"strings"

	"github.com/conduit-lang/kmeta/internal/annotation"
	"github.com/conduit-lang/kmeta/internal/metadata"
)

// ElementKind identifies what an element reflects.
type ElementKind int

const (
	KindPackage ElementKind = iota + 1
	KindClass
	KindInterface
	KindEnum
	KindAnnotationType
	KindEnumConstant
	KindMethod
	KindConstructor
	KindField
	KindParameter
	KindTypeParameter
)

var kindNames = map[ElementKind]string{
	KindPackage:        "package",
	KindClass:          "class",
	KindInterface:      "interface",
	KindEnum:           "enum",
	KindAnnotationType: "annotation_type",
	KindEnumConstant:   "enum_constant",
	KindMethod:         "method",
	KindConstructor:    "constructor",
	KindField:          "field",
	KindParameter:      "parameter",
	KindTypeParameter:  "type_parameter",
}

func (k ElementKind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// ParseElementKind is the inverse of ElementKind.String.
func ParseElementKind(s string) (ElementKind, error) {
	for k, name := range kindNames {
		if name == s {
			return k, nil
		}
	}
	return 0, fmt.Errorf("unknown element kind %q", s)
}

// IsClassLike reports whether the element declares a type.
func (k ElementKind) IsClassLike() bool {
	switch k {
	case KindClass, KindInterface, KindEnum, KindAnnotationType:
		return true
	}
	return false
}

// IsExecutable reports whether the element is a method or constructor.
func (k ElementKind) IsExecutable() bool {
	return k == KindMethod || k == KindConstructor
}

// Element is one node of the host reflection tree.
//
// Implementations are compared by identity: the same declaration must be
// represented by the same Element value across rounds.
type Element interface {
	Kind() ElementKind
	// SimpleName is the unqualified name. Packages report their full
	// dotted name; constructors report "<init>".
	SimpleName() string
	Enclosing() Element
	Enclosed() []Element
	Annotation(class annotation.Class) (annotation.Instance, bool)
	Annotations() []annotation.Instance
	// Parameters and TypeParameters are empty for elements that have none.
	Parameters() []Element
	TypeParameters() []Element
	// Signature is the host-rendered type of a method or constructor, e.g.
	// "<T>(int,java.util.List<T>)java.lang.String". Empty for other kinds.
	Signature() string
}

// CanonicalName joins the simple names from the outermost enclosing element
// down to e with dots. Unnamed packages contribute nothing.
func CanonicalName(e Element) string {
	var parts []string
	for cur := e; cur != nil; cur = cur.Enclosing() {
		if name := cur.SimpleName(); name != "" {
			parts = append(parts, name)
		}
		if cur.Kind() == KindPackage {
			break
		}
	}
	for i, j := 0, len(parts)-1; i < j; i, j = i+1, j-1 {
		parts[i], parts[j] = parts[j], parts[i]
	}
	return strings.Join(parts, ".")
}

// Metadata returns the attachment header carried by e, or nil when e has none.
func Metadata(e Element) (*metadata.Header, error) {
	inst, ok := e.Annotation(metadata.AnnotationClass)
	if !ok {
		return nil, nil
	}
	return metadata.HeaderFromAnnotation(inst)
}

// Walk visits e and every element enclosed by it depth first, including
// parameters and type parameters. fn returning false prunes the subtree.
func Walk(e Element, fn func(Element) bool) {
	if e == nil || !fn(e) {
		return
	}
	for _, p := range e.TypeParameters() {
		Walk(p, fn)
	}
	for _, p := range e.Parameters() {
		Walk(p, fn)
	}
	for _, child := range e.Enclosed() {
		Walk(child, fn)
	}
}
