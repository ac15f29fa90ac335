// Package annotation holds the annotation values shared by the host reflection
// view and the decoded symbol tree.
package annotation

import (
	"fmt"
	"sort"
	"strings"
)

// Class is the canonical, dot-separated name of an annotation type
// (e.g. "summer.practice.kapt.DumpFunction").
type Class string

// SimpleName returns the last segment of the class name.
func (c Class) SimpleName() string {
	s := string(c)
	if i := strings.LastIndexByte(s, '.'); i >= 0 {
		return s[i+1:]
	}
	return s
}

func (c Class) String() string {
	return string(c)
}

// Instance is one annotation occurrence together with its element values.
type Instance struct {
	Class  Class          `json:"class" yaml:"class"`
	Values map[string]any `json:"values,omitempty" yaml:"values,omitempty"`
}

// Value returns the named element value.
func (i Instance) Value(name string) (any, bool) {
	if i.Values == nil {
		return nil, false
	}
	v, ok := i.Values[name]
	return v, ok
}

// Bool returns the named element value as a bool. Missing or non-bool values
// report false.
func (i Instance) Bool(name string) bool {
	v, ok := i.Value(name)
	if !ok {
		return false
	}
	b, _ := v.(bool)
	return b
}

// String renders the instance the way annotation mirrors print, e.g.
// "@a.b.DumpConstructor(checkPrimary=true)".
func (i Instance) String() string {
	var b strings.Builder
	b.WriteString("@")
	b.WriteString(string(i.Class))
	if len(i.Values) == 0 {
		return b.String()
	}

	keys := make([]string, 0, len(i.Values))
	for k := range i.Values {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	b.WriteString("(")
	for n, k := range keys {
		if n > 0 {
			b.WriteString(", ")
		}
		b.WriteString(k)
		b.WriteString("=")
		b.WriteString(formatValue(i.Values[k]))
	}
	b.WriteString(")")
	return b.String()
}

func formatValue(v any) string {
	switch t := v.(type) {
	case string:
		return `"` + t + `"`
	case []any:
		parts := make([]string, len(t))
		for i, e := range t {
			parts[i] = formatValue(e)
		}
		return "{" + strings.Join(parts, ", ") + "}"
	default:
		return strings.TrimSpace(strings.ReplaceAll(fmt.Sprint(v), "\n", " "))
	}
}

// Set is an insertion-ordered set of annotation instances, unique by class.
// The zero value is ready to use.
type Set struct {
	items []Instance
}

// Add records an instance. It returns false when an instance of the same
// class is already present; the first instance wins.
func (s *Set) Add(inst Instance) bool {
	if s.Has(inst.Class) {
		return false
	}
	s.items = append(s.items, inst)
	return true
}

// Get returns the instance of the given class.
func (s *Set) Get(class Class) (Instance, bool) {
	if s == nil {
		return Instance{}, false
	}
	for _, inst := range s.items {
		if inst.Class == class {
			return inst, true
		}
	}
	return Instance{}, false
}

// Has reports whether an instance of class is present.
func (s *Set) Has(class Class) bool {
	_, ok := s.Get(class)
	return ok
}

// Len returns the number of instances.
func (s *Set) Len() int {
	if s == nil {
		return 0
	}
	return len(s.items)
}

// All returns a copy of the instances in insertion order.
func (s *Set) All() []Instance {
	if s == nil {
		return nil
	}
	out := make([]Instance, len(s.items))
	copy(out, s.items)
	return out
}
