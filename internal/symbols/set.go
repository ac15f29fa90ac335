package symbols

// Set is an insertion-ordered set of symbols compared by identity.
type Set struct {
	items []Symbol
	index map[Symbol]struct{}
}

// NewSet creates an empty set.
func NewSet() *Set {
	return &Set{index: make(map[Symbol]struct{})}
}

// Add inserts s and reports whether it was not present yet.
func (s *Set) Add(sym Symbol) bool {
	if sym == nil {
		return false
	}
	if _, ok := s.index[sym]; ok {
		return false
	}
	s.index[sym] = struct{}{}
	s.items = append(s.items, sym)
	return true
}

// Contains reports whether sym is in the set.
func (s *Set) Contains(sym Symbol) bool {
	_, ok := s.index[sym]
	return ok
}

// Len returns the number of symbols.
func (s *Set) Len() int {
	return len(s.items)
}

// Symbols returns a copy of the members in insertion order.
func (s *Set) Symbols() []Symbol {
	out := make([]Symbol, len(s.items))
	copy(out, s.items)
	return out
}

// OfKind returns the members of the given variant in insertion order.
func (s *Set) OfKind(k Kind) []Symbol {
	var out []Symbol
	for _, sym := range s.items {
		if sym.Kind() == k {
			out = append(out, sym)
		}
	}
	return out
}
