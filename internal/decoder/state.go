package decoder

import (
	"fmt"
	"strings"

	"google.golang.org/protobuf/encoding/protowire"

	"github.com/conduit-lang/kmeta/internal/metadata"
	"github.com/conduit-lang/kmeta/internal/symbols"
)

// state is the per-unit decoding context.
type state struct {
	unit  Unit
	arena *symbols.Arena
}

func newState(unit Unit) *state {
	return &state{unit: unit, arena: symbols.NewArena()}
}

// message is the fields of one payload message in wire order.
type message []metadata.Field

func parse(b []byte) (message, error) {
	var m message
	err := metadata.Fields(b, func(f metadata.Field) error {
		m = append(m, f)
		return nil
	})
	return m, err
}

// uint returns the last varint value of field num; later values override
// earlier ones as in protobuf.
func (m message) uint(num protowire.Number) (uint64, bool) {
	var (
		v     uint64
		found bool
	)
	for _, f := range m {
		if f.Num == num && !f.IsMessage() {
			v, found = f.Varint, true
		}
	}
	return v, found
}

func (m message) flags(num protowire.Number) symbols.Flags {
	v, _ := m.uint(num)
	return symbols.Flags(uint32(v))
}

// str resolves a string field through the string table.
func (s *state) str(m message, num protowire.Number) (string, bool, error) {
	idx, ok := m.uint(num)
	if !ok {
		return "", false, nil
	}
	v, err := s.unit.Header.Lookup(int(idx))
	if err != nil {
		return "", false, fmt.Errorf("field %d: %w", num, err)
	}
	return v, true, nil
}

// requireStr is str for mandatory fields.
func (s *state) requireStr(m message, num protowire.Number, what string) (string, error) {
	v, ok, err := s.str(m, num)
	if err != nil {
		return "", err
	}
	if !ok {
		return "", fmt.Errorf("%s: missing name", what)
	}
	return v, nil
}

// strs resolves every occurrence of a repeated string field, in order.
func (s *state) strs(m message, num protowire.Number) ([]string, error) {
	var out []string
	for _, f := range m {
		if f.Num != num || f.IsMessage() {
			continue
		}
		v, err := s.unit.Header.Lookup(f.Int())
		if err != nil {
			return nil, fmt.Errorf("field %d: %w", num, err)
		}
		out = append(out, v)
	}
	return out, nil
}

// eachMessage calls fn for every nested message in wire order.
func (m message) eachMessage(fn func(metadata.Field) error) error {
	for _, f := range m {
		if !f.IsMessage() {
			continue
		}
		if err := fn(f); err != nil {
			return err
		}
	}
	return nil
}

// dotted converts an attachment class name ("a/b/Outer.Inner") to the
// dot-separated canonical form.
func dotted(name string) string {
	return strings.ReplaceAll(name, "/", ".")
}
