package metadata

import "google.golang.org/protobuf/encoding/protowire"

// StringTable interns the strings of a payload and hands out their indices.
type StringTable struct {
	strings []string
	index   map[string]int
}

// NewStringTable creates an empty table.
func NewStringTable() *StringTable {
	return &StringTable{index: make(map[string]int)}
}

// Index returns the index of s, adding it on first use.
func (t *StringTable) Index(s string) uint64 {
	if i, ok := t.index[s]; ok {
		return uint64(i)
	}
	i := len(t.strings)
	t.strings = append(t.strings, s)
	t.index[s] = i
	return uint64(i)
}

// Strings returns the table in index order, ready to use as Header.Data2.
func (t *StringTable) Strings() []string {
	out := make([]string, len(t.strings))
	copy(out, t.strings)
	return out
}

// Writer appends payload fields. The zero value is ready to use.
type Writer struct {
	buf []byte
}

// Uint appends a varint field.
func (w *Writer) Uint(num protowire.Number, v uint64) *Writer {
	w.buf = protowire.AppendTag(w.buf, num, protowire.VarintType)
	w.buf = protowire.AppendVarint(w.buf, v)
	return w
}

// Message appends a nested message built by fn.
func (w *Writer) Message(num protowire.Number, fn func(*Writer)) *Writer {
	var nested Writer
	fn(&nested)
	return w.Raw(num, nested.buf)
}

// Raw appends an already encoded nested message.
func (w *Writer) Raw(num protowire.Number, b []byte) *Writer {
	w.buf = protowire.AppendTag(w.buf, num, protowire.BytesType)
	w.buf = protowire.AppendBytes(w.buf, b)
	return w
}

// Bytes returns the encoded message.
func (w *Writer) Bytes() []byte {
	if w.buf == nil {
		return []byte{}
	}
	return w.buf
}
