// Package metadata reads the compact declaration attachment a compiler
// writes next to each compiled unit: the header carried by the
// "kotlin.Metadata" annotation and the protobuf payload it points to.
package metadata

import (
	"encoding/base64"
	"fmt"
	"strings"

	"github.com/conduit-lang/kmeta/internal/annotation"
)

// AnnotationClass is the annotation that carries the attachment.
const AnnotationClass annotation.Class = "kotlin.Metadata"

// Kind is the attachment kind (the "k" field).
type Kind int

const (
	KindClass                Kind = 1
	KindFileFacade           Kind = 2
	KindSyntheticClass       Kind = 3
	KindMultiFileClassFacade Kind = 4
	KindMultiFileClassPart   Kind = 5
)

func (k Kind) String() string {
	switch k {
	case KindClass:
		return "class"
	case KindFileFacade:
		return "file_facade"
	case KindSyntheticClass:
		return "synthetic_class"
	case KindMultiFileClassFacade:
		return "multi_file_class_facade"
	case KindMultiFileClassPart:
		return "multi_file_class_part"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// requiresData reports whether a compatible attachment of this kind must
// carry a payload to be meaningful.
func (k Kind) requiresData() bool {
	return k == KindClass || k == KindFileFacade || k == KindMultiFileClassPart
}

// Header is the decoded attachment header.
type Header struct {
	Kind            Kind
	MetadataVersion []int
	BytecodeVersion []int
	// Data1 is the protobuf payload. It is nil when the version is missing
	// or incompatible; the payload then lives in IncompatibleData1.
	Data1             []byte
	Data2             []string
	ExtraString       string
	PackageName       string
	ExtraInt          int
	IncompatibleData1 []byte
}

// Version returns the header's metadata version.
func (h *Header) Version() Version {
	return VersionFromInts(h.MetadataVersion)
}

// Compatible reports whether the payload was written by a compatible
// format version.
func (h *Header) Compatible() bool {
	return h.MetadataVersion != nil && h.Version().IsCompatible()
}

// Payload returns the compatible payload, falling back to the incompatible
// one when substitute is set.
func (h *Header) Payload(substitute bool) []byte {
	if h.Data1 != nil {
		return h.Data1
	}
	if substitute {
		return h.IncompatibleData1
	}
	return nil
}

// Lookup resolves an index into the string table.
func (h *Header) Lookup(index int) (string, error) {
	if index < 0 || index >= len(h.Data2) {
		return "", fmt.Errorf("string index %d out of range [0,%d)", index, len(h.Data2))
	}
	return h.Data2[index], nil
}

// HeaderFromAnnotation reads the attachment carried by inst. It returns
// (nil, nil) when inst does not describe an attachment: no kind, or a
// compatible header of a kind that needs a payload but has none.
func HeaderFromAnnotation(inst annotation.Instance) (*Header, error) {
	if inst.Class != AnnotationClass {
		return nil, nil
	}

	raw, ok := inst.Value("k")
	if !ok {
		return nil, nil
	}
	k, ok := intValue(raw)
	if !ok {
		return nil, fmt.Errorf("k: expected int, got %T", raw)
	}

	h := &Header{Kind: Kind(k)}
	var err error
	if h.MetadataVersion, err = intsField(inst, "mv"); err != nil {
		return nil, err
	}
	if h.BytecodeVersion, err = intsField(inst, "bv"); err != nil {
		return nil, err
	}
	if h.Data2, err = stringsField(inst, "d2"); err != nil {
		return nil, err
	}

	data1, err := dataField(inst, "d1")
	if err != nil {
		return nil, err
	}

	if v, ok := inst.Value("xs"); ok {
		h.ExtraString, _ = v.(string)
	}
	if v, ok := inst.Value("pn"); ok {
		h.PackageName, _ = v.(string)
	}
	if v, ok := inst.Value("xi"); ok {
		h.ExtraInt, _ = intValue(v)
	}

	switch {
	case !h.Compatible():
		h.IncompatibleData1 = data1
	case h.Kind.requiresData() && data1 == nil:
		return nil, nil
	default:
		h.Data1 = data1
	}
	return h, nil
}

func intValue(v any) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case int32:
		return int(n), true
	case int64:
		return int(n), true
	case uint64:
		return int(n), true
	case float64:
		if n == float64(int(n)) {
			return int(n), true
		}
	}
	return 0, false
}

func intsField(inst annotation.Instance, name string) ([]int, error) {
	raw, ok := inst.Value(name)
	if !ok || raw == nil {
		return nil, nil
	}
	switch v := raw.(type) {
	case []int:
		return v, nil
	case []any:
		out := make([]int, len(v))
		for i, e := range v {
			n, ok := intValue(e)
			if !ok {
				return nil, fmt.Errorf("%s[%d]: expected int, got %T", name, i, e)
			}
			out[i] = n
		}
		return out, nil
	default:
		return nil, fmt.Errorf("%s: expected int array, got %T", name, raw)
	}
}

func stringsField(inst annotation.Instance, name string) ([]string, error) {
	raw, ok := inst.Value(name)
	if !ok || raw == nil {
		return nil, nil
	}
	switch v := raw.(type) {
	case []string:
		return v, nil
	case []any:
		out := make([]string, len(v))
		for i, e := range v {
			s, ok := e.(string)
			if !ok {
				return nil, fmt.Errorf("%s[%d]: expected string, got %T", name, i, e)
			}
			out[i] = s
		}
		return out, nil
	default:
		return nil, fmt.Errorf("%s: expected string array, got %T", name, raw)
	}
}

// dataField reads the payload. Annotation values carry it as base64 chunks
// that are concatenated before decoding; raw bytes are accepted as is.
func dataField(inst annotation.Instance, name string) ([]byte, error) {
	raw, ok := inst.Value(name)
	if !ok || raw == nil {
		return nil, nil
	}
	if b, ok := raw.([]byte); ok {
		return b, nil
	}
	if s, ok := raw.(string); ok {
		raw = []string{s}
	}

	chunks, err := stringsField(annotation.Instance{Values: map[string]any{name: raw}}, name)
	if err != nil {
		return nil, err
	}
	data, err := base64.StdEncoding.DecodeString(strings.Join(chunks, ""))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	return data, nil
}

// EncodeData splits a payload into the base64 chunks annotation values use.
func EncodeData(payload []byte, chunk int) []string {
	s := base64.StdEncoding.EncodeToString(payload)
	if chunk <= 0 || len(s) <= chunk {
		return []string{s}
	}
	var out []string
	for len(s) > chunk {
		out = append(out, s[:chunk])
		s = s[chunk:]
	}
	if s != "" {
		out = append(out, s)
	}
	return out
}

// Annotation renders h back into the annotation instance it was read from.
func (h *Header) Annotation() annotation.Instance {
	values := map[string]any{"k": int(h.Kind)}
	if h.MetadataVersion != nil {
		values["mv"] = h.MetadataVersion
	}
	if h.BytecodeVersion != nil {
		values["bv"] = h.BytecodeVersion
	}
	if data := h.Payload(true); data != nil {
		values["d1"] = EncodeData(data, 0)
	}
	if h.Data2 != nil {
		values["d2"] = h.Data2
	}
	if h.ExtraString != "" {
		values["xs"] = h.ExtraString
	}
	if h.PackageName != "" {
		values["pn"] = h.PackageName
	}
	if h.ExtraInt != 0 {
		values["xi"] = h.ExtraInt
	}
	return annotation.Instance{Class: AnnotationClass, Values: values}
}
