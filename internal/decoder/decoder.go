// Package decoder turns one metadata attachment into a symbol tree.
//
// Decoding is a recursive descent over the payload messages. Each message
// is read in two steps: its scalar fields first, so the node can be created
// with its enclosing symbol already known, then its nested messages in wire
// order, so every collection keeps declaration order.
package decoder

import (
	"fmt"
	"strings"

	kerrors "github.com/conduit-lang/kmeta/internal/errors"
	"github.com/conduit-lang/kmeta/internal/metadata"
	"github.com/conduit-lang/kmeta/internal/symbols"
)

// Policy decides what happens to payloads written by an incompatible
// format version.
type Policy int

const (
	// PolicySubstitute decodes the incompatible payload on a best-effort basis.
	PolicySubstitute Policy = iota
	// PolicyReject fails the unit with ErrIncompatibleMetadata.
	PolicyReject
)

func (p Policy) String() string {
	switch p {
	case PolicyReject:
		return "reject"
	default:
		return "substitute"
	}
}

// ParsePolicy parses "substitute" or "reject". The empty string selects the
// default.
func ParsePolicy(s string) (Policy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "substitute":
		return PolicySubstitute, nil
	case "reject":
		return PolicyReject, nil
	default:
		return PolicySubstitute, fmt.Errorf("unknown incompatible metadata policy %q (want substitute or reject)", s)
	}
}

// Options configures a Decoder.
type Options struct {
	Policy Policy
}

// Unit is one compiled unit: its canonical qualified name and attachment.
type Unit struct {
	Name   string
	Header *metadata.Header
}

// Decoder decodes attachments. It holds no per-unit state and may be reused.
type Decoder struct {
	opts Options
}

// NewDecoder creates a decoder with the given options.
func NewDecoder(opts Options) *Decoder {
	return &Decoder{opts: opts}
}

// Decode decodes a unit with the default options.
func Decode(unit Unit) (symbols.Container, error) {
	return NewDecoder(Options{}).Decode(unit)
}

// DecodeLambda decodes a synthetic-class unit with the default options.
func DecodeLambda(unit Unit) (*symbols.Lambda, error) {
	return NewDecoder(Options{}).DecodeLambda(unit)
}

// Decode decodes a class or file facade attachment into a fresh arena.
func (d *Decoder) Decode(unit Unit) (symbols.Container, error) {
	if unit.Header == nil {
		return nil, kerrors.NewInvalidMetadata(unit.Name, fmt.Errorf("missing header"))
	}

	switch unit.Header.Kind {
	case metadata.KindClass, metadata.KindFileFacade:
	default:
		return nil, kerrors.NewUnsupportedMetadataKind(unit.Name, int(unit.Header.Kind))
	}

	payload, err := d.payload(unit)
	if err != nil {
		return nil, err
	}

	st := newState(unit)
	var root symbols.Container
	if unit.Header.Kind == metadata.KindClass {
		root, err = st.class(payload)
	} else {
		root, err = st.pkg(payload)
	}
	if err != nil {
		return nil, kerrors.NewInvalidMetadata(unit.Name, err)
	}
	return root, nil
}

// DecodeLambda decodes a synthetic-class attachment that wraps a lambda.
func (d *Decoder) DecodeLambda(unit Unit) (*symbols.Lambda, error) {
	if unit.Header == nil {
		return nil, kerrors.NewInvalidMetadata(unit.Name, fmt.Errorf("missing header"))
	}
	if unit.Header.Kind != metadata.KindSyntheticClass {
		return nil, kerrors.NewUnsupportedMetadataKind(unit.Name, int(unit.Header.Kind))
	}

	payload, err := d.payload(unit)
	if err != nil {
		return nil, err
	}

	l, err := newState(unit).lambda(payload)
	if err != nil {
		return nil, kerrors.NewInvalidMetadata(unit.Name, err)
	}
	return l, nil
}

func (d *Decoder) payload(unit Unit) ([]byte, error) {
	h := unit.Header
	if !h.Compatible() && d.opts.Policy == PolicyReject {
		return nil, kerrors.NewIncompatibleMetadata(unit.Name, h.Version().String())
	}

	payload := h.Payload(d.opts.Policy == PolicySubstitute)
	if payload == nil {
		return nil, kerrors.NewInvalidMetadata(unit.Name, fmt.Errorf("no payload"))
	}
	return payload, nil
}
