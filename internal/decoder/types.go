package decoder

import (
	"fmt"

	"github.com/conduit-lang/kmeta/internal/metadata"
	"github.com/conduit-lang/kmeta/internal/symbols"
)

func (s *state) typ(parent symbols.Symbol, b []byte) (*symbols.Type, error) {
	m, err := parse(b)
	if err != nil {
		return nil, err
	}

	kind, name, id, err := s.classifier(m)
	if err != nil {
		return nil, err
	}
	t := s.arena.NewType(parent, kind, m.flags(metadata.TypeFlags))
	t.ClassName = name
	t.ParameterID = id

	err = m.eachMessage(func(f metadata.Field) error {
		switch f.Num {
		case metadata.TypeArgument:
			arg, err := s.argument(t, f.Bytes)
			if err != nil {
				return err
			}
			t.Arguments = append(t.Arguments, arg)
		case metadata.TypeAbbreviatedType:
			at, err := s.typ(t, f.Bytes)
			if err != nil {
				return err
			}
			t.AbbreviatedType = at
		case metadata.TypeFlexibleBound:
			return s.flexibleBound(t, f.Bytes)
		case metadata.TypeOuterType:
			ot, err := s.typ(t, f.Bytes)
			if err != nil {
				return err
			}
			t.OuterType = ot
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return t, nil
}

// classifier reads which of class name, alias name or type parameter id the
// type refers to. Exactly one must be present.
func (s *state) classifier(m message) (symbols.TypeKind, string, int, error) {
	var (
		kind  symbols.TypeKind
		name  string
		id    int
		count int
	)
	if v, ok, err := s.str(m, metadata.TypeClassName); err != nil {
		return 0, "", 0, err
	} else if ok {
		kind, name = symbols.TypeKindClass, v
		count++
	}
	if v, ok, err := s.str(m, metadata.TypeTypeAliasName); err != nil {
		return 0, "", 0, err
	} else if ok {
		kind, name = symbols.TypeKindTypeAlias, v
		count++
	}
	if v, ok := m.uint(metadata.TypeTypeParameterID); ok {
		kind, id = symbols.TypeKindTypeParameter, int(v)
		count++
	}

	switch count {
	case 0:
		return 0, "", 0, fmt.Errorf("type: missing classifier")
	case 1:
		return kind, name, id, nil
	default:
		return 0, "", 0, fmt.Errorf("type: %d classifiers", count)
	}
}

func (s *state) argument(parent *symbols.Type, b []byte) (*symbols.Type, error) {
	m, err := parse(b)
	if err != nil {
		return nil, err
	}

	projection, _ := m.uint(metadata.ArgumentProjection)
	if projection == metadata.WireStar {
		return symbols.StarProjection, nil
	}
	variance, err := wireVariance(projection)
	if err != nil {
		return nil, err
	}

	var arg *symbols.Type
	err = m.eachMessage(func(f metadata.Field) error {
		if f.Num != metadata.ArgumentType {
			return nil
		}
		t, err := s.typ(parent, f.Bytes)
		if err != nil {
			return err
		}
		arg = t
		return nil
	})
	if err != nil {
		return nil, err
	}
	if arg == nil {
		return nil, fmt.Errorf("type argument: missing type")
	}
	arg.Variance = variance
	return arg, nil
}

func (s *state) flexibleBound(t *symbols.Type, b []byte) error {
	m, err := parse(b)
	if err != nil {
		return err
	}

	if id, ok, err := s.str(m, metadata.FlexibleBoundID); err != nil {
		return err
	} else if ok {
		t.FlexibilityID = id
	}
	return m.eachMessage(func(f metadata.Field) error {
		if f.Num != metadata.FlexibleBoundType {
			return nil
		}
		upper, err := s.typ(t, f.Bytes)
		if err != nil {
			return err
		}
		t.FlexibleUpperBound = upper
		return nil
	})
}

func (s *state) typeParameter(parent symbols.Symbol, b []byte) (*symbols.TypeParameter, error) {
	m, err := parse(b)
	if err != nil {
		return nil, err
	}

	name, err := s.requireStr(m, metadata.TypeParameterName, "type parameter")
	if err != nil {
		return nil, err
	}
	id, _ := m.uint(metadata.TypeParameterID)
	v, _ := m.uint(metadata.TypeParameterVariance)
	variance, err := wireVariance(v)
	if err != nil {
		return nil, fmt.Errorf("type parameter %s: %w", name, err)
	}

	tp := s.arena.NewTypeParameter(parent, name, int(id), variance, m.flags(metadata.TypeParameterFlags))
	err = m.eachMessage(func(f metadata.Field) error {
		if f.Num != metadata.TypeParameterUpperBound {
			return nil
		}
		ub, err := s.typ(tp, f.Bytes)
		if err != nil {
			return err
		}
		tp.UpperBounds = append(tp.UpperBounds, ub)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("type parameter %s: %w", name, err)
	}
	return tp, nil
}

func wireVariance(v uint64) (symbols.Variance, error) {
	switch v {
	case metadata.WireInvariant:
		return symbols.VarianceInvariant, nil
	case metadata.WireIn:
		return symbols.VarianceIn, nil
	case metadata.WireOut:
		return symbols.VarianceOut, nil
	default:
		return 0, fmt.Errorf("unknown variance %d", v)
	}
}
