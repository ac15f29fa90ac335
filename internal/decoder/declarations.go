package decoder

import (
	"fmt"

	"github.com/conduit-lang/kmeta/internal/metadata"
	"github.com/conduit-lang/kmeta/internal/symbols"
)

func (s *state) class(b []byte) (*symbols.Class, error) {
	m, err := parse(b)
	if err != nil {
		return nil, err
	}

	name := s.unit.Name
	if fq, ok, err := s.str(m, metadata.ClassFqName); err != nil {
		return nil, err
	} else if ok {
		name = dotted(fq)
	}
	c := s.arena.NewClass(name, m.flags(metadata.ClassFlags))

	if companion, ok, err := s.str(m, metadata.ClassCompanionName); err != nil {
		return nil, err
	} else if ok {
		c.CompanionObjectName = companion
	}
	if c.NestedClassNames, err = s.strs(m, metadata.ClassNestedName); err != nil {
		return nil, err
	}
	if c.EnumEntryNames, err = s.strs(m, metadata.ClassEnumEntry); err != nil {
		return nil, err
	}
	sealed, err := s.strs(m, metadata.ClassSealedSubclass)
	if err != nil {
		return nil, err
	}
	for _, n := range sealed {
		c.SealedSubclassNames = append(c.SealedSubclassNames, dotted(n))
	}

	err = m.eachMessage(func(f metadata.Field) error {
		switch f.Num {
		case metadata.ClassTypeParameter:
			tp, err := s.typeParameter(c, f.Bytes)
			if err != nil {
				return err
			}
			c.TypeParameters = append(c.TypeParameters, tp)
		case metadata.ClassSupertype:
			t, err := s.typ(c, f.Bytes)
			if err != nil {
				return err
			}
			c.Supertypes = append(c.Supertypes, t)
		case metadata.ClassConstructor:
			ctor, err := s.constructor(c, f.Bytes)
			if err != nil {
				return err
			}
			c.Constructors = append(c.Constructors, ctor)
		case metadata.ClassFunction:
			fn, err := s.function(c, f.Bytes)
			if err != nil {
				return err
			}
			c.FunctionList = append(c.FunctionList, fn)
		case metadata.ClassProperty:
			p, err := s.property(c, f.Bytes)
			if err != nil {
				return err
			}
			c.PropertyList = append(c.PropertyList, p)
		case metadata.ClassTypeAlias:
			a, err := s.typeAlias(c, f.Bytes)
			if err != nil {
				return err
			}
			c.TypeAliasList = append(c.TypeAliasList, a)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("class %s: %w", name, err)
	}
	return c, nil
}

func (s *state) pkg(b []byte) (*symbols.Package, error) {
	m, err := parse(b)
	if err != nil {
		return nil, err
	}

	p := s.arena.NewPackage(s.unit.Name, 0)
	p.PackageName = s.unit.Header.PackageName
	if p.PackageName == "" {
		p.PackageName = packageOf(s.unit.Name)
	}

	err = m.eachMessage(func(f metadata.Field) error {
		switch f.Num {
		case metadata.PackageFunction:
			fn, err := s.function(p, f.Bytes)
			if err != nil {
				return err
			}
			p.FunctionList = append(p.FunctionList, fn)
		case metadata.PackageProperty:
			prop, err := s.property(p, f.Bytes)
			if err != nil {
				return err
			}
			p.PropertyList = append(p.PropertyList, prop)
		case metadata.PackageTypeAlias:
			a, err := s.typeAlias(p, f.Bytes)
			if err != nil {
				return err
			}
			p.TypeAliasList = append(p.TypeAliasList, a)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("package %s: %w", s.unit.Name, err)
	}
	return p, nil
}

func (s *state) lambda(b []byte) (*symbols.Lambda, error) {
	m, err := parse(b)
	if err != nil {
		return nil, err
	}

	l := s.arena.NewLambda(0)
	err = m.eachMessage(func(f metadata.Field) error {
		if f.Num != metadata.LambdaFunction {
			return nil
		}
		if l.Function != nil {
			return fmt.Errorf("lambda: more than one function")
		}
		fn, err := s.function(l, f.Bytes)
		if err != nil {
			return err
		}
		l.Function = fn
		return nil
	})
	if err != nil {
		return nil, err
	}
	if l.Function == nil {
		return nil, fmt.Errorf("lambda: missing function")
	}
	return l, nil
}

func (s *state) constructor(parent symbols.Symbol, b []byte) (*symbols.Constructor, error) {
	m, err := parse(b)
	if err != nil {
		return nil, err
	}

	c := s.arena.NewConstructor(parent, m.flags(metadata.ConstructorFlags))
	err = m.eachMessage(func(f metadata.Field) error {
		if f.Num != metadata.ConstructorValueParameter {
			return nil
		}
		p, err := s.valueParameter(c, f.Bytes)
		if err != nil {
			return err
		}
		c.ValueParameters = append(c.ValueParameters, p)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("constructor: %w", err)
	}
	return c, nil
}

func (s *state) function(parent symbols.Symbol, b []byte) (*symbols.Function, error) {
	m, err := parse(b)
	if err != nil {
		return nil, err
	}

	name, err := s.requireStr(m, metadata.FunctionName, "function")
	if err != nil {
		return nil, err
	}
	fn := s.arena.NewFunction(parent, name, m.flags(metadata.FunctionFlags))

	err = m.eachMessage(func(f metadata.Field) error {
		switch f.Num {
		case metadata.FunctionTypeParameter:
			tp, err := s.typeParameter(fn, f.Bytes)
			if err != nil {
				return err
			}
			fn.TypeParameters = append(fn.TypeParameters, tp)
		case metadata.FunctionReceiverType:
			t, err := s.typ(fn, f.Bytes)
			if err != nil {
				return err
			}
			fn.ReceiverType = t
		case metadata.FunctionValueParameter:
			p, err := s.valueParameter(fn, f.Bytes)
			if err != nil {
				return err
			}
			fn.ValueParameters = append(fn.ValueParameters, p)
		case metadata.FunctionReturnType:
			t, err := s.typ(fn, f.Bytes)
			if err != nil {
				return err
			}
			fn.ReturnType = t
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("function %s: %w", name, err)
	}
	return fn, nil
}

func (s *state) property(parent symbols.Symbol, b []byte) (*symbols.Property, error) {
	m, err := parse(b)
	if err != nil {
		return nil, err
	}

	name, err := s.requireStr(m, metadata.PropertyName, "property")
	if err != nil {
		return nil, err
	}
	p := s.arena.NewProperty(parent, name,
		m.flags(metadata.PropertyFlags),
		m.flags(metadata.PropertyGetterFlags),
		m.flags(metadata.PropertySetterFlags))

	err = m.eachMessage(func(f metadata.Field) error {
		switch f.Num {
		case metadata.PropertyTypeParameter:
			tp, err := s.typeParameter(p, f.Bytes)
			if err != nil {
				return err
			}
			p.TypeParameters = append(p.TypeParameters, tp)
		case metadata.PropertyReceiverType:
			t, err := s.typ(p, f.Bytes)
			if err != nil {
				return err
			}
			p.ReceiverType = t
		case metadata.PropertySetterParameter:
			vp, err := s.valueParameter(p, f.Bytes)
			if err != nil {
				return err
			}
			p.SetterParameter = vp
		case metadata.PropertyReturnType:
			t, err := s.typ(p, f.Bytes)
			if err != nil {
				return err
			}
			p.ReturnType = t
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("property %s: %w", name, err)
	}
	return p, nil
}

func (s *state) typeAlias(parent symbols.Symbol, b []byte) (*symbols.TypeAlias, error) {
	m, err := parse(b)
	if err != nil {
		return nil, err
	}

	name, err := s.requireStr(m, metadata.TypeAliasName, "typealias")
	if err != nil {
		return nil, err
	}
	a := s.arena.NewTypeAlias(parent, name, m.flags(metadata.TypeAliasFlags))

	err = m.eachMessage(func(f metadata.Field) error {
		switch f.Num {
		case metadata.TypeAliasTypeParameter:
			tp, err := s.typeParameter(a, f.Bytes)
			if err != nil {
				return err
			}
			a.TypeParameters = append(a.TypeParameters, tp)
		case metadata.TypeAliasUnderlyingType:
			t, err := s.typ(a, f.Bytes)
			if err != nil {
				return err
			}
			a.UnderlyingType = t
		case metadata.TypeAliasExpandedType:
			t, err := s.typ(a, f.Bytes)
			if err != nil {
				return err
			}
			a.ExpandedType = t
		case metadata.TypeAliasAnnotation:
			am, err := parse(f.Bytes)
			if err != nil {
				return err
			}
			class, err := s.requireStr(am, metadata.AnnotationClassName, "annotation")
			if err != nil {
				return err
			}
			a.Declared = append(a.Declared, symbols.DeclaredAnnotation{Class: dotted(class)})
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("typealias %s: %w", name, err)
	}
	return a, nil
}

func (s *state) valueParameter(parent symbols.Symbol, b []byte) (*symbols.ValueParameter, error) {
	m, err := parse(b)
	if err != nil {
		return nil, err
	}

	name, err := s.requireStr(m, metadata.ValueParameterName, "value parameter")
	if err != nil {
		return nil, err
	}
	p := s.arena.NewValueParameter(parent, name, m.flags(metadata.ValueParameterFlags))

	err = m.eachMessage(func(f metadata.Field) error {
		switch f.Num {
		case metadata.ValueParameterType:
			t, err := s.typ(p, f.Bytes)
			if err != nil {
				return err
			}
			p.Type = t
		case metadata.ValueParameterVarargType:
			t, err := s.typ(p, f.Bytes)
			if err != nil {
				return err
			}
			p.VarargType = t
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("value parameter %s: %w", name, err)
	}
	if p.Type == nil {
		return nil, fmt.Errorf("value parameter %s: missing type", name)
	}
	return p, nil
}

// packageOf returns the package part of a dot-separated qualified name.
func packageOf(qualified string) string {
	for i := len(qualified) - 1; i >= 0; i-- {
		if qualified[i] == '.' {
			return qualified[:i]
		}
	}
	return ""
}
