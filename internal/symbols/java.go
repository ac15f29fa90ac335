package symbols

import "strings"

var kotlinPrimitives = []string{"Int", "Short", "Long", "Byte", "Char", "Boolean", "Float", "Double"}

var kotlinCollections = []string{"List", "Set", "Map", "Collection", "Iterable", "Iterator", "ListIterator"}

var boxedPrimitives = map[string]string{
	"kotlin/Int":     "java.lang.Integer",
	"kotlin/Short":   "java.lang.Short",
	"kotlin/Long":    "java.lang.Long",
	"kotlin/Byte":    "java.lang.Byte",
	"kotlin/Char":    "java.lang.Character",
	"kotlin/Boolean": "java.lang.Boolean",
	"kotlin/Float":   "java.lang.Float",
	"kotlin/Double":  "java.lang.Double",
}

const (
	kotlinPrefix      = "kotlin/"
	collectionsPrefix = "kotlin/collections/"
)

// JavaName renders the type the way it appears in the host's Java-facing
// signatures: primitives unboxed unless nullable, read-only and mutable
// collections mapped onto java.util, arrays as T[].
func (t *Type) JavaName() string {
	if t == nil {
		return ""
	}
	name := t.Name()

	switch name {
	case "kotlin/String":
		return "java.lang.String"
	case "kotlin/Any":
		return "java.lang.Object"
	case "kotlin/Unit":
		return "void"
	case "kotlin/Array":
		parts := make([]string, len(t.Arguments))
		for i, arg := range t.Arguments {
			parts[i] = arg.JavaName() + "[]"
		}
		return strings.Join(parts, ", ")
	}

	if strings.HasPrefix(name, kotlinPrefix) {
		simple := name[len(kotlinPrefix):]
		for _, prim := range kotlinPrimitives {
			switch simple {
			case prim + "Array":
				return decapitalize(prim) + "[]"
			case prim:
				if t.IsNullable() {
					return boxedPrimitives[name]
				}
				return decapitalize(prim)
			}
		}
	}

	if strings.HasPrefix(name, collectionsPrefix) {
		simple := strings.TrimPrefix(name[len(collectionsPrefix):], "Mutable")
		for _, coll := range kotlinCollections {
			if simple == coll {
				return "java.util." + coll + "<" + t.javaArguments() + ">"
			}
		}
	}

	return name
}

func (t *Type) javaArguments() string {
	parts := make([]string, len(t.Arguments))
	for i, arg := range t.Arguments {
		parts[i] = arg.JavaName()
	}
	return strings.Join(parts, ",")
}

// Signature renders the function's Java-facing type, e.g.
// "<T,U>(int,java.util.List<T>)java.lang.String". An extension receiver is
// rendered as the first parameter and a missing return type as void.
func (f *Function) Signature() string {
	var b strings.Builder
	if len(f.TypeParameters) > 0 {
		names := make([]string, len(f.TypeParameters))
		for i, p := range f.TypeParameters {
			names[i] = p.Name
		}
		b.WriteString("<")
		b.WriteString(strings.Join(names, ","))
		b.WriteString(">")
	}

	b.WriteString("(")
	if f.ReceiverType != nil {
		b.WriteString(f.ReceiverType.JavaName())
		if len(f.ValueParameters) > 0 {
			b.WriteString(",")
		}
	}
	b.WriteString(javaParameters(f.ValueParameters))
	b.WriteString(")")

	if f.ReturnType != nil {
		b.WriteString(f.ReturnType.JavaName())
	} else {
		b.WriteString("void")
	}
	return NormalizeSignature(b.String())
}

// Signature renders the constructor's Java-facing type, e.g. "(int)void".
func (c *Constructor) Signature() string {
	return NormalizeSignature("(" + javaParameters(c.ValueParameters) + ")void")
}

func javaParameters(params []*ValueParameter) string {
	parts := make([]string, len(params))
	for i, p := range params {
		parts[i] = p.Type.JavaName()
	}
	return strings.Join(parts, ",")
}

// NormalizeSignature maps package separators and star projections onto
// their Java spelling.
func NormalizeSignature(s string) string {
	return strings.NewReplacer("/", ".", "*", "?").Replace(s)
}

func decapitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToLower(s[:1]) + s[1:]
}
