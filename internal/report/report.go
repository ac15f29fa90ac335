// Package report renders query results as the plain-text reports an
// annotation processor writes: annotated constructors, annotated functions
// and annotated type aliases, one section per file.
package report

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/conduit-lang/kmeta/internal/annotation"
	"github.com/conduit-lang/kmeta/internal/symbols"
)

// Querier answers annotation queries. *correlate.Engine implements it.
type Querier interface {
	Query(class annotation.Class) (*symbols.Set, error)
}

// Options names the annotation classes each section is built from.
type Options struct {
	Constructors annotation.Class `mapstructure:"constructors"`
	Functions    annotation.Class `mapstructure:"functions"`
	Aliases      annotation.Class `mapstructure:"aliases"`
	// Ignore hides parameters and type parameters from the functions
	// section. Empty hides nothing.
	Ignore annotation.Class `mapstructure:"ignore"`
}

// Report holds the rendered lines of each section.
type Report struct {
	Constructors []string `json:"constructors"`
	Functions    []string `json:"functions"`
	Aliases      []string `json:"aliases"`
}

// Build queries q for every configured class and renders the sections.
// Sections whose class is empty stay empty.
func Build(q Querier, opts Options) (*Report, error) {
	// Query the ignore class first so the marks are recorded on parameters
	// before the functions section reads them.
	if opts.Ignore != "" {
		if _, err := q.Query(opts.Ignore); err != nil {
			return nil, err
		}
	}

	r := &Report{}
	if opts.Constructors != "" {
		set, err := q.Query(opts.Constructors)
		if err != nil {
			return nil, err
		}
		for _, s := range set.OfKind(symbols.KindConstructor) {
			r.Constructors = append(r.Constructors, constructorLine(s.(*symbols.Constructor), opts.Constructors))
		}
	}
	if opts.Functions != "" {
		set, err := q.Query(opts.Functions)
		if err != nil {
			return nil, err
		}
		for _, s := range set.OfKind(symbols.KindFunction) {
			r.Functions = append(r.Functions, functionLines(s.(*symbols.Function), opts.Ignore)...)
		}
	}
	if opts.Aliases != "" {
		set, err := q.Query(opts.Aliases)
		if err != nil {
			return nil, err
		}
		for _, s := range set.OfKind(symbols.KindTypeAlias) {
			a := s.(*symbols.TypeAlias)
			r.Aliases = append(r.Aliases, a.Name+" "+a.ExpandedType.JavaName())
		}
	}
	return r, nil
}

// constructorLine renders e.g.
// "a.B; primary constructor; value parameters: var x: kotlin/Int, ".
// The primary/secondary qualifier appears only when the annotation sets
// checkPrimary.
func constructorLine(c *symbols.Constructor, class annotation.Class) string {
	var b strings.Builder
	if owner, ok := c.Enclosing().(*symbols.Class); ok {
		b.WriteString(owner.Name)
	}
	b.WriteString("; ")
	if inst, ok := c.Annotations().Get(class); ok && inst.Bool("checkPrimary") {
		if c.IsPrimary() {
			b.WriteString("primary ")
		} else {
			b.WriteString("secondary ")
		}
	}
	b.WriteString("constructor; value parameters: ")

	delivered := c.DeliveredProperties()
	if len(c.ValueParameters) == 0 && len(delivered) == 0 {
		b.WriteString("none; ")
	}
	for _, p := range delivered {
		if p.IsModifiable() {
			b.WriteString("var ")
		} else {
			b.WriteString("val ")
		}
		b.WriteString(p.Name)
		b.WriteString(": ")
		if t := p.ReturnType; t != nil {
			b.WriteString(t.Name())
			if t.IsNullable() {
				b.WriteString("?")
			}
		}
		b.WriteString(", ")
	}
	if !c.IsPrimary() {
		params := make([]string, len(c.ValueParameters))
		for i, p := range c.ValueParameters {
			params[i] = p.String()
		}
		b.WriteString(strings.Join(params, ", "))
	}
	return b.String()
}

func functionLines(f *symbols.Function, ignore annotation.Class) []string {
	var lines []string
	add := func(indent int, format string, args ...any) {
		prefix := ""
		if indent > 0 {
			prefix = strings.Repeat("\t", indent-1) + `\--- `
		}
		lines = append(lines, prefix+fmt.Sprintf(format, args...))
	}
	ignored := func(s symbols.Symbol) bool {
		return ignore != "" && s.Annotations().Has(ignore)
	}

	var modifiers []string
	if f.IsInfix() {
		modifiers = append(modifiers, "infix")
	}
	if f.IsTailrec() {
		modifiers = append(modifiers, "tailrec")
	}
	if f.IsInline() {
		modifiers = append(modifiers, "inline")
	}
	if f.IsOperator() {
		modifiers = append(modifiers, "operator")
	}

	add(0, "Function %s", f.Name)
	add(0, "Declared explicitly: %s", yesNo(f.IsExplicitlyDeclared()))
	add(1, "Modifiers: %s", orNone(strings.Join(modifiers, ", "), len(modifiers) == 0))
	add(1, "Is extension: %s", yesNo(f.IsExtension()))
	if f.IsExtension() {
		add(2, "Receiver: %s", f.ReceiverType.KotlinName())
	}
	add(1, "Return type: %s", f.ReturnType.KotlinName())
	add(1, "Value parameters: %s", orNone("", len(f.ValueParameters) == 0))
	for _, p := range f.ValueParameters {
		if !ignored(p) {
			add(2, "%s: %s", p.Name, p.Type.String())
		}
	}
	add(1, "Type parameters: %s", orNone("", len(f.TypeParameters) == 0))
	for _, tp := range f.TypeParameters {
		if !ignored(tp) {
			add(2, "%s, upper bound: %s", tp.Name, tp.UpperBound().KotlinName())
		}
	}
	return lines
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

func orNone(s string, none bool) string {
	if none {
		return "none"
	}
	return s
}

// Files maps each section onto the file it is written to.
func (r *Report) Files() map[string][]string {
	return map[string][]string{
		"constructors.txt": r.Constructors,
		"functions.txt":    r.Functions,
		"aliases.txt":      r.Aliases,
	}
}

// WriteTo writes every section to w, each under a "== file ==" heading.
func (r *Report) WriteTo(w io.Writer) (int64, error) {
	var total int64
	for _, name := range []string{"constructors.txt", "functions.txt", "aliases.txt"} {
		n, err := fmt.Fprintf(w, "== %s ==\n", name)
		total += int64(n)
		if err != nil {
			return total, err
		}
		for _, line := range r.Files()[name] {
			n, err := fmt.Fprintln(w, line)
			total += int64(n)
			if err != nil {
				return total, err
			}
		}
	}
	return total, nil
}

// WriteDir replaces constructors.txt, functions.txt and aliases.txt in dir.
func (r *Report) WriteDir(dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating report directory: %w", err)
	}
	for name, lines := range r.Files() {
		var b strings.Builder
		for _, line := range lines {
			b.WriteString(line)
			b.WriteByte('\n')
		}
		if err := os.WriteFile(filepath.Join(dir, name), []byte(b.String()), 0o644); err != nil {
			return fmt.Errorf("writing %s: %w", name, err)
		}
	}
	return nil
}
