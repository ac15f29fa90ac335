package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/conduit-lang/kmeta/internal/host"
)

// Elements writes one line per element below root, tab-indented by depth:
// the upper-cased kind, the canonical name and the annotations in mirror
// form. Parameters and type parameters of methods and constructors follow
// their enclosed elements.
func Elements(w io.Writer, root host.Element) error {
	return dumpElement(w, root, 0)
}

func dumpElement(w io.Writer, e host.Element, depth int) error {
	anns := e.Annotations()
	rendered := make([]string, len(anns))
	for i, a := range anns {
		rendered[i] = a.String()
	}
	_, err := fmt.Fprintf(w, "%s%s %s [%s]\n",
		strings.Repeat("\t", depth),
		strings.ToUpper(e.Kind().String()),
		host.CanonicalName(e),
		strings.Join(rendered, ", "))
	if err != nil {
		return err
	}

	for _, child := range e.Enclosed() {
		if err := dumpElement(w, child, depth+1); err != nil {
			return err
		}
	}
	if e.Kind().IsExecutable() {
		for _, group := range [][]host.Element{e.TypeParameters(), e.Parameters()} {
			for _, child := range group {
				if err := dumpElement(w, child, depth+1); err != nil {
					return err
				}
			}
		}
	}
	return nil
}
