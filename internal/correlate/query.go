package correlate

import (
	"go.uber.org/zap"

	"github.com/conduit-lang/kmeta/internal/annotation"
	kerrors "github.com/conduit-lang/kmeta/internal/errors"
	"github.com/conduit-lang/kmeta/internal/host"
	"github.com/conduit-lang/kmeta/internal/symbols"
)

// Query returns every symbol carrying class: unit roots whose element is
// annotated, members matched to annotated elements, and type aliases whose
// attachment lists class. Matched symbols get the annotation recorded in
// their Annotations set.
//
// Results are cached per class. Asking again returns the same *Set until a
// round discovers new elements. An annotated element that matches no
// symbol fails the query with the not-found error for its kind, and no
// symbol gets the annotation recorded.
func (e *Engine) Query(class annotation.Class) (*symbols.Set, error) {
	if e.rounds == 0 {
		return nil, kerrors.NewNoRound()
	}
	if !e.Supports(class) {
		return nil, kerrors.NewUnsupportedAnnotation(string(class))
	}
	if set, ok := e.cache[class]; ok {
		return set, nil
	}

	q := &query{engine: e, class: class, set: symbols.NewSet()}
	for _, u := range e.units {
		if err := q.unit(u); err != nil {
			e.logger.Debug("query failed", zap.String("annotation", string(class)), zap.Error(err))
			return nil, err
		}
	}
	for _, u := range e.units {
		for _, a := range u.Root.TypeAliases() {
			if a.Declares(string(class)) {
				q.record(a, annotation.Instance{Class: class})
			}
		}
	}

	for _, h := range q.hits {
		h.symbol.Annotations().Add(h.instance)
	}
	e.cache[class] = q.set
	e.logger.Debug("query",
		zap.String("annotation", string(class)),
		zap.Int("symbols", q.set.Len()))
	return q.set, nil
}

type query struct {
	engine *Engine
	class  annotation.Class
	set    *symbols.Set
	// annotations to record once the walk succeeds
	hits []hit
}

type hit struct {
	symbol   symbols.Symbol
	instance annotation.Instance
}

func (q *query) record(sym symbols.Symbol, inst annotation.Instance) {
	q.set.Add(sym)
	q.hits = append(q.hits, hit{symbol: sym, instance: inst})
}

func (q *query) unit(u *Unit) error {
	if inst, ok := u.Element.Annotation(q.class); ok {
		q.record(u.Root, inst)
	}
	return q.children(u.Element, u.Root)
}

func (q *query) children(el host.Element, cursor symbols.Symbol) error {
	for _, group := range [][]host.Element{el.TypeParameters(), el.Parameters(), el.Enclosed()} {
		for _, child := range group {
			if err := q.element(child, cursor); err != nil {
				return err
			}
		}
	}
	return nil
}

// element matches el below cursor and descends into it. Registered units
// are walked on their own and skipped here.
func (q *query) element(el host.Element, cursor symbols.Symbol) error {
	if _, ok := q.engine.byElement[el]; ok {
		return nil
	}

	m := q.engine.match(el, cursor)
	if inst, ok := el.Annotation(q.class); ok {
		switch {
		case m.symbol != nil:
			q.record(m.symbol, inst)
		case !m.identified:
			return m.notFound(host.CanonicalName(el))
		}
	}

	next := cursor
	if m.symbol != nil {
		next = m.symbol
	}
	return q.children(el, next)
}
