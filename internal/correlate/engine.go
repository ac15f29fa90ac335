// Package correlate matches a host reflection tree against decoded symbol
// trees and answers "which declarations carry annotation A" queries.
//
// An Engine belongs to one session. Each round walks the given roots,
// decodes every element that carries a metadata attachment and binds the
// resulting tree. Queries then walk each registered unit in lock step with
// its symbol tree and cache the result per annotation class until a later
// round discovers new elements.
package correlate

import (
	stderrors "errors"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/conduit-lang/kmeta/internal/annotation"
	"github.com/conduit-lang/kmeta/internal/binder"
	"github.com/conduit-lang/kmeta/internal/decoder"
	kerrors "github.com/conduit-lang/kmeta/internal/errors"
	"github.com/conduit-lang/kmeta/internal/host"
	"github.com/conduit-lang/kmeta/internal/symbols"
)

// Options configures an Engine.
type Options struct {
	// Supported lists the annotation classes Query accepts. An empty list
	// accepts every class.
	Supported []annotation.Class
	// Policy is handed to the decoder.
	Policy decoder.Policy
	// Logger receives discovery and binding events. Nil means no logging.
	Logger *zap.Logger
}

// Unit is a registered, decoded compilation unit.
type Unit struct {
	Name    string
	Element host.Element
	Root    symbols.Container

	bound bool
}

// Stats summarizes the work an Engine has done since it was created or
// last reset.
type Stats struct {
	Rounds       int `json:"rounds"`
	Visited      int `json:"visited"`
	Units        int `json:"units"`
	DecodeErrors int `json:"decode_errors"`
	Bound        int `json:"bound"`
	Unbound      int `json:"unbound"`
	Cached       int `json:"cached"`
}

// Engine is the per-session correlation state.
type Engine struct {
	opts      Options
	logger    *zap.Logger
	decoder   *decoder.Decoder
	supported map[annotation.Class]bool

	session   string
	rounds    int
	visited   map[host.Element]struct{}
	units     []*Unit
	byName    map[string]*Unit
	byElement map[host.Element]*Unit
	errs      kerrors.ErrorList
	bind      binder.Stats
	cache     map[annotation.Class]*symbols.Set
}

// New creates an engine for a fresh session.
func New(opts Options) *Engine {
	e := &Engine{
		opts:    opts,
		decoder: decoder.NewDecoder(decoder.Options{Policy: opts.Policy}),
	}
	if len(opts.Supported) > 0 {
		e.supported = make(map[annotation.Class]bool, len(opts.Supported))
		for _, c := range opts.Supported {
			e.supported[c] = true
		}
	}
	e.Reset()
	return e
}

// Reset discards every unit, cached result and visited element and starts
// a new session.
func (e *Engine) Reset() {
	e.session = uuid.NewString()
	base := e.opts.Logger
	if base == nil {
		base = zap.NewNop()
	}
	e.logger = base.With(zap.String("session", e.session))

	e.rounds = 0
	e.visited = make(map[host.Element]struct{})
	e.units = nil
	e.byName = make(map[string]*Unit)
	e.byElement = make(map[host.Element]*Unit)
	e.errs = nil
	e.bind = binder.Stats{}
	e.cache = make(map[annotation.Class]*symbols.Set)
}

// Session returns the session id.
func (e *Engine) Session() string {
	return e.session
}

// RunRound discovers the units reachable from roots, decodes and binds
// them. Elements seen in an earlier round are not decoded again, though
// the walk still enters them to reach new enclosed elements. A unit that
// fails to decode is logged, listed by DecodeErrors and left out; it does
// not fail the round.
func (e *Engine) RunRound(roots []host.Element) error {
	for i, r := range roots {
		if r == nil {
			return fmt.Errorf("round %d: root %d is nil", e.rounds+1, i)
		}
	}
	e.rounds++

	fresh := 0
	for _, r := range roots {
		host.Walk(r, func(el host.Element) bool {
			if _, seen := e.visited[el]; !seen {
				e.visited[el] = struct{}{}
				fresh++
				e.discover(el)
			}
			return true
		})
	}

	for _, u := range e.units {
		if u.bound {
			continue
		}
		stats := binder.Bind(u.Root)
		u.bound = true
		e.bind.Bound += stats.Bound
		e.bind.Unbound += stats.Unbound
		if stats.Unbound > 0 {
			e.logger.Warn("unbound type parameter references",
				zap.String("unit", u.Name),
				zap.Int("unbound", stats.Unbound))
		}
	}

	if fresh > 0 && len(e.cache) > 0 {
		e.logger.Debug("query cache invalidated", zap.Int("entries", len(e.cache)))
		e.cache = make(map[annotation.Class]*symbols.Set)
	}
	e.logger.Info("round complete",
		zap.Int("round", e.rounds),
		zap.Int("visited", fresh),
		zap.Int("units", len(e.units)))
	return nil
}

// discover decodes el when it carries an attachment.
func (e *Engine) discover(el host.Element) {
	if !el.Kind().IsClassLike() {
		return
	}
	name := host.CanonicalName(el)
	h, err := host.Metadata(el)
	if err != nil {
		e.fail(kerrors.NewInvalidMetadata(name, err))
		return
	}
	if h == nil {
		return
	}

	root, err := e.decoder.Decode(decoder.Unit{Name: name, Header: h})
	if err != nil {
		var kerr *kerrors.Error
		if !stderrors.As(err, &kerr) {
			kerr = kerrors.NewInvalidMetadata(name, err)
		}
		e.fail(kerr)
		return
	}

	if prev, dup := e.byName[name]; dup {
		e.logger.Warn("duplicate unit name, keeping the first",
			zap.String("unit", name),
			zap.String("kept", prev.Root.QualifiedName()))
		return
	}
	u := &Unit{Name: name, Element: el, Root: root}
	e.units = append(e.units, u)
	e.byName[name] = u
	e.byElement[el] = u
	e.logger.Debug("unit registered",
		zap.String("unit", name),
		zap.Stringer("kind", root.Kind()))
}

func (e *Engine) fail(err *kerrors.Error) {
	e.errs = append(e.errs, err)
	e.logger.Warn("skipping unit", zap.String("unit", err.Subject), zap.String("code", string(err.Code)), zap.Error(err))
}

// DecodeErrors lists the units skipped because their attachment could not
// be decoded, in discovery order.
func (e *Engine) DecodeErrors() kerrors.ErrorList {
	out := make(kerrors.ErrorList, len(e.errs))
	copy(out, e.errs)
	return out
}

// Units returns the registered units in discovery order.
func (e *Engine) Units() []*Unit {
	out := make([]*Unit, len(e.units))
	copy(out, e.units)
	return out
}

// Lookup returns the unit registered under a canonical name.
func (e *Engine) Lookup(name string) (*Unit, bool) {
	u, ok := e.byName[name]
	return u, ok
}

// Stats reports counters for the session.
func (e *Engine) Stats() Stats {
	return Stats{
		Rounds:       e.rounds,
		Visited:      len(e.visited),
		Units:        len(e.units),
		DecodeErrors: len(e.errs),
		Bound:        e.bind.Bound,
		Unbound:      e.bind.Unbound,
		Cached:       len(e.cache),
	}
}

// Supports reports whether Query accepts class.
func (e *Engine) Supports(class annotation.Class) bool {
	return e.supported == nil || e.supported[class]
}
