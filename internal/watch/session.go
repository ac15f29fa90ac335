package watch

import (
	"fmt"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/conduit-lang/kmeta/internal/correlate"
	"github.com/conduit-lang/kmeta/internal/host"
)

// Session feeds fixture files into one correlation engine. New files are
// added as a further round of the same session. Modified or removed files
// invalidate elements the engine already registered, so they reset the
// engine and replay every loaded file in a single round.
type Session struct {
	engine *correlate.Engine
	logger *zap.Logger
	load   func(path string) ([]*host.Node, error)

	// roots of every successfully loaded file
	files map[string][]*host.Node
}

// RoundResult describes the round a batch of changes produced.
type RoundResult struct {
	Files    []string
	Reset    bool
	Failed   map[string]error
	Stats    correlate.Stats
	Duration time.Duration
}

// NewSession wraps engine. Fixture files are read with host.LoadFile.
func NewSession(engine *correlate.Engine, logger *zap.Logger) *Session {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Session{
		engine: engine,
		logger: logger,
		load:   host.LoadFile,
		files:  make(map[string][]*host.Node),
	}
}

// Engine returns the session's engine.
func (s *Session) Engine() *correlate.Engine {
	return s.engine
}

// Files lists the loaded fixture files in sorted order.
func (s *Session) Files() []string {
	out := make([]string, 0, len(s.files))
	for f := range s.files {
		out = append(out, f)
	}
	sort.Strings(out)
	return out
}

// Apply loads the batch and runs the resulting round. Files that fail to
// load are reported in RoundResult.Failed and keep their previous roots.
func (s *Session) Apply(c Change) (*RoundResult, error) {
	start := time.Now()
	result := &RoundResult{Failed: make(map[string]error)}

	var fresh []string
	for _, f := range c.Removed {
		if _, ok := s.files[f]; ok {
			delete(s.files, f)
			result.Reset = true
		}
	}
	for _, f := range c.Written {
		roots, err := s.load(f)
		if err != nil {
			result.Failed[f] = err
			s.logger.Warn("failed to load fixture", zap.String("file", f), zap.Error(err))
			continue
		}
		if _, ok := s.files[f]; ok {
			result.Reset = true
		} else {
			fresh = append(fresh, f)
		}
		s.files[f] = roots
	}

	var round []string
	if result.Reset {
		s.engine.Reset()
		round = s.Files()
	} else {
		round = fresh
	}

	var elements []host.Element
	for _, f := range round {
		for _, n := range s.files[f] {
			elements = append(elements, n)
		}
	}
	result.Files = round

	if len(round) > 0 || result.Reset {
		if err := s.engine.RunRound(elements); err != nil {
			return result, fmt.Errorf("round failed: %w", err)
		}
	}

	result.Stats = s.engine.Stats()
	result.Duration = time.Since(start)
	s.logger.Info("applied changes",
		zap.Strings("files", round),
		zap.Bool("reset", result.Reset),
		zap.Int("failed", len(result.Failed)),
		zap.Duration("duration", result.Duration))
	return result, nil
}
