package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/conduit-lang/kmeta/internal/annotation"
	"github.com/conduit-lang/kmeta/internal/cli/config"
	"github.com/conduit-lang/kmeta/internal/cli/ui"
	"github.com/conduit-lang/kmeta/internal/correlate"
	"github.com/conduit-lang/kmeta/internal/host"
	"github.com/conduit-lang/kmeta/internal/sample"
	"github.com/conduit-lang/kmeta/internal/utils"
	"github.com/conduit-lang/kmeta/internal/watch"
)

// globalOptions holds the persistent flags shared by every command.
type globalOptions struct {
	configPath string
	fixtures   []string
	useSample  bool
	format     string
	noColor    bool
	verbose    bool
}

func (g *globalOptions) register(cmd *cobra.Command) {
	flags := cmd.PersistentFlags()
	flags.StringVar(&g.configPath, "config", "", "Config file (default ./kmeta.yaml)")
	flags.StringSliceVarP(&g.fixtures, "fixture", "f", nil, "Reflection-tree fixture to load (repeatable)")
	flags.BoolVar(&g.useSample, "sample", false, "Load the built-in sample module")
	flags.StringVar(&g.format, "format", "", "Output format: table, json or text (default from config)")
	flags.BoolVar(&g.noColor, "no-color", false, "Disable colored output")
	flags.BoolVarP(&g.verbose, "verbose", "v", false, "Log session events to stderr")
}

// env is what a command needs once flags and config are resolved.
type env struct {
	cfg     *config.Config
	logger  *zap.Logger
	out     io.Writer
	errOut  io.Writer
	format  string
	noColor bool
}

func (g *globalOptions) setup(cmd *cobra.Command) (*env, error) {
	cfg, err := config.Load(g.configPath)
	if err != nil {
		return nil, err
	}
	if g.format != "" {
		cfg.Output.Format = g.format
	}

	e := &env{
		cfg:     cfg,
		logger:  zap.NewNop(),
		out:     cmd.OutOrStdout(),
		errOut:  cmd.ErrOrStderr(),
		noColor: g.noColor || cfg.Output.NoColor,
	}
	if e.noColor {
		color.NoColor = true
	}
	e.format = cfg.ResolveFormat(isTerminal(e.out))
	switch e.format {
	case config.FormatTable, config.FormatJSON, config.FormatText:
	default:
		return nil, fmt.Errorf("unknown output format %q", e.format)
	}

	if g.verbose {
		if e.logger, err = zap.NewDevelopment(); err != nil {
			return nil, fmt.Errorf("failed to create logger: %w", err)
		}
	}
	return e, nil
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

func (e *env) fixturePatterns() []string {
	if len(e.cfg.Watch.Patterns) == 0 {
		return watch.DefaultPatterns
	}
	return e.cfg.Watch.Patterns
}

func (e *env) engine() *correlate.Engine {
	return correlate.New(correlate.Options{
		Supported: e.cfg.SupportedClasses(),
		Policy:    e.cfg.Policy(),
		Logger:    e.logger,
	})
}

// roots loads the fixtures named by --fixture, plus the sample module with
// --sample. Directories are searched for files matching patterns.
func (g *globalOptions) roots(patterns []string) ([]*host.Node, error) {
	if len(g.fixtures) == 0 && !g.useSample {
		return nil, fmt.Errorf("no reflection tree given: pass --fixture <file> or --sample")
	}

	var roots []*host.Node
	if g.useSample {
		m, err := sample.Module()
		if err != nil {
			return nil, fmt.Errorf("building sample module: %w", err)
		}
		roots = append(roots, m...)
	}
	files, err := fixtureFiles(g.fixtures, patterns)
	if err != nil {
		return nil, err
	}
	for _, f := range files {
		nodes, err := host.LoadFile(f)
		if err != nil {
			return nil, err
		}
		roots = append(roots, nodes...)
	}
	return roots, nil
}

// fixtureFiles expands directories among paths into the fixture files
// below them.
func fixtureFiles(paths, patterns []string) ([]string, error) {
	var files []string
	for _, p := range paths {
		info, err := os.Stat(p)
		if err != nil {
			return nil, fmt.Errorf("fixture %s: %w", p, err)
		}
		if !info.IsDir() {
			files = append(files, p)
			continue
		}
		found, err := utils.FindFiles(p, patterns)
		if err != nil {
			return nil, fmt.Errorf("searching %s for fixtures: %w", p, err)
		}
		files = append(files, found...)
	}
	return files, nil
}

// session loads the roots and runs one round over them. Units that failed
// to decode are reported as warnings.
func (g *globalOptions) session(e *env) (*correlate.Engine, []*host.Node, error) {
	roots, err := g.roots(e.fixturePatterns())
	if err != nil {
		return nil, nil, err
	}
	engine := e.engine()
	if err := engine.RunRound(sample.Elements(roots)); err != nil {
		return nil, nil, err
	}
	for _, derr := range engine.DecodeErrors() {
		ui.WriteError(e.errOut, ui.FromError(derr, nil, e.noColor))
	}
	return engine, roots, nil
}

// classes returns args as annotation classes, or the configured supported
// classes when args is empty.
func (e *env) classes(args []string) ([]annotation.Class, error) {
	if len(args) == 0 {
		if len(e.cfg.Annotations.Supported) == 0 {
			return nil, fmt.Errorf("no annotation given and annotations.supported is empty")
		}
		return e.cfg.SupportedClasses(), nil
	}
	out := make([]annotation.Class, len(args))
	for i, a := range args {
		out[i] = annotation.Class(a)
	}
	return out, nil
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func reportError(w io.Writer, err error, supported []annotation.Class, noColor bool) {
	ui.WriteError(w, ui.FromError(err, supported, noColor))
}
