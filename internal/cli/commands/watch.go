package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"sort"
	"sync"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/conduit-lang/kmeta/internal/cli/ui"
	"github.com/conduit-lang/kmeta/internal/watch"
)

func newWatchCommand(g *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "watch [dir...]",
		Short: "Re-run queries whenever fixture files change",
		Long: `Watch directories for reflection-tree fixtures and keep one session
alive across changes. New files are correlated as a further round. Editing
or removing a file starts a fresh session over every file still present.

After each round the symbol count for every supported annotation is
printed. Stop with Ctrl+C.`,
		Example: `  kmeta watch fixtures/
  kmeta watch --verbose .`,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := g.setup(cmd)
			if err != nil {
				return err
			}
			dirs := args
			if len(dirs) == 0 {
				dirs = []string{"."}
			}
			patterns := e.fixturePatterns()

			session := watch.NewSession(e.engine(), e.logger)
			var mu sync.Mutex
			apply := func(c watch.Change) error {
				mu.Lock()
				defer mu.Unlock()
				res, err := session.Apply(c)
				if err != nil {
					return err
				}
				printRound(e, session, res)
				return nil
			}

			initial, err := existingFixtures(dirs, patterns)
			if err != nil {
				return err
			}
			if err := apply(watch.Change{Written: initial}); err != nil {
				return err
			}

			fw, err := watch.NewFileWatcher(watch.Config{
				Dirs:     dirs,
				Patterns: patterns,
				Ignored:  e.cfg.Watch.Ignored,
				Debounce: e.cfg.Watch.Debounce,
				Logger:   e.logger,
			}, apply)
			if err != nil {
				return err
			}
			if err := fw.Start(); err != nil {
				return err
			}
			defer fw.Stop()

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			fmt.Fprintf(e.out, "Watching %v for %v\n", dirs, patterns)
			<-ctx.Done()
			e.logger.Info("stopping watch", zap.Error(context.Cause(ctx)))
			return nil
		},
	}
}

// existingFixtures lists the files in dirs matching any pattern, sorted.
func existingFixtures(dirs, patterns []string) ([]string, error) {
	seen := make(map[string]bool)
	for _, dir := range dirs {
		for _, p := range patterns {
			matches, err := filepath.Glob(filepath.Join(dir, p))
			if err != nil {
				return nil, fmt.Errorf("bad watch pattern %q: %w", p, err)
			}
			for _, m := range matches {
				seen[m] = true
			}
		}
	}
	files := make([]string, 0, len(seen))
	for f := range seen {
		files = append(files, f)
	}
	sort.Strings(files)
	return files, nil
}

func printRound(e *env, session *watch.Session, res *watch.RoundResult) {
	for _, f := range sortedKeys(res.Failed) {
		ui.WriteError(e.errOut, ui.ErrorOptions{
			Level:   ui.ErrorLevelError,
			Context: f,
			Problem: "could not load fixture",
			Cause:   res.Failed[f].Error(),
			NoColor: e.noColor,
		})
	}

	engine := session.Engine()
	if engine.Stats().Rounds == 0 {
		fmt.Fprintln(e.out, ui.Warning("no fixtures loaded yet", e.noColor))
		return
	}
	msg := fmt.Sprintf("round %d: %d unit(s) from %d file(s) in %s",
		res.Stats.Rounds, res.Stats.Units, len(session.Files()), res.Duration.Round(time.Millisecond))
	if res.Reset {
		msg += " (session reset)"
	}
	ui.WriteSuccess(e.out, msg, e.noColor)

	table := ui.NewTable(e.out, e.noColor, "ANNOTATION", "SYMBOLS")
	for _, c := range e.cfg.SupportedClasses() {
		set, err := engine.Query(c)
		if err != nil {
			table.AddRow(string(c), "error: "+err.Error())
			continue
		}
		table.AddRow(string(c), fmt.Sprint(set.Len()))
	}
	if table.Len() > 0 {
		table.Render()
	}
}

func sortedKeys(m map[string]error) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
