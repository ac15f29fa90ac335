package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/conduit-lang/kmeta/internal/annotation"
	"github.com/conduit-lang/kmeta/internal/cli/config"
	"github.com/conduit-lang/kmeta/internal/cli/ui"
	"github.com/conduit-lang/kmeta/internal/correlate"
	"github.com/conduit-lang/kmeta/internal/store"
)

func newQueryCommand(g *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "query [annotation...]",
		Short: "List the declarations carrying each annotation",
		Long: `Run one round over the reflection tree and query each annotation class.

Without arguments every class in annotations.supported is queried. Results
list classes, constructors, functions, properties, parameters, type
parameters and type aliases, in the order they were found.`,
		Example: `  # Which declarations carry @DumpFunction in the sample module?
  kmeta query --sample summer.practice.kapt.DumpFunction

  # Query every supported annotation of a fixture as JSON
  kmeta query -f tree.yaml --format json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := g.setup(cmd)
			if err != nil {
				return err
			}
			classes, err := e.classes(args)
			if err != nil {
				return err
			}
			engine, _, err := g.session(e)
			if err != nil {
				return err
			}
			results, err := runQueries(engine, classes)
			if err != nil {
				reportError(e.errOut, err, e.cfg.SupportedClasses(), e.noColor)
				return fmt.Errorf("query failed")
			}
			return printResults(e, results)
		},
	}
}

func runQueries(engine *correlate.Engine, classes []annotation.Class) ([]store.Result, error) {
	results := make([]store.Result, 0, len(classes))
	for _, c := range classes {
		set, err := engine.Query(c)
		if err != nil {
			return nil, err
		}
		results = append(results, store.Result{Annotation: c, Symbols: set})
	}
	return results, nil
}

func printResults(e *env, results []store.Result) error {
	rows := store.RowsOf(results)
	switch e.format {
	case config.FormatJSON:
		if rows == nil {
			rows = []store.Row{}
		}
		return writeJSON(e.out, rows)
	case config.FormatText:
		for _, r := range rows {
			fmt.Fprintf(e.out, "%s\t%s\n", r.Annotation, r.Description)
		}
		return nil
	default:
		table := ui.NewTable(e.out, e.noColor, "ANNOTATION", "KIND", "SYMBOL")
		for _, r := range rows {
			table.AddRow(r.Annotation, r.Kind, strings.TrimPrefix(r.Description, r.Kind+" "))
		}
		table.Render()
		fmt.Fprintf(e.out, "\n%d symbol(s)\n", len(rows))
		return nil
	}
}
