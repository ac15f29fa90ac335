package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/conduit-lang/kmeta/internal/cli/config"
	"github.com/conduit-lang/kmeta/internal/cli/ui"
	"github.com/conduit-lang/kmeta/internal/correlate"
	kerrors "github.com/conduit-lang/kmeta/internal/errors"
	"github.com/conduit-lang/kmeta/internal/report"
)

type unitRow struct {
	Name    string `json:"name"`
	Kind    string `json:"kind"`
	Symbol  string `json:"symbol"`
	Element string `json:"element"`
}

type dumpOutput struct {
	Session string            `json:"session"`
	Units   []unitRow         `json:"units"`
	Stats   correlate.Stats   `json:"stats"`
	Errors  kerrors.ErrorList `json:"errors,omitempty"`
}

func newDumpCommand(g *globalOptions) *cobra.Command {
	var elements bool
	cmd := &cobra.Command{
		Use:   "dump",
		Short: "Show the units a round registers",
		Long: `Run one round and list every unit it registered: the element's
canonical name, the decoded root and its kind, plus session counters.

With --elements the reflection tree itself is printed instead, one element
per line with its annotations.`,
		Example: `  kmeta dump --sample
  kmeta dump -f tree.yaml --elements`,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := g.setup(cmd)
			if err != nil {
				return err
			}
			engine, roots, err := g.session(e)
			if err != nil {
				return err
			}

			if elements {
				for _, r := range roots {
					if err := report.Elements(e.out, r); err != nil {
						return err
					}
				}
				return nil
			}

			out := dumpOutput{
				Session: engine.Session(),
				Stats:   engine.Stats(),
				Errors:  engine.DecodeErrors(),
			}
			for _, u := range engine.Units() {
				out.Units = append(out.Units, unitRow{
					Name:    u.Name,
					Kind:    u.Root.Kind().String(),
					Symbol:  u.Root.QualifiedName(),
					Element: u.Element.Kind().String(),
				})
			}

			if e.format == config.FormatJSON {
				return writeJSON(e.out, out)
			}
			table := ui.NewTable(e.out, e.noColor, "UNIT", "ELEMENT", "ROOT")
			for _, u := range out.Units {
				table.AddRow(u.Name, u.Element, u.Kind+" "+u.Symbol)
			}
			table.Render()
			fmt.Fprintln(e.out)

			kv := ui.NewKeyValueTable(e.out, e.noColor)
			kv.AddRow("Session", out.Session)
			kv.AddRow("Rounds", out.Stats.Rounds)
			kv.AddRow("Elements", out.Stats.Visited)
			kv.AddRow("Units", out.Stats.Units)
			kv.AddRow("Decode errors", out.Stats.DecodeErrors)
			kv.AddRow("Bound references", out.Stats.Bound)
			kv.AddRow("Unbound references", out.Stats.Unbound)
			kv.Render()
			return nil
		},
	}
	cmd.Flags().BoolVar(&elements, "elements", false, "Print the reflection tree instead of the units")
	return cmd
}
