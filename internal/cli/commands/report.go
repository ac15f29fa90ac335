package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/conduit-lang/kmeta/internal/cli/config"
	"github.com/conduit-lang/kmeta/internal/cli/ui"
	"github.com/conduit-lang/kmeta/internal/report"
)

func newReportCommand(g *globalOptions) *cobra.Command {
	var outDir string
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Write the constructors, functions and aliases reports",
		Long: `Query the annotation classes named under report.* in the config and
render them as three reports: annotated constructors with the properties
they deliver, annotated functions with modifiers, receiver, parameters and
type parameters, and annotated type aliases with their expansion.

Parameters and type parameters carrying report.ignore are left out.`,
		Example: `  kmeta report --sample
  kmeta report -f tree.yaml --out build/reports`,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := g.setup(cmd)
			if err != nil {
				return err
			}
			engine, _, err := g.session(e)
			if err != nil {
				return err
			}

			r, err := report.Build(engine, e.cfg.Report)
			if err != nil {
				reportError(e.errOut, err, e.cfg.SupportedClasses(), e.noColor)
				return fmt.Errorf("report failed")
			}

			switch {
			case outDir != "":
				if err := r.WriteDir(outDir); err != nil {
					return err
				}
				ui.WriteSuccess(e.out, fmt.Sprintf("Reports written to %s", outDir), e.noColor)
				return nil
			case e.format == config.FormatJSON:
				return writeJSON(e.out, r)
			default:
				_, err := r.WriteTo(e.out)
				return err
			}
		},
	}
	cmd.Flags().StringVarP(&outDir, "out", "o", "", "Directory to write constructors.txt, functions.txt and aliases.txt into")
	return cmd
}
