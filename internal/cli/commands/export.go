package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/conduit-lang/kmeta/internal/cli/ui"
	"github.com/conduit-lang/kmeta/internal/store"
)

func newExportCommand(g *globalOptions) *cobra.Command {
	var dbPath string
	cmd := &cobra.Command{
		Use:   "export [annotation...]",
		Short: "Store query results in a SQLite database",
		Long: `Query each annotation class (or every class in annotations.supported)
and store the results under the session id in a SQLite database. A later
export of the same session replaces its rows.

Tables: sessions(id, exported_at) and symbols(session_id, annotation,
position, kind, name, qualified, description).`,
		Example: `  kmeta export --sample --db results.db
  sqlite3 results.db 'SELECT annotation, description FROM symbols'`,
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

			if dbPath == "" {
				dbPath = e.cfg.Store.Path
			}
			s, err := store.Open(cmd.Context(), dbPath)
			if err != nil {
				return err
			}
			defer s.Close()

			n, err := s.Export(cmd.Context(), engine.Session(), results)
			if err != nil {
				return err
			}
			ui.WriteSuccess(e.out, fmt.Sprintf("Exported %d symbol(s) for session %s to %s", n, engine.Session(), dbPath), e.noColor)
			return nil
		},
	}
	cmd.Flags().StringVar(&dbPath, "db", "", "SQLite database path (default store.path)")
	return cmd
}
