// Package store exports query results into a SQLite database so they can
// be inspected with ordinary SQL after a session ends.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/conduit-lang/kmeta/internal/annotation"
	"github.com/conduit-lang/kmeta/internal/symbols"
)

const schema = `
CREATE TABLE IF NOT EXISTS sessions (
	id          TEXT PRIMARY KEY,
	exported_at TIMESTAMP NOT NULL
);
CREATE TABLE IF NOT EXISTS symbols (
	session_id  TEXT NOT NULL REFERENCES sessions(id),
	annotation  TEXT NOT NULL,
	position    INTEGER NOT NULL,
	kind        TEXT NOT NULL,
	name        TEXT NOT NULL,
	qualified   TEXT NOT NULL,
	description TEXT NOT NULL,
	PRIMARY KEY (session_id, annotation, position)
);`

const (
	insertSession  = `INSERT OR REPLACE INTO sessions (id, exported_at) VALUES (?, ?)`
	deleteSymbols  = `DELETE FROM symbols WHERE session_id = ?`
	insertSymbol   = `INSERT INTO symbols (session_id, annotation, position, kind, name, qualified, description) VALUES (?, ?, ?, ?, ?, ?, ?)`
	selectSymbols  = `SELECT annotation, position, kind, name, qualified, description FROM symbols WHERE session_id = ? ORDER BY annotation, position`
	selectSessions = `SELECT id FROM sessions ORDER BY exported_at, id`
)

// Result is the answer to one annotation query.
type Result struct {
	Annotation annotation.Class
	Symbols    *symbols.Set
}

// Row is one exported symbol.
type Row struct {
	Annotation  string `json:"annotation"`
	Position    int    `json:"position"`
	Kind        string `json:"kind"`
	Name        string `json:"name"`
	Qualified   string `json:"qualified"`
	Description string `json:"description"`
}

// RowsOf flattens results into rows, numbering each result's symbols from
// zero in query order.
func RowsOf(results []Result) []Row {
	var rows []Row
	for _, r := range results {
		for i, sym := range r.Symbols.Symbols() {
			rows = append(rows, Row{
				Annotation:  string(r.Annotation),
				Position:    i,
				Kind:        sym.Kind().String(),
				Name:        symbols.Name(sym),
				Qualified:   symbols.QualifiedName(sym),
				Description: symbols.Describe(sym),
			})
		}
	}
	return rows
}

// Store writes and reads exported results.
type Store struct {
	db  *sql.DB
	now func() time.Time
}

// New wraps an open database. The schema is not created; call Migrate.
func New(db *sql.DB) *Store {
	return &Store{db: db, now: time.Now}
}

// Open opens (creating if needed) the SQLite database at path and ensures
// the schema exists.
func Open(ctx context.Context, path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	s := New(db)
	if err := s.Migrate(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// Migrate creates the tables if they do not exist.
func (s *Store) Migrate(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}
	return nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Export replaces everything stored for session with results and returns
// the number of rows written. It runs in a single transaction.
func (s *Store) Export(ctx context.Context, session string, results []Result) (int, error) {
	written := 0
	err := s.withTransaction(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, insertSession, session, s.now().UTC()); err != nil {
			return fmt.Errorf("failed to record session: %w", err)
		}
		if _, err := tx.ExecContext(ctx, deleteSymbols, session); err != nil {
			return fmt.Errorf("failed to clear session: %w", err)
		}

		stmt, err := tx.PrepareContext(ctx, insertSymbol)
		if err != nil {
			return fmt.Errorf("failed to prepare insert: %w", err)
		}
		defer stmt.Close()

		for _, r := range RowsOf(results) {
			_, err := stmt.ExecContext(ctx, session, r.Annotation, r.Position, r.Kind, r.Name, r.Qualified, r.Description)
			if err != nil {
				return fmt.Errorf("failed to insert %s: %w", r.Description, err)
			}
			written++
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return written, nil
}

// Rows returns the rows exported for session ordered by annotation and
// position.
func (s *Store) Rows(ctx context.Context, session string) ([]Row, error) {
	rows, err := s.db.QueryContext(ctx, selectSymbols, session)
	if err != nil {
		return nil, fmt.Errorf("failed to query symbols: %w", err)
	}
	defer rows.Close()

	var out []Row
	for rows.Next() {
		var r Row
		if err := rows.Scan(&r.Annotation, &r.Position, &r.Kind, &r.Name, &r.Qualified, &r.Description); err != nil {
			return nil, fmt.Errorf("failed to scan symbol: %w", err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// Sessions lists the exported session ids, oldest first.
func (s *Store) Sessions(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, selectSessions)
	if err != nil {
		return nil, fmt.Errorf("failed to query sessions: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan session: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// withTransaction commits when fn succeeds and rolls back on error or panic.
func (s *Store) withTransaction(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			tx.Rollback()
			panic(p)
		}
	}()

	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return fmt.Errorf("%w (rollback failed: %v)", err, rbErr)
		}
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}
