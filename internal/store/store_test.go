package store

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/conduit-lang/kmeta/internal/symbols"
)

func results() []Result {
	a := symbols.NewArena()
	c := a.NewClass("a.b.C", 0)
	f := a.NewFunction(c, "run", 0)
	c.FunctionList = []*symbols.Function{f}

	set := symbols.NewSet()
	set.Add(c)
	set.Add(f)
	return []Result{{Annotation: "a.b.Marker", Symbols: set}}
}

func mockStore(t *testing.T) (*Store, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherEqual))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	s := New(db)
	s.now = func() time.Time { return time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC) }
	return s, mock
}

func TestExport(t *testing.T) {
	s, mock := mockStore(t)

	mock.ExpectBegin()
	mock.ExpectExec(insertSession).
		WithArgs("sess", time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec(deleteSymbols).WithArgs("sess").WillReturnResult(sqlmock.NewResult(0, 0))
	prep := mock.ExpectPrepare(insertSymbol)
	prep.ExpectExec().
		WithArgs("sess", "a.b.Marker", 0, "class", "a.b.C", "a.b.C", "class a.b.C").
		WillReturnResult(sqlmock.NewResult(1, 1))
	prep.ExpectExec().
		WithArgs("sess", "a.b.Marker", 1, "function", "run", "a.b.C.run", "function a.b.C.run()void").
		WillReturnResult(sqlmock.NewResult(2, 1))
	mock.ExpectCommit()

	n, err := s.Export(context.Background(), "sess", results())
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestExportRollsBackOnInsertFailure(t *testing.T) {
	s, mock := mockStore(t)
	boom := errors.New("disk full")

	mock.ExpectBegin()
	mock.ExpectExec(insertSession).WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec(deleteSymbols).WillReturnResult(sqlmock.NewResult(0, 0))
	prep := mock.ExpectPrepare(insertSymbol)
	prep.ExpectExec().WillReturnError(boom)
	mock.ExpectRollback()

	n, err := s.Export(context.Background(), "sess", results())
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "class a.b.C")
	assert.Zero(t, n)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestExportBeginFailure(t *testing.T) {
	s, mock := mockStore(t)
	mock.ExpectBegin().WillReturnError(errors.New("locked"))

	_, err := s.Export(context.Background(), "sess", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to begin transaction")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRows(t *testing.T) {
	s, mock := mockStore(t)
	mock.ExpectQuery(selectSymbols).WithArgs("sess").WillReturnRows(
		sqlmock.NewRows([]string{"annotation", "position", "kind", "name", "qualified", "description"}).
			AddRow("a.b.Marker", 0, "class", "a.b.C", "a.b.C", "class a.b.C"))

	rows, err := s.Rows(context.Background(), "sess")
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, Row{
		Annotation:  "a.b.Marker",
		Kind:        "class",
		Name:        "a.b.C",
		Qualified:   "a.b.C",
		Description: "class a.b.C",
	}, rows[0])
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSessions(t *testing.T) {
	s, mock := mockStore(t)
	mock.ExpectQuery(selectSessions).WillReturnRows(
		sqlmock.NewRows([]string{"id"}).AddRow("first").AddRow("second"))

	ids, err := s.Sessions(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"first", "second"}, ids)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSQLiteRoundTrip(t *testing.T) {
	ctx := context.Background()
	s, err := Open(ctx, filepath.Join(t.TempDir(), "kmeta.db"))
	require.NoError(t, err)
	defer s.Close()

	n, err := s.Export(ctx, "sess", results())
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	// Exporting again replaces the session's rows.
	_, err = s.Export(ctx, "sess", results())
	require.NoError(t, err)

	rows, err := s.Rows(ctx, "sess")
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "function a.b.C.run()void", rows[1].Description)

	ids, err := s.Sessions(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"sess"}, ids)

	rows, err = s.Rows(ctx, "other")
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestRowsOf(t *testing.T) {
	rows := RowsOf(results())
	require.Len(t, rows, 2)
	assert.Equal(t, Row{
		Annotation:  "a.b.Marker",
		Position:    1,
		Kind:        "function",
		Name:        "run",
		Qualified:   "a.b.C.run",
		Description: "function a.b.C.run()void",
	}, rows[1])
	assert.Empty(t, RowsOf(nil))
}
