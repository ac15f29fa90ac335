package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/conduit-lang/kmeta/internal/cli/config"
	"github.com/conduit-lang/kmeta/internal/host"
	"github.com/conduit-lang/kmeta/internal/store"
	"github.com/conduit-lang/kmeta/internal/watch"
)

func writeConfig(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, "kmeta.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func loadConfig(t *testing.T, content string) *config.Config {
	t.Helper()
	cfg, err := config.Load(writeConfig(t, t.TempDir(), content))
	require.NoError(t, err)
	return cfg
}

func TestDumpJSON(t *testing.T) {
	out, _, err := run(t, "dump", "--sample", "--format", "json")
	require.NoError(t, err)

	var got dumpOutput
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.NotEmpty(t, got.Session)
	assert.Len(t, got.Units, 8)
	assert.Equal(t, 1, got.Stats.Rounds)
	assert.Equal(t, 8, got.Stats.Units)
	assert.Empty(t, got.Errors)

	var names []string
	for _, u := range got.Units {
		names = append(names, u.Name)
	}
	assert.Contains(t, names, "summer.practice.kapt.classes.Class2")
}

func TestDumpTable(t *testing.T) {
	out, _, err := run(t, "dump", "--sample", "--format", "table", "--no-color")
	require.NoError(t, err)
	assert.Contains(t, out, "UNIT")
	assert.Contains(t, out, "summer.practice.kapt.classes.Class1")
	assert.Contains(t, out, "Session")
}

func TestDumpElements(t *testing.T) {
	out, _, err := run(t, "dump", "--sample", "--elements")
	require.NoError(t, err)
	assert.Contains(t, out, "PACKAGE summer.practice.kapt.classes")
	assert.Contains(t, out, "CLASS summer.practice.kapt.classes.Class2")
}

func TestReportText(t *testing.T) {
	out, _, err := run(t, "report", "--sample", "--format", "text")
	require.NoError(t, err)
	assert.Contains(t, out, "== constructors.txt ==")
	assert.Contains(t, out, "Function haha")
	assert.Contains(t, out, "Stroka java.lang.String")
}

func TestReportJSON(t *testing.T) {
	out, _, err := run(t, "report", "--sample", "--format", "json")
	require.NoError(t, err)

	var got struct {
		Constructors []string `json:"constructors"`
		Aliases      []string `json:"aliases"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Len(t, got.Constructors, 3)
	assert.Equal(t, []string{"Stroka java.lang.String"}, got.Aliases)
}

func TestReportOutDir(t *testing.T) {
	dir := t.TempDir()
	out, _, err := run(t, "report", "--sample", "--no-color", "--out", dir)
	require.NoError(t, err)
	assert.Contains(t, out, dir)

	data, err := os.ReadFile(filepath.Join(dir, "aliases.txt"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "Stroka")
}

func TestExport(t *testing.T) {
	db := filepath.Join(t.TempDir(), "results.db")
	out, _, err := run(t, "export", "--sample", "--no-color", "--db", db,
		"summer.practice.kapt.PrintTypeAlias", "summer.practice.kapt.DumpConstructor")
	require.NoError(t, err)

	ctx := context.Background()
	s, err := store.Open(ctx, db)
	require.NoError(t, err)
	defer s.Close()

	sessions, err := s.Sessions(ctx)
	require.NoError(t, err)
	require.Len(t, sessions, 1)

	rows, err := s.Rows(ctx, sessions[0])
	require.NoError(t, err)
	assert.Contains(t, out, fmt.Sprintf("Exported %d symbol(s) for session %s", len(rows), sessions[0]))

	var kinds []string
	for _, r := range rows {
		kinds = append(kinds, r.Kind)
	}
	assert.Contains(t, kinds, "typealias")
	assert.Contains(t, kinds, "constructor")
}

func TestSampleWritesFixture(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tree.yaml")
	out, _, err := run(t, "sample", path)
	require.NoError(t, err)
	assert.Contains(t, out, "wrote "+path)

	roots, err := host.LoadFile(path)
	require.NoError(t, err)
	assert.Len(t, roots, 3)

	// the written fixture answers the same queries as --sample
	q, _, err := run(t, "query", "-f", path, "--format", "text", "summer.practice.kapt.PrintTypeAlias")
	require.NoError(t, err)
	assert.Contains(t, q, "typealias")
}

func TestSampleStdout(t *testing.T) {
	out, _, err := run(t, "sample")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "roots:"))
	assert.Contains(t, out, "kind: package")
}

func TestExistingFixtures(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"b.yaml", "a.yml", "notes.txt"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), nil, 0o644))
	}

	files, err := existingFixtures([]string{dir, dir}, watch.DefaultPatterns)
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(dir, "a.yml"), filepath.Join(dir, "b.yaml")}, files)
}

func TestPrintRound(t *testing.T) {
	dir := t.TempDir()
	fixture := filepath.Join(dir, "tree.yaml")
	_, _, err := run(t, "sample", fixture)
	require.NoError(t, err)

	var out, errOut strings.Builder
	e := &env{
		cfg:     loadConfig(t, "annotations:\n  supported:\n    - summer.practice.kapt.PrintTypeAlias\n"),
		out:     &out,
		errOut:  &errOut,
		logger:  zap.NewNop(),
		noColor: true,
	}
	session := watch.NewSession(e.engine(), e.logger)

	res, err := session.Apply(watch.Change{Written: []string{fixture, filepath.Join(dir, "missing.yaml")}})
	require.NoError(t, err)
	printRound(e, session, res)

	assert.Contains(t, out.String(), "round 1: 8 unit(s) from 1 file(s)")
	assert.Contains(t, out.String(), "summer.practice.kapt.PrintTypeAlias")
	assert.Contains(t, errOut.String(), "missing.yaml")
}

func TestFixtureDirectory(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "nested"), 0o755))
	_, _, err := run(t, "sample", filepath.Join(dir, "nested", "tree.yaml"))
	require.NoError(t, err)

	out, _, err := run(t, "dump", "-f", dir, "--format", "json")
	require.NoError(t, err)

	var got dumpOutput
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Len(t, got.Units, 8)
}

func TestFixtureMissing(t *testing.T) {
	_, _, err := run(t, "dump", "-f", filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing.yaml")
}
