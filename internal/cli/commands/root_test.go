package commands

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// run executes the root command with args and returns what it wrote.
func run(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	cmd := NewRootCommand()
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), errOut.String(), err
}

func TestNewRootCommand(t *testing.T) {
	cmd := NewRootCommand()

	assert.Equal(t, "kmeta", cmd.Use)
	assert.NotEmpty(t, cmd.Short)
	assert.NotEmpty(t, cmd.Long)

	var names []string
	for _, c := range cmd.Commands() {
		names = append(names, c.Name())
	}
	for _, expected := range []string{"version", "query", "dump", "report", "export", "watch", "sample", "completion"} {
		assert.Contains(t, names, expected)
	}

	for _, flag := range []string{"config", "fixture", "sample", "format", "no-color", "verbose"} {
		assert.NotNil(t, cmd.PersistentFlags().Lookup(flag), flag)
	}
}

func TestVersionCommand(t *testing.T) {
	Version = "1.0.0-test"
	GitCommit = "abc123"
	BuildDate = "2025-01-01"
	GoVersion = "go1.23"

	out, _, err := run(t, "version", "--no-color")
	require.NoError(t, err)
	assert.Contains(t, out, "kmeta version: 1.0.0-test")
	assert.Contains(t, out, "Git commit: abc123")
	assert.Contains(t, out, "Go version: go1.23")
}

func TestCompletionCommand(t *testing.T) {
	out, _, err := run(t, "completion", "bash")
	require.NoError(t, err)
	assert.Contains(t, out, "kmeta")

	_, _, err = run(t, "completion", "tcsh")
	assert.Error(t, err)
}

func TestUnknownFormat(t *testing.T) {
	_, _, err := run(t, "query", "--sample", "--format", "xml", "a.B")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown output format "xml"`)
}

func TestNoReflectionTree(t *testing.T) {
	_, _, err := run(t, "query", "a.B")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--fixture")
}
