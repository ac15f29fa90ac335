package report

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/conduit-lang/kmeta/internal/annotation"
	"github.com/conduit-lang/kmeta/internal/correlate"
	"github.com/conduit-lang/kmeta/internal/host"
	"github.com/conduit-lang/kmeta/internal/sample"
	"github.com/conduit-lang/kmeta/internal/symbols"
)

var sampleOptions = Options{
	Constructors: sample.DumpConstructor,
	Functions:    sample.DumpFunction,
	Aliases:      sample.PrintTypeAlias,
	Ignore:       sample.IgnoreParameter,
}

func sampleReport(t *testing.T) *Report {
	t.Helper()
	roots, err := sample.Module()
	require.NoError(t, err)
	e := correlate.New(correlate.Options{Supported: sample.Annotations})
	require.NoError(t, e.RunRound(sample.Elements(roots)))

	r, err := Build(e, sampleOptions)
	require.NoError(t, err)
	return r
}

func TestConstructorsSection(t *testing.T) {
	r := sampleReport(t)
	assert.Equal(t, []string{
		"summer.practice.kapt.classes.Class2; primary constructor; value parameters: " +
			"var x: kotlin/Int, val y: summer/practice/kapt/classes/Class1?, ",
		"summer.practice.kapt.classes.Class2; secondary constructor; value parameters: " +
			"z: kotlin/collections/List<kotlin/collections/MutableMap<kotlin/String, kotlin/Int?>>, vararg xs: kotlin/Int?",
		"summer.practice.kapt.facades.X2; primary constructor; value parameters: val i: kotlin/Int, val j: kotlin/Int, ",
	}, r.Constructors)
}

func TestFunctionsSection(t *testing.T) {
	r := sampleReport(t)
	text := strings.Join(r.Functions, "\n")

	assert.Contains(t, text, strings.Join([]string{
		"Function haha",
		"Declared explicitly: yes",
		`\--- Modifiers: infix, tailrec`,
		`\--- Is extension: yes`,
		"\t" + `\--- Receiver: kotlin/Int`,
		`\--- Return type: kotlin/String?`,
		`\--- Value parameters: `,
		"\t" + `\--- x: kotlin/String?`,
		`\--- Type parameters: none`,
	}, "\n"))

	assert.Contains(t, text, strings.Join([]string{
		"Function getX",
		"Declared explicitly: yes",
		`\--- Modifiers: infix`,
		`\--- Is extension: yes`,
		"\t" + `\--- Receiver: summer/practice/kapt/facades/Stroka?`,
		`\--- Return type: kotlin/String?`,
		`\--- Value parameters: `,
		"\t" + `\--- x: U`,
		`\--- Type parameters: `,
		"\t" + `\--- U, upper bound: null`,
	}, "\n"))

	assert.Contains(t, text, `\--- Modifiers: inline`)
	assert.Equal(t, 2, strings.Count(text, "Function someFun")+strings.Count(text, "Function nextFun"))
}

func TestAliasesSection(t *testing.T) {
	r := sampleReport(t)
	assert.Equal(t, []string{"Stroka java.lang.String"}, r.Aliases)
}

func TestBuildWithoutIgnore(t *testing.T) {
	roots, err := sample.Module()
	require.NoError(t, err)
	e := correlate.New(correlate.Options{})
	require.NoError(t, e.RunRound(sample.Elements(roots)))

	r, err := Build(e, Options{Functions: sample.DumpFunction})
	require.NoError(t, err)
	assert.Empty(t, r.Constructors)
	assert.Empty(t, r.Aliases)
	assert.Contains(t, strings.Join(r.Functions, "\n"), "\t"+`\--- T, upper bound: kotlin/Comparable<T>`)
}

type failingQuerier struct{ err error }

func (f failingQuerier) Query(annotation.Class) (*symbols.Set, error) { return nil, f.err }

func TestBuildPropagatesQueryErrors(t *testing.T) {
	boom := errors.New("boom")
	_, err := Build(failingQuerier{boom}, sampleOptions)
	assert.ErrorIs(t, err, boom)
}

func TestWriteTo(t *testing.T) {
	r := &Report{Aliases: []string{"A kotlin/Int"}}
	var buf bytes.Buffer
	n, err := r.WriteTo(&buf)
	require.NoError(t, err)
	assert.Equal(t, int64(buf.Len()), n)
	assert.Equal(t, "== constructors.txt ==\n== functions.txt ==\n== aliases.txt ==\nA kotlin/Int\n", buf.String())
}

func TestWriteDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "out")
	r := &Report{Functions: []string{"Function f", `\--- Modifiers: none`}}
	require.NoError(t, r.WriteDir(dir))

	data, err := os.ReadFile(filepath.Join(dir, "functions.txt"))
	require.NoError(t, err)
	assert.Equal(t, "Function f\n\\--- Modifiers: none\n", string(data))

	data, err = os.ReadFile(filepath.Join(dir, "aliases.txt"))
	require.NoError(t, err)
	assert.Empty(t, data)
}

func TestElements(t *testing.T) {
	pkg := host.NewPackage("a")
	c := pkg.Add(host.NewNode(host.KindClass, "C")).Mark("a.Marked")
	m := c.Add(host.NewNode(host.KindMethod, "run"))
	m.AddParameter("x")

	var buf bytes.Buffer
	require.NoError(t, Elements(&buf, pkg))
	assert.Equal(t, strings.Join([]string{
		"PACKAGE a []",
		"\tCLASS a.C [@a.Marked]",
		"\t\tMETHOD a.C.run []",
		"\t\t\tPARAMETER a.C.run.x []",
		"",
	}, "\n"), buf.String())
}
