package host

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/conduit-lang/kmeta/internal/metadata"
)

const fixtureYAML = `
roots:
  - name: a.b
    enclosed:
      - kind: class
        name: Person
        annotations:
          - class: a.b.Marked
        type_parameters:
          - name: T
        enclosed:
          - kind: method
            name: getName
            signature: ()java.lang.String
            parameters:
              - name: x
`

func TestParseTree(t *testing.T) {
	roots, err := ParseTree([]byte(fixtureYAML), "tree.yaml")
	require.NoError(t, err)
	require.Len(t, roots, 1)

	pkg := roots[0]
	assert.Equal(t, KindPackage, pkg.Kind())

	person := pkg.Find("a.b.Person")
	require.NotNil(t, person)
	_, ok := person.Annotation("a.b.Marked")
	assert.True(t, ok)
	require.Len(t, person.TypeParameters(), 1)
	assert.Equal(t, KindTypeParameter, person.TypeParameters()[0].Kind())

	m := pkg.Find("a.b.Person.getName")
	require.NotNil(t, m)
	assert.Equal(t, "()java.lang.String", m.Signature())
	require.Len(t, m.Parameters(), 1)
	assert.Equal(t, KindParameter, m.Parameters()[0].Kind())
	assert.Same(t, m, m.Parameters()[0].Enclosing())
}

func TestParseTreeErrors(t *testing.T) {
	tests := []struct {
		name string
		yaml string
		want string
	}{
		{"syntax", "roots: [", "parsing bad.yaml"},
		{"unknown kind", "roots:\n  - kind: module\n    name: m\n", `unknown element kind "module"`},
		{"missing kind", "roots:\n  - name: p\n    enclosed:\n      - name: C\n", "missing kind"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseTree([]byte(tt.yaml), "bad.yaml")
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestMarshalTreeRoundTrip(t *testing.T) {
	h := &metadata.Header{
		Kind:            metadata.KindClass,
		MetadataVersion: metadata.Current.Ints(),
		Data1:           []byte{0x08, 0x01, 0x10, 0x02},
		Data2:           []string{"a/b/Person", "name"},
	}
	pkg := NewPackage("a.b")
	person := pkg.Add(NewNode(KindClass, "Person")).Annotate(h.Annotation())
	person.Add(NewNode(KindConstructor, "<init>").WithSignature("()void")).AddParameter("name")

	data, err := MarshalTree([]*Node{pkg})
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "tree.yaml")
	require.NoError(t, os.WriteFile(path, data, 0o644))
	roots, err := LoadFile(path)
	require.NoError(t, err)
	require.Len(t, roots, 1)

	back := roots[0].Find("a.b.Person")
	require.NotNil(t, back)
	got, err := Metadata(back)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, h.Kind, got.Kind)
	assert.Equal(t, h.MetadataVersion, got.MetadataVersion)
	assert.Equal(t, h.Data1, got.Data1)
	assert.Equal(t, h.Data2, got.Data2)

	ctor := roots[0].Find("a.b.Person.<init>")
	require.NotNil(t, ctor)
	assert.Equal(t, "()void", ctor.Signature())
	assert.Len(t, ctor.Parameters(), 1)
}

func TestLoadFileMissing(t *testing.T) {
	_, err := LoadFile(filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "reading fixture")
}
