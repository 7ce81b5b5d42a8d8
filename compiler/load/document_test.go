package load_test

import (
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/syssam/specgen"
	"github.com/syssam/specgen/compiler/load"
)

const petstore = `openapi: 3.0.0
components:
  schemas:
    Zebra:
      type: object
    Pet:
      type: object
      required: [id, name]
      properties:
        id: {type: integer}
        name: {type: string}
        tag: {type: string}
paths:
  /pets/{id}:
    get:
      operationId: getPetById
`

func TestLoad(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "api.yaml", []byte(petstore), 0o644))

	doc, err := load.Load(fs, "api.yaml")
	require.NoError(t, err)
	assert.Equal(t, "api.yaml", doc.Path)
	require.True(t, doc.Root.IsMap())

	t.Run("DeclarationOrder", func(t *testing.T) {
		var names []string
		for _, p := range doc.Root.At("components", "schemas").Pairs() {
			names = append(names, p.Key)
		}
		assert.Equal(t, []string{"Zebra", "Pet"}, names)

		var props []string
		for _, p := range doc.Root.At("components", "schemas", "Pet", "properties").Pairs() {
			props = append(props, p.Key)
		}
		assert.Equal(t, []string{"id", "name", "tag"}, props)
	})

	t.Run("Accessors", func(t *testing.T) {
		pet := doc.Root.At("components", "schemas", "Pet")
		assert.Equal(t, []string{"id", "name"}, pet.Get("required").Strings())
		assert.Equal(t, "integer", pet.At("properties", "id", "type").Str())
		assert.Equal(t, "#/components/schemas/Pet", pet.Pointer())
		assert.Equal(t, 10, pet.At("properties", "id", "type").Line())
		assert.Nil(t, pet.Get("missing"))
		assert.Equal(t, load.Null, pet.At("missing", "deeper").Kind())
		assert.Equal(t, "", pet.At("missing").Str())
		assert.Equal(t, "#/paths/~1pets~1{id}/get", doc.Root.At("paths", "/pets/{id}", "get").Pointer())
	})

	t.Run("Resolve", func(t *testing.T) {
		n, ok := doc.Resolve("#/components/schemas/Pet")
		require.True(t, ok)
		assert.Equal(t, "object", n.Get("type").Str())

		n, ok = doc.Resolve("#/paths/~1pets~1{id}/get/operationId")
		require.True(t, ok)
		assert.Equal(t, "getPetById", n.Str())

		_, ok = doc.Resolve("#/components/schemas/Missing")
		assert.False(t, ok)
		_, ok = doc.Resolve("other.yaml#/components/schemas/Pet")
		assert.False(t, ok)
		_, ok = doc.Resolve("#/components/schemas/Pet/required/5")
		assert.False(t, ok)
		n, ok = doc.Resolve("#/components/schemas/Pet/required/1")
		require.True(t, ok)
		assert.Equal(t, "name", n.Str())
	})
}

func TestLoad_Errors(t *testing.T) {
	t.Run("Missing", func(t *testing.T) {
		_, err := load.Load(afero.NewMemMapFs(), "nope.yaml")
		require.Error(t, err)
		assert.True(t, specgen.IsInputError(err))
		assert.Contains(t, err.Error(), "nope.yaml")
	})

	t.Run("Malformed", func(t *testing.T) {
		fs := afero.NewMemMapFs()
		require.NoError(t, afero.WriteFile(fs, "bad.yaml", []byte("a: [1, 2\nb: c"), 0o644))
		_, err := load.Load(fs, "bad.yaml")
		require.Error(t, err)
		assert.True(t, specgen.IsFormatError(err))
		assert.Contains(t, err.Error(), "failed to parse bad.yaml")
	})
}

func TestParse(t *testing.T) {
	t.Run("JSON", func(t *testing.T) {
		doc, err := load.Parse("api.json", []byte(`{"paths": {"/b": {}, "/a": {}}, "flag": true}`))
		require.NoError(t, err)
		pairs := doc.Root.Get("paths").Pairs()
		require.Len(t, pairs, 2)
		assert.Equal(t, "/b", pairs[0].Key)
		assert.Equal(t, "/a", pairs[1].Key)
		assert.True(t, doc.Root.Get("flag").Bool())
	})

	t.Run("Empty", func(t *testing.T) {
		doc, err := load.Parse("", nil)
		require.NoError(t, err)
		assert.Equal(t, load.Null, doc.Root.Kind())
		assert.False(t, doc.Root.IsMap())
	})

	t.Run("Scalar", func(t *testing.T) {
		doc, err := load.Parse("", []byte("just text"))
		require.NoError(t, err)
		assert.Equal(t, load.Scalar, doc.Root.Kind())
	})

	t.Run("Aliases", func(t *testing.T) {
		doc, err := load.Parse("", []byte("base: &b {type: string}\nuse: *b\n"))
		require.NoError(t, err)
		assert.Equal(t, "string", doc.Root.At("use", "type").Str())
	})
}
