package compiler

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/syssam/specgen"
	"github.com/syssam/specgen/compiler/gen"
)

const petstore = `
openapi: 3.0.0
paths:
  /pets:
    get:
      operationId: listPets
      parameters:
        - name: limit
          in: query
          schema:
            type: integer
      responses:
        '200':
          content:
            application/json:
              schema:
                type: array
                items:
                  $ref: '#/components/schemas/Pet'
    post:
      requestBody:
        content:
          application/json:
            schema:
              $ref: '#/components/schemas/Pet'
      responses:
        '201':
          content:
            application/json:
              schema:
                $ref: '#/components/schemas/Pet'
  /pets/{id}:
    delete:
      parameters:
        - name: id
          in: path
          schema:
            type: integer
      responses:
        '204':
          description: deleted
components:
  schemas:
    Pet:
      type: object
      required: [id, name]
      properties:
        id:
          type: integer
        name:
          type: string
        tag:
          type: string
`

var wantArtifacts = []string{
	"db/Pet_table.sql",
	"db/listPets_function.sql",
	"db/postPets_function.sql",
	"db/deletePetsId_function.sql",
	"frontend/src/types.ts",
	"frontend/src/hooks/useListPets.ts",
	"frontend/src/hooks/usePostPets.ts",
	"frontend/src/hooks/useDeletePetsId.ts",
	"frontend/src/hooks/index.ts",
}

func memFs(t *testing.T, content string) afero.Fs {
	t.Helper()
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "openapi.yaml", []byte(content), 0o644))
	return fs
}

func TestGenerate(t *testing.T) {
	fs := memFs(t, petstore)
	cfg := &Config{Input: "openapi.yaml", Output: "out", Fs: fs, Workers: 2}

	res, err := Generate(context.Background(), cfg)
	require.NoError(t, err)
	assert.Equal(t, wantArtifacts, res.Artifacts)
	assert.Equal(t, len(wantArtifacts), res.Metrics.FilesWritten)
	assert.Zero(t, res.Metrics.FilesFailed)
	require.Len(t, res.Spec.Tables, 1)
	require.Len(t, res.Spec.Functions, 3)

	table, err := afero.ReadFile(fs, filepath.Join("out", "db", "Pet_table.sql"))
	require.NoError(t, err)
	assert.Equal(t, `CREATE TABLE IF NOT EXISTS Pet (
  id INTEGER NOT NULL,
  name VARCHAR NOT NULL,
  tag VARCHAR, PRIMARY KEY (id)
);
`, string(table))

	index, err := afero.ReadFile(fs, filepath.Join("out", "frontend", "src", "hooks", "index.ts"))
	require.NoError(t, err)
	assert.Equal(t, "export * from './useListPets';\nexport * from './usePostPets';\nexport * from './useDeletePetsId';\n", string(index))

	t.Run("Idempotent", func(t *testing.T) {
		before := snapshot(t, fs, "out")
		_, err := Generate(context.Background(), cfg)
		require.NoError(t, err)
		assert.Equal(t, before, snapshot(t, fs, "out"))
	})
}

func snapshot(t *testing.T, fs afero.Fs, root string) map[string]string {
	t.Helper()
	files := make(map[string]string)
	require.NoError(t, afero.Walk(fs, root, func(path string, info os.FileInfo, err error) error {
		if err != nil || info.IsDir() {
			return err
		}
		data, err := afero.ReadFile(fs, path)
		files[path] = string(data)
		return err
	}))
	return files
}

func TestGenerateTargets(t *testing.T) {
	t.Run("Go models", func(t *testing.T) {
		fs := memFs(t, petstore)
		res, err := Generate(context.Background(), &Config{
			Input:     "openapi.yaml",
			Output:    "out",
			Fs:        fs,
			Targets:   []string{"go"},
			GoPackage: "petstore",
		})
		require.NoError(t, err)
		assert.Equal(t, []string{"go/petstore/models.go"}, res.Artifacts)
		data, err := afero.ReadFile(fs, filepath.Join("out", "go", "petstore", "models.go"))
		require.NoError(t, err)
		assert.Contains(t, string(data), "package petstore")
		assert.Contains(t, string(data), "type Pet struct")
	})

	t.Run("Unknown target", func(t *testing.T) {
		_, err := Generate(context.Background(), &Config{Input: "openapi.yaml", Fs: memFs(t, petstore), Targets: []string{"java"}})
		require.Error(t, err)
		assert.True(t, gen.IsConfigError(err))
	})
}

func TestGenerateErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		input   string
		check   func(error) bool
	}{
		{name: "Missing input", input: "missing.yaml", check: specgen.IsInputError},
		{name: "Malformed", content: "paths: [\n", check: specgen.IsFormatError},
		{name: "Not an object", content: "- a\n- b\n", check: specgen.IsSchemaError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fs := memFs(t, tt.content)
			input := tt.input
			if input == "" {
				input = "openapi.yaml"
			}
			res, err := Generate(context.Background(), &Config{Input: input, Output: "out", Fs: fs})
			require.Error(t, err)
			assert.True(t, tt.check(err), err.Error())
			assert.Nil(t, res)
			exists, _ := afero.DirExists(fs, "out")
			assert.False(t, exists, "nothing is written on load or parse failures")
		})
	}
}

func TestGenerateWriteErrors(t *testing.T) {
	fs := afero.NewReadOnlyFs(memFs(t, petstore))
	res, err := Generate(context.Background(), &Config{Input: "openapi.yaml", Output: "out", Fs: fs})
	require.Error(t, err)
	require.NotNil(t, res)
	assert.True(t, specgen.IsWriteError(err))
	assert.ElementsMatch(t, wantArtifacts, specgen.WritePaths(err))
	assert.Equal(t, len(wantArtifacts), res.Metrics.FilesFailed)
	assert.Equal(t, wantArtifacts, res.Artifacts)
}

func TestLoad(t *testing.T) {
	spec, gcfg, err := Load(&Config{Input: "openapi.yaml", Fs: memFs(t, petstore)})
	require.NoError(t, err)
	assert.Equal(t, "models", gcfg.Package)
	assert.Equal(t, []string{"listPets", "postPets", "deletePetsId"}, []string{
		spec.Functions[0].Name, spec.Functions[1].Name, spec.Functions[2].Name,
	})
	assert.Len(t, Backends(gcfg), 2)
}
