package gen

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/syssam/specgen"
	"github.com/syssam/specgen/compiler/load"
	"github.com/syssam/specgen/schema/field"
)

const petstore = `
openapi: 3.0.0
info:
  title: Petstore
  version: 1.0.0
paths:
  /pets:
    get:
      operationId: searchPets
      parameters:
        - name: tag
          in: query
          schema: {type: string}
        - $ref: '#/components/parameters/Limit'
      responses:
        '200':
          description: ok
          content:
            application/json:
              schema:
                type: array
                items: {$ref: '#/components/schemas/Pet'}
    post:
      operationId: createPet
      requestBody:
        content:
          application/json:
            schema: {$ref: '#/components/schemas/Pet'}
      responses:
        '201':
          content:
            application/json:
              schema: {$ref: '#/components/schemas/Pet'}
  /pets/{id}:
    summary: a single pet
    parameters:
      - name: id
        in: path
        schema: {type: integer}
      - name: verbose
        in: query
        schema: {type: boolean}
    get:
      parameters:
        - name: verbose
          in: query
          required: true
          schema: {type: string}
      responses:
        default:
          content:
            application/json:
              schema: {$ref: '#/components/schemas/Error'}
        '204':
          description: nothing
        '200':
          content:
            application/json; charset=utf-8:
              schema: {$ref: '#/components/schemas/Pet'}
    put:
      requestBody:
        $ref: '#/components/requestBodies/PetBody'
      responses:
        '200':
          $ref: '#/components/responses/Inline'
    delete:
      parameters:
        - $ref: '#/components/parameters/Missing'
      responses:
        '204':
          description: deleted
    head:
      responses: {}
components:
  schemas:
    Pet:
      type: object
      required: [id, name]
      properties:
        id: {type: integer}
        name: {type: string}
        tag: {type: string}
        born: {type: string, format: date-time}
        photos: {type: array, items: {type: string}}
        owner: {$ref: '#/components/schemas/Owner'}
        meta:
          type: object
          properties:
            score: {type: number}
    Owner:
      properties:
        name: {type: [string, 'null']}
        matrix:
          type: array
          items:
            type: array
            items: {type: float}
    Empty:
      type: object
    Error:
      properties:
        message: {type: string}
  parameters:
    Limit:
      $ref: '#/components/parameters/LimitImpl'
    LimitImpl:
      name: limit
      in: query
      schema: {type: integer}
  requestBodies:
    PetBody:
      content:
        application/json:
          schema: {$ref: '#/components/schemas/Pet'}
  responses:
    Inline:
      content:
        application/json:
          schema:
            type: object
            properties:
              ok: {type: boolean}
`

func mustParse(t *testing.T, src string, opts ...Option) *Spec {
	t.Helper()
	doc, err := load.Parse("openapi.yaml", []byte(src))
	require.NoError(t, err)
	spec, err := Parse(doc, opts...)
	require.NoError(t, err)
	return spec
}

func parseErr(t *testing.T, src string, opts ...Option) error {
	t.Helper()
	doc, err := load.Parse("openapi.yaml", []byte(src))
	require.NoError(t, err)
	spec, err := Parse(doc, opts...)
	require.Error(t, err)
	assert.Nil(t, spec)
	return err
}

func fn(t *testing.T, s *Spec, name string) *Function {
	t.Helper()
	for _, f := range s.Functions {
		if f.Name == name {
			return f
		}
	}
	require.FailNow(t, "function not found", name)
	return nil
}

func TestParseTables(t *testing.T) {
	spec := mustParse(t, petstore)

	var names []string
	for _, tb := range spec.Tables {
		names = append(names, tb.Name)
	}
	assert.Equal(t, []string{"Pet", "Owner", "Empty", "Error"}, names)

	pet, ok := spec.Table("Pet")
	require.True(t, ok)
	tests := []struct {
		name     string
		typ      string
		nullable bool
		pk       bool
	}{
		{"id", "integer", false, true},
		{"name", "string", false, false},
		{"tag", "string", true, false},
		{"born", "date-time", true, false},
		{"photos", "string[]", true, false},
		{"owner", "Owner", true, false},
		{"meta", "{score: number}", true, false},
	}
	require.Len(t, pet.Columns, len(tests))
	for i, tt := range tests {
		c := pet.Columns[i]
		assert.Equal(t, tt.name, c.Name)
		assert.Equal(t, tt.typ, c.Type.String(), c.Name)
		assert.Equal(t, tt.nullable, c.Nullable, c.Name)
		assert.Equal(t, tt.pk, c.PrimaryKey, c.Name)
	}
	require.Len(t, pet.PrimaryKey(), 1)
	assert.Equal(t, "id", pet.PrimaryKey()[0].Name)

	owner, _ := spec.Table("Owner")
	require.Len(t, owner.Columns, 2)
	assert.Equal(t, field.KindString, owner.Columns[0].Type.Kind)
	assert.Equal(t, "number[][]", owner.Columns[1].Type.String())
	assert.Equal(t, 2, owner.Columns[1].Type.Depth())
	assert.Empty(t, owner.PrimaryKey())

	empty, _ := spec.Table("Empty")
	assert.NotNil(t, empty.Columns)
	assert.Empty(t, empty.Columns)
}

func TestParseFunctions(t *testing.T) {
	spec := mustParse(t, petstore)

	var names []string
	for _, f := range spec.Functions {
		names = append(names, f.Name)
	}
	assert.Equal(t, []string{"searchPets", "createPet", "getPetsId", "putPetsId", "deletePetsId", "headPetsId"}, names)

	t.Run("Search", func(t *testing.T) {
		f := fn(t, spec, "searchPets")
		assert.Equal(t, MethodGet, f.Method)
		assert.Equal(t, "/pets", f.Path)
		require.Len(t, f.Parameters, 2)
		assert.Equal(t, &Parameter{Name: "tag", In: InQuery, Type: field.Primitive(field.KindString)}, f.Parameters[0])
		assert.Equal(t, &Parameter{Name: "limit", In: InQuery, Type: field.Primitive(field.KindInteger)}, f.Parameters[1])
		assert.True(t, f.RequestBody.IsZero())
		assert.Equal(t, TypeRef("Pet[]"), f.ResponseBody)
	})

	t.Run("Create", func(t *testing.T) {
		f := fn(t, spec, "createPet")
		assert.Equal(t, MethodPost, f.Method)
		assert.Empty(t, f.Parameters)
		assert.Equal(t, TypeRef("Pet"), f.RequestBody)
		assert.Equal(t, TypeRef("Pet"), f.ResponseBody)
	})

	t.Run("OperationOverridesPathLevel", func(t *testing.T) {
		f := fn(t, spec, "getPetsId")
		require.Len(t, f.Parameters, 2)
		id, verbose := f.Parameters[0], f.Parameters[1]
		assert.Equal(t, "id", id.Name)
		assert.True(t, id.Required, "path parameters are always required")
		assert.Equal(t, "verbose", verbose.Name)
		assert.True(t, verbose.Required)
		assert.Equal(t, field.KindString, verbose.Type.Kind)
		assert.Equal(t, TypeRef("Pet"), f.ResponseBody, "2xx codes are scanned in ascending order")
	})

	t.Run("SharedParametersAreNotMutated", func(t *testing.T) {
		f := fn(t, spec, "putPetsId")
		require.Len(t, f.Parameters, 2)
		assert.Equal(t, field.KindBoolean, f.Parameters[1].Type.Kind)
		assert.False(t, f.Parameters[1].Required)
		assert.Equal(t, TypeRef("Pet"), f.RequestBody, "request body references are followed")
		assert.Equal(t, InlineType, f.ResponseBody, "response references are followed")
	})

	t.Run("BrokenReferenceIsDropped", func(t *testing.T) {
		f := fn(t, spec, "deletePetsId")
		require.Len(t, f.Parameters, 2)
		assert.Equal(t, []*Parameter{f.Parameters[0]}, f.ParamsIn(InPath))
		assert.True(t, f.ResponseBody.IsZero())
	})

	t.Run("UnsupportedVerbIsKept", func(t *testing.T) {
		f := fn(t, spec, "headPetsId")
		assert.Equal(t, MethodHead, f.Method)
	})
}

func TestParseIdempotent(t *testing.T) {
	assert.Equal(t, mustParse(t, petstore), mustParse(t, petstore))
}

func TestParseResponses(t *testing.T) {
	spec := mustParse(t, `
paths:
  /a:
    get:
      responses:
        '201':
          content:
            application/json:
              schema: {$ref: '#/components/schemas/B'}
        '200':
          content:
            text/plain:
              schema: {type: string}
        '300':
          content:
            application/json:
              schema: {$ref: '#/components/schemas/C'}
  /b:
    get:
      responses:
        '200':
          content:
            application/json:
              schema:
                type: array
                items: {type: object}
  /c:
    get:
      responses:
        '302':
          content:
            application/json:
              schema: {$ref: '#/components/schemas/C'}
`)
	require.Len(t, spec.Functions, 3)
	assert.Equal(t, TypeRef("B"), spec.Functions[0].ResponseBody, "first usable 2xx wins")
	assert.Equal(t, InlineType, spec.Functions[1].ResponseBody)
	assert.True(t, spec.Functions[2].ResponseBody.IsZero())
}

func TestParseParameterWithoutSchema(t *testing.T) {
	spec := mustParse(t, `
paths:
  /items/{key}:
    get:
      parameters:
        - name: key
          in: path
        - name: X-Trace
          in: header
        - name: nowhere
          in: body
        - in: query
`)
	f := spec.Functions[0]
	require.Len(t, f.Parameters, 2)
	assert.Equal(t, field.Primitive(field.KindString), f.Parameters[0].Type)
	assert.True(t, f.Parameters[0].Required)
	assert.Equal(t, InHeader, f.Parameters[1].In)
}

func TestParseOptions(t *testing.T) {
	t.Run("Methods", func(t *testing.T) {
		spec := mustParse(t, petstore, WithMethods(MethodGet))
		require.Len(t, spec.Functions, 2)
		for _, f := range spec.Functions {
			assert.Equal(t, MethodGet, f.Method)
		}
	})

	t.Run("ContentTypes", func(t *testing.T) {
		spec := mustParse(t, petstore, WithContentTypes("application/xml"))
		for _, f := range spec.Functions {
			assert.True(t, f.RequestBody.IsZero(), f.Name)
			assert.True(t, f.ResponseBody.IsZero(), f.Name)
		}
	})

	t.Run("PrimaryKeyPolicy", func(t *testing.T) {
		spec := mustParse(t, petstore, WithPrimaryKeyPolicy(func(table, column string) bool {
			return table == "Owner" && column == "name"
		}))
		pet, _ := spec.Table("Pet")
		assert.Empty(t, pet.PrimaryKey())
		owner, _ := spec.Table("Owner")
		require.Len(t, owner.PrimaryKey(), 1)
		assert.Equal(t, "name", owner.PrimaryKey()[0].Name)
	})

	t.Run("InvalidOption", func(t *testing.T) {
		err := parseErr(t, petstore, WithMethods())
		assert.True(t, IsConfigError(err))
	})
}

func TestParsePathItemReference(t *testing.T) {
	spec := mustParse(t, `
paths:
  /pets:
    get:
      responses: {}
  /animals:
    $ref: '#/paths/~1pets'
`)
	require.Len(t, spec.Functions, 2)
	assert.Equal(t, "getPets", spec.Functions[0].Name)
	assert.Equal(t, "getAnimals", spec.Functions[1].Name)
	assert.Equal(t, "/animals", spec.Functions[1].Path)
}

func TestParseErrors(t *testing.T) {
	t.Run("NonObjectRoot", func(t *testing.T) {
		err := parseErr(t, "- a\n- b\n")
		assert.True(t, specgen.IsSchemaError(err))
		assert.Contains(t, err.Error(), "document root must be an object")
	})

	t.Run("EmptyDocument", func(t *testing.T) {
		err := parseErr(t, "")
		assert.True(t, specgen.IsSchemaError(err))
	})

	t.Run("NilDocument", func(t *testing.T) {
		_, err := ParseConfig(nil, DefaultConfig())
		assert.True(t, specgen.IsSchemaError(err))
	})

	t.Run("ReferenceCycle", func(t *testing.T) {
		err := parseErr(t, `
paths:
  /a:
    get:
      parameters:
        - $ref: '#/components/parameters/A'
components:
  parameters:
    A: {$ref: '#/components/parameters/B'}
    B: {$ref: '#/components/parameters/A'}
`)
		assert.True(t, specgen.IsSchemaError(err))
		assert.Contains(t, err.Error(), "reference cycle: #/components/parameters/A -> #/components/parameters/B -> #/components/parameters/A")
	})

	t.Run("SelfReference", func(t *testing.T) {
		err := parseErr(t, `
paths:
  /a:
    post:
      requestBody:
        $ref: '#/components/requestBodies/Self'
components:
  requestBodies:
    Self: {$ref: '#/components/requestBodies/Self'}
`)
		assert.True(t, specgen.IsSchemaError(err))
	})

	t.Run("DuplicateFunctionName", func(t *testing.T) {
		err := parseErr(t, `
paths:
  /a:
    get:
      operationId: list
  /b:
    get:
      operationId: list
`)
		assert.True(t, specgen.IsSchemaError(err))
		assert.Contains(t, err.Error(), `function name "list" is generated by both GET /a and GET /b`)
	})

	t.Run("DuplicateSanitizedFunctionName", func(t *testing.T) {
		err := parseErr(t, `
paths:
  /a:
    get:
      operationId: list-pets
    post:
      operationId: listpets
`)
		assert.True(t, specgen.IsSchemaError(err))
	})

	t.Run("DuplicateHookName", func(t *testing.T) {
		err := parseErr(t, `
paths:
  /pets/{id}:
    get:
      operationId: getPet
  /pet:
    get:
      operationId: GetPet
`)
		assert.True(t, specgen.IsSchemaError(err))
		assert.Contains(t, err.Error(), `hook name "useGetPet" is generated by both GET /pets/{id} and GET /pet`)
	})

	t.Run("DuplicateTableName", func(t *testing.T) {
		err := parseErr(t, `
components:
  schemas:
    Pet: {}
    Pet-: {}
`)
		assert.True(t, specgen.IsSchemaError(err))
		assert.Contains(t, err.Error(), `tables "Pet" and "Pet-" both map to identifier "Pet"`)
	})
}
