// Package gotype renders Go model structs mirroring the tables of a Spec.
//
// Each table becomes one exported struct with a JSON-tagged field per
// column. Nullable columns are pointers, except for slices and maps, and
// carry the omitempty option. References to other tables use the
// referenced struct; references to unknown schemas stay raw JSON.
package gotype

import (
	"bytes"
	"fmt"
	"path"
	"strconv"

	"github.com/dave/jennifer/jen"

	"github.com/syssam/specgen/compiler/gen"
	"github.com/syssam/specgen/schema/field"
)

// Backend renders the models file of a Spec.
type Backend struct {
	pkg    string
	header string
	mapper *field.Mapper
}

var _ gen.Backend = (*Backend)(nil)

// NewBackend returns a Go models back-end for the given configuration.
// A nil config selects the defaults.
func NewBackend(c *gen.Config) *Backend {
	if c == nil {
		c = gen.DefaultConfig()
	}
	return &Backend{pkg: c.Package, header: c.Header, mapper: c.Mapper()}
}

// Name implements gen.Backend.
func (b *Backend) Name() string { return gen.FeatureGoModels.Name }

// ModelsPath returns the artifact path of the models file of a package.
func ModelsPath(pkg string) string {
	return path.Join(gen.FeatureGoModels.Dir, pkg, "models.go")
}

// Generate implements gen.Backend.
func (b *Backend) Generate(s *gen.Spec) ([]gen.Artifact, error) {
	out, err := b.Render(s)
	if err != nil {
		return nil, err
	}
	return []gen.Artifact{{Path: ModelsPath(b.pkg), Content: out}}, nil
}

// Render returns the formatted source of the models file.
func (b *Backend) Render(s *gen.Spec) ([]byte, error) {
	f := jen.NewFile(b.pkg)
	if b.header != "" {
		f.HeaderComment(b.header)
	}
	structs := make(map[string]string, len(s.Tables))
	for _, t := range s.Tables {
		name := StructName(t)
		for other, prev := range structs {
			if prev == name {
				return nil, fmt.Errorf("tables %q and %q both map to struct %s", other, t.Name, name)
			}
		}
		structs[t.Name] = name
	}
	for _, t := range s.Tables {
		name := structs[t.Name]
		f.Commentf("%s mirrors the %s table.", name, t.Ident())
		f.Type().Id(name).StructFunc(func(g *jen.Group) {
			seen := make(map[string]int, len(t.Columns))
			for _, c := range t.Columns {
				fname := FieldName(c.Name)
				if n := seen[fname]; n > 0 {
					seen[fname]++
					fname += strconv.Itoa(n + 1)
				} else {
					seen[fname] = 1
				}
				tag := c.Name
				if c.Nullable {
					tag += ",omitempty"
				}
				g.Id(fname).Add(b.fieldType(c, structs)).Tag(map[string]string{"json": tag})
			}
		})
	}
	var buf bytes.Buffer
	if err := f.Render(&buf); err != nil {
		return nil, fmt.Errorf("render %s: %w", ModelsPath(b.pkg), err)
	}
	return buf.Bytes(), nil
}

// StructName returns the exported struct name of a table.
func StructName(t *gen.Table) string {
	return gen.Pascal(t.Ident())
}

// FieldName returns the exported struct field name of a column.
func FieldName(column string) string {
	return gen.Pascal(column)
}

func (b *Backend) fieldType(c *gen.Column, structs map[string]string) jen.Code {
	t := b.goType(c.Type, structs)
	if !c.Nullable || c.Type == nil {
		return t
	}
	switch {
	case c.Type.IsArray(), c.Type.Form == field.FormObject:
		return t
	case c.Type.IsRef():
		if _, ok := structs[c.Type.Ref]; !ok || !b.mapper.IsEntity(c.Type.Ref) {
			return t
		}
	case c.Type.Kind == field.KindUnknown:
		return t
	}
	return jen.Op("*").Add(t)
}

func (b *Backend) goType(t *field.Type, structs map[string]string) *jen.Statement {
	if t == nil {
		return jen.Any()
	}
	switch t.Form {
	case field.FormArray:
		return jen.Index().Add(b.goType(t.Elem, structs))
	case field.FormObject:
		return jen.Map(jen.String()).Any()
	case field.FormRef:
		if name, ok := structs[t.Ref]; ok && b.mapper.IsEntity(t.Ref) {
			return jen.Id(name)
		}
		return jen.Qual("encoding/json", "RawMessage")
	}
	switch t.Kind {
	case field.KindInteger:
		return jen.Int64()
	case field.KindNumber:
		return jen.Float64()
	case field.KindBoolean:
		return jen.Bool()
	case field.KindString:
		return jen.String()
	case field.KindDateTime:
		return jen.Qual("time", "Time")
	}
	return jen.Any()
}
