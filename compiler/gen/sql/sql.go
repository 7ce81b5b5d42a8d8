package sql

import (
	"fmt"
	"path"
	"strconv"

	"github.com/syssam/specgen/compiler/gen"
	"github.com/syssam/specgen/internal/debug"
	"github.com/syssam/specgen/schema/field"
)

// Backend renders the table DDL and the stored function stubs of a Spec.
type Backend struct {
	mapper *field.Mapper
}

var (
	_ gen.Backend          = (*Backend)(nil)
	_ gen.TableRenderer    = (*Backend)(nil)
	_ gen.FunctionRenderer = (*Backend)(nil)
)

// NewBackend returns a SQL back-end using the given type mapper. A nil
// mapper selects the default entity policy.
func NewBackend(m *field.Mapper) *Backend {
	if m == nil {
		m = field.NewMapper(nil)
	}
	return &Backend{mapper: m}
}

// Name implements gen.Backend.
func (b *Backend) Name() string { return gen.FeatureSQL.Name }

// Generate implements gen.Backend. Table files come first, in table order,
// followed by function files in function order.
func (b *Backend) Generate(s *gen.Spec) ([]gen.Artifact, error) {
	arts := make([]gen.Artifact, 0, len(s.Tables)+len(s.Functions))
	for _, t := range s.Tables {
		arts = append(arts, gen.Artifact{
			Path:    TablePath(t),
			Content: []byte(b.RenderTable(t) + "\n"),
		})
	}
	for _, f := range s.Functions {
		arts = append(arts, gen.Artifact{
			Path:    FunctionPath(f),
			Content: []byte(b.RenderFunction(f) + "\n"),
		})
	}
	return arts, nil
}

// TablePath returns the artifact path of a table's DDL file.
func TablePath(t *gen.Table) string {
	return path.Join(gen.FeatureSQL.Dir, t.Ident()+"_table.sql")
}

// FunctionPath returns the artifact path of a function's DDL file.
func FunctionPath(f *gen.Function) string {
	return path.Join(gen.FeatureSQL.Dir, f.Ident()+"_function.sql")
}

// Statements returns the DDL of the Spec as executable statements: every
// table, then every supported function. Unsupported verbs are skipped.
func (b *Backend) Statements(s *gen.Spec) (tables, functions []string) {
	for _, t := range s.Tables {
		tables = append(tables, b.RenderTable(t))
	}
	for _, f := range s.Functions {
		if n := b.Function(f); n != nil {
			functions = append(functions, Print(n))
		}
	}
	return tables, functions
}

// RenderTable implements gen.TableRenderer.
func (b *Backend) RenderTable(t *gen.Table) string {
	return Print(b.Table(t))
}

// Table builds the CREATE TABLE statement of t.
func (b *Backend) Table(t *gen.Table) *CreateTable {
	ct := &CreateTable{Name: NewIdent(t.Name, "table")}
	for _, c := range t.Columns {
		name := NewIdent(c.Name, "column")
		ct.Columns = append(ct.Columns, ColumnDef{
			Name:    name,
			Type:    b.mapper.SQLType(c.Type),
			NotNull: !c.Nullable,
		})
		if c.PrimaryKey {
			ct.PrimaryKey = append(ct.PrimaryKey, name)
		}
	}
	return ct
}

// RenderFunction implements gen.FunctionRenderer. Verbs without a body
// strategy render as a single explanatory comment.
func (b *Backend) RenderFunction(f *gen.Function) string {
	if n := b.Function(f); n != nil {
		return Print(n)
	}
	debug.Warn("unsupported method", "function", f.Name, "method", f.Method)
	return Print(Comment(fmt.Sprintf("%s %s is not supported; no function generated for %s", f.Method, f.Path, f.Ident())))
}

// Function builds the CREATE FUNCTION statement of f, or returns nil for
// verbs without a body strategy.
func (b *Backend) Function(f *gen.Function) *CreateFunction {
	var body []Node
	table := b.table(f)
	args := argNames(f)
	switch f.Method {
	case gen.MethodGet:
		for _, p := range f.ParamsIn(gen.InQuery) {
			body = append(body, Comment(fmt.Sprintf("query parameter %s (%s) is not applied as a filter", p.Name, b.mapper.SQLType(p.Type))))
		}
		body = append(body, &Select{Table: table, Where: pathFilter(f, args)})
	case gen.MethodPost:
		body = append(body,
			Comment(fmt.Sprintf("placeholder: map the fields of %s to columns of %s; no column list is generated", bodyName(f.RequestBody), table)),
			&Insert{Table: table, Returning: !f.ResponseBody.IsZero()},
		)
	case gen.MethodPut, gen.MethodPatch:
		body = append(body, Comment(fmt.Sprintf("placeholder: no SET clause is generated; assign columns of %s from %s", table, bodyName(f.RequestBody))))
		if where := pathFilter(f, args); len(where) > 0 {
			body = append(body, &Filter{Where: where})
		} else {
			debug.Warn("update without path parameter", "function", f.Name, "path", f.Path)
			body = append(body, Comment(fmt.Sprintf("warning: %s %s declares no path parameter; no row filter is generated", f.Method, f.Path)))
		}
	case gen.MethodDelete:
		body = append(body, &Delete{Table: table, Where: pathFilter(f, args), Returning: !f.ResponseBody.IsZero()})
	default:
		return nil
	}
	cf := &CreateFunction{
		Name:    NewIdent(f.Name, "fn"),
		Returns: b.returns(f.ResponseBody, f),
		Body:    body,
	}
	for _, p := range f.Parameters {
		cf.Params = append(cf.Params, ParamDef{Name: args[p], Type: b.mapper.SQLType(p.Type)})
	}
	return cf
}

// table returns the table a function operates on: the response type for
// reads, the request type otherwise, and the function name as a fallback.
func (b *Backend) table(f *gen.Function) Ident {
	ref := f.RequestBody
	if f.Method.IsRead() {
		ref = f.ResponseBody
	}
	return Ident(ref.Ident(f.Ident()))
}

func (b *Backend) returns(r gen.TypeRef, f *gen.Function) string {
	switch {
	case r.IsZero():
		return "VOID"
	case r.IsInline():
		return field.SQLJSON
	case r.IsArray():
		return "SETOF " + r.Ident(f.Ident())
	default:
		return r.Ident(f.Ident())
	}
}

// argNames assigns every parameter of f a distinct argument name. A name
// that sanitizes like an earlier one gets a numeric suffix.
func argNames(f *gen.Function) map[*gen.Parameter]Ident {
	names := make(map[*gen.Parameter]Ident, len(f.Parameters))
	seen := make(map[Ident]bool, len(f.Parameters))
	for _, p := range f.Parameters {
		base := NewIdent(p.Name, "param")
		name := base
		for n := 2; seen[name]; n++ {
			name = base + Ident(strconv.Itoa(n))
		}
		seen[name] = true
		names[p] = name
	}
	return names
}

// pathFilter returns one equality per path parameter, in IR order.
func pathFilter(f *gen.Function, args map[*gen.Parameter]Ident) []Eq {
	var eqs []Eq
	for _, p := range f.ParamsIn(gen.InPath) {
		eqs = append(eqs, Eq{Column: NewIdent(p.Name, "param"), Param: args[p]})
	}
	return eqs
}

// bodyName describes a request body in placeholder comments.
func bodyName(r gen.TypeRef) string {
	switch {
	case r.IsZero():
		return "the parameters (no request body is declared)"
	case r.IsInline():
		return "the inline request body"
	default:
		return string(r)
	}
}
