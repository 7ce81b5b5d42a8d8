package gen

import (
	"strings"

	"github.com/syssam/specgen/schema/field"
)

// Spec is the intermediate representation produced by Parse. It is
// read-only once returned; back-ends must not mutate it.
type Spec struct {
	Tables    []*Table    `json:"tables"`
	Functions []*Function `json:"functions"`
}

// Table returns the table with the given name.
func (s *Spec) Table(name string) (*Table, bool) {
	for _, t := range s.Tables {
		if t.Name == name {
			return t, true
		}
	}
	return nil, false
}

// Table is a relational entity derived from a named schema.
type Table struct {
	Name    string    `json:"name"`
	Columns []*Column `json:"columns"`
}

// PrimaryKey returns the primary key columns in declaration order.
func (t *Table) PrimaryKey() []*Column {
	var pk []*Column
	for _, c := range t.Columns {
		if c.PrimaryKey {
			pk = append(pk, c)
		}
	}
	return pk
}

// Ident returns the sanitized table name.
func (t *Table) Ident() string {
	return field.Sanitize(t.Name, "table")
}

// Column is a typed table field.
type Column struct {
	Name       string      `json:"name"`
	Type       *field.Type `json:"type"`
	Nullable   bool        `json:"nullable"`
	PrimaryKey bool        `json:"primary_key,omitempty"`
}

// Method is an HTTP verb.
type Method string

// Recognized HTTP verbs.
const (
	MethodGet     Method = "GET"
	MethodPost    Method = "POST"
	MethodPut     Method = "PUT"
	MethodPatch   Method = "PATCH"
	MethodDelete  Method = "DELETE"
	MethodHead    Method = "HEAD"
	MethodOptions Method = "OPTIONS"
	MethodTrace   Method = "TRACE"
)

// Methods lists every recognized verb.
var Methods = []Method{
	MethodGet, MethodPost, MethodPut, MethodPatch,
	MethodDelete, MethodHead, MethodOptions, MethodTrace,
}

// ParseMethod returns the Method for a case-insensitive verb name.
func ParseMethod(s string) (Method, bool) {
	m := Method(strings.ToUpper(s))
	for _, v := range Methods {
		if v == m {
			return m, true
		}
	}
	return "", false
}

// IsRead reports whether m compiles to a cached read rather than a mutation.
func (m Method) IsRead() bool { return m == MethodGet }

// Location is where a parameter is carried in a request.
type Location string

// Parameter locations.
const (
	InPath   Location = "path"
	InQuery  Location = "query"
	InHeader Location = "header"
	InCookie Location = "cookie"
)

func (l Location) valid() bool {
	switch l {
	case InPath, InQuery, InHeader, InCookie:
		return true
	}
	return false
}

// Parameter is an operation input.
type Parameter struct {
	Name     string      `json:"name"`
	In       Location    `json:"in"`
	Required bool        `json:"required"`
	Type     *field.Type `json:"type"`
}

// TypeRef names a request or response body type. It is either a table name,
// optionally followed by "[]", or InlineType.
type TypeRef string

// InlineType is the descriptor of a body schema declared inline. It sanitizes
// to an empty identifier, so consumers always fall back to their own name.
const InlineType TypeRef = "{}"

// IsZero reports whether no body type is declared.
func (r TypeRef) IsZero() bool { return r == "" }

// IsInline reports whether the body schema was declared inline.
func (r TypeRef) IsInline() bool { return r.Elem() == InlineType }

// Elem strips every trailing "[]" from r.
func (r TypeRef) Elem() TypeRef {
	s := string(r)
	for strings.HasSuffix(s, "[]") {
		s = strings.TrimSuffix(s, "[]")
	}
	return TypeRef(s)
}

// IsArray reports whether the reference denotes a list.
func (r TypeRef) IsArray() bool { return strings.HasSuffix(string(r), "[]") }

// Ident returns the sanitized identifier of the referenced type, or the
// sanitized fallback for inline and missing types.
func (r TypeRef) Ident(fallback string) string {
	return field.Sanitize(string(r), fallback)
}

// Function is an operation derived from one verb on one path.
type Function struct {
	Name         string       `json:"name"`
	Method       Method       `json:"method"`
	Path         string       `json:"path"`
	Parameters   []*Parameter `json:"parameters,omitempty"`
	RequestBody  TypeRef      `json:"request_body,omitempty"`
	ResponseBody TypeRef      `json:"response_body,omitempty"`
}

// ParamsIn returns the parameters at the given location in IR order.
func (f *Function) ParamsIn(in Location) []*Parameter {
	var ps []*Parameter
	for _, p := range f.Parameters {
		if p.In == in {
			ps = append(ps, p)
		}
	}
	return ps
}

// Ident returns the sanitized function name.
func (f *Function) Ident() string {
	return field.Sanitize(f.Name, "fn")
}
