package gen

import (
	"cmp"
	"slices"
	"strconv"
	"strings"

	"github.com/syssam/specgen"
	"github.com/syssam/specgen/compiler/load"
	"github.com/syssam/specgen/internal/debug"
	"github.com/syssam/specgen/schema/field"
)

// maxTypeDepth bounds the nesting of inline schemas.
const maxTypeDepth = 64

// Parse builds the IR from a loaded document. It fails with a SchemaError
// when the root is not an object, a reference chain is cyclic or two
// tables or functions end up with the same name. No partial Spec is
// returned on error.
func Parse(doc *load.Document, opts ...Option) (*Spec, error) {
	cfg, err := NewConfig(opts...)
	if err != nil {
		return nil, err
	}
	return ParseConfig(doc, cfg)
}

// ParseConfig is like Parse with an explicit configuration.
func ParseConfig(doc *load.Document, cfg *Config) (*Spec, error) {
	if doc == nil || !doc.Root.IsMap() {
		return nil, specgen.NewSchemaError("#", "document root must be an object", nil)
	}
	p := &parser{doc: doc, cfg: cfg}
	spec := &Spec{Tables: p.tables()}
	fns, err := p.functions()
	if err != nil {
		return nil, err
	}
	spec.Functions = fns
	if err := validate(spec); err != nil {
		return nil, err
	}
	debug.Debug("spec parsed", "path", doc.Path, "tables", len(spec.Tables), "functions", len(spec.Functions))
	return spec, nil
}

type parser struct {
	doc *load.Document
	cfg *Config
}

// tables converts every named schema into a table.
func (p *parser) tables() []*Table {
	schemas := p.doc.Root.At("components", "schemas")
	var tables []*Table
	for _, s := range schemas.Pairs() {
		t := &Table{Name: s.Key, Columns: []*Column{}}
		required := names(s.Value.Get("required").Strings()...)
		for _, prop := range s.Value.Get("properties").Pairs() {
			_, req := required[prop.Key]
			t.Columns = append(t.Columns, &Column{
				Name:       prop.Key,
				Type:       p.typeOf(prop.Value, 0),
				Nullable:   !req,
				PrimaryKey: p.cfg.PrimaryKeyPolicy(t.Name, prop.Key),
			})
		}
		debug.Debug("table parsed", "table", t.Name, "columns", len(t.Columns))
		tables = append(tables, t)
	}
	return tables
}

// typeOf converts a schema node into a type descriptor. Named references
// are kept as references and never followed.
func (p *parser) typeOf(s *load.Node, depth int) *field.Type {
	if s == nil || depth > maxTypeDepth {
		return field.Unknown()
	}
	if ref := s.Get("$ref").Str(); ref != "" {
		return field.RefTo(refName(ref))
	}
	switch schemaType(s) {
	case "array":
		if items := s.Get("items"); items != nil {
			return field.ArrayOf(p.typeOf(items, depth+1))
		}
		return field.ArrayOf(nil)
	case "object":
		required := names(s.Get("required").Strings()...)
		var fields []field.Field
		for _, prop := range s.Get("properties").Pairs() {
			_, req := required[prop.Key]
			fields = append(fields, field.Field{Name: prop.Key, Type: p.typeOf(prop.Value, depth+1), Required: req})
		}
		return field.ObjectOf(fields...)
	case "integer":
		return field.Primitive(field.KindInteger)
	case "number", "float":
		return field.Primitive(field.KindNumber)
	case "boolean":
		return field.Primitive(field.KindBoolean)
	case "string":
		if s.Get("format").Str() == "date-time" {
			return field.Primitive(field.KindDateTime)
		}
		return field.Primitive(field.KindString)
	}
	// A single-element allOf is a common way to attach metadata to a ref.
	if all := s.Get("allOf").Items(); len(all) == 1 {
		return p.typeOf(all[0], depth+1)
	}
	return field.Unknown()
}

// schemaType returns the declared type of a schema. Type lists use their
// first non-null entry; untyped schemas are inferred from items/properties.
func schemaType(s *load.Node) string {
	for _, t := range s.Get("type").Strings() {
		if t != "null" {
			return t
		}
	}
	switch {
	case s.Has("items"):
		return "array"
	case s.Has("properties"):
		return "object"
	}
	return ""
}

// functions converts every recognized verb of every path into a function.
func (p *parser) functions() ([]*Function, error) {
	var fns []*Function
	for _, item := range p.doc.Root.Get("paths").Pairs() {
		path := item.Key
		node, err := p.follow(item.Value)
		if err != nil {
			return nil, err
		}
		if !node.IsMap() {
			debug.Warn("skipping path item", "path", path, "reason", "not an object")
			continue
		}
		for _, op := range node.Pairs() {
			method, ok := ParseMethod(op.Key)
			if !ok || op.Key != strings.ToLower(op.Key) || !slices.Contains(p.cfg.Methods, method) {
				continue
			}
			if !op.Value.IsMap() {
				debug.Warn("skipping operation", "path", path, "method", method, "reason", "not an object")
				continue
			}
			fn, err := p.function(method, path, node.Get("parameters"), op.Value)
			if err != nil {
				return nil, err
			}
			debug.Debug("function parsed", "function", fn.Name, "method", fn.Method, "path", fn.Path)
			fns = append(fns, fn)
		}
	}
	return fns, nil
}

func (p *parser) function(method Method, path string, shared, op *load.Node) (*Function, error) {
	fn := &Function{
		Name:   op.Get("operationId").Str(),
		Method: method,
		Path:   path,
	}
	if fn.Name == "" {
		fn.Name = FunctionName(method, path)
	}
	params, err := p.parameters(shared, op.Get("parameters"))
	if err != nil {
		return nil, err
	}
	fn.Parameters = params
	if body := op.Get("requestBody"); body != nil {
		if fn.RequestBody, err = p.bodyType(body); err != nil {
			return nil, err
		}
	}
	if fn.ResponseBody, err = p.responseType(op.Get("responses")); err != nil {
		return nil, err
	}
	return fn, nil
}

// parameters merges path-level and operation-level parameters. Both lists
// are keyed by name; a later declaration replaces an earlier one in place,
// so operation-level parameters override shared ones without reordering.
func (p *parser) parameters(shared, own *load.Node) ([]*Parameter, error) {
	var (
		params []*Parameter
		index  = make(map[string]int)
	)
	for _, list := range []*load.Node{shared, own} {
		for _, n := range list.Items() {
			prm, err := p.parameter(n)
			if err != nil {
				return nil, err
			}
			if prm == nil {
				continue
			}
			if i, ok := index[prm.Name]; ok {
				params[i] = prm
				continue
			}
			index[prm.Name] = len(params)
			params = append(params, prm)
		}
	}
	return params, nil
}

// parameter resolves a single parameter declaration. A broken reference
// chain or an incomplete declaration yields a nil parameter.
func (p *parser) parameter(n *load.Node) (*Parameter, error) {
	r, err := p.follow(n)
	if err != nil {
		return nil, err
	}
	if r == nil {
		return nil, nil
	}
	prm := &Parameter{
		Name:     r.Get("name").Str(),
		In:       Location(r.Get("in").Str()),
		Required: r.Get("required").Bool(),
	}
	if prm.Name == "" || !prm.In.valid() {
		debug.Warn("dropping parameter", "pointer", r.Pointer(), "name", prm.Name, "in", prm.In)
		return nil, nil
	}
	if prm.In == InPath {
		prm.Required = true
	}
	if s := r.Get("schema"); s != nil {
		prm.Type = p.typeOf(s, 0)
	} else {
		prm.Type = field.Primitive(field.KindString)
	}
	return prm, nil
}

// follow resolves a chain of $ref nodes until a node without $ref is
// reached. It returns nil without error when the chain is broken, and a
// SchemaError when the chain revisits a reference.
func (p *parser) follow(n *load.Node) (*load.Node, error) {
	var chain []string
	for {
		ref := n.Get("$ref").Str()
		if ref == "" {
			return n, nil
		}
		if slices.Contains(chain, ref) {
			chain = append(chain, ref)
			return nil, specgen.NewSchemaError(ref, "reference cycle: "+strings.Join(chain, " -> "), nil)
		}
		chain = append(chain, ref)
		next, ok := p.doc.Resolve(ref)
		if !ok {
			debug.Warn("unresolved reference", "ref", ref, "from", n.Pointer())
			return nil, nil
		}
		n = next
	}
}

// bodyType extracts the type reference of a request body or response.
func (p *parser) bodyType(body *load.Node) (TypeRef, error) {
	body, err := p.follow(body)
	if err != nil || body == nil {
		return "", err
	}
	for _, ct := range p.cfg.ContentTypes {
		for _, media := range body.Get("content").Pairs() {
			if mediaType(media.Key) != ct {
				continue
			}
			if s := media.Value.Get("schema"); s != nil {
				return schemaRef(s), nil
			}
		}
	}
	return "", nil
}

// responseType scans the 2xx responses in ascending status order and
// returns the first usable body type.
func (p *parser) responseType(responses *load.Node) (TypeRef, error) {
	type status struct {
		code int
		node *load.Node
	}
	var codes []status
	for _, r := range responses.Pairs() {
		code, err := strconv.Atoi(r.Key)
		if err != nil || code < 200 || code > 299 {
			continue
		}
		codes = append(codes, status{code, r.Value})
	}
	slices.SortStableFunc(codes, func(a, b status) int { return cmp.Compare(a.code, b.code) })
	for _, s := range codes {
		ref, err := p.bodyType(s.node)
		if err != nil {
			return "", err
		}
		if !ref.IsZero() {
			return ref, nil
		}
	}
	return "", nil
}

// schemaRef returns the body type of a media schema: the name of a named
// reference, the name with "[]" for an array of named references, and the
// inline descriptor otherwise.
func schemaRef(s *load.Node) TypeRef {
	if ref := s.Get("$ref").Str(); ref != "" {
		return TypeRef(refName(ref))
	}
	if schemaType(s) == "array" {
		if ref := s.At("items", "$ref").Str(); ref != "" {
			return TypeRef(refName(ref) + "[]")
		}
	}
	return InlineType
}

// refName returns the last segment of a reference, e.g. "Pet" for
// "#/components/schemas/Pet".
func refName(ref string) string {
	if i := strings.LastIndexByte(ref, '/'); i >= 0 {
		ref = ref[i+1:]
	}
	return strings.NewReplacer("~1", "/", "~0", "~").Replace(ref)
}

// mediaType strips parameters from a media type, e.g. "; charset=utf-8".
func mediaType(s string) string {
	if i := strings.IndexByte(s, ';'); i >= 0 {
		s = s[:i]
	}
	return strings.ToLower(strings.TrimSpace(s))
}

// names returns a set of the given strings.
func names(ns ...string) map[string]struct{} {
	m := make(map[string]struct{}, len(ns))
	for _, n := range ns {
		m[n] = struct{}{}
	}
	return m
}
