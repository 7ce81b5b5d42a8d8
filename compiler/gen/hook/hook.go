package hook

import (
	"path"
	"slices"
	"strings"

	"github.com/syssam/specgen/compiler/gen"
	"github.com/syssam/specgen/schema/field"
)

const (
	// queryPkg is the module providing useQuery and useMutation.
	queryPkg = "@tanstack/react-query"
	// typesModule is the import path of the types module, relative to a hook.
	typesModule = "../types"
	// paramsVar is the name of the parameter bundle argument.
	paramsVar = "params"
	// bodyProp is the bundle property holding the request body.
	bodyProp = "body"
)

// Backend renders the client hooks, the types module and the hooks index
// of a Spec.
type Backend struct {
	mapper *field.Mapper
}

var _ gen.Backend = (*Backend)(nil)

// NewBackend returns a hook back-end using the given type mapper. A nil
// mapper selects the default entity policy.
func NewBackend(m *field.Mapper) *Backend {
	if m == nil {
		m = field.NewMapper(nil)
	}
	return &Backend{mapper: m}
}

// Name implements gen.Backend.
func (b *Backend) Name() string { return gen.FeatureHooks.Name }

// TypesPath is the artifact path of the types module.
var TypesPath = path.Join(gen.FeatureHooks.Dir, "types.ts")

// IndexPath is the artifact path of the hooks index.
var IndexPath = path.Join(gen.FeatureHooks.Dir, "hooks", "index.ts")

// HookPath returns the artifact path of the hook of f.
func HookPath(f *gen.Function) string {
	return path.Join(gen.FeatureHooks.Dir, "hooks", gen.HookName(f)+".ts")
}

// Generate implements gen.Backend. The types module comes first, then one
// hook per function in function order, then the index.
func (b *Backend) Generate(s *gen.Spec) ([]gen.Artifact, error) {
	arts := make([]gen.Artifact, 0, len(s.Functions)+2)
	arts = append(arts, gen.Artifact{Path: TypesPath, Content: []byte(b.RenderTypesModule(s) + "\n")})
	names := make([]string, 0, len(s.Functions))
	for _, f := range s.Functions {
		arts = append(arts, gen.Artifact{Path: HookPath(f), Content: []byte(b.RenderHook(f) + "\n")})
		names = append(names, gen.HookName(f))
	}
	arts = append(arts, gen.Artifact{Path: IndexPath, Content: []byte(RenderIndex(names) + "\n")})
	return arts, nil
}

// RenderIndex renders a module re-exporting every hook module.
func RenderIndex(hooks []string) string {
	m := &Module{}
	for _, h := range hooks {
		m.Decls = append(m.Decls, &Reexport{From: "./" + h})
	}
	return Print(m)
}

// RenderTypesModule renders one interface per table. A property is optional
// iff its column is nullable.
func (b *Backend) RenderTypesModule(s *gen.Spec) string {
	m := &Module{}
	for _, t := range s.Tables {
		it := &Interface{Name: t.Ident()}
		for _, c := range t.Columns {
			it.Props = append(it.Props, Prop{Name: c.Name, Type: b.mapper.ClientType(c.Type), Optional: c.Nullable})
		}
		m.Decls = append(m.Decls, it)
	}
	return Print(m)
}

// RenderHook renders the hook module of f.
func (b *Backend) RenderHook(f *gen.Function) string {
	h, types := b.Hook(f)
	m := &Module{
		Imports: []Import{{Names: []string{"useQuery"}, From: queryPkg}},
		Decls:   []Decl{h},
	}
	if h.Mutation {
		m.Imports[0].Names = []string{"useMutation"}
	}
	if len(types) > 0 {
		m.Imports = append(m.Imports, Import{Names: types, From: typesModule, Type: true})
	}
	return Print(m)
}

// Hook builds the hook declaration of f and returns it with the entity
// types it references, deduplicated in first-use order.
func (b *Backend) Hook(f *gen.Function) (*Hook, []string) {
	var (
		types []string
		use   = func(t *field.Type) string {
			if name, ok := b.mapper.Entity(t); ok && !slices.Contains(types, name) {
				types = append(types, name)
			}
			return b.mapper.ClientType(t)
		}
		inPath  = f.ParamsIn(gen.InPath)
		inQuery = f.ParamsIn(gen.InQuery)
	)
	h := &Hook{
		Name:     gen.HookName(f),
		Mutation: !f.Method.IsRead(),
		Method:   string(f.Method),
		Key:      []Expr{Str(f.Name)},
		URL:      urlTemplate(f.Path, inPath),
	}
	for _, p := range inPath {
		h.Params = append(h.Params, Prop{Name: p.Name, Type: use(p.Type)})
		h.Key = append(h.Key, param(p.Name))
	}
	for _, p := range inQuery {
		h.Params = append(h.Params, Prop{Name: p.Name, Type: use(p.Type), Optional: true})
		h.Key = append(h.Key, param(p.Name))
		h.Query = append(h.Query, Entry{Key: p.Name, Value: param(p.Name)})
	}
	if !f.RequestBody.IsZero() {
		// The body takes the first free name of body, body_, body__...
		name := bodyProp
		for slices.ContainsFunc(h.Params, func(p Prop) bool { return p.Name == name }) {
			name += "_"
		}
		h.Params = append(h.Params, Prop{Name: name, Type: use(b.refType(f.RequestBody))})
		h.Body = param(name)
	}
	switch {
	case !f.ResponseBody.IsZero():
		h.Result = use(b.refType(f.ResponseBody))
		h.Decode = true
	case h.Mutation:
		h.Result, h.Empty = "void", "undefined"
	default:
		h.Result, h.Empty = "null", "null"
	}
	return h, types
}

// refType converts a body type reference into a descriptor. Inline bodies
// become untyped objects.
func (b *Backend) refType(r gen.TypeRef) *field.Type {
	if !r.IsInline() {
		return b.mapper.Named(string(r))
	}
	t := field.ObjectOf()
	for s := string(r); strings.HasSuffix(s, "[]"); s = strings.TrimSuffix(s, "[]") {
		t = field.ArrayOf(t)
	}
	return t
}

func param(name string) *Member {
	return &Member{Object: paramsVar, Name: name}
}

// urlTemplate turns a path template into a template literal, substituting
// every {name} placeholder of a declared path parameter with its
// percent-encoded value.
func urlTemplate(p string, params []*gen.Parameter) Template {
	var (
		tpl  Template
		text strings.Builder
	)
	for p != "" {
		open := strings.IndexByte(p, '{')
		if open < 0 {
			break
		}
		end := strings.IndexByte(p[open:], '}')
		if end < 0 {
			break
		}
		name := p[open+1 : open+end]
		declared := slices.ContainsFunc(params, func(prm *gen.Parameter) bool { return prm.Name == name })
		if !declared {
			text.WriteString(p[:open+end+1])
			p = p[open+end+1:]
			continue
		}
		text.WriteString(p[:open])
		if text.Len() > 0 {
			tpl = append(tpl, Part{Text: text.String()})
			text.Reset()
		}
		tpl = append(tpl, Part{Expr: &Call{Func: "encodeURIComponent", Args: []Expr{param(name)}}})
		p = p[open+end+1:]
	}
	text.WriteString(p)
	if text.Len() > 0 || len(tpl) == 0 {
		tpl = append(tpl, Part{Text: text.String()})
	}
	return tpl
}
