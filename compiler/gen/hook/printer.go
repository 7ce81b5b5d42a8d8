package hook

import (
	"regexp"
	"strings"
)

// NetworkError is the message of the error thrown on a non-success response.
const NetworkError = "Network response was not ok"

var identRE = regexp.MustCompile(`^[A-Za-z_$][A-Za-z0-9_$]*$`)

// IsIdentifier reports whether s can be used as a bare property name.
func IsIdentifier(s string) bool { return identRE.MatchString(s) }

// Print renders m as TypeScript without a trailing newline.
func Print(m *Module) string {
	var p printer
	p.module(m)
	return strings.TrimSuffix(p.String(), "\n")
}

type printer struct {
	strings.Builder
	depth int
}

// line writes one indented line.
func (p *printer) line(parts ...string) {
	p.WriteString(strings.Repeat("  ", p.depth))
	for _, s := range parts {
		p.WriteString(s)
	}
	p.WriteByte('\n')
}

func (p *printer) indent(f func()) {
	p.depth++
	f()
	p.depth--
}

func (p *printer) module(m *Module) {
	if len(m.Imports) == 0 && len(m.Decls) == 0 {
		p.line("export {};")
		return
	}
	for _, im := range m.Imports {
		kw := "import { "
		if im.Type {
			kw = "import type { "
		}
		p.line(kw, strings.Join(im.Names, ", "), " } from ", quote(im.From), ";")
	}
	for i, d := range m.Decls {
		_, reexport := d.(*Reexport)
		if i > 0 || len(m.Imports) > 0 {
			if _, prev := prevDecl(m, i).(*Reexport); !reexport || !prev {
				p.WriteByte('\n')
			}
		}
		p.decl(d)
	}
}

func prevDecl(m *Module, i int) Decl {
	if i == 0 {
		return nil
	}
	return m.Decls[i-1]
}

func (p *printer) decl(d Decl) {
	switch d := d.(type) {
	case *Interface:
		if len(d.Props) == 0 {
			p.line("export interface ", d.Name, " {}")
			return
		}
		p.line("export interface ", d.Name, " {")
		p.indent(func() { p.props(d.Props) })
		p.line("}")
	case *Reexport:
		p.line("export * from ", quote(d.From), ";")
	case *Hook:
		p.hook(d)
	}
}

func (p *printer) props(props []Prop) {
	for _, pr := range props {
		opt := ""
		if pr.Optional {
			opt = "?"
		}
		p.line(key(pr.Name), opt, ": ", pr.Type, ";")
	}
}

func (p *printer) hook(h *Hook) {
	switch {
	case len(h.Params) == 0:
		p.line("export function ", h.Name, "() {")
	default:
		p.line("export function ", h.Name, "(params: {")
		p.indent(func() { p.props(h.Params) })
		if optional(h.Params) {
			p.line("} = {}) {")
		} else {
			p.line("}) {")
		}
	}
	p.indent(func() {
		if h.Mutation {
			p.line("return useMutation<", h.Result, ">({")
		} else {
			p.line("return useQuery<", h.Result, ">({")
		}
		p.indent(func() {
			if h.Mutation {
				p.line("mutationFn: async () => {")
			} else {
				p.line("queryKey: ", list(h.Key), ",")
				p.line("queryFn: async () => {")
			}
			p.indent(func() { p.fetch(h) })
			p.line("},")
		})
		p.line("});")
	})
	p.line("}")
}

func (p *printer) fetch(h *Hook) {
	url := h.URL
	if len(h.Query) > 0 {
		p.line("const queryParams = Object.fromEntries(")
		p.indent(func() {
			p.line("Object.entries(", object(h.Query), ").filter(([, v]) => v !== undefined),")
		})
		p.line(");")
		p.line("const query = new URLSearchParams(queryParams as Record<string, string>).toString();")
		url = append(append(Template{}, url...), Part{Expr: raw("query ? `?${query}` : ''")})
	}
	if !h.Mutation {
		p.line("const response = await fetch(", expr(url), ");")
	} else {
		p.line("const response = await fetch(", expr(url), ", {")
		p.indent(func() {
			p.line("method: ", quote(h.Method), ",")
			if h.Body != nil {
				p.line("headers: { 'Content-Type': 'application/json' },")
				p.line("body: JSON.stringify(", expr(h.Body), "),")
			}
		})
		p.line("});")
	}
	p.line("if (!response.ok) {")
	p.indent(func() { p.line("throw new Error(", quote(NetworkError), ");") })
	p.line("}")
	if h.Decode {
		p.line("return (await response.json()) as ", h.Result, ";")
	} else {
		p.line("return ", h.Empty, ";")
	}
}

func optional(props []Prop) bool {
	for _, pr := range props {
		if !pr.Optional {
			return false
		}
	}
	return true
}

// raw is printer-internal verbatim code.
type raw string

func (raw) expr() {}

func expr(e Expr) string {
	switch e := e.(type) {
	case raw:
		return string(e)
	case Str:
		return quote(string(e))
	case *Member:
		if IsIdentifier(e.Name) {
			return e.Object + "." + e.Name
		}
		return e.Object + "[" + quote(e.Name) + "]"
	case *Call:
		args := make([]string, len(e.Args))
		for i, a := range e.Args {
			args[i] = expr(a)
		}
		return e.Func + "(" + strings.Join(args, ", ") + ")"
	case Template:
		var b strings.Builder
		b.WriteByte('`')
		for _, pt := range e {
			if pt.Expr != nil {
				b.WriteString("${")
				b.WriteString(expr(pt.Expr))
				b.WriteByte('}')
				continue
			}
			b.WriteString(templateEscaper.Replace(pt.Text))
		}
		b.WriteByte('`')
		return b.String()
	}
	return "undefined"
}

func list(es []Expr) string {
	items := make([]string, len(es))
	for i, e := range es {
		items[i] = expr(e)
	}
	return "[" + strings.Join(items, ", ") + "]"
}

func object(entries []Entry) string {
	items := make([]string, len(entries))
	for i, en := range entries {
		items[i] = key(en.Key) + ": " + expr(en.Value)
	}
	return "{ " + strings.Join(items, ", ") + " }"
}

// key returns a property name, quoted unless it is an identifier.
func key(name string) string {
	if IsIdentifier(name) {
		return name
	}
	return quote(name)
}

var (
	stringEscaper   = strings.NewReplacer(`\`, `\\`, `'`, `\'`, "\n", `\n`, "\r", `\r`, "\u2028", `\u2028`, "\u2029", `\u2029`)
	templateEscaper = strings.NewReplacer(`\`, `\\`, "`", "\\`", "${", `\${`)
)

// quote returns a single-quoted string literal.
func quote(s string) string {
	return "'" + stringEscaper.Replace(s) + "'"
}
