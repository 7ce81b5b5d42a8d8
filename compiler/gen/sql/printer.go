package sql

import (
	"strings"
)

// indent prefixes column definitions and function body lines.
const indent = "  "

// Print renders n as PostgreSQL text without a trailing newline.
func Print(n Node) string {
	var p printer
	p.print(n)
	return p.String()
}

type printer struct {
	strings.Builder
}

func (p *printer) print(n Node) {
	switch n := n.(type) {
	case *CreateTable:
		p.createTable(n)
	case *CreateFunction:
		p.createFunction(n)
	case Comment:
		p.WriteString("-- ")
		p.WriteString(neutralize(string(n)))
	case *Select:
		p.WriteString("SELECT * FROM ")
		p.WriteString(string(n.Table))
		p.where(n.Where)
		p.WriteByte(';')
	case *Insert:
		p.WriteString("INSERT INTO ")
		p.WriteString(string(n.Table))
		p.WriteString(" DEFAULT VALUES")
		p.returning(n.Returning)
		p.WriteByte(';')
	case *Delete:
		p.WriteString("DELETE FROM ")
		p.WriteString(string(n.Table))
		p.where(n.Where)
		p.returning(n.Returning)
		p.WriteByte(';')
	case *Filter:
		p.WriteString("-- filter:")
		p.where(n.Where)
	}
}

func (p *printer) createTable(t *CreateTable) {
	p.WriteString("CREATE TABLE IF NOT EXISTS ")
	p.WriteString(string(t.Name))
	if len(t.Columns) == 0 {
		p.WriteString(" ();")
		return
	}
	p.WriteString(" (\n")
	for i, c := range t.Columns {
		if i > 0 {
			p.WriteString(",\n")
		}
		p.WriteString(indent)
		p.WriteString(string(c.Name))
		p.WriteByte(' ')
		p.WriteString(c.Type)
		if c.NotNull {
			p.WriteString(" NOT NULL")
		}
	}
	if len(t.PrimaryKey) > 0 {
		p.WriteString(", PRIMARY KEY (")
		p.idents(t.PrimaryKey)
		p.WriteByte(')')
	}
	p.WriteString("\n);")
}

func (p *printer) createFunction(f *CreateFunction) {
	p.WriteString("CREATE OR REPLACE FUNCTION ")
	p.WriteString(string(f.Name))
	p.WriteByte('(')
	for i, a := range f.Params {
		if i > 0 {
			p.WriteString(", ")
		}
		p.WriteString(a.Name.Placeholder())
		p.WriteByte(' ')
		p.WriteString(a.Type)
	}
	p.WriteString(")\nRETURNS ")
	p.WriteString(f.Returns)
	p.WriteString("\nLANGUAGE sql\nAS $$\n")
	for _, n := range f.Body {
		p.WriteString(indent)
		p.print(n)
		p.WriteByte('\n')
	}
	p.WriteString("$$;")
}

func (p *printer) where(eqs []Eq) {
	for i, eq := range eqs {
		if i == 0 {
			p.WriteString(" WHERE ")
		} else {
			p.WriteString(" AND ")
		}
		p.WriteString(string(eq.Column))
		p.WriteString(" = ")
		arg := eq.Param
		if arg == "" {
			arg = eq.Column
		}
		p.WriteString(arg.Placeholder())
	}
}

func (p *printer) returning(ok bool) {
	if ok {
		p.WriteString(" RETURNING *")
	}
}

func (p *printer) idents(ids []Ident) {
	for i, id := range ids {
		if i > 0 {
			p.WriteString(", ")
		}
		p.WriteString(string(id))
	}
}

var lineBreaks = strings.NewReplacer("\r\n", " ", "\n", " ", "\r", " ", "*/", "* /")

// neutralize keeps comment text on one line and inside the function body.
func neutralize(s string) string {
	s = lineBreaks.Replace(s)
	for strings.Contains(s, "$$") {
		s = strings.ReplaceAll(s, "$$", "$ $")
	}
	return s
}
