package sql

import (
	"github.com/syssam/specgen/schema/field"
)

// Ident is a sanitized SQL identifier. Values are only created through
// NewIdent, so every identifier reaching the printer is well formed.
type Ident string

// NewIdent sanitizes raw into an identifier, using fallback when nothing
// usable remains.
func NewIdent(raw, fallback string) Ident {
	return Ident(field.Sanitize(raw, fallback))
}

// Placeholder returns the name of the function argument bound to i.
func (i Ident) Placeholder() string { return "_" + string(i) }

// Node is a printable SQL construct.
type Node interface {
	node()
}

type (
	// CreateTable is a CREATE TABLE IF NOT EXISTS statement.
	CreateTable struct {
		Name       Ident
		Columns    []ColumnDef
		PrimaryKey []Ident
	}

	// ColumnDef is a column definition of a CreateTable.
	ColumnDef struct {
		Name    Ident
		Type    string
		NotNull bool
	}

	// CreateFunction is a CREATE OR REPLACE FUNCTION statement with a
	// LANGUAGE sql body.
	CreateFunction struct {
		Name    Ident
		Params  []ParamDef
		Returns string
		Body    []Node
	}

	// ParamDef is a function argument.
	ParamDef struct {
		Name Ident
		Type string
	}

	// Comment is a single-line comment. Line breaks and dollar-quote
	// delimiters are neutralized when printed.
	Comment string

	// Select is a SELECT * statement.
	Select struct {
		Table Ident
		Where []Eq
	}

	// Insert is an INSERT ... DEFAULT VALUES statement.
	Insert struct {
		Table     Ident
		Returning bool
	}

	// Delete is a DELETE statement.
	Delete struct {
		Table     Ident
		Where     []Eq
		Returning bool
	}

	// Filter is a WHERE clause rendered as a comment, for bodies that
	// leave the statement to a human.
	Filter struct {
		Where []Eq
	}

	// Eq is an equality predicate between a column and a function argument.
	// An empty Param binds the argument named after Column.
	Eq struct {
		Column Ident
		Param  Ident
	}
)

func (*CreateTable) node()    {}
func (*CreateFunction) node() {}
func (Comment) node()         {}
func (*Select) node()         {}
func (*Insert) node()         {}
func (*Delete) node()         {}
func (*Filter) node()         {}
