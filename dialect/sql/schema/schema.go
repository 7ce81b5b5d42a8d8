// Package schema converts the tables of a Spec into an atlas schema and
// plans the migration of a database towards it.
//
// Without a database connection the plan is computed offline against an
// empty schema, which yields the CREATE TABLE statements of a fresh
// install. With a connection the current schema is inspected first and
// only the difference is planned.
//
//	p, err := schema.NewPlanner(dialect.Postgres)
//	res, err := p.Plan(ctx, spec, drv.DB())
//	if res.Validation.HasErrors() {
//	    log.Fatal(res.Validation)
//	}
//	for _, stmt := range res.Statements() {
//	    fmt.Println(stmt)
//	}
package schema

import (
	"context"
	"fmt"

	"ariga.io/atlas/sql/migrate"
	"ariga.io/atlas/sql/postgres"
	"ariga.io/atlas/sql/schema"
	"ariga.io/atlas/sql/sqlite"

	"github.com/syssam/specgen/compiler/gen"
	"github.com/syssam/specgen/dialect"
	"github.com/syssam/specgen/internal/debug"
	"github.com/syssam/specgen/schema/field"
)

// PlanName is the name given to every migration plan.
const PlanName = "specgen"

// Planner plans migrations for one dialect.
type Planner struct {
	dialect  string
	validate []ValidateOption
}

// NewPlanner returns a Planner for the given dialect. The validation
// options are applied to every planned changeset.
func NewPlanner(name string, opts ...ValidateOption) (*Planner, error) {
	if err := dialect.Validate(name); err != nil {
		return nil, err
	}
	return &Planner{dialect: name, validate: opts}, nil
}

// Dialect returns the dialect of the planner.
func (p *Planner) Dialect() string { return p.dialect }

// DefaultSchema returns the name of the schema planned offline.
func (p *Planner) DefaultSchema() string {
	if p.dialect == dialect.SQLite {
		return "main"
	}
	return "public"
}

// Schema converts the tables of s into an atlas schema with the given name.
// Table and column names are sanitized the same way the DDL back-end does.
func (p *Planner) Schema(name string, s *gen.Spec) (*schema.Schema, error) {
	out := schema.New(name)
	for _, t := range s.Tables {
		tbl := schema.NewTable(t.Ident())
		var pk []*schema.Column
		for _, c := range t.Columns {
			typ, err := p.columnType(c.Type)
			if err != nil {
				return nil, fmt.Errorf("table %s: column %s: %w", t.Name, c.Name, err)
			}
			col := schema.NewColumn(field.Sanitize(c.Name, "column")).SetType(typ).SetNull(c.Nullable)
			tbl.AddColumns(col)
			if c.PrimaryKey {
				pk = append(pk, col)
			}
		}
		if len(pk) > 0 {
			tbl.SetPrimaryKey(schema.NewPrimaryKey(pk...))
		}
		out.AddTables(tbl)
	}
	return out, nil
}

// Result is a planned migration.
type Result struct {
	// Changes is the schema changeset the plan was built from.
	Changes []schema.Change
	// Plan holds the statements.
	Plan *migrate.Plan
	// Validation reports destructive changes.
	Validation *ValidationResult
}

// Statements returns the planned statements in order.
func (r *Result) Statements() []string {
	stmts := make([]string, 0, len(r.Plan.Changes))
	for _, c := range r.Plan.Changes {
		stmts = append(stmts, c.Cmd)
	}
	return stmts
}

// Plan diffs the tables of s against the current database schema and plans
// the statements to migrate it. A nil db plans against an empty schema.
func (p *Planner) Plan(ctx context.Context, s *gen.Spec, db schema.ExecQuerier) (*Result, error) {
	var (
		differ  schema.Differ
		planner migrate.PlanApplier
		current *schema.Schema
	)
	if db == nil {
		differ, planner = p.defaults()
		current = schema.New(p.DefaultSchema())
	} else {
		drv, err := p.open(db)
		if err != nil {
			return nil, fmt.Errorf("dialect/sql/schema: open %s: %w", p.dialect, err)
		}
		current, err = drv.InspectSchema(ctx, "", &schema.InspectOptions{Mode: schema.InspectTables})
		if err != nil {
			return nil, fmt.Errorf("dialect/sql/schema: inspect: %w", err)
		}
		differ, planner = drv, drv
	}
	desired, err := p.Schema(current.Name, s)
	if err != nil {
		return nil, err
	}
	changes, err := differ.SchemaDiff(current, desired)
	if err != nil {
		return nil, fmt.Errorf("dialect/sql/schema: diff: %w", err)
	}
	plan, err := planner.PlanChanges(ctx, PlanName, changes, func(o *migrate.PlanOptions) {
		o.SchemaQualifier = new(string)
	})
	if err != nil {
		return nil, fmt.Errorf("dialect/sql/schema: plan: %w", err)
	}
	res := &Result{Changes: changes, Plan: plan, Validation: Validate(changes, p.validate...)}
	debug.Debug("migration planned", "dialect", p.dialect, "schema", current.Name, "changes", len(changes), "statements", len(plan.Changes))
	return res, nil
}

func (p *Planner) defaults() (schema.Differ, migrate.PlanApplier) {
	if p.dialect == dialect.SQLite {
		return sqlite.DefaultDiff, sqlite.DefaultPlan
	}
	return postgres.DefaultDiff, postgres.DefaultPlan
}

func (p *Planner) open(db schema.ExecQuerier) (migrate.Driver, error) {
	if p.dialect == dialect.SQLite {
		return sqlite.Open(db)
	}
	return postgres.Open(db)
}

func (p *Planner) columnType(t *field.Type) (schema.Type, error) {
	if p.dialect == dialect.SQLite {
		return sqliteType(t), nil
	}
	return postgresType(t)
}

func postgresType(t *field.Type) (schema.Type, error) {
	if t == nil {
		return &schema.StringType{T: postgres.TypeText}, nil
	}
	switch t.Form {
	case field.FormArray:
		elem, err := postgresType(t.Elem)
		if err != nil {
			return nil, err
		}
		f, err := postgres.FormatType(elem)
		if err != nil {
			return nil, err
		}
		return &postgres.ArrayType{Type: elem, T: f + "[]"}, nil
	case field.FormRef, field.FormObject:
		return &schema.JSONType{T: postgres.TypeJSONB}, nil
	}
	switch t.Kind {
	case field.KindInteger:
		return &schema.IntegerType{T: postgres.TypeInteger}, nil
	case field.KindNumber:
		return &schema.FloatType{T: postgres.TypeDouble}, nil
	case field.KindBoolean:
		return &schema.BoolType{T: postgres.TypeBoolean}, nil
	case field.KindString:
		return &schema.StringType{T: postgres.TypeCharVar}, nil
	case field.KindDateTime:
		return &schema.TimeType{T: postgres.TypeTimestamp}, nil
	}
	return &schema.StringType{T: postgres.TypeText}, nil
}

// sqliteType maps t onto SQLite type names. Arrays, references and objects
// are stored as JSON text.
func sqliteType(t *field.Type) schema.Type {
	if t == nil {
		return &schema.StringType{T: sqlite.TypeText}
	}
	switch t.Form {
	case field.FormArray, field.FormRef, field.FormObject:
		return &schema.JSONType{T: "json"}
	}
	switch t.Kind {
	case field.KindInteger:
		return &schema.IntegerType{T: sqlite.TypeInteger}
	case field.KindNumber:
		return &schema.FloatType{T: sqlite.TypeReal}
	case field.KindBoolean:
		return &schema.BoolType{T: "boolean"}
	case field.KindDateTime:
		return &schema.TimeType{T: "datetime"}
	}
	return &schema.StringType{T: sqlite.TypeText}
}
