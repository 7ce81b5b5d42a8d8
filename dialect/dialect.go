package dialect

import (
	"context"
	"database/sql/driver"
	"fmt"
	"slices"
)

// Dialect names.
const (
	Postgres = "postgres"
	SQLite   = "sqlite"
)

// Dialects lists the supported dialects.
var Dialects = []string{Postgres, SQLite}

// ExecQuerier wraps the two database operations.
type ExecQuerier interface {
	// Exec executes a query that does not return records. args must be
	// a []any and v, when not nil, a *sql.Result.
	Exec(ctx context.Context, query string, args, v any) error
	// Query executes a query that returns rows into v, a *sql.Rows.
	Query(ctx context.Context, query string, args, v any) error
}

// Driver is the interface that wraps all necessary operations for applying
// generated statements.
type Driver interface {
	ExecQuerier
	// Tx starts and returns a new transaction.
	Tx(context.Context) (Tx, error)
	// Close closes the underlying connection.
	Close() error
	// Dialect returns the dialect name of the driver.
	Dialect() string
}

// Tx wraps the Exec and Query operations in a transaction.
type Tx interface {
	ExecQuerier
	driver.Tx
}

// Validate returns an error if name is not a supported dialect.
func Validate(name string) error {
	if !slices.Contains(Dialects, name) {
		return fmt.Errorf("dialect: unsupported dialect %q, expected one of %v", name, Dialects)
	}
	return nil
}

// SupportsFunctions reports whether the dialect can store the generated
// function definitions.
func SupportsFunctions(name string) bool {
	return name == Postgres
}
