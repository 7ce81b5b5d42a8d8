// Package sql wraps database/sql as a dialect.Driver and applies generated
// DDL to a database.
//
// The postgres (lib/pq) and sqlite (modernc.org/sqlite) database/sql drivers
// are registered on import, under the names of their dialects.
//
// # Applying Statements
//
// Apply runs every CREATE TABLE statement, then every CREATE FUNCTION
// statement, in one transaction:
//
//	drv, err := sql.Open(dialect.Postgres, dsn)
//	if err != nil {
//	    return err
//	}
//	defer drv.Close()
//	tables, functions := sqlgen.NewBackend(nil).Statements(spec)
//	res, err := sql.Apply(ctx, sql.NewStatsDriver(drv), tables, functions)
//
// SQLite cannot store the function definitions; they are skipped and
// counted in ApplyResult.Skipped.
package sql
