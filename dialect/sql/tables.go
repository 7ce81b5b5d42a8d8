package sql

import (
	"context"
	"fmt"
	"strings"

	"github.com/syssam/specgen/dialect"
)

// tablesQuery lists the user tables of a database, sorted by name.
var tablesQuery = map[string]string{
	dialect.Postgres: "SELECT table_name FROM information_schema.tables WHERE table_schema = current_schema() AND table_type = 'BASE TABLE' ORDER BY table_name",
	dialect.SQLite:   "SELECT name FROM sqlite_master WHERE type = 'table' AND name NOT LIKE 'sqlite_%' ORDER BY name",
}

// Tables returns the names of the tables in the database of drv. On
// Postgres only the current schema is listed.
func Tables(ctx context.Context, drv dialect.Driver) ([]string, error) {
	query, ok := tablesQuery[drv.Dialect()]
	if !ok {
		return nil, fmt.Errorf("dialect/sql: listing tables is not supported on %q", drv.Dialect())
	}
	var rows Rows
	if err := drv.Query(ctx, query, []any{}, &rows); err != nil {
		return nil, err
	}
	defer rows.Close()
	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("dialect/sql: scan table name: %w", err)
		}
		names = append(names, name)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("dialect/sql: list tables: %w", err)
	}
	return names, nil
}

// MissingTables returns the names in want that drv does not list, in
// order. Names compare case-insensitively: Postgres folds unquoted
// identifiers to lower case.
func MissingTables(ctx context.Context, drv dialect.Driver, want []string) ([]string, error) {
	have, err := Tables(ctx, drv)
	if err != nil {
		return nil, err
	}
	present := make(map[string]struct{}, len(have))
	for _, name := range have {
		present[strings.ToLower(name)] = struct{}{}
	}
	var missing []string
	for _, name := range want {
		if _, ok := present[strings.ToLower(name)]; !ok {
			missing = append(missing, name)
		}
	}
	return missing, nil
}
