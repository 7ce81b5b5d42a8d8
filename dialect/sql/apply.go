package sql

import (
	"context"
	"errors"
	"fmt"

	"github.com/syssam/specgen/dialect"
	"github.com/syssam/specgen/internal/debug"
)

// ApplyResult counts the statements of an Apply call.
type ApplyResult struct {
	Tables    int
	Functions int
	// Skipped counts function definitions the dialect cannot store.
	Skipped int
}

// Apply executes the table statements, then the function statements, in
// a single transaction. Function statements are skipped on dialects that
// do not support them. On Postgres, function bodies are not checked at
// creation time. Any failure rolls the transaction back.
func Apply(ctx context.Context, drv dialect.Driver, tables, functions []string) (*ApplyResult, error) {
	res := &ApplyResult{}
	if !dialect.SupportsFunctions(drv.Dialect()) && len(functions) > 0 {
		debug.Warn("function definitions skipped", "dialect", drv.Dialect(), "count", len(functions))
		res.Skipped = len(functions)
		functions = nil
	}
	tx, err := drv.Tx(ctx)
	if err != nil {
		return nil, fmt.Errorf("dialect/sql: begin: %w", err)
	}
	run := func(kind string, stmts []string, n *int) error {
		for i, stmt := range stmts {
			if err := tx.Exec(ctx, stmt, []any{}, nil); err != nil {
				return fmt.Errorf("%s statement %d: %w", kind, i+1, err)
			}
			*n++
		}
		return nil
	}
	if err := run("table", tables, &res.Tables); err != nil {
		return nil, rollback(tx, err)
	}
	if drv.Dialect() == dialect.Postgres && len(functions) > 0 {
		// Function bodies may reference tables created in this transaction.
		if err := tx.Exec(ctx, "SET LOCAL check_function_bodies = off", []any{}, nil); err != nil {
			return nil, rollback(tx, fmt.Errorf("disable function body checks: %w", err))
		}
	}
	if err := run("function", functions, &res.Functions); err != nil {
		return nil, rollback(tx, err)
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("dialect/sql: commit: %w", err)
	}
	debug.Info("statements applied", "tables", res.Tables, "functions", res.Functions, "skipped", res.Skipped)
	return res, nil
}

// rollback rolls back tx and joins the rollback error, if any, with err.
func rollback(tx dialect.Tx, err error) error {
	if rerr := tx.Rollback(); rerr != nil {
		err = errors.Join(err, fmt.Errorf("dialect/sql: rollback: %w", rerr))
	}
	return err
}
