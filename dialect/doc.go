// Package dialect defines the database abstraction used to apply generated
// DDL.
//
// # Supported Dialects
//
//   - Postgres: PostgreSQL, for tables and stored functions
//   - SQLite: SQLite, for tables only
//
// # Driver Interface
//
//	type Driver interface {
//	    ExecQuerier
//	    Tx(ctx context.Context) (Tx, error)
//	    Close() error
//	    Dialect() string
//	}
//
// # Usage
//
//	import (
//	    "github.com/syssam/specgen/dialect"
//	    "github.com/syssam/specgen/dialect/sql"
//	)
//
//	drv, err := sql.Open(dialect.Postgres, "postgres://...")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer drv.Close()
//	res, err := sql.Apply(ctx, drv, tables, functions)
//
// # Sub-packages
//
//   - dialect/sql: database/sql driver wrapper and DDL application
//   - dialect/sql/schema: conversion of tables into atlas schemas and migration planning
package dialect
