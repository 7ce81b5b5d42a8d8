// Package sql implements the SQL back-end: one CREATE TABLE statement per
// table and one CREATE FUNCTION stub per operation, targeting PostgreSQL.
//
// Statements are built as a small tree (CreateTable, CreateFunction, Select,
// Insert, Delete, Filter, Comment) and rendered by Print. Identifiers are
// typed as Ident and can only be created through NewIdent, which routes them
// through field.Sanitize.
//
// # Body Strategies
//
//	GET              SELECT * FROM <T> WHERE <path params>;
//	POST             INSERT INTO <T> DEFAULT VALUES [RETURNING *];
//	PUT, PATCH       placeholder comment + filter comment
//	DELETE           DELETE FROM <T> WHERE <path params> [RETURNING *];
//	HEAD, OPTIONS,
//	TRACE            a single comment, no function
//
// <T> is the response type for GET and the request type otherwise, falling
// back to the function name. Query parameters of a GET are recorded as
// comments and never turned into filters.
//
// # Output Layout
//
//	db/
//	├── <Table>_table.sql
//	└── <fn>_function.sql
package sql
