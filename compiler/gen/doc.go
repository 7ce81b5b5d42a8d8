// Package gen holds the intermediate representation of an API description
// and the machinery that turns it into generated artifacts.
//
// # Architecture
//
// The generation pipeline follows this flow:
//
//	OpenAPI document (YAML/JSON)
//	        ↓
//	   load.Document (order-preserving tree)
//	        ↓
//	   Parse → Spec (tables + functions)
//	        ↓
//	   Backend (sql, hook, gotype)
//	        ↓
//	   Writer → Sink (files)
//
// # Key Types
//
//   - Spec: the IR root, holding Tables and Functions in declaration order
//   - Table / Column: an entity schema and its typed properties
//   - Function / Parameter: one HTTP verb on one path and its inputs
//   - TypeRef: a request or response body type, named or inline
//   - Config: parser policies and enabled features
//
// The IR is immutable once Parse returns. Back-ends only read it.
//
// # Parsing Rules
//
// Every named schema under components.schemas becomes a Table; each property
// becomes a Column, nullable unless listed in the schema's required set.
// Every recognized verb under paths becomes a Function named after its
// operationId, or after the verb and path when there is none:
//
//	GET /pets/{id}        → getPetsId
//	POST /store/order     → postStoreOrder
//
// Path-level parameters are merged with operation-level ones by name; the
// operation wins. Parameter, request body, response and path item
// references are followed through chains. A broken chain drops the
// construct, a cyclic chain fails with a SchemaError.
//
// # Error Handling
//
// Document errors use the taxonomy of the root package (InputError,
// FormatError, SchemaError, WriteError). This package adds:
//
//   - ConfigError: invalid options
//   - GenerationError: a back-end failed to render
//
// # Configuration
//
// Configuration is done via the functional options pattern:
//
//	spec, err := gen.Parse(doc,
//	    gen.WithPrimaryKeyPolicy(func(table, column string) bool {
//	        return column == strings.ToLower(table)+"_id"
//	    }),
//	    gen.WithMethods(gen.MethodGet, gen.MethodPost),
//	)
package gen
