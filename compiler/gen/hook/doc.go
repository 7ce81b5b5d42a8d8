// Package hook implements the client back-end: typed TanStack Query hooks,
// one per operation, an aggregated types module and an index re-exporting
// every hook.
//
// Reads (GET) compile to useQuery keyed by the function name followed by
// the path and query parameter values. Every other verb compiles to
// useMutation. Path parameters are required members of the parameter
// bundle, query parameters are optional, and a declared request body is
// carried as a required body member.
//
// Modules are built as a small tree (Module, Import, Interface, Hook,
// Reexport) and rendered by Print, which quotes property names and escapes
// string and template literals.
//
// # Output Layout
//
//	frontend/src/
//	├── types.ts
//	└── hooks/
//	    ├── use<Fn>.ts
//	    └── index.ts
package hook
