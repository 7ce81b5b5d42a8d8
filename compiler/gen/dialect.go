package gen

// =============================================================================
// Interface Segregation: a back-end renders per-table and per-function text,
// and a Backend packages that text into artifacts.
// =============================================================================

// TableRenderer renders per-table text.
// Implementations must be pure: the same table always yields the same text.
type TableRenderer interface {
	RenderTable(t *Table) string
}

// FunctionRenderer renders per-function text.
// Implementations must be total: every function yields text, unsupported
// constructs render as explanatory comments instead of failing.
type FunctionRenderer interface {
	RenderFunction(f *Function) string
}

// Artifact is a generated file. Path is slash-separated and relative to the
// output root.
type Artifact struct {
	Path    string
	Content []byte
}

// Backend turns a Spec into one family of artifacts.
//
// Architecture:
//
//	┌──────────────┐      ┌───────────────┐      ┌──────────────┐
//	│    Parse     │ ───▶ │   Generator   │ ───▶ │    Writer    │
//	│ (doc → Spec) │      │ (Spec → files)│      │ (files → fs) │
//	└──────────────┘      └───────┬───────┘      └──────────────┘
//	                              │ runs
//	              ┌───────────────┼───────────────┐
//	              ▼               ▼               ▼
//	        ┌──────────┐    ┌──────────┐    ┌──────────┐
//	        │   sql    │    │   hook   │    │  gotype  │
//	        └──────────┘    └──────────┘    └──────────┘
type Backend interface {
	// Name returns the feature name of the backend (e.g. "sql").
	Name() string
	// Generate returns the artifacts of the backend in a deterministic order.
	Generate(s *Spec) ([]Artifact, error)
}
