// Package field defines the canonical type descriptor shared by the parser
// and every back-end, and the mapper that turns a descriptor into a target
// type name.
//
// A descriptor is one of four forms:
//
//	field.Primitive(field.KindInteger)        // integer
//	field.ArrayOf(field.Primitive(KindString)) // string[]
//	field.RefTo("Pet")                        // named entity reference
//	field.ObjectOf(field.Field{Name: "x"})     // inline object
//
// # Mapping
//
// The Mapper renders a descriptor in the SQL or the client vocabulary. Both
// vocabularies cover the same primitive set:
//
//	Descriptor    SQL         Client
//	integer       INTEGER     number
//	number        FLOAT       number
//	boolean       BOOLEAN     boolean
//	string        VARCHAR     string
//	date-time     TIMESTAMP   string
//	object / ref  JSONB       Record<string, any> / <Name>
//	unknown       TEXT        any
//
// Arrays map their element and append "[]", at any depth.
//
// # Identifiers
//
// Sanitize turns arbitrary text into an identifier. Every back-end routes
// table, function and parameter names through it so that generated names
// agree across artifacts.
package field
