package field

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

type (
	// EntityPolicy reports whether a bare type name denotes an entity
	// (a generated table and client type) rather than a primitive.
	EntityPolicy func(name string) bool

	// PrimaryKeyPolicy reports whether a column of a table is part of the
	// table's primary key.
	PrimaryKeyPolicy func(table, column string) bool
)

// IsEntityName is the default EntityPolicy: a name starting with an
// upper-case letter is an entity.
func IsEntityName(name string) bool {
	r, _ := utf8.DecodeRuneInString(name)
	return r != utf8.RuneError && unicode.IsUpper(r)
}

// IsIDColumn is the default PrimaryKeyPolicy: a column named exactly "id".
func IsIDColumn(_, column string) bool {
	return column == "id"
}

// SQL vocabulary.
const (
	SQLInteger   = "INTEGER"
	SQLFloat     = "FLOAT"
	SQLBoolean   = "BOOLEAN"
	SQLVarchar   = "VARCHAR"
	SQLTimestamp = "TIMESTAMP"
	SQLJSON      = "JSONB"
	SQLText      = "TEXT"
)

// Client (TypeScript) vocabulary.
const (
	ClientNumber  = "number"
	ClientString  = "string"
	ClientBoolean = "boolean"
	ClientObject  = "Record<string, any>"
	ClientAny     = "any"
)

var (
	sqlKinds = map[Kind]string{
		KindInteger:  SQLInteger,
		KindNumber:   SQLFloat,
		KindBoolean:  SQLBoolean,
		KindString:   SQLVarchar,
		KindDateTime: SQLTimestamp,
	}
	clientKinds = map[Kind]string{
		KindInteger:  ClientNumber,
		KindNumber:   ClientNumber,
		KindBoolean:  ClientBoolean,
		KindString:   ClientString,
		KindDateTime: ClientString,
	}
	// kindAliases maps a bare type name to its primitive kind.
	kindAliases = map[string]Kind{
		"integer":   KindInteger,
		"int":       KindInteger,
		"number":    KindNumber,
		"float":     KindNumber,
		"boolean":   KindBoolean,
		"bool":      KindBoolean,
		"string":    KindString,
		"date-time": KindDateTime,
	}
)

// Mapper maps type descriptors to target type names.
// The zero value uses IsEntityName.
type Mapper struct {
	entity EntityPolicy
}

// NewMapper returns a Mapper with the given entity policy.
// A nil policy selects IsEntityName.
func NewMapper(policy EntityPolicy) *Mapper {
	return &Mapper{entity: policy}
}

// IsEntity applies the mapper's entity policy to a bare type name.
func (m *Mapper) IsEntity(name string) bool {
	if m == nil || m.entity == nil {
		return IsEntityName(name)
	}
	return m.entity(name)
}

// Named converts a bare type name, as found in a body type reference, into
// a descriptor. Trailing "[]" markers become array levels, entity names
// become references and known primitive names become primitives.
func (m *Mapper) Named(name string) *Type {
	if base, ok := strings.CutSuffix(name, "[]"); ok {
		return ArrayOf(m.Named(base))
	}
	if k, ok := kindAliases[name]; ok {
		return Primitive(k)
	}
	if m.IsEntity(name) {
		return RefTo(name)
	}
	return Unknown()
}

// SQLType returns the SQL type of t.
func (m *Mapper) SQLType(t *Type) string {
	if t == nil {
		return SQLText
	}
	switch t.Form {
	case FormArray:
		return m.SQLType(t.Elem) + "[]"
	case FormRef, FormObject:
		return SQLJSON
	}
	if s, ok := sqlKinds[t.Kind]; ok {
		return s
	}
	return SQLText
}

// ClientType returns the client type of t. References render as the
// sanitized entity name, which the caller is responsible for importing.
func (m *Mapper) ClientType(t *Type) string {
	if t == nil {
		return ClientAny
	}
	switch t.Form {
	case FormArray:
		return m.ClientType(t.Elem) + "[]"
	case FormRef:
		if !m.IsEntity(t.Ref) {
			return ClientAny
		}
		return Sanitize(t.Ref, ClientAny)
	case FormObject:
		return ClientObject
	}
	if s, ok := clientKinds[t.Kind]; ok {
		return s
	}
	return ClientAny
}

// Entity returns the sanitized entity name referenced by t, looking through
// arrays. It reports false for primitives, inline objects and names rejected
// by the entity policy or left empty by sanitization.
func (m *Mapper) Entity(t *Type) (string, bool) {
	b := t.Base()
	if b.Form != FormRef || !m.IsEntity(b.Ref) {
		return "", false
	}
	name := clean(b.Ref)
	return name, name != ""
}
