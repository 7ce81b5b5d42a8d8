package field

import (
	"strings"

	"github.com/goccy/go-json"
)

// Kind is the kind of a primitive type.
type Kind uint8

// Primitive kinds.
const (
	KindUnknown Kind = iota
	KindInteger
	KindNumber
	KindBoolean
	KindString
	KindDateTime
)

var kindNames = [...]string{
	KindUnknown:  "unknown",
	KindInteger:  "integer",
	KindNumber:   "number",
	KindBoolean:  "boolean",
	KindString:   "string",
	KindDateTime: "date-time",
}

// String returns the OpenAPI-style name of the kind.
func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return kindNames[KindUnknown]
}

// Form selects which variant of a Type is populated.
type Form uint8

// Type forms.
const (
	FormPrimitive Form = iota
	FormArray
	FormRef
	FormObject
)

// Type is a canonical type descriptor.
type Type struct {
	Form Form
	// Kind is set for FormPrimitive.
	Kind Kind
	// Elem is set for FormArray.
	Elem *Type
	// Ref is the entity name for FormRef.
	Ref string
	// Fields are the ordered properties for FormObject.
	Fields []Field
}

// Field is a property of an inline object type.
type Field struct {
	Name     string
	Type     *Type
	Required bool
}

// Primitive returns a primitive descriptor.
func Primitive(k Kind) *Type { return &Type{Form: FormPrimitive, Kind: k} }

// Unknown returns the descriptor of an unspecified type.
func Unknown() *Type { return Primitive(KindUnknown) }

// ArrayOf returns an array descriptor. A nil element is treated as unknown.
func ArrayOf(elem *Type) *Type {
	if elem == nil {
		elem = Unknown()
	}
	return &Type{Form: FormArray, Elem: elem}
}

// RefTo returns a reference to a named entity.
func RefTo(name string) *Type { return &Type{Form: FormRef, Ref: name} }

// ObjectOf returns an inline object descriptor.
func ObjectOf(fields ...Field) *Type { return &Type{Form: FormObject, Fields: fields} }

// IsArray reports whether t is an array.
func (t *Type) IsArray() bool { return t != nil && t.Form == FormArray }

// IsRef reports whether t is an entity reference.
func (t *Type) IsRef() bool { return t != nil && t.Form == FormRef }

// Base returns the innermost element type of an array, or t itself.
func (t *Type) Base() *Type {
	for t.IsArray() {
		t = t.Elem
	}
	if t == nil {
		return Unknown()
	}
	return t
}

// Depth returns the number of array levels wrapping the base type.
func (t *Type) Depth() int {
	n := 0
	for ; t.IsArray(); t = t.Elem {
		n++
	}
	return n
}

// String returns a compact, human-readable form, e.g. "Pet[]".
func (t *Type) String() string {
	if t == nil {
		return KindUnknown.String()
	}
	switch t.Form {
	case FormArray:
		return t.Elem.String() + "[]"
	case FormRef:
		return t.Ref
	case FormObject:
		names := make([]string, len(t.Fields))
		for i, f := range t.Fields {
			names[i] = f.Name + ": " + f.Type.String()
		}
		return "{" + strings.Join(names, ", ") + "}"
	default:
		return t.Kind.String()
	}
}

// MarshalJSON encodes the descriptor as a single-key object naming its form.
func (t *Type) MarshalJSON() ([]byte, error) {
	if t == nil {
		return []byte("null"), nil
	}
	switch t.Form {
	case FormArray:
		return json.Marshal(map[string]any{"array": t.Elem})
	case FormRef:
		return json.Marshal(map[string]string{"ref": t.Ref})
	case FormObject:
		return json.Marshal(map[string]any{"object": t.Fields})
	default:
		return json.Marshal(map[string]string{"primitive": t.Kind.String()})
	}
}

// MarshalJSON encodes the field with lower-case keys.
func (f Field) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Name     string `json:"name"`
		Type     *Type  `json:"type"`
		Required bool   `json:"required,omitempty"`
	}{f.Name, f.Type, f.Required})
}
