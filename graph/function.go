package graph

import "strings"

// Param describes one function parameter in a layout.
type Param struct {
	Name string
	Type Type
}

// Layout is the declared contract of a user function.
// Auto types are resolved from the first call-site arguments.
type Layout struct {
	Name   string
	Type   Type
	Inputs []Param
}

// Function is a hoisted function definition.
type Function struct {
	// Name is the emitted header name.
	Name string

	// Params are KindParam nodes in declaration order.
	Params []*Node

	// Result is the return type. Void when the body returns nothing.
	Result Type

	// Body is the captured function body.
	Body *Block

	// Signature holds the argument types the body was captured with.
	Signature []Type

	// Layout is the declared layout the function was specialized from.
	Layout *Layout

	// Calls counts the define nodes referencing this function.
	Calls int
}

// SignatureKey returns a stable key for a list of argument types.
func SignatureKey(types []Type) string {
	parts := make([]string, len(types))
	for i, t := range types {
		parts[i] = t.String()
	}
	return strings.Join(parts, ",")
}

// SpecializedName returns the header name used for a further signature of
// the named function, e.g. "shade_vec3_float".
func SpecializedName(name string, types []Type) string {
	var sb strings.Builder
	sb.WriteString(name)
	for _, t := range types {
		sb.WriteByte('_')
		sb.WriteString(t.String())
	}
	return sb.String()
}

// Field is one member of a struct definition.
type Field struct {
	Name string
	Type Type
}

// StructDef is a user struct type.
type StructDef struct {
	Name   string
	Fields []Field
}

// Type returns the struct type.
func (s *StructDef) Type() Type { return StructOf(s.Name) }

// Field returns the named field.
func (s *StructDef) Field(name string) (Field, bool) {
	for _, f := range s.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return Field{}, false
}
