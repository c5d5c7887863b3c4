package shadergraph

import (
	"github.com/gogpu/shadergraph/graph"
)

// Builtins maps the supported stage builtin names to their types.
var Builtins = map[string]graph.Type{
	"position":               graph.Vec4,
	"vertex_index":           graph.Uint,
	"instance_index":         graph.Uint,
	"front_facing":           graph.Bool,
	"sample_index":           graph.Uint,
	"sample_mask":            graph.Uint,
	"global_invocation_id":   graph.UVec3,
	"local_invocation_id":    graph.UVec3,
	"local_invocation_index": graph.Uint,
	"workgroup_id":           graph.UVec3,
	"num_workgroups":         graph.UVec3,
}

// resource returns the registered resource called name, or registers n.
// One name always refers to one resource.
func (b *Builder) resource(n *graph.Node) *graph.Node {
	if !graph.IsIdentifier(n.Op) {
		b.fail(n, graph.KindInvalidName, "invalid %s name %q", n.Kind, n.Op)
		return n
	}
	if prev, ok := b.resources[n.Op]; ok {
		if prev.Kind != n.Kind || graph.Infer(prev) != graph.Infer(n) {
			b.fail(n, graph.KindRedeclared, "%s %q already declared as %s %s", n.Kind, n.Op, prev.Kind, graph.Infer(prev))
			return n
		}
		return prev
	}
	b.resources[n.Op] = n
	return n
}

// typed converts a resource initializer: a graph.Type declares the type
// without an initial value.
func (b *Builder) typed(init any) (graph.Type, *graph.Node) {
	if t, ok := init.(graph.Type); ok {
		return t, nil
	}
	n := b.operand(init, graph.Unknown)
	if n.Kind == graph.KindLiteral {
		n = b.node(graph.KindConversion, graph.Infer(n), "", n)
	}
	return graph.Infer(n), n
}

// Uniform declares a uniform named name. init is either a graph.Type or a
// constant value that gives the type and the initial value reported to the
// program assembly step.
func (b *Builder) Uniform(init any, name string) Value {
	t, n := b.typed(init)
	u := &graph.Node{Kind: graph.KindUniform, Type: t, Op: name}
	if n != nil {
		if !n.IsConstant() {
			b.fail(n, graph.KindTypeMismatch, "uniform %q initializer is not constant", name)
		}
		u.Children = []*graph.Node{n}
	}
	return b.value(b.resource(u))
}

// Attribute declares a per-vertex input. init is a graph.Type or a value
// of the attribute's type.
func (b *Builder) Attribute(init any, name string) Value {
	t, _ := b.typed(init)
	return b.value(b.resource(&graph.Node{Kind: graph.KindAttribute, Type: t, Op: name}))
}

// Varying declares a value computed by the vertex stage and interpolated
// into the fragment stage. value may only depend on attributes, uniforms,
// builtins and constants.
func (b *Builder) Varying(value any, name string) Value {
	n := b.operand(value, graph.Unknown)
	if n.Scope.IsValid() {
		b.fail(n, graph.KindUnresolvedIdentifier, "varying %q depends on a local value", name)
	}
	t := graph.Infer(n)
	if t.IsKnown() && !t.IsNumeric() {
		b.fail(n, graph.KindTypeMismatch, "varying %q of type %s", name, t)
	}
	return b.value(b.resource(&graph.Node{Kind: graph.KindVarying, Type: t, Op: name, Children: []*graph.Node{n}}))
}

// Constant declares a module-scope constant.
func (b *Builder) Constant(value any, name string) Value {
	t, n := b.typed(value)
	if n == nil || !n.IsConstant() {
		b.fail(n, graph.KindTypeMismatch, "constant %q needs a constant value", name)
	}
	c := &graph.Node{Kind: graph.KindConstant, Type: t, Op: name}
	if n != nil {
		c.Children = []*graph.Node{n}
	}
	return b.value(b.resource(c))
}

// Texture declares a sampled 2D texture.
func (b *Builder) Texture(name string) Value {
	return b.value(b.resource(&graph.Node{Kind: graph.KindTexture, Type: graph.Texture2D, Op: name}))
}

// Builtin returns a stage builtin by its WGSL name. "uv" is derived as
// position.xy / iResolution.
func (b *Builder) Builtin(name string) Value {
	if name == "uv" {
		return b.Builtin("position").XY().Div(b.Resolution())
	}
	t, ok := Builtins[name]
	n := &graph.Node{Kind: graph.KindBuiltin, Type: t, Op: name}
	if !ok {
		b.fail(n, graph.KindUnresolvedIdentifier, "unknown builtin %q", name)
		return b.value(n)
	}
	return b.value(b.resource(n))
}

// Resolution returns the iResolution uniform (canvas size in pixels).
func (b *Builder) Resolution() Value { return b.Uniform(graph.Vec2, "iResolution") }

// Mouse returns the iMouse uniform (pointer position in pixels).
func (b *Builder) Mouse() Value { return b.Uniform(graph.Vec2, "iMouse") }

// Time returns the iTime uniform (seconds since start).
func (b *Builder) Time() Value { return b.Uniform(graph.Float, "iTime") }

// Sample samples a texture at uv.
func (v Value) Sample(uv any) Value {
	if !v.IsValid() {
		return v
	}
	if v.n.Kind != graph.KindTexture {
		v.b.fail(v.n, graph.KindTypeMismatch, "Sample on %s", v.n.Kind)
	}
	return v.b.value(v.b.node(graph.KindCall, graph.Vec4, "texture", v.n, v.b.operand(uv, graph.Vec2)))
}

// SampleLevel samples a texture at uv from an explicit mip level.
func (v Value) SampleLevel(uv, level any) Value {
	if !v.IsValid() {
		return v
	}
	if v.n.Kind != graph.KindTexture {
		v.b.fail(v.n, graph.KindTypeMismatch, "SampleLevel on %s", v.n.Kind)
	}
	return v.b.value(v.b.node(graph.KindCall, graph.Vec4, "textureLod", v.n, v.b.operand(uv, graph.Vec2), v.b.operand(level, graph.Float)))
}

// StructType is a user struct definition.
type StructType struct {
	b   *Builder
	def *graph.StructDef
}

// Struct defines a struct type. Redefining a name with different fields is
// an error.
func (b *Builder) Struct(name string, fields ...graph.Field) *StructType {
	def := &graph.StructDef{Name: name, Fields: fields}
	if !graph.IsIdentifier(name) || graph.IsReserved(name) {
		b.fail(nil, graph.KindInvalidName, "invalid struct name %q", name)
	}
	seen := make(map[string]bool, len(fields))
	for _, f := range fields {
		if !graph.IsIdentifier(f.Name) || seen[f.Name] {
			b.fail(nil, graph.KindInvalidName, "struct %s: invalid or duplicate field %q", name, f.Name)
		}
		seen[f.Name] = true
		if !f.Type.IsKnown() || !f.Type.IsNumeric() && f.Type.Class != graph.ClassStruct {
			b.fail(nil, graph.KindTypeMismatch, "struct %s: field %q has type %s", name, f.Name, f.Type)
		}
	}
	if prev := b.structDef(name); prev != nil {
		if len(prev.Fields) != len(fields) {
			b.fail(nil, graph.KindRedeclared, "struct %s redefined", name)
		}
		return &StructType{b: b, def: prev}
	}
	b.structs = append(b.structs, def)
	return &StructType{b: b, def: def}
}

func (b *Builder) structDef(name string) *graph.StructDef {
	for _, s := range b.structs {
		if s.Name == name {
			return s
		}
	}
	return nil
}

// Type returns the struct type.
func (s *StructType) Type() graph.Type { return s.def.Type() }

// New constructs a struct value from field values in declaration order.
func (s *StructType) New(values ...any) Value {
	b := s.b
	if len(values) != len(s.def.Fields) {
		b.fail(nil, graph.KindTypeMismatch, "struct %s: %d values for %d fields", s.def.Name, len(values), len(s.def.Fields))
	}
	children := make([]*graph.Node, len(values))
	for i, v := range values {
		hint := graph.Unknown
		if i < len(s.def.Fields) {
			hint = s.def.Fields[i].Type
		}
		n := b.operand(v, hint)
		if n.Kind == graph.KindLiteral && hint.IsKnown() && graph.Infer(n) != hint {
			n = b.node(graph.KindConversion, hint, "", n)
		}
		children[i] = n
	}
	return b.value(b.node(graph.KindConversion, s.def.Type(), "", children...))
}
