package shadergraph

import (
	"github.com/gogpu/shadergraph/graph"
)

// Construct wraps args in a conversion to t. Bare numbers become literals
// of t's component kind. Without arguments the value is zero.
func (b *Builder) Construct(t graph.Type, args ...any) Value {
	if len(args) == 0 {
		args = []any{0}
	}
	children := make([]*graph.Node, len(args))
	total, known := 0, true
	for i, a := range args {
		children[i] = b.operand(a, t)
		at := graph.Infer(children[i])
		if !at.IsKnown() {
			known = false
		}
		total += at.Components()
	}

	n := b.node(graph.KindConversion, t, "", children...)
	if known && t.IsNumeric() && !constructible(t, children, total) {
		b.fail(n, graph.KindTypeMismatch, "%s constructed from %d components", t, total)
	}
	return b.value(n)
}

func constructible(t graph.Type, children []*graph.Node, total int) bool {
	switch {
	case total == t.Components():
		return true
	case t.IsVector() || t.IsScalar():
		return total == 1
	case t.IsMatrix():
		return len(children) == 1 && graph.Infer(children[0]).IsMatrix()
	}
	return false
}

// Float constructs or converts to a float.
func (b *Builder) Float(args ...any) Value { return b.Construct(graph.Float, args...) }

// Int constructs or converts to a signed integer.
func (b *Builder) Int(args ...any) Value { return b.Construct(graph.Int, args...) }

// Uint constructs or converts to an unsigned integer.
func (b *Builder) Uint(args ...any) Value { return b.Construct(graph.Uint, args...) }

// Bool constructs or converts to a boolean.
func (b *Builder) Bool(args ...any) Value { return b.Construct(graph.Bool, args...) }

// Vec2 builds a float vector from components or a splatted scalar.
func (b *Builder) Vec2(args ...any) Value { return b.Construct(graph.Vec2, args...) }

// Vec3 builds a float vector from components or a splatted scalar.
func (b *Builder) Vec3(args ...any) Value { return b.Construct(graph.Vec3, args...) }

// Vec4 builds a float vector from components or a splatted scalar.
func (b *Builder) Vec4(args ...any) Value { return b.Construct(graph.Vec4, args...) }

// IVec2 builds a signed integer vector.
func (b *Builder) IVec2(args ...any) Value { return b.Construct(graph.IVec2, args...) }

// IVec3 builds a signed integer vector.
func (b *Builder) IVec3(args ...any) Value { return b.Construct(graph.IVec3, args...) }

// IVec4 builds a signed integer vector.
func (b *Builder) IVec4(args ...any) Value { return b.Construct(graph.IVec4, args...) }

// UVec2 builds an unsigned integer vector.
func (b *Builder) UVec2(args ...any) Value { return b.Construct(graph.UVec2, args...) }

// UVec3 builds an unsigned integer vector.
func (b *Builder) UVec3(args ...any) Value { return b.Construct(graph.UVec3, args...) }

// UVec4 builds an unsigned integer vector.
func (b *Builder) UVec4(args ...any) Value { return b.Construct(graph.UVec4, args...) }

// BVec2 builds a boolean vector.
func (b *Builder) BVec2(args ...any) Value { return b.Construct(graph.BVec2, args...) }

// BVec3 builds a boolean vector.
func (b *Builder) BVec3(args ...any) Value { return b.Construct(graph.BVec3, args...) }

// BVec4 builds a boolean vector.
func (b *Builder) BVec4(args ...any) Value { return b.Construct(graph.BVec4, args...) }

// Mat2 builds a 2x2 matrix from column-major components or columns.
func (b *Builder) Mat2(args ...any) Value { return b.Construct(graph.Mat2, args...) }

// Mat3 builds a 3x3 matrix from column-major components or columns.
func (b *Builder) Mat3(args ...any) Value { return b.Construct(graph.Mat3, args...) }

// Mat4 builds a 4x4 matrix from column-major components or columns.
func (b *Builder) Mat4(args ...any) Value { return b.Construct(graph.Mat4, args...) }

// Color builds an RGB vec3. A single integer argument is read as a 0xRRGGBB
// hex value; otherwise the arguments are passed to Vec3.
func (b *Builder) Color(args ...any) Value {
	if len(args) == 1 {
		var hex int64 = -1
		switch v := args[0].(type) {
		case int:
			hex = int64(v)
		case uint32:
			hex = int64(v)
		case int64:
			hex = v
		}
		if hex >= 0 {
			r := float64((hex>>16)&0xff) / 255
			g := float64((hex>>8)&0xff) / 255
			bl := float64(hex&0xff) / 255
			return b.Vec3(r, g, bl)
		}
	}
	return b.Vec3(args...)
}
