package shadergraph

import (
	"github.com/gogpu/shadergraph/graph"
)

// Value is the chainable proxy over one graph node. Methods never mutate
// or evaluate the receiver; they allocate new nodes, and statement methods
// (ToVar, Assign, ...) record into the builder's innermost scope.
//
// The zero Value is invalid.
type Value struct {
	b *Builder
	n *graph.Node
}

// Node returns the underlying graph node.
func (v Value) Node() *graph.Node { return v.n }

// Builder returns the builder that created v.
func (v Value) Builder() *Builder { return v.b }

// IsValid reports whether v wraps a node.
func (v Value) IsValid() bool { return v.n != nil && v.b != nil }

// Type returns the inferred type of v.
func (v Value) Type() graph.Type { return graph.Infer(v.n) }

func (v Value) binary(op string, x any) Value {
	if !v.IsValid() {
		return v
	}
	rhs := v.b.operand(x, v.Type())
	return v.b.value(v.b.node(graph.KindOperator, graph.Unknown, op, v.n, rhs))
}

func (v Value) unary(op string) Value {
	if !v.IsValid() {
		return v
	}
	return v.b.value(v.b.node(graph.KindOperator, graph.Unknown, op, v.n))
}

// Add returns v + x.
func (v Value) Add(x any) Value { return v.binary("+", x) }

// Sub returns v - x.
func (v Value) Sub(x any) Value { return v.binary("-", x) }

// Mul returns v * x. Matrix operands follow linear algebra rules.
func (v Value) Mul(x any) Value { return v.binary("*", x) }

// Div returns v / x.
func (v Value) Div(x any) Value { return v.binary("/", x) }

// Mod returns the floored remainder of v / x for floats and the truncated
// remainder for integers.
func (v Value) Mod(x any) Value { return v.binary("%", x) }

// Equal returns v == x, component-wise for vectors.
func (v Value) Equal(x any) Value { return v.binary("==", x) }

// NotEqual returns v != x, component-wise for vectors.
func (v Value) NotEqual(x any) Value { return v.binary("!=", x) }

// LessThan returns v < x, component-wise for vectors.
func (v Value) LessThan(x any) Value { return v.binary("<", x) }

// LessThanEqual returns v <= x, component-wise for vectors.
func (v Value) LessThanEqual(x any) Value { return v.binary("<=", x) }

// GreaterThan returns v > x, component-wise for vectors.
func (v Value) GreaterThan(x any) Value { return v.binary(">", x) }

// GreaterThanEqual returns v >= x, component-wise for vectors.
func (v Value) GreaterThanEqual(x any) Value { return v.binary(">=", x) }

// And returns the logical conjunction of two booleans.
func (v Value) And(x any) Value { return v.binary("&&", x) }

// Or returns the logical disjunction of two booleans.
func (v Value) Or(x any) Value { return v.binary("||", x) }

// Not returns the logical negation of a boolean.
func (v Value) Not() Value { return v.unary("!") }

// BitAnd returns the bitwise and of two integers.
func (v Value) BitAnd(x any) Value { return v.binary("&", x) }

// BitOr returns the bitwise or of two integers.
func (v Value) BitOr(x any) Value { return v.binary("|", x) }

// BitXor returns the bitwise exclusive or of two integers.
func (v Value) BitXor(x any) Value { return v.binary("^", x) }

// ShiftLeft returns v shifted left by x bits.
func (v Value) ShiftLeft(x any) Value { return v.binary("<<", x) }

// ShiftRight returns v shifted right by x bits.
func (v Value) ShiftRight(x any) Value { return v.binary(">>", x) }

// BitNot returns the bitwise complement of an integer.
func (v Value) BitNot() Value { return v.unary("~") }

// Negate returns -v.
func (v Value) Negate() Value { return v.unary("-") }

// OneMinus returns 1 - v.
func (v Value) OneMinus() Value {
	if !v.IsValid() {
		return v
	}
	one := v.b.operand(1, v.Type())
	return v.b.value(v.b.node(graph.KindOperator, graph.Unknown, "-", one, v.n))
}

// Reciprocal returns 1 / v.
func (v Value) Reciprocal() Value {
	if !v.IsValid() {
		return v
	}
	one := v.b.operand(1, v.Type())
	return v.b.value(v.b.node(graph.KindOperator, graph.Unknown, "/", one, v.n))
}

// Pow2 returns v * v.
func (v Value) Pow2() Value { return v.Mul(v) }

// Pow3 returns v * v * v.
func (v Value) Pow3() Value { return v.Mul(v).Mul(v) }

// Pow4 returns (v * v) * (v * v).
func (v Value) Pow4() Value {
	sq := v.Mul(v)
	return sq.Mul(sq)
}

// Select returns a when v is true and b otherwise.
func (v Value) Select(a, b any) Value {
	if !v.IsValid() {
		return v
	}
	x := v.b.operand(a, graph.Unknown)
	y := v.b.operand(b, graph.Infer(x))
	return v.b.value(v.b.node(graph.KindTernary, graph.Unknown, "", v.n, x, y))
}

// Swizzle returns the components of v named by mask, e.g. "xy", "rgb" or
// "xxxx". A one-letter mask yields a scalar.
func (v Value) Swizzle(mask string) Value {
	if !v.IsValid() {
		return v
	}
	if !graph.IsSwizzle(mask) {
		v.b.fail(v.n, graph.KindTypeMismatch, "invalid swizzle %q", mask)
	}
	return v.b.value(v.b.node(graph.KindMember, graph.Unknown, mask, v.n))
}

// X returns the first component.
func (v Value) X() Value { return v.Swizzle("x") }

// Y returns the second component.
func (v Value) Y() Value { return v.Swizzle("y") }

// Z returns the third component.
func (v Value) Z() Value { return v.Swizzle("z") }

// W returns the fourth component.
func (v Value) W() Value { return v.Swizzle("w") }

// XY returns the .xy swizzle.
func (v Value) XY() Value { return v.Swizzle("xy") }

// XZ returns the .xz swizzle.
func (v Value) XZ() Value { return v.Swizzle("xz") }

// YZ returns the .yz swizzle.
func (v Value) YZ() Value { return v.Swizzle("yz") }

// ZW returns the .zw swizzle.
func (v Value) ZW() Value { return v.Swizzle("zw") }

// XYZ returns the .xyz swizzle.
func (v Value) XYZ() Value { return v.Swizzle("xyz") }

// R returns the red channel.
func (v Value) R() Value { return v.Swizzle("r") }

// G returns the green channel.
func (v Value) G() Value { return v.Swizzle("g") }

// B returns the blue channel.
func (v Value) B() Value { return v.Swizzle("b") }

// A returns the alpha channel.
func (v Value) A() Value { return v.Swizzle("a") }

// RGB returns the color channels without alpha.
func (v Value) RGB() Value { return v.Swizzle("rgb") }

// RGBA returns all four channels.
func (v Value) RGBA() Value { return v.Swizzle("rgba") }

// Member returns the named field of a struct value.
func (v Value) Member(field string) Value {
	if !v.IsValid() {
		return v
	}
	t := v.Type()
	if t.Class != graph.ClassStruct {
		if graph.IsSwizzle(field) {
			return v.Swizzle(field)
		}
		v.b.fail(v.n, graph.KindTypeMismatch, "member %q of non-struct %s", field, t)
		return v.b.value(v.b.node(graph.KindMember, graph.Unknown, field, v.n))
	}
	def := v.b.structDef(t.Name)
	ft := graph.Unknown
	if def != nil {
		f, ok := def.Field(field)
		if !ok {
			v.b.fail(v.n, graph.KindUnresolvedIdentifier, "struct %s has no field %q", t.Name, field)
		}
		ft = f.Type
	}
	return v.b.value(v.b.node(graph.KindMember, ft, field, v.n))
}

// Element returns v[index]: a component of a vector or a column of a matrix.
func (v Value) Element(index any) Value {
	if !v.IsValid() {
		return v
	}
	idx := v.b.operand(index, graph.Int)
	return v.b.value(v.b.node(graph.KindElement, graph.Unknown, "", v.n, idx))
}

// ToVar declares a variable initialized with v in the innermost scope and
// returns a reference to it. Without a name the builder picks the next
// automatic one.
func (v Value) ToVar(name ...string) Value {
	if !v.IsValid() {
		return v
	}
	b := v.b
	var id string
	if len(name) > 0 && name[0] != "" {
		id = name[0]
		if !graph.IsIdentifier(id) {
			b.fail(v.n, graph.KindInvalidName, "invalid variable name %q", id)
			id = b.nextName()
		}
	} else {
		id = b.nextName()
	}

	t := v.Type()
	if !t.IsKnown() {
		b.fail(v.n, graph.KindTypeMismatch, "cannot declare %q: type of initializer is unresolved", id)
	}
	decl := b.node(graph.KindDeclare, t, id, v.n)
	ref := &graph.Node{Kind: graph.KindVariable, Type: t, Op: id, Scope: b.current()}
	if err := b.scopes.Declare(b.current(), id, ref); err != nil {
		if e, ok := err.(*graph.Error); ok {
			b.fail(v.n, e.Kind, "%s", e.Message)
		}
	}
	b.record(decl)
	return b.value(ref)
}

// Assign records v = x and returns v.
func (v Value) Assign(x any) Value { return v.assign("=", x) }

// AddAssign records v += x.
func (v Value) AddAssign(x any) Value { return v.assign("+=", x) }

// SubAssign records v -= x.
func (v Value) SubAssign(x any) Value { return v.assign("-=", x) }

// MulAssign records v *= x.
func (v Value) MulAssign(x any) Value { return v.assign("*=", x) }

// DivAssign records v /= x.
func (v Value) DivAssign(x any) Value { return v.assign("/=", x) }

func (v Value) assign(op string, x any) Value {
	if !v.IsValid() {
		return v
	}
	b := v.b
	if !v.n.IsLValue() {
		reason := v.n.Kind.String()
		if v.n.Kind == graph.KindMember && graph.HasRepeatedComponents(v.n.Op) {
			reason = "swizzle ." + v.n.Op + " with repeated components"
		}
		b.fail(v.n, graph.KindNotAssignable, "cannot assign to %s", reason)
	}
	if v.n.Kind == graph.KindBuiltin {
		b.fail(v.n, graph.KindNotAssignable, "builtin %q is read-only", v.n.Op)
	}
	rhs := b.operand(x, v.Type())
	b.record(b.node(graph.KindAssign, graph.Void, op, v.n, rhs))
	return v
}

// Convert returns v converted to t. Converting a vector to a narrower one
// keeps its leading components.
func (v Value) Convert(t graph.Type) Value {
	if !v.IsValid() {
		return v
	}
	src := v.Type()
	if src.IsVector() && (t.IsVector() || t.IsScalar()) && t.Components() < src.Components() {
		v = v.Swizzle("xyzw"[:t.Components()])
		src = v.Type()
	}
	if src == t {
		return v
	}
	return v.b.value(v.b.node(graph.KindConversion, t, "", v.n))
}

// ToFloat converts v to f32.
func (v Value) ToFloat() Value { return v.Convert(graph.Float) }

// ToInt converts v to i32.
func (v Value) ToInt() Value { return v.Convert(graph.Int) }

// ToUint converts v to u32.
func (v Value) ToUint() Value { return v.Convert(graph.Uint) }

// ToBool converts v to bool.
func (v Value) ToBool() Value { return v.Convert(graph.Bool) }

// ToVec2 converts v to vec2.
func (v Value) ToVec2() Value { return v.Convert(graph.Vec2) }

// ToVec3 converts v to vec3.
func (v Value) ToVec3() Value { return v.Convert(graph.Vec3) }

// ToVec4 converts v to vec4.
func (v Value) ToVec4() Value { return v.Convert(graph.Vec4) }

// ToIVec2 converts v to an ivec2.
func (v Value) ToIVec2() Value { return v.Convert(graph.IVec2) }

// ToIVec3 converts v to an ivec3.
func (v Value) ToIVec3() Value { return v.Convert(graph.IVec3) }

// ToUVec2 converts v to a uvec2.
func (v Value) ToUVec2() Value { return v.Convert(graph.UVec2) }

// ToUVec3 converts v to a uvec3.
func (v Value) ToUVec3() Value { return v.Convert(graph.UVec3) }
