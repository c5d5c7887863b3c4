package shadergraph

import (
	"github.com/gogpu/shadergraph/graph"
)

// Call returns a call of the built-in function name. Bare numbers take the
// component kind of the first Value argument.
func (b *Builder) Call(name string, args ...any) Value {
	hint := graph.Unknown
	for _, a := range args {
		if v, ok := a.(Value); ok && v.IsValid() {
			hint = v.Type()
			break
		}
	}
	children := make([]*graph.Node, len(args))
	for i, a := range args {
		children[i] = b.operand(a, hint)
	}
	return b.value(b.node(graph.KindCall, graph.Unknown, name, children...))
}

func (v Value) call(name string, args ...any) Value {
	if !v.IsValid() {
		return v
	}
	return v.b.Call(name, append([]any{v}, args...)...)
}

// Abs returns the absolute value.
func (v Value) Abs() Value { return v.call("abs") }

// Sign returns -1, 0 or 1 by the sign of v.
func (v Value) Sign() Value { return v.call("sign") }

// Floor rounds down.
func (v Value) Floor() Value { return v.call("floor") }

// Ceil rounds up.
func (v Value) Ceil() Value { return v.call("ceil") }

// Fract returns v - floor(v).
func (v Value) Fract() Value { return v.call("fract") }

// Round rounds to the nearest integer.
func (v Value) Round() Value { return v.call("round") }

// Trunc rounds toward zero.
func (v Value) Trunc() Value { return v.call("trunc") }

// Sqrt returns the square root.
func (v Value) Sqrt() Value { return v.call("sqrt") }

// InverseSqrt returns 1 / sqrt(v).
func (v Value) InverseSqrt() Value { return v.call("inversesqrt") }

// Exp returns e raised to v.
func (v Value) Exp() Value { return v.call("exp") }

// Exp2 returns 2 raised to v.
func (v Value) Exp2() Value { return v.call("exp2") }

// Log returns the natural logarithm.
func (v Value) Log() Value { return v.call("log") }

// Log2 returns the base-2 logarithm.
func (v Value) Log2() Value { return v.call("log2") }

// Sin returns the sine of v in radians.
func (v Value) Sin() Value { return v.call("sin") }

// Cos returns the cosine of v in radians.
func (v Value) Cos() Value { return v.call("cos") }

// Tan returns the tangent of v in radians.
func (v Value) Tan() Value { return v.call("tan") }

// Asin returns the arc sine.
func (v Value) Asin() Value { return v.call("asin") }

// Acos returns the arc cosine.
func (v Value) Acos() Value { return v.call("acos") }

// Atan returns the arc tangent.
func (v Value) Atan() Value { return v.call("atan") }

// Sinh returns the hyperbolic sine.
func (v Value) Sinh() Value { return v.call("sinh") }

// Cosh returns the hyperbolic cosine.
func (v Value) Cosh() Value { return v.call("cosh") }

// Tanh returns the hyperbolic tangent.
func (v Value) Tanh() Value { return v.call("tanh") }

// Radians converts degrees to radians.
func (v Value) Radians() Value { return v.call("radians") }

// Degrees converts radians to degrees.
func (v Value) Degrees() Value { return v.call("degrees") }

// Normalize returns v scaled to unit length.
func (v Value) Normalize() Value { return v.call("normalize") }

// Length returns the Euclidean length.
func (v Value) Length() Value { return v.call("length") }

// DFdx returns the screen-space derivative in x.
func (v Value) DFdx() Value { return v.call("dFdx") }

// DFdy returns the screen-space derivative in y.
func (v Value) DFdy() Value { return v.call("dFdy") }

// Fwidth returns abs(dFdx(v)) + abs(dFdy(v)).
func (v Value) Fwidth() Value { return v.call("fwidth") }

// Transpose returns the transposed matrix.
func (v Value) Transpose() Value { return v.call("transpose") }

// Determinant returns the determinant of a square matrix.
func (v Value) Determinant() Value { return v.call("determinant") }

// Inverse returns the matrix inverse. WGSL has no such built-in.
func (v Value) Inverse() Value { return v.call("inverse") }

// All reports whether every component of a boolean vector is true.
func (v Value) All() Value { return v.call("all") }

// Any reports whether some component of a boolean vector is true.
func (v Value) Any() Value { return v.call("any") }

// Dot returns the dot product.
func (v Value) Dot(x any) Value { return v.call("dot", x) }

// Cross returns the cross product of two vec3 values.
func (v Value) Cross(x any) Value { return v.call("cross", x) }

// Distance returns the distance between two points.
func (v Value) Distance(x any) Value { return v.call("distance", x) }

// Reflect reflects v about the normal n.
func (v Value) Reflect(n any) Value { return v.call("reflect", n) }

// Pow returns v raised to x.
func (v Value) Pow(x any) Value { return v.call("pow", x) }

// Min returns the smaller of v and x.
func (v Value) Min(x any) Value { return v.call("min", x) }

// Max returns the larger of v and x.
func (v Value) Max(x any) Value { return v.call("max", x) }

// Atan2 returns the angle of the point (x, v), as atan(y, x).
func (v Value) Atan2(x any) Value { return v.call("atan2", x) }

// Step returns 0 where v < edge and 1 elsewhere.
func (v Value) Step(edge any) Value {
	if !v.IsValid() {
		return v
	}
	return v.b.Call("step", edge, v)
}

// Smoothstep returns the Hermite interpolation of v between e0 and e1.
func (v Value) Smoothstep(e0, e1 any) Value {
	if !v.IsValid() {
		return v
	}
	return v.b.Call("smoothstep", e0, e1, v)
}

// Refract returns the refraction of v through a surface with normal n.
func (v Value) Refract(n, eta any) Value { return v.call("refract", n, eta) }

// Clamp constrains v to [lo, hi].
func (v Value) Clamp(lo, hi any) Value { return v.call("clamp", lo, hi) }

// Saturate clamps v to [0, 1].
func (v Value) Saturate() Value { return v.Clamp(0, 1) }

// Mix linearly interpolates from v to x by t.
func (v Value) Mix(x, t any) Value { return v.call("mix", x, t) }

// Fma returns v * a + b in one operation.
func (v Value) Fma(a, b any) Value { return v.call("fma", a, b) }

// LengthSq returns dot(v, v).
func (v Value) LengthSq() Value { return v.Dot(v) }
