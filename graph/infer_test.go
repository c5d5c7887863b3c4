package graph

import (
	"errors"
	"testing"
)

func lit(v float64, t Type) *Node {
	return &Node{Kind: KindLiteral, Value: v, Type: t}
}

func conv(t Type, args ...*Node) *Node {
	return &Node{Kind: KindConversion, Type: t, Children: args}
}

func op(o string, a, b *Node) *Node {
	return &Node{Kind: KindOperator, Op: o, Children: []*Node{a, b}}
}

func member(base *Node, mask string) *Node {
	return &Node{Kind: KindMember, Op: mask, Children: []*Node{base}}
}

func call(name string, args ...*Node) *Node {
	return &Node{Kind: KindCall, Op: name, Children: args}
}

func TestInferConversion(t *testing.T) {
	m := conv(Mat3, lit(1, Float), lit(0, Float), lit(0, Float), lit(0, Float), lit(1, Float), lit(0, Float), lit(0, Float), lit(0, Float), lit(1, Float))
	if got := Infer(m); got != Mat3 {
		t.Errorf("Infer(mat3(...)) = %s, want mat3", got)
	}
}

func TestInferOperatorJoin(t *testing.T) {
	a := conv(Float, lit(1, Float))
	v := conv(Vec3, lit(1, Float), lit(2, Float), lit(3, Float))
	if got := Infer(op("*", a, v)); got != Vec3 {
		t.Errorf("Infer(float * vec3) = %s, want vec3", got)
	}
	if got := Infer(op("<", a, a)); got != Bool {
		t.Errorf("Infer(float < float) = %s, want bool", got)
	}
}

func TestInferSwizzleArity(t *testing.T) {
	v2 := conv(Vec2, lit(1, Float), lit(2, Float))
	v3 := conv(Vec3, lit(1, Float), lit(2, Float), lit(3, Float))
	iv4 := conv(IVec4, lit(1, Int))

	tests := []struct {
		name string
		base *Node
		mask string
		want Type
	}{
		{"vec3.xy", v3, "xy", Vec2},
		{"vec3.x", v3, "x", Float},
		{"vec3.rgb", v3, "rgb", Vec3},
		{"vec2.xxxx", v2, "xxxx", Vec4},
		{"vec2.yx", v2, "yx", Vec2},
		{"ivec4.zw", iv4, "zw", IVec2},
		{"ivec4.w", iv4, "w", Int},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Infer(member(tt.base, tt.mask)); got != tt.want {
				t.Errorf("Infer(%s) = %s, want %s", tt.name, got, tt.want)
			}
		})
	}
}

func TestResolveSwizzleOutOfRange(t *testing.T) {
	v2 := conv(Vec2, lit(1, Float), lit(2, Float))
	if _, err := Resolve(member(v2, "xyz")); !errors.Is(err, ErrTypeMismatch) {
		t.Errorf("Resolve(vec2.xyz) error = %v, want ErrTypeMismatch", err)
	}
}

func TestInferCalls(t *testing.T) {
	v3 := conv(Vec3, lit(1, Float))
	f := conv(Float, lit(1, Float))
	tests := []struct {
		name string
		n    *Node
		want Type
	}{
		{"dot", call("dot", v3, v3), Float},
		{"length", call("length", v3), Float},
		{"cross", call("cross", v3, v3), Vec3},
		{"normalize", call("normalize", v3), Vec3},
		{"mix widest", call("mix", v3, v3, f), Vec3},
		{"step widest", call("step", f, v3), Vec3},
		{"sin", call("sin", f), Float},
		{"all", call("all", conv(BVec3, lit(1, Bool))), Bool},
		{"texture", call("texture", &Node{Kind: KindTexture, Type: Texture2D}, conv(Vec2, lit(0, Float))), Vec4},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Infer(tt.n); got != tt.want {
				t.Errorf("Infer(%s) = %s, want %s", tt.name, got, tt.want)
			}
		})
	}
}

func TestInferDefineAuto(t *testing.T) {
	v2 := conv(Vec2, lit(1, Float))
	fn := &Function{Name: "f", Result: Auto}
	n := &Node{Kind: KindDefine, Func: fn, Children: []*Node{v2}}
	if got := Infer(n); got != Vec2 {
		t.Errorf("Infer(auto call) = %s, want vec2", got)
	}
	fn.Result = Float
	if got := Infer(n); got != Float {
		t.Errorf("Infer(float call) = %s, want float", got)
	}
}

func TestInferElementAndTernary(t *testing.T) {
	m := conv(Mat4, lit(1, Float))
	el := &Node{Kind: KindElement, Children: []*Node{m, lit(0, Int)}}
	if got := Infer(el); got != Vec4 {
		t.Errorf("Infer(mat4[0]) = %s, want vec4", got)
	}
	sel := &Node{Kind: KindTernary, Children: []*Node{lit(1, Bool), conv(Float, lit(1, Float)), conv(Vec3, lit(0, Float))}}
	if got := Infer(sel); got != Vec3 {
		t.Errorf("Infer(select) = %s, want vec3", got)
	}
}

func TestResolveMismatchCarriesNode(t *testing.T) {
	n := op("+", conv(Vec2, lit(1, Float)), conv(Vec3, lit(1, Float)))
	_, err := Resolve(n)
	var gerr *Error
	if !errors.As(err, &gerr) {
		t.Fatalf("Resolve() error = %v, want *Error", err)
	}
	if gerr.Node != n {
		t.Errorf("error node = %p, want %p", gerr.Node, n)
	}
	if Infer(n) != Unknown {
		t.Errorf("Infer(vec2 + vec3) = %s, want unknown", Infer(n))
	}
}

func TestSwizzleHelpers(t *testing.T) {
	if !IsSwizzle("rgba") || !IsSwizzle("x") || IsSwizzle("xr") || IsSwizzle("xyzwx") || IsSwizzle("") {
		t.Error("IsSwizzle() misclassified a mask")
	}
	if !HasRepeatedComponents("xx") || HasRepeatedComponents("xyz") {
		t.Error("HasRepeatedComponents() misclassified a mask")
	}
}
