package graph

import (
	"errors"
	"testing"
)

func TestJoinArithmetic(t *testing.T) {
	tests := []struct {
		name string
		a, b Type
		want Type
	}{
		{"float+float", Float, Float, Float},
		{"int+float", Int, Float, Float},
		{"int+uint", Int, Uint, Uint},
		{"float+vec3", Float, Vec3, Vec3},
		{"vec2+float", Vec2, Float, Vec2},
		{"vec4+vec4", Vec4, Vec4, Vec4},
		{"ivec3+vec3", IVec3, Vec3, Vec3},
		{"int+ivec2", Int, IVec2, IVec2},
		{"mat3+float", Mat3, Float, Mat3},
		{"float*mat4", Float, Mat4, Mat4},
		{"mat2+mat2", Mat2, Mat2, Mat2},
		{"unknown+vec3", Unknown, Vec3, Vec3},
		{"vec2+auto", Vec2, Auto, Vec2},
		{"unknown+mat3", Unknown, Mat3, Mat3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Join("+", tt.a, tt.b)
			if err != nil {
				t.Fatalf("Join() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("Join(+, %s, %s) = %s, want %s", tt.a, tt.b, got, tt.want)
			}
		})
	}
}

func TestJoinMatrixProducts(t *testing.T) {
	tests := []struct {
		name    string
		op      string
		a, b    Type
		want    Type
		wantErr bool
	}{
		{"mat3*vec3", "*", Mat3, Vec3, Vec3, false},
		{"vec4*mat4", "*", Vec4, Mat4, Vec4, false},
		{"mat2*mat2", "*", Mat2, Mat2, Mat2, false},
		{"mat3*vec2", "*", Mat3, Vec2, Unknown, true},
		{"mat3+vec3", "+", Mat3, Vec3, Unknown, true},
		{"mat2*mat3", "*", Mat2, Mat3, Unknown, true},
		{"mat2/mat2", "/", Mat2, Mat2, Unknown, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Join(tt.op, tt.a, tt.b)
			if tt.wantErr {
				if !errors.Is(err, ErrTypeMismatch) {
					t.Fatalf("Join() error = %v, want ErrTypeMismatch", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Join() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("Join(%s, %s, %s) = %s, want %s", tt.op, tt.a, tt.b, got, tt.want)
			}
		})
	}
}

func TestJoinMismatchedArity(t *testing.T) {
	pairs := [][2]Type{
		{Vec2, Vec3},
		{Vec3, Vec4},
		{IVec2, Vec4},
		{Vec3, Sampler2D},
		{StructOf("Light"), Float},
		{Void, Float},
	}
	for _, p := range pairs {
		if _, err := Join("+", p[0], p[1]); !errors.Is(err, ErrTypeMismatch) {
			t.Errorf("Join(+, %s, %s) error = %v, want ErrTypeMismatch", p[0], p[1], err)
		}
	}
}

// TestJoinClosure checks that every numeric pair either joins to a member
// of the lattice or fails with a type mismatch, and that equal-arity
// joins are symmetric.
func TestJoinClosure(t *testing.T) {
	all := []Type{
		Bool, Int, Uint, Float,
		Vec2, Vec3, Vec4, IVec2, IVec3, IVec4, UVec2, UVec3, UVec4, BVec2, BVec3, BVec4,
		Mat2, Mat3, Mat4,
	}
	ops := []string{"+", "-", "*", "/", "<", "==", "&&", "&"}

	for _, op := range ops {
		for _, a := range all {
			for _, b := range all {
				ab, errAB := Join(op, a, b)
				if errAB != nil {
					if !errors.Is(errAB, ErrTypeMismatch) {
						t.Errorf("Join(%s, %s, %s) error = %v, want ErrTypeMismatch", op, a, b, errAB)
					}
				} else if !ab.IsNumeric() {
					t.Errorf("Join(%s, %s, %s) = %s, not a lattice member", op, a, b, ab)
				}

				if a.IsMatrix() || b.IsMatrix() {
					continue
				}
				ba, errBA := Join(op, b, a)
				if (errAB == nil) != (errBA == nil) {
					t.Errorf("Join(%s) not symmetric for %s, %s: %v vs %v", op, a, b, errAB, errBA)
					continue
				}
				if ab != ba {
					t.Errorf("Join(%s, %s, %s) = %s, reversed = %s", op, a, b, ab, ba)
				}
			}
		}
	}
}

func TestJoinComparisonAndLogic(t *testing.T) {
	tests := []struct {
		name    string
		op      string
		a, b    Type
		want    Type
		wantErr bool
	}{
		{"float<float", "<", Float, Float, Bool, false},
		{"vec3==vec3", "==", Vec3, Vec3, BVec3, false},
		{"vec2>float", ">", Vec2, Float, BVec2, false},
		{"bool==bool", "==", Bool, Bool, Bool, false},
		{"bool<bool", "<", Bool, Bool, Unknown, true},
		{"mat2==mat2", "==", Mat2, Mat2, Unknown, true},
		{"bool&&bool", "&&", Bool, Bool, Bool, false},
		{"float&&bool", "&&", Float, Bool, Unknown, true},
		{"int&int", "&", Int, Int, Int, false},
		{"uvec2|uint", "|", UVec2, Uint, UVec2, false},
		{"float&int", "&", Float, Int, Unknown, true},
		{"int<<uint", "<<", Int, Uint, Int, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Join(tt.op, tt.a, tt.b)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Join() error = %v, wantErr %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("Join(%s, %s, %s) = %s, want %s", tt.op, tt.a, tt.b, got, tt.want)
			}
		})
	}
}

func TestParseType(t *testing.T) {
	tests := []struct {
		in   string
		want Type
		ok   bool
	}{
		{"float", Float, true},
		{"vec3", Vec3, true},
		{"ivec4", IVec4, true},
		{"mat4", Mat4, true},
		{"auto", Auto, true},
		{"color", Vec3, true},
		{"sampler2D", Sampler2D, true},
		{"Light", StructOf("Light"), true},
		{"3d", Unknown, false},
		{"", Unknown, false},
	}

	for _, tt := range tests {
		got, ok := ParseType(tt.in)
		if ok != tt.ok || got != tt.want {
			t.Errorf("ParseType(%q) = %s, %v, want %s, %v", tt.in, got, ok, tt.want, tt.ok)
		}
	}
}

func TestTypeString(t *testing.T) {
	for _, typ := range []Type{Bool, Int, Uint, Float, Vec2, IVec3, UVec4, BVec2, Mat3, Sampler2D} {
		back, ok := ParseType(typ.String())
		if !ok || back != typ {
			t.Errorf("ParseType(%q) = %s, want %s", typ.String(), back, typ)
		}
	}
}
