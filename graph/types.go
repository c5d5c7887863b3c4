package graph

import (
	"fmt"
	"strings"
	"unicode"
)

// Class represents the shape of a type.
type Class uint8

const (
	ClassUnknown Class = iota // Not declared; resolved by Infer
	ClassAuto                 // Layout placeholder resolved from call-site arguments
	ClassVoid
	ClassScalar
	ClassVector
	ClassMatrix
	ClassTexture
	ClassSampler
	ClassStruct
)

// ScalarKind represents scalar component kinds.
// The order is the promotion rank: a join always picks the higher kind.
type ScalarKind uint8

const (
	ScalarBool  ScalarKind = iota // Boolean
	ScalarSint                    // Signed 32-bit integer
	ScalarUint                    // Unsigned 32-bit integer
	ScalarFloat                   // 32-bit float
)

// String returns the kind name.
func (k ScalarKind) String() string {
	switch k {
	case ScalarBool:
		return "bool"
	case ScalarSint:
		return "int"
	case ScalarUint:
		return "uint"
	case ScalarFloat:
		return "float"
	default:
		return fmt.Sprintf("scalar(%d)", uint8(k))
	}
}

// Type describes the GPU-side type of a node.
//
// Size is the component count of a vector or the dimension of a square
// matrix. Name is only set for struct types.
type Type struct {
	Class  Class
	Scalar ScalarKind
	Size   uint8
	Name   string
}

// Predefined types.
var (
	Unknown = Type{}
	Auto    = Type{Class: ClassAuto}
	Void    = Type{Class: ClassVoid}

	Bool  = Type{Class: ClassScalar, Scalar: ScalarBool, Size: 1}
	Int   = Type{Class: ClassScalar, Scalar: ScalarSint, Size: 1}
	Uint  = Type{Class: ClassScalar, Scalar: ScalarUint, Size: 1}
	Float = Type{Class: ClassScalar, Scalar: ScalarFloat, Size: 1}

	Vec2 = Type{Class: ClassVector, Scalar: ScalarFloat, Size: 2}
	Vec3 = Type{Class: ClassVector, Scalar: ScalarFloat, Size: 3}
	Vec4 = Type{Class: ClassVector, Scalar: ScalarFloat, Size: 4}

	IVec2 = Type{Class: ClassVector, Scalar: ScalarSint, Size: 2}
	IVec3 = Type{Class: ClassVector, Scalar: ScalarSint, Size: 3}
	IVec4 = Type{Class: ClassVector, Scalar: ScalarSint, Size: 4}

	UVec2 = Type{Class: ClassVector, Scalar: ScalarUint, Size: 2}
	UVec3 = Type{Class: ClassVector, Scalar: ScalarUint, Size: 3}
	UVec4 = Type{Class: ClassVector, Scalar: ScalarUint, Size: 4}

	BVec2 = Type{Class: ClassVector, Scalar: ScalarBool, Size: 2}
	BVec3 = Type{Class: ClassVector, Scalar: ScalarBool, Size: 3}
	BVec4 = Type{Class: ClassVector, Scalar: ScalarBool, Size: 4}

	Mat2 = Type{Class: ClassMatrix, Scalar: ScalarFloat, Size: 2}
	Mat3 = Type{Class: ClassMatrix, Scalar: ScalarFloat, Size: 3}
	Mat4 = Type{Class: ClassMatrix, Scalar: ScalarFloat, Size: 4}

	Texture2D = Type{Class: ClassTexture, Scalar: ScalarFloat}
	Sampler2D = Type{Class: ClassSampler}
)

// StructOf returns the type of the named struct.
func StructOf(name string) Type {
	return Type{Class: ClassStruct, Name: name}
}

// ScalarOf returns the scalar type of the given kind.
func ScalarOf(kind ScalarKind) Type {
	return Type{Class: ClassScalar, Scalar: kind, Size: 1}
}

// VectorOf returns a vector type, or a scalar type when size is 1.
func VectorOf(kind ScalarKind, size int) Type {
	if size == 1 {
		return ScalarOf(kind)
	}
	return Type{Class: ClassVector, Scalar: kind, Size: uint8(size)} //nolint:gosec // G115: size is a component count (1..4)
}

// IsKnown reports whether t is a concrete type.
func (t Type) IsKnown() bool {
	return t.Class != ClassUnknown && t.Class != ClassAuto
}

// IsScalar reports whether t is a scalar.
func (t Type) IsScalar() bool { return t.Class == ClassScalar }

// IsVector reports whether t is a vector.
func (t Type) IsVector() bool { return t.Class == ClassVector }

// IsMatrix reports whether t is a square matrix.
func (t Type) IsMatrix() bool { return t.Class == ClassMatrix }

// IsNumeric reports whether t is a scalar, vector or matrix.
func (t Type) IsNumeric() bool {
	return t.Class == ClassScalar || t.Class == ClassVector || t.Class == ClassMatrix
}

// IsInteger reports whether t is a signed or unsigned scalar or vector.
func (t Type) IsInteger() bool {
	return (t.IsScalar() || t.IsVector()) && (t.Scalar == ScalarSint || t.Scalar == ScalarUint)
}

// IsBoolean reports whether t is a boolean scalar or vector.
func (t Type) IsBoolean() bool {
	return (t.IsScalar() || t.IsVector()) && t.Scalar == ScalarBool
}

// Components returns the number of scalar components of t.
func (t Type) Components() int {
	switch t.Class {
	case ClassScalar:
		return 1
	case ClassVector:
		return int(t.Size)
	case ClassMatrix:
		return int(t.Size) * int(t.Size)
	default:
		return 0
	}
}

// Element returns the element type of an indexable type: the scalar of a
// vector and the column vector of a matrix.
func (t Type) Element() (Type, bool) {
	switch t.Class {
	case ClassVector:
		return ScalarOf(t.Scalar), true
	case ClassMatrix:
		return VectorOf(t.Scalar, int(t.Size)), true
	default:
		return Unknown, false
	}
}

// WithScalar returns t with its component kind replaced.
func (t Type) WithScalar(kind ScalarKind) Type {
	if t.Class == ClassScalar || t.Class == ClassVector {
		t.Scalar = kind
	}
	return t
}

// String returns the canonical name used in layouts and diagnostics
// ("float", "vec3", "ivec2", "mat4", "sampler2D", struct name).
func (t Type) String() string {
	switch t.Class {
	case ClassUnknown:
		return "unknown"
	case ClassAuto:
		return "auto"
	case ClassVoid:
		return "void"
	case ClassScalar:
		return t.Scalar.String()
	case ClassVector:
		return vectorPrefix(t.Scalar) + fmt.Sprintf("vec%d", t.Size)
	case ClassMatrix:
		return fmt.Sprintf("mat%d", t.Size)
	case ClassTexture:
		return "texture"
	case ClassSampler:
		return "sampler2D"
	case ClassStruct:
		return t.Name
	default:
		return "invalid"
	}
}

func vectorPrefix(k ScalarKind) string {
	switch k {
	case ScalarBool:
		return "b"
	case ScalarSint:
		return "i"
	case ScalarUint:
		return "u"
	default:
		return ""
	}
}

var typeNames = map[string]Type{
	"auto":      Auto,
	"void":      Void,
	"bool":      Bool,
	"int":       Int,
	"uint":      Uint,
	"float":     Float,
	"vec2":      Vec2,
	"vec3":      Vec3,
	"vec4":      Vec4,
	"ivec2":     IVec2,
	"ivec3":     IVec3,
	"ivec4":     IVec4,
	"uvec2":     UVec2,
	"uvec3":     UVec3,
	"uvec4":     UVec4,
	"bvec2":     BVec2,
	"bvec3":     BVec3,
	"bvec4":     BVec4,
	"color":     Vec3,
	"mat2":      Mat2,
	"mat3":      Mat3,
	"mat4":      Mat4,
	"texture":   Texture2D,
	"sampler2D": Sampler2D,
}

// ParseType returns the type with the given canonical name.
// Names that are not built in are treated as struct names when they are
// valid identifiers.
func ParseType(name string) (Type, bool) {
	if t, ok := typeNames[name]; ok {
		return t, true
	}
	if IsIdentifier(name) {
		return StructOf(name), true
	}
	return Unknown, false
}

// IsIdentifier reports whether name is a valid identifier.
// Non-ASCII letters are accepted; backends that only allow ASCII rename them.
func IsIdentifier(name string) bool {
	if name == "" {
		return false
	}
	for i, r := range name {
		switch {
		case r == '_', unicode.IsLetter(r):
		case unicode.IsDigit(r):
			if i == 0 {
				return false
			}
		default:
			return false
		}
	}
	// A lone underscore and double-underscore prefixes are reserved in WGSL and GLSL.
	return name != "_" && !strings.HasPrefix(name, "__")
}
