package graph

import "strings"

// fixedReturns lists built-in functions whose result type does not follow
// their arguments.
var fixedReturns = map[string]Type{
	"length":      Float,
	"distance":    Float,
	"dot":         Float,
	"determinant": Float,
	"cross":       Vec3,
	"all":         Bool,
	"any":         Bool,
	"texture":     Vec4,
	"textureLod":  Vec4,
}

// Infer returns the type of n. It is purely structural: declared types win,
// operators join their operands, calls follow their return rule, member
// access follows the swizzle mask. Infer never fails; unresolvable nodes
// yield Unknown. Use Resolve to learn why.
func Infer(n *Node) Type {
	t, _ := resolve(n)
	return t
}

// Resolve returns the type of n, or an error when the operands of n do not
// combine or the type cannot be determined.
func Resolve(n *Node) (Type, error) {
	t, err := resolve(n)
	if err != nil {
		return Unknown, err
	}
	if !t.IsKnown() && n != nil && !n.Kind.IsStatement() {
		return Unknown, &Error{Kind: KindTypeMismatch, Message: "cannot resolve type of " + n.Kind.String() + " " + n.Op, Node: n}
	}
	return t, nil
}

func resolve(n *Node) (Type, error) {
	if n == nil {
		return Unknown, nil
	}
	if n.Type.IsKnown() {
		return n.Type, nil
	}
	switch n.Kind {
	case KindLiteral:
		return Float, nil

	case KindOperator:
		if len(n.Children) == 1 {
			return resolve(n.Children[0])
		}
		a, err := resolve(n.Arg(0))
		if err != nil {
			return Unknown, err
		}
		b, err := resolve(n.Arg(1))
		if err != nil {
			return Unknown, err
		}
		t, err := Join(n.Op, a, b)
		if e, ok := err.(*Error); ok && e.Node == nil {
			e.Node = n
		}
		return t, err

	case KindCall:
		return callReturn(n)

	case KindDefine:
		if n.Func != nil && n.Func.Result.IsKnown() {
			return n.Func.Result, nil
		}
		return resolve(n.Arg(0))

	case KindMember:
		base, err := resolve(n.Arg(0))
		if err != nil {
			return Unknown, err
		}
		if base.Class == ClassStruct || !IsSwizzle(n.Op) {
			return Unknown, nil
		}
		kind := ScalarFloat
		if base.IsKnown() {
			if base.IsMatrix() {
				return Unknown, &Error{Kind: KindTypeMismatch, Message: "cannot swizzle " + base.String(), Node: n}
			}
			kind = base.Scalar
			for i := 0; i < len(n.Op); i++ {
				if SwizzleIndex(n.Op[i]) >= base.Components() {
					return Unknown, &Error{Kind: KindTypeMismatch, Message: "swizzle ." + n.Op + " out of range for " + base.String(), Node: n}
				}
			}
		}
		return VectorOf(kind, len(n.Op)), nil

	case KindElement:
		base, err := resolve(n.Arg(0))
		if err != nil {
			return Unknown, err
		}
		el, _ := base.Element()
		return el, nil

	case KindTernary:
		a, err := resolve(n.Arg(1))
		if err != nil {
			return Unknown, err
		}
		b, err := resolve(n.Arg(2))
		if err != nil {
			return Unknown, err
		}
		return Unify(a, b)

	case KindUniform, KindVarying, KindConstant, KindAttribute:
		return resolve(n.Arg(0))
	}
	return Unknown, nil
}

func callReturn(n *Node) (Type, error) {
	if t, ok := fixedReturns[n.Op]; ok {
		return t, nil
	}
	// Component-wise functions return their widest argument, so that
	// mix(vec3, vec3, float) and step(float, vec3) are both vec3.
	out := Unknown
	for _, c := range n.Children {
		t, err := resolve(c)
		if err != nil {
			return Unknown, err
		}
		if t.Class == ClassTexture || t.Class == ClassSampler {
			continue
		}
		if !out.IsKnown() || t.Components() > out.Components() {
			out = t
		}
	}
	return out, nil
}

const swizzleSets = "xyzw rgba stpq"

// IsSwizzle reports whether mask is a 1 to 4 component swizzle drawn from a
// single component set.
func IsSwizzle(mask string) bool {
	if len(mask) == 0 || len(mask) > 4 {
		return false
	}
	for _, set := range strings.Fields(swizzleSets) {
		ok := true
		for _, c := range mask {
			if !strings.ContainsRune(set, c) {
				ok = false
				break
			}
		}
		if ok {
			return true
		}
	}
	return false
}

// SwizzleIndex returns the component index of a swizzle letter.
func SwizzleIndex(c byte) int {
	for _, set := range strings.Fields(swizzleSets) {
		if i := strings.IndexByte(set, c); i >= 0 {
			return i
		}
	}
	return -1
}

// HasRepeatedComponents reports whether a swizzle names a component twice.
func HasRepeatedComponents(mask string) bool {
	var seen [4]bool
	for i := 0; i < len(mask); i++ {
		idx := SwizzleIndex(mask[i])
		if idx < 0 {
			continue
		}
		if seen[idx] {
			return true
		}
		seen[idx] = true
	}
	return false
}
