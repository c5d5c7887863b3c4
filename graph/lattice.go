package graph

// OpClass groups operators by their typing rule.
type OpClass uint8

const (
	OpArithmetic OpClass = iota // + - * / %
	OpComparison                // == != < <= > >=
	OpLogical                   // && ||
	OpBitwise                   // & | ^ << >>
	OpUnknown
)

// ClassifyOp returns the typing class of a binary operator symbol.
func ClassifyOp(op string) OpClass {
	switch op {
	case "+", "-", "*", "/", "%":
		return OpArithmetic
	case "==", "!=", "<", "<=", ">", ">=":
		return OpComparison
	case "&&", "||":
		return OpLogical
	case "&", "|", "^", "<<", ">>":
		return OpBitwise
	default:
		return OpUnknown
	}
}

func maxKind(a, b ScalarKind) ScalarKind {
	if b > a {
		return b
	}
	return a
}

// Join returns the result type of the binary operator op applied to a and b.
//
// Unknown and auto operands adopt the other operand's type, which is how
// untyped literals and not yet specialized parameters take part in
// inference. Join is symmetric except for matrix-vector products, where
// the column count decides.
func Join(op string, a, b Type) (Type, error) {
	if !a.IsKnown() && !b.IsKnown() {
		return Unknown, nil
	}
	if !a.IsKnown() {
		a = adopt(b)
	}
	if !b.IsKnown() {
		b = adopt(a)
	}
	if !a.IsNumeric() || !b.IsNumeric() {
		return Unknown, mismatch(op, a, b)
	}

	class := ClassifyOp(op)
	switch class {
	case OpLogical:
		if a != Bool || b != Bool {
			return Unknown, mismatch(op, a, b)
		}
		return Bool, nil

	case OpBitwise:
		if !a.IsInteger() || !b.IsInteger() {
			return Unknown, mismatch(op, a, b)
		}
		if op == "<<" || op == ">>" {
			// The shift amount does not change the shape or kind of the value.
			if b.IsVector() && (!a.IsVector() || a.Size != b.Size) {
				return Unknown, mismatch(op, a, b)
			}
			return a, nil
		}
		return joinShape(op, a, b)

	case OpComparison:
		if a.IsMatrix() || b.IsMatrix() {
			return Unknown, mismatch(op, a, b)
		}
		if (a.Scalar == ScalarBool) != (b.Scalar == ScalarBool) {
			return Unknown, mismatch(op, a, b)
		}
		if a.Scalar == ScalarBool && op != "==" && op != "!=" {
			return Unknown, mismatch(op, a, b)
		}
		t, err := joinShape(op, a, b)
		if err != nil {
			return Unknown, err
		}
		return t.WithScalar(ScalarBool), nil

	case OpArithmetic:
		if a.Scalar == ScalarBool || b.Scalar == ScalarBool {
			return Unknown, mismatch(op, a, b)
		}
		if a.IsMatrix() || b.IsMatrix() {
			return joinMatrix(op, a, b)
		}
		return joinShape(op, a, b)
	}
	return Unknown, NewError(KindTypeMismatch, "unknown operator %q", op)
}

// adopt returns the type an unknown operand takes next to t.
// Against a matrix an untyped operand is a float scalar.
func adopt(t Type) Type {
	if t.IsMatrix() {
		return ScalarOf(t.Scalar)
	}
	return t
}

// joinShape combines scalars and vectors.
func joinShape(op string, a, b Type) (Type, error) {
	kind := maxKind(a.Scalar, b.Scalar)
	switch {
	case a.IsScalar() && b.IsScalar():
		return ScalarOf(kind), nil
	case a.IsScalar() && b.IsVector():
		return VectorOf(kind, int(b.Size)), nil
	case a.IsVector() && b.IsScalar():
		return VectorOf(kind, int(a.Size)), nil
	case a.IsVector() && b.IsVector() && a.Size == b.Size:
		return VectorOf(kind, int(a.Size)), nil
	}
	return Unknown, mismatch(op, a, b)
}

func joinMatrix(op string, a, b Type) (Type, error) {
	switch {
	case a.IsMatrix() && b.IsScalar():
		return a, nil
	case a.IsScalar() && b.IsMatrix():
		return b, nil
	case a.IsMatrix() && b.IsMatrix() && a.Size == b.Size:
		if op == "+" || op == "-" || op == "*" {
			return a, nil
		}
	case a.IsMatrix() && b.IsVector() && a.Size == b.Size && op == "*":
		return VectorOf(ScalarFloat, int(a.Size)), nil
	case a.IsVector() && b.IsMatrix() && a.Size == b.Size && op == "*":
		return VectorOf(ScalarFloat, int(b.Size)), nil
	}
	return Unknown, mismatch(op, a, b)
}

// Unify returns the common type of two values that must agree, as in the
// branches of a select. Scalars promote and splat like arithmetic operands.
func Unify(a, b Type) (Type, error) {
	if !a.IsKnown() {
		return b, nil
	}
	if !b.IsKnown() || a == b {
		return a, nil
	}
	if a.IsNumeric() && b.IsNumeric() && !a.IsMatrix() && !b.IsMatrix() {
		return joinShape("select", a, b)
	}
	return Unknown, mismatch("select", a, b)
}

func mismatch(op string, a, b Type) *Error {
	return NewError(KindTypeMismatch, "cannot apply %q to %s and %s", op, a, b)
}
