package graph

import "fmt"

// ValidateLayout checks a function layout before any body is captured.
// Every problem is reported as a KindLayoutMismatch error.
func ValidateLayout(l Layout) error {
	var errs Errors
	add := func(format string, args ...any) {
		errs = append(errs, NewError(KindLayoutMismatch, "layout %q: "+format, append([]any{l.Name}, args...)...))
	}

	if !IsIdentifier(l.Name) {
		add("invalid function name")
	} else if IsReserved(l.Name) {
		add("function name is reserved")
	}
	if l.Type.Class == ClassUnknown {
		add("unknown return type")
	}

	seen := make(map[string]struct{}, len(l.Inputs))
	for i, in := range l.Inputs {
		switch {
		case in.Name == "":
			add("parameter %d has no name", i)
		case !IsIdentifier(in.Name):
			add("parameter %d: invalid name %q", i, in.Name)
		case IsReserved(in.Name):
			add("parameter %d: name %q is reserved", i, in.Name)
		}
		if _, dup := seen[in.Name]; dup && in.Name != "" {
			add("duplicate parameter %q", in.Name)
		}
		seen[in.Name] = struct{}{}

		switch in.Type.Class {
		case ClassUnknown:
			add("parameter %q has unknown type", in.Name)
		case ClassVoid:
			add("parameter %q cannot be void", in.Name)
		}
	}
	return errs.Err()
}

// Validate checks that every expression of the module has a resolvable type
// and that statements are well formed. It returns the list of problems, or
// an error if the module itself is unusable.
func Validate(m *Module) (Errors, error) {
	if m == nil {
		return nil, fmt.Errorf("module is nil")
	}
	v := &validator{module: m}
	for _, f := range m.Functions {
		v.function = f
		v.block(f.Body)
	}
	v.function = nil
	v.block(m.Body)
	if m.Result != nil {
		v.expr(m.Result)
	}
	return v.errors, nil
}

type validator struct {
	module   *Module
	function *Function
	errors   Errors
}

func (v *validator) add(n *Node, kind ErrorKind, format string, args ...any) {
	e := NewError(kind, format, args...)
	e.Node = n
	if v.function != nil {
		e.Message = "in function " + v.function.Name + ": " + e.Message
	}
	v.errors = append(v.errors, e)
}

func (v *validator) expr(n *Node) Type {
	t, err := Resolve(n)
	if err != nil {
		if e, ok := err.(*Error); ok {
			if v.function != nil {
				e.Message = "in function " + v.function.Name + ": " + e.Message
			}
			v.errors = append(v.errors, e)
		}
		return Unknown
	}
	return t
}

func (v *validator) block(b *Block) {
	if b == nil {
		return
	}
	for _, s := range b.Statements {
		v.statement(s)
	}
}

//nolint:gocyclo,cyclop // one case per statement kind
func (v *validator) statement(s *Node) {
	switch s.Kind {
	case KindDeclare:
		v.expr(s.Arg(0))

	case KindAssign:
		target, value := s.Arg(0), s.Arg(1)
		if !target.IsLValue() {
			v.add(s, KindNotAssignable, "cannot assign to %s", target.Kind)
		}
		tt, vt := v.expr(target), v.expr(value)
		if tt.IsKnown() && vt.IsKnown() {
			op := "="
			if len(s.Op) > 1 {
				op = s.Op[:len(s.Op)-1]
			}
			if op == "=" {
				if _, err := Unify(tt, vt); err != nil || (vt.IsVector() && tt != vt.WithScalar(tt.Scalar)) {
					v.add(s, KindTypeMismatch, "cannot assign %s to %s", vt, tt)
				}
			} else if _, err := Join(op, tt, vt); err != nil {
				v.add(s, KindTypeMismatch, "cannot apply %q to %s and %s", s.Op, tt, vt)
			}
		}

	case KindIf:
		for _, c := range s.Children {
			if t := v.expr(c); t.IsKnown() && t != Bool {
				v.add(c, KindTypeMismatch, "if condition must be bool, got %s", t)
			}
		}
		for _, b := range s.Blocks {
			v.block(b)
		}

	case KindLoop:
		if t := v.expr(s.Arg(0)); t.IsKnown() && !t.IsScalar() {
			v.add(s, KindTypeMismatch, "loop bound must be a scalar, got %s", t)
		}
		v.block(s.Blocks[0])

	case KindSwitch:
		if t := v.expr(s.Arg(0)); t.IsKnown() && (!t.IsScalar() || !t.IsInteger()) {
			v.add(s, KindTypeMismatch, "switch selector must be an integer scalar, got %s", t)
		}
		seen := make(map[float64]struct{})
		for _, c := range s.Cases {
			for _, val := range c.Values {
				if val.Kind != KindLiteral {
					v.add(val, KindTypeMismatch, "case value must be a literal")
					continue
				}
				if _, dup := seen[val.Value]; dup {
					v.add(val, KindRedeclared, "duplicate case value %g", val.Value)
				}
				seen[val.Value] = struct{}{}
			}
			v.block(c.Body)
		}

	case KindReturn:
		if v.function == nil {
			if s.Arg(0) != nil {
				v.expr(s.Arg(0))
			}
			return
		}
		if s.Arg(0) == nil {
			if v.function.Result != Void {
				v.add(s, KindLayoutMismatch, "missing return value of type %s", v.function.Result)
			}
			return
		}
		if t := v.expr(s.Arg(0)); t.IsKnown() && v.function.Result.IsKnown() {
			if _, err := Unify(v.function.Result, t); err != nil || t.Components() > v.function.Result.Components() {
				v.add(s, KindLayoutMismatch, "returns %s, declared %s", t, v.function.Result)
			}
		}

	case KindBlock:
		v.block(s.Blocks[0])

	case KindEval:
		v.expr(s.Arg(0))
	}
}
