// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package emit

import (
	"fmt"

	"github.com/gogpu/shadergraph/graph"
)

// Block writes the statements of b at the current indentation. The caller
// writes the surrounding braces.
func (w *Writer) Block(b *graph.Block) error {
	if b == nil {
		return nil
	}
	w.EnterBlock(b)
	defer w.LeaveBlock()
	for _, s := range b.Statements {
		if err := w.Statement(s); err != nil {
			return err
		}
	}
	return nil
}

// Bake hoists the shared subexpressions of roots before they are written
// by the caller.
func (w *Writer) Bake(roots ...*graph.Node) error {
	return w.bake(roots...)
}

// Statement writes one statement.
func (w *Writer) Statement(s *graph.Node) error {
	if err := w.bake(s.Children...); err != nil {
		return err
	}

	switch s.Kind {
	case graph.KindDeclare:
		return w.writeDeclare(s)
	case graph.KindAssign:
		return w.writeAssign(s)
	case graph.KindIf:
		return w.writeIf(s)
	case graph.KindLoop:
		return w.writeLoop(s)
	case graph.KindSwitch:
		return w.writeSwitch(s)
	case graph.KindReturn:
		if len(s.Children) == 0 {
			w.Line("return;")
			return nil
		}
		value, err := w.Coerce(s.Children[0], w.Result)
		if err != nil {
			return err
		}
		w.Line("return %s;", value)
	case graph.KindBreak:
		w.Line("break;")
	case graph.KindContinue:
		w.Line("continue;")
	case graph.KindDiscard:
		w.Line("discard;")
	case graph.KindBlock:
		w.Line("{")
		w.Push()
		if err := w.Block(s.Blocks[0]); err != nil {
			return err
		}
		w.Pop()
		w.Line("}")
	case graph.KindEval:
		expr, err := w.Expression(s.Arg(0))
		if err != nil {
			return err
		}
		w.Line("%s;", expr)
	default:
		return w.Unsupported(s, "%s node in statement position", s.Kind)
	}
	return nil
}

func (w *Writer) writeDeclare(s *graph.Node) error {
	t := s.Type
	if !t.IsKnown() {
		var err error
		if t, err = graph.Resolve(s.Arg(0)); err != nil {
			return err
		}
	}
	typ, err := w.d.TypeName(t)
	if err != nil {
		return err
	}
	init, err := w.Coerce(s.Arg(0), t)
	if err != nil {
		return err
	}
	w.Line("%s", w.d.Declare(w.Local(w.Scope(), s.Op), typ, init))
	return nil
}

func (w *Writer) writeAssign(s *graph.Node) error {
	target, value := s.Arg(0), s.Arg(1)
	tt, err := graph.Resolve(target)
	if err != nil {
		return err
	}
	lhs, err := w.Expression(target)
	if err != nil {
		return err
	}

	op := s.Op
	var rhs string
	if op == "=" {
		rhs, err = w.Coerce(value, tt)
	} else {
		rhs, err = w.CoerceKind(value, tt.Scalar)
	}
	if err != nil {
		return err
	}

	if target.Kind == graph.KindMember && len(target.Op) > 1 && !w.d.SwizzleAssign() {
		return w.writeSwizzleAssign(target, op, rhs, graph.Infer(value))
	}

	if op == "%=" && tt.Scalar == graph.ScalarFloat && !tt.IsMatrix() {
		w.Line("%s = %s;", lhs, w.d.FloatMod(lhs, rhs, tt))
		return nil
	}
	w.Line("%s %s %s;", lhs, op, rhs)
	return nil
}

// writeSwizzleAssign lowers base.xy op= value to one assignment per
// component.
func (w *Writer) writeSwizzleAssign(target *graph.Node, op, rhs string, vt graph.Type) error {
	base, err := w.Expression(target.Arg(0))
	if err != nil {
		return err
	}
	bt := graph.Infer(target.Arg(0))
	if vt.IsVector() {
		typ, err := w.d.TypeName(graph.VectorOf(bt.Scalar, len(target.Op)))
		if err != nil {
			return err
		}
		name := w.Names.Fresh(fmt.Sprintf("_e%d", w.temps))
		w.temps++
		w.Line("%s", w.d.Temp(name, typ, rhs))
		rhs = name
	}
	const components = "xyzw"
	for i := 0; i < len(target.Op); i++ {
		value := rhs
		if vt.IsVector() {
			value = rhs + "." + string(components[i])
		}
		c := string(components[graph.SwizzleIndex(target.Op[i])])
		if op == "%=" && bt.Scalar == graph.ScalarFloat {
			lhs := base + "." + c
			w.Line("%s = %s;", lhs, w.d.FloatMod(lhs, value, graph.Float))
			continue
		}
		w.Line("%s.%s %s %s;", base, c, op, value)
	}
	return nil
}

func (w *Writer) writeIf(s *graph.Node) error {
	for i, body := range s.Blocks {
		switch {
		case i == 0:
			cond, err := w.Expression(s.Children[0])
			if err != nil {
				return err
			}
			w.Line("if (%s) {", cond)
		case i < len(s.Children):
			cond, err := w.Expression(s.Children[i])
			if err != nil {
				return err
			}
			w.Line("} else if (%s) {", cond)
		default:
			w.Line("} else {")
		}
		w.Push()
		if err := w.Block(body); err != nil {
			return err
		}
		w.Pop()
	}
	w.Line("}")
	return nil
}

func (w *Writer) writeLoop(s *graph.Node) error {
	bound := s.Arg(0)
	bt, err := graph.Resolve(bound)
	if err != nil {
		return err
	}
	if bt.IsBoolean() {
		cond, err := w.Expression(bound)
		if err != nil {
			return err
		}
		w.Line("while (%s) {", cond)
	} else {
		t := s.Type
		if !t.IsKnown() {
			t = bt
		}
		limit, err := w.CoerceKind(bound, t.Scalar)
		if err != nil {
			return err
		}
		// The index belongs to the loop body, so the header gets a block
		// of its own.
		w.OpenScope()
		defer w.CloseScope()
		header, err := w.d.ForHeader(w.Local(s.Blocks[0].Scope, s.Op), t, limit)
		if err != nil {
			return err
		}
		w.Line("%s {", header)
	}
	w.Push()
	if err := w.Block(s.Blocks[0]); err != nil {
		return err
	}
	w.Pop()
	w.Line("}")
	return nil
}

func (w *Writer) writeSwitch(s *graph.Node) error {
	selector := s.Arg(0)
	st, err := graph.Resolve(selector)
	if err != nil {
		return err
	}
	if !st.IsScalar() || !st.IsInteger() {
		return graph.NewError(graph.KindTypeMismatch, "switch selector must be an integer scalar, got %s", st)
	}
	sel, err := w.Expression(selector)
	if err != nil {
		return err
	}
	w.Line("switch (%s) {", sel)
	w.Push()
	hasDefault := false
	for _, c := range s.Cases {
		var values []string
		if c.IsDefault() {
			hasDefault = true
		} else {
			for _, v := range c.Values {
				lit, err := w.CoerceKind(v, st.Scalar)
				if err != nil {
					return err
				}
				values = append(values, lit)
			}
		}
		for _, label := range w.d.CaseLabels(values) {
			w.Line("%s", label)
		}
		w.Push()
		if err := w.Block(c.Body); err != nil {
			return err
		}
		if !endsWithJump(c.Body) {
			w.Line("break;")
		}
		w.Pop()
		w.Line("}")
	}
	if !hasDefault && w.d.RequiresDefault() {
		for _, label := range w.d.CaseLabels(nil) {
			w.Line("%s", label)
		}
		w.Push()
		w.Line("break;")
		w.Pop()
		w.Line("}")
	}
	w.Pop()
	w.Line("}")
	return nil
}

// endsWithJump reports whether the last statement of b leaves the block.
func endsWithJump(b *graph.Block) bool {
	if b == nil || len(b.Statements) == 0 {
		return false
	}
	switch b.Statements[len(b.Statements)-1].Kind {
	case graph.KindBreak, graph.KindContinue, graph.KindReturn, graph.KindDiscard:
		return true
	}
	return false
}
