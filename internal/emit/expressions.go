// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package emit

import (
	"strings"

	"github.com/gogpu/shadergraph/graph"
)

// Expression renders n. Operators are fully parenthesized.
func (w *Writer) Expression(n *graph.Node) (string, error) {
	if n == nil {
		return "", graph.NewError(graph.KindTypeMismatch, "missing expression")
	}
	if name, ok := w.bakedName(n); ok {
		return name, nil
	}

	switch n.Kind {
	case graph.KindLiteral:
		return w.literal(n, graph.Infer(n))
	case graph.KindConversion:
		return w.writeConversion(n)
	case graph.KindOperator:
		if len(n.Children) == 1 {
			return w.writeUnary(n)
		}
		return w.writeBinary(n)
	case graph.KindCall:
		return w.writeCall(n)
	case graph.KindDefine:
		return w.writeDefine(n)
	case graph.KindMember:
		return w.writeMember(n)
	case graph.KindElement:
		base, err := w.Expression(n.Arg(0))
		if err != nil {
			return "", err
		}
		index, err := w.Expression(n.Arg(1))
		if err != nil {
			return "", err
		}
		return base + "[" + index + "]", nil
	case graph.KindTernary:
		return w.writeTernary(n)
	case graph.KindVariable, graph.KindParam:
		return w.Local(n.Scope, n.Op), nil
	case graph.KindUniform, graph.KindAttribute, graph.KindBuiltin,
		graph.KindVarying, graph.KindTexture, graph.KindConstant:
		return w.d.Ref(w, n)
	}
	return "", w.Unsupported(n, "%s node in expression position", n.Kind)
}

// Coerce renders n converted to t: mismatched scalar kinds are converted
// and a scalar is splatted to a vector target.
func (w *Writer) Coerce(n *graph.Node, t graph.Type) (string, error) {
	if !t.IsScalar() && !t.IsVector() {
		return w.Expression(n)
	}
	s, err := w.CoerceKind(n, t.Scalar)
	if err != nil {
		return "", err
	}
	if t.IsVector() {
		if nt := graph.Infer(n); nt.IsScalar() {
			return w.d.Construct(t, []string{s})
		}
	}
	return s, nil
}

// literal renders the value of literal n as type t.
func (w *Writer) literal(n *graph.Node, t graph.Type) (string, error) {
	if err := CheckLiteral(n.Value, t); err != nil {
		return "", w.Unsupported(n, "%v", err)
	}
	return w.d.Literal(n.Value, t), nil
}

// CoerceKind renders n with its components converted to kind. Literals
// are rewritten in place.
func (w *Writer) CoerceKind(n *graph.Node, kind graph.ScalarKind) (string, error) {
	t, err := graph.Resolve(n)
	if err != nil {
		return "", err
	}
	if (!t.IsScalar() && !t.IsVector()) || t.Scalar == kind {
		return w.Expression(n)
	}
	if n.Kind == graph.KindLiteral {
		if _, ok := w.bakedName(n); !ok {
			return w.literal(n, graph.ScalarOf(kind))
		}
	}
	s, err := w.Expression(n)
	if err != nil {
		return "", err
	}
	return w.d.Construct(t.WithScalar(kind), []string{s})
}

func (w *Writer) writeConversion(n *graph.Node) (string, error) {
	t := n.Type
	if !t.IsKnown() {
		return "", graph.NewError(graph.KindTypeMismatch, "conversion without a target type")
	}
	args := make([]string, len(n.Children))
	var def *graph.StructDef
	if t.Class == graph.ClassStruct && w.Module != nil {
		def, _ = w.Module.Struct(t.Name)
	}
	for i, c := range n.Children {
		var err error
		switch {
		case def != nil && i < len(def.Fields):
			args[i], err = w.Coerce(c, def.Fields[i].Type)
		case t.IsVector() || t.IsMatrix():
			args[i], err = w.CoerceKind(c, t.Scalar)
		default:
			args[i], err = w.Expression(c)
		}
		if err != nil {
			return "", err
		}
	}
	return w.d.Construct(t, args)
}

func (w *Writer) writeUnary(n *graph.Node) (string, error) {
	t, err := graph.Resolve(n)
	if err != nil {
		return "", err
	}
	a, err := w.Expression(n.Arg(0))
	if err != nil {
		return "", err
	}
	if strings.HasPrefix(a, "-") {
		a = "(" + a + ")"
	}
	return w.d.Unary(n.Op, a, t), nil
}

func (w *Writer) writeBinary(n *graph.Node) (string, error) {
	result, err := graph.Resolve(n)
	if err != nil {
		return "", err
	}
	left, right := n.Arg(0), n.Arg(1)
	lt, err := graph.Resolve(left)
	if err != nil {
		return "", err
	}
	rt, err := graph.Resolve(right)
	if err != nil {
		return "", err
	}

	kind := result.Scalar
	class := graph.ClassifyOp(n.Op)
	switch class {
	case graph.OpComparison:
		kind = lt.Scalar
		if rt.Scalar > kind {
			kind = rt.Scalar
		}
	case graph.OpLogical:
		if lt.IsVector() || rt.IsVector() {
			return "", w.Unsupported(n, "logical %q on vectors; reduce with all or any first", n.Op)
		}
	}

	a, err := w.CoerceKind(left, kind)
	if err != nil {
		return "", err
	}
	rightKind := kind
	if n.Op == "<<" || n.Op == ">>" {
		rightKind = graph.ScalarUint
	}
	b, err := w.CoerceKind(right, rightKind)
	if err != nil {
		return "", err
	}
	lt, rt = lt.WithScalar(kind), rt.WithScalar(rightKind)

	// Comparisons and bitwise operators need operands of one shape.
	if class == graph.OpComparison || class == graph.OpBitwise {
		switch {
		case lt.IsVector() && rt.IsScalar():
			rt = graph.VectorOf(rt.Scalar, int(lt.Size))
			if b, err = w.d.Construct(rt, []string{b}); err != nil {
				return "", err
			}
		case lt.IsScalar() && rt.IsVector():
			lt = graph.VectorOf(lt.Scalar, int(rt.Size))
			if a, err = w.d.Construct(lt, []string{a}); err != nil {
				return "", err
			}
		}
	}

	if n.Op == "%" && kind == graph.ScalarFloat {
		return w.d.FloatMod(a, b, result), nil
	}
	return w.d.Binary(n.Op, a, b, lt, rt), nil
}

func (w *Writer) writeCall(n *graph.Node) (string, error) {
	kind, numeric := graph.ScalarBool, false
	for _, c := range n.Children {
		t, err := graph.Resolve(c)
		if err != nil {
			return "", err
		}
		if (t.IsScalar() || t.IsVector()) && (!numeric || t.Scalar > kind) {
			kind, numeric = t.Scalar, true
		}
	}

	args := make([]string, len(n.Children))
	types := make([]graph.Type, len(n.Children))
	for i, c := range n.Children {
		t := graph.Infer(c)
		var err error
		if numeric && (t.IsScalar() || t.IsVector()) && !isSampling(n.Op) {
			args[i], err = w.CoerceKind(c, kind)
			t = t.WithScalar(kind)
		} else {
			args[i], err = w.Expression(c)
		}
		if err != nil {
			return "", err
		}
		types[i] = t
	}
	return w.d.Call(w, n, args, types)
}

func isSampling(name string) bool {
	return name == "texture" || name == "textureLod"
}

func (w *Writer) writeDefine(n *graph.Node) (string, error) {
	f := n.Func
	if f == nil {
		return "", graph.NewError(graph.KindUnresolvedIdentifier, "call of undefined function %q", n.Op)
	}
	args := make([]string, len(n.Children))
	for i, c := range n.Children {
		var err error
		if i < len(f.Params) {
			args[i], err = w.Coerce(c, graph.Infer(f.Params[i]))
		} else {
			args[i], err = w.Expression(c)
		}
		if err != nil {
			return "", err
		}
	}
	return w.FunctionName(f) + "(" + strings.Join(args, ", ") + ")", nil
}

func (w *Writer) writeMember(n *graph.Node) (string, error) {
	baseNode := n.Arg(0)
	bt, err := graph.Resolve(baseNode)
	if err != nil {
		return "", err
	}
	base, err := w.Expression(baseNode)
	if err != nil {
		return "", err
	}
	switch {
	case bt.Class == graph.ClassStruct:
		return base + "." + w.Names.Escape(n.Op), nil
	case bt.IsScalar():
		if len(n.Op) == 1 {
			return base, nil
		}
		return w.d.Construct(graph.VectorOf(bt.Scalar, len(n.Op)), []string{base})
	case strings.HasPrefix(base, "-"):
		base = "(" + base + ")"
	}
	return base + "." + n.Op, nil
}

func (w *Writer) writeTernary(n *graph.Node) (string, error) {
	t, err := graph.Resolve(n)
	if err != nil {
		return "", err
	}
	cond, err := w.Expression(n.Arg(0))
	if err != nil {
		return "", err
	}
	a, err := w.Coerce(n.Arg(1), t)
	if err != nil {
		return "", err
	}
	b, err := w.Coerce(n.Arg(2), t)
	if err != nil {
		return "", err
	}
	return w.d.Select(cond, a, b), nil
}
