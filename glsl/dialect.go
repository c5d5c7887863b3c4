// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package glsl

import (
	"fmt"
	"strings"

	"github.com/gogpu/shadergraph/graph"
	"github.com/gogpu/shadergraph/internal/emit"
)

// vectorComparisons maps comparison operators to the component-wise
// functions GLSL requires for vector operands.
var vectorComparisons = map[string]string{
	"<":  "lessThan",
	"<=": "lessThanEqual",
	">":  "greaterThan",
	">=": "greaterThanEqual",
	"==": "equal",
	"!=": "notEqual",
}

// builtinFunctions maps built-in function names that GLSL spells
// differently.
var builtinFunctions = map[string]string{
	"atan2": "atan",
}

// sameTypeArgs lists functions whose arguments must all share the result
// type in GLSL.
var sameTypeArgs = map[string]bool{
	"pow":   true,
	"atan2": true,
	"fma":   true,
}

// builtinVariables maps input builtins to GLSL built-in variables.
var builtinVariables = map[string]string{
	"position":               "gl_FragCoord",
	"front_facing":           "gl_FrontFacing",
	"vertex_index":           "uint(gl_VertexID)",
	"instance_index":         "uint(gl_InstanceID)",
	"sample_index":           "uint(gl_SampleID)",
	"sample_mask":            "uint(gl_SampleMaskIn[0])",
	"global_invocation_id":   "gl_GlobalInvocationID",
	"local_invocation_id":    "gl_LocalInvocationID",
	"local_invocation_index": "gl_LocalInvocationIndex",
	"workgroup_id":           "gl_WorkGroupID",
	"num_workgroups":         "gl_NumWorkGroups",
}

// dialect implements emit.Dialect for GLSL.
type dialect struct {
	names   *emit.Namer
	version Version
	stage   graph.Stage
}

func (d *dialect) Backend() string { return "glsl " + d.version.String() }

func (d *dialect) TypeName(t graph.Type) (string, error) {
	switch t.Class {
	case graph.ClassScalar:
		return t.Scalar.String(), nil
	case graph.ClassVector:
		return fmt.Sprintf("%svec%d", vectorPrefix(t.Scalar), t.Size), nil
	case graph.ClassMatrix:
		return fmt.Sprintf("mat%d", t.Size), nil
	case graph.ClassTexture, graph.ClassSampler:
		return "sampler2D", nil
	case graph.ClassStruct:
		return d.names.Name("s:"+t.Name, t.Name), nil
	}
	return "", graph.NewError(graph.KindTypeMismatch, "cannot spell type %s", t)
}

func vectorPrefix(k graph.ScalarKind) string {
	switch k {
	case graph.ScalarBool:
		return "b"
	case graph.ScalarSint:
		return "i"
	case graph.ScalarUint:
		return "u"
	default:
		return ""
	}
}

func (d *dialect) Literal(v float64, t graph.Type) string {
	return emit.FormatLiteral(v, t)
}

func (d *dialect) Construct(t graph.Type, args []string) (string, error) {
	name, err := d.TypeName(t)
	if err != nil {
		return "", err
	}
	if len(args) == 0 && t.Class != graph.ClassStruct {
		args = []string{emit.FormatLiteral(0, graph.ScalarOf(t.Scalar))}
	}
	return name + "(" + strings.Join(args, ", ") + ")", nil
}

func (d *dialect) Binary(op, a, b string, lt, rt graph.Type) string {
	if fn, ok := vectorComparisons[op]; ok && (lt.IsVector() || rt.IsVector()) {
		return fn + "(" + a + ", " + b + ")"
	}
	return "(" + a + " " + op + " " + b + ")"
}

func (d *dialect) Unary(op, a string, t graph.Type) string {
	if op == "!" && t.IsVector() {
		return "not(" + a + ")"
	}
	return "(" + op + a + ")"
}

func (d *dialect) FloatMod(a, b string, _ graph.Type) string {
	return "mod(" + a + ", " + b + ")"
}

func (d *dialect) Call(w *emit.Writer, n *graph.Node, args []string, types []graph.Type) (string, error) {
	switch n.Op {
	case "cubeTexture":
		return "", w.Unsupported(n, "cube texture sampling")
	case "fma":
		if !d.version.SupportsFMA() {
			return "", w.Unsupported(n, "fma")
		}
	case "texture", "textureLod":
		if tex := n.Arg(0); tex == nil || tex.Kind != graph.KindTexture {
			return "", graph.NewError(graph.KindTypeMismatch, "%s needs a texture as first argument", n.Op)
		}
	}

	if sameTypeArgs[n.Op] {
		if result := graph.Infer(n); result.IsVector() {
			for i := range args {
				if types[i].IsScalar() {
					s, err := d.Construct(result, []string{args[i]})
					if err != nil {
						return "", err
					}
					args[i] = s
				}
			}
		}
	}

	name := n.Op
	if mapped, ok := builtinFunctions[name]; ok {
		name = mapped
	}
	return name + "(" + strings.Join(args, ", ") + ")", nil
}

func (d *dialect) Select(cond, a, b string) string {
	return "(" + cond + " ? " + a + " : " + b + ")"
}

func (d *dialect) Ref(w *emit.Writer, n *graph.Node) (string, error) {
	switch n.Kind {
	case graph.KindBuiltin:
		v, ok := builtinVariables[n.Op]
		if !ok {
			return "", w.Unsupported(n, "builtin %q", n.Op)
		}
		if (n.Op == "sample_index" || n.Op == "sample_mask") && !d.version.SupportsSampleVariables() {
			return "", w.Unsupported(n, "builtin %q", n.Op)
		}
		return v, nil
	case graph.KindVarying:
		if d.stage == graph.StageVertex {
			return w.Expression(n.Arg(0))
		}
	}
	return w.Global(n.Op), nil
}

func (d *dialect) Declare(name, typ, init string) string {
	return typ + " " + name + " = " + init + ";"
}

func (d *dialect) Temp(name, typ, init string) string {
	return typ + " " + name + " = " + init + ";"
}

func (d *dialect) ForHeader(index string, t graph.Type, bound string) (string, error) {
	typ, err := d.TypeName(t)
	if err != nil {
		return "", err
	}
	one := emit.FormatLiteral(1, t)
	return fmt.Sprintf("for (%s %s = %s; %s < %s; %s += %s)", typ, index, emit.FormatLiteral(0, t), index, bound, index, one), nil
}

func (d *dialect) CaseLabels(values []string) []string {
	if values == nil {
		return []string{"default: {"}
	}
	labels := make([]string, len(values))
	for i, v := range values {
		labels[i] = "case " + v + ":"
	}
	labels[len(labels)-1] += " {"
	return labels
}

func (d *dialect) RequiresDefault() bool { return false }

func (d *dialect) SwizzleAssign() bool { return true }
