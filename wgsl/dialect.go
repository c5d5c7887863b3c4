// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package wgsl

import (
	"fmt"
	"strings"

	"github.com/gogpu/shadergraph/graph"
	"github.com/gogpu/shadergraph/internal/emit"
)

// builtinFunctions maps built-in function names that WGSL spells
// differently.
var builtinFunctions = map[string]string{
	"inversesqrt": "inverseSqrt",
	"dFdx":        "dpdx",
	"dFdy":        "dpdy",
}

// unsupportedFunctions have no WGSL counterpart.
var unsupportedFunctions = map[string]string{
	"inverse":     "matrix inverse",
	"cubeTexture": "cube texture sampling",
}

// uniformArgs lists the functions whose arguments must all share the
// result type; scalar arguments are splatted. The value is the number of
// leading arguments affected, or -1 for all.
var uniformArgs = map[string]int{
	"clamp":      -1,
	"min":        -1,
	"max":        -1,
	"step":       -1,
	"smoothstep": -1,
	"pow":        -1,
	"atan2":      -1,
	"fma":        -1,
	"mix":        2,
}

// dialect implements emit.Dialect for WGSL.
type dialect struct {
	names *emit.Namer
	stage graph.Stage
}

func (d *dialect) Backend() string { return Backend }

func (d *dialect) TypeName(t graph.Type) (string, error) {
	switch t.Class {
	case graph.ClassScalar:
		return scalarName(t.Scalar), nil
	case graph.ClassVector:
		if t.Scalar == graph.ScalarBool {
			return fmt.Sprintf("vec%d<bool>", t.Size), nil
		}
		return fmt.Sprintf("vec%d%s", t.Size, scalarSuffix(t.Scalar)), nil
	case graph.ClassMatrix:
		return fmt.Sprintf("mat%dx%df", t.Size, t.Size), nil
	case graph.ClassTexture:
		return "texture_2d<f32>", nil
	case graph.ClassSampler:
		return "sampler", nil
	case graph.ClassStruct:
		return d.names.Name("s:"+t.Name, t.Name), nil
	}
	return "", graph.NewError(graph.KindTypeMismatch, "cannot spell type %s", t)
}

func scalarName(k graph.ScalarKind) string {
	switch k {
	case graph.ScalarBool:
		return "bool"
	case graph.ScalarSint:
		return "i32"
	case graph.ScalarUint:
		return "u32"
	default:
		return "f32"
	}
}

func scalarSuffix(k graph.ScalarKind) string {
	switch k {
	case graph.ScalarSint:
		return "i"
	case graph.ScalarUint:
		return "u"
	default:
		return "f"
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
	return name + "(" + strings.Join(args, ", ") + ")", nil
}

func (d *dialect) Binary(op, a, b string, _, _ graph.Type) string {
	return "(" + a + " " + op + " " + b + ")"
}

func (d *dialect) Unary(op, a string, _ graph.Type) string {
	return "(" + op + a + ")"
}

func (d *dialect) FloatMod(a, b string, _ graph.Type) string {
	return fmt.Sprintf("(%s - (%s * floor((%s / %s))))", a, b, a, b)
}

func (d *dialect) Call(w *emit.Writer, n *graph.Node, args []string, types []graph.Type) (string, error) {
	if what, ok := unsupportedFunctions[n.Op]; ok {
		return "", w.Unsupported(n, "%s (%s)", what, n.Op)
	}

	switch n.Op {
	case "texture", "textureLod":
		tex := n.Arg(0)
		if tex == nil || tex.Kind != graph.KindTexture {
			return "", graph.NewError(graph.KindTypeMismatch, "%s needs a texture as first argument", n.Op)
		}
		sampler := samplerName(w.Names, tex.Op)
		if n.Op == "textureLod" {
			return fmt.Sprintf("textureSampleLevel(%s, %s, %s, %s)", args[0], sampler, args[1], args[2]), nil
		}
		if d.stage != graph.StageFragment {
			// Implicit derivatives only exist in fragment shaders.
			return fmt.Sprintf("textureSampleLevel(%s, %s, %s, 0.0)", args[0], sampler, args[1]), nil
		}
		return fmt.Sprintf("textureSample(%s, %s, %s)", args[0], sampler, args[1]), nil
	}

	if count, ok := uniformArgs[n.Op]; ok {
		result := graph.Infer(n)
		if result.IsVector() {
			for i := range args {
				if count >= 0 && i >= count {
					break
				}
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
	return "select(" + b + ", " + a + ", " + cond + ")"
}

func (d *dialect) Ref(w *emit.Writer, n *graph.Node) (string, error) {
	if n.Kind == graph.KindVarying && d.stage == graph.StageVertex {
		return w.Expression(n.Arg(0))
	}
	return w.Global(n.Op), nil
}

func (d *dialect) Declare(name, typ, init string) string {
	return fmt.Sprintf("var %s: %s = %s;", name, typ, init)
}

func (d *dialect) Temp(name, _, init string) string {
	return fmt.Sprintf("let %s = %s;", name, init)
}

func (d *dialect) ForHeader(index string, t graph.Type, bound string) (string, error) {
	typ, err := d.TypeName(t)
	if err != nil {
		return "", err
	}
	zero := emit.FormatLiteral(0, t)
	step := index + "++"
	if t.Scalar == graph.ScalarFloat {
		step = index + " += 1.0"
	}
	return fmt.Sprintf("for (var %s: %s = %s; %s < %s; %s)", index, typ, zero, index, bound, step), nil
}

func (d *dialect) CaseLabels(values []string) []string {
	if values == nil {
		return []string{"default: {"}
	}
	return []string{"case " + strings.Join(values, ", ") + ": {"}
}

func (d *dialect) RequiresDefault() bool { return true }

func (d *dialect) SwizzleAssign() bool { return false }

// samplerName returns the identifier of the sampler paired with a texture.
func samplerName(names *emit.Namer, texture string) string {
	return names.Name("g:"+texture+"#sampler", texture+"Sampler")
}
