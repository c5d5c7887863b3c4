// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package wgsl

import (
	"fmt"
	"strings"

	"fortio.org/safecast"

	"github.com/gogpu/shadergraph/graph"
	"github.com/gogpu/shadergraph/internal/emit"
)

// Writer generates WGSL source code from a module.
type Writer struct {
	module  *graph.Module
	options *Options
	names   *emit.Namer
	dialect *dialect
	out     *emit.Writer
	info    TranslationInfo
}

func newWriter(module *graph.Module, options *Options) *Writer {
	names := emit.NewNamer(graph.ReservedWGSL, false)
	d := &dialect{names: names, stage: module.Stage}
	return &Writer{
		module:  module,
		options: options,
		names:   names,
		dialect: d,
		out:     emit.NewWriter(d, names, module),
		info: TranslationInfo{
			Headers: make(map[string]string),
		},
	}
}

// writeModule writes the complete module: structs, resources, constants,
// stage IO globals, headers and the entry point.
func (w *Writer) writeModule() error {
	if err := emit.CheckBuiltins(Backend, w.module); err != nil {
		return err
	}
	w.registerNames()

	if err := w.writeStructs(); err != nil {
		return err
	}
	if err := w.writeResources(); err != nil {
		return err
	}
	if err := w.writeConstants(); err != nil {
		return err
	}
	if err := w.writeStageGlobals(); err != nil {
		return err
	}
	for _, f := range w.module.Functions {
		if err := w.writeFunction(f); err != nil {
			return fmt.Errorf("function %s: %w", f.Name, err)
		}
	}
	return w.writeEntryPoint()
}

// registerNames allocates module-scope identifiers before any local so
// that locals never shadow them.
func (w *Writer) registerNames() {
	w.info.EntryPoint = w.names.Name("f:#entry", w.options.EntryPoint)
	for _, s := range w.module.Structs {
		w.out.StructName(s.Name)
	}
	for _, g := range w.module.Globals {
		w.out.Global(g.Op)
		if g.Kind == graph.KindTexture {
			samplerName(w.names, g.Op)
		}
	}
	if w.module.Stage == graph.StageFragment {
		for _, v := range w.module.Varyings {
			w.out.Global(v.Op)
		}
	}
	for _, f := range w.module.Functions {
		w.out.FunctionName(f)
	}
}

func (w *Writer) writeStructs() error {
	for _, s := range w.module.Structs {
		w.out.Line("struct %s {", w.out.StructName(s.Name))
		w.out.Push()
		for _, f := range s.Fields {
			typ, err := w.dialect.TypeName(f.Type)
			if err != nil {
				return fmt.Errorf("struct %s: %w", s.Name, err)
			}
			w.out.Line("%s: %s,", w.names.Escape(f.Name), typ)
		}
		w.out.Pop()
		w.out.Line("}")
		w.out.Blank()
	}
	return nil
}

// slot returns the override for name or the default.
func (w *Writer) slot(name string, group, binding uint32) (int, int) {
	if b, ok := w.options.Bindings[name]; ok {
		group, binding = b.Group, b.Binding
	}
	return int(group), int(binding)
}

func (w *Writer) writeResources() error {
	var uniforms, textures uint32
	wrote := false
	for _, g := range w.module.Globals {
		switch g.Kind {
		case graph.KindUniform:
			t := graph.Infer(g)
			if t.IsBoolean() {
				return graph.Unsupported(Backend, g, "bool uniform %q is not host-shareable", g.Op)
			}
			typ, err := w.dialect.TypeName(t)
			if err != nil {
				return err
			}
			group, binding := w.slot(g.Op, w.options.UniformGroup, uniforms)
			uniforms++
			name := w.out.Global(g.Op)
			w.out.Line("@group(%d) @binding(%d) var<uniform> %s: %s;", group, binding, name, typ)
			r := emit.NewResource(emit.ResourceUniform, name, g)
			r.Group, r.Binding = group, binding
			w.info.Resources = append(w.info.Resources, r)
			wrote = true

		case graph.KindTexture:
			k := textures * 2
			textures++
			sg, sb := w.slot(g.Op+"Sampler", w.options.TextureGroup, k)
			tg, tb := w.slot(g.Op, w.options.TextureGroup, k+1)
			sampler := samplerName(w.names, g.Op)
			name := w.out.Global(g.Op)
			w.out.Line("@group(%d) @binding(%d) var %s: sampler;", sg, sb, sampler)
			w.out.Line("@group(%d) @binding(%d) var %s: texture_2d<f32>;", tg, tb, name)

			s := emit.NewResource(emit.ResourceSampler, sampler, g)
			s.Type = graph.Sampler2D.String()
			s.Group, s.Binding = sg, sb
			t := emit.NewResource(emit.ResourceTexture, name, g)
			t.Group, t.Binding = tg, tb
			w.info.Resources = append(w.info.Resources, s, t)
			wrote = true
		}
	}
	if wrote {
		w.out.Blank()
	}
	return nil
}

func (w *Writer) writeConstants() error {
	wrote := false
	for _, g := range w.module.Resources(graph.KindConstant) {
		t := graph.Infer(g)
		typ, err := w.dialect.TypeName(t)
		if err != nil {
			return err
		}
		value, err := w.out.Coerce(g.Arg(0), t)
		if err != nil {
			return fmt.Errorf("constant %s: %w", g.Op, err)
		}
		w.out.Line("const %s: %s = %s;", w.out.Global(g.Op), typ, value)
		wrote = true
	}
	if wrote {
		w.out.Blank()
	}
	return nil
}

// stageInputs returns the builtins, attributes and varyings the entry
// point receives, in declaration order.
func (w *Writer) stageInputs() []*graph.Node {
	var in []*graph.Node
	for _, g := range w.module.Globals {
		if g.Kind == graph.KindBuiltin || g.Kind == graph.KindAttribute {
			in = append(in, g)
		}
	}
	if w.module.Stage == graph.StageFragment {
		in = append(in, w.module.Varyings...)
	}
	return in
}

// writeStageGlobals declares the private copies of the stage inputs.
func (w *Writer) writeStageGlobals() error {
	in := w.stageInputs()
	for _, g := range in {
		typ, err := w.dialect.TypeName(graph.Infer(g))
		if err != nil {
			return err
		}
		w.out.Line("var<private> %s: %s;", w.out.Global(g.Op), typ)
	}
	if len(in) > 0 {
		w.out.Blank()
	}
	return nil
}

// assignedParams returns the parameters f assigns to.
func assignedParams(f *graph.Function) map[*graph.Node]bool {
	assigned := make(map[*graph.Node]bool)
	graph.WalkBlock(f.Body, func(n *graph.Node) bool {
		if n.Kind != graph.KindAssign {
			return true
		}
		target := n.Arg(0)
		for target != nil && (target.Kind == graph.KindMember || target.Kind == graph.KindElement) {
			target = target.Arg(0)
		}
		if target != nil && target.Kind == graph.KindParam {
			for _, p := range f.Params {
				if p.Op == target.Op {
					assigned[p] = true
				}
			}
		}
		return true
	})
	return assigned
}

func (w *Writer) writeFunction(f *graph.Function) error {
	start := w.out.Len()
	assigned := assignedParams(f)

	params := make([]string, len(f.Params))
	var copies []string
	for i, p := range f.Params {
		typ, err := w.dialect.TypeName(graph.Infer(p))
		if err != nil {
			return err
		}
		name := w.out.Local(p.Scope, p.Op)
		if assigned[p] {
			in := w.names.Fresh(p.Op + "_in")
			copies = append(copies, fmt.Sprintf("var %s = %s;", name, in))
			name = in
		}
		params[i] = name + ": " + typ
	}

	result := ""
	if f.Result.IsKnown() && f.Result.Class != graph.ClassVoid {
		typ, err := w.dialect.TypeName(f.Result)
		if err != nil {
			return err
		}
		result = " -> " + typ
	}

	w.out.Line("fn %s(%s)%s {", w.out.FunctionName(f), strings.Join(params, ", "), result)
	w.out.Push()
	for _, c := range copies {
		w.out.Line("%s", c)
	}
	w.out.Result = f.Result
	w.out.Begin(f.Body)
	if err := w.out.Block(f.Body); err != nil {
		return err
	}
	w.out.End()
	w.out.Pop()
	w.out.Line("}")
	w.out.Blank()

	w.info.Headers[f.Name] = w.out.Since(start)
	w.info.HeaderOrder = append(w.info.HeaderOrder, f.Name)
	return nil
}

// entryParams writes the entry parameters and returns them together with
// the statements copying them into the private globals.
func (w *Writer) entryParams() ([]string, []string, error) {
	var params, copies []string
	var attributes uint32
	for _, g := range w.stageInputs() {
		t := graph.Infer(g)
		typ, err := w.dialect.TypeName(t)
		if err != nil {
			return nil, nil, err
		}
		name := w.out.Global(g.Op)
		in := w.names.Fresh(g.Op + "_in")

		var attr string
		switch g.Kind {
		case graph.KindBuiltin:
			attr = "@builtin(" + g.Op + ")"
		case graph.KindAttribute:
			attr = fmt.Sprintf("@location(%d)", attributes)
			r := emit.NewResource(emit.ResourceAttribute, name, g)
			r.Location = int(attributes)
			w.info.Resources = append(w.info.Resources, r)
			attributes++
		case graph.KindVarying:
			loc, err := varyingLocation(w.module, g)
			if err != nil {
				return nil, nil, err
			}
			attr = fmt.Sprintf("@location(%d)%s", loc, interpolation(t))
			r := emit.NewResource(emit.ResourceVarying, name, g)
			r.Location = loc
			w.info.Resources = append(w.info.Resources, r)
		}
		params = append(params, fmt.Sprintf("%s %s: %s", attr, in, typ))
		copies = append(copies, fmt.Sprintf("%s = %s;", name, in))
	}
	return params, copies, nil
}

func varyingLocation(m *graph.Module, v *graph.Node) (int, error) {
	for i, x := range m.Varyings {
		if x == v {
			return safecast.Conv[int](i)
		}
	}
	return 0, graph.NewError(graph.KindUnresolvedIdentifier, "varying %q is not part of the module", v.Op)
}

// interpolation returns the interpolation attribute integer varyings need.
func interpolation(t graph.Type) string {
	if t.IsInteger() {
		return " @interpolate(flat)"
	}
	return ""
}

func (w *Writer) writeEntryPoint() error {
	params, copies, err := w.entryParams()
	if err != nil {
		return err
	}
	m := w.module
	name := w.info.EntryPoint

	var output string
	switch m.Stage {
	case graph.StageFragment:
		w.out.Line("@fragment")
		w.out.Line("fn %s(%s) -> @location(0) vec4f {", name, strings.Join(params, ", "))
	case graph.StageVertex:
		output = w.names.Fresh("VertexOutput")
		if err := w.writeVertexOutput(output); err != nil {
			return err
		}
		w.out.Line("@vertex")
		w.out.Line("fn %s(%s) -> %s {", name, strings.Join(params, ", "), output)
	case graph.StageCompute:
		size := m.Workgroup
		if size[0] == 0 {
			size = [3]uint32{1, 1, 1}
		}
		w.out.Line("@compute @workgroup_size(%d, %d, %d)", size[0], size[1], size[2])
		w.out.Line("fn %s(%s) {", name, strings.Join(params, ", "))
	}

	w.out.Push()
	for _, c := range copies {
		w.out.Line("%s", c)
	}
	roots := []*graph.Node{m.Result}
	if m.Stage == graph.StageVertex {
		roots = append(roots, m.Varyings...)
	}
	w.out.Begin(m.Body, roots...)
	w.out.EnterBlock(m.Body)
	for _, s := range m.Body.Statements {
		if err := w.out.Statement(s); err != nil {
			return err
		}
	}

	switch m.Stage {
	case graph.StageFragment:
		if err := w.out.Bake(m.Result); err != nil {
			return err
		}
		color, err := w.out.Coerce(m.Result, graph.Vec4)
		if err != nil {
			return err
		}
		w.out.Line("return %s;", color)
	case graph.StageVertex:
		if err := w.writeVertexReturn(output); err != nil {
			return err
		}
	}
	w.out.LeaveBlock()
	w.out.End()
	w.out.Pop()
	w.out.Line("}")
	return nil
}

// positionField is the VertexOutput member carrying the clip position.
const positionField = "clip_position"

func (w *Writer) writeVertexOutput(name string) error {
	w.out.Line("struct %s {", name)
	w.out.Push()
	w.out.Line("@builtin(position) %s: vec4f,", positionField)
	for i, v := range w.module.Varyings {
		t := graph.Infer(v)
		typ, err := w.dialect.TypeName(t)
		if err != nil {
			return err
		}
		loc, err := safecast.Conv[int](i)
		if err != nil {
			return err
		}
		field := w.names.Escape(v.Op)
		w.out.Line("@location(%d)%s %s: %s,", loc, interpolation(t), field, typ)
		r := emit.NewResource(emit.ResourceVarying, field, v)
		r.Location = loc
		w.info.Resources = append(w.info.Resources, r)
	}
	w.out.Pop()
	w.out.Line("}")
	w.out.Blank()
	return nil
}

func (w *Writer) writeVertexReturn(output string) error {
	m := w.module
	if err := w.out.Bake(m.Result); err != nil {
		return err
	}
	for _, v := range m.Varyings {
		if err := w.out.Bake(v.Arg(0)); err != nil {
			return err
		}
	}
	position, err := w.out.Coerce(m.Result, graph.Vec4)
	if err != nil {
		return err
	}
	out := w.names.Fresh("out")
	w.out.Line("var %s: %s;", out, output)
	w.out.Line("%s.%s = %s;", out, positionField, position)
	for _, v := range m.Varyings {
		value, err := w.out.Coerce(v.Arg(0), graph.Infer(v))
		if err != nil {
			return fmt.Errorf("varying %s: %w", v.Op, err)
		}
		w.out.Line("%s.%s = %s;", out, w.names.Escape(v.Op), value)
	}
	w.out.Line("return %s;", out)
	return nil
}
