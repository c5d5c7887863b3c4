// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package glsl

import (
	"fmt"
	"strings"

	"fortio.org/safecast"

	"github.com/gogpu/shadergraph/graph"
	"github.com/gogpu/shadergraph/internal/emit"
)

// Writer generates GLSL source code from a module.
type Writer struct {
	module  *graph.Module
	options *Options
	names   *emit.Namer
	dialect *dialect
	out     *emit.Writer
	info    TranslationInfo

	fragColor string
}

func newWriter(module *graph.Module, options *Options) *Writer {
	names := emit.NewNamer(graph.ReservedGLSL, true)
	d := &dialect{names: names, version: options.LangVersion, stage: module.Stage}
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

// writeModule writes the complete module in GLSL order: version directive,
// precision, structs, uniforms, constants, stage IO, headers and main.
func (w *Writer) writeModule() error {
	if w.module.Stage == graph.StageCompute && !w.options.LangVersion.SupportsCompute() {
		return graph.Unsupported(w.dialect.Backend(), nil, "compute stage")
	}
	if err := emit.CheckBuiltins(w.dialect.Backend(), w.module); err != nil {
		return err
	}
	w.registerNames()

	w.out.Line("#version %s", w.options.LangVersion)
	w.out.Blank()
	if w.options.LangVersion.ES && w.options.ForceHighPrecision {
		w.out.Line("precision highp float;")
		w.out.Line("precision highp int;")
		w.out.Line("precision highp sampler2D;")
		w.out.Blank()
	}
	if w.module.Stage == graph.StageCompute {
		size := w.module.Workgroup
		if size[0] == 0 {
			size = [3]uint32{1, 1, 1}
		}
		w.out.Line("layout(local_size_x = %d, local_size_y = %d, local_size_z = %d) in;", size[0], size[1], size[2])
		w.out.Blank()
	}

	if err := w.writeStructs(); err != nil {
		return err
	}
	if err := w.writeUniforms(); err != nil {
		return err
	}
	if err := w.writeConstants(); err != nil {
		return err
	}
	if err := w.writeStageIO(); err != nil {
		return err
	}
	for _, f := range w.module.Functions {
		if err := w.writeFunction(f); err != nil {
			return fmt.Errorf("function %s: %w", f.Name, err)
		}
	}
	return w.writeMain()
}

// registerNames allocates module-scope identifiers before any local.
// Varyings come first so that both stages of a program agree on them.
func (w *Writer) registerNames() {
	w.names.Reserve("main")
	for _, v := range w.module.Varyings {
		w.out.Global(v.Op)
	}
	for _, s := range w.module.Structs {
		w.out.StructName(s.Name)
	}
	for _, g := range w.module.Globals {
		if g.Kind != graph.KindBuiltin {
			w.out.Global(g.Op)
		}
	}
	if w.module.Stage == graph.StageFragment {
		w.fragColor = w.names.Fresh("fragColor")
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
			w.out.Line("%s %s;", typ, w.names.Escape(f.Name))
		}
		w.out.Pop()
		w.out.Line("};")
		w.out.Blank()
	}
	return nil
}

func (w *Writer) writeUniforms() error {
	unit := w.options.TextureBindingBase
	wrote := false
	for _, g := range w.module.Globals {
		switch g.Kind {
		case graph.KindUniform:
			typ, err := w.dialect.TypeName(graph.Infer(g))
			if err != nil {
				return err
			}
			name := w.out.Global(g.Op)
			w.out.Line("uniform %s %s;", typ, name)
			w.info.Resources = append(w.info.Resources, emit.NewResource(emit.ResourceUniform, name, g))
			wrote = true
		case graph.KindTexture:
			name := w.out.Global(g.Op)
			w.out.Line("uniform sampler2D %s;", name)
			r := emit.NewResource(emit.ResourceTexture, name, g)
			r.Type = graph.Sampler2D.String()
			binding, err := safecast.Conv[int](unit)
			if err != nil {
				return err
			}
			r.Binding = binding
			unit++
			w.info.Resources = append(w.info.Resources, r)
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
		w.out.Line("const %s %s = %s;", typ, w.out.Global(g.Op), value)
		wrote = true
	}
	if wrote {
		w.out.Blank()
	}
	return nil
}

// writeStageIO declares attributes, varyings and the fragment output.
func (w *Writer) writeStageIO() error {
	m := w.module
	wrote := false
	location := 0
	for _, g := range m.Resources(graph.KindAttribute) {
		typ, err := w.dialect.TypeName(graph.Infer(g))
		if err != nil {
			return err
		}
		name := w.out.Global(g.Op)
		w.out.Line("layout(location = %d) in %s %s;", location, typ, name)
		r := emit.NewResource(emit.ResourceAttribute, name, g)
		r.Location = location
		w.info.Resources = append(w.info.Resources, r)
		location++
		wrote = true
	}

	qualifier := "in"
	if m.Stage == graph.StageVertex {
		qualifier = "out"
	}
	for i, v := range m.Varyings {
		t := graph.Infer(v)
		typ, err := w.dialect.TypeName(t)
		if err != nil {
			return err
		}
		name := w.out.Global(v.Op)
		flat := ""
		if t.IsInteger() {
			flat = "flat "
		}
		w.out.Line("%s%s %s %s;", flat, qualifier, typ, name)
		r := emit.NewResource(emit.ResourceVarying, name, v)
		r.Location = i
		w.info.Resources = append(w.info.Resources, r)
		wrote = true
	}

	if m.Stage == graph.StageFragment {
		w.out.Line("layout(location = 0) out vec4 %s;", w.fragColor)
		wrote = true
	}
	if wrote {
		w.out.Blank()
	}
	return nil
}

func (w *Writer) writeFunction(f *graph.Function) error {
	start := w.out.Len()
	params := make([]string, len(f.Params))
	for i, p := range f.Params {
		typ, err := w.dialect.TypeName(graph.Infer(p))
		if err != nil {
			return err
		}
		params[i] = typ + " " + w.out.Local(p.Scope, p.Op)
	}

	result := "void"
	if f.Result.IsKnown() && f.Result.Class != graph.ClassVoid {
		typ, err := w.dialect.TypeName(f.Result)
		if err != nil {
			return err
		}
		result = typ
	}

	w.out.Line("%s %s(%s) {", result, w.out.FunctionName(f), strings.Join(params, ", "))
	w.out.Push()
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

func (w *Writer) writeMain() error {
	m := w.module
	w.out.Line("void main() {")
	w.out.Push()

	var roots []*graph.Node
	if m.Result != nil {
		roots = append(roots, m.Result)
	}
	if m.Stage == graph.StageVertex {
		for _, v := range m.Varyings {
			roots = append(roots, v.Arg(0))
		}
	}
	w.out.Begin(m.Body, roots...)
	w.out.EnterBlock(m.Body)
	for _, s := range m.Body.Statements {
		if err := w.out.Statement(s); err != nil {
			return err
		}
	}
	if err := w.out.Bake(roots...); err != nil {
		return err
	}

	switch m.Stage {
	case graph.StageFragment:
		color, err := w.out.Coerce(m.Result, graph.Vec4)
		if err != nil {
			return err
		}
		w.out.Line("%s = %s;", w.fragColor, color)
	case graph.StageVertex:
		position, err := w.out.Coerce(m.Result, graph.Vec4)
		if err != nil {
			return err
		}
		w.out.Line("gl_Position = %s;", position)
		for _, v := range m.Varyings {
			value, err := w.out.Coerce(v.Arg(0), graph.Infer(v))
			if err != nil {
				return fmt.Errorf("varying %s: %w", v.Op, err)
			}
			w.out.Line("%s = %s;", w.out.Global(v.Op), value)
		}
	}
	w.out.LeaveBlock()
	w.out.End()
	w.out.Pop()
	w.out.Line("}")
	return nil
}
