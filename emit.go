package shadergraph

import (
	"fmt"

	"github.com/gogpu/shadergraph/glsl"
	"github.com/gogpu/shadergraph/graph"
	"github.com/gogpu/shadergraph/wgsl"
)

// Target selects the code generation backend.
type Target struct {
	// GLSL selects the GLSL backend; the default is WGSL.
	GLSL bool

	// GLSLVersion is the GLSL target. Defaults to GLSL ES 3.00 (WebGL 2).
	GLSLVersion glsl.Version

	// Bindings overrides WGSL resource slots by declared name.
	Bindings map[string]wgsl.Binding
}

// Backend returns the name of the selected backend.
func (t Target) Backend() string {
	if !t.GLSL {
		return wgsl.Backend
	}
	v := t.GLSLVersion
	if v.Major == 0 {
		v = glsl.VersionES300
	}
	return "glsl " + v.String()
}

// Output is the result of serializing one module.
type Output struct {
	// Source is the complete shader source.
	Source string

	// Headers maps each hoisted function name to its definition.
	Headers map[string]string

	// HeaderOrder lists the header names in emission order.
	HeaderOrder []string

	// Resources is the symbolic resource table of the module.
	Resources []wgsl.Resource
}

// Emit serializes a module for the selected backend. It returns the source
// text and the hoisted headers keyed by name.
func Emit(m *graph.Module, t Target) (string, map[string]string, error) {
	out, err := Translate(m, t)
	if err != nil {
		return "", nil, err
	}
	return out.Source, out.Headers, nil
}

// Translate validates and serializes a module.
//
// The pipeline is:
//  1. Validate the graph (types resolve, statements are well formed)
//  2. Serialize with the WGSL or GLSL backend
func Translate(m *graph.Module, t Target) (*Output, error) {
	if m == nil {
		return nil, fmt.Errorf("shadergraph: nil module")
	}
	problems, err := graph.Validate(m)
	if err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}
	if err := problems.Err(); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	var out Output
	if t.GLSL {
		opts := glsl.DefaultOptions()
		if t.GLSLVersion.Major != 0 {
			opts.LangVersion = t.GLSLVersion
		}
		source, info, err := glsl.Compile(m, opts)
		if err != nil {
			return nil, err
		}
		out = Output{Source: source, Headers: info.Headers, HeaderOrder: info.HeaderOrder, Resources: info.Resources}
	} else {
		opts := wgsl.DefaultOptions()
		opts.Bindings = t.Bindings
		source, info, err := wgsl.Compile(m, opts)
		if err != nil {
			return nil, err
		}
		out = Output{Source: source, Headers: info.Headers, HeaderOrder: info.HeaderOrder, Resources: info.Resources}
	}
	Logger().Debug("shadergraph: emitted module", "backend", t.Backend(), "stage", m.Stage.String(), "bytes", len(out.Source))
	return &out, nil
}

// ProgramOutput holds the serialized stages of a Program.
type ProgramOutput struct {
	Vertex   *Output
	Fragment *Output
}

// TranslateProgram serializes both stages of a program.
func TranslateProgram(p *Program, t Target) (*ProgramOutput, error) {
	if p == nil {
		return nil, fmt.Errorf("shadergraph: nil program")
	}
	vert, err := Translate(p.Vertex, t)
	if err != nil {
		return nil, fmt.Errorf("vertex: %w", err)
	}
	frag, err := Translate(p.Fragment, t)
	if err != nil {
		return nil, fmt.Errorf("fragment: %w", err)
	}
	return &ProgramOutput{Vertex: vert, Fragment: frag}, nil
}

// Expression renders a single expression for the selected backend.
func Expression(v Value, t Target) (string, error) {
	if !v.IsValid() {
		return "", graph.NewError(graph.KindTypeMismatch, "invalid value")
	}
	if t.GLSL {
		return glsl.Expression(v.Node(), t.GLSLVersion)
	}
	return wgsl.Expression(v.Node())
}
