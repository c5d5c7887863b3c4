package shadergraph

import (
	"fmt"

	"github.com/gogpu/shadergraph/graph"
)

// DefaultWorkgroupSize is the compute workgroup width used by Compute when
// the caller passes zero.
const DefaultWorkgroupSize = 32

// Fragment builds a fragment stage. body returns the output color: a vec4,
// or a vec3 or float that is widened with alpha 1.
func (b *Builder) Fragment(body func() Value) (*graph.Module, error) {
	return b.build(graph.StageFragment, 0, func() *graph.Node {
		out := body()
		if !out.IsValid() {
			b.fail(nil, graph.KindTypeMismatch, "fragment stage returned no color")
			return nil
		}
		return b.widenColor(out).n
	})
}

// Vertex builds a vertex stage. body returns the clip-space position: a
// vec4, or a vec2/vec3 widened with z 0 and w 1. A nil body draws a
// full-screen triangle from vertex_index.
func (b *Builder) Vertex(body func() Value) (*graph.Module, error) {
	if body == nil {
		body = b.fullScreenTriangle
	}
	return b.build(graph.StageVertex, 0, func() *graph.Node {
		out := body()
		if !out.IsValid() {
			b.fail(nil, graph.KindTypeMismatch, "vertex stage returned no position")
			return nil
		}
		return b.widenPosition(out).n
	})
}

// Compute builds a compute stage with a one-dimensional workgroup.
func (b *Builder) Compute(workgroupSize uint32, body func()) (*graph.Module, error) {
	if workgroupSize == 0 {
		workgroupSize = DefaultWorkgroupSize
	}
	return b.build(graph.StageCompute, workgroupSize, func() *graph.Node {
		body()
		return nil
	})
}

// Program is a linked vertex and fragment stage pair.
type Program struct {
	Vertex   *graph.Module
	Fragment *graph.Module
}

// Program builds both stages. The fragment stage is built first so that the
// varyings it declares become outputs of the vertex stage. A nil vertex
// body draws a full-screen triangle.
func (b *Builder) Program(vertex, fragment func() Value) (*Program, error) {
	frag, err := b.Fragment(fragment)
	if err != nil {
		return nil, fmt.Errorf("fragment: %w", err)
	}
	vert, err := b.Vertex(vertex)
	if err != nil {
		return nil, fmt.Errorf("vertex: %w", err)
	}
	addGlobals(vert, frag.Varyings...)
	// Both stages list the varyings in the same order so that their
	// locations agree.
	frag.Varyings = vert.Varyings
	return &Program{Vertex: vert, Fragment: frag}, nil
}

func (b *Builder) build(stage graph.Stage, workgroup uint32, body func() *graph.Node) (m *graph.Module, err error) {
	if b.building {
		return nil, graph.NewError(graph.KindMisplacedStatement, "%s build started inside another build", stage)
	}
	b.reset(stage)
	b.building = true
	defer func() { b.building = false }()

	m = &graph.Module{Stage: stage}
	if workgroup > 0 {
		m.Workgroup = [3]uint32{workgroup, 1, 1}
	}
	m.Body = b.within(graph.ScopeEntry, func(graph.ScopeID) {
		m.Result = body()
	})
	m.Functions = b.functions
	m.Structs = append([]*graph.StructDef(nil), b.structs...)
	b.collectGlobals(m)

	if stage == graph.StageFragment {
		for _, g := range m.Globals {
			if g.Kind == graph.KindAttribute {
				b.fail(g, graph.KindUnsupported, "attribute %q read in the fragment stage; pass it through a varying", g.Op)
			}
		}
	}

	if err := b.Err(); err != nil {
		return nil, err
	}
	b.log.Info("shadergraph: built stage", "stage", stage.String(), "headers", len(m.Functions), "globals", len(m.Globals))
	return m, nil
}

// collectGlobals gathers the resources reachable from the module in first
// use order: function headers first, then the entry body and result.
// Varyings are listed separately; their vertex-side values are only walked
// for a vertex stage.
func (b *Builder) collectGlobals(m *graph.Module) {
	var roots []*graph.Node
	for _, f := range m.Functions {
		roots = append(roots, f.Body.Statements...)
	}
	roots = append(roots, m.Body.Statements...)
	if m.Result != nil {
		roots = append(roots, m.Result)
	}
	addGlobals(m, roots...)
}

// addGlobals appends the resources reachable from roots that m does not
// list yet.
func addGlobals(m *graph.Module, roots ...*graph.Node) {
	seen := make(map[*graph.Node]bool)
	for _, g := range m.Globals {
		seen[g] = true
	}
	for _, v := range m.Varyings {
		seen[v] = true
	}
	visit := func(n *graph.Node) bool {
		if !n.Kind.IsResource() {
			return true
		}
		if !seen[n] {
			seen[n] = true
			if n.Kind == graph.KindVarying {
				m.Varyings = append(m.Varyings, n)
			} else {
				m.Globals = append(m.Globals, n)
			}
		}
		return n.Kind == graph.KindVarying && m.Stage == graph.StageVertex
	}
	for _, r := range roots {
		graph.Walk(r, visit)
	}
}

// widenColor converts a fragment result to vec4.
func (b *Builder) widenColor(v Value) Value {
	switch t := v.Type(); {
	case t == graph.Vec4:
		return v
	case t == graph.Vec3:
		return b.Vec4(v, 1)
	case t.IsScalar():
		return b.Vec4(b.Vec3(v.ToFloat()), 1)
	case t.IsKnown():
		b.fail(v.n, graph.KindTypeMismatch, "fragment color of type %s", t)
	}
	return v
}

// widenPosition converts a vertex result to vec4.
func (b *Builder) widenPosition(v Value) Value {
	switch t := v.Type(); {
	case t == graph.Vec4:
		return v
	case t == graph.Vec3:
		return b.Vec4(v, 1)
	case t == graph.Vec2:
		return b.Vec4(v, 0, 1)
	case t.IsKnown():
		b.fail(v.n, graph.KindTypeMismatch, "vertex position of type %s", t)
	}
	return v
}

// fullScreenTriangle covers the viewport with three vertices:
// (-1,-1), (3,-1), (-1,3).
func (b *Builder) fullScreenTriangle() Value {
	vi := b.Builtin("vertex_index")
	x := vi.ShiftLeft(1).BitAnd(2).ToFloat()
	y := vi.BitAnd(2).ToFloat()
	return b.Vec2(x, y).Mul(2).Sub(1)
}
