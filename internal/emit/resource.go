// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package emit

import (
	"fmt"
	"strings"

	"github.com/gogpu/shadergraph/graph"
)

// ResourceKind classifies an entry of the resource table.
type ResourceKind string

// Resource kinds.
const (
	ResourceUniform   ResourceKind = "uniform"
	ResourceTexture   ResourceKind = "texture"
	ResourceSampler   ResourceKind = "sampler"
	ResourceAttribute ResourceKind = "attribute"
	ResourceVarying   ResourceKind = "varying"
)

// Resource describes one binding or stage input the host program has to
// provide. Group, Binding and Location are -1 when they do not apply.
type Resource struct {
	// Name is the identifier in the generated source.
	Name string `msgpack:"name" json:"name"`

	// Source is the name the resource was declared with.
	Source string `msgpack:"source" json:"source"`

	Kind ResourceKind `msgpack:"kind" json:"kind"`

	// Type is the canonical type name ("vec2", "float", "sampler2D").
	Type string `msgpack:"type" json:"type"`

	Group    int `msgpack:"group" json:"group"`
	Binding  int `msgpack:"binding" json:"binding"`
	Location int `msgpack:"location" json:"location"`

	// Value is the initial uniform value, flattened to components.
	Value []float64 `msgpack:"value,omitempty" json:"value,omitempty"`
}

// String formats r for listings.
func (r Resource) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s %s %s", r.Kind, r.Type, r.Name)
	if r.Group >= 0 {
		fmt.Fprintf(&sb, " @group(%d)", r.Group)
	}
	if r.Binding >= 0 {
		fmt.Fprintf(&sb, " @binding(%d)", r.Binding)
	}
	if r.Location >= 0 {
		fmt.Fprintf(&sb, " @location(%d)", r.Location)
	}
	return sb.String()
}

// NewResource creates a table entry for n with no binding assigned.
func NewResource(kind ResourceKind, name string, n *graph.Node) Resource {
	return Resource{
		Name:     name,
		Source:   n.Op,
		Kind:     kind,
		Type:     graph.Infer(n).String(),
		Group:    -1,
		Binding:  -1,
		Location: -1,
		Value:    InitialValue(n.Arg(0)),
	}
}

// InitialValue flattens a constant initializer into its components.
// It returns nil when n is not built from literals and constructors.
func InitialValue(n *graph.Node) []float64 {
	if n == nil {
		return nil
	}
	switch n.Kind {
	case graph.KindLiteral:
		return []float64{n.Value}
	case graph.KindConversion:
		t := graph.Infer(n)
		var out []float64
		for _, c := range n.Children {
			v := InitialValue(c)
			if v == nil {
				return nil
			}
			out = append(out, v...)
		}
		if len(out) == 1 && t.Components() > 1 {
			for len(out) < t.Components() {
				out = append(out, out[0])
			}
		}
		return out
	}
	return nil
}

// builtinStages lists the stages each input builtin can be read in.
var builtinStages = map[string][]graph.Stage{
	"position":               {graph.StageFragment},
	"front_facing":           {graph.StageFragment},
	"sample_index":           {graph.StageFragment},
	"sample_mask":            {graph.StageFragment},
	"vertex_index":           {graph.StageVertex},
	"instance_index":         {graph.StageVertex},
	"global_invocation_id":   {graph.StageCompute},
	"local_invocation_id":    {graph.StageCompute},
	"local_invocation_index": {graph.StageCompute},
	"workgroup_id":           {graph.StageCompute},
	"num_workgroups":         {graph.StageCompute},
}

// CheckBuiltins returns an error for the first builtin of m that its stage
// cannot read.
func CheckBuiltins(backend string, m *graph.Module) error {
	for _, g := range m.Globals {
		if g.Kind != graph.KindBuiltin {
			continue
		}
		stages, ok := builtinStages[g.Op]
		if !ok {
			return graph.Unsupported(backend, g, "builtin %q", g.Op)
		}
		found := false
		for _, s := range stages {
			found = found || s == m.Stage
		}
		if !found {
			return graph.Unsupported(backend, g, "builtin %q in the %s stage", g.Op, m.Stage)
		}
	}
	return nil
}
