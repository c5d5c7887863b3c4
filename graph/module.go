package graph

// Stage is a shader pipeline stage.
type Stage uint8

const (
	StageFragment Stage = iota
	StageVertex
	StageCompute
)

func (s Stage) String() string {
	switch s {
	case StageFragment:
		return "fragment"
	case StageVertex:
		return "vertex"
	case StageCompute:
		return "compute"
	default:
		return "invalid"
	}
}

// Module is the result of one top-level build.
type Module struct {
	// Stage is the pipeline stage of the entry point.
	Stage Stage

	// Functions are the hoisted headers in registration order. A function
	// only references functions registered before it.
	Functions []*Function

	// Globals are the module-scope resources in first-use order.
	Globals []*Node

	// Structs are the struct definitions in declaration order.
	Structs []*StructDef

	// Body holds the entry point statements.
	Body *Block

	// Result is the value produced by the entry point: the fragment color
	// or the vertex position. Nil for compute.
	Result *Node

	// Varyings are the values passed from the vertex to the fragment stage.
	Varyings []*Node

	// Workgroup is the compute workgroup size.
	Workgroup [3]uint32
}

// Struct returns the named struct definition.
func (m *Module) Struct(name string) (*StructDef, bool) {
	for _, s := range m.Structs {
		if s.Name == name {
			return s, true
		}
	}
	return nil, false
}

// Function returns the function with the given header name.
func (m *Module) Function(name string) (*Function, bool) {
	for _, f := range m.Functions {
		if f.Name == name {
			return f, true
		}
	}
	return nil, false
}

// Resources returns the globals of the given kind in order.
func (m *Module) Resources(kind NodeKind) []*Node {
	var out []*Node
	for _, g := range m.Globals {
		if g.Kind == kind {
			out = append(out, g)
		}
	}
	return out
}
