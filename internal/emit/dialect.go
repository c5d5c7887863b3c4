// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package emit

import (
	"github.com/gogpu/shadergraph/graph"
)

// Dialect supplies the backend-specific spelling the shared traversal needs.
type Dialect interface {
	// Backend names the target in error messages ("wgsl", "glsl 300 es").
	Backend() string

	// TypeName returns the spelling of t.
	TypeName(t graph.Type) (string, error)

	// Literal formats a literal of scalar type t.
	Literal(v float64, t graph.Type) string

	// Construct renders a constructor or conversion of t.
	Construct(t graph.Type, args []string) (string, error)

	// Binary renders a binary operator whose operands have types lt and rt.
	Binary(op, a, b string, lt, rt graph.Type) string

	// Unary renders a prefix operator applied to a value of type t.
	Unary(op, a string, t graph.Type) string

	// FloatMod renders the floored remainder of two floating-point values.
	FloatMod(a, b string, t graph.Type) string

	// Call renders a built-in function call. n is the call node.
	Call(w *Writer, n *graph.Node, args []string, types []graph.Type) (string, error)

	// Select renders cond ? a : b.
	Select(cond, a, b string) string

	// Ref renders a reference to a module-scope resource.
	Ref(w *Writer, n *graph.Node) (string, error)

	// Declare renders a mutable local declaration statement.
	Declare(name, typ, init string) string

	// Temp renders an immutable temporary declaration statement.
	Temp(name, typ, init string) string

	// ForHeader renders the header of a counted loop from 0 to bound.
	ForHeader(index string, t graph.Type, bound string) (string, error)

	// CaseLabels renders the opening lines of a switch arm.
	CaseLabels(values []string) []string

	// RequiresDefault reports whether every switch needs a default arm.
	RequiresDefault() bool

	// SwizzleAssign reports whether multi-component swizzles may be
	// assigned to directly.
	SwizzleAssign() bool
}
