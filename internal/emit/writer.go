// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

// Package emit holds the traversal shared by the source backends: the
// output buffer, identifier allocation, expression and statement
// rendering, and hoisting of shared subexpressions into temporaries.
package emit

import (
	"fmt"
	"strings"

	"github.com/gogpu/shadergraph/graph"
)

// Writer renders graph nodes through a Dialect.
type Writer struct {
	// Module is the module being written. It may be nil when rendering a
	// detached expression.
	Module *graph.Module

	// Names allocates every identifier in the output.
	Names *Namer

	// Result is the return type of the function being written.
	Result graph.Type

	d      Dialect
	out    strings.Builder
	indent int

	// counts holds the reference count of every node in the function
	// being written. Nodes referenced twice are hoisted.
	counts map[*graph.Node]int
	pure   map[*graph.Node]bool
	baked  []map[*graph.Node]string
	temps  int

	// locals maps each declaration, keyed by its scope and source name,
	// to its identifier. live holds the identifiers declared in each open
	// block, innermost last.
	locals     map[localKey]string
	live       []map[string]bool
	localNames map[string]bool
	scopes     []graph.ScopeID
}

type localKey struct {
	scope graph.ScopeID
	name  string
}

// NewWriter creates a writer for module m.
func NewWriter(d Dialect, names *Namer, m *graph.Module) *Writer {
	return &Writer{
		Module: m,
		Names:  names,
		d:      d,
		pure:   make(map[*graph.Node]bool),

		locals:     make(map[localKey]string),
		localNames: make(map[string]bool),
	}
}

// Dialect returns the writer's dialect.
func (w *Writer) Dialect() Dialect { return w.d }

// String returns everything written so far.
func (w *Writer) String() string { return w.out.String() }

// Len returns the number of bytes written so far.
func (w *Writer) Len() int { return w.out.Len() }

// Since returns the text written after offset.
func (w *Writer) Since(offset int) string { return w.out.String()[offset:] }

// Line writes one indented line.
func (w *Writer) Line(format string, args ...any) {
	for i := 0; i < w.indent; i++ {
		w.out.WriteString("    ")
	}
	if len(args) == 0 {
		w.out.WriteString(format)
	} else {
		fmt.Fprintf(&w.out, format, args...)
	}
	w.out.WriteByte('\n')
}

// Blank writes an empty line.
func (w *Writer) Blank() { w.out.WriteByte('\n') }

// Push increases indentation.
func (w *Writer) Push() { w.indent++ }

// Pop decreases indentation.
func (w *Writer) Pop() {
	if w.indent > 0 {
		w.indent--
	}
}

// Local returns the identifier of the local variable or parameter called
// name that was declared in scope. Identifiers are reused by sibling
// blocks; a name still visible from an enclosing block gets a fresh one.
func (w *Writer) Local(scope graph.ScopeID, name string) string {
	key := localKey{scope: scope, name: name}
	if id, ok := w.locals[key]; ok {
		return id
	}
	id := w.Names.Escape(name)
	if w.isLive(id) || (w.Names.Used(id) && !w.localNames[id]) {
		id = w.Names.Fresh(name)
	} else {
		w.Names.Reserve(id)
	}
	w.localNames[id] = true
	if len(w.live) == 0 {
		w.live = append(w.live, make(map[string]bool))
	}
	w.live[len(w.live)-1][id] = true
	w.locals[key] = id
	return id
}

func (w *Writer) isLive(id string) bool {
	for _, frame := range w.live {
		if frame[id] {
			return true
		}
	}
	return false
}

// Scope returns the graph scope of the innermost block being written.
func (w *Writer) Scope() graph.ScopeID {
	if len(w.scopes) == 0 {
		return graph.NoScope
	}
	return w.scopes[len(w.scopes)-1]
}

// Global returns the identifier of a module-scope resource.
func (w *Writer) Global(name string) string {
	return w.Names.Name("g:"+name, name)
}

// FunctionName returns the identifier of a hoisted function.
func (w *Writer) FunctionName(f *graph.Function) string {
	return w.Names.Name("f:"+f.Name, f.Name)
}

// StructName returns the identifier of a struct type.
func (w *Writer) StructName(name string) string {
	return w.Names.Name("s:"+name, name)
}

// Unsupported builds an error for a construct the dialect cannot render.
func (w *Writer) Unsupported(n *graph.Node, format string, args ...any) error {
	return graph.Unsupported(w.d.Backend(), n, format, args...)
}

// Begin prepares the writer for one function body. roots are the
// expressions written after the body, such as the entry point result.
func (w *Writer) Begin(body *graph.Block, roots ...*graph.Node) {
	w.counts = make(map[*graph.Node]int)
	w.baked = w.baked[:0]
	graph.WalkBlock(body, w.count)
	for _, r := range roots {
		graph.Walk(r, w.count)
	}
}

// End drops the per-function state.
func (w *Writer) End() {
	w.counts = nil
	w.baked = w.baked[:0]
	w.live = w.live[:0]
}

func (w *Writer) count(n *graph.Node) bool {
	w.counts[n]++
	if w.counts[n] > 1 {
		return false
	}
	return !n.Kind.IsResource()
}

// OpenScope starts a block. Temporaries hoisted and locals declared
// inside it are forgotten by CloseScope.
func (w *Writer) OpenScope() {
	w.baked = append(w.baked, make(map[*graph.Node]string))
	w.live = append(w.live, make(map[string]bool))
}

// EnterBlock opens a scope for the statements of b that the caller
// writes one by one.
func (w *Writer) EnterBlock(b *graph.Block) {
	w.OpenScope()
	w.scopes = append(w.scopes, b.Scope)
}

// LeaveBlock closes the scope opened by EnterBlock.
func (w *Writer) LeaveBlock() {
	if len(w.scopes) > 0 {
		w.scopes = w.scopes[:len(w.scopes)-1]
	}
	w.CloseScope()
}

// CloseScope ends the innermost block.
func (w *Writer) CloseScope() {
	if len(w.baked) > 0 {
		w.baked = w.baked[:len(w.baked)-1]
	}
	if len(w.live) > 0 {
		w.live = w.live[:len(w.live)-1]
	}
}

func (w *Writer) bakedName(n *graph.Node) (string, bool) {
	for i := len(w.baked) - 1; i >= 0; i-- {
		if name, ok := w.baked[i][n]; ok {
			return name, true
		}
	}
	return "", false
}

// isPure reports whether n reads no local variables or parameters. Pure
// values cannot change between two statements of one block.
func (w *Writer) isPure(n *graph.Node) bool {
	if p, ok := w.pure[n]; ok {
		return p
	}
	p := true
	switch {
	case n.Kind == graph.KindVariable || n.Kind == graph.KindParam:
		p = false
	case n.Kind.IsResource():
	default:
		for _, c := range n.Children {
			if !w.isPure(c) {
				p = false
				break
			}
		}
	}
	w.pure[n] = p
	return p
}

func (w *Writer) shouldBake(n *graph.Node) bool {
	if w.counts[n] < 2 || len(w.baked) == 0 {
		return false
	}
	switch n.Kind {
	case graph.KindOperator, graph.KindCall, graph.KindDefine, graph.KindTernary:
	case graph.KindConversion:
		if n.IsConstant() {
			return false
		}
	default:
		return false
	}
	if t := graph.Infer(n); !t.IsKnown() || t.Class == graph.ClassVoid {
		return false
	}
	return w.isPure(n)
}

// bake hoists the shared subexpressions of roots into temporaries,
// innermost first.
func (w *Writer) bake(roots ...*graph.Node) error {
	for _, r := range roots {
		if err := w.bakeNode(r); err != nil {
			return err
		}
	}
	return nil
}

func (w *Writer) bakeNode(n *graph.Node) error {
	if n == nil || n.Kind.IsResource() {
		return nil
	}
	if _, ok := w.bakedName(n); ok {
		return nil
	}
	for _, c := range n.Children {
		if err := w.bakeNode(c); err != nil {
			return err
		}
	}
	if !w.shouldBake(n) {
		return nil
	}
	expr, err := w.Expression(n)
	if err != nil {
		return err
	}
	typ, err := w.d.TypeName(graph.Infer(n))
	if err != nil {
		return err
	}
	name := w.Names.Fresh(fmt.Sprintf("_e%d", w.temps))
	w.temps++
	w.Line("%s", w.d.Temp(name, typ, expr))
	w.baked[len(w.baked)-1][n] = name
	return nil
}
