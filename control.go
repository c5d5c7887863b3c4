package shadergraph

import (
	"github.com/gogpu/shadergraph/graph"
)

// Conditional is the recorder returned by If. ElseIf and Else chain further
// blocks onto the same statement.
type Conditional struct {
	b      *Builder
	n      *graph.Node
	closed bool
}

// If records a conditional and immediately runs then inside a new scope.
// Every branch is recorded; none is skipped at build time.
func (b *Builder) If(cond any, then func()) *Conditional {
	c := b.operand(cond, graph.Bool)
	n := b.node(graph.KindIf, graph.Void, "", c)
	b.record(n)
	n.Blocks = append(n.Blocks, b.within(graph.ScopeIf, func(graph.ScopeID) { then() }))
	return &Conditional{b: b, n: n}
}

// ElseIf chains another condition and block.
func (c *Conditional) ElseIf(cond any, then func()) *Conditional {
	b := c.b
	if c.closed {
		b.fail(c.n, graph.KindMisplacedStatement, "ElseIf after Else")
		return c
	}
	if !b.isLast(c.n) {
		b.fail(c.n, graph.KindMisplacedStatement, "ElseIf after later statements")
		return c
	}
	cn := b.operand(cond, graph.Bool)
	b.use(cn)
	c.n.Children = append(c.n.Children, cn)
	c.n.Blocks = append(c.n.Blocks, b.within(graph.ScopeIf, func(graph.ScopeID) { then() }))
	return c
}

// Else records the final block.
func (c *Conditional) Else(otherwise func()) {
	b := c.b
	if c.closed {
		b.fail(c.n, graph.KindMisplacedStatement, "second Else")
		return
	}
	if !b.isLast(c.n) {
		b.fail(c.n, graph.KindMisplacedStatement, "Else after later statements")
		return
	}
	c.closed = true
	c.n.Blocks = append(c.n.Blocks, b.within(graph.ScopeIf, func(graph.ScopeID) { otherwise() }))
}

// Loop records a loop and runs body once inside the loop scope.
//
// A numeric bound lowers to a counted loop from 0 to bound; body receives
// the index variable, named i, j, k, ... by nesting depth, and typed like
// the bound. A boolean bound lowers to a while loop; body then receives
// the zero Value.
func (b *Builder) Loop(bound any, body func(i Value)) {
	cn := b.operand(bound, graph.Int)
	t := graph.Infer(cn)
	n := b.node(graph.KindLoop, graph.Void, "", cn)
	b.record(n)

	name := b.loopIndexName()
	b.loopDepth++
	defer func() { b.loopDepth-- }()

	n.Blocks = []*graph.Block{b.within(graph.ScopeLoop, func(id graph.ScopeID) {
		if t.IsBoolean() {
			body(Value{})
			return
		}
		if t.IsKnown() && !t.IsScalar() {
			b.fail(cn, graph.KindTypeMismatch, "loop bound must be a scalar, got %s", t)
		}
		if !t.IsKnown() {
			t = graph.Int
		}
		n.Op = name
		n.Type = t
		idx := &graph.Node{Kind: graph.KindVariable, Type: t, Op: name, Scope: id}
		if err := b.scopes.Declare(id, name, idx); err != nil {
			b.fail(n, graph.KindRedeclared, "%v", err)
		}
		body(b.value(idx))
	})}
}

// Switch is the recorder returned by Builder.Switch.
type Switch struct {
	b          *Builder
	n          *graph.Node
	parent     graph.ScopeID
	hasDefault bool
}

// Switch records a switch statement over an integer selector. Arms are
// added with Case and Default; every arm ends with an implicit break.
func (b *Builder) Switch(selector any) *Switch {
	s := b.operand(selector, graph.Int)
	n := b.node(graph.KindSwitch, graph.Void, "", s)
	b.record(n)
	return &Switch{b: b, n: n, parent: b.current()}
}

// Case returns a function that records body as the arm for values.
// Several values share one block: Case(1, 2, 3)(body).
func (s *Switch) Case(values ...any) func(body func()) *Switch {
	return func(body func()) *Switch {
		b := s.b
		if s.hasDefault {
			b.fail(s.n, graph.KindMisplacedStatement, "Case after Default")
		}
		if len(values) == 0 {
			b.fail(s.n, graph.KindMisplacedStatement, "Case without values")
			return s
		}
		hint := graph.Infer(s.n.Children[0])
		vals := make([]*graph.Node, len(values))
		for i, v := range values {
			vals[i] = b.operand(v, hint)
			if vals[i].Kind != graph.KindLiteral {
				b.fail(vals[i], graph.KindTypeMismatch, "case value must be a constant")
			}
		}
		s.n.Cases = append(s.n.Cases, graph.Case{Values: vals, Body: s.arm(body)})
		return s
	}
}

// Default records the fallback arm.
func (s *Switch) Default(body func()) {
	if s.hasDefault {
		s.b.fail(s.n, graph.KindMisplacedStatement, "second Default")
		return
	}
	s.hasDefault = true
	s.n.Cases = append(s.n.Cases, graph.Case{Body: s.arm(body)})
}

func (s *Switch) arm(body func()) *graph.Block {
	b := s.b
	if b.current() != s.parent {
		b.fail(s.n, graph.KindMisplacedStatement, "switch arm recorded outside the switch's scope")
	} else if !b.isLast(s.n) {
		b.fail(s.n, graph.KindMisplacedStatement, "switch arm added after later statements")
	}
	return b.within(graph.ScopeCase, func(graph.ScopeID) { body() })
}

// Break records a break out of the innermost loop or switch.
func (b *Builder) Break() {
	n := &graph.Node{Kind: graph.KindBreak, Type: graph.Void}
	if _, ok := b.scopes.Nearest(b.current(), graph.ScopeLoop, graph.ScopeCase); !ok {
		b.fail(n, graph.KindMisplacedStatement, "break outside loop or switch")
	}
	b.record(n)
}

// Continue records a jump to the next iteration of the innermost loop.
func (b *Builder) Continue() {
	n := &graph.Node{Kind: graph.KindContinue, Type: graph.Void}
	if _, ok := b.scopes.Nearest(b.current(), graph.ScopeLoop); !ok {
		b.fail(n, graph.KindMisplacedStatement, "continue outside loop")
	}
	b.record(n)
}

// Return records a return from the function whose body is being captured.
func (b *Builder) Return(value ...any) {
	n := &graph.Node{Kind: graph.KindReturn, Type: graph.Void}
	if len(value) > 0 {
		v := b.operand(value[0], graph.Unknown)
		n = b.node(graph.KindReturn, graph.Void, "", v)
	}
	if len(b.frames) == 0 {
		b.fail(n, graph.KindMisplacedStatement, "return outside a function")
	} else {
		f := b.frames[len(b.frames)-1]
		f.returns = append(f.returns, n)
	}
	b.record(n)
}

// Discard records a fragment discard.
func (b *Builder) Discard() {
	n := &graph.Node{Kind: graph.KindDiscard, Type: graph.Void}
	if b.stage != graph.StageFragment {
		b.fail(n, graph.KindMisplacedStatement, "discard in %s stage", b.stage)
	}
	b.record(n)
}

// Scope records a bare nested block.
func (b *Builder) Scope(body func()) {
	n := &graph.Node{Kind: graph.KindBlock, Type: graph.Void}
	b.record(n)
	n.Blocks = []*graph.Block{b.within(graph.ScopeBlock, func(graph.ScopeID) { body() })}
}
