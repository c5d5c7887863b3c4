package shadergraph

import (
	"strconv"

	"github.com/gogpu/shadergraph/graph"
)

// Function is a deferred user function created by Fn. Its body is captured
// the first time it is called with a given argument signature and emitted
// once as a hoisted header; every call allocates only a call expression.
type Function struct {
	b      *Builder
	body   func(args []Value) Value
	layout *graph.Layout
}

// Fn wraps body as a user function. body receives the parameters; a valid
// returned Value becomes the function's return statement. Without a layout
// the function is named fnN and takes auto-typed parameters p0, p1, ...
func (b *Builder) Fn(body func(args []Value) Value) *Function {
	name := "fn" + strconv.Itoa(b.fnCount)
	b.fnCount++
	return &Function{
		b:      b,
		body:   body,
		layout: &graph.Layout{Name: name, Type: graph.Auto},
	}
}

// SetLayout declares the function's name, return type and parameters.
// Auto types are resolved from the first call. The layout is validated
// immediately; on error the previous layout is kept.
func (f *Function) SetLayout(l graph.Layout) (*Function, error) {
	if err := graph.ValidateLayout(l); err != nil {
		return f, err
	}
	inputs := make([]graph.Param, len(l.Inputs))
	copy(inputs, l.Inputs)
	l.Inputs = inputs
	f.layout = &l
	return f, nil
}

// MustSetLayout is like SetLayout but panics on an invalid layout.
func (f *Function) MustSetLayout(l graph.Layout) *Function {
	if _, err := f.SetLayout(l); err != nil {
		panic(err)
	}
	return f
}

// Layout returns the current layout.
func (f *Function) Layout() graph.Layout { return *f.layout }

// Call returns a call of f with args. Bare numbers are converted to the
// declared parameter type, or float for auto parameters.
func (f *Function) Call(args ...any) Value {
	b := f.b
	l := f.layout

	if len(l.Inputs) > 0 && len(args) != len(l.Inputs) {
		b.fail(nil, graph.KindLayoutMismatch, "%s: called with %d arguments, layout declares %d", l.Name, len(args), len(l.Inputs))
	}

	nodes := make([]*graph.Node, len(args))
	sig := make([]graph.Type, len(args))
	for i, a := range args {
		declared := graph.Auto
		if i < len(l.Inputs) {
			declared = l.Inputs[i].Type
		}
		n := b.operand(a, declared)
		if n.Kind == graph.KindLiteral {
			target := declared
			if !target.IsKnown() {
				target = graph.Float
			}
			n = b.node(graph.KindConversion, target, "", n)
		}
		nodes[i] = n

		t := declared
		if !t.IsKnown() {
			t = graph.Infer(n)
		}
		if !t.IsKnown() {
			b.fail(n, graph.KindTypeMismatch, "%s: cannot infer type of argument %d", l.Name, i)
			t = graph.Float
		}
		sig[i] = t
	}

	fn := f.specialize(sig)
	call := b.node(graph.KindDefine, graph.Unknown, fn.Name, nodes...)
	call.Func = fn
	fn.Calls++
	if fn.Result == graph.Void {
		b.record(b.node(graph.KindEval, graph.Void, "", call))
	}
	return b.value(call)
}

// specialize returns the header for sig, capturing the body on first use.
func (f *Function) specialize(sig []graph.Type) *graph.Function {
	b := f.b
	key := graph.SignatureKey(sig)
	specs := b.specs[f]
	if fn, ok := specs[key]; ok {
		return fn
	}
	if specs == nil {
		specs = make(map[string]*graph.Function)
		b.specs[f] = specs
	}

	name := f.layout.Name
	if len(specs) > 0 {
		name = graph.SpecializedName(name, sig)
		b.log.Debug("shadergraph: specializing function", "name", f.layout.Name, "header", name)
	}
	fn := &graph.Function{
		Name:      name,
		Signature: sig,
		Layout:    f.layout,
		Result:    f.layout.Type,
	}
	specs[key] = fn

	if b.capturing[f] {
		b.fail(nil, graph.KindUnsupported, "%s: recursive call", f.layout.Name)
		fn.Body = &graph.Block{}
		return fn
	}
	b.capturing[f] = true
	defer delete(b.capturing, f)

	fr := &frame{fn: fn}
	b.frames = append(b.frames, fr)
	defer func() { b.frames = b.frames[:len(b.frames)-1] }()

	savedDepth := b.loopDepth
	b.loopDepth = 0
	defer func() { b.loopDepth = savedDepth }()

	fn.Body = b.within(graph.ScopeFunction, func(id graph.ScopeID) {
		params := make([]Value, len(sig))
		for i, t := range sig {
			pname := "p" + strconv.Itoa(i)
			if i < len(f.layout.Inputs) {
				pname = f.layout.Inputs[i].Name
			}
			p := &graph.Node{Kind: graph.KindParam, Type: t, Op: pname, Scope: id}
			if err := b.scopes.Declare(id, pname, p); err != nil {
				b.fail(p, graph.KindLayoutMismatch, "%s: %v", f.layout.Name, err)
			}
			fn.Params = append(fn.Params, p)
			params[i] = b.value(p)
		}
		if ret := f.body(params); ret.IsValid() {
			b.Return(ret)
		}
	})

	f.resolveResult(fn, fr.returns)
	b.functions = append(b.functions, fn)
	b.log.Debug("shadergraph: registered header", "name", fn.Name, "result", fn.Result.String(), "params", len(fn.Params))
	return fn
}

// resolveResult fixes the return type from the layout or, for auto, from
// the first return statement, and checks every return against it.
func (f *Function) resolveResult(fn *graph.Function, returns []*graph.Node) {
	b := f.b
	if !fn.Result.IsKnown() {
		fn.Result = graph.Void
		for _, r := range returns {
			if v := r.Arg(0); v != nil {
				if t := graph.Infer(v); t.IsKnown() {
					fn.Result = t
					break
				}
			}
		}
	}
	for _, r := range returns {
		v := r.Arg(0)
		switch {
		case v == nil && fn.Result != graph.Void:
			b.fail(r, graph.KindLayoutMismatch, "%s: return without value, declared %s", fn.Name, fn.Result)
		case v != nil && fn.Result == graph.Void:
			b.fail(r, graph.KindLayoutMismatch, "%s: returns a value, declared void", fn.Name)
		case v != nil:
			t := graph.Infer(v)
			if !t.IsKnown() {
				continue
			}
			if u, err := graph.Unify(fn.Result, t); err != nil || u.Components() != fn.Result.Components() {
				b.fail(r, graph.KindLayoutMismatch, "%s: returns %s, declared %s", fn.Name, t, fn.Result)
			}
		}
	}
}
