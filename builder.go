package shadergraph

import (
	"fmt"
	"log/slog"
	"strconv"

	"github.com/gogpu/shadergraph/graph"
)

// Option configures a Builder.
type Option func(*options)

type options struct {
	logger     *slog.Logger
	namePrefix string
	capacity   uint32
	loopNames  []string
}

// WithLogger sets the logger for one builder, overriding the package logger.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) { o.logger = l }
}

// WithNamePrefix sets the prefix of automatically named variables.
// The default is "v", giving v0, v1, ...
func WithNamePrefix(prefix string) Option {
	return func(o *options) { o.namePrefix = prefix }
}

// WithScopeCapacity presizes the scope arena.
func WithScopeCapacity(n uint32) Option {
	return func(o *options) { o.capacity = n }
}

// WithLoopIndexNames sets the index names given to nested loops, outermost
// first. Deeper loops fall back to the first name with the depth appended.
func WithLoopIndexNames(names ...string) Option {
	return func(o *options) { o.loopNames = names }
}

func defaultOptions() options {
	return options{
		namePrefix: "v",
		loopNames:  []string{"i", "j", "k", "l", "m", "n"},
	}
}

// Builder is the owned build context every construction call goes through.
//
// A Builder is not safe for concurrent use. Independent builders share no
// state, so concurrent builds use one builder each.
type Builder struct {
	opts   options
	log    *slog.Logger
	scopes *graph.Scopes

	// per-build state
	stack     []graph.ScopeID
	counter   int
	loopDepth int
	frames    []*frame
	functions []*graph.Function
	specs     map[*Function]map[string]*graph.Function
	capturing map[*Function]bool
	stage     graph.Stage
	building  bool
	errs      graph.Errors

	// definitions shared by all builds
	resources map[string]*graph.Node
	structs   []*graph.StructDef
	fnCount   int
}

// frame tracks the user function whose body is being captured.
type frame struct {
	fn      *graph.Function
	returns []*graph.Node
}

// NewBuilder creates a builder.
func NewBuilder(opts ...Option) *Builder {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	log := o.logger
	if log == nil {
		log = Logger()
	}
	b := &Builder{
		opts:      o,
		log:       log,
		scopes:    graph.NewScopes(o.capacity),
		resources: make(map[string]*graph.Node),
	}
	b.reset(graph.StageFragment)
	return b
}

// Err returns the errors recorded since the current build started, or nil.
func (b *Builder) Err() error {
	return b.errs.Err()
}

// fail records a build error. Construction never stops on errors; the
// build entry point reports them.
func (b *Builder) fail(n *graph.Node, kind graph.ErrorKind, format string, args ...any) {
	e := graph.NewError(kind, format, args...)
	e.Node = n
	b.errs = append(b.errs, e)
	b.log.Debug("shadergraph: build error", "kind", kind.String(), "err", e.Message)
}

// reset clears per-build state. Scopes of the previous build stay in the
// arena, closed, so stale values are still detected.
func (b *Builder) reset(stage graph.Stage) {
	for _, id := range b.stack {
		b.scopes.Close(id)
	}
	b.stack = b.stack[:0]
	b.counter = 0
	b.loopDepth = 0
	b.frames = nil
	b.functions = nil
	b.specs = make(map[*Function]map[string]*graph.Function)
	b.capturing = make(map[*Function]bool)
	b.stage = stage
	b.errs = nil
}

// current returns the innermost open scope, or NoScope outside a build.
func (b *Builder) current() graph.ScopeID {
	if len(b.stack) == 0 {
		return graph.NoScope
	}
	return b.stack[len(b.stack)-1]
}

func (b *Builder) push(kind graph.ScopeKind) graph.ScopeID {
	parent := b.current()
	if kind == graph.ScopeFunction || kind == graph.ScopeEntry {
		parent = graph.NoScope
	}
	id := b.scopes.New(kind, parent)
	b.stack = append(b.stack, id)
	return id
}

func (b *Builder) pop(id graph.ScopeID) *graph.Block {
	if n := len(b.stack); n == 0 || b.stack[n-1] != id {
		panic(fmt.Sprintf("shadergraph: scope %d popped out of order", id))
	}
	b.stack = b.stack[:len(b.stack)-1]
	b.scopes.Close(id)
	return b.scopes.Get(id).Block
}

// record appends a statement to the innermost scope.
func (b *Builder) record(stmt *graph.Node) {
	id := b.current()
	if !id.IsValid() {
		b.fail(stmt, graph.KindMisplacedStatement, "%s statement outside a build", stmt.Kind)
		return
	}
	b.scopes.Append(id, stmt)
}

// isLast reports whether stmt is the latest statement of the innermost
// scope. Chained arms may only extend it while nothing follows.
func (b *Builder) isLast(stmt *graph.Node) bool {
	sc := b.scopes.Get(b.current())
	if sc == nil || sc.Block == nil {
		return false
	}
	stmts := sc.Block.Statements
	return len(stmts) > 0 && stmts[len(stmts)-1] == stmt
}

// within runs fn inside a new scope and returns the recorded block. The
// scope is popped even if fn panics.
func (b *Builder) within(kind graph.ScopeKind, fn func(id graph.ScopeID)) *graph.Block {
	id := b.push(kind)
	defer func() {
		if len(b.stack) > 0 && b.stack[len(b.stack)-1] == id {
			b.pop(id)
		}
	}()
	fn(id)
	return b.pop(id)
}

// use checks that n may be referenced from the innermost scope.
func (b *Builder) use(n *graph.Node) *graph.Node {
	if n == nil || !n.Scope.IsValid() {
		return n
	}
	sc := b.scopes.Get(n.Scope)
	if sc == nil || sc.Closed || !b.scopes.Encloses(n.Scope, b.current()) {
		b.fail(n, graph.KindUnresolvedIdentifier, "%s %q used outside its declaring scope", n.Kind, refName(n))
	}
	return n
}

func refName(n *graph.Node) string {
	var name string
	graph.Walk(n, func(c *graph.Node) bool {
		if name != "" {
			return false
		}
		if (c.Kind == graph.KindVariable || c.Kind == graph.KindParam) && c.Scope == n.Scope {
			name = c.Op
			return false
		}
		return true
	})
	if name == "" {
		name = n.Op
	}
	return name
}

// node allocates an expression node depending on the given children.
func (b *Builder) node(kind graph.NodeKind, t graph.Type, op string, children ...*graph.Node) *graph.Node {
	n := &graph.Node{Kind: kind, Type: t, Op: op, Children: children}
	for _, c := range children {
		b.use(c)
		n.Scope = b.scopes.Innermost(n.Scope, c.Scope)
	}
	return n
}

// nextName returns the next automatic variable name that is free in the
// innermost scope chain.
func (b *Builder) nextName() string {
	for {
		name := b.opts.namePrefix + strconv.Itoa(b.counter)
		b.counter++
		if _, _, taken := b.scopes.Lookup(b.current(), name); !taken {
			return name
		}
	}
}

func (b *Builder) loopIndexName() string {
	names := b.opts.loopNames
	if b.loopDepth < len(names) {
		return names[b.loopDepth]
	}
	base := "i"
	if len(names) > 0 {
		base = names[0]
	}
	return base + strconv.Itoa(b.loopDepth)
}

// value wraps a node.
func (b *Builder) value(n *graph.Node) Value {
	return Value{b: b, n: n}
}

// operand converts a Go value or Value into a node. Bare numbers become
// literals of the hint's scalar kind, or float without a hint.
func (b *Builder) operand(x any, hint graph.Type) *graph.Node {
	kind := graph.ScalarFloat
	if hint.IsNumeric() {
		kind = hint.Scalar
	}
	switch v := x.(type) {
	case Value:
		if v.n == nil {
			b.fail(nil, graph.KindTypeMismatch, "zero Value used as operand")
			return literal(0, graph.Float)
		}
		return v.n
	case *graph.Node:
		return v
	case bool:
		if v {
			return literal(1, graph.Bool)
		}
		return literal(0, graph.Bool)
	case int:
		return b.numeric(float64(v), kind)
	case int32:
		return b.numeric(float64(v), kind)
	case int64:
		return b.numeric(float64(v), kind)
	case uint:
		return b.numeric(float64(v), kind)
	case uint32:
		return b.numeric(float64(v), kind)
	case float32:
		return literal(float64(v), graph.Float)
	case float64:
		return literal(v, graph.Float)
	}
	b.fail(nil, graph.KindTypeMismatch, "unsupported operand of type %T", x)
	return literal(0, graph.Float)
}

// numeric builds an integer-valued literal of the given kind.
func (b *Builder) numeric(v float64, kind graph.ScalarKind) *graph.Node {
	if kind == graph.ScalarBool {
		if v != 0 {
			v = 1
		}
		return literal(v, graph.Bool)
	}
	if kind == graph.ScalarUint && v < 0 {
		kind = graph.ScalarSint
	}
	return literal(v, graph.ScalarOf(kind))
}

func literal(v float64, t graph.Type) *graph.Node {
	return &graph.Node{Kind: graph.KindLiteral, Value: v, Type: t}
}
