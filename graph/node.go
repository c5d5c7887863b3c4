package graph

// NodeKind identifies what a Node represents.
type NodeKind uint8

// Expression kinds.
const (
	KindInvalid    NodeKind = iota
	KindLiteral             // Value holds the number; Type holds its scalar kind
	KindConversion          // Type(Children...): constructors and struct construction
	KindOperator            // Op is the operator symbol; one child means prefix unary
	KindCall                // Built-in function Op(Children...)
	KindDefine              // User function Func(Children...)
	KindMember              // Children[0].Op: swizzle mask or struct field
	KindElement             // Children[0][Children[1]]
	KindTernary             // Children[0] ? Children[1] : Children[2]
	KindVariable            // Reference to a declared local; Op is the name
	KindParam               // Function parameter; Op is the name
	KindUniform             // Op is the name; Children[0] is the optional initial value
	KindAttribute           // Vertex input; Op is the name
	KindBuiltin             // Stage builtin; Op is the WGSL builtin name
	KindVarying             // Inter-stage value; Children[0] is the vertex-side value
	KindTexture             // Sampled 2D texture; Op is the name
	KindConstant            // Module-scope constant; Children[0] is the value
)

// Statement kinds.
const (
	KindDeclare  NodeKind = iota + 32 // var Op: Type = Children[0]
	KindAssign                        // Children[0] Op Children[1], Op is "=" or a compound operator
	KindIf                            // Children are conditions; Blocks has one body per condition plus an optional else
	KindLoop                          // Children[0] is the count or condition; Op is the index name
	KindSwitch                        // Children[0] is the selector; Cases holds the arms
	KindReturn                        // Children[0] is the optional value
	KindBreak
	KindContinue
	KindDiscard
	KindBlock // Blocks[0] is a bare nested scope
	KindEval  // Children[0] is evaluated for its side effects
)

var kindNames = map[NodeKind]string{
	KindLiteral:    "literal",
	KindConversion: "conversion",
	KindOperator:   "operator",
	KindCall:       "call",
	KindDefine:     "define",
	KindMember:     "member",
	KindElement:    "element",
	KindTernary:    "ternary",
	KindVariable:   "variable",
	KindParam:      "param",
	KindUniform:    "uniform",
	KindAttribute:  "attribute",
	KindBuiltin:    "builtin",
	KindVarying:    "varying",
	KindTexture:    "texture",
	KindConstant:   "constant",
	KindDeclare:    "declare",
	KindAssign:     "assign",
	KindIf:         "if",
	KindLoop:       "loop",
	KindSwitch:     "switch",
	KindReturn:     "return",
	KindBreak:      "break",
	KindContinue:   "continue",
	KindDiscard:    "discard",
	KindBlock:      "block",
	KindEval:       "eval",
}

// String returns the kind name.
func (k NodeKind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return "invalid"
}

// IsStatement reports whether k is a statement kind.
func (k NodeKind) IsStatement() bool {
	return k >= KindDeclare
}

// IsResource reports whether k is a module-scope resource.
func (k NodeKind) IsResource() bool {
	switch k {
	case KindUniform, KindAttribute, KindBuiltin, KindVarying, KindTexture, KindConstant:
		return true
	}
	return false
}

// Node is one element of the shader graph.
//
// Nodes are built once and never mutated after they are attached to a
// parent. The same *Node referenced from two places denotes one value.
type Node struct {
	Kind NodeKind

	// Type is the declared type. Unknown means the type is inferred.
	Type Type

	// Op is the operator symbol, function name, swizzle mask, field name
	// or identifier, depending on Kind.
	Op string

	// Children are the ordered operands.
	Children []*Node

	// Value is the number carried by a literal. Booleans use 0 and 1.
	Value float64

	// Blocks are the nested bodies of control flow statements.
	Blocks []*Block

	// Cases are the arms of a switch statement.
	Cases []Case

	// Func is the callee of a define node.
	Func *Function

	// Scope is the innermost scope this node depends on, or NoScope for
	// nodes that are valid everywhere.
	Scope ScopeID
}

// Block is an ordered statement list owned by one scope.
type Block struct {
	Scope      ScopeID
	Statements []*Node
}

// Case is one arm of a switch. A nil Values list marks the default arm.
type Case struct {
	Values []*Node
	Body   *Block
}

// IsDefault reports whether c is the default arm.
func (c Case) IsDefault() bool { return c.Values == nil }

// Arg returns the i-th child or nil.
func (n *Node) Arg(i int) *Node {
	if n == nil || i < 0 || i >= len(n.Children) {
		return nil
	}
	return n.Children[i]
}

// IsLValue reports whether n can be the target of an assignment.
func (n *Node) IsLValue() bool {
	switch n.Kind {
	case KindVariable, KindParam, KindBuiltin:
		return true
	case KindMember:
		if !n.Arg(0).IsLValue() {
			return false
		}
		if base := Infer(n.Arg(0)); base.IsVector() {
			return !HasRepeatedComponents(n.Op)
		}
		return true
	case KindElement:
		return n.Arg(0).IsLValue()
	}
	return false
}

// IsConstant reports whether n is built only from literals and constructors.
func (n *Node) IsConstant() bool {
	switch n.Kind {
	case KindLiteral:
		return true
	case KindConversion, KindOperator:
		for _, c := range n.Children {
			if !c.IsConstant() {
				return false
			}
		}
		return true
	}
	return false
}

// Walk calls fn for n and every node reachable through its children, blocks
// and cases, in pre-order. Walk stops descending into a node when fn
// returns false. Shared nodes are visited once per reference.
func Walk(n *Node, fn func(*Node) bool) {
	if n == nil || !fn(n) {
		return
	}
	for _, c := range n.Children {
		Walk(c, fn)
	}
	for _, b := range n.Blocks {
		WalkBlock(b, fn)
	}
	for _, c := range n.Cases {
		for _, v := range c.Values {
			Walk(v, fn)
		}
		WalkBlock(c.Body, fn)
	}
}

// WalkBlock walks every statement of b.
func WalkBlock(b *Block, fn func(*Node) bool) {
	if b == nil {
		return
	}
	for _, s := range b.Statements {
		Walk(s, fn)
	}
}
