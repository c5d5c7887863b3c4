package graph

import (
	"fmt"

	"fortio.org/safecast"
)

// ScopeID addresses a scope in a Scopes arena.
type ScopeID uint32

// NoScope is the reserved zero ID. Nodes that do not depend on any local
// declaration carry it.
const NoScope ScopeID = 0

// IsValid reports whether id refers to an allocated scope.
func (id ScopeID) IsValid() bool { return id != NoScope }

// ScopeKind records which construct opened a scope.
type ScopeKind uint8

const (
	ScopeInvalid  ScopeKind = iota
	ScopeEntry              // stage entry point body
	ScopeFunction           // user function body
	ScopeIf                 // one branch of a conditional
	ScopeLoop               // loop body
	ScopeSwitch             // switch statement
	ScopeCase               // one switch arm
	ScopeBlock              // bare nested block
)

func (k ScopeKind) String() string {
	switch k {
	case ScopeEntry:
		return "entry"
	case ScopeFunction:
		return "function"
	case ScopeIf:
		return "if"
	case ScopeLoop:
		return "loop"
	case ScopeSwitch:
		return "switch"
	case ScopeCase:
		return "case"
	case ScopeBlock:
		return "block"
	default:
		return "invalid"
	}
}

// Scope is one lexical scope: a name table and the block its statements
// are recorded into.
type Scope struct {
	Kind   ScopeKind
	Parent ScopeID
	Depth  int
	Names  map[string]*Node
	Block  *Block
	Closed bool
}

// Scopes stores all scopes of one build in a slice-based arena.
type Scopes struct {
	data []Scope
}

// NewScopes creates an arena with an optional capacity hint.
func NewScopes(capacity uint32) *Scopes {
	if capacity == 0 {
		capacity = 32
	}
	return &Scopes{
		data: make([]Scope, 1, capacity+1), // index 0 reserved for NoScope
	}
}

// New allocates a new open scope under parent and returns its ID.
func (s *Scopes) New(kind ScopeKind, parent ScopeID) ScopeID {
	value, err := safecast.Conv[uint32](len(s.data))
	if err != nil {
		panic(fmt.Errorf("scopes arena overflow: %w", err))
	}
	id := ScopeID(value)
	depth := 0
	if p := s.Get(parent); p != nil {
		depth = p.Depth + 1
	}
	s.data = append(s.data, Scope{
		Kind:   kind,
		Parent: parent,
		Depth:  depth,
		Names:  make(map[string]*Node),
		Block:  &Block{Scope: id},
	})
	return id
}

// Get returns the scope pointer or nil if id is invalid.
func (s *Scopes) Get(id ScopeID) *Scope {
	if !id.IsValid() || int(id) >= len(s.data) {
		return nil
	}
	return &s.data[id]
}

// Len reports the number of allocated scopes.
func (s *Scopes) Len() int { return len(s.data) - 1 }

// Close marks the scope closed. Its declarations become unreachable.
func (s *Scopes) Close(id ScopeID) {
	if sc := s.Get(id); sc != nil {
		sc.Closed = true
	}
}

// Append records a statement in the scope's block.
func (s *Scopes) Append(id ScopeID, stmt *Node) {
	if sc := s.Get(id); sc != nil {
		sc.Block.Statements = append(sc.Block.Statements, stmt)
	}
}

// Declare binds name to n in scope id. Redeclaring a name in the same scope
// is an error; shadowing an outer name is allowed.
func (s *Scopes) Declare(id ScopeID, name string, n *Node) error {
	sc := s.Get(id)
	if sc == nil {
		return NewError(KindMisplacedStatement, "declaration of %q outside any scope", name)
	}
	if _, exists := sc.Names[name]; exists {
		return NewError(KindRedeclared, "%q already declared in this %s scope", name, sc.Kind)
	}
	sc.Names[name] = n
	return nil
}

// Lookup resolves name starting at id and walking outward through parents.
func (s *Scopes) Lookup(id ScopeID, name string) (*Node, ScopeID, bool) {
	for sc := s.Get(id); sc != nil; sc = s.Get(sc.Parent) {
		if n, ok := sc.Names[name]; ok {
			return n, id, true
		}
		id = sc.Parent
	}
	return nil, NoScope, false
}

// Encloses reports whether outer is inner or one of its ancestors.
func (s *Scopes) Encloses(outer, inner ScopeID) bool {
	if !outer.IsValid() {
		return true
	}
	for id := inner; id.IsValid(); {
		if id == outer {
			return true
		}
		sc := s.Get(id)
		if sc == nil {
			return false
		}
		id = sc.Parent
	}
	return false
}

// Innermost returns whichever of a and b is nested deeper.
// When both lie on one chain this is the scope a node built from both
// depends on.
func (s *Scopes) Innermost(a, b ScopeID) ScopeID {
	sa, sb := s.Get(a), s.Get(b)
	switch {
	case sa == nil:
		return b
	case sb == nil:
		return a
	case sb.Depth > sa.Depth:
		return b
	default:
		return a
	}
}

// Nearest returns the closest enclosing scope of one of the given kinds,
// stopping at function and entry boundaries.
func (s *Scopes) Nearest(id ScopeID, kinds ...ScopeKind) (ScopeID, bool) {
	for sc := s.Get(id); sc != nil; sc = s.Get(sc.Parent) {
		for _, k := range kinds {
			if sc.Kind == k {
				return id, true
			}
		}
		if sc.Kind == ScopeFunction || sc.Kind == ScopeEntry {
			break
		}
		id = sc.Parent
	}
	return NoScope, false
}
