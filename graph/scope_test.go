package graph

import (
	"errors"
	"testing"
)

func TestScopesArena(t *testing.T) {
	s := NewScopes(0)
	entry := s.New(ScopeEntry, NoScope)
	branch := s.New(ScopeIf, entry)
	sibling := s.New(ScopeIf, entry)

	if s.Len() != 3 {
		t.Fatalf("Len() = %d, want 3", s.Len())
	}
	if got := s.Get(branch).Depth; got != 1 {
		t.Errorf("branch depth = %d, want 1", got)
	}
	if s.Get(NoScope) != nil {
		t.Error("Get(NoScope) should be nil")
	}

	x := &Node{Kind: KindVariable, Op: "x", Scope: branch}
	if err := s.Declare(branch, "x", x); err != nil {
		t.Fatalf("Declare() error = %v", err)
	}
	if err := s.Declare(branch, "x", x); !errors.Is(err, ErrRedeclared) {
		t.Errorf("second Declare() error = %v, want ErrRedeclared", err)
	}

	if _, _, ok := s.Lookup(sibling, "x"); ok {
		t.Error("x should not be visible from a sibling branch")
	}
	if _, _, ok := s.Lookup(entry, "x"); ok {
		t.Error("x should not be visible from the parent")
	}
	inner := s.New(ScopeLoop, branch)
	n, id, ok := s.Lookup(inner, "x")
	if !ok || n != x || id != branch {
		t.Errorf("Lookup(inner, x) = %v, %d, %v; want x, %d, true", n, id, ok, branch)
	}
}

func TestScopesEnclosesAndInnermost(t *testing.T) {
	s := NewScopes(4)
	root := s.New(ScopeEntry, NoScope)
	loop := s.New(ScopeLoop, root)
	body := s.New(ScopeIf, loop)
	other := s.New(ScopeBlock, root)

	if !s.Encloses(root, body) || !s.Encloses(loop, body) || !s.Encloses(body, body) {
		t.Error("Encloses() should accept ancestors")
	}
	if s.Encloses(other, body) {
		t.Error("Encloses() should reject a sibling subtree")
	}
	if !s.Encloses(NoScope, body) {
		t.Error("NoScope encloses everything")
	}
	if got := s.Innermost(root, body); got != body {
		t.Errorf("Innermost() = %d, want %d", got, body)
	}
	if got := s.Innermost(NoScope, loop); got != loop {
		t.Errorf("Innermost(NoScope, loop) = %d, want %d", got, loop)
	}

	if id, ok := s.Nearest(body, ScopeLoop); !ok || id != loop {
		t.Errorf("Nearest(body, loop) = %d, %v", id, ok)
	}
	fn := s.New(ScopeFunction, body)
	if _, ok := s.Nearest(s.New(ScopeIf, fn), ScopeLoop); ok {
		t.Error("Nearest() must stop at a function boundary")
	}
}

func TestScopesAppend(t *testing.T) {
	s := NewScopes(0)
	id := s.New(ScopeEntry, NoScope)
	s.Append(id, &Node{Kind: KindBreak})
	s.Close(id)
	sc := s.Get(id)
	if len(sc.Block.Statements) != 1 || !sc.Closed || sc.Block.Scope != id {
		t.Errorf("scope = %+v", sc)
	}
}
