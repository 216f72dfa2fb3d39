package compiler

import (
	"exprjit/internal/ast"

	"tinygo.org/x/go-llvm"
)

// Variable is a scope-time binding: an identifier mapped to a storage
// slot (an alloca pointer) tagged with its declared kind. Function
// bindings are the one exception — a function value is itself a
// compile-time constant, so binding one does not allocate a slot at all;
// FuncVal carries the callable value directly (see setVar/getVar in
// frame.go). This is a deliberate simplification of the two parallel
// Value/Var hierarchies in the original source (SPEC_FULL.md §9).
type Variable struct {
	Kind ValueKind
	Slot llvm.Value // alloca pointer holding the current value (non-Function kinds)

	FuncVal    llvm.Value // the callable value itself (Function kind only)
	FuncType   llvm.Type
	ReturnType ast.Type
	ParamTypes []ast.Type // declared parameter types (Function kind only), checked by walkFuncCall
}

// scope owns a set of name bindings plus the list of heap references
// (String/Vec) produced within it that have not yet been claimed by an
// assignment. On scope exit every remaining tracked reference is
// released exactly once.
//
// Unlike the teacher's util.Stack, this is not mutex-protected: §5 of the
// specification establishes the compiler as strictly single-threaded, so
// a lock here would be dead weight (see DESIGN.md).
type scope struct {
	vars  map[string]*Variable
	order []string // names in first-binding order, for deterministic slot release
	tracked []Value
}

func newScope() *scope {
	return &scope{vars: make(map[string]*Variable)}
}

// track records a freshly produced heap Value as not yet owned by any
// slot. Called immediately after any runtime call or literal that
// produces a String or Vec.
func (s *scope) track(v Value) {
	if v.isHeap() {
		s.tracked = append(s.tracked, v)
	}
}

// untrack removes a heap Value from the tracked list, e.g. when an
// assignment moves ownership into a variable slot. It removes at most
// one matching entry, innermost occurrence first, matching the
// producing call site.
func (s *scope) untrack(v Value) {
	for i := len(s.tracked) - 1; i >= 0; i-- {
		if s.tracked[i].Val == v.Val {
			s.tracked = append(s.tracked[:i], s.tracked[i+1:]...)
			return
		}
	}
}

// scopeStack is the lexically nested stack of scopes described in §3.4.
// Index 0 is the global/program scope; new scopes are pushed for
// function bodies, conditional branches and loop bodies.
type scopeStack struct {
	frames []*scope
}

func newScopeStack() *scopeStack {
	return &scopeStack{}
}

func (s *scopeStack) push() *scope {
	f := newScope()
	s.frames = append(s.frames, f)
	return f
}

func (s *scopeStack) pop() *scope {
	n := len(s.frames)
	f := s.frames[n-1]
	s.frames = s.frames[:n-1]
	return f
}

func (s *scopeStack) top() *scope {
	return s.frames[len(s.frames)-1]
}

// lookup walks scopes innermost-first and returns the first binding
// found, per invariant 2.
func (s *scopeStack) lookup(name string) (*Variable, bool) {
	for i := len(s.frames) - 1; i >= 0; i-- {
		if v, ok := s.frames[i].vars[name]; ok {
			return v, true
		}
	}
	return nil, false
}
