package exec

import "fmt"

// Scope is one link of the lexical chain: a bindings table plus an optional
// parent. All scopes of a run root at a single global scope.
type Scope struct {
	parent *Scope
	vars   map[string]Value
}

// NewScope creates a scope chained to parent (which may be nil for the
// global scope).
func NewScope(parent *Scope) *Scope {
	return &Scope{parent: parent, vars: make(map[string]Value)}
}

// Lookup walks the parent chain and returns the nearest binding. Unbound
// names resolve to the undefined sentinel, not an error; the languages
// emulated here surface that as a value.
func (s *Scope) Lookup(name string) Value {
	for sc := s; sc != nil; sc = sc.parent {
		if v, ok := sc.vars[name]; ok {
			return v
		}
	}
	return undefined
}

// Has reports whether the name is bound anywhere on the chain.
func (s *Scope) Has(name string) bool {
	for sc := s; sc != nil; sc = sc.parent {
		if _, ok := sc.vars[name]; ok {
			return true
		}
	}
	return false
}

// Declare always binds in this scope, shadowing any outer binding.
func (s *Scope) Declare(name string, v Value) {
	s.vars[name] = v
}

// Assign mutates the nearest existing binding on the chain. A name unbound
// everywhere is created at the chain root, matching sloppy-mode implicit
// globals.
func (s *Scope) Assign(name string, v Value) {
	root := s
	for sc := s; sc != nil; sc = sc.parent {
		if _, ok := sc.vars[name]; ok {
			sc.vars[name] = v
			return
		}
		root = sc
	}
	root.vars[name] = v
}

// Frame is one active invocation on the call stack.
type Frame struct {
	ID       int
	Function string
	Line     int
	Scope    *Scope // the call's local scope, read at snapshot time
}

// CallStack is the bounded stack of call frames. Push fails closed when the
// depth bound is reached so runaway recursion cannot blow the host stack.
type CallStack struct {
	frames []*Frame
	max    int
}

// NewCallStack creates a stack bounded at max frames.
func NewCallStack(max int) *CallStack {
	return &CallStack{max: max}
}

// Push adds a frame, failing when the stack is full.
func (cs *CallStack) Push(f *Frame) error {
	if len(cs.frames) >= cs.max {
		return fmt.Errorf("maximum call stack size exceeded (depth > %d)", cs.max)
	}
	cs.frames = append(cs.frames, f)
	return nil
}

// Pop removes and returns the top frame, or nil when empty.
func (cs *CallStack) Pop() *Frame {
	if len(cs.frames) == 0 {
		return nil
	}
	f := cs.frames[len(cs.frames)-1]
	cs.frames = cs.frames[:len(cs.frames)-1]
	return f
}

// Top returns the current frame without removing it.
func (cs *CallStack) Top() *Frame {
	if len(cs.frames) == 0 {
		return nil
	}
	return cs.frames[len(cs.frames)-1]
}

// Depth returns the number of active frames.
func (cs *CallStack) Depth() int {
	return len(cs.frames)
}

// Frames returns the active frames, outermost first.
func (cs *CallStack) Frames() []*Frame {
	return cs.frames
}
