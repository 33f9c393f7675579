package nogscript

// Scope is a stack of lexical frames: identifier lookup searches from
// innermost outward, then falls back to the interpreter's global builtin
// map. Ported from interpreter.rs's scope stack, represented there as a
// persistent linked structure so a Function can cheaply snapshot it at
// definition time; here a Scope is an immutable-once-captured chain of
// *frame pointers, so capturing for a closure is just keeping a reference
// to the current tail frame.
type Scope struct {
	frame  *frame
	parent *Scope
}

type frame struct {
	vars map[string]Value
}

// NewScope returns a fresh, empty top-level scope.
func NewScope() *Scope {
	return &Scope{frame: &frame{vars: map[string]Value{}}}
}

// Push returns a new child scope with an empty frame on top.
func (s *Scope) Push() *Scope {
	return &Scope{frame: &frame{vars: map[string]Value{}}, parent: s}
}

// Get searches this scope and its ancestors for name.
func (s *Scope) Get(name string) (Value, bool) {
	for sc := s; sc != nil; sc = sc.parent {
		if v, ok := sc.frame.vars[name]; ok {
			return v, true
		}
	}
	return Value{}, false
}

// Define binds name in this scope's own frame (shadowing any ancestor
// binding), matching `var` always introducing a new local binding.
func (s *Scope) Define(name string, v Value) {
	s.frame.vars[name] = v
}

// Set walks outward looking for an existing binding of name and updates it
// in place; if none exists, it defines name in the innermost (this) frame,
// matching assignment-creates-global/local-as-needed semantics most
// dynamic scripting languages use for bare `name = value`.
func (s *Scope) Set(name string, v Value) {
	for sc := s; sc != nil; sc = sc.parent {
		if _, ok := sc.frame.vars[name]; ok {
			sc.frame.vars[name] = v
			return
		}
	}
	s.frame.vars[name] = v
}
