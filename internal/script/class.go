package nogscript

// Class owns a name, default field expressions, instance methods, static
// functions, and a map from operator symbol to implementation — ported
// from class.rs's Class struct, generalized from Rust's Operator enum key
// to a plain string symbol ("+", "==", "[]", "()", "{}", ".", ...) since Go
// has no equivalent closed-enum-as-map-key idiom as convenient as deriving
// Hash/Eq on an enum.
type Class struct {
	Name       string
	Fields     map[string]Node
	Methods    map[string]*FnDecl
	Statics    map[string]*FnDecl
	ForeignOps map[string]func(i *Interpreter, this Value, args []Value) (Value, error)
	ScriptOps  map[string]*FnDecl
}

// NewClass returns an empty class shell; callers register methods/fields
// via the ClassDecl the parser produces, or via AddForeignOp for
// host-implemented builtin classes (Number, String, Array, ...).
func NewClass(name string) *Class {
	return &Class{
		Name:       name,
		Fields:     map[string]Node{},
		Methods:    map[string]*FnDecl{},
		Statics:    map[string]*FnDecl{},
		ForeignOps: map[string]func(*Interpreter, Value, []Value) (Value, error){},
		ScriptOps:  map[string]*FnDecl{},
	}
}

// AddForeignOp registers a host-implemented operator method, mirroring
// class.rs's set_op_impl builder calls for the default Add/Subtract/Equal/
// Dot/Assign/... implementations every builtin class inherits.
func (c *Class) AddForeignOp(op string, fn func(*Interpreter, Value, []Value) (Value, error)) *Class {
	c.ForeignOps[op] = fn
	return c
}

// ResolveOp looks up an operator implementation, script-defined overrides
// taking priority over the class's foreign (host) default, matching the
// original's per-class op_impls map with user classes able to shadow
// builtin operator behavior on their own instances.
func (c *Class) ResolveOp(op string) (*FnDecl, func(*Interpreter, Value, []Value) (Value, error), bool) {
	if fn, ok := c.ScriptOps[op]; ok {
		return fn, nil, true
	}
	if fn, ok := c.ForeignOps[op]; ok {
		return nil, fn, true
	}
	return nil, nil, false
}
