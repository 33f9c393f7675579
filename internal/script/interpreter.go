package nogscript

import "fmt"

// Interpreter is the tree-walking evaluator, ported from interpreter.rs's
// Interpreter struct: a scope stack, the registered classes (builtin plus
// user-defined), and a ModuleLoader for `import`. Foreign functions that
// touch application state take AppState's mutex themselves (spec.md §4.6's
// "Execution contract with host") — the interpreter itself holds no lock
// and is only ever invoked from the single orchestrator goroutine that owns
// the script VM.
type Interpreter struct {
	scope    *Scope
	classes  map[string]*Class
	modules  *ModuleLoader
	callLine int // source line of the call currently being dispatched, for config.explain provenance
}

// NewInterpreter returns an interpreter seeded with the builtin classes
// (installed by builtins.go's RegisterBuiltins)
// and a module loader rooted at searchDirs.
func NewInterpreter(searchDirs []string) *Interpreter {
	i := &Interpreter{
		scope:   NewScope(),
		classes: map[string]*Class{},
		modules: NewModuleLoader(searchDirs),
	}
	RegisterBuiltins(i)
	return i
}

// withScope returns a shallow copy of the interpreter sharing its class
// table and module loader but evaluating against scope — used by
// ModuleLoader.Load and function calls to run statements in an isolated
// frame without mutating the caller's interpreter.
func (i *Interpreter) withScope(scope *Scope) *Interpreter {
	return &Interpreter{scope: scope, classes: i.classes, modules: i.modules}
}

// RegisterClass adds or replaces a class in the global class table, shared
// by every scope (class declarations are not lexically scoped in
// nogscript, matching the original's single global class registry).
func (i *Interpreter) RegisterClass(c *Class) {
	i.classes[c.Name] = c
}

func (i *Interpreter) findClass(name string) (*Class, bool) {
	c, ok := i.classes[name]
	return c, ok
}

// DefineGlobal binds a name (typically a ForeignFunction or Module value)
// at the interpreter's top scope, the mechanism the FFI bridge
// (SPEC_FULL.md §6.7) uses to expose host functionality to scripts.
func (i *Interpreter) DefineGlobal(name string, v Value) {
	i.scope.Define(name, v)
}

// Run parses and executes src as a sequence of top-level statements against
// the interpreter's current scope, returning the last expression
// statement's value (useful for the `cmd/tilewm script` REPL).
func (i *Interpreter) Run(src string) (Value, error) {
	stmts, err := Parse(src)
	if err != nil {
		return Value{}, err
	}
	var last Value
	for _, stmt := range stmts {
		v, ctl, err := i.execStatement(stmt)
		if err != nil {
			return Value{}, err
		}
		if ctl.kind == controlReturn {
			return ctl.value, nil
		}
		last = v
	}
	return last, nil
}

// execTopLevel runs one top-level statement and reports whether it was an
// `export`ed declaration, for ModuleLoader.Load to collect into a Module's
// public interface.
func (i *Interpreter) execTopLevel(stmt Node) (exported bool, name string, val Value, err error) {
	if exp, ok := stmt.(ExportStmt); ok {
		v, _, err := i.execStatement(exp.Decl)
		if err != nil {
			return false, "", Value{}, err
		}
		switch d := exp.Decl.(type) {
		case *FnDecl:
			return true, d.Name, v, nil
		case *ClassDecl:
			return true, d.Name, v, nil
		case VarDecl:
			if len(d.Names) == 1 {
				bound, _ := i.scope.Get(d.Names[0])
				return true, d.Names[0], bound, nil
			}
		}
		return true, "", v, nil
	}
	_, _, err = i.execStatement(stmt)
	return false, "", Value{}, err
}

// execBlock runs a statement list in a fresh child scope, returning a
// control signal that propagates break/continue/return out to the nearest
// loop or function boundary that handles it.
func (i *Interpreter) execBlock(stmts []Node, scope *Scope) (Value, controlSignal, error) {
	sub := i.withScope(scope)
	var last Value
	for _, stmt := range stmts {
		v, ctl, err := sub.execStatement(stmt)
		if err != nil {
			return Value{}, controlSignal{}, err
		}
		if ctl.kind != controlNone {
			return v, ctl, nil
		}
		last = v
	}
	return last, controlSignal{}, nil
}

func (i *Interpreter) execStatement(stmt Node) (Value, controlSignal, error) {
	switch s := stmt.(type) {
	case ExprStmt:
		v, err := i.Eval(s.Expr)
		return v, controlSignal{}, err

	case VarDecl:
		v, err := i.Eval(s.Value)
		if err != nil {
			return Value{}, controlSignal{}, err
		}
		if len(s.Names) == 1 {
			i.scope.Define(s.Names[0], v)
			return v, controlSignal{}, nil
		}
		items := v.Items()
		for idx, name := range s.Names {
			if idx < len(items) {
				i.scope.Define(name, items[idx])
			} else {
				i.scope.Define(name, Null)
			}
		}
		return v, controlSignal{}, nil

	case IfStmt:
		cond, err := i.Eval(s.Cond)
		if err != nil {
			return Value{}, controlSignal{}, err
		}
		if cond.IsTrue() {
			return i.execBlock(s.Then, i.scope.Push())
		}
		for idx, elifCond := range s.ElifConds {
			ev, err := i.Eval(elifCond)
			if err != nil {
				return Value{}, controlSignal{}, err
			}
			if ev.IsTrue() {
				return i.execBlock(s.ElifBodies[idx], i.scope.Push())
			}
		}
		if s.Else != nil {
			return i.execBlock(s.Else, i.scope.Push())
		}
		return Value{}, controlSignal{}, nil

	case WhileStmt:
		for {
			cond, err := i.Eval(s.Cond)
			if err != nil {
				return Value{}, controlSignal{}, err
			}
			if !cond.IsTrue() {
				return Value{}, controlSignal{}, nil
			}
			_, ctl, err := i.execBlock(s.Body, i.scope.Push())
			if err != nil {
				return Value{}, controlSignal{}, err
			}
			switch ctl.kind {
			case controlBreak:
				return Value{}, controlSignal{}, nil
			case controlReturn:
				return ctl.value, ctl, nil
			}
		}

	case BreakStmt:
		return Value{}, controlSignal{kind: controlBreak}, nil
	case ContinueStmt:
		return Value{}, controlSignal{kind: controlContinue}, nil
	case ReturnStmt:
		var v Value
		var err error
		if s.Value != nil {
			v, err = i.Eval(s.Value)
			if err != nil {
				return Value{}, controlSignal{}, err
			}
		}
		return v, controlSignal{kind: controlReturn, value: v}, nil

	case *FnDecl:
		fn := Value{Kind: KindValFunction, Fn: s, FnScope: i.scope}
		i.scope.Define(s.Name, fn)
		return fn, controlSignal{}, nil

	case *ClassDecl:
		c := NewClass(s.Name)
		for name, expr := range s.Fields {
			c.Fields[name] = expr
		}
		for name, fn := range s.Methods {
			c.Methods[name] = fn
		}
		for name, fn := range s.Statics {
			c.Statics[name] = fn
		}
		for op, fn := range s.OpImpls {
			c.ScriptOps[op] = fn
		}
		i.RegisterClass(c)
		return Value{Kind: KindValClass, Class: c}, controlSignal{}, nil

	case ImportStmt:
		mod, err := i.modules.Load(i, s.Path)
		if err != nil {
			return Value{}, controlSignal{}, err
		}
		leafName := s.Path
		for idx := len(s.Path) - 1; idx >= 0; idx-- {
			if s.Path[idx] == '.' {
				leafName = s.Path[idx+1:]
				break
			}
		}
		modVal := Value{Kind: KindValModule, Module: mod}
		i.scope.Define(leafName, modVal)
		return modVal, controlSignal{}, nil

	case ExportStmt:
		v, ctl, err := i.execStatement(s.Decl)
		return v, ctl, err

	default:
		return Value{}, controlSignal{}, fmt.Errorf("cannot execute node %T as a statement", stmt)
	}
}
