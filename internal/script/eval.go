package nogscript

import "fmt"

// Eval evaluates an expression node to a Value. Ported from interpreter.rs's
// eval_expr match, with binary/unary/index/call/constructor operators all
// routed through the operand's Class so a user-defined class's `op`
// overrides win over the builtin default, per class.rs's op_impls lookup
// (Class.ResolveOp).
func (i *Interpreter) Eval(node Node) (Value, error) {
	switch n := node.(type) {
	case NumberLit:
		return Num(n.Value), nil
	case StringLit:
		return Str(n.Value), nil
	case BoolLit:
		return Bool(n.Value), nil
	case NullLit:
		return Null, nil

	case Identifier:
		if v, ok := i.scope.Get(n.Name); ok {
			return v, nil
		}
		return Value{}, &GenericError{Message: fmt.Sprintf("undefined identifier %q", n.Name)}

	case ClassIdentifier:
		c, ok := i.findClass(n.Name)
		if !ok {
			return Value{}, &ClassNotFoundError{Name: n.Name}
		}
		return Value{Kind: KindValClass, Class: c}, nil

	case ArrayLit:
		items := make([]Value, len(n.Elements))
		for idx, el := range n.Elements {
			v, err := i.Eval(el)
			if err != nil {
				return Value{}, err
			}
			items[idx] = v
		}
		return NewArray(items), nil

	case ObjectLit:
		fields := make(map[string]Value, len(n.Keys))
		for idx, key := range n.Keys {
			v, err := i.Eval(n.Values[idx])
			if err != nil {
				return Value{}, err
			}
			fields[key] = v
		}
		return NewObject(fields), nil

	case BinaryExpr:
		return i.evalBinary(n)

	case UnaryExpr:
		return i.evalUnary(n)

	case AssignExpr:
		return i.evalAssign(n)

	case IncDecExpr:
		return i.evalIncDec(n)

	case CallExpr:
		return i.evalCall(n)

	case IndexExpr:
		return i.evalIndex(n)

	case MemberExpr:
		return i.evalMember(n)

	case ConstructorExpr:
		return i.evalConstructor(n)

	case *FnDecl:
		return Value{Kind: KindValFunction, Fn: n, FnScope: i.scope}, nil

	default:
		return Value{}, fmt.Errorf("cannot evaluate node %T as an expression", node)
	}
}

// applyOp resolves and invokes op on left with args (typically [right]),
// preferring a script `op` override on left's class over the class's
// foreign default, matching class.rs's get_op_impl precedence.
func (i *Interpreter) applyOp(op string, left Value, args []Value) (Value, error) {
	class, ok := i.findClass(left.TypeName())
	if !ok {
		return Value{}, &ClassNotFoundError{Name: left.TypeName()}
	}
	scriptFn, foreignFn, ok := class.ResolveOp(op)
	if !ok {
		return Value{}, &OperatorNotImplementedError{Class: class.Name, Op: op}
	}
	if foreignFn != nil {
		return foreignFn(i, left, args)
	}
	return i.callFunction(scriptFn, nil, &left, args)
}

func (i *Interpreter) evalBinary(n BinaryExpr) (Value, error) {
	// && and || short-circuit and are evaluated directly rather than
	// dispatched through Class.ResolveOp, since their right operand must
	// not be evaluated unconditionally.
	switch n.Op {
	case "&&":
		l, err := i.Eval(n.Left)
		if err != nil {
			return Value{}, err
		}
		if !l.IsTrue() {
			return Bool(false), nil
		}
		r, err := i.Eval(n.Right)
		if err != nil {
			return Value{}, err
		}
		return Bool(r.IsTrue()), nil
	case "||":
		l, err := i.Eval(n.Left)
		if err != nil {
			return Value{}, err
		}
		if l.IsTrue() {
			return Bool(true), nil
		}
		r, err := i.Eval(n.Right)
		if err != nil {
			return Value{}, err
		}
		return Bool(r.IsTrue()), nil
	}

	left, err := i.Eval(n.Left)
	if err != nil {
		return Value{}, err
	}
	right, err := i.Eval(n.Right)
	if err != nil {
		return Value{}, err
	}
	return i.applyOp(n.Op, left, []Value{right})
}

func (i *Interpreter) evalUnary(n UnaryExpr) (Value, error) {
	v, err := i.Eval(n.Operand)
	if err != nil {
		return Value{}, err
	}
	switch n.Op {
	case "!":
		return Bool(!v.IsTrue()), nil
	case "-":
		if v.Kind != KindValNumber {
			return Value{}, &UnexpectedTypeError{Expected: "Number", Actual: v.TypeName()}
		}
		return Num(wrapSub32(0, v.Number)), nil
	}
	return Value{}, &OperatorNotImplementedError{Class: v.TypeName(), Op: n.Op}
}

func (i *Interpreter) evalAssign(n AssignExpr) (Value, error) {
	val, err := i.Eval(n.Value)
	if err != nil {
		return Value{}, err
	}
	if n.Op != "=" {
		cur, err := i.Eval(n.Target)
		if err != nil {
			return Value{}, err
		}
		op := string(n.Op[:len(n.Op)-1]) // "+=" -> "+"
		val, err = i.applyOp(op, cur, []Value{val})
		if err != nil {
			return Value{}, err
		}
	}
	if err := i.assignTo(n.Target, val); err != nil {
		return Value{}, err
	}
	return val, nil
}

func (i *Interpreter) assignTo(target Node, val Value) error {
	switch t := target.(type) {
	case Identifier:
		i.scope.Set(t.Name, val)
		return nil
	case MemberExpr:
		obj, err := i.Eval(t.Target)
		if err != nil {
			return err
		}
		obj.SetField(t.Name, val)
		return nil
	case IndexExpr:
		obj, err := i.Eval(t.Target)
		if err != nil {
			return err
		}
		idx, err := i.Eval(t.Index)
		if err != nil {
			return err
		}
		if idx.Kind != KindValNumber {
			return &UnexpectedTypeError{Expected: "Number", Actual: idx.TypeName()}
		}
		obj.SetIndex(int(idx.Number), val)
		return nil
	}
	return &GenericError{Message: "invalid assignment target"}
}

func (i *Interpreter) evalIncDec(n IncDecExpr) (Value, error) {
	cur, err := i.Eval(n.Target)
	if err != nil {
		return Value{}, err
	}
	if cur.Kind != KindValNumber {
		return Value{}, &UnexpectedTypeError{Expected: "Number", Actual: cur.TypeName()}
	}
	delta := int32(1)
	if n.Op == "--" {
		delta = -1
	}
	next := Num(wrapAdd32(cur.Number, delta))
	if err := i.assignTo(n.Target, next); err != nil {
		return Value{}, err
	}
	return cur, nil
}

func (i *Interpreter) evalIndex(n IndexExpr) (Value, error) {
	target, err := i.Eval(n.Target)
	if err != nil {
		return Value{}, err
	}
	idx, err := i.Eval(n.Index)
	if err != nil {
		return Value{}, err
	}
	switch target.Kind {
	case KindValArray:
		if idx.Kind != KindValNumber {
			return Value{}, &UnexpectedTypeError{Expected: "Number", Actual: idx.TypeName()}
		}
		return target.Index(int(idx.Number)), nil
	case KindValObject:
		return target.GetField(idx.String()), nil
	}
	return i.applyOp("[]", target, []Value{idx})
}

func (i *Interpreter) evalMember(n MemberExpr) (Value, error) {
	target, err := i.Eval(n.Target)
	if err != nil {
		return Value{}, err
	}
	if n.Name == "this" {
		return target, nil
	}
	// A method on a class instance takes precedence over a plain data field
	// of the same name, matching class.rs's method-before-field resolution.
	if target.Kind == KindValClassInstance || target.Kind == KindValModule {
		if target.Kind == KindValModule {
			if v, ok := target.Module.Exports[n.Name]; ok {
				return v, nil
			}
			return Value{}, &GenericError{Message: fmt.Sprintf("module %s has no export %q", target.Module.Path, n.Name)}
		}
		if class, ok := i.findClass(target.Instance.className); ok {
			if m, ok := class.Methods[n.Name]; ok {
				return Value{Kind: KindValFunction, Fn: m, FnScope: i.scope}, nil
			}
		}
	}
	if target.Kind == KindValClass {
		if m, ok := target.Class.Statics[n.Name]; ok {
			return Value{Kind: KindValFunction, Fn: m, FnScope: i.scope}, nil
		}
		return Value{}, &StaticFunctionNotFoundError{Class: target.Class.Name, Name: n.Name}
	}
	return target.GetField(n.Name), nil
}

func (i *Interpreter) evalConstructor(n ConstructorExpr) (Value, error) {
	classVal, err := i.Eval(n.Class)
	if err != nil {
		return Value{}, err
	}
	if classVal.Kind != KindValClass {
		return Value{}, &UnexpectedTypeError{Expected: "Class", Actual: classVal.TypeName()}
	}

	// parseConstructorArgs packs `{ field: value, ... }` as a single
	// ObjectLit argument; its key/value pairs seed the new instance's
	// fields directly, overriding the class's default field expressions.
	overrides := map[string]Node{}
	if len(n.Args) == 1 {
		if lit, ok := n.Args[0].(ObjectLit); ok {
			for idx, key := range lit.Keys {
				overrides[key] = lit.Values[idx]
			}
		}
	}

	fields := map[string]Value{}
	for name, expr := range classVal.Class.Fields {
		src := expr
		if o, ok := overrides[name]; ok {
			src = o
		}
		v, err := i.Eval(src)
		if err != nil {
			return Value{}, err
		}
		fields[name] = v
	}
	for name, expr := range overrides {
		if _, ok := fields[name]; ok {
			continue
		}
		v, err := i.Eval(expr)
		if err != nil {
			return Value{}, err
		}
		fields[name] = v
	}

	instance := Value{Kind: KindValClassInstance, Instance: &classInstance{className: classVal.Class.Name, fields: fields}}
	if ctor, ok := classVal.Class.Methods["new"]; ok {
		if _, err := i.callFunction(ctor, nil, &instance, nil); err != nil {
			return Value{}, err
		}
	}
	return instance, nil
}

func (i *Interpreter) evalCall(n CallExpr) (Value, error) {
	i.callLine = n.Line
	args := make([]Value, len(n.Args))
	for idx, a := range n.Args {
		v, err := i.Eval(a)
		if err != nil {
			return Value{}, err
		}
		args[idx] = v
	}

	// `obj.method(args)` binds `this` to obj without evaluating the member
	// twice (and without relying on evalMember's closure-capture scope).
	if member, ok := n.Callee.(MemberExpr); ok {
		target, err := i.Eval(member.Target)
		if err != nil {
			return Value{}, err
		}
		if target.Kind == KindValModule {
			v, ok := target.Module.Exports[member.Name]
			if !ok {
				return Value{}, &GenericError{Message: fmt.Sprintf("module %s has no export %q", target.Module.Path, member.Name)}
			}
			return i.callValue(v, nil, args)
		}
		if target.Kind == KindValClass {
			fn, ok := target.Class.Statics[member.Name]
			if !ok {
				return Value{}, &StaticFunctionNotFoundError{Class: target.Class.Name, Name: member.Name}
			}
			return i.callFunction(fn, nil, nil, args)
		}
		if target.Kind == KindValClassInstance {
			if class, ok := i.findClass(target.Instance.className); ok {
				if m, ok := class.Methods[member.Name]; ok {
					return i.callFunction(m, nil, &target, args)
				}
			}
		}
		// A plain field holding a callable (e.g. config.set, a module-style
		// Object of foreign functions) is invoked with no implicit `this` —
		// only a declared class method binds `this`, handled above.
		fieldFn := target.GetField(member.Name)
		return i.callValue(fieldFn, nil, args)
	}

	callee, err := i.Eval(n.Callee)
	if err != nil {
		return Value{}, err
	}
	return i.callValue(callee, nil, args)
}

func (i *Interpreter) callValue(callee Value, this *Value, args []Value) (Value, error) {
	switch callee.Kind {
	case KindValFunction:
		return i.callFunction(callee.Fn, callee.FnScope, this, args)
	case KindValForeignFunction:
		if this != nil {
			args = append([]Value{*this}, args...)
		}
		return callee.Foreign.Callback(i, args)
	}
	return Value{}, &UnexpectedTypeError{Expected: "Function", Actual: callee.TypeName()}
}

// callFunction invokes a script-defined function or method. defScope is the
// lexical scope the function closed over at definition time (nil for
// methods, which always close over the interpreter's current global scope);
// when this is non-nil it is bound to the name "this" in the call frame,
// matching class.rs method dispatch.
func (i *Interpreter) callFunction(fn *FnDecl, defScope *Scope, this *Value, args []Value) (Value, error) {
	if defScope == nil {
		defScope = i.scope
	}
	callScope := defScope.Push()
	if this != nil {
		callScope.Define("this", *this)
	}
	for idx, param := range fn.Params {
		if idx < len(args) {
			callScope.Define(param, args[idx])
		} else {
			callScope.Define(param, Null)
		}
	}
	val, ctl, err := i.execBlock(fn.Body, callScope)
	if err != nil {
		return Value{}, err
	}
	if ctl.kind == controlReturn {
		return ctl.value, nil
	}
	return val, nil
}
