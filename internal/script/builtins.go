package nogscript

import "fmt"

// RegisterBuiltins installs the default operator implementations for every
// builtin value kind (Number, String, Boolean, Array, Object, Null,
// Function) plus a small
// set of globally-visible foreign functions (print, len, type). Ported from
// class.rs's Class::new builder chain, which installs the same default
// op_impls set (Add/Subtract/Times/Divide/Equal/NotEqual/comparisons/And/Or/
// Dot/Assign) for every class unless a script `op` block overrides it.
func RegisterBuiltins(i *Interpreter) {
	i.RegisterClass(numberClass())
	i.RegisterClass(stringClass())
	i.RegisterClass(booleanClass())
	i.RegisterClass(arrayClass())
	i.RegisterClass(objectClass())
	i.RegisterClass(nullClass())
	i.RegisterClass(functionClass())

	i.DefineGlobal("print", NewForeign("print", func(_ *Interpreter, args []Value) (Value, error) {
		parts := make([]any, len(args))
		for idx, a := range args {
			parts[idx] = a.String()
		}
		fmt.Println(parts...)
		return Null, nil
	}))
	i.DefineGlobal("len", NewForeign("len", func(_ *Interpreter, args []Value) (Value, error) {
		if len(args) != 1 {
			return Value{}, &GenericError{Message: "len expects exactly one argument"}
		}
		switch args[0].Kind {
		case KindValArray:
			return Num(int32(len(args[0].Items()))), nil
		case KindValString:
			return Num(int32(len(args[0].Str))), nil
		}
		return Value{}, &UnexpectedTypeError{Expected: "Array or String", Actual: args[0].TypeName()}
	}))
	i.DefineGlobal("type", NewForeign("type", func(_ *Interpreter, args []Value) (Value, error) {
		if len(args) != 1 {
			return Value{}, &GenericError{Message: "type expects exactly one argument"}
		}
		return Str(args[0].TypeName()), nil
	}))
}

func numCmp(op string) func(*Interpreter, Value, []Value) (Value, error) {
	return func(_ *Interpreter, left Value, args []Value) (Value, error) {
		right := args[0]
		if right.Kind != KindValNumber {
			return Value{}, &UnexpectedTypeError{Expected: "Number", Actual: right.TypeName()}
		}
		switch op {
		case ">":
			return Bool(left.Number > right.Number), nil
		case ">=":
			return Bool(left.Number >= right.Number), nil
		case "<":
			return Bool(left.Number < right.Number), nil
		case "<=":
			return Bool(left.Number <= right.Number), nil
		}
		return Value{}, &OperatorNotImplementedError{Class: "Number", Op: op}
	}
}

func numberClass() *Class {
	c := NewClass("Number")
	c.AddForeignOp("+", func(_ *Interpreter, left Value, args []Value) (Value, error) {
		if args[0].Kind != KindValNumber {
			return Value{}, &UnexpectedTypeError{Expected: "Number", Actual: args[0].TypeName()}
		}
		return Num(wrapAdd32(left.Number, args[0].Number)), nil
	})
	c.AddForeignOp("-", func(_ *Interpreter, left Value, args []Value) (Value, error) {
		if args[0].Kind != KindValNumber {
			return Value{}, &UnexpectedTypeError{Expected: "Number", Actual: args[0].TypeName()}
		}
		return Num(wrapSub32(left.Number, args[0].Number)), nil
	})
	c.AddForeignOp("*", func(_ *Interpreter, left Value, args []Value) (Value, error) {
		if args[0].Kind != KindValNumber {
			return Value{}, &UnexpectedTypeError{Expected: "Number", Actual: args[0].TypeName()}
		}
		return Num(wrapMul32(left.Number, args[0].Number)), nil
	})
	c.AddForeignOp("/", func(_ *Interpreter, left Value, args []Value) (Value, error) {
		if args[0].Kind != KindValNumber {
			return Value{}, &UnexpectedTypeError{Expected: "Number", Actual: args[0].TypeName()}
		}
		if args[0].Number == 0 {
			return Value{}, &GenericError{Message: "division by zero"}
		}
		return Num(left.Number / args[0].Number), nil
	})
	c.AddForeignOp("==", func(_ *Interpreter, left Value, args []Value) (Value, error) {
		return Bool(args[0].Kind == KindValNumber && args[0].Number == left.Number), nil
	})
	c.AddForeignOp("!=", func(_ *Interpreter, left Value, args []Value) (Value, error) {
		return Bool(!(args[0].Kind == KindValNumber && args[0].Number == left.Number)), nil
	})
	c.AddForeignOp(">", numCmp(">"))
	c.AddForeignOp(">=", numCmp(">="))
	c.AddForeignOp("<", numCmp("<"))
	c.AddForeignOp("<=", numCmp("<="))
	return c
}

func stringClass() *Class {
	c := NewClass("String")
	c.AddForeignOp("+", func(_ *Interpreter, left Value, args []Value) (Value, error) {
		return Str(left.Str + args[0].String()), nil
	})
	c.AddForeignOp("==", func(_ *Interpreter, left Value, args []Value) (Value, error) {
		return Bool(args[0].Kind == KindValString && args[0].Str == left.Str), nil
	})
	c.AddForeignOp("!=", func(_ *Interpreter, left Value, args []Value) (Value, error) {
		return Bool(!(args[0].Kind == KindValString && args[0].Str == left.Str)), nil
	})
	c.AddForeignOp("[]", func(_ *Interpreter, left Value, args []Value) (Value, error) {
		if args[0].Kind != KindValNumber {
			return Value{}, &UnexpectedTypeError{Expected: "Number", Actual: args[0].TypeName()}
		}
		idx := int(args[0].Number)
		if idx < 0 || idx >= len(left.Str) {
			return Null, nil
		}
		return Str(string(left.Str[idx])), nil
	})
	return c
}

func booleanClass() *Class {
	c := NewClass("Boolean")
	c.AddForeignOp("==", func(_ *Interpreter, left Value, args []Value) (Value, error) {
		return Bool(args[0].Kind == KindValBool && args[0].Bool == left.Bool), nil
	})
	c.AddForeignOp("!=", func(_ *Interpreter, left Value, args []Value) (Value, error) {
		return Bool(!(args[0].Kind == KindValBool && args[0].Bool == left.Bool)), nil
	})
	return c
}

func arrayClass() *Class {
	c := NewClass("Array")
	c.AddForeignOp("+", func(_ *Interpreter, left Value, args []Value) (Value, error) {
		if args[0].Kind != KindValArray {
			return Value{}, &UnexpectedTypeError{Expected: "Array", Actual: args[0].TypeName()}
		}
		return NewArray(append(left.Items(), args[0].Items()...)), nil
	})
	c.AddForeignOp("==", func(_ *Interpreter, left Value, args []Value) (Value, error) {
		if args[0].Kind != KindValArray {
			return Bool(false), nil
		}
		return Bool(left.Arr == args[0].Arr), nil
	})
	return c
}

func objectClass() *Class {
	c := NewClass("Object")
	c.AddForeignOp("==", func(_ *Interpreter, left Value, args []Value) (Value, error) {
		if args[0].Kind != KindValObject {
			return Bool(false), nil
		}
		return Bool(left.Obj == args[0].Obj), nil
	})
	return c
}

func nullClass() *Class {
	c := NewClass("Null")
	c.AddForeignOp("==", func(_ *Interpreter, _ Value, args []Value) (Value, error) {
		return Bool(args[0].Kind == KindValNull), nil
	})
	c.AddForeignOp("!=", func(_ *Interpreter, _ Value, args []Value) (Value, error) {
		return Bool(args[0].Kind != KindValNull), nil
	})
	return c
}

func functionClass() *Class {
	return NewClass("Function")
}
