package nogscript

import "testing"

func mustRun(t *testing.T, i *Interpreter, src string) Value {
	t.Helper()
	v, err := i.Run(src)
	if err != nil {
		t.Fatalf("unexpected error running %q: %v", src, err)
	}
	return v
}

func TestArithmeticWrapsOnOverflow(t *testing.T) {
	i := NewInterpreter(nil)
	v := mustRun(t, i, "2147483647 + 1")
	if v.Kind != KindValNumber || v.Number != -2147483648 {
		t.Fatalf("got %+v, want wrapped int32 min", v)
	}
}

func TestVarAndReassignment(t *testing.T) {
	i := NewInterpreter(nil)
	mustRun(t, i, "var x = 10")
	v := mustRun(t, i, "x = x + 5\nx")
	if v.Number != 15 {
		t.Fatalf("got %d, want 15", v.Number)
	}
}

func TestIfElseBranching(t *testing.T) {
	i := NewInterpreter(nil)
	v := mustRun(t, i, `var x = 0
if false {
	x = 1
} elif true {
	x = 2
} else {
	x = 3
}
x`)
	if v.Number != 2 {
		t.Fatalf("got %d, want 2", v.Number)
	}
}

func TestWhileLoopWithBreakAndContinue(t *testing.T) {
	i := NewInterpreter(nil)
	v := mustRun(t, i, `var sum = 0
var n = 0
while n < 10 {
	n = n + 1
	if n == 3 {
		continue
	}
	if n == 6 {
		break
	}
	sum = sum + n
}
sum`)
	// 1 + 2 + 4 + 5 = 12 (3 skipped via continue, loop stops before adding 6)
	if v.Number != 12 {
		t.Fatalf("got %d, want 12", v.Number)
	}
}

func TestFunctionCallAndReturn(t *testing.T) {
	i := NewInterpreter(nil)
	v := mustRun(t, i, `fn add(a, b) {
	return a + b
}
add(3, 4)`)
	if v.Number != 7 {
		t.Fatalf("got %d, want 7", v.Number)
	}
}

func TestClassFieldsAndMethods(t *testing.T) {
	i := NewInterpreter(nil)
	v := mustRun(t, i, `class Counter {
	count = 0
	fn increment() {
		this.count = this.count + 1
		return this.count
	}
}
var c = Counter{}
c.increment()
c.increment()`)
	if v.Number != 2 {
		t.Fatalf("got %d, want 2", v.Number)
	}
}

func TestClassConstructorFieldOverride(t *testing.T) {
	i := NewInterpreter(nil)
	v := mustRun(t, i, `class Point {
	x = 0
	y = 0
}
var p = Point{x: 5, y: 9}
p.x + p.y`)
	if v.Number != 14 {
		t.Fatalf("got %d, want 14", v.Number)
	}
}

func TestScriptOperatorOverrideWinsOverForeignDefault(t *testing.T) {
	i := NewInterpreter(nil)
	v := mustRun(t, i, `class Always {
	op +(other) {
		return 99
	}
}
var a = Always{}
a + 1`)
	if v.Number != 99 {
		t.Fatalf("got %d, want 99 (script op override)", v.Number)
	}
}

func TestArrayAndObjectLiterals(t *testing.T) {
	i := NewInterpreter(nil)
	v := mustRun(t, i, `var arr = [1, 2, 3]
arr[1]`)
	if v.Number != 2 {
		t.Fatalf("got %d, want 2", v.Number)
	}
	obj := mustRun(t, i, `var o = {a: 1, b: 2}
o.b`)
	if obj.Number != 2 {
		t.Fatalf("got %d, want 2", obj.Number)
	}
}

func TestUndefinedIdentifierErrors(t *testing.T) {
	i := NewInterpreter(nil)
	if _, err := i.Run("unknownName"); err == nil {
		t.Fatal("expected an error for an undefined identifier")
	}
}

func TestConfigFunctionsRoundTripAndExplain(t *testing.T) {
	i := NewInterpreter(nil)
	store := NewConfigStore(nil)
	store.SetSourceFile("test.ns")
	RegisterConfigFunctions(i, store)

	mustRun(t, i, `config.set("gap_size", 10)`)
	if got := store.Get("gap_size"); got.Number != 10 {
		t.Fatalf("got %d, want 10", got.Number)
	}

	mustRun(t, i, `config.toggle("borderless")`)
	if got := store.Get("borderless"); !got.IsTrue() {
		t.Fatal("expected borderless to be toggled true")
	}

	mustRun(t, i, `config.increment("gap_size")`)
	if got := store.Get("gap_size"); got.Number != 11 {
		t.Fatalf("got %d, want 11", got.Number)
	}

	v, prov, err := store.Explain("gap_size")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v.Number != 11 || prov.File != "test.ns" || prov.Line == 0 {
		t.Fatalf("got value=%+v prov=%+v", v, prov)
	}
}

func TestPrintLenTypeBuiltins(t *testing.T) {
	i := NewInterpreter(nil)
	v := mustRun(t, i, `len([1, 2, 3])`)
	if v.Number != 3 {
		t.Fatalf("got %d, want 3", v.Number)
	}
	v = mustRun(t, i, `type("hi")`)
	if v.Str != "String" {
		t.Fatalf("got %q, want String", v.Str)
	}
}
