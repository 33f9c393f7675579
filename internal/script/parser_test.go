package nogscript

import "testing"

func TestParseVarDeclAndIf(t *testing.T) {
	stmts, err := Parse(`var x = 1
if x == 1 {
	x = 2
} elif x == 2 {
	x = 3
} else {
	x = 4
}`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(stmts) != 2 {
		t.Fatalf("got %d statements, want 2", len(stmts))
	}
	decl, ok := stmts[0].(VarDecl)
	if !ok || decl.Names[0] != "x" {
		t.Fatalf("got %+v", stmts[0])
	}
	ifStmt, ok := stmts[1].(IfStmt)
	if !ok {
		t.Fatalf("got %T, want IfStmt", stmts[1])
	}
	if len(ifStmt.ElifConds) != 1 || len(ifStmt.Else) != 1 {
		t.Fatalf("got %+v", ifStmt)
	}
}

func TestParseBinaryPrecedence(t *testing.T) {
	stmts, err := Parse("var x = 1 + 2 * 3")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	decl := stmts[0].(VarDecl)
	bin, ok := decl.Value.(BinaryExpr)
	if !ok || bin.Op != "+" {
		t.Fatalf("got %+v, want top-level +", decl.Value)
	}
	rhs, ok := bin.Right.(BinaryExpr)
	if !ok || rhs.Op != "*" {
		t.Fatalf("got %+v, want * on the right of +", bin.Right)
	}
}

func TestParseFnDeclAndCall(t *testing.T) {
	stmts, err := Parse(`fn add(a, b) {
	return a + b
}
add(1, 2)`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	fn, ok := stmts[0].(*FnDecl)
	if !ok || fn.Name != "add" || len(fn.Params) != 2 {
		t.Fatalf("got %+v", stmts[0])
	}
	exprStmt, ok := stmts[1].(ExprStmt)
	if !ok {
		t.Fatalf("got %T", stmts[1])
	}
	call, ok := exprStmt.Expr.(CallExpr)
	if !ok || len(call.Args) != 2 {
		t.Fatalf("got %+v", exprStmt.Expr)
	}
}

func TestParseClassWithOpOverride(t *testing.T) {
	stmts, err := Parse(`class Vec {
	x = 0
	y = 0
	fn length() {
		return this.x
	}
	op +(other) {
		return this.x
	}
}`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	decl, ok := stmts[0].(*ClassDecl)
	if !ok {
		t.Fatalf("got %T", stmts[0])
	}
	if _, ok := decl.Fields["x"]; !ok {
		t.Fatalf("missing field x: %+v", decl.Fields)
	}
	if _, ok := decl.Methods["length"]; !ok {
		t.Fatalf("missing method length: %+v", decl.Methods)
	}
	if _, ok := decl.OpImpls["+"]; !ok {
		t.Fatalf("missing op override +: %+v", decl.OpImpls)
	}
}

func TestParseImport(t *testing.T) {
	stmts, err := Parse("import a.b.c")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	imp, ok := stmts[0].(ImportStmt)
	if !ok || imp.Path != "a.b.c" {
		t.Fatalf("got %+v", stmts[0])
	}
}

func TestParseUnexpectedTokenError(t *testing.T) {
	_, err := Parse("var x = }")
	if err == nil {
		t.Fatal("expected a parse error")
	}
}
