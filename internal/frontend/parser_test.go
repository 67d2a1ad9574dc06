package frontend

import (
	"testing"

	"lattec/internal/ir"
)

func TestParseSimpleFunction(t *testing.T) {
	prog, err := Parse("int main() { return 0; }")
	if err != nil {
		t.Fatalf("unexpected parse error: %s", err)
	}
	if len(prog.Funcs) != 1 {
		t.Fatalf("expected 1 function, got %d", len(prog.Funcs))
	}
	fn := prog.Funcs[0]
	if fn.Name != "main" || !fn.Ret.Equal(ir.Int) {
		t.Fatalf("unexpected signature: %s %s", fn.Ret, fn.Name)
	}
	if len(fn.Body) != 1 {
		t.Fatalf("expected 1 statement, got %d", len(fn.Body))
	}
	ret, ok := fn.Body[0].(*ir.RetStmt)
	if !ok {
		t.Fatalf("expected a RetStmt, got %T", fn.Body[0])
	}
	lit, ok := ret.Expr.(*ir.IntLit)
	if !ok || lit.Value != 0 {
		t.Fatalf("expected literal 0, got %#v", ret.Expr)
	}
}

func TestParseOperatorPrecedence(t *testing.T) {
	prog, err := Parse("int f() { return 1+2*3 == 7 && true; }")
	if err != nil {
		t.Fatalf("unexpected parse error: %s", err)
	}
	ret := prog.Funcs[0].Body[0].(*ir.RetStmt)
	and, ok := ret.Expr.(*ir.OpExpr)
	if !ok || and.Op != ir.OpAnd {
		t.Fatalf("expected top-level &&, got %#v", ret.Expr)
	}
	eq, ok := and.Left.(*ir.OpExpr)
	if !ok || eq.Op != ir.OpEQ {
		t.Fatalf("expected == on the left of &&, got %#v", and.Left)
	}
	add, ok := eq.Left.(*ir.OpExpr)
	if !ok || add.Op != ir.OpAdd {
		t.Fatalf("expected + under ==, got %#v", eq.Left)
	}
	mul, ok := add.Right.(*ir.OpExpr)
	if !ok || mul.Op != ir.OpMul {
		t.Fatalf("expected * to bind tighter than +, got %#v", add.Right)
	}
}

func TestParseIfElseDanglingElse(t *testing.T) {
	prog, err := Parse(`int f() {
		if (true)
			if (false) return 1;
			else return 2;
		return 0;
	}`)
	if err != nil {
		t.Fatalf("unexpected parse error: %s", err)
	}
	outer, ok := prog.Funcs[0].Body[0].(*ir.IfStmt)
	if !ok {
		t.Fatalf("expected outer if with no else, got %T", prog.Funcs[0].Body[0])
	}
	_, ok = outer.Then.(*ir.IfElseStmt)
	if !ok {
		t.Fatalf("expected the else to bind to the nearest if, got %T", outer.Then)
	}
}

func TestParseBuiltinsElaborateToPredef(t *testing.T) {
	prog, err := Parse(`int f() { printInt(1); printString("x"); error(); return 0; }`)
	if err != nil {
		t.Fatalf("unexpected parse error: %s", err)
	}
	for i, want := range []ir.PredefKind{ir.PrintInt, ir.PrintString, ir.ErrorCall} {
		stmt := prog.Funcs[0].Body[i].(*ir.ExprStmt)
		predef, ok := stmt.Expr.(*ir.PredefExpr)
		if !ok || predef.Kind != want {
			t.Errorf("statement %d: expected Predef kind %d, got %#v", i, want, stmt.Expr)
		}
	}
}

func TestParseUserCallNotShadowedByBuiltinName(t *testing.T) {
	prog, err := Parse(`int helper(int x) { return x; } int f() { return helper(1); }`)
	if err != nil {
		t.Fatalf("unexpected parse error: %s", err)
	}
	ret := prog.Funcs[1].Body[0].(*ir.RetStmt)
	app, ok := ret.Expr.(*ir.AppExpr)
	if !ok || app.Name != "helper" {
		t.Fatalf("expected a call to helper, got %#v", ret.Expr)
	}
}

func TestParseMissingSemicolonIsAnError(t *testing.T) {
	_, err := Parse("int f() { return 0 }")
	if err == nil {
		t.Fatal("expected a parse error for the missing semicolon")
	}
}

func TestParseUnexpectedEOF(t *testing.T) {
	_, err := Parse("int f() { return 0;")
	if err == nil {
		t.Fatal("expected an unexpected-EOF error")
	}
	pe, ok := err.(*ParseError)
	if !ok || pe.Kind != UnexpectedEOF {
		t.Fatalf("expected UnexpectedEOF, got %#v", err)
	}
}
