package parser

import (
	"testing"

	"exprjit/internal/ast"
)

func TestParseArithmeticPrecedence(t *testing.T) {
	prog, err := Parse("1 + 2 * 3")
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	if len(prog.Body) != 1 {
		t.Fatalf("expected 1 top-level expression, got %d", len(prog.Body))
	}
	top := prog.Body[0]
	if top.Kind != ast.KindBinary || top.BinaryOp != ast.Plus {
		t.Fatalf("expected top-level '+', got %+v", top)
	}
	if top.BinaryLhs.Kind != ast.KindNumeric || top.BinaryLhs.Numeric != 1 {
		t.Errorf("lhs: got %+v", top.BinaryLhs)
	}
	rhs := top.BinaryRhs
	if rhs.Kind != ast.KindBinary || rhs.BinaryOp != ast.Asterisk {
		t.Fatalf("expected rhs '*', got %+v", rhs)
	}
}

func TestParseAssignment(t *testing.T) {
	prog, err := Parse("x = 1 + 2")
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	top := prog.Body[0]
	if top.Kind != ast.KindAssignment {
		t.Fatalf("expected KindAssignment, got %+v", top)
	}
	if top.AssignTarget.Kind != ast.KindIdentifier || top.AssignTarget.Text != "x" {
		t.Errorf("target: got %+v", top.AssignTarget)
	}
}

func TestParseAssignmentRejectsNonIdentifierTarget(t *testing.T) {
	_, err := Parse("1 = 2")
	if err == nil {
		t.Fatal("expected syntax error for non-identifier assignment target")
	}
}

func TestParseConditional(t *testing.T) {
	prog, err := Parse(`if x < 1 { y = 1 } else { y = 2 }`)
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	top := prog.Body[0]
	if top.Kind != ast.KindConditional {
		t.Fatalf("expected KindConditional, got %+v", top)
	}
	if len(top.Then) != 1 || len(top.Else) != 1 {
		t.Fatalf("expected 1 statement in each branch, got then=%d else=%d", len(top.Then), len(top.Else))
	}
}

func TestParseWhile(t *testing.T) {
	prog, err := Parse(`while x < 10 { x = x + 1 }`)
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	top := prog.Body[0]
	if top.Kind != ast.KindWhile {
		t.Fatalf("expected KindWhile, got %+v", top)
	}
	if len(top.Body) != 1 {
		t.Fatalf("expected 1 body statement, got %d", len(top.Body))
	}
}

func TestParseFuncDecl(t *testing.T) {
	prog, err := Parse(`fn(x: num, y: num) -> num { x + y }`)
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	top := prog.Body[0]
	if top.Kind != ast.KindFuncDecl {
		t.Fatalf("expected KindFuncDecl, got %+v", top)
	}
	if len(top.Params) != 2 || top.Params[0].Typ != ast.Numeric {
		t.Fatalf("unexpected params: %+v", top.Params)
	}
	if top.ReturnType != ast.Numeric {
		t.Errorf("expected Numeric return type, got %s", top.ReturnType)
	}
}

func TestParseExtern(t *testing.T) {
	prog, err := Parse(`extern puts(s: string) -> num`)
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	top := prog.Body[0]
	if top.Kind != ast.KindExtern || top.ExternName != "puts" {
		t.Fatalf("expected KindExtern 'puts', got %+v", top)
	}
}

func TestParseFuncCall(t *testing.T) {
	prog, err := Parse(`print("hi", x)`)
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	top := prog.Body[0]
	if top.Kind != ast.KindFuncCall {
		t.Fatalf("expected KindFuncCall, got %+v", top)
	}
	if top.Callee.Text != "print" || len(top.Args) != 2 {
		t.Fatalf("unexpected call shape: %+v", top)
	}
}

func TestParseUnaryMinusBindsTighterThanBinary(t *testing.T) {
	prog, err := Parse("-1 + 2")
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	top := prog.Body[0]
	if top.Kind != ast.KindBinary || top.BinaryOp != ast.Plus {
		t.Fatalf("expected top-level '+', got %+v", top)
	}
	if top.BinaryLhs.Kind != ast.KindUnary {
		t.Fatalf("expected unary lhs, got %+v", top.BinaryLhs)
	}
}

func TestParseUnterminatedBlockIsSyntaxError(t *testing.T) {
	_, err := Parse(`if true { 1`)
	if err == nil {
		t.Fatal("expected syntax error for unterminated block")
	}
	if _, ok := err.(*SyntaxError); !ok {
		t.Fatalf("expected *SyntaxError, got %T", err)
	}
}
