package compiler

import (
	"exprjit/internal/ast"

	"tinygo.org/x/go-llvm"
)

// walkFuncCall lowers FuncCall{callee, args} per §4.6. The callee must be
// a bare identifier; three built-ins (`string`, `print`, `vecset`) are
// polymorphic or echo an argument back rather than following the fixed
// bridge-and-call shape every other built-in and every user function
// uses, so they are special-cased before the generic path (see
// builtins.go, DESIGN.md).
func (c *Compiler) walkFuncCall(expr *ast.Expression) (Value, error) {
	if expr.Callee.Kind != ast.KindIdentifier {
		return Value{}, &TypeError{Expected: ast.Function, Actual: ast.Void, Span: expr.Callee.Span}
	}
	name := expr.Callee.Text

	args, err := c.compileArgs(expr.Args)
	if err != nil {
		return Value{}, err
	}

	switch name {
	case "string":
		return c.compileStringCall(args, expr.Span)
	case "print":
		return c.compilePrintCall(args, expr.Span)
	case "vecset":
		return c.compileVecSetCall(args, expr.Span)
	}

	var v *Variable
	if b, ok := c.getBuiltin(name); ok {
		v = b
	} else if sv, ok := c.getVar(name); ok {
		v = sv
	} else {
		return Value{}, &UndefinedIdentifierError{Name: name, Span: expr.Callee.Span}
	}

	if v.Kind != FunctionValue {
		return Value{}, &TypeError{Expected: ast.Function, Actual: valueKindType(v.Kind), Span: expr.Span}
	}

	if len(args) != len(v.ParamTypes) {
		return Value{}, &ArityError{Name: name, Expected: len(v.ParamTypes), Actual: len(args), Span: expr.Span}
	}
	for i, a := range args {
		if a.Type() != v.ParamTypes[i] {
			return Value{}, &TypeError{Expected: v.ParamTypes[i], Actual: a.Type(), Span: expr.Args[i].Span}
		}
	}

	argVals := make([]llvm.Value, len(args))
	for i, a := range args {
		argVals[i] = a.Val
	}
	result := c.builder.CreateCall(v.FuncType, v.FuncVal, argVals, "")

	return c.wrapCallResult(result, v.ReturnType), nil
}

// compileArgs evaluates each call argument to a Value, rejecting Void
// and Break results (VoidAssignment, per §4.6).
func (c *Compiler) compileArgs(exprs []*ast.Expression) ([]Value, error) {
	vals := make([]Value, len(exprs))
	for i, a := range exprs {
		v, err := c.walk(a)
		if err != nil {
			return nil, err
		}
		if v.Kind == VoidValue || v.Kind == BreakValue {
			return nil, &VoidAssignmentError{Span: a.Span}
		}
		vals[i] = v
	}
	return vals, nil
}

// wrapCallResult wraps a raw call's SSA result into the Value variant
// its declared return type prescribes, tracking Vec/String results in
// the current scope.
func (c *Compiler) wrapCallResult(result llvm.Value, ret ast.Type) Value {
	switch ret {
	case ast.Numeric:
		return numericValue(result)
	case ast.Bool:
		return boolValue(result)
	case ast.Void:
		return voidValue()
	case ast.Ptr:
		return ptrValue(result)
	case ast.Vector:
		v := vecValue(result)
		c.trackMaybeOrphaned(v)
		return v
	case ast.String:
		v := stringValue(result)
		c.trackMaybeOrphaned(v)
		return v
	default:
		return voidValue()
	}
}

func valueKindType(k ValueKind) ast.Type {
	return Value{Kind: k}.Type()
}
