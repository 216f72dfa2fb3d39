package compiler

import (
	"exprjit/internal/ast"

	"tinygo.org/x/go-llvm"
)

// walkFuncDecl lowers FuncDecl{params, return_type, body} per §4.5: a
// fresh, unnamed function is added to the module, its body codegenned in
// a new scope seeded with parameter bindings, and the builder's saved
// insertion point is restored before returning control to the caller —
// function declarations may appear nested inside the program body or
// another function's body and must not disturb the caller's position.
func (c *Compiler) walkFuncDecl(expr *ast.Expression) (Value, error) {
	sig := c.funcSignature(expr.Params, expr.ReturnType)

	savedBlock := c.builder.GetInsertBlock()

	fn := llvm.AddFunction(c.module, "", sig)
	entry := c.ctx.AddBasicBlock(fn, "entry")
	c.builder.SetInsertPointAtEnd(entry)

	c.enterScope()
	for i, p := range expr.Params {
		arg := fn.Param(i)
		c.setVar(p.Name, paramValue(valueKindFor(p.Typ), arg))
	}

	var last Value = voidValue()
	for _, stmt := range expr.Body {
		v, err := c.walk(stmt)
		if err != nil {
			return Value{}, err
		}
		last = v
		if c.terminated() {
			break
		}
	}
	c.exitScope()

	if expr.ReturnType == ast.Void {
		c.builder.CreateRetVoid()
	} else {
		if last.Kind != valueKindFor(expr.ReturnType) {
			c.builder.SetInsertPointAtEnd(savedBlock)
			return Value{}, &TypeError{Expected: expr.ReturnType, Actual: last.Type(), Span: expr.Span}
		}
		c.builder.CreateRet(last.Val)
	}

	if err := c.verify(fn); err != nil {
		c.builder.SetInsertPointAtEnd(savedBlock)
		return Value{}, err
	}
	if c.optimize {
		c.passMgr.RunFunc(fn)
	}

	if !savedBlock.IsNil() {
		c.builder.SetInsertPointAtEnd(savedBlock)
	}

	return functionValue(fn, sig, expr.ReturnType, paramTypesOf(expr.Params)), nil
}

// paramValue wraps a raw IR function argument in the Value variant its
// declared parameter kind prescribes, for binding via setVar.
func paramValue(kind ValueKind, raw llvm.Value) Value {
	switch kind {
	case NumericValue:
		return numericValue(raw)
	case BoolValue:
		return boolValue(raw)
	case StringValue:
		return stringValue(raw)
	case VecValue:
		return vecValue(raw)
	case PtrValue:
		return ptrValue(raw)
	default:
		return voidValue()
	}
}
