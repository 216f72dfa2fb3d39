package compiler

import (
	"exprjit/internal/ast"

	"tinygo.org/x/go-llvm"
)

// irType maps a language-level Type to its IR representation per the
// type mapping table: Void -> void, Numeric -> double, Bool -> i1,
// String/Vector/Ptr -> an opaque pointer, CString -> i8*, Function ->
// pointer-to-signature (callers that need the signature itself should
// build it with funcSignature instead).
func (c *Compiler) irType(t ast.Type) llvm.Type {
	switch t {
	case ast.Void:
		return c.ctx.VoidType()
	case ast.Numeric:
		return c.ctx.DoubleType()
	case ast.Bool:
		return c.ctx.Int1Type()
	case ast.String, ast.Vector, ast.Ptr:
		return llvm.PointerType(c.ctx.Int8Type(), 0)
	case ast.CString:
		return llvm.PointerType(c.ctx.Int8Type(), 0)
	case ast.Function:
		// A bare Function-typed slot (e.g. an extern bound as a value)
		// is stored behind an opaque pointer; the concrete signature
		// lives in the Variable/Value alongside it.
		return llvm.PointerType(c.ctx.Int8Type(), 0)
	default:
		return c.ctx.VoidType()
	}
}

// funcSignature builds the llvm.Type of a function with the given
// parameter and return types.
func (c *Compiler) funcSignature(params []ast.Param, ret ast.Type) llvm.Type {
	paramTypes := make([]llvm.Type, len(params))
	for i, p := range params {
		paramTypes[i] = c.irType(p.Typ)
	}
	return llvm.FunctionType(c.irType(ret), paramTypes, false)
}

// paramTypesOf extracts the declared parameter types of a function-like
// expression's parameter list, for storing on the resulting Value/Variable
// so walkFuncCall can check arity and argument kinds uniformly.
func paramTypesOf(params []ast.Param) []ast.Type {
	out := make([]ast.Type, len(params))
	for i, p := range params {
		out[i] = p.Typ
	}
	return out
}

// valueKindFor maps a language-level Type to the ValueKind a Variable
// slot of that declared type holds.
func valueKindFor(t ast.Type) ValueKind {
	switch t {
	case ast.Void:
		return VoidValue
	case ast.Numeric:
		return NumericValue
	case ast.Bool:
		return BoolValue
	case ast.String:
		return StringValue
	case ast.Vector:
		return VecValue
	case ast.Ptr:
		return PtrValue
	case ast.Function:
		return FunctionValue
	default:
		return VoidValue
	}
}
