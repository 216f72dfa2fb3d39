package compiler

import (
	"exprjit/internal/ast"

	"tinygo.org/x/go-llvm"
)

// ValueKind discriminates the Value tagged union described in the data
// model: a Void/Numeric/Bool/String/Vec/Ptr/Function/Break algebra
// threaded as the result of every codegen step.
type ValueKind int

const (
	VoidValue ValueKind = iota
	NumericValue
	BoolValue
	StringValue
	VecValue
	PtrValue
	FunctionValue
	BreakValue
)

// Value is the result of walking a single Expression. Exactly one of Val
// (for most kinds) or the Function-specific fields is meaningful; Void
// and Break carry no payload at all.
type Value struct {
	Kind ValueKind
	Val  llvm.Value

	// Function-only payload.
	FuncType   llvm.Type
	ReturnType ast.Type
	ParamTypes []ast.Type
}

// Type reports the language-level Type that corresponds to this Value's
// runtime kind, for use in TypeError diagnostics.
func (v Value) Type() ast.Type {
	switch v.Kind {
	case VoidValue, BreakValue:
		return ast.Void
	case NumericValue:
		return ast.Numeric
	case BoolValue:
		return ast.Bool
	case StringValue:
		return ast.String
	case VecValue:
		return ast.Vector
	case PtrValue:
		return ast.Ptr
	case FunctionValue:
		return ast.Function
	default:
		return ast.Void
	}
}

// isHeap reports whether this Value's kind owns a runtime reference that
// must eventually be released exactly once (String or Vec).
func (v Value) isHeap() bool {
	return v.Kind == StringValue || v.Kind == VecValue
}

func voidValue() Value { return Value{Kind: VoidValue} }

func numericValue(v llvm.Value) Value { return Value{Kind: NumericValue, Val: v} }

func boolValue(v llvm.Value) Value { return Value{Kind: BoolValue, Val: v} }

func stringValue(v llvm.Value) Value { return Value{Kind: StringValue, Val: v} }

func vecValue(v llvm.Value) Value { return Value{Kind: VecValue, Val: v} }

func ptrValue(v llvm.Value) Value { return Value{Kind: PtrValue, Val: v} }

func breakValue() Value { return Value{Kind: BreakValue} }

func functionValue(val llvm.Value, typ llvm.Type, ret ast.Type, params []ast.Type) Value {
	return Value{Kind: FunctionValue, Val: val, FuncType: typ, ReturnType: ret, ParamTypes: params}
}
