package compiler

import (
	"exprjit/internal/ast"

	"tinygo.org/x/go-llvm"
)

// builtinSpec describes one entry of the built-in table (§4.6): its
// declared signature and the runtime entry point its calls bridge to.
type builtinSpec struct {
	params  []ast.Type
	ret     ast.Type
	runtime string // key into runtimeAddrs / runtime.Addresses()
}

// builtinTable is the fixed-signature subset of the built-in table.
// `string` is handled separately in compileStringCall because it is
// polymorphic in its single argument's kind rather than fixed-arity
// (SPEC_FULL.md §4.6, §9 — a deliberate, documented special case; see
// DESIGN.md).
var builtinTable = map[string]builtinSpec{
	"len":     {params: []ast.Type{ast.Vector}, ret: ast.Numeric, runtime: "len"},
	"sqrt":    {params: []ast.Type{ast.Numeric}, ret: ast.Numeric, runtime: "sqrt"},
	"vecnew":  {params: nil, ret: ast.Vector, runtime: "vec_new"},
	"vecget":  {params: []ast.Type{ast.Vector, ast.Numeric}, ret: ast.Numeric, runtime: "vec_get"},
	"timems":  {params: nil, ret: ast.Numeric, runtime: "timems"},
	"strcat":  {params: []ast.Type{ast.String, ast.String}, ret: ast.String, runtime: "string_concat"},
}

// initBuiltins constructs the runtime bridge for every built-in: the
// host function's process address is embedded as an integer constant,
// then bitcast (via inttoptr straight to the signature's pointer type)
// to a typed function pointer. The resulting constant is reusable at
// every call site without re-emitting the bridge.
func (c *Compiler) initBuiltins() {
	c.builtins = make(map[string]*Variable, len(builtinTable))
	for name, spec := range builtinTable {
		sig := c.funcSignature(paramList(spec.params), spec.ret)
		fnPtr := c.runtimeBridge(spec.runtime, sig)
		c.builtins[name] = &Variable{
			Kind:       FunctionValue,
			FuncVal:    fnPtr,
			FuncType:   sig,
			ReturnType: spec.ret,
			ParamTypes: spec.params,
		}
	}
}

func paramList(types []ast.Type) []ast.Param {
	params := make([]ast.Param, len(types))
	for i, t := range types {
		params[i] = ast.Param{Typ: t}
	}
	return params
}

// runtimeBridge is the runtime bridge primitive (component 2): take a
// host function's process address, embed it as an IR integer constant,
// then convert it directly to the given signature's pointer type. The
// address must remain stable for the JIT's lifetime, which cgo-linked C
// symbols guarantee (SPEC_FULL.md §9).
func (c *Compiler) runtimeBridge(runtimeKey string, sig llvm.Type) llvm.Value {
	addr, ok := c.runtimeAddrs[runtimeKey]
	if !ok {
		panic("compiler: no runtime address registered for " + runtimeKey)
	}
	intAddr := llvm.ConstInt(c.ctx.Int64Type(), uint64(uintptr(addr)), false)
	return llvm.ConstIntToPtr(intAddr, llvm.PointerType(sig, 0))
}

// callRuntime1 emits a call to a one-argument void-returning runtime
// function (vec_release / string_release), used by releaseScope.
func (c *Compiler) callRuntime1(runtimeKey string, arg llvm.Value) {
	sig := llvm.FunctionType(c.ctx.VoidType(), []llvm.Type{llvm.PointerType(c.ctx.Int8Type(), 0)}, false)
	fnPtr := c.runtimeBridge(runtimeKey, sig)
	c.builder.CreateCall(sig, fnPtr, []llvm.Value{arg}, "")
}

// compileStringCall handles the polymorphic `string(x)` built-in: the
// runtime conversion used depends on the evaluated argument's Value
// kind, decided after evaluation rather than by a fixed signature.
func (c *Compiler) compileStringCall(args []Value, span ast.Span) (Value, error) {
	if len(args) != 1 {
		return Value{}, &ArityError{Name: "string", Expected: 1, Actual: len(args), Span: span}
	}
	arg := args[0]
	switch arg.Kind {
	case NumericValue:
		sig := llvm.FunctionType(llvm.PointerType(c.ctx.Int8Type(), 0), []llvm.Type{c.ctx.DoubleType()}, false)
		fnPtr := c.runtimeBridge("string_from_numeric", sig)
		result := c.builder.CreateCall(sig, fnPtr, []llvm.Value{arg.Val}, "")
		v := stringValue(result)
		c.trackMaybeOrphaned(v)
		return v, nil
	case StringValue:
		return arg, nil
	default:
		return Value{}, &TypeError{Expected: ast.Numeric, Actual: arg.Type(), Span: span}
	}
}

// compilePrintCall handles the `print(String)` built-in: it first
// unwraps the runtime string handle to its underlying char buffer via
// string_as_c_string, then calls printf directly on that buffer (no
// format arguments), exactly as §4.6 describes.
func (c *Compiler) compilePrintCall(args []Value, span ast.Span) (Value, error) {
	if len(args) != 1 {
		return Value{}, &ArityError{Name: "print", Expected: 1, Actual: len(args), Span: span}
	}
	arg := args[0]
	if arg.Kind != StringValue {
		return Value{}, &TypeError{Expected: ast.String, Actual: arg.Type(), Span: span}
	}

	charPtrType := llvm.PointerType(c.ctx.Int8Type(), 0)
	asCString := llvm.FunctionType(charPtrType, []llvm.Type{charPtrType}, false)
	cstrFn := c.runtimeBridge("string_as_c_string", asCString)
	buf := c.builder.CreateCall(asCString, cstrFn, []llvm.Value{arg.Val}, "")

	printfSig := llvm.FunctionType(c.ctx.Int32Type(), []llvm.Type{charPtrType}, false)
	printfFn := c.runtimeBridge("printf", printfSig)
	c.builder.CreateCall(printfSig, printfFn, []llvm.Value{buf}, "")
	return voidValue(), nil
}

// compileVecSetCall handles `vecset(Vec, idx, val) -> Vec`: the runtime
// mutator returns void (it mutates in place), but the language-level
// built-in echoes the vector back so calls can be chained. The result
// Value is simply the original argument — no new reference is produced,
// so nothing new needs tracking.
func (c *Compiler) compileVecSetCall(args []Value, span ast.Span) (Value, error) {
	if len(args) != 3 {
		return Value{}, &ArityError{Name: "vecset", Expected: 3, Actual: len(args), Span: span}
	}
	vec, idx, val := args[0], args[1], args[2]
	if vec.Kind != VecValue {
		return Value{}, &TypeError{Expected: ast.Vector, Actual: vec.Type(), Span: span}
	}
	if idx.Kind != NumericValue {
		return Value{}, &TypeError{Expected: ast.Numeric, Actual: idx.Type(), Span: span}
	}
	if val.Kind != NumericValue {
		return Value{}, &TypeError{Expected: ast.Numeric, Actual: val.Type(), Span: span}
	}

	ptrType := llvm.PointerType(c.ctx.Int8Type(), 0)
	sig := llvm.FunctionType(c.ctx.VoidType(), []llvm.Type{ptrType, c.ctx.DoubleType(), c.ctx.DoubleType()}, false)
	fnPtr := c.runtimeBridge("vec_mut", sig)
	c.builder.CreateCall(sig, fnPtr, []llvm.Value{vec.Val, idx.Val, val.Val}, "")
	return vec, nil
}
