// Package compiler implements the language core: the value algebra, the
// scope stack, the codegen visitor, the runtime bridge and the JIT
// driver described in SPEC_FULL.md §3-§4 and §9.
package compiler

import (
	"fmt"
	"os"
	"unsafe"

	"exprjit/internal/ast"
	"exprjit/internal/runtime"

	"tinygo.org/x/go-llvm"
)

// mainFunction is the name of the program's single entry point, per
// invariant 6.
const mainFunction = "__main__"

// Compiler holds everything the codegen visitor and JIT driver need: the
// IR context/module/builder, the optional function-pass manager, the
// scope stack, the built-in table and an optimization flag. This is the
// §3.5 "compiler state" collapsed into one struct, following the
// teacher's single mutable-driver-struct idiom rather than the source's
// multiple parallel symbol tables (§9).
type Compiler struct {
	ctx     llvm.Context
	module  llvm.Module
	builder llvm.Builder
	passMgr llvm.PassManager
	engine  llvm.ExecutionEngine

	optimize bool

	scopes   *scopeStack
	builtins map[string]*Variable

	runtimeAddrs map[string]unsafe.Pointer

	// loopExits and loopDepths are the stack of enclosing loop-exit
	// blocks a Break branches to, identically in shape to the teacher's
	// label/continue stack: walkWhile pushes after_loop and the scope
	// depth at loop-body entry; walkBreak targets the top entry and
	// releases every scope from the current depth down to it (§4.4).
	loopExits  []llvm.BasicBlock
	loopDepths []int
}

// New constructs a Compiler over a fresh IR context and module, wires up
// the built-in table against the supplied runtime function addresses
// (normally runtime.Addresses()), and enables the scalar optimizer when
// optimize is true.
func New(runtimeAddrs map[string]unsafe.Pointer, optimize bool) *Compiler {
	ctx := llvm.NewContext()
	mod := ctx.NewModule("main")
	c := &Compiler{
		ctx:          ctx,
		module:       mod,
		builder:      ctx.NewBuilder(),
		passMgr:      llvm.NewFunctionPassManagerForModule(mod),
		optimize:     optimize,
		scopes:       newScopeStack(),
		runtimeAddrs: runtimeAddrs,
	}
	if c.optimize {
		// Exact sequence the teacher's pass manager uses: combine,
		// reassociate, GVN, CFG simplify, basic alias analysis,
		// mem2reg, then combine/reassociate again (SPEC_FULL.md §4.8).
		c.passMgr.AddInstructionCombiningPass()
		c.passMgr.AddReassociatePass()
		c.passMgr.AddGVNPass()
		c.passMgr.AddCFGSimplificationPass()
		c.passMgr.AddBasicAliasAnalysisPass()
		c.passMgr.AddPromoteMemoryToRegisterPass()
		c.passMgr.AddInstructionCombiningPass()
		c.passMgr.AddReassociatePass()
		c.passMgr.InitializeFunc()
	}
	c.initBuiltins()
	return c
}

// Dispose releases the LLVM-side resources owned by this Compiler. Once
// Run has created the execution engine, the engine owns the module, so
// disposing the engine frees both; if Run was never called (e.g. only
// IR() was wanted), the module is disposed directly.
func (c *Compiler) Dispose() {
	c.passMgr.Dispose()
	c.builder.Dispose()
	if (c.engine != llvm.ExecutionEngine{}) {
		c.engine.Dispose()
	} else {
		c.module.Dispose()
	}
	c.ctx.Dispose()
}

// Compile lowers a parsed Program into the module's __main__ function.
// It is the entry point invariant 6 describes: a void() function
// wrapping the whole program body in a single global scope.
func (c *Compiler) Compile(prog *ast.Program) error {
	fnType := llvm.FunctionType(c.ctx.VoidType(), nil, false)
	mainFn := llvm.AddFunction(c.module, mainFunction, fnType)
	entry := c.ctx.AddBasicBlock(mainFn, "entry")
	c.builder.SetInsertPointAtEnd(entry)

	c.enterScope()
	for _, stmt := range prog.Body {
		if _, err := c.walk(stmt); err != nil {
			return err
		}
		if c.terminated() {
			break
		}
	}
	c.exitScope()
	c.builder.CreateRetVoid()

	if err := c.verify(mainFn); err != nil {
		return err
	}
	if c.optimize {
		c.passMgr.RunFunc(mainFn)
	}
	return nil
}

// verify runs the LLVM verifier over fn. Failure is fatal per §7: the
// module is dumped and an IrVerificationError is returned for the caller
// to report before aborting.
func (c *Compiler) verify(fn llvm.Value) error {
	if err := llvm.VerifyFunction(fn, llvm.PrintMessageAction); err != nil {
		fmt.Fprintln(os.Stderr, c.module.String())
		return &IrVerificationError{Function: fn.Name(), Message: err.Error()}
	}
	return nil
}

// IR renders the current module as LLVM assembly text. Determinism
// (testable property 1) means two Compile calls over identical ASTs
// produce byte-identical output modulo SSA numbering.
func (c *Compiler) IR() string {
	return c.module.String()
}

// Run links in MCJIT over the compiled module, obtains the address of
// __main__ and invokes it as a native () -> void function, per §4.8.
func (c *Compiler) Run() error {
	llvm.LinkInMCJIT()
	if err := llvm.InitializeNativeTarget(); err != nil {
		return err
	}
	if err := llvm.InitializeNativeAsmPrinter(); err != nil {
		return err
	}

	options := llvm.NewMCJITCompilerOptions()
	engine, err := llvm.NewMCJITCompiler(c.module, options)
	if err != nil {
		return err
	}
	c.engine = engine

	mainFn := c.module.NamedFunction(mainFunction)
	addr := c.engine.PointerToGlobal(mainFn)
	runtime.CallVoid(addr)
	return nil
}
