package compiler

import (
	"exprjit/internal/ast"

	"tinygo.org/x/go-llvm"
)

// walk is the single codegen dispatch function described in §9: one
// tagged-union Expression, one switch over its Kind, rather than a
// per-node visitor trait per kind. It is total: every reachable Kind is
// handled, and every recoverable failure is reported as one of the
// typed errors in errors.go rather than a panic.
func (c *Compiler) walk(expr *ast.Expression) (Value, error) {
	switch expr.Kind {
	case ast.KindNumeric:
		return numericValue(llvm.ConstFloat(c.ctx.DoubleType(), expr.Numeric)), nil
	case ast.KindBool:
		return boolValue(llvm.ConstInt(c.ctx.Int1Type(), boolToU64(expr.Bool), false)), nil
	case ast.KindString:
		return c.walkString(expr)
	case ast.KindIdentifier:
		return c.walkIdentifier(expr)
	case ast.KindGrouping:
		return c.walk(expr.Inner)
	case ast.KindUnary:
		return c.walkUnary(expr)
	case ast.KindBinary:
		return c.walkBinary(expr)
	case ast.KindAssignment:
		return c.walkAssignment(expr)
	case ast.KindConditional:
		return c.walkConditional(expr)
	case ast.KindWhile:
		return c.walkWhile(expr)
	case ast.KindFuncCall:
		return c.walkFuncCall(expr)
	case ast.KindFuncDecl:
		return c.walkFuncDecl(expr)
	case ast.KindExtern:
		return c.walkExtern(expr)
	case ast.KindBreak:
		return c.walkBreak(expr)
	default:
		return Value{}, &TypeError{Expected: ast.Void, Actual: ast.Void, Span: expr.Span}
	}
}

func boolToU64(b bool) uint64 {
	if b {
		return 1
	}
	return 0
}

// walkString applies the deliberate micro-escape policy (§9): only the
// literal two-character `\n` sequence is replaced with a real newline.
// The literal is built as a global string constant and converted to a
// tracked runtime string handle via string_from_c_string.
func (c *Compiler) walkString(expr *ast.Expression) (Value, error) {
	text := unescapeNewlines(expr.Text)
	global := c.builder.CreateGlobalStringPtr(text, "")

	ptrType := llvm.PointerType(c.ctx.Int8Type(), 0)
	sig := llvm.FunctionType(ptrType, []llvm.Type{ptrType}, false)
	fnPtr := c.runtimeBridge("string_from_c_string", sig)
	result := c.builder.CreateCall(sig, fnPtr, []llvm.Value{global}, "")

	v := stringValue(result)
	c.trackMaybeOrphaned(v)
	return v, nil
}

func unescapeNewlines(s string) string {
	out := make([]rune, 0, len(s))
	runes := []rune(s)
	for i := 0; i < len(runes); i++ {
		if runes[i] == '\\' && i+1 < len(runes) && runes[i+1] == 'n' {
			out = append(out, '\n')
			i++
			continue
		}
		out = append(out, runes[i])
	}
	return string(out)
}

// walkIdentifier emits a load from the name's slot (or, for a Function
// binding, returns the callable directly — see Variable's doc comment).
func (c *Compiler) walkIdentifier(expr *ast.Expression) (Value, error) {
	v, ok := c.getVar(expr.Text)
	if !ok {
		return Value{}, &UndefinedIdentifierError{Name: expr.Text, Span: expr.Span}
	}
	return c.valueFromVariable(v), nil
}

func (c *Compiler) walkUnary(expr *ast.Expression) (Value, error) {
	rhs, err := c.walk(expr.UnaryRhs)
	if err != nil {
		return Value{}, err
	}
	if expr.UnaryOp != ast.Minus {
		return Value{}, &TypeError{Expected: ast.Numeric, Actual: rhs.Type(), Span: expr.Span}
	}
	if rhs.Kind != NumericValue {
		return Value{}, &TypeError{Expected: ast.Numeric, Actual: rhs.Type(), Span: expr.Span}
	}
	return numericValue(c.builder.CreateFNeg(rhs.Val, "")), nil
}

func (c *Compiler) walkBinary(expr *ast.Expression) (Value, error) {
	lhs, err := c.walk(expr.BinaryLhs)
	if err != nil {
		return Value{}, err
	}
	if lhs.Kind != NumericValue {
		return Value{}, &TypeError{Expected: ast.Numeric, Actual: lhs.Type(), Span: expr.BinaryLhs.Span}
	}
	rhs, err := c.walk(expr.BinaryRhs)
	if err != nil {
		return Value{}, err
	}
	if rhs.Kind != NumericValue {
		return Value{}, &TypeError{Expected: ast.Numeric, Actual: rhs.Type(), Span: expr.BinaryRhs.Span}
	}

	switch expr.BinaryOp {
	case ast.Plus:
		return numericValue(c.builder.CreateFAdd(lhs.Val, rhs.Val, "")), nil
	case ast.Minus:
		return numericValue(c.builder.CreateFSub(lhs.Val, rhs.Val, "")), nil
	case ast.Asterisk:
		return numericValue(c.builder.CreateFMul(lhs.Val, rhs.Val, "")), nil
	case ast.Slash:
		return numericValue(c.builder.CreateFDiv(lhs.Val, rhs.Val, "")), nil
	case ast.Mod:
		return numericValue(c.builder.CreateFRem(lhs.Val, rhs.Val, "")), nil
	case ast.Equal:
		return boolValue(c.builder.CreateFCmp(llvm.FloatOEQ, lhs.Val, rhs.Val, "")), nil
	case ast.NotEqual:
		return boolValue(c.builder.CreateFCmp(llvm.FloatONE, lhs.Val, rhs.Val, "")), nil
	case ast.Less:
		return boolValue(c.builder.CreateFCmp(llvm.FloatOLT, lhs.Val, rhs.Val, "")), nil
	case ast.LessOrEqual:
		return boolValue(c.builder.CreateFCmp(llvm.FloatOLE, lhs.Val, rhs.Val, "")), nil
	case ast.Greater:
		return boolValue(c.builder.CreateFCmp(llvm.FloatOGT, lhs.Val, rhs.Val, "")), nil
	case ast.GreaterOrEqual:
		return boolValue(c.builder.CreateFCmp(llvm.FloatOGE, lhs.Val, rhs.Val, "")), nil
	default:
		return Value{}, &TypeError{Expected: ast.Numeric, Actual: ast.Void, Span: expr.Span}
	}
}

// walkAssignment requires its target to be an identifier; the value is
// evaluated first, then stored into a (possibly fresh) slot via setVar.
// The expression itself evaluates to Void.
func (c *Compiler) walkAssignment(expr *ast.Expression) (Value, error) {
	if expr.AssignTarget.Kind != ast.KindIdentifier {
		return Value{}, &TypeError{Expected: ast.Void, Actual: ast.Void, Span: expr.AssignTarget.Span}
	}
	val, err := c.walk(expr.AssignValue)
	if err != nil {
		return Value{}, err
	}
	if val.Kind == VoidValue || val.Kind == BreakValue {
		return Value{}, &VoidAssignmentError{Span: expr.AssignValue.Span}
	}
	c.setVar(expr.AssignTarget.Text, val)
	return voidValue(), nil
}

// walkConditional lowers Conditional{predicate, then_body, else_body}
// per §4.3.
func (c *Compiler) walkConditional(expr *ast.Expression) (Value, error) {
	pred, err := c.walk(expr.Predicate)
	if err != nil {
		return Value{}, err
	}
	if pred.Kind != BoolValue {
		return Value{}, &TypeError{Expected: ast.Bool, Actual: pred.Type(), Span: expr.Predicate.Span}
	}

	fn := c.builder.GetInsertBlock().Parent()
	thenBB := c.ctx.AddBasicBlock(fn, "then")
	elseBB := c.ctx.AddBasicBlock(fn, "else")
	afterBB := c.ctx.AddBasicBlock(fn, "afterif")

	c.builder.CreateCondBr(pred.Val, thenBB, elseBB)

	c.builder.SetInsertPointAtEnd(thenBB)
	c.enterScope()
	for _, stmt := range expr.Then {
		if _, err := c.walk(stmt); err != nil {
			return Value{}, err
		}
		if c.terminated() {
			break
		}
	}
	c.exitScope()
	if !c.terminated() {
		c.builder.CreateBr(afterBB)
	}

	c.builder.SetInsertPointAtEnd(elseBB)
	c.enterScope()
	for _, stmt := range expr.Else {
		if _, err := c.walk(stmt); err != nil {
			return Value{}, err
		}
		if c.terminated() {
			break
		}
	}
	c.exitScope()
	if !c.terminated() {
		c.builder.CreateBr(afterBB)
	}

	c.builder.SetInsertPointAtEnd(afterBB)
	return voidValue(), nil
}

// walkWhile lowers While{predicate, body} per §4.4: a loop_header block
// evaluates the predicate exactly once per iteration (not the legacy
// double-evaluation shape flagged in §9), loop_body walks the body with
// after_loop pushed as the enclosing loop-exit target (so a break
// anywhere in the body, including nested inside a conditional, reaches
// it — see walkBreak), after_loop is the continuation.
func (c *Compiler) walkWhile(expr *ast.Expression) (Value, error) {
	fn := c.builder.GetInsertBlock().Parent()
	headerBB := c.ctx.AddBasicBlock(fn, "loop_header")
	bodyBB := c.ctx.AddBasicBlock(fn, "loop_body")
	afterBB := c.ctx.AddBasicBlock(fn, "after_loop")

	c.builder.CreateBr(headerBB)

	c.builder.SetInsertPointAtEnd(headerBB)
	pred, err := c.walk(expr.Predicate)
	if err != nil {
		return Value{}, err
	}
	if pred.Kind != BoolValue {
		return Value{}, &TypeError{Expected: ast.Bool, Actual: pred.Type(), Span: expr.Predicate.Span}
	}
	c.builder.CreateCondBr(pred.Val, bodyBB, afterBB)

	c.builder.SetInsertPointAtEnd(bodyBB)
	c.enterScope()
	c.loopExits = append(c.loopExits, afterBB)
	c.loopDepths = append(c.loopDepths, len(c.scopes.frames)-1)
	for _, stmt := range expr.Body {
		if _, err := c.walk(stmt); err != nil {
			return Value{}, err
		}
		if c.terminated() {
			break
		}
	}
	c.loopExits = c.loopExits[:len(c.loopExits)-1]
	c.loopDepths = c.loopDepths[:len(c.loopDepths)-1]
	c.exitScope()
	if !c.terminated() {
		c.builder.CreateBr(headerBB)
	}

	c.builder.SetInsertPointAtEnd(afterBB)
	return voidValue(), nil
}

// walkExtern adds a module-level function declaration and binds name in
// the current scope, per §4.7. Repeated externs with the same name are
// idempotent: the existing module-level declaration is reused.
func (c *Compiler) walkExtern(expr *ast.Expression) (Value, error) {
	sig := c.funcSignature(expr.Params, expr.ReturnType)

	fn := c.module.NamedFunction(expr.ExternName)
	if fn.IsNil() {
		fn = llvm.AddFunction(c.module, expr.ExternName, sig)
	}

	v := functionValue(fn, sig, expr.ReturnType, paramTypesOf(expr.Params))
	c.setVar(expr.ExternName, v)
	return v, nil
}

// walkBreak lowers a Break expression per §4.4: it branches unconditionally
// to the loop-exit block at the top of loopExits, first releasing every
// scope from the current depth down to (and including) the loop body's
// own scope, since those scopes' normal exit points will never run on
// this path. A Break with no enclosing loop on the stack is a
// BreakOutsideLoopError.
func (c *Compiler) walkBreak(expr *ast.Expression) (Value, error) {
	if len(c.loopExits) == 0 {
		return Value{}, &BreakOutsideLoopError{Span: expr.Span}
	}
	target := c.loopExits[len(c.loopExits)-1]
	depth := c.loopDepths[len(c.loopDepths)-1]
	for i := len(c.scopes.frames) - 1; i >= depth; i-- {
		c.releaseScope(c.scopes.frames[i])
	}
	c.builder.CreateBr(target)
	return breakValue(), nil
}
