package compiler

import (
	"tinygo.org/x/go-llvm"
)

// enterScope pushes a fresh scope, per §4.2.
func (c *Compiler) enterScope() *scope {
	return c.scopes.push()
}

// exitScope pops the top scope and releases every reference still
// tracked in it, then returns the popped scope. No release is emitted if
// the current block is already terminated (e.g. a break already branched
// away): appending instructions after a terminator is invalid IR, and the
// scope was (or will be) released along whichever path actually reaches
// its exit (walkBreak releases the same scopes on its own path).
func (c *Compiler) exitScope() *scope {
	sc := c.scopes.pop()
	if !c.terminated() {
		c.releaseScope(sc)
	}
	return sc
}

// terminated reports whether the builder's current insertion block
// already ends in a terminator instruction (br/ret/etc.), meaning no
// further instructions may be appended to it.
func (c *Compiler) terminated() bool {
	blk := c.builder.GetInsertBlock()
	last := blk.LastInstruction()
	return !last.IsNil() && !last.IsATerminatorInst().IsNil()
}

// releaseValue emits the one runtime release call a heap-kinded Value
// requires, or nothing for non-heap kinds.
func (c *Compiler) releaseValue(v Value) {
	switch v.Kind {
	case VecValue:
		c.callRuntime1("vec_release", v.Val)
	case StringValue:
		c.callRuntime1("string_release", v.Val)
	}
}

// releaseScope emits one runtime release call per still-tracked
// reference, in reverse insertion order (§5 ordering rule), then does the
// same for every slot-bound Vec/String variable still live in the scope:
// a value assigned into a variable is untracked from the transient list
// by setVar, but the scope still owns whatever reference sits in that
// slot when the scope exits, so it must be loaded and released here too.
// Slot bindings are walked via sc.order (insertion order) rather than
// ranging over sc.vars directly, since Go map iteration order is
// randomized and would make the emitted IR non-deterministic.
func (c *Compiler) releaseScope(sc *scope) {
	for i := len(sc.tracked) - 1; i >= 0; i-- {
		c.releaseValue(sc.tracked[i])
	}
	for _, name := range sc.order {
		v := sc.vars[name]
		if v.Kind != VecValue && v.Kind != StringValue {
			continue
		}
		loaded := c.builder.CreateLoad(c.irTypeForKind(v.Kind), v.Slot, "")
		c.releaseValue(Value{Kind: v.Kind, Val: loaded})
	}
}

// setVar implements §4.2's set_var: compute the slot type from the
// value's kind, reuse the slot of the nearest binding of name if it has
// the same kind and belongs to the current function (so re-assignment
// reuses its slot, testable property 7, and a loop body can update a
// variable declared outside it), else emit a fresh alloca in the
// function's entry block, bound in the innermost scope.
// Storing a tracked heap value removes it from the current scope's
// tracked list — ownership has moved into the slot.
func (c *Compiler) setVar(name string, v Value) {
	top := c.scopes.top()

	if v.Kind == FunctionValue {
		// Function bindings carry their callable value directly rather
		// than going through an alloca (see Variable's doc comment).
		if _, existed := top.vars[name]; !existed {
			top.order = append(top.order, name)
		}
		top.vars[name] = &Variable{
			Kind:       FunctionValue,
			FuncVal:    v.Val,
			FuncType:   v.FuncType,
			ReturnType: v.ReturnType,
			ParamTypes: v.ParamTypes,
		}
		return
	}

	if existing, ok := c.scopes.lookup(name); ok && existing.Kind == v.Kind &&
		existing.Slot.InstructionParent().Parent() == c.builder.GetInsertBlock().Parent() {
		c.builder.CreateStore(v.Val, existing.Slot)
		top.untrack(v)
		return
	}

	_, existedBefore := top.vars[name]
	slot := c.allocaInEntry(c.irTypeForKind(v.Kind), name)
	c.builder.CreateStore(v.Val, slot)
	top.vars[name] = &Variable{Kind: v.Kind, Slot: slot}
	if !existedBefore {
		top.order = append(top.order, name)
	}
	top.untrack(v)
}

// getVar implements §4.2's get_var: walk scopes innermost-first.
func (c *Compiler) getVar(name string) (*Variable, bool) {
	return c.scopes.lookup(name)
}

// getBuiltin looks up name in the built-in table, independent of the
// scope stack.
func (c *Compiler) getBuiltin(name string) (*Variable, bool) {
	v, ok := c.builtins[name]
	return v, ok
}

// trackMaybeOrphaned records a freshly produced heap Value (from a
// runtime call or literal) in the current scope's tracked list.
func (c *Compiler) trackMaybeOrphaned(v Value) {
	c.scopes.top().track(v)
}

// allocaInEntry emits an alloca at the end of the current function's
// entry block, preserving invariant 3 (every alloca flows into the
// entry block so mem2reg applies), regardless of the builder's current
// insertion point.
func (c *Compiler) allocaInEntry(t llvm.Type, name string) llvm.Value {
	cur := c.builder.GetInsertBlock()
	fn := cur.Parent()
	entry := fn.EntryBasicBlock()

	// Position just before the entry block's terminator, or at its end
	// if it has none yet (the very first alloca in a function body).
	if term := entry.LastInstruction(); !term.IsNil() && !term.IsATerminatorInst().IsNil() {
		c.builder.SetInsertPointBefore(term)
	} else {
		c.builder.SetInsertPointAtEnd(entry)
	}
	slot := c.builder.CreateAlloca(t, name)
	c.builder.SetInsertPointAtEnd(cur)
	return slot
}

// irTypeForKind maps a ValueKind back to its IR storage type. Used by
// setVar, which only has a Value (and hence a ValueKind) in hand, not
// the original ast.Type.
func (c *Compiler) irTypeForKind(k ValueKind) llvm.Type {
	switch k {
	case NumericValue:
		return c.ctx.DoubleType()
	case BoolValue:
		return c.ctx.Int1Type()
	case StringValue, VecValue, PtrValue:
		return llvm.PointerType(c.ctx.Int8Type(), 0)
	default:
		return c.ctx.VoidType()
	}
}

// valueFromVariable reconstructs the typed Value a slot or function
// binding represents, loading from the slot for ordinary kinds
// (Identifier's load, per §4.1) and returning the callable directly for
// Function kind.
func (c *Compiler) valueFromVariable(v *Variable) Value {
	if v.Kind == FunctionValue {
		return functionValue(v.FuncVal, v.FuncType, v.ReturnType, v.ParamTypes)
	}
	loaded := c.builder.CreateLoad(c.irTypeForKind(v.Kind), v.Slot, "")
	switch v.Kind {
	case NumericValue:
		return numericValue(loaded)
	case BoolValue:
		return boolValue(loaded)
	case StringValue:
		return stringValue(loaded)
	case VecValue:
		return vecValue(loaded)
	case PtrValue:
		return ptrValue(loaded)
	default:
		return voidValue()
	}
}
