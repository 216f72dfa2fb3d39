package compiler

import (
	"fmt"

	"exprjit/internal/ast"
)

// UndefinedIdentifierError is signalled when a name lookup fails in every
// scope on the stack, innermost to outermost.
type UndefinedIdentifierError struct {
	Name string
	Span ast.Span
}

func (e *UndefinedIdentifierError) Error() string {
	return fmt.Sprintf("undefined identifier %q at %d:%d", e.Name, e.Span.Line, e.Span.Col)
}

// TypeError is signalled when an operand or callee carries the wrong
// Value kind for the operation being codegenned.
type TypeError struct {
	Expected ast.Type
	Actual   ast.Type
	Span     ast.Span
}

func (e *TypeError) Error() string {
	return fmt.Sprintf("type error at %d:%d: expected %s, got %s", e.Span.Line, e.Span.Col, e.Expected, e.Actual)
}

// VoidAssignmentError is signalled when a Void or Break result is used
// where a value is required, e.g. as a function argument.
type VoidAssignmentError struct {
	Span ast.Span
}

func (e *VoidAssignmentError) Error() string {
	return fmt.Sprintf("void value used where a value was expected at %d:%d", e.Span.Line, e.Span.Col)
}

// ArityError is signalled when a built-in is called with the wrong
// number of arguments.
type ArityError struct {
	Name     string
	Expected int
	Actual   int
	Span     ast.Span
}

func (e *ArityError) Error() string {
	return fmt.Sprintf("%s expects %d argument(s), got %d at %d:%d", e.Name, e.Expected, e.Actual, e.Span.Line, e.Span.Col)
}

// BreakOutsideLoopError is signalled when a break appears with no
// enclosing loop on the loop-exit stack.
type BreakOutsideLoopError struct {
	Span ast.Span
}

func (e *BreakOutsideLoopError) Error() string {
	return fmt.Sprintf("break outside of a loop at %d:%d", e.Span.Line, e.Span.Col)
}

// IrVerificationError is signalled when the LLVM verifier rejects an
// emitted function. This is always fatal: the caller is expected to dump
// the offending module before aborting.
type IrVerificationError struct {
	Function string
	Message  string
}

func (e *IrVerificationError) Error() string {
	return fmt.Sprintf("IR verification failed for %q: %s", e.Function, e.Message)
}
