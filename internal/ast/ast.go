// Package ast defines the syntax tree produced by the lexer/parser and
// consumed by the compiler. Every node carries a Span so that compiler
// diagnostics can point back at source text.
package ast

// Span is a half-open byte range in the original source text, plus the
// 1-indexed line/column of its start, used for error reporting.
type Span struct {
	Start, End int
	Line, Col  int
}

// Operator enumerates the binary and unary operators the grammar accepts.
type Operator int

const (
	Plus Operator = iota
	Minus
	Asterisk
	Slash
	Mod
	Equal
	NotEqual
	Less
	LessOrEqual
	Greater
	GreaterOrEqual
)

// String renders an Operator the way it appears in source, for error
// messages and IR debug names.
func (o Operator) String() string {
	switch o {
	case Plus:
		return "+"
	case Minus:
		return "-"
	case Asterisk:
		return "*"
	case Slash:
		return "/"
	case Mod:
		return "%"
	case Equal:
		return "=="
	case NotEqual:
		return "!="
	case Less:
		return "<"
	case LessOrEqual:
		return "<="
	case Greater:
		return ">"
	case GreaterOrEqual:
		return ">="
	default:
		return "?"
	}
}

// Type is the language-level type of a parameter, declared return value,
// or extern signature. It has no bearing on Value's runtime tag, which is
// inferred at codegen time (see compiler.Value) — Type only appears in the
// AST where the grammar requires an explicit annotation.
type Type int

const (
	Void Type = iota
	Numeric
	Bool
	String
	Vector
	Ptr
	Function
	CString
)

func (t Type) String() string {
	switch t {
	case Void:
		return "void"
	case Numeric:
		return "numeric"
	case Bool:
		return "bool"
	case String:
		return "string"
	case Vector:
		return "vector"
	case Ptr:
		return "ptr"
	case Function:
		return "function"
	case CString:
		return "cstring"
	default:
		return "?"
	}
}

// Param is a single formal parameter of a FuncDecl or Extern.
type Param struct {
	Name string
	Typ  Type
}

// Expression is the single tagged-union AST node. Exactly one of the
// Kind-specific fields below is meaningful for a given Kind; this mirrors
// the single-dispatch shape the compiler's codegen visitor uses (one
// Expression type, one switch, rather than a per-kind node hierarchy).
type Expression struct {
	Kind Kind
	Span Span

	Numeric float64 // KindNumeric
	Bool    bool    // KindBool
	Text    string  // KindString, KindIdentifier

	Inner *Expression // KindGrouping

	UnaryOp  Operator    // KindUnary
	UnaryRhs *Expression // KindUnary

	BinaryOp  Operator    // KindBinary
	BinaryLhs *Expression // KindBinary
	BinaryRhs *Expression // KindBinary

	AssignTarget *Expression // KindAssignment (must be KindIdentifier)
	AssignValue  *Expression // KindAssignment

	Predicate *Expression   // KindConditional, KindWhile
	Then      []*Expression // KindConditional
	Else      []*Expression // KindConditional
	Body      []*Expression // KindWhile, KindFuncDecl

	Callee *Expression   // KindFuncCall
	Args   []*Expression // KindFuncCall

	Params     []Param // KindFuncDecl, KindExtern
	ReturnType Type    // KindFuncDecl, KindExtern

	ExternName string // KindExtern
}

// Kind discriminates the Expression variants described in the
// specification's data model.
type Kind int

const (
	KindNumeric Kind = iota
	KindBool
	KindString
	KindIdentifier
	KindGrouping
	KindUnary
	KindBinary
	KindAssignment
	KindConditional
	KindWhile
	KindFuncCall
	KindFuncDecl
	KindExtern
	KindBreak
)

// Program is an ordered sequence of top-level expressions forming the
// whole of a compiled source file.
type Program struct {
	Body []*Expression
}
