// Package lexer tokenizes source text into the item stream the parser
// consumes, following the teacher's state-function lexer idiom
// (src/frontend/lexer.go/lexerStates.go) adapted to this language's own
// grammar rather than re-using the teacher's VSL grammar.
package lexer

// ItemType discriminates the kinds of lexical item the scanner emits.
type ItemType int

const (
	ItemEOF ItemType = iota
	ItemError

	ItemNumber
	ItemString
	ItemIdent

	ItemKeywordIf
	ItemKeywordElse
	ItemKeywordWhile
	ItemKeywordExtern
	ItemKeywordBreak
	ItemKeywordTrue
	ItemKeywordFalse
	ItemKeywordFn

	ItemPlus
	ItemMinus
	ItemStar
	ItemSlash
	ItemPercent
	ItemEqEq
	ItemNotEq
	ItemLess
	ItemLessEq
	ItemGreater
	ItemGreaterEq
	ItemAssign
	ItemArrow // =>
	ItemThinArrow // ->
	ItemColon
	ItemComma
	ItemLParen
	ItemRParen
	ItemLBrace
	ItemRBrace
)

var keywords = map[string]ItemType{
	"if":     ItemKeywordIf,
	"else":   ItemKeywordElse,
	"while":  ItemKeywordWhile,
	"extern": ItemKeywordExtern,
	"break":  ItemKeywordBreak,
	"true":   ItemKeywordTrue,
	"false":  ItemKeywordFalse,
	"fn":     ItemKeywordFn,
}

// Item is one lexical token: its type, literal text, and source
// position for diagnostics.
type Item struct {
	Typ        ItemType
	Val        string
	Line, Col  int
	Start, End int
}

func (t ItemType) String() string {
	switch t {
	case ItemEOF:
		return "EOF"
	case ItemError:
		return "ERROR"
	case ItemNumber:
		return "NUMBER"
	case ItemString:
		return "STRING"
	case ItemIdent:
		return "IDENT"
	default:
		return "TOKEN"
	}
}
