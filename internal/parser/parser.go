// Package parser turns a lexer.Item stream into an ast.Program by plain
// recursive descent with precedence climbing, grounded in the teacher's
// division of concerns (lexer / parser / compiler as separate packages)
// but hand-written rather than goyacc-generated: the teacher's tree
// carries no .y grammar file to regenerate from, and this language's
// grammar differs from the teacher's VSL anyway.
package parser

import (
	"fmt"

	"exprjit/internal/ast"
	"exprjit/internal/lexer"
)

// SyntaxError reports a parse failure at a specific source position.
type SyntaxError struct {
	Msg  string
	Span ast.Span
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("syntax error at line %d: %s", e.Span.Line, e.Msg)
}

type parser struct {
	items []lexer.Item
	pos   int
}

// Parse lexes and parses src into a Program.
func Parse(src string) (*ast.Program, error) {
	items, err := lexer.Lex(src)
	if err != nil {
		return nil, err
	}
	p := &parser{items: items}
	return p.parseProgram()
}

func (p *parser) cur() lexer.Item {
	return p.items[p.pos]
}

func (p *parser) advance() lexer.Item {
	it := p.items[p.pos]
	if p.pos < len(p.items)-1 {
		p.pos++
	}
	return it
}

func (p *parser) check(t lexer.ItemType) bool {
	return p.cur().Typ == t
}

func (p *parser) match(t lexer.ItemType) bool {
	if p.check(t) {
		p.advance()
		return true
	}
	return false
}

func (p *parser) expect(t lexer.ItemType, what string) (lexer.Item, error) {
	if !p.check(t) {
		return lexer.Item{}, p.errorf("expected %s, got %q", what, p.cur().Val)
	}
	return p.advance(), nil
}

func (p *parser) errorf(format string, args ...interface{}) error {
	it := p.cur()
	return &SyntaxError{
		Msg:  fmt.Sprintf(format, args...),
		Span: span(it),
	}
}

func span(it lexer.Item) ast.Span {
	return ast.Span{Start: it.Start, End: it.End, Line: it.Line, Col: it.Col}
}

func (p *parser) parseProgram() (*ast.Program, error) {
	var body []*ast.Expression
	for !p.check(lexer.ItemEOF) {
		e, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		body = append(body, e)
	}
	return &ast.Program{Body: body}, nil
}

// parseBlock parses a brace-delimited sequence of expressions.
func (p *parser) parseBlock() ([]*ast.Expression, error) {
	if _, err := p.expect(lexer.ItemLBrace, "'{'"); err != nil {
		return nil, err
	}
	var body []*ast.Expression
	for !p.check(lexer.ItemRBrace) {
		if p.check(lexer.ItemEOF) {
			return nil, p.errorf("unterminated block")
		}
		e, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		body = append(body, e)
	}
	p.advance()
	return body, nil
}

func (p *parser) parseExpression() (*ast.Expression, error) {
	return p.parseAssignment()
}

// parseAssignment is the lowest-precedence level: `ident = expr`.
func (p *parser) parseAssignment() (*ast.Expression, error) {
	start := p.cur()
	lhs, err := p.parseComparison()
	if err != nil {
		return nil, err
	}
	if p.check(lexer.ItemAssign) {
		if lhs.Kind != ast.KindIdentifier {
			return nil, p.errorf("assignment target must be an identifier")
		}
		p.advance()
		rhs, err := p.parseAssignment()
		if err != nil {
			return nil, err
		}
		return &ast.Expression{
			Kind:         ast.KindAssignment,
			Span:         span(start),
			AssignTarget: lhs,
			AssignValue:  rhs,
		}, nil
	}
	return lhs, nil
}

var comparisonOps = map[lexer.ItemType]ast.Operator{
	lexer.ItemEqEq:       ast.Equal,
	lexer.ItemNotEq:      ast.NotEqual,
	lexer.ItemLess:       ast.Less,
	lexer.ItemLessEq:     ast.LessOrEqual,
	lexer.ItemGreater:    ast.Greater,
	lexer.ItemGreaterEq:  ast.GreaterOrEqual,
}

func (p *parser) parseComparison() (*ast.Expression, error) {
	lhs, err := p.parseAdditive()
	if err != nil {
		return nil, err
	}
	for {
		op, ok := comparisonOps[p.cur().Typ]
		if !ok {
			return lhs, nil
		}
		tok := p.advance()
		rhs, err := p.parseAdditive()
		if err != nil {
			return nil, err
		}
		lhs = &ast.Expression{
			Kind: ast.KindBinary, Span: span(tok),
			BinaryOp: op, BinaryLhs: lhs, BinaryRhs: rhs,
		}
	}
}

func (p *parser) parseAdditive() (*ast.Expression, error) {
	lhs, err := p.parseMultiplicative()
	if err != nil {
		return nil, err
	}
	for {
		var op ast.Operator
		switch p.cur().Typ {
		case lexer.ItemPlus:
			op = ast.Plus
		case lexer.ItemMinus:
			op = ast.Minus
		default:
			return lhs, nil
		}
		tok := p.advance()
		rhs, err := p.parseMultiplicative()
		if err != nil {
			return nil, err
		}
		lhs = &ast.Expression{
			Kind: ast.KindBinary, Span: span(tok),
			BinaryOp: op, BinaryLhs: lhs, BinaryRhs: rhs,
		}
	}
}

func (p *parser) parseMultiplicative() (*ast.Expression, error) {
	lhs, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	for {
		var op ast.Operator
		switch p.cur().Typ {
		case lexer.ItemStar:
			op = ast.Asterisk
		case lexer.ItemSlash:
			op = ast.Slash
		case lexer.ItemPercent:
			op = ast.Mod
		default:
			return lhs, nil
		}
		tok := p.advance()
		rhs, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		lhs = &ast.Expression{
			Kind: ast.KindBinary, Span: span(tok),
			BinaryOp: op, BinaryLhs: lhs, BinaryRhs: rhs,
		}
	}
}

func (p *parser) parseUnary() (*ast.Expression, error) {
	if p.check(lexer.ItemMinus) {
		tok := p.advance()
		rhs, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return &ast.Expression{
			Kind: ast.KindUnary, Span: span(tok),
			UnaryOp: ast.Minus, UnaryRhs: rhs,
		}, nil
	}
	return p.parseCall()
}

// parseCall handles postfix call application: primary '(' args ')'.
func (p *parser) parseCall() (*ast.Expression, error) {
	expr, err := p.parsePrimary()
	if err != nil {
		return nil, err
	}
	for p.check(lexer.ItemLParen) {
		tok := p.advance()
		var args []*ast.Expression
		for !p.check(lexer.ItemRParen) {
			a, err := p.parseExpression()
			if err != nil {
				return nil, err
			}
			args = append(args, a)
			if !p.match(lexer.ItemComma) {
				break
			}
		}
		if _, err := p.expect(lexer.ItemRParen, "')'"); err != nil {
			return nil, err
		}
		expr = &ast.Expression{
			Kind: ast.KindFuncCall, Span: span(tok),
			Callee: expr, Args: args,
		}
	}
	return expr, nil
}

func (p *parser) parsePrimary() (*ast.Expression, error) {
	tok := p.cur()
	switch tok.Typ {
	case lexer.ItemNumber:
		p.advance()
		var f float64
		fmt.Sscanf(tok.Val, "%g", &f)
		return &ast.Expression{Kind: ast.KindNumeric, Span: span(tok), Numeric: f}, nil
	case lexer.ItemString:
		p.advance()
		return &ast.Expression{Kind: ast.KindString, Span: span(tok), Text: tok.Val}, nil
	case lexer.ItemKeywordTrue:
		p.advance()
		return &ast.Expression{Kind: ast.KindBool, Span: span(tok), Bool: true}, nil
	case lexer.ItemKeywordFalse:
		p.advance()
		return &ast.Expression{Kind: ast.KindBool, Span: span(tok), Bool: false}, nil
	case lexer.ItemKeywordBreak:
		p.advance()
		return &ast.Expression{Kind: ast.KindBreak, Span: span(tok)}, nil
	case lexer.ItemIdent:
		p.advance()
		return &ast.Expression{Kind: ast.KindIdentifier, Span: span(tok), Text: tok.Val}, nil
	case lexer.ItemLParen:
		p.advance()
		inner, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(lexer.ItemRParen, "')'"); err != nil {
			return nil, err
		}
		return &ast.Expression{Kind: ast.KindGrouping, Span: span(tok), Inner: inner}, nil
	case lexer.ItemKeywordIf:
		return p.parseConditional()
	case lexer.ItemKeywordWhile:
		return p.parseWhile()
	case lexer.ItemKeywordFn:
		return p.parseFuncDecl()
	case lexer.ItemKeywordExtern:
		return p.parseExtern()
	default:
		return nil, p.errorf("unexpected token %q", tok.Val)
	}
}

func (p *parser) parseConditional() (*ast.Expression, error) {
	tok := p.advance() // 'if'
	pred, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	then, err := p.parseBlock()
	if err != nil {
		return nil, err
	}
	var elseBody []*ast.Expression
	if p.match(lexer.ItemKeywordElse) {
		elseBody, err = p.parseBlock()
		if err != nil {
			return nil, err
		}
	}
	return &ast.Expression{
		Kind: ast.KindConditional, Span: span(tok),
		Predicate: pred, Then: then, Else: elseBody,
	}, nil
}

func (p *parser) parseWhile() (*ast.Expression, error) {
	tok := p.advance() // 'while'
	pred, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	body, err := p.parseBlock()
	if err != nil {
		return nil, err
	}
	return &ast.Expression{
		Kind: ast.KindWhile, Span: span(tok),
		Predicate: pred, Body: body,
	}, nil
}

func (p *parser) parseFuncDecl() (*ast.Expression, error) {
	tok := p.advance() // 'fn'
	params, err := p.parseParamList()
	if err != nil {
		return nil, err
	}
	ret, err := p.parseReturnType()
	if err != nil {
		return nil, err
	}
	body, err := p.parseBlock()
	if err != nil {
		return nil, err
	}
	return &ast.Expression{
		Kind: ast.KindFuncDecl, Span: span(tok),
		Params: params, ReturnType: ret, Body: body,
	}, nil
}

func (p *parser) parseExtern() (*ast.Expression, error) {
	tok := p.advance() // 'extern'
	nameTok, err := p.expect(lexer.ItemIdent, "identifier")
	if err != nil {
		return nil, err
	}
	params, err := p.parseParamList()
	if err != nil {
		return nil, err
	}
	ret, err := p.parseReturnType()
	if err != nil {
		return nil, err
	}
	return &ast.Expression{
		Kind: ast.KindExtern, Span: span(tok),
		ExternName: nameTok.Val, Params: params, ReturnType: ret,
	}, nil
}

func (p *parser) parseParamList() ([]ast.Param, error) {
	if _, err := p.expect(lexer.ItemLParen, "'('"); err != nil {
		return nil, err
	}
	var params []ast.Param
	for !p.check(lexer.ItemRParen) {
		nameTok, err := p.expect(lexer.ItemIdent, "parameter name")
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(lexer.ItemColon, "':'"); err != nil {
			return nil, err
		}
		typ, err := p.parseTypeName()
		if err != nil {
			return nil, err
		}
		params = append(params, ast.Param{Name: nameTok.Val, Typ: typ})
		if !p.match(lexer.ItemComma) {
			break
		}
	}
	if _, err := p.expect(lexer.ItemRParen, "')'"); err != nil {
		return nil, err
	}
	return params, nil
}

// parseReturnType parses the optional `-> Type` suffix; a declaration
// without one is Void.
func (p *parser) parseReturnType() (ast.Type, error) {
	if !p.match(lexer.ItemThinArrow) {
		return ast.Void, nil
	}
	return p.parseTypeName()
}

func (p *parser) parseTypeName() (ast.Type, error) {
	nameTok, err := p.expect(lexer.ItemIdent, "type name")
	if err != nil {
		return ast.Void, err
	}
	switch nameTok.Val {
	case "num":
		return ast.Numeric, nil
	case "bool":
		return ast.Bool, nil
	case "string":
		return ast.String, nil
	case "vec":
		return ast.Vector, nil
	case "ptr":
		return ast.Ptr, nil
	case "cstring":
		return ast.CString, nil
	case "void":
		return ast.Void, nil
	default:
		return ast.Void, &SyntaxError{Msg: fmt.Sprintf("unknown type %q", nameTok.Val), Span: span(nameTok)}
	}
}
