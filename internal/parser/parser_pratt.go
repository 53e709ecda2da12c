package parser

import (
	"strconv"

	"c0c/internal/ast"
)

// binaryPrecedence mirrors C's operator precedence table, tightest-binding
// last: || lowest, then &&, bitwise or/xor/and, equality, relational,
// shift, additive, multiplicative highest.
var binaryPrecedence = map[TokenType]int{
	OR_OR:         1,
	AND_AND:       2,
	PIPE:          3,
	CARET:         4,
	AMPERSAND:     5,
	EQUAL_EQUAL:   6,
	BANG_EQUAL:    6,
	LESS:          7,
	LESS_EQUAL:    7,
	GREATER:       7,
	GREATER_EQUAL: 7,
	SHL:           8,
	SHR:           8,
	PLUS:          9,
	MINUS:         9,
	STAR:          10,
	SLASH:         10,
	PERCENT:       10,
}

var binOpFor = map[TokenType]ast.BinOp{
	OR_OR:         ast.LogOr,
	AND_AND:       ast.LogAnd,
	PIPE:          ast.BitOr,
	CARET:         ast.BitXor,
	AMPERSAND:     ast.BitAnd,
	EQUAL_EQUAL:   ast.Eq,
	BANG_EQUAL:    ast.Ne,
	LESS:          ast.Lt,
	LESS_EQUAL:    ast.Le,
	GREATER:       ast.Gt,
	GREATER_EQUAL: ast.Ge,
	SHL:           ast.Shl,
	SHR:           ast.Shr,
	PLUS:          ast.Add,
	MINUS:         ast.Sub,
	STAR:          ast.Mul,
	SLASH:         ast.Div,
	PERCENT:       ast.Mod,
}

// parseExpr parses a full expression, including the right-associative
// ternary `c ? t : f` sitting below every binary operator.
func (p *Parser) parseExpr() ast.Expr {
	cond := p.parseBinary(1)
	if cond == nil {
		return nil
	}
	if p.match(QUESTION) {
		then := p.parseExpr()
		if p.consume(COLON, "expected ':' in ternary expression") == nil {
			return nil
		}
		els := p.parseExpr()
		return &ast.TernaryExpr{Cond: cond, Then: then, Else: els, Pos: cond.ExprPos()}
	}
	return cond
}

func (p *Parser) parseBinary(minPrec int) ast.Expr {
	left := p.parseUnary()
	if left == nil {
		return nil
	}
	for {
		prec, ok := binaryPrecedence[p.peek().Type]
		if !ok || prec < minPrec {
			return left
		}
		opTok := p.advance()
		right := p.parseBinary(prec + 1)
		if right == nil {
			return nil
		}
		left = &ast.BinaryExpr{Left: left, Op: binOpFor[opTok.Type], Right: right, Pos: left.ExprPos()}
	}
}

func (p *Parser) parseUnary() ast.Expr {
	switch {
	case p.check(MINUS):
		tok := p.advance()
		operand := p.parseUnary()
		return &ast.UnaryExpr{Op: ast.Neg, Operand: operand, Pos: tok.Pos}
	case p.check(BANG):
		tok := p.advance()
		operand := p.parseUnary()
		return &ast.UnaryExpr{Op: ast.Not, Operand: operand, Pos: tok.Pos}
	case p.check(TILDE):
		tok := p.advance()
		operand := p.parseUnary()
		return &ast.UnaryExpr{Op: ast.BitNot, Operand: operand, Pos: tok.Pos}
	default:
		return p.parsePrimary()
	}
}

func (p *Parser) parsePrimary() ast.Expr {
	tok := p.peek()
	switch tok.Type {
	case TRUE:
		p.advance()
		return &ast.BoolLit{Value: true, Pos: tok.Pos}
	case FALSE:
		p.advance()
		return &ast.BoolLit{Value: false, Pos: tok.Pos}
	case NUMBER:
		p.advance()
		return parseDecimalLit(tok)
	case HEX_NUMBER:
		p.advance()
		return parseHexLit(tok)
	case LEFT_PAREN:
		p.advance()
		inner := p.parseExpr()
		if p.consume(RIGHT_PAREN, "expected ')' after expression") == nil {
			return nil
		}
		return inner
	case IDENTIFIER, PRINT, READ, FLUSH:
		p.advance()
		name := tok.Lexeme
		if p.check(LEFT_PAREN) {
			return p.parseCallArgs(name, tok.Pos)
		}
		return &ast.Ident{Name: name, Pos: tok.Pos}
	default:
		p.errorf(tok.Pos, "expected an expression, found %q", tok.Lexeme)
		return nil
	}
}

func (p *Parser) parseCallArgs(name string, pos ast.Position) ast.Expr {
	p.advance() // '('
	var args []ast.Expr
	if !p.check(RIGHT_PAREN) {
		for {
			a := p.parseExpr()
			if a == nil {
				return nil
			}
			args = append(args, a)
			if !p.match(COMMA) {
				break
			}
		}
	}
	if p.consume(RIGHT_PAREN, "expected ')' after call arguments") == nil {
		return nil
	}
	return &ast.CallExpr{Name: name, Args: args, Pos: pos}
}

// parseDecimalLit keeps the digit string's magnitude check out of the
// lexer entirely: spec.md classifies literal overflow as a semantic error
// (exit 7), not a lexical one (exit 42). A digit run too long even for a
// uint64 is clamped to a value internal/semantic will reject as
// out-of-range (math.MaxUint64 > 1<<31).
func parseDecimalLit(tok Token) *ast.IntLit {
	v, err := strconv.ParseUint(tok.Lexeme, 10, 64)
	if err != nil {
		v = ^uint64(0)
	}
	return &ast.IntLit{Raw: v, Pos: tok.Pos}
}

// parseHexLit reads up to 8 hex digits as an unsigned 32-bit pattern, then
// bit-reinterprets it as signed (spec.md §6); this can never overflow by
// construction.
func parseHexLit(tok Token) *ast.IntLit {
	v, _ := strconv.ParseUint(tok.Lexeme[2:], 16, 64)
	return &ast.IntLit{Hex: true, Value: int32(uint32(v)), Pos: tok.Pos}
}
