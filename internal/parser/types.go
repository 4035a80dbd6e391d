package parser

import (
	"strconv"

	"github.com/uya-lang/uyac/internal/ast"
	"github.com/uya-lang/uyac/internal/errors"
	"github.com/uya-lang/uyac/internal/lexer"
)

// parseType parses a type expression: !T, *T, &T, atomic T, [T: N], [T],
// &[T], (T1, T2), fn(T1, T2) R, or a named type with optional <T1, T2>
// arguments (spec §4.1's type grammar).
func (p *Parser) parseType() ast.TypeExpr {
	switch p.cur.Kind {
	case lexer.BANG:
		pos := p.cur.Pos
		p.nextToken()
		payload := p.parseType()
		if payload == nil {
			return nil
		}
		return &ast.TypeErrorUnion{Span: pos, Payload: payload}

	case lexer.STAR:
		pos := p.cur.Pos
		p.nextToken()
		elem := p.parseType()
		if elem == nil {
			return nil
		}
		return &ast.TypePointer{Span: pos, Elem: elem, Borrow: false}

	case lexer.AMP:
		pos := p.cur.Pos
		p.nextToken()
		if p.curIs(lexer.LBRACK) {
			return p.parseSliceType(pos, true)
		}
		elem := p.parseType()
		if elem == nil {
			return nil
		}
		return &ast.TypePointer{Span: pos, Elem: elem, Borrow: true}

	case lexer.ATOMIC:
		pos := p.cur.Pos
		p.nextToken()
		elem := p.parseType()
		if elem == nil {
			return nil
		}
		return &ast.TypeAtomic{Span: pos, Elem: elem}

	case lexer.LBRACK:
		return p.parseArrayOrSliceType()

	case lexer.LPAREN:
		return p.parseTupleType()

	case lexer.FN:
		return p.parseFnType()

	case lexer.IDENT:
		return p.parseNamedType()

	default:
		p.errorf(errors.ErrInvalidType, "expected type, found %s", p.cur.Kind)
		return nil
	}
}

// parseArrayOrSliceType parses `[T: N]` (fixed array) or `[T]` (slice).
func (p *Parser) parseArrayOrSliceType() ast.TypeExpr {
	pos := p.cur.Pos
	p.nextToken() // consume '['
	elem := p.parseType()
	if elem == nil {
		return nil
	}
	if p.curIs(lexer.COLON) {
		p.nextToken()
		sizeExpr := p.parseExpression(LOWEST)
		if !p.expect(lexer.RBRACK, "to close array type") {
			return nil
		}
		size := int64(-1)
		if lit, ok := sizeExpr.(*ast.NumberLiteral); ok {
			size = lit.Value
		}
		return &ast.TypeArray{Span: pos, Elem: elem, Size: size, SizeExpr: sizeExpr}
	}
	if !p.expect(lexer.RBRACK, "to close slice type") {
		return nil
	}
	return &ast.TypeSlice{Span: pos, Elem: elem, Borrow: false}
}

// parseSliceType parses the `[T]` that follows an already-consumed `&`.
func (p *Parser) parseSliceType(pos lexer.Position, borrow bool) ast.TypeExpr {
	p.nextToken() // consume '['
	elem := p.parseType()
	if elem == nil {
		return nil
	}
	if !p.expect(lexer.RBRACK, "to close slice type") {
		return nil
	}
	return &ast.TypeSlice{Span: pos, Elem: elem, Borrow: borrow}
}

func (p *Parser) parseTupleType() ast.TypeExpr {
	pos := p.cur.Pos
	p.nextToken() // consume '('
	var elems []ast.TypeExpr
	for !p.curIs(lexer.RPAREN) && !p.curIs(lexer.EOF) {
		t := p.parseType()
		if t == nil {
			return nil
		}
		elems = append(elems, t)
		if p.curIs(lexer.COMMA) {
			p.nextToken()
		} else {
			break
		}
	}
	if !p.expect(lexer.RPAREN, "to close tuple type") {
		return nil
	}
	return &ast.TypeTuple{Span: pos, Elems: elems}
}

func (p *Parser) parseFnType() ast.TypeExpr {
	pos := p.cur.Pos
	p.nextToken() // consume 'fn'
	if !p.expect(lexer.LPAREN, "after fn") {
		return nil
	}
	var params []ast.TypeExpr
	for !p.curIs(lexer.RPAREN) && !p.curIs(lexer.EOF) {
		t := p.parseType()
		if t == nil {
			return nil
		}
		params = append(params, t)
		if p.curIs(lexer.COMMA) {
			p.nextToken()
		} else {
			break
		}
	}
	if !p.expect(lexer.RPAREN, "to close fn type parameter list") {
		return nil
	}
	var ret ast.TypeExpr
	if !p.curIs(lexer.LBRACE) && !p.curIs(lexer.SEMICOLON) && !p.curIs(lexer.COMMA) &&
		!p.curIs(lexer.RPAREN) && !p.curIs(lexer.RBRACK) {
		ret = p.parseType()
	}
	return &ast.TypeFn{Span: pos, Params: params, Return: ret}
}

// parseNamedType parses `Name` or `Name<T1, T2>`.
func (p *Parser) parseNamedType() ast.TypeExpr {
	pos := p.cur.Pos
	name := p.cur.Literal
	p.nextToken()
	var typeArgs []ast.TypeExpr
	if p.curIs(lexer.LESS) {
		save := p.saveState()
		p.nextToken()
		args, ok := p.tryParseTypeArgList()
		if !ok {
			p.restoreState(save)
		} else {
			typeArgs = args
		}
	}
	return &ast.TypeNamed{Span: pos, Name: name, TypeArgs: typeArgs}
}

// tryParseTypeArgList parses a `<T1, T2>` list assuming '<' was already
// consumed; returns ok=false (without advancing past where it started
// failing) if what follows does not look like a type-argument list, so the
// caller can backtrack and reinterpret '<' as a relational operator.
func (p *Parser) tryParseTypeArgList() ([]ast.TypeExpr, bool) {
	var args []ast.TypeExpr
	for !p.curIs(lexer.GREATER) {
		if p.curIs(lexer.EOF) || p.curIs(lexer.SEMICOLON) || p.curIs(lexer.LBRACE) {
			return nil, false
		}
		t := p.parseType()
		if t == nil {
			return nil, false
		}
		args = append(args, t)
		if p.curIs(lexer.COMMA) {
			p.nextToken()
			continue
		}
		break
	}
	if !p.curIs(lexer.GREATER) {
		return nil, false
	}
	p.nextToken() // consume '>'
	return args, true
}

// parseTypeParamList parses the `<T1, T2>` generic parameter list on a
// declaration (fn/struct); unlike tryParseTypeArgList this is unconditional
// since a declaration name is never followed by a relational operator.
func (p *Parser) parseTypeParamList() []string {
	if !p.curIs(lexer.LESS) {
		return nil
	}
	p.nextToken()
	var names []string
	for !p.curIs(lexer.GREATER) && !p.curIs(lexer.EOF) {
		if p.curIs(lexer.IDENT) {
			names = append(names, p.cur.Literal)
			p.nextToken()
		}
		if p.curIs(lexer.COMMA) {
			p.nextToken()
		} else {
			break
		}
	}
	p.expect(lexer.GREATER, "to close type parameter list")
	return names
}

// parseIntLiteralValue is a small helper used when array sizes must be
// known at parse time (spec §4.1: "a resolvable-at-parse-time constant").
func parseIntLiteralValue(lit string) (int64, bool) {
	v, err := strconv.ParseInt(lit, 0, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

func parseFloatLiteralValue(lit string) float64 {
	v, err := strconv.ParseFloat(lit, 64)
	if err != nil {
		return 0
	}
	return v
}
