package parser

import (
	"github.com/uya-lang/uyac/internal/ast"
	"github.com/uya-lang/uyac/internal/errors"
	"github.com/uya-lang/uyac/internal/lexer"
)

// parseMatchExpression parses `match scrutinee { pattern => body, ..., else => body }`.
// Patterns are restricted to primary expressions per spec §4.1, so arms are
// parsed with parseExpression(CALL) rather than the full precedence table —
// this keeps `1 + 2 => ...` from being read as one pattern spanning the `+`.
func (p *Parser) parseMatchExpression() ast.Expression {
	tok := p.cur
	p.nextToken() // consume 'match'

	p.allowStructInit = false
	scrutinee := p.parseExpression(LOWEST)
	p.allowStructInit = true
	if scrutinee == nil {
		return nil
	}

	if !p.expect(lexer.LBRACE, "to open match body") {
		return nil
	}
	m := &ast.Match{Token: tok, Scrutinee: scrutinee}
	for !p.curIs(lexer.RBRACE) && !p.curIs(lexer.EOF) {
		arm := p.parseMatchArm()
		if arm == nil {
			return nil
		}
		m.Arms = append(m.Arms, arm)
		if p.curIs(lexer.COMMA) {
			p.nextToken()
		} else {
			break
		}
	}
	if !p.expect(lexer.RBRACE, "to close match body") {
		return nil
	}
	return m
}

func (p *Parser) parseMatchArm() *ast.Pattern {
	tok := p.cur
	wildcard := false
	var value ast.Expression
	if p.curIs(lexer.ELSE) {
		wildcard = true
		p.nextToken()
	} else {
		value = p.parseExpression(CALL)
		if value == nil {
			return nil
		}
	}
	if !p.expect(lexer.FAT_ARROW, "in match arm") {
		return nil
	}
	var body ast.Expression
	if p.curIs(lexer.LBRACE) {
		body = p.parseBlockExpression()
	} else {
		body = p.parseExpression(LOWEST)
	}
	if body == nil {
		return nil
	}
	return &ast.Pattern{Token: tok, Value: value, Wildcard: wildcard, Body: body}
}

// parseBlockExpression wraps a `{ ... }` match-arm body's statement list as
// a synthetic expression node so Pattern.Body can stay a single
// ast.Expression field; the last statement, if an ExpressionStatement, is
// the arm's value.
func (p *Parser) parseBlockExpression() ast.Expression {
	stmts := p.parseBlockStatements()
	if len(stmts) == 0 {
		return &ast.TupleLiteral{}
	}
	if last, ok := stmts[len(stmts)-1].(*ast.ExpressionStatement); ok {
		return last.Expr
	}
	p.errorf(errors.ErrInvalidExpression, "match arm block must end in an expression")
	return &ast.TupleLiteral{}
}
