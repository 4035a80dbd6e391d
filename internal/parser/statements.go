package parser

import (
	"github.com/uya-lang/uyac/internal/ast"
	"github.com/uya-lang/uyac/internal/errors"
	"github.com/uya-lang/uyac/internal/lexer"
)

// parseBlock parses a `{ ... }` statement block.
func (p *Parser) parseBlock() *ast.Block {
	pos := p.cur.Pos
	stmts := p.parseBlockStatements()
	return &ast.Block{Span: pos, Stmts: stmts}
}

// parseBlockStatements parses the statement list inside `{ ... }` without
// wrapping it in an *ast.Block, for callers (catch/defer/errdefer) that
// store a bare []ast.Statement.
func (p *Parser) parseBlockStatements() []ast.Statement {
	if !p.expect(lexer.LBRACE, "to open block") {
		return nil
	}
	var stmts []ast.Statement
	for !p.curIs(lexer.RBRACE) && !p.curIs(lexer.EOF) {
		before := p.cur
		s := p.parseStatement()
		if s != nil {
			stmts = append(stmts, s)
		}
		if p.cur == before {
			p.errorf(errors.ErrUnexpected, "unexpected token %s in statement list", p.cur.Kind)
			p.nextToken()
		}
	}
	p.expect(lexer.RBRACE, "to close block")
	return stmts
}

// parseStatement dispatches on the leading token (spec §4.1's statement
// grammar).
func (p *Parser) parseStatement() ast.Statement {
	switch p.cur.Kind {
	case lexer.VAR, lexer.CONST:
		return p.parseVarStatement()
	case lexer.IF:
		return p.parseIfStatement()
	case lexer.WHILE:
		return p.parseWhileStatement()
	case lexer.FOR:
		return p.parseForStatement()
	case lexer.RETURN:
		return p.parseReturnStatement()
	case lexer.DEFER:
		return p.parseDeferStatement()
	case lexer.ERRDEFER:
		return p.parseErrDeferStatement()
	case lexer.LBRACE:
		return p.parseBlock()
	case lexer.IDENT:
		return p.parseBreakOrContinueOrExprStatement()
	default:
		return p.parseExpressionOrAssignStatement()
	}
}

func (p *Parser) parseBreakOrContinueOrExprStatement() ast.Statement {
	switch p.cur.Literal {
	case "break":
		pos := p.cur.Pos
		p.nextToken()
		p.consumeOptionalSemicolon()
		return &ast.BreakStatement{Span: pos}
	case "continue":
		pos := p.cur.Pos
		p.nextToken()
		p.consumeOptionalSemicolon()
		return &ast.ContinueStatement{Span: pos}
	default:
		return p.parseExpressionOrAssignStatement()
	}
}

func (p *Parser) consumeOptionalSemicolon() {
	if p.curIs(lexer.SEMICOLON) {
		p.nextToken()
	}
}

// parseExpressionOrAssignStatement parses a leading expression, then checks
// whether it is immediately followed by `=` (a plain AssignStatement) or is
// simply an expression evaluated for effect (a Call or CatchExpr).
func (p *Parser) parseExpressionOrAssignStatement() ast.Statement {
	pos := p.cur.Pos
	expr := p.parseExpression(LOWEST)
	if expr == nil {
		p.consumeOptionalSemicolon()
		return nil
	}
	if p.curIs(lexer.ASSIGN) {
		p.nextToken()
		value := p.parseExpression(LOWEST)
		if value == nil {
			return nil
		}
		p.expect(lexer.SEMICOLON, "after assignment")
		return &ast.AssignStatement{Span: pos, Target: expr, Value: value}
	}
	if op, isCompound := compoundAssignOp(p.cur.Kind); isCompound {
		p.nextToken()
		value := p.parseExpression(LOWEST)
		if value == nil {
			return nil
		}
		p.expect(lexer.SEMICOLON, "after compound assignment")
		return &ast.AssignStatement{Span: pos, Target: expr, Operator: op, Value: value}
	}
	p.expect(lexer.SEMICOLON, "after expression statement")
	return &ast.ExpressionStatement{Span: pos, Expr: expr}
}

// compoundAssignOp is not reachable today (the lexer has no `+=` family of
// tokens; wrap/sat operators are binary-only per spec §4.1) but is kept as
// the single seam a future compound-assignment token would plug into.
func compoundAssignOp(lexer.TokenKind) (string, bool) {
	return "", false
}

func (p *Parser) parseVarStatement() ast.Statement {
	pos := p.cur.Pos
	isConst := p.curIs(lexer.CONST)
	p.nextToken()
	isAtomic := false
	if p.curIs(lexer.ATOMIC) {
		isAtomic = true
		p.nextToken()
	}
	if !p.curIs(lexer.IDENT) {
		p.errorf(errors.ErrMissingToken, "expected identifier after var/const, found %s", p.cur.Kind)
		return nil
	}
	name := p.cur.Literal
	p.nextToken()
	var typ ast.TypeExpr
	if p.curIs(lexer.COLON) {
		p.nextToken()
		typ = p.parseType()
	}
	var value ast.Expression
	if p.curIs(lexer.ASSIGN) {
		p.nextToken()
		value = p.parseExpression(LOWEST)
	}
	p.expect(lexer.SEMICOLON, "after var/const declaration")
	return &ast.VarStatement{Span: pos, Name: name, Type: typ, Value: value, IsConst: isConst, IsAtomic: isAtomic}
}

func (p *Parser) parseIfStatement() ast.Statement {
	pos := p.cur.Pos
	p.nextToken() // consume 'if'
	cond := p.parseConditionExpression()
	if cond == nil {
		return nil
	}
	then := p.parseBlock()
	var elseStmt ast.Statement
	if p.curIs(lexer.ELSE) {
		p.nextToken()
		if p.curIs(lexer.IF) {
			elseStmt = p.parseIfStatement()
		} else {
			elseStmt = p.parseBlock()
		}
	}
	return &ast.IfStatement{Span: pos, Condition: cond, Then: then, Else: elseStmt}
}

func (p *Parser) parseWhileStatement() ast.Statement {
	pos := p.cur.Pos
	p.nextToken() // consume 'while'
	cond := p.parseConditionExpression()
	if cond == nil {
		return nil
	}
	body := p.parseBlock()
	return &ast.WhileStatement{Span: pos, Condition: cond, Body: body}
}

func (p *Parser) parseForStatement() ast.Statement {
	pos := p.cur.Pos
	p.nextToken() // consume 'for'
	if !p.curIs(lexer.IDENT) {
		p.errorf(errors.ErrMissingToken, "expected loop variable name, found %s", p.cur.Kind)
		return nil
	}
	varName := p.cur.Literal
	p.nextToken()
	if !p.expect(lexer.IN, "in for loop") {
		return nil
	}
	p.allowStructInit = false
	iterable := p.parseExpression(LOWEST)
	p.allowStructInit = true
	if iterable == nil {
		return nil
	}
	body := p.parseBlock()
	return &ast.ForStatement{Span: pos, VarName: varName, Iterable: iterable, Body: body}
}

func (p *Parser) parseReturnStatement() ast.Statement {
	pos := p.cur.Pos
	p.nextToken() // consume 'return'
	if p.curIs(lexer.SEMICOLON) {
		p.nextToken()
		return &ast.ReturnStatement{Span: pos}
	}
	value := p.parseExpression(LOWEST)
	p.expect(lexer.SEMICOLON, "after return value")
	return &ast.ReturnStatement{Span: pos, Value: value}
}

func (p *Parser) parseDeferStatement() ast.Statement {
	pos := p.cur.Pos
	p.nextToken() // consume 'defer'
	body := p.parseBlockStatements()
	return &ast.DeferStatement{Span: pos, Body: body}
}

func (p *Parser) parseErrDeferStatement() ast.Statement {
	pos := p.cur.Pos
	p.nextToken() // consume 'errdefer'
	body := p.parseBlockStatements()
	return &ast.ErrDeferStatement{Span: pos, Body: body}
}
