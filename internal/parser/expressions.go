package parser

import (
	"github.com/uya-lang/uyac/internal/ast"
	"github.com/uya-lang/uyac/internal/errors"
	"github.com/uya-lang/uyac/internal/lexer"
)

// registerExpressionParseFns wires every prefix/infix parse function into
// the Pratt tables (teacher pattern: map lookups instead of a big switch,
// so adding an operator never touches parseExpression itself).
func (p *Parser) registerExpressionParseFns() {
	p.prefixParseFns[lexer.IDENT] = p.parseIdentifierOrStructInit
	p.prefixParseFns[lexer.NUMBER] = p.parseNumberLiteral
	p.prefixParseFns[lexer.FLOAT] = p.parseFloatLiteral
	p.prefixParseFns[lexer.TRUE] = p.parseBoolLiteral
	p.prefixParseFns[lexer.FALSE] = p.parseBoolLiteral
	p.prefixParseFns[lexer.STRING] = p.parseStringLiteral
	p.prefixParseFns[lexer.LPAREN] = p.parseGroupedOrTuple
	p.prefixParseFns[lexer.LBRACK] = p.parseArrayLiteral
	p.prefixParseFns[lexer.MINUS] = p.parsePrefixExpression
	p.prefixParseFns[lexer.BANG] = p.parsePrefixExpression
	p.prefixParseFns[lexer.AMP] = p.parsePrefixExpression
	p.prefixParseFns[lexer.STAR] = p.parsePrefixExpression
	p.prefixParseFns[lexer.TRY] = p.parseTryExpression
	p.prefixParseFns[lexer.MATCH] = p.parseMatchExpression
	p.prefixParseFns[lexer.AT] = p.parseAtBuiltin
	p.prefixParseFns[lexer.ERROR] = p.parseErrorValue

	infixKinds := []lexer.TokenKind{
		lexer.PLUS, lexer.MINUS, lexer.STAR, lexer.SLASH, lexer.PERCENT,
		lexer.PLUS_WRAP, lexer.MINUS_WRAP, lexer.STAR_WRAP,
		lexer.PLUS_SAT, lexer.MINUS_SAT, lexer.STAR_SAT,
		lexer.EQ, lexer.NOT_EQ, lexer.LESS, lexer.LESS_EQ, lexer.GREATER, lexer.GREATER_EQ,
		lexer.AND_AND, lexer.OR_OR, lexer.SHL, lexer.SHR,
	}
	for _, k := range infixKinds {
		p.infixParseFns[k] = p.parseInfixExpression
	}
	p.infixParseFns[lexer.LPAREN] = p.parseCallExpression
	p.infixParseFns[lexer.DOT] = p.parseMemberOrMethodCall
	p.infixParseFns[lexer.LBRACK] = p.parseIndexOrSlice
}

// parseExpression is the Pratt-climbing core: parse one prefix operand,
// then keep folding in infix/postfix operators whose precedence exceeds
// minPrec (spec §4.1's operator-precedence table).
func (p *Parser) parseExpression(minPrec precedence) ast.Expression {
	prefix, ok := p.prefixParseFns[p.cur.Kind]
	if !ok {
		return p.unexpected("expression")
	}
	left := prefix()
	if left == nil {
		return nil
	}

	for !p.curIs(lexer.SEMICOLON) && minPrec < p.curPrecedence() {
		infix, ok := p.infixParseFns[p.cur.Kind]
		if !ok {
			break
		}
		left = infix(left)
		if left == nil {
			return nil
		}
	}

	// `as T` cast and `catch` binds looser than any infix operator chain
	// but tighter than assignment, so it is handled after the climb rather
	// than through the precedence table (spec §4.1).
	for {
		if p.curIs(lexer.AS) {
			left = p.parseCastExpression(left)
		} else if p.curIs(lexer.CATCH) {
			left = p.parseCatchExpression(left)
		} else {
			break
		}
		if left == nil {
			return nil
		}
	}
	return left
}

func (p *Parser) parseIdentifierOrStructInit() ast.Expression {
	tok := p.cur
	name := tok.Literal
	p.nextToken()

	if isCapitalized(name) && p.allowStructInit {
		if p.curIs(lexer.LBRACE) {
			return p.parseStructInit(tok, name, nil)
		}
		if p.curIs(lexer.LESS) {
			save := p.saveState()
			p.nextToken()
			typeArgs, ok := p.tryParseTypeArgList()
			if ok && p.curIs(lexer.LBRACE) {
				return p.parseStructInit(tok, name, typeArgs)
			}
			p.restoreState(save)
		}
	}
	if p.curIs(lexer.LESS) {
		if call := p.tryParseGenericCall(tok, name); call != nil {
			return call
		}
	}
	return &ast.Identifier{Token: tok, Name: name}
}

// isCapitalized disambiguates `Name{` as a struct initializer from a
// block-opening brace (e.g. an `if cond {` condition that happens to end in
// a bare identifier). Only an identifier starting with an uppercase letter
// is ever treated as a struct name (spec naming convention: types are
// capitalized), so `x {` is never misparsed as a struct literal.
func isCapitalized(name string) bool {
	return len(name) > 0 && name[0] >= 'A' && name[0] <= 'Z'
}

func (p *Parser) parseStructInit(tok lexer.Token, name string, typeArgs []ast.TypeExpr) ast.Expression {
	p.nextToken() // consume '{'
	init := &ast.StructInit{Token: tok, Name: name, TypeArgs: typeArgs}
	for !p.curIs(lexer.RBRACE) && !p.curIs(lexer.EOF) {
		if !p.curIs(lexer.IDENT) {
			p.errorf(errors.ErrInvalidExpression, "expected field name in struct initializer, found %s", p.cur.Kind)
			return nil
		}
		fieldName := p.cur.Literal
		p.nextToken()
		if !p.expect(lexer.COLON, "after field name") {
			return nil
		}
		val := p.parseExpression(LOWEST)
		if val == nil {
			return nil
		}
		init.Fields = append(init.Fields, ast.FieldInit{Name: fieldName, Value: val})
		if p.curIs(lexer.COMMA) {
			p.nextToken()
		} else {
			break
		}
	}
	if !p.expect(lexer.RBRACE, "to close struct initializer") {
		return nil
	}
	return init
}

func (p *Parser) parseNumberLiteral() ast.Expression {
	tok := p.cur
	v, ok := parseIntLiteralValue(tok.Literal)
	if !ok {
		p.errorf(errors.ErrInvalidExpression, "invalid integer literal %q", tok.Literal)
	}
	p.nextToken()
	return &ast.NumberLiteral{Token: tok, Value: v}
}

func (p *Parser) parseFloatLiteral() ast.Expression {
	tok := p.cur
	p.nextToken()
	v := parseFloatLiteralValue(tok.Literal)
	return &ast.FloatLiteral{Token: tok, Value: v}
}

func (p *Parser) parseBoolLiteral() ast.Expression {
	tok := p.cur
	p.nextToken()
	return &ast.BoolLiteral{Token: tok, Value: tok.Kind == lexer.TRUE}
}

func (p *Parser) parseStringLiteral() ast.Expression {
	tok := p.cur
	p.nextToken()
	return p.parseStringContent(tok)
}

// parseErrorValue parses `error.Name`, the expression form of an error-union
// error state (spec §8 scenario 1's `return error.DivZero;`), distinct from
// the top-level `error Name;` declaration both share the ERROR keyword with.
func (p *Parser) parseErrorValue() ast.Expression {
	tok := p.cur
	p.nextToken() // consume 'error'
	if !p.expect(lexer.DOT, "after 'error'") {
		return nil
	}
	name := p.cur.Literal
	if !p.expect(lexer.IDENT, "error name") {
		return nil
	}
	return &ast.ErrorValue{Token: tok, Name: name}
}

func (p *Parser) parseGroupedOrTuple() ast.Expression {
	tok := p.cur
	p.nextToken() // consume '('
	if p.curIs(lexer.RPAREN) {
		p.nextToken()
		return &ast.TupleLiteral{Token: tok}
	}
	first := p.parseExpression(LOWEST)
	if first == nil {
		return nil
	}
	if p.curIs(lexer.COMMA) {
		elems := []ast.Expression{first}
		for p.curIs(lexer.COMMA) {
			p.nextToken()
			if p.curIs(lexer.RPAREN) {
				break
			}
			e := p.parseExpression(LOWEST)
			if e == nil {
				return nil
			}
			elems = append(elems, e)
		}
		if !p.expect(lexer.RPAREN, "to close tuple literal") {
			return nil
		}
		return &ast.TupleLiteral{Token: tok, Elems: elems}
	}
	if !p.expect(lexer.RPAREN, "to close parenthesized expression") {
		return nil
	}
	return first
}

func (p *Parser) parseArrayLiteral() ast.Expression {
	tok := p.cur
	p.nextToken() // consume '['
	lit := &ast.ArrayLiteral{Token: tok}
	for !p.curIs(lexer.RBRACK) && !p.curIs(lexer.EOF) {
		e := p.parseExpression(LOWEST)
		if e == nil {
			return nil
		}
		lit.Elems = append(lit.Elems, e)
		if p.curIs(lexer.COMMA) {
			p.nextToken()
		} else {
			break
		}
	}
	if !p.expect(lexer.RBRACK, "to close array literal") {
		return nil
	}
	return lit
}

func (p *Parser) parsePrefixExpression() ast.Expression {
	tok := p.cur
	op := tok.Literal
	if op == "" {
		op = tok.Kind.String()
	}
	p.nextToken()
	operand := p.parseExpression(PREFIX)
	if operand == nil {
		return nil
	}
	return &ast.UnaryExpression{Token: tok, Operator: op, Operand: operand}
}

func (p *Parser) parseTryExpression() ast.Expression {
	tok := p.cur
	p.nextToken()
	operand := p.parseExpression(PREFIX)
	if operand == nil {
		return nil
	}
	return &ast.UnaryExpression{Token: tok, Operator: "try", Operand: operand}
}

func (p *Parser) parseInfixExpression(left ast.Expression) ast.Expression {
	tok := p.cur
	op := tok.Literal
	if op == "" {
		op = tok.Kind.String()
	}
	prec := p.curPrecedence()
	p.nextToken()
	right := p.parseExpression(prec)
	if right == nil {
		return nil
	}
	return &ast.BinaryExpression{Token: tok, Left: left, Operator: op, Right: right}
}

// tryParseGenericCall speculatively parses `name<T1,T2>(args...)`, the
// explicit-type-argument call form (spec §8 scenario 2's `id<i32>(42)`).
// Backtracks to the saved state and returns nil if what follows `<` isn't a
// type-argument list immediately followed by `(`, so `x < y` is never
// misparsed as a generic call. `a<b>(c)` always parses as a generic call,
// never as a comparison chain.
func (p *Parser) tryParseGenericCall(tok lexer.Token, name string) *ast.Call {
	save := p.saveState()
	p.nextToken() // consume '<'
	typeArgs, ok := p.tryParseTypeArgList()
	if !ok || !p.curIs(lexer.LPAREN) {
		p.restoreState(save)
		return nil
	}
	callee := &ast.Identifier{Token: tok, Name: name}
	call := p.parseCallExpression(callee)
	if call == nil {
		return nil
	}
	c := call.(*ast.Call)
	c.TypeArgs = typeArgs
	return c
}

func (p *Parser) parseCallExpression(callee ast.Expression) ast.Expression {
	tok := p.cur
	p.nextToken() // consume '('
	call := &ast.Call{Token: tok, Callee: callee}
	for !p.curIs(lexer.RPAREN) && !p.curIs(lexer.EOF) {
		arg := p.parseExpression(LOWEST)
		if arg == nil {
			return nil
		}
		call.Args = append(call.Args, arg)
		if p.curIs(lexer.COMMA) {
			p.nextToken()
		} else {
			break
		}
	}
	if !p.expect(lexer.RPAREN, "to close call argument list") {
		return nil
	}
	return call
}

func (p *Parser) parseMemberOrMethodCall(obj ast.Expression) ast.Expression {
	p.nextToken() // consume '.'
	if !p.curIs(lexer.IDENT) {
		p.errorf(errors.ErrInvalidExpression, "expected member name after '.', found %s", p.cur.Kind)
		return nil
	}
	member := p.cur.Literal
	p.nextToken()
	return &ast.MemberAccess{Object: obj, Member: member}
}

// parseIndexOrSlice parses `a[i]` or `a[start:len]`.
func (p *Parser) parseIndexOrSlice(base ast.Expression) ast.Expression {
	tok := p.cur
	p.nextToken() // consume '['
	first := p.parseExpression(LOWEST)
	if first == nil {
		return nil
	}
	if p.curIs(lexer.COLON) {
		p.nextToken()
		length := p.parseExpression(LOWEST)
		if length == nil {
			return nil
		}
		if !p.expect(lexer.RBRACK, "to close slice expression") {
			return nil
		}
		return &ast.Subscript{Token: tok, Base: base, Start: first, Len: length}
	}
	if !p.expect(lexer.RBRACK, "to close index expression") {
		return nil
	}
	return &ast.ArrayAccess{Token: tok, Array: base, Index: first}
}

func (p *Parser) parseCastExpression(expr ast.Expression) ast.Expression {
	tok := p.cur
	p.nextToken() // consume 'as'
	target := p.parseType()
	if target == nil {
		return nil
	}
	return &ast.Cast{Token: tok, Expr: expr, Target: target}
}

func (p *Parser) parseCatchExpression(expr ast.Expression) ast.Expression {
	tok := p.cur
	p.nextToken() // consume 'catch'
	errVar := ""
	if p.curIs(lexer.PIPE) {
		p.nextToken()
		if p.curIs(lexer.IDENT) {
			errVar = p.cur.Literal
			p.nextToken()
		}
		if !p.expect(lexer.PIPE, "to close catch error binding") {
			return nil
		}
	}
	body := p.parseBlockStatements()
	if body == nil {
		return nil
	}
	return &ast.CatchExpr{Token: tok, Expr: expr, ErrorVar: errVar, Body: body}
}

func (p *Parser) parseAtBuiltin() ast.Expression {
	tok := p.cur.Pos
	p.nextToken() // consume '@'
	if !p.curIs(lexer.IDENT) {
		p.errorf(errors.ErrInvalidExpression, "expected builtin name after '@', found %s", p.cur.Kind)
		return nil
	}
	name := p.cur.Literal
	p.nextToken()
	if !p.expect(lexer.LPAREN, "after builtin name") {
		return nil
	}
	switch name {
	case "sizeof", "alignof":
		target := p.parseType()
		if target == nil {
			return nil
		}
		if !p.expect(lexer.RPAREN, "to close builtin call") {
			return nil
		}
		if name == "sizeof" {
			return &ast.Sizeof{Token: tok, Target: target}
		}
		return &ast.Alignof{Token: tok, Target: target}
	case "len":
		arg := p.parseExpression(LOWEST)
		if arg == nil {
			return nil
		}
		if !p.expect(lexer.RPAREN, "to close builtin call") {
			return nil
		}
		return &ast.Len{Token: tok, Expr: arg}
	case "syscall":
		call := &ast.Syscall{Token: tok}
		for !p.curIs(lexer.RPAREN) && !p.curIs(lexer.EOF) {
			arg := p.parseExpression(LOWEST)
			if arg == nil {
				return nil
			}
			call.Args = append(call.Args, arg)
			if p.curIs(lexer.COMMA) {
				p.nextToken()
			} else {
				break
			}
		}
		if !p.expect(lexer.RPAREN, "to close syscall call") {
			return nil
		}
		return call
	default:
		p.errorf(errors.ErrInvalidExpression, "unknown builtin @%s", name)
		return nil
	}
}
