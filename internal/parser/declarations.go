package parser

import (
	"github.com/uya-lang/uyac/internal/ast"
	"github.com/uya-lang/uyac/internal/errors"
	"github.com/uya-lang/uyac/internal/lexer"
)

// parseDecl dispatches on the leading token of a top-level declaration
// (spec §4.1's declaration grammar).
func (p *Parser) parseDecl() ast.Decl {
	switch p.cur.Kind {
	case lexer.FN:
		return p.parseFnDecl(false)
	case lexer.EXTERN:
		return p.parseExternDecl()
	case lexer.STRUCT:
		return p.parseStructDecl()
	case lexer.ENUM:
		return p.parseEnumDecl()
	case lexer.ERROR:
		return p.parseErrorDecl()
	case lexer.IMPL:
		return p.parseImplBlock()
	case lexer.TEST:
		return p.parseTestBlock()
	case lexer.VAR, lexer.CONST:
		return p.parseTopLevelVarDecl()
	default:
		p.errorf(errors.ErrUnexpected, "expected a declaration, found %s", p.cur.Kind)
		return nil
	}
}

func (p *Parser) parseParamList() []*ast.Param {
	if !p.expect(lexer.LPAREN, "to open parameter list") {
		return nil
	}
	var params []*ast.Param
	for !p.curIs(lexer.RPAREN) && !p.curIs(lexer.EOF) {
		if !p.curIs(lexer.IDENT) {
			p.errorf(errors.ErrMissingToken, "expected parameter name, found %s", p.cur.Kind)
			return nil
		}
		name := p.cur.Literal
		p.nextToken()
		if !p.expect(lexer.COLON, "after parameter name") {
			return nil
		}
		typ := p.parseType()
		if typ == nil {
			return nil
		}
		params = append(params, &ast.Param{Name: name, Type: typ})
		if p.curIs(lexer.COMMA) {
			p.nextToken()
		} else {
			break
		}
	}
	p.expect(lexer.RPAREN, "to close parameter list")
	return params
}

// parseReturnTypeBeforeBrace parses an optional return type between a
// parameter list and the function body. A return type is present unless
// the next token is '{' or ';' (spec §4.1's "return type is everything
// between the parameter list and the opening brace").
func (p *Parser) parseReturnTypeBeforeBrace() ast.TypeExpr {
	if p.curIs(lexer.LBRACE) || p.curIs(lexer.SEMICOLON) {
		return nil
	}
	return p.parseType()
}

// parseFnDecl parses `fn name<T1,T2>(params) RetType { body }`. isTest
// marks a function nested directly inside a `test` block (spec §6).
func (p *Parser) parseFnDecl(isTest bool) *ast.FnDecl {
	pos := p.cur.Pos
	p.nextToken() // consume 'fn'
	if !p.curIs(lexer.IDENT) {
		p.errorf(errors.ErrMissingToken, "expected function name, found %s", p.cur.Kind)
		return nil
	}
	name := p.cur.Literal
	p.nextToken()
	typeParams := p.parseTypeParamList()
	params := p.parseParamList()
	retType := p.parseReturnTypeBeforeBrace()
	body := p.parseBlockStatements()
	return &ast.FnDecl{
		Span: pos, Name: name, TypeParams: typeParams, Params: params,
		ReturnType: retType, Body: body, IsTest: isTest,
	}
}

// parseExternDecl parses `extern fn name(params, ...) RetType;` — no body,
// optional trailing varargs marker (spec §4.3's extern-ABI boundary).
func (p *Parser) parseExternDecl() ast.Decl {
	pos := p.cur.Pos
	p.nextToken() // consume 'extern'
	if !p.expect(lexer.FN, "after extern") {
		return nil
	}
	if !p.curIs(lexer.IDENT) {
		p.errorf(errors.ErrMissingToken, "expected function name, found %s", p.cur.Kind)
		return nil
	}
	name := p.cur.Literal
	p.nextToken()
	if !p.expect(lexer.LPAREN, "to open extern parameter list") {
		return nil
	}
	var params []*ast.Param
	isVarargs := false
	for !p.curIs(lexer.RPAREN) && !p.curIs(lexer.EOF) {
		if p.curIs(lexer.DOTDOTDOT) {
			isVarargs = true
			p.nextToken()
			break
		}
		if !p.curIs(lexer.IDENT) {
			p.errorf(errors.ErrMissingToken, "expected parameter name, found %s", p.cur.Kind)
			return nil
		}
		pname := p.cur.Literal
		p.nextToken()
		if !p.expect(lexer.COLON, "after parameter name") {
			return nil
		}
		typ := p.parseType()
		if typ == nil {
			return nil
		}
		ptype := typ
		ptype = markExternPointers(ptype)
		params = append(params, &ast.Param{Name: pname, Type: ptype})
		if p.curIs(lexer.COMMA) {
			p.nextToken()
		} else {
			break
		}
	}
	if !p.expect(lexer.RPAREN, "to close extern parameter list") {
		return nil
	}
	retType := p.parseReturnTypeBeforeBrace()
	p.expect(lexer.SEMICOLON, "after extern declaration")
	return &ast.ExternDecl{Span: pos, Name: name, Params: params, ReturnType: retType, IsVarargs: isVarargs}
}

// markExternPointers tags t as FFI when t itself is a pointer, marking an
// extern parameter's pointer as one that crosses the extern ABI boundary.
// Pointers nested inside t (a pointer's or an array's element) are not
// tagged. Neither backend reads the flag; mono.Substitute carries it over.
func markExternPointers(t ast.TypeExpr) ast.TypeExpr {
	if ptr, ok := t.(*ast.TypePointer); ok {
		ptr.FFI = true
	}
	return t
}

func (p *Parser) parseStructDecl() ast.Decl {
	pos := p.cur.Pos
	p.nextToken() // consume 'struct'
	if !p.curIs(lexer.IDENT) {
		p.errorf(errors.ErrMissingToken, "expected struct name, found %s", p.cur.Kind)
		return nil
	}
	name := p.cur.Literal
	p.nextToken()
	typeParams := p.parseTypeParamList()
	if !p.expect(lexer.LBRACE, "to open struct body") {
		return nil
	}
	var fields []*ast.Field
	for !p.curIs(lexer.RBRACE) && !p.curIs(lexer.EOF) {
		if !p.curIs(lexer.IDENT) {
			p.errorf(errors.ErrMissingToken, "expected field name, found %s", p.cur.Kind)
			return nil
		}
		fname := p.cur.Literal
		p.nextToken()
		if !p.expect(lexer.COLON, "after field name") {
			return nil
		}
		ftype := p.parseType()
		if ftype == nil {
			return nil
		}
		fields = append(fields, &ast.Field{Name: fname, Type: ftype})
		if p.curIs(lexer.COMMA) {
			p.nextToken()
		} else {
			break
		}
	}
	p.expect(lexer.RBRACE, "to close struct body")
	return &ast.StructDecl{Span: pos, Name: name, TypeParams: typeParams, Fields: fields}
}

func (p *Parser) parseEnumDecl() ast.Decl {
	pos := p.cur.Pos
	p.nextToken() // consume 'enum'
	if !p.curIs(lexer.IDENT) {
		p.errorf(errors.ErrMissingToken, "expected enum name, found %s", p.cur.Kind)
		return nil
	}
	name := p.cur.Literal
	p.nextToken()
	if !p.expect(lexer.LBRACE, "to open enum body") {
		return nil
	}
	var variants []*ast.EnumVariant
	for !p.curIs(lexer.RBRACE) && !p.curIs(lexer.EOF) {
		if !p.curIs(lexer.IDENT) {
			p.errorf(errors.ErrMissingToken, "expected variant name, found %s", p.cur.Kind)
			return nil
		}
		variant := &ast.EnumVariant{Name: p.cur.Literal}
		p.nextToken()
		if p.curIs(lexer.LPAREN) {
			p.nextToken()
			for !p.curIs(lexer.RPAREN) && !p.curIs(lexer.EOF) {
				t := p.parseType()
				if t == nil {
					return nil
				}
				variant.Payload = append(variant.Payload, t)
				if p.curIs(lexer.COMMA) {
					p.nextToken()
				} else {
					break
				}
			}
			p.expect(lexer.RPAREN, "to close enum variant payload")
		}
		variants = append(variants, variant)
		if p.curIs(lexer.COMMA) {
			p.nextToken()
		} else {
			break
		}
	}
	p.expect(lexer.RBRACE, "to close enum body")
	return &ast.EnumDecl{Span: pos, Name: name, Variants: variants}
}

func (p *Parser) parseErrorDecl() ast.Decl {
	pos := p.cur.Pos
	p.nextToken() // consume 'error'
	if !p.curIs(lexer.IDENT) {
		p.errorf(errors.ErrMissingToken, "expected error name, found %s", p.cur.Kind)
		return nil
	}
	name := p.cur.Literal
	p.nextToken()
	p.expect(lexer.SEMICOLON, "after error declaration")
	return &ast.ErrorDecl{Span: pos, Name: name}
}

func (p *Parser) parseImplBlock() ast.Decl {
	pos := p.cur.Pos
	p.nextToken() // consume 'impl'
	if !p.curIs(lexer.IDENT) {
		p.errorf(errors.ErrMissingToken, "expected type name after impl, found %s", p.cur.Kind)
		return nil
	}
	target := p.cur.Literal
	p.nextToken()
	if !p.expect(lexer.LBRACE, "to open impl body") {
		return nil
	}
	block := &ast.MethodBlock{Span: pos, TargetName: target}
	for !p.curIs(lexer.RBRACE) && !p.curIs(lexer.EOF) {
		if !p.curIs(lexer.FN) {
			p.errorf(errors.ErrUnexpected, "expected method declaration in impl block, found %s", p.cur.Kind)
			p.nextToken()
			continue
		}
		fn := p.parseFnDecl(false)
		if fn != nil {
			block.Methods = append(block.Methods, fn)
		}
	}
	p.expect(lexer.RBRACE, "to close impl body")
	return block
}

func (p *Parser) parseTestBlock() ast.Decl {
	pos := p.cur.Pos
	p.nextToken() // consume 'test'
	name := ""
	if p.curIs(lexer.STRING) {
		name = p.cur.Literal
		p.nextToken()
	}
	body := p.parseBlockStatements()
	return &ast.TestBlock{Span: pos, Name: name, Body: body}
}

func (p *Parser) parseTopLevelVarDecl() ast.Decl {
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
	return &ast.VarDecl{Span: pos, Name: name, Type: typ, Value: value, IsConst: isConst, IsAtomic: isAtomic}
}
