// Package parser implements a recursive-descent / Pratt parser that turns a
// token stream from internal/lexer into the internal/ast tree (spec §4.1).
//
// The precedence-climbing structure — prefix/infix parse-function tables
// keyed by token kind, a numeric precedence ladder, and a cursor over two
// lookahead tokens (current/peek) — drives the whole grammar. Error
// recovery synchronizes to the next statement boundary, using Uya's own
// statement terminators (`;` and `}`).
package parser

import (
	"github.com/uya-lang/uyac/internal/ast"
	"github.com/uya-lang/uyac/internal/errors"
	"github.com/uya-lang/uyac/internal/lexer"
)

// precedence levels, lowest to highest (spec §4.1's operator table).
type precedence int

const (
	LOWEST precedence = iota
	ASSIGN            // =
	LOGIC_OR          // ||
	LOGIC_AND         // &&
	EQUALS            // == !=
	LESSGREATER       // < <= > >=
	SHIFT             // << >>
	SUM               // + - +% -% +| -|
	PRODUCT           // * / % *% *|
	PREFIX            // -x !x &x *x try x
	CALL              // f(...) a.b a[i] a as T
)

var precedences = map[lexer.TokenKind]precedence{
	lexer.OR_OR:        LOGIC_OR,
	lexer.AND_AND:      LOGIC_AND,
	lexer.EQ:           EQUALS,
	lexer.NOT_EQ:       EQUALS,
	lexer.LESS:         LESSGREATER,
	lexer.LESS_EQ:      LESSGREATER,
	lexer.GREATER:      LESSGREATER,
	lexer.GREATER_EQ:   LESSGREATER,
	lexer.SHL:          SHIFT,
	lexer.SHR:          SHIFT,
	lexer.PLUS:         SUM,
	lexer.MINUS:        SUM,
	lexer.PLUS_WRAP:    SUM,
	lexer.MINUS_WRAP:   SUM,
	lexer.PLUS_SAT:     SUM,
	lexer.MINUS_SAT:    SUM,
	lexer.STAR:         PRODUCT,
	lexer.SLASH:        PRODUCT,
	lexer.PERCENT:      PRODUCT,
	lexer.STAR_WRAP:    PRODUCT,
	lexer.STAR_SAT:     PRODUCT,
	lexer.LPAREN:       CALL,
	lexer.DOT:          CALL,
	lexer.LBRACK:       CALL,
}

type (
	prefixParseFn func() ast.Expression
	infixParseFn  func(ast.Expression) ast.Expression
)

// ParserState is a snapshot of cursor position, usable for speculative
// lookahead and backtracking (e.g. backing out of a `<` that does not open
// a generic type-argument list; spec §4.1's disambiguation note).
type ParserState struct {
	lexState lexer.LexerState
	cur      lexer.Token
	peek     lexer.Token
	diags    errors.Diagnostics
}

// Parser turns a token stream into an *ast.Program.
type Parser struct {
	lex   *lexer.Lexer
	arena *ast.Arena
	diags errors.Diagnostics

	cur  lexer.Token
	peek lexer.Token

	// allowStructInit is false while parsing an if/while condition's head
	// expression, matching the `Name{` vs block-brace disambiguation every
	// C-family parser with brace-delimited bodies needs.
	allowStructInit bool

	prefixParseFns map[lexer.TokenKind]prefixParseFn
	infixParseFns  map[lexer.TokenKind]infixParseFn
}

// New constructs a Parser over source text from a single file.
func New(file, source string) *Parser {
	p := &Parser{
		lex:             lexer.New(file, source),
		allowStructInit: true,
		arena: ast.NewArena(),
	}
	p.prefixParseFns = map[lexer.TokenKind]prefixParseFn{}
	p.infixParseFns = map[lexer.TokenKind]infixParseFn{}
	p.registerExpressionParseFns()

	// Prime cur/peek.
	p.nextToken()
	p.nextToken()
	return p
}

func (p *Parser) Arena() *ast.Arena           { return p.arena }
func (p *Parser) Diagnostics() *errors.Diagnostics { return &p.diags }

func (p *Parser) nextToken() {
	p.cur = p.peek
	p.peek = p.lex.NextToken()
}

func (p *Parser) curIs(k lexer.TokenKind) bool  { return p.cur.Kind == k }
func (p *Parser) peekIs(k lexer.TokenKind) bool { return p.peek.Kind == k }

func (p *Parser) curPrecedence() precedence {
	if pr, ok := precedences[p.cur.Kind]; ok {
		return pr
	}
	return LOWEST
}

func (p *Parser) peekPrecedence() precedence {
	if pr, ok := precedences[p.peek.Kind]; ok {
		return pr
	}
	return LOWEST
}

// expect advances past the current token if it matches k, else records a
// missing-token diagnostic and does not advance (so synchronize() can find
// a safe resumption point).
func (p *Parser) expect(k lexer.TokenKind, context string) bool {
	if p.curIs(k) {
		p.nextToken()
		return true
	}
	p.errorf(errors.ErrMissingToken, "expected %s %s, found %s", k, context, p.cur.Kind)
	return false
}

func (p *Parser) errorf(code, format string, args ...any) {
	p.diags.Add(errors.NewParse(p.cur.Pos, code, format, args...))
}

// saveState/restoreState back the speculative lookahead needed to
// disambiguate a handful of ambiguous grammar points (spec §4.1).
// Restoring also drops any diagnostic recorded since the save.
func (p *Parser) saveState() ParserState {
	return ParserState{lexState: p.lex.SaveState(), cur: p.cur, peek: p.peek, diags: p.diags}
}

func (p *Parser) restoreState(s ParserState) {
	p.lex.RestoreState(s.lexState)
	p.cur, p.peek = s.cur, s.peek
	p.diags = s.diags
}

// synchronize skips tokens until a plausible declaration or statement
// boundary, so one parse error does not cascade into dozens.
func (p *Parser) synchronize() {
	for !p.curIs(lexer.EOF) {
		if p.curIs(lexer.SEMICOLON) {
			p.nextToken()
			return
		}
		switch p.cur.Kind {
		case lexer.FN, lexer.STRUCT, lexer.ENUM, lexer.ERROR, lexer.EXTERN,
			lexer.IMPL, lexer.TEST, lexer.VAR, lexer.CONST, lexer.RBRACE:
			return
		}
		p.nextToken()
	}
}

// ParseProgram parses an entire compilation unit (spec §4.1's top-level
// loop: fn / extern fn / struct / enum / error / impl / test / var / const).
func ParseProgram(file, source string) (*ast.Program, *errors.Diagnostics) {
	p := New(file, source)
	prog := &ast.Program{}
	for !p.curIs(lexer.EOF) {
		before := p.cur
		decl := p.parseDecl()
		if decl != nil {
			prog.Decls = append(prog.Decls, decl)
		}
		if p.cur == before {
			// parseDecl made no progress; force advancement to avoid an
			// infinite loop on a token no declaration rule recognizes.
			p.errorf(errors.ErrUnexpected, "unexpected token %s at top level", p.cur.Kind)
			p.nextToken()
			p.synchronize()
		}
	}
	return prog, &p.diags
}

// parseConditionExpression parses a condition head (if/while) with struct
// initializers disallowed, so the following '{' is always the body brace.
func (p *Parser) parseConditionExpression() ast.Expression {
	p.allowStructInit = false
	expr := p.parseExpression(LOWEST)
	p.allowStructInit = true
	return expr
}

func (p *Parser) unexpected(context string) ast.Expression {
	p.errorf(errors.ErrNoPrefixParse, "no prefix parse function for %s in %s", p.cur.Kind, context)
	return nil
}
