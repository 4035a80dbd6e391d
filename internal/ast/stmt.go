package ast

import (
	"bytes"
	"strings"

	"github.com/uya-lang/uyac/internal/lexer"
)

// Block is a brace-delimited statement list. Used for function bodies and
// every control-flow construct's body.
type Block struct {
	Span  lexer.Position
	Stmts []Statement
}

func (b *Block) statementNode()       {}
func (b *Block) Pos() lexer.Position  { return b.Span }
func (b *Block) String() string {
	var out bytes.Buffer
	out.WriteString("{ ")
	for _, s := range b.Stmts {
		out.WriteString(s.String())
		out.WriteString(" ")
	}
	out.WriteString("}")
	return out.String()
}

// VarStatement is a function-local `var`/`const` binding (spec §3).
type VarStatement struct {
	Span     lexer.Position
	Name     string
	Type     TypeExpr
	Value    Expression
	IsConst  bool
	IsAtomic bool
}

func (v *VarStatement) statementNode()      {}
func (v *VarStatement) Pos() lexer.Position { return v.Span }
func (v *VarStatement) String() string {
	kw := "var"
	if v.IsConst {
		kw = "const"
	}
	s := kw + " " + v.Name
	if v.Type != nil {
		s += ": " + v.Type.String()
	}
	if v.Value != nil {
		s += " = " + v.Value.String()
	}
	return s + ";"
}

// AssignStatement is `lhs = rhs;` or a compound form `lhs += rhs;` (Operator
// holds the bare arithmetic operator, "" for plain assignment).
type AssignStatement struct {
	Span     lexer.Position
	Target   Expression // Identifier, MemberAccess, or ArrayAccess
	Operator string
	Value    Expression
}

func (a *AssignStatement) statementNode()      {}
func (a *AssignStatement) Pos() lexer.Position { return a.Span }
func (a *AssignStatement) String() string {
	op := "="
	if a.Operator != "" {
		op = a.Operator + "="
	}
	return a.Target.String() + " " + op + " " + a.Value.String() + ";"
}

// ExpressionStatement is an expression evaluated for its side effect,
// typically a Call or a CatchExpr.
type ExpressionStatement struct {
	Span lexer.Position
	Expr Expression
}

func (e *ExpressionStatement) statementNode()      {}
func (e *ExpressionStatement) Pos() lexer.Position { return e.Span }
func (e *ExpressionStatement) String() string      { return e.Expr.String() + ";" }

// IfStatement is `if cond { ... } else { ... }`; Else is nil when absent,
// and may itself be a single-statement Block holding another IfStatement
// for an `else if` chain (spec §4.1 grammar).
type IfStatement struct {
	Span      lexer.Position
	Condition Expression
	Then      *Block
	Else      Statement
}

func (i *IfStatement) statementNode()      {}
func (i *IfStatement) Pos() lexer.Position { return i.Span }
func (i *IfStatement) String() string {
	s := "if " + i.Condition.String() + " " + i.Then.String()
	if i.Else != nil {
		s += " else " + i.Else.String()
	}
	return s
}

// WhileStatement is `while cond { ... }`.
type WhileStatement struct {
	Span      lexer.Position
	Condition Expression
	Body      *Block
}

func (w *WhileStatement) statementNode()      {}
func (w *WhileStatement) Pos() lexer.Position { return w.Span }
func (w *WhileStatement) String() string {
	return "while " + w.Condition.String() + " " + w.Body.String()
}

// ForStatement is `for name in iterable { ... }` (spec §3's range-for form).
type ForStatement struct {
	Span     lexer.Position
	VarName  string
	Iterable Expression
	Body     *Block
}

func (f *ForStatement) statementNode()      {}
func (f *ForStatement) Pos() lexer.Position { return f.Span }
func (f *ForStatement) String() string {
	return "for " + f.VarName + " in " + f.Iterable.String() + " " + f.Body.String()
}

// ReturnStatement is `return;` or `return expr;`.
type ReturnStatement struct {
	Span  lexer.Position
	Value Expression // nil for a bare `return;`
}

func (r *ReturnStatement) statementNode()      {}
func (r *ReturnStatement) Pos() lexer.Position { return r.Span }
func (r *ReturnStatement) String() string {
	if r.Value == nil {
		return "return;"
	}
	return "return " + r.Value.String() + ";"
}

// DeferStatement is `defer { ... }` (or a single deferred call/statement).
// Deferred statements are emitted in reverse registration order immediately
// before every `return` in the enclosing function (spec §4.3/§4.4).
type DeferStatement struct {
	Span lexer.Position
	Body []Statement
}

func (d *DeferStatement) statementNode()      {}
func (d *DeferStatement) Pos() lexer.Position { return d.Span }
func (d *DeferStatement) String() string {
	var sb strings.Builder
	sb.WriteString("defer { ")
	for _, s := range d.Body {
		sb.WriteString(s.String())
		sb.WriteString(" ")
	}
	sb.WriteString("}")
	return sb.String()
}

// ErrDeferStatement is `errdefer { ... }`: like DeferStatement, but only
// runs on the error-path return out of the enclosing function (spec §4.3's
// `_uya_ret`/error-union lowering).
type ErrDeferStatement struct {
	Span lexer.Position
	Body []Statement
}

func (e *ErrDeferStatement) statementNode()      {}
func (e *ErrDeferStatement) Pos() lexer.Position { return e.Span }
func (e *ErrDeferStatement) String() string {
	var sb strings.Builder
	sb.WriteString("errdefer { ")
	for _, s := range e.Body {
		sb.WriteString(s.String())
		sb.WriteString(" ")
	}
	sb.WriteString("}")
	return sb.String()
}

// BreakStatement is `break;`.
type BreakStatement struct{ Span lexer.Position }

func (b *BreakStatement) statementNode()      {}
func (b *BreakStatement) Pos() lexer.Position { return b.Span }
func (b *BreakStatement) String() string      { return "break;" }

// ContinueStatement is `continue;`.
type ContinueStatement struct{ Span lexer.Position }

func (c *ContinueStatement) statementNode()      {}
func (c *ContinueStatement) Pos() lexer.Position { return c.Span }
func (c *ContinueStatement) String() string      { return "continue;" }
