package ast

import (
	"bytes"
	"strings"

	"github.com/uya-lang/uyac/internal/lexer"
)

// Identifier is a name reference: a variable, function, struct, or type
// parameter, disambiguated later by the registry.
type Identifier struct {
	exprBase
	Token lexer.Token
	Name  string
}

func (i *Identifier) Pos() lexer.Position { return i.Token.Pos }
func (i *Identifier) String() string      { return i.Name }

// NumberLiteral is an integer literal (spec AST tag Number).
type NumberLiteral struct {
	exprBase
	Token lexer.Token
	Value int64
}

func (n *NumberLiteral) Pos() lexer.Position { return n.Token.Pos }
func (n *NumberLiteral) String() string      { return n.Token.Literal }

// FloatLiteral is a floating point literal (spec AST tag Float).
type FloatLiteral struct {
	exprBase
	Token lexer.Token
	Value float64
}

func (f *FloatLiteral) Pos() lexer.Position { return f.Token.Pos }
func (f *FloatLiteral) String() string      { return f.Token.Literal }

// BoolLiteral is `true`/`false` (spec AST tag Bool).
type BoolLiteral struct {
	exprBase
	Token lexer.Token
	Value bool
}

func (b *BoolLiteral) Pos() lexer.Position { return b.Token.Pos }
func (b *BoolLiteral) String() string      { return b.Token.Literal }

// StringLiteral is a plain string with no ${...} interpolation.
type StringLiteral struct {
	exprBase
	Token lexer.Token
	Value string
}

func (s *StringLiteral) Pos() lexer.Position { return s.Token.Pos }
func (s *StringLiteral) String() string      { return `"` + s.Value + `"` }

// FormatSpec is the optional trailing `:spec` of a `${expr:spec}` segment
// (spec §4.1: "flags (#0-+ )?, width?, precision?, type char").
type FormatSpec struct {
	Flags     string
	Width     string
	Precision string
	Type      byte // 0 if absent: backend chooses a type-appropriate default
}

func (f *FormatSpec) Empty() bool {
	return f == nil || (f.Flags == "" && f.Width == "" && f.Precision == "" && f.Type == 0)
}

// StringInterpolation is a string literal containing ${...} segments (spec
// AST tag StringInterpolation). TextSegments has one more element than
// InterpExprs (the literal text runs between/around the interpolations).
type StringInterpolation struct {
	exprBase
	Token        lexer.Token
	TextSegments []string
	InterpExprs  []Expression
	FormatSpecs  []*FormatSpec // parallel to InterpExprs; nil entry means no spec
}

func (s *StringInterpolation) Pos() lexer.Position { return s.Token.Pos }
func (s *StringInterpolation) String() string {
	var out bytes.Buffer
	out.WriteByte('"')
	for i, seg := range s.TextSegments {
		out.WriteString(seg)
		if i < len(s.InterpExprs) {
			out.WriteString("${")
			out.WriteString(s.InterpExprs[i].String())
			out.WriteString("}")
		}
	}
	out.WriteByte('"')
	return out.String()
}

// UnaryExpression is -x, !x, &x, or try x (spec grammar's PREFIX level).
type UnaryExpression struct {
	exprBase
	Token    lexer.Token
	Operator string
	Operand  Expression
}

func (u *UnaryExpression) Pos() lexer.Position { return u.Token.Pos }
func (u *UnaryExpression) String() string {
	return "(" + u.Operator + u.Operand.String() + ")"
}

// BinaryExpression covers all infix operators (arithmetic, relational,
// logical, the wrap/saturating variants).
type BinaryExpression struct {
	exprBase
	Token    lexer.Token
	Left     Expression
	Operator string
	Right    Expression
}

func (b *BinaryExpression) Pos() lexer.Position { return b.Token.Pos }
func (b *BinaryExpression) String() string {
	return "(" + b.Left.String() + " " + b.Operator + " " + b.Right.String() + ")"
}

// Call is f(args...) or obj.method(args...) — the callee's shape (plain
// Identifier vs MemberAccess) distinguishes a function call from a method
// call (spec §4.1: "obj.method(args) is Call{callee = MemberAccess{...}}").
type Call struct {
	exprBase
	Token    lexer.Token
	Callee   Expression
	TypeArgs []TypeExpr // non-nil for explicit generic instantiation id<i32>(...)
	Args     []Expression
}

func (c *Call) Pos() lexer.Position { return c.Token.Pos }
func (c *Call) String() string {
	parts := make([]string, len(c.Args))
	for i, a := range c.Args {
		parts[i] = a.String()
	}
	return c.Callee.String() + "(" + strings.Join(parts, ", ") + ")"
}

// MemberAccess is obj.field (spec AST tag MemberAccess).
type MemberAccess struct {
	exprBase
	Token  lexer.Token
	Object Expression
	Member string
}

func (m *MemberAccess) Pos() lexer.Position { return m.Object.Pos() }
func (m *MemberAccess) String() string      { return m.Object.String() + "." + m.Member }

// ArrayAccess is arr[index] (spec AST tag ArrayAccess).
type ArrayAccess struct {
	exprBase
	Token lexer.Token
	Array Expression
	Index Expression
}

func (a *ArrayAccess) Pos() lexer.Position { return a.Array.Pos() }
func (a *ArrayAccess) String() string {
	return a.Array.String() + "[" + a.Index.String() + "]"
}

// Subscript is arr[start:len], desugared at parse time into a call to the
// built-in `slice` function with three args (spec §4.1). Kept as a distinct
// node (rather than immediately rewriting to Call) so diagnostics and the
// printer can show the original slicing syntax; ToCall performs the
// desugaring the backends actually consume.
type Subscript struct {
	exprBase
	Token lexer.Token
	Base  Expression
	Start Expression
	Len   Expression
}

func (s *Subscript) Pos() lexer.Position { return s.Base.Pos() }
func (s *Subscript) String() string {
	return s.Base.String() + "[" + s.Start.String() + ":" + s.Len.String() + "]"
}

// ToCall desugars `arr[start:len]` into `slice(arr, start, len)` per spec §4.1.
func (s *Subscript) ToCall() *Call {
	return &Call{
		Token:  s.Token,
		Callee: &Identifier{Token: s.Token, Name: "slice"},
		Args:   []Expression{s.Base, s.Start, s.Len},
	}
}

// FieldInit is one `field: value` pair in a StructInit.
type FieldInit struct {
	Name  string
	Value Expression
}

// StructInit is `Name{field: value, ...}` or `Name<T1,T2>{field: value, ...}`
// (spec AST tag StructInit). TypeArgs is non-nil only for the explicit
// generic-instantiation form.
type StructInit struct {
	exprBase
	Token    lexer.Token
	Name     string
	TypeArgs []TypeExpr
	Fields   []FieldInit
}

func (s *StructInit) Pos() lexer.Position { return s.Token.Pos }
func (s *StructInit) String() string {
	parts := make([]string, len(s.Fields))
	for i, f := range s.Fields {
		parts[i] = f.Name + ": " + f.Value.String()
	}
	return s.Name + "{" + strings.Join(parts, ", ") + "}"
}

// ArrayLiteral is `[e1, e2, ...]` (spec AST tag ArrayLiteral).
type ArrayLiteral struct {
	exprBase
	Token lexer.Token
	Elems []Expression
}

func (a *ArrayLiteral) Pos() lexer.Position { return a.Token.Pos }
func (a *ArrayLiteral) String() string {
	parts := make([]string, len(a.Elems))
	for i, e := range a.Elems {
		parts[i] = e.String()
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

// TupleLiteral is `(e1, e2, ...)`.
type TupleLiteral struct {
	exprBase
	Token lexer.Token
	Elems []Expression
}

func (t *TupleLiteral) Pos() lexer.Position { return t.Token.Pos }
func (t *TupleLiteral) String() string {
	parts := make([]string, len(t.Elems))
	for i, e := range t.Elems {
		parts[i] = e.String()
	}
	return "(" + strings.Join(parts, ", ") + ")"
}

// Pattern is one `pattern => body` arm of a Match. Patterns are primary
// expressions only (spec §4.1): literals, identifiers (including a bare
// catch-all identifier), or tuple literals. Wildcard is true for `else`.
type Pattern struct {
	exprBase
	Token     lexer.Token
	Value     Expression // nil when Wildcard
	Wildcard  bool
	Body      Expression
}

func (p *Pattern) Pos() lexer.Position { return p.Token.Pos }
func (p *Pattern) String() string {
	lhs := "else"
	if !p.Wildcard {
		lhs = p.Value.String()
	}
	return lhs + " => " + p.Body.String()
}

// Match is `match scrutinee { pattern => body, ... }` (spec AST tag Match).
type Match struct {
	exprBase
	Token     lexer.Token
	Scrutinee Expression
	Arms      []*Pattern
}

func (m *Match) Pos() lexer.Position { return m.Token.Pos }
func (m *Match) String() string {
	var out bytes.Buffer
	out.WriteString("match ")
	out.WriteString(m.Scrutinee.String())
	out.WriteString(" { ")
	for i, arm := range m.Arms {
		if i > 0 {
			out.WriteString(", ")
		}
		out.WriteString(arm.String())
	}
	out.WriteString(" }")
	return out.String()
}

// CatchExpr is `expr catch { body }` or `expr catch |err| { body }` (spec
// AST tag CatchExpr). ErrorVar is "" when the plain-catch form is used.
type CatchExpr struct {
	exprBase
	Token    lexer.Token
	Expr     Expression
	ErrorVar string
	Body     []Statement
}

func (c *CatchExpr) Pos() lexer.Position { return c.Token.Pos }
func (c *CatchExpr) String() string {
	if c.ErrorVar == "" {
		return c.Expr.String() + " catch { ... }"
	}
	return c.Expr.String() + " catch |" + c.ErrorVar + "| { ... }"
}

// ErrorValue is `error.Name`, the expression form that constructs an
// error-union value in the error state (spec §3/§4.2/§8 scenario 1). Name
// must be the name of a declared `error Name;`; the registry's ErrorID
// assigns the stable 32-bit id both backends embed in the tag.
type ErrorValue struct {
	exprBase
	Token lexer.Token
	Name  string
}

func (e *ErrorValue) Pos() lexer.Position { return e.Token.Pos }
func (e *ErrorValue) String() string      { return "error." + e.Name }

// Cast is `expr as T` style cast (spec AST tag Cast).
type Cast struct {
	exprBase
	Token  lexer.Token
	Expr   Expression
	Target TypeExpr
}

func (c *Cast) Pos() lexer.Position { return c.Token.Pos }
func (c *Cast) String() string      { return "(" + c.Expr.String() + " as " + c.Target.String() + ")" }

// Sizeof is `@sizeof(T)` (spec AST tag Sizeof).
type Sizeof struct {
	exprBase
	Token  lexer.Position
	Target TypeExpr
}

func (s *Sizeof) Pos() lexer.Position { return s.Token }
func (s *Sizeof) String() string      { return "sizeof(" + s.Target.String() + ")" }

// Alignof is `@alignof(T)` (spec AST tag Alignof).
type Alignof struct {
	exprBase
	Token  lexer.Position
	Target TypeExpr
}

func (a *Alignof) Pos() lexer.Position { return a.Token }
func (a *Alignof) String() string      { return "alignof(" + a.Target.String() + ")" }

// Len is `@len(expr)` (spec AST tag Len), used for array/slice length.
type Len struct {
	exprBase
	Token lexer.Position
	Expr  Expression
}

func (l *Len) Pos() lexer.Position { return l.Token }
func (l *Len) String() string      { return "len(" + l.Expr.String() + ")" }

// Syscall is `@syscall(n, args...)` (spec §4.3's lowering target).
type Syscall struct {
	exprBase
	Token lexer.Position
	Args  []Expression
}

func (s *Syscall) Pos() lexer.Position { return s.Token }
func (s *Syscall) String() string {
	parts := make([]string, len(s.Args))
	for i, a := range s.Args {
		parts[i] = a.String()
	}
	return "@syscall(" + strings.Join(parts, ", ") + ")"
}
