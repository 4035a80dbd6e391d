package ast

import (
	"bytes"
	"strings"

	"github.com/uya-lang/uyac/internal/lexer"
)

// TypeNamed is a reference to a named type: a primitive (i32, bool, ...),
// a struct, an enum, or a generic type parameter.
type TypeNamed struct {
	Span     lexer.Position
	Name     string
	TypeArgs []TypeExpr // non-nil for Generic<T1, T2> references
}

func (t *TypeNamed) typeExprNode()    {}
func (t *TypeNamed) Pos() lexer.Position { return t.Span }
func (t *TypeNamed) String() string {
	if len(t.TypeArgs) == 0 {
		return t.Name
	}
	parts := make([]string, len(t.TypeArgs))
	for i, a := range t.TypeArgs {
		parts[i] = a.String()
	}
	return t.Name + "<" + strings.Join(parts, ", ") + ">"
}

// TypePointer is *T or &T. Borrow records which sigil was used; per
// SPEC_FULL.md's Open Question decision the two are otherwise identical —
// there is no borrow checker. FFI marks a pointer declared in an `extern`
// signature, which the C99 backend treats specially for string params.
type TypePointer struct {
	Span   lexer.Position
	Elem   TypeExpr
	Borrow bool
	FFI    bool
}

func (t *TypePointer) typeExprNode()    {}
func (t *TypePointer) Pos() lexer.Position { return t.Span }
func (t *TypePointer) String() string {
	sigil := "*"
	if t.Borrow {
		sigil = "&"
	}
	return sigil + t.Elem.String()
}

// TypeArray is a fixed-size array [T: N]. Size is a constant-folded integer
// once the parser resolves a named-constant size (spec §4.1); SizeExpr
// retains the original expression (number literal or constant identifier)
// for diagnostics and for re-emission.
type TypeArray struct {
	Span     lexer.Position
	Elem     TypeExpr
	Size     int64
	SizeExpr Expression
}

func (t *TypeArray) typeExprNode()    {}
func (t *TypeArray) Pos() lexer.Position { return t.Span }
func (t *TypeArray) String() string {
	return "[" + t.Elem.String() + ": " + t.SizeExpr.String() + "]"
}

// TypeSlice is [T] or &[T] — a pointer+length view (spec §4.1, Glossary).
type TypeSlice struct {
	Span   lexer.Position
	Elem   TypeExpr
	Borrow bool
}

func (t *TypeSlice) typeExprNode()    {}
func (t *TypeSlice) Pos() lexer.Position { return t.Span }
func (t *TypeSlice) String() string {
	sigil := ""
	if t.Borrow {
		sigil = "&"
	}
	return sigil + "[" + t.Elem.String() + "]"
}

// TypeTuple is (T1, T2, ...).
type TypeTuple struct {
	Span  lexer.Position
	Elems []TypeExpr
}

func (t *TypeTuple) typeExprNode()    {}
func (t *TypeTuple) Pos() lexer.Position { return t.Span }
func (t *TypeTuple) String() string {
	parts := make([]string, len(t.Elems))
	for i, e := range t.Elems {
		parts[i] = e.String()
	}
	return "(" + strings.Join(parts, ", ") + ")"
}

// TypeFn is fn(T1, T2) R, a function-pointer type.
type TypeFn struct {
	Span    lexer.Position
	Params  []TypeExpr
	Return  TypeExpr
}

func (t *TypeFn) typeExprNode()    {}
func (t *TypeFn) Pos() lexer.Position { return t.Span }
func (t *TypeFn) String() string {
	var out bytes.Buffer
	out.WriteString("fn(")
	for i, p := range t.Params {
		if i > 0 {
			out.WriteString(", ")
		}
		out.WriteString(p.String())
	}
	out.WriteString(")")
	if t.Return != nil {
		out.WriteString(" " + t.Return.String())
	}
	return out.String()
}

// TypeErrorUnion is !T, the return shape produced by try/catch (spec §3, §4.2).
type TypeErrorUnion struct {
	Span    lexer.Position
	Payload TypeExpr
}

func (t *TypeErrorUnion) typeExprNode()    {}
func (t *TypeErrorUnion) Pos() lexer.Position { return t.Span }
func (t *TypeErrorUnion) String() string   { return "!" + t.Payload.String() }

// TypeAtomic is `atomic T`.
type TypeAtomic struct {
	Span lexer.Position
	Elem TypeExpr
}

func (t *TypeAtomic) typeExprNode()    {}
func (t *TypeAtomic) Pos() lexer.Position { return t.Span }
func (t *TypeAtomic) String() string   { return "atomic " + t.Elem.String() }

// baseTypeNames are the built-in scalar type tokens recognized throughout
// the front end and both backends (spec §4.2's mangling/reverse-lookup
// base-type set).
var baseTypeNames = map[string]bool{
	"i8": true, "i16": true, "i32": true, "i64": true,
	"u8": true, "u16": true, "u32": true, "u64": true,
	"f32": true, "f64": true, "bool": true, "byte": true, "usize": true,
	"void": true,
}

// IsBaseTypeName reports whether name is one of Uya's built-in scalar type
// names, used by the monomorphization engine's reverse name-mangling lookup.
func IsBaseTypeName(name string) bool { return baseTypeNames[name] }
