package ast

import (
	"bytes"
	"strings"

	"github.com/uya-lang/uyac/internal/lexer"
)

// Param is one function parameter.
type Param struct {
	Name string
	Type TypeExpr
}

func (p *Param) String() string { return p.Name + ": " + p.Type.String() }

// FnDecl is a language-level function declaration (spec §4.1/§3). TypeParams
// is non-empty for a generic declaration, e.g. `fn identity<T>(x: T) T`.
type FnDecl struct {
	Span       lexer.Position
	Name       string
	TypeParams []string
	Params     []*Param
	ReturnType TypeExpr // nil means void
	Body       []Statement
	IsTest     bool // declared inside a `test "name" { ... }` block
}

func (f *FnDecl) declNode()           {}
func (f *FnDecl) Pos() lexer.Position { return f.Span }
func (f *FnDecl) String() string {
	var sb strings.Builder
	sb.WriteString("fn ")
	sb.WriteString(f.Name)
	if len(f.TypeParams) > 0 {
		sb.WriteString("<" + strings.Join(f.TypeParams, ", ") + ">")
	}
	parts := make([]string, len(f.Params))
	for i, p := range f.Params {
		parts[i] = p.String()
	}
	sb.WriteString("(" + strings.Join(parts, ", ") + ")")
	if f.ReturnType != nil {
		sb.WriteString(" " + f.ReturnType.String())
	}
	sb.WriteString(" { ... }")
	return sb.String()
}

// ExternDecl is `extern fn name(params) ret;` — a declaration-only binding
// to a C-ABI symbol, with no body (spec §4.3's extern-ABI rules apply to
// these signatures specifically).
type ExternDecl struct {
	Span       lexer.Position
	Name       string
	Params     []*Param
	ReturnType TypeExpr
	IsVarargs  bool
}

func (e *ExternDecl) declNode()           {}
func (e *ExternDecl) Pos() lexer.Position { return e.Span }
func (e *ExternDecl) String() string {
	parts := make([]string, len(e.Params))
	for i, p := range e.Params {
		parts[i] = p.String()
	}
	if e.IsVarargs {
		parts = append(parts, "...")
	}
	ret := "void"
	if e.ReturnType != nil {
		ret = e.ReturnType.String()
	}
	return "extern fn " + e.Name + "(" + strings.Join(parts, ", ") + ") " + ret + ";"
}

// Field is one struct field.
type Field struct {
	Name string
	Type TypeExpr
}

func (f *Field) String() string { return f.Name + ": " + f.Type.String() }

// StructDecl is a struct type declaration, optionally generic.
type StructDecl struct {
	Span       lexer.Position
	Name       string
	TypeParams []string
	Fields     []*Field
}

func (s *StructDecl) declNode()           {}
func (s *StructDecl) Pos() lexer.Position { return s.Span }
func (s *StructDecl) String() string {
	var sb strings.Builder
	sb.WriteString("struct ")
	sb.WriteString(s.Name)
	if len(s.TypeParams) > 0 {
		sb.WriteString("<" + strings.Join(s.TypeParams, ", ") + ">")
	}
	sb.WriteString(" { ")
	for i, f := range s.Fields {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(f.String())
	}
	sb.WriteString(" }")
	return sb.String()
}

// EnumVariant is one `Name` or `Name(T1, T2)` case of an enum.
type EnumVariant struct {
	Name    string
	Payload []TypeExpr // empty for a unit variant
}

// EnumDecl is an enum type declaration. Variants with no payload lower to
// a plain C int/LLVM i32 constant; payload-carrying variants lower to a
// tagged struct (spec §4.2/§4.3 discriminated-union handling).
type EnumDecl struct {
	Span     lexer.Position
	Name     string
	Variants []*EnumVariant
}

func (e *EnumDecl) declNode()           {}
func (e *EnumDecl) Pos() lexer.Position { return e.Span }
func (e *EnumDecl) String() string {
	var sb strings.Builder
	sb.WriteString("enum ")
	sb.WriteString(e.Name)
	sb.WriteString(" { ")
	for i, v := range e.Variants {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(v.Name)
	}
	sb.WriteString(" }")
	return sb.String()
}

// ErrorDecl is `error Name;` — declares a named error tag. The registry
// assigns each a stable 32-bit id by hashing its fully-qualified name
// (spec §3/§4.2: "error_id: u32").
type ErrorDecl struct {
	Span lexer.Position
	Name string
}

func (e *ErrorDecl) declNode()           {}
func (e *ErrorDecl) Pos() lexer.Position { return e.Span }
func (e *ErrorDecl) String() string      { return "error " + e.Name + ";" }

// MethodBlock is `impl StructName { fn ... }`: a set of methods attached to
// a struct or enum, named `uya_<Struct>_<method>` once lowered (spec §4.3).
type MethodBlock struct {
	Span       lexer.Position
	TargetName string
	Methods    []*FnDecl
}

func (m *MethodBlock) declNode()           {}
func (m *MethodBlock) Pos() lexer.Position { return m.Span }
func (m *MethodBlock) String() string {
	var out bytes.Buffer
	out.WriteString("impl ")
	out.WriteString(m.TargetName)
	out.WriteString(" { ")
	for i, fn := range m.Methods {
		if i > 0 {
			out.WriteString(" ")
		}
		out.WriteString(fn.String())
	}
	out.WriteString(" }")
	return out.String()
}

// TestBlock is `test "name" { ... }`: a standalone test function compiled
// only when the driver is asked to emit tests (spec §6/§8).
type TestBlock struct {
	Span lexer.Position
	Name string
	Body []Statement
}

func (t *TestBlock) declNode()           {}
func (t *TestBlock) Pos() lexer.Position { return t.Span }
func (t *TestBlock) String() string      { return "test \"" + t.Name + "\" { ... }" }

// VarDecl is a top-level (module-scope) `var`/`const` binding. Function-
// local var/const bindings use the statement-level VarStatement instead.
type VarDecl struct {
	Span     lexer.Position
	Name     string
	Type     TypeExpr // nil if inferred from Value
	Value    Expression
	IsConst  bool
	IsAtomic bool
}

func (v *VarDecl) declNode()           {}
func (v *VarDecl) Pos() lexer.Position { return v.Span }
func (v *VarDecl) String() string {
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
