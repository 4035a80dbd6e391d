package ast

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/uya-lang/uyac/internal/lexer"
)

func TestArenaTracksAllocations(t *testing.T) {
	arena := NewArena()
	id := Track(arena, &Identifier{Token: lexer.Token{Literal: "x"}, Name: "x"})
	num := Track(arena, &NumberLiteral{Token: lexer.Token{Literal: "1"}, Value: 1})
	require.Equal(t, "x", id.Name)
	require.Equal(t, int64(1), num.Value)
	require.Equal(t, 2, arena.NodeCount())
}

func TestResolvedTypeRoundTrip(t *testing.T) {
	var e Expression = &Identifier{Name: "x"}
	require.Nil(t, e.GetResolvedType())
	ty := &TypeNamed{Name: "i32"}
	e.SetResolvedType(ty)
	require.Same(t, ty, e.GetResolvedType())
}

func TestProgramPosUsesFirstDecl(t *testing.T) {
	p := &Program{Decls: []Decl{
		&VarDecl{Span: lexer.Position{Line: 7, Column: 1}, Name: "x"},
	}}
	require.Equal(t, 7, p.Pos().Line)

	empty := &Program{}
	require.Equal(t, 1, empty.Pos().Line)
}

func TestTypeExprStringForms(t *testing.T) {
	require.Equal(t, "i32", (&TypeNamed{Name: "i32"}).String())
	require.Equal(t, "Box<T>", (&TypeNamed{Name: "Box", TypeArgs: []TypeExpr{&TypeNamed{Name: "T"}}}).String())
	require.Equal(t, "*i32", (&TypePointer{Elem: &TypeNamed{Name: "i32"}}).String())
	require.Equal(t, "&i32", (&TypePointer{Elem: &TypeNamed{Name: "i32"}, Borrow: true}).String())
	require.Equal(t, "[i32]", (&TypeSlice{Elem: &TypeNamed{Name: "i32"}}).String())
	require.Equal(t, "!i32", (&TypeErrorUnion{Payload: &TypeNamed{Name: "i32"}}).String())
	require.Equal(t, "atomic i32", (&TypeAtomic{Elem: &TypeNamed{Name: "i32"}}).String())
}

func TestIsBaseTypeName(t *testing.T) {
	require.True(t, IsBaseTypeName("i32"))
	require.True(t, IsBaseTypeName("usize"))
	require.False(t, IsBaseTypeName("Box"))
}

func TestDeclStringForms(t *testing.T) {
	fn := &FnDecl{
		Name:       "identity",
		TypeParams: []string{"T"},
		Params:     []*Param{{Name: "x", Type: &TypeNamed{Name: "T"}}},
		ReturnType: &TypeNamed{Name: "T"},
	}
	require.Contains(t, fn.String(), "fn identity<T>(x: T) T")

	st := &StructDecl{
		Name:   "Point",
		Fields: []*Field{{Name: "x", Type: &TypeNamed{Name: "i32"}}, {Name: "y", Type: &TypeNamed{Name: "i32"}}},
	}
	require.Contains(t, st.String(), "struct Point { x: i32, y: i32 }")

	errDecl := &ErrorDecl{Name: "OutOfBounds"}
	require.Equal(t, "error OutOfBounds;", errDecl.String())
}

func TestSubscriptDesugarsToSliceCall(t *testing.T) {
	sub := &Subscript{
		Base:  &Identifier{Name: "arr"},
		Start: &NumberLiteral{Token: lexer.Token{Literal: "0"}, Value: 0},
		Len:   &NumberLiteral{Token: lexer.Token{Literal: "2"}, Value: 2},
	}
	call := sub.ToCall()
	require.Equal(t, "slice", call.Callee.(*Identifier).Name)
	require.Len(t, call.Args, 3)
}

func TestMatchArmWildcard(t *testing.T) {
	m := &Match{
		Scrutinee: &Identifier{Name: "x"},
		Arms: []*Pattern{
			{Value: &NumberLiteral{Token: lexer.Token{Literal: "1"}, Value: 1}, Body: &BoolLiteral{Token: lexer.Token{Literal: "true"}, Value: true}},
			{Wildcard: true, Body: &BoolLiteral{Token: lexer.Token{Literal: "false"}, Value: false}},
		},
	}
	require.Contains(t, m.String(), "else => false")
}
