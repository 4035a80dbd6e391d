package mono

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/uya-lang/uyac/internal/ast"
)

func TestMangleSimpleAndNested(t *testing.T) {
	require.Equal(t, "Box", Mangle("Box", nil))
	require.Equal(t, "Box_i32", Mangle("Box", []ast.TypeExpr{&ast.TypeNamed{Name: "i32"}}))
	require.Equal(t, "Pair_i32_bool", Mangle("Pair", []ast.TypeExpr{
		&ast.TypeNamed{Name: "i32"}, &ast.TypeNamed{Name: "bool"},
	}))
	require.Equal(t, "Box_pi32", Mangle("Box", []ast.TypeExpr{
		&ast.TypePointer{Elem: &ast.TypeNamed{Name: "i32"}},
	}))
}

func TestMangleDeterministic(t *testing.T) {
	args := []ast.TypeExpr{&ast.TypeNamed{Name: "u64"}}
	a := Mangle("Stack", args)
	b := Mangle("Stack", args)
	require.Equal(t, a, b)
}

func TestExtractGenericBaseSingleAndMultiParam(t *testing.T) {
	base, ok := ExtractGenericBase("Box_i32")
	require.True(t, ok)
	require.Equal(t, "Box", base)

	base, ok = ExtractGenericBase("Pair_i32_bool")
	require.True(t, ok)
	require.Equal(t, "Pair", base)

	base, ok = ExtractGenericBase("Container_T")
	require.True(t, ok)
	require.Equal(t, "Container", base)
}

func TestExtractGenericBaseRejectsNonGenericName(t *testing.T) {
	_, ok := ExtractGenericBase("plain_function_name")
	require.False(t, ok)
}

func TestSubstituteReplacesTypeParam(t *testing.T) {
	bindings := Bindings([]string{"T"}, []ast.TypeExpr{&ast.TypeNamed{Name: "i32"}})
	out := Substitute(&ast.TypePointer{Elem: &ast.TypeNamed{Name: "T"}}, bindings)
	ptr, ok := out.(*ast.TypePointer)
	require.True(t, ok)
	named, ok := ptr.Elem.(*ast.TypeNamed)
	require.True(t, ok)
	require.Equal(t, "i32", named.Name)
}

func TestInstantiateFnDedupesIdenticalTypeArgs(t *testing.T) {
	decl := &ast.FnDecl{
		Name:       "identity",
		TypeParams: []string{"T"},
		Params:     []*ast.Param{{Name: "x", Type: &ast.TypeNamed{Name: "T"}}},
		ReturnType: &ast.TypeNamed{Name: "T"},
		Body: []ast.Statement{
			&ast.ReturnStatement{Value: &ast.Identifier{Name: "x"}},
		},
	}
	eng := NewEngine()
	args := []ast.TypeExpr{&ast.TypeNamed{Name: "i32"}}
	first := eng.InstantiateFn(decl, args)
	second := eng.InstantiateFn(decl, args)
	require.Same(t, first, second)
	require.Equal(t, "identity_i32", first.Name)
	require.Equal(t, "i32", first.Params[0].Type.(*ast.TypeNamed).Name)
	require.Len(t, eng.Instantiations(), 1)
}

func TestInstantiateFnDistinctForDifferentTypeArgs(t *testing.T) {
	decl := &ast.FnDecl{
		Name:       "identity",
		TypeParams: []string{"T"},
		Params:     []*ast.Param{{Name: "x", Type: &ast.TypeNamed{Name: "T"}}},
		ReturnType: &ast.TypeNamed{Name: "T"},
	}
	eng := NewEngine()
	i32 := eng.InstantiateFn(decl, []ast.TypeExpr{&ast.TypeNamed{Name: "i32"}})
	boolFn := eng.InstantiateFn(decl, []ast.TypeExpr{&ast.TypeNamed{Name: "bool"}})
	require.NotEqual(t, i32.Name, boolFn.Name)
	require.Len(t, eng.Instantiations(), 2)
}

func TestInstantiateStructSubstitutesFields(t *testing.T) {
	decl := &ast.StructDecl{
		Name:       "Box",
		TypeParams: []string{"T"},
		Fields:     []*ast.Field{{Name: "value", Type: &ast.TypeNamed{Name: "T"}}},
	}
	eng := NewEngine()
	out := eng.InstantiateStruct(decl, []ast.TypeExpr{&ast.TypeNamed{Name: "f64"}})
	require.Equal(t, "Box_f64", out.Name)
	require.Equal(t, "f64", out.Fields[0].Type.(*ast.TypeNamed).Name)
}
