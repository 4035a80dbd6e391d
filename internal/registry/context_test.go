package registry

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/uya-lang/uyac/internal/ast"
)

func TestScopeResolutionChainsToOuter(t *testing.T) {
	outer := NewScope(nil)
	outer.Define(&Variable{Name: "g", Type: &ast.TypeNamed{Name: "i32"}})
	inner := NewScope(outer)
	inner.Define(&Variable{Name: "x", Type: &ast.TypeNamed{Name: "bool"}})

	v, ok := inner.Resolve("x")
	require.True(t, ok)
	require.Equal(t, "bool", v.Type.(*ast.TypeNamed).Name)

	v, ok = inner.Resolve("g")
	require.True(t, ok)
	require.Equal(t, "i32", v.Type.(*ast.TypeNamed).Name)

	_, ok = outer.Resolve("x")
	require.False(t, ok)
}

func TestContextPushPopScope(t *testing.T) {
	c := NewContext()
	c.Global.Define(&Variable{Name: "g", Type: &ast.TypeNamed{Name: "i32"}})
	c.PushScope()
	c.Local.Define(&Variable{Name: "x", Type: &ast.TypeNamed{Name: "bool"}})
	_, ok := c.Local.Resolve("g")
	require.True(t, ok)
	c.PopScope()
	require.False(t, c.Local.IsDeclaredHere("x"))
}

func TestErrorIDStableAcrossCalls(t *testing.T) {
	c := NewContext()
	id1 := c.ErrorID("OutOfBounds")
	id2 := c.ErrorID("OutOfBounds")
	require.Equal(t, id1, id2)
	require.NotEqual(t, id1, c.ErrorID("DivideByZero"))
}

func TestRegisterProgramTwoPhaseOrderIndependence(t *testing.T) {
	prog := &ast.Program{Decls: []ast.Decl{
		&ast.FnDecl{Name: "make", ReturnType: &ast.TypeNamed{Name: "Point"}},
		&ast.StructDecl{Name: "Point", Fields: []*ast.Field{{Name: "x", Type: &ast.TypeNamed{Name: "i32"}}}},
	}}
	c := NewContext()
	c.RegisterProgram(prog)
	_, ok := c.StructTypes["Point"]
	require.True(t, ok)
	_, ok = c.Functions["make"]
	require.True(t, ok)
}

func TestLookupMethodFallsBackToMonomorphizedBase(t *testing.T) {
	c := NewContext()
	get := &ast.FnDecl{Name: "get"}
	c.Methods["Box"] = &ast.MethodBlock{TargetName: "Box", Methods: []*ast.FnDecl{get}}

	found, ok := c.LookupMethod("Box_i32", "get")
	require.True(t, ok)
	require.Same(t, get, found)

	_, ok = c.LookupMethod("Box_i32", "missing")
	require.False(t, ok)
}
