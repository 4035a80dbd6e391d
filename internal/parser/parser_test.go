package parser

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/uya-lang/uyac/internal/ast"
)

func parseOK(t *testing.T, src string) *ast.Program {
	t.Helper()
	prog, diags := ParseProgram("t.uya", src)
	require.False(t, diags.HasErrors(), "unexpected diagnostics: %s", diags.String())
	return prog
}

func TestParseSimpleFnDecl(t *testing.T) {
	prog := parseOK(t, `fn add(a: i32, b: i32) i32 { return a + b; }`)
	require.Len(t, prog.Decls, 1)
	fn, ok := prog.Decls[0].(*ast.FnDecl)
	require.True(t, ok)
	require.Equal(t, "add", fn.Name)
	require.Len(t, fn.Params, 2)
	require.Len(t, fn.Body, 1)
}

func TestParseGenericFnDecl(t *testing.T) {
	prog := parseOK(t, `fn identity<T>(x: T) T { return x; }`)
	fn := prog.Decls[0].(*ast.FnDecl)
	require.Equal(t, []string{"T"}, fn.TypeParams)
}

func TestParseExternDecl(t *testing.T) {
	prog := parseOK(t, `extern fn printf(fmt: *i8, ...) i32;`)
	ext, ok := prog.Decls[0].(*ast.ExternDecl)
	require.True(t, ok)
	require.True(t, ext.IsVarargs)
	require.True(t, ext.Params[0].Type.(*ast.TypePointer).FFI)
}

func TestParseStructDeclAndInit(t *testing.T) {
	prog := parseOK(t, `
struct Point { x: i32, y: i32 }
fn origin() Point { return Point{x: 0, y: 0}; }
`)
	require.Len(t, prog.Decls, 2)
	st := prog.Decls[0].(*ast.StructDecl)
	require.Equal(t, "Point", st.Name)
	fn := prog.Decls[1].(*ast.FnDecl)
	ret := fn.Body[0].(*ast.ReturnStatement)
	init, ok := ret.Value.(*ast.StructInit)
	require.True(t, ok)
	require.Equal(t, "Point", init.Name)
	require.Len(t, init.Fields, 2)
}

func TestParseIfConditionDoesNotConsumeBlockAsStructInit(t *testing.T) {
	prog := parseOK(t, `
fn f(flag: bool) i32 {
	if flag {
		return 1;
	} else {
		return 0;
	}
}
`)
	fn := prog.Decls[0].(*ast.FnDecl)
	ifStmt, ok := fn.Body[0].(*ast.IfStatement)
	require.True(t, ok)
	_, isIdent := ifStmt.Condition.(*ast.Identifier)
	require.True(t, isIdent)
	require.NotNil(t, ifStmt.Else)
}

func TestParseWhileAndFor(t *testing.T) {
	prog := parseOK(t, `
fn f() void {
	var i: i32 = 0;
	while i < 10 {
		i = i + 1;
	}
	for x in arr {
		break;
	}
}
`)
	fn := prog.Decls[0].(*ast.FnDecl)
	require.Len(t, fn.Body, 3)
	_, ok := fn.Body[1].(*ast.WhileStatement)
	require.True(t, ok)
	forStmt, ok := fn.Body[2].(*ast.ForStatement)
	require.True(t, ok)
	require.Equal(t, "x", forStmt.VarName)
}

func TestParseErrorUnionTryCatch(t *testing.T) {
	prog := parseOK(t, `
error OutOfBounds;

fn risky() !i32 {
	return 1;
}

fn safe() i32 {
	return risky() catch |e| {
		return 0;
	};
}
`)
	require.Len(t, prog.Decls, 3)
	errDecl := prog.Decls[0].(*ast.ErrorDecl)
	require.Equal(t, "OutOfBounds", errDecl.Name)

	risky := prog.Decls[1].(*ast.FnDecl)
	errType, ok := risky.ReturnType.(*ast.TypeErrorUnion)
	require.True(t, ok)
	require.Equal(t, "i32", errType.Payload.(*ast.TypeNamed).Name)

	safe := prog.Decls[2].(*ast.FnDecl)
	ret := safe.Body[0].(*ast.ReturnStatement)
	catchExpr, ok := ret.Value.(*ast.CatchExpr)
	require.True(t, ok)
	require.Equal(t, "e", catchExpr.ErrorVar)
}

func TestParseMatchExpression(t *testing.T) {
	prog := parseOK(t, `
fn classify(x: i32) bool {
	return match x {
		0 => true,
		else => false,
	};
}
`)
	fn := prog.Decls[0].(*ast.FnDecl)
	ret := fn.Body[0].(*ast.ReturnStatement)
	m, ok := ret.Value.(*ast.Match)
	require.True(t, ok)
	require.Len(t, m.Arms, 2)
	require.True(t, m.Arms[1].Wildcard)
}

func TestParseGenericStructAndCall(t *testing.T) {
	prog := parseOK(t, `
struct Box<T> { value: T }
fn wrap<T>(v: T) Box<T> { return Box<T>{value: v}; }
`)
	st := prog.Decls[0].(*ast.StructDecl)
	require.Equal(t, []string{"T"}, st.TypeParams)

	fn := prog.Decls[1].(*ast.FnDecl)
	named := fn.ReturnType.(*ast.TypeNamed)
	require.Equal(t, "Box", named.Name)
	require.Len(t, named.TypeArgs, 1)
}

func TestParseStringInterpolation(t *testing.T) {
	prog := parseOK(t, `
fn greet(name: *i8) void {
	var msg: *i8 = "hello ${name}!";
}
`)
	fn := prog.Decls[0].(*ast.FnDecl)
	v := fn.Body[0].(*ast.VarStatement)
	interp, ok := v.Value.(*ast.StringInterpolation)
	require.True(t, ok)
	require.Len(t, interp.InterpExprs, 1)
	id, ok := interp.InterpExprs[0].(*ast.Identifier)
	require.True(t, ok)
	require.Equal(t, "name", id.Name)
}

func TestParseDeferAndErrdefer(t *testing.T) {
	prog := parseOK(t, `
fn f() void {
	defer { closeHandle(); }
	errdefer { rollback(); }
}
`)
	fn := prog.Decls[0].(*ast.FnDecl)
	require.Len(t, fn.Body, 2)
	_, ok := fn.Body[0].(*ast.DeferStatement)
	require.True(t, ok)
	_, ok = fn.Body[1].(*ast.ErrDeferStatement)
	require.True(t, ok)
}

func TestParseSyntaxErrorRecoversAndFindsNextDecl(t *testing.T) {
	_, diags := ParseProgram("t.uya", `
fn broken( {
}

fn ok() i32 { return 1; }
`)
	require.True(t, diags.HasErrors())
}

func TestParseArraySliceAndCast(t *testing.T) {
	prog := parseOK(t, `
fn f(arr: [i32: 4]) void {
	var s: [i32] = arr[0:2];
	var n: i32 = s[0] as i32;
}
`)
	fn := prog.Decls[0].(*ast.FnDecl)
	arrType := fn.Params[0].Type.(*ast.TypeArray)
	require.Equal(t, int64(4), arrType.Size)

	sDecl := fn.Body[0].(*ast.VarStatement)
	_, ok := sDecl.Value.(*ast.Subscript)
	require.True(t, ok)

	nDecl := fn.Body[1].(*ast.VarStatement)
	cast, ok := nDecl.Value.(*ast.Cast)
	require.True(t, ok)
	require.Equal(t, "i32", cast.Target.(*ast.TypeNamed).Name)
}
