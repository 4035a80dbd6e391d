package c99

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/uya-lang/uyac/internal/ast"
	"github.com/uya-lang/uyac/internal/mono"
	"github.com/uya-lang/uyac/internal/parser"
	"github.com/uya-lang/uyac/internal/registry"
)

func compile(t *testing.T, src string) (string, *registry.Context) {
	t.Helper()
	prog, diags := parser.ParseProgram("t.uya", src)
	require.False(t, diags.HasErrors(), "unexpected parse diagnostics: %s", diags.String())
	ctx := registry.NewContext()
	ctx.RegisterProgram(prog)
	em := NewEmitter(ctx, mono.NewEngine())
	return em.Emit(prog), ctx
}

func TestEmitSimpleFunction(t *testing.T) {
	out, _ := compile(t, `fn add(a: i32, b: i32) i32 { return a + b; }`)
	require.Contains(t, out, "int32_t add(int32_t a, int32_t b)")
	require.Contains(t, out, "(a + b)")
}

func TestEmitMainRenamed(t *testing.T) {
	out, _ := compile(t, `fn main() void { return; }`)
	require.Contains(t, out, "uya_main(void)")
	require.NotContains(t, out, " main(")
}

func TestEmitStructAndInit(t *testing.T) {
	out, _ := compile(t, `
struct Point { x: i32, y: i32 }
fn origin() Point { return Point{x: 0, y: 0}; }
`)
	require.Contains(t, out, "struct Point {")
	require.Contains(t, out, "int32_t x;")
	require.Contains(t, out, "(struct Point){ .x = 0, .y = 0 }")
}

func TestEmitExternVarargs(t *testing.T) {
	out, _ := compile(t, `extern fn printf(fmt: *i8, ...) i32;`)
	require.Contains(t, out, "extern int32_t printf(int8_t *fmt, ...);")
}

func TestEmitExternLargeStructByPointer(t *testing.T) {
	out, _ := compile(t, `
struct Big { a: i64, b: i64, c: i64 }
extern fn take(x: Big) void;
`)
	require.Contains(t, out, "extern void take(struct Big *x);")
}

func TestEmitTryReturnPropagation(t *testing.T) {
	out, _ := compile(t, `
error OutOfBounds;

fn risky() !i32 {
	return 1;
}

fn chained() !i32 {
	return try risky();
}
`)
	require.Contains(t, out, "_uya_try_tmp")
	require.Contains(t, out, "has_error")
	require.Contains(t, out, "_uya_ret")
}

func TestEmitCatchAssignment(t *testing.T) {
	out, _ := compile(t, `
error OutOfBounds;

fn risky() !i32 {
	return 1;
}

fn safe() i32 {
	var x: i32 = risky() catch |e| {
		return 0;
	};
	return x;
}
`)
	require.Contains(t, out, "_uya_catch_tmp")
	require.Contains(t, out, "_uya_catch_result")
	require.Contains(t, out, "uint32_t e =")
}

func TestEmitWrapOperator(t *testing.T) {
	out, _ := compile(t, `fn f(a: i32, b: i32) i32 { return a +| b; }`)
	require.Contains(t, out, "uya_add_wrap(a, b)")
}

func TestEmitMatchAsTernary(t *testing.T) {
	out, _ := compile(t, `
fn classify(x: i32) bool {
	return match x {
		0 => true,
		else => false,
	};
}
`)
	require.Contains(t, out, "?")
	require.Contains(t, out, ":")
}

func TestEmitStringInterpolation(t *testing.T) {
	out, _ := compile(t, `
fn greet(name: *i8) void {
	var msg: *i8 = "hello ${name}!";
}
`)
	require.Contains(t, out, "snprintf")
}

func TestEmitEnumNoPayload(t *testing.T) {
	out, _ := compile(t, `enum Color { Red, Green, Blue }`)
	require.Contains(t, out, "typedef enum {")
	require.Contains(t, out, "Color_Red,")
	require.Contains(t, out, "} Color;")
}

func TestEmitEnumWithPayload(t *testing.T) {
	out, _ := compile(t, `enum Shape { Circle(i32), Empty }`)
	require.Contains(t, out, "Shape_Tag")
	require.Contains(t, out, "union {")
	require.Contains(t, out, "} Circle;")
}

func TestEmitSizeofAndCast(t *testing.T) {
	out, _ := compile(t, `
fn f() i32 {
	var n: i32 = @sizeof(i32) as i32;
	return n;
}
`)
	require.Contains(t, out, "sizeof(int32_t)")
	require.Contains(t, out, "(int32_t)")
}

func TestStructEqualityLowersToMemcmp(t *testing.T) {
	_, ctx := compile(t, `struct Point { x: i32, y: i32 }`)

	left := &ast.Identifier{Name: "a"}
	right := &ast.Identifier{Name: "b"}
	pointType := &ast.TypeNamed{Name: "Point"}
	left.SetResolvedType(pointType)
	bin := &ast.BinaryExpression{Left: left, Operator: "==", Right: right}

	em := NewEmitter(ctx, mono.NewEngine())
	got := em.binary(bin, newFnCtx(&ast.FnDecl{}))
	require.Contains(t, got, "memcmp")
	require.Contains(t, got, "struct Point")
}
