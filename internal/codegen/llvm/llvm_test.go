package llvm

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/uya-lang/uyac/internal/mono"
	"github.com/uya-lang/uyac/internal/parser"
	"github.com/uya-lang/uyac/internal/registry"
)

func compile(t *testing.T, src string) string {
	t.Helper()
	prog, diags := parser.ParseProgram("t.uya", src)
	require.False(t, diags.HasErrors(), "unexpected parse diagnostics: %s", diags.String())
	ctx := registry.NewContext()
	ctx.RegisterProgram(prog)
	em := NewEmitter(ctx, mono.NewEngine(), "t")
	defer em.Dispose()
	out := em.Emit(prog)
	require.False(t, em.Diagnostics().HasErrors(), "unexpected lowering diagnostics: %s", em.Diagnostics().String())
	return out
}

func TestEmitSimpleFunction(t *testing.T) {
	out := compile(t, `fn add(a: i32, b: i32) i32 { return a + b; }`)
	require.Contains(t, out, "define i32 @add(i32 %a, i32 %b)")
	require.Contains(t, out, "add i32")
}

func TestEmitMainRenamed(t *testing.T) {
	out := compile(t, `fn main() void { return; }`)
	require.Contains(t, out, "@uya_main(")
	require.NotContains(t, out, "@main(")
}

func TestEmitStructAndInit(t *testing.T) {
	out := compile(t, `
struct Point { x: i32, y: i32 }
fn at(x: i32, y: i32) Point { return Point{x: x, y: y}; }
`)
	require.Contains(t, out, "%Point = type { i32, i32 }")
	require.Contains(t, out, "insertvalue")
}

func TestEmitExternVarargs(t *testing.T) {
	out := compile(t, `extern fn printf(fmt: *i8, ...) i32;`)
	require.Contains(t, out, "declare i32 @printf(i8* %fmt, ...)")
}

func TestEmitExternLargeStructByPointer(t *testing.T) {
	out := compile(t, `
struct Big { a: i64, b: i64, c: i64 }
extern fn take(x: Big) void;
`)
	require.Contains(t, out, "declare void @take(%Big* %x)")
}

func TestEmitTryReturnPropagation(t *testing.T) {
	out := compile(t, `
error OutOfBounds;

fn risky() !i32 {
	return 1;
}

fn chained() !i32 {
	return try risky();
}
`)
	require.Contains(t, out, "try.err")
	require.Contains(t, out, "try.ok")
	require.Contains(t, out, "extractvalue")
}

func TestEmitCatchAssignment(t *testing.T) {
	out := compile(t, `
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
	require.Contains(t, out, "catch.err")
	require.Contains(t, out, "catch.ok")
	require.Contains(t, out, "_uya_catch_result")
}

func TestEmitShortCircuitAnd(t *testing.T) {
	out := compile(t, `
fn f(a: bool, b: bool) bool {
	return a && b;
}
`)
	require.Contains(t, out, "and.rhs")
	require.Contains(t, out, "and.end")
	require.Contains(t, out, "phi i1")
}

func TestEmitShortCircuitOr(t *testing.T) {
	out := compile(t, `
fn f(a: bool, b: bool) bool {
	return a || b;
}
`)
	require.Contains(t, out, "or.rhs")
	require.Contains(t, out, "or.end")
}

func TestEmitWhileLoop(t *testing.T) {
	out := compile(t, `
fn f(n: i32) i32 {
	var i: i32 = 0;
	while i < n {
		i = i + 1;
	}
	return i;
}
`)
	require.Contains(t, out, "while.head")
	require.Contains(t, out, "while.body")
	require.Contains(t, out, "while.end")
}

func TestEmitEnumNoPayload(t *testing.T) {
	out := compile(t, `enum Color { Red, Green, Blue }`)
	require.NotContains(t, out, "%Color = type")
}

func TestEmitEnumWithPayload(t *testing.T) {
	out := compile(t, `enum Shape { Circle(i32), Empty }`)
	require.Contains(t, out, "%Shape = type { i32,")
}

func TestEmitSizeofAndCast(t *testing.T) {
	out := compile(t, `
fn f() i32 {
	var n: i32 = @sizeof(i32) as i32;
	return n;
}
`)
	require.Contains(t, out, "trunc")
}

func TestEmitSaturatingAdd(t *testing.T) {
	out := compile(t, `fn f(a: i32, b: i32) i32 { return a +% b; }`)
	require.Contains(t, out, "llvm.sadd.sat.i32")
}

func TestEmitDeferRunsBeforeReturn(t *testing.T) {
	out := compile(t, `
fn f() i32 {
	defer {
		@syscall(0);
	}
	return 1;
}
`)
	require.Contains(t, out, "uya_syscall0")
	require.Contains(t, out, "ret i32 1")
}
