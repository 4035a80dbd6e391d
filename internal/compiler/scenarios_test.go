package compiler

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

// compileBoth runs src through both backends and asserts neither produced a
// diagnostic, returning (c99 output, llvm IR output).
func compileBoth(t *testing.T, src string) (string, string) {
	t.Helper()
	c, err := CompileString("t.uya", src, TargetC99)
	require.NoError(t, err)
	require.False(t, c.Diags.HasErrors(), "c99: %s", c.Diags.String())

	l, err := CompileString("t.uya", src, TargetLLVM)
	require.NoError(t, err)
	require.False(t, l.Diags.HasErrors(), "llvm: %s", l.Diags.String())

	return c.Output, l.Output
}

// Scenario 1: error union + try + catch.
func TestScenarioErrorUnionTryCatch(t *testing.T) {
	src := `
error DivZero;

fn div(a: i32, b: i32) !i32 {
	if (b == 0) { return error.DivZero; }
	return a / b;
}

fn main() !i32 {
	const x: i32 = try div(10, 2);
	const y: i32 = div(10, 0) catch { };
	return x - y;
}
`
	c99Out, llvmOut := compileBoth(t, src)

	require.Contains(t, c99Out, "has_error = true")
	require.Contains(t, c99Out, "_uya_try_tmp")
	require.Contains(t, c99Out, "_uya_catch_result")

	require.Contains(t, llvmOut, "try.err")
	require.Contains(t, llvmOut, "try.ok")
	require.Contains(t, llvmOut, "catch.err")
	require.Contains(t, llvmOut, "_uya_catch_result")
}

// Scenario 2: generic identity, instantiated exactly once per type argument.
func TestScenarioGenericIdentity(t *testing.T) {
	src := `
fn id<T>(x: T) T { return x; }
fn main() i32 { return id<i32>(42) + id<i32>(-40); }
`
	c99Out, llvmOut := compileBoth(t, src)

	require.Equal(t, 1, strings.Count(c99Out, "id_i32(int32_t x) {"))
	require.Equal(t, 1, strings.Count(llvmOut, "define i32 @id_i32("))
	require.NotContains(t, c99Out, " id(")
	require.NotContains(t, llvmOut, "@id(")
}

// Scenario 3: by-value array parameters don't alias the caller's array.
func TestScenarioByValueArray(t *testing.T) {
	src := `
fn bump(a: [i32:3]) i32 { a[0] = 99; return a[0]; }
fn main() i32 {
	var x: [i32:3] = [1, 2, 3];
	var b: i32 = bump(x);
	return b - x[0];
}
`
	c99Out, llvmOut := compileBoth(t, src)

	require.Contains(t, c99Out, "memcpy")
	require.Contains(t, llvmOut, "define i32 @bump(")
}

// Scenario 4: struct equality is field-wise.
func TestScenarioStructEquality(t *testing.T) {
	src := `
struct P { x: i32, y: i32 }
fn main() i32 {
	const a: P = P{x: 1, y: 2};
	const b: P = P{x: 1, y: 2};
	const c: P = P{x: 1, y: 3};
	if (!(a == b)) { return 1; }
	if (a == c) { return 2; }
	return 0;
}
`
	c99Out, llvmOut := compileBoth(t, src)

	require.Contains(t, c99Out, "memcmp")
	require.Contains(t, c99Out, "struct P")
	require.Contains(t, llvmOut, "extractvalue")
}

// Scenario 5: short-circuit && never evaluates its right operand unless needed.
func TestScenarioShortCircuitAnd(t *testing.T) {
	src := `
fn trap() bool { return 1 / 0 == 0; }
fn main() i32 {
	if (false && trap()) { return 1; }
	return 0;
}
`
	c99Out, llvmOut := compileBoth(t, src)

	require.Contains(t, c99Out, "&&")

	require.Contains(t, llvmOut, "and.rhs")
	require.Contains(t, llvmOut, "and.end")
	andRHS := llvmOut[strings.Index(llvmOut, "and.rhs:"):]
	require.Contains(t, andRHS[:strings.Index(andRHS, "and.end")], "trap")
}

// Scenario 6: extern ABI small struct passed by value.
func TestScenarioExternABISmallStruct(t *testing.T) {
	src := `
struct SmallStruct { x: i32, y: i32 }
extern fn c_small(s: SmallStruct) i32;
fn main() i32 { return c_small(SmallStruct{x: 100, y: 200}); }
`
	c99Out, llvmOut := compileBoth(t, src)

	require.Contains(t, c99Out, "extern int32_t c_small(struct SmallStruct s);")
	// SmallStruct is two i32 fields (8 bytes): System V x86-64 packs it into
	// a single i64 register rather than passing %SmallStruct by value.
	require.Contains(t, llvmOut, "declare i32 @c_small(i64")
}
