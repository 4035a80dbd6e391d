package c99

import (
	"strconv"
	"strings"
)

// preamble is emitted once per translation unit: the fixed C99 headers and
// the generic helper types (slice/tuple/error-union) that the rest of the
// emission assumes exist. Kept as a single literal block rather than
// assembled piecewise — there is nothing here that varies per-program
// except which slice/tuple/error-union instantiations are actually used
// (appended by registerAux), so a literal string is clearer than a
// builder.
const preambleHeader = `/* generated by uyac — do not edit by hand */
#include <stdint.h>
#include <stdbool.h>
#include <stddef.h>
#include <stdlib.h>
#include <string.h>
#include <stdio.h>

typedef struct { uint32_t error_id; bool has_error; } uya_err_tag;

/* wrap/saturating arithmetic (spec: '+|'/'-|'/'*|' wrap, '+%'/'-%'/'*%'
   saturate). Operate at 64-bit width; narrower targets truncate on
   assignment the same way a plain C cast would. */
static inline int64_t uya_add_wrap(int64_t a, int64_t b) { return (int64_t)((uint64_t)a + (uint64_t)b); }
static inline int64_t uya_sub_wrap(int64_t a, int64_t b) { return (int64_t)((uint64_t)a - (uint64_t)b); }
static inline int64_t uya_mul_wrap(int64_t a, int64_t b) { return (int64_t)((uint64_t)a * (uint64_t)b); }
static inline int64_t uya_add_sat(int64_t a, int64_t b) {
	int64_t r;
	if (__builtin_add_overflow(a, b, &r)) return b > 0 ? INT64_MAX : INT64_MIN;
	return r;
}
static inline int64_t uya_sub_sat(int64_t a, int64_t b) {
	int64_t r;
	if (__builtin_sub_overflow(a, b, &r)) return b > 0 ? INT64_MIN : INT64_MAX;
	return r;
}
static inline int64_t uya_mul_sat(int64_t a, int64_t b) {
	int64_t r;
	if (__builtin_mul_overflow(a, b, &r)) return ((a > 0) == (b > 0)) ? INT64_MAX : INT64_MIN;
	return r;
}

/* @syscall(n, args...) lowers to the fixed-arity helper matching the call's
   argument count; implementations live in the runtime support object the
   driver links in (platform-specific inline asm, not generated here). */
extern int64_t uya_syscall0(int64_t n);
extern int64_t uya_syscall1(int64_t n, int64_t a1);
extern int64_t uya_syscall2(int64_t n, int64_t a1, int64_t a2);
extern int64_t uya_syscall3(int64_t n, int64_t a1, int64_t a2, int64_t a3);
extern int64_t uya_syscall4(int64_t n, int64_t a1, int64_t a2, int64_t a3, int64_t a4);
extern int64_t uya_syscall5(int64_t n, int64_t a1, int64_t a2, int64_t a3, int64_t a4, int64_t a5);
extern int64_t uya_syscall6(int64_t n, int64_t a1, int64_t a2, int64_t a3, int64_t a4, int64_t a5, int64_t a6);
`

// auxTypedef renders the definition of one generic helper type the program
// actually uses (a slice, tuple, or error-union instantiation). Emitting
// these on demand rather than for every possible element type keeps the
// preamble proportional to the program instead of enumerating every
// conceivable instantiation up front.
func auxTypedef(name, body string) string {
	var sb strings.Builder
	sb.WriteString("typedef struct { ")
	sb.WriteString(body)
	sb.WriteString(" } ")
	sb.WriteString(name)
	sb.WriteString(";\n")
	return sb.String()
}

func sliceTypedef(name, elemC string) string {
	return auxTypedef(name, elemC+" *ptr; size_t len;")
}

func tupleTypedef(name string, elemCs []string) string {
	var body strings.Builder
	for i, e := range elemCs {
		body.WriteString(e)
		body.WriteString(" f")
		body.WriteString(strconv.Itoa(i))
		body.WriteString("; ")
	}
	return auxTypedef(name, body.String())
}

func errUnionTypedef(name, payloadC string) string {
	return auxTypedef(name, "uya_err_tag tag; "+payloadC+" value;")
}
