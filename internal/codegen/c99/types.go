// Package c99 lowers the checked AST to C99 source text: one translation
// unit per compilation, textually assembled with strings.Builder rather
// than text/template — the output has no reusable boilerplate skeleton
// beyond the preamble, so a template engine would only add an indirection
// layer between the AST and the bytes (see DESIGN.md's ambient-stack
// entry for c99).
//
// The exact try/catch/defer/errdefer lowering, extern-ABI struct-size
// rule, by-value array parameter copy pattern, and sprintf-based string
// interpolation are ported from original_source/tests/programs/build's
// *_c99 fixtures and compiler-c/src/codegen/c99/function.c (see
// original_source/ under the retrieved pack).
package c99

import (
	"fmt"
	"strings"

	"github.com/uya-lang/uyac/internal/ast"
	"github.com/uya-lang/uyac/internal/registry"
)

// cName renders a TypeExpr as a C99 type spelling. It is an Emitter method
// (rather than a free function) because a bare named type's spelling
// depends on whether it was declared `struct` or `enum` — an enum lowers
// to a typedef'd bare name (see emitEnum), a struct to a tagged `struct
// Name` reference, so the choice needs the registered declaration set.
func (e *Emitter) cName(t ast.TypeExpr) string {
	switch v := t.(type) {
	case nil:
		return "void"
	case *ast.TypeNamed:
		return e.namedCType(v.Name)
	case *ast.TypePointer:
		return e.cName(v.Elem) + " *"
	case *ast.TypeSlice:
		return "uya_slice_" + sanitize(e.cName(v.Elem))
	case *ast.TypeArray:
		return e.cName(v.Elem) // caller must use CDecl for the array suffix
	case *ast.TypeTuple:
		return "uya_tuple_" + fmt.Sprint(len(v.Elems))
	case *ast.TypeErrorUnion:
		return "uya_errunion_" + sanitize(e.cName(v.Payload))
	case *ast.TypeAtomic:
		return "_Atomic " + e.cName(v.Elem)
	case *ast.TypeFn:
		return "void *" // function values are passed as opaque pointers; call sites cast
	default:
		return "void"
	}
}

func sanitize(s string) string {
	return strings.NewReplacer(" ", "", "*", "p", "[", "_", "]", "_").Replace(s)
}

// namedCType maps Uya's primitive names to C99's <stdint.h>/<stdbool.h>
// fixed-width types, struct names to `struct Name`, and enum names to the
// bare typedef'd name emitted by emitEnum.
func (e *Emitter) namedCType(name string) string {
	switch name {
	case "i8":
		return "int8_t"
	case "i16":
		return "int16_t"
	case "i32":
		return "int32_t"
	case "i64":
		return "int64_t"
	case "u8", "byte":
		return "uint8_t"
	case "u16":
		return "uint16_t"
	case "u32":
		return "uint32_t"
	case "u64":
		return "uint64_t"
	case "usize":
		return "size_t"
	case "f32":
		return "float"
	case "f64":
		return "double"
	case "bool":
		return "bool"
	case "void":
		return "void"
	default:
		if _, ok := e.ctx.EnumTypes[name]; ok {
			return name
		}
		return "struct " + name
	}
}

// CDecl renders a C99 declarator for a variable of type t named name,
// handling the array-suffix case where C's declaration syntax does not
// read left-to-right.
func (e *Emitter) CDecl(t ast.TypeExpr, name string) string {
	if arr, ok := t.(*ast.TypeArray); ok {
		return fmt.Sprintf("%s %s[%d]", e.cName(arr.Elem), name, arr.Size)
	}
	ct := e.cName(t)
	if strings.HasSuffix(ct, "*") {
		return ct + name
	}
	return ct + " " + name
}

// sizeofType estimates a type's size in bytes for the extern-ABI struct
// rule (spec §4.3: "a struct larger than 16 bytes passed to/from an
// `extern` function is passed by pointer instead of by value"). This is a
// deliberately simple field-sum model (no alignment padding) — sufficient
// for the >16-byte threshold check the ABI rule actually needs; it is not
// used to compute offsets that C itself will compute via sizeof/offsetof
// in the generated source.
func sizeofType(t ast.TypeExpr, structs map[string]*ast.StructDecl) int {
	switch v := t.(type) {
	case *ast.TypeNamed:
		if sz, ok := primitiveSizes[v.Name]; ok {
			return sz
		}
		if decl, ok := structs[v.Name]; ok {
			total := 0
			for _, f := range decl.Fields {
				total += sizeofType(f.Type, structs)
			}
			return total
		}
		return 8
	case *ast.TypePointer:
		return 8
	case *ast.TypeArray:
		return int(v.Size) * sizeofType(v.Elem, structs)
	case *ast.TypeSlice:
		return 16 // pointer + length
	case *ast.TypeAtomic:
		return sizeofType(v.Elem, structs)
	default:
		return 8
	}
}

var primitiveSizes = map[string]int{
	"i8": 1, "u8": 1, "byte": 1, "bool": 1,
	"i16": 2, "u16": 2,
	"i32": 4, "u32": 4, "f32": 4,
	"i64": 8, "u64": 8, "f64": 8, "usize": 8,
	"void": 0,
}

// IsLargeExternStruct reports whether t is a struct type whose size
// exceeds the 16-byte by-value threshold for `extern` ABI boundaries.
func IsLargeExternStruct(t ast.TypeExpr, ctx *registry.Context) bool {
	named, ok := t.(*ast.TypeNamed)
	if !ok {
		return false
	}
	if _, ok := ctx.StructTypes[named.Name]; !ok {
		return false
	}
	return sizeofType(t, ctx.StructTypes) > 16
}
