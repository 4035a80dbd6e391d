// Package mono implements monomorphization: turning a generic declaration
// plus a concrete list of type arguments into one non-generic declaration
// with a deterministic mangled name (spec §4.2).
//
// The mangling scheme and its inverse — recovering a generic declaration's
// base name from an already-mangled instantiation — are ported from
// compiler-c/src/codegen/c99/function.c's extract_generic_name_from_mono
// (see original_source/). The inverse backs registry.Context.LookupMethod,
// so a method lookup on a monomorphized struct type still finds the method
// declared against the struct's unparameterized `impl` block; neither
// backend calls it directly.
package mono

import (
	"strconv"
	"strings"

	"github.com/uya-lang/uyac/internal/ast"
)

// Mangle produces the deterministic name for decl instantiated with
// typeArgs, e.g. Generic<T1, T2> -> "Generic_T1_T2" (spec §4.2).
func Mangle(declName string, typeArgs []ast.TypeExpr) string {
	if len(typeArgs) == 0 {
		return declName
	}
	var sb strings.Builder
	sb.WriteString(declName)
	for _, arg := range typeArgs {
		sb.WriteByte('_')
		sb.WriteString(manglePart(arg))
	}
	return sb.String()
}

// manglePart renders one type argument into a name-safe fragment. Base
// types and named types (including already-mangled generic instantiations)
// render as their plain name; compound types get a short tag prefix so two
// structurally different arguments never collide on the same fragment.
func manglePart(t ast.TypeExpr) string {
	switch v := t.(type) {
	case *ast.TypeNamed:
		return Mangle(v.Name, v.TypeArgs)
	case *ast.TypePointer:
		return "p" + manglePart(v.Elem)
	case *ast.TypeSlice:
		return "s" + manglePart(v.Elem)
	case *ast.TypeArray:
		return "a" + strconv.FormatInt(v.Size, 10) + manglePart(v.Elem)
	case *ast.TypeTuple:
		parts := make([]string, len(v.Elems))
		for i, e := range v.Elems {
			parts[i] = manglePart(e)
		}
		return "t" + strings.Join(parts, "")
	case *ast.TypeErrorUnion:
		return "e" + manglePart(v.Payload)
	case *ast.TypeAtomic:
		return "at" + manglePart(v.Elem)
	case *ast.TypeFn:
		parts := make([]string, len(v.Params))
		for i, p := range v.Params {
			parts[i] = manglePart(p)
		}
		ret := "void"
		if v.Return != nil {
			ret = manglePart(v.Return)
		}
		return "fn" + strings.Join(parts, "") + "r" + ret
	default:
		return "unk"
	}
}

// ExtractGenericBase recovers a generic declaration's base name from an
// already-mangled instantiation name, e.g. "Pair_i32_bool" -> "Pair". It
// tries each underscore split point in turn (ported from
// extract_generic_name_from_mono's iteration over candidate splits),
// accepting the first prefix whose remainder is entirely built from
// base-type names or capitalized type names joined by "_".
func ExtractGenericBase(mangled string) (string, bool) {
	for i := 0; i < len(mangled); i++ {
		if mangled[i] != '_' {
			continue
		}
		prefix := mangled[:i]
		rest := mangled[i+1:]
		if prefix == "" || rest == "" {
			continue
		}
		if remainderLooksLikeTypeArgs(rest) {
			return prefix, true
		}
	}
	return "", false
}

func remainderLooksLikeTypeArgs(rest string) bool {
	for _, seg := range strings.Split(rest, "_") {
		if seg == "" {
			return false
		}
		if ast.IsBaseTypeName(seg) || isCapitalizedIdent(seg) {
			continue
		}
		return false
	}
	return true
}

func isCapitalizedIdent(s string) bool {
	return len(s) > 0 && s[0] >= 'A' && s[0] <= 'Z'
}
