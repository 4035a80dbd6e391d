// Package llvm lowers a checked program into LLVM IR through the system
// LLVM runtime's C API, via tinygo.org/x/go-llvm. The overall shape —
// one llvm.Context/Module/Builder per translation unit, a global symbol
// table of declared functions, allocas for locals created at their point
// of declaration (not hoisted into the entry block),
// explicit basic blocks for every branch instead of expression-level
// control flow — is carried from hhramberg-go-vslc's GenLLVM, the only
// repo in the retrieved pack that targets LLVM directly (the rest of the
// corpus either interprets or emits textual C). Concurrent multi-threaded
// generation (GenLLVM's worker-pool split across global decls) is not
// carried over: a single translation unit here is small enough that the
// indirection would cost more than it saves, and struct/enum type caching
// across functions needs to happen before any function bodies are walked
// regardless of how many goroutines walk them.
package llvm

import (
	"github.com/uya-lang/uyac/internal/ast"

	llvm "tinygo.org/x/go-llvm"
)

// llvmType lowers a checked type to its LLVM representation. Struct and
// enum lookups go through the same *registry.Context the C99 backend
// consults, so both backends agree on field order and enum payload shape.
func (e *Emitter) llvmType(t ast.TypeExpr) llvm.Type {
	switch v := t.(type) {
	case nil:
		return e.ctxLL.VoidType()
	case *ast.TypeNamed:
		return e.namedType(v.Name)
	case *ast.TypePointer:
		return llvm.PointerType(e.llvmType(v.Elem), 0)
	case *ast.TypeArray:
		return llvm.ArrayType(e.llvmType(v.Elem), int(v.Size))
	case *ast.TypeSlice:
		return e.sliceStructType(v.Elem)
	case *ast.TypeTuple:
		return e.tupleStructType(v.Elems)
	case *ast.TypeErrorUnion:
		return e.errUnionStructType(v.Payload)
	case *ast.TypeAtomic:
		return e.llvmType(v.Elem)
	case *ast.TypeFn:
		params := make([]llvm.Type, len(v.Params))
		for i, p := range v.Params {
			params[i] = e.llvmType(p)
		}
		return llvm.PointerType(llvm.FunctionType(e.llvmType(v.Return), params, false), 0)
	default:
		return e.ctxLL.Int32Type()
	}
}

// namedType resolves a base-type keyword, a registered struct, or a
// registered enum to its LLVM type, caching struct/enum StructType values
// so repeat references (parameters, fields, instantiations) share one
// llvm.Type identity — LLVM struct types compare by identity, not shape.
func (e *Emitter) namedType(name string) llvm.Type {
	switch name {
	case "i8", "u8", "byte", "bool":
		return e.ctxLL.Int8Type()
	case "i16", "u16":
		return e.ctxLL.Int16Type()
	case "i32", "u32":
		return e.ctxLL.Int32Type()
	case "i64", "u64":
		return e.ctxLL.Int64Type()
	case "usize":
		return e.usizeType()
	case "f32":
		return e.ctxLL.FloatType()
	case "f64":
		return e.ctxLL.DoubleType()
	case "void":
		return e.ctxLL.VoidType()
	}
	if st, ok := e.structTypes[name]; ok {
		return st
	}
	if decl, ok := e.ctx.StructTypes[name]; ok {
		return e.declareStructType(decl, name)
	}
	if et, ok := e.enumTypes[name]; ok {
		return et
	}
	if decl, ok := e.ctx.EnumTypes[name]; ok {
		return e.declareEnumType(decl)
	}
	// Unregistered name: treat as an opaque struct handle so a forward
	// reference (e.g. a self-referential pointer field) still typechecks
	// at the LLVM level; the real body is filled in once its StructDecl is
	// walked.
	st := e.ctxLL.StructCreateNamed(name)
	e.structTypes[name] = st
	return st
}

// declareStructType creates (or completes) the named LLVM struct type for
// decl, in field-declaration order — field index parity with the struct's
// source order is what GEP-based field access in expr.go relies on.
func (e *Emitter) declareStructType(decl *ast.StructDecl, name string) llvm.Type {
	if st, ok := e.structTypes[name]; ok && !st.IsStructOpaque() {
		return st
	}
	st, ok := e.structTypes[name]
	if !ok {
		st = e.ctxLL.StructCreateNamed(name)
		e.structTypes[name] = st
	}
	fields := make([]llvm.Type, len(decl.Fields))
	for i, f := range decl.Fields {
		fields[i] = e.llvmType(f.Type)
	}
	st.StructSetBody(fields, false)
	e.structFieldIndex[name] = fieldIndexOf(decl)
	return st
}

func fieldIndexOf(decl *ast.StructDecl) map[string]int {
	m := make(map[string]int, len(decl.Fields))
	for i, f := range decl.Fields {
		m[f.Name] = i
	}
	return m
}

// declareEnumType lowers an enum to LLVM. A unit-only enum is a plain i32
// tag; a payload-carrying enum lowers to { i32 tag, [N x i8] storage },
// where N is the largest payload's byte size, mirroring the C99 backend's
// tagged-union struct but using an opaque byte array in place of a C
// union (LLVM has no union type — a raw byte buffer plus bitcast-on-access
// is the standard substitute, the same technique Clang itself emits for a
// C union).
func (e *Emitter) declareEnumType(decl *ast.EnumDecl) llvm.Type {
	hasPayload := false
	maxBytes := 0
	for _, v := range decl.Variants {
		if len(v.Payload) > 0 {
			hasPayload = true
			sz := 0
			for _, p := range v.Payload {
				sz += approxByteSize(p, e.ctx.StructTypes)
			}
			if sz > maxBytes {
				maxBytes = sz
			}
		}
	}
	if !hasPayload {
		et := e.ctxLL.Int32Type()
		e.enumTypes[decl.Name] = et
		return et
	}
	st := e.ctxLL.StructCreateNamed(decl.Name)
	st.StructSetBody([]llvm.Type{
		e.ctxLL.Int32Type(),
		llvm.ArrayType(e.ctxLL.Int8Type(), maxBytes),
	}, false)
	e.enumTypes[decl.Name] = st
	return st
}

func approxByteSize(t ast.TypeExpr, structs map[string]*ast.StructDecl) int {
	named, ok := t.(*ast.TypeNamed)
	if !ok {
		return 8 // pointers, slices, etc: conservatively one word.
	}
	if sz, ok := primitiveByteSizes[named.Name]; ok {
		return sz
	}
	if decl, ok := structs[named.Name]; ok {
		sum := 0
		for _, f := range decl.Fields {
			sum += approxByteSize(f.Type, structs)
		}
		return sum
	}
	return 8
}

var primitiveByteSizes = map[string]int{
	"i8": 1, "u8": 1, "byte": 1, "bool": 1,
	"i16": 2, "u16": 2,
	"i32": 4, "u32": 4, "f32": 4,
	"i64": 8, "u64": 8, "f64": 8, "usize": 8,
}

// errTagType is the shared { i32 error_id, i1 has_error } shape every
// error-union instantiation embeds, matching the C99 backend's uya_err_tag.
func (e *Emitter) errTagType() llvm.Type {
	return e.ctxLL.StructType([]llvm.Type{e.ctxLL.Int32Type(), e.ctxLL.Int1Type()}, false)
}

func (e *Emitter) sliceStructType(elem ast.TypeExpr) llvm.Type {
	key := "slice:" + e.typeKey(elem)
	if st, ok := e.auxTypes[key]; ok {
		return st
	}
	st := e.ctxLL.StructType([]llvm.Type{
		llvm.PointerType(e.llvmType(elem), 0),
		e.ctxLL.Int64Type(),
	}, false)
	e.auxTypes[key] = st
	return st
}

func (e *Emitter) tupleStructType(elems []ast.TypeExpr) llvm.Type {
	parts := make([]llvm.Type, len(elems))
	key := "tuple:"
	for i, el := range elems {
		parts[i] = e.llvmType(el)
		key += e.typeKey(el) + ","
	}
	if st, ok := e.auxTypes[key]; ok {
		return st
	}
	st := e.ctxLL.StructType(parts, false)
	e.auxTypes[key] = st
	return st
}

func (e *Emitter) errUnionStructType(payload ast.TypeExpr) llvm.Type {
	key := "errunion:" + e.typeKey(payload)
	if st, ok := e.auxTypes[key]; ok {
		return st
	}
	st := e.ctxLL.StructType([]llvm.Type{e.errTagType(), e.llvmType(payload)}, false)
	e.auxTypes[key] = st
	return st
}

// typeKey renders a stable cache/mangling key for a type, used for
// auxiliary-struct memoization; distinct from mono.Mangle, which mangles
// generic instantiation names, not arbitrary composite types.
func (e *Emitter) typeKey(t ast.TypeExpr) string {
	switch v := t.(type) {
	case *ast.TypeNamed:
		return v.Name
	case *ast.TypePointer:
		return "*" + e.typeKey(v.Elem)
	case *ast.TypeSlice:
		return "[]" + e.typeKey(v.Elem)
	case *ast.TypeArray:
		return "[N]" + e.typeKey(v.Elem)
	case *ast.TypeTuple:
		s := "("
		for _, el := range v.Elems {
			s += e.typeKey(el) + ","
		}
		return s + ")"
	case *ast.TypeErrorUnion:
		return "!" + e.typeKey(v.Payload)
	default:
		return "?"
	}
}

// isLargeExternStruct mirrors the C99 backend's >16-byte extern-ABI rule:
// a struct crossing an `extern fn` boundary above that size passes by
// pointer instead of by value, matching the System V x86-64 classification
// boundary of two eightbytes.
func (e *Emitter) isLargeExternStruct(t ast.TypeExpr) bool {
	named, ok := t.(*ast.TypeNamed)
	if !ok {
		return false
	}
	decl, ok := e.ctx.StructTypes[named.Name]
	if !ok {
		return false
	}
	sum := 0
	for _, f := range decl.Fields {
		sum += approxByteSize(f.Type, e.ctx.StructTypes)
	}
	return sum > 16
}

// sysvPackedType classifies a struct ≤16 bytes crossing an `extern fn`
// boundary into the System V x86-64 register shape it is actually passed
// in: one eightbyte (eight bytes or fewer) packs into a single i64, two
// eightbytes (nine to sixteen bytes) pack into {i64, i64} — a two-`i32`
// struct collapses to one i64 register, a four-`i32` struct to two,
// grounded on original_source's extern-call packing (INTEGER-class fields
// only; this language's extern-facing structs are fixed-width integers).
// Returns ok=false for anything that isn't a small registered struct, so
// callers fall back to passing the struct's own LLVM type unchanged.
func (e *Emitter) sysvPackedType(t ast.TypeExpr) (llvm.Type, bool) {
	named, ok := t.(*ast.TypeNamed)
	if !ok {
		return llvm.Type{}, false
	}
	decl, ok := e.ctx.StructTypes[named.Name]
	if !ok {
		return llvm.Type{}, false
	}
	sum := 0
	for _, f := range decl.Fields {
		sum += approxByteSize(f.Type, e.ctx.StructTypes)
	}
	switch {
	case sum == 0 || sum > 16:
		return llvm.Type{}, false
	case sum <= 8:
		return e.ctxLL.Int64Type(), true
	default:
		return e.ctxLL.StructType([]llvm.Type{e.ctxLL.Int64Type(), e.ctxLL.Int64Type()}, false), true
	}
}
