package c99

import (
	"strconv"
	"strings"

	"github.com/uya-lang/uyac/internal/ast"
)

// emitStruct renders a `struct Name { ... };` definition under name, so a
// monomorphized instantiation (already carrying its mangled name in
// decl.Name, per internal/mono's Mangle) reuses the same field-emission
// logic as a plain struct.
func (e *Emitter) emitStruct(decl *ast.StructDecl, name string, _ []ast.TypeExpr) {
	var sb strings.Builder
	sb.WriteString("struct ")
	sb.WriteString(name)
	sb.WriteString(" {\n")
	for _, f := range decl.Fields {
		sb.WriteString("    ")
		sb.WriteString(e.CDecl(f.Type, f.Name))
		sb.WriteString(";\n")
	}
	sb.WriteString("};\n\n")
	e.aux.WriteString(sb.String())
}

// emitEnum renders a discriminated union: a pure-unit enum becomes a plain
// C enum, but any variant carrying a payload forces the tagged-struct form
// (spec §4.2's "discriminated-union handling"), since C has no sum types.
func (e *Emitter) emitEnum(decl *ast.EnumDecl) {
	hasPayload := false
	for _, v := range decl.Variants {
		if len(v.Payload) > 0 {
			hasPayload = true
			break
		}
	}
	var sb strings.Builder
	if !hasPayload {
		sb.WriteString("typedef enum {\n")
		for _, v := range decl.Variants {
			sb.WriteString("    " + decl.Name + "_" + v.Name + ",\n")
		}
		sb.WriteString("} " + decl.Name + ";\n\n")
		e.aux.WriteString(sb.String())
		return
	}

	sb.WriteString("typedef enum {\n")
	for _, v := range decl.Variants {
		sb.WriteString("    " + decl.Name + "_Tag_" + v.Name + ",\n")
	}
	sb.WriteString("} " + decl.Name + "_Tag;\n\n")
	sb.WriteString("typedef struct {\n    " + decl.Name + "_Tag tag;\n    union {\n")
	for _, v := range decl.Variants {
		if len(v.Payload) == 0 {
			continue
		}
		sb.WriteString("        struct {\n")
		for i, p := range v.Payload {
			sb.WriteString("            " + e.CDecl(p, "f"+strconv.Itoa(i)) + ";\n")
		}
		sb.WriteString("        } " + v.Name + ";\n")
	}
	sb.WriteString("    } as;\n} " + decl.Name + ";\n\n")
	e.aux.WriteString(sb.String())
}

// fnSignature renders a function's C prototype (no trailing semicolon or
// body braces), applying the extern-ABI large-struct-by-pointer rewrite
// (spec §4.3) to any parameter or return type that qualifies — this rule
// applies uniformly to regular functions too, since a monomorphized or
// method function can still cross into hand-written C via an extern
// callback table.
func (e *Emitter) fnSignature(decl *ast.FnDecl) string {
	name := decl.Name
	if name == "main" {
		name = "uya_main"
	}
	params := make([]string, 0, len(decl.Params))
	for _, p := range decl.Params {
		params = append(params, e.paramDecl(p))
	}
	if len(params) == 0 {
		params = append(params, "void")
	}
	ret := e.returnTypeC(decl.ReturnType)
	return ret + " " + name + "(" + strings.Join(params, ", ") + ")"
}

func (e *Emitter) paramDecl(p *ast.Param) string {
	if IsLargeExternStruct(p.Type, e.ctx) {
		return e.CDecl(&ast.TypePointer{Elem: p.Type}, p.Name)
	}
	return e.CDecl(e.lowerParamType(p.Type), p.Name)
}

// lowerParamType rewrites error-union and slice parameter/return types to
// their registered auxiliary struct name so CDecl can render them as a
// plain named type.
func (e *Emitter) lowerParamType(t ast.TypeExpr) ast.TypeExpr {
	switch v := t.(type) {
	case *ast.TypeErrorUnion:
		return &ast.TypeNamed{Name: e.errUnionTypeName(v.Payload)}
	case *ast.TypeSlice:
		return &ast.TypeNamed{Name: e.sliceTypeName(v.Elem)}
	case *ast.TypeTuple:
		return &ast.TypeNamed{Name: e.tupleTypeName(v.Elems)}
	default:
		return t
	}
}

func (e *Emitter) returnTypeC(t ast.TypeExpr) string {
	if t == nil {
		return "void"
	}
	if IsLargeExternStruct(t, e.ctx) {
		return e.cName(t) + " *"
	}
	return e.cName(e.lowerParamType(t))
}

// emitExternPrototype declares an `extern fn` as a plain C prototype with
// no body; varargs map onto C's own `...` (spec §4.3's FFI boundary is a
// direct passthrough once the large-struct rule is applied).
func (e *Emitter) emitExternPrototype(decl *ast.ExternDecl) {
	params := make([]string, 0, len(decl.Params)+1)
	for _, p := range decl.Params {
		params = append(params, e.paramDecl(p))
	}
	if decl.IsVarargs {
		params = append(params, "...")
	}
	if len(params) == 0 {
		params = append(params, "void")
	}
	ret := e.returnTypeC(decl.ReturnType)
	e.aux.WriteString("extern " + ret + " " + decl.Name + "(" + strings.Join(params, ", ") + ");\n")
}

// emitFn renders one function's full definition, including the by-value
// fixed-array parameter copy (spec §4.3: C array parameters decay to
// pointers, so a by-value semantics requires an explicit memcpy into a
// local copy before the body runs) and the implicit `_uya_ret` slot used
// by try/catch/defer/errdefer lowering (see stmt.go).
func (e *Emitter) emitFn(decl *ast.FnDecl) {
	e.body.WriteString(e.fnSignature(decl))
	e.body.WriteString(" {\n")

	fc := newFnCtx(decl)
	for _, p := range decl.Params {
		if arr, ok := p.Type.(*ast.TypeArray); ok {
			local := "_uya_arg_" + p.Name
			e.body.WriteString("    " + e.CDecl(arr, local) + ";\n")
			e.body.WriteString("    memcpy(" + local + ", " + p.Name + ", sizeof(" + local + "));\n")
			fc.renames[p.Name] = local
		}
	}

	e.emitBlockBody(decl.Body, fc)
	e.body.WriteString("}\n\n")
}

// emitTestFn lowers a `test "name" { ... }` block to a void function named
// after the sanitized test name, so the driver's -test mode can enumerate
// and call every uya_test_* symbol (spec §6).
func (e *Emitter) emitTestFn(decl *ast.TestBlock) {
	fn := &ast.FnDecl{Span: decl.Span, Name: "uya_test_" + sanitizeIdent(decl.Name), Body: decl.Body}
	e.emitFn(fn)
}

func sanitizeIdent(s string) string {
	return strings.Map(func(r rune) rune {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') || r == '_' {
			return r
		}
		return '_'
	}, s)
}
