package c99

import (
	"strconv"
	"strings"

	"github.com/uya-lang/uyac/internal/ast"
	"github.com/uya-lang/uyac/internal/errors"
	"github.com/uya-lang/uyac/internal/mono"
	"github.com/uya-lang/uyac/internal/registry"
)

// Emitter lowers one checked program into C99 source text. It holds the
// mutable state a single emission pass needs: the shared declaration
// registry, the monomorphization engine (instantiations discovered while
// walking generic call sites are appended to its cache and emitted once
// at the end), an output buffer, and the auxiliary-type set collected on
// the fly so slice/tuple/error-union typedefs are only emitted for shapes
// the program actually uses.
type Emitter struct {
	ctx   *registry.Context
	mono  *mono.Engine
	diags *errors.Diagnostics

	body    strings.Builder
	auxSeen map[string]bool
	aux     strings.Builder

	tempCounter int
}

// NewEmitter constructs an Emitter against an already-registered context
// (registry.RegisterProgram must have run first so struct/enum/function
// lookups succeed while walking bodies).
func NewEmitter(ctx *registry.Context, engine *mono.Engine) *Emitter {
	return &Emitter{
		ctx:     ctx,
		mono:    engine,
		diags:   &errors.Diagnostics{},
		auxSeen: make(map[string]bool),
	}
}

func (e *Emitter) Diagnostics() *errors.Diagnostics { return e.diags }

// Emit renders the full translation unit for prog: preamble, aux typedefs,
// enum/struct definitions (including monomorphized instantiations), extern
// prototypes, function forward declarations, then function bodies.
func (e *Emitter) Emit(prog *ast.Program) string {
	for _, d := range prog.Decls {
		switch decl := d.(type) {
		case *ast.EnumDecl:
			e.emitEnum(decl)
		case *ast.StructDecl:
			if len(decl.TypeParams) == 0 {
				e.emitStruct(decl, decl.Name, nil)
			}
		}
	}
	for _, inst := range e.mono.StructInstantiations() {
		e.emitStruct(inst, inst.Name, nil)
	}

	for _, d := range prog.Decls {
		if ext, ok := d.(*ast.ExternDecl); ok {
			e.emitExternPrototype(ext)
		}
	}

	var fwd strings.Builder
	for _, d := range prog.Decls {
		switch decl := d.(type) {
		case *ast.FnDecl:
			if len(decl.TypeParams) == 0 {
				fwd.WriteString(e.fnSignature(decl) + ";\n")
			}
		case *ast.MethodBlock:
			for _, m := range decl.Methods {
				fwd.WriteString(e.fnSignature(methodAsFn(decl.TargetName, m)) + ";\n")
			}
		}
	}

	for _, d := range prog.Decls {
		switch decl := d.(type) {
		case *ast.FnDecl:
			if len(decl.TypeParams) == 0 {
				e.emitFn(decl)
			}
		case *ast.MethodBlock:
			for _, m := range decl.Methods {
				e.emitFn(methodAsFn(decl.TargetName, m))
			}
		case *ast.TestBlock:
			e.emitTestFn(decl)
		}
	}
	for _, inst := range e.mono.Instantiations() {
		fwd.WriteString(e.fnSignature(inst) + ";\n")
		e.emitFn(inst)
	}

	var out strings.Builder
	out.WriteString(preambleHeader)
	out.WriteString(e.aux.String())
	out.WriteString(fwd.String())
	out.WriteString(e.body.String())
	return out.String()
}

// methodAsFn renders a method as a free function named uya_<Struct>_<method>
// with the receiver spliced in as an explicit first `self` parameter (spec
// §4.3: methods lower to plain C functions, no hidden `this`).
func methodAsFn(structName string, m *ast.FnDecl) *ast.FnDecl {
	selfParam := &ast.Param{Name: "self", Type: &ast.TypePointer{Elem: &ast.TypeNamed{Name: structName}}}
	params := append([]*ast.Param{selfParam}, m.Params...)
	return &ast.FnDecl{
		Span: m.Span, Name: "uya_" + structName + "_" + m.Name,
		TypeParams: m.TypeParams, Params: params, ReturnType: m.ReturnType, Body: m.Body,
	}
}

func (e *Emitter) newTemp(prefix string) string {
	e.tempCounter++
	return prefix + "_" + strconv.Itoa(e.tempCounter)
}

// registerAux ensures the typedef for name is emitted exactly once, calling
// build to render it the first time name is seen.
func (e *Emitter) registerAux(name string, build func() string) string {
	if !e.auxSeen[name] {
		e.auxSeen[name] = true
		e.aux.WriteString(build())
	}
	return name
}

func (e *Emitter) sliceTypeName(elem ast.TypeExpr) string {
	name := "uya_slice_" + sanitize(e.cName(elem))
	return e.registerAux(name, func() string { return sliceTypedef(name, e.cName(elem)) })
}

func (e *Emitter) errUnionTypeName(payload ast.TypeExpr) string {
	name := "uya_errunion_" + sanitize(e.cName(payload))
	return e.registerAux(name, func() string { return errUnionTypedef(name, e.cName(payload)) })
}

func (e *Emitter) tupleTypeName(elems []ast.TypeExpr) string {
	parts := make([]string, len(elems))
	for i, el := range elems {
		parts[i] = e.cName(el)
	}
	name := "uya_tuple_" + sanitize(strings.Join(parts, "_"))
	return e.registerAux(name, func() string { return tupleTypedef(name, parts) })
}
