package llvm

import (
	"github.com/uya-lang/uyac/internal/ast"
	"github.com/uya-lang/uyac/internal/errors"
	"github.com/uya-lang/uyac/internal/mono"
	"github.com/uya-lang/uyac/internal/registry"

	llvm "tinygo.org/x/go-llvm"
)

// Emitter lowers one checked program into an llvm.Module. Unlike the C99
// backend's single strings.Builder, this backend accumulates into the
// LLVM context's own module object via the C API bindings; Emit returns
// the finished module's textual IR (m.String()) so callers — the driver
// and this package's tests — never need to hold a live llvm.Module or
// dispose it themselves.
type Emitter struct {
	ctx   *registry.Context
	mono  *mono.Engine
	diags *errors.Diagnostics

	ctxLL  llvm.Context
	mod    llvm.Module
	b      llvm.Builder
	target targetLayout

	structTypes      map[string]llvm.Type
	structFieldIndex map[string]map[string]int
	enumTypes        map[string]llvm.Type
	auxTypes         map[string]llvm.Type

	functions   map[string]llvm.Value
	globals     map[string]llvm.Value
	globalTypes map[string]ast.TypeExpr
}

// NewEmitter constructs an Emitter against an already-registered context
// and a fresh LLVM context/module/builder triple, named moduleName (the
// source file's base name, matching GenLLVM's module-naming convention).
func NewEmitter(ctx *registry.Context, engine *mono.Engine, moduleName string) *Emitter {
	ctxLL := llvm.NewContext()
	mod := ctxLL.NewModule(moduleName)
	e := &Emitter{
		ctx:   ctx,
		mono:  engine,
		diags: &errors.Diagnostics{},

		ctxLL: ctxLL,
		mod:   mod,
		b:     ctxLL.NewBuilder(),

		structTypes:      make(map[string]llvm.Type),
		structFieldIndex: make(map[string]map[string]int),
		enumTypes:        make(map[string]llvm.Type),
		auxTypes:         make(map[string]llvm.Type),
		functions:        make(map[string]llvm.Value),
		globals:          make(map[string]llvm.Value),
		globalTypes:      make(map[string]ast.TypeExpr),
	}
	e.target = configureTarget(mod, defaultTriple)
	return e
}

func (e *Emitter) Diagnostics() *errors.Diagnostics { return e.diags }

// Dispose releases the underlying LLVM context, module and builder. Emit
// already extracts the IR text before returning, so callers that only want
// the textual module should call Dispose immediately afterward; callers
// that need the live llvm.Module (e.g. to hand to a TargetMachine for
// object-code emission) should skip Dispose until they are done with it.
func (e *Emitter) Dispose() {
	e.b.Dispose()
	e.mod.Dispose()
	e.ctxLL.Dispose()
}

// Module returns the live llvm.Module built by Emit, for callers that go
// on to run a TargetMachine pass (spec §5's object-file output path) —
// the driver is the only expected caller of this; tests work from Emit's
// returned IR text instead.
func (e *Emitter) Module() llvm.Module { return e.mod }

// Emit renders the full translation unit: struct/enum type declarations
// (registered lazily via llvmType as referenced, then forced here for
// every top-level decl so an unreferenced struct still gets a type),
// monomorphized instantiations, extern declarations, function signatures,
// then function bodies — the same ordering GenLLVM uses (headers before
// bodies, so a call to a function defined later in the file still resolves
// against a known llvm.Value).
func (e *Emitter) Emit(prog *ast.Program) string {
	for _, d := range prog.Decls {
		switch decl := d.(type) {
		case *ast.StructDecl:
			if len(decl.TypeParams) == 0 {
				e.declareStructType(decl, decl.Name)
			}
		case *ast.EnumDecl:
			e.declareEnumType(decl)
		}
	}
	for _, inst := range e.mono.StructInstantiations() {
		e.declareStructType(inst, inst.Name)
	}

	for _, d := range prog.Decls {
		if ext, ok := d.(*ast.ExternDecl); ok {
			e.declareExtern(ext)
		}
	}

	for _, d := range prog.Decls {
		if g, ok := d.(*ast.VarDecl); ok {
			e.declareGlobal(g)
		}
	}

	for _, d := range prog.Decls {
		switch decl := d.(type) {
		case *ast.FnDecl:
			if len(decl.TypeParams) == 0 {
				e.declareFn(decl)
			}
		case *ast.MethodBlock:
			for _, m := range decl.Methods {
				e.declareFn(methodAsFn(decl.TargetName, m))
			}
		case *ast.TestBlock:
			e.declareFn(testAsFn(decl))
		}
	}
	for _, inst := range e.mono.Instantiations() {
		e.declareFn(inst)
	}

	for _, d := range prog.Decls {
		switch decl := d.(type) {
		case *ast.FnDecl:
			if len(decl.TypeParams) == 0 {
				e.emitFnBody(decl)
			}
		case *ast.MethodBlock:
			for _, m := range decl.Methods {
				e.emitFnBody(methodAsFn(decl.TargetName, m))
			}
		case *ast.TestBlock:
			e.emitFnBody(testAsFn(decl))
		}
	}
	for _, inst := range e.mono.Instantiations() {
		e.emitFnBody(inst)
	}

	return e.mod.String()
}

func methodAsFn(structName string, m *ast.FnDecl) *ast.FnDecl {
	selfParam := &ast.Param{Name: "self", Type: &ast.TypePointer{Elem: &ast.TypeNamed{Name: structName}}}
	params := append([]*ast.Param{selfParam}, m.Params...)
	return &ast.FnDecl{
		Span: m.Span, Name: "uya_" + structName + "_" + m.Name,
		TypeParams: m.TypeParams, Params: params, ReturnType: m.ReturnType, Body: m.Body,
	}
}

func testAsFn(decl *ast.TestBlock) *ast.FnDecl {
	return &ast.FnDecl{Span: decl.Span, Name: "uya_test_" + sanitizeIdent(decl.Name), Body: decl.Body}
}

func sanitizeIdent(s string) string {
	out := []byte(s)
	for i, r := range out {
		ok := (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') || r == '_'
		if !ok {
			out[i] = '_'
		}
	}
	return string(out)
}
