package llvm

import (
	"github.com/uya-lang/uyac/internal/ast"

	llvm "tinygo.org/x/go-llvm"
)

// fnLLVMType builds the LLVM function type for decl. A struct return larger
// than 16 bytes goes through a hidden sret pointer parameter (the System V
// MEMORY class) for every function, extern or not; emitFnBody,
// applyParamNames and call all follow that same rule. The other rewrites
// apply only at an `extern fn` boundary (isExtern): a struct parameter
// larger than 16 bytes passes by pointer, and a struct of 16 bytes or fewer
// packs into the one- or two-i64-register shape sysvPackedType computes
// (the INTEGER class). Ordinary Uya-to-Uya parameters keep the struct's own
// LLVM type: both sides of the call are generated by this same backend, so
// there is nothing external to agree with.
func (e *Emitter) fnLLVMType(decl *ast.FnDecl, varargs bool, isExtern bool) llvm.Type {
	params := make([]llvm.Type, len(decl.Params))
	for i, p := range decl.Params {
		switch {
		case isExtern && e.isLargeExternStruct(p.Type):
			params[i] = llvm.PointerType(e.llvmType(p.Type), 0)
		case isExtern:
			if packed, ok := e.sysvPackedType(p.Type); ok {
				params[i] = packed
			} else {
				params[i] = e.llvmType(p.Type)
			}
		default:
			params[i] = e.llvmType(p.Type)
		}
	}
	ret := e.llvmType(decl.ReturnType)
	switch {
	case e.isLargeExternStruct(decl.ReturnType):
		// Large struct returns classify as sret: an extra pointer parameter
		// the callee writes through, returning void itself (System V
		// x86-64 MEMORY class).
		params = append([]llvm.Type{llvm.PointerType(ret, 0)}, params...)
		ret = e.ctxLL.VoidType()
	case isExtern:
		if packed, ok := e.sysvPackedType(decl.ReturnType); ok {
			ret = packed
		}
	}
	return llvm.FunctionType(ret, params, varargs)
}

func fnSymbolName(decl *ast.FnDecl) string {
	if decl.Name == "main" {
		return "uya_main"
	}
	return decl.Name
}

// declareFn adds decl's signature to the module without a body, so forward
// references (a call to a function defined later in source order) resolve
// against a real llvm.Value from the first pass over Emit.
func (e *Emitter) declareFn(decl *ast.FnDecl) {
	name := fnSymbolName(decl)
	if _, ok := e.functions[name]; ok {
		return
	}
	ft := e.fnLLVMType(decl, false, false)
	fn := llvm.AddFunction(e.mod, name, ft)
	e.applyParamNames(decl, fn)
	e.functions[name] = fn
}

// applyParamNames names LLVM's function parameters after the source
// parameter list, shifted by one if an sret pointer was prepended.
func (e *Emitter) applyParamNames(decl *ast.FnDecl, fn llvm.Value) {
	sretShift := 0
	if e.isLargeExternStruct(decl.ReturnType) {
		fn.Param(0).SetName("_uya_sret")
		sretShift = 1
	}
	for i, p := range decl.Params {
		fn.Param(i + sretShift).SetName(p.Name)
	}
}

// declareGlobal adds a module-scope `var`/`const` binding as an LLVM global.
// A constant-literal initializer lowers directly; anything else (a call, a
// struct literal referencing another global) zero-initializes and is left
// for a future init-function pass the driver does not yet build — module
// scope is for simple state in this language (spec §4.1), not arbitrary
// expressions.
func (e *Emitter) declareGlobal(decl *ast.VarDecl) {
	if _, ok := e.globals[decl.Name]; ok {
		return
	}
	ty := e.llvmType(decl.Type)
	g := llvm.AddGlobal(e.mod, ty, decl.Name)
	g.SetInitializer(e.constLiteral(decl.Value, ty))
	e.globals[decl.Name] = g
	e.globalTypes[decl.Name] = decl.Type
}

func (e *Emitter) constLiteral(ex ast.Expression, ty llvm.Type) llvm.Value {
	switch v := ex.(type) {
	case *ast.NumberLiteral:
		return llvm.ConstInt(ty, uint64(v.Value), true)
	case *ast.FloatLiteral:
		return llvm.ConstFloat(ty, v.Value)
	case *ast.BoolLiteral:
		b := uint64(0)
		if v.Value {
			b = 1
		}
		return llvm.ConstInt(ty, b, false)
	default:
		return llvm.ConstNull(ty)
	}
}

// declareExtern declares an `extern fn` prototype with no body — the
// linker resolves the symbol against a separately compiled object, the
// same FFI boundary the C99 backend's `extern` prototype crosses in text.
func (e *Emitter) declareExtern(decl *ast.ExternDecl) {
	if _, ok := e.functions[decl.Name]; ok {
		return
	}
	fnDecl := &ast.FnDecl{Span: decl.Span, Name: decl.Name, Params: decl.Params, ReturnType: decl.ReturnType}
	ft := e.fnLLVMType(fnDecl, decl.IsVarargs, true)
	fn := llvm.AddFunction(e.mod, decl.Name, ft)
	for i, p := range decl.Params {
		fn.Param(i).SetName(p.Name)
	}
	e.functions[decl.Name] = fn
}
