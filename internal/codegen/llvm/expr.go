package llvm

import (
	"github.com/uya-lang/uyac/internal/ast"

	llvm "tinygo.org/x/go-llvm"
)

// expr lowers one expression to its LLVM value. Forms that need control
// flow (short-circuit &&/||, try/catch at statement position) build basic
// blocks directly against e.b's current insertion point and leave the
// builder positioned at the merge block before returning, the same
// contract every statement-emitting method in stmt.go relies on.
func (e *Emitter) expr(ex ast.Expression, fc *fnCtx) llvm.Value {
	switch v := ex.(type) {
	case *ast.Identifier:
		if slot, ok := fc.locals[v.Name]; ok {
			return e.b.CreateLoad(e.allocatedType(v.Name, fc), slot, "")
		}
		if fn, ok := e.functions[v.Name]; ok {
			return fn
		}
		if g, ok := e.globals[v.Name]; ok {
			return e.b.CreateLoad(g.GlobalValueType(), g, "")
		}
		return llvm.ConstInt(e.ctxLL.Int32Type(), 0, false)

	case *ast.NumberLiteral:
		return llvm.ConstInt(e.numericTypeOf(ex), uint64(v.Value), true)

	case *ast.FloatLiteral:
		return llvm.ConstFloat(e.ctxLL.DoubleType(), v.Value)

	case *ast.BoolLiteral:
		b := uint64(0)
		if v.Value {
			b = 1
		}
		return llvm.ConstInt(e.ctxLL.Int1Type(), b, false)

	case *ast.StringLiteral:
		return e.b.CreateGlobalStringPtr(v.Value, "")

	case *ast.StringInterpolation:
		return e.interpolate(v, fc)

	case *ast.UnaryExpression:
		return e.unary(v, fc)

	case *ast.BinaryExpression:
		return e.binary(v, fc)

	case *ast.Call:
		return e.call(v, fc)

	case *ast.MemberAccess:
		ptr := e.lvalue(v, fc)
		return e.b.CreateLoad(e.pointeeType(v, fc), ptr, "")

	case *ast.ArrayAccess:
		ptr := e.lvalue(v, fc)
		return e.b.CreateLoad(e.pointeeType(v, fc), ptr, "")

	case *ast.Subscript:
		return e.expr(v.ToCall(), fc)

	case *ast.StructInit:
		return e.structInit(v, fc)

	case *ast.ArrayLiteral:
		return e.arrayLiteral(v, fc)

	case *ast.TupleLiteral:
		return e.tupleLiteral(v, fc)

	case *ast.Match:
		return e.matchAsSelectChain(v, fc)

	case *ast.CatchExpr:
		return e.catchInto(v, fc)

	case *ast.Cast:
		return e.cast(v, fc)

	case *ast.Sizeof:
		return llvm.SizeOf(e.llvmType(v.Target))

	case *ast.Alignof:
		return llvm.AlignOf(e.llvmType(v.Target))

	case *ast.Len:
		slice := e.expr(v.Expr, fc)
		return e.b.CreateExtractValue(slice, 1, "")

	case *ast.Syscall:
		return e.syscall(v, fc)

	case *ast.ErrorValue:
		// Bare error-value position (anywhere but a return, where
		// wrapReturnValue builds the full error union instead):
		// degrades to just the error id, since there is no error-union shape
		// to wrap into without knowing the enclosing !T payload type.
		return llvm.ConstInt(e.ctxLL.Int32Type(), uint64(e.ctx.ErrorID(v.Name)), false)

	default:
		return llvm.ConstInt(e.ctxLL.Int32Type(), 0, false)
	}
}

func (e *Emitter) allocatedType(name string, fc *fnCtx) llvm.Type {
	if t, ok := fc.localLLVM[name]; ok {
		return t
	}
	if t, ok := fc.localTypes[name]; ok && t != nil {
		return e.llvmType(t)
	}
	return e.ctxLL.Int32Type()
}

// numericTypeOf guesses an integer literal's LLVM type from its resolved
// type when a resolution pass has set one, defaulting to i32 (spec's
// default integer width) otherwise — mirrors the C99 backend's graceful
// degrade when resolution hasn't run yet.
func (e *Emitter) numericTypeOf(ex ast.Expression) llvm.Type {
	if named, ok := ex.GetResolvedType().(*ast.TypeNamed); ok {
		return e.namedType(named.Name)
	}
	return e.ctxLL.Int32Type()
}

func (e *Emitter) unary(v *ast.UnaryExpression, fc *fnCtx) llvm.Value {
	switch v.Operator {
	case "-":
		operand := e.expr(v.Operand, fc)
		if operand.Type().TypeKind() == llvm.FloatTypeKind || operand.Type().TypeKind() == llvm.DoubleTypeKind {
			return e.b.CreateFNeg(operand, "")
		}
		return e.b.CreateNeg(operand, "")
	case "!":
		return e.b.CreateNot(e.expr(v.Operand, fc), "")
	case "&":
		return e.lvalue(v.Operand, fc)
	case "try":
		// Only reachable outside a return/var/assign position (stmt.go
		// intercepts those). No propagation target exists here, so this
		// degrades to the payload extraction only.
		tmp := e.expr(v.Operand, fc)
		return e.b.CreateExtractValue(tmp, 1, "")
	default:
		return e.expr(v.Operand, fc)
	}
}

func (e *Emitter) binary(v *ast.BinaryExpression, fc *fnCtx) llvm.Value {
	switch v.Operator {
	case "&&":
		return e.logicalAnd(v.Left, v.Right, fc)
	case "||":
		return e.logicalOr(v.Left, v.Right, fc)
	}
	if helper, ok := satOps[v.Operator]; ok {
		l, r := e.expr(v.Left, fc), e.expr(v.Right, fc)
		return e.callIntrinsic(helper, l, r)
	}
	if v.Operator == "*%" {
		l, r := e.expr(v.Left, fc), e.expr(v.Right, fc)
		ty := l.Type()
		w := ty.IntTypeWidth()
		wide := e.ctxLL.IntType(2 * w)
		p := e.b.CreateMul(e.b.CreateSExt(l, wide, ""), e.b.CreateSExt(r, wide, ""), "")
		maxV := llvm.ConstInt(wide, uint64(1)<<uint(w-1)-1, false)
		minV := llvm.ConstInt(wide, uint64(-(int64(1) << uint(w-1))), true)
		p = e.b.CreateSelect(e.b.CreateICmp(llvm.IntSGT, p, maxV, ""), maxV, p, "")
		p = e.b.CreateSelect(e.b.CreateICmp(llvm.IntSLT, p, minV, ""), minV, p, "")
		return e.b.CreateTrunc(p, ty, "")
	}
	if v.Operator == "==" || v.Operator == "!=" {
		if named, ok := v.Left.GetResolvedType().(*ast.TypeNamed); ok {
			if _, ok := e.ctx.StructTypes[named.Name]; ok {
				l, r := e.expr(v.Left, fc), e.expr(v.Right, fc)
				eq := e.structuralEqual(l, r, named)
				if v.Operator == "!=" {
					return e.b.CreateNot(eq, "")
				}
				return eq
			}
		}
	}
	l, r := e.expr(v.Left, fc), e.expr(v.Right, fc)
	return e.applyBinOp(v.Operator, l, r)
}

// satOps maps the saturating operator spellings to the real LLVM
// saturating-arithmetic intrinsics (llvm.sadd.sat.*/llvm.ssub.sat.*). LLVM
// has no plain multiply-saturate intrinsic, so binary composes `*%` from a
// double-width multiply plus a clamp instead — wrapping arithmetic
// ('+|'/'-|'/'*|') needs no helper at all, since plain LLVM add/sub/mul
// already wrap on overflow by default (no nsw/nuw flags are ever set by
// this backend), unlike C99 where wraparound needs an explicit uint64
// round-trip.
var satOps = map[string]string{
	"+%": "llvm.sadd.sat",
	"-%": "llvm.ssub.sat",
}

func (e *Emitter) callIntrinsic(name string, args ...llvm.Value) llvm.Value {
	ty := args[0].Type()
	full := name + "." + typeSuffix(ty)
	fn := e.mod.NamedFunction(full)
	if fn.IsNil() {
		argTypes := make([]llvm.Type, len(args))
		for i, a := range args {
			argTypes[i] = a.Type()
		}
		ft := llvm.FunctionType(ty, argTypes, false)
		fn = llvm.AddFunction(e.mod, full, ft)
	}
	return e.b.CreateCall(fn.GlobalValueType(), fn, args, "")
}

func typeSuffix(ty llvm.Type) string {
	switch ty.TypeKind() {
	case llvm.IntegerTypeKind:
		switch ty.IntTypeWidth() {
		case 8:
			return "i8"
		case 16:
			return "i16"
		case 32:
			return "i32"
		case 64:
			return "i64"
		}
	}
	return "i32"
}

func (e *Emitter) applyBinOp(op string, l, r llvm.Value) llvm.Value {
	isFloat := l.Type().TypeKind() == llvm.FloatTypeKind || l.Type().TypeKind() == llvm.DoubleTypeKind
	switch op {
	case "+", "+|":
		if isFloat {
			return e.b.CreateFAdd(l, r, "")
		}
		return e.b.CreateAdd(l, r, "")
	case "-", "-|":
		if isFloat {
			return e.b.CreateFSub(l, r, "")
		}
		return e.b.CreateSub(l, r, "")
	case "*", "*|":
		if isFloat {
			return e.b.CreateFMul(l, r, "")
		}
		return e.b.CreateMul(l, r, "")
	case "/":
		if isFloat {
			return e.b.CreateFDiv(l, r, "")
		}
		return e.b.CreateSDiv(l, r, "")
	case "%":
		if isFloat {
			return e.b.CreateFRem(l, r, "")
		}
		return e.b.CreateSRem(l, r, "")
	case "&":
		return e.b.CreateAnd(l, r, "")
	case "|":
		return e.b.CreateOr(l, r, "")
	case "^":
		return e.b.CreateXor(l, r, "")
	case "<<":
		return e.b.CreateShl(l, r, "")
	case ">>":
		return e.b.CreateAShr(l, r, "")
	case "==":
		if isFloat {
			return e.b.CreateFCmp(llvm.FloatOEQ, l, r, "")
		}
		return e.b.CreateICmp(llvm.IntEQ, l, r, "")
	case "!=":
		if isFloat {
			return e.b.CreateFCmp(llvm.FloatONE, l, r, "")
		}
		return e.b.CreateICmp(llvm.IntNE, l, r, "")
	case "<":
		if isFloat {
			return e.b.CreateFCmp(llvm.FloatOLT, l, r, "")
		}
		return e.b.CreateICmp(llvm.IntSLT, l, r, "")
	case "<=":
		if isFloat {
			return e.b.CreateFCmp(llvm.FloatOLE, l, r, "")
		}
		return e.b.CreateICmp(llvm.IntSLE, l, r, "")
	case ">":
		if isFloat {
			return e.b.CreateFCmp(llvm.FloatOGT, l, r, "")
		}
		return e.b.CreateICmp(llvm.IntSGT, l, r, "")
	case ">=":
		if isFloat {
			return e.b.CreateFCmp(llvm.FloatOGE, l, r, "")
		}
		return e.b.CreateICmp(llvm.IntSGE, l, r, "")
	default:
		return l
	}
}

// logicalAnd/logicalOr implement short-circuit evaluation via explicit
// basic blocks and a phi node, since naively evaluating both operands
// (the way a plain `and`/`or` instruction would) would run the
// right-hand side's side effects even when the left side already decides
// the result.
func (e *Emitter) logicalAnd(left, right ast.Expression, fc *fnCtx) llvm.Value {
	lv := e.expr(left, fc)
	startBB := e.b.GetInsertBlock()
	rhsBB := llvm.AddBasicBlock(fc.fn, "and.rhs")
	mergeBB := llvm.AddBasicBlock(fc.fn, "and.end")
	e.b.CreateCondBr(lv, rhsBB, mergeBB)

	e.b.SetInsertPointAtEnd(rhsBB)
	rv := e.expr(right, fc)
	rhsEndBB := e.b.GetInsertBlock()
	e.b.CreateBr(mergeBB)

	e.b.SetInsertPointAtEnd(mergeBB)
	phi := e.b.CreatePHI(e.ctxLL.Int1Type(), "and.result")
	phi.AddIncoming(
		[]llvm.Value{llvm.ConstInt(e.ctxLL.Int1Type(), 0, false), rv},
		[]llvm.BasicBlock{startBB, rhsEndBB})
	return phi
}

func (e *Emitter) logicalOr(left, right ast.Expression, fc *fnCtx) llvm.Value {
	lv := e.expr(left, fc)
	startBB := e.b.GetInsertBlock()
	rhsBB := llvm.AddBasicBlock(fc.fn, "or.rhs")
	mergeBB := llvm.AddBasicBlock(fc.fn, "or.end")
	e.b.CreateCondBr(lv, mergeBB, rhsBB)

	e.b.SetInsertPointAtEnd(rhsBB)
	rv := e.expr(right, fc)
	rhsEndBB := e.b.GetInsertBlock()
	e.b.CreateBr(mergeBB)

	e.b.SetInsertPointAtEnd(mergeBB)
	phi := e.b.CreatePHI(e.ctxLL.Int1Type(), "or.result")
	phi.AddIncoming(
		[]llvm.Value{llvm.ConstInt(e.ctxLL.Int1Type(), 1, false), rv},
		[]llvm.BasicBlock{startBB, rhsEndBB})
	return phi
}

// structuralEqual folds field-by-field equality into a single i1 via AND
// reduction, recursing into nested structs — the LLVM-native counterpart
// to the C99 backend's memcmp-based struct equality (spec §4.1), since
// LLVM aggregates have no direct equality instruction.
func (e *Emitter) structuralEqual(l, r llvm.Value, named *ast.TypeNamed) llvm.Value {
	decl, ok := e.ctx.StructTypes[named.Name]
	if !ok {
		return e.b.CreateICmp(llvm.IntEQ, l, r, "")
	}
	var acc llvm.Value
	for i, f := range decl.Fields {
		lf := e.b.CreateExtractValue(l, i, "")
		rf := e.b.CreateExtractValue(r, i, "")
		var eq llvm.Value
		if fnamed, ok := f.Type.(*ast.TypeNamed); ok {
			if _, isStruct := e.ctx.StructTypes[fnamed.Name]; isStruct {
				eq = e.structuralEqual(lf, rf, fnamed)
			}
		}
		if eq.IsNil() {
			eq = e.applyBinOp("==", lf, rf)
		}
		if acc.IsNil() {
			acc = eq
		} else {
			acc = e.b.CreateAnd(acc, eq, "")
		}
	}
	if acc.IsNil() {
		return llvm.ConstInt(e.ctxLL.Int1Type(), 1, false)
	}
	return acc
}

// call lowers a Call, applying the sret-by-pointer and method-mangling
// rules shared with the C99 backend's calleeName/paramDecl: a method call
// obj.m(args) resolves to uya_<Struct>_m(&obj, args), and a call whose
// callee's declared return type is a >16-byte extern struct allocates a
// stack slot for the caller to pass as the hidden sret argument (the
// "call lowering with stack-slot spilling" the System V x86-64 large
// aggregate return convention requires). A call into an `extern fn` with
// a small (≤16-byte) struct argument or return additionally packs/unpacks
// through the one- or two-i64 register shape fnLLVMType declared the
// callee with, since the callee's signature no longer has that struct's
// own LLVM type once isExtern packing applied.
func (e *Emitter) call(v *ast.Call, fc *fnCtx) llvm.Value {
	fn, retType, selfArg := e.resolveCallee(v, fc)
	if fn.IsNil() {
		return llvm.ConstInt(e.ctxLL.Int32Type(), 0, false)
	}
	extern, isExtern := e.externDeclFor(v)

	args := make([]llvm.Value, 0, len(v.Args)+2)
	var sretSlot llvm.Value
	if retType != nil && e.isLargeExternStruct(retType) {
		sretSlot = e.b.CreateAlloca(e.llvmType(retType), "_uya_sret_arg")
		args = append(args, sretSlot)
	}
	if !selfArg.IsNil() {
		args = append(args, selfArg)
	}
	for i, a := range v.Args {
		val := e.expr(a, fc)
		if isExtern && i < len(extern.Params) {
			val = e.packExternArg(val, extern.Params[i].Type)
		}
		args = append(args, val)
	}

	call := e.b.CreateCall(fn.GlobalValueType(), fn, args, "")
	if !sretSlot.IsNil() {
		return e.b.CreateLoad(e.llvmType(retType), sretSlot, "")
	}
	if isExtern {
		if packed, ok := e.sysvPackedType(retType); ok {
			return e.unpackExternResult(call, packed, retType)
		}
	}
	return call
}

// externDeclFor returns the *ast.ExternDecl a call targets, if its callee
// is a plain identifier naming a registered `extern fn` — the declared
// parameter types this call's arguments get packed against.
func (e *Emitter) externDeclFor(v *ast.Call) (*ast.ExternDecl, bool) {
	id, ok := v.Callee.(*ast.Identifier)
	if !ok {
		return nil, false
	}
	decl, ok := e.ctx.Externs[id.Name]
	return decl, ok
}

// packExternArg rewrites a small-struct argument into the System V
// eightbyte-packed register value an extern C function's declared
// parameter type expects: round-trip the struct through a stack slot,
// reinterpret that memory as the packed integer type, and load it back.
func (e *Emitter) packExternArg(val llvm.Value, paramType ast.TypeExpr) llvm.Value {
	packed, ok := e.sysvPackedType(paramType)
	if !ok {
		return val
	}
	slot := e.b.CreateAlloca(val.Type(), "_uya_abi_arg")
	e.b.CreateStore(val, slot)
	ptr := e.b.CreateBitCast(slot, llvm.PointerType(packed, 0), "")
	return e.b.CreateLoad(packed, ptr, "")
}

// unpackExternResult reverses packExternArg for a small-struct return
// value: the callee produced packed register value callResult shaped
// like packed, and this rebuilds the real struct type through the same
// stack-slot round-trip before any downstream code sees a struct-shaped
// llvm.Value.
func (e *Emitter) unpackExternResult(callResult llvm.Value, packed llvm.Type, structType ast.TypeExpr) llvm.Value {
	realTy := e.llvmType(structType)
	slot := e.b.CreateAlloca(realTy, "_uya_abi_ret")
	ptr := e.b.CreateBitCast(slot, llvm.PointerType(packed, 0), "")
	e.b.CreateStore(callResult, ptr)
	return e.b.CreateLoad(realTy, slot, "")
}

// resolveCallee finds the llvm.Value for a call's target, its declared
// return type (for the sret check above), and — for a method call — the
// address of the receiver to splice in as the first argument.
func (e *Emitter) resolveCallee(v *ast.Call, fc *fnCtx) (llvm.Value, ast.TypeExpr, llvm.Value) {
	if ma, ok := v.Callee.(*ast.MemberAccess); ok {
		if named, ok := ma.Object.GetResolvedType().(*ast.TypeNamed); ok {
			symbol := "uya_" + named.Name + "_" + ma.Member
			if fn, ok := e.functions[symbol]; ok {
				self := e.lvalue(ma.Object, fc)
				if decl, ok := e.ctx.Functions[symbol]; ok {
					return fn, decl.ReturnType, self
				}
				return fn, nil, self
			}
		}
	}
	if id, ok := v.Callee.(*ast.Identifier); ok {
		symbol := id.Name
		if symbol == "main" {
			symbol = "uya_main"
		}
		if fn, ok := e.functions[symbol]; ok {
			if decl, ok := e.ctx.Functions[id.Name]; ok {
				return fn, decl.ReturnType, llvm.Value{}
			}
			if decl, ok := e.ctx.Externs[id.Name]; ok {
				return fn, decl.ReturnType, llvm.Value{}
			}
			return fn, nil, llvm.Value{}
		}
	}
	return llvm.Value{}, nil, llvm.Value{}
}

func (e *Emitter) structInit(v *ast.StructInit, fc *fnCtx) llvm.Value {
	ty := e.namedType(v.Name)
	idx := e.structFieldIndex[v.Name]
	val := llvm.ConstNull(ty)
	for _, f := range v.Fields {
		i, ok := idx[f.Name]
		if !ok {
			continue
		}
		val = e.b.CreateInsertValue(val, e.expr(f.Value, fc), i, "")
	}
	return val
}

func (e *Emitter) arrayLiteral(v *ast.ArrayLiteral, fc *fnCtx) llvm.Value {
	if len(v.Elems) == 0 {
		return llvm.Value{}
	}
	elemTy := e.expr(v.Elems[0], fc).Type()
	arrTy := llvm.ArrayType(elemTy, len(v.Elems))
	val := llvm.ConstNull(arrTy)
	for i, el := range v.Elems {
		val = e.b.CreateInsertValue(val, e.expr(el, fc), i, "")
	}
	return val
}

func (e *Emitter) tupleLiteral(v *ast.TupleLiteral, fc *fnCtx) llvm.Value {
	parts := make([]llvm.Value, len(v.Elems))
	types := make([]llvm.Type, len(v.Elems))
	for i, el := range v.Elems {
		parts[i] = e.expr(el, fc)
		types[i] = parts[i].Type()
	}
	ty := e.ctxLL.StructType(types, false)
	val := llvm.ConstNull(ty)
	for i, p := range parts {
		val = e.b.CreateInsertValue(val, p, i, "")
	}
	return val
}

// matchAsSelectChain lowers `match scrutinee { p1 => b1, ..., else => bn }`
// into nested CreateSelect calls, since match arms in this language are
// simple expressions (spec §4.1) with no guard clauses or binding
// patterns that would force a branch-per-arm lowering.
func (e *Emitter) matchAsSelectChain(v *ast.Match, fc *fnCtx) llvm.Value {
	scrutinee := e.expr(v.Scrutinee, fc)
	var build func(i int) llvm.Value
	build = func(i int) llvm.Value {
		if i >= len(v.Arms) {
			return llvm.ConstInt(e.ctxLL.Int32Type(), 0, false)
		}
		arm := v.Arms[i]
		if arm.Wildcard {
			return e.expr(arm.Body, fc)
		}
		cond := e.applyBinOp("==", scrutinee, e.expr(arm.Value, fc))
		return e.b.CreateSelect(cond, e.expr(arm.Body, fc), build(i+1), "")
	}
	return build(0)
}

func (e *Emitter) cast(v *ast.Cast, fc *fnCtx) llvm.Value {
	val := e.expr(v.Expr, fc)
	target := e.llvmType(v.Target)
	srcKind, dstKind := val.Type().TypeKind(), target.TypeKind()

	switch {
	case srcKind == llvm.IntegerTypeKind && dstKind == llvm.IntegerTypeKind:
		if val.Type().IntTypeWidth() < target.IntTypeWidth() {
			return e.b.CreateSExt(val, target, "")
		}
		return e.b.CreateTrunc(val, target, "")
	case srcKind == llvm.IntegerTypeKind && (dstKind == llvm.FloatTypeKind || dstKind == llvm.DoubleTypeKind):
		return e.b.CreateSIToFP(val, target, "")
	case (srcKind == llvm.FloatTypeKind || srcKind == llvm.DoubleTypeKind) && dstKind == llvm.IntegerTypeKind:
		return e.b.CreateFPToSI(val, target, "")
	case srcKind == llvm.PointerTypeKind && dstKind == llvm.PointerTypeKind:
		return e.b.CreateBitCast(val, target, "")
	default:
		return e.b.CreateBitCast(val, target, "")
	}
}

// syscall lowers `@syscall(n, args...)` to the fixed-arity uya_syscallN
// extern the runtime support object implements, matching the C99
// backend's helper family so both backends target the same ABI.
func (e *Emitter) syscall(v *ast.Syscall, fc *fnCtx) llvm.Value {
	name := "uya_syscall" + itoa(len(v.Args)-1)
	fn := e.mod.NamedFunction(name)
	if fn.IsNil() {
		argTypes := make([]llvm.Type, len(v.Args))
		for i := range v.Args {
			argTypes[i] = e.ctxLL.Int64Type()
		}
		ft := llvm.FunctionType(e.ctxLL.Int64Type(), argTypes, false)
		fn = llvm.AddFunction(e.mod, name, ft)
	}
	args := make([]llvm.Value, len(v.Args))
	for i, a := range v.Args {
		args[i] = e.expr(a, fc)
	}
	return e.b.CreateCall(fn.GlobalValueType(), fn, args, "")
}

func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	neg := n < 0
	if neg {
		n = -n
	}
	var buf [20]byte
	i := len(buf)
	for n > 0 {
		i--
		buf[i] = byte('0' + n%10)
		n /= 10
	}
	if neg {
		i--
		buf[i] = '-'
	}
	return string(buf[i:])
}

// interpolate lowers string interpolation by formatting each segment into
// a shared heap buffer via the runtime's sprintf-style helper — the LLVM
// backend has no direct statement-expression equivalent to lean on, so it
// calls into the same runtime support routine the C99 backend's snprintf
// chain is hand-written to match, keeping one format-buffer convention
// across both backends.
func (e *Emitter) interpolate(v *ast.StringInterpolation, fc *fnCtx) llvm.Value {
	appendFn := e.runtimeFn("uya_fmt_append", e.ctxLL.VoidType(),
		[]llvm.Type{llvm.PointerType(e.ctxLL.Int8Type(), 0), llvm.PointerType(e.ctxLL.Int8Type(), 0)})
	bufFn := e.runtimeFn("uya_fmt_new", llvm.PointerType(e.ctxLL.Int8Type(), 0), nil)

	buf := e.b.CreateCall(bufFn.GlobalValueType(), bufFn, nil, "")
	for i, seg := range v.TextSegments {
		if seg != "" {
			lit := e.b.CreateGlobalStringPtr(seg, "")
			e.b.CreateCall(appendFn.GlobalValueType(), appendFn, []llvm.Value{buf, lit}, "")
		}
		if i < len(v.InterpExprs) {
			e.appendInterpValue(buf, v.InterpExprs[i], fc)
		}
	}
	return buf
}

// appendInterpValue formats one interpolated expression's value into buf
// by calling the type-appropriate uya_fmt_append_* runtime helper — the
// IR-side counterpart of the C99 backend's formatConversion, which picks
// a printf specifier from the same resolved-type classification.
func (e *Emitter) appendInterpValue(buf llvm.Value, ex ast.Expression, fc *fnCtx) {
	val := e.expr(ex, fc)
	i8ptr := llvm.PointerType(e.ctxLL.Int8Type(), 0)

	switch {
	case isFloatResolvedType(ex):
		fn := e.runtimeFn("uya_fmt_append_float", e.ctxLL.VoidType(), []llvm.Type{i8ptr, e.ctxLL.DoubleType()})
		if val.Type().TypeKind() != llvm.DoubleTypeKind {
			val = e.b.CreateFPExt(val, e.ctxLL.DoubleType(), "")
		}
		e.b.CreateCall(fn.GlobalValueType(), fn, []llvm.Value{buf, val}, "")
	case isBoolResolvedType(ex):
		fn := e.runtimeFn("uya_fmt_append_bool", e.ctxLL.VoidType(), []llvm.Type{i8ptr, e.ctxLL.Int1Type()})
		// bool values show up as i1 (literals, logical results) or i8
		// (anything loaded through namedType's storage representation) —
		// narrow either to the i1 the helper expects.
		if val.Type().TypeKind() == llvm.IntegerTypeKind && val.Type().IntTypeWidth() > 1 {
			val = e.b.CreateTrunc(val, e.ctxLL.Int1Type(), "")
		}
		e.b.CreateCall(fn.GlobalValueType(), fn, []llvm.Value{buf, val}, "")
	case isStringResolvedType(ex):
		fn := e.runtimeFn("uya_fmt_append_str", e.ctxLL.VoidType(), []llvm.Type{i8ptr, i8ptr})
		if val.Type().TypeKind() == llvm.PointerTypeKind && val.Type() != i8ptr {
			val = e.b.CreateBitCast(val, i8ptr, "")
		}
		e.b.CreateCall(fn.GlobalValueType(), fn, []llvm.Value{buf, val}, "")
	default:
		fn := e.runtimeFn("uya_fmt_append_int", e.ctxLL.VoidType(), []llvm.Type{i8ptr, e.ctxLL.Int64Type()})
		if val.Type().TypeKind() == llvm.IntegerTypeKind {
			if val.Type().IntTypeWidth() < 64 {
				val = e.b.CreateSExt(val, e.ctxLL.Int64Type(), "")
			} else if val.Type().IntTypeWidth() > 64 {
				val = e.b.CreateTrunc(val, e.ctxLL.Int64Type(), "")
			}
		}
		e.b.CreateCall(fn.GlobalValueType(), fn, []llvm.Value{buf, val}, "")
	}
}

// isFloatResolvedType, isBoolResolvedType, isStringResolvedType classify
// an interpolated expression's resolved type the same way the C99
// backend's defaultConv does, picking which uya_fmt_append_* overload
// formats it correctly.
func isFloatResolvedType(ex ast.Expression) bool {
	named, ok := ex.GetResolvedType().(*ast.TypeNamed)
	return ok && (named.Name == "f32" || named.Name == "f64")
}

func isBoolResolvedType(ex ast.Expression) bool {
	named, ok := ex.GetResolvedType().(*ast.TypeNamed)
	return ok && named.Name == "bool"
}

func isStringResolvedType(ex ast.Expression) bool {
	switch rt := ex.GetResolvedType().(type) {
	case *ast.TypeNamed:
		return rt.Name == "byte"
	case *ast.TypePointer:
		named, ok := rt.Elem.(*ast.TypeNamed)
		return ok && (named.Name == "i8" || named.Name == "u8" || named.Name == "byte")
	}
	return false
}

func (e *Emitter) runtimeFn(name string, ret llvm.Type, params []llvm.Type) llvm.Value {
	if fn := e.mod.NamedFunction(name); !fn.IsNil() {
		return fn
	}
	return llvm.AddFunction(e.mod, name, llvm.FunctionType(ret, params, false))
}
