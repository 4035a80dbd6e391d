package llvm

import (
	"github.com/uya-lang/uyac/internal/ast"

	llvm "tinygo.org/x/go-llvm"
)

// fnCtx carries per-function lowering state. Unlike the C99 backend's
// text-position indentation tracking, this backend's state is dominated by
// live IR handles: the function's declared-local allocas (so Identifier
// reads/writes become load/store through a stack slot, matching LLVM's own
// "alloca now, let mem2reg promote later" convention — the same pattern
// GenLLVM's genDeclaration uses), the pending defer/errdefer bodies, and
// the innermost loop's break/continue target blocks.
type fnCtx struct {
	fn    llvm.Value
	decl  *ast.FnDecl
	entry llvm.BasicBlock

	locals     map[string]llvm.Value // name -> alloca pointer
	localTypes map[string]ast.TypeExpr
	localLLVM  map[string]llvm.Type // name -> alloca's pointee LLVM type, for reads that skip ast-type lookup

	sret llvm.Value // valid only when the function returns via sret (large extern struct)

	defers    []*ast.DeferStatement
	errdefers []*ast.ErrDeferStatement

	breakTargets    []llvm.BasicBlock
	continueTargets []llvm.BasicBlock
}

func newFnCtx(fn llvm.Value, decl *ast.FnDecl, entry llvm.BasicBlock) *fnCtx {
	return &fnCtx{
		fn: fn, decl: decl, entry: entry,
		locals:     make(map[string]llvm.Value),
		localTypes: make(map[string]ast.TypeExpr),
		localLLVM:  make(map[string]llvm.Type),
	}
}

// emitFnBody creates the entry block, spills every parameter into a stack
// slot (so later assignment statements and address-of both work uniformly
// through locals, rather than special-casing read-only SSA parameters —
// the "call lowering with stack-slot spilling" needed once a parameter's
// address is taken), then walks the function body. A declared-but-empty
// Body (an extern-only forward declaration reached here in error) is a
// caller bug, not a recoverable condition, so it is not guarded against.
func (e *Emitter) emitFnBody(decl *ast.FnDecl) {
	fn, ok := e.functions[fnSymbolName(decl)]
	if !ok {
		return
	}
	entry := llvm.AddBasicBlock(fn, "entry")
	e.b.SetInsertPointAtEnd(entry)

	fc := newFnCtx(fn, decl, entry)
	sretShift := 0
	if e.isLargeExternStruct(decl.ReturnType) {
		fc.sret = fn.Param(0)
		sretShift = 1
	}
	for i, p := range decl.Params {
		param := fn.Param(i + sretShift)
		slot := e.b.CreateAlloca(param.Type(), p.Name)
		e.b.CreateStore(param, slot)
		fc.locals[p.Name] = slot
		fc.localTypes[p.Name] = p.Type
		fc.localLLVM[p.Name] = param.Type()
	}

	for _, s := range decl.Body {
		e.emitStmt(s, fc)
	}

	// A body that falls off the end without an explicit return (a void
	// function with no trailing `return;`) still needs a terminator.
	if e.b.GetInsertBlock().LastInstruction().IsNil() || !isTerminator(e.b.GetInsertBlock().LastInstruction()) {
		e.runDeferChain(fc, false)
		if decl.ReturnType == nil {
			e.b.CreateRetVoid()
		} else {
			e.b.CreateRet(llvm.ConstNull(e.llvmType(decl.ReturnType)))
		}
	}
}

func isTerminator(v llvm.Value) bool {
	if v.IsNil() {
		return false
	}
	switch v.InstructionOpcode() {
	case llvm.Ret, llvm.Br, llvm.Switch, llvm.Unreachable:
		return true
	default:
		return false
	}
}

func (e *Emitter) emitBlock(blk *ast.Block, fc *fnCtx) {
	for _, s := range blk.Stmts {
		e.emitStmt(s, fc)
	}
}

func (e *Emitter) emitStmt(s ast.Statement, fc *fnCtx) {
	switch v := s.(type) {
	case *ast.Block:
		e.emitBlock(v, fc)

	case *ast.VarStatement:
		if e.emitErrorFlowDecl(v, fc) {
			return
		}
		ty := e.llvmType(v.Type)
		slot := e.b.CreateAlloca(ty, v.Name)
		if v.Value != nil {
			e.b.CreateStore(e.expr(v.Value, fc), slot)
		}
		fc.locals[v.Name] = slot
		fc.localTypes[v.Name] = v.Type
		fc.localLLVM[v.Name] = ty

	case *ast.AssignStatement:
		if e.emitErrorFlowAssign(v, fc) {
			return
		}
		ptr := e.lvalue(v.Target, fc)
		val := e.expr(v.Value, fc)
		if v.Operator != "" {
			cur := e.b.CreateLoad(val.Type(), ptr, "")
			val = e.applyBinOp(v.Operator, cur, val)
		}
		e.b.CreateStore(val, ptr)

	case *ast.ExpressionStatement:
		if ce, ok := v.Expr.(*ast.CatchExpr); ok {
			e.emitCatchAsStatement(ce, fc)
			return
		}
		e.expr(v.Expr, fc)

	case *ast.IfStatement:
		e.emitIf(v, fc)

	case *ast.WhileStatement:
		e.emitWhile(v, fc)

	case *ast.ForStatement:
		e.emitForRange(v, fc)

	case *ast.ReturnStatement:
		e.emitReturn(v.Value, fc)

	case *ast.DeferStatement:
		fc.defers = append(fc.defers, v)

	case *ast.ErrDeferStatement:
		fc.errdefers = append(fc.errdefers, v)

	case *ast.BreakStatement:
		if len(fc.breakTargets) > 0 {
			e.b.CreateBr(fc.breakTargets[len(fc.breakTargets)-1])
		}

	case *ast.ContinueStatement:
		if len(fc.continueTargets) > 0 {
			e.b.CreateBr(fc.continueTargets[len(fc.continueTargets)-1])
		}
	}
}

// lvalue computes the address an assignment writes through: a local's
// alloca directly, a struct field via GEP, or an array element via GEP —
// the same address-computation entry point both plain assignment and
// compound (`+=`) assignment share.
func (e *Emitter) lvalue(target ast.Expression, fc *fnCtx) llvm.Value {
	switch v := target.(type) {
	case *ast.Identifier:
		if slot, ok := fc.locals[v.Name]; ok {
			return slot
		}
		if g, ok := e.globals[v.Name]; ok {
			return g
		}
		return llvm.Value{}
	case *ast.MemberAccess:
		base := e.lvalue(v.Object, fc)
		idx := e.fieldIndex(v, fc)
		return e.b.CreateStructGEP(e.pointeeType(v.Object, fc), base, idx, "")
	case *ast.ArrayAccess:
		base := e.lvalue(v.Array, fc)
		index := e.expr(v.Index, fc)
		zero := llvm.ConstInt(e.ctxLL.Int32Type(), 0, false)
		return e.b.CreateGEP(e.pointeeType(v.Array, fc), base, []llvm.Value{zero, index}, "")
	default:
		return llvm.Value{}
	}
}

// fieldIndex resolves a MemberAccess's field name to its struct index via
// the declaration order recorded when the struct's LLVM type was built.
func (e *Emitter) fieldIndex(ma *ast.MemberAccess, fc *fnCtx) int {
	if named, ok := e.staticTypeOf(ma.Object, fc).(*ast.TypeNamed); ok {
		if idx, ok := e.structFieldIndex[named.Name]; ok {
			if i, ok := idx[ma.Member]; ok {
				return i
			}
		}
	}
	return 0
}

// staticTypeOf resolves the declared type of an identifier/member chain
// from fnCtx's locals, falling back to a resolved-type annotation if one
// has been set by a forward resolution pass. Used only to pick the right
// struct-field-index table; it does not need to be exhaustive over every
// expression shape, just the lvalue positions assignment reaches.
func (e *Emitter) staticTypeOf(expr ast.Expression, fc *fnCtx) ast.TypeExpr {
	switch v := expr.(type) {
	case *ast.Identifier:
		if t, ok := fc.localTypes[v.Name]; ok {
			return derefNamed(t)
		}
		if t, ok := e.globalTypes[v.Name]; ok {
			return derefNamed(t)
		}
	case *ast.MemberAccess:
		if named, ok := e.staticTypeOf(v.Object, fc).(*ast.TypeNamed); ok {
			if decl, ok := e.ctx.StructTypes[named.Name]; ok {
				for _, f := range decl.Fields {
					if f.Name == v.Member {
						return derefNamed(f.Type)
					}
				}
			}
		}
	}
	if rt := expr.GetResolvedType(); rt != nil {
		return derefNamed(rt)
	}
	return nil
}

func derefNamed(t ast.TypeExpr) ast.TypeExpr {
	if p, ok := t.(*ast.TypePointer); ok {
		return p.Elem
	}
	return t
}

func (e *Emitter) pointeeType(expr ast.Expression, fc *fnCtx) llvm.Type {
	if t := e.staticTypeOf(expr, fc); t != nil {
		return e.llvmType(t)
	}
	return e.ctxLL.Int8Type()
}

func (e *Emitter) emitIf(v *ast.IfStatement, fc *fnCtx) {
	cond := e.expr(v.Condition, fc)
	thenBB := llvm.AddBasicBlock(fc.fn, "if.then")
	mergeBB := llvm.AddBasicBlock(fc.fn, "if.end")
	elseBB := mergeBB
	if v.Else != nil {
		elseBB = llvm.AddBasicBlock(fc.fn, "if.else")
	}
	e.b.CreateCondBr(cond, thenBB, elseBB)

	e.b.SetInsertPointAtEnd(thenBB)
	e.emitBlock(v.Then, fc)
	e.branchToIfOpen(mergeBB)

	if v.Else != nil {
		e.b.SetInsertPointAtEnd(elseBB)
		switch els := v.Else.(type) {
		case *ast.Block:
			e.emitBlock(els, fc)
		default:
			e.emitStmt(els, fc)
		}
		e.branchToIfOpen(mergeBB)
	}

	e.b.SetInsertPointAtEnd(mergeBB)
}

// branchToIfOpen closes the current block with a branch to target unless
// the block already ended in a terminator (a `return`/`break`/`continue`
// inside the arm already closed it).
func (e *Emitter) branchToIfOpen(target llvm.BasicBlock) {
	cur := e.b.GetInsertBlock()
	if last := cur.LastInstruction(); !isTerminator(last) {
		e.b.CreateBr(target)
	}
}

func (e *Emitter) emitWhile(v *ast.WhileStatement, fc *fnCtx) {
	headBB := llvm.AddBasicBlock(fc.fn, "while.head")
	bodyBB := llvm.AddBasicBlock(fc.fn, "while.body")
	endBB := llvm.AddBasicBlock(fc.fn, "while.end")

	e.b.CreateBr(headBB)
	e.b.SetInsertPointAtEnd(headBB)
	cond := e.expr(v.Condition, fc)
	e.b.CreateCondBr(cond, bodyBB, endBB)

	e.b.SetInsertPointAtEnd(bodyBB)
	fc.breakTargets = append(fc.breakTargets, endBB)
	fc.continueTargets = append(fc.continueTargets, headBB)
	e.emitBlock(v.Body, fc)
	fc.breakTargets = fc.breakTargets[:len(fc.breakTargets)-1]
	fc.continueTargets = fc.continueTargets[:len(fc.continueTargets)-1]
	e.branchToIfOpen(headBB)

	e.b.SetInsertPointAtEnd(endBB)
}

// emitForRange lowers `for x in iterable { ... }` over a slice value
// (.ptr/.len, the same auxiliary struct shape the C99 backend builds),
// via an index-counted while loop equivalent.
func (e *Emitter) emitForRange(v *ast.ForStatement, fc *fnCtx) {
	slice := e.expr(v.Iterable, fc)
	ptr := e.b.CreateExtractValue(slice, 0, "")
	length := e.b.CreateExtractValue(slice, 1, "")

	idxSlot := e.b.CreateAlloca(e.ctxLL.Int64Type(), "_uya_i")
	e.b.CreateStore(llvm.ConstInt(e.ctxLL.Int64Type(), 0, false), idxSlot)

	headBB := llvm.AddBasicBlock(fc.fn, "for.head")
	bodyBB := llvm.AddBasicBlock(fc.fn, "for.body")
	stepBB := llvm.AddBasicBlock(fc.fn, "for.step")
	endBB := llvm.AddBasicBlock(fc.fn, "for.end")

	e.b.CreateBr(headBB)
	e.b.SetInsertPointAtEnd(headBB)
	idx := e.b.CreateLoad(e.ctxLL.Int64Type(), idxSlot, "")
	cond := e.b.CreateICmp(llvm.IntULT, idx, length, "")
	e.b.CreateCondBr(cond, bodyBB, endBB)

	e.b.SetInsertPointAtEnd(bodyBB)
	elemPtr := e.b.CreateGEP(ptr.Type().ElementType(), ptr, []llvm.Value{idx}, "")
	elem := e.b.CreateLoad(ptr.Type().ElementType(), elemPtr, "")
	slot := e.b.CreateAlloca(elem.Type(), v.VarName)
	e.b.CreateStore(elem, slot)
	fc.locals[v.VarName] = slot
	fc.localLLVM[v.VarName] = elem.Type()

	fc.breakTargets = append(fc.breakTargets, endBB)
	fc.continueTargets = append(fc.continueTargets, stepBB)
	e.emitBlock(v.Body, fc)
	fc.breakTargets = fc.breakTargets[:len(fc.breakTargets)-1]
	fc.continueTargets = fc.continueTargets[:len(fc.continueTargets)-1]
	e.branchToIfOpen(stepBB)

	e.b.SetInsertPointAtEnd(stepBB)
	next := e.b.CreateAdd(idx, llvm.ConstInt(e.ctxLL.Int64Type(), 1, false), "")
	e.b.CreateStore(next, idxSlot)
	e.b.CreateBr(headBB)

	e.b.SetInsertPointAtEnd(endBB)
}

// emitReturn runs the defer chain, then builds the actual `ret`. Returning
// `error.Name` is an error exit, so errdefers run too; every other plain
// return is the success path and runs ordinary defers only. `return try
// ...` goes to emitTryReturn, whose propagation edge also runs errdefers.
func (e *Emitter) emitReturn(value ast.Expression, fc *fnCtx) {
	if value == nil {
		e.runDeferChain(fc, false)
		e.b.CreateRetVoid()
		return
	}
	if unary, ok := value.(*ast.UnaryExpression); ok && unary.Operator == "try" {
		e.emitTryReturn(unary.Operand, fc)
		return
	}

	retVal := e.wrapReturnValue(value, fc)
	_, isErrorExit := value.(*ast.ErrorValue)
	e.runDeferChain(fc, isErrorExit)
	if !fc.sret.IsNil() {
		e.b.CreateStore(retVal, fc.sret)
		e.b.CreateRetVoid()
		return
	}
	e.b.CreateRet(retVal)
}

func (e *Emitter) wrapReturnValue(value ast.Expression, fc *fnCtx) llvm.Value {
	eu, ok := fc.decl.ReturnType.(*ast.TypeErrorUnion)
	if !ok {
		return e.expr(value, fc)
	}
	euType := e.errUnionStructType(eu.Payload)
	tagType := e.errTagType()

	if ev, isErr := value.(*ast.ErrorValue); isErr {
		tag := llvm.ConstNull(tagType)
		tag = e.b.CreateInsertValue(tag, llvm.ConstInt(e.ctxLL.Int32Type(), uint64(e.ctx.ErrorID(ev.Name)), false), 0, "")
		tag = e.b.CreateInsertValue(tag, llvm.ConstInt(e.ctxLL.Int1Type(), 1, false), 1, "")
		return e.b.CreateInsertValue(llvm.ConstNull(euType), tag, 0, "")
	}

	val := e.expr(value, fc)
	tag := llvm.ConstNull(tagType)
	tag = e.b.CreateInsertValue(tag, llvm.ConstInt(e.ctxLL.Int1Type(), 0, false), 1, "")
	result := llvm.ConstNull(euType)
	result = e.b.CreateInsertValue(result, tag, 0, "")
	result = e.b.CreateInsertValue(result, val, 1, "")
	return result
}

func (e *Emitter) runDeferChain(fc *fnCtx, runErrdefers bool) {
	if runErrdefers {
		for i := len(fc.errdefers) - 1; i >= 0; i-- {
			for _, s := range fc.errdefers[i].Body {
				e.emitStmt(s, fc)
			}
		}
	}
	for i := len(fc.defers) - 1; i >= 0; i-- {
		for _, s := range fc.defers[i].Body {
			e.emitStmt(s, fc)
		}
	}
}

// emitTryReturn lowers `return try inner;`: evaluate inner (itself
// error-union valued), branch on its has_error bit, and on the error edge
// propagate a same-shaped error-union return (running errdefers, since
// this is the function's error exit) instead of falling through to the
// success path.
func (e *Emitter) emitTryReturn(inner ast.Expression, fc *fnCtx) {
	tmp := e.expr(inner, fc)
	tag := e.b.CreateExtractValue(tmp, 0, "")
	hasErr := e.b.CreateExtractValue(tag, 1, "")

	errBB := llvm.AddBasicBlock(fc.fn, "try.err")
	okBB := llvm.AddBasicBlock(fc.fn, "try.ok")
	e.b.CreateCondBr(hasErr, errBB, okBB)

	e.b.SetInsertPointAtEnd(errBB)
	eu, ok := fc.decl.ReturnType.(*ast.TypeErrorUnion)
	if ok {
		euType := e.errUnionStructType(eu.Payload)
		propagated := e.b.CreateInsertValue(llvm.ConstNull(euType), tag, 0, "")
		e.runDeferChain(fc, true)
		if !fc.sret.IsNil() {
			e.b.CreateStore(propagated, fc.sret)
			e.b.CreateRetVoid()
		} else {
			e.b.CreateRet(propagated)
		}
	} else {
		e.runDeferChain(fc, true)
		e.b.CreateRetVoid()
	}

	e.b.SetInsertPointAtEnd(okBB)
	payload := e.b.CreateExtractValue(tmp, 1, "")
	result := payload
	if eu, ok := fc.decl.ReturnType.(*ast.TypeErrorUnion); ok {
		euType := e.errUnionStructType(eu.Payload)
		okTag := e.b.CreateInsertValue(llvm.ConstNull(e.errTagType()), llvm.ConstInt(e.ctxLL.Int1Type(), 0, false), 1, "")
		result = e.b.CreateInsertValue(llvm.ConstNull(euType), okTag, 0, "")
		result = e.b.CreateInsertValue(result, payload, 1, "")
	}
	e.runDeferChain(fc, false)
	if !fc.sret.IsNil() {
		e.b.CreateStore(result, fc.sret)
		e.b.CreateRetVoid()
	} else {
		e.b.CreateRet(result)
	}
}

// emitErrorFlowDecl handles `var x: T = try expr;` / `var x: T = expr catch
// {...};`. Returns false when v.Value isn't one of those two forms so the
// caller falls through to a plain alloca+store.
func (e *Emitter) emitErrorFlowDecl(v *ast.VarStatement, fc *fnCtx) bool {
	switch val := v.Value.(type) {
	case *ast.UnaryExpression:
		if val.Operator != "try" {
			return false
		}
		result := e.tryInto(val.Operand, fc)
		slot := e.b.CreateAlloca(result.Type(), v.Name)
		e.b.CreateStore(result, slot)
		fc.locals[v.Name] = slot
		fc.localTypes[v.Name] = v.Type
		fc.localLLVM[v.Name] = result.Type()
		return true
	case *ast.CatchExpr:
		result := e.catchInto(val, fc)
		slot := e.b.CreateAlloca(result.Type(), v.Name)
		e.b.CreateStore(result, slot)
		fc.locals[v.Name] = slot
		fc.localTypes[v.Name] = v.Type
		fc.localLLVM[v.Name] = result.Type()
		return true
	default:
		return false
	}
}

func (e *Emitter) emitErrorFlowAssign(v *ast.AssignStatement, fc *fnCtx) bool {
	switch val := v.Value.(type) {
	case *ast.UnaryExpression:
		if val.Operator != "try" {
			return false
		}
		result := e.tryInto(val.Operand, fc)
		e.b.CreateStore(result, e.lvalue(v.Target, fc))
		return true
	case *ast.CatchExpr:
		result := e.catchInto(val, fc)
		e.b.CreateStore(result, e.lvalue(v.Target, fc))
		return true
	default:
		return false
	}
}

// tryInto lowers a `try expr` that binds into a local/assignment rather
// than propagating straight out of a `return` (emitTryReturn's sibling):
// the success-path payload becomes the bound value; the error path still
// propagates out of the *enclosing function*, since `try` always either
// unwraps or returns for the caller (spec §4.2).
func (e *Emitter) tryInto(inner ast.Expression, fc *fnCtx) llvm.Value {
	tmp := e.expr(inner, fc)
	tag := e.b.CreateExtractValue(tmp, 0, "")
	hasErr := e.b.CreateExtractValue(tag, 1, "")

	errBB := llvm.AddBasicBlock(fc.fn, "try.err")
	okBB := llvm.AddBasicBlock(fc.fn, "try.ok")
	e.b.CreateCondBr(hasErr, errBB, okBB)

	e.b.SetInsertPointAtEnd(errBB)
	if eu, ok := fc.decl.ReturnType.(*ast.TypeErrorUnion); ok {
		euType := e.errUnionStructType(eu.Payload)
		propagated := e.b.CreateInsertValue(llvm.ConstNull(euType), tag, 0, "")
		e.runDeferChain(fc, true)
		if !fc.sret.IsNil() {
			e.b.CreateStore(propagated, fc.sret)
			e.b.CreateRetVoid()
		} else {
			e.b.CreateRet(propagated)
		}
	} else {
		e.runDeferChain(fc, true)
		e.b.CreateRetVoid()
	}

	e.b.SetInsertPointAtEnd(okBB)
	return e.b.CreateExtractValue(tmp, 1, "")
}

// catchInto lowers `expr catch [|err|] { body }` bound into a value: the
// error path runs body (typically expected to diverge via return/break/
// continue) and, if it falls through, leaves the bound result as the
// payload's zero value.
func (e *Emitter) catchInto(ce *ast.CatchExpr, fc *fnCtx) llvm.Value {
	tmp := e.expr(ce.Expr, fc)
	tag := e.b.CreateExtractValue(tmp, 0, "")
	hasErr := e.b.CreateExtractValue(tag, 1, "")
	payload := e.b.CreateExtractValue(tmp, 1, "")

	resultSlot := e.b.CreateAlloca(payload.Type(), "_uya_catch_result")
	e.b.CreateStore(llvm.ConstNull(payload.Type()), resultSlot)

	errBB := llvm.AddBasicBlock(fc.fn, "catch.err")
	okBB := llvm.AddBasicBlock(fc.fn, "catch.ok")
	mergeBB := llvm.AddBasicBlock(fc.fn, "catch.end")
	e.b.CreateCondBr(hasErr, errBB, okBB)

	e.b.SetInsertPointAtEnd(errBB)
	if ce.ErrorVar != "" {
		errID := e.b.CreateExtractValue(tag, 0, "")
		slot := e.b.CreateAlloca(e.ctxLL.Int32Type(), ce.ErrorVar)
		e.b.CreateStore(errID, slot)
		fc.locals[ce.ErrorVar] = slot
		fc.localLLVM[ce.ErrorVar] = e.ctxLL.Int32Type()
	}
	for _, s := range ce.Body {
		e.emitStmt(s, fc)
	}
	e.branchToIfOpen(mergeBB)

	e.b.SetInsertPointAtEnd(okBB)
	e.b.CreateStore(payload, resultSlot)
	e.b.CreateBr(mergeBB)

	e.b.SetInsertPointAtEnd(mergeBB)
	return e.b.CreateLoad(payload.Type(), resultSlot, "")
}

func (e *Emitter) emitCatchAsStatement(ce *ast.CatchExpr, fc *fnCtx) {
	tmp := e.expr(ce.Expr, fc)
	tag := e.b.CreateExtractValue(tmp, 0, "")
	hasErr := e.b.CreateExtractValue(tag, 1, "")

	errBB := llvm.AddBasicBlock(fc.fn, "catch.err")
	mergeBB := llvm.AddBasicBlock(fc.fn, "catch.end")
	e.b.CreateCondBr(hasErr, errBB, mergeBB)

	e.b.SetInsertPointAtEnd(errBB)
	if ce.ErrorVar != "" {
		errID := e.b.CreateExtractValue(tag, 0, "")
		slot := e.b.CreateAlloca(e.ctxLL.Int32Type(), ce.ErrorVar)
		e.b.CreateStore(errID, slot)
		fc.locals[ce.ErrorVar] = slot
		fc.localLLVM[ce.ErrorVar] = e.ctxLL.Int32Type()
	}
	for _, s := range ce.Body {
		e.emitStmt(s, fc)
	}
	e.branchToIfOpen(mergeBB)

	e.b.SetInsertPointAtEnd(mergeBB)
}
