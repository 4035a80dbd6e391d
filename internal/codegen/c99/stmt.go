package c99

import (
	"fmt"
	"strings"

	"github.com/uya-lang/uyac/internal/ast"
)

// fnCtx carries per-function lowering state: the by-value array parameter
// renames (spec §4.3), the pending defer/errdefer bodies collected as the
// function is walked (run in reverse order at every return, per spec §4.2 —
// errdefer bodies only on an error-carrying return), and the function's own
// declared return type so try/catch propagation can build a same-shaped
// error-union return value.
type fnCtx struct {
	decl        *ast.FnDecl
	renames     map[string]string
	defers      []*ast.DeferStatement
	errdefers   []*ast.ErrDeferStatement
	indentLevel int
}

func newFnCtx(decl *ast.FnDecl) *fnCtx {
	return &fnCtx{decl: decl, renames: make(map[string]string), indentLevel: 1}
}

func (fc *fnCtx) indent() string { return strings.Repeat("    ", fc.indentLevel) }

func (e *Emitter) emitBlockBody(stmts []ast.Statement, fc *fnCtx) {
	for _, s := range stmts {
		e.emitStmt(s, fc)
	}
}

// emitStmt lowers one statement, writing directly to e.body. try/catch are
// only supported as the immediate Value/Expr of a var/return/expression
// statement (spec §4.2's try/catch grammar is itself whole-expression —
// nesting either inside an arbitrary subexpression is not expressible in
// portable C99 without statement expressions). No earlier pass rejects such
// nesting: a `try` left inside a subexpression reaches expr's bare-`try`
// fallback, which does not propagate the error.
func (e *Emitter) emitStmt(s ast.Statement, fc *fnCtx) {
	ind := fc.indent()
	switch v := s.(type) {
	case *ast.Block:
		e.body.WriteString(ind + "{\n")
		fc.indentLevel++
		e.emitBlockBody(v.Stmts, fc)
		fc.indentLevel--
		e.body.WriteString(ind + "}\n")

	case *ast.VarStatement:
		if handled := e.emitErrorFlowAssign(ind, "", v.Name, v.Type, v.Value, fc, true); handled {
			return
		}
		e.body.WriteString(ind + e.CDecl(e.lowerParamType(v.Type), v.Name) + " = " + e.expr(v.Value, fc) + ";\n")

	case *ast.AssignStatement:
		if handled := e.emitErrorFlowAssign(ind, e.expr(v.Target, fc), "", nil, v.Value, fc, false); handled {
			return
		}
		op := v.Operator
		if op == "" {
			op = "="
		}
		e.body.WriteString(ind + e.expr(v.Target, fc) + " " + op + " " + e.expr(v.Value, fc) + ";\n")

	case *ast.ExpressionStatement:
		if ce, ok := v.Expr.(*ast.CatchExpr); ok {
			e.emitCatchAsStatement(ind, ce, fc)
			return
		}
		e.body.WriteString(ind + e.expr(v.Expr, fc) + ";\n")

	case *ast.IfStatement:
		e.body.WriteString(ind + "if (" + e.expr(v.Condition, fc) + ") {\n")
		fc.indentLevel++
		e.emitBlockBody(v.Then.Stmts, fc)
		fc.indentLevel--
		e.body.WriteString(ind + "}")
		if v.Else != nil {
			e.body.WriteString(" else ")
			if elseIf, ok := v.Else.(*ast.IfStatement); ok {
				e.body.WriteString(strings.TrimPrefix(e.renderInline(elseIf, fc), fc.indent()))
			} else if blk, ok := v.Else.(*ast.Block); ok {
				e.body.WriteString("{\n")
				fc.indentLevel++
				e.emitBlockBody(blk.Stmts, fc)
				fc.indentLevel--
				e.body.WriteString(ind + "}\n")
			}
		} else {
			e.body.WriteString("\n")
		}

	case *ast.WhileStatement:
		e.body.WriteString(ind + "while (" + e.expr(v.Condition, fc) + ") {\n")
		fc.indentLevel++
		e.emitBlockBody(v.Body.Stmts, fc)
		fc.indentLevel--
		e.body.WriteString(ind + "}\n")

	case *ast.ForStatement:
		e.emitForRange(v, fc)

	case *ast.ReturnStatement:
		e.emitReturn(v.Value, fc)

	case *ast.DeferStatement:
		fc.defers = append(fc.defers, v)

	case *ast.ErrDeferStatement:
		fc.errdefers = append(fc.errdefers, v)

	case *ast.BreakStatement:
		e.body.WriteString(ind + "break;\n")

	case *ast.ContinueStatement:
		e.body.WriteString(ind + "continue;\n")
	}
}

// renderInline renders one statement into a side buffer, used for else-if
// chains so the `else if (...)` sits on the same line as its parent `else`.
func (e *Emitter) renderInline(s ast.Statement, fc *fnCtx) string {
	saved := e.body
	e.body = strings.Builder{}
	e.emitStmt(s, fc)
	out := e.body.String()
	e.body = saved
	return out
}

// emitReturn lowers `return value;`, running errdefers (only when value is
// an error-carrying error-union) and defers in reverse declaration order
// before the actual C `return`, per spec §4.2. A bare `return;` (void
// functions) skips the value entirely.
func (e *Emitter) emitReturn(value ast.Expression, fc *fnCtx) {
	ind := fc.indent()
	if value == nil {
		e.runDeferChain(ind, fc, false)
		e.body.WriteString(ind + "return;\n")
		return
	}

	if unary, ok := value.(*ast.UnaryExpression); ok && unary.Operator == "try" {
		e.emitTryReturn(ind, unary.Operand, fc)
		return
	}

	retC := e.newTemp("_uya_ret")
	retType := e.lowerParamType(fc.decl.ReturnType)
	e.body.WriteString(ind + e.CDecl(retType, retC) + " = " + e.wrapReturnValue(value, fc) + ";\n")
	// A literal `error.Name` return is an error exit just like try's
	// propagation path, so errdefers run here too; every other plain
	// return is the success path and only runs ordinary defers.
	_, isErrorExit := value.(*ast.ErrorValue)
	e.runDeferChain(ind, fc, isErrorExit)
	e.body.WriteString(ind + "return " + retC + ";\n")
}

// wrapReturnValue lowers the returned expression, handling the plain-value
// case (function returns !T: wrap into the error-union struct with
// has_error=false) and the `error.Name` case (an error-union literal with
// has_error=true and that error's id).
func (e *Emitter) wrapReturnValue(value ast.Expression, fc *fnCtx) string {
	eu, isErrUnion := fc.decl.ReturnType.(*ast.TypeErrorUnion)
	if !isErrUnion {
		return e.expr(value, fc)
	}
	name := e.errUnionTypeName(eu.Payload)
	if ev, ok := value.(*ast.ErrorValue); ok {
		return e.errUnionErrorLiteral(name, ev)
	}
	return "(" + name + "){ .tag = { .has_error = false }, .value = " + e.expr(value, fc) + " }"
}

// errUnionErrorLiteral renders `error.Name` as the error-state literal of an
// error-union struct: tag.has_error set, value left zero-initialized since
// the payload is meaningless on the error path.
func (e *Emitter) errUnionErrorLiteral(typeName string, ev *ast.ErrorValue) string {
	id := e.ctx.ErrorID(ev.Name)
	return "(" + typeName + "){ .tag = { .has_error = true, .error_id = " +
		fmt.Sprintf("%d", id) + "u }, .value = {0} }"
}

func (e *Emitter) runDeferChain(ind string, fc *fnCtx, runErrdefers bool) {
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

// emitTryReturn lowers `return try expr;`: evaluate expr (itself error-
// union typed) into _uya_try_tmp, and if its tag carries an error,
// propagate immediately by constructing this function's own error-union
// shape with the same error id — running errdefers (this is an error
// exit) and defers first.
func (e *Emitter) emitTryReturn(ind string, inner ast.Expression, fc *fnCtx) {
	tmp := e.newTemp("_uya_try_tmp")
	e.body.WriteString(ind + "__auto_type " + tmp + " = " + e.expr(inner, fc) + ";\n")
	e.body.WriteString(ind + "if (" + tmp + ".tag.has_error) {\n")
	fc.indentLevel++
	eu, ok := fc.decl.ReturnType.(*ast.TypeErrorUnion)
	if ok {
		name := e.errUnionTypeName(eu.Payload)
		propagated := e.newTemp("_uya_ret")
		e.body.WriteString(fc.indent() + name + " " + propagated + " = { .tag = " + tmp + ".tag };\n")
		e.runDeferChain(fc.indent(), fc, true)
		e.body.WriteString(fc.indent() + "return " + propagated + ";\n")
	} else {
		e.runDeferChain(fc.indent(), fc, true)
		e.body.WriteString(fc.indent() + "return;\n")
	}
	fc.indentLevel--
	e.body.WriteString(ind + "}\n")
	e.body.WriteString(ind + "return " + e.wrapFromPayload(tmp+".value", fc) + ";\n")
}

func (e *Emitter) wrapFromPayload(payloadExpr string, fc *fnCtx) string {
	eu, ok := fc.decl.ReturnType.(*ast.TypeErrorUnion)
	if !ok {
		return payloadExpr
	}
	name := e.errUnionTypeName(eu.Payload)
	return "(" + name + "){ .tag = { .has_error = false }, .value = " + payloadExpr + " }"
}

// emitErrorFlowAssign handles `var x: T = try expr;` / `var x: T = expr catch {...};`
// and their assignment-statement equivalents. Returns false (no-op) when
// value isn't one of those two forms, so the caller falls through to plain
// expression lowering.
func (e *Emitter) emitErrorFlowAssign(ind, targetExisting, declName string, declType ast.TypeExpr, value ast.Expression, fc *fnCtx, isDecl bool) bool {
	switch v := value.(type) {
	case *ast.UnaryExpression:
		if v.Operator != "try" {
			return false
		}
		tmp := e.newTemp("_uya_try_tmp")
		e.body.WriteString(ind + "__auto_type " + tmp + " = " + e.expr(v.Operand, fc) + ";\n")
		e.body.WriteString(ind + "if (" + tmp + ".tag.has_error) {\n")
		fc.indentLevel++
		eu, ok := fc.decl.ReturnType.(*ast.TypeErrorUnion)
		if ok {
			name := e.errUnionTypeName(eu.Payload)
			propagated := e.newTemp("_uya_ret")
			e.body.WriteString(fc.indent() + name + " " + propagated + " = { .tag = " + tmp + ".tag };\n")
			e.runDeferChain(fc.indent(), fc, true)
			e.body.WriteString(fc.indent() + "return " + propagated + ";\n")
		} else {
			e.runDeferChain(fc.indent(), fc, true)
			e.body.WriteString(fc.indent() + "return;\n")
		}
		fc.indentLevel--
		e.body.WriteString(ind + "}\n")
		if isDecl {
			e.body.WriteString(ind + e.CDecl(e.lowerParamType(declType), declName) + " = " + tmp + ".value;\n")
		} else {
			e.body.WriteString(ind + targetExisting + " = " + tmp + ".value;\n")
		}
		return true

	case *ast.CatchExpr:
		e.emitCatchInto(ind, targetExisting, declName, declType, v, fc, isDecl)
		return true

	default:
		return false
	}
}

// emitCatchInto lowers `<target> = expr catch [|err|] { body };` where the
// result is bound to a variable. body runs only on the error path and is
// typically expected to itself return or otherwise diverge; if it falls
// through, _uya_catch_result is left at its zero value.
func (e *Emitter) emitCatchInto(ind, targetExisting, declName string, declType ast.TypeExpr, ce *ast.CatchExpr, fc *fnCtx, isDecl bool) {
	tmp := e.newTemp("_uya_catch_tmp")
	e.body.WriteString(ind + "__auto_type " + tmp + " = " + e.expr(ce.Expr, fc) + ";\n")
	result := e.newTemp("_uya_catch_result")
	if isDecl {
		e.body.WriteString(ind + e.CDecl(e.lowerParamType(declType), result) + " = {0};\n")
	} else {
		e.body.WriteString(ind + "__auto_type " + result + " = " + targetExisting + ";\n")
	}
	e.body.WriteString(ind + "if (" + tmp + ".tag.has_error) {\n")
	fc.indentLevel++
	if ce.ErrorVar != "" {
		e.body.WriteString(fc.indent() + "uint32_t " + ce.ErrorVar + " = " + tmp + ".tag.error_id;\n")
	}
	for _, s := range ce.Body {
		e.emitStmt(s, fc)
	}
	fc.indentLevel--
	e.body.WriteString(ind + "} else {\n")
	fc.indentLevel++
	e.body.WriteString(fc.indent() + result + " = " + tmp + ".value;\n")
	fc.indentLevel--
	e.body.WriteString(ind + "}\n")
	if isDecl {
		// declName already declared as `result`; alias by reusing the same
		// name would shadow, so emit the user-visible binding directly.
		e.body.WriteString(ind + e.CDecl(e.lowerParamType(declType), declName) + " = " + result + ";\n")
	} else {
		e.body.WriteString(ind + targetExisting + " = " + result + ";\n")
	}
}

// emitCatchAsStatement lowers a bare `expr catch { body };` expression
// statement — the success value, if any, is discarded.
func (e *Emitter) emitCatchAsStatement(ind string, ce *ast.CatchExpr, fc *fnCtx) {
	tmp := e.newTemp("_uya_catch_tmp")
	e.body.WriteString(ind + "__auto_type " + tmp + " = " + e.expr(ce.Expr, fc) + ";\n")
	e.body.WriteString(ind + "if (" + tmp + ".tag.has_error) {\n")
	fc.indentLevel++
	if ce.ErrorVar != "" {
		e.body.WriteString(fc.indent() + "uint32_t " + ce.ErrorVar + " = " + tmp + ".tag.error_id;\n")
	}
	for _, s := range ce.Body {
		e.emitStmt(s, fc)
	}
	fc.indentLevel--
	e.body.WriteString(ind + "}\n")
}

// emitForRange lowers `for x in iterable { ... }`. iterable is assumed
// slice-shaped (.ptr/.len), matching the slice auxiliary struct emitted for
// [T] parameters — array and raw-pointer iteration are out of this
// pass's scope (spec §4.1 defines range-for only over slices).
func (e *Emitter) emitForRange(v *ast.ForStatement, fc *fnCtx) {
	ind := fc.indent()
	idx := e.newTemp("_uya_i")
	src := e.expr(v.Iterable, fc)
	e.body.WriteString(fmt.Sprintf("%sfor (size_t %s = 0; %s < (%s).len; %s++) {\n", ind, idx, idx, src, idx))
	fc.indentLevel++
	e.body.WriteString(fc.indent() + "__auto_type " + v.VarName + " = (" + src + ").ptr[" + idx + "];\n")
	e.emitBlockBody(v.Body.Stmts, fc)
	fc.indentLevel--
	e.body.WriteString(ind + "}\n")
}
