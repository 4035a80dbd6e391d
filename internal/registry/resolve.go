package registry

import (
	"github.com/uya-lang/uyac/internal/ast"
	"github.com/uya-lang/uyac/internal/mono"
)

// ResolveGenerics walks every function body in prog and triggers
// monomorphization at each explicit-type-argument call site (`id<i32>(...)`)
// or struct initializer (`Box<i32>{...}`), rewriting the call/init in place
// to target the mangled instantiation's name. Both backends already know
// how to emit whatever Engine.Instantiations()/StructInstantiations()
// return; this pass is what actually populates those caches by walking
// call sites the way a type checker would, closing the gap between "the
// engine can monomorphize" and "something asks it to."
func ResolveGenerics(prog *ast.Program, ctx *Context, engine *mono.Engine) {
	r := &resolver{ctx: ctx, engine: engine}
	for _, d := range prog.Decls {
		switch decl := d.(type) {
		case *ast.FnDecl:
			r.stmts(decl.Body)
		case *ast.MethodBlock:
			for _, m := range decl.Methods {
				r.stmts(m.Body)
			}
		case *ast.TestBlock:
			r.stmts(decl.Body)
		}
	}
}

type resolver struct {
	ctx    *Context
	engine *mono.Engine
	walked map[string]bool // mangled instantiation names already body-walked
}

func (r *resolver) stmts(list []ast.Statement) {
	for _, s := range list {
		r.stmt(s)
	}
}

func (r *resolver) stmt(s ast.Statement) {
	switch v := s.(type) {
	case *ast.Block:
		r.stmts(v.Stmts)
	case *ast.VarStatement:
		r.expr(v.Value)
	case *ast.AssignStatement:
		r.expr(v.Target)
		r.expr(v.Value)
	case *ast.ExpressionStatement:
		r.expr(v.Expr)
	case *ast.IfStatement:
		r.expr(v.Condition)
		r.stmt(v.Then)
		if v.Else != nil {
			r.stmt(v.Else)
		}
	case *ast.WhileStatement:
		r.expr(v.Condition)
		r.stmt(v.Body)
	case *ast.ForStatement:
		r.expr(v.Iterable)
		r.stmt(v.Body)
	case *ast.ReturnStatement:
		r.expr(v.Value)
	case *ast.DeferStatement:
		r.stmts(v.Body)
	case *ast.ErrDeferStatement:
		r.stmts(v.Body)
	}
}

func (r *resolver) expr(e ast.Expression) {
	switch v := e.(type) {
	case nil:
		return
	case *ast.UnaryExpression:
		r.expr(v.Operand)
	case *ast.BinaryExpression:
		r.expr(v.Left)
		r.expr(v.Right)
	case *ast.Call:
		r.resolveCall(v)
		r.expr(v.Callee)
		for _, a := range v.Args {
			r.expr(a)
		}
	case *ast.MemberAccess:
		r.expr(v.Object)
	case *ast.ArrayAccess:
		r.expr(v.Array)
		r.expr(v.Index)
	case *ast.Subscript:
		r.expr(v.Base)
		r.expr(v.Start)
		r.expr(v.Len)
	case *ast.StructInit:
		r.resolveStructInit(v)
		for _, f := range v.Fields {
			r.expr(f.Value)
		}
	case *ast.ArrayLiteral:
		for _, el := range v.Elems {
			r.expr(el)
		}
	case *ast.TupleLiteral:
		for _, el := range v.Elems {
			r.expr(el)
		}
	case *ast.Match:
		r.expr(v.Scrutinee)
		for _, arm := range v.Arms {
			r.expr(arm.Value)
			r.expr(arm.Body)
		}
	case *ast.CatchExpr:
		r.expr(v.Expr)
		r.stmts(v.Body)
	case *ast.Cast:
		r.expr(v.Expr)
	case *ast.Len:
		r.expr(v.Expr)
	case *ast.Syscall:
		for _, a := range v.Args {
			r.expr(a)
		}
	case *ast.StringInterpolation:
		for _, ie := range v.InterpExprs {
			r.expr(ie)
		}
	}
}

// resolveCall instantiates the callee's generic declaration when the call
// supplies explicit type arguments, then retargets the call at the mangled
// name so codegen's plain by-name function lookup finds the instantiation
// without needing to know anything about generics itself.
func (r *resolver) resolveCall(call *ast.Call) {
	if call.TypeArgs == nil {
		return
	}
	id, ok := call.Callee.(*ast.Identifier)
	if !ok {
		return
	}
	decl, ok := r.ctx.Functions[id.Name]
	if !ok || len(decl.TypeParams) == 0 {
		return
	}
	mangled := mono.Mangle(decl.Name, call.TypeArgs)
	seen := r.walked[mangled]
	r.markWalked(mangled)

	inst := r.engine.InstantiateFn(decl, call.TypeArgs)
	r.ctx.Functions[inst.Name] = inst
	id.Name = inst.Name
	call.TypeArgs = nil

	if !seen {
		// Walk the freshly substituted body too, so a generic function that
		// itself calls another generic with explicit type arguments gets its
		// callee instantiated as well (e.g. identity<T> forwarding to box<T>).
		r.stmts(inst.Body)
	}
}

func (r *resolver) markWalked(mangled string) {
	if r.walked == nil {
		r.walked = make(map[string]bool)
	}
	r.walked[mangled] = true
}

func (r *resolver) resolveStructInit(init *ast.StructInit) {
	if init.TypeArgs == nil {
		return
	}
	decl, ok := r.ctx.StructTypes[init.Name]
	if !ok || len(decl.TypeParams) == 0 {
		return
	}
	inst := r.engine.InstantiateStruct(decl, init.TypeArgs)
	r.ctx.StructTypes[inst.Name] = inst
	init.Name = inst.Name
	init.TypeArgs = nil
}
