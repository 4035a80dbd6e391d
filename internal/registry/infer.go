package registry

import "github.com/uya-lang/uyac/internal/ast"

// InferTypes does the forward, local-only type propagation both backends'
// struct-equality and generic-rename logic (c99's structEqOperand, llvm's
// structuralEqual dispatch) depend on: walking every function body with a
// running var-name -> declared-type map (seeded from parameters), and
// stamping each Identifier and StructInit's ResolvedType as soon as its
// binding is known. This is deliberately not a full type checker — it
// infers exactly the shapes codegen already knows how to ask for (a
// variable's declared/inferred type), not expression results in general.
func InferTypes(prog *ast.Program, ctx *Context) {
	infer := &typeInferer{ctx: ctx}
	for _, d := range prog.Decls {
		switch decl := d.(type) {
		case *ast.FnDecl:
			infer.fn(decl, "")
		case *ast.MethodBlock:
			for _, m := range decl.Methods {
				infer.fn(m, decl.TargetName)
			}
		case *ast.TestBlock:
			infer.run(decl.Body, map[string]ast.TypeExpr{})
		}
	}
}

type typeInferer struct {
	ctx *Context
}

func (in *typeInferer) fn(decl *ast.FnDecl, selfType string) {
	vars := make(map[string]ast.TypeExpr, len(decl.Params)+1)
	for _, p := range decl.Params {
		vars[p.Name] = p.Type
	}
	if selfType != "" {
		vars["self"] = &ast.TypeNamed{Name: selfType}
	}
	in.run(decl.Body, vars)
}

func (in *typeInferer) run(body []ast.Statement, vars map[string]ast.TypeExpr) {
	for _, s := range body {
		in.stmt(s, vars)
	}
}

func (in *typeInferer) stmt(s ast.Statement, vars map[string]ast.TypeExpr) {
	switch v := s.(type) {
	case *ast.Block:
		in.run(v.Stmts, vars)
	case *ast.VarStatement:
		in.expr(v.Value, vars)
		t := v.Type
		if t == nil {
			t = in.inferredType(v.Value, vars)
		}
		if t != nil {
			vars[v.Name] = t
		}
	case *ast.AssignStatement:
		in.expr(v.Target, vars)
		in.expr(v.Value, vars)
	case *ast.ExpressionStatement:
		in.expr(v.Expr, vars)
	case *ast.IfStatement:
		in.expr(v.Condition, vars)
		in.stmt(v.Then, vars)
		if v.Else != nil {
			in.stmt(v.Else, vars)
		}
	case *ast.WhileStatement:
		in.expr(v.Condition, vars)
		in.stmt(v.Body, vars)
	case *ast.ForStatement:
		in.expr(v.Iterable, vars)
		in.stmt(v.Body, vars)
	case *ast.ReturnStatement:
		in.expr(v.Value, vars)
	case *ast.DeferStatement:
		in.run(v.Body, vars)
	case *ast.ErrDeferStatement:
		in.run(v.Body, vars)
	}
}

// inferredType guesses a binding's type from its initializer when no
// explicit annotation is present: a struct literal binds to that struct's
// named type, a plain identifier copies its own already-known type.
func (in *typeInferer) inferredType(value ast.Expression, vars map[string]ast.TypeExpr) ast.TypeExpr {
	switch v := value.(type) {
	case *ast.StructInit:
		return &ast.TypeNamed{Name: v.Name}
	case *ast.Identifier:
		return vars[v.Name]
	}
	return nil
}

func (in *typeInferer) expr(e ast.Expression, vars map[string]ast.TypeExpr) {
	switch v := e.(type) {
	case nil:
		return
	case *ast.Identifier:
		if t, ok := vars[v.Name]; ok && v.GetResolvedType() == nil {
			v.SetResolvedType(t)
		}
	case *ast.UnaryExpression:
		in.expr(v.Operand, vars)
	case *ast.BinaryExpression:
		in.expr(v.Left, vars)
		in.expr(v.Right, vars)
	case *ast.Call:
		in.expr(v.Callee, vars)
		for _, a := range v.Args {
			in.expr(a, vars)
		}
	case *ast.MemberAccess:
		in.expr(v.Object, vars)
	case *ast.ArrayAccess:
		in.expr(v.Array, vars)
		in.expr(v.Index, vars)
	case *ast.Subscript:
		in.expr(v.Base, vars)
		in.expr(v.Start, vars)
		in.expr(v.Len, vars)
	case *ast.StructInit:
		if v.GetResolvedType() == nil {
			v.SetResolvedType(&ast.TypeNamed{Name: v.Name})
		}
		for _, f := range v.Fields {
			in.expr(f.Value, vars)
		}
	case *ast.ArrayLiteral:
		for _, el := range v.Elems {
			in.expr(el, vars)
		}
	case *ast.TupleLiteral:
		for _, el := range v.Elems {
			in.expr(el, vars)
		}
	case *ast.Match:
		in.expr(v.Scrutinee, vars)
		for _, arm := range v.Arms {
			in.expr(arm.Value, vars)
			in.expr(arm.Body, vars)
		}
	case *ast.CatchExpr:
		in.expr(v.Expr, vars)
		in.run(v.Body, vars)
	case *ast.Cast:
		in.expr(v.Expr, vars)
	case *ast.Len:
		in.expr(v.Expr, vars)
	case *ast.Syscall:
		for _, a := range v.Args {
			in.expr(a, vars)
		}
	case *ast.StringInterpolation:
		for _, ie := range v.InterpExprs {
			in.expr(ie, vars)
		}
	}
}
