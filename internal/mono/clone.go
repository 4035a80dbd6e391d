package mono

import "github.com/uya-lang/uyac/internal/ast"

// CloneStatement deep-copies stmt, substituting every TypeExpr reachable
// inside it (a VarStatement's declared type, a Cast's target type, a
// Sizeof/Alignof's target type) according to bindings. Statement and
// expression identity is not load-bearing anywhere downstream, so a plain
// recursive copy (rather than in-place mutation) keeps the original generic
// declaration's body reusable for the next instantiation.
func CloneStatement(s ast.Statement, bindings map[string]ast.TypeExpr) ast.Statement {
	if s == nil {
		return nil
	}
	switch v := s.(type) {
	case *ast.Block:
		stmts := make([]ast.Statement, len(v.Stmts))
		for i, st := range v.Stmts {
			stmts[i] = CloneStatement(st, bindings)
		}
		return &ast.Block{Span: v.Span, Stmts: stmts}

	case *ast.VarStatement:
		var typ ast.TypeExpr
		if v.Type != nil {
			typ = Substitute(v.Type, bindings)
		}
		return &ast.VarStatement{
			Span: v.Span, Name: v.Name, Type: typ,
			Value: CloneExpression(v.Value, bindings), IsConst: v.IsConst, IsAtomic: v.IsAtomic,
		}

	case *ast.AssignStatement:
		return &ast.AssignStatement{
			Span: v.Span, Target: CloneExpression(v.Target, bindings), Operator: v.Operator,
			Value: CloneExpression(v.Value, bindings),
		}

	case *ast.ExpressionStatement:
		return &ast.ExpressionStatement{Span: v.Span, Expr: CloneExpression(v.Expr, bindings)}

	case *ast.IfStatement:
		return &ast.IfStatement{
			Span: v.Span, Condition: CloneExpression(v.Condition, bindings),
			Then: CloneStatement(v.Then, bindings).(*ast.Block),
			Else: CloneStatement(v.Else, bindings),
		}

	case *ast.WhileStatement:
		return &ast.WhileStatement{
			Span: v.Span, Condition: CloneExpression(v.Condition, bindings),
			Body: CloneStatement(v.Body, bindings).(*ast.Block),
		}

	case *ast.ForStatement:
		return &ast.ForStatement{
			Span: v.Span, VarName: v.VarName, Iterable: CloneExpression(v.Iterable, bindings),
			Body: CloneStatement(v.Body, bindings).(*ast.Block),
		}

	case *ast.ReturnStatement:
		return &ast.ReturnStatement{Span: v.Span, Value: CloneExpression(v.Value, bindings)}

	case *ast.DeferStatement:
		return &ast.DeferStatement{Span: v.Span, Body: cloneStatements(v.Body, bindings)}

	case *ast.ErrDeferStatement:
		return &ast.ErrDeferStatement{Span: v.Span, Body: cloneStatements(v.Body, bindings)}

	case *ast.BreakStatement:
		return &ast.BreakStatement{Span: v.Span}

	case *ast.ContinueStatement:
		return &ast.ContinueStatement{Span: v.Span}

	default:
		return s
	}
}

func cloneStatements(stmts []ast.Statement, bindings map[string]ast.TypeExpr) []ast.Statement {
	if stmts == nil {
		return nil
	}
	out := make([]ast.Statement, len(stmts))
	for i, s := range stmts {
		out[i] = CloneStatement(s, bindings)
	}
	return out
}

// CloneExpression deep-copies expr under the same substitution rules as
// CloneStatement.
func CloneExpression(e ast.Expression, bindings map[string]ast.TypeExpr) ast.Expression {
	if e == nil {
		return nil
	}
	switch v := e.(type) {
	case *ast.Identifier, *ast.NumberLiteral, *ast.FloatLiteral, *ast.BoolLiteral, *ast.StringLiteral:
		return e

	case *ast.StringInterpolation:
		exprs := make([]ast.Expression, len(v.InterpExprs))
		for i, ie := range v.InterpExprs {
			exprs[i] = CloneExpression(ie, bindings)
		}
		return &ast.StringInterpolation{
			Token: v.Token, TextSegments: v.TextSegments, InterpExprs: exprs, FormatSpecs: v.FormatSpecs,
		}

	case *ast.UnaryExpression:
		return &ast.UnaryExpression{Token: v.Token, Operator: v.Operator, Operand: CloneExpression(v.Operand, bindings)}

	case *ast.BinaryExpression:
		return &ast.BinaryExpression{
			Token: v.Token, Left: CloneExpression(v.Left, bindings), Operator: v.Operator,
			Right: CloneExpression(v.Right, bindings),
		}

	case *ast.Call:
		args := make([]ast.Expression, len(v.Args))
		for i, a := range v.Args {
			args[i] = CloneExpression(a, bindings)
		}
		var typeArgs []ast.TypeExpr
		if v.TypeArgs != nil {
			typeArgs = make([]ast.TypeExpr, len(v.TypeArgs))
			for i, t := range v.TypeArgs {
				typeArgs[i] = Substitute(t, bindings)
			}
		}
		return &ast.Call{Token: v.Token, Callee: CloneExpression(v.Callee, bindings), TypeArgs: typeArgs, Args: args}

	case *ast.MemberAccess:
		return &ast.MemberAccess{Object: CloneExpression(v.Object, bindings), Member: v.Member}

	case *ast.ArrayAccess:
		return &ast.ArrayAccess{Token: v.Token, Array: CloneExpression(v.Array, bindings), Index: CloneExpression(v.Index, bindings)}

	case *ast.Subscript:
		return &ast.Subscript{
			Token: v.Token, Base: CloneExpression(v.Base, bindings),
			Start: CloneExpression(v.Start, bindings), Len: CloneExpression(v.Len, bindings),
		}

	case *ast.StructInit:
		fields := make([]ast.FieldInit, len(v.Fields))
		for i, f := range v.Fields {
			fields[i] = ast.FieldInit{Name: f.Name, Value: CloneExpression(f.Value, bindings)}
		}
		var typeArgs []ast.TypeExpr
		if v.TypeArgs != nil {
			typeArgs = make([]ast.TypeExpr, len(v.TypeArgs))
			for i, t := range v.TypeArgs {
				typeArgs[i] = Substitute(t, bindings)
			}
		}
		return &ast.StructInit{Token: v.Token, Name: v.Name, TypeArgs: typeArgs, Fields: fields}

	case *ast.ArrayLiteral:
		elems := make([]ast.Expression, len(v.Elems))
		for i, el := range v.Elems {
			elems[i] = CloneExpression(el, bindings)
		}
		return &ast.ArrayLiteral{Token: v.Token, Elems: elems}

	case *ast.TupleLiteral:
		elems := make([]ast.Expression, len(v.Elems))
		for i, el := range v.Elems {
			elems[i] = CloneExpression(el, bindings)
		}
		return &ast.TupleLiteral{Token: v.Token, Elems: elems}

	case *ast.Match:
		arms := make([]*ast.Pattern, len(v.Arms))
		for i, arm := range v.Arms {
			arms[i] = &ast.Pattern{
				Token: arm.Token, Value: CloneExpression(arm.Value, bindings),
				Wildcard: arm.Wildcard, Body: CloneExpression(arm.Body, bindings),
			}
		}
		return &ast.Match{Token: v.Token, Scrutinee: CloneExpression(v.Scrutinee, bindings), Arms: arms}

	case *ast.CatchExpr:
		return &ast.CatchExpr{
			Token: v.Token, Expr: CloneExpression(v.Expr, bindings), ErrorVar: v.ErrorVar,
			Body: cloneStatements(v.Body, bindings),
		}

	case *ast.Cast:
		return &ast.Cast{Token: v.Token, Expr: CloneExpression(v.Expr, bindings), Target: Substitute(v.Target, bindings)}

	case *ast.Sizeof:
		return &ast.Sizeof{Token: v.Token, Target: Substitute(v.Target, bindings)}

	case *ast.Alignof:
		return &ast.Alignof{Token: v.Token, Target: Substitute(v.Target, bindings)}

	case *ast.Len:
		return &ast.Len{Token: v.Token, Expr: CloneExpression(v.Expr, bindings)}

	case *ast.Syscall:
		args := make([]ast.Expression, len(v.Args))
		for i, a := range v.Args {
			args[i] = CloneExpression(a, bindings)
		}
		return &ast.Syscall{Token: v.Token, Args: args}

	default:
		return e
	}
}
