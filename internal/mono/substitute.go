package mono

import "github.com/uya-lang/uyac/internal/ast"

// Substitute recursively replaces every TypeNamed in t whose name is a key
// in bindings with the bound concrete type. It preserves FFI-pointer flags
// and array SizeExpr nodes unchanged (spec §4.2: substitution must not
// disturb extern-ABI markers or already-resolved array sizes).
func Substitute(t ast.TypeExpr, bindings map[string]ast.TypeExpr) ast.TypeExpr {
	if t == nil {
		return nil
	}
	switch v := t.(type) {
	case *ast.TypeNamed:
		if bound, ok := bindings[v.Name]; ok && len(v.TypeArgs) == 0 {
			return bound
		}
		if len(v.TypeArgs) == 0 {
			return v
		}
		args := make([]ast.TypeExpr, len(v.TypeArgs))
		for i, a := range v.TypeArgs {
			args[i] = Substitute(a, bindings)
		}
		return &ast.TypeNamed{Span: v.Span, Name: v.Name, TypeArgs: args}

	case *ast.TypePointer:
		return &ast.TypePointer{Span: v.Span, Elem: Substitute(v.Elem, bindings), Borrow: v.Borrow, FFI: v.FFI}

	case *ast.TypeSlice:
		return &ast.TypeSlice{Span: v.Span, Elem: Substitute(v.Elem, bindings), Borrow: v.Borrow}

	case *ast.TypeArray:
		return &ast.TypeArray{Span: v.Span, Elem: Substitute(v.Elem, bindings), Size: v.Size, SizeExpr: v.SizeExpr}

	case *ast.TypeTuple:
		elems := make([]ast.TypeExpr, len(v.Elems))
		for i, e := range v.Elems {
			elems[i] = Substitute(e, bindings)
		}
		return &ast.TypeTuple{Span: v.Span, Elems: elems}

	case *ast.TypeErrorUnion:
		return &ast.TypeErrorUnion{Span: v.Span, Payload: Substitute(v.Payload, bindings)}

	case *ast.TypeAtomic:
		return &ast.TypeAtomic{Span: v.Span, Elem: Substitute(v.Elem, bindings)}

	case *ast.TypeFn:
		params := make([]ast.TypeExpr, len(v.Params))
		for i, p := range v.Params {
			params[i] = Substitute(p, bindings)
		}
		var ret ast.TypeExpr
		if v.Return != nil {
			ret = Substitute(v.Return, bindings)
		}
		return &ast.TypeFn{Span: v.Span, Params: params, Return: ret}

	default:
		return t
	}
}

// Bindings zips a generic declaration's type parameter names against a
// concrete type-argument list. Callers must already have validated the
// lengths match (spec §4.2's ErrWrongTypeArgCount diagnostic).
func Bindings(typeParams []string, typeArgs []ast.TypeExpr) map[string]ast.TypeExpr {
	b := make(map[string]ast.TypeExpr, len(typeParams))
	for i, name := range typeParams {
		if i < len(typeArgs) {
			b[name] = typeArgs[i]
		}
	}
	return b
}
