package mono

import "github.com/uya-lang/uyac/internal/ast"

// key identifies one (declaration, concrete type arguments) instantiation.
type key struct {
	name string
	args string
}

// Engine instantiates generic declarations on demand and remembers each
// (decl, type-args) pair it has already emitted, so calling the same
// generic with the same arguments from ten call sites produces exactly one
// monomorphized declaration (spec §8 invariant: "no duplicate
// monomorphizations for identical type-argument lists").
type Engine struct {
	fnCache     map[key]*ast.FnDecl
	structCache map[key]*ast.StructDecl

	// active holds the (type_params, type_args) bindings of the
	// instantiations InstantiateFn is building, pushed on entry and popped
	// on return. Nothing reads it: generic calls inside an instantiated body
	// are instantiated afterwards, by registry.ResolveGenerics walking it.
	active []map[string]ast.TypeExpr
}

func NewEngine() *Engine {
	return &Engine{
		fnCache:     make(map[key]*ast.FnDecl),
		structCache: make(map[key]*ast.StructDecl),
	}
}

func argsKey(typeArgs []ast.TypeExpr) string {
	s := ""
	for _, a := range typeArgs {
		s += "," + manglePart(a)
	}
	return s
}

// InstantiateFn returns the monomorphized FnDecl for decl<typeArgs>,
// building and caching it on first request.
func (e *Engine) InstantiateFn(decl *ast.FnDecl, typeArgs []ast.TypeExpr) *ast.FnDecl {
	if len(decl.TypeParams) == 0 {
		return decl
	}
	k := key{name: decl.Name, args: argsKey(typeArgs)}
	if cached, ok := e.fnCache[k]; ok {
		return cached
	}
	bindings := Bindings(decl.TypeParams, typeArgs)
	e.active = append(e.active, bindings)
	defer func() { e.active = e.active[:len(e.active)-1] }()

	mangled := Mangle(decl.Name, typeArgs)
	params := make([]*ast.Param, len(decl.Params))
	for i, p := range decl.Params {
		params[i] = &ast.Param{Name: p.Name, Type: Substitute(p.Type, bindings)}
	}
	var ret ast.TypeExpr
	if decl.ReturnType != nil {
		ret = Substitute(decl.ReturnType, bindings)
	}
	body := make([]ast.Statement, len(decl.Body))
	for i, s := range decl.Body {
		body[i] = CloneStatement(s, bindings)
	}
	out := &ast.FnDecl{
		Span: decl.Span, Name: mangled, Params: params, ReturnType: ret,
		Body: body, IsTest: decl.IsTest,
	}
	e.fnCache[k] = out
	return out
}

// InstantiateStruct returns the monomorphized StructDecl for decl<typeArgs>.
func (e *Engine) InstantiateStruct(decl *ast.StructDecl, typeArgs []ast.TypeExpr) *ast.StructDecl {
	if len(decl.TypeParams) == 0 {
		return decl
	}
	k := key{name: decl.Name, args: argsKey(typeArgs)}
	if cached, ok := e.structCache[k]; ok {
		return cached
	}
	bindings := Bindings(decl.TypeParams, typeArgs)
	mangled := Mangle(decl.Name, typeArgs)
	fields := make([]*ast.Field, len(decl.Fields))
	for i, f := range decl.Fields {
		fields[i] = &ast.Field{Name: f.Name, Type: Substitute(f.Type, bindings)}
	}
	out := &ast.StructDecl{Span: decl.Span, Name: mangled, Fields: fields}
	e.structCache[k] = out
	return out
}

// Instantiations returns every monomorphized function built so far, for the
// backend to emit alongside the non-generic declarations.
func (e *Engine) Instantiations() []*ast.FnDecl {
	out := make([]*ast.FnDecl, 0, len(e.fnCache))
	for _, fn := range e.fnCache {
		out = append(out, fn)
	}
	return out
}

func (e *Engine) StructInstantiations() []*ast.StructDecl {
	out := make([]*ast.StructDecl, 0, len(e.structCache))
	for _, s := range e.structCache {
		out = append(out, s)
	}
	return out
}
