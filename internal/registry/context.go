// Package registry tracks declarations across a compilation unit: local and
// global variable scopes, struct/enum type declarations, function
// signatures, and the stable numeric ids assigned to `error Name;`
// declarations. Both backends (internal/codegen/c99, internal/codegen/llvm)
// consult the same *Context so struct layouts and function signatures are
// resolved identically regardless of which backend runs.
//
// Scopes chain through an outer pointer rather than a copied parent map, so
// nested blocks see enclosing bindings without duplicating them. Uya is
// case-sensitive: names are never folded to a canonical case.
package registry

import (
	"hash/fnv"

	"github.com/uya-lang/uyac/internal/ast"
	"github.com/uya-lang/uyac/internal/mono"
)

// Variable is one binding visible in a Scope: its declared type and the
// const/atomic qualifiers that affect lowering (spec §3/§4.3/§4.4).
type Variable struct {
	Name     string
	Type     ast.TypeExpr
	IsConst  bool
	IsAtomic bool
	IsParam  bool
}

// Scope is one nested lexical scope; Resolve walks outward to Global.
type Scope struct {
	vars  map[string]*Variable
	outer *Scope
}

func NewScope(outer *Scope) *Scope {
	return &Scope{vars: make(map[string]*Variable), outer: outer}
}

func (s *Scope) Define(v *Variable) { s.vars[v.Name] = v }

func (s *Scope) Resolve(name string) (*Variable, bool) {
	if v, ok := s.vars[name]; ok {
		return v, true
	}
	if s.outer != nil {
		return s.outer.Resolve(name)
	}
	return nil, false
}

// IsDeclaredHere reports whether name is bound directly in this scope
// (not an outer one), used to reject shadowing redeclarations.
func (s *Scope) IsDeclaredHere(name string) bool {
	_, ok := s.vars[name]
	return ok
}

// Context is the shared side-table a single compilation unit's parse tree
// is checked and lowered against: struct/enum layouts, function signatures,
// error-tag ids, and the current local-variable scope chain.
type Context struct {
	Global *Scope
	Local  *Scope // current innermost scope; nil outside a function body

	StructTypes map[string]*ast.StructDecl
	EnumTypes   map[string]*ast.EnumDecl
	Functions   map[string]*ast.FnDecl
	Externs     map[string]*ast.ExternDecl
	Methods     map[string]*ast.MethodBlock // keyed by TargetName

	errorIDs map[string]uint32
}

func NewContext() *Context {
	c := &Context{
		Global:      NewScope(nil),
		StructTypes: make(map[string]*ast.StructDecl),
		EnumTypes:   make(map[string]*ast.EnumDecl),
		Functions:   make(map[string]*ast.FnDecl),
		Externs:     make(map[string]*ast.ExternDecl),
		Methods:     make(map[string]*ast.MethodBlock),
		errorIDs:    make(map[string]uint32),
	}
	c.Local = c.Global
	return c
}

// PushScope opens a nested scope (function body, block, for/while body).
func (c *Context) PushScope() { c.Local = NewScope(c.Local) }

// PopScope closes the innermost scope and returns to its parent. Popping
// past Global is a caller bug, not a recoverable condition — callers always
// pair PushScope/PopScope within one function body.
func (c *Context) PopScope() {
	if c.Local.outer != nil {
		c.Local = c.Local.outer
	}
}

// ErrorID returns the stable 32-bit id for a named error tag, assigning one
// on first use by hashing the name. The hash is FNV-1a, a fast non-
// cryptographic choice well suited to short interned-string keys.
func (c *Context) ErrorID(name string) uint32 {
	if id, ok := c.errorIDs[name]; ok {
		return id
	}
	h := fnv.New32a()
	h.Write([]byte(name))
	id := h.Sum32()
	c.errorIDs[name] = id
	return id
}

// RegisterProgram performs the two-phase registration every later pass
// relies on: first every struct/enum/error name is known (so field and
// parameter types can reference types declared later in the file), then
// functions/externs/impl blocks are registered against that complete type
// set (spec §4.1: declarations may appear in any order within a file).
func (c *Context) RegisterProgram(prog *ast.Program) {
	for _, d := range prog.Decls {
		switch decl := d.(type) {
		case *ast.StructDecl:
			c.StructTypes[decl.Name] = decl
		case *ast.EnumDecl:
			c.EnumTypes[decl.Name] = decl
		case *ast.ErrorDecl:
			c.ErrorID(decl.Name)
		}
	}
	for _, d := range prog.Decls {
		switch decl := d.(type) {
		case *ast.FnDecl:
			c.Functions[decl.Name] = decl
		case *ast.ExternDecl:
			c.Externs[decl.Name] = decl
		case *ast.MethodBlock:
			c.Methods[decl.TargetName] = decl
			for _, m := range decl.Methods {
				c.Functions[mangleMethodName(decl.TargetName, m.Name)] = m
			}
		}
	}
}

// mangleMethodName matches the C99 backend's `uya_<Struct>_<method>` naming
// (spec §4.3) so registry lookups and emitted C symbols never diverge.
func mangleMethodName(structName, method string) string {
	return "uya_" + structName + "_" + method
}

// LookupMethod finds a method declared on a struct or enum, either from its
// external `impl` block or — if none matches — by treating the name as
// already monomorphized and stripping the mangled type-argument suffix
// (ported from compiler-c/src/codegen/c99/function.c's
// find_method_in_struct_c99 / extract_generic_name_from_mono, spec §4.2).
func (c *Context) LookupMethod(typeName, method string) (*ast.FnDecl, bool) {
	if block, ok := c.Methods[typeName]; ok {
		for _, m := range block.Methods {
			if m.Name == method {
				return m, true
			}
		}
	}
	base, ok := mono.ExtractGenericBase(typeName)
	if !ok {
		return nil, false
	}
	return c.LookupMethod(base, method)
}
