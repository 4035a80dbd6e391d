// Package ast defines the Uya abstract syntax tree.
//
// A "tagged variant" tree (spec §3) is realized the idiomatic Go way: a
// closed set of concrete struct types implementing shared Node/Expression/
// Statement/TypeExpr interfaces. A type switch over the concrete type *is*
// the tag dispatch; both backends walk the tree this way (see
// internal/codegen/c99 and internal/codegen/llvm).
//
// Every node carries a Span (spec §3: "(filename, line, column)"); spans are
// never mutated after construction. An Arena owns every node allocated for
// one compilation unit — Go's GC makes manual freeing unnecessary, so
// "ownership" here means single-writer, bulk-retained allocation counted
// through one Arena value per compilation, not hand-rolled memory pooling.
package ast

import (
	"bytes"

	"github.com/uya-lang/uyac/internal/lexer"
)

// Node is the base interface implemented by every AST node.
type Node interface {
	Pos() lexer.Position
	String() string
}

// Expression is any node that produces a value. ResolvedType is set, for
// identifiers and struct initializers, by the forward type-propagation pass
// (registry.InferTypes, internal/registry/infer.go) that runs ahead of
// either backend; see SPEC_FULL.md's Open Question decision on
// attaching resolved types instead of relying solely on best-effort walks.
type Expression interface {
	Node
	expressionNode()
	GetResolvedType() TypeExpr
	SetResolvedType(TypeExpr)
}

// Statement is a node that performs an action without producing a value.
type Statement interface {
	Node
	statementNode()
}

// TypeExpr is any node in type position (TypeNamed, TypePointer, ...).
type TypeExpr interface {
	Node
	typeExprNode()
}

// Decl is a top-level declaration (spec §4.1's declaration grammar).
type Decl interface {
	Node
	declNode()
}

// exprBase is embedded by every Expression to provide the ResolvedType slot
// without repeating the getter/setter on each concrete type.
type exprBase struct {
	resolved TypeExpr
}

func (e *exprBase) GetResolvedType() TypeExpr   { return e.resolved }
func (e *exprBase) SetResolvedType(t TypeExpr)  { e.resolved = t }
func (e *exprBase) expressionNode()             {}

// Arena owns all AST nodes produced while parsing one compilation unit.
// Node constructors are plain functions (idiomatic Go composite literals);
// Track exists so the parser can record allocation counts for
// diagnostics/tests without every node type needing an arena-aware
// constructor function.
type Arena struct {
	nodeCount int
}

func NewArena() *Arena { return &Arena{} }

// Track records that one more node was built against this arena and
// returns it unchanged, so call sites can wrap a construction:
// n := ast.Track(arena, &ast.Identifier{...}).
func Track[T Node](a *Arena, n T) T {
	a.nodeCount++
	return n
}

func (a *Arena) NodeCount() int { return a.nodeCount }

// Program is the root of the AST; it is the sole owner of every top-level
// declaration (spec §3 invariant).
type Program struct {
	Decls []Decl
}

func (p *Program) Pos() lexer.Position {
	if len(p.Decls) > 0 {
		return p.Decls[0].Pos()
	}
	return lexer.Position{Line: 1, Column: 1}
}

func (p *Program) String() string {
	var out bytes.Buffer
	for _, d := range p.Decls {
		out.WriteString(d.String())
		out.WriteString("\n")
	}
	return out.String()
}
