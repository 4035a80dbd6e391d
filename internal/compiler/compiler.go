// Package compiler wires the front end (internal/parser, internal/registry,
// internal/mono) to both code generation backends (internal/codegen/c99,
// internal/codegen/llvm) in a single-pass parse-register-monomorphize-emit
// pipeline with a choice of output target.
package compiler

import (
	"fmt"

	"github.com/uya-lang/uyac/internal/codegen/c99"
	"github.com/uya-lang/uyac/internal/codegen/llvm"
	"github.com/uya-lang/uyac/internal/errors"
	"github.com/uya-lang/uyac/internal/mono"
	"github.com/uya-lang/uyac/internal/parser"
	"github.com/uya-lang/uyac/internal/registry"
)

// Target selects which backend CompileString renders against.
type Target string

const (
	TargetC99  Target = "c99"
	TargetLLVM Target = "llvm"
)

// Result carries the rendered output and every diagnostic accumulated
// across the pipeline's stages, so a caller can report parse errors and
// lowering errors from one pass (spec §7's "maximize error count").
type Result struct {
	Output string
	Diags  *errors.Diagnostics
}

// CompileString runs file/src through the full pipeline against target,
// returning the rendered C99 source or LLVM IR text. A parse failure short-
// circuits before registration/monomorphization/emission run, since later
// stages assume a syntactically valid tree.
func CompileString(file, src string, target Target) (*Result, error) {
	prog, diags := parser.ParseProgram(file, src)
	if diags.HasErrors() {
		return &Result{Diags: diags}, nil
	}

	ctx := registry.NewContext()
	ctx.RegisterProgram(prog)
	engine := mono.NewEngine()
	registry.ResolveGenerics(prog, ctx, engine)
	registry.InferTypes(prog, ctx)

	switch target {
	case TargetC99:
		em := c99.NewEmitter(ctx, engine)
		out := em.Emit(prog)
		diags.Extend(em.Diagnostics())
		return &Result{Output: out, Diags: diags}, nil

	case TargetLLVM:
		em := llvm.NewEmitter(ctx, engine, moduleNameFor(file))
		defer em.Dispose()
		out := em.Emit(prog)
		diags.Extend(em.Diagnostics())
		return &Result{Output: out, Diags: diags}, nil

	default:
		return nil, fmt.Errorf("compiler: unknown target %q", target)
	}
}

func moduleNameFor(file string) string {
	for i := len(file) - 1; i >= 0; i-- {
		if file[i] == '/' || file[i] == '\\' {
			return file[i+1:]
		}
	}
	return file
}
