package c99

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/uya-lang/uyac/internal/ast"
)

// wrapOps maps the wrapping/saturating arithmetic operator spellings to the
// helper call the backend emits instead of a raw C operator, since neither
// has a direct C99 equivalent (spec §4.1's `+|`/`-|`/`*|` wrap silently on
// overflow, `+%`/`-%`/`*%` saturate).
var wrapOps = map[string]string{
	"+|": "uya_add_wrap", "-|": "uya_sub_wrap", "*|": "uya_mul_wrap",
	"+%": "uya_add_sat", "-%": "uya_sub_sat", "*%": "uya_mul_sat",
}

// expr lowers one expression to a single C99 expression string. Every case
// here must produce a self-contained expression (no statements) — control-
// flow-bearing forms (try, catch) are intercepted one level up in stmt.go
// wherever a statement position allows multi-statement lowering.
func (e *Emitter) expr(ex ast.Expression, fc *fnCtx) string {
	switch v := ex.(type) {
	case *ast.Identifier:
		if renamed, ok := fc.renames[v.Name]; ok {
			return renamed
		}
		return v.Name

	case *ast.NumberLiteral:
		return strconv.FormatInt(v.Value, 10)

	case *ast.FloatLiteral:
		return strconv.FormatFloat(v.Value, 'g', -1, 64)

	case *ast.BoolLiteral:
		if v.Value {
			return "true"
		}
		return "false"

	case *ast.StringLiteral:
		return cStringLiteral(v.Value)

	case *ast.StringInterpolation:
		return e.interpolate(v, fc)

	case *ast.UnaryExpression:
		return e.unary(v, fc)

	case *ast.BinaryExpression:
		return e.binary(v, fc)

	case *ast.Call:
		return e.call(v, fc)

	case *ast.MemberAccess:
		return e.expr(v.Object, fc) + "." + v.Member

	case *ast.ArrayAccess:
		return e.expr(v.Array, fc) + "[" + e.expr(v.Index, fc) + "]"

	case *ast.Subscript:
		return e.expr(v.ToCall(), fc)

	case *ast.StructInit:
		return e.structInit(v, fc)

	case *ast.ArrayLiteral:
		parts := make([]string, len(v.Elems))
		for i, el := range v.Elems {
			parts[i] = e.expr(el, fc)
		}
		return "{ " + strings.Join(parts, ", ") + " }"

	case *ast.TupleLiteral:
		parts := make([]string, len(v.Elems))
		for i, el := range v.Elems {
			parts[i] = e.expr(el, fc)
		}
		return "{ " + strings.Join(parts, ", ") + " }"

	case *ast.Match:
		return e.matchAsTernaryChain(v, fc)

	case *ast.CatchExpr:
		// Reached only when a catch shows up mid-expression, outside any of
		// stmt.go's statement-level interceptions (e.g. as a call argument).
		// Not supported in this backend; emit a diagnostic-visible marker
		// rather than silently dropping the error path.
		return "/* unsupported: catch used as a subexpression */ " + e.expr(v.Expr, fc)

	case *ast.Cast:
		return "((" + e.cName(v.Target) + ")" + e.expr(v.Expr, fc) + ")"

	case *ast.Sizeof:
		return "sizeof(" + e.cName(v.Target) + ")"

	case *ast.Alignof:
		return "_Alignof(" + e.cName(v.Target) + ")"

	case *ast.Len:
		return "(" + e.expr(v.Expr, fc) + ").len"

	case *ast.Syscall:
		return e.syscall(v, fc)

	case *ast.ErrorValue:
		// Bare use outside a return/try position — e.g. stored in a var of
		// type uint32 for comparison against a caught error id. wrapReturnValue
		// intercepts the return-position case before reaching here.
		return fmt.Sprintf("%du", e.ctx.ErrorID(v.Name))

	default:
		return "0"
	}
}

func cStringLiteral(s string) string {
	var sb strings.Builder
	sb.WriteByte('"')
	for _, r := range s {
		switch r {
		case '"':
			sb.WriteString(`\"`)
		case '\\':
			sb.WriteString(`\\`)
		case '\n':
			sb.WriteString(`\n`)
		case '\t':
			sb.WriteString(`\t`)
		default:
			sb.WriteRune(r)
		}
	}
	sb.WriteByte('"')
	return sb.String()
}

func (e *Emitter) unary(v *ast.UnaryExpression, fc *fnCtx) string {
	switch v.Operator {
	case "try":
		// Only reachable when `try expr` appears outside a return/var/
		// assign position (stmt.go handles those). As a bare subexpression
		// there is no propagation target, so this degrades to the payload
		// access only — matches spec §9's "no bootstrap fallback beyond
		// this one documented path" by surfacing as a visible marker
		// instead of silently discarding the error tag.
		return "/* unsupported: try used as a subexpression */ (" + e.expr(v.Operand, fc) + ").value"
	case "&":
		return "(&" + e.expr(v.Operand, fc) + ")"
	default:
		return "(" + v.Operator + e.expr(v.Operand, fc) + ")"
	}
}

func (e *Emitter) binary(v *ast.BinaryExpression, fc *fnCtx) string {
	if helper, ok := wrapOps[v.Operator]; ok {
		return helper + "(" + e.expr(v.Left, fc) + ", " + e.expr(v.Right, fc) + ")"
	}
	if v.Operator == "==" || v.Operator == "!=" {
		if st := e.structEqOperand(v.Left); st != "" {
			eqCall := "memcmp(&(" + e.expr(v.Left, fc) + "), &(" + e.expr(v.Right, fc) + "), sizeof(struct " + st + ")) == 0"
			if v.Operator == "!=" {
				return "!(" + eqCall + ")"
			}
			return "(" + eqCall + ")"
		}
	}
	return "(" + e.expr(v.Left, fc) + " " + v.Operator + " " + e.expr(v.Right, fc) + ")"
}

// structEqOperand returns the struct type name of expr's resolved type if
// it is a struct, enabling a field-wise (memcmp) comparison since C's
// `==` does not compare aggregates.
func (e *Emitter) structEqOperand(expr ast.Expression) string {
	rt := expr.GetResolvedType()
	named, ok := rt.(*ast.TypeNamed)
	if !ok {
		return ""
	}
	if _, ok := e.ctx.StructTypes[named.Name]; ok {
		return named.Name
	}
	return ""
}

func (e *Emitter) call(v *ast.Call, fc *fnCtx) string {
	args := make([]string, 0, len(v.Args)+1)
	if ma, ok := v.Callee.(*ast.MemberAccess); ok {
		if _, ok := ma.Object.GetResolvedType().(*ast.TypeNamed); ok {
			args = append(args, "&("+e.expr(ma.Object, fc)+")")
		}
	}
	for _, a := range v.Args {
		args = append(args, e.expr(a, fc))
	}
	callee := e.calleeName(v, fc)
	return callee + "(" + strings.Join(args, ", ") + ")"
}

// calleeName resolves the C symbol for a call. A method call obj.method(...)
// on a struct-typed obj maps to uya_<Struct>_<method>, the name methodAsFn
// gives the method (call passes &obj as its self argument), and `main` maps
// to uya_main. Generic calls arrive already renamed to their instantiation
// (id<i32>(...) -> id_i32(...)) by registry.ResolveGenerics.
func (e *Emitter) calleeName(v *ast.Call, fc *fnCtx) string {
	if ma, ok := v.Callee.(*ast.MemberAccess); ok {
		rt := ma.Object.GetResolvedType()
		if named, ok := rt.(*ast.TypeNamed); ok {
			return "uya_" + named.Name + "_" + ma.Member
		}
	}
	if id, ok := v.Callee.(*ast.Identifier); ok {
		if id.Name == "main" {
			return "uya_main"
		}
	}
	return e.expr(v.Callee, fc)
}

// structInit lowers `Name{field: value, ...}` to a C99 designated
// initializer; generic instantiations rename to their mangled struct.
func (e *Emitter) structInit(v *ast.StructInit, fc *fnCtx) string {
	var sb strings.Builder
	sb.WriteString("(struct " + v.Name + "){ ")
	for i, f := range v.Fields {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString("." + f.Name + " = " + e.expr(f.Value, fc))
	}
	sb.WriteString(" }")
	return sb.String()
}

// matchAsTernaryChain lowers `match scrutinee { p1 => b1, ..., else => bn }`
// into a nested C99 ternary chain, since match is always used in
// expression position (spec §4.1) and C has no switch-expression.
func (e *Emitter) matchAsTernaryChain(v *ast.Match, fc *fnCtx) string {
	scrutinee := e.expr(v.Scrutinee, fc)
	var build func(i int) string
	build = func(i int) string {
		if i >= len(v.Arms) {
			return "0"
		}
		arm := v.Arms[i]
		if arm.Wildcard {
			return e.expr(arm.Body, fc)
		}
		cond := "(" + scrutinee + ") == (" + e.expr(arm.Value, fc) + ")"
		return "(" + cond + " ? (" + e.expr(arm.Body, fc) + ") : (" + build(i+1) + "))"
	}
	return build(0)
}

// syscall lowers `@syscall(n, args...)` to the fixed-arity uya_syscallN
// helper matching args' count (spec §4.3's FFI escape hatch), declared in
// the runtime support shipped alongside the generated C.
func (e *Emitter) syscall(v *ast.Syscall, fc *fnCtx) string {
	parts := make([]string, len(v.Args))
	for i, a := range v.Args {
		parts[i] = e.expr(a, fc)
	}
	return "uya_syscall" + strconv.Itoa(len(v.Args)-1) + "(" + strings.Join(parts, ", ") + ")"
}

// interpolate lowers `"text${expr:spec}more"` to an snprintf-into-buffer
// call sequence, matching the sprintf-based pattern captured from the
// language's string-interpolation test fixture. Each interpolated segment
// picks a printf conversion from its FormatSpec type char, defaulting by
// the segment expression's resolved type when no spec is given.
func (e *Emitter) interpolate(v *ast.StringInterpolation, fc *fnCtx) string {
	buf := e.newTemp("_uya_fmt_buf")
	var sb strings.Builder
	sb.WriteString("({ static char " + buf + "[1024]; " + buf + "[0] = 0; size_t " + buf + "_n = 0; ")
	for i, seg := range v.TextSegments {
		if seg != "" {
			sb.WriteString(buf + "_n += snprintf(" + buf + " + " + buf + "_n, sizeof(" + buf + ") - " + buf + "_n, \"%s\", " + cStringLiteral(seg) + "); ")
		}
		if i < len(v.InterpExprs) {
			conv, arg := e.formatConversion(v.InterpExprs[i], v.FormatSpecs[i], fc)
			sb.WriteString(buf + "_n += snprintf(" + buf + " + " + buf + "_n, sizeof(" + buf + ") - " + buf + "_n, \"" + conv + "\", " + arg + "); ")
		}
	}
	sb.WriteString(buf + "; })")
	return sb.String()
}

// formatConversion picks a printf conversion specifier for one interpolated
// expression, honoring an explicit FormatSpec (flags/width/precision/type)
// when present and otherwise guessing from the expression's resolved type.
func (e *Emitter) formatConversion(ex ast.Expression, spec *ast.FormatSpec, fc *fnCtx) (string, string) {
	arg := e.expr(ex, fc)
	if !spec.Empty() {
		conv := "%" + spec.Flags + spec.Width
		if spec.Precision != "" {
			conv += "." + spec.Precision
		}
		typeChar := string(spec.Type)
		if spec.Type == 0 {
			typeChar = defaultConv(ex)
		}
		return conv + typeChar, arg
	}
	return "%" + defaultConv(ex), arg
}

func defaultConv(ex ast.Expression) string {
	switch rt := ex.GetResolvedType().(type) {
	case *ast.TypeNamed:
		switch rt.Name {
		case "f32", "f64":
			return "g"
		case "bool":
			return "d"
		case "*i8", "byte":
			return "s"
		default:
			return "lld"
		}
	case *ast.TypePointer:
		if n, ok := rt.Elem.(*ast.TypeNamed); ok && (n.Name == "i8" || n.Name == "u8" || n.Name == "byte") {
			return "s"
		}
		return "p"
	default:
		return "d"
	}
}
