// Package errors formats and accumulates compiler diagnostics.
//
// Every stage (parser, monomorphization engine, both backends) reports
// problems through a *Diagnostic rather than a Go error return, so that one
// compilation pass can surface every problem it finds instead of stopping
// at the first one. Diagnostics render as a line-oriented
// `file:line:col: kind: message` with a source-line-plus-caret excerpt.
package errors

import (
	"fmt"
	"strings"

	"github.com/uya-lang/uyac/internal/lexer"
)

// Kind classifies a Diagnostic by compilation stage, per spec §7.
type Kind string

const (
	KindParse      Kind = "parse error"
	KindResolution Kind = "resolution error"
	KindLowering   Kind = "lowering error"
	KindABI        Kind = "ABI error"
)

// Parse-error sub-kinds (spec §4.1 "Fails with ParseError{kind, span}").
const (
	ErrUnexpected            = "unexpected-token"
	ErrMissingToken          = "missing-token"
	ErrInvalidType           = "invalid-type"
	ErrInvalidEscape         = "invalid-escape"
	ErrUnterminatedInterp    = "unterminated-interpolation"
	ErrNoPrefixParse         = "no-prefix-parse-fn"
	ErrInvalidExpression     = "invalid-expression"
	ErrUnresolvedArraySize   = "unresolved-array-size"
	ErrUnknownIdentifier     = "unknown-identifier"
	ErrUnknownStruct         = "unknown-struct"
	ErrUnknownMethod         = "unknown-method"
	ErrWrongTypeArgCount     = "wrong-type-arg-count"
	ErrUnsupportedType       = "unsupported-type-in-context"
	ErrMonomorphizationClash = "monomorphization-conflict"
	ErrInvalidCast           = "invalid-cast"
	ErrInvalidLValue         = "invalid-lvalue"
	ErrExternABI             = "extern-abi-unsupported-type"
)

// Diagnostic is a single compiler-reported problem.
type Diagnostic struct {
	Kind       Kind
	Code       string
	Message    string
	Suggestion string
	Pos        lexer.Position
	// Placeholder marks a bootstrap-fallback event: the backend could not
	// lower the construct and substituted a typed zero/null so that
	// subsequent lowering in the same function stays meaningful. See
	// spec §4.4 / §9; never set outside that single documented path.
	Placeholder bool
}

func (d *Diagnostic) Error() string { return d.Format(false) }

// Format renders "<file>:<line>:<col>: <kind>: <message>" plus an optional
// suggestion line and, for bootstrap-fallback diagnostics, a trailing
// "note: used placeholder" line (spec §7).
func (d *Diagnostic) Format(color bool) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s: %s: %s", d.Pos.String(), d.Kind, d.Message)
	if d.Suggestion != "" {
		fmt.Fprintf(&sb, "\n  suggestion: %s", d.Suggestion)
	}
	if d.Placeholder {
		sb.WriteString("\n  note: used placeholder")
	}
	return sb.String()
}

// FormatWithSource renders the diagnostic with the offending source line
// and a caret under the column.
func (d *Diagnostic) FormatWithSource(source string) string {
	lines := strings.Split(source, "\n")
	if d.Pos.Line < 1 || d.Pos.Line > len(lines) {
		return d.Format(false)
	}
	var sb strings.Builder
	sb.WriteString(d.Format(false))
	sb.WriteByte('\n')
	lineNumStr := fmt.Sprintf("%4d | ", d.Pos.Line)
	sb.WriteString(lineNumStr)
	sb.WriteString(lines[d.Pos.Line-1])
	sb.WriteByte('\n')
	sb.WriteString(strings.Repeat(" ", len(lineNumStr)+d.Pos.Column-1))
	sb.WriteByte('^')
	return sb.String()
}

// New constructs a Diagnostic.
func New(kind Kind, code string, pos lexer.Position, msg string, args ...any) *Diagnostic {
	return &Diagnostic{Kind: kind, Code: code, Pos: pos, Message: fmt.Sprintf(msg, args...)}
}

func NewParse(pos lexer.Position, code, msg string, args ...any) *Diagnostic {
	return New(KindParse, code, pos, msg, args...)
}

func NewResolution(pos lexer.Position, code, msg string, args ...any) *Diagnostic {
	return New(KindResolution, code, pos, msg, args...)
}

func NewLowering(pos lexer.Position, code, msg string, args ...any) *Diagnostic {
	return New(KindLowering, code, pos, msg, args...)
}

func NewABI(pos lexer.Position, code, msg string, args ...any) *Diagnostic {
	return New(KindABI, code, pos, msg, args...)
}

// WithSuggestion attaches a one-line fix suggestion and returns the receiver,
// for fluent construction at the call site.
func (d *Diagnostic) WithSuggestion(s string) *Diagnostic {
	d.Suggestion = s
	return d
}

// AsPlaceholder marks the diagnostic as a bootstrap-fallback event.
func (d *Diagnostic) AsPlaceholder() *Diagnostic {
	d.Placeholder = true
	return d
}

// Diagnostics is an ordered accumulator shared by every stage that can
// report more than one problem per run. The driver consults HasErrors()
// after emission and fails the overall compilation if it is true (spec §4.4,
// §7: "the driver aborts after emission if the count is nonzero").
type Diagnostics struct {
	items []*Diagnostic
}

func (d *Diagnostics) Add(diag *Diagnostic) {
	if diag != nil {
		d.items = append(d.items, diag)
	}
}

func (d *Diagnostics) Extend(other *Diagnostics) {
	if other != nil {
		d.items = append(d.items, other.items...)
	}
}

func (d *Diagnostics) All() []*Diagnostic { return d.items }
func (d *Diagnostics) HasErrors() bool    { return len(d.items) > 0 }
func (d *Diagnostics) Count() int         { return len(d.items) }

func (d *Diagnostics) String() string {
	lines := make([]string, len(d.items))
	for i, it := range d.items {
		lines[i] = it.Format(false)
	}
	return strings.Join(lines, "\n")
}
