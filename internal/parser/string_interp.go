package parser

import (
	"strings"

	"github.com/uya-lang/uyac/internal/ast"
	"github.com/uya-lang/uyac/internal/errors"
	"github.com/uya-lang/uyac/internal/lexer"
)

// parseStringContent turns one STRING token into either a plain
// ast.StringLiteral or, if it contains `${...}` markers, an
// ast.StringInterpolation. The lexer leaves `${...}` regions as raw,
// unescaped text (internal/lexer.readString) specifically so this function
// can re-lex each interpolated expression with its own Parser instance
// (spec §4.1's interpolation sub-grammar).
func (p *Parser) parseStringContent(tok lexer.Token) ast.Expression {
	raw := tok.Literal
	if !strings.Contains(raw, "${") {
		return &ast.StringLiteral{Token: tok, Value: raw}
	}

	interp := &ast.StringInterpolation{Token: tok}
	var textBuf strings.Builder
	i := 0
	for i < len(raw) {
		if raw[i] == '$' && i+1 < len(raw) && raw[i+1] == '{' {
			inner, specText, next, ok := scanInterpolationBody(raw, i+2)
			if !ok {
				p.errorf(errors.ErrUnterminatedInterp, "unterminated ${...} in string literal starting at %s", tok.Pos)
				return nil
			}
			interp.TextSegments = append(interp.TextSegments, textBuf.String())
			textBuf.Reset()

			sub := New(tok.Pos.File, inner)
			expr := sub.parseExpression(LOWEST)
			if expr == nil || sub.diags.HasErrors() {
				p.diags.Extend(&sub.diags)
				p.errorf(errors.ErrInvalidExpression, "invalid expression in string interpolation: %q", inner)
				return nil
			}
			interp.InterpExprs = append(interp.InterpExprs, expr)
			interp.FormatSpecs = append(interp.FormatSpecs, parseFormatSpec(specText))
			i = next
			continue
		}
		textBuf.WriteByte(raw[i])
		i++
	}
	interp.TextSegments = append(interp.TextSegments, textBuf.String())
	return interp
}

// scanInterpolationBody scans from just after "${" (start) to the matching
// "}", tracking brace depth so a nested struct initializer or block
// expression inside the interpolation does not terminate it early. A
// trailing ":spec" (outside any nested braces) is split off and returned
// separately. Returns ok=false if no matching "}" is found.
func scanInterpolationBody(raw string, start int) (expr string, spec string, next int, ok bool) {
	depth := 1
	i := start
	colonIdx := -1
	for i < len(raw) {
		switch raw[i] {
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				body := raw[start:i]
				if colonIdx >= 0 {
					return body[:colonIdx-start], body[colonIdx-start+1:], i + 1, true
				}
				return body, "", i + 1, true
			}
		case ':':
			if depth == 1 && colonIdx < 0 {
				colonIdx = i
			}
		}
		i++
	}
	return "", "", 0, false
}

// parseFormatSpec parses the optional printf-style spec after the ':' in
// `${expr:spec}`: flags [#0-+ ]*, width digits*, an optional '.' + precision
// digits*, and a trailing type character (spec §4.1).
func parseFormatSpec(spec string) *ast.FormatSpec {
	if spec == "" {
		return nil
	}
	fs := &ast.FormatSpec{}
	i := 0
	for i < len(spec) && strings.ContainsRune("#0-+ ", rune(spec[i])) {
		fs.Flags += string(spec[i])
		i++
	}
	for i < len(spec) && spec[i] >= '0' && spec[i] <= '9' {
		fs.Width += string(spec[i])
		i++
	}
	if i < len(spec) && spec[i] == '.' {
		i++
		for i < len(spec) && spec[i] >= '0' && spec[i] <= '9' {
			fs.Precision += string(spec[i])
			i++
		}
	}
	if i < len(spec) {
		fs.Type = spec[i]
	}
	return fs
}
