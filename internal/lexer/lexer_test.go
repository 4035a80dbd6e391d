package lexer

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNextTokenKeywordsAndPunctuation(t *testing.T) {
	input := `fn div(a: i32, b: i32) !i32 { if (b == 0) return error.DivZero; return a/b; }`

	toks, errs := Tokenize("div.uya", input)
	require.Empty(t, errs)

	wantKinds := []TokenKind{
		FN, IDENT, LPAREN, IDENT, COLON, IDENT, COMMA, IDENT, COLON, IDENT, RPAREN,
		BANG, IDENT, LBRACE,
		IF, LPAREN, IDENT, EQ, NUMBER, RPAREN, RETURN, ERROR, DOT, IDENT, SEMICOLON,
		RETURN, IDENT, SLASH, IDENT, SEMICOLON,
		RBRACE, EOF,
	}
	require.Len(t, toks, len(wantKinds))
	for i, want := range wantKinds {
		require.Equalf(t, want, toks[i].Kind, "token %d (%q)", i, toks[i].Literal)
	}
}

func TestNextTokenGenericCallAngleBrackets(t *testing.T) {
	toks, errs := Tokenize("id.uya", `id<i32>(42)`)
	require.Empty(t, errs)
	require.Equal(t, []TokenKind{IDENT, LESS, IDENT, GREATER, LPAREN, NUMBER, RPAREN, EOF}, kindsOf(toks))
}

func TestNextTokenStringWithInterpolationMarkerPreserved(t *testing.T) {
	toks, errs := Tokenize("s.uya", `"count = ${n:d}"`)
	require.Empty(t, errs)
	require.Len(t, toks, 2)
	require.Equal(t, STRING, toks[0].Kind)
	require.Equal(t, "count = ${n:d}", toks[0].Literal)
}

func TestNextTokenStringEscapes(t *testing.T) {
	toks, _ := Tokenize("s.uya", `"a\nb\"c"`)
	require.Equal(t, "a\nb\"c", toks[0].Literal)
}

func TestNextTokenFloatAndHexNumbers(t *testing.T) {
	toks, errs := Tokenize("n.uya", `3.14 0xFF 10`)
	require.Empty(t, errs)
	require.Equal(t, FLOAT, toks[0].Kind)
	require.Equal(t, NUMBER, toks[1].Kind)
	require.Equal(t, "0xFF", toks[1].Literal)
	require.Equal(t, NUMBER, toks[2].Kind)
}

func TestNextTokenArithmeticVariants(t *testing.T) {
	toks, _ := Tokenize("x.uya", `+| -| *| +% -% *%`)
	require.Equal(t, []TokenKind{PLUS_WRAP, MINUS_WRAP, STAR_WRAP, PLUS_SAT, MINUS_SAT, STAR_SAT, EOF}, kindsOf(toks))
}

func TestNextTokenLineCommentsSkipped(t *testing.T) {
	toks, _ := Tokenize("c.uya", "var x // comment\nvar y")
	require.Equal(t, []TokenKind{VAR, IDENT, VAR, IDENT, EOF}, kindsOf(toks))
}

func TestNextTokenBlockCommentTracksLines(t *testing.T) {
	toks, _ := Tokenize("c.uya", "var x /* multi\nline */ var y")
	require.Equal(t, 5, len(toks))
	require.Equal(t, 2, toks[2].Pos.Line)
}

func TestSaveRestoreState(t *testing.T) {
	l := New("s.uya", "abc def")
	save := l.SaveState()
	first := l.NextToken()
	require.Equal(t, "abc", first.Literal)
	l.RestoreState(save)
	again := l.NextToken()
	require.Equal(t, "abc", again.Literal)
}

func kindsOf(toks []Token) []TokenKind {
	out := make([]TokenKind, len(toks))
	for i, tk := range toks {
		out[i] = tk.Kind
	}
	return out
}
