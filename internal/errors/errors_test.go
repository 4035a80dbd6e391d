package errors

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/uya-lang/uyac/internal/lexer"
)

func TestFormatLineOriented(t *testing.T) {
	d := NewParse(lexer.Position{File: "a.uya", Line: 3, Column: 5}, ErrUnexpected, "unexpected token %s", "}")
	require.Equal(t, "a.uya:3:5: parse error: unexpected token }", d.Format(false))
}

func TestFormatWithSuggestionAndPlaceholder(t *testing.T) {
	d := NewLowering(lexer.Position{File: "a.uya", Line: 1, Column: 1}, ErrUnsupportedType, "cannot lower type").
		WithSuggestion("add an explicit cast").
		AsPlaceholder()
	got := d.Format(false)
	require.Contains(t, got, "suggestion: add an explicit cast")
	require.Contains(t, got, "note: used placeholder")
}

func TestFormatWithSourceRendersCaret(t *testing.T) {
	d := NewParse(lexer.Position{File: "a.uya", Line: 1, Column: 5}, ErrUnexpected, "bad")
	out := d.FormatWithSource("let x")
	require.Contains(t, out, "let x")
	require.Contains(t, out, "^")
}

func TestDiagnosticsAccumulate(t *testing.T) {
	var d Diagnostics
	require.False(t, d.HasErrors())
	d.Add(NewParse(lexer.Position{}, ErrUnexpected, "one"))
	d.Add(nil)
	d.Add(NewResolution(lexer.Position{}, ErrUnknownIdentifier, "two"))
	require.True(t, d.HasErrors())
	require.Equal(t, 2, d.Count())

	var other Diagnostics
	other.Add(NewABI(lexer.Position{}, ErrExternABI, "three"))
	d.Extend(&other)
	require.Equal(t, 3, d.Count())
}
