package lexer

import (
	"testing"

	"github.com/ecolang-io/ecolang/internal/token"
	"github.com/stretchr/testify/require"
)

func tokenize(t *testing.T, input string) []token.Token {
	t.Helper()
	return New(input).Tokenize()
}

func TestTokenizeArithmetic(t *testing.T) {
	tokens := tokenize(t, "1 + 2 * 3")
	types := make([]token.Type, 0, len(tokens))
	for _, tok := range tokens {
		types = append(types, tok.Type)
	}
	require.Equal(t, []token.Type{
		token.INT, token.PLUS, token.INT, token.ASTERISK, token.INT, token.EOF,
	}, types)
}

func TestTokenizeOperators(t *testing.T) {
	tests := []struct {
		input string
		want  token.Type
	}{
		{"**", token.POW},
		{"//", token.SLASH_SLASH},
		{"==", token.EQ},
		{"!=", token.NOT_EQ},
		{"<=", token.LT_EQUALS},
		{">=", token.GT_EQUALS},
		{"<", token.LT},
		{">", token.GT},
		{"%", token.MOD},
		{"=", token.ASSIGN},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			tokens := tokenize(t, tt.input)
			require.Len(t, tokens, 2)
			require.Equal(t, tt.want, tokens[0].Type)
		})
	}
}

func TestTokenizeNumbers(t *testing.T) {
	tests := []struct {
		input   string
		typ     token.Type
		literal string
	}{
		{"42", token.INT, "42"},
		{"3.14", token.FLOAT, "3.14"},
		{".5", token.FLOAT, ".5"},
		{"2e3", token.FLOAT, "2e3"},
		{"1e-2", token.FLOAT, "1e-2"},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			tokens := tokenize(t, tt.input)
			require.Equal(t, tt.typ, tokens[0].Type)
			require.Equal(t, tt.literal, tokens[0].Literal)
		})
	}
}

func TestTokenizeStrings(t *testing.T) {
	tokens := tokenize(t, `"hello" + 'world'`)
	require.Equal(t, token.STRING, tokens[0].Type)
	require.Equal(t, "hello", tokens[0].Literal)
	require.Equal(t, token.PLUS, tokens[1].Type)
	require.Equal(t, token.STRING, tokens[2].Type)
	require.Equal(t, "world", tokens[2].Literal)
}

func TestTokenizeStringEscapes(t *testing.T) {
	tokens := tokenize(t, `"a\nb\t\"c\""`)
	require.Equal(t, token.STRING, tokens[0].Type)
	require.Equal(t, "a\nb\t\"c\"", tokens[0].Literal)
}

func TestTokenizeUnterminatedString(t *testing.T) {
	tokens := tokenize(t, `"oops`)
	require.Equal(t, token.ILLEGAL, tokens[0].Type)
}

func TestTokenizeKeywords(t *testing.T) {
	tokens := tokenize(t, "a and not b or true")
	types := make([]token.Type, 0, len(tokens))
	for _, tok := range tokens {
		types = append(types, tok.Type)
	}
	require.Equal(t, []token.Type{
		token.IDENT, token.AND, token.NOT, token.IDENT,
		token.OR, token.TRUE, token.EOF,
	}, types)
}

func TestTokenizeIllegal(t *testing.T) {
	for _, input := range []string{"[", "]", ".", "{", "}", "!", ";", "a.b"} {
		t.Run(input, func(t *testing.T) {
			tokens := tokenize(t, input)
			found := false
			for _, tok := range tokens {
				if tok.Type == token.ILLEGAL {
					found = true
				}
			}
			require.True(t, found, "expected an ILLEGAL token for %q", input)
		})
	}
}

func TestTokenPositions(t *testing.T) {
	tokens := tokenize(t, "x + yy")
	require.Equal(t, 0, tokens[0].StartPosition.Column)
	require.Equal(t, 2, tokens[1].StartPosition.Column)
	require.Equal(t, 4, tokens[2].StartPosition.Column)
	require.Equal(t, 6, tokens[2].EndPosition.Column)
}
