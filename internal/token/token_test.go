package token

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLookupIdentifier(t *testing.T) {
	require.Equal(t, AND, LookupIdentifier("and"))
	require.Equal(t, OR, LookupIdentifier("or"))
	require.Equal(t, NOT, LookupIdentifier("not"))
	require.Equal(t, TRUE, LookupIdentifier("true"))
	require.Equal(t, FALSE, LookupIdentifier("false"))
	require.Equal(t, IDENT, LookupIdentifier("count"))
	require.Equal(t, IDENT, LookupIdentifier("True"))
}

func TestPosition(t *testing.T) {
	p := Position{Char: 4, Column: 4}
	require.Equal(t, 5, p.ColumnNumber())

	q := p.Advance(3)
	require.Equal(t, 7, q.Char)
	require.Equal(t, 8, q.ColumnNumber())
	require.Equal(t, 5, p.ColumnNumber())
}
