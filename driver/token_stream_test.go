package driver

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type tokenWithPos struct {
	text string
	row  int
	col  int
}

func TestTokenStream_Next(t *testing.T) {
	tests := []struct {
		caption string
		src     string
		tokens  []tokenWithPos
		err     bool
	}{
		{
			caption: "tokens are separated by white spaces and newlines",
			src:     "a c\n\tb\n",
			tokens: []tokenWithPos{
				{text: "a", row: 1, col: 1},
				{text: "c", row: 1, col: 3},
				{text: "b", row: 2, col: 2},
			},
		},
		{
			caption: "comments and blank lines are skipped",
			src:     "// a s b\n\na // first\n\n\nb\n",
			tokens: []tokenWithPos{
				{text: "a", row: 3, col: 1},
				{text: "b", row: 6, col: 1},
			},
		},
		{
			caption: "a quoted token can contain white spaces",
			src:     `"a b" c`,
			tokens: []tokenWithPos{
				{text: "a b", row: 1, col: 1},
				{text: "c", row: 1, col: 7},
			},
		},
		{
			caption: "tokens can contain symbols",
			src:     "( id + id ) * id",
			tokens: []tokenWithPos{
				{text: "(", row: 1, col: 1},
				{text: "id", row: 1, col: 3},
				{text: "+", row: 1, col: 6},
				{text: "id", row: 1, col: 8},
				{text: ")", row: 1, col: 11},
				{text: "*", row: 1, col: 13},
				{text: "id", row: 1, col: 15},
			},
		},
		{
			caption: "an empty source yields only the EOF token",
			src:     "",
		},
		{
			caption: "the end marker cannot be a token",
			src:     "a $",
			tokens: []tokenWithPos{
				{text: "a", row: 1, col: 1},
			},
			err: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.caption, func(t *testing.T) {
			ts, err := NewTokenStream(strings.NewReader(tt.src))
			require.NoError(t, err)

			for _, expected := range tt.tokens {
				tok, err := ts.Next()
				require.NoError(t, err)
				assert.Equal(t, expected.text, tok.TerminalText())
				assert.False(t, tok.EOF())
				row, col := tok.Position()
				assert.Equal(t, expected.row, row, expected.text)
				assert.Equal(t, expected.col, col, expected.text)
			}

			tok, err := ts.Next()
			if tt.err {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.True(t, tok.EOF())
			assert.Equal(t, "$", tok.TerminalText())

			// The stream keeps returning the EOF token.
			tok, err = ts.Next()
			require.NoError(t, err)
			assert.True(t, tok.EOF())
		})
	}
}

func TestSliceTokenStream_Next(t *testing.T) {
	ts := NewSliceTokenStream([]string{"a", "c", "b"})
	for i, expected := range []string{"a", "c", "b"} {
		tok, err := ts.Next()
		require.NoError(t, err)
		assert.Equal(t, expected, tok.TerminalText())
		_, col := tok.Position()
		assert.Equal(t, i+1, col)
	}
	for i := 0; i < 2; i++ {
		tok, err := ts.Next()
		require.NoError(t, err)
		assert.True(t, tok.EOF())
	}

	_, err := NewSliceTokenStream([]string{"$"}).Next()
	assert.Error(t, err)
}

func TestReplayTokenStream_Next(t *testing.T) {
	ts, err := NewTokenStream(strings.NewReader("a c\nb"))
	require.NoError(t, err)
	toks, err := ReadTokens(ts)
	require.NoError(t, err)
	require.Len(t, toks, 4)

	for i := 0; i < 2; i++ {
		rs, err := NewReplayTokenStream(toks)
		require.NoError(t, err)
		for _, expected := range []string{"a", "c", "b", "$", "$"} {
			tok, err := rs.Next()
			require.NoError(t, err)
			assert.Equal(t, expected, tok.TerminalText())
		}
	}

	_, err = NewReplayTokenStream(toks[:2])
	assert.Error(t, err)
}
