package spec

import (
	"strings"
	"testing"
)

func TestLexer_Run(t *testing.T) {
	nonTermTok := func(text string) *token {
		return newNonTerminalToken(text, newPosition(1, 0))
	}
	termTok := func(text string) *token {
		return newTerminalToken(text, newPosition(1, 0))
	}
	symTok := func(kind tokenKind) *token {
		return newSymbolToken(kind, newPosition(1, 0))
	}
	invalidTok := func(text string) *token {
		return newInvalidToken(text, newPosition(1, 0))
	}

	tests := []struct {
		caption string
		src     string
		tokens  []*token
	}{
		{
			caption: "the lexer can recognize all kinds of tokens",
			src:     `<s> ::= "a" | # // comment`,
			tokens: []*token{
				nonTermTok("s"),
				symTok(tokenKindDerives),
				termTok("a"),
				symTok(tokenKindOr),
				symTok(tokenKindEpsilon),
				newEOFToken(newPosition(1, 0)),
			},
		},
		{
			caption: "consecutive newlines are combined into one token",
			src: `<a> ::= "x"


<b> ::= "y"
`,
			tokens: []*token{
				nonTermTok("a"),
				symTok(tokenKindDerives),
				termTok("x"),
				symTok(tokenKindNewline),
				nonTermTok("b"),
				symTok(tokenKindDerives),
				termTok("y"),
				symTok(tokenKindNewline),
				newEOFToken(newPosition(1, 0)),
			},
		},
		{
			caption: "the lexer keeps the content of a terminal verbatim",
			src:     `"::=" "<x>" "//"`,
			tokens: []*token{
				termTok("::="),
				termTok("<x>"),
				termTok("//"),
				newEOFToken(newPosition(1, 0)),
			},
		},
		{
			caption: "an unknown character is an invalid token",
			src:     `@`,
			tokens: []*token{
				invalidTok("@"),
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.caption, func(t *testing.T) {
			l, err := newLexer(strings.NewReader(tt.src))
			if err != nil {
				t.Fatal(err)
			}
			n := 0
			for {
				tok, err := l.next()
				if err != nil {
					t.Fatalf("unexpected error; %v", err)
				}
				if n >= len(tt.tokens) {
					t.Fatalf("too many tokens; want: %v, got: %v", len(tt.tokens), n+1)
				}
				testToken(t, tok, tt.tokens[n])
				n++
				if tok.kind == tokenKindEOF || tok.kind == tokenKindInvalid {
					break
				}
			}
			if n != len(tt.tokens) {
				t.Fatalf("unexpected token count; want: %v, got: %v", len(tt.tokens), n)
			}
		})
	}
}

func testToken(t *testing.T, tok, expected *token) {
	t.Helper()
	if tok.kind != expected.kind || tok.text != expected.text {
		t.Fatalf("unexpected token; want: %+v, got: %+v", expected, tok)
	}
}
