package grammar

import (
	"testing"

	"github.com/nihei9/tabula/grammar/symbol"
)

type first struct {
	symbol string
	first  []string
}

func TestGenFirst(t *testing.T) {
	tests := []struct {
		caption string
		src     string
		first   []first
	}{
		{
			caption: "productions contain only non-empty productions",
			src: `
<e> ::= <e> "+" <t> | <t>
<t> ::= <t> "*" <f> | <f>
<f> ::= "(" <e> ")" | "id"
`,
			first: []first{
				{symbol: "e'", first: []string{"(", "id"}},
				{symbol: "e", first: []string{"(", "id"}},
				{symbol: "t", first: []string{"(", "id"}},
				{symbol: "f", first: []string{"(", "id"}},
			},
		},
		{
			caption: "productions contain empty productions",
			src: `
<e> ::= <t> <e_tail>
<e_tail> ::= "+" <t> <e_tail> | #
<t> ::= <f> <t_tail>
<t_tail> ::= "*" <f> <t_tail> | #
<f> ::= "(" <e> ")" | "id"
`,
			first: []first{
				{symbol: "e", first: []string{"(", "id"}},
				{symbol: "e_tail", first: []string{"+", symbol.EpsilonText}},
				{symbol: "t", first: []string{"(", "id"}},
				{symbol: "t_tail", first: []string{"*", symbol.EpsilonText}},
				{symbol: "f", first: []string{"(", "id"}},
			},
		},
		{
			caption: "a nullable prefix exposes the symbols that follow it",
			src: `
<s> ::= <a> <b> "c"
<a> ::= "x" | #
<b> ::= "y" | #
`,
			first: []first{
				{symbol: "s", first: []string{"x", "y", "c"}},
				{symbol: "a", first: []string{"x", symbol.EpsilonText}},
				{symbol: "b", first: []string{"y", symbol.EpsilonText}},
			},
		},
		{
			caption: "a non-terminal whose every symbol is nullable is nullable",
			src: `
<s> ::= <a> <b>
<a> ::= "x" | #
<b> ::= #
`,
			first: []first{
				{symbol: "s", first: []string{"x", symbol.EpsilonText}},
				{symbol: "a", first: []string{"x", symbol.EpsilonText}},
				{symbol: "b", first: []string{symbol.EpsilonText}},
			},
		},
		{
			caption: "FIRST of a terminal is the terminal itself",
			src: `
<s> ::= "a" <s> "b" | "c"
`,
			first: []first{
				{symbol: "a", first: []string{"a"}},
				{symbol: "b", first: []string{"b"}},
				{symbol: "c", first: []string{"c"}},
				{symbol: symbol.EOFText, first: []string{symbol.EOFText}},
				{symbol: "s", first: []string{"a", "c"}},
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.caption, func(t *testing.T) {
			teardown := traceTest(t)
			defer teardown()

			gram := buildGrammar(t, tt.src)
			for _, f := range tt.first {
				actual, err := gram.First(f.symbol)
				if err != nil {
					t.Fatal(err)
				}
				testStrings(t, actual, f.first)

				// FIRST is computed once; asking again must give the same answer.
				again, err := gram.First(f.symbol)
				if err != nil {
					t.Fatal(err)
				}
				testStrings(t, again, actual)
			}
		})
	}
}

func TestFirstSet_find(t *testing.T) {
	gram := buildGrammar(t, `
<s> ::= <a> <b> "c"
<a> ::= "x" | #
<b> ::= "y" | #
`)
	genSym := newTestSymbolGenerator(t, gram.symbolTable.Reader())
	genProd := newTestProductionGenerator(t, gram, genSym)

	prod := genProd("s", "a", "b", "c")
	tests := []struct {
		head  int
		first []symbol.Symbol
		empty bool
	}{
		{head: 0, first: []symbol.Symbol{genSym("x"), genSym("y"), genSym("c")}},
		{head: 1, first: []symbol.Symbol{genSym("y"), genSym("c")}},
		{head: 2, first: []symbol.Symbol{genSym("c")}},
		{head: 3, empty: true},
	}
	for _, tt := range tests {
		e, err := gram.first.find(prod, tt.head)
		if err != nil {
			t.Fatal(err)
		}
		if e.empty != tt.empty {
			t.Fatalf("unexpected empty flag; head: %v, want: %v, got: %v", tt.head, tt.empty, e.empty)
		}
		if len(e.symbols) != len(tt.first) {
			t.Fatalf("unexpected symbol count; head: %v, want: %v, got: %v", tt.head, len(tt.first), len(e.symbols))
		}
		for _, sym := range tt.first {
			if _, ok := e.symbols[sym]; !ok {
				t.Fatalf("a symbol was not found; head: %v, symbol: %v", tt.head, sym)
			}
		}
	}
}
