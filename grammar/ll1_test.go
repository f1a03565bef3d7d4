package grammar

import (
	"testing"
)

func TestGenLLTable(t *testing.T) {
	tests := []struct {
		caption   string
		src       string
		columns   []string
		rows      map[string][]string
		conflicts []*Conflict
		kinds     []string
	}{
		{
			caption: "a nested grammar",
			src: `
<s> ::= "a" <s> "b" | "c"
`,
			columns: []string{"a", "b", "c", "$"},
			rows: map[string][]string{
				"s": {"s -> a s b", "", "s -> c", ""},
			},
		},
		{
			caption: "an epsilon production fills every FOLLOW column of its own row",
			src: `
<s> ::= <a> "x" | "y" <a> "z"
<a> ::= "w" | #
`,
			columns: []string{"x", "y", "z", "w", "$"},
			rows: map[string][]string{
				"s": {"s -> a x", "s -> y a z", "", "s -> a x", ""},
				"a": {"a -> #", "", "a -> #", "a -> w", ""},
			},
		},
		{
			caption: "a nullable RHS made of non-terminals places the epsilon marker",
			src: `
<s> ::= <a> <b>
<a> ::= "x" | #
<b> ::= "y" | #
`,
			columns: []string{"x", "y", "$"},
			rows: map[string][]string{
				"s": {"s -> a b", "s -> a b", "s -> #"},
				"a": {"a -> x", "a -> #", "a -> #"},
				"b": {"", "b -> y", "b -> #"},
			},
		},
		{
			caption: "alternatives sharing FIRST cause a first/first conflict",
			src: `
<s> ::= <a> | <b>
<a> ::= "x"
<b> ::= "x"
`,
			conflicts: []*Conflict{
				{Row: "s", Column: "x", First: "s -> a", Second: "s -> b"},
			},
			kinds: []string{"first/first"},
		},
		{
			caption: "FIRST overlapping FOLLOW causes a first/follow conflict",
			src: `
<s> ::= <a> "x"
<a> ::= "x" | #
`,
			conflicts: []*Conflict{
				{Row: "a", Column: "x", First: "a -> x", Second: "a -> #"},
			},
			kinds: []string{"first/follow"},
		},
		{
			caption: "left recursion causes a first/first conflict",
			src: `
<e> ::= <e> "+" "n" | "n"
`,
			conflicts: []*Conflict{
				{Row: "e", Column: "n", First: "e -> e + n", Second: "e -> n"},
			},
			kinds: []string{"first/first"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.caption, func(t *testing.T) {
			teardown := traceTest(t)
			defer teardown()

			gram := buildGrammar(t, tt.src)
			tab, conflicts, err := GenLLTable(gram)
			if err != nil {
				t.Fatal(err)
			}
			if tab == nil {
				t.Fatal("a table must be returned even when conflicts occur")
			}
			if len(conflicts) != len(tt.conflicts) {
				t.Fatalf("unexpected conflicts; want: %v, got: %v", tt.conflicts, conflicts)
			}
			for i, e := range tt.conflicts {
				if *conflicts[i] != *e {
					t.Fatalf("unexpected conflict; want: %v, got: %v", e, conflicts[i])
				}
				if kind := ClassifyLLConflict(conflicts[i]); kind != tt.kinds[i] {
					t.Fatalf("unexpected conflict kind; want: %v, got: %v", tt.kinds[i], kind)
				}
			}
			if tt.columns != nil {
				testStrings(t, tab.Columns(), tt.columns)
			}
			if tt.rows == nil {
				return
			}
			desc := tab.Describe()
			if len(desc.Rows) != len(tt.rows) {
				t.Fatalf("unexpected row count; want: %v, got: %v", len(tt.rows), len(desc.Rows))
			}
			for _, row := range desc.Rows {
				cells, ok := tt.rows[row.Label]
				if !ok {
					t.Fatalf("unexpected row: %v", row.Label)
				}
				testStrings(t, row.Cells, cells)
			}
		})
	}
}

func TestLLTable_Predict(t *testing.T) {
	gram := buildGrammar(t, `
<s> ::= <a> "x" | "y" <a> "z"
<a> ::= "w" | #
`)
	tab, conflicts, err := GenLLTable(gram)
	if err != nil {
		t.Fatal(err)
	}
	if len(conflicts) > 0 {
		t.Fatalf("unexpected conflicts: %v", conflicts)
	}

	if tab.Start() != "s" {
		t.Fatalf("unexpected start symbol; want: s, got: %v", tab.Start())
	}
	if !tab.IsNonTerminal("a") || tab.IsNonTerminal("w") {
		t.Fatal("unexpected classification of symbols")
	}
	if tab.IsNonTerminal("s'") {
		t.Fatal("the augmented start symbol must not have a row")
	}
	testStrings(t, tab.Rows(), []string{"s", "a"})

	rhs, epsilon, ok := tab.Predict("s", "y")
	if !ok || epsilon {
		t.Fatalf("unexpected prediction; ok: %v, epsilon: %v", ok, epsilon)
	}
	testStrings(t, rhs, []string{"y", "a", "z"})

	rhs, epsilon, ok = tab.Predict("a", "z")
	if !ok || !epsilon || len(rhs) != 0 {
		t.Fatalf("unexpected prediction; ok: %v, epsilon: %v, RHS: %v", ok, epsilon, rhs)
	}

	if _, _, ok := tab.Predict("a", "$"); ok {
		t.Fatal("an empty cell must not predict anything")
	}
	if _, _, ok := tab.Predict("w", "w"); ok {
		t.Fatal("a terminal has no row")
	}
}
