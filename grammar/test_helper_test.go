package grammar

import (
	"strings"
	"testing"

	"github.com/nihei9/tabula/grammar/symbol"
	"github.com/nihei9/tabula/spec"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
)

func traceTest(t *testing.T) func() {
	t.Helper()
	return gotestingadapter.QuickConfig(t, "tabula.grammar")
}

func buildGrammar(t *testing.T, src string) *Grammar {
	t.Helper()

	ast, err := spec.Parse(strings.NewReader(src))
	if err != nil {
		t.Fatal(err)
	}
	b := GrammarBuilder{
		AST: ast,
	}
	gram, err := b.Build()
	if err != nil {
		t.Fatal(err)
	}
	return gram
}

type testSymbolGenerator func(text string) symbol.Symbol

func newTestSymbolGenerator(t *testing.T, symTab *symbol.SymbolTableReader) testSymbolGenerator {
	return func(text string) symbol.Symbol {
		t.Helper()

		sym, ok := symTab.ToSymbol(text)
		if !ok {
			t.Fatalf("symbol was not found: %v", text)
		}
		return sym
	}
}

type testProductionGenerator func(lhs string, rhs ...string) *production

// newTestProductionGenerator returns a generator that looks up a registered production, so the result
// carries its rule number.
func newTestProductionGenerator(t *testing.T, gram *Grammar, genSym testSymbolGenerator) testProductionGenerator {
	return func(lhs string, rhs ...string) *production {
		t.Helper()

		rhsSym := []symbol.Symbol{}
		for _, text := range rhs {
			rhsSym = append(rhsSym, genSym(text))
		}
		p, err := newProduction(genSym(lhs), rhsSym)
		if err != nil {
			t.Fatalf("failed to create a production: %v", err)
		}
		prod, ok := gram.productionSet.findByID(p.id)
		if !ok {
			t.Fatalf("production was not found: %v -> %v", lhs, rhs)
		}

		return prod
	}
}

type testLRItemGenerator func(lhs string, dot int, rhs ...string) *lrItem

func newTestLRItemGenerator(t *testing.T, genProd testProductionGenerator) testLRItemGenerator {
	return func(lhs string, dot int, rhs ...string) *lrItem {
		t.Helper()

		prod := genProd(lhs, rhs...)
		item, err := newLRItem(prod, dot)
		if err != nil {
			t.Fatalf("failed to create an LR item: %v", err)
		}

		return item
	}
}

func withLookAhead(item *lrItem, lookAhead ...symbol.Symbol) *lrItem {
	if item.lookAhead == nil {
		item.lookAhead = newLookAheadSet()
	}

	for _, a := range lookAhead {
		item.lookAhead.add(a)
	}

	return item
}

func testStrings(t *testing.T, actual, expected []string) {
	t.Helper()

	if len(actual) != len(expected) {
		t.Fatalf("unexpected length; want: %v, got: %v", expected, actual)
	}
	for i, e := range expected {
		if actual[i] != e {
			t.Fatalf("unexpected element; want: %v, got: %v", expected, actual)
		}
	}
}
