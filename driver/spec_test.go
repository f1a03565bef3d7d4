package driver

import (
	"testing"

	"github.com/nihei9/tabula/grammar"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLRTable(t *testing.T) {
	as := genAnalyses(t, `
<s> ::= <x> <x>
<x> ::= "c" <x> | "d"
`)
	a, ok := as.Find(grammar.ClassLR1)
	require.True(t, ok)
	tab, err := NewLRTable(a.LRTable)
	require.NoError(t, err)

	assert := assert.New(t)

	assert.Equal(0, tab.InitialState())
	assert.Equal(-3, tab.Action(0, "c"))
	assert.Equal(-4, tab.Action(0, "d"))
	assert.Equal(0, tab.Action(0, "$"))
	// A reduction by rule n is n+1.
	assert.Equal(4, tab.Action(4, "c"))
	assert.Equal(4, tab.Action(4, "d"))
	assert.Equal(2, tab.Action(5, "$"))
	assert.Equal(0, tab.Action(0, "z"), "an unknown terminal has no action")
	assert.Equal(0, tab.Action(100, "c"), "an unknown state has no action")

	assert.True(tab.Accept(1, "$"))
	assert.False(tab.Accept(0, "$"))
	assert.False(tab.Accept(1, "c"))

	next, ok := tab.GoTo(0, "s")
	assert.True(ok)
	assert.Equal(1, next)
	next, ok = tab.GoTo(0, "x")
	assert.True(ok)
	assert.Equal(2, next)
	_, ok = tab.GoTo(1, "x")
	assert.False(ok)
	_, ok = tab.GoTo(0, "c")
	assert.False(ok, "a terminal has no goto")

	assert.Equal("s'", tab.LHS(0))
	assert.Equal("x", tab.LHS(3))
	assert.Equal("", tab.LHS(100))
	assert.Equal(2, tab.AlternativeSymbolCount(1))
	assert.Equal(1, tab.AlternativeSymbolCount(3))
}

func TestNewLRTable_augmentedReduction(t *testing.T) {
	as := genAnalyses(t, nestedGrammar)
	a, ok := as.Find(grammar.ClassLR0)
	require.True(t, ok)
	tab, err := NewLRTable(a.LRTable)
	require.NoError(t, err)

	// State 1 holds only s' -> s., so LR(0) reduces rule 0 on every terminal but the end marker.
	for _, term := range []string{"a", "b", "c"} {
		act := tab.Action(1, term)
		assert.Equal(t, 1, act, term)
		assert.Equal(t, 0, decodeRule(act), term)
	}
	assert.Equal(t, 0, tab.Action(1, "$"))
	assert.True(t, tab.Accept(1, "$"))
}

func TestNewLLTable(t *testing.T) {
	as := genAnalyses(t, `
<s> ::= <a> "x" | "y" <s>
<a> ::= #
`)
	a, ok := as.Find(grammar.ClassLL1)
	require.True(t, ok)
	tab, err := NewLLTable(a.LLTable)
	require.NoError(t, err)

	assert := assert.New(t)

	assert.Equal("s", tab.Start())
	assert.True(tab.IsNonTerminal("s"))
	assert.True(tab.IsNonTerminal("a"))
	assert.False(tab.IsNonTerminal("s'"), "the augmented start symbol has no row")
	assert.False(tab.IsNonTerminal("x"))

	// Rules: 0 s' -> s, 1 s -> a x, 2 s -> y s, 3 a -> #
	assert.Equal(encodeRule(1), lookUp(tab.predict, tab.terminals, tab.nonTerminals["s"], "x"))
	assert.Equal(encodeRule(2), lookUp(tab.predict, tab.terminals, tab.nonTerminals["s"], "y"))
	assert.Equal(entryEpsilon, lookUp(tab.predict, tab.terminals, tab.nonTerminals["a"], "x"))
	assert.Equal(entryEmpty, lookUp(tab.predict, tab.terminals, tab.nonTerminals["a"], "y"))

	rhs, epsilon, ok := tab.Predict("s", "y")
	assert.True(ok)
	assert.False(epsilon)
	assert.Equal([]string{"y", "s"}, rhs)

	rhs, epsilon, ok = tab.Predict("a", "x")
	assert.True(ok)
	assert.True(epsilon)
	assert.Empty(rhs)

	_, _, ok = tab.Predict("s", "$")
	assert.False(ok)
	_, _, ok = tab.Predict("s", "z")
	assert.False(ok, "an unknown terminal has no prediction")
	_, _, ok = tab.Predict("z", "x")
	assert.False(ok, "an unknown non-terminal has no prediction")
}

func TestNewParser_noTable(t *testing.T) {
	_, err := NewParser(&grammar.Analysis{Class: grammar.ClassLL1}, NewSliceTokenStream(nil))
	assert.Error(t, err)
	_, err = NewParser(&grammar.Analysis{Class: grammar.ClassSLR1}, NewSliceTokenStream(nil))
	assert.Error(t, err)
}
