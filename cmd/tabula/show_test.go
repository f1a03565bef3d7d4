package main

import (
	"strings"
	"testing"

	"github.com/nihei9/tabula/grammar"
	"github.com/nihei9/tabula/spec"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func genTestReport(t *testing.T, src string) *grammar.Analyses {
	t.Helper()

	ast, err := spec.Parse(strings.NewReader(src))
	require.NoError(t, err)
	b := grammar.GrammarBuilder{
		AST: ast,
	}
	gram, err := b.Build()
	require.NoError(t, err)
	as, err := grammar.GenTables(gram)
	require.NoError(t, err)
	return as
}

func TestWriteReport(t *testing.T) {
	as := genTestReport(t, `
<s> ::= <a> "x" | "y" <a> "z"
<a> ::= "w" | #
`)
	report, err := grammar.GenReport("test", as)
	require.NoError(t, err)

	var b strings.Builder
	err = writeReport(&b, report, sectionAll)
	require.NoError(t, err)
	out := b.String()

	assert := assert.New(t)
	assert.Contains(out, "# Productions")
	assert.Contains(out, "a: {w, #}")
	assert.Contains(out, "# FOLLOW")
	assert.Contains(out, "# LR(0) automaton")
	assert.Contains(out, "# LR(1) automaton")
	assert.Contains(out, "State 000 {")
	assert.Contains(out, "# LL(1) table")
	assert.Contains(out, "a -> #")
	assert.Contains(out, "The grammar is not parsable with LR(0)")

	b.Reset()
	err = writeReport(&b, report, sectionSets)
	require.NoError(t, err)
	assert.NotContains(b.String(), "State 000")
	assert.NotContains(b.String(), "table")
}

func TestConflictText(t *testing.T) {
	as := genTestReport(t, `
<s> ::= <a> "x"
<a> ::= "x" | #
`)
	ll1, ok := as.Find(grammar.ClassLL1)
	require.True(t, ok)
	require.Len(t, ll1.Conflicts, 1)
	assert.Equal(t, "First/Follow conflict on a for x: a -> x/a -> #", conflictText(grammar.ClassLL1, ll1.Conflicts[0]))
}

func TestGrammarName(t *testing.T) {
	assert.Equal(t, "expr", grammarName("testdata/expr.tabula"))
	assert.Equal(t, "expr", grammarName("expr"))
}
