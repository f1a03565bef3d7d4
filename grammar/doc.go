/*
Package grammar turns a parsed grammar into the artifacts of parser construction: FIRST and FOLLOW
sets, LR(0) and canonical LR(1) automata, LR(0)/SLR(1)/LR(1) parsing tables, and an LL(1) predictive
table. Table construction never stops at a conflict; every conflict is recorded and returned next to
the finished table.

Every grammar is augmented with a start production `S' → S`, which is always rule 0.
*/
package grammar

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'tabula.grammar'
func tracer() tracing.Trace {
	return tracing.Select("tabula.grammar")
}
