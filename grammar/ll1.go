package grammar

import (
	"fmt"

	"github.com/nihei9/tabula/grammar/symbol"
)

type llTableBuilder struct {
	gram *Grammar

	conflicts []*Conflict
}

// GenLLTable builds an LL(1) predictive table. Like GenLRTable, it records every conflict and still
// returns the finished table.
func GenLLTable(gram *Grammar) (*LLTable, []*Conflict, error) {
	b := &llTableBuilder{
		gram: gram,
	}
	tab, err := b.build()
	if err != nil {
		return nil, nil, err
	}

	tracer().Infof("%v table: %d non-terminals, %d conflicts", ClassLL1.Title(), len(tab.rows), len(b.conflicts))

	return tab, b.conflicts, nil
}

func (b *llTableBuilder) build() (*LLTable, error) {
	gram := b.gram
	tab := newLLTable(gram)
	r := gram.symbolTable.Reader()

	for _, prod := range gram.productionSet.getAllProductions() {
		if prod.num == productionNumStart {
			continue
		}
		fst, err := gram.first.find(prod, 0)
		if err != nil {
			return nil, err
		}
		prodText, err := gram.ProductionText(prod.num.Int())
		if err != nil {
			return nil, err
		}
		act := Action{
			Type:       ActionTypePredict,
			Production: prod.num.Int(),
			text:       prodText,
		}
		for _, term := range r.TerminalSymbols() {
			if _, ok := fst.symbols[term]; !ok {
				continue
			}
			err := b.writePrediction(tab, prod.lhs, term, act, false)
			if err != nil {
				return nil, err
			}
		}

		if !fst.empty {
			continue
		}
		flw, err := gram.follow.find(prod.lhs)
		if err != nil {
			return nil, err
		}
		marker := newEpsilonMarker(gram.toText(prod.lhs))
		for _, term := range r.TerminalSymbols() {
			if !flw.contains(term) {
				continue
			}
			err := b.writePrediction(tab, prod.lhs, term, marker, true)
			if err != nil {
				return nil, err
			}
		}
	}

	return tab, nil
}

// newEpsilonMarker returns the action that pops a non-terminal without expanding it.
func newEpsilonMarker(lhs string) Action {
	return Action{
		Type:       ActionTypePredict,
		Production: productionNumNil.Int(),
		Epsilon:    true,
		text:       fmt.Sprintf("%v -> %v", lhs, symbol.EpsilonText),
	}
}

// writePrediction writes an action into a cell. An occupied cell produces a conflict, except that the
// epsilon marker written over an identical marker is not a conflict.
func (b *llTableBuilder) writePrediction(tab *LLTable, lhs, term symbol.Symbol, act Action, follow bool) error {
	lhsText := b.gram.toText(lhs)
	termText := b.gram.toText(term)
	row, ok := tab.rowIndex[lhsText]
	if !ok {
		return fmt.Errorf("a row was not found; symbol: %v", lhsText)
	}
	col, ok := tab.colIndex[termText]
	if !ok {
		return fmt.Errorf("a column was not found; symbol: %v", termText)
	}
	existing := tab.readCell(row, col)
	if !existing.IsEmpty() && !(follow && existing == act) {
		c := &Conflict{
			Row:    lhsText,
			Column: termText,
			First:  existing.String(),
			Second: act.String(),
		}
		tracer().Debugf("%v: %v", ClassLL1.Title(), c)
		b.conflicts = append(b.conflicts, c)
	}
	tab.writeCell(row, col, act)
	return nil
}
