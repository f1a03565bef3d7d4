package grammar

import (
	"fmt"

	"github.com/nihei9/tabula/grammar/symbol"
)

type lrTableBuilder struct {
	automaton *Automaton
	class     Class

	conflicts []*Conflict
}

// GenLRTable builds an LR(0), SLR(1), or LR(1) parsing table. LR(0) and SLR(1) tables need an LR(0)
// automaton, and an LR(1) table needs an LR(1) automaton. Conflicts never stop the construction; the
// table and every conflict found are returned together.
func GenLRTable(automaton *Automaton, class Class) (*ParsingTable, []*Conflict, error) {
	switch class {
	case ClassLR0, ClassSLR1:
		if automaton.kind != AutomatonKindLR0 {
			return nil, nil, fmt.Errorf("%v table needs an %v automaton; got: %v", class.Title(), AutomatonKindLR0, automaton.kind)
		}
	case ClassLR1:
		if automaton.kind != AutomatonKindLR1 {
			return nil, nil, fmt.Errorf("%v table needs an %v automaton; got: %v", class.Title(), AutomatonKindLR1, automaton.kind)
		}
	default:
		return nil, nil, fmt.Errorf("not an LR class: %v", class)
	}

	b := &lrTableBuilder{
		automaton: automaton,
		class:     class,
	}
	tab, err := b.build()
	if err != nil {
		return nil, nil, err
	}

	tracer().Infof("%v table: %d states, %d conflicts", class.Title(), tab.rowCount, len(b.conflicts))

	return tab, b.conflicts, nil
}

func (b *lrTableBuilder) build() (*ParsingTable, error) {
	gram := b.automaton.gram
	ptab := newParsingTable(b.class, gram, len(b.automaton.states))

	for _, state := range b.automaton.states {
		// Reductions go first so that a shift overwriting a reduction is reported with the reduction
		// as the first action.
		for _, item := range state.items {
			if !item.reducible {
				continue
			}
			prod, ok := gram.productionSet.findByNum(item.prod)
			if !ok {
				return nil, fmt.Errorf("reducible production not found: %v", item.prod)
			}

			terms, err := b.reducingTerminals(item, prod)
			if err != nil {
				return nil, err
			}
			for _, term := range terms {
				act := newReduceAction(prod.num)
				// Reducing the augmented start production on the end marker means the input is accepted.
				if prod.num == productionNumStart && term == symbol.SymbolEOF {
					act = newAcceptAction()
				}
				err := b.writeAction(ptab, state.num, term, act)
				if err != nil {
					return nil, err
				}
			}
		}

		for _, sym := range state.moves {
			nextState, ok := state.next[sym]
			if !ok {
				return nil, fmt.Errorf("a transition was not found; state: %v, symbol: %v", state.num, gram.toText(sym))
			}
			act := newShiftAction(nextState)
			if sym.IsNonTerminal() {
				act = newGoToAction(nextState)
			}
			err := b.writeAction(ptab, state.num, sym, act)
			if err != nil {
				return nil, err
			}
		}
	}

	return ptab, nil
}

// reducingTerminals returns the terminals on which an item is reduced: every terminal for LR(0), FOLLOW
// of the LHS for SLR(1), and the look-ahead symbols of the item for LR(1).
func (b *lrTableBuilder) reducingTerminals(item *lrItem, prod *production) ([]symbol.Symbol, error) {
	gram := b.automaton.gram
	switch b.class {
	case ClassLR0:
		return gram.symbolTable.Reader().TerminalSymbols(), nil
	case ClassSLR1:
		flw, err := gram.follow.find(prod.lhs)
		if err != nil {
			return nil, err
		}
		terms := []symbol.Symbol{}
		for _, term := range gram.symbolTable.Reader().TerminalSymbols() {
			if flw.contains(term) {
				terms = append(terms, term)
			}
		}
		return terms, nil
	case ClassLR1:
		if item.lookAhead == nil {
			return nil, fmt.Errorf("an item has no look-ahead symbols; item: %v", item.core())
		}
		return item.lookAhead.sorted(), nil
	}
	return nil, fmt.Errorf("not an LR class: %v", b.class)
}

// writeAction writes an action into a cell. When the cell is occupied, the new action overwrites it and
// a conflict is recorded.
func (b *lrTableBuilder) writeAction(tab *ParsingTable, state stateNum, sym symbol.Symbol, act Action) error {
	text := b.automaton.gram.toText(sym)
	col, ok := tab.Column(text)
	if !ok {
		return fmt.Errorf("a column was not found; symbol: %v", text)
	}
	existing := tab.readCell(state.Int(), col)
	if !existing.IsEmpty() {
		c := &Conflict{
			Row:    state.String(),
			Column: text,
			First:  existing.String(),
			Second: act.String(),
		}
		tracer().Debugf("%v: %v", b.class.Title(), c)
		b.conflicts = append(b.conflicts, c)
	}
	tab.writeCell(state.Int(), col, act)
	return nil
}
