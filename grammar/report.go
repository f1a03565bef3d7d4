package grammar

import (
	"fmt"
	"strings"

	"github.com/nihei9/tabula/grammar/symbol"
	spec "github.com/nihei9/tabula/spec/grammar"
)

// GenReport describes a grammar and its analyses. The parse results are left empty; a caller that runs
// the parsers fills them in.
func GenReport(name string, as *Analyses) (*spec.Report, error) {
	gram := as.Grammar
	r := gram.symbolTable.Reader()

	var terms []*spec.Terminal
	for _, sym := range r.TerminalSymbols() {
		text, ok := r.ToText(sym)
		if !ok {
			return nil, fmt.Errorf("failed to generate terminals: symbol not found: %v", sym)
		}
		terms = append(terms, &spec.Terminal{
			Number: sym.Num().Int(),
			Name:   text,
		})
	}

	var nonTerms []*spec.NonTerminal
	for _, sym := range r.NonTerminalSymbols() {
		text, ok := r.ToText(sym)
		if !ok {
			return nil, fmt.Errorf("failed to generate non-terminals: symbol not found: %v", sym)
		}
		nonTerms = append(nonTerms, &spec.NonTerminal{
			Number: sym.Num().Int(),
			Name:   text,
		})
	}

	var prods []*spec.Production
	for _, p := range gram.productionSet.getAllProductions() {
		lhs, rhs, _ := gram.Production(p.num.Int())
		text, err := gram.ProductionText(p.num.Int())
		if err != nil {
			return nil, err
		}
		prods = append(prods, &spec.Production{
			Number: p.num.Int(),
			LHS:    lhs,
			RHS:    rhs,
			Text:   text,
		})
	}

	var first, follow []*spec.SymbolSet
	for _, nonTerm := range nonTerms {
		fst, err := gram.First(nonTerm.Name)
		if err != nil {
			return nil, err
		}
		set := &spec.SymbolSet{
			Symbol: nonTerm.Name,
		}
		for _, s := range fst {
			if s == symbol.EpsilonText {
				set.Empty = true
				continue
			}
			set.Symbols = append(set.Symbols, s)
		}
		first = append(first, set)

		flw, err := gram.Follow(nonTerm.Name)
		if err != nil {
			return nil, err
		}
		follow = append(follow, &spec.SymbolSet{
			Symbol:  nonTerm.Name,
			Symbols: flw,
		})
	}

	var automata []*spec.Automaton
	for _, a := range []*Automaton{as.LR0Automaton, as.LR1Automaton} {
		if a == nil {
			continue
		}
		desc, err := a.Describe()
		if err != nil {
			return nil, err
		}
		automata = append(automata, desc)
	}

	var analyses []*spec.Analysis
	for _, a := range as.Analyses {
		desc := &spec.Analysis{
			Class:    a.Class.String(),
			Title:    a.Class.Title(),
			Parsable: a.Parsable(),
		}
		// A table with conflicts is not worth rendering; its conflicts are.
		switch {
		case !a.Parsable():
		case a.LRTable != nil:
			desc.Table = a.LRTable.Describe()
		case a.LLTable != nil:
			desc.Table = a.LLTable.Describe()
		}
		for _, c := range a.Conflicts {
			kind := ClassifyLRConflict(c)
			if a.Class == ClassLL1 {
				kind = ClassifyLLConflict(c)
			}
			desc.Conflicts = append(desc.Conflicts, &spec.Conflict{
				Kind:   kind,
				Row:    c.Row,
				Column: c.Column,
				First:  c.First,
				Second: c.Second,
			})
		}
		analyses = append(analyses, desc)
	}

	return &spec.Report{
		Grammar:      name,
		Terminals:    terms,
		NonTerminals: nonTerms,
		Productions:  prods,
		First:        first,
		Follow:       follow,
		Automata:     automata,
		Analyses:     analyses,
	}, nil
}

// Describe returns the states of an automaton with their items and transitions.
func (a *Automaton) Describe() (*spec.Automaton, error) {
	gram := a.gram
	states := make([]*spec.State, len(a.states))
	for i, state := range a.states {
		items := make([]*spec.Item, len(state.items))
		for j, item := range state.items {
			text, err := a.itemText(item)
			if err != nil {
				return nil, err
			}
			var la []string
			for _, sym := range item.lookAhead.sorted() {
				la = append(la, gram.toText(sym))
			}
			items[j] = &spec.Item{
				Production: item.prod.Int(),
				Dot:        item.dot,
				Kernel:     item.kernel,
				LookAhead:  la,
				Text:       text,
			}
		}
		trans := make([]*spec.Transition, len(state.moves))
		for j, sym := range state.moves {
			text := gram.toText(sym)
			next, ok := a.Transition(i, text)
			if !ok {
				return nil, fmt.Errorf("a transition was not found; state: %v, symbol: %v", i, text)
			}
			trans[j] = &spec.Transition{
				Symbol: text,
				State:  next,
			}
		}
		states[i] = &spec.State{
			Number:      state.num.Int(),
			Items:       items,
			Transitions: trans,
		}
	}
	return &spec.Automaton{
		Kind:   a.kind.String(),
		States: states,
	}, nil
}

// itemText renders an item like `e -> e ・ "+" t`.
func (a *Automaton) itemText(item *lrItem) (string, error) {
	lhs, rhs, ok := a.gram.Production(item.prod.Int())
	if !ok {
		return "", fmt.Errorf("a production was not found; rule: %v", item.prod)
	}
	var b strings.Builder
	fmt.Fprintf(&b, "%v ->", lhs)
	for i, s := range rhs {
		if i == item.dot {
			fmt.Fprintf(&b, " ・")
		}
		fmt.Fprintf(&b, " %v", s)
	}
	if item.reducible {
		fmt.Fprintf(&b, " ・")
	}
	return b.String(), nil
}

func (t *ParsingTable) Describe() *spec.Table {
	rows := make([]*spec.TableRow, t.rowCount)
	for i := 0; i < t.rowCount; i++ {
		cells := make([]string, len(t.columns))
		for j := range t.columns {
			cells[j] = t.readCell(i, j).String()
		}
		rows[i] = &spec.TableRow{
			Label: fmt.Sprintf("%v", i),
			Cells: cells,
		}
	}
	return &spec.Table{
		Columns: t.columns,
		Rows:    rows,
	}
}

func (t *LLTable) Describe() *spec.Table {
	rows := make([]*spec.TableRow, len(t.rows))
	for i, label := range t.rows {
		cells := make([]string, len(t.columns))
		for j := range t.columns {
			cells[j] = t.readCell(i, j).String()
		}
		rows[i] = &spec.TableRow{
			Label: label,
			Cells: cells,
		}
	}
	return &spec.Table{
		Columns: t.columns,
		Rows:    rows,
	}
}
