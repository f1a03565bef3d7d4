package grammar

import (
	"fmt"
	"sync"
)

// Analysis is the outcome of building one table. Exactly one of LRTable and LLTable is set.
type Analysis struct {
	Class     Class
	LRTable   *ParsingTable
	LLTable   *LLTable
	Conflicts []*Conflict
}

// Parsable reports whether the table has no conflicts.
func (a *Analysis) Parsable() bool {
	return len(a.Conflicts) == 0
}

type Analyses struct {
	Grammar      *Grammar
	LR0Automaton *Automaton
	LR1Automaton *Automaton

	// Analyses are ordered as LL(1), LR(0), SLR(1), and LR(1).
	Analyses []*Analysis
}

func (as *Analyses) Find(class Class) (*Analysis, bool) {
	for _, a := range as.Analyses {
		if a.Class == class {
			return a, true
		}
	}
	return nil, false
}

// GenTables builds both automata and all four tables. FIRST and FOLLOW are complete before it runs, so
// the two automata are built concurrently, and so are the tables once their automaton is ready.
func GenTables(gram *Grammar) (*Analyses, error) {
	as := &Analyses{
		Grammar: gram,
		Analyses: []*Analysis{
			{Class: ClassLL1},
			{Class: ClassLR0},
			{Class: ClassSLR1},
			{Class: ClassLR1},
		},
	}
	ll1, lr0, slr1, lr1 := as.Analyses[0], as.Analyses[1], as.Analyses[2], as.Analyses[3]

	var wg sync.WaitGroup
	errs := make([]error, 4)

	wg.Add(3)
	go func() {
		defer wg.Done()
		ll1.LLTable, ll1.Conflicts, errs[0] = GenLLTable(gram)
	}()
	go func() {
		defer wg.Done()
		a, err := GenLR0Automaton(gram)
		if err != nil {
			errs[1] = err
			return
		}
		as.LR0Automaton = a

		var tabWG sync.WaitGroup
		var slr1Err error
		tabWG.Add(2)
		go func() {
			defer tabWG.Done()
			lr0.LRTable, lr0.Conflicts, errs[1] = GenLRTable(a, ClassLR0)
		}()
		go func() {
			defer tabWG.Done()
			slr1.LRTable, slr1.Conflicts, slr1Err = GenLRTable(a, ClassSLR1)
		}()
		tabWG.Wait()
		errs[2] = slr1Err
	}()
	go func() {
		defer wg.Done()
		a, err := GenLR1Automaton(gram)
		if err != nil {
			errs[3] = err
			return
		}
		as.LR1Automaton = a
		lr1.LRTable, lr1.Conflicts, errs[3] = GenLRTable(a, ClassLR1)
	}()
	wg.Wait()

	for i, err := range errs {
		if err != nil {
			return nil, fmt.Errorf("failed to build %v table: %w", as.Analyses[i].Class.Title(), err)
		}
	}

	return as, nil
}
