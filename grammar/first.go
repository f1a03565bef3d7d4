package grammar

import (
	"fmt"

	"github.com/nihei9/tabula/grammar/symbol"
)

type firstEntry struct {
	symbols map[symbol.Symbol]struct{}
	empty   bool
}

func newFirstEntry() *firstEntry {
	return &firstEntry{
		symbols: map[symbol.Symbol]struct{}{},
		empty:   false,
	}
}

func (e *firstEntry) add(sym symbol.Symbol) bool {
	if _, ok := e.symbols[sym]; ok {
		return false
	}
	e.symbols[sym] = struct{}{}
	return true
}

func (e *firstEntry) addEmpty() bool {
	if !e.empty {
		e.empty = true
		return true
	}
	return false
}

func (e *firstEntry) mergeExceptEmpty(target *firstEntry) bool {
	if target == nil {
		return false
	}
	changed := false
	for sym := range target.symbols {
		added := e.add(sym)
		if added {
			changed = true
		}
	}
	return changed
}

// firstSet holds FIRST of every non-terminal. It is computed once by genFirstSet and is read-only after that.
type firstSet struct {
	set map[symbol.Symbol]*firstEntry
}

func newFirstSet(prods *productionSet) *firstSet {
	fst := &firstSet{
		set: map[symbol.Symbol]*firstEntry{},
	}
	for _, prod := range prods.getAllProductions() {
		if _, ok := fst.set[prod.lhs]; ok {
			continue
		}
		fst.set[prod.lhs] = newFirstEntry()
	}

	return fst
}

// find returns FIRST of the RHS of a production from the head-th symbol to the end. When the sequence
// is empty or every symbol of it is nullable, the entry's empty flag is set.
func (fst *firstSet) find(prod *production, head int) (*firstEntry, error) {
	return fst.findBySequence(prod.rhs[min(head, prod.rhsLen):])
}

func (fst *firstSet) findBySequence(seq []symbol.Symbol) (*firstEntry, error) {
	entry := newFirstEntry()
	for _, sym := range seq {
		if sym.IsTerminal() {
			entry.add(sym)
			return entry, nil
		}

		e := fst.findBySymbol(sym)
		if e == nil {
			return nil, fmt.Errorf("an entry of FIRST was not found; symbol: %s", sym)
		}
		for s := range e.symbols {
			entry.add(s)
		}
		if !e.empty {
			return entry, nil
		}
	}
	entry.addEmpty()
	return entry, nil
}

func (fst *firstSet) findBySymbol(sym symbol.Symbol) *firstEntry {
	return fst.set[sym]
}

type firstComContext struct {
	first *firstSet
}

func newFirstComContext(prods *productionSet) *firstComContext {
	return &firstComContext{
		first: newFirstSet(prods),
	}
}

// genFirstSet repeats passes over all productions until no entry changes.
func genFirstSet(prods *productionSet) (*firstSet, error) {
	cc := newFirstComContext(prods)
	passes := 0
	for {
		passes++
		more := false
		for _, prod := range prods.getAllProductions() {
			e := cc.first.findBySymbol(prod.lhs)
			changed, err := genProdFirstEntry(cc, e, prod)
			if err != nil {
				return nil, err
			}
			if changed {
				more = true
			}
		}
		if !more {
			break
		}
	}
	tracer().Debugf("FIRST converged after %d passes", passes)
	return cc.first, nil
}

func genProdFirstEntry(cc *firstComContext, acc *firstEntry, prod *production) (bool, error) {
	if prod.isEmpty() {
		return acc.addEmpty(), nil
	}

	changed := false
	for _, sym := range prod.rhs {
		if sym.IsTerminal() {
			return acc.add(sym) || changed, nil
		}

		e := cc.first.findBySymbol(sym)
		if e == nil {
			return false, fmt.Errorf("an entry of FIRST was not found; symbol: %s", sym)
		}
		if acc.mergeExceptEmpty(e) {
			changed = true
		}
		if !e.empty {
			return changed, nil
		}
	}
	return acc.addEmpty() || changed, nil
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}
