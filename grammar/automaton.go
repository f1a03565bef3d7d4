package grammar

import (
	"fmt"
	"sort"
	"strconv"

	"github.com/cnf/structhash"
	"github.com/emirpasic/gods/sets/treeset"
	"github.com/emirpasic/gods/utils"
	"github.com/nihei9/tabula/grammar/symbol"
)

type AutomatonKind string

const (
	AutomatonKindLR0 = AutomatonKind("lr0")
	AutomatonKindLR1 = AutomatonKind("lr1")
)

func (k AutomatonKind) String() string {
	return string(k)
}

type stateNum int

const stateNumInitial = stateNum(0)

func (n stateNum) Int() int {
	return int(n)
}

func (n stateNum) String() string {
	return strconv.Itoa(int(n))
}

type lrState struct {
	num stateNum

	// items is closure-complete. Kernel items come first in the order goto produced them.
	items []*lrItem

	// moves holds the dotted symbols in the order of their first appearance in items. next maps each
	// of them to a successor state.
	moves []symbol.Symbol
	next  map[symbol.Symbol]stateNum
}

func newLRState(num stateNum, items []*lrItem) *lrState {
	moves := []symbol.Symbol{}
	known := map[symbol.Symbol]struct{}{}
	for _, item := range items {
		if item.dottedSymbol.IsNil() {
			continue
		}
		if _, ok := known[item.dottedSymbol]; ok {
			continue
		}
		known[item.dottedSymbol] = struct{}{}
		moves = append(moves, item.dottedSymbol)
	}
	return &lrState{
		num:   num,
		items: items,
		moves: moves,
		next:  map[symbol.Symbol]stateNum{},
	}
}

// Automaton is an LR(0) automaton or a canonical LR(1) automaton. States live in a slice, and a state's
// number is its index. Transitions refer to their successors only by number.
type Automaton struct {
	kind   AutomatonKind
	gram   *Grammar
	states []*lrState
}

func (a *Automaton) Kind() AutomatonKind {
	return a.kind
}

func (a *Automaton) Grammar() *Grammar {
	return a.gram
}

func (a *Automaton) StateCount() int {
	return len(a.states)
}

// Transition returns the successor of a state on a symbol.
func (a *Automaton) Transition(state int, sym string) (int, bool) {
	if state < 0 || state >= len(a.states) {
		return 0, false
	}
	s, ok := a.gram.symbolTable.Reader().ToSymbol(sym)
	if !ok {
		return 0, false
	}
	next, ok := a.states[state].next[s]
	return next.Int(), ok
}

func GenLR0Automaton(gram *Grammar) (*Automaton, error) {
	return genAutomaton(gram, false)
}

func GenLR1Automaton(gram *Grammar) (*Automaton, error) {
	return genAutomaton(gram, true)
}

// genAutomaton builds an automaton breadth-first from the closure of `S' →・S`. With trackLookAhead,
// items carry look-ahead symbols and two states are the same only when their look-ahead symbols also
// match, which yields the canonical LR(1) automaton.
func genAutomaton(gram *Grammar, trackLookAhead bool) (*Automaton, error) {
	kind := AutomatonKindLR0
	if trackLookAhead {
		kind = AutomatonKindLR1
	}
	tracer().Debugf("=== build %v automaton ===", kind)

	prods := gram.productionSet
	automaton := &Automaton{
		kind: kind,
		gram: gram,
	}
	index := map[string][]stateNum{}

	// Generate an initial state.
	{
		startProd, ok := prods.findByNum(productionNumStart)
		if !ok {
			return nil, fmt.Errorf("the augmented start production was not found")
		}
		initialItem, err := newLRItem(startProd, 0)
		if err != nil {
			return nil, err
		}
		if trackLookAhead {
			initialItem.lookAhead = newLookAheadSet(symbol.SymbolEOF)
		}
		items, err := genClosure([]*lrItem{initialItem}, prods, gram.first, trackLookAhead)
		if err != nil {
			return nil, err
		}
		if _, err := automaton.appendState(items, index, trackLookAhead); err != nil {
			return nil, err
		}
	}

	unchecked := treeset.NewWith(utils.IntComparator)
	unchecked.Add(stateNumInitial.Int())
	for unchecked.Size() > 0 {
		// The set is ordered, so the state with the lowest number is checked first.
		it := unchecked.Iterator()
		it.First()
		num := it.Value().(int)
		unchecked.Remove(num)
		state := automaton.states[num]

		for _, sym := range state.moves {
			items, err := genGoTo(state, sym, prods, gram.first, trackLookAhead)
			if err != nil {
				return nil, err
			}
			next, ok, err := automaton.findState(items, index, trackLookAhead)
			if err != nil {
				return nil, err
			}
			if !ok {
				next, err = automaton.appendState(items, index, trackLookAhead)
				if err != nil {
					return nil, err
				}
				unchecked.Add(next.Int())
			}
			state.next[sym] = next
			tracer().Debugf("goto(%v, %v) = %v", state.num, gram.toText(sym), next)
		}
	}

	tracer().Infof("%v automaton: %d states", kind, len(automaton.states))

	return automaton, nil
}

func (a *Automaton) appendState(items []*lrItem, index map[string][]stateNum, trackLookAhead bool) (stateNum, error) {
	fp, err := genStateFingerprint(items, trackLookAhead)
	if err != nil {
		return 0, err
	}
	num := stateNum(len(a.states))
	a.states = append(a.states, newLRState(num, items))
	index[fp] = append(index[fp], num)
	return num, nil
}

func (a *Automaton) findState(items []*lrItem, index map[string][]stateNum, trackLookAhead bool) (stateNum, bool, error) {
	fp, err := genStateFingerprint(items, trackLookAhead)
	if err != nil {
		return 0, false, err
	}
	for _, num := range index[fp] {
		if stateEquals(a.states[num].items, items, trackLookAhead) {
			return num, true, nil
		}
	}
	return 0, false, nil
}

type itemFingerprint struct {
	Production int
	Dot        int
	LookAhead  []int
}

type stateFingerprint struct {
	Items []itemFingerprint
}

// genStateFingerprint hashes the item set of a state so that equivalent states share a fingerprint
// regardless of the order of their items.
func genStateFingerprint(items []*lrItem, trackLookAhead bool) (string, error) {
	fp := stateFingerprint{
		Items: make([]itemFingerprint, len(items)),
	}
	for i, item := range items {
		fp.Items[i] = itemFingerprint{
			Production: item.prod.Int(),
			Dot:        item.dot,
		}
		if trackLookAhead {
			for _, sym := range item.lookAhead.sorted() {
				fp.Items[i].LookAhead = append(fp.Items[i].LookAhead, int(sym))
			}
		}
	}
	sort.Slice(fp.Items, func(i, j int) bool {
		if fp.Items[i].Production == fp.Items[j].Production {
			return fp.Items[i].Dot < fp.Items[j].Dot
		}
		return fp.Items[i].Production < fp.Items[j].Production
	})
	return structhash.Hash(fp, 1)
}

// stateEquals reports whether two item sets are core-equal. With trackLookAhead, every matched pair of
// items must also have identical look-ahead symbols.
func stateEquals(items1, items2 []*lrItem, trackLookAhead bool) bool {
	if len(items1) != len(items2) {
		return false
	}
	cores := make(map[lrItemCore]*lrItem, len(items1))
	for _, item := range items1 {
		cores[item.core()] = item
	}
	for _, item := range items2 {
		other, ok := cores[item.core()]
		if !ok {
			return false
		}
		if trackLookAhead && !other.lookAhead.equals(item.lookAhead) {
			return false
		}
	}
	return true
}

// genClosure expands every item whose dotted symbol is a non-terminal until no item is added. With
// trackLookAhead, an item already in the set absorbs new look-ahead symbols and is checked again only
// when its look-ahead symbols grew.
func genClosure(kernel []*lrItem, prods *productionSet, first *firstSet, trackLookAhead bool) ([]*lrItem, error) {
	items := []*lrItem{}
	knownItems := map[lrItemCore]*lrItem{}
	uncheckedItems := []*lrItem{}
	for _, item := range kernel {
		if _, ok := knownItems[item.core()]; ok {
			return nil, fmt.Errorf("a kernel contains a duplicate item; item: %v", item.core())
		}
		items = append(items, item)
		knownItems[item.core()] = item
		uncheckedItems = append(uncheckedItems, item)
	}
	for len(uncheckedItems) > 0 {
		item := uncheckedItems[0]
		uncheckedItems = uncheckedItems[1:]
		if !item.dottedSymbol.IsNonTerminal() {
			continue
		}

		var la lookAheadSet
		if trackLookAhead {
			prod, ok := prods.findByNum(item.prod)
			if !ok {
				return nil, fmt.Errorf("a production was not found; rule: %v", item.prod)
			}
			fst, err := first.find(prod, item.dot+1)
			if err != nil {
				return nil, err
			}
			la = newLookAheadSet()
			for sym := range fst.symbols {
				la.add(sym)
			}
			if fst.empty {
				la.merge(item.lookAhead)
			}
		}

		ps, _ := prods.findByLHS(item.dottedSymbol)
		for _, prod := range ps {
			if known, ok := knownItems[lrItemCore{prod: prod.num, dot: 0}]; ok {
				if trackLookAhead && known.lookAhead.merge(la) {
					uncheckedItems = append(uncheckedItems, known)
				}
				continue
			}
			newItem, err := newLRItem(prod, 0)
			if err != nil {
				return nil, err
			}
			newItem.lookAhead = la.clone()
			items = append(items, newItem)
			knownItems[newItem.core()] = newItem
			uncheckedItems = append(uncheckedItems, newItem)
		}
	}

	return items, nil
}

// genGoTo advances the dot over sym in every item of a state whose dotted symbol is sym, and closes the result.
func genGoTo(state *lrState, sym symbol.Symbol, prods *productionSet, first *firstSet, trackLookAhead bool) ([]*lrItem, error) {
	kernel := []*lrItem{}
	for _, item := range state.items {
		if item.dottedSymbol != sym {
			continue
		}
		prod, ok := prods.findByNum(item.prod)
		if !ok {
			return nil, fmt.Errorf("a production was not found; rule: %v", item.prod)
		}
		next, err := item.advance(prod)
		if err != nil {
			return nil, err
		}
		kernel = append(kernel, next)
	}
	if len(kernel) == 0 {
		return nil, fmt.Errorf("no item moves on the symbol; state: %v, symbol: %v", state.num, sym)
	}
	return genClosure(kernel, prods, first, trackLookAhead)
}
