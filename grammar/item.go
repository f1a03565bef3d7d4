package grammar

import (
	"fmt"
	"sort"
	"strconv"

	"github.com/nihei9/tabula/grammar/symbol"
)

// lookAheadSet is a set of terminal symbols. An item of an LR(0) automaton has a nil set.
type lookAheadSet map[symbol.Symbol]struct{}

func newLookAheadSet(syms ...symbol.Symbol) lookAheadSet {
	la := lookAheadSet{}
	for _, sym := range syms {
		la[sym] = struct{}{}
	}
	return la
}

func (la lookAheadSet) add(sym symbol.Symbol) bool {
	if _, ok := la[sym]; ok {
		return false
	}
	la[sym] = struct{}{}
	return true
}

func (la lookAheadSet) merge(other lookAheadSet) bool {
	changed := false
	for sym := range other {
		if la.add(sym) {
			changed = true
		}
	}
	return changed
}

func (la lookAheadSet) equals(other lookAheadSet) bool {
	if len(la) != len(other) {
		return false
	}
	for sym := range la {
		if _, ok := other[sym]; !ok {
			return false
		}
	}
	return true
}

func (la lookAheadSet) clone() lookAheadSet {
	if la == nil {
		return nil
	}
	c := make(lookAheadSet, len(la))
	for sym := range la {
		c[sym] = struct{}{}
	}
	return c
}

// sorted returns the symbols in column order. The end marker comes last.
func (la lookAheadSet) sorted() []symbol.Symbol {
	syms := make([]symbol.Symbol, 0, len(la))
	for sym := range la {
		syms = append(syms, sym)
	}
	sort.Slice(syms, func(i, j int) bool {
		if syms[i].IsEOF() != syms[j].IsEOF() {
			return syms[j].IsEOF()
		}
		return syms[i] < syms[j]
	})
	return syms
}

// lrItemCore identifies an item regardless of its look-ahead symbols.
type lrItemCore struct {
	prod productionNum
	dot  int
}

func (c lrItemCore) String() string {
	return c.prod.String() + "." + strconv.Itoa(c.dot)
}

type lrItem struct {
	prod productionNum

	// E → E + T
	//
	// Dot | Dotted Symbol | Item
	// ----+---------------+------------
	// 0   | E             | E →・E + T
	// 1   | +             | E → E・+ T
	// 2   | T             | E → E +・T
	// 3   | Nil           | E → E + T・
	dot          int
	dottedSymbol symbol.Symbol

	// When initial is true, the LHS of the production is the augmented start symbol and dot is 0.
	// It looks like S' →・S.
	initial bool

	// When reducible is true, the item looks like E → E + T・.
	reducible bool

	// When kernel is true, the item is kernel item.
	kernel bool

	// lookAhead stores look-ahead symbols, and they are terminal symbols.
	// The item is reducible only when the look-ahead symbols appear as the next input symbol.
	lookAhead lookAheadSet
}

func newLRItem(prod *production, dot int) (*lrItem, error) {
	if prod == nil {
		return nil, fmt.Errorf("production must be non-nil")
	}

	if dot < 0 || dot > prod.rhsLen {
		return nil, fmt.Errorf("dot must be between 0 and %v", prod.rhsLen)
	}

	dottedSymbol := symbol.SymbolNil
	if dot < prod.rhsLen {
		dottedSymbol = prod.rhs[dot]
	}

	initial := false
	if prod.lhs.IsStart() && dot == 0 {
		initial = true
	}

	reducible := false
	if dot == prod.rhsLen {
		reducible = true
	}

	kernel := false
	if initial || dot > 0 {
		kernel = true
	}

	return &lrItem{
		prod:         prod.num,
		dot:          dot,
		dottedSymbol: dottedSymbol,
		initial:      initial,
		reducible:    reducible,
		kernel:       kernel,
	}, nil
}

func (item *lrItem) core() lrItemCore {
	return lrItemCore{
		prod: item.prod,
		dot:  item.dot,
	}
}

// advance returns a copy of the item whose dot moves one symbol to the right. The look-ahead symbols
// are carried unchanged.
func (item *lrItem) advance(prod *production) (*lrItem, error) {
	if item.reducible {
		return nil, fmt.Errorf("a reducible item cannot be advanced; item: %v", item.core())
	}
	next, err := newLRItem(prod, item.dot+1)
	if err != nil {
		return nil, err
	}
	next.lookAhead = item.lookAhead.clone()
	return next, nil
}
