package driver

import (
	"fmt"

	"github.com/nihei9/tabula/compressor"
	"github.com/nihei9/tabula/grammar"
	"github.com/nihei9/tabula/grammar/symbol"
)

// LRTable is the table an LRParser runs on. Action returns an encoded entry: see encodeShift and
// encodeRule.
type LRTable interface {
	InitialState() int
	Action(state int, terminal string) int
	Accept(state int, terminal string) bool
	GoTo(state int, lhs string) (int, bool)
	LHS(prod int) string
	AlternativeSymbolCount(prod int) int
}

// LLTable is the table an LLParser runs on.
type LLTable interface {
	Start() string
	IsNonTerminal(text string) bool
	Predict(nonTerminal, terminal string) ([]string, bool, bool)
}

// Both engines run on integer matrices packed by the compressor. An action or predictive cell holds one
// of these entries:
//
//	0     no entry
//	-n    shift to state n
//	n+1   rule n; a reduction in an action table and a prediction in a predictive table
//	-1    the epsilon marker of a predictive table
//
// A goto cell holds the next state itself. No transition enters the initial state, so neither a shift
// nor a goto is ever 0.
const (
	entryEmpty   = 0
	entryEpsilon = -1
)

func encodeShift(state int) int {
	return -state
}

func encodeRule(prod int) int {
	return prod + 1
}

func decodeRule(entry int) int {
	return entry - 1
}

// symbolColumns maps symbols to their columns.
func symbolColumns(texts []string) map[string]int {
	cols := make(map[string]int, len(texts))
	for i, text := range texts {
		cols[text] = i
	}
	return cols
}

func lookUp(tab *compressor.Table, cols map[string]int, row int, col string) int {
	c, ok := cols[col]
	if !ok {
		return entryEmpty
	}
	v, err := tab.Lookup(row, c)
	if err != nil {
		return entryEmpty
	}
	return v
}

type lrTableImpl struct {
	action       *compressor.Table
	goTo         *compressor.Table
	terminals    map[string]int
	nonTerminals map[string]int
	acceptState  int
	lhs          []string
	altSymCounts []int
}

// NewLRTable encodes a parsing table. A cell holding a conflict keeps the action the table holds for it.
func NewLRTable(tab *grammar.ParsingTable) (*lrTableImpl, error) {
	cols := tab.Columns()
	terms := cols[:tab.TerminalCount()]
	nonTerms := cols[tab.TerminalCount():]
	rowCount := tab.RowCount()

	action, err := compressor.NewMatrix(rowCount, len(terms), entryEmpty)
	if err != nil {
		return nil, err
	}
	goTo, err := compressor.NewMatrix(rowCount, len(nonTerms), entryEmpty)
	if err != nil {
		return nil, err
	}

	acceptState := -1
	for state := 0; state < rowCount; state++ {
		for col, term := range terms {
			act := tab.Action(state, term)
			var v int
			switch act.Type {
			case grammar.ActionTypeShift:
				if act.State == 0 {
					return nil, fmt.Errorf("a shift cannot enter the initial state; state: %v, symbol: %v", state, term)
				}
				v = encodeShift(act.State)
			case grammar.ActionTypeReduce:
				v = encodeRule(act.Production)
			case grammar.ActionTypeAccept:
				acceptState = state
				continue
			default:
				continue
			}
			err := action.Set(state, col, v)
			if err != nil {
				return nil, err
			}
		}
		for col, nonTerm := range nonTerms {
			next, ok := tab.GoTo(state, nonTerm)
			if !ok {
				continue
			}
			if next == 0 {
				return nil, fmt.Errorf("a goto cannot enter the initial state; state: %v, symbol: %v", state, nonTerm)
			}
			err := goTo.Set(state, col, next)
			if err != nil {
				return nil, err
			}
		}
	}

	prodCount := tab.ProductionCount()
	lhs := make([]string, prodCount)
	altSymCounts := make([]int, prodCount)
	for prod := 0; prod < prodCount; prod++ {
		l, n, ok := tab.Production(prod)
		if !ok {
			return nil, fmt.Errorf("production not found; rule: %v", prod)
		}
		lhs[prod] = l
		altSymCounts[prod] = n
	}

	t := &lrTableImpl{
		action:       compressor.Compress(action),
		goTo:         compressor.Compress(goTo),
		terminals:    symbolColumns(terms),
		nonTerminals: symbolColumns(nonTerms),
		acceptState:  acceptState,
		lhs:          lhs,
		altSymCounts: altSymCounts,
	}
	tracer().Debugf("%v action table: %v distinct rows, %v slots", tab.Class().Title(), t.action.DistinctRowCount(), t.action.SlotCount())
	return t, nil
}

// InitialState returns 0.
func (t *lrTableImpl) InitialState() int {
	return 0
}

func (t *lrTableImpl) Action(state int, terminal string) int {
	return lookUp(t.action, t.terminals, state, terminal)
}

func (t *lrTableImpl) Accept(state int, terminal string) bool {
	return state == t.acceptState && terminal == symbol.EOFText
}

func (t *lrTableImpl) GoTo(state int, lhs string) (int, bool) {
	next := lookUp(t.goTo, t.nonTerminals, state, lhs)
	return next, next != entryEmpty
}

func (t *lrTableImpl) LHS(prod int) string {
	if prod < 0 || prod >= len(t.lhs) {
		return ""
	}
	return t.lhs[prod]
}

func (t *lrTableImpl) AlternativeSymbolCount(prod int) int {
	if prod < 0 || prod >= len(t.altSymCounts) {
		return 0
	}
	return t.altSymCounts[prod]
}

type llTableImpl struct {
	predict      *compressor.Table
	nonTerminals map[string]int
	terminals    map[string]int
	start        string
	rhs          [][]string
}

// NewLLTable encodes a predictive table the same way NewLRTable encodes an action table. A cell holding a
// conflict keeps the prediction the table holds for it.
func NewLLTable(tab *grammar.LLTable) (*llTableImpl, error) {
	rows := tab.Rows()
	cols := tab.Columns()
	predict, err := compressor.NewMatrix(len(rows), len(cols), entryEmpty)
	if err != nil {
		return nil, err
	}
	for row, nonTerm := range rows {
		for col, term := range cols {
			act := tab.Cell(nonTerm, term)
			if act.Type != grammar.ActionTypePredict {
				continue
			}
			v := encodeRule(act.Production)
			if act.Epsilon {
				v = entryEpsilon
			}
			err := predict.Set(row, col, v)
			if err != nil {
				return nil, err
			}
		}
	}

	rhs := make([][]string, tab.ProductionCount())
	for prod := range rhs {
		_, r, ok := tab.Production(prod)
		if !ok {
			return nil, fmt.Errorf("production not found; rule: %v", prod)
		}
		rhs[prod] = r
	}

	t := &llTableImpl{
		predict:      compressor.Compress(predict),
		nonTerminals: symbolColumns(rows),
		terminals:    symbolColumns(cols),
		start:        tab.Start(),
		rhs:          rhs,
	}
	tracer().Debugf("%v predictive table: %v distinct rows, %v slots", grammar.ClassLL1.Title(), t.predict.DistinctRowCount(), t.predict.SlotCount())
	return t, nil
}

func (t *llTableImpl) Start() string {
	return t.start
}

func (t *llTableImpl) IsNonTerminal(text string) bool {
	_, ok := t.nonTerminals[text]
	return ok
}

// Predict returns the RHS to expand a non-terminal into. epsilon is true for the epsilon marker and for an
// explicit epsilon production.
func (t *llTableImpl) Predict(nonTerminal, terminal string) ([]string, bool, bool) {
	row, ok := t.nonTerminals[nonTerminal]
	if !ok {
		return nil, false, false
	}
	switch v := lookUp(t.predict, t.terminals, row, terminal); v {
	case entryEmpty:
		return nil, false, false
	case entryEpsilon:
		return nil, true, true
	default:
		prod := decodeRule(v)
		if prod < 0 || prod >= len(t.rhs) {
			return nil, false, false
		}
		return t.rhs[prod], len(t.rhs[prod]) == 0, true
	}
}

type Parser interface {
	Parse() (*Result, error)
}

// NewParser returns the engine an analysis calls for: an LLParser for LL(1) and an LRParser otherwise.
func NewParser(a *grammar.Analysis, ts TokenStream, opts ...ParserOption) (Parser, error) {
	if a.Class == grammar.ClassLL1 {
		if a.LLTable == nil {
			return nil, fmt.Errorf("the analysis has no LL(1) table")
		}
		tab, err := NewLLTable(a.LLTable)
		if err != nil {
			return nil, err
		}
		return NewLLParser(tab, ts, opts...)
	}
	if a.LRTable == nil {
		return nil, fmt.Errorf("the analysis has no %v table", a.Class.Title())
	}
	tab, err := NewLRTable(a.LRTable)
	if err != nil {
		return nil, err
	}
	return NewLRParser(tab, ts, opts...)
}
