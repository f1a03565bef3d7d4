package grammar

import (
	"fmt"
	"sort"
	"strings"

	"github.com/nihei9/tabula/grammar/symbol"
)

type Class string

const (
	ClassLR0  = Class("lr0")
	ClassSLR1 = Class("slr1")
	ClassLR1  = Class("lr1")
	ClassLL1  = Class("ll1")
)

func (c Class) String() string {
	return string(c)
}

// Title returns the conventional spelling of a class, like `SLR(1)`.
func (c Class) Title() string {
	switch c {
	case ClassLR0:
		return "LR(0)"
	case ClassSLR1:
		return "SLR(1)"
	case ClassLR1:
		return "LR(1)"
	case ClassLL1:
		return "LL(1)"
	}
	return string(c)
}

func ParseClass(s string) (Class, error) {
	switch Class(strings.ToLower(s)) {
	case ClassLR0, ClassSLR1, ClassLR1, ClassLL1:
		return Class(strings.ToLower(s)), nil
	}
	return "", fmt.Errorf("invalid class; want: %v, %v, %v, or %v, got: %v", ClassLR0, ClassSLR1, ClassLR1, ClassLL1, s)
}

type ActionType string

const (
	ActionTypeShift   = ActionType("shift")
	ActionTypeReduce  = ActionType("reduce")
	ActionTypeGoTo    = ActionType("goto")
	ActionTypeAccept  = ActionType("accept")
	ActionTypePredict = ActionType("predict")
	ActionTypeError   = ActionType("error")
)

// Action is a cell of a parsing table. The zero value is an empty cell.
type Action struct {
	Type ActionType

	// State is the next state of a shift or a goto.
	State int

	// Production is the rule of a reduce or a predict.
	Production int

	// Epsilon is true when a predict is the epsilon marker of a non-terminal. The marker pops the
	// non-terminal and pushes nothing.
	Epsilon bool

	text string
}

func (a Action) IsEmpty() bool {
	return a.Type == "" || a.Type == ActionTypeError
}

func (a Action) String() string {
	switch a.Type {
	case ActionTypeShift:
		return fmt.Sprintf("s%v", a.State)
	case ActionTypeReduce:
		return fmt.Sprintf("r%v", a.Production)
	case ActionTypeGoTo:
		return fmt.Sprintf("%v", a.State)
	case ActionTypeAccept:
		return "acc"
	case ActionTypePredict:
		return a.text
	}
	return ""
}

func newShiftAction(state stateNum) Action {
	return Action{
		Type:  ActionTypeShift,
		State: state.Int(),
	}
}

func newReduceAction(prod productionNum) Action {
	return Action{
		Type:       ActionTypeReduce,
		Production: prod.Int(),
	}
}

func newGoToAction(state stateNum) Action {
	return Action{
		Type:  ActionTypeGoTo,
		State: state.Int(),
	}
}

func newAcceptAction() Action {
	return Action{
		Type:       ActionTypeAccept,
		Production: productionNumStart.Int(),
	}
}

// Conflict records a cell written twice. First is the action the cell held, and Second is the action
// that overwrote it.
type Conflict struct {
	Row    string
	Column string
	First  string
	Second string
}

func (c *Conflict) String() string {
	return fmt.Sprintf("at state %s on %s, %s/%s happened.", c.Row, c.Column, c.First, c.Second)
}

// ClassifyLRConflict names the kind of a conflict in an LR table, like `shift/reduce`. The name does not
// depend on which action was written first.
func ClassifyLRConflict(c *Conflict) string {
	kinds := []string{lrActionKind(c.First), lrActionKind(c.Second)}
	sort.Strings(kinds)
	if kinds[0] == "reduce" && kinds[1] == "shift" {
		return "shift/reduce"
	}
	return fmt.Sprintf("%v/%v", kinds[0], kinds[1])
}

func lrActionKind(act string) string {
	switch {
	case act == "acc":
		return "accept"
	case strings.HasPrefix(act, "s"):
		return "shift"
	case strings.HasPrefix(act, "r"):
		return "reduce"
	}
	return "goto"
}

// ClassifyLLConflict names the kind of a conflict in an LL table. A conflict involving the epsilon
// marker is a first/follow conflict.
func ClassifyLLConflict(c *Conflict) string {
	marker := " -> " + symbol.EpsilonText
	if strings.HasSuffix(c.First, marker) || strings.HasSuffix(c.Second, marker) {
		return "first/follow"
	}
	return "first/first"
}

// ParsingTable is an LR parsing table. Rows are states. Columns are every terminal in first-appearance
// order with the end marker last, followed by every non-terminal.
type ParsingTable struct {
	class     Class
	gram      *Grammar
	cells     []Action
	rowCount  int
	columns   []string
	colIndex  map[string]int
	termCount int
}

func newParsingTable(class Class, gram *Grammar, rowCount int) *ParsingTable {
	terms := gram.Terminals()
	columns := append(append([]string{}, terms...), gram.NonTerminals()...)
	colIndex := make(map[string]int, len(columns))
	for i, col := range columns {
		colIndex[col] = i
	}
	return &ParsingTable{
		class:     class,
		gram:      gram,
		cells:     make([]Action, rowCount*len(columns)),
		rowCount:  rowCount,
		columns:   columns,
		colIndex:  colIndex,
		termCount: len(terms),
	}
}

func (t *ParsingTable) Class() Class {
	return t.class
}

func (t *ParsingTable) RowCount() int {
	return t.rowCount
}

func (t *ParsingTable) Columns() []string {
	return t.columns
}

// TerminalCount returns the number of terminal columns. The non-terminal columns follow them.
func (t *ParsingTable) TerminalCount() int {
	return t.termCount
}

func (t *ParsingTable) Column(text string) (int, bool) {
	col, ok := t.colIndex[text]
	return col, ok
}

func (t *ParsingTable) readCell(row, col int) Action {
	return t.cells[row*len(t.columns)+col]
}

func (t *ParsingTable) writeCell(row, col int, act Action) {
	t.cells[row*len(t.columns)+col] = act
}

// Action returns the action of a state on a terminal. An empty action means a syntax error.
func (t *ParsingTable) Action(state int, terminal string) Action {
	col, ok := t.colIndex[terminal]
	if !ok || col >= t.termCount || state < 0 || state >= t.rowCount {
		return Action{}
	}
	return t.readCell(state, col)
}

// GoTo returns the state to move to after reducing to a non-terminal.
func (t *ParsingTable) GoTo(state int, nonTerminal string) (int, bool) {
	col, ok := t.colIndex[nonTerminal]
	if !ok || col < t.termCount || state < 0 || state >= t.rowCount {
		return 0, false
	}
	act := t.readCell(state, col)
	if act.Type != ActionTypeGoTo {
		return 0, false
	}
	return act.State, true
}

func (t *ParsingTable) ProductionCount() int {
	return t.gram.ProductionCount()
}

// Production returns the LHS and the RHS length of a rule.
func (t *ParsingTable) Production(num int) (string, int, bool) {
	lhs, rhs, ok := t.gram.Production(num)
	return lhs, len(rhs), ok
}

// LLTable is an LL(1) predictive table. Rows are non-terminals, and columns are terminals in the same
// order as an LR table.
type LLTable struct {
	gram     *Grammar
	cells    []Action
	rows     []string
	rowIndex map[string]int
	columns  []string
	colIndex map[string]int
}

// newLLTable makes an empty table. The augmented start symbol gets no row; an LL parser starts from the
// start symbol itself.
func newLLTable(gram *Grammar) *LLTable {
	rows := gram.NonTerminals()[1:]
	rowIndex := make(map[string]int, len(rows))
	for i, row := range rows {
		rowIndex[row] = i
	}
	columns := gram.Terminals()
	colIndex := make(map[string]int, len(columns))
	for i, col := range columns {
		colIndex[col] = i
	}
	return &LLTable{
		gram:     gram,
		cells:    make([]Action, len(rows)*len(columns)),
		rows:     rows,
		rowIndex: rowIndex,
		columns:  columns,
		colIndex: colIndex,
	}
}

func (t *LLTable) Rows() []string {
	return t.rows
}

func (t *LLTable) Columns() []string {
	return t.columns
}

func (t *LLTable) readCell(row, col int) Action {
	return t.cells[row*len(t.columns)+col]
}

func (t *LLTable) writeCell(row, col int, act Action) {
	t.cells[row*len(t.columns)+col] = act
}

// Cell returns the raw action of a non-terminal on a terminal.
func (t *LLTable) Cell(nonTerminal, terminal string) Action {
	row, ok := t.rowIndex[nonTerminal]
	if !ok {
		return Action{}
	}
	col, ok := t.colIndex[terminal]
	if !ok {
		return Action{}
	}
	return t.readCell(row, col)
}

// Predict returns the RHS to expand a non-terminal into on a terminal. When the cell holds the epsilon
// marker, epsilon is true and the RHS is empty.
func (t *LLTable) Predict(nonTerminal, terminal string) ([]string, bool, bool) {
	act := t.Cell(nonTerminal, terminal)
	if act.Type != ActionTypePredict {
		return nil, false, false
	}
	if act.Epsilon {
		return nil, true, true
	}
	_, rhs, ok := t.gram.Production(act.Production)
	if !ok {
		return nil, false, false
	}
	return rhs, len(rhs) == 0, true
}

func (t *LLTable) IsNonTerminal(text string) bool {
	_, ok := t.rowIndex[text]
	return ok
}

func (t *LLTable) ProductionCount() int {
	return t.gram.ProductionCount()
}

// Production returns the LHS and the RHS of a rule.
func (t *LLTable) Production(num int) (string, []string, bool) {
	return t.gram.Production(num)
}

// Start returns the symbol an LL parser starts from, that is, the start symbol of the grammar.
func (t *LLTable) Start() string {
	return t.gram.StartSymbol()
}
