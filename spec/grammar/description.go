package grammar

type Terminal struct {
	Number int    `json:"number"`
	Name   string `json:"name"`
}

type NonTerminal struct {
	Number int    `json:"number"`
	Name   string `json:"name"`
}

type Production struct {
	Number int      `json:"number"`
	LHS    string   `json:"lhs"`
	RHS    []string `json:"rhs"`
	Text   string   `json:"text"`
}

// SymbolSet is FIRST or FOLLOW of a symbol. Empty is true when FIRST contains the empty string.
type SymbolSet struct {
	Symbol  string   `json:"symbol"`
	Symbols []string `json:"symbols"`
	Empty   bool     `json:"empty,omitempty"`
}

type Item struct {
	Production int      `json:"production"`
	Dot        int      `json:"dot"`
	Kernel     bool     `json:"kernel"`
	LookAhead  []string `json:"look_ahead,omitempty"`
	Text       string   `json:"text"`
}

type Transition struct {
	Symbol string `json:"symbol"`
	State  int    `json:"state"`
}

type State struct {
	Number      int           `json:"number"`
	Items       []*Item       `json:"items"`
	Transitions []*Transition `json:"transitions"`
}

type Automaton struct {
	Kind   string   `json:"kind"`
	States []*State `json:"states"`
}

type TableRow struct {
	Label string   `json:"label"`
	Cells []string `json:"cells"`
}

type Table struct {
	Columns []string    `json:"columns"`
	Rows    []*TableRow `json:"rows"`
}

type Conflict struct {
	Kind   string `json:"kind"`
	Row    string `json:"row"`
	Column string `json:"column"`
	First  string `json:"first"`
	Second string `json:"second"`
}

type ParseResult struct {
	Accepted bool   `json:"accepted"`
	Token    string `json:"token,omitempty"`
	Row      int    `json:"row,omitempty"`
	Col      int    `json:"col,omitempty"`
	Message  string `json:"message,omitempty"`
	Steps    int    `json:"steps"`
}

// Analysis is the result of one parsing method. Parse is nil when the table has conflicts or when no
// tokens were given.
type Analysis struct {
	Class     string       `json:"class"`
	Title     string       `json:"title"`
	Parsable  bool         `json:"parsable"`
	Table     *Table       `json:"table"`
	Conflicts []*Conflict  `json:"conflicts"`
	Parse     *ParseResult `json:"parse,omitempty"`
}

type Report struct {
	Grammar      string         `json:"grammar"`
	Terminals    []*Terminal    `json:"terminals"`
	NonTerminals []*NonTerminal `json:"non_terminals"`
	Productions  []*Production  `json:"productions"`
	First        []*SymbolSet   `json:"first"`
	Follow       []*SymbolSet   `json:"follow"`
	Automata     []*Automaton   `json:"automata"`
	Analyses     []*Analysis    `json:"analyses"`
}
