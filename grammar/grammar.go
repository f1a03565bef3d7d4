package grammar

import (
	"fmt"
	"strings"

	verr "github.com/nihei9/tabula/error"
	"github.com/nihei9/tabula/grammar/symbol"
	"github.com/nihei9/tabula/spec"
)

type Grammar struct {
	symbolTable          *symbol.SymbolTable
	productionSet        *productionSet
	augmentedStartSymbol symbol.Symbol
	startSymbol          symbol.Symbol
	first                *firstSet
	follow               *followSet
}

type GrammarBuilder struct {
	AST *spec.RootNode

	errs verr.SpecErrors
}

func (b *GrammarBuilder) Build() (*Grammar, error) {
	if b.AST == nil || len(b.AST.Productions) == 0 {
		return nil, verr.SpecErrors{
			&verr.SpecError{
				Cause: semErrNoProduction,
			},
		}
	}

	symTab, err := b.genSymbolTable(b.AST)
	if err != nil {
		return nil, err
	}
	if len(b.errs) > 0 {
		return nil, b.errs
	}

	prods, err := b.genProductions(b.AST, symTab.Reader())
	if err != nil {
		return nil, err
	}
	if len(b.errs) > 0 {
		return nil, b.errs
	}

	r := symTab.Reader()
	startSym, _ := r.ToSymbol(b.AST.Productions[0].LHS)
	augStartSym, _ := r.ToSymbol(augmentedStartText(b.AST.Productions[0].LHS))

	first, err := genFirstSet(prods)
	if err != nil {
		return nil, err
	}
	follow, err := genFollowSet(prods, first)
	if err != nil {
		return nil, err
	}

	tracer().Infof("grammar built: %d productions", len(prods.getAllProductions()))

	return &Grammar{
		symbolTable:          symTab,
		productionSet:        prods,
		augmentedStartSymbol: augStartSym,
		startSymbol:          startSym,
		first:                first,
		follow:               follow,
	}, nil
}

// augmentedStartText returns the spelling of the augmented start symbol. A quote cannot appear in a
// non-terminal name, so the spelling never collides with user symbols.
func augmentedStartText(start string) string {
	return fmt.Sprintf("%s'", start)
}

// genSymbolTable registers the augmented start symbol, every LHS in first-appearance order, and then
// every terminal in first-appearance order. The registration order fixes the column order of the tables.
func (b *GrammarBuilder) genSymbolTable(root *spec.RootNode) (*symbol.SymbolTable, error) {
	symTab := symbol.NewSymbolTable()
	w := symTab.Writer()

	_, err := w.RegisterStartSymbol(augmentedStartText(root.Productions[0].LHS))
	if err != nil {
		return nil, err
	}

	for _, prod := range root.Productions {
		_, err := w.RegisterNonTerminalSymbol(prod.LHS)
		if err != nil {
			return nil, err
		}
	}

	r := symTab.Reader()
	for _, prod := range root.Productions {
		for _, alt := range prod.RHS {
			for _, elem := range alt.Elements {
				if elem.NonTerminal != "" {
					// Every LHS is already registered, so an unknown name has no production.
					if _, ok := r.ToSymbol(elem.NonTerminal); !ok {
						b.errs = append(b.errs, &verr.SpecError{
							Cause:  semErrUndefinedSym,
							Detail: elem.NonTerminal,
							Row:    elem.Pos.Row,
							Col:    elem.Pos.Col,
						})
					}
					continue
				}

				if elem.Terminal == symbol.EOFText || elem.Terminal == symbol.EpsilonText {
					b.errs = append(b.errs, &verr.SpecError{
						Cause:  semErrReservedTerminal,
						Detail: elem.Terminal,
						Row:    elem.Pos.Row,
						Col:    elem.Pos.Col,
					})
					continue
				}
				if sym, ok := r.ToSymbol(elem.Terminal); ok && sym.IsNonTerminal() {
					b.errs = append(b.errs, &verr.SpecError{
						Cause:  semErrDuplicateName,
						Detail: elem.Terminal,
						Row:    elem.Pos.Row,
						Col:    elem.Pos.Col,
					})
					continue
				}
				_, err := w.RegisterTerminalSymbol(elem.Terminal)
				if err != nil {
					return nil, err
				}
			}
		}
	}

	return symTab, nil
}

func (b *GrammarBuilder) genProductions(root *spec.RootNode, symTab *symbol.SymbolTableReader) (*productionSet, error) {
	prods := newProductionSet()

	augStartSym, _ := symTab.ToSymbol(augmentedStartText(root.Productions[0].LHS))
	startSym, _ := symTab.ToSymbol(root.Productions[0].LHS)
	p, err := newProduction(augStartSym, []symbol.Symbol{startSym})
	if err != nil {
		return nil, err
	}
	if !prods.append(p) {
		return nil, fmt.Errorf("failed to append the augmented start production")
	}

	for _, prod := range root.Productions {
		lhsSym, ok := symTab.ToSymbol(prod.LHS)
		if !ok {
			return nil, fmt.Errorf("symbol '%v' is undefined", prod.LHS)
		}

		for _, alt := range prod.RHS {
			altSyms := make([]symbol.Symbol, len(alt.Elements))
			for i, elem := range alt.Elements {
				text := elem.NonTerminal
				if text == "" {
					text = elem.Terminal
				}
				sym, ok := symTab.ToSymbol(text)
				if !ok {
					return nil, fmt.Errorf("symbol '%v' is undefined", text)
				}
				altSyms[i] = sym
			}

			p, err := newProduction(lhsSym, altSyms)
			if err != nil {
				return nil, err
			}
			if !prods.append(p) {
				b.errs = append(b.errs, &verr.SpecError{
					Cause:  semErrDuplicateProduction,
					Detail: fmt.Sprintf("%v -> %v", prod.LHS, rhsText(alt)),
					Row:    alt.Pos.Row,
					Col:    alt.Pos.Col,
				})
			}
		}
	}

	return prods, nil
}

func rhsText(alt *spec.AlternativeNode) string {
	if alt.Epsilon || len(alt.Elements) == 0 {
		return symbol.EpsilonText
	}
	texts := make([]string, len(alt.Elements))
	for i, elem := range alt.Elements {
		if elem.NonTerminal != "" {
			texts[i] = elem.NonTerminal
		} else {
			texts[i] = elem.Terminal
		}
	}
	return strings.Join(texts, " ")
}

// Terminals returns the terminals in column order. The end marker comes last.
func (g *Grammar) Terminals() []string {
	return g.symbolTable.Reader().TerminalTexts()
}

// NonTerminals returns the non-terminals in column order. The augmented start symbol comes first.
func (g *Grammar) NonTerminals() []string {
	texts, _ := g.symbolTable.Reader().NonTerminalTexts()
	return texts
}

func (g *Grammar) StartSymbol() string {
	text, _ := g.symbolTable.Reader().ToText(g.startSymbol)
	return text
}

func (g *Grammar) AugmentedStartSymbol() string {
	text, _ := g.symbolTable.Reader().ToText(g.augmentedStartSymbol)
	return text
}

func (g *Grammar) IsNonTerminal(text string) bool {
	sym, ok := g.symbolTable.Reader().ToSymbol(text)
	return ok && sym.IsNonTerminal()
}

func (g *Grammar) IsTerminal(text string) bool {
	sym, ok := g.symbolTable.Reader().ToSymbol(text)
	return ok && sym.IsTerminal()
}

func (g *Grammar) ProductionCount() int {
	return len(g.productionSet.getAllProductions())
}

// Production returns the LHS and the RHS of a rule. The RHS of an epsilon production is empty.
func (g *Grammar) Production(num int) (string, []string, bool) {
	prod, ok := g.productionSet.findByNum(productionNum(num))
	if !ok {
		return "", nil, false
	}
	r := g.symbolTable.Reader()
	lhs, _ := r.ToText(prod.lhs)
	rhs := make([]string, prod.rhsLen)
	for i, sym := range prod.rhs {
		rhs[i], _ = r.ToText(sym)
	}
	return lhs, rhs, true
}

// ProductionText renders a rule like `a -> x y z`, or `a -> #` for an epsilon production.
func (g *Grammar) ProductionText(num int) (string, error) {
	lhs, rhs, ok := g.Production(num)
	if !ok {
		return "", fmt.Errorf("production not found; rule: %v", num)
	}
	if len(rhs) == 0 {
		return fmt.Sprintf("%v -> %v", lhs, symbol.EpsilonText), nil
	}
	return fmt.Sprintf("%v -> %v", lhs, strings.Join(rhs, " ")), nil
}

// First returns FIRST of a symbol in column order. For a nullable non-terminal, the epsilon marker is
// appended. FIRST of a terminal is the terminal itself.
func (g *Grammar) First(text string) ([]string, error) {
	r := g.symbolTable.Reader()
	sym, ok := r.ToSymbol(text)
	if !ok {
		return nil, fmt.Errorf("symbol not found; symbol: %v", text)
	}
	if sym.IsTerminal() {
		return []string{text}, nil
	}
	e := g.first.findBySymbol(sym)
	if e == nil {
		return nil, fmt.Errorf("an entry of FIRST was not found; symbol: %v", text)
	}
	texts := g.terminalTexts(func(term symbol.Symbol) bool {
		_, ok := e.symbols[term]
		return ok
	})
	if e.empty {
		texts = append(texts, symbol.EpsilonText)
	}
	return texts, nil
}

// Follow returns FOLLOW of a non-terminal in column order. It never contains the epsilon marker.
func (g *Grammar) Follow(text string) ([]string, error) {
	r := g.symbolTable.Reader()
	sym, ok := r.ToSymbol(text)
	if !ok {
		return nil, fmt.Errorf("symbol not found; symbol: %v", text)
	}
	if !sym.IsNonTerminal() {
		return nil, fmt.Errorf("FOLLOW is defined only for non-terminals; symbol: %v", text)
	}
	e, err := g.follow.find(sym)
	if err != nil {
		return nil, err
	}
	return g.terminalTexts(e.contains), nil
}

func (g *Grammar) terminalTexts(pred func(symbol.Symbol) bool) []string {
	r := g.symbolTable.Reader()
	texts := []string{}
	for _, term := range r.TerminalSymbols() {
		if !pred(term) {
			continue
		}
		text, _ := r.ToText(term)
		texts = append(texts, text)
	}
	return texts
}

func (g *Grammar) toText(sym symbol.Symbol) string {
	text, ok := g.symbolTable.Reader().ToText(sym)
	if !ok {
		return sym.String()
	}
	return text
}
