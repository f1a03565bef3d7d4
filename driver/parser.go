package driver

import (
	"fmt"
	"io"
	"strings"

	"github.com/emirpasic/gods/stacks/arraystack"
	"github.com/nihei9/tabula/grammar/symbol"
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'tabula.driver'.
func tracer() tracing.Trace {
	return tracing.Select("tabula.driver")
}

// Node is a node of a concrete syntax tree. A leaf is a terminal and has a position.
type Node struct {
	KindName string
	Row      int
	Col      int
	Children []*Node
}

func PrintTree(w io.Writer, node *Node) {
	printTree(w, node, "", "")
}

func printTree(w io.Writer, node *Node, ruledLine string, childRuledLinePrefix string) {
	if node == nil {
		return
	}

	if node.Row > 0 {
		fmt.Fprintf(w, "%v%v (%v:%v)\n", ruledLine, node.KindName, node.Row, node.Col)
	} else {
		fmt.Fprintf(w, "%v%v\n", ruledLine, node.KindName)
	}

	num := len(node.Children)
	for i, child := range node.Children {
		var line string
		if num > 1 && i < num-1 {
			line = "├─ "
		} else {
			line = "└─ "
		}

		var prefix string
		if i >= num-1 {
			prefix = "   "
		} else {
			prefix = "│  "
		}

		printTree(w, child, childRuledLinePrefix+line, childRuledLinePrefix+prefix)
	}
}

// Result is the verdict of a parse. A rejection is a verdict, not an error; Token is the token the
// parser stopped at.
type Result struct {
	Accepted bool
	Token    VToken
	Message  string
	Steps    int

	// Tree is set only when the parser was created with MakeCST and the input was accepted.
	Tree *Node
}

type parserConfig struct {
	trace   io.Writer
	makeCST bool
}

type ParserOption func(c *parserConfig) error

// Trace makes a parser print its stacks and the action it takes on every step.
func Trace(w io.Writer) ParserOption {
	return func(c *parserConfig) error {
		if w == nil {
			return fmt.Errorf("a trace writer must be non-nil")
		}
		c.trace = w
		return nil
	}
}

func MakeCST() ParserOption {
	return func(c *parserConfig) error {
		c.makeCST = true
		return nil
	}
}

func applyOptions(opts []ParserOption) (parserConfig, error) {
	var c parserConfig
	for _, opt := range opts {
		err := opt(&c)
		if err != nil {
			return parserConfig{}, err
		}
	}
	return c, nil
}

// LRParser is a shift-reduce parser. It runs on any LR table; which of LR(0), SLR(1), and LR(1) built
// the table makes no difference to it.
type LRParser struct {
	tab        LRTable
	ts         TokenStream
	conf       parserConfig
	stateStack *arraystack.Stack
	symStack   *arraystack.Stack
	semStack   []*Node
	steps      int
}

func NewLRParser(tab LRTable, ts TokenStream, opts ...ParserOption) (*LRParser, error) {
	conf, err := applyOptions(opts)
	if err != nil {
		return nil, err
	}
	return &LRParser{
		tab:        tab,
		ts:         ts,
		conf:       conf,
		stateStack: arraystack.New(),
		symStack:   arraystack.New(),
	}, nil
}

func (p *LRParser) Parse() (*Result, error) {
	p.stateStack.Push(p.tab.InitialState())
	p.symStack.Push(symbol.EOFText)
	tok, err := p.ts.Next()
	if err != nil {
		return nil, err
	}

	for {
		p.steps++
		state := p.top()
		term := tok.TerminalText()

		if p.tab.Accept(state, term) {
			p.trace(tok, "accept")
			var tree *Node
			if p.conf.makeCST && len(p.semStack) > 0 {
				tree = p.semStack[len(p.semStack)-1]
			}
			return &Result{
				Accepted: true,
				Token:    tok,
				Steps:    p.steps,
				Tree:     tree,
			}, nil
		}

		act := p.tab.Action(state, term)
		switch {
		case act < 0: // Shift
			nextState := -act
			p.trace(tok, fmt.Sprintf("shift %v", nextState))
			tracer().Debugf("shift %v; state: %v, token: %v", nextState, state, term)

			p.stateStack.Push(nextState)
			p.symStack.Push(term)
			p.actOnShift(tok)

			tok, err = p.ts.Next()
			if err != nil {
				return nil, err
			}
		case act > 0: // Reduce
			prodNum := decodeRule(act)
			lhs := p.tab.LHS(prodNum)
			n := p.tab.AlternativeSymbolCount(prodNum)
			p.trace(tok, fmt.Sprintf("reduce %v", prodNum))
			tracer().Debugf("reduce %v; state: %v, LHS: %v, RHS length: %v", prodNum, state, lhs, n)

			// An epsilon production pops nothing.
			for i := 0; i < n; i++ {
				p.stateStack.Pop()
				p.symStack.Pop()
			}
			// Reducing the augmented start production anywhere but on the end marker leaves nothing to
			// go to.
			nextState, ok := p.tab.GoTo(p.top(), lhs)
			if !ok {
				p.trace(tok, "error")
				return p.reject(tok, unexpectedTokenMessage(tok)), nil
			}
			p.stateStack.Push(nextState)
			p.symStack.Push(lhs)
			p.actOnReduction(lhs, n)
		default: // Error
			p.trace(tok, "error")
			return p.reject(tok, unexpectedTokenMessage(tok)), nil
		}
	}
}

func (p *LRParser) top() int {
	v, _ := p.stateStack.Peek()
	return v.(int)
}

func (p *LRParser) reject(tok VToken, msg string) *Result {
	tracer().Debugf("reject: %v", msg)
	return &Result{
		Token:   tok,
		Message: msg,
		Steps:   p.steps,
	}
}

func (p *LRParser) actOnShift(tok VToken) {
	if !p.conf.makeCST {
		return
	}
	row, col := tok.Position()
	p.semStack = append(p.semStack, &Node{
		KindName: tok.TerminalText(),
		Row:      row,
		Col:      col,
	})
}

func (p *LRParser) actOnReduction(lhs string, n int) {
	if !p.conf.makeCST {
		return
	}

	// When an alternative is empty, `n` will be 0, and `handle` will be empty slice.
	handle := p.semStack[len(p.semStack)-n:]
	children := make([]*Node, len(handle))
	copy(children, handle)

	p.semStack = p.semStack[:len(p.semStack)-n]
	p.semStack = append(p.semStack, &Node{
		KindName: lhs,
		Children: children,
	})
}

func (p *LRParser) trace(tok VToken, act string) {
	if p.conf.trace == nil {
		return
	}
	fmt.Fprintf(p.conf.trace, "%v: state stack: [%v], symbol stack: [%v], input: %v, action: %v\n",
		p.steps, stackText(p.stateStack), stackText(p.symStack), tok.TerminalText(), act)
}

// stackText renders a stack from the bottom to the top.
func stackText(s *arraystack.Stack) string {
	vs := s.Values()
	texts := make([]string, len(vs))
	for i, v := range vs {
		texts[len(vs)-1-i] = fmt.Sprintf("%v", v)
	}
	return strings.Join(texts, " ")
}

func unexpectedTokenMessage(tok VToken) string {
	if tok.EOF() {
		return "unexpected end of input"
	}
	return fmt.Sprintf("unexpected token: %v", tok.TerminalText())
}
