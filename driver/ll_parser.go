package driver

import (
	"fmt"

	"github.com/emirpasic/gods/stacks/arraystack"
	"github.com/nihei9/tabula/grammar/symbol"
)

type llFrame struct {
	sym  string
	node *Node
}

func (f *llFrame) String() string {
	return f.sym
}

// LLParser is a table-driven predictive parser. Its stack starts as [$, start] and the input is accepted
// when the end marker at the bottom matches the end of the input.
type LLParser struct {
	tab   LLTable
	ts    TokenStream
	conf  parserConfig
	stack *arraystack.Stack
	steps int
}

func NewLLParser(tab LLTable, ts TokenStream, opts ...ParserOption) (*LLParser, error) {
	conf, err := applyOptions(opts)
	if err != nil {
		return nil, err
	}
	return &LLParser{
		tab:   tab,
		ts:    ts,
		conf:  conf,
		stack: arraystack.New(),
	}, nil
}

func (p *LLParser) Parse() (*Result, error) {
	var root *Node
	if p.conf.makeCST {
		root = &Node{
			KindName: p.tab.Start(),
		}
	}
	p.stack.Push(&llFrame{sym: symbol.EOFText})
	p.stack.Push(&llFrame{sym: p.tab.Start(), node: root})

	tok, err := p.ts.Next()
	if err != nil {
		return nil, err
	}

	for {
		p.steps++
		v, _ := p.stack.Peek()
		top := v.(*llFrame)
		term := tok.TerminalText()

		switch {
		case top.sym == symbol.EOFText:
			if !tok.EOF() {
				p.trace(tok, "error")
				return p.reject(tok, fmt.Sprintf("unexpected token: %v; expected the end of input", term)), nil
			}
			p.trace(tok, "accept")
			p.stack.Pop()
			return &Result{
				Accepted: true,
				Token:    tok,
				Steps:    p.steps,
				Tree:     root,
			}, nil
		case p.tab.IsNonTerminal(top.sym):
			rhs, epsilon, ok := p.tab.Predict(top.sym, term)
			if !ok {
				p.trace(tok, "error")
				return p.reject(tok, unexpectedTokenMessage(tok)), nil
			}
			p.stack.Pop()
			if epsilon {
				p.trace(tok, fmt.Sprintf("predict %v -> %v", top.sym, symbol.EpsilonText))
				tracer().Debugf("predict %v -> %v; token: %v", top.sym, symbol.EpsilonText, term)
				continue
			}
			p.trace(tok, fmt.Sprintf("predict %v -> %v", top.sym, rhsText(rhs)))
			tracer().Debugf("predict %v -> %v; token: %v", top.sym, rhsText(rhs), term)

			frames := make([]*llFrame, len(rhs))
			for i, sym := range rhs {
				frames[i] = &llFrame{sym: sym}
				if top.node != nil {
					frames[i].node = &Node{
						KindName: sym,
					}
					top.node.Children = append(top.node.Children, frames[i].node)
				}
			}
			for i := len(frames) - 1; i >= 0; i-- {
				p.stack.Push(frames[i])
			}
		case top.sym == term:
			p.trace(tok, fmt.Sprintf("match %v", term))
			tracer().Debugf("match %v", term)
			p.stack.Pop()
			if top.node != nil {
				top.node.Row, top.node.Col = tok.Position()
			}
			tok, err = p.ts.Next()
			if err != nil {
				return nil, err
			}
		default:
			p.trace(tok, "error")
			return p.reject(tok, fmt.Sprintf("unexpected token: %v; expected: %v", term, top.sym)), nil
		}
	}
}

func (p *LLParser) reject(tok VToken, msg string) *Result {
	tracer().Debugf("reject: %v", msg)
	return &Result{
		Token:   tok,
		Message: msg,
		Steps:   p.steps,
	}
}

func (p *LLParser) trace(tok VToken, act string) {
	if p.conf.trace == nil {
		return
	}
	fmt.Fprintf(p.conf.trace, "%v: stack: [%v], input: %v, action: %v\n", p.steps, stackText(p.stack), tok.TerminalText(), act)
}

func rhsText(rhs []string) string {
	if len(rhs) == 0 {
		return symbol.EpsilonText
	}
	text := rhs[0]
	for _, sym := range rhs[1:] {
		text += " " + sym
	}
	return text
}
