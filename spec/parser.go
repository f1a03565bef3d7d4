package spec

import (
	"io"

	verr "github.com/nihei9/tabula/error"
)

type RootNode struct {
	Productions []*ProductionNode
}

type ProductionNode struct {
	LHS string
	RHS []*AlternativeNode
	Pos Position
}

type AlternativeNode struct {
	Elements []*ElementNode

	// Epsilon is true when the alternative is written as '#'. Such an alternative has no elements.
	Epsilon bool
	Pos     Position
}

type ElementNode struct {
	NonTerminal string
	Terminal    string
	Pos         Position
}

func raiseSyntaxError(row int, synErr *SyntaxError) {
	panic(&verr.SpecError{
		Cause: synErr,
		Row:   row,
	})
}

func raiseSyntaxErrorAt(pos Position, synErr *SyntaxError) {
	panic(&verr.SpecError{
		Cause: synErr,
		Row:   pos.Row,
		Col:   pos.Col,
	})
}

// Parse reads a grammar written one production per line:
//
//	<s> ::= "a" <s> "b" | "c"
//	<a> ::= #
func Parse(src io.Reader) (*RootNode, error) {
	p, err := newParser(src)
	if err != nil {
		return nil, err
	}
	root, err := p.parse()
	if err != nil {
		return nil, err
	}
	return root, nil
}

type parser struct {
	lex       *lexer
	peekedTok *token
	lastTok   *token
}

func newParser(src io.Reader) (*parser, error) {
	lex, err := newLexer(src)
	if err != nil {
		return nil, err
	}
	return &parser{
		lex: lex,
	}, nil
}

func (p *parser) parse() (root *RootNode, retErr error) {
	defer func() {
		err := recover()
		if err != nil {
			specErr, ok := err.(*verr.SpecError)
			if !ok {
				panic(err)
			}
			retErr = specErr
			return
		}
	}()
	return p.parseRoot(), nil
}

func (p *parser) parseRoot() *RootNode {
	// A grammar may begin with blank lines or comments.
	p.consume(tokenKindNewline)

	prod := p.parseProduction()
	if prod == nil {
		raiseSyntaxError(0, synErrNoProduction)
	}
	root := &RootNode{
		Productions: []*ProductionNode{prod},
	}
	for {
		prod := p.parseProduction()
		if prod == nil {
			break
		}
		root.Productions = append(root.Productions, prod)
	}
	return root
}

func (p *parser) parseProduction() *ProductionNode {
	if p.consume(tokenKindEOF) {
		return nil
	}
	if !p.consume(tokenKindNonTerminal) {
		raiseSyntaxErrorAt(p.peekedTok.pos, synErrNoProductionName)
	}
	lhs := p.lastTok.text
	lhsPos := p.lastTok.pos
	if !p.consume(tokenKindDerives) {
		raiseSyntaxErrorAt(p.peekedTok.pos, synErrNoDerives)
	}
	alt := p.parseAlternative()
	rhs := []*AlternativeNode{alt}
	for {
		if !p.consume(tokenKindOr) {
			break
		}
		alt := p.parseAlternative()
		rhs = append(rhs, alt)
	}
	if !p.consume(tokenKindNewline) && !p.consume(tokenKindEOF) {
		raiseSyntaxErrorAt(p.peekedTok.pos, synErrProdNoNewline)
	}
	if p.lastTok.kind == tokenKindEOF {
		// Leave EOF for the next call.
		p.peekedTok = p.lastTok
	}
	return &ProductionNode{
		LHS: lhs,
		RHS: rhs,
		Pos: lhsPos,
	}
}

func (p *parser) parseAlternative() *AlternativeNode {
	if p.consume(tokenKindEpsilon) {
		pos := p.lastTok.pos
		if elem := p.parseElement(); elem != nil {
			raiseSyntaxErrorAt(elem.Pos, synErrEpsilonWithOtherSymbol)
		}
		return &AlternativeNode{
			Epsilon: true,
			Pos:     pos,
		}
	}

	elems := []*ElementNode{}
	for {
		elem := p.parseElement()
		if elem == nil {
			break
		}
		if p.consume(tokenKindEpsilon) {
			raiseSyntaxErrorAt(p.lastTok.pos, synErrEpsilonWithOtherSymbol)
		}
		elems = append(elems, elem)
	}
	if len(elems) == 0 {
		raiseSyntaxErrorAt(p.peekedTok.pos, synErrEmptyAlternative)
	}
	return &AlternativeNode{
		Elements: elems,
		Pos:      elems[0].Pos,
	}
}

func (p *parser) parseElement() *ElementNode {
	switch {
	case p.consume(tokenKindNonTerminal):
		return &ElementNode{
			NonTerminal: p.lastTok.text,
			Pos:         p.lastTok.pos,
		}
	case p.consume(tokenKindTerminal):
		return &ElementNode{
			Terminal: p.lastTok.text,
			Pos:      p.lastTok.pos,
		}
	}
	return nil
}

func (p *parser) consume(expected tokenKind) bool {
	var tok *token
	var err error
	if p.peekedTok != nil {
		tok = p.peekedTok
		p.peekedTok = nil
	} else {
		tok, err = p.lex.next()
		if err != nil {
			if specErr, ok := err.(*verr.SpecError); ok {
				panic(specErr)
			}
			panic(&verr.SpecError{
				Cause: err,
			})
		}
	}
	p.lastTok = tok
	if tok.kind == tokenKindInvalid {
		raiseSyntaxErrorAt(tok.pos, synErrInvalidToken)
	}
	if tok.kind == expected {
		return true
	}
	p.peekedTok = tok
	p.lastTok = nil

	return false
}
