package grammar

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"strconv"

	"github.com/nihei9/tabula/grammar/symbol"
)

type productionID [32]byte

func (id productionID) String() string {
	return hex.EncodeToString(id[:])
}

func genProductionID(lhs symbol.Symbol, rhs []symbol.Symbol) productionID {
	seq := make([]byte, 2*(len(rhs)+1))
	binary.BigEndian.PutUint16(seq, uint16(lhs))
	for i, sym := range rhs {
		binary.BigEndian.PutUint16(seq[2*(i+1):], uint16(sym))
	}
	return productionID(sha256.Sum256(seq))
}

// productionNum is a rule number. The augmented start production `S' → S` is always rule 0, and the
// productions of a grammar follow in source order.
type productionNum int

const (
	productionNumNil   = productionNum(-1)
	productionNumStart = productionNum(0)
)

func (n productionNum) Int() int {
	return int(n)
}

func (n productionNum) String() string {
	return strconv.Itoa(int(n))
}

type production struct {
	id     productionID
	num    productionNum
	lhs    symbol.Symbol
	rhs    []symbol.Symbol
	rhsLen int
}

func newProduction(lhs symbol.Symbol, rhs []symbol.Symbol) (*production, error) {
	if lhs.IsNil() {
		return nil, fmt.Errorf("LHS must be a non-nil symbol; LHS: %v, RHS: %v", lhs, rhs)
	}
	if !lhs.IsNonTerminal() {
		return nil, fmt.Errorf("LHS must be a non-terminal symbol; LHS: %v, RHS: %v", lhs, rhs)
	}
	for _, sym := range rhs {
		if sym.IsNil() {
			return nil, fmt.Errorf("a symbol of RHS must be a non-nil symbol; LHS: %v, RHS: %v", lhs, rhs)
		}
		if sym.IsEOF() {
			return nil, fmt.Errorf("RHS cannot contain the end marker; LHS: %v, RHS: %v", lhs, rhs)
		}
	}

	return &production{
		id:     genProductionID(lhs, rhs),
		num:    productionNumNil,
		lhs:    lhs,
		rhs:    rhs,
		rhsLen: len(rhs),
	}, nil
}

func (p *production) isEmpty() bool {
	return p.rhsLen == 0
}

type productionSet struct {
	lhs2Prods map[symbol.Symbol][]*production
	id2Prod   map[productionID]*production
	prods     []*production
}

func newProductionSet() *productionSet {
	return &productionSet{
		lhs2Prods: map[symbol.Symbol][]*production{},
		id2Prod:   map[productionID]*production{},
	}
}

// append numbers a production and registers it. The first production appended must be the augmented
// start production. append returns false when the same production is already registered.
func (ps *productionSet) append(prod *production) bool {
	if _, ok := ps.id2Prod[prod.id]; ok {
		return false
	}

	num := productionNum(len(ps.prods))
	if prod.lhs.IsStart() != (num == productionNumStart) {
		return false
	}
	prod.num = num

	ps.lhs2Prods[prod.lhs] = append(ps.lhs2Prods[prod.lhs], prod)
	ps.id2Prod[prod.id] = prod
	ps.prods = append(ps.prods, prod)

	return true
}

func (ps *productionSet) findByID(id productionID) (*production, bool) {
	prod, ok := ps.id2Prod[id]
	return prod, ok
}

func (ps *productionSet) findByNum(num productionNum) (*production, bool) {
	if num < productionNumStart || num.Int() >= len(ps.prods) {
		return nil, false
	}
	return ps.prods[num], true
}

func (ps *productionSet) findByLHS(lhs symbol.Symbol) ([]*production, bool) {
	if lhs.IsNil() {
		return nil, false
	}

	prods, ok := ps.lhs2Prods[lhs]
	return prods, ok
}

// getAllProductions returns the productions ordered by their rule numbers.
func (ps *productionSet) getAllProductions() []*production {
	return ps.prods
}
