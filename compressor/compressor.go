// Package compressor packs the sparse integer tables the parsing engines run on.
package compressor

import (
	"encoding/binary"
	"fmt"
	"sort"
)

// Matrix is an uncompressed table. Every cell starts out holding the empty value.
type Matrix struct {
	cells    []int
	rowCount int
	colCount int
	empty    int
}

func NewMatrix(rowCount, colCount, empty int) (*Matrix, error) {
	if rowCount <= 0 || colCount <= 0 {
		return nil, fmt.Errorf("a matrix needs at least one row and one column; rows: %v, columns: %v", rowCount, colCount)
	}
	cells := make([]int, rowCount*colCount)
	if empty != 0 {
		for i := range cells {
			cells[i] = empty
		}
	}
	return &Matrix{
		cells:    cells,
		rowCount: rowCount,
		colCount: colCount,
		empty:    empty,
	}, nil
}

func (m *Matrix) Set(row, col, v int) error {
	if !inRange(row, col, m.rowCount, m.colCount) {
		return fmt.Errorf("indexes are out of range: [%v, %v]", row, col)
	}
	m.cells[row*m.colCount+col] = v
	return nil
}

func (m *Matrix) Get(row, col int) (int, error) {
	if !inRange(row, col, m.rowCount, m.colCount) {
		return m.empty, fmt.Errorf("indexes are out of range: [%v, %v]", row, col)
	}
	return m.cells[row*m.colCount+col], nil
}

func (m *Matrix) Size() (int, int) {
	return m.rowCount, m.colCount
}

func (m *Matrix) row(r int) []int {
	return m.cells[r*m.colCount : (r+1)*m.colCount]
}

func inRange(row, col, rowCount, colCount int) bool {
	return row >= 0 && row < rowCount && col >= 0 && col < colCount
}

// Table is a compressed matrix. Equal rows collapse into one distinct row, and the distinct rows are
// overlaid on a single slot array by row displacement. A slot records the distinct row owning it, so a
// lookup landing on a slot of another row reads the empty value.
type Table struct {
	rowCount int
	colCount int
	empty    int

	// rowRefs maps a row of the matrix to its distinct row, and offsets maps a distinct row to the slot
	// its first column lands on.
	rowRefs []int
	offsets []int

	slots  []int
	owners []int
}

// Compress packs a matrix. The matrix is left untouched.
func Compress(m *Matrix) *Table {
	refs, distinct := dedupRows(m)
	offsets, slots, owners := displace(distinct, m.empty)
	return &Table{
		rowCount: m.rowCount,
		colCount: m.colCount,
		empty:    m.empty,
		rowRefs:  refs,
		offsets:  offsets,
		slots:    slots,
		owners:   owners,
	}
}

func (t *Table) Lookup(row, col int) (int, error) {
	if !inRange(row, col, t.rowCount, t.colCount) {
		return t.empty, fmt.Errorf("indexes are out of range: [%v, %v]", row, col)
	}
	d := t.rowRefs[row]
	i := t.offsets[d] + col
	if i >= len(t.owners) || t.owners[i] != d {
		return t.empty, nil
	}
	return t.slots[i], nil
}

// Size returns the size of the matrix the table was compressed from.
func (t *Table) Size() (int, int) {
	return t.rowCount, t.colCount
}

func (t *Table) DistinctRowCount() int {
	return len(t.offsets)
}

// SlotCount returns the number of cells the table stores.
func (t *Table) SlotCount() int {
	return len(t.slots)
}

func dedupRows(m *Matrix) ([]int, [][]int) {
	refs := make([]int, m.rowCount)
	index := map[string]int{}
	var distinct [][]int
	for r := 0; r < m.rowCount; r++ {
		row := m.row(r)
		key := rowKey(row)
		d, ok := index[key]
		if !ok {
			d = len(distinct)
			index[key] = d
			distinct = append(distinct, append([]int(nil), row...))
		}
		refs[r] = d
	}
	return refs, distinct
}

// rowKey encodes a row as signed varints; shifts are stored as negative numbers.
func rowKey(row []int) string {
	buf := make([]byte, 0, len(row)*binary.MaxVarintLen64)
	for _, v := range row {
		buf = binary.AppendVarint(buf, int64(v))
	}
	return string(buf)
}

const noOwner = -1

// displace places denser rows first, each at the lowest offset where all of its non-empty cells land on
// free slots. A row with no non-empty cell owns no slot and keeps offset 0.
func displace(rows [][]int, empty int) ([]int, []int, []int) {
	type pendingRow struct {
		num  int
		cols []int
	}
	pending := make([]pendingRow, len(rows))
	for i, row := range rows {
		pending[i].num = i
		for col, v := range row {
			if v != empty {
				pending[i].cols = append(pending[i].cols, col)
			}
		}
	}
	sort.SliceStable(pending, func(i, j int) bool {
		return len(pending[i].cols) > len(pending[j].cols)
	})

	offsets := make([]int, len(rows))
	var slots, owners []int
	for _, p := range pending {
		if len(p.cols) == 0 {
			continue
		}
		off := 0
		for !fits(owners, p.cols, off) {
			off++
		}
		for _, col := range p.cols {
			for off+col >= len(slots) {
				slots = append(slots, empty)
				owners = append(owners, noOwner)
			}
			slots[off+col] = rows[p.num][col]
			owners[off+col] = p.num
		}
		offsets[p.num] = off
	}
	return offsets, slots, owners
}

func fits(owners []int, cols []int, off int) bool {
	for _, col := range cols {
		if off+col < len(owners) && owners[off+col] != noOwner {
			return false
		}
	}
	return true
}
