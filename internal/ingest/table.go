package ingest

import (
	"fmt"
	"math"
)

// Meta describes how a table was read from its source.
type Meta struct {
	Delimiter    rune
	HeaderOffset int
	Encoding     string // "utf-8" or "iso-8859-1"
	Degraded     bool   // content was not valid UTF-8 and was read as ISO-8859-1
	Dropped      int    // data rows discarded during projection
}

// Table is an immutable, fixed-schema measurement table. Rows keep file order
// and cells are float64 with NaN marking a missing value.
//
// Slices and groups share row storage with the table they came from.
type Table struct {
	columns []string
	index   map[string]int
	rows    [][]float64
	meta    Meta
}

// Column is a resolved handle to one column of a Table.
type Column struct {
	name string
	pos  int
}

// Name returns the canonical column name.
func (c Column) Name() string { return c.name }

// NewTable builds a table from canonical column names and rows. Each row must
// have exactly len(columns) cells.
func NewTable(columns []string, rows [][]float64) (*Table, error) {
	index := make(map[string]int, len(columns))
	for i, name := range columns {
		if _, dup := index[name]; dup {
			return nil, fmt.Errorf("duplicate column %q", name)
		}
		index[name] = i
	}
	for i, row := range rows {
		if len(row) != len(columns) {
			return nil, fmt.Errorf("row %d has %d cells, want %d", i, len(row), len(columns))
		}
	}
	return &Table{columns: append([]string(nil), columns...), index: index, rows: rows}, nil
}

func (t *Table) derive(rows [][]float64) *Table {
	return &Table{columns: t.columns, index: t.index, rows: rows, meta: t.meta}
}

// Columns returns the column names in order.
func (t *Table) Columns() []string {
	return append([]string(nil), t.columns...)
}

// Len returns the number of rows.
func (t *Table) Len() int { return len(t.rows) }

// Meta returns read metadata.
func (t *Table) Meta() Meta { return t.meta }

// Col resolves a column by name.
func (t *Table) Col(name string) (Column, error) {
	pos, ok := t.index[name]
	if !ok {
		return Column{}, &SchemaError{Position: -1, Columns: len(t.columns), Column: name}
	}
	return Column{name: name, pos: pos}, nil
}

// At returns the cell at row i of column c.
func (t *Table) At(i int, c Column) float64 {
	return t.rows[i][c.pos]
}

// Values returns a copy of column c.
func (t *Table) Values(c Column) []float64 {
	out := make([]float64, len(t.rows))
	for i, row := range t.rows {
		out[i] = row[c.pos]
	}
	return out
}

// Row returns a copy of row i.
func (t *Table) Row(i int) []float64 {
	return append([]float64(nil), t.rows[i]...)
}

// Slice returns the contiguous rows [from, to).
func (t *Table) Slice(from, to int) *Table {
	return t.derive(t.rows[from:to:to])
}

func (t *Table) pick(idx []int) *Table {
	rows := make([][]float64, len(idx))
	for i, j := range idx {
		rows[i] = t.rows[j]
	}
	return t.derive(rows)
}

// Select returns a table restricted to the named columns, in the given order.
func (t *Table) Select(names ...string) (*Table, error) {
	cols := make([]Column, len(names))
	for i, name := range names {
		c, err := t.Col(name)
		if err != nil {
			return nil, err
		}
		cols[i] = c
	}
	rows := make([][]float64, len(t.rows))
	for i, row := range t.rows {
		out := make([]float64, len(cols))
		for j, c := range cols {
			out[j] = row[c.pos]
		}
		rows[i] = out
	}
	sel, err := NewTable(names, rows)
	if err != nil {
		return nil, err
	}
	sel.meta = t.meta
	return sel, nil
}

// Quantize returns a copy of the table with column name replaced by its
// ceiling to the next multiple of step.
func (t *Table) Quantize(name string, step float64) (*Table, error) {
	c, err := t.Col(name)
	if err != nil {
		return nil, err
	}
	rows := make([][]float64, len(t.rows))
	for i, row := range t.rows {
		out := append([]float64(nil), row...)
		out[c.pos] = QuantizeCeiling(out[c.pos], step)
		rows[i] = out
	}
	return t.derive(rows), nil
}

// DropIncomplete returns the rows that have no missing cell.
func (t *Table) DropIncomplete() *Table {
	keep := make([][]float64, 0, len(t.rows))
	for _, row := range t.rows {
		if complete(row) {
			keep = append(keep, row)
		}
	}
	out := t.derive(keep)
	out.meta.Dropped += len(t.rows) - len(keep)
	return out
}

func complete(row []float64) bool {
	for _, v := range row {
		if math.IsNaN(v) {
			return false
		}
	}
	return true
}
