//-------------------------------------------------------------------------
//
// martgen - Dimensional Warehouse Builder
//
// Copyright (c) 2025 - 2026, Edgewise Analytics
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

package table

import (
	"fmt"
	"sort"
)

// Table is an ordered set of named columns over rows of typed values.
// Column order is significant and preserved through every operation.
//
// Methods that take a column name panic when the column does not exist;
// source schemas are validated at extraction time so a missing column here
// is a programming error, not a data error.
type Table struct {
	cols  []string
	index map[string]int
	rows  [][]Value
}

// New creates an empty table with the given columns.
func New(cols ...string) *Table {
	t := &Table{
		cols:  append([]string(nil), cols...),
		index: make(map[string]int, len(cols)),
	}
	for i, c := range cols {
		if _, dup := t.index[c]; dup {
			panic(fmt.Sprintf("table: duplicate column %q", c))
		}
		t.index[c] = i
	}
	return t
}

// Columns returns a copy of the column names in order.
func (t *Table) Columns() []string {
	return append([]string(nil), t.cols...)
}

// NumRows returns the number of rows.
func (t *Table) NumRows() int {
	return len(t.rows)
}

// HasColumn reports whether the table has the named column.
func (t *Table) HasColumn(name string) bool {
	_, ok := t.index[name]
	return ok
}

func (t *Table) col(name string) int {
	i, ok := t.index[name]
	if !ok {
		panic(fmt.Sprintf("table: unknown column %q", name))
	}
	return i
}

// AppendRow adds a row. The number of values must match the column count.
func (t *Table) AppendRow(vals ...Value) {
	if len(vals) != len(t.cols) {
		panic(fmt.Sprintf("table: row has %d values, table has %d columns", len(vals), len(t.cols)))
	}
	t.rows = append(t.rows, append([]Value(nil), vals...))
}

// Value returns the cell at the given row and column.
func (t *Table) Value(row int, name string) Value {
	return t.rows[row][t.col(name)]
}

// Set replaces the cell at the given row and column.
func (t *Table) Set(row int, name string, v Value) {
	t.rows[row][t.col(name)] = v
}

// Column returns a copy of the named column's values in row order.
func (t *Table) Column(name string) []Value {
	i := t.col(name)
	out := make([]Value, len(t.rows))
	for r, row := range t.rows {
		out[r] = row[i]
	}
	return out
}

// SetColumn replaces the named column's values, or appends a new column at
// the end if the name is not present. The value count must match the row
// count.
func (t *Table) SetColumn(name string, vals []Value) {
	if len(vals) != len(t.rows) {
		panic(fmt.Sprintf("table: column %q has %d values, table has %d rows", name, len(vals), len(t.rows)))
	}
	i, ok := t.index[name]
	if !ok {
		i = len(t.cols)
		t.cols = append(t.cols, name)
		t.index[name] = i
		for r := range t.rows {
			t.rows[r] = append(t.rows[r], Null())
		}
	}
	for r := range t.rows {
		t.rows[r][i] = vals[r]
	}
}

// Clone returns a deep copy of the table. Builders clone their inputs
// before transforming so sources are never mutated.
func (t *Table) Clone() *Table {
	out := New(t.cols...)
	out.rows = make([][]Value, len(t.rows))
	for r, row := range t.rows {
		out.rows[r] = append([]Value(nil), row...)
	}
	return out
}

// Rename changes a column's name in place, keeping its position.
func (t *Table) Rename(from, to string) {
	i := t.col(from)
	if _, dup := t.index[to]; dup && to != from {
		panic(fmt.Sprintf("table: rename to existing column %q", to))
	}
	delete(t.index, from)
	t.cols[i] = to
	t.index[to] = i
}

// Select returns a new table containing only the given columns, in the
// given order.
func (t *Table) Select(cols ...string) *Table {
	idx := make([]int, len(cols))
	for i, c := range cols {
		idx[i] = t.col(c)
	}
	out := New(cols...)
	out.rows = make([][]Value, len(t.rows))
	for r, row := range t.rows {
		sel := make([]Value, len(idx))
		for i, j := range idx {
			sel[i] = row[j]
		}
		out.rows[r] = sel
	}
	return out
}

// SortBy stably sorts the rows ascending by the named column. Stability
// makes surrogate key assignment deterministic for equal keys.
func (t *Table) SortBy(name string) {
	i := t.col(name)
	sort.SliceStable(t.rows, func(a, b int) bool {
		return t.rows[a][i].Compare(t.rows[b][i]) < 0
	})
}

// Alias names a column to take from the right side of a join, avoiding any
// collision with left-side names. The aliasing is declared up front so the
// result schema never depends on join internals.
type Alias struct {
	From string
	As   string
}

// LeftJoin joins the table against right on the given key columns, taking
// only the aliased columns from the right side. Every left row is
// preserved: unmatched rows receive nulls for the taken columns, and a left
// row with several right matches produces one output row per match, in
// right-side order. Join keys are compared in their canonical text form.
func (t *Table) LeftJoin(right *Table, leftKey, rightKey string, take []Alias) *Table {
	outCols := t.Columns()
	for _, a := range take {
		outCols = append(outCols, a.As)
	}
	out := New(outCols...)

	rightIdx := make([]int, len(take))
	for i, a := range take {
		rightIdx[i] = right.col(a.From)
	}

	rk := right.col(rightKey)
	matches := make(map[string][]int, len(right.rows))
	for r, row := range right.rows {
		if key, ok := row[rk].Key(); ok {
			matches[key] = append(matches[key], r)
		}
	}

	lk := t.col(leftKey)
	for _, row := range t.rows {
		key, ok := row[lk].Key()
		var hits []int
		if ok {
			hits = matches[key]
		}
		if len(hits) == 0 {
			joined := append(append([]Value(nil), row...), make([]Value, len(take))...)
			out.rows = append(out.rows, joined)
			continue
		}
		for _, r := range hits {
			joined := append([]Value(nil), row...)
			for _, j := range rightIdx {
				joined = append(joined, right.rows[r][j])
			}
			out.rows = append(out.rows, joined)
		}
	}
	return out
}
