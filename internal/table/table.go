// Copyright (c) 2025 ToeiRei
// Loadmaster - batch order data loader
// This source code is licensed under the MIT license found in the LICENSE file.

// Package table implements the in-memory tabular structure the loaders
// consume: an ordered set of named columns plus rows of untyped cells.
// Upstream data preparation hands these over already cleaned; the only
// operations needed here are projection and deduplication.
package table

import (
	"fmt"
	"strings"
)

// Table holds rows under an ordered list of column names. Rows always have
// exactly one cell per column.
type Table struct {
	Columns []string
	Rows    [][]any
}

// New returns an empty table with the given column order.
func New(columns ...string) *Table {
	return &Table{Columns: append([]string(nil), columns...)}
}

// Len returns the number of rows.
func (t *Table) Len() int {
	return len(t.Rows)
}

// ColumnIndex returns the position of a column, or -1 when absent.
func (t *Table) ColumnIndex(name string) int {
	for i, c := range t.Columns {
		if c == name {
			return i
		}
	}
	return -1
}

// AppendRow adds one row. The cell count must match the column count.
func (t *Table) AppendRow(cells ...any) error {
	if len(cells) != len(t.Columns) {
		return fmt.Errorf("row has %d cells, table has %d columns", len(cells), len(t.Columns))
	}
	t.Rows = append(t.Rows, cells)
	return nil
}

// MustAppendRow is AppendRow for fixture construction; it panics on arity
// mismatch.
func (t *Table) MustAppendRow(cells ...any) {
	if err := t.AppendRow(cells...); err != nil {
		panic(err)
	}
}

// Select projects the table onto the given columns, in the given order.
// It returns an error when any requested column is missing.
func (t *Table) Select(columns ...string) (*Table, error) {
	idx := make([]int, len(columns))
	for i, name := range columns {
		j := t.ColumnIndex(name)
		if j < 0 {
			return nil, fmt.Errorf("missing column %q", name)
		}
		idx[i] = j
	}
	out := New(columns...)
	for _, row := range t.Rows {
		cells := make([]any, len(idx))
		for i, j := range idx {
			cells[i] = row[j]
		}
		out.Rows = append(out.Rows, cells)
	}
	return out, nil
}

// DedupeBy removes rows whose value in the given column was already seen,
// keeping the first occurrence in input order. Rows with differing values in
// other columns still collapse to the first row for their key.
func (t *Table) DedupeBy(column string) (*Table, error) {
	j := t.ColumnIndex(column)
	if j < 0 {
		return nil, fmt.Errorf("missing column %q", column)
	}
	out := New(t.Columns...)
	seen := make(map[string]struct{}, len(t.Rows))
	for _, row := range t.Rows {
		key := cellKey(row[j])
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out.Rows = append(out.Rows, row)
	}
	return out, nil
}

// Dedupe removes exact-duplicate rows (every cell equal), keeping the first
// occurrence in input order.
func (t *Table) Dedupe() *Table {
	out := New(t.Columns...)
	seen := make(map[string]struct{}, len(t.Rows))
	for _, row := range t.Rows {
		key := rowKey(row)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out.Rows = append(out.Rows, row)
	}
	return out
}

// cellKey renders a single cell for map-key comparison.
func cellKey(v any) string {
	return fmt.Sprintf("%v", v)
}

// rowKey joins all cells with an unprintable separator so adjacent cells
// cannot run together.
func rowKey(row []any) string {
	parts := make([]string, len(row))
	for i, v := range row {
		parts[i] = cellKey(v)
	}
	return strings.Join(parts, "\x1f")
}
