// Package query implements the executor (C6): the SELECT pipeline of
// §4.6 (scan, cartesian join, ON-filter, WHERE-filter, ORDER BY,
// projection, header generation) plus INSERT and DELETE, built over the
// catalog (C2) for schemas and the storage adapter (C1) for tuples.
package query

import (
	"fmt"
	"sort"

	"github.com/k0kubun/reldb/ast"
	"github.com/k0kubun/reldb/catalog"
	"github.com/k0kubun/reldb/predicate"
	"github.com/k0kubun/reldb/resolve"
	"github.com/k0kubun/reldb/storage"
	"github.com/k0kubun/reldb/value"
)

// Executor runs DML statements against a catalog and its backing store.
type Executor struct {
	store *storage.Store
	cat   *catalog.Catalog
}

func New(store *storage.Store, cat *catalog.Catalog) *Executor {
	return &Executor{store: store, cat: cat}
}

// Result is a SELECT's output, ready for the formatter: a header (may be
// empty), rendered rows, and the row count for the trailer.
type Result struct {
	Header []string
	Rows   [][]string
	Count  int
}

func (e *Executor) materialize(table string) ([][]value.Value, *catalog.Schema, error) {
	schema, ok := e.cat.GetSchema(table)
	if !ok {
		return nil, nil, fmt.Errorf("'%s' does not exist", table)
	}
	kvs, err := e.store.Cursor(table)
	if err != nil {
		return nil, nil, err
	}
	rows := make([][]value.Value, 0, len(kvs))
	for _, kv := range kvs {
		row, err := catalog.DecodeRecord(kv.Value, schema)
		if err != nil {
			return nil, nil, err
		}
		rows = append(rows, row)
	}
	return rows, schema, nil
}

func cartesian(a, b [][]value.Value) [][]value.Value {
	out := make([][]value.Value, 0, len(a)*len(b))
	for _, r1 := range a {
		for _, r2 := range b {
			row := make([]value.Value, 0, len(r1)+len(r2))
			row = append(row, r1...)
			row = append(row, r2...)
			out = append(out, row)
		}
	}
	return out
}

func filterRows(rows [][]value.Value, scope *resolve.Scope, expr ast.Expr, clause string) ([][]value.Value, error) {
	if expr == nil {
		return rows, nil
	}
	out := make([][]value.Value, 0, len(rows))
	for _, row := range rows {
		res, err := predicate.Eval(expr, scope, row, clause)
		if err != nil {
			return nil, err
		}
		if res == predicate.True {
			out = append(out, row)
		}
	}
	return out, nil
}

// Select runs the full §4.6 pipeline and returns a formatter-ready result.
func (e *Executor) Select(stmt ast.SelectStatement) (*Result, error) {
	rows, schema, err := e.materialize(stmt.From[0])
	if err != nil {
		return nil, err
	}
	scope := resolve.NewScope()
	scope.Extend(stmt.From[0], schema.ColumnOrder)

	for _, t := range stmt.From[1:] {
		r, s, err := e.materialize(t)
		if err != nil {
			return nil, err
		}
		rows = cartesian(rows, r)
		scope.Extend(t, s.ColumnOrder)
	}

	for _, j := range stmt.Joins {
		r, s, err := e.materialize(j.Table)
		if err != nil {
			return nil, err
		}
		rows = cartesian(rows, r)
		scope.Extend(j.Table, s.ColumnOrder)
		rows, err = filterRows(rows, scope, j.On, "Join")
		if err != nil {
			return nil, err
		}
	}

	rows, err = filterRows(rows, scope, stmt.Where, "Where")
	if err != nil {
		return nil, err
	}

	if stmt.OrderBy != nil {
		idx, err := scope.ResolvePredicate(stmt.OrderBy.Column, "Order by")
		if err != nil {
			return nil, err
		}
		desc := stmt.OrderBy.Desc
		sort.SliceStable(rows, func(i, j int) bool {
			if desc {
				return rawLess(rows[j][idx], rows[i][idx])
			}
			return rawLess(rows[i][idx], rows[j][idx])
		})
	}

	items, err := projectionItems(stmt.Columns, scope)
	if err != nil {
		return nil, err
	}
	header := projectionHeader(items)

	outRows := make([][]string, len(rows))
	for i, row := range rows {
		cells := make([]string, len(items))
		for j, it := range items {
			cells[j] = row[it.idx].Render()
		}
		outRows[i] = cells
	}

	return &Result{Header: header, Rows: outRows, Count: len(outRows)}, nil
}

// rawLess treats null as negative infinity regardless of sort direction,
// per §4.6 step 5 / §9's codified open question; callers reverse operand
// order for DESC so nulls end up first ascending, last descending.
//
// §4.3's comparability restriction (strings support only =/!=) is a
// predicate-evaluation rule, not an ordering one: ORDER BY sorts CHAR
// columns lexically regardless, so this does not go through
// value.CompareNonNull for KindChar.
func rawLess(a, b value.Value) bool {
	if a.IsNull() && b.IsNull() {
		return false
	}
	if a.IsNull() {
		return true
	}
	if b.IsNull() {
		return false
	}
	if a.Kind() == value.KindChar {
		return a.Str() < b.Str()
	}
	return value.CompareNonNull(a, b, value.OpLt)
}

type projItem struct {
	idx        int
	table, col string
}

func projectionItems(cols []ast.ColumnRef, scope *resolve.Scope) ([]projItem, error) {
	if len(cols) == 0 {
		items := make([]projItem, len(scope.Header))
		for i, h := range scope.Header {
			table, col := splitHeader(h)
			items[i] = projItem{idx: i, table: table, col: col}
		}
		return items, nil
	}
	items := make([]projItem, len(cols))
	for i, c := range cols {
		idx, err := scope.ResolveSelect(c)
		if err != nil {
			return nil, err
		}
		table, col := splitHeader(scope.Header[idx])
		items[i] = projItem{idx: idx, table: table, col: col}
	}
	return items, nil
}

func splitHeader(h string) (table, col string) {
	for i := 0; i < len(h); i++ {
		if h[i] == '.' {
			return h[:i], h[i+1:]
		}
	}
	return "", h
}

func projectionHeader(items []projItem) []string {
	counts := map[string]int{}
	for _, it := range items {
		counts[it.col]++
	}
	header := make([]string, len(items))
	for i, it := range items {
		if counts[it.col] > 1 {
			header[i] = it.table + "." + it.col
		} else {
			header[i] = it.col
		}
	}
	return header
}
