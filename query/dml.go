package query

import (
	"fmt"

	"github.com/k0kubun/reldb/ast"
	"github.com/k0kubun/reldb/catalog"
	"github.com/k0kubun/reldb/predicate"
	"github.com/k0kubun/reldb/resolve"
	"github.com/k0kubun/reldb/value"
)

// Insert validates and persists one tuple under a fresh surrogate key
// per §4.6's DML: INSERT rules.
func (e *Executor) Insert(stmt ast.InsertStatement) error {
	schema, ok := e.cat.GetSchema(stmt.Table)
	if !ok {
		return fmt.Errorf("no such table")
	}

	columns := stmt.Columns
	if columns == nil {
		columns = schema.ColumnOrder
	}
	if len(stmt.Values) != len(columns) {
		return fmt.Errorf("types are not matched")
	}

	seen := map[string]bool{}
	for _, c := range columns {
		if seen[c] {
			return fmt.Errorf("Column name duplicated")
		}
		seen[c] = true
	}
	for _, c := range columns {
		if _, ok := schema.Column(c); !ok {
			return fmt.Errorf("'%s' does not exist", c)
		}
	}

	given := make(map[string]value.Value, len(columns))
	for i, c := range columns {
		col, _ := schema.Column(c)
		v, err := value.CoerceForInsert(stmt.Values[i], c, col.Spec())
		if err != nil {
			return err
		}
		given[c] = v
	}

	row := make([]value.Value, len(schema.ColumnOrder))
	for i, c := range schema.ColumnOrder {
		if v, ok := given[c]; ok {
			row[i] = v
			continue
		}
		col, _ := schema.Column(c)
		if col.NotNull {
			return fmt.Errorf("'%s' is not nullable", c)
		}
		row[i] = value.Null(col.Type.Kind)
	}

	data, err := catalog.EncodeRecord(row)
	if err != nil {
		return err
	}
	return e.store.Put(stmt.Table, catalog.NewSurrogateKey(), data)
}

// Delete truncates (no WHERE) or deletes matching records individually,
// returning the number of records removed.
func (e *Executor) Delete(stmt ast.DeleteStatement) (int, error) {
	schema, ok := e.cat.GetSchema(stmt.Table)
	if !ok {
		return 0, fmt.Errorf("no such table")
	}

	if stmt.Where == nil {
		return e.store.Truncate(stmt.Table)
	}

	kvs, err := e.store.Cursor(stmt.Table)
	if err != nil {
		return 0, err
	}
	scope := resolve.NewScope()
	scope.Extend(stmt.Table, schema.ColumnOrder)

	count := 0
	for _, kv := range kvs {
		row, err := catalog.DecodeRecord(kv.Value, schema)
		if err != nil {
			return 0, err
		}
		res, err := predicate.Eval(stmt.Where, scope, row, "Where")
		if err != nil {
			return 0, err
		}
		if res != predicate.True {
			continue
		}
		if err := e.store.Delete(stmt.Table, kv.Key); err != nil {
			return 0, err
		}
		count++
	}
	return count, nil
}
