// Package catalog owns per-table schema documents and enforces the DDL
// invariants of §4.2: primary keys, foreign keys, and the referenced_by
// back edges that make drop-checks O(1) in referrers.
package catalog

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/k0kubun/reldb/ast"
	"github.com/k0kubun/reldb/internal/debugdump"
	"github.com/k0kubun/reldb/storage"
	"github.com/k0kubun/reldb/util"
	"github.com/k0kubun/reldb/value"
)

// Catalog is the authoritative in-memory registry of table schemas,
// backed by the storage adapter's metadata sub-table as the durable
// source of truth on restart.
type Catalog struct {
	store *storage.Store

	mu      sync.Mutex
	schemas map[string]*Schema
}

// Open enumerates the metadata sub-table and opens every known table's
// sub-table, as §3's "Lifecycle" and §4.2's startup requires.
func Open(store *storage.Store) (*Catalog, error) {
	c := &Catalog{store: store, schemas: map[string]*Schema{}}

	kvs, err := store.Cursor(storage.MetadataTable)
	if err != nil {
		return nil, fmt.Errorf("enumerate metadata: %w", err)
	}
	for _, kv := range kvs {
		schema, err := decodeSchema(kv.Value)
		if err != nil {
			return nil, fmt.Errorf("decode schema for %q: %w", kv.Key, err)
		}
		if err := store.OpenTable(kv.Key); err != nil {
			return nil, fmt.Errorf("open table %q: %w", kv.Key, err)
		}
		c.schemas[kv.Key] = schema
	}
	slog.Debug("catalog opened", "tables", len(c.schemas))
	return c, nil
}

// Exists reports whether name (already upper-cased) has a schema.
func (c *Catalog) Exists(name string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.schemas[name]
	return ok
}

// GetSchema returns the live schema document for name.
func (c *Catalog) GetSchema(name string) (*Schema, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	s, ok := c.schemas[name]
	return s, ok
}

// ListTables returns every known table name in a deterministic order.
func (c *Catalog) ListTables() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]string, 0, len(c.schemas))
	for name := range util.CanonicalMapIter(c.schemas) {
		out = append(out, name)
	}
	return out
}

// Describe returns the describe-table rows for name (§4.2).
func (c *Catalog) Describe(name string) ([]DescribeRow, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	s, ok := c.schemas[name]
	if !ok {
		return nil, fmt.Errorf("no such table")
	}
	rows := make([]DescribeRow, 0, len(s.ColumnOrder))
	for _, colName := range s.ColumnOrder {
		col := s.Columns[colName]
		nullable := "Y"
		if col.NotNull {
			nullable = "N"
		}
		rows = append(rows, DescribeRow{
			ColumnName: colName,
			Type:       col.Type.String(),
			Nullable:   nullable,
			KeyRole:    s.KeyRole(colName),
		})
	}
	return rows, nil
}

// CreateTable runs §4.2's DDL validation sequence and, on success,
// persists the schema, opens the sub-table, and updates back edges on
// every referenced table.
func (c *Catalog) CreateTable(stmt ast.CreateTable) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	name := stmt.Table

	// 1. Table existence.
	if _, exists := c.schemas[name]; exists {
		return fmt.Errorf("table with the same name already exists")
	}

	// 2. Column definitions, in textual order.
	seen := map[string]bool{}
	for _, col := range stmt.Columns {
		if col.Type.Kind == value.KindChar && col.Type.Len < 1 {
			return fmt.Errorf("char length should be over 0")
		}
		if seen[col.Name] {
			return fmt.Errorf("column definition is duplicated")
		}
		seen[col.Name] = true
	}

	schema := newSchema(name)
	for _, col := range stmt.Columns {
		schema.ColumnOrder = append(schema.ColumnOrder, col.Name)
		schema.Columns[col.Name] = Column{Name: col.Name, Type: col.Type, NotNull: col.NotNull}
	}

	// 3. Primary key.
	if stmt.PrimaryKey != nil {
		for _, pkCol := range stmt.PrimaryKey.Columns {
			col, ok := schema.Columns[pkCol]
			if !ok {
				return fmt.Errorf("cannot define non-existing column '%s' as primary key", pkCol)
			}
			col.NotNull = true
			schema.Columns[pkCol] = col
			schema.PrimaryKeys[pkCol] = true
		}
	}

	// 4. Foreign keys, in textual order.
	var newBackEdges []struct {
		targetTable string
		edge        BackEdge
	}
	for _, fk := range stmt.ForeignKeys {
		if len(fk.Columns) != len(fk.RefColumns) {
			return fmt.Errorf("Number of referencing columns must match referenced columns")
		}
		for _, fkCol := range fk.Columns {
			if _, ok := schema.Columns[fkCol]; !ok {
				return fmt.Errorf("cannot define non-existing column '%s' as foreign key", fkCol)
			}
		}

		// Resolve the referenced table's metadata: the in-progress schema
		// itself for a self-reference (not yet persisted), else the catalog.
		var refSchema *Schema
		selfRef := fk.RefTable == name
		if selfRef {
			refSchema = schema
		} else {
			s, ok := c.schemas[fk.RefTable]
			if !ok {
				return fmt.Errorf("foreign key references non existing table or column")
			}
			refSchema = s
		}

		if len(fk.RefColumns) != len(refSchema.PrimaryKeys) {
			return fmt.Errorf("foreign key references non primary key column")
		}
		for i, refCol := range fk.RefColumns {
			refColSchema, ok := refSchema.Columns[refCol]
			if !ok {
				return fmt.Errorf("foreign key references non existing table or column")
			}
			if !refSchema.PrimaryKeys[refCol] {
				return fmt.Errorf("foreign key references non primary key column")
			}
			fkColSchema := schema.Columns[fk.Columns[i]]
			if fkColSchema.Type != refColSchema.Type {
				return fmt.Errorf("foreign key references wrong type")
			}
		}

		schema.ForeignKeys = append(schema.ForeignKeys, ForeignKey{
			Columns: fk.Columns, RefTable: fk.RefTable, RefColumns: fk.RefColumns,
		})

		edge := BackEdge{ReferencedColumns: fk.RefColumns, ReferencingTable: name, ReferencingColumns: fk.Columns}
		if selfRef {
			schema.ReferencedBy = append(schema.ReferencedBy, edge)
		} else {
			newBackEdges = append(newBackEdges, struct {
				targetTable string
				edge        BackEdge
			}{fk.RefTable, edge})
		}
	}

	// All validations passed: persist, then mutate referenced tables.
	if err := c.persist(schema); err != nil {
		return err
	}
	if err := c.store.OpenTable(name); err != nil {
		return err
	}
	for _, nb := range newBackEdges {
		target := c.schemas[nb.targetTable].clone()
		target.ReferencedBy = append(target.ReferencedBy, nb.edge)
		if err := c.persist(target); err != nil {
			return err
		}
		c.schemas[nb.targetTable] = target
	}
	c.schemas[name] = schema
	slog.Debug("table created", "table", name)
	debugdump.Dump("schema", schema)
	return nil
}

// DropTable validates droppability, removes this table's FK back edges
// from every referenced table, then deletes the sub-table and metadata.
func (c *Catalog) DropTable(name string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	schema, ok := c.schemas[name]
	if !ok {
		return fmt.Errorf("no such table")
	}

	for _, be := range schema.ReferencedBy {
		if be.ReferencingTable != name {
			return fmt.Errorf("'%s' is referenced by another table", name)
		}
	}

	for _, fk := range schema.ForeignKeys {
		if fk.RefTable == name {
			continue // self-reference: the table (and its back edge) is going away together
		}
		target := c.schemas[fk.RefTable].clone()
		target.ReferencedBy = removeBackEdge(target.ReferencedBy, name, fk.Columns)
		if err := c.persist(target); err != nil {
			return err
		}
		c.schemas[fk.RefTable] = target
	}

	if err := c.store.DropTable(name); err != nil {
		return err
	}
	if err := c.store.Delete(storage.MetadataTable, name); err != nil {
		return err
	}
	delete(c.schemas, name)
	slog.Debug("table dropped", "table", name)
	return nil
}

func removeBackEdge(edges []BackEdge, referencingTable string, columns []string) []BackEdge {
	out := edges[:0:0]
	for _, e := range edges {
		if e.ReferencingTable == referencingTable && sameColumns(e.ReferencingColumns, columns) {
			continue
		}
		out = append(out, e)
	}
	return out
}

func sameColumns(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func (c *Catalog) persist(s *Schema) error {
	data, err := encodeSchema(s)
	if err != nil {
		return err
	}
	return c.store.Put(storage.MetadataTable, s.Name, data)
}
