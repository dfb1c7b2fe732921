package catalog

import "github.com/k0kubun/reldb/value"

// Column is one column's schema entry (§3).
type Column struct {
	Name    string
	Type    value.Type
	NotNull bool
}

func (c Column) Spec() value.ColumnSpec {
	return value.ColumnSpec{Type: c.Type, NotNull: c.NotNull}
}

// ForeignKey is one FOREIGN KEY clause of a table's schema document.
type ForeignKey struct {
	Columns    []string
	RefTable   string
	RefColumns []string
}

// BackEdge is one referenced_by entry: a denormalized inbound foreign-key
// edge maintained by the catalog so drop checks are O(1) in referrers.
type BackEdge struct {
	ReferencedColumns  []string
	ReferencingTable   string
	ReferencingColumns []string
}

// Schema is a table's full schema document (§3).
type Schema struct {
	Name         string
	ColumnOrder  []string
	Columns      map[string]Column
	PrimaryKeys  map[string]bool
	ForeignKeys  []ForeignKey
	ReferencedBy []BackEdge
}

func newSchema(name string) *Schema {
	return &Schema{
		Name:        name,
		Columns:     map[string]Column{},
		PrimaryKeys: map[string]bool{},
	}
}

func (s *Schema) clone() *Schema {
	cp := *s
	cp.ColumnOrder = append([]string(nil), s.ColumnOrder...)
	cp.Columns = make(map[string]Column, len(s.Columns))
	for k, v := range s.Columns {
		cp.Columns[k] = v
	}
	cp.PrimaryKeys = make(map[string]bool, len(s.PrimaryKeys))
	for k, v := range s.PrimaryKeys {
		cp.PrimaryKeys[k] = v
	}
	cp.ForeignKeys = append([]ForeignKey(nil), s.ForeignKeys...)
	cp.ReferencedBy = append([]BackEdge(nil), s.ReferencedBy...)
	return &cp
}

// Column looks up a column by name, already upper-cased.
func (s *Schema) Column(name string) (Column, bool) {
	c, ok := s.Columns[name]
	return c, ok
}

// KeyRole reports the describe-table key role for a column: one of "",
// "PRI", "FOR", "PRI/FOR" (§4.2).
func (s *Schema) KeyRole(name string) string {
	isPK := s.PrimaryKeys[name]
	isFK := false
	for _, fk := range s.ForeignKeys {
		for _, c := range fk.Columns {
			if c == name {
				isFK = true
			}
		}
	}
	switch {
	case isPK && isFK:
		return "PRI/FOR"
	case isFK:
		return "FOR"
	case isPK:
		return "PRI"
	default:
		return ""
	}
}

// DescribeRow is one row of a DESC/DESCRIBE/EXPLAIN result (§4.2).
type DescribeRow struct {
	ColumnName string
	Type       string
	Nullable   string // "Y" or "N"
	KeyRole    string
}
