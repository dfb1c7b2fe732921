package catalog

import (
	"encoding/json"
	"fmt"

	"github.com/k0kubun/reldb/value"
)

// wireSchema is the self-describing JSON encoding of a Schema document
// persisted to the metadata sub-table (§4.3's "storage encoding").
type wireSchema struct {
	Name        string                `json:"name"`
	ColumnOrder []string              `json:"column_order"`
	Columns     map[string]wireColumn `json:"columns"`
	PrimaryKeys []string              `json:"primary_keys"`
	ForeignKeys []wireForeignKey      `json:"foreign_keys"`
	ReferencedBy []wireBackEdge       `json:"referenced_by"`
}

type wireColumn struct {
	Kind    string `json:"data_type"`
	Len     int    `json:"len,omitempty"`
	NotNull bool   `json:"not_null"`
}

type wireForeignKey struct {
	Columns    []string `json:"fk_columns"`
	RefTable   string   `json:"fk_ref_table"`
	RefColumns []string `json:"fk_ref_columns"`
}

type wireBackEdge struct {
	ReferencedColumns  []string `json:"referenced_columns"`
	ReferencingTable   string   `json:"referencing_table"`
	ReferencingColumns []string `json:"referencing_column"`
}

func kindName(k value.Kind) string {
	switch k {
	case value.KindInt:
		return "INT"
	case value.KindChar:
		return "CHAR"
	case value.KindDate:
		return "DATE"
	}
	return ""
}

func parseKind(s string) (value.Kind, error) {
	switch s {
	case "INT":
		return value.KindInt, nil
	case "CHAR":
		return value.KindChar, nil
	case "DATE":
		return value.KindDate, nil
	}
	return 0, fmt.Errorf("unknown stored data type %q", s)
}

func encodeSchema(s *Schema) ([]byte, error) {
	w := wireSchema{
		Name:        s.Name,
		ColumnOrder: s.ColumnOrder,
	}
	w.Columns = make(map[string]wireColumn, len(s.Columns))
	for name, c := range s.Columns {
		w.Columns[name] = wireColumn{Kind: kindName(c.Type.Kind), Len: c.Type.Len, NotNull: c.NotNull}
	}
	for name := range s.PrimaryKeys {
		w.PrimaryKeys = append(w.PrimaryKeys, name)
	}
	for _, fk := range s.ForeignKeys {
		w.ForeignKeys = append(w.ForeignKeys, wireForeignKey{
			Columns: fk.Columns, RefTable: fk.RefTable, RefColumns: fk.RefColumns,
		})
	}
	for _, be := range s.ReferencedBy {
		w.ReferencedBy = append(w.ReferencedBy, wireBackEdge{
			ReferencedColumns: be.ReferencedColumns, ReferencingTable: be.ReferencingTable,
			ReferencingColumns: be.ReferencingColumns,
		})
	}
	return json.Marshal(w)
}

func decodeSchema(data []byte) (*Schema, error) {
	var w wireSchema
	if err := json.Unmarshal(data, &w); err != nil {
		return nil, err
	}
	s := newSchema(w.Name)
	s.ColumnOrder = w.ColumnOrder
	for name, wc := range w.Columns {
		kind, err := parseKind(wc.Kind)
		if err != nil {
			return nil, err
		}
		s.Columns[name] = Column{Name: name, Type: value.Type{Kind: kind, Len: wc.Len}, NotNull: wc.NotNull}
	}
	for _, name := range w.PrimaryKeys {
		s.PrimaryKeys[name] = true
	}
	for _, fk := range w.ForeignKeys {
		s.ForeignKeys = append(s.ForeignKeys, ForeignKey{
			Columns: fk.Columns, RefTable: fk.RefTable, RefColumns: fk.RefColumns,
		})
	}
	for _, be := range w.ReferencedBy {
		s.ReferencedBy = append(s.ReferencedBy, BackEdge{
			ReferencedColumns: be.ReferencedColumns, ReferencingTable: be.ReferencingTable,
			ReferencingColumns: be.ReferencingColumns,
		})
	}
	return s, nil
}
