package catalog

import (
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"fmt"

	"github.com/k0kubun/reldb/value"
)

// NewSurrogateKey returns a fresh, opaque, collision-free record key: a
// 128-bit random identifier, never exposed as a user-visible column.
func NewSurrogateKey() string {
	var b [16]byte
	if _, err := rand.Read(b[:]); err != nil {
		panic(fmt.Sprintf("reldb: failed to generate surrogate key: %v", err))
	}
	return hex.EncodeToString(b[:])
}

// wireCell is the tagged JSON encoding of one tuple slot: null cells
// encode as {"null":true}, dates as their YYYY-MM-DD text.
type wireCell struct {
	Null bool   `json:"null,omitempty"`
	Int  *int64 `json:"i,omitempty"`
	Str  *string `json:"s,omitempty"`
	Date *string `json:"d,omitempty"`
}

// EncodeRecord serializes a positional tuple aligned to schema's
// column_order.
func EncodeRecord(row []value.Value) ([]byte, error) {
	cells := make([]wireCell, len(row))
	for i, v := range row {
		if v.IsNull() {
			cells[i] = wireCell{Null: true}
			continue
		}
		switch v.Kind() {
		case value.KindInt:
			n := v.Int()
			cells[i] = wireCell{Int: &n}
		case value.KindChar:
			s := v.Str()
			cells[i] = wireCell{Str: &s}
		case value.KindDate:
			d := v.Date().String()
			cells[i] = wireCell{Date: &d}
		}
	}
	return json.Marshal(cells)
}

// DecodeRecord deserializes a tuple, re-typing each slot from schema's
// column_order/types (dates are re-parsed into typed dates on read).
func DecodeRecord(data []byte, schema *Schema) ([]value.Value, error) {
	var cells []wireCell
	if err := json.Unmarshal(data, &cells); err != nil {
		return nil, err
	}
	if len(cells) != len(schema.ColumnOrder) {
		return nil, fmt.Errorf("record has %d cells, schema %s has %d columns", len(cells), schema.Name, len(schema.ColumnOrder))
	}
	out := make([]value.Value, len(cells))
	for i, name := range schema.ColumnOrder {
		col := schema.Columns[name]
		c := cells[i]
		switch {
		case c.Null:
			out[i] = value.Null(col.Type.Kind)
		case c.Int != nil:
			out[i] = value.NewInt(*c.Int)
		case c.Str != nil:
			out[i] = value.NewChar(*c.Str)
		case c.Date != nil:
			d, err := value.ParseDate(*c.Date)
			if err != nil {
				return nil, err
			}
			out[i] = value.NewDate(d)
		}
	}
	return out, nil
}
