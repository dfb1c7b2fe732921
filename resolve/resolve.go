// Package resolve implements the column resolver (§4.4): resolving bare
// and qualified column references against an ordered list of in-scope
// tables, with the asymmetric error classification §9 calls out between
// predicate contexts (WHERE/ON/ORDER BY) and the SELECT projection list.
package resolve

import (
	"fmt"

	"github.com/k0kubun/reldb/ast"
)

// Scope is the ordered list of in-scope tables (S) plus the parallel,
// tuple-aligned list of fully-qualified column names (H) a query stage
// carries (§4.6).
type Scope struct {
	Tables []string
	Header []string // "TABLE.COLUMN", same length/order as a materialized tuple
}

// NewScope builds an empty scope ready to be extended table by table.
func NewScope() *Scope {
	return &Scope{}
}

// Extend appends a table's columns (in its declared column_order) to the
// scope, prefixed with "TABLE.".
func (s *Scope) Extend(table string, columnOrder []string) {
	s.Tables = append(s.Tables, table)
	for _, c := range columnOrder {
		s.Header = append(s.Header, table+"."+c)
	}
}

// ResolvePredicate resolves ref in a WHERE/ON/ORDER BY context, where
// clause names the clause for error text (e.g. "Where", "Join", "Order by").
func (s *Scope) ResolvePredicate(ref ast.ColumnRef, clause string) (int, error) {
	if ref.Table != "" {
		if !s.hasTable(ref.Table) {
			return 0, fmt.Errorf("%s clause trying to reference tables which are not specified", clause)
		}
		idx, ok := s.index(ref.Table, ref.Column)
		if !ok {
			return 0, fmt.Errorf("%s clause trying to reference non existing column", clause)
		}
		return idx, nil
	}

	matches := s.bareMatches(ref.Column)
	switch len(matches) {
	case 0:
		return 0, fmt.Errorf("%s clause trying to reference non existing column", clause)
	case 1:
		return matches[0], nil
	default:
		return 0, fmt.Errorf("%s clause contains ambiguous column reference", clause)
	}
}

// ResolveSelect resolves ref in a SELECT projection/column-list context,
// where "not found" and "ambiguous" are both reported as the single
// "fail to resolve" error per §9's documented asymmetry.
func (s *Scope) ResolveSelect(ref ast.ColumnRef) (int, error) {
	failErr := fmt.Errorf("fail to resolve '%s'", ref.Column)

	if ref.Table != "" {
		if !s.hasTable(ref.Table) {
			return 0, failErr
		}
		idx, ok := s.index(ref.Table, ref.Column)
		if !ok {
			return 0, failErr
		}
		return idx, nil
	}

	matches := s.bareMatches(ref.Column)
	if len(matches) != 1 {
		return 0, failErr
	}
	return matches[0], nil
}

func (s *Scope) hasTable(table string) bool {
	for _, t := range s.Tables {
		if t == table {
			return true
		}
	}
	return false
}

func (s *Scope) index(table, column string) (int, bool) {
	full := table + "." + column
	for i, h := range s.Header {
		if h == full {
			return i, true
		}
	}
	return 0, false
}

func (s *Scope) bareMatches(column string) []int {
	var out []int
	for _, t := range s.Tables {
		if idx, ok := s.index(t, column); ok {
			out = append(out, idx)
		}
	}
	return out
}
