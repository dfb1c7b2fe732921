package resolve

import (
	"testing"

	"github.com/k0kubun/reldb/ast"
)

func scopeAB() *Scope {
	s := NewScope()
	s.Extend("A", []string{"ID", "N"})
	s.Extend("B", []string{"ID", "X"})
	return s
}

func TestResolvePredicateQualified(t *testing.T) {
	s := scopeAB()
	idx, err := s.ResolvePredicate(ast.ColumnRef{Table: "A", Column: "N"}, "Where")
	if err != nil || idx != 1 {
		t.Fatalf("got (%d, %v)", idx, err)
	}
}

func TestResolvePredicateTableNotInScope(t *testing.T) {
	s := scopeAB()
	_, err := s.ResolvePredicate(ast.ColumnRef{Table: "C", Column: "N"}, "Where")
	if err == nil || err.Error() != "Where clause trying to reference tables which are not specified" {
		t.Fatalf("got %v", err)
	}
}

func TestResolvePredicateAmbiguous(t *testing.T) {
	s := NewScope()
	s.Extend("A", []string{"ID"})
	s.Extend("B", []string{"ID"})
	_, err := s.ResolvePredicate(ast.ColumnRef{Column: "ID"}, "Where")
	if err == nil || err.Error() != "Where clause contains ambiguous column reference" {
		t.Fatalf("got %v", err)
	}
}

func TestResolvePredicateNotFound(t *testing.T) {
	s := scopeAB()
	_, err := s.ResolvePredicate(ast.ColumnRef{Column: "Z"}, "Join")
	if err == nil || err.Error() != "Join clause trying to reference non existing column" {
		t.Fatalf("got %v", err)
	}
}

func TestResolveSelectCollapsesErrorKinds(t *testing.T) {
	s := NewScope()
	s.Extend("A", []string{"ID"})
	s.Extend("B", []string{"ID"})

	_, err := s.ResolveSelect(ast.ColumnRef{Column: "ID"})
	if err == nil || err.Error() != "fail to resolve 'ID'" {
		t.Fatalf("ambiguous: got %v", err)
	}

	_, err = s.ResolveSelect(ast.ColumnRef{Column: "ZZZ"})
	if err == nil || err.Error() != "fail to resolve 'ZZZ'" {
		t.Fatalf("not found: got %v", err)
	}
}

func TestResolveSelectQualified(t *testing.T) {
	s := scopeAB()
	idx, err := s.ResolveSelect(ast.ColumnRef{Table: "B", Column: "X"})
	if err != nil || idx != 3 {
		t.Fatalf("got (%d, %v)", idx, err)
	}
}
