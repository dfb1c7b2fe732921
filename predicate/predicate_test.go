package predicate

import (
	"strconv"
	"testing"

	"github.com/k0kubun/reldb/ast"
	"github.com/k0kubun/reldb/resolve"
	"github.com/k0kubun/reldb/value"
)

func TestAndTruthTable(t *testing.T) {
	vals := []Tri{False, Unknown, True}
	want := [3][3]Tri{
		{False, False, False},
		{False, Unknown, Unknown},
		{False, Unknown, True},
	}
	for i, a := range vals {
		for j, b := range vals {
			if got := and(a, b); got != want[i][j] {
				t.Fatalf("and(%v,%v) = %v, want %v", a, b, got, want[i][j])
			}
		}
	}
}

func TestOrTruthTable(t *testing.T) {
	vals := []Tri{False, Unknown, True}
	want := [3][3]Tri{
		{False, Unknown, True},
		{Unknown, Unknown, True},
		{True, True, True},
	}
	for i, a := range vals {
		for j, b := range vals {
			if got := or(a, b); got != want[i][j] {
				t.Fatalf("or(%v,%v) = %v, want %v", a, b, got, want[i][j])
			}
		}
	}
}

func TestMonotoneAndOr(t *testing.T) {
	// false < unknown < true; AND/OR must be monotone in each argument.
	order := map[Tri]int{False: 0, Unknown: 1, True: 2}
	vals := []Tri{False, Unknown, True}
	for _, a := range vals {
		for i := 0; i < len(vals)-1; i++ {
			lo, hi := vals[i], vals[i+1]
			if order[and(a, lo)] > order[and(a, hi)] {
				t.Fatalf("AND not monotone: and(%v,%v) > and(%v,%v)", a, lo, a, hi)
			}
			if order[or(a, lo)] > order[or(a, hi)] {
				t.Fatalf("OR not monotone: or(%v,%v) > or(%v,%v)", a, lo, a, hi)
			}
		}
	}
}

func scope1() *resolve.Scope {
	s := resolve.NewScope()
	s.Extend("A", []string{"ID", "N"})
	return s
}

func intLit(n int64) ast.Literal {
	return ast.Literal{Literal: value.Literal{Tag: value.TagInt, Text: strconv.FormatInt(n, 10)}}
}

func TestEvalComparisonNullIsUnknown(t *testing.T) {
	s := scope1()
	row := []value.Value{value.NewInt(1), value.Null(value.KindChar)}
	expr := ast.Comparison{
		Left:  ast.ColumnRef{Table: "A", Column: "N"},
		Op:    ast.OpEq,
		Right: intLit(1),
	}
	got, err := Eval(expr, s, row, "WHERE")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != Unknown {
		t.Fatalf("got %v, want Unknown", got)
	}
}

func TestEvalComparisonIncomparableIsError(t *testing.T) {
	s := scope1()
	row := []value.Value{value.NewInt(1), value.NewChar("x")}
	expr := ast.Comparison{
		Left:  ast.ColumnRef{Table: "A", Column: "ID"},
		Op:    ast.OpEq,
		Right: ast.Literal{Literal: value.Literal{Tag: value.TagStr, Text: "'x'"}},
	}
	_, err := Eval(expr, s, row, "WHERE")
	if err == nil || err.Error() != value.ErrIncomparable {
		t.Fatalf("got %v", err)
	}
}

func TestEvalIsNull(t *testing.T) {
	s := scope1()
	row := []value.Value{value.NewInt(1), value.Null(value.KindChar)}
	got, err := Eval(ast.IsNull{Column: ast.ColumnRef{Table: "A", Column: "N"}}, s, row, "WHERE")
	if err != nil || got != True {
		t.Fatalf("got (%v, %v)", got, err)
	}
	got, err = Eval(ast.IsNull{Column: ast.ColumnRef{Table: "A", Column: "N"}, Not: true}, s, row, "WHERE")
	if err != nil || got != False {
		t.Fatalf("IS NOT NULL: got (%v, %v)", got, err)
	}
}
