// Package predicate implements the boolean predicate evaluator (§4.5):
// three-valued logic over the grammar's comparison and IS [NOT] NULL
// leaves, monotone under AND/OR in the false < unknown < true lattice.
package predicate

import (
	"github.com/k0kubun/reldb/ast"
	"github.com/k0kubun/reldb/resolve"
	"github.com/k0kubun/reldb/value"
)

// Tri is a three-valued logic result.
type Tri int

const (
	False Tri = iota
	Unknown
	True
)

func and(a, b Tri) Tri {
	if a == False || b == False {
		return False
	}
	if a == True && b == True {
		return True
	}
	return Unknown
}

func or(a, b Tri) Tri {
	if a == True || b == True {
		return True
	}
	if a == False && b == False {
		return False
	}
	return Unknown
}

func not(a Tri) Tri {
	switch a {
	case True:
		return False
	case False:
		return True
	default:
		return Unknown
	}
}

// Eval walks expr against row, whose slots are positioned per scope's
// Header, resolving column references through scope and naming clause in
// resolver error text.
func Eval(expr ast.Expr, scope *resolve.Scope, row []value.Value, clause string) (Tri, error) {
	switch e := expr.(type) {
	case ast.Or:
		l, err := Eval(e.Left, scope, row, clause)
		if err != nil {
			return Unknown, err
		}
		r, err := Eval(e.Right, scope, row, clause)
		if err != nil {
			return Unknown, err
		}
		return or(l, r), nil
	case ast.And:
		l, err := Eval(e.Left, scope, row, clause)
		if err != nil {
			return Unknown, err
		}
		r, err := Eval(e.Right, scope, row, clause)
		if err != nil {
			return Unknown, err
		}
		return and(l, r), nil
	case ast.Not:
		x, err := Eval(e.X, scope, row, clause)
		if err != nil {
			return Unknown, err
		}
		return not(x), nil
	case ast.Comparison:
		return evalComparison(e, scope, row, clause)
	case ast.IsNull:
		return evalIsNull(e, scope, row, clause)
	}
	return Unknown, nil
}

func operandValue(op ast.Operand, scope *resolve.Scope, row []value.Value, clause string) (value.Value, error) {
	switch o := op.(type) {
	case ast.ColumnRef:
		idx, err := scope.ResolvePredicate(o, clause)
		if err != nil {
			return value.Value{}, err
		}
		return row[idx], nil
	case ast.Literal:
		return value.ParseLiteral(o.Literal)
	}
	return value.Value{}, nil
}

func evalComparison(c ast.Comparison, scope *resolve.Scope, row []value.Value, clause string) (Tri, error) {
	left, err := operandValue(c.Left, scope, row, clause)
	if err != nil {
		return Unknown, err
	}
	right, err := operandValue(c.Right, scope, row, clause)
	if err != nil {
		return Unknown, err
	}

	if left.IsNull() || right.IsNull() {
		return Unknown, nil
	}

	if err := value.Comparable(left, right, c.Op); err != nil {
		return Unknown, err
	}

	if value.CompareNonNull(left, right, c.Op) {
		return True, nil
	}
	return False, nil
}

func evalIsNull(n ast.IsNull, scope *resolve.Scope, row []value.Value, clause string) (Tri, error) {
	idx, err := scope.ResolvePredicate(n.Column, clause)
	if err != nil {
		return Unknown, err
	}
	isNull := row[idx].IsNull()
	result := isNull != n.Not // xor
	if result {
		return True, nil
	}
	return False, nil
}
