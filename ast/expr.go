package ast

import "github.com/k0kubun/reldb/value"

// ColumnRef is a (possibly table-qualified) column reference. Table is
// empty for a bare column.
type ColumnRef struct {
	Table  string
	Column string
}

// CompareOp is one of the six comparison operators of §4.5's grammar.
type CompareOp = value.CompareOp

const (
	OpEq = value.OpEq
	OpNe = value.OpNe
	OpLt = value.OpLt
	OpLe = value.OpLe
	OpGt = value.OpGt
	OpGe = value.OpGe
)

// Literal wraps a value.Literal so it can implement Operand: a method
// can only be declared in the package that defines its receiver type, and
// value.Literal belongs to the value package.
type Literal struct{ value.Literal }

// Operand is either a column reference or a literal — the two leaves a
// comparison can hold.
type Operand interface{ isOperand() }

func (ColumnRef) isOperand() {}
func (Literal) isOperand()   {}

// Expr is the boolean predicate tree: boolean_expr/term/factor collapse
// into three node kinds (Or, And, Not) plus the two leaf predicate kinds.
type Expr interface{ isExpr() }

type Or struct{ Left, Right Expr }
type And struct{ Left, Right Expr }
type Not struct{ X Expr }

type Comparison struct {
	Left  Operand
	Op    CompareOp
	Right Operand
}

type IsNull struct {
	Column ColumnRef
	Not    bool // true for IS NOT NULL
}

func (Or) isExpr()         {}
func (And) isExpr()        {}
func (Not) isExpr()        {}
func (Comparison) isExpr() {}
func (IsNull) isExpr()     {}
