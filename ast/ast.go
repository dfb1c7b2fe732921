// Package ast defines the statement and expression tree produced by the
// out-of-scope grammar/parser collaborator (see sqlparse) and consumed by
// the catalog, resolver, predicate evaluator and query executor. Every
// node is a plain algebraic variant; there is no visitor or runtime
// string-dispatch — callers switch on Go's own type system.
package ast

import "github.com/k0kubun/reldb/value"

// Statement is the root of any top-level command.
type Statement interface{ isStatement() }

type CreateTable struct {
	Table       string
	Columns     []ColumnDef
	PrimaryKey  *PrimaryKeyDef // nil if no PRIMARY KEY clause
	ForeignKeys []ForeignKeyDef
}

type ColumnDef struct {
	Name    string
	Type    value.Type
	NotNull bool
}

type PrimaryKeyDef struct {
	Columns []string
}

type ForeignKeyDef struct {
	Columns    []string
	RefTable   string
	RefColumns []string
}

type DropTable struct {
	Table string
}

type InsertStatement struct {
	Table   string
	Columns []string // nil means omitted: use the table's column_order
	Values  []value.Literal
}

type DeleteStatement struct {
	Table string
	Where Expr // nil means no WHERE clause
}

type SelectStatement struct {
	Columns []ColumnRef // empty means SELECT * (all tables, declaration order)
	From    []string
	Joins   []Join
	Where   Expr
	OrderBy *OrderBy
}

type Join struct {
	Table string
	On    Expr
}

type OrderBy struct {
	Column ColumnRef
	Desc   bool
}

type ShowTables struct{}

type Describe struct {
	Table string
}

type Exit struct{}

func (CreateTable) isStatement()     {}
func (DropTable) isStatement()       {}
func (InsertStatement) isStatement() {}
func (DeleteStatement) isStatement() {}
func (SelectStatement) isStatement() {}
func (ShowTables) isStatement()      {}
func (Describe) isStatement()        {}
func (Exit) isStatement()            {}
