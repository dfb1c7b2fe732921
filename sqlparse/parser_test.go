package sqlparse

import (
	"testing"

	"github.com/k0kubun/reldb/ast"
	"github.com/k0kubun/reldb/value"
)

func TestParseCreateTableWithPrimaryAndForeignKey(t *testing.T) {
	stmt, err := Parse(`CREATE TABLE books (id INT NOT NULL, author_id INT, title CHAR(20), PRIMARY KEY(id), FOREIGN KEY(author_id) REFERENCES authors(id));`)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	ct, ok := stmt.(ast.CreateTable)
	if !ok {
		t.Fatalf("expected CreateTable, got %T", stmt)
	}
	if ct.Table != "BOOKS" || len(ct.Columns) != 3 {
		t.Fatalf("unexpected parse: %+v", ct)
	}
	if ct.PrimaryKey == nil || ct.PrimaryKey.Columns[0] != "ID" {
		t.Fatalf("unexpected primary key: %+v", ct.PrimaryKey)
	}
	if len(ct.ForeignKeys) != 1 || ct.ForeignKeys[0].RefTable != "AUTHORS" {
		t.Fatalf("unexpected foreign keys: %+v", ct.ForeignKeys)
	}
}

func TestParseCreateTableDuplicatePrimaryKeyClause(t *testing.T) {
	_, err := Parse(`CREATE TABLE t (a INT, PRIMARY KEY(a), PRIMARY KEY(a));`)
	if err == nil || err.Error() != "primary key definition is duplicated" {
		t.Fatalf("got %v", err)
	}
}

func TestParseDropTable(t *testing.T) {
	stmt, err := Parse(`DROP TABLE books;`)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if dt, ok := stmt.(ast.DropTable); !ok || dt.Table != "BOOKS" {
		t.Fatalf("unexpected parse: %+v", stmt)
	}
}

func TestParseInsertWithColumnListAndLiterals(t *testing.T) {
	stmt, err := Parse(`INSERT INTO books (id, title) VALUES (1, 'abc');`)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	ins, ok := stmt.(ast.InsertStatement)
	if !ok {
		t.Fatalf("expected InsertStatement, got %T", stmt)
	}
	if ins.Table != "BOOKS" || len(ins.Columns) != 2 || ins.Columns[0] != "ID" {
		t.Fatalf("unexpected parse: %+v", ins)
	}
	if ins.Values[0].Tag != value.TagInt || ins.Values[1].Tag != value.TagStr {
		t.Fatalf("unexpected literal tags: %+v", ins.Values)
	}
}

func TestParseInsertWithoutColumnList(t *testing.T) {
	stmt, err := Parse(`INSERT INTO books VALUES (1, 'abc');`)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	ins := stmt.(ast.InsertStatement)
	if ins.Columns != nil {
		t.Fatalf("expected nil column list, got %v", ins.Columns)
	}
}

func TestParseDeleteWithWhere(t *testing.T) {
	stmt, err := Parse(`DELETE FROM books WHERE id = 1;`)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	del, ok := stmt.(ast.DeleteStatement)
	if !ok || del.Where == nil {
		t.Fatalf("unexpected parse: %+v", stmt)
	}
	cmp, ok := del.Where.(ast.Comparison)
	if !ok || cmp.Op != ast.OpEq {
		t.Fatalf("unexpected WHERE tree: %+v", del.Where)
	}
}

func TestParseSelectStarFromMultipleTablesWithJoinWhereOrder(t *testing.T) {
	stmt, err := Parse(`SELECT * FROM books JOIN authors ON books.author_id = authors.id WHERE authors.name IS NOT NULL ORDER BY books.title DESC;`)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	sel, ok := stmt.(ast.SelectStatement)
	if !ok {
		t.Fatalf("expected SelectStatement, got %T", stmt)
	}
	if sel.Columns != nil {
		t.Fatalf("expected nil projection for '*', got %v", sel.Columns)
	}
	if len(sel.From) != 1 || sel.From[0] != "BOOKS" {
		t.Fatalf("unexpected FROM: %v", sel.From)
	}
	if len(sel.Joins) != 1 || sel.Joins[0].Table != "AUTHORS" {
		t.Fatalf("unexpected JOIN: %+v", sel.Joins)
	}
	isNull, ok := sel.Where.(ast.IsNull)
	if !ok || !isNull.Not {
		t.Fatalf("unexpected WHERE: %+v", sel.Where)
	}
	if sel.OrderBy == nil || !sel.OrderBy.Desc || sel.OrderBy.Column.Table != "BOOKS" {
		t.Fatalf("unexpected ORDER BY: %+v", sel.OrderBy)
	}
}

func TestParseSelectProjectionList(t *testing.T) {
	stmt, err := Parse(`SELECT id, books.title FROM books;`)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	sel := stmt.(ast.SelectStatement)
	if len(sel.Columns) != 2 || sel.Columns[0].Column != "ID" || sel.Columns[1].Table != "BOOKS" {
		t.Fatalf("unexpected columns: %+v", sel.Columns)
	}
}

func TestParseBooleanPrecedenceAndParens(t *testing.T) {
	stmt, err := Parse(`DELETE FROM t WHERE a = 1 OR b = 2 AND NOT (c = 3);`)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	del := stmt.(ast.DeleteStatement)
	or, ok := del.Where.(ast.Or)
	if !ok {
		t.Fatalf("expected top-level OR, got %T", del.Where)
	}
	and, ok := or.Right.(ast.And)
	if !ok {
		t.Fatalf("expected AND binds tighter than OR, got %T", or.Right)
	}
	if _, ok := and.Right.(ast.Not); !ok {
		t.Fatalf("expected NOT on right of AND, got %T", and.Right)
	}
}

func TestParseShowTables(t *testing.T) {
	stmt, err := Parse(`SHOW TABLES;`)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if _, ok := stmt.(ast.ShowTables); !ok {
		t.Fatalf("expected ShowTables, got %T", stmt)
	}
}

func TestParseDescribeSynonyms(t *testing.T) {
	for _, kw := range []string{"DESC", "DESCRIBE", "EXPLAIN"} {
		stmt, err := Parse(kw + ` books;`)
		if err != nil {
			t.Fatalf("Parse(%s): %v", kw, err)
		}
		d, ok := stmt.(ast.Describe)
		if !ok || d.Table != "BOOKS" {
			t.Fatalf("unexpected parse for %s: %+v", kw, stmt)
		}
	}
}

func TestParseExit(t *testing.T) {
	stmt, err := Parse(`EXIT;`)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if _, ok := stmt.(ast.Exit); !ok {
		t.Fatalf("expected Exit, got %T", stmt)
	}
}

func TestParseDateLiteral(t *testing.T) {
	stmt, err := Parse(`INSERT INTO t VALUES (2024-01-05);`)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	ins := stmt.(ast.InsertStatement)
	if ins.Values[0].Tag != value.TagDate || ins.Values[0].Text != "2024-01-05" {
		t.Fatalf("unexpected literal: %+v", ins.Values[0])
	}
}

func TestParseGarbageIsSyntaxError(t *testing.T) {
	_, err := Parse(`CREATE FROB bar;`)
	if err == nil || err.Error() != "Syntax error" {
		t.Fatalf("got %v", err)
	}
}

func TestParseTrailingGarbageIsSyntaxError(t *testing.T) {
	_, err := Parse(`EXIT; garbage`)
	if err == nil || err.Error() != "Syntax error" {
		t.Fatalf("got %v", err)
	}
}
