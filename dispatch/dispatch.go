// Package dispatch is the DDL/DML dispatcher (C7): it maps a parsed
// statement root to a catalog or query action and renders the result (or
// error) as the exact user-visible text of §4.2/§4.6/§8, including the
// "<Action> has failed: ..." wrapper the original's Exceptions.py bakes
// into every raised exception.
package dispatch

import (
	"fmt"
	"log/slog"

	"github.com/k0kubun/reldb/ast"
	"github.com/k0kubun/reldb/catalog"
	"github.com/k0kubun/reldb/query"
)

// Dispatcher routes one parsed statement at a time to the catalog/query
// layers and renders its textual result.
type Dispatcher struct {
	cat *catalog.Catalog
	qe  *query.Executor
}

func New(cat *catalog.Catalog, qe *query.Executor) *Dispatcher {
	return &Dispatcher{cat: cat, qe: qe}
}

// Exit is returned by Run when the statement was EXIT, so the caller
// (cmd/reldb's REPL loop) knows to stop reading further statements.
var Exit = fmt.Errorf("exit")

// Run executes one statement and returns its rendered output text (for
// SELECT/SHOW/DESC, a formatted table; otherwise a one-line status
// message) or a wrapped, user-visible error.
func (d *Dispatcher) Run(stmt ast.Statement) (string, error) {
	switch s := stmt.(type) {
	case ast.CreateTable:
		if err := d.cat.CreateTable(s); err != nil {
			return "", fmt.Errorf("Create table has failed: %s", err)
		}
		slog.Debug("create table", "table", s.Table)
		return fmt.Sprintf("'%s' table is created", s.Table), nil

	case ast.DropTable:
		if err := d.cat.DropTable(s.Table); err != nil {
			return "", fmt.Errorf("Drop table has failed: %s", err)
		}
		slog.Debug("drop table", "table", s.Table)
		return fmt.Sprintf("'%s' table is dropped", s.Table), nil

	case ast.InsertStatement:
		if err := d.qe.Insert(s); err != nil {
			return "", fmt.Errorf("Insert has failed: %s", err)
		}
		return "1 row inserted", nil

	case ast.DeleteStatement:
		n, err := d.qe.Delete(s)
		if err != nil {
			return "", fmt.Errorf("Delete has failed: %s", err)
		}
		if n == 1 {
			return "1 row deleted", nil
		}
		return fmt.Sprintf("%d rows deleted", n), nil

	case ast.SelectStatement:
		res, err := d.qe.Select(s)
		if err != nil {
			return "", fmt.Errorf("Select has failed: %s", err)
		}
		return query.FormatTable(res.Header, res.Rows) + "\n" + query.Trailer(res.Count), nil

	case ast.ShowTables:
		tables := d.cat.ListTables()
		rows := make([][]string, len(tables))
		for i, t := range tables {
			rows[i] = []string{t}
		}
		return query.FormatTable(nil, rows), nil

	case ast.Describe:
		rows, err := d.cat.Describe(s.Table)
		if err != nil {
			return "", fmt.Errorf("Describe has failed: %s", err)
		}
		header := []string{"COLUMN_NAME", "TYPE", "NULL", "KEY"}
		cells := make([][]string, len(rows))
		for i, r := range rows {
			cells[i] = []string{r.ColumnName, r.Type, r.Nullable, r.KeyRole}
		}
		return query.FormatTable(header, cells), nil

	case ast.Exit:
		return "", Exit
	}
	return "", fmt.Errorf("unrecognized statement")
}
