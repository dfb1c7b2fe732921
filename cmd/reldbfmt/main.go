// Command reldbfmt is a standalone formatter/linter for .sql command
// scripts: it splits a script into individual statements the same way
// cmd/reldb's REPL does, parses each one, and reports the result using
// the same output formatter the engine uses for query results.
package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/jessevdk/go-flags"

	"github.com/k0kubun/reldb/query"
	"github.com/k0kubun/reldb/sqlparse"
)

type options struct {
	Args struct {
		File string `positional-arg-name:"file"`
	} `positional-args:"yes" required:"yes"`
}

func main() {
	var opts options
	parser := flags.NewParser(&opts, flags.Default)
	parser.Usage = "script.sql"
	if _, err := parser.Parse(); err != nil {
		os.Exit(1)
	}

	data, err := os.ReadFile(opts.Args.File)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	rows, failed := lint(string(data))
	fmt.Println(query.FormatTable([]string{"STATEMENT", "STATUS", "MESSAGE"}, rows))
	if failed {
		os.Exit(1)
	}
}

// lint parses every ';'-delimited statement in src and returns one
// formatted row per statement plus whether any failed to parse.
func lint(src string) (rows [][]string, failed bool) {
	n := 0
	for _, stmtText := range strings.Split(src, ";") {
		trimmed := strings.TrimSpace(stmtText)
		if trimmed == "" {
			continue
		}
		n++
		if _, err := sqlparse.Parse(trimmed + ";"); err != nil {
			rows = append(rows, []string{fmt.Sprint(n), "ERROR", err.Error()})
			failed = true
			continue
		}
		rows = append(rows, []string{fmt.Sprint(n), "OK", ""})
	}
	return rows, failed
}
