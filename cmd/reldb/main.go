package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/jessevdk/go-flags"
	"golang.org/x/term"

	"github.com/k0kubun/reldb/catalog"
	"github.com/k0kubun/reldb/config"
	"github.com/k0kubun/reldb/dispatch"
	"github.com/k0kubun/reldb/query"
	"github.com/k0kubun/reldb/sqlparse"
	"github.com/k0kubun/reldb/storage"
	"github.com/k0kubun/reldb/util"
)

type options struct {
	Dir       string `short:"d" long:"dir" description:"Environment directory" value-name:"path" default:"."`
	ProcessID string `short:"i" long:"id" description:"Process id shown in the prompt" value-name:"id"`
	File      string `short:"f" long:"file" description:"Read statements from a script file instead of stdin" value-name:"filename"`
}

func main() {
	util.InitSlog()

	var opts options
	parser := flags.NewParser(&opts, flags.Default)
	parser.Usage = "[option...]"
	if _, err := parser.Parse(); err != nil {
		os.Exit(1)
	}

	env, err := config.Load(opts.Dir)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	if opts.ProcessID != "" {
		env.ProcessID = opts.ProcessID
	}
	if env.ProcessID == "" {
		env.ProcessID = strconv.Itoa(os.Getpid())
	}
	if err := env.Save(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	store, err := storage.Open(env.Dir)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer store.Close()

	cat, err := catalog.Open(store)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	d := dispatch.New(cat, query.New(store, cat))

	in := os.Stdin
	if opts.File != "" {
		f, err := os.Open(opts.File)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		defer f.Close()
		in = f
	}

	prompt := fmt.Sprintf("DB_%s> ", env.ProcessID)
	interactive := opts.File == "" && term.IsTerminal(int(os.Stdin.Fd()))
	runREPL(in, os.Stdout, prompt, interactive, d)
}

// runREPL accumulates input lines until a line ending in ';' is seen,
// splits the buffer on ';' into individual statements, and executes each
// in order, per §6's REPL contract.
func runREPL(in io.Reader, out io.Writer, prompt string, interactive bool, d *dispatch.Dispatcher) {
	scanner := bufio.NewScanner(in)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	var buf strings.Builder
	if interactive {
		fmt.Fprint(out, prompt)
	}
	for scanner.Scan() {
		line := scanner.Text()
		buf.WriteString(line)
		buf.WriteString("\n")
		if !strings.HasSuffix(strings.TrimSpace(line), ";") {
			continue
		}

		for _, stmtText := range strings.Split(buf.String(), ";") {
			if strings.TrimSpace(stmtText) == "" {
				continue
			}
			if run(d, stmtText, out, prompt) {
				return
			}
		}
		buf.Reset()
		if interactive {
			fmt.Fprint(out, prompt)
		}
	}
	if rest := strings.TrimSpace(buf.String()); rest != "" {
		run(d, rest, out, prompt)
	}
}

// run parses and executes one statement, printing its result or error.
// It returns true if the statement was EXIT and the REPL should stop.
func run(d *dispatch.Dispatcher, stmtText string, out io.Writer, prompt string) bool {
	stmt, err := sqlparse.Parse(stmtText + ";")
	if err != nil {
		fmt.Fprintf(out, "%s%s\n", prompt, err)
		return false
	}
	result, err := d.Run(stmt)
	if err == dispatch.Exit {
		return true
	}
	if err != nil {
		fmt.Fprintf(out, "%s%s\n", prompt, err)
		return false
	}
	fmt.Fprintln(out, result)
	return false
}
