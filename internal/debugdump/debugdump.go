// Package debugdump pretty-prints schema documents and tuple streams for
// troubleshooting, gated by RELDB_DEBUG so it costs nothing when unset.
package debugdump

import (
	"os"

	"github.com/k0kubun/pp/v3"
)

var enabled = os.Getenv("RELDB_DEBUG") == "1"

var printer = func() *pp.PrettyPrinter {
	p := pp.New()
	p.SetOutput(os.Stderr)
	return p
}()

// Enabled reports whether RELDB_DEBUG=1 was set at startup.
func Enabled() bool {
	return enabled
}

// Dump pretty-prints v under label to stderr, if enabled.
func Dump(label string, v any) {
	if !enabled {
		return
	}
	printer.Printf("%s: %s\n", label, pp.Sprint(v))
}
