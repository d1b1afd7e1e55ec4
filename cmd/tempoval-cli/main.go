// Command tempoval-cli exercises the temporal value engine from the shell:
// parsing/formatting the text form, converting between the binary wire
// form and the YAML fixture format, and running the time-type aggregates
// over a batch of fixtures. Subcommand dispatch and per-flag registration
// follow the teacher's cmd/tempo-cli convention (stdlib flag, one
// cmd-*.go file per subcommand) rather than a CLI framework.
package main

import (
	"fmt"
	"os"

	"github.com/tempoval/tempoval/pkg/util/log"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	var err error
	switch os.Args[1] {
	case "format":
		err = runFormat(os.Args[2:])
	case "dump":
		err = runDump(os.Args[2:])
	case "load":
		err = runLoad(os.Args[2:])
	case "aggregate":
		err = runAggregate(os.Args[2:])
	case "help", "-h", "--help":
		usage()
		return
	default:
		fmt.Fprintf(os.Stderr, "unknown subcommand %q\n", os.Args[1])
		usage()
		os.Exit(2)
	}
	if err != nil {
		_ = log.Logger.Log("msg", "command failed", "subcommand", os.Args[1], "err", err)
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, `tempoval-cli <subcommand> [flags]

Subcommands:
  format     parse a text-form temporal value and print it back (round-trip check)
  dump       convert a YAML fixture to the binary wire form
  load       convert a binary wire form to a YAML fixture
  aggregate  run t-union/t-count/extent over a batch of YAML fixtures`)
}
