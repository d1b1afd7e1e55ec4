package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/pkg/errors"

	"github.com/tempoval/tempoval/temporal/wire"
)

// runFormat parses a text-form temporal value from stdin (or -in) and
// prints Format's rendering of it back out, a round-trip check useful for
// validating hand-written fixtures against the text grammar.
func runFormat(args []string) error {
	fs := flag.NewFlagSet("format", flag.ExitOnError)
	baseType := fs.String("type", "float", "base type of the input value (bool|int|float|text)")
	inPath := fs.String("in", "", "input file; defaults to stdin")
	if err := fs.Parse(args); err != nil {
		return err
	}

	bt, err := parseBaseTypeFlag(*baseType)
	if err != nil {
		return err
	}

	text, err := readAllFrom(*inPath)
	if err != nil {
		return errors.Wrap(err, "tempoval-cli format: reading input")
	}

	v, err := wire.Parse(string(text), bt, nil)
	if err != nil {
		return errors.Wrap(err, "tempoval-cli format: parsing text form")
	}
	fmt.Println(wire.Format(v, nil))
	return nil
}

func readAllFrom(path string) ([]byte, error) {
	if path == "" {
		return io.ReadAll(os.Stdin)
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return io.ReadAll(f)
}
