package main

import (
	"flag"

	"github.com/pkg/errors"

	"github.com/tempoval/tempoval/temporal/value"
	"github.com/tempoval/tempoval/temporal/wire"
)

// runLoad reads a binary wire blob (optionally gzip-compressed) and writes
// its YAML fixture form to -out (default stdout).
func runLoad(args []string) error {
	fs := flag.NewFlagSet("load", flag.ExitOnError)
	baseType := fs.String("type", "float", "base type of the encoded value (bool|int|float|text)")
	inPath := fs.String("in", "", "input wire blob; defaults to stdin")
	outPath := fs.String("out", "", "output YAML fixture; defaults to stdout")
	compressed := fs.Bool("compress", false, "the input wire blob is gzip-compressed")
	if err := fs.Parse(args); err != nil {
		return err
	}

	bt, err := parseBaseTypeFlag(*baseType)
	if err != nil {
		return err
	}

	in, err := openInput(*inPath)
	if err != nil {
		return errors.Wrap(err, "tempoval-cli load: opening input")
	}
	defer in.Close()

	var decoded value.Temporal
	if *compressed {
		decoded, err = wire.ReadCompressed(in, bt)
	} else {
		decoded, err = wire.Read(in, bt)
	}
	if err != nil {
		return errors.Wrap(err, "tempoval-cli load: decoding wire blob")
	}

	out, err := openOutput(*outPath)
	if err != nil {
		return errors.Wrap(err, "tempoval-cli load: opening output")
	}
	defer out.Close()

	return wire.DumpYAML(out, decoded, nil)
}
