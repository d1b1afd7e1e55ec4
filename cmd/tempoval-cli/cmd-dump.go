package main

import (
	"flag"
	"os"

	"github.com/pkg/errors"

	"github.com/tempoval/tempoval/temporal/wire"
)

// runDump reads a YAML fixture and writes the bit-exact binary wire form,
// optionally gzip-compressed, to -out (default stdout).
func runDump(args []string) error {
	fs := flag.NewFlagSet("dump", flag.ExitOnError)
	inPath := fs.String("in", "", "input YAML fixture; defaults to stdin")
	outPath := fs.String("out", "", "output wire blob; defaults to stdout")
	compressed := fs.Bool("compress", false, "gzip-compress the wire blob")
	if err := fs.Parse(args); err != nil {
		return err
	}

	in, err := openInput(*inPath)
	if err != nil {
		return errors.Wrap(err, "tempoval-cli dump: opening input")
	}
	defer in.Close()

	v, err := wire.LoadYAML(in, nil)
	if err != nil {
		return errors.Wrap(err, "tempoval-cli dump: loading fixture")
	}

	out, err := openOutput(*outPath)
	if err != nil {
		return errors.Wrap(err, "tempoval-cli dump: opening output")
	}
	defer out.Close()

	if *compressed {
		return wire.WriteCompressed(out, v)
	}
	return wire.Write(out, v)
}

func openInput(path string) (*os.File, error) {
	if path == "" {
		return os.Stdin, nil
	}
	return os.Open(path)
}

func openOutput(path string) (*os.File, error) {
	if path == "" {
		return os.Stdout, nil
	}
	return os.Create(path)
}
