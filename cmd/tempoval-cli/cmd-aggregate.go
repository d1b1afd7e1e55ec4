package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/pkg/errors"

	"github.com/tempoval/tempoval/temporal/aggregate"
	"github.com/tempoval/tempoval/temporal/value"
	"github.com/tempoval/tempoval/temporal/wire"
)

// runAggregate runs one of t-union/t-count/extent over a batch of YAML
// fixture files, printing the finalized result's text form (t-union/t-count)
// or bounding box (extent).
func runAggregate(args []string) error {
	fs := flag.NewFlagSet("aggregate", flag.ExitOnError)
	kind := fs.String("kind", "tcount", "aggregate kind: tunion|tcount|extent")
	if err := fs.Parse(args); err != nil {
		return err
	}
	files := fs.Args()
	if len(files) == 0 {
		return errors.New("tempoval-cli aggregate: at least one fixture file is required")
	}

	switch *kind {
	case "tunion":
		state := aggregate.NewTUnionState()
		for _, f := range files {
			v, err := loadFixtureFile(f)
			if err != nil {
				return err
			}
			if err := state.AddTemporal(v); err != nil {
				return errors.Wrapf(err, "tempoval-cli aggregate: adding %s", f)
			}
		}
		result, err := state.FinalizeTemporal()
		if err != nil {
			return err
		}
		fmt.Println(wire.Format(result, nil))
	case "tcount":
		state := aggregate.NewTCountState()
		for _, f := range files {
			v, err := loadFixtureFile(f)
			if err != nil {
				return err
			}
			if err := state.AddTemporal(v); err != nil {
				return errors.Wrapf(err, "tempoval-cli aggregate: adding %s", f)
			}
		}
		result, err := state.Finalize()
		if err != nil {
			return err
		}
		fmt.Println(wire.Format(result, nil))
	case "extent":
		state := aggregate.NewExtentState()
		for _, f := range files {
			v, err := loadFixtureFile(f)
			if err != nil {
				return err
			}
			state.AddTemporal(v)
		}
		result, err := state.Finalize()
		if err != nil {
			return err
		}
		fmt.Printf("%+v\n", result)
	default:
		return errors.Errorf("tempoval-cli aggregate: unknown -kind %q", *kind)
	}
	return nil
}

func loadFixtureFile(path string) (value.Temporal, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return wire.LoadYAML(f, nil)
}
