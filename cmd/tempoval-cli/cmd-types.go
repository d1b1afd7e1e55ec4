package main

import (
	"github.com/pkg/errors"

	"github.com/tempoval/tempoval/temporal/valuekit"
)

// parseBaseTypeFlag maps the CLI's -type string onto a valuekit.Type,
// restricted to the base types DefaultFormatter/DefaultParser actually
// round-trip without a caller-supplied geometry grammar.
func parseBaseTypeFlag(s string) (valuekit.Type, error) {
	switch s {
	case "bool":
		return valuekit.TypeBool, nil
	case "int":
		return valuekit.TypeInt, nil
	case "float":
		return valuekit.TypeFloat, nil
	case "text":
		return valuekit.TypeText, nil
	default:
		return 0, errors.Errorf("tempoval-cli: unsupported -type %q (want bool|int|float|text)", s)
	}
}
