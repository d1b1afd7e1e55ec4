package wire

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"github.com/tempoval/tempoval/temporal/period"
	"github.com/tempoval/tempoval/temporal/value"
	"github.com/tempoval/tempoval/temporal/valuekit"
)

// ErrParse is the text form's parse-failure sentinel.
var ErrParse = errors.New("wire: parse error")

// BaseFormatter renders a base value as text. Format uses DefaultFormatter
// when none is supplied.
type BaseFormatter func(v valuekit.Value) string

// DefaultFormatter renders the base types this engine knows about in a
// form ParseValue can read back.
func DefaultFormatter(v valuekit.Value) string {
	switch v.Type {
	case valuekit.TypeBool:
		return strconv.FormatBool(v.B)
	case valuekit.TypeInt:
		return strconv.FormatInt(int64(v.I), 10)
	case valuekit.TypeFloat:
		return strconv.FormatFloat(v.F, 'g', -1, 64)
	case valuekit.TypeText:
		return v.S
	case valuekit.TypePoint2D:
		return fmt.Sprintf("POINT(%s %s)", ftoa(v.P2.X), ftoa(v.P2.Y))
	case valuekit.TypePoint3D:
		return fmt.Sprintf("POINT(%s %s %s)", ftoa(v.P3.X), ftoa(v.P3.Y), ftoa(v.P3.Z))
	case valuekit.TypeGeodetic:
		if v.Geo.HasHeight {
			return fmt.Sprintf("POINT(%s %s %s)", ftoa(v.Geo.Lon), ftoa(v.Geo.Lat), ftoa(v.Geo.Height))
		}
		return fmt.Sprintf("POINT(%s %s)", ftoa(v.Geo.Lon), ftoa(v.Geo.Lat))
	default:
		return fmt.Sprintf("<%s>", v.Type)
	}
}

func ftoa(f float64) string { return strconv.FormatFloat(f, 'g', -1, 64) }

// Format renders v using the engine's text form: bound brackets,
// comma-separated `value@timestamp` instants, set/sequence wrapping, and a
// leading `Interp=Stepwise;` token for step sequences.
func Format(v value.Temporal, fmtFn BaseFormatter) string {
	if fmtFn == nil {
		fmtFn = DefaultFormatter
	}
	var prefix string
	if v.Interp() == value.Step && v.BaseType().Interpolable() {
		prefix = "Interp=Stepwise;"
	}
	switch t := v.(type) {
	case *value.Instant:
		return prefix + formatInstant(t.Sample, fmtFn)
	case *value.InstantSet:
		parts := make([]string, len(t.Instants))
		for i, s := range t.Instants {
			parts[i] = formatInstant(s, fmtFn)
		}
		return prefix + "{" + strings.Join(parts, ", ") + "}"
	case *value.Sequence:
		return prefix + formatSequenceBody(*t, fmtFn)
	case *value.SequenceSet:
		parts := make([]string, len(t.Sequences))
		for i, seq := range t.Sequences {
			parts[i] = formatSequenceBody(seq, fmtFn)
		}
		return prefix + "{" + strings.Join(parts, ", ") + "}"
	default:
		return fmt.Sprintf("<unsupported %T>", v)
	}
}

func formatInstant(s value.Sample, fmtFn BaseFormatter) string {
	return fmt.Sprintf("%s@%d", fmtFn(s.Value), int64(s.T))
}

func formatSequenceBody(s value.Sequence, fmtFn BaseFormatter) string {
	open := "["
	if !s.Period.LowerInc {
		open = "("
	}
	closeB := "]"
	if !s.Period.UpperInc {
		closeB = ")"
	}
	parts := make([]string, len(s.Instants))
	for i, sm := range s.Instants {
		parts[i] = formatInstant(sm, fmtFn)
	}
	return open + strings.Join(parts, ", ") + closeB
}

// BaseParser parses a base value back from text (the inverse of
// BaseFormatter). Parse uses DefaultParser when none is supplied.
type BaseParser func(bt valuekit.Type, s string) (valuekit.Value, error)

// DefaultParser is the inverse of DefaultFormatter for the non-spatial base
// types; spatial POINT(...) forms are left to a caller-supplied BaseParser
// since this engine does not itself own a geometry grammar.
func DefaultParser(bt valuekit.Type, s string) (valuekit.Value, error) {
	switch bt {
	case valuekit.TypeBool:
		b, err := strconv.ParseBool(s)
		if err != nil {
			return valuekit.Value{}, errors.Wrapf(ErrParse, "bool %q", s)
		}
		return valuekit.Bool(b), nil
	case valuekit.TypeInt:
		i, err := strconv.ParseInt(s, 10, 32)
		if err != nil {
			return valuekit.Value{}, errors.Wrapf(ErrParse, "int %q", s)
		}
		return valuekit.Int(int32(i)), nil
	case valuekit.TypeFloat:
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return valuekit.Value{}, errors.Wrapf(ErrParse, "float %q", s)
		}
		return valuekit.Float(f), nil
	case valuekit.TypeText:
		return valuekit.Text(s), nil
	default:
		return valuekit.Value{}, errors.Wrapf(ErrParse, "no default parser for base type %s", bt)
	}
}

// Parse reads the text form produced by Format back into a Temporal value.
func Parse(s string, bt valuekit.Type, parseFn BaseParser) (value.Temporal, error) {
	if parseFn == nil {
		parseFn = DefaultParser
	}
	interp := value.Linear
	if strings.HasPrefix(s, "Interp=Stepwise;") {
		interp = value.Step
		s = strings.TrimPrefix(s, "Interp=Stepwise;")
	} else if !bt.Interpolable() {
		interp = value.Step
	}
	s = strings.TrimSpace(s)
	switch {
	case strings.HasPrefix(s, "{"):
		inner := strings.TrimSuffix(strings.TrimPrefix(s, "{"), "}")
		items := splitTopLevel(inner)
		if len(items) == 0 {
			return nil, errors.Wrapf(ErrParse, "empty set %q", s)
		}
		if strings.HasPrefix(strings.TrimSpace(items[0]), "[") || strings.HasPrefix(strings.TrimSpace(items[0]), "(") {
			seqs := make([]value.Sequence, len(items))
			for i, it := range items {
				seq, err := parseSequenceBody(strings.TrimSpace(it), bt, interp, parseFn)
				if err != nil {
					return nil, err
				}
				seqs[i] = *seq
			}
			return value.NewSequenceSet(bt, interp, seqs)
		}
		samples := make([]value.Sample, len(items))
		var err error
		for i, it := range items {
			samples[i], err = parseInstant(strings.TrimSpace(it), bt, parseFn)
			if err != nil {
				return nil, err
			}
		}
		return value.NewInstantSet(bt, interp, samples)
	case strings.HasPrefix(s, "[") || strings.HasPrefix(s, "("):
		return parseSequenceBody(s, bt, interp, parseFn)
	default:
		sm, err := parseInstant(s, bt, parseFn)
		if err != nil {
			return nil, err
		}
		return value.NewInstant(bt, interp, sm), nil
	}
}

func parseSequenceBody(s string, bt valuekit.Type, interp value.Interp, parseFn BaseParser) (*value.Sequence, error) {
	if len(s) < 2 {
		return nil, errors.Wrapf(ErrParse, "sequence too short %q", s)
	}
	lowerInc := s[0] == '['
	upperInc := s[len(s)-1] == ']'
	inner := s[1 : len(s)-1]
	items := splitTopLevel(inner)
	samples := make([]value.Sample, len(items))
	var err error
	for i, it := range items {
		samples[i], err = parseInstant(strings.TrimSpace(it), bt, parseFn)
		if err != nil {
			return nil, err
		}
	}
	if len(samples) == 0 {
		return nil, errors.Wrapf(ErrParse, "sequence has no instants %q", s)
	}
	p := period.Period{Lower: samples[0].T, Upper: samples[len(samples)-1].T, LowerInc: lowerInc, UpperInc: upperInc}
	return value.NewSequence(bt, interp, p, samples)
}

func parseInstant(s string, bt valuekit.Type, parseFn BaseParser) (value.Sample, error) {
	idx := strings.LastIndex(s, "@")
	if idx < 0 {
		return value.Sample{}, errors.Wrapf(ErrParse, "instant missing '@' %q", s)
	}
	valStr, tStr := s[:idx], s[idx+1:]
	v, err := parseFn(bt, valStr)
	if err != nil {
		return value.Sample{}, err
	}
	t, err := strconv.ParseInt(tStr, 10, 64)
	if err != nil {
		return value.Sample{}, errors.Wrapf(ErrParse, "timestamp %q", tStr)
	}
	return value.Sample{Value: v, T: period.Timestamp(t)}, nil
}

// splitTopLevel splits a comma-separated list, ignoring commas nested
// inside brackets (needed for sequence-set bodies whose elements are
// themselves bracketed sequences, and for POINT(x, y) base values).
func splitTopLevel(s string) []string {
	var out []string
	depth := 0
	start := 0
	for i, r := range s {
		switch r {
		case '[', '(', '{':
			depth++
		case ']', ')', '}':
			depth--
		case ',':
			if depth == 0 {
				out = append(out, s[start:i])
				start = i + 1
			}
		}
	}
	if start < len(s) {
		out = append(out, s[start:])
	}
	return out
}
