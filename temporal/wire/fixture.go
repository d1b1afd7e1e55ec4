package wire

import (
	"io"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/tempoval/tempoval/temporal/period"
	"github.com/tempoval/tempoval/temporal/value"
	"github.com/tempoval/tempoval/temporal/valuekit"
)

// sampleFixture is the YAML-friendly shape of a value.Sample, using the
// text form for the base value so fixtures stay human-editable (matching
// the teacher's yaml.v3 test-fixture convention, tempodb/backend/encoding_test.go).
type sampleFixture struct {
	Value string `yaml:"value"`
	T     int64  `yaml:"t"`
}

type sequenceFixture struct {
	LowerInc bool            `yaml:"lower_inc"`
	UpperInc bool            `yaml:"upper_inc"`
	Instants []sampleFixture `yaml:"instants"`
}

// Fixture is the YAML dump/load fixture format backing the CLI's
// dump/load subcommands and package tests: the text form wrapped for
// round-tripping through a file.
type Fixture struct {
	BaseType  string            `yaml:"base_type"`
	Interp    string            `yaml:"interp"`
	Subtype   string            `yaml:"subtype"`
	Instants  []sampleFixture   `yaml:"instants,omitempty"`
	Sequences []sequenceFixture `yaml:"sequences,omitempty"`
}

func baseTypeName(t valuekit.Type) string { return t.String() }

func baseTypeFromName(name string) (valuekit.Type, error) {
	for t := valuekit.TypeBool; t <= valuekit.TypeTuple4; t++ {
		if t.String() == name {
			return t, nil
		}
	}
	return 0, errors.Wrapf(ErrParse, "unknown base type %q", name)
}

// ToFixture converts v into its YAML fixture representation.
func ToFixture(v value.Temporal, fmtFn BaseFormatter) Fixture {
	if fmtFn == nil {
		fmtFn = DefaultFormatter
	}
	f := Fixture{
		BaseType: baseTypeName(v.BaseType()),
		Interp:   v.Interp().String(),
		Subtype:  v.Subtype().String(),
	}
	switch t := v.(type) {
	case *value.Instant:
		f.Instants = []sampleFixture{toSampleFixture(t.Sample, fmtFn)}
	case *value.InstantSet:
		f.Instants = make([]sampleFixture, len(t.Instants))
		for i, s := range t.Instants {
			f.Instants[i] = toSampleFixture(s, fmtFn)
		}
	case *value.Sequence:
		f.Sequences = []sequenceFixture{toSequenceFixture(*t, fmtFn)}
	case *value.SequenceSet:
		f.Sequences = make([]sequenceFixture, len(t.Sequences))
		for i, seq := range t.Sequences {
			f.Sequences[i] = toSequenceFixture(seq, fmtFn)
		}
	}
	return f
}

func toSampleFixture(s value.Sample, fmtFn BaseFormatter) sampleFixture {
	return sampleFixture{Value: fmtFn(s.Value), T: int64(s.T)}
}

func toSequenceFixture(s value.Sequence, fmtFn BaseFormatter) sequenceFixture {
	out := sequenceFixture{LowerInc: s.Period.LowerInc, UpperInc: s.Period.UpperInc}
	out.Instants = make([]sampleFixture, len(s.Instants))
	for i, sm := range s.Instants {
		out.Instants[i] = toSampleFixture(sm, fmtFn)
	}
	return out
}

// FromFixture is the inverse of ToFixture.
func FromFixture(f Fixture, parseFn BaseParser) (value.Temporal, error) {
	if parseFn == nil {
		parseFn = DefaultParser
	}
	bt, err := baseTypeFromName(f.BaseType)
	if err != nil {
		return nil, err
	}
	interp := value.Linear
	if f.Interp == value.Step.String() {
		interp = value.Step
	}
	switch f.Subtype {
	case value.SubtypeInstant.String():
		s, err := fromSampleFixture(f.Instants[0], bt, parseFn)
		if err != nil {
			return nil, err
		}
		return value.NewInstant(bt, interp, s), nil
	case value.SubtypeInstantSet.String():
		samples, err := fromSampleFixtures(f.Instants, bt, parseFn)
		if err != nil {
			return nil, err
		}
		return value.NewInstantSet(bt, interp, samples)
	case value.SubtypeSequence.String():
		seq, err := fromSequenceFixture(f.Sequences[0], bt, interp, parseFn)
		if err != nil {
			return nil, err
		}
		return seq, nil
	case value.SubtypeSequenceSet.String():
		seqs := make([]value.Sequence, len(f.Sequences))
		for i, sf := range f.Sequences {
			seq, err := fromSequenceFixture(sf, bt, interp, parseFn)
			if err != nil {
				return nil, err
			}
			seqs[i] = *seq
		}
		return value.NewSequenceSet(bt, interp, seqs)
	default:
		return nil, errors.Wrapf(ErrParse, "unknown subtype %q", f.Subtype)
	}
}

func fromSampleFixture(sf sampleFixture, bt valuekit.Type, parseFn BaseParser) (value.Sample, error) {
	v, err := parseFn(bt, sf.Value)
	if err != nil {
		return value.Sample{}, err
	}
	return value.Sample{Value: v, T: period.Timestamp(sf.T)}, nil
}

func fromSampleFixtures(sfs []sampleFixture, bt valuekit.Type, parseFn BaseParser) ([]value.Sample, error) {
	out := make([]value.Sample, len(sfs))
	for i, sf := range sfs {
		s, err := fromSampleFixture(sf, bt, parseFn)
		if err != nil {
			return nil, err
		}
		out[i] = s
	}
	return out, nil
}

func fromSequenceFixture(sf sequenceFixture, bt valuekit.Type, interp value.Interp, parseFn BaseParser) (*value.Sequence, error) {
	samples, err := fromSampleFixtures(sf.Instants, bt, parseFn)
	if err != nil {
		return nil, err
	}
	if len(samples) == 0 {
		return nil, errors.Wrap(ErrParse, "sequence fixture has no instants")
	}
	p := period.Period{Lower: samples[0].T, Upper: samples[len(samples)-1].T, LowerInc: sf.LowerInc, UpperInc: sf.UpperInc}
	return value.NewSequence(bt, interp, p, samples)
}

// DumpYAML writes v's fixture form to w (backs `tempoval-cli dump`).
func DumpYAML(w io.Writer, v value.Temporal, fmtFn BaseFormatter) error {
	return yaml.NewEncoder(w).Encode(ToFixture(v, fmtFn))
}

// LoadYAML reads a fixture written by DumpYAML (backs `tempoval-cli load`).
func LoadYAML(r io.Reader, parseFn BaseParser) (value.Temporal, error) {
	var f Fixture
	if err := yaml.NewDecoder(r).Decode(&f); err != nil {
		return nil, errors.Wrap(err, "wire: decode yaml fixture")
	}
	return FromFixture(f, parseFn)
}
