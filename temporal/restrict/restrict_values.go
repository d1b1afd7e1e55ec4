package restrict

import (
	"github.com/pkg/errors"

	"github.com/tempoval/tempoval/temporal/period"
	"github.com/tempoval/tempoval/temporal/value"
	"github.com/tempoval/tempoval/temporal/valuekit"
)

// RestrictValues implements restrict-values: the union of restrict-value
// over a set of target values.
func RestrictValues(v value.Temporal, targets []valuekit.Value, mode Mode) (value.Temporal, error) {
	inSet := func(x valuekit.Value) bool {
		for _, t := range targets {
			if valuekit.Equal(x, t) {
				return true
			}
		}
		return false
	}
	switch t := v.(type) {
	case *value.Instant:
		if inSet(t.Value()) == (mode == At) {
			return t, nil
		}
		return nil, ErrEmpty
	case *value.InstantSet:
		var kept []value.Sample
		for _, s := range t.Instants {
			if inSet(s.Value) == (mode == At) {
				kept = append(kept, s)
			}
		}
		if len(kept) == 0 {
			return nil, ErrEmpty
		}
		is, err := value.NewInstantSet(t.BaseType(), t.Interp(), kept)
		if err != nil {
			return nil, err
		}
		return value.Narrow(is), nil
	case *value.Sequence:
		return restrictSequenceValues(t, targets, mode)
	case *value.SequenceSet:
		var pieces []value.Sequence
		for i := range t.Sequences {
			r, err := restrictSequenceValues(&t.Sequences[i], targets, mode)
			if err != nil {
				if errors.Is(err, ErrEmpty) {
					continue
				}
				return nil, err
			}
			pieces = append(pieces, flattenToSequences(r)...)
		}
		if len(pieces) == 0 {
			return nil, ErrEmpty
		}
		ss, err := value.NewSequenceSet(t.BaseType(), t.Interp(), pieces)
		if err != nil {
			return nil, err
		}
		return value.Narrow(ss), nil
	default:
		return nil, errors.Wrapf(value.ErrInvalidArgument, "restrict: unsupported subtype %T", v)
	}
}

func restrictSequenceValues(s *value.Sequence, targets []valuekit.Value, mode Mode) (value.Temporal, error) {
	var all []period.Period
	for _, t := range targets {
		all = append(all, matchingPeriods(s, t)...)
	}
	atPS := period.NewSet(all)
	var keepPS period.PeriodSet
	switch mode {
	case At:
		keepPS = atPS
	case Minus:
		keepPS = period.SetMinus(period.NewSet([]period.Period{s.Period}), atPS)
	}
	if len(keepPS.Periods) == 0 {
		return nil, ErrEmpty
	}
	seqs := make([]value.Sequence, 0, len(keepPS.Periods))
	for _, p := range keepPS.Periods {
		sub, err := sliceSequence(s, p)
		if err != nil {
			return nil, err
		}
		seqs = append(seqs, *sub)
	}
	if len(seqs) == 1 {
		return value.Narrow(&seqs[0]), nil
	}
	ss, err := value.NewSequenceSet(s.BaseType(), s.Interp(), seqs)
	if err != nil {
		return nil, err
	}
	return value.Narrow(ss), nil
}

// RestrictMin restricts v to the instants/periods where it attains its
// minimum sampled value: find the extremum value first, then restrict to
// that value.
func RestrictMin(v value.Temporal, mode Mode) (value.Temporal, error) {
	return restrictExtreme(v, mode, -1)
}

// RestrictMax is the maximum-valued counterpart of RestrictMin.
func RestrictMax(v value.Temporal, mode Mode) (value.Temporal, error) {
	return restrictExtreme(v, mode, 1)
}

func restrictExtreme(v value.Temporal, mode Mode, want int) (value.Temporal, error) {
	samples := v.Samples()
	if len(samples) == 0 {
		return nil, ErrEmpty
	}
	extreme := samples[0].Value
	for _, s := range samples[1:] {
		if c := valuekit.Compare(s.Value, extreme); c*want > 0 {
			extreme = s.Value
		}
	}
	return RestrictValue(v, extreme, mode)
}
