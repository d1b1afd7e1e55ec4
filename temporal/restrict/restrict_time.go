package restrict

import (
	"github.com/pkg/errors"

	"github.com/tempoval/tempoval/temporal/period"
	"github.com/tempoval/tempoval/temporal/value"
)

// RestrictTimestamp implements restrict-timestamp: value at/minus a single
// instant. This is pure time-domain arithmetic, simpler than the
// value-based restrictions since no segment scan is needed.
func RestrictTimestamp(v value.Temporal, t period.Timestamp, mode Mode) (value.Temporal, error) {
	return RestrictPeriod(v, period.Instant(t), mode)
}

// RestrictTimestampSet is the union form of RestrictTimestamp.
func RestrictTimestampSet(v value.Temporal, ts []period.Timestamp, mode Mode) (value.Temporal, error) {
	periods := make([]period.Period, len(ts))
	for i, t := range ts {
		periods[i] = period.Instant(t)
	}
	return RestrictPeriodSet(v, period.NewSet(periods), mode)
}

// RestrictPeriod implements restrict-period: keep (At) or drop (Minus) the
// portion of v's time domain that falls within p.
func RestrictPeriod(v value.Temporal, p period.Period, mode Mode) (value.Temporal, error) {
	return RestrictPeriodSet(v, period.NewSet([]period.Period{p}), mode)
}

// RestrictPeriodSet implements restrict-period-set, the most general
// time-axis restriction: intersect or subtract ps from v's time domain,
// then re-slice each surviving underlying sequence.
func RestrictPeriodSet(v value.Temporal, ps period.PeriodSet, mode Mode) (value.Temporal, error) {
	domain := period.NewSet(v.TimePeriods())
	var keep period.PeriodSet
	switch mode {
	case At:
		keep = period.SetIntersection(domain, ps)
	case Minus:
		keep = period.SetMinus(domain, ps)
	}
	if len(keep.Periods) == 0 {
		return nil, ErrEmpty
	}

	switch t := v.(type) {
	case *value.Instant:
		if keep.Contains(t.Timestamp()) {
			return t, nil
		}
		return nil, ErrEmpty
	case *value.InstantSet:
		var kept []value.Sample
		for _, s := range t.Instants {
			if keep.Contains(s.T) {
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
	case *value.Sequence, *value.SequenceSet:
		var seqs []value.Sequence
		for _, base := range flattenToSequences(v) {
			for _, p := range keep.Periods {
				inter, ok := period.Intersection(base.Period, p)
				if !ok {
					continue
				}
				sub, err := sliceSequence(&base, inter)
				if err != nil {
					return nil, err
				}
				seqs = append(seqs, *sub)
			}
		}
		if len(seqs) == 0 {
			return nil, ErrEmpty
		}
		if len(seqs) == 1 {
			return value.Narrow(&seqs[0]), nil
		}
		ss, err := value.NewSequenceSet(v.BaseType(), v.Interp(), seqs)
		if err != nil {
			return nil, err
		}
		return value.Narrow(ss), nil
	default:
		return nil, errors.Wrapf(value.ErrInvalidArgument, "restrict: unsupported subtype %T", v)
	}
}
