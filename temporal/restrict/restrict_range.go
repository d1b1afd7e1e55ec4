package restrict

import (
	"math"
	"sort"

	"github.com/pkg/errors"

	"github.com/tempoval/tempoval/temporal/period"
	"github.com/tempoval/tempoval/temporal/value"
	"github.com/tempoval/tempoval/temporal/valuekit"
)

// NumRange is an inclusive/exclusive numeric range used by restrict-range,
// distinct from box.Range which is always closed (bounding boxes have no
// meaningful open endpoint).
type NumRange struct {
	Min, Max       float64
	MinInc, MaxInc bool
}

// Contains reports whether f lies in r.
func (r NumRange) Contains(f float64) bool {
	if f < r.Min || f > r.Max {
		return false
	}
	if f == r.Min && !r.MinInc {
		return false
	}
	if f == r.Max && !r.MaxInc {
		return false
	}
	return true
}

func scalarOf(bt valuekit.Type, v valuekit.Value) (float64, bool) {
	switch bt {
	case valuekit.TypeFloat:
		return v.F, true
	case valuekit.TypeInt:
		return float64(v.I), true
	default:
		return 0, false
	}
}

// RestrictRange implements restrict-range: value in range. Only numeric
// base types (float, int) are supported.
func RestrictRange(v value.Temporal, r NumRange, mode Mode) (value.Temporal, error) {
	if _, ok := scalarOf(v.BaseType(), v.Samples()[0].Value); !ok {
		return nil, errors.Wrapf(value.ErrInvalidArgument, "restrict-range: base type %s is not numeric", v.BaseType())
	}
	switch t := v.(type) {
	case *value.Instant:
		f, _ := scalarOf(t.BaseType(), t.Value())
		if r.Contains(f) == (mode == At) {
			return t, nil
		}
		return nil, ErrEmpty
	case *value.InstantSet:
		var kept []value.Sample
		for _, s := range t.Instants {
			f, _ := scalarOf(t.BaseType(), s.Value)
			if r.Contains(f) == (mode == At) {
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
		return restrictSequenceRange(t, r, mode)
	case *value.SequenceSet:
		var pieces []value.Sequence
		for i := range t.Sequences {
			res, err := restrictSequenceRange(&t.Sequences[i], r, mode)
			if err != nil {
				if errors.Is(err, ErrEmpty) {
					continue
				}
				return nil, err
			}
			pieces = append(pieces, flattenToSequences(res)...)
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

// RestrictRanges is the union over a normalized set of ranges.
func RestrictRanges(v value.Temporal, ranges []NumRange, mode Mode) (value.Temporal, error) {
	if len(ranges) == 0 {
		return nil, ErrEmpty
	}
	result, err := RestrictRange(v, ranges[0], At)
	var acc []value.Temporal
	if err == nil {
		acc = append(acc, result)
	} else if !errors.Is(err, ErrEmpty) {
		return nil, err
	}
	for _, rg := range ranges[1:] {
		r, err := RestrictRange(v, rg, At)
		if err != nil {
			if errors.Is(err, ErrEmpty) {
				continue
			}
			return nil, err
		}
		acc = append(acc, r)
	}
	if mode == At {
		return unionTemporal(v, acc)
	}
	// minus over a range-set: the complement of the union.
	allAt, err := unionTemporal(v, acc)
	if err != nil {
		if errors.Is(err, ErrEmpty) {
			return v, nil
		}
		return nil, err
	}
	return complementOf(v, allAt)
}

func unionTemporal(template value.Temporal, pieces []value.Temporal) (value.Temporal, error) {
	if len(pieces) == 0 {
		return nil, ErrEmpty
	}
	var seqs []value.Sequence
	for _, p := range pieces {
		seqs = append(seqs, flattenToSequences(p)...)
	}
	if len(seqs) == 0 {
		return nil, ErrEmpty
	}
	if len(seqs) == 1 {
		return value.Narrow(&seqs[0]), nil
	}
	ss, err := value.NewSequenceSet(template.BaseType(), template.Interp(), seqs)
	if err != nil {
		return nil, err
	}
	return value.Narrow(ss), nil
}

// complementOf computes template's time domain minus at's time domain and
// re-slices template's underlying sequences over the remaining periods.
func complementOf(template, at value.Temporal) (value.Temporal, error) {
	tps := period.NewSet(template.TimePeriods())
	aps := period.NewSet(at.TimePeriods())
	remaining := period.SetMinus(tps, aps)
	if len(remaining.Periods) == 0 {
		return nil, ErrEmpty
	}
	var seqs []value.Sequence
	for _, p := range remaining.Periods {
		for _, seq := range flattenToSequences(template) {
			inter, ok := period.Intersection(seq.Period, p)
			if !ok {
				continue
			}
			sub, err := sliceSequence(&seq, inter)
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
	ss, err := value.NewSequenceSet(template.BaseType(), template.Interp(), seqs)
	if err != nil {
		return nil, err
	}
	return value.Narrow(ss), nil
}

func restrictSequenceRange(s *value.Sequence, r NumRange, mode Mode) (value.Temporal, error) {
	atPS := period.NewSet(rangePeriods(s, r))
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

// rangePeriods classifies each segment of s against r using the classic
// line-clipping technique: solve for the (up to two) fractional crossings
// against r's two bounds, sort them with the segment endpoints, and test
// each resulting sub-interval's midpoint for range membership.
func rangePeriods(s *value.Sequence, r NumRange) []period.Period {
	var out []period.Period
	instants := s.Instants
	n := len(instants)
	for k := 0; k < n-1; k++ {
		a, b := instants[k], instants[k+1]
		lowerInc := true
		if k == 0 {
			lowerInc = s.Period.LowerInc
		}
		af, _ := scalarOf(s.BaseType(), a.Value)
		bf, _ := scalarOf(s.BaseType(), b.Value)

		if s.Interp() == value.Linear {
			var cuts []float64
			for _, bound := range []float64{r.Min, r.Max} {
				if rr, ok := valuekit.InterpolateInverse(a.Value, b.Value, scalarValue(s.BaseType(), bound)); ok && rr > 0 && rr < 1 {
					cuts = append(cuts, rr)
				}
			}
			sort.Float64s(cuts)
			fracs := append([]float64{0}, cuts...)
			fracs = append(fracs, 1)
			for i := 0; i < len(fracs)-1; i++ {
				r0, r1 := fracs[i], fracs[i+1]
				mid := af + (bf-af)*(r0+r1)/2
				t0 := a.T + period.Timestamp(math.Round(float64(b.T-a.T)*r0))
				t1 := a.T + period.Timestamp(math.Round(float64(b.T-a.T)*r1))
				if t0 == t1 {
					continue
				}
				subLowerInc := true
				if i == 0 {
					subLowerInc = lowerInc
				}
				if r.Contains(mid) {
					out = append(out, period.Period{Lower: t0, Upper: t1, LowerInc: subLowerInc, UpperInc: false})
				}
			}
		}
		if s.Interp() == value.Step && r.Contains(af) {
			out = append(out, period.Period{Lower: a.T, Upper: b.T, LowerInc: lowerInc, UpperInc: false})
		}
	}
	last := instants[n-1]
	lf, _ := scalarOf(s.BaseType(), last.Value)
	if s.Period.UpperInc && r.Contains(lf) {
		out = append(out, period.Instant(last.T))
	}
	return out
}

func scalarValue(bt valuekit.Type, f float64) valuekit.Value {
	if bt == valuekit.TypeInt {
		return valuekit.Int(int32(f))
	}
	return valuekit.Float(f)
}
