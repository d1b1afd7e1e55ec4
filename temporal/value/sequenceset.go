package value

import (
	"sort"

	"github.com/tempoval/tempoval/temporal/box"
	"github.com/tempoval/tempoval/temporal/period"
	"github.com/tempoval/tempoval/temporal/valuekit"
)

// SequenceSet is a time-disjoint, normalized union of sequences. Adjacent
// sequences whose boundary values agree (step) or are collinear across the
// join (linear) are merged into one during construction.
type SequenceSet struct {
	bt        valuekit.Type
	interp    Interp
	Sequences []Sequence
	bbox      box.TBox
}

// NewSequenceSet validates, merges and constructs a SequenceSet from an
// unordered slice of sequences sharing the same base type and
// interpolation.
func NewSequenceSet(bt valuekit.Type, interp Interp, sequences []Sequence) (*SequenceSet, error) {
	if len(sequences) == 0 {
		return nil, errInvalidf("sequence set requires at least one sequence")
	}
	cp := append([]Sequence(nil), sequences...)
	for i := range cp {
		if cp[i].bt != bt || cp[i].interp != interp {
			return nil, errInvalidf("sequence %d has mismatched base type or interpolation", i)
		}
	}
	sort.Slice(cp, func(i, j int) bool { return period.Compare(cp[i].Period, cp[j].Period) < 0 })

	merged := make([]Sequence, 0, len(cp))
	cur := cp[0]
	for i := 1; i < len(cp); i++ {
		next := cp[i]
		if cur.Period.Adjacent(next.Period) {
			if instants, ok := joinable(&cur, &next, false); ok {
				cur = mergedSequence(bt, interp, cur.Period, next.Period, instants)
				continue
			}
			merged = append(merged, cur)
			cur = next
			continue
		}
		if cur.Period.Before(next.Period) {
			merged = append(merged, cur)
			cur = next
			continue
		}
		if cur.Period.Overlaps(next.Period) {
			if dupBoundary(cur.Period, next.Period) {
				instants, ok := joinable(&cur, &next, true)
				if !ok {
					return nil, errInvalidf(
						"sequences meet at timestamp %d with different values while both bounds are inclusive", cur.Period.Upper)
				}
				cur = mergedSequence(bt, interp, cur.Period, next.Period, instants)
				continue
			}
			return nil, errInvalidf("sequences overlap: not pairwise time-disjoint")
		}
		// Genuine gap: keep separate.
		merged = append(merged, cur)
		cur = next
	}
	merged = append(merged, cur)

	ss := &SequenceSet{bt: bt, interp: interp, Sequences: merged}
	ss.bbox = computeSequenceSetBBox(bt, merged)
	return ss, nil
}

// mergedSequence builds the Sequence resulting from joining a and b's
// periods and instant lists. The caller (NewSequenceSet) has already
// validated the join via joinable; this just assembles the result and lets
// NewSequence re-run normalization across the new join point.
func mergedSequence(bt valuekit.Type, interp Interp, a, b period.Period, instants []Sample) Sequence {
	p := period.SuperUnion(a, b)
	s, err := NewSequence(bt, interp, p, instants)
	if err != nil {
		// The inputs were already individually valid sequences sharing a
		// verified boundary condition; a failure here would mean joinable
		// and NewSequence disagree about the invariant, which is a bug in
		// this package rather than a reachable runtime condition.
		panic(err)
	}
	return *s
}

func computeSequenceSetBBox(bt valuekit.Type, seqs []Sequence) box.TBox {
	var b box.TBox
	for i, s := range seqs {
		sb := s.BBox()
		if i == 0 {
			b = sb
			continue
		}
		b = box.Union(b, sb)
	}
	return b
}

func (s *SequenceSet) BaseType() valuekit.Type { return s.bt }
func (s *SequenceSet) Interp() Interp          { return s.interp }
func (s *SequenceSet) Subtype() Subtype        { return SubtypeSequenceSet }
func (s *SequenceSet) BBox() box.TBox          { return s.bbox }

func (s *SequenceSet) Samples() []Sample {
	var out []Sample
	for _, seq := range s.Sequences {
		out = append(out, seq.Instants...)
	}
	return out
}

func (s *SequenceSet) TimePeriods() []period.Period {
	out := make([]period.Period, len(s.Sequences))
	for i, seq := range s.Sequences {
		out[i] = seq.Period
	}
	return out
}

// ValueAt evaluates the sequence set at t, returning ok==false if t falls
// in a gap between sequences.
func (s *SequenceSet) ValueAt(t period.Timestamp) (valuekit.Value, bool) {
	for i := range s.Sequences {
		if s.Sequences[i].Period.Contains(t) {
			return s.Sequences[i].ValueAt(t)
		}
	}
	return valuekit.Value{}, false
}
