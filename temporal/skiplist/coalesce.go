package skiplist

import (
	"sort"

	"github.com/tempoval/tempoval/temporal/period"
	"github.com/tempoval/tempoval/temporal/value"
)

// coalesceTemporal re-establishes the normalizer's adjacency-merge
// invariant across the flat list of pieces mergeTemporal produced: two
// time-adjacent pieces whose touching boundary values agree are joined
// into one sequence via value.NewSequenceSet's own merge logic.
func coalesceTemporal(elems []Elem) ([]Elem, error) {
	if len(elems) <= 1 {
		return elems, nil
	}
	sort.Slice(elems, func(i, j int) bool {
		return period.Compare(elems[i].position(), elems[j].position()) < 0
	})
	bt := elems[0].Temporal.BaseType()
	interp := elems[0].Temporal.Interp()

	seqs := make([]value.Sequence, 0, len(elems))
	for _, e := range elems {
		seqs = append(seqs, asSequence(e.Temporal))
	}
	ss, err := value.NewSequenceSet(bt, interp, seqs)
	if err != nil {
		return nil, err
	}
	out := make([]Elem, len(ss.Sequences))
	for i := range ss.Sequences {
		out[i] = Elem{Kind: ElemTemporal, Temporal: &ss.Sequences[i]}
	}
	return out, nil
}

// asSequence widens a bare Instant into a degenerate single-instant
// Sequence so it can flow through value.NewSequenceSet alongside genuine
// sequences; an instantaneous sequence is a valid shape.
func asSequence(v value.Temporal) value.Sequence {
	if seq, ok := v.(*value.Sequence); ok {
		return *seq
	}
	inst := v.(*value.Instant)
	p := period.Instant(inst.Timestamp())
	s, err := value.NewSequence(inst.BaseType(), inst.Interp(), p, []value.Sample{inst.Sample})
	if err != nil {
		// A single-instant sequence over its own degenerate period cannot
		// fail NewSequence's invariants.
		panic(err)
	}
	return *s
}
