package sync

import (
	"github.com/pkg/errors"

	"github.com/tempoval/tempoval/temporal/period"
	"github.com/tempoval/tempoval/temporal/value"
)

// Mode selects how Synchronize aligns two temporal values.
type Mode uint8

const (
	// Intersect restricts both values to their common time domain,
	// aligning instants the same way Synchronize does. This implementation
	// treats the two identically and reserves SynchronizeWithCrossings as
	// the only mode that changes the walk.
	Intersect Mode = iota
	// Synchronize aligns both values onto the union of their instant
	// timestamps within the common domain, synthesising the other side's
	// value at each timestamp it lacks.
	Synchronize
	// SynchronizeWithCrossings additionally inserts a pair of instants at
	// any interior point where two linear segments cross.
	SynchronizeWithCrossings
)

// Synchronize aligns a and b onto a common time domain. It returns
// ok==false (no error) if the two values' time domains do not overlap.
func Synchronize(a, b value.Evaluator, mode Mode) (aPrime, bPrime value.Temporal, ok bool, err error) {
	if a.BaseType() != b.BaseType() {
		return nil, nil, false, errors.Wrapf(value.ErrTypeMismatch, "synchronize: %s vs %s", a.BaseType(), b.BaseType())
	}

	common := period.SetIntersection(period.NewSet(a.TimePeriods()), period.NewSet(b.TimePeriods()))
	if len(common.Periods) == 0 {
		return nil, nil, false, nil
	}

	var segA, segB []value.Sequence
	for _, p := range common.Periods {
		outA, outB, err := alignOverPeriod(a, b, p, mode)
		if err != nil {
			return nil, nil, false, err
		}
		if len(outA) == 0 {
			continue
		}
		segPeriod := period.Period{
			Lower: outA[0].T, Upper: outA[len(outA)-1].T,
			LowerInc: p.LowerInc, UpperInc: p.UpperInc,
		}
		sa, err := value.NewSequence(a.BaseType(), a.Interp(), segPeriod, outA)
		if err != nil {
			return nil, nil, false, err
		}
		sb, err := value.NewSequence(b.BaseType(), b.Interp(), segPeriod, outB)
		if err != nil {
			return nil, nil, false, err
		}
		// NewSequence drops redundant instants; put every aligned instant
		// back so both sides keep pairwise equal timestamps, keeping the
		// last value NewSequence settled on.
		lastA, lastB := sa.Instants[len(sa.Instants)-1].Value, sb.Instants[len(sb.Instants)-1].Value
		sa.Instants = append([]value.Sample(nil), outA...)
		sb.Instants = append([]value.Sample(nil), outB...)
		sa.Instants[len(outA)-1].Value, sb.Instants[len(outB)-1].Value = lastA, lastB
		segA = append(segA, *sa)
		segB = append(segB, *sb)
	}
	if len(segA) == 0 {
		return nil, nil, false, nil
	}
	if len(segA) == 1 {
		return value.Narrow(&segA[0]), value.Narrow(&segB[0]), true, nil
	}
	ssA, err := value.NewSequenceSet(a.BaseType(), a.Interp(), segA)
	if err != nil {
		return nil, nil, false, err
	}
	ssB, err := value.NewSequenceSet(b.BaseType(), b.Interp(), segB)
	if err != nil {
		return nil, nil, false, err
	}
	return value.Narrow(ssA), value.Narrow(ssB), true, nil
}

// alignOverPeriod walks a and b's instant streams in lock-step over p,
// synthesising the aligned instant on whichever side advances past the
// other, and, for mode == SynchronizeWithCrossings, inserting crossing
// instants where two linear segments intersect.
func alignOverPeriod(a, b value.Evaluator, p period.Period, mode Mode) (outA, outB []value.Sample, err error) {
	var candidates []period.Timestamp
	for _, s := range a.Samples() {
		if p.Contains(s.T) {
			candidates = append(candidates, s.T)
		}
	}
	for _, s := range b.Samples() {
		if p.Contains(s.T) {
			candidates = append(candidates, s.T)
		}
	}
	if p.LowerInc {
		candidates = append(candidates, p.Lower)
	}
	if p.UpperInc {
		candidates = append(candidates, p.Upper)
	}
	ts := period.NormalizeSet(candidates)

	var rawA, rawB []value.Sample
	for _, t := range ts {
		va, oka := a.ValueAt(t)
		vb, okb := b.ValueAt(t)
		if !oka || !okb {
			continue
		}
		rawA = append(rawA, value.Sample{Value: va, T: t})
		rawB = append(rawB, value.Sample{Value: vb, T: t})
	}
	if len(rawA) == 0 {
		return nil, nil, nil
	}
	if mode != SynchronizeWithCrossings || len(rawA) < 2 || !(a.Interp() == value.Linear || b.Interp() == value.Linear) {
		return rawA, rawB, nil
	}

	outA = append(outA, rawA[0])
	outB = append(outB, rawB[0])
	for i := 0; i < len(rawA)-1; i++ {
		t0, t1 := rawA[i].T, rawA[i+1].T
		if tc, ok := IntersectsAt(a.BaseType(), a.Interp(), b.Interp(), rawA[i].Value, rawA[i+1].Value, rawB[i].Value, rawB[i+1].Value, t0, t1); ok {
			vca, _ := a.ValueAt(tc)
			vcb, _ := b.ValueAt(tc)
			outA = append(outA, value.Sample{Value: vca, T: tc})
			outB = append(outB, value.Sample{Value: vcb, T: tc})
		}
		outA = append(outA, rawA[i+1])
		outB = append(outB, rawB[i+1])
	}
	return outA, outB, nil
}
