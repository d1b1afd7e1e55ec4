package value

import (
	"github.com/tempoval/tempoval/temporal/period"
	"github.com/tempoval/tempoval/temporal/valuekit"
)

// normalizeSequenceInPlace removes redundant interior instants. It compares
// each candidate against the last *kept* instant (not the original
// neighbor), which lets cascading redundancy collapse correctly, the same
// incremental-build technique the MobilityDB original uses when
// constructing a sequence (tsequence_make_internal).
func normalizeSequenceInPlace(s *Sequence) {
	if len(s.Instants) <= 2 {
		return
	}
	out := make([]Sample, 1, len(s.Instants))
	out[0] = s.Instants[0]
	for k := 1; k < len(s.Instants)-1; k++ {
		cur := s.Instants[k]
		next := s.Instants[k+1]
		prev := out[len(out)-1]
		if isRedundant(s.bt, s.interp, prev, cur, next) {
			continue
		}
		out = append(out, cur)
	}
	out = append(out, s.Instants[len(s.Instants)-1])
	s.Instants = out
}

// isRedundant implements the sequence redundancy predicate.
func isRedundant(bt valuekit.Type, interp Interp, prev, cur, next Sample) bool {
	if interp == Step {
		return valuekit.Equal(prev.Value, cur.Value)
	}
	// Linear.
	if valuekit.Equal(prev.Value, cur.Value) && valuekit.Equal(cur.Value, next.Value) {
		return true
	}
	if !bt.Interpolable() {
		return false
	}
	return valuekit.Collinear(prev.Value, cur.Value, next.Value, int64(prev.T), int64(cur.T), int64(next.T))
}

// NormalizeSequence returns a copy of s with interior redundant instants
// removed. Construction already normalizes, so this is mostly useful after
// manual instant-slice surgery (e.g. inside the synchronizer).
func NormalizeSequence(s *Sequence) *Sequence {
	cp := *s
	cp.Instants = append([]Sample(nil), s.Instants...)
	normalizeSequenceInPlace(&cp)
	cp.bbox = computeBBoxFromSamples(cp.bt, cp.Instants)
	cp.bbox.HasTime, cp.bbox.Time = true, cp.Period
	return &cp
}

// joinable reports whether two time-adjacent (or boundary-sharing)
// sequences should merge into one, and if so returns the merged instant
// list and period.
//
// dup indicates whether cur and next share the boundary timestamp as a
// literal duplicate sample (both period bounds inclusive there).
func joinable(a, b *Sequence, dup bool) (merged []Sample, ok bool) {
	aInstants := a.Instants
	bInstants := b.Instants
	if dup {
		// Both bounds inclusive at the shared timestamp: the values there
		// must agree, or the construction is rejected outright.
		if !valuekit.Equal(aInstants[len(aInstants)-1].Value, bInstants[0].Value) {
			return nil, false
		}
	}
	// Both interpolations require the joined function to be continuous at
	// the boundary: the segment ending a and the segment starting b must
	// carry the same value there. (Any resulting redundant collinear
	// instant at the join is swept up by the normalizeSequenceInPlace call
	// NewSequence runs over the merged instant list.)
	boundaryA := aInstants[len(aInstants)-1]
	boundaryB := bInstants[0]
	if !valuekit.Equal(boundaryA.Value, boundaryB.Value) {
		return nil, false
	}
	// a's last instant and b's first share the boundary timestamp (whether
	// or not dup), so b's first instant is not repeated.
	out := append([]Sample(nil), aInstants...)
	out = append(out, bInstants[1:]...)
	return out, true
}

// dupBoundary reports whether a.Period and b.Period share a's upper bound
// as a literal duplicate sample timestamp.
func dupBoundary(a, b period.Period) bool {
	return a.Upper == b.Lower && a.UpperInc && b.LowerInc
}
