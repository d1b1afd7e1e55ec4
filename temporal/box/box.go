// Package box implements the axis-aligned bounding boxes used to bound
// temporal values: TBox (value range + time period) and STBox (TBox plus
// spatial extent).
package box

import (
	"math"

	"github.com/tempoval/tempoval/temporal/period"
)

// Range is an inclusive numeric value range. Empty is a distinct state (no
// observed value yet), distinguishing "no range" from "range [0,0]".
type Range struct {
	Min, Max float64
	Empty    bool
}

// NewRange constructs a non-empty range.
func NewRange(min, max float64) Range { return Range{Min: min, Max: max} }

// Expand grows r in place to also contain v.
func (r *Range) Expand(v float64) {
	if r.Empty {
		*r = Range{Min: v, Max: v}
		return
	}
	if v < r.Min {
		r.Min = v
	}
	if v > r.Max {
		r.Max = v
	}
}

// UnionRange returns the smallest range containing both a and b.
func UnionRange(a, b Range) Range {
	if a.Empty {
		return b
	}
	if b.Empty {
		return a
	}
	out := a
	out.Expand(b.Min)
	out.Expand(b.Max)
	return out
}

// Contains reports whether v lies in r.
func (r Range) Contains(v float64) bool {
	if r.Empty {
		return false
	}
	return v >= r.Min && v <= r.Max
}

// size returns max-min, or 0 for an empty/zero-width range, without ever
// producing NaN: zero times infinity is zero by definition here.
func (r Range) size() float64 {
	if r.Empty {
		return 0
	}
	if math.IsInf(r.Max-r.Min, 0) {
		return math.Inf(1)
	}
	return r.Max - r.Min
}

// TBox combines an optional value range and an optional time period.
type TBox struct {
	HasValue bool
	Value    Range
	HasTime  bool
	Time     period.Period
}

// Contains reports whether (value, t) could be produced by a temporal
// value bounded by b; dimensions absent from b are not checked.
func (b TBox) Contains(value float64, t period.Timestamp) bool {
	if b.HasValue && !b.Value.Contains(value) {
		return false
	}
	if b.HasTime && !b.Time.Contains(t) {
		return false
	}
	return true
}

// Overlaps reports whether a and b could describe overlapping regions.
func (a TBox) Overlaps(b TBox) bool {
	if a.HasValue && b.HasValue {
		if a.Value.Max < b.Value.Min || b.Value.Max < a.Value.Min {
			return false
		}
	}
	if a.HasTime && b.HasTime && !a.Time.Overlaps(b.Time) {
		return false
	}
	return true
}

// Same reports exact equality of both dimensions present in a and b.
func (a TBox) Same(b TBox) bool {
	if a.HasValue != b.HasValue || a.HasTime != b.HasTime {
		return false
	}
	if a.HasValue && (a.Value.Min != b.Value.Min || a.Value.Max != b.Value.Max) {
		return false
	}
	if a.HasTime && !a.Time.Equal(b.Time) {
		return false
	}
	return true
}

// Adjacent reports whether a and b meet on exactly one bound of the time
// dimension while their value ranges overlap (or either lacks a value
// dimension).
func (a TBox) Adjacent(b TBox) bool {
	if !a.HasTime || !b.HasTime {
		return false
	}
	if !a.Time.Adjacent(b.Time) {
		return false
	}
	if a.HasValue && b.HasValue && !(a.Value.Max >= b.Value.Min && b.Value.Max >= a.Value.Min) {
		return false
	}
	return true
}

// Positional predicates: left/overleft/right/overright operate on the
// value dimension; before/overbefore/after/overafter operate on the time
// dimension.

// Left reports whether a lies strictly left of (below the value range of) b.
func (a TBox) Left(b TBox) bool {
	return a.HasValue && b.HasValue && a.Value.Max < b.Value.Min
}

// OverLeft reports whether a does not extend to the right of b (value dim).
func (a TBox) OverLeft(b TBox) bool {
	return a.HasValue && b.HasValue && a.Value.Max <= b.Value.Max
}

// Right reports whether a lies strictly right of b.
func (a TBox) Right(b TBox) bool { return b.Left(a) }

// OverRight reports whether a does not extend to the left of b.
func (a TBox) OverRight(b TBox) bool {
	return a.HasValue && b.HasValue && a.Value.Min >= b.Value.Min
}

// Before reports whether a lies strictly before b in time.
func (a TBox) Before(b TBox) bool {
	return a.HasTime && b.HasTime && a.Time.Before(b.Time)
}

// OverBefore reports whether a does not extend after b in time.
func (a TBox) OverBefore(b TBox) bool {
	return a.HasTime && b.HasTime && a.Time.Upper <= b.Time.Upper
}

// After reports whether a lies strictly after b in time.
func (a TBox) After(b TBox) bool { return b.Before(a) }

// OverAfter reports whether a does not extend before b in time.
func (a TBox) OverAfter(b TBox) bool {
	return a.HasTime && b.HasTime && a.Time.Lower >= b.Time.Lower
}

// Union returns the smallest TBox containing both a and b.
func Union(a, b TBox) TBox {
	out := TBox{}
	if a.HasValue || b.HasValue {
		out.HasValue = true
		switch {
		case !a.HasValue:
			out.Value = b.Value
		case !b.HasValue:
			out.Value = a.Value
		default:
			out.Value = UnionRange(a.Value, b.Value)
		}
	}
	if a.HasTime || b.HasTime {
		out.HasTime = true
		switch {
		case !a.HasTime:
			out.Time = b.Time
		case !b.HasTime:
			out.Time = a.Time
		default:
			out.Time = period.SuperUnion(a.Time, b.Time)
		}
	}
	return out
}

// ExpandTime grows b's time dimension in place.
func (b *TBox) ExpandTime(p period.Period) {
	if !b.HasTime {
		b.HasTime = true
		b.Time = p
		return
	}
	b.Time = period.SuperUnion(b.Time, p)
}

// ExpandValue grows b's value dimension in place.
func (b *TBox) ExpandValue(v float64) {
	b.HasValue = true
	b.Value.Expand(v)
}

// Size returns a NaN-safe measure of b's area (value-width * time-width),
// used by Penalty. A zero-width dimension contributes 0 rather than NaN.
func (b TBox) Size() float64 {
	vs := 1.0
	if b.HasValue {
		vs = b.Value.size()
	}
	ts := 1.0
	if b.HasTime {
		ts = float64(b.Time.Upper - b.Time.Lower)
	}
	if vs == 0 || ts == 0 {
		return 0
	}
	return vs * ts
}

// Penalty computes the GiST-style insertion penalty of adding box child
// under a node with box n: size(union(n, child)) - size(n), clamped to
// non-negative, or +Inf if any coordinate is NaN.
func Penalty(n, child TBox) float64 {
	if math.IsNaN(n.Value.Min) || math.IsNaN(n.Value.Max) || math.IsNaN(child.Value.Min) || math.IsNaN(child.Value.Max) {
		return math.Inf(1)
	}
	delta := Union(n, child).Size() - n.Size()
	if delta < 0 {
		return 0
	}
	return delta
}

// STBox extends TBox with optional spatial extent and geodetic/SRID
// metadata.
type STBox struct {
	TBox
	HasSpace  bool
	X, Y, Z   Range
	SRID      int32
	Geodetic  bool
}

// ExpandSpace grows b's spatial dimensions in place.
func (b *STBox) ExpandSpace(x, y, z float64, hasZ bool) {
	b.HasSpace = true
	b.X.Expand(x)
	b.Y.Expand(y)
	if hasZ {
		b.Z.Expand(z)
	}
}

// Overlaps reports spatial+temporal+value overlap across all dimensions
// present in both boxes.
func (a STBox) Overlaps(b STBox) bool {
	if !a.TBox.Overlaps(b.TBox) {
		return false
	}
	if a.HasSpace && b.HasSpace {
		if a.X.Max < b.X.Min || b.X.Max < a.X.Min {
			return false
		}
		if a.Y.Max < b.Y.Min || b.Y.Max < a.Y.Min {
			return false
		}
	}
	return true
}

// Below reports whether a's Y range lies strictly below b's.
func (a STBox) Below(b STBox) bool { return a.HasSpace && b.HasSpace && a.Y.Max < b.Y.Min }

// Above reports whether a's Y range lies strictly above b's.
func (a STBox) Above(b STBox) bool { return b.Below(a) }

// Front reports whether a's X range lies strictly before b's, the
// additional spatial axis pair's before/after analogue.
func (a STBox) Front(b STBox) bool { return a.HasSpace && b.HasSpace && a.X.Max < b.X.Min }

// Back reports whether a's X range lies strictly after b's.
func (a STBox) Back(b STBox) bool { return b.Front(a) }

// AdjacentSTBox reports whether a and b meet on exactly one hyperface.
func (a STBox) AdjacentSTBox(b STBox) bool {
	faces := 0
	timeFace := a.HasTime && b.HasTime && a.Time.Adjacent(b.Time)
	if timeFace {
		faces++
	}
	if a.HasSpace && b.HasSpace {
		if a.X.Max == b.X.Min || b.X.Max == a.X.Min {
			faces++
		}
		if a.Y.Max == b.Y.Min || b.Y.Max == a.Y.Min {
			faces++
		}
	}
	if faces != 1 {
		return false
	}
	if timeFace {
		// Adjacent periods only touch, so the overlap check covers the
		// remaining dimensions only.
		a.HasTime, b.HasTime = false, false
	}
	return a.Overlaps(b)
}

// UnionSTBox returns the smallest STBox containing both a and b.
func UnionSTBox(a, b STBox) STBox {
	out := STBox{TBox: Union(a.TBox, b.TBox)}
	if a.HasSpace || b.HasSpace {
		out.HasSpace = true
		out.X = UnionRange(a.X, b.X)
		out.Y = UnionRange(a.Y, b.Y)
		out.Z = UnionRange(a.Z, b.Z)
	}
	out.SRID = a.SRID
	out.Geodetic = a.Geodetic || b.Geodetic
	return out
}
