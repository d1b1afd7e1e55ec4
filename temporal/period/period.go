// Package period implements the half-open/closed timestamp interval
// algebra and its normalized set form, period-set.
package period

import (
	"fmt"
	"sort"

	"github.com/pkg/errors"
)

// Timestamp is a 64-bit microsecond-resolution instant.
type Timestamp int64

// Period is a timestamp interval with independently inclusive/exclusive
// bounds. The invariant lower <= upper holds; if lower == upper both bounds
// must be inclusive.
type Period struct {
	Lower, Upper       Timestamp
	LowerInc, UpperInc bool
}

// ErrInvalidPeriod is returned when a period's bounds violate the
// lower<=upper / degenerate-inclusivity invariant.
var ErrInvalidPeriod = errors.New("period: invalid bounds")

// New constructs and validates a Period.
func New(lower, upper Timestamp, lowerInc, upperInc bool) (Period, error) {
	p := Period{Lower: lower, Upper: upper, LowerInc: lowerInc, UpperInc: upperInc}
	if err := p.Validate(); err != nil {
		return Period{}, err
	}
	return p, nil
}

// Validate checks the period invariant.
func (p Period) Validate() error {
	if p.Lower > p.Upper {
		return errors.Wrapf(ErrInvalidPeriod, "lower %d > upper %d", p.Lower, p.Upper)
	}
	if p.Lower == p.Upper && !(p.LowerInc && p.UpperInc) {
		return errors.Wrapf(ErrInvalidPeriod, "degenerate period at %d must be inclusive-inclusive", p.Lower)
	}
	return nil
}

// Instant returns the degenerate inclusive-inclusive period [t,t].
func Instant(t Timestamp) Period {
	return Period{Lower: t, Upper: t, LowerInc: true, UpperInc: true}
}

// IsInstant reports whether p is a degenerate single-timestamp period.
func (p Period) IsInstant() bool { return p.Lower == p.Upper }

// Bound is one endpoint of a period, carrying whether it is a lower or
// upper bound and whether it is inclusive there. This carrier type is
// adopted from MobilityDB's PeriodBound (include/period.h).
type Bound struct {
	T         Timestamp
	Inclusive bool
	Lower     bool
}

// LowerBound returns p's lower bound as a Bound.
func (p Period) LowerBound() Bound { return Bound{T: p.Lower, Inclusive: p.LowerInc, Lower: true} }

// UpperBound returns p's upper bound as a Bound.
func (p Period) UpperBound() Bound { return Bound{T: p.Upper, Inclusive: p.UpperInc, Lower: false} }

// CompareBounds implements a three-step lexicographic rule: compare by
// timestamp first; at equal timestamps, a lower bound with inc beats exc,
// and an upper bound with exc beats inc.
func CompareBounds(a, b Bound) int {
	if a.T != b.T {
		if a.T < b.T {
			return -1
		}
		return 1
	}
	if a.Inclusive == b.Inclusive {
		return 0
	}
	// At equal timestamp: for a lower bound, inclusive sorts first;
	// for an upper bound, exclusive sorts first. Mixed lower/upper bound
	// comparisons are not meaningful and treated per this same rule
	// applied to each side's own role.
	aWantsFirst := (a.Lower && a.Inclusive) || (!a.Lower && !a.Inclusive)
	if aWantsFirst {
		return -1
	}
	return 1
}

// Equal reports whether two periods are identical.
func (p Period) Equal(o Period) bool {
	return p.Lower == o.Lower && p.Upper == o.Upper && p.LowerInc == o.LowerInc && p.UpperInc == o.UpperInc
}

// Compare orders two periods by (lower, lower_inc, upper, upper_inc).
func Compare(a, b Period) int {
	if c := CompareBounds(a.LowerBound(), b.LowerBound()); c != 0 {
		return c
	}
	return CompareBounds(a.UpperBound(), b.UpperBound())
}

// Contains reports whether t falls within p, honoring bound inclusivity.
func (p Period) Contains(t Timestamp) bool {
	if t < p.Lower || t > p.Upper {
		return false
	}
	if t == p.Lower && !p.LowerInc {
		return false
	}
	if t == p.Upper && !p.UpperInc {
		return false
	}
	return true
}

// Overlaps reports whether p and o share at least one timestamp.
func (p Period) Overlaps(o Period) bool {
	if p.Upper < o.Lower || o.Upper < p.Lower {
		return false
	}
	if p.Upper == o.Lower && !(p.UpperInc && o.LowerInc) {
		return false
	}
	if o.Upper == p.Lower && !(o.UpperInc && p.LowerInc) {
		return false
	}
	return true
}

// Adjacent reports whether p and o touch at exactly one endpoint with
// exactly one side inclusive there, and do not otherwise overlap.
func (p Period) Adjacent(o Period) bool {
	if p.Upper == o.Lower && p.UpperInc != o.LowerInc {
		return true
	}
	if o.Upper == p.Lower && o.UpperInc != p.LowerInc {
		return true
	}
	return false
}

// Before reports whether p entirely precedes o (no touch, no overlap).
func (p Period) Before(o Period) bool {
	if p.Upper < o.Lower {
		return true
	}
	if p.Upper == o.Lower && !(p.UpperInc && o.LowerInc) {
		return true
	}
	return false
}

// SuperUnion returns the smallest period containing both p and o. Never
// fails.
func SuperUnion(p, o Period) Period {
	result := p
	if o.Lower < result.Lower || (o.Lower == result.Lower && o.LowerInc && !result.LowerInc) {
		result.Lower, result.LowerInc = o.Lower, o.LowerInc
	}
	if o.Upper > result.Upper || (o.Upper == result.Upper && o.UpperInc && !result.UpperInc) {
		result.Upper, result.UpperInc = o.Upper, o.UpperInc
	}
	return result
}

// Intersection returns the overlap of p and o, or ok==false if they do not
// meet.
func Intersection(p, o Period) (result Period, ok bool) {
	if !p.Overlaps(o) {
		return Period{}, false
	}
	lower, lowerInc := p.Lower, p.LowerInc
	if o.Lower > lower || (o.Lower == lower && !o.LowerInc) {
		lower, lowerInc = o.Lower, o.LowerInc
	}
	upper, upperInc := p.Upper, p.UpperInc
	if o.Upper < upper || (o.Upper == upper && !o.UpperInc) {
		upper, upperInc = o.Upper, o.UpperInc
	}
	return Period{Lower: lower, Upper: upper, LowerInc: lowerInc, UpperInc: upperInc}, true
}

// Minus returns p \ o as 0, 1 or 2 periods.
func Minus(p, o Period) []Period {
	inter, ok := Intersection(p, o)
	if !ok {
		return []Period{p}
	}
	var out []Period
	if p.Lower < inter.Lower || (p.Lower == inter.Lower && p.LowerInc && !inter.LowerInc) {
		out = append(out, Period{Lower: p.Lower, Upper: inter.Lower, LowerInc: p.LowerInc, UpperInc: !inter.LowerInc})
	}
	if p.Upper > inter.Upper || (p.Upper == inter.Upper && p.UpperInc && !inter.UpperInc) {
		out = append(out, Period{Lower: inter.Upper, Upper: p.Upper, LowerInc: !inter.UpperInc, UpperInc: p.UpperInc})
	}
	return out
}

// Expand grows p in place to also contain o (used by bbox-style
// accumulation); it is the mutating counterpart of SuperUnion.
func (p *Period) Expand(o Period) {
	*p = SuperUnion(*p, o)
}

// String renders p using the engine's text form ([/( for lower, ]/) for
// upper).
func (p Period) String() string {
	lb := "("
	if p.LowerInc {
		lb = "["
	}
	ub := ")"
	if p.UpperInc {
		ub = "]"
	}
	return fmt.Sprintf("%s%d, %d%s", lb, p.Lower, p.Upper, ub)
}

// Set is a strictly increasing sequence of distinct timestamps.
type Set []Timestamp

// NormalizeSet sorts and de-duplicates timestamps into canonical form.
func NormalizeSet(ts []Timestamp) Set {
	if len(ts) == 0 {
		return nil
	}
	cp := append([]Timestamp(nil), ts...)
	sort.Slice(cp, func(i, j int) bool { return cp[i] < cp[j] })
	out := cp[:1]
	for _, t := range cp[1:] {
		if t != out[len(out)-1] {
			out = append(out, t)
		}
	}
	return out
}

// PeriodSet is a normalized, sorted set of pairwise-disjoint, non-adjacent
// periods.
type PeriodSet struct {
	Periods []Period
}

// NewSet constructs a normalized PeriodSet from arbitrary periods.
func NewSet(periods []Period) PeriodSet {
	return PeriodSet{Periods: Normalize(periods)}
}

// Normalize sorts periods by lower bound then sweeps, merging any two that
// overlap or are adjacent.
func Normalize(periods []Period) []Period {
	if len(periods) == 0 {
		return nil
	}
	cp := append([]Period(nil), periods...)
	sort.Slice(cp, func(i, j int) bool { return Compare(cp[i], cp[j]) < 0 })
	out := make([]Period, 0, len(cp))
	cur := cp[0]
	for _, p := range cp[1:] {
		if cur.Overlaps(p) || cur.Adjacent(p) {
			cur = SuperUnion(cur, p)
			continue
		}
		out = append(out, cur)
		cur = p
	}
	out = append(out, cur)
	return out
}

// Union returns the normalized union of two period-sets.
func Union(a, b PeriodSet) PeriodSet {
	all := append(append([]Period(nil), a.Periods...), b.Periods...)
	return NewSet(all)
}

// SetIntersection returns the normalized intersection of two period-sets.
func SetIntersection(a, b PeriodSet) PeriodSet {
	var out []Period
	i, j := 0, 0
	for i < len(a.Periods) && j < len(b.Periods) {
		if inter, ok := Intersection(a.Periods[i], b.Periods[j]); ok {
			out = append(out, inter)
		}
		switch c := CompareBounds(a.Periods[i].UpperBound(), b.Periods[j].UpperBound()); {
		case c < 0:
			i++
		case c > 0:
			j++
		default:
			i++
			j++
		}
	}
	return NewSet(out)
}

// SetMinus returns a \ b as a normalized period-set.
func SetMinus(a, b PeriodSet) PeriodSet {
	remaining := append([]Period(nil), a.Periods...)
	for _, sub := range b.Periods {
		var next []Period
		for _, p := range remaining {
			next = append(next, Minus(p, sub)...)
		}
		remaining = next
	}
	return NewSet(remaining)
}

// Contains reports whether t falls in any period of ps.
func (ps PeriodSet) Contains(t Timestamp) bool {
	for _, p := range ps.Periods {
		if p.Contains(t) {
			return true
		}
	}
	return false
}

// Span returns the super-union of all periods in ps, or ok==false if ps is
// empty.
func (ps PeriodSet) Span() (Period, bool) {
	if len(ps.Periods) == 0 {
		return Period{}, false
	}
	result := ps.Periods[0]
	for _, p := range ps.Periods[1:] {
		result = SuperUnion(result, p)
	}
	return result, true
}
