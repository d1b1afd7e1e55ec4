// Package skiplist implements the aggregation skiplist: a probabilistic
// ordered structure that maintains a normalized, non-overlapping set of
// temporal sub-values (or raw timestamps/periods) being folded by a
// user-supplied combine function, with optional insertion of turning
// points where two overlapping elements cross.
//
// The levelled linked-list and random-height insertion are delegated to
// github.com/huandu/skiplist (the teacher's vendored ordered-list
// primitive); this package supplies the splice/combine/crossing semantics,
// a logical element-count capacity ceiling, and the kind-mixing
// precondition on top of it. Node storage belongs to the library; this
// package keeps no free list of slots.
package skiplist

import (
	"github.com/pkg/errors"

	"github.com/tempoval/tempoval/temporal/period"
	"github.com/tempoval/tempoval/temporal/value"
)

// ElemKind tags what a skiplist element carries. All elements in a list
// must share one kind; splicing a different kind in raises an error at
// splice time.
type ElemKind uint8

const (
	// ElemTimestamp holds a bare timestamp (t-union/t-count over
	// timestamps).
	ElemTimestamp ElemKind = iota
	// ElemPeriod holds a bare period (t-union/extent over periods).
	ElemPeriod
	// ElemTemporal holds a single Instant or Sequence temporal sub-value
	// (generic aggregation of temporal values, and t-count's internal
	// representation of timestamps/periods as value-1 temporal pieces).
	ElemTemporal
)

func (k ElemKind) String() string {
	switch k {
	case ElemTimestamp:
		return "Timestamp"
	case ElemPeriod:
		return "Period"
	case ElemTemporal:
		return "Temporal"
	default:
		return "Unknown"
	}
}

// Elem is one element held in the skiplist.
type Elem struct {
	Kind      ElemKind
	Timestamp period.Timestamp
	Period    period.Period
	Temporal  value.Temporal // only meaningful when Kind == ElemTemporal
}

// TimestampElem constructs a Timestamp-kind element.
func TimestampElem(t period.Timestamp) Elem { return Elem{Kind: ElemTimestamp, Timestamp: t} }

// PeriodElem constructs a Period-kind element.
func PeriodElem(p period.Period) Elem { return Elem{Kind: ElemPeriod, Period: p} }

// TemporalElem constructs a Temporal-kind element. v must be an Instant or
// a Sequence (the only subtypes a single skiplist element can carry).
func TemporalElem(v value.Temporal) (Elem, error) {
	switch v.(type) {
	case *value.Instant, *value.Sequence:
		return Elem{Kind: ElemTemporal, Temporal: v}, nil
	default:
		return Elem{}, errors.Wrapf(value.ErrInvalidArgument, "skiplist: element must be an instant or sequence, got %T", v)
	}
}

// position returns the period this element occupies, used as the
// skiplist's ordering key: each element is keyed by the period position it
// occupies.
func (e Elem) position() period.Period {
	switch e.Kind {
	case ElemTimestamp:
		return period.Instant(e.Timestamp)
	case ElemPeriod:
		return e.Period
	default:
		return e.Temporal.TimePeriods()[0]
	}
}
