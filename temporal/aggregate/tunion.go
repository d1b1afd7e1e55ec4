// Package aggregate implements the time-type aggregation front end:
// t-union, t-count, and extent, each as a transition state that
// accumulates timestamps, timestamp-sets, periods, period-sets, or
// temporal values, plus a Combine for merging two partial states and a
// Finalize producing the user-visible result.
//
// Transition functions follow a null-handling convention: strict=false on
// the state argument and strict=true on the input. An empty timestamp-set
// or period-set, or a nil temporal value, passed to an Add* method is
// treated as the SQL NULL-input no-op; AddTimestamp and AddPeriod always
// fold their argument, zero values included. A freshly constructed state with nothing added yet behaves as the
// NULL-state case (Finalize reports ErrEmpty).
package aggregate

import (
	"github.com/pkg/errors"

	"github.com/tempoval/tempoval/temporal/period"
	"github.com/tempoval/tempoval/temporal/skiplist"
	"github.com/tempoval/tempoval/temporal/value"
)

// ErrEmpty is returned by Finalize when nothing has been added to the
// state (the NULL-state case).
var ErrEmpty = errors.New("aggregate: empty state")

// TUnionState accumulates the running set union of the t-union aggregate.
// Its combine function is null (plain set union); for ElemTemporal input
// this means the aggregated pieces must be pairwise time-disjoint.
type TUnionState struct {
	Arena Arena
	list  *skiplist.List
}

// NewTUnionState constructs an empty t-union transition state under a
// freshly minted arena identity.
func NewTUnionState() *TUnionState {
	return &TUnionState{Arena: NewArena(), list: skiplist.New(nil)}
}

// AddTimestamp folds a single timestamp into the state.
func (s *TUnionState) AddTimestamp(t period.Timestamp) error {
	return s.list.Splice([]skiplist.Elem{skiplist.TimestampElem(t)}, nil, false, nil)
}

// AddTimestampSet folds a timestamp-set into the state.
func (s *TUnionState) AddTimestampSet(ts period.Set) error {
	if len(ts) == 0 {
		return nil
	}
	batch := make([]skiplist.Elem, len(ts))
	for i, t := range ts {
		batch[i] = skiplist.TimestampElem(t)
	}
	return s.list.Splice(batch, nil, false, nil)
}

// AddPeriod folds a single period into the state.
func (s *TUnionState) AddPeriod(p period.Period) error {
	return s.list.Splice([]skiplist.Elem{skiplist.PeriodElem(p)}, nil, false, nil)
}

// AddPeriodSet folds a period-set into the state.
func (s *TUnionState) AddPeriodSet(ps period.PeriodSet) error {
	if len(ps.Periods) == 0 {
		return nil
	}
	batch := make([]skiplist.Elem, len(ps.Periods))
	for i, p := range ps.Periods {
		batch[i] = skiplist.PeriodElem(p)
	}
	return s.list.Splice(batch, nil, false, nil)
}

// AddTemporal folds a temporal value's constituent instants/sequences into
// the state. v's pieces must not overlap in time with anything already
// present, since t-union has no combine function to reconcile an overlap.
func (s *TUnionState) AddTemporal(v value.Temporal) error {
	if v == nil {
		return nil
	}
	batch, err := temporalToElems(v)
	if err != nil {
		return err
	}
	return s.list.Splice(batch, nil, false, nil)
}

// Interrupt requests that any in-flight Add*/Combine call stop at its next
// checkpoint.
func (s *TUnionState) Interrupt() {
	s.Arena.LogInterrupted()
	s.list.Interrupt()
}

// Combine merges another partial t-union state into s: combine of two
// partial aggregation states is performed by taking the larger state and
// splicing the values of the smaller state into it.
func (s *TUnionState) Combine(other *TUnionState) (*TUnionState, error) {
	s.Arena.LogCombine(other.Arena)
	big, small := s, other
	if small.list.Len() > big.list.Len() {
		big, small = small, big
	}
	if _, ok := small.list.Kind(); !ok {
		return big, nil
	}
	batch := append([]skiplist.Elem(nil), small.list.Values()...)
	if err := big.list.Splice(batch, nil, false, nil); err != nil {
		return nil, err
	}
	return big, nil
}

// FinalizeTimestamps returns the accumulated timestamp-set. Only valid if
// AddTimestamp/AddTimestampSet were used.
func (s *TUnionState) FinalizeTimestamps() (period.Set, error) {
	out, err := s.list.FinalizeTimestamps()
	if errors.Is(err, skiplist.ErrNoKind) {
		return nil, ErrEmpty
	}
	return out, err
}

// FinalizePeriods returns the accumulated period-set. Only valid if
// AddPeriod/AddPeriodSet were used.
func (s *TUnionState) FinalizePeriods() (period.PeriodSet, error) {
	out, err := s.list.FinalizePeriods()
	if errors.Is(err, skiplist.ErrNoKind) {
		return period.PeriodSet{}, ErrEmpty
	}
	return out, err
}

// FinalizeTemporal returns the accumulated temporal value. Only valid if
// AddTemporal was used.
func (s *TUnionState) FinalizeTemporal() (value.Temporal, error) {
	out, err := s.list.FinalizeTemporal()
	if errors.Is(err, skiplist.ErrNoKind) {
		return nil, ErrEmpty
	}
	return out, err
}

// temporalToElems widens v into the Instant/Sequence pieces a skiplist
// element can carry.
func temporalToElems(v value.Temporal) ([]skiplist.Elem, error) {
	switch t := v.(type) {
	case *value.Instant:
		e, err := skiplist.TemporalElem(t)
		return []skiplist.Elem{e}, err
	case *value.Sequence:
		e, err := skiplist.TemporalElem(t)
		return []skiplist.Elem{e}, err
	case *value.InstantSet:
		out := make([]skiplist.Elem, len(t.Instants))
		for i, s := range t.Instants {
			inst := value.NewInstant(t.BaseType(), t.Interp(), s)
			e, err := skiplist.TemporalElem(inst)
			if err != nil {
				return nil, err
			}
			out[i] = e
		}
		return out, nil
	case *value.SequenceSet:
		out := make([]skiplist.Elem, len(t.Sequences))
		for i := range t.Sequences {
			e, err := skiplist.TemporalElem(&t.Sequences[i])
			if err != nil {
				return nil, err
			}
			out[i] = e
		}
		return out, nil
	default:
		return nil, errors.Errorf("aggregate: unsupported temporal subtype %T", v)
	}
}
