package aggregate

import (
	"github.com/pkg/errors"

	"github.com/tempoval/tempoval/temporal/period"
	"github.com/tempoval/tempoval/temporal/skiplist"
	"github.com/tempoval/tempoval/temporal/value"
	"github.com/tempoval/tempoval/temporal/valuekit"
)

// addInts is t-count's combine function: two overlapping unit-count pieces
// sum pointwise.
func addInts(a, b valuekit.Value) valuekit.Value {
	return valuekit.Int(a.I + b.I)
}

// TCountState accumulates the t-count aggregate: at every instant touched
// by at least one input, the result is the number of
// inputs covering that instant. Timestamps/periods are turned into unit
// step-valued int sequences so the same skiplist combine machinery used
// for t-union's temporal values also drives t-count.
type TCountState struct {
	Arena Arena
	list  *skiplist.List
}

// NewTCountState constructs an empty t-count transition state under a
// freshly minted arena identity.
func NewTCountState() *TCountState {
	return &TCountState{Arena: NewArena(), list: skiplist.New(nil)}
}

func unitInstant(t period.Timestamp) *value.Instant {
	return value.NewInstant(valuekit.TypeInt, value.Step, value.Sample{Value: valuekit.Int(1), T: t})
}

func unitSequence(p period.Period) (*value.Sequence, error) {
	samples := []value.Sample{{Value: valuekit.Int(1), T: p.Lower}}
	if p.Upper != p.Lower {
		samples = append(samples, value.Sample{Value: valuekit.Int(1), T: p.Upper})
	}
	return value.NewSequence(valuekit.TypeInt, value.Step, p, samples)
}

// AddTimestamp counts a single instant.
func (s *TCountState) AddTimestamp(t period.Timestamp) error {
	e, err := skiplist.TemporalElem(unitInstant(t))
	if err != nil {
		return err
	}
	return s.list.Splice([]skiplist.Elem{e}, addInts, false, nil)
}

// AddTimestampSet counts every instant in ts.
func (s *TCountState) AddTimestampSet(ts period.Set) error {
	if len(ts) == 0 {
		return nil
	}
	batch := make([]skiplist.Elem, len(ts))
	for i, t := range ts {
		e, err := skiplist.TemporalElem(unitInstant(t))
		if err != nil {
			return err
		}
		batch[i] = e
	}
	return s.list.Splice(batch, addInts, false, nil)
}

// AddPeriod counts every instant within p.
func (s *TCountState) AddPeriod(p period.Period) error {
	seq, err := unitSequence(p)
	if err != nil {
		return err
	}
	e, err := skiplist.TemporalElem(seq)
	if err != nil {
		return err
	}
	return s.list.Splice([]skiplist.Elem{e}, addInts, false, nil)
}

// AddPeriodSet counts every instant within ps.
func (s *TCountState) AddPeriodSet(ps period.PeriodSet) error {
	if len(ps.Periods) == 0 {
		return nil
	}
	batch := make([]skiplist.Elem, len(ps.Periods))
	for i, p := range ps.Periods {
		seq, err := unitSequence(p)
		if err != nil {
			return err
		}
		e, err := skiplist.TemporalElem(seq)
		if err != nil {
			return err
		}
		batch[i] = e
	}
	return s.list.Splice(batch, addInts, false, nil)
}

// AddTemporal counts every instant/sequence in v's time domain, ignoring
// its base value (only coverage matters for t-count).
func (s *TCountState) AddTemporal(v value.Temporal) error {
	if v == nil {
		return nil
	}
	batch := make([]skiplist.Elem, 0, len(v.TimePeriods()))
	for _, p := range v.TimePeriods() {
		seq, err := unitSequence(p)
		if err != nil {
			return err
		}
		e, err := skiplist.TemporalElem(seq)
		if err != nil {
			return err
		}
		batch = append(batch, e)
	}
	return s.list.Splice(batch, addInts, false, nil)
}

// Interrupt requests that any in-flight Add*/Combine call stop at its next
// checkpoint.
func (s *TCountState) Interrupt() {
	s.Arena.LogInterrupted()
	s.list.Interrupt()
}

// Combine merges another partial t-count state into s.
func (s *TCountState) Combine(other *TCountState) (*TCountState, error) {
	s.Arena.LogCombine(other.Arena)
	big, small := s, other
	if small.list.Len() > big.list.Len() {
		big, small = small, big
	}
	if _, ok := small.list.Kind(); !ok {
		return big, nil
	}
	batch := append([]skiplist.Elem(nil), small.list.Values()...)
	if err := big.list.Splice(batch, addInts, false, nil); err != nil {
		return nil, err
	}
	return big, nil
}

// Finalize returns the running count as a temporal int value, narrowed to
// its minimal subtype.
func (s *TCountState) Finalize() (value.Temporal, error) {
	out, err := s.list.FinalizeTemporal()
	if errors.Is(err, skiplist.ErrNoKind) {
		return nil, ErrEmpty
	}
	return out, err
}
