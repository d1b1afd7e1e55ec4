package aggregate

import (
	"github.com/tempoval/tempoval/temporal/box"
	"github.com/tempoval/tempoval/temporal/period"
	"github.com/tempoval/tempoval/temporal/value"
)

// ExtentState accumulates the extent aggregate: the smallest bounding box
// enclosing every input seen so far. Unlike t-union/t-count it never
// touches the skiplist; its combine is the box algebra's own Union, which
// is commutative and associative, so transition and combine share one
// implementation.
type ExtentState struct {
	box box.TBox
	set bool
}

// NewExtentState constructs an empty extent transition state.
func NewExtentState() *ExtentState { return &ExtentState{} }

func (s *ExtentState) expand(b box.TBox) {
	if !s.set {
		s.box = b
		s.set = true
		return
	}
	s.box = box.Union(s.box, b)
}

// AddTimestamp expands the extent to cover t.
func (s *ExtentState) AddTimestamp(t period.Timestamp) {
	s.expand(box.TBox{HasTime: true, Time: period.Instant(t)})
}

// AddTimestampSet expands the extent to cover every timestamp in ts.
func (s *ExtentState) AddTimestampSet(ts period.Set) {
	for _, t := range ts {
		s.AddTimestamp(t)
	}
}

// AddPeriod expands the extent to cover p.
func (s *ExtentState) AddPeriod(p period.Period) {
	s.expand(box.TBox{HasTime: true, Time: p})
}

// AddPeriodSet expands the extent to cover every period in ps.
func (s *ExtentState) AddPeriodSet(ps period.PeriodSet) {
	for _, p := range ps.Periods {
		s.AddPeriod(p)
	}
}

// AddTemporal expands the extent to cover v's own precomputed bounding box.
func (s *ExtentState) AddTemporal(v value.Temporal) {
	if v == nil {
		return
	}
	s.expand(v.BBox())
}

// Combine merges another partial extent state into s.
func (s *ExtentState) Combine(other *ExtentState) *ExtentState {
	if !other.set {
		return s
	}
	s.expand(other.box)
	return s
}

// Finalize returns the accumulated bounding box, or ErrEmpty if nothing was
// added.
func (s *ExtentState) Finalize() (box.TBox, error) {
	if !s.set {
		return box.TBox{}, ErrEmpty
	}
	return s.box, nil
}
