package value

import (
	"github.com/tempoval/tempoval/temporal/box"
	"github.com/tempoval/tempoval/temporal/period"
	"github.com/tempoval/tempoval/temporal/valuekit"
)

// InstantSet is an ordered set of instants with strictly increasing
// timestamps. If interpolation is step and consecutive values are equal,
// redundant instants may be dropped.
type InstantSet struct {
	bt       valuekit.Type
	interp   Interp
	Instants []Sample
	bbox     box.TBox
}

// NewInstantSet validates and constructs an InstantSet. samples is copied
// defensively: composed values are consumed-or-cloned at the boundary.
func NewInstantSet(bt valuekit.Type, interp Interp, samples []Sample) (*InstantSet, error) {
	if len(samples) == 0 {
		return nil, errInvalidf("instant set requires at least one instant")
	}
	cp := append([]Sample(nil), samples...)
	if err := validateStrictlyIncreasing(cp); err != nil {
		return nil, err
	}
	return &InstantSet{bt: bt, interp: interp, Instants: cp, bbox: computeBBoxFromSamples(bt, cp)}, nil
}

func (s *InstantSet) BaseType() valuekit.Type     { return s.bt }
func (s *InstantSet) Interp() Interp              { return s.interp }
func (s *InstantSet) Subtype() Subtype            { return SubtypeInstantSet }
func (s *InstantSet) BBox() box.TBox              { return s.bbox }
func (s *InstantSet) Samples() []Sample           { return s.Instants }
func (s *InstantSet) TimePeriods() []period.Period {
	out := make([]period.Period, len(s.Instants))
	for i, inst := range s.Instants {
		out[i] = inst.Period()
	}
	return out
}

// ValueAt returns the value at timestamp t if s has an instant there
// exactly; no interpolation is meaningful between an instant set's members.
func (s *InstantSet) ValueAt(t period.Timestamp) (valuekit.Value, bool) {
	for _, inst := range s.Instants {
		if inst.T == t {
			return inst.Value, true
		}
		if inst.T > t {
			break
		}
	}
	return valuekit.Value{}, false
}
