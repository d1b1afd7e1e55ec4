package value

import (
	"github.com/tempoval/tempoval/temporal/box"
	"github.com/tempoval/tempoval/temporal/period"
	"github.com/tempoval/tempoval/temporal/valuekit"
)

// Instant is a single (value, timestamp) pair, the simplest temporal
// subtype. It is always treated as the degenerate inclusive-inclusive
// period [t,t].
type Instant struct {
	bt     valuekit.Type
	interp Interp
	Sample Sample
}

// NewInstant constructs an Instant.
func NewInstant(bt valuekit.Type, interp Interp, s Sample) *Instant {
	return &Instant{bt: bt, interp: interp, Sample: s}
}

// NewInstantValue is a convenience constructor inferring a step
// interpolation for non-interpolable base types.
func NewInstantValue(v valuekit.Value, t period.Timestamp, interp Interp) *Instant {
	return NewInstant(v.Type, interp, Sample{Value: v, T: t})
}

func (i *Instant) BaseType() valuekit.Type { return i.bt }
func (i *Instant) Interp() Interp          { return i.interp }
func (i *Instant) Subtype() Subtype        { return SubtypeInstant }
func (i *Instant) Value() valuekit.Value   { return i.Sample.Value }
func (i *Instant) Timestamp() period.Timestamp { return i.Sample.T }

func (i *Instant) BBox() box.TBox {
	b := box.TBox{HasTime: true, Time: i.Sample.Period()}
	switch i.bt {
	case valuekit.TypeFloat:
		b.HasValue = true
		b.Value = box.NewRange(i.Sample.Value.F, i.Sample.Value.F)
	case valuekit.TypeInt:
		b.HasValue = true
		b.Value = box.NewRange(float64(i.Sample.Value.I), float64(i.Sample.Value.I))
	}
	return b
}

func (i *Instant) Samples() []Sample { return []Sample{i.Sample} }

func (i *Instant) TimePeriods() []period.Period { return []period.Period{i.Sample.Period()} }

// ValueAt returns i's value if t equals its timestamp exactly; an instant
// has no surrounding segment to interpolate across.
func (i *Instant) ValueAt(t period.Timestamp) (valuekit.Value, bool) {
	if t == i.Sample.T {
		return i.Sample.Value, true
	}
	return valuekit.Value{}, false
}
