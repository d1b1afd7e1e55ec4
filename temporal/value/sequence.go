package value

import (
	"github.com/tempoval/tempoval/temporal/box"
	"github.com/tempoval/tempoval/temporal/period"
	"github.com/tempoval/tempoval/temporal/valuekit"
)

// Sequence is a period plus an ordered vector of instants with a fixed
// interpolation: strictly increasing timestamps, first/last instant
// anchoring the period bounds, degenerate-period single-instant rule, the
// step/exclusive-upper value rule, and normalized form.
type Sequence struct {
	bt       valuekit.Type
	interp   Interp
	Period   period.Period
	Instants []Sample
	bbox     box.TBox
}

// NewSequence validates, normalizes and constructs a Sequence.
func NewSequence(bt valuekit.Type, interp Interp, p period.Period, samples []Sample) (*Sequence, error) {
	if len(samples) == 0 {
		return nil, errInvalidf("sequence requires at least one instant")
	}
	cp := append([]Sample(nil), samples...)
	if err := validateStrictlyIncreasing(cp); err != nil {
		return nil, err
	}
	if cp[0].T != p.Lower || cp[len(cp)-1].T != p.Upper {
		return nil, errInvalidf("sequence instants must anchor the period bounds")
	}
	if p.IsInstant() && len(cp) != 1 {
		return nil, errInvalidf("instantaneous period must carry exactly one instant")
	}
	if !p.IsInstant() && interp == Step && !p.UpperInc && len(cp) >= 2 {
		// The exclusive-upper instant carries only its timestamp for step
		// interpolation: force its value to match the penultimate instant
		// rather than reject the input.
		cp[len(cp)-1].Value = cp[len(cp)-2].Value
	}
	s := &Sequence{bt: bt, interp: interp, Period: p, Instants: cp}
	normalizeSequenceInPlace(s)
	s.bbox = computeBBoxFromSamples(bt, s.Instants)
	s.bbox.HasTime = true
	s.bbox.Time = s.Period
	return s, nil
}

func (s *Sequence) BaseType() valuekit.Type { return s.bt }
func (s *Sequence) Interp() Interp          { return s.interp }
func (s *Sequence) Subtype() Subtype        { return SubtypeSequence }
func (s *Sequence) BBox() box.TBox          { return s.bbox }
func (s *Sequence) Samples() []Sample       { return s.Instants }
func (s *Sequence) TimePeriods() []period.Period {
	return []period.Period{s.Period}
}

// ValueAt evaluates the sequence at timestamp t, which must fall within
// s.Period. Returns ok==false if t is outside the period or lands exactly
// on an excluded bound.
func (s *Sequence) ValueAt(t period.Timestamp) (valuekit.Value, bool) {
	if !s.Period.Contains(t) {
		return valuekit.Value{}, false
	}
	// Binary-search-free linear scan is fine at the scale this engine
	// targets (segments per sequence are small); find the bracketing pair.
	for i := 0; i < len(s.Instants); i++ {
		if s.Instants[i].T == t {
			return s.Instants[i].Value, true
		}
		if s.Instants[i].T > t {
			prev := s.Instants[i-1]
			if s.interp == Step {
				return prev.Value, true
			}
			r := float64(t-prev.T) / float64(s.Instants[i].T-prev.T)
			return valuekit.Interpolate(prev.Value, s.Instants[i].Value, r), true
		}
	}
	// t == last instant's time but period excludes it; unreachable given
	// the Contains check above unless t equals the (included) last time.
	return s.Instants[len(s.Instants)-1].Value, true
}
