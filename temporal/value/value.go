// Package value implements the four temporal-value subtypes: instant,
// instant set, sequence, and sequence set, and the shared header/invariant
// machinery they all satisfy. Operations dispatch once at the outer
// boundary on a tagged Subtype, a variant dispatch in place of
// inheritance.
package value

import (
	"github.com/pkg/errors"

	"github.com/tempoval/tempoval/temporal/box"
	"github.com/tempoval/tempoval/temporal/period"
	"github.com/tempoval/tempoval/temporal/valuekit"
)

// Interp is the interpolation mode of a temporal value. It is only
// meaningful when the base type is interpolable (valuekit.Type.Interpolable).
type Interp uint8

const (
	// Step interpolation holds the last observed value until the next.
	Step Interp = iota
	// Linear interpolation computes intermediate values between instants.
	Linear
)

func (i Interp) String() string {
	if i == Linear {
		return "Linear"
	}
	return "Step"
}

// Subtype tags which of the four temporal-value shapes a value has.
type Subtype uint8

const (
	// SubtypeInstant is a single (value, timestamp) pair.
	SubtypeInstant Subtype = iota
	// SubtypeInstantSet is an ordered set of instants with distinct times.
	SubtypeInstantSet
	// SubtypeSequence is instants over a contiguous period.
	SubtypeSequence
	// SubtypeSequenceSet is a time-disjoint union of sequences.
	SubtypeSequenceSet
)

func (s Subtype) String() string {
	switch s {
	case SubtypeInstant:
		return "Instant"
	case SubtypeInstantSet:
		return "InstantSet"
	case SubtypeSequence:
		return "Sequence"
	case SubtypeSequenceSet:
		return "SequenceSet"
	default:
		return "Unknown"
	}
}

// ErrInvalidArgument is the taxonomy entry for malformed inputs: out-of-
// order instants, mismatched interpolation/dimensionality, etc.
var ErrInvalidArgument = errors.New("value: invalid argument")

// ErrTypeMismatch covers operations invoked across incompatible base types
// or interpolations.
var ErrTypeMismatch = errors.New("value: type mismatch")

// Sample is a single (value, timestamp) pair, the payload element carried
// inside InstantSet/Sequence/SequenceSet. It has no header of its own; the
// base type and interpolation live once on the enclosing value, since all
// four subtypes share a header.
type Sample struct {
	Value valuekit.Value
	T     period.Timestamp
}

// Period returns the degenerate period this sample occupies.
func (s Sample) Period() period.Period { return period.Instant(s.T) }

// Temporal is the common capability set every subtype satisfies. Inner
// algorithms (synchronizer, lifter, restriction engine) are written
// generically against this interface and a few capability helpers rather
// than duplicating logic per subtype.
type Temporal interface {
	// BaseType is the base type values vary over.
	BaseType() valuekit.Type
	// Interp is the interpolation mode (meaningful only if BaseType is
	// interpolable).
	Interp() Interp
	// Subtype tags which of the four shapes this value has.
	Subtype() Subtype
	// BBox returns the precomputed bounding box.
	BBox() box.TBox
	// Samples returns the flattened, time-ordered (value, timestamp) pairs
	// making up this value. The returned slice must not be mutated.
	Samples() []Sample
	// TimePeriods returns the time domain as a minimal set of periods: a
	// single degenerate period per instant for Instant/InstantSet, or the
	// (possibly many) sequence periods for Sequence/SequenceSet.
	TimePeriods() []period.Period
}

// Evaluator is a Temporal value that can be sampled at an arbitrary
// timestamp within its time domain. Sequence and SequenceSet interpolate;
// Instant and InstantSet only answer at their own exact timestamps. The
// synchronizer and lifter (package sync) are written against this
// interface so they need not switch on concrete subtype.
type Evaluator interface {
	Temporal
	ValueAt(t period.Timestamp) (valuekit.Value, bool)
}

// computeValueRange scans samples for a NaN-safe numeric value range. Only
// meaningful for float/int base types; returns an empty range otherwise.
func computeValueRange(baseType valuekit.Type, samples []Sample) box.Range {
	r := box.Range{Empty: true}
	switch baseType {
	case valuekit.TypeFloat:
		for _, s := range samples {
			r.Expand(s.Value.F)
		}
	case valuekit.TypeInt:
		for _, s := range samples {
			r.Expand(float64(s.Value.I))
		}
	}
	return r
}

func computeBBoxFromSamples(baseType valuekit.Type, samples []Sample) box.TBox {
	if len(samples) == 0 {
		return box.TBox{}
	}
	p := period.Period{Lower: samples[0].T, Upper: samples[len(samples)-1].T, LowerInc: true, UpperInc: true}
	b := box.TBox{HasTime: true, Time: p}
	vr := computeValueRange(baseType, samples)
	if !vr.Empty {
		b.HasValue = true
		b.Value = vr
	}
	return b
}

// errInvalidf wraps ErrInvalidArgument with a formatted message.
func errInvalidf(format string, args ...interface{}) error {
	return errors.Wrapf(ErrInvalidArgument, format, args...)
}

// validateStrictlyIncreasing checks that samples carry strictly increasing
// timestamps.
func validateStrictlyIncreasing(samples []Sample) error {
	for i := 1; i < len(samples); i++ {
		if samples[i].T <= samples[i-1].T {
			return errors.Wrapf(ErrInvalidArgument, "timestamps not strictly increasing at index %d", i)
		}
	}
	return nil
}

// Narrow returns the narrowest subtype representing v's contents,
// collapsing singleton containers: a sequence-set of one sequence
// collapses to a sequence, a sequence of one instant collapses to an
// instant, an instant set of one instant collapses to an instant.
func Narrow(v Temporal) Temporal {
	switch t := v.(type) {
	case *SequenceSet:
		if len(t.Sequences) == 1 {
			return Narrow(&t.Sequences[0])
		}
		return t
	case *Sequence:
		if len(t.Instants) == 1 {
			return NewInstant(t.bt, t.interp, t.Instants[0])
		}
		return t
	case *InstantSet:
		if len(t.Instants) == 1 {
			return NewInstant(t.bt, t.interp, t.Instants[0])
		}
		return t
	default:
		return v
	}
}
