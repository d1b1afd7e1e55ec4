package value

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tempoval/tempoval/temporal/period"
	"github.com/tempoval/tempoval/temporal/valuekit"
)

func mustPeriod(t *testing.T, lo, up period.Timestamp, loInc, upInc bool) period.Period {
	t.Helper()
	p, err := period.New(lo, up, loInc, upInc)
	require.NoError(t, err)
	return p
}

func TestNewSequenceRejectsOutOfOrderInstants(t *testing.T) {
	samples := []Sample{
		{Value: valuekit.Float(1), T: 10},
		{Value: valuekit.Float(2), T: 5},
	}
	_, err := NewSequence(valuekit.TypeFloat, Linear, mustPeriod(t, 5, 10, true, true), samples)
	assert.ErrorIs(t, err, ErrInvalidArgument)
}

func TestNewSequenceRequiresInstantsAnchorBounds(t *testing.T) {
	samples := []Sample{
		{Value: valuekit.Float(1), T: 1},
		{Value: valuekit.Float(2), T: 5},
	}
	_, err := NewSequence(valuekit.TypeFloat, Linear, mustPeriod(t, 0, 5, true, true), samples)
	assert.ErrorIs(t, err, ErrInvalidArgument)
}

func TestNewSequenceStepExclusiveUpperOverwritesValue(t *testing.T) {
	p := mustPeriod(t, 0, 10, true, false)
	samples := []Sample{
		{Value: valuekit.Int(1), T: 0},
		{Value: valuekit.Int(99), T: 10},
	}
	seq, err := NewSequence(valuekit.TypeInt, Step, p, samples)
	require.NoError(t, err)
	assert.Equal(t, valuekit.Int(1), seq.Instants[len(seq.Instants)-1].Value)
}

func TestNewSequenceNormalizesRedundantLinearInstant(t *testing.T) {
	p := mustPeriod(t, 0, 10, true, true)
	samples := []Sample{
		{Value: valuekit.Float(0), T: 0},
		{Value: valuekit.Float(5), T: 5}, // collinear with 0@0 and 10@10
		{Value: valuekit.Float(10), T: 10},
	}
	seq, err := NewSequence(valuekit.TypeFloat, Linear, p, samples)
	require.NoError(t, err)
	assert.Len(t, seq.Instants, 2, "the collinear midpoint should be dropped")
}

func TestNewSequenceDegenerateInstantRequiresOneSample(t *testing.T) {
	p := period.Instant(5)
	_, err := NewSequence(valuekit.TypeFloat, Linear, p, []Sample{
		{Value: valuekit.Float(1), T: 5},
		{Value: valuekit.Float(2), T: 5},
	})
	assert.ErrorIs(t, err, ErrInvalidArgument)
}

func TestSequenceValueAtLinearInterpolation(t *testing.T) {
	p := mustPeriod(t, 0, 10, true, true)
	seq, err := NewSequence(valuekit.TypeFloat, Linear, p, []Sample{
		{Value: valuekit.Float(0), T: 0},
		{Value: valuekit.Float(20), T: 10},
	})
	require.NoError(t, err)
	v, ok := seq.ValueAt(5)
	require.True(t, ok)
	assert.InDelta(t, 10.0, v.F, 1e-9)
}

func TestSequenceValueAtOutsidePeriod(t *testing.T) {
	p := mustPeriod(t, 0, 10, true, true)
	seq, err := NewSequence(valuekit.TypeFloat, Step, p, []Sample{
		{Value: valuekit.Float(1), T: 0},
		{Value: valuekit.Float(2), T: 10},
	})
	require.NoError(t, err)
	_, ok := seq.ValueAt(20)
	assert.False(t, ok)
}

func TestNewInstantSetRequiresStrictlyIncreasing(t *testing.T) {
	_, err := NewInstantSet(valuekit.TypeInt, Step, []Sample{
		{Value: valuekit.Int(1), T: 5},
		{Value: valuekit.Int(2), T: 5},
	})
	assert.ErrorIs(t, err, ErrInvalidArgument)
}

func TestNewSequenceSetMergesAdjacentAgreeingBoundary(t *testing.T) {
	a, err := NewSequence(valuekit.TypeFloat, Linear, mustPeriod(t, 0, 5, true, false), []Sample{
		{Value: valuekit.Float(0), T: 0},
		{Value: valuekit.Float(5), T: 5},
	})
	require.NoError(t, err)
	b, err := NewSequence(valuekit.TypeFloat, Linear, mustPeriod(t, 5, 10, true, true), []Sample{
		{Value: valuekit.Float(5), T: 5},
		{Value: valuekit.Float(10), T: 10},
	})
	require.NoError(t, err)
	ss, err := NewSequenceSet(valuekit.TypeFloat, Linear, []Sequence{*a, *b})
	require.NoError(t, err)
	require.Len(t, ss.Sequences, 1, "adjacent sequences with matching boundary values should merge")
	assert.Equal(t, mustPeriod(t, 0, 10, true, true), ss.Sequences[0].Period)
}

func TestNewSequenceSetRejectsDisagreeingSharedBoundary(t *testing.T) {
	a, err := NewSequence(valuekit.TypeFloat, Linear, mustPeriod(t, 0, 5, true, true), []Sample{
		{Value: valuekit.Float(0), T: 0},
		{Value: valuekit.Float(5), T: 5},
	})
	require.NoError(t, err)
	b, err := NewSequence(valuekit.TypeFloat, Linear, mustPeriod(t, 5, 10, true, true), []Sample{
		{Value: valuekit.Float(999), T: 5},
		{Value: valuekit.Float(10), T: 10},
	})
	require.NoError(t, err)
	_, err = NewSequenceSet(valuekit.TypeFloat, Linear, []Sequence{*a, *b})
	assert.ErrorIs(t, err, ErrInvalidArgument)
}

func TestNewSequenceSetRejectsGenuineOverlap(t *testing.T) {
	a, err := NewSequence(valuekit.TypeFloat, Step, mustPeriod(t, 0, 10, true, true), []Sample{
		{Value: valuekit.Float(1), T: 0},
		{Value: valuekit.Float(1), T: 10},
	})
	require.NoError(t, err)
	b, err := NewSequence(valuekit.TypeFloat, Step, mustPeriod(t, 5, 15, true, true), []Sample{
		{Value: valuekit.Float(2), T: 5},
		{Value: valuekit.Float(2), T: 15},
	})
	require.NoError(t, err)
	_, err = NewSequenceSet(valuekit.TypeFloat, Step, []Sequence{*a, *b})
	assert.ErrorIs(t, err, ErrInvalidArgument)
}

func TestNarrowCollapsesSingletons(t *testing.T) {
	seq, err := NewSequence(valuekit.TypeInt, Step, period.Instant(5), []Sample{{Value: valuekit.Int(1), T: 5}})
	require.NoError(t, err)
	narrowed := Narrow(seq)
	_, ok := narrowed.(*Instant)
	assert.True(t, ok, "a single-instant sequence should narrow to an Instant")

	iset, err := NewInstantSet(valuekit.TypeInt, Step, []Sample{{Value: valuekit.Int(1), T: 5}, {Value: valuekit.Int(2), T: 6}})
	require.NoError(t, err)
	assert.Same(t, iset, Narrow(iset).(*InstantSet), "a multi-instant set should not narrow")
}
