package sync

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tempoval/tempoval/temporal/period"
	"github.com/tempoval/tempoval/temporal/value"
	"github.com/tempoval/tempoval/temporal/valuekit"
)

func mustPeriod(t *testing.T, lo, up period.Timestamp, loInc, upInc bool) period.Period {
	t.Helper()
	p, err := period.New(lo, up, loInc, upInc)
	require.NoError(t, err)
	return p
}

func mustSequence(t *testing.T, bt valuekit.Type, interp value.Interp, p period.Period, samples []value.Sample) *value.Sequence {
	t.Helper()
	s, err := value.NewSequence(bt, interp, p, samples)
	require.NoError(t, err)
	return s
}

func TestSynchronizeDisjointDomainsReturnsNotOK(t *testing.T) {
	a := mustSequence(t, valuekit.TypeFloat, value.Linear, mustPeriod(t, 0, 5, true, true), []value.Sample{
		{Value: valuekit.Float(0), T: 0},
		{Value: valuekit.Float(5), T: 5},
	})
	b := mustSequence(t, valuekit.TypeFloat, value.Linear, mustPeriod(t, 10, 15, true, true), []value.Sample{
		{Value: valuekit.Float(0), T: 10},
		{Value: valuekit.Float(5), T: 15},
	})
	_, _, ok, err := Synchronize(a, b, Synchronize)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestSynchronizeRejectsTypeMismatch(t *testing.T) {
	a := mustSequence(t, valuekit.TypeFloat, value.Linear, mustPeriod(t, 0, 5, true, true), []value.Sample{
		{Value: valuekit.Float(0), T: 0},
		{Value: valuekit.Float(5), T: 5},
	})
	b := mustSequence(t, valuekit.TypeInt, value.Step, mustPeriod(t, 0, 5, true, true), []value.Sample{
		{Value: valuekit.Int(0), T: 0},
		{Value: valuekit.Int(5), T: 5},
	})
	_, _, _, err := Synchronize(a, b, Synchronize)
	assert.ErrorIs(t, err, value.ErrTypeMismatch)
}

func TestSynchronizeUnionsTimestampsAndSynthesizesValues(t *testing.T) {
	a := mustSequence(t, valuekit.TypeFloat, value.Linear, mustPeriod(t, 0, 10, true, true), []value.Sample{
		{Value: valuekit.Float(0), T: 0},
		{Value: valuekit.Float(10), T: 10},
	})
	b := mustSequence(t, valuekit.TypeFloat, value.Linear, mustPeriod(t, 0, 10, true, true), []value.Sample{
		{Value: valuekit.Float(100), T: 0},
		{Value: valuekit.Float(0), T: 5},
		{Value: valuekit.Float(100), T: 10},
	})
	aPrime, bPrime, ok, err := Synchronize(a, b, Synchronize)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, []period.Timestamp{0, 5, 10}, timestampsOf(aPrime))
	assert.Equal(t, []period.Timestamp{0, 5, 10}, timestampsOf(bPrime))
}

func TestSynchronizeWithCrossingsInsertsInteriorInstant(t *testing.T) {
	a := mustSequence(t, valuekit.TypeFloat, value.Linear, mustPeriod(t, 0, 10, true, true), []value.Sample{
		{Value: valuekit.Float(0), T: 0},
		{Value: valuekit.Float(10), T: 10},
	})
	b := mustSequence(t, valuekit.TypeFloat, value.Linear, mustPeriod(t, 0, 10, true, true), []value.Sample{
		{Value: valuekit.Float(10), T: 0},
		{Value: valuekit.Float(0), T: 10},
	})
	aPrime, _, ok, err := Synchronize(a, b, SynchronizeWithCrossings)
	require.NoError(t, err)
	require.True(t, ok)
	ts := timestampsOf(aPrime)
	require.Len(t, ts, 3, "a crossing instant should be inserted at the midpoint")
	assert.Equal(t, period.Timestamp(5), ts[1])
}

func timestampsOf(v value.Temporal) []period.Timestamp {
	samples := v.(value.Evaluator).Samples()
	out := make([]period.Timestamp, len(samples))
	for i, s := range samples {
		out[i] = s.T
	}
	return out
}

func TestIntersectsAtStepVsLinear(t *testing.T) {
	t0, t1 := period.Timestamp(0), period.Timestamp(10)
	tc, ok := IntersectsAt(valuekit.TypeFloat, value.Step, value.Linear,
		valuekit.Float(5), valuekit.Float(5), // step side, constant
		valuekit.Float(0), valuekit.Float(10), // linear side, 0 -> 10
		t0, t1)
	require.True(t, ok)
	assert.Equal(t, period.Timestamp(5), tc)
}

func TestIntersectsAtTwoStepsNeverCross(t *testing.T) {
	_, ok := IntersectsAt(valuekit.TypeFloat, value.Step, value.Step,
		valuekit.Float(5), valuekit.Float(5),
		valuekit.Float(1), valuekit.Float(1),
		0, 10)
	assert.False(t, ok)
}

func TestIntersectsAtParallelLinesNeverCross(t *testing.T) {
	_, ok := IntersectsAt(valuekit.TypeFloat, value.Linear, value.Linear,
		valuekit.Float(0), valuekit.Float(10),
		valuekit.Float(5), valuekit.Float(15),
		0, 10)
	assert.False(t, ok)
}

func TestIntersectsAtEndpointTouchIsNotInterior(t *testing.T) {
	_, ok := IntersectsAt(valuekit.TypeFloat, value.Linear, value.Linear,
		valuekit.Float(0), valuekit.Float(10),
		valuekit.Float(0), valuekit.Float(5),
		0, 10)
	assert.False(t, ok, "segments that only touch at t0 should not report an interior crossing")
}

func TestLiftPreservesSequenceShape(t *testing.T) {
	seq := mustSequence(t, valuekit.TypeFloat, value.Linear, mustPeriod(t, 0, 10, true, true), []value.Sample{
		{Value: valuekit.Float(1), T: 0},
		{Value: valuekit.Float(2), T: 10},
	})
	double := func(v valuekit.Value) valuekit.Value { return valuekit.Float(v.F * 2) }
	out, err := Lift(double, seq, LfInfo{ResultType: valuekit.TypeFloat, ResultInterp: value.Linear})
	require.NoError(t, err)
	s, ok := out.(*value.Sequence)
	require.True(t, ok)
	assert.InDelta(t, 2.0, s.Instants[0].Value.F, 1e-9)
	assert.InDelta(t, 4.0, s.Instants[1].Value.F, 1e-9)
}

func TestSyncLiftDiscontinuousSplitsOnValueChange(t *testing.T) {
	a := mustSequence(t, valuekit.TypeFloat, value.Linear, mustPeriod(t, 0, 10, true, true), []value.Sample{
		{Value: valuekit.Float(0), T: 0},
		{Value: valuekit.Float(10), T: 10},
	})
	b := mustSequence(t, valuekit.TypeFloat, value.Linear, mustPeriod(t, 0, 10, true, true), []value.Sample{
		{Value: valuekit.Float(10), T: 0},
		{Value: valuekit.Float(0), T: 10},
	})
	lessThan := func(x, y valuekit.Value) valuekit.Value { return valuekit.Bool(x.F < y.F) }
	out, err := SyncLift(lessThan, a, b, LfInfo{ResultType: valuekit.TypeBool, Discontinuous: true})
	require.NoError(t, err)
	ss, ok := out.(*value.SequenceSet)
	require.True(t, ok, "a discontinuous comparison that flips should split into multiple runs")
	assert.GreaterOrEqual(t, len(ss.Sequences), 2)
}

func TestSyncLiftNoOverlapReturnsErrEmptyResult(t *testing.T) {
	a := mustSequence(t, valuekit.TypeFloat, value.Linear, mustPeriod(t, 0, 5, true, true), []value.Sample{
		{Value: valuekit.Float(0), T: 0},
		{Value: valuekit.Float(5), T: 5},
	})
	b := mustSequence(t, valuekit.TypeFloat, value.Linear, mustPeriod(t, 10, 15, true, true), []value.Sample{
		{Value: valuekit.Float(0), T: 10},
		{Value: valuekit.Float(5), T: 15},
	})
	add := func(x, y valuekit.Value) valuekit.Value { return valuekit.Float(x.F + y.F) }
	_, err := SyncLift(add, a, b, LfInfo{ResultType: valuekit.TypeFloat, ResultInterp: value.Linear})
	assert.ErrorIs(t, err, ErrEmptyResult)
}
