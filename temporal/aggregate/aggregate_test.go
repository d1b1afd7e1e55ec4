package aggregate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tempoval/tempoval/temporal/period"
	"github.com/tempoval/tempoval/temporal/value"
	"github.com/tempoval/tempoval/temporal/valuekit"
)

func mustPeriod(t *testing.T, lo, up period.Timestamp) period.Period {
	t.Helper()
	p, err := period.New(lo, up, true, true)
	require.NoError(t, err)
	return p
}

func TestTUnionStateDisjointInstants(t *testing.T) {
	s := NewTUnionState()
	require.NoError(t, s.AddTemporal(value.NewInstant(valuekit.TypeInt, value.Step, value.Sample{Value: valuekit.Int(1), T: 1})))
	require.NoError(t, s.AddTemporal(value.NewInstant(valuekit.TypeInt, value.Step, value.Sample{Value: valuekit.Int(2), T: 5})))
	result, err := s.FinalizeTemporal()
	require.NoError(t, err)
	iset, ok := result.(*value.InstantSet)
	require.True(t, ok)
	assert.Len(t, iset.Instants, 2)
}

func TestTUnionStateOverlapWithoutCombineErrors(t *testing.T) {
	s := NewTUnionState()
	require.NoError(t, s.AddTemporal(value.NewInstant(valuekit.TypeInt, value.Step, value.Sample{Value: valuekit.Int(1), T: 5})))
	err := s.AddTemporal(value.NewInstant(valuekit.TypeInt, value.Step, value.Sample{Value: valuekit.Int(2), T: 5}))
	assert.Error(t, err, "t-union has no combine function, so a colliding instant must fail")
}

func TestTUnionStateFinalizeEmptyIsErrEmpty(t *testing.T) {
	s := NewTUnionState()
	_, err := s.FinalizeTemporal()
	assert.ErrorIs(t, err, ErrEmpty)
}

func TestTUnionStateTimestampSet(t *testing.T) {
	s := NewTUnionState()
	require.NoError(t, s.AddTimestampSet(period.Set{5, 1, 3}))
	out, err := s.FinalizeTimestamps()
	require.NoError(t, err)
	assert.Equal(t, period.Set{1, 3, 5}, out)
}

func TestTUnionStateCombine(t *testing.T) {
	a := NewTUnionState()
	require.NoError(t, a.AddTimestamp(1))
	b := NewTUnionState()
	require.NoError(t, b.AddTimestamp(2))
	merged, err := a.Combine(b)
	require.NoError(t, err)
	out, err := merged.FinalizeTimestamps()
	require.NoError(t, err)
	assert.Equal(t, period.Set{1, 2}, out)
}

func TestTUnionStateCombineWithEmptyOther(t *testing.T) {
	a := NewTUnionState()
	require.NoError(t, a.AddTimestamp(1))
	b := NewTUnionState()
	merged, err := a.Combine(b)
	require.NoError(t, err)
	out, err := merged.FinalizeTimestamps()
	require.NoError(t, err)
	assert.Equal(t, period.Set{1}, out)
}

func TestTCountStateSumsOverlap(t *testing.T) {
	s := NewTCountState()
	require.NoError(t, s.AddPeriod(mustPeriod(t, 0, 10)))
	require.NoError(t, s.AddPeriod(mustPeriod(t, 5, 15)))
	result, err := s.Finalize()
	require.NoError(t, err)
	v, ok := result.(value.Evaluator)
	require.True(t, ok)
	at5, found := v.ValueAt(7)
	require.True(t, found)
	assert.Equal(t, valuekit.Int(2), at5, "two overlapping period counts should sum to 2 in their shared span")
}

func TestTCountStateSingleTimestamp(t *testing.T) {
	s := NewTCountState()
	require.NoError(t, s.AddTimestamp(5))
	result, err := s.Finalize()
	require.NoError(t, err)
	inst, ok := result.(*value.Instant)
	require.True(t, ok)
	assert.Equal(t, valuekit.Int(1), inst.Value())
}

func TestTCountStateCombine(t *testing.T) {
	a := NewTCountState()
	require.NoError(t, a.AddPeriod(mustPeriod(t, 0, 10)))
	b := NewTCountState()
	require.NoError(t, b.AddPeriod(mustPeriod(t, 0, 10)))
	merged, err := a.Combine(b)
	require.NoError(t, err)
	result, err := merged.Finalize()
	require.NoError(t, err)
	v := result.(value.Evaluator)
	at, found := v.ValueAt(5)
	require.True(t, found)
	assert.Equal(t, valuekit.Int(2), at)
}

func TestExtentStateAccumulatesAcrossDimensions(t *testing.T) {
	s := NewExtentState()
	s.AddTimestamp(0)
	s.AddTimestamp(100)
	s.AddPeriod(mustPeriod(t, 5, 10))
	b, err := s.Finalize()
	require.NoError(t, err)
	assert.True(t, b.HasTime)
	assert.Equal(t, period.Timestamp(0), b.Time.Lower)
	assert.Equal(t, period.Timestamp(100), b.Time.Upper)
}

func TestExtentStateEmptyIsErrEmpty(t *testing.T) {
	s := NewExtentState()
	_, err := s.Finalize()
	assert.ErrorIs(t, err, ErrEmpty)
}

func TestExtentStateCombine(t *testing.T) {
	a := NewExtentState()
	a.AddTimestamp(0)
	b := NewExtentState()
	b.AddTimestamp(50)
	merged := a.Combine(b)
	got, err := merged.Finalize()
	require.NoError(t, err)
	assert.Equal(t, period.Timestamp(0), got.Time.Lower)
	assert.Equal(t, period.Timestamp(50), got.Time.Upper)
}

func TestArenaLifecycleLogging(t *testing.T) {
	s := NewTUnionState()
	other := NewTUnionState()
	assert.NotEqual(t, s.Arena.ID, other.Arena.ID, "each state mints a distinct arena identity")
	s.Interrupt()
}
