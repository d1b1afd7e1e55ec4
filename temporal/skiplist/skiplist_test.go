package skiplist

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tempoval/tempoval/temporal/period"
	"github.com/tempoval/tempoval/temporal/value"
	"github.com/tempoval/tempoval/temporal/valuekit"
)

func mustInstantElem(t *testing.T, bt valuekit.Type, v valuekit.Value, ts period.Timestamp) Elem {
	t.Helper()
	inst := value.NewInstant(bt, value.Step, value.Sample{Value: v, T: ts})
	e, err := TemporalElem(inst)
	require.NoError(t, err)
	return e
}

func TestSpliceTimestampsDedupesAndSorts(t *testing.T) {
	l := New(nil)
	err := l.Splice([]Elem{TimestampElem(5), TimestampElem(1), TimestampElem(5)}, nil, false, nil)
	require.NoError(t, err)
	ts, err := l.FinalizeTimestamps()
	require.NoError(t, err)
	assert.Equal(t, period.Set{1, 5}, ts)
}

func TestSplicePeriodsMergesOverlap(t *testing.T) {
	l := New(nil)
	p1, err := period.New(0, 10, true, true)
	require.NoError(t, err)
	p2, err := period.New(5, 15, true, true)
	require.NoError(t, err)
	require.NoError(t, l.Splice([]Elem{PeriodElem(p1), PeriodElem(p2)}, nil, false, nil))
	ps, err := l.FinalizePeriods()
	require.NoError(t, err)
	require.Len(t, ps.Periods, 1)
	assert.Equal(t, period.Timestamp(0), ps.Periods[0].Lower)
	assert.Equal(t, period.Timestamp(15), ps.Periods[0].Upper)
}

func TestSpliceRejectsMixedKinds(t *testing.T) {
	l := New(nil)
	err := l.Splice([]Elem{TimestampElem(1), PeriodElem(period.Instant(1))}, nil, false, nil)
	assert.ErrorIs(t, err, ErrKindMismatch)
}

func TestSpliceRejectsKindChangeAcrossCalls(t *testing.T) {
	l := New(nil)
	require.NoError(t, l.Splice([]Elem{TimestampElem(1)}, nil, false, nil))
	err := l.Splice([]Elem{PeriodElem(period.Instant(2))}, nil, false, nil)
	assert.ErrorIs(t, err, ErrKindMismatch)
}

func TestSpliceResourceExhausted(t *testing.T) {
	l := NewWithCapacity(nil, 2)
	batch := []Elem{TimestampElem(1), TimestampElem(2), TimestampElem(3), TimestampElem(4), TimestampElem(5)}
	err := l.Splice(batch, nil, false, nil)
	assert.ErrorIs(t, err, ErrResourceExhausted)
}

func TestSpliceInterrupted(t *testing.T) {
	l := New(nil)
	require.NoError(t, l.Splice([]Elem{TimestampElem(1)}, nil, false, nil))
	l.Interrupt()
	err := l.Splice([]Elem{TimestampElem(2)}, nil, false, nil)
	assert.ErrorIs(t, err, ErrInterrupted)
}

func TestSpliceTemporalCombinesOverlap(t *testing.T) {
	l := New(nil)
	a := mustInstantElem(t, valuekit.TypeInt, valuekit.Int(1), 5)
	b := mustInstantElem(t, valuekit.TypeInt, valuekit.Int(2), 5)
	add := func(x, y valuekit.Value) valuekit.Value { return valuekit.Int(x.I + y.I) }
	require.NoError(t, l.Splice([]Elem{a}, add, false, nil))
	require.NoError(t, l.Splice([]Elem{b}, add, false, nil))
	result, err := l.FinalizeTemporal()
	require.NoError(t, err)
	inst, ok := result.(*value.Instant)
	require.True(t, ok)
	assert.Equal(t, valuekit.Int(3), inst.Value())
}

func TestSpliceTemporalDisjointKeepsBoth(t *testing.T) {
	l := New(nil)
	a := mustInstantElem(t, valuekit.TypeInt, valuekit.Int(1), 5)
	b := mustInstantElem(t, valuekit.TypeInt, valuekit.Int(2), 10)
	require.NoError(t, l.Splice([]Elem{a}, nil, false, nil))
	require.NoError(t, l.Splice([]Elem{b}, nil, false, nil))
	result, err := l.FinalizeTemporal()
	require.NoError(t, err)
	iset, ok := result.(*value.InstantSet)
	require.True(t, ok, "two disjoint instants finalize to an instant set")
	assert.Len(t, iset.Instants, 2)
}

func TestFinalizeOnEmptyListReturnsErrNoKind(t *testing.T) {
	l := New(nil)
	_, err := l.FinalizeTimestamps()
	assert.ErrorIs(t, err, ErrNoKind)
}

func TestFinalizeWrongKindReturnsErrKindMismatch(t *testing.T) {
	l := New(nil)
	require.NoError(t, l.Splice([]Elem{TimestampElem(1)}, nil, false, nil))
	_, err := l.FinalizePeriods()
	assert.ErrorIs(t, err, ErrKindMismatch)
}

func TestLenAndKindReflectState(t *testing.T) {
	l := New(nil)
	_, ok := l.Kind()
	assert.False(t, ok)
	require.NoError(t, l.Splice([]Elem{TimestampElem(1), TimestampElem(2)}, nil, false, nil))
	kind, ok := l.Kind()
	assert.True(t, ok)
	assert.Equal(t, ElemTimestamp, kind)
	assert.Equal(t, 2, l.Len())
}
