package restrict

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

func stepRamp(t *testing.T) *value.Sequence {
	return mustSequence(t, valuekit.TypeFloat, value.Step, mustPeriod(t, 0, 30, true, true), []value.Sample{
		{Value: valuekit.Float(1), T: 0},
		{Value: valuekit.Float(2), T: 10},
		{Value: valuekit.Float(1), T: 20},
		{Value: valuekit.Float(3), T: 30},
	})
}

func linearRamp(t *testing.T) *value.Sequence {
	return mustSequence(t, valuekit.TypeFloat, value.Linear, mustPeriod(t, 0, 10, true, true), []value.Sample{
		{Value: valuekit.Float(0), T: 0},
		{Value: valuekit.Float(10), T: 10},
	})
}

func TestRestrictValueStepAtKeepsMatchingSegments(t *testing.T) {
	out, err := RestrictValue(stepRamp(t), valuekit.Float(1), At)
	require.NoError(t, err)
	ss, ok := out.(*value.SequenceSet)
	require.True(t, ok)
	assert.Len(t, ss.Sequences, 2, "value=1 occurs in two disjoint step runs")
}

func TestRestrictValueMinusIsComplement(t *testing.T) {
	out, err := RestrictValue(stepRamp(t), valuekit.Float(1), Minus)
	require.NoError(t, err)
	assert.NotNil(t, out)
}

func TestRestrictValueNoMatchIsErrEmpty(t *testing.T) {
	_, err := RestrictValue(stepRamp(t), valuekit.Float(999), At)
	assert.ErrorIs(t, err, ErrEmpty)
}

func TestRestrictValueLinearInterpolatesCrossingInstant(t *testing.T) {
	out, err := RestrictValue(linearRamp(t), valuekit.Float(5), At)
	require.NoError(t, err)
	inst, ok := out.(*value.Instant)
	require.True(t, ok, "a linear ramp crossing its target exactly once restricts to a single instant")
	assert.Equal(t, period.Timestamp(5), inst.Timestamp())
}

func TestRestrictRangeNumericOnly(t *testing.T) {
	seq := mustSequence(t, valuekit.TypeText, value.Step, mustPeriod(t, 0, 10, true, true), []value.Sample{
		{Value: valuekit.Text("a"), T: 0},
		{Value: valuekit.Text("b"), T: 10},
	})
	_, err := RestrictRange(seq, NumRange{Min: 0, Max: 1, MinInc: true, MaxInc: true}, At)
	assert.ErrorIs(t, err, value.ErrInvalidArgument)
}

func TestRestrictRangeLinearClipsToSubInterval(t *testing.T) {
	out, err := RestrictRange(linearRamp(t), NumRange{Min: 2, Max: 4, MinInc: true, MaxInc: true}, At)
	require.NoError(t, err)
	seq, ok := out.(*value.Sequence)
	require.True(t, ok)
	assert.Equal(t, period.Timestamp(2), seq.Period.Lower)
	assert.Equal(t, period.Timestamp(4), seq.Period.Upper)
}

func TestRestrictPeriodIntersectsDomain(t *testing.T) {
	out, err := RestrictPeriod(linearRamp(t), mustPeriod(t, 3, 7, true, true), At)
	require.NoError(t, err)
	seq, ok := out.(*value.Sequence)
	require.True(t, ok)
	assert.Equal(t, mustPeriod(t, 3, 7, true, true), seq.Period)
}

func TestRestrictPeriodOutsideDomainIsErrEmpty(t *testing.T) {
	_, err := RestrictPeriod(linearRamp(t), mustPeriod(t, 100, 200, true, true), At)
	assert.ErrorIs(t, err, ErrEmpty)
}

func TestRestrictTimestampMinusRemovesPoint(t *testing.T) {
	out, err := RestrictTimestamp(linearRamp(t), 5, Minus)
	require.NoError(t, err)
	assert.NotNil(t, out)
}

func TestRestrictValuesUnionOfTargets(t *testing.T) {
	out, err := RestrictValues(stepRamp(t), []valuekit.Value{valuekit.Float(2), valuekit.Float(3)}, At)
	require.NoError(t, err)
	assert.NotNil(t, out)
}

func TestRestrictMinAndMax(t *testing.T) {
	minOut, err := RestrictMin(stepRamp(t), At)
	require.NoError(t, err)
	assert.NotNil(t, minOut)

	maxOut, err := RestrictMax(stepRamp(t), At)
	require.NoError(t, err)
	inst, ok := maxOut.(*value.Instant)
	require.True(t, ok, "the maximum value 3 occurs only at the final instant")
	assert.Equal(t, period.Timestamp(30), inst.Timestamp())
}

func TestEverEqualUsesBBoxFastPath(t *testing.T) {
	ok, err := EverEqual(stepRamp(t), valuekit.Float(1000))
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = EverEqual(stepRamp(t), valuekit.Float(2))
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestAlwaysEqualConstantSequence(t *testing.T) {
	constant := mustSequence(t, valuekit.TypeFloat, value.Step, mustPeriod(t, 0, 10, true, true), []value.Sample{
		{Value: valuekit.Float(5), T: 0},
		{Value: valuekit.Float(5), T: 10},
	})
	ok, err := AlwaysEqual(constant, valuekit.Float(5))
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = AlwaysEqual(stepRamp(t), valuekit.Float(1))
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestEverLessAndAlwaysGreaterEqual(t *testing.T) {
	ok, err := EverLess(linearRamp(t), 1)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = AlwaysGreaterEqual(linearRamp(t), -1)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = AlwaysGreaterEqual(linearRamp(t), 1)
	require.NoError(t, err)
	assert.False(t, ok)
}
