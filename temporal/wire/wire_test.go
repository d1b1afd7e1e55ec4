package wire

import (
	"bytes"
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

func sampleSequence(t *testing.T) *value.Sequence {
	t.Helper()
	seq, err := value.NewSequence(valuekit.TypeFloat, value.Linear, mustPeriod(t, 0, 10, true, true), []value.Sample{
		{Value: valuekit.Float(1.5), T: 0},
		{Value: valuekit.Float(99.25), T: 10},
	})
	require.NoError(t, err)
	return seq
}

func TestBinaryRoundTripInstant(t *testing.T) {
	inst := value.NewInstant(valuekit.TypeInt, value.Step, value.Sample{Value: valuekit.Int(42), T: 7})
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, inst))
	got, err := Read(&buf, valuekit.TypeInt)
	require.NoError(t, err)
	gi, ok := got.(*value.Instant)
	require.True(t, ok)
	assert.Equal(t, valuekit.Int(42), gi.Value())
	assert.Equal(t, period.Timestamp(7), gi.Timestamp())
}

func TestBinaryRoundTripInstantSet(t *testing.T) {
	iset, err := value.NewInstantSet(valuekit.TypeFloat, value.Step, []value.Sample{
		{Value: valuekit.Float(1), T: 1},
		{Value: valuekit.Float(2), T: 2},
	})
	require.NoError(t, err)
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, iset))
	got, err := Read(&buf, valuekit.TypeFloat)
	require.NoError(t, err)
	gs, ok := got.(*value.InstantSet)
	require.True(t, ok)
	assert.Len(t, gs.Instants, 2)
}

func TestBinaryRoundTripSequence(t *testing.T) {
	seq := sampleSequence(t)
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, seq))
	got, err := Read(&buf, valuekit.TypeFloat)
	require.NoError(t, err)
	gs, ok := got.(*value.Sequence)
	require.True(t, ok)
	assert.Equal(t, seq.Period, gs.Period)
	assert.InDelta(t, 1.5, gs.Instants[0].Value.F, 1e-9)
	assert.InDelta(t, 99.25, gs.Instants[1].Value.F, 1e-9)
}

func TestBinaryRoundTripSequenceSet(t *testing.T) {
	a, err := value.NewSequence(valuekit.TypeFloat, value.Step, mustPeriod(t, 0, 5, true, false), []value.Sample{
		{Value: valuekit.Float(1), T: 0},
		{Value: valuekit.Float(1), T: 5},
	})
	require.NoError(t, err)
	b, err := value.NewSequence(valuekit.TypeFloat, value.Step, mustPeriod(t, 10, 15, true, true), []value.Sample{
		{Value: valuekit.Float(2), T: 10},
		{Value: valuekit.Float(2), T: 15},
	})
	require.NoError(t, err)
	ss, err := value.NewSequenceSet(valuekit.TypeFloat, value.Step, []value.Sequence{*a, *b})
	require.NoError(t, err)
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, ss))
	got, err := Read(&buf, valuekit.TypeFloat)
	require.NoError(t, err)
	gs, ok := got.(*value.SequenceSet)
	require.True(t, ok)
	assert.Len(t, gs.Sequences, 2)
}

func TestReadRejectsBaseTypeMismatch(t *testing.T) {
	inst := value.NewInstant(valuekit.TypeInt, value.Step, value.Sample{Value: valuekit.Int(1), T: 1})
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, inst))
	_, err := Read(&buf, valuekit.TypeFloat)
	assert.ErrorIs(t, err, ErrUnsupportedType)
}

func TestTextFormatRoundTripInstant(t *testing.T) {
	inst := value.NewInstant(valuekit.TypeFloat, value.Linear, value.Sample{Value: valuekit.Float(3.5), T: 9})
	s := Format(inst, nil)
	assert.Equal(t, "3.5@9", s)
	got, err := Parse(s, valuekit.TypeFloat, nil)
	require.NoError(t, err)
	gi, ok := got.(*value.Instant)
	require.True(t, ok)
	assert.InDelta(t, 3.5, gi.Value().F, 1e-9)
}

func TestTextFormatStepwisePrefix(t *testing.T) {
	seq := mustStepSequence(t)
	s := Format(seq, nil)
	assert.True(t, len(s) > 0 && s[:16] == "Interp=Stepwise;")
	got, err := Parse(s, valuekit.TypeFloat, nil)
	require.NoError(t, err)
	gs, ok := got.(*value.Sequence)
	require.True(t, ok)
	assert.Equal(t, value.Step, gs.Interp())
}

func mustStepSequence(t *testing.T) *value.Sequence {
	t.Helper()
	s, err := value.NewSequence(valuekit.TypeFloat, value.Step, mustPeriod(t, 0, 10, true, true), []value.Sample{
		{Value: valuekit.Float(1), T: 0},
		{Value: valuekit.Float(2), T: 10},
	})
	require.NoError(t, err)
	return s
}

func TestTextFormatRoundTripSequenceSet(t *testing.T) {
	a, err := value.NewSequence(valuekit.TypeFloat, value.Linear, mustPeriod(t, 0, 5, true, true), []value.Sample{
		{Value: valuekit.Float(0), T: 0},
		{Value: valuekit.Float(5), T: 5},
	})
	require.NoError(t, err)
	b, err := value.NewSequence(valuekit.TypeFloat, value.Linear, mustPeriod(t, 10, 15, true, true), []value.Sample{
		{Value: valuekit.Float(0), T: 10},
		{Value: valuekit.Float(5), T: 15},
	})
	require.NoError(t, err)
	ss, err := value.NewSequenceSet(valuekit.TypeFloat, value.Linear, []value.Sequence{*a, *b})
	require.NoError(t, err)
	s := Format(ss, nil)
	got, err := Parse(s, valuekit.TypeFloat, nil)
	require.NoError(t, err)
	gs, ok := got.(*value.SequenceSet)
	require.True(t, ok)
	assert.Len(t, gs.Sequences, 2)
}

func TestCompressedRoundTrip(t *testing.T) {
	seq := sampleSequence(t)
	data, err := MarshalCompressed(seq)
	require.NoError(t, err)
	got, err := UnmarshalCompressed(data, valuekit.TypeFloat)
	require.NoError(t, err)
	gs, ok := got.(*value.Sequence)
	require.True(t, ok)
	assert.Equal(t, seq.Period, gs.Period)
}

func TestYAMLFixtureRoundTrip(t *testing.T) {
	seq := sampleSequence(t)
	var buf bytes.Buffer
	require.NoError(t, DumpYAML(&buf, seq, nil))
	got, err := LoadYAML(&buf, nil)
	require.NoError(t, err)
	gs, ok := got.(*value.Sequence)
	require.True(t, ok)
	assert.Equal(t, seq.Period, gs.Period)
	assert.InDelta(t, 1.5, gs.Instants[0].Value.F, 1e-9)
}

func TestYAMLFixtureRoundTripInstantSet(t *testing.T) {
	iset, err := value.NewInstantSet(valuekit.TypeInt, value.Step, []value.Sample{
		{Value: valuekit.Int(1), T: 1},
		{Value: valuekit.Int(2), T: 2},
	})
	require.NoError(t, err)
	var buf bytes.Buffer
	require.NoError(t, DumpYAML(&buf, iset, nil))
	got, err := LoadYAML(&buf, nil)
	require.NoError(t, err)
	gs, ok := got.(*value.InstantSet)
	require.True(t, ok)
	assert.Len(t, gs.Instants, 2)
}
