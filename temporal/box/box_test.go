package box

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tempoval/tempoval/temporal/period"
)

func mustPeriod(t *testing.T, lo, up period.Timestamp) period.Period {
	t.Helper()
	p, err := period.New(lo, up, true, true)
	require.NoError(t, err)
	return p
}

func TestUnionCombinesDimensions(t *testing.T) {
	a := TBox{HasValue: true, Value: NewRange(0, 10), HasTime: true, Time: mustPeriod(t, 0, 5)}
	b := TBox{HasValue: true, Value: NewRange(5, 20), HasTime: true, Time: mustPeriod(t, 3, 8)}
	got := Union(a, b)
	assert.Equal(t, NewRange(0, 20), got.Value)
	assert.Equal(t, mustPeriod(t, 0, 8), got.Time)
}

func TestUnionWithOneSideMissingDimension(t *testing.T) {
	a := TBox{HasTime: true, Time: mustPeriod(t, 0, 5)}
	b := TBox{HasValue: true, Value: NewRange(1, 2)}
	got := Union(a, b)
	assert.True(t, got.HasTime)
	assert.True(t, got.HasValue)
	assert.Equal(t, mustPeriod(t, 0, 5), got.Time)
	assert.Equal(t, NewRange(1, 2), got.Value)
}

func TestSizeZeroWidthIsZeroNotNaN(t *testing.T) {
	b := TBox{HasValue: true, Value: NewRange(5, 5), HasTime: true, Time: mustPeriod(t, 0, 10)}
	assert.Equal(t, 0.0, b.Size())
}

func TestPenaltyNonNegative(t *testing.T) {
	n := TBox{HasValue: true, Value: NewRange(0, 10), HasTime: true, Time: mustPeriod(t, 0, 10)}
	child := TBox{HasValue: true, Value: NewRange(2, 4), HasTime: true, Time: mustPeriod(t, 2, 4)}
	assert.Equal(t, 0.0, Penalty(n, child), "a child fully enclosed by n adds no penalty")

	outside := TBox{HasValue: true, Value: NewRange(20, 30), HasTime: true, Time: mustPeriod(t, 20, 30)}
	assert.Greater(t, Penalty(n, outside), 0.0)
}

func TestPenaltyNaNIsInfinite(t *testing.T) {
	n := TBox{HasValue: true, Value: Range{Min: math.NaN(), Max: 1}}
	child := TBox{HasValue: true, Value: NewRange(0, 1)}
	assert.True(t, math.IsInf(Penalty(n, child), 1))
}

func TestAdjacentRequiresTimeTouchAndValueOverlap(t *testing.T) {
	a := TBox{HasValue: true, Value: NewRange(0, 10), HasTime: true, Time: mustPeriod(t, 0, 5)}
	touching, err := period.New(5, 10, false, true)
	require.NoError(t, err)
	b := TBox{HasValue: true, Value: NewRange(5, 15), HasTime: true, Time: touching}
	assert.True(t, a.Adjacent(b))

	disjointValue := TBox{HasValue: true, Value: NewRange(100, 200), HasTime: true, Time: touching}
	assert.False(t, a.Adjacent(disjointValue))
}

func TestLeftRightOverLeftOverRight(t *testing.T) {
	a := TBox{HasValue: true, Value: NewRange(0, 5)}
	b := TBox{HasValue: true, Value: NewRange(10, 20)}
	assert.True(t, a.Left(b))
	assert.True(t, b.Right(a))
	assert.True(t, a.OverLeft(b))
	assert.False(t, b.OverLeft(a))
}

func TestSTBoxAdjacentSingleHyperface(t *testing.T) {
	touching, err := period.New(5, 10, false, true)
	require.NoError(t, err)
	a := STBox{TBox: TBox{HasTime: true, Time: mustPeriod(t, 0, 5)}, HasSpace: true, X: NewRange(0, 10), Y: NewRange(0, 10)}
	b := STBox{TBox: TBox{HasTime: true, Time: touching}, HasSpace: true, X: NewRange(0, 10), Y: NewRange(0, 10)}
	assert.True(t, a.AdjacentSTBox(b))
}

func TestUnionSTBoxCombinesSpace(t *testing.T) {
	a := STBox{HasSpace: true, X: NewRange(0, 5), Y: NewRange(0, 5)}
	b := STBox{HasSpace: true, X: NewRange(3, 10), Y: NewRange(-2, 5)}
	got := UnionSTBox(a, b)
	assert.Equal(t, NewRange(0, 10), got.X)
	assert.Equal(t, NewRange(-2, 5), got.Y)
}
