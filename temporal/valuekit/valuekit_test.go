package valuekit

import (
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompareFloatNaN(t *testing.T) {
	tests := []struct {
		name string
		a, b float64
		want int
	}{
		{"less", 1, 2, -1},
		{"greater", 2, 1, 1},
		{"equal", 1, 1, 0},
		{"nan greatest", math.NaN(), 1, 1},
		{"nan vs nan", math.NaN(), math.NaN(), 0},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Compare(Float(tc.a), Float(tc.b)))
		})
	}
}

func TestCompareMismatchedTypesPanics(t *testing.T) {
	assert.Panics(t, func() { Compare(Int(1), Float(1)) })
}

func TestEqualWithinEpsilon(t *testing.T) {
	assert.True(t, Equal(Float(1.0), Float(1.0+Epsilon/2)))
	assert.False(t, Equal(Float(1.0), Float(1.0+Epsilon*10)))
}

func TestInterpolateFloat(t *testing.T) {
	got := Interpolate(Float(0), Float(10), 0.25)
	require.InDelta(t, 2.5, got.F, 1e-9)
}

func TestInterpolateClampsAtEnds(t *testing.T) {
	assert.Equal(t, Float(0), Interpolate(Float(0), Float(10), -1))
	assert.Equal(t, Float(10), Interpolate(Float(0), Float(10), 2))
}

func TestInterpolatePoint3D(t *testing.T) {
	a := FromPoint3D(Point3D{X: 0, Y: 0, Z: 0})
	b := FromPoint3D(Point3D{X: 10, Y: 20, Z: 30})
	got := Interpolate(a, b, 0.5)
	want := FromPoint3D(Point3D{X: 5, Y: 10, Z: 15})
	if diff := cmp.Diff(want, got, cmpopts.EquateApprox(0, 1e-9)); diff != "" {
		t.Fatalf("interpolate mismatch (-want +got):\n%s", diff)
	}
}

func TestInterpolateGeodeticRoundTrip(t *testing.T) {
	a := GeoPoint{Lon: 0, Lat: 0}
	b := GeoPoint{Lon: 90, Lat: 0}
	mid := interpolateGeodetic(a, b, 0.5)
	// Midpoint of a 90-degree arc along the equator sits at 45 degrees.
	require.InDelta(t, 45.0, mid.Geo.Lon, 1e-6)
	require.InDelta(t, 0.0, mid.Geo.Lat, 1e-6)
}

func TestInterpolateInverseFloat(t *testing.T) {
	r, ok := InterpolateInverse(Float(0), Float(10), Float(2.5))
	require.True(t, ok)
	require.InDelta(t, 0.25, r, 1e-9)

	_, ok = InterpolateInverse(Float(0), Float(10), Float(20))
	assert.False(t, ok)
}

func TestInterpolateInversePoint2DOffSegment(t *testing.T) {
	a := Point2D{X: 0, Y: 0}
	b := Point2D{X: 10, Y: 0}
	_, ok := inversePoint2D(a, b, Point2D{X: 5, Y: 5})
	assert.False(t, ok, "a point off the segment must not report an inverse")

	r, ok := inversePoint2D(a, b, Point2D{X: 5, Y: 0})
	require.True(t, ok)
	require.InDelta(t, 0.5, r, 1e-9)
}

func TestCollinear(t *testing.T) {
	assert.True(t, Collinear(Float(0), Float(5), Float(10), 0, 5, 10))
	assert.False(t, Collinear(Float(0), Float(6), Float(10), 0, 5, 10))
}

func TestCollinearDegenerateTimestamps(t *testing.T) {
	assert.True(t, Collinear(Float(3), Float(3), Float(3), 5, 5, 5))
	assert.False(t, Collinear(Float(3), Float(4), Float(3), 5, 5, 5))
}
