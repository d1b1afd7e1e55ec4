// Package sync implements synchronization of two temporal values onto a
// common time domain, the segment-intersection helper that backs both
// synchronization and restriction, and lifting of base-type functions.
package sync

import (
	"math"

	"github.com/tempoval/tempoval/temporal/period"
	"github.com/tempoval/tempoval/temporal/value"
	"github.com/tempoval/tempoval/temporal/valuekit"
)

// IntersectsAt implements the segment-intersection helper for two aligned
// segments sharing start timestamp t0 and end timestamp
// t1. It returns the interior timestamp at which the two segments take the
// same value, or ok==false if they do not cross strictly inside (t0, t1).
func IntersectsAt(bt valuekit.Type, interpA, interpB value.Interp, a0, a1, b0, b1 valuekit.Value, t0, t1 period.Timestamp) (period.Timestamp, bool) {
	if t1 <= t0 {
		return 0, false
	}
	if interpA == value.Step || interpB == value.Step {
		// The step side's starting value is the target for the other
		// side's restrict-value.
		var target, from, to valuekit.Value
		switch {
		case interpA == value.Step && interpB == value.Step:
			return 0, false
		case interpA == value.Step:
			target, from, to = a0, b0, b1
		default:
			target, from, to = b0, a0, a1
		}
		r, ok := valuekit.InterpolateInverse(from, to, target)
		if !ok || r <= valuekit.Epsilon || r >= 1-valuekit.Epsilon {
			return 0, false
		}
		return interiorTimestamp(t0, t1, r), true
	}

	if bt == valuekit.TypeGeodetic && !greatCircleEdgesCross(a0.Geo, a1.Geo, b0.Geo, b1.Geo) {
		return 0, false
	}

	r, ok := crossingFraction(bt, a0, a1, b0, b1)
	if !ok {
		return 0, false
	}
	return interiorTimestamp(t0, t1, r), true
}

func interiorTimestamp(t0, t1 period.Timestamp, r float64) period.Timestamp {
	return t0 + period.Timestamp(math.Round(float64(t1-t0)*r))
}

// crossingFraction solves for the fractional offset r in (0,1) at which two
// linear segments, a (a0 to a1) and b (b0 to b1), take the same value: for
// numeric types a single linear equation; for points each coordinate must
// agree on the same fraction within Epsilon, in which case the per-axis
// fractions are averaged, carried over from the geodetic solver's
// tolerance for near-parallel edges.
func crossingFraction(bt valuekit.Type, a0, a1, b0, b1 valuekit.Value) (float64, bool) {
	switch bt {
	case valuekit.TypeFloat:
		return scalarCrossing(a0.F, a1.F, b0.F, b1.F)
	case valuekit.TypePoint2D:
		rx, okx := scalarCrossing(a0.P2.X, a1.P2.X, b0.P2.X, b1.P2.X)
		ry, oky := scalarCrossing(a0.P2.Y, a1.P2.Y, b0.P2.Y, b1.P2.Y)
		return agree(rx, okx, ry, oky)
	case valuekit.TypePoint3D:
		rx, okx := scalarCrossing(a0.P3.X, a1.P3.X, b0.P3.X, b1.P3.X)
		ry, oky := scalarCrossing(a0.P3.Y, a1.P3.Y, b0.P3.Y, b1.P3.Y)
		rz, okz := scalarCrossing(a0.P3.Z, a1.P3.Z, b0.P3.Z, b1.P3.Z)
		rxy, ok := agree(rx, okx, ry, oky)
		if !ok {
			return 0, false
		}
		return agree(rxy, true, rz, okz)
	case valuekit.TypeGeodetic:
		rx, okx := scalarCrossing(a0.Geo.Lon, a1.Geo.Lon, b0.Geo.Lon, b1.Geo.Lon)
		ry, oky := scalarCrossing(a0.Geo.Lat, a1.Geo.Lat, b0.Geo.Lat, b1.Geo.Lat)
		return agree(rx, okx, ry, oky)
	default:
		return 0, false
	}
}

// scalarCrossing solves r*((a1-a0)-(b1-b0)) == b0-a0 for a single
// coordinate dimension.
func scalarCrossing(a0, a1, b0, b1 float64) (float64, bool) {
	denom := (a1 - a0) - (b1 - b0)
	if math.Abs(denom) < valuekit.Epsilon {
		return 0, false
	}
	r := (b0 - a0) / denom
	if r <= valuekit.Epsilon || r >= 1-valuekit.Epsilon {
		return 0, false
	}
	return r, true
}

// agree combines two per-axis fractions, accepting only when both axes
// solved and agree within Epsilon, returning their average.
func agree(r1 float64, ok1 bool, r2 float64, ok2 bool) (float64, bool) {
	if !ok1 || !ok2 {
		return 0, false
	}
	if math.Abs(r1-r2) > valuekit.Epsilon {
		return 0, false
	}
	return (r1 + r2) / 2, true
}

// greatCircleEdgesCross screens two geodetic edges for intersection on the
// unit sphere before the caller solves for the exact fraction in the local
// embedding: geodetic points additionally screen by great-circle edge
// intersection before solving.
func greatCircleEdgesCross(a0, a1, b0, b1 valuekit.GeoPoint) bool {
	ax0, ay0, az0 := geoToXYZ(a0)
	ax1, ay1, az1 := geoToXYZ(a1)
	bx0, by0, bz0 := geoToXYZ(b0)
	bx1, by1, bz1 := geoToXYZ(b1)
	// Normal of each edge's great-circle plane.
	nax, nay, naz := cross(ax0, ay0, az0, ax1, ay1, az1)
	nbx, nby, nbz := cross(bx0, by0, bz0, bx1, by1, bz1)
	// Intersection line direction of the two planes.
	ix, iy, iz := cross(nax, nay, naz, nbx, nby, nbz)
	norm := math.Sqrt(ix*ix + iy*iy + iz*iz)
	if norm < valuekit.Epsilon {
		// Coincident or antipodal great circles: not a transversal crossing.
		return false
	}
	ix, iy, iz = ix/norm, iy/norm, iz/norm
	for _, cand := range [][3]float64{{ix, iy, iz}, {-ix, -iy, -iz}} {
		if pointOnArc(cand, ax0, ay0, az0, ax1, ay1, az1) && pointOnArc(cand, bx0, by0, bz0, bx1, by1, bz1) {
			return true
		}
	}
	return false
}

func cross(ax, ay, az, bx, by, bz float64) (float64, float64, float64) {
	return ay*bz - az*by, az*bx - ax*bz, ax*by - ay*bx
}

func dot(ax, ay, az, bx, by, bz float64) float64 { return ax*bx + ay*by + az*bz }

// pointOnArc reports whether the unit vector p lies on the minor arc from
// (x0,y0,z0) to (x1,y1,z1), i.e. is at least as close to both endpoints'
// angular span as the arc itself.
func pointOnArc(p [3]float64, x0, y0, z0, x1, y1, z1 float64) bool {
	arc := math.Acos(clamp(dot(x0, y0, z0, x1, y1, z1), -1, 1))
	d0 := math.Acos(clamp(dot(p[0], p[1], p[2], x0, y0, z0), -1, 1))
	d1 := math.Acos(clamp(dot(p[0], p[1], p[2], x1, y1, z1), -1, 1))
	return d0+d1 <= arc+1e-6
}

func geoToXYZ(g valuekit.GeoPoint) (x, y, z float64) {
	lon := g.Lon * math.Pi / 180
	lat := g.Lat * math.Pi / 180
	return math.Cos(lat) * math.Cos(lon), math.Cos(lat) * math.Sin(lon), math.Sin(lat)
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
