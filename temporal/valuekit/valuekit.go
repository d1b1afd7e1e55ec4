// Package valuekit implements the base-value kit: NaN-aware ordered
// comparison, equality, copy, and interpolation for the closed set of base
// types the temporal engine is polymorphic over.
package valuekit

import (
	"fmt"
	"math"
)

// Type identifies a base type the engine can vary over time.
type Type uint8

const (
	// TypeBool is the boolean base type (step interpolation only).
	TypeBool Type = iota
	// TypeInt is the int32 base type (step interpolation only).
	TypeInt
	// TypeFloat is the float64 base type (linear or step interpolation).
	TypeFloat
	// TypeText is the text base type (step interpolation only).
	TypeText
	// TypePoint2D is a planar (x, y) point (linear or step interpolation).
	TypePoint2D
	// TypePoint3D is a spatial (x, y, z) point (linear or step interpolation).
	TypePoint3D
	// TypeGeodetic is a geodetic (lon, lat[, height]) point on the sphere.
	TypeGeodetic
	// TypeTuple2 is an internal accumulator pair, e.g. (sum, count).
	TypeTuple2
	// TypeTuple3 is an internal accumulator triple.
	TypeTuple3
	// TypeTuple4 is an internal accumulator quadruple.
	TypeTuple4
)

// String implements fmt.Stringer.
func (t Type) String() string {
	switch t {
	case TypeBool:
		return "bool"
	case TypeInt:
		return "int"
	case TypeFloat:
		return "float"
	case TypeText:
		return "text"
	case TypePoint2D:
		return "point2d"
	case TypePoint3D:
		return "point3d"
	case TypeGeodetic:
		return "geodetic"
	case TypeTuple2:
		return "tuple2"
	case TypeTuple3:
		return "tuple3"
	case TypeTuple4:
		return "tuple4"
	default:
		return fmt.Sprintf("valuekit.Type(%d)", uint8(t))
	}
}

// Interpolable reports whether the base type supports linear interpolation.
// Boolean, integer and text base types have step interpolation only.
func (t Type) Interpolable() bool {
	switch t {
	case TypeFloat, TypePoint2D, TypePoint3D, TypeGeodetic, TypeTuple2, TypeTuple3, TypeTuple4:
		return true
	default:
		return false
	}
}

// Epsilon is the single process-wide tolerance governing collinearity,
// segment-value equality and fractional-ratio boundary decisions. All
// comparisons that could be affected by IEEE-754 rounding use it.
const Epsilon = 1e-5

// Point2D is a planar point base value.
type Point2D struct{ X, Y float64 }

// Point3D is a spatial point base value.
type Point3D struct{ X, Y, Z float64 }

// GeoPoint is a geodetic point base value (degrees, optional height in
// meters). SRID/CRS handling beyond this raw triple is out of scope.
type GeoPoint struct {
	Lon, Lat, Height float64
	HasHeight        bool
}

// Tuple2 is an internal accumulator pair (e.g. running sum and count).
type Tuple2 struct{ A, B float64 }

// Tuple3 is an internal accumulator triple.
type Tuple3 struct{ A, B, C float64 }

// Tuple4 is an internal accumulator quadruple.
type Tuple4 struct{ A, B, C, D float64 }

// Value wraps a base-type datum of any of the supported types.
type Value struct {
	Type Type
	B    bool
	I    int32
	F    float64
	S    string
	P2   Point2D
	P3   Point3D
	Geo  GeoPoint
	T2   Tuple2
	T3   Tuple3
	T4   Tuple4
}

// Bool constructs a boolean Value.
func Bool(b bool) Value { return Value{Type: TypeBool, B: b} }

// Int constructs an integer Value.
func Int(i int32) Value { return Value{Type: TypeInt, I: i} }

// Float constructs a float Value.
func Float(f float64) Value { return Value{Type: TypeFloat, F: f} }

// Text constructs a text Value.
func Text(s string) Value { return Value{Type: TypeText, S: s} }

// FromPoint2D constructs a 2D point Value.
func FromPoint2D(p Point2D) Value { return Value{Type: TypePoint2D, P2: p} }

// FromPoint3D constructs a 3D point Value.
func FromPoint3D(p Point3D) Value { return Value{Type: TypePoint3D, P3: p} }

// FromGeoPoint constructs a geodetic point Value.
func FromGeoPoint(g GeoPoint) Value { return Value{Type: TypeGeodetic, Geo: g} }

// FromTuple2 constructs a tuple-2 accumulator Value.
func FromTuple2(t Tuple2) Value { return Value{Type: TypeTuple2, T2: t} }

// FromTuple3 constructs a tuple-3 accumulator Value.
func FromTuple3(t Tuple3) Value { return Value{Type: TypeTuple3, T3: t} }

// FromTuple4 constructs a tuple-4 accumulator Value.
func FromTuple4(t Tuple4) Value { return Value{Type: TypeTuple4, T4: t} }

// Copy returns an independent copy of v. All Value fields are plain data so
// a shallow copy suffices; this exists to document the ownership contract
// at call sites: every operation returns fresh values.
func (v Value) Copy() Value { return v }

// floatNaNRank orders NaN as greatest, matching IEEE-754-aware comparisons
// used throughout the engine.
func floatNaNRank(f float64) int {
	if math.IsNaN(f) {
		return 1
	}
	return 0
}

// compareFloat performs a NaN-aware comparison with NaN sorting greatest.
func compareFloat(a, b float64) int {
	ra, rb := floatNaNRank(a), floatNaNRank(b)
	if ra != rb {
		return ra - rb
	}
	if ra == 1 {
		return 0 // both NaN
	}
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

// Compare returns -1, 0 or 1 comparing a and b under the engine's total
// order. a and b must share the same Type.
func Compare(a, b Value) int {
	if a.Type != b.Type {
		panic(fmt.Sprintf("valuekit: Compare called on mismatched types %s/%s", a.Type, b.Type))
	}
	switch a.Type {
	case TypeBool:
		if a.B == b.B {
			return 0
		}
		if !a.B {
			return -1
		}
		return 1
	case TypeInt:
		switch {
		case a.I < b.I:
			return -1
		case a.I > b.I:
			return 1
		default:
			return 0
		}
	case TypeFloat:
		return compareFloat(a.F, b.F)
	case TypeText:
		switch {
		case a.S < b.S:
			return -1
		case a.S > b.S:
			return 1
		default:
			return 0
		}
	case TypePoint2D:
		if c := compareFloat(a.P2.X, b.P2.X); c != 0 {
			return c
		}
		return compareFloat(a.P2.Y, b.P2.Y)
	case TypePoint3D:
		if c := compareFloat(a.P3.X, b.P3.X); c != 0 {
			return c
		}
		if c := compareFloat(a.P3.Y, b.P3.Y); c != 0 {
			return c
		}
		return compareFloat(a.P3.Z, b.P3.Z)
	case TypeGeodetic:
		if c := compareFloat(a.Geo.Lon, b.Geo.Lon); c != 0 {
			return c
		}
		if c := compareFloat(a.Geo.Lat, b.Geo.Lat); c != 0 {
			return c
		}
		return compareFloat(a.Geo.Height, b.Geo.Height)
	case TypeTuple2:
		if c := compareFloat(a.T2.A, b.T2.A); c != 0 {
			return c
		}
		return compareFloat(a.T2.B, b.T2.B)
	case TypeTuple3:
		if c := compareFloat(a.T3.A, b.T3.A); c != 0 {
			return c
		}
		if c := compareFloat(a.T3.B, b.T3.B); c != 0 {
			return c
		}
		return compareFloat(a.T3.C, b.T3.C)
	case TypeTuple4:
		if c := compareFloat(a.T4.A, b.T4.A); c != 0 {
			return c
		}
		if c := compareFloat(a.T4.B, b.T4.B); c != 0 {
			return c
		}
		if c := compareFloat(a.T4.C, b.T4.C); c != 0 {
			return c
		}
		return compareFloat(a.T4.D, b.T4.D)
	default:
		panic(fmt.Sprintf("valuekit: Compare: unsupported type %s", a.Type))
	}
}

// Equal reports whether a and b are equal within Epsilon for interpolable
// float-bearing types, and exactly for step-only types.
func Equal(a, b Value) bool {
	switch a.Type {
	case TypeFloat:
		return floatEqual(a.F, b.F)
	case TypePoint2D:
		return floatEqual(a.P2.X, b.P2.X) && floatEqual(a.P2.Y, b.P2.Y)
	case TypePoint3D:
		return floatEqual(a.P3.X, b.P3.X) && floatEqual(a.P3.Y, b.P3.Y) && floatEqual(a.P3.Z, b.P3.Z)
	case TypeGeodetic:
		return floatEqual(a.Geo.Lon, b.Geo.Lon) && floatEqual(a.Geo.Lat, b.Geo.Lat) && floatEqual(a.Geo.Height, b.Geo.Height)
	case TypeTuple2:
		return floatEqual(a.T2.A, b.T2.A) && floatEqual(a.T2.B, b.T2.B)
	case TypeTuple3:
		return floatEqual(a.T3.A, b.T3.A) && floatEqual(a.T3.B, b.T3.B) && floatEqual(a.T3.C, b.T3.C)
	case TypeTuple4:
		return floatEqual(a.T4.A, b.T4.A) && floatEqual(a.T4.B, b.T4.B) && floatEqual(a.T4.C, b.T4.C) && floatEqual(a.T4.D, b.T4.D)
	default:
		return Compare(a, b) == 0
	}
}

func floatEqual(a, b float64) bool {
	if math.IsNaN(a) && math.IsNaN(b) {
		return true
	}
	return math.Abs(a-b) <= Epsilon
}

// Interpolate returns the value at fractional offset r in [0,1] along the
// segment from a to b. Only interpolable types support r strictly between
// 0 and 1; step types must be restricted to r == 0 or r == 1 by the caller.
func Interpolate(a, b Value, r float64) Value {
	if a.Type != b.Type {
		panic("valuekit: Interpolate called on mismatched types")
	}
	if r <= 0 {
		return a
	}
	if r >= 1 {
		return b
	}
	switch a.Type {
	case TypeFloat:
		return Float(a.F + (b.F-a.F)*r)
	case TypePoint2D:
		return FromPoint2D(Point2D{
			X: a.P2.X + (b.P2.X-a.P2.X)*r,
			Y: a.P2.Y + (b.P2.Y-a.P2.Y)*r,
		})
	case TypePoint3D:
		return FromPoint3D(Point3D{
			X: a.P3.X + (b.P3.X-a.P3.X)*r,
			Y: a.P3.Y + (b.P3.Y-a.P3.Y)*r,
			Z: a.P3.Z + (b.P3.Z-a.P3.Z)*r,
		})
	case TypeGeodetic:
		return interpolateGeodetic(a.Geo, b.Geo, r)
	case TypeTuple2:
		return FromTuple2(Tuple2{A: a.T2.A + (b.T2.A-a.T2.A)*r, B: a.T2.B + (b.T2.B-a.T2.B)*r})
	case TypeTuple3:
		return FromTuple3(Tuple3{
			A: a.T3.A + (b.T3.A-a.T3.A)*r,
			B: a.T3.B + (b.T3.B-a.T3.B)*r,
			C: a.T3.C + (b.T3.C-a.T3.C)*r,
		})
	case TypeTuple4:
		return FromTuple4(Tuple4{
			A: a.T4.A + (b.T4.A-a.T4.A)*r,
			B: a.T4.B + (b.T4.B-a.T4.B)*r,
			C: a.T4.C + (b.T4.C-a.T4.C)*r,
			D: a.T4.D + (b.T4.D-a.T4.D)*r,
		})
	default:
		// Step interpolation: the value only changes at r == 1.
		return a
	}
}

// interpolateGeodetic linearly interpolates two geodetic points by
// embedding them in a local 3D unit-sphere frame. Interpolating in the
// embedding and renormalizing reduces drift versus naive lon/lat averaging
// on near-parallel great-circle edges.
func interpolateGeodetic(a, b GeoPoint, r float64) Value {
	ax, ay, az := geoToXYZ(a)
	bx, by, bz := geoToXYZ(b)
	x := ax + (bx-ax)*r
	y := ay + (by-ay)*r
	z := az + (bz-az)*r
	norm := math.Sqrt(x*x + y*y + z*z)
	if norm == 0 {
		return FromGeoPoint(a)
	}
	x, y, z = x/norm, y/norm, z/norm
	lat := math.Asin(clamp(z, -1, 1))
	lon := math.Atan2(y, x)
	h := a.Height + (b.Height-a.Height)*r
	return FromGeoPoint(GeoPoint{
		Lon: lon * 180 / math.Pi, Lat: lat * 180 / math.Pi,
		Height: h, HasHeight: a.HasHeight || b.HasHeight,
	})
}

func geoToXYZ(g GeoPoint) (x, y, z float64) {
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

// InterpolateInverse solves for the fraction r in (0,1) at which the
// segment from a to b takes value target, for numeric/point types. It
// returns ok == false if target does not lie on the segment (within
// Epsilon), or if the type has no meaningful inverse (text, bool).
func InterpolateInverse(a, b, target Value) (r float64, ok bool) {
	switch a.Type {
	case TypeFloat:
		return inverseFloat(a.F, b.F, target.F)
	case TypePoint2D:
		return inversePoint2D(a.P2, b.P2, target.P2)
	case TypePoint3D:
		return inversePoint3D(a.P3, b.P3, target.P3)
	default:
		return 0, false
	}
}

func inverseFloat(a, b, target float64) (float64, bool) {
	if math.Abs(b-a) < Epsilon {
		if math.Abs(target-a) < Epsilon {
			return 0, true
		}
		return 0, false
	}
	r := (target - a) / (b - a)
	if r < -Epsilon || r > 1+Epsilon {
		return 0, false
	}
	return clamp(r, 0, 1), true
}

// inversePoint2D projects target onto the segment a-b and accepts the hit
// only if the perpendicular distance is within Epsilon.
func inversePoint2D(a, b, target Point2D) (float64, bool) {
	dx, dy := b.X-a.X, b.Y-a.Y
	length2 := dx*dx + dy*dy
	if length2 < Epsilon*Epsilon {
		if math.Hypot(target.X-a.X, target.Y-a.Y) < Epsilon {
			return 0, true
		}
		return 0, false
	}
	r := ((target.X-a.X)*dx + (target.Y-a.Y)*dy) / length2
	if r < -Epsilon || r > 1+Epsilon {
		return 0, false
	}
	r = clamp(r, 0, 1)
	projX, projY := a.X+dx*r, a.Y+dy*r
	if math.Hypot(target.X-projX, target.Y-projY) > Epsilon {
		return 0, false
	}
	return r, true
}

func inversePoint3D(a, b, target Point3D) (float64, bool) {
	dx, dy, dz := b.X-a.X, b.Y-a.Y, b.Z-a.Z
	length2 := dx*dx + dy*dy + dz*dz
	if length2 < Epsilon*Epsilon {
		if dist3D(target, a) < Epsilon {
			return 0, true
		}
		return 0, false
	}
	r := ((target.X-a.X)*dx + (target.Y-a.Y)*dy + (target.Z-a.Z)*dz) / length2
	if r < -Epsilon || r > 1+Epsilon {
		return 0, false
	}
	r = clamp(r, 0, 1)
	proj := Point3D{X: a.X + dx*r, Y: a.Y + dy*r, Z: a.Z + dz*r}
	if dist3D(target, proj) > Epsilon {
		return 0, false
	}
	return r, true
}

func dist3D(a, b Point3D) float64 {
	return math.Sqrt((a.X-b.X)*(a.X-b.X) + (a.Y-b.Y)*(a.Y-b.Y) + (a.Z-b.Z)*(a.Z-b.Z))
}

// Collinear tests whether three base values sampled at three strictly
// increasing timestamps are collinear, i.e. whether v2 equals the value
// linearly interpolated between v1 and v3 at the fractional offset implied
// by the timestamps, within Epsilon.
func Collinear(v1, v2, v3 Value, t1, t2, t3 int64) bool {
	if t3 == t1 {
		return Equal(v1, v3) && Equal(v1, v2)
	}
	r := float64(t2-t1) / float64(t3-t1)
	interp := Interpolate(v1, v3, r)
	return Equal(interp, v2)
}
