package restrict

import (
	"math"

	"github.com/pkg/errors"

	"github.com/tempoval/tempoval/temporal/value"
	"github.com/tempoval/tempoval/temporal/valuekit"
)

// EverEqual implements ever_=: true if v takes value target at some instant
// in its time domain. The bounding-box check short-circuits
// the common case where target falls entirely outside v's observed value
// range, avoiding the segment scan.
func EverEqual(v value.Temporal, target valuekit.Value) (bool, error) {
	if f, ok := scalarOf(v.BaseType(), target); ok {
		if b := v.BBox(); b.HasValue && !b.Value.Contains(f) {
			return false, nil
		}
	}
	_, err := RestrictValue(v, target, At)
	if err != nil {
		if errors.Is(err, ErrEmpty) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// AlwaysEqual implements always_=: true if v's entire time domain has value
// target, i.e. restricting it away (Minus) leaves nothing.
// A degenerate (single-point) bounding box value range is a fast-path
// witness that the whole value could be constant at target.
func AlwaysEqual(v value.Temporal, target valuekit.Value) (bool, error) {
	if f, ok := scalarOf(v.BaseType(), target); ok {
		if b := v.BBox(); b.HasValue && (b.Value.Min != f || b.Value.Max != f) {
			return false, nil
		}
	}
	_, err := RestrictValue(v, target, Minus)
	if err != nil {
		if errors.Is(err, ErrEmpty) {
			return true, nil
		}
		return false, err
	}
	return false, nil
}

// EverLess implements ever_< for numeric base types: true if v takes some
// value strictly less than x at some instant.
func EverLess(v value.Temporal, x float64) (bool, error) {
	return everInRange(v, NumRange{Min: math.Inf(-1), Max: x, MinInc: true, MaxInc: false})
}

// EverLessEqual implements ever_<=.
func EverLessEqual(v value.Temporal, x float64) (bool, error) {
	return everInRange(v, NumRange{Min: math.Inf(-1), Max: x, MinInc: true, MaxInc: true})
}

// EverGreater implements ever_>.
func EverGreater(v value.Temporal, x float64) (bool, error) {
	return everInRange(v, NumRange{Min: x, Max: math.Inf(1), MinInc: false, MaxInc: true})
}

// EverGreaterEqual implements ever_>=.
func EverGreaterEqual(v value.Temporal, x float64) (bool, error) {
	return everInRange(v, NumRange{Min: x, Max: math.Inf(1), MinInc: true, MaxInc: true})
}

// AlwaysLess implements always_<: true if v's whole domain is strictly
// below x, i.e. restricting to [x, +inf) leaves nothing.
func AlwaysLess(v value.Temporal, x float64) (bool, error) {
	return alwaysInRange(v, NumRange{Min: x, Max: math.Inf(1), MinInc: true, MaxInc: true})
}

// AlwaysLessEqual implements always_<=.
func AlwaysLessEqual(v value.Temporal, x float64) (bool, error) {
	return alwaysInRange(v, NumRange{Min: x, Max: math.Inf(1), MinInc: false, MaxInc: true})
}

// AlwaysGreater implements always_>.
func AlwaysGreater(v value.Temporal, x float64) (bool, error) {
	return alwaysInRange(v, NumRange{Min: math.Inf(-1), Max: x, MinInc: true, MaxInc: true})
}

// AlwaysGreaterEqual implements always_>=.
func AlwaysGreaterEqual(v value.Temporal, x float64) (bool, error) {
	return alwaysInRange(v, NumRange{Min: math.Inf(-1), Max: x, MinInc: true, MaxInc: false})
}

func everInRange(v value.Temporal, r NumRange) (bool, error) {
	if b := v.BBox(); b.HasValue && !rangesOverlap(b.Value.Min, b.Value.Max, r) {
		return false, nil
	}
	_, err := RestrictRange(v, r, At)
	if err != nil {
		if errors.Is(err, ErrEmpty) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

func alwaysInRange(v value.Temporal, outside NumRange) (bool, error) {
	_, err := RestrictRange(v, outside, At)
	if err != nil {
		if errors.Is(err, ErrEmpty) {
			return true, nil
		}
		return false, err
	}
	return false, nil
}

func rangesOverlap(min, max float64, r NumRange) bool {
	if max < r.Min || (max == r.Min && !r.MinInc) {
		return false
	}
	if min > r.Max || (min == r.Max && !r.MaxInc) {
		return false
	}
	return true
}
