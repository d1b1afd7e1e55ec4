package sync

import (
	"github.com/pkg/errors"

	"github.com/tempoval/tempoval/temporal/period"
	"github.com/tempoval/tempoval/temporal/value"
	"github.com/tempoval/tempoval/temporal/valuekit"
)

// ErrEmptyResult signals a lift whose inputs do not overlap in time. Empty
// result is not an error condition by itself, but callers that need to
// distinguish "no overlap" from "a value" use this sentinel.
var ErrEmptyResult = errors.New("sync: empty result")

// LfInfo configures Lift/SyncLift.
type LfInfo struct {
	// Arity is 1, 2 or 3; only unary (Lift) and binary (SyncLift) are
	// implemented directly, matching the operations this engine exposes.
	Arity int
	// ResultType is the base type of the lifted output.
	ResultType valuekit.Type
	// ResultInterp is the interpolation of the output.
	ResultInterp value.Interp
	// Discontinuous marks outputs (typically boolean comparisons) whose
	// value can change strictly inside an input segment; SyncLift splits
	// the result at every value change into maximal constant-value runs
	// rather than representing it as one interpolated segment.
	Discontinuous bool
	// InvertArgs swaps the two SyncLift inputs before applying f.
	InvertArgs bool
	// Crossings requests SynchronizeWithCrossings even when Discontinuous
	// is false, used by the aggregation skiplist's combine step, where the
	// merged output stays continuous (e.g. pointwise max of two linear
	// segments) but still needs a turning-point instant inserted at the
	// crossing for correct interpolation either side of it.
	Crossings bool
	// TurningPointFn maps the two input segments' aligned endpoint pairs
	// to a timestamp at which the output changes. SyncLift does not call
	// it: the only turning points in its output are the crossing instants
	// synchronization inserts when Discontinuous or Crossings is set.
	TurningPointFn func(t1a, t2a, t1b, t2b value.Sample) (period.Timestamp, bool)
}

// Lift applies a unary base-type function pointwise to v, preserving its
// subtype shape.
func Lift(f func(valuekit.Value) valuekit.Value, v value.Evaluator, lf LfInfo) (value.Temporal, error) {
	switch t := v.(type) {
	case *value.Instant:
		return value.NewInstant(lf.ResultType, lf.ResultInterp, value.Sample{Value: f(t.Value()), T: t.Timestamp()}), nil
	case *value.InstantSet:
		mapped := mapSamples(t.Instants, f)
		return value.NewInstantSet(lf.ResultType, lf.ResultInterp, mapped)
	case *value.Sequence:
		mapped := mapSamples(t.Instants, f)
		s, err := value.NewSequence(lf.ResultType, lf.ResultInterp, t.Period, mapped)
		if err != nil {
			return nil, err
		}
		return value.Narrow(s), nil
	case *value.SequenceSet:
		seqs := make([]value.Sequence, len(t.Sequences))
		for i, seq := range t.Sequences {
			mapped := mapSamples(seq.Instants, f)
			s, err := value.NewSequence(lf.ResultType, lf.ResultInterp, seq.Period, mapped)
			if err != nil {
				return nil, err
			}
			seqs[i] = *s
		}
		ss, err := value.NewSequenceSet(lf.ResultType, lf.ResultInterp, seqs)
		if err != nil {
			return nil, err
		}
		return value.Narrow(ss), nil
	default:
		return nil, errors.Wrapf(value.ErrInvalidArgument, "lift: unsupported subtype %T", v)
	}
}

func mapSamples(in []value.Sample, f func(valuekit.Value) valuekit.Value) []value.Sample {
	out := make([]value.Sample, len(in))
	for i, s := range in {
		out[i] = value.Sample{Value: f(s.Value), T: s.T}
	}
	return out
}

// SyncLift synchronizes a and b, then applies a binary base-type function
// pointwise across the aligned streams. For Discontinuous results it
// splits the output into maximal constant-value runs rather
// than emitting one interpolated segment, since a step-valued comparison
// cannot otherwise represent a mid-segment flip.
func SyncLift(f func(x, y valuekit.Value) valuekit.Value, a, b value.Evaluator, lf LfInfo) (value.Temporal, error) {
	if lf.InvertArgs {
		a, b = b, a
		orig := f
		f = func(x, y valuekit.Value) valuekit.Value { return orig(y, x) }
	}
	mode := Synchronize
	if lf.Discontinuous || lf.Crossings {
		mode = SynchronizeWithCrossings
	}
	aPrime, bPrime, ok, err := Synchronize(a, b, mode)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrEmptyResult
	}

	aSamples, bSamples := aPrime.Samples(), bPrime.Samples()
	out := make([]value.Sample, len(aSamples))
	for i := range aSamples {
		out[i] = value.Sample{Value: f(aSamples[i].Value, bSamples[i].Value), T: aSamples[i].T}
	}

	periods := aPrime.TimePeriods()
	if !lf.Discontinuous {
		return rebuildLike(aPrime, lf.ResultType, lf.ResultInterp, out, periods)
	}
	return splitDiscontinuous(lf.ResultType, out, periods)
}

// rebuildLike reconstructs a result with the same subtype shape as
// template (Instant/Sequence/SequenceSet), using the template's period
// boundaries and the already-computed output samples.
func rebuildLike(template value.Temporal, bt valuekit.Type, interp value.Interp, out []value.Sample, periods []period.Period) (value.Temporal, error) {
	switch template.(type) {
	case *value.Instant:
		return value.NewInstant(bt, interp, out[0]), nil
	case *value.InstantSet:
		return value.NewInstantSet(bt, interp, out)
	case *value.Sequence:
		s, err := value.NewSequence(bt, interp, periods[0], out)
		if err != nil {
			return nil, err
		}
		return value.Narrow(s), nil
	case *value.SequenceSet:
		seqs := make([]value.Sequence, 0, len(periods))
		idx := 0
		for _, p := range periods {
			var chunk []value.Sample
			for idx < len(out) && p.Contains(out[idx].T) {
				chunk = append(chunk, out[idx])
				idx++
			}
			if len(chunk) == 0 {
				continue
			}
			s, err := value.NewSequence(bt, interp, p, chunk)
			if err != nil {
				return nil, err
			}
			seqs = append(seqs, *s)
		}
		ss, err := value.NewSequenceSet(bt, interp, seqs)
		if err != nil {
			return nil, err
		}
		return value.Narrow(ss), nil
	default:
		return nil, errors.Wrapf(value.ErrInvalidArgument, "sync_lift: unsupported subtype %T", template)
	}
}

// splitDiscontinuous builds a step sequence-set whose runs are maximal
// spans of equal consecutive output values, so a discontinuous function
// (e.g. temporal less-than) is represented correctly: the boundary between
// two runs is exclusive on the outgoing run and inclusive on the incoming
// one.
func splitDiscontinuous(bt valuekit.Type, out []value.Sample, periods []period.Period) (value.Temporal, error) {
	if len(out) == 1 {
		return value.NewInstant(bt, value.Step, out[0]), nil
	}
	var seqs []value.Sequence
	runStart := 0
	flush := func(end int, upperInc bool) error {
		run := out[runStart : end+1]
		if !upperInc {
			// The run keeps its value up to, and excluding, the next sample.
			run = append(append([]value.Sample(nil), run...), value.Sample{Value: run[len(run)-1].Value, T: out[end+1].T})
		}
		p := period.Period{Lower: run[0].T, Upper: run[len(run)-1].T, LowerInc: true, UpperInc: upperInc}
		if p.IsInstant() {
			p.UpperInc = true
		}
		s, err := value.NewSequence(bt, value.Step, p, run)
		if err != nil {
			return err
		}
		seqs = append(seqs, *s)
		return nil
	}
	for i := 1; i < len(out); i++ {
		lastOfPeriod := samePeriodBoundary(periods, out[i-1].T, out[i].T)
		if !valuekit.Equal(out[i].Value, out[i-1].Value) || lastOfPeriod {
			if err := flush(i-1, lastOfPeriod); err != nil {
				return nil, err
			}
			runStart = i
		}
	}
	if err := flush(len(out)-1, true); err != nil {
		return nil, err
	}
	if len(seqs) == 1 {
		return value.Narrow(&seqs[0]), nil
	}
	ss, err := value.NewSequenceSet(bt, value.Step, seqs)
	if err != nil {
		return nil, err
	}
	return value.Narrow(ss), nil
}

// samePeriodBoundary reports whether t0 and t1 straddle a gap between two
// of the synchronizer's output periods (a genuine time-domain discontinuity
// rather than a value change), which must always end a run.
func samePeriodBoundary(periods []period.Period, t0, t1 period.Timestamp) bool {
	for _, p := range periods {
		if p.Upper == t0 {
			return true
		}
	}
	_ = t1
	return false
}
