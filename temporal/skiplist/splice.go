package skiplist

import (
	"time"

	"github.com/pkg/errors"

	"github.com/tempoval/tempoval/temporal/period"
	"github.com/tempoval/tempoval/temporal/restrict"
	tsync "github.com/tempoval/tempoval/temporal/sync"
	"github.com/tempoval/tempoval/temporal/value"
)

// Splice merges a sorted batch into the list using combine. combine is
// only consulted for ElemTemporal lists; ElemTimestamp and ElemPeriod
// lists are folded by plain set-union/period-normalization, the way
// t-union's combine function is null. crossings requests turning-point
// insertion at value-crossing boundaries between overlapping ElemTemporal
// pieces. checkInterrupt may be nil.
func (l *List) Splice(batch []Elem, combine CombineFn, crossings bool, checkInterrupt CheckInterrupt) error {
	if len(batch) == 0 {
		return nil
	}
	start := time.Now()
	l.mu.Lock()
	defer l.mu.Unlock()
	defer func() { l.spliceSeconds.Observe(time.Since(start).Seconds()) }()
	l.spliceCount.Inc()

	kind := batch[0].Kind
	for _, e := range batch {
		if e.Kind != kind {
			return errors.Wrapf(ErrKindMismatch, "batch mixes %s and %s", kind, e.Kind)
		}
	}
	if err := l.ensureKind(kind); err != nil {
		return err
	}

	logSplice(len(batch), kind)
	sortedBatch := sortedPositions(batch)
	enclosing := sortedBatch[0].position()
	for _, e := range sortedBatch[1:] {
		enclosing = period.SuperUnion(enclosing, e.position())
	}

	var spliced []Elem
	var toRemove []posKey
	for e := l.sl.Front(); e != nil; e = e.Next() {
		elem := e.Value.(Elem)
		pos := elem.position()
		if pos.Overlaps(enclosing) || pos.Adjacent(enclosing) {
			spliced = append(spliced, elem)
			toRemove = append(toRemove, e.Key().(posKey))
		}
		if l.checkInterruptedLocked(checkInterrupt) {
			return ErrInterrupted
		}
	}
	for _, k := range toRemove {
		l.removeKey(k)
	}

	var merged []Elem
	var err error
	switch kind {
	case ElemTimestamp:
		merged = mergeTimestamps(spliced, sortedBatch)
	case ElemPeriod:
		merged = mergePeriods(spliced, sortedBatch)
	case ElemTemporal:
		merged, err = mergeTemporal(spliced, sortedBatch, combine, crossings, func() bool {
			return l.checkInterruptedLocked(checkInterrupt)
		})
	}
	if err != nil {
		// Re-insert the untouched spliced elements so the list is left in
		// a valid normalized state.
		for _, e := range spliced {
			l.insert(e)
		}
		return err
	}

	if err := l.reserve(len(merged)); err != nil {
		for _, e := range spliced {
			l.insert(e)
		}
		return err
	}
	for _, e := range merged {
		l.insert(e)
	}
	return nil
}

func (l *List) checkInterruptedLocked(checkInterrupt CheckInterrupt) bool {
	if l.interrupted.Load() {
		l.interruptedCnt.Inc()
		return true
	}
	if checkInterrupt != nil && checkInterrupt() {
		l.interruptedCnt.Inc()
		return true
	}
	return false
}

// mergeTimestamps implements t-union over bare timestamps: the result is
// the sorted, deduplicated set of all timestamps in spliced and batch.
func mergeTimestamps(spliced, batch []Elem) []Elem {
	all := make([]period.Timestamp, 0, len(spliced)+len(batch))
	for _, e := range spliced {
		all = append(all, e.Timestamp)
	}
	for _, e := range batch {
		all = append(all, e.Timestamp)
	}
	set := period.NormalizeSet(all)
	out := make([]Elem, len(set))
	for i, t := range set {
		out[i] = TimestampElem(t)
	}
	return out
}

// mergePeriods implements t-union over periods: normalize merges any two
// overlapping or adjacent periods.
func mergePeriods(spliced, batch []Elem) []Elem {
	all := make([]period.Period, 0, len(spliced)+len(batch))
	for _, e := range spliced {
		all = append(all, e.Period)
	}
	for _, e := range batch {
		all = append(all, e.Period)
	}
	normalized := period.Normalize(all)
	out := make([]Elem, len(normalized))
	for i, p := range normalized {
		out[i] = PeriodElem(p)
	}
	return out
}

// mergeTemporal implements tinstant_tagg/tsequence_tagg: walk spliced and
// batch in merge order, synchronizing and combining wherever their
// positions overlap and passing the rest through unchanged, then
// normalizes adjacent equal-boundary pieces back together.
func mergeTemporal(spliced, batch []Elem, combine CombineFn, crossings bool, interrupted func() bool) ([]Elem, error) {
	a := append([]Elem(nil), spliced...)
	b := append([]Elem(nil), batch...)
	var out []Elem
	i, j := 0, 0
	for i < len(a) && j < len(b) {
		if interrupted() {
			return nil, ErrInterrupted
		}
		pa, pb := a[i].position(), b[j].position()
		switch {
		case pa.Before(pb) && !pa.Adjacent(pb):
			out = append(out, a[i])
			i++
		case pb.Before(pa) && !pb.Adjacent(pa):
			out = append(out, b[j])
			j++
		default:
			inter, ok := period.Intersection(pa, pb)
			if !ok {
				// Adjacent but not overlapping: emit whichever starts
				// first and let the final coalesce pass join them if
				// their boundary values agree.
				if period.Compare(pa, pb) <= 0 {
					out = append(out, a[i])
					i++
				} else {
					out = append(out, b[j])
					j++
				}
				continue
			}
			aBefore, aOver, aAfter, err := splitAt(a[i], inter)
			if err != nil {
				return nil, err
			}
			bBefore, bOver, bAfter, err := splitAt(b[j], inter)
			if err != nil {
				return nil, err
			}
			if aBefore != nil {
				out = append(out, *aBefore)
			}
			if bBefore != nil {
				out = append(out, *bBefore)
			}
			combined, err := combineElems(aOver, bOver, combine, crossings)
			if err != nil {
				return nil, err
			}
			out = append(out, combined...)
			if aAfter != nil {
				a[i] = *aAfter
			} else {
				i++
			}
			if bAfter != nil {
				b[j] = *bAfter
			} else {
				j++
			}
		}
	}
	out = append(out, a[i:]...)
	out = append(out, b[j:]...)
	return coalesceTemporal(out)
}

// splitAt slices e's temporal value at period boundaries inter ⊆ e.position,
// returning the pieces strictly before inter, within inter, and strictly
// after inter (nil for a piece that doesn't exist).
func splitAt(e Elem, inter period.Period) (before, within, after *Elem, err error) {
	pos := e.position()
	if inter.Equal(pos) {
		return nil, &e, nil, nil
	}
	withinT, err := restrictElemToPeriod(e, inter)
	if err != nil {
		return nil, nil, nil, err
	}
	var beforeE, afterE *Elem
	if pos.Lower < inter.Lower || (pos.Lower == inter.Lower && pos.LowerInc && !inter.LowerInc) {
		bp := period.Period{Lower: pos.Lower, Upper: inter.Lower, LowerInc: pos.LowerInc, UpperInc: !inter.LowerInc}
		el, err := restrictElemToPeriod(e, bp)
		if err != nil {
			return nil, nil, nil, err
		}
		beforeE = el
	}
	if pos.Upper > inter.Upper || (pos.Upper == inter.Upper && pos.UpperInc && !inter.UpperInc) {
		ap := period.Period{Lower: inter.Upper, Upper: pos.Upper, LowerInc: !inter.UpperInc, UpperInc: pos.UpperInc}
		el, err := restrictElemToPeriod(e, ap)
		if err != nil {
			return nil, nil, nil, err
		}
		afterE = el
	}
	return beforeE, withinT, afterE, nil
}

// restrictElemToPeriod restricts e's Temporal payload to sub within
// e.position, using the restriction engine's At mode over the period.
func restrictElemToPeriod(e Elem, sub period.Period) (*Elem, error) {
	res, err := restrict.RestrictPeriod(e.Temporal, sub, restrict.At)
	if err != nil {
		if errors.Is(err, restrict.ErrEmpty) {
			return nil, nil
		}
		return nil, err
	}
	out := Elem{Kind: ElemTemporal, Temporal: res}
	return &out, nil
}

// combineElems folds two overlapping ElemTemporal payloads into one or more
// pieces, synchronizing them first (with crossings if requested) then
// applying combine pointwise, a sync_lift specialised to a same-base-type
// fold.
func combineElems(a, b *Elem, combine CombineFn, crossings bool) ([]Elem, error) {
	if a == nil {
		if b == nil {
			return nil, nil
		}
		return []Elem{*b}, nil
	}
	if b == nil {
		return []Elem{*a}, nil
	}
	if combine == nil {
		return nil, errors.New("skiplist: combine required for overlapping temporal elements")
	}
	merged, err := tsync.SyncLift(combine, a.Temporal.(value.Evaluator), b.Temporal.(value.Evaluator), tsync.LfInfo{
		Arity:        2,
		ResultType:   a.Temporal.BaseType(),
		ResultInterp: a.Temporal.Interp(),
		Crossings:    crossings,
	})
	if err != nil {
		return nil, err
	}
	return flattenTemporal(merged), nil
}

// flattenTemporal widens a combine result (which could itself narrow to a
// SequenceSet if sync_lift's discontinuity splitting ever kicks in) back
// into individual Instant/Sequence elements.
func flattenTemporal(v value.Temporal) []Elem {
	switch t := v.(type) {
	case *value.SequenceSet:
		out := make([]Elem, len(t.Sequences))
		for i := range t.Sequences {
			out[i] = Elem{Kind: ElemTemporal, Temporal: &t.Sequences[i]}
		}
		return out
	default:
		return []Elem{{Kind: ElemTemporal, Temporal: v}}
	}
}
