package skiplist

import (
	"github.com/pkg/errors"

	"github.com/tempoval/tempoval/temporal/period"
	"github.com/tempoval/tempoval/temporal/value"
)

// ErrNoKind is returned by Finalize when the list has never had an element
// spliced into it, so there is nothing to build a result from.
var ErrNoKind = errors.New("skiplist: finalize called on an empty, kindless list")

// FinalizeTimestamps builds the timestamp-set represented by the list's
// current state. Only valid for an ElemTimestamp list.
func (l *List) FinalizeTimestamps() (period.Set, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if !l.kindSet {
		return nil, ErrNoKind
	}
	if l.kind != ElemTimestamp {
		return nil, errors.Wrapf(ErrKindMismatch, "finalize: list holds %s, not Timestamp", l.kind)
	}
	out := make(period.Set, 0, l.count)
	for e := l.sl.Front(); e != nil; e = e.Next() {
		out = append(out, e.Value.(Elem).Timestamp)
	}
	return out, nil
}

// FinalizePeriods builds the period-set represented by the list's current
// state. Only valid for an ElemPeriod list.
func (l *List) FinalizePeriods() (period.PeriodSet, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if !l.kindSet {
		return period.PeriodSet{}, ErrNoKind
	}
	if l.kind != ElemPeriod {
		return period.PeriodSet{}, errors.Wrapf(ErrKindMismatch, "finalize: list holds %s, not Period", l.kind)
	}
	periods := make([]period.Period, 0, l.count)
	for e := l.sl.Front(); e != nil; e = e.Next() {
		periods = append(periods, e.Value.(Elem).Period)
	}
	return period.NewSet(periods), nil
}

// FinalizeTemporal builds the single temporal value represented by the
// list's current state, narrowed to its minimal subtype. Only valid for an
// ElemTemporal list.
func (l *List) FinalizeTemporal() (value.Temporal, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if !l.kindSet {
		return nil, ErrNoKind
	}
	if l.kind != ElemTemporal {
		return nil, errors.Wrapf(ErrKindMismatch, "finalize: list holds %s, not Temporal", l.kind)
	}
	if l.count == 0 {
		return nil, ErrNoKind
	}
	seqs := make([]value.Sequence, 0, l.count)
	for e := l.sl.Front(); e != nil; e = e.Next() {
		seqs = append(seqs, asSequence(e.Value.(Elem).Temporal))
	}
	if len(seqs) == 1 {
		return value.Narrow(&seqs[0]), nil
	}
	// Pieces that are all single instants form an instant set.
	samples := make([]value.Sample, 0, len(seqs))
	for _, s := range seqs {
		if len(s.Instants) != 1 {
			break
		}
		samples = append(samples, s.Instants[0])
	}
	if len(samples) == len(seqs) {
		is, err := value.NewInstantSet(seqs[0].BaseType(), seqs[0].Interp(), samples)
		if err != nil {
			return nil, err
		}
		return is, nil
	}
	ss, err := value.NewSequenceSet(seqs[0].BaseType(), seqs[0].Interp(), seqs)
	if err != nil {
		return nil, err
	}
	return value.Narrow(ss), nil
}
