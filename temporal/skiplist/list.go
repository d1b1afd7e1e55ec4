package skiplist

import (
	"sort"
	"sync"

	extskiplist "github.com/huandu/skiplist"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/atomic"

	"github.com/tempoval/tempoval/pkg/util/log"
	"github.com/tempoval/tempoval/temporal/period"
	"github.com/tempoval/tempoval/temporal/valuekit"
)

// MaxLevel bounds the skiplist's height, up to 32 levels.
// github.com/huandu/skiplist assigns height internally via its own
// geometric distribution; this constant is carried only as documentation
// of that bound, not fed into the library.
const MaxLevel = 32

// Initial capacity and growth factor, adopted from the MobilityDB original
// (skiplist.h SKIPLIST_INITIAL_CAPACITY / SKIPLIST_GROW) so the
// resource-exhausted behavior is concretely testable rather than an
// unbounded Go slice. Since github.com/huandu/skiplist manages its own
// node storage, these constants instead size a logical element-count
// ceiling that List.Splice enforces before insertion.
const (
	InitialCapacity = 1024
	growFactor      = 2
)

// ErrResourceExhausted signals that the skiplist cannot grow further: the
// system reports an out-of-memory aggregation error rather than silently
// failing.
var ErrResourceExhausted = errors.New("skiplist: resource exhausted")

// ErrKindMismatch signals a splice of an element whose kind differs from
// the list's established kind.
var ErrKindMismatch = errors.New("skiplist: mixing element kinds")

// ErrInterrupted is returned when checkInterrupt reports a positive result
// mid-splice.
var ErrInterrupted = errors.New("skiplist: interrupted")

// CombineFn folds two overlapping ElemTemporal payload values into one. It
// operates at the base-value level, a Datum-to-Datum callback; the
// skiplist handles synchronizing the two sides onto a common time domain
// before calling it.
type CombineFn func(a, b valuekit.Value) valuekit.Value

// CheckInterrupt is polled by Splice at its documented checkpoints. A nil
// CheckInterrupt disables cancellation.
type CheckInterrupt func() bool

// List is the aggregation skiplist backing the time-type aggregates.
type List struct {
	mu          sync.Mutex
	sl          *extskiplist.SkipList
	kindSet     bool
	kind        ElemKind
	count       int
	capacity    int
	maxCapacity int
	seq         uint64
	spliceCount    prometheus.Counter
	spliceSeconds  prometheus.Histogram
	resizeCount    prometheus.Counter
	interruptedCnt prometheus.Counter
	interrupted    atomic.Bool
}

// posKey is the skiplist's ordering key: a period position plus an
// insertion sequence number so elements whose positions tie (e.g. two
// adjacent instants produced mid-splice before the final merge pass
// coalesces them) still occupy distinct slots.
type posKey struct {
	pos period.Period
	seq uint64
}

func comparePosKey(lhs, rhs interface{}) int {
	a, b := lhs.(posKey), rhs.(posKey)
	if c := period.Compare(a.pos, b.pos); c != 0 {
		return c
	}
	switch {
	case a.seq < b.seq:
		return -1
	case a.seq > b.seq:
		return 1
	default:
		return 0
	}
}

// New constructs an empty List with the given registry for the
// splice-count/duration/resize/interrupted metrics. registry may be nil to
// skip registration. The list's allocation ceiling grows unbounded except
// for int overflow; use NewWithCapacity to impose a concrete ceiling for
// testing the resource-exhausted path.
func New(registry prometheus.Registerer) *List {
	return NewWithCapacity(registry, 0)
}

// NewWithCapacity is New with an explicit allocation ceiling; maxCapacity
// <= 0 means unbounded (subject only to int overflow of the doubling
// sequence).
func NewWithCapacity(registry prometheus.Registerer, maxCapacity int) *List {
	initial := InitialCapacity
	if maxCapacity > 0 && maxCapacity < initial {
		initial = maxCapacity
	}
	l := &List{
		sl:          extskiplist.New(extskiplist.GreaterThanFunc(comparePosKey)),
		capacity:    initial,
		maxCapacity: maxCapacity,
		spliceCount: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "tempoval_skiplist_splice_total",
			Help: "Number of Splice calls.",
		}),
		spliceSeconds: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name: "tempoval_skiplist_splice_seconds",
			Help: "Duration of Splice calls.",
		}),
		resizeCount: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "tempoval_skiplist_resize_total",
			Help: "Number of capacity doublings.",
		}),
		interruptedCnt: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "tempoval_skiplist_interrupted_total",
			Help: "Number of splices aborted by a cancellation check.",
		}),
	}
	if registry != nil {
		registry.MustRegister(l.spliceCount, l.spliceSeconds, l.resizeCount, l.interruptedCnt)
	}
	return l
}

// Len returns the number of elements currently held.
func (l *List) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.count
}

// Kind returns the element kind established by the first insertion, and
// ok==false if the list is still empty.
func (l *List) Kind() (ElemKind, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.kind, l.kindSet
}

// Interrupt requests that any in-flight Splice stop at its next checkpoint
// and return ErrInterrupted, leaving the list in a valid normalized state.
// Cooperative cancellation works via an externally settable flag.
func (l *List) Interrupt() { l.interrupted.Store(true) }

// Values walks the list in order, returning its elements without copying
// their payload: it walks next[0], returning pointers with no copy.
func (l *List) Values() []Elem {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]Elem, 0, l.count)
	for e := l.sl.Front(); e != nil; e = e.Next() {
		out = append(out, e.Value.(Elem))
	}
	return out
}

// ensureKind records the list's element kind on first use, or rejects a
// mismatched kind.
func (l *List) ensureKind(k ElemKind) error {
	if !l.kindSet {
		l.kind = k
		l.kindSet = true
		return nil
	}
	if l.kind != k {
		return errors.Wrapf(ErrKindMismatch, "list holds %s elements, got %s", l.kind, k)
	}
	return nil
}

// reserve grows the logical capacity ceiling, doubling until batch more
// elements fit or the allocation ceiling would be exceeded.
func (l *List) reserve(additional int) error {
	for l.count+additional > l.capacity {
		next := l.capacity * growFactor
		if next <= l.capacity || (l.maxCapacity > 0 && next > l.maxCapacity) {
			return ErrResourceExhausted
		}
		l.capacity = next
		l.resizeCount.Inc()
	}
	return nil
}

func (l *List) insert(e Elem) {
	l.seq++
	l.sl.Set(posKey{pos: e.position(), seq: l.seq}, e)
	l.count++
}

func (l *List) removeKey(k posKey) {
	l.sl.Remove(k)
	l.count--
}

func logSplice(n int, kind ElemKind) {
	_ = log.Logger.Log("msg", "skiplist splice", "batch_size", n, "kind", kind.String())
}

// sortedPositions returns batch's elements sorted by position, as Splice's
// first step requires a sorted batch.
func sortedPositions(batch []Elem) []Elem {
	out := append([]Elem(nil), batch...)
	sort.Slice(out, func(i, j int) bool { return period.Compare(out[i].position(), out[j].position()) < 0 })
	return out
}
