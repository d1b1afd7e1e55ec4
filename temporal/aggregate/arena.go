package aggregate

import (
	"github.com/google/uuid"

	"github.com/tempoval/tempoval/pkg/util/log"
)

// Arena identifies one aggregation's memory context, passed explicitly to
// every transition call. Giving each arena a uuid lets a host correlate
// the Combine calls and Interrupt of a partitioned aggregation across
// goroutines in its logs, the way the teacher tags a BlockMeta/TenantIndex
// entry with uuid.New() (tempodb/backend/tenantindex_test.go).
type Arena struct {
	ID uuid.UUID
}

// NewArena mints a fresh arena identity and logs its creation.
func NewArena() Arena {
	a := Arena{ID: uuid.New()}
	_ = log.Logger.Log("msg", "aggregation arena created", "arena_id", a.ID.String())
	return a
}

// LogCombine records a combine-of-partial-states event for a, correlating
// it with the other arena being folded in.
func (a Arena) LogCombine(other Arena) {
	_ = log.Logger.Log("msg", "aggregation arenas combined", "arena_id", a.ID.String(), "other_arena_id", other.ID.String())
}

// LogInterrupted records a cooperative-cancellation event for a.
func (a Arena) LogInterrupted() {
	_ = log.Logger.Log("msg", "aggregation interrupted", "arena_id", a.ID.String())
}
