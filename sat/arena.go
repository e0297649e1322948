package sat

import "github.com/xdarkicex/cdclsat/core"

// ClauseArena is the append-only store for long clauses. It hands out
// ClauseOffsets that every other component (watch store, reasons,
// redundant/irredundant index lists) holds instead of a pointer, so
// that Consolidate can relocate live clauses and have every holder
// rewritten in one pass. Offsets are stable only between
// consolidations; growth past CLOffsetMax fails fast.
type ClauseArena struct {
	slots  []*LongClause
	used   int // count of non-freed slots
	freedN int
}

// NewClauseArena creates an empty arena.
func NewClauseArena() *ClauseArena {
	return &ClauseArena{slots: make([]*LongClause, 0, 1024)}
}

// Alloc stores a new long clause and returns its offset.
func (a *ClauseArena) Alloc(c *LongClause) (ClauseOffset, error) {
	if uint64(len(a.slots)) >= uint64(CLOffsetMax) {
		return CLOffsetMax, core.NewFatalError("sat", "ClauseArena.Alloc",
			"clause arena exhausted: growth would exceed CL_OFFSET_MAX")
	}
	off := ClauseOffset(len(a.slots))
	a.slots = append(a.slots, c)
	a.used++
	return off, nil
}

// Get dereferences an offset. Callers must not hold the returned pointer
// across a Consolidate call.
func (a *ClauseArena) Get(off ClauseOffset) *LongClause {
	if off == CLOffsetMax || int(off) >= len(a.slots) {
		return nil
	}
	return a.slots[off]
}

// Free marks a clause as freed; the slot is only reclaimed at the next
// Consolidate, so offsets held elsewhere stay dereferenceable (as
// tombstones) until every holder has had a chance to drop them.
func (a *ClauseArena) Free(off ClauseOffset) {
	c := a.Get(off)
	if c == nil || c.Freed {
		return
	}
	c.Freed = true
	a.used--
	a.freedN++
}

// usedRatio is the live/total ratio used to decide whether an automatic
// consolidation is worthwhile.
func (a *ClauseArena) usedRatio() float64 {
	if len(a.slots) == 0 {
		return 1
	}
	return float64(a.used) / float64(len(a.slots))
}

// ShouldConsolidate reports whether the live/total ratio has dropped
// below the given threshold, or a consolidation was explicitly forced.
func (a *ClauseArena) ShouldConsolidate(threshold float64, force bool) bool {
	return force || a.usedRatio() < threshold
}

// RemapFunc is applied by every holder of offsets to translate an old
// offset into its post-consolidation value.
type RemapFunc func(old ClauseOffset) ClauseOffset

// Consolidate compacts the arena by dropping freed slots, then returns a
// RemapFunc the caller must apply to every stored offset (watch store,
// var-data reasons, redundant/irredundant clause lists) before touching
// the arena again. Calling Consolidate twice in a row with nothing freed
// in between is a no-op: the remap function is the identity.
func (a *ClauseArena) Consolidate() RemapFunc {
	if a.freedN == 0 {
		return func(old ClauseOffset) ClauseOffset { return old }
	}
	remap := make([]ClauseOffset, len(a.slots))
	compact := make([]*LongClause, 0, a.used)
	for i, c := range a.slots {
		if c == nil || c.Freed {
			remap[i] = CLOffsetMax
			continue
		}
		remap[i] = ClauseOffset(len(compact))
		compact = append(compact, c)
	}
	a.slots = compact
	a.freedN = 0
	return func(old ClauseOffset) ClauseOffset {
		if old == CLOffsetMax || int(old) >= len(remap) {
			return CLOffsetMax
		}
		return remap[old]
	}
}

// Len reports the number of live (non-freed) clauses.
func (a *ClauseArena) Len() int { return a.used }

// All iterates over every live clause, yielding its current offset. The
// callback must not mutate the arena's slot count.
func (a *ClauseArena) All(fn func(off ClauseOffset, c *LongClause)) {
	for i, c := range a.slots {
		if c != nil && !c.Freed {
			fn(ClauseOffset(i), c)
		}
	}
}
