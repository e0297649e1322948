package sat

// rebuildWatches fully reconstructs the Long watchers from the arena,
// discarding whatever stale entries exist beforehand. It runs as the
// batch cleanup at the end of every simplification epoch, whose passes
// don't individually re-derive watch state: detach every Long watcher,
// reattach from the clauses' current literal order.
func (s *Solver) rebuildWatches() {
	// Only Long watchers reference a (remappable) ClauseOffset; binary
	// and ternary clauses live solely in the watch store and
	// would be permanently lost by allocating a fresh WatchStore here.
	s.watches.DropLong()

	for _, off := range append(append([]ClauseOffset(nil), s.irredundant...), s.redundant...) {
		c := s.arena.Get(off)
		if c == nil || c.Freed || c.Removed {
			continue
		}
		if len(c.Lits) < 2 {
			continue
		}
		if c.Asymmed {
			c.Asymmed = false
		}
		s.watches.AttachLong(off, c.Lits)
	}
}

// rewatchAfterShrink re-derives a single clause's two watches after an
// in-place literal removal (vivification, self-subsuming resolution).
// The first two literals are the live watches at all times; a pass
// that shrinks c.Lits without immediately updating
// the watch store would leave a stale Long entry under the old watched
// literals' lists, which can misfire or, worse, silently miss the
// clause on a later propagate() before the next full rebuildWatches.
// oldW0/oldW1 are the literals that were
// at index 0/1 *before* the shrink.
func (s *Solver) rewatchAfterShrink(off ClauseOffset, oldW0, oldW1 Lit, c *LongClause) {
	s.watches.RemoveLong(oldW0, off)
	s.watches.RemoveLong(oldW1, off)
	if len(c.Lits) >= 2 {
		s.watches.AttachLong(off, c.Lits)
	}
}

// occursInBinaryOrTernary reports whether v's variable appears in any
// binary or ternary clause (in either polarity). Binary/ternary clauses
// live only in the watch store and are invisible to
// OccurrenceSimplifier's long-clause-only occur lists; callers that
// reason about a variable's *total* occurrence count (purity, bounded
// resolution) must check this first or risk treating a variable as pure
// when a binary/ternary clause actually pins it.
func (s *Solver) occursInBinaryOrTernary(v VarID) bool {
	return s.literalInBinaryOrTernary(MkLit(v, false)) || s.literalInBinaryOrTernary(MkLit(v, true))
}

// hasBinaryClause reports whether the binary clause {a, b} is already
// attached (in either redundancy class).
func (s *Solver) hasBinaryClause(a, b Lit) bool {
	for _, wt := range s.watches.At(a) {
		if wt.Kind == watchBinary && wt.Other == b {
			return true
		}
	}
	return false
}

// hasTernaryClause reports whether the ternary clause {a, b, c} is
// already attached.
func (s *Solver) hasTernaryClause(a, b, c Lit) bool {
	if c < b {
		b, c = c, b
	}
	for _, wt := range s.watches.At(a) {
		if wt.Kind == watchTernary && wt.Lit2 == b && wt.Lit3 == c {
			return true
		}
	}
	return false
}

// literalInBinaryOrTernary reports whether l is a member of some binary
// or ternary clause. AttachBinary/AttachTernary register an entry under
// every endpoint's own list (not just its negation's), so membership is
// exactly "does watches[l] hold a Binary/Ternary watcher".
func (s *Solver) literalInBinaryOrTernary(l Lit) bool {
	for _, wt := range s.watches.At(l) {
		if wt.Kind == watchBinary || wt.Kind == watchTernary {
			return true
		}
	}
	return false
}

// compactClauseSets drops Removed/Freed offsets from the irredundant
// and redundant index slices after a sweep, keeping them from growing
// unboundedly across many inprocessing rounds.
func (s *Solver) compactClauseSets() {
	s.irredundant = compactOffsets(s.irredundant, s.arena)
	s.redundant = compactOffsets(s.redundant, s.arena)
}

func compactOffsets(offs []ClauseOffset, arena *ClauseArena) []ClauseOffset {
	dst := offs[:0]
	for _, off := range offs {
		c := arena.Get(off)
		if c == nil || c.Freed || c.Removed {
			if c != nil {
				arena.Free(off)
			}
			continue
		}
		dst = append(dst, off)
	}
	return dst
}
