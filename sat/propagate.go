package sat

// propagate runs unit propagation to fixpoint, draining the trail's
// unpropagated suffix. It returns a PropBy describing the falsified
// clause (Kind==propNull means no conflict) and, for long clauses, its
// arena offset.
//
// Binary and ternary watchers are resolved inline against their stored
// peer literals before any long-clause dereference; binaries are by far
// the most common antecedent and never touch the arena.
//
// Each literal's watch list is compacted in place while it is scanned:
// entries that stay on this list are written to list[keep] as we go,
// entries that move to a different literal's list are simply dropped
// here (and appended there), and on conflict the remaining untouched
// suffix is copied down before the list is truncated. This two-index
// read/write scheme is required because a long clause's watch can be
// rewired mid-scan; the literal currently being scanned is exactly the
// list a rewire removes from, so a generic remove-by-value call here
// would alias and corrupt the in-flight iteration.
func (s *Solver) propagate() (conflict PropBy, conflictOffset ClauseOffset) {
	for s.trail.QHead() < s.trail.Len() {
		p := s.trail.At(s.trail.QHead())
		s.trail.AdvanceQHead(s.trail.QHead() + 1)
		falseLit := p.Negate()

		list := s.watches.At(falseLit)
		n := len(list)
		keep := 0

		for i := 0; i < n; i++ {
			w := list[i]
			switch w.Kind {
			case watchBinary:
				val := s.valueOf(w.Other)
				if val == LFalse {
					list[keep] = w
					keep++
					keep = copyRemainder(list, i+1, n, keep)
					s.watches.Truncate(falseLit, keep)
					return binaryConflict(falseLit, w.Other, w.Red), 0
				}
				if val == LUndef {
					s.trail.Enqueue(w.Other, binaryReason(falseLit, w.Red, false, false))
					s.stats.Propagations++
				}
				list[keep] = w
				keep++

			case watchTernary:
				v2, v3 := s.valueOf(w.Lit2), s.valueOf(w.Lit3)
				if v2 == LFalse && v3 == LFalse {
					list[keep] = w
					keep++
					keep = copyRemainder(list, i+1, n, keep)
					s.watches.Truncate(falseLit, keep)
					return ternaryConflict(falseLit, w.Lit2, w.Lit3, w.Red), 0
				}
				if v2 == LUndef && v3 == LFalse {
					s.trail.Enqueue(w.Lit2, ternaryReason(falseLit, w.Lit3, w.Red))
					s.stats.Propagations++
				} else if v3 == LUndef && v2 == LFalse {
					s.trail.Enqueue(w.Lit3, ternaryReason(falseLit, w.Lit2, w.Red))
					s.stats.Propagations++
				}
				list[keep] = w
				keep++

			case watchLong:
				if s.valueOf(w.Blocker) == LTrue {
					list[keep] = w
					keep++
					continue
				}
				c := s.arena.Get(w.Offset)
				if c == nil || c.Freed || c.Removed {
					// stale entry from a freed clause; drop it in place.
					continue
				}
				lits := c.Lits
				if lits[0] == falseLit {
					lits[0], lits[1] = lits[1], lits[0]
				}
				if s.valueOf(lits[0]) == LTrue {
					w.Blocker = lits[0]
					list[keep] = w
					keep++
					continue
				}

				moved := false
				for k := 2; k < len(lits); k++ {
					if s.valueOf(lits[k]) != LFalse {
						lits[1], lits[k] = lits[k], lits[1]
						s.watches.Add(lits[1], longWatcher(w.Offset, lits[0], c.Abstraction))
						moved = true
						break
					}
				}
				if moved {
					// Entry now lives on lits[1]'s list; drop it from this one.
					continue
				}

				if s.valueOf(lits[0]) == LFalse {
					list[keep] = w
					keep++
					keep = copyRemainder(list, i+1, n, keep)
					s.watches.Truncate(falseLit, keep)
					return clauseReason(w.Offset), w.Offset
				}
				s.trail.Enqueue(lits[0], clauseReason(w.Offset))
				c.Stats.propagations++
				s.stats.Propagations++
				list[keep] = w
				keep++

			default:
				// Idx anchors (XOR dedup) ride along untouched.
				list[keep] = w
				keep++
			}
		}
		s.watches.Truncate(falseLit, keep)
	}
	return propByNull, 0
}

// copyRemainder copies list[from:to] down to start at dst, returning the
// new keep index. Used once a conflict is found mid-scan so the watch
// list is left fully compacted (minus anything already rewired away)
// rather than abandoned half-scanned.
func copyRemainder(list []Watcher, from, to, dst int) int {
	for j := from; j < to; j++ {
		list[dst] = list[j]
		dst++
	}
	return dst
}
