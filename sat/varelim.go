package sat

// VariableEliminator performs bounded variable elimination: a variable
// is eliminated by replacing every clause mentioning it with the
// pairwise resolvents of its positive- and negative-occurrence clauses,
// provided no resolvent exceeds the growth bound. The removed clauses
// are recorded so solution extension can later choose a value for the
// variable consistent with them.
type VariableEliminator struct {
	s          *Solver
	maxResolvent int
}

func newVariableEliminator(s *Solver) *VariableEliminator {
	return &VariableEliminator{s: s, maxResolvent: 16}
}

// ElimResult summarizes one elimination pass.
type ElimResult struct {
	Eliminated int
}

// Run walks the variables in VarID order at decision level 0 and
// eliminates each one whose resolvents fit the bounds; candidates are
// not ordered by occurrence count.
func (e *VariableEliminator) Run(occ *OccurrenceSimplifier) ElimResult {
	s := e.s
	var res ElimResult
	if s.trail.Level() != 0 {
		return res
	}
	occ.build()

	for v := VarID(0); v < VarID(s.vars.Len()); v++ {
		if s.trail.Data(v).Removed != RemovedNone || s.trail.VarValue(v) != LUndef {
			continue
		}
		if e.s.occursInBinaryOrTernary(v) {
			// occ only tracks long-clause occurrences; a variable that
			// also appears in a binary or ternary clause isn't safe to
			// judge for purity or resolve purely off occ (both would
			// silently ignore those shorter clauses and risk eliminating
			// a variable that is neither pure nor safely resolvable).
			// Skipped rather than generalizing resolution to binaries/
			// ternaries, which would need its own occurrence index.
			continue
		}
		pos := occ.occur[MkLit(v, false)]
		neg := occ.occur[MkLit(v, true)]
		if len(pos) == 0 || len(neg) == 0 {
			// pure literal: satisfy all occurrences by forcing its
			// value, then eliminate trivially.
			e.eliminatePure(v, len(pos) == 0)
			res.Eliminated++
			continue
		}
		if len(pos)*len(neg) > e.maxResolvent {
			continue
		}
		resolvents, ok := e.tryResolve(v, pos, neg)
		if !ok {
			continue
		}
		e.commit(v, pos, neg, resolvents)
		occ.build()
		res.Eliminated++
	}
	return res
}

func (e *VariableEliminator) eliminatePure(v VarID, negated bool) {
	s := e.s
	if s.trail.VarValue(v) == LUndef {
		s.trail.Enqueue(MkLit(v, negated), propByNull)
		s.propagate()
	}
	s.trail.Data(v).Removed = RemovedEliminated
}

// tryResolve computes every resolvent of pos x neg clauses on v,
// rejecting the whole elimination if any resolvent is a tautology-free
// clause larger than the bound.
func (e *VariableEliminator) tryResolve(pivot VarID, pos, neg []ClauseOffset) ([][]Lit, bool) {
	s := e.s
	var out [][]Lit
	for _, po := range pos {
		pc := s.arena.Get(po)
		for _, no := range neg {
			nc := s.arena.Get(no)
			resolvent, taut := resolveOn(pivot, pc.Lits, nc.Lits)
			if taut {
				continue
			}
			if len(resolvent) > e.maxResolvent {
				return nil, false
			}
			out = append(out, resolvent)
		}
	}
	return out, true
}

// resolveOn resolves two clauses that share exactly one
// complementary pair of literals (the pivot variable), returning the
// merged, deduplicated clause and whether it is a tautology (contains
// both l and ¬l for some other variable).
func resolveOn(pivotVar VarID, a, b []Lit) (resolvent []Lit, tautology bool) {
	seen := make(map[Lit]bool, len(a)+len(b))
	add := func(l Lit) bool {
		if l.Var() == pivotVar {
			return true
		}
		if seen[l.Negate()] {
			return false
		}
		if !seen[l] {
			seen[l] = true
			resolvent = append(resolvent, l)
		}
		return true
	}
	for _, l := range a {
		if !add(l) {
			return nil, true
		}
	}
	for _, l := range b {
		if !add(l) {
			return nil, true
		}
	}
	return resolvent, false
}

func (e *VariableEliminator) commit(v VarID, pos, neg []ClauseOffset, resolvents [][]Lit) {
	s := e.s
	for _, lits := range resolvents {
		// A resolvent can land at any size from empty up to the combined
		// size of its parents minus the pivot, so it goes through the
		// same size routing as an ordinary clause: a short resolvent
		// belongs in the watch-only binary/ternary representation, and
		// AttachLong would index lits[0]/lits[1] of a unit out of range.
		s.emitLearnt(lits)
		s.addClauseInner(append([]Lit(nil), lits...), false)
	}
	var removed [][]Lit
	for _, off := range append(append([]ClauseOffset(nil), pos...), neg...) {
		c := s.arena.Get(off)
		removed = append(removed, append([]Lit(nil), c.Lits...))
		s.emitDeleted(c.Lits)
		c.Removed = true
		s.watches.RemoveLong(c.Lits[0], off)
		s.watches.RemoveLong(c.Lits[1], off)
	}
	s.recordElimination(v, removed)
	s.trail.Data(v).Removed = RemovedEliminated
}
