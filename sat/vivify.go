package sat

// Vivifier shortens existing clauses by trial unit propagation: assume
// the negation of each literal in turn and watch what propagation does
// to the rest of the clause. A conflict means the prefix assumed so far
// already contradicts the formula, so the clause can shrink to that
// prefix; a literal found false under the prefix is redundant and can
// be dropped. A cheaper pre-pass consults the implication cache for
// binary-graph evidence that removes literals, or retires whole
// clauses, without propagating at all.
type Vivifier struct {
	s *Solver
}

const vivifyBaseBudget = 2_000_000

func newVivifier(s *Solver) *Vivifier { return &Vivifier{s: s} }

// VivifyResult summarizes one vivification pass.
type VivifyResult struct {
	Shrunk   int
	Removed  int
	TimedOut bool
}

// Run vivifies the irredundant long clauses in a seed-determined random
// order, at decision level 0, until done or out of budget.
func (v *Vivifier) Run() VivifyResult {
	s := v.s
	var res VivifyResult
	if s.trail.Level() != 0 {
		return res
	}
	budget := newWorkBudget(vivifyBaseBudget, s.config.GlobalTimeoutMultiplier)

	order := append([]ClauseOffset(nil), s.irredundant...)
	s.rng.Shuffle(len(order), func(i, j int) { order[i], order[j] = order[j], order[i] })

	for _, off := range order {
		if budget.out() {
			res.TimedOut = true
			s.stats.PassTimeouts++
			break
		}
		c := s.arena.Get(off)
		if c == nil || c.Freed || c.Removed || c.size() < 3 || c.Asymmed {
			continue
		}
		if s.config.DoCache && v.minimizeWithCache(off, c, &res) {
			continue
		}
		if v.vivifyOne(off, c, budget) {
			res.Shrunk++
		}
	}
	return res
}

// minimizeWithCache applies binary-graph evidence from the implication
// cache to a clause before any propagation is spent on it. For literals
// a, b of the clause: ¬a implying ¬b means b's satisfaction already
// guarantees a's, so b is dead weight; ¬a implying b (through
// irredundant binaries only) means the clause is subsumed by an implied
// binary {a, b} and can be dropped outright. Reports whether the clause
// was removed.
func (v *Vivifier) minimizeWithCache(off ClauseOffset, c *LongClause, res *VivifyResult) bool {
	s := v.s
	for _, a := range c.Lits {
		for _, b := range c.Lits {
			if a == b {
				continue
			}
			if e, ok := s.cache.entry(a.Negate(), b); ok && e.OnlyIrredBin {
				s.emitDeleted(c.Lits)
				c.Removed = true
				s.watches.RemoveLong(c.Lits[0], off)
				s.watches.RemoveLong(c.Lits[1], off)
				res.Removed++
				return true
			}
		}
	}
	drop := make(map[Lit]bool)
	for _, a := range c.Lits {
		if drop[a] {
			continue
		}
		for _, e := range s.cache.Of(a.Negate()) {
			b := e.Implied.Negate()
			if b != a && c.containsLit(b) {
				drop[b] = true
			}
		}
	}
	if len(drop) == 0 || c.size()-len(drop) < 2 {
		return false
	}
	kept := make([]Lit, 0, c.size()-len(drop))
	for _, l := range c.Lits {
		if !drop[l] {
			kept = append(kept, l)
		}
	}
	v.replaceLits(off, c, kept, res)
	return c.Removed
}

// vivifyOne tries to shrink a single clause by assuming the negation of
// each of its literals in turn.
func (v *Vivifier) vivifyOne(off ClauseOffset, c *LongClause, budget *workBudget) bool {
	s := v.s
	lits := append([]Lit(nil), c.Lits...)
	keep := make([]Lit, 0, len(lits))

	s.trail.NewDecisionLevel()
	shrunk := false
	satisfied := false
	for _, l := range lits {
		val := s.valueOf(l)
		if val == LTrue {
			// The prefix already implies this literal, so the clause is
			// satisfied whenever the prefix fails; nothing to learn from
			// propagating further this round.
			satisfied = true
			break
		}
		if val == LFalse {
			shrunk = true
			continue
		}
		before := s.trail.Len()
		s.trail.Enqueue(l.Negate(), propByNull)
		conflict, _ := s.propagate()
		budget.spend(int64(s.trail.Len() - before))
		keep = append(keep, l)
		if conflict.Kind != propNull {
			shrunk = true
			break
		}
	}
	s.cancelUntil(0)

	if satisfied || !shrunk || len(keep) >= len(lits) || len(keep) == 0 {
		c.Asymmed = true
		return false
	}
	var res VivifyResult
	v.replaceLits(off, c, keep, &res)
	return true
}

// replaceLits installs the shortened literal set for a clause, routing
// it to the implicit representation if it no longer qualifies as long.
func (v *Vivifier) replaceLits(off ClauseOffset, c *LongClause, kept []Lit, res *VivifyResult) {
	s := v.s
	s.emitLearnt(kept)
	s.emitDeleted(c.Lits)
	oldW0, oldW1 := c.Lits[0], c.Lits[1]
	c.Asymmed = true
	if len(kept) >= 4 {
		c.Lits = kept
		c.recomputeAbstraction()
		s.rewatchAfterShrink(off, oldW0, oldW1, c)
		return
	}
	c.Removed = true
	s.watches.RemoveLong(oldW0, off)
	s.watches.RemoveLong(oldW1, off)
	s.addClauseInner(kept, c.Red)
}
