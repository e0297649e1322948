package sat

// OccurrenceSimplifier builds a per-literal occurrence list over
// irredundant long clauses and uses it for subsumption and
// self-subsuming resolution. Candidate pairs come from the shortest
// occurrence list among a clause's literals; the Abstraction word
// rejects most non-subset pairs before any literal comparison.
type OccurrenceSimplifier struct {
	s     *Solver
	occur [][]ClauseOffset
}

const subsumeBaseBudget = 4_000_000

func newOccurrenceSimplifier(s *Solver) *OccurrenceSimplifier {
	return &OccurrenceSimplifier{s: s}
}

func (o *OccurrenceSimplifier) build() {
	s := o.s
	n := s.vars.Len() * 2
	o.occur = make([][]ClauseOffset, n)
	for _, off := range s.irredundant {
		c := s.arena.Get(off)
		if c == nil || c.Freed || c.Removed {
			continue
		}
		for _, l := range c.Lits {
			o.occur[l] = append(o.occur[l], off)
		}
	}
}

// SubsumeResult summarizes one subsumption + strengthening pass.
type SubsumeResult struct {
	Subsumed     int
	Strengthened int
	TimedOut     bool
}

// Run performs subsumption (drop clauses implied by a shorter one) and
// self-subsuming resolution (shrink a clause by one literal when a
// shorter clause almost-subsumes it) over the irredundant database.
// Must run at decision level 0.
func (o *OccurrenceSimplifier) Run() SubsumeResult {
	o.build()
	s := o.s
	var res SubsumeResult
	budget := newWorkBudget(subsumeBaseBudget, s.config.SubsumptionTimeLimitM*s.config.GlobalTimeoutMultiplier)

	for _, off := range s.irredundant {
		if budget.out() {
			res.TimedOut = true
			s.stats.PassTimeouts++
			break
		}
		c := s.arena.Get(off)
		if c == nil || c.Freed || c.Removed {
			continue
		}
		pivot := o.shortestLit(c)
		for _, other := range o.occur[pivot] {
			if !budget.spend(int64(c.size())) {
				break
			}
			if other == off {
				continue
			}
			oc := s.arena.Get(other)
			if oc == nil || oc.Freed || oc.Removed || oc.size() <= c.size() {
				continue
			}
			if subsumes(c, oc) {
				s.emitDeleted(oc.Lits)
				oc.Removed = true
				s.watches.RemoveLong(oc.Lits[0], other)
				s.watches.RemoveLong(oc.Lits[1], other)
				c.Stats.activity += oc.Stats.activity
				res.Subsumed++
				continue
			}
			if lit, ok := selfSubsumingResolvent(c, oc); ok {
				oldW0, oldW1 := oc.Lits[0], oc.Lits[1]
				oldLits := append([]Lit(nil), oc.Lits...)
				oc.removeLitAt(indexOf(oc, lit))
				s.emitLearnt(oc.Lits)
				s.emitDeleted(oldLits)
				oc.Asymmed = true
				s.rewatchAfterShrink(other, oldW0, oldW1, oc)
				res.Strengthened++
			}
		}
	}
	return res
}

func (o *OccurrenceSimplifier) shortestLit(c *LongClause) Lit {
	best := c.Lits[0]
	for _, l := range c.Lits[1:] {
		if len(o.occur[l]) < len(o.occur[best]) {
			best = l
		}
	}
	return best
}

// subsumes reports whether every literal of small also appears in big
// (small subsumes big, so big can be removed).
func subsumes(small, big *LongClause) bool {
	if small.Abstraction&^big.Abstraction != 0 {
		return false
	}
	for _, l := range small.Lits {
		if !big.containsLit(l) {
			return false
		}
	}
	return true
}

// selfSubsumingResolvent reports whether resolving small against big on
// exactly one literal (small contains l, big contains ¬l, and every
// other literal of small is in big) lets big drop ¬l. Returns that
// literal (as it appears in big, i.e. negated) and true.
func selfSubsumingResolvent(small, big *LongClause) (Lit, bool) {
	var flip Lit = LitUndef
	for _, l := range small.Lits {
		if big.containsLit(l) {
			continue
		}
		if big.containsLit(l.Negate()) {
			if flip != LitUndef {
				return LitUndef, false
			}
			flip = l.Negate()
			continue
		}
		return LitUndef, false
	}
	if flip == LitUndef {
		return LitUndef, false
	}
	return flip, true
}

func indexOf(c *LongClause, l Lit) int {
	for i, x := range c.Lits {
		if x == l {
			return i
		}
	}
	return -1
}
