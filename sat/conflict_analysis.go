package sat

// ConflictAnalyzer derives a learnt clause from a conflict using the
// first-UIP scheme: resolve antecedents backwards along the trail until
// exactly one literal of the current decision level remains. The raw
// clause is then shrunk by recursive minimization and, when it is short
// enough to be worth the extra lookups, by binary-graph evidence from
// the stamp table and the implication cache.
type ConflictAnalyzer struct {
	s *Solver

	seen    []bool
	toClear []VarID

	// lastResolved accumulates the offsets of the long clauses resolved
	// during the most recent analyze call, for usage-stat updates, glue
	// improvement, and on-the-fly subsumption by the caller.
	lastResolved []ClauseOffset
}

// moreMinimMaxSize bounds the learnt-clause size at which the extra
// stamp/cache minimization pass is attempted; larger clauses are
// unlikely to survive long enough to repay the pairwise lookups.
const moreMinimMaxSize = 30

func newConflictAnalyzer(s *Solver) *ConflictAnalyzer {
	return &ConflictAnalyzer{s: s}
}

func (a *ConflictAnalyzer) grow(n int) {
	for len(a.seen) < n {
		a.seen = append(a.seen, false)
	}
}

// reasonLits returns the literals of a PropBy's antecedent clause,
// excluding the propagated literal itself (the first element when
// Kind==propClause, or the implicit self when propBinary/propTernary).
func (a *ConflictAnalyzer) reasonLits(p PropBy) []Lit {
	switch p.Kind {
	case propBinary:
		return []Lit{p.Ancestor}
	case propTernary:
		return []Lit{p.Lit2, p.Lit3}
	case propClause:
		c := a.s.arena.Get(p.Offset)
		return c.Lits[1:]
	}
	return nil
}

// analyze runs first-UIP analysis starting from a conflicting clause's
// literals, returning the learnt clause, the backtrack level to jump
// to, and the learnt clause's glue. confLits are the literals of the
// falsified clause itself (all currently false).
func (a *ConflictAnalyzer) analyze(confLits []Lit) (learnt []Lit, backtrackLevel int, glue int) {
	trail := a.s.trail
	a.grow(a.s.vars.Len())
	for _, v := range a.toClear {
		a.seen[v] = false
	}
	a.toClear = a.toClear[:0]
	a.lastResolved = a.lastResolved[:0]

	pending := 0
	learnt = append(learnt[:0], LitUndef) // slot 0 reserved for the UIP literal
	idx := trail.Len() - 1
	var p Lit = LitUndef

	markLit := func(l Lit) {
		v := l.Var()
		if a.seen[v] {
			return
		}
		a.seen[v] = true
		a.toClear = append(a.toClear, v)
		lvl := trail.Data(v).Level
		if lvl == 0 {
			return
		}
		if lvl == trail.Level() {
			pending++
		} else {
			learnt = append(learnt, l)
		}
	}

	for _, l := range confLits {
		markLit(l)
	}

	for {
		for a.seen[trail.At(idx).Var()] == false {
			idx--
		}
		v := trail.At(idx).Var()
		a.seen[v] = false
		pending--
		idx--
		if pending <= 0 {
			p = trail.At(idx + 1)
			break
		}
		reason := trail.Data(v).Reason
		if reason.Kind == propClause {
			a.lastResolved = append(a.lastResolved, reason.Offset)
		}
		for _, rl := range a.reasonLits(reason) {
			markLit(rl)
		}
	}

	learnt[0] = p.Negate()
	learnt = a.minimize(learnt)
	learnt = a.minimizeWithBinaryGraph(learnt)

	// Glue counts the distinct decision levels left in the final clause,
	// so minimization that empties a level is rewarded.
	glueLevels := make(map[int]bool, len(learnt))
	for _, l := range learnt {
		if lvl := trail.Data(l.Var()).Level; lvl > 0 {
			glueLevels[lvl] = true
		}
	}
	glue = len(glueLevels)

	backtrackLevel = 0
	if len(learnt) > 1 {
		maxIdx := 1
		maxLevel := trail.Data(learnt[1].Var()).Level
		for i := 2; i < len(learnt); i++ {
			lvl := trail.Data(learnt[i].Var()).Level
			if lvl > maxLevel {
				maxLevel = lvl
				maxIdx = i
			}
		}
		learnt[1], learnt[maxIdx] = learnt[maxIdx], learnt[1]
		backtrackLevel = maxLevel
	}

	for _, v := range a.toClear {
		a.seen[v] = false
	}
	a.toClear = a.toClear[:0]

	return learnt, backtrackLevel, glue
}

// minimize removes literals from the learnt clause that are redundant:
// a literal is redundant if every literal of its antecedent reason is
// already in the learnt clause, at level 0, or itself recursively
// redundant.
func (a *ConflictAnalyzer) minimize(learnt []Lit) []Lit {
	marked := make(map[VarID]bool, len(learnt))
	for _, l := range learnt {
		marked[l.Var()] = true
	}
	out := learnt[:1]
	for _, l := range learnt[1:] {
		if a.redundant(l, marked) {
			continue
		}
		out = append(out, l)
	}
	return out
}

func (a *ConflictAnalyzer) redundant(l Lit, marked map[VarID]bool) bool {
	trail := a.s.trail
	reason := trail.Data(l.Var()).Reason
	if reason.Kind == propNull {
		return false
	}
	for _, rl := range a.reasonLits(reason) {
		v := rl.Var()
		if marked[v] {
			continue
		}
		if trail.Data(v).Level == 0 {
			continue
		}
		rr := trail.Data(v).Reason
		if rr.Kind == propNull {
			return false
		}
		if !a.redundant(rl, marked) {
			return false
		}
	}
	return true
}

// minimizeWithBinaryGraph drops a literal b from a short learnt clause
// when b implies some other kept literal x along the binary implication
// graph: then any assignment satisfying the clause through b also
// satisfies it through x, so b is dead weight. Implication evidence
// comes from the stamp intervals (when stamping is on and current) and
// from the implication cache. The asserting literal at slot 0 is never
// dropped.
func (a *ConflictAnalyzer) minimizeWithBinaryGraph(learnt []Lit) []Lit {
	s := a.s
	if len(learnt) < 3 || len(learnt) > moreMinimMaxSize {
		return learnt
	}
	useStamps := s.config.DoStamp && s.stamps.valid
	useCache := s.config.DoCache
	if !useStamps && !useCache {
		return learnt
	}
	implied := func(b, x Lit) bool {
		if useStamps && (s.stamps.dominatesIrred(b, x) || s.stamps.dominatesRed(b, x)) {
			return true
		}
		return useCache && s.cache.Implies(b, x)
	}
	out := learnt[:1:1]
	for i := 1; i < len(learnt); i++ {
		b := learnt[i]
		dead := false
		// Witnesses are drawn only from literals already kept and those
		// still to be examined: two literals implying each other must
		// not knock each other out, one of the pair has to survive.
		for _, x := range out {
			if x != b && implied(b, x) {
				dead = true
				break
			}
		}
		if !dead {
			for _, x := range learnt[i+1:] {
				if x != b && implied(b, x) {
					dead = true
					break
				}
			}
		}
		if !dead {
			out = append(out, b)
		}
	}
	return out
}
