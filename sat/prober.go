package sat

// Prober implements failed-literal probing: assume a candidate literal
// at a fresh decision level, propagate, and learn from what happens. A
// probe that conflicts makes the literal's negation a level-0 unit. A
// probe that survives feeds the implication cache, drives hyper-binary
// resolution and transitive reduction (hyperbin.go), and participates
// in both-prop detection: a literal forced true under both polarities
// of the same variable is true unconditionally.
type Prober struct {
	s *Solver

	seenThisProbe []int64 // probe id that last forced a literal true
	probeID       int64
	cacheWork     int64 // cache entries written across the session
}

const proberBaseBudget = 1_000_000

func newProber(s *Solver) *Prober {
	return &Prober{s: s}
}

func (p *Prober) grow(n int) {
	for len(p.seenThisProbe) < n*2 {
		p.seenThisProbe = append(p.seenThisProbe, 0)
	}
}

// ProbeResult summarizes one probing pass.
type ProbeResult struct {
	UnitsFound      int
	BinariesAdded   int
	BinariesRemoved int
	TimedOut        bool
}

// Run probes every candidate variable's two polarities at decision
// level 0, in a seed-determined random order, until done or out of
// budget. A budget exhaustion inside the hyper-binary machinery
// disables it for the rest of the session.
func (p *Prober) Run() ProbeResult {
	s := p.s
	p.grow(s.vars.Len())
	var res ProbeResult
	if s.trail.Level() != 0 {
		return res
	}
	budget := newWorkBudget(proberBaseBudget, s.config.IntreeTimeLimitM*s.config.GlobalTimeoutMultiplier)

	order := make([]VarID, 0, s.vars.Len())
	for v := VarID(0); v < VarID(s.vars.Len()); v++ {
		order = append(order, v)
	}
	s.rng.Shuffle(len(order), func(i, j int) { order[i], order[j] = order[j], order[i] })

	for _, v := range order {
		if s.interrupted() || !s.okLevel0 {
			break
		}
		if budget.out() {
			res.TimedOut = true
			s.stats.PassTimeouts++
			s.hyperBinDisabled = true
			break
		}
		if s.trail.Data(v).Removed != RemovedNone || s.trail.VarValue(v) != LUndef {
			continue
		}

		p.probeID++
		p.probeOne(MkLit(v, false), false, &res, budget)
		if s.trail.VarValue(v) != LUndef || !s.okLevel0 {
			// the positive probe itself derived a conflict and fixed v.
			continue
		}

		p.probeID++
		p.probeOne(MkLit(v, true), true, &res, budget)
	}
	if p.cacheWork > proberBaseBudget/2 {
		// Cache maintenance is eating the probing budget; the cache keeps
		// whatever it already holds, but stops growing.
		s.cacheDisabled = true
	}
	return res
}

// probeOne assumes lit, propagates, and undoes the assumption. On a
// conflict, lit's negation is enqueued as a permanent unit. On success,
// every derived literal is stamped with the current probe id; during
// the second probe of a variable's pair, a stamp left by the first
// probe means the literal was forced regardless of the variable's
// value and becomes a unit itself. Only the second probe may match
// stamps; the first probe's predecessor id belongs to a different
// variable entirely.
func (p *Prober) probeOne(lit Lit, second bool, res *ProbeResult, budget *workBudget) bool {
	s := p.s
	before := s.trail.Len()
	s.trail.NewDecisionLevel()
	s.trail.Enqueue(lit, propByNull)
	conflict, _ := s.propagate()
	budget.spend(int64(s.trail.Len() - before))

	if conflict.Kind != propNull {
		s.cancelUntil(0)
		if s.trail.VarValue(lit.Var()) == LUndef {
			s.emitLearnt([]Lit{lit.Negate()})
			s.trail.Enqueue(lit.Negate(), propByNull)
			if c, _ := s.propagate(); c.Kind != propNull {
				s.okLevel0 = false
			}
		} else if s.valueOf(lit) == LTrue {
			s.okLevel0 = false
		}
		res.UnitsFound++
		return false
	}

	if !s.hyperBinDisabled {
		p.hyperBinaryResolve(lit, before, res, budget)
		if budget.out() {
			s.hyperBinDisabled = true
		}
	}

	var bothProp []Lit
	cacheTaut := false
	onlyIrred := p.irredOnlyFlags(lit, before)
	for i := before + 1; i < s.trail.Len(); i++ {
		x := s.trail.At(i)
		if s.config.DoCache && !s.cacheDisabled {
			s.cache.add(lit, x, onlyIrred[x])
			p.cacheWork++
			if s.cache.Implies(lit, x.Negate()) {
				// lit implies both x and ¬x across probes: lit is failed
				// even though this propagation didn't conflict.
				cacheTaut = true
			}
		}
		if second && int(x) < len(p.seenThisProbe) && p.seenThisProbe[x] == p.probeID-1 {
			bothProp = append(bothProp, x)
		}
		if int(x) < len(p.seenThisProbe) {
			p.seenThisProbe[x] = p.probeID
		}
	}
	s.cancelUntil(0)

	if cacheTaut {
		switch s.valueOf(lit) {
		case LTrue:
			s.okLevel0 = false
		case LUndef:
			s.emitLearnt([]Lit{lit.Negate()})
			s.trail.Enqueue(lit.Negate(), propByNull)
			if c, _ := s.propagate(); c.Kind != propNull {
				s.okLevel0 = false
			}
			res.UnitsFound++
		}
		return false
	}

	for _, x := range bothProp {
		if s.valueOf(x) == LFalse {
			s.okLevel0 = false
			continue
		}
		if s.valueOf(x) == LUndef {
			s.emitLearnt([]Lit{x})
			s.trail.Enqueue(x, propByNull)
			if c, _ := s.propagate(); c.Kind != propNull {
				s.okLevel0 = false
			}
			res.UnitsFound++
		}
	}
	return true
}

// irredOnlyFlags computes, for every literal the probe derived, whether
// its entire derivation chain from the probed literal runs through
// irredundant binary clauses. The chain property is inductive: a
// literal qualifies when its reason is an irredundant binary whose
// implying literal qualifies.
func (p *Prober) irredOnlyFlags(probed Lit, before int) map[Lit]bool {
	s := p.s
	flags := map[Lit]bool{probed: true}
	for i := before + 1; i < s.trail.Len(); i++ {
		x := s.trail.At(i)
		r := s.trail.Data(x.Var()).Reason
		if r.Kind == propBinary && !r.RedStep {
			flags[x] = flags[r.Ancestor.Negate()]
		} else {
			flags[x] = false
		}
	}
	return flags
}
