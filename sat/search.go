package sat

import (
	"time"

	"github.com/xdarkicex/cdclsat/core"
)

// SolveStatus is the three-valued solving outcome.
type SolveStatus uint8

const (
	Unknown SolveStatus = iota
	Sat
	Unsat
)

// Solve runs the solver to completion, to an interrupt, or to a
// configured resource limit, under the given assumptions. The top level
// alternates CDCL search bursts with simplification epochs. It is safe
// to call Solve again after it returns Unknown (interrupted) or after
// adding more clauses following a Sat/Unsat result.
func (s *Solver) Solve(assumptions []Literal) *SolverResult {
	s.startTime = time.Now()
	s.clearInterrupt()
	s.seedPolarities()

	if !s.okLevel0 {
		return &SolverResult{Satisfiable: false, Statistics: s.stats}
	}

	s.prepareAssumptions(assumptions)
	s.finalConflictLits = nil

	status := s.solveLoop()

	res := &SolverResult{Statistics: s.stats}
	switch status {
	case Sat:
		res.Satisfiable = true
		res.Assignment = newSolutionExtender(s).Extend()
	case Unsat:
		res.Satisfiable = false
		if len(s.assumptions) == 0 {
			s.okLevel0 = false
		} else if s.finalConflictLits != nil {
			res.Conflict = s.finalConflict(s.finalConflictLits)
		}
	default:
		// Interrupt / budget exhaustion is ordinary control flow: the
		// instance stays valid for queries and for a later, larger-budget
		// Solve on the same formula.
		res.Error = core.NewSolverError("sat", "Solve", "interrupted or resource limit reached")
	}
	s.cancelUntil(0)
	return res
}

// cancelUntil backtracks the trail to level and hands every variable
// unassigned by the jump back to the decision heap. The trail's own
// CancelUntil must not be called directly from search paths: a variable
// popped from the heap while assigned would otherwise never become
// decidable again unless some conflict happens to bump it.
func (s *Solver) cancelUntil(level int) {
	if level >= s.trail.Level() {
		return
	}
	for i := s.trail.Len() - 1; i >= s.trail.LevelLen(level+1); i-- {
		s.heuristic.onUnassign(s.trail.At(i).Var())
	}
	s.trail.CancelUntil(level)
}

func (s *Solver) solveLoop() SolveStatus {
	lastInprocessAt := s.conflicts

	for {
		if s.interrupted() {
			s.cancelUntil(0)
			return Unknown
		}
		if s.config.MaxConfl > 0 && s.conflicts >= s.config.MaxConfl {
			s.cancelUntil(0)
			return Unknown
		}
		if s.config.MaxTimeSeconds > 0 && time.Since(s.startTime).Seconds() > s.config.MaxTimeSeconds {
			s.cancelUntil(0)
			return Unknown
		}

		ok, _ := s.assumeAll()
		if !ok {
			s.cancelUntil(0)
			return Unsat
		}

		status := s.searchBurst()
		if status != Unknown {
			return status
		}
		if s.interrupted() {
			s.cancelUntil(0)
			return Unknown
		}

		if s.conflicts-lastInprocessAt >= s.config.InprocessGap {
			lastInprocessAt = s.conflicts
			if !s.runInprocessEpoch() {
				s.okLevel0 = false
				return Unsat
			}
		}

		s.cancelUntil(0)
	}
}

// searchBurst runs CDCL search (propagate/decide/analyze/backtrack)
// until a restart is due, a conflict proves UNSAT, or every variable is
// assigned (SAT). Returns Unknown if a restart fired or a backjump fell
// below the assumption levels, so the caller can interleave
// in-processing and re-establish assumptions.
func (s *Solver) searchBurst() SolveStatus {
	for {
		if s.interrupted() {
			return Unknown
		}
		if s.config.MaxConfl > 0 && s.conflicts >= s.config.MaxConfl {
			return Unknown
		}
		if s.config.MaxTimeSeconds > 0 && time.Since(s.startTime).Seconds() > s.config.MaxTimeSeconds {
			return Unknown
		}
		conflict, _ := s.propagate()
		if conflict.Kind != propNull {
			if s.trail.Level() <= s.decisionLevelAssumptions {
				s.finalConflictLits = s.conflictLits(conflict)
				return Unsat
			}
			s.handleConflict(conflict)
			if s.trail.Level() < s.decisionLevelAssumptions {
				// The backjump unassigned some assumptions; let the caller
				// push them again before search continues.
				return Unknown
			}
			continue
		}

		if s.config.DoEchelonizeXOR && s.proof == nil && s.gauss.HasRows() {
			status, gconf, progressed := s.gaussStep()
			if status == Unsat {
				return Unsat
			}
			if gconf.Kind != propNull {
				if s.trail.Level() <= s.decisionLevelAssumptions {
					s.finalConflictLits = s.conflictLits(gconf)
					return Unsat
				}
				s.handleConflict(gconf)
				if s.trail.Level() < s.decisionLevelAssumptions {
					return Unknown
				}
				continue
			}
			if progressed {
				if s.trail.Level() < s.decisionLevelAssumptions {
					return Unknown
				}
				continue
			}
		}

		if s.trail.Level() >= s.decisionLevelAssumptions &&
			s.restart.shouldRestart(s.trail.Len()) {
			s.cancelUntil(s.decisionLevelAssumptions)
			s.restart.doRestart()
			s.stats.Restarts++
			return Unknown
		}

		v, ok := s.pickDecisionVar()
		if !ok {
			return Sat
		}
		s.trail.NewDecisionLevel()
		polarity := s.heuristic.decidePolarity(s.trail, v, s.rng)
		s.trail.Enqueue(MkLit(v, polarity), propByNull)
		s.stats.Decisions++
		s.restart.onDecision()
	}
}

func (s *Solver) pickDecisionVar() (VarID, bool) {
	if s.restart.burstLeft > 0 {
		if l, ok := s.burstDecide(); ok {
			return l.Var(), true
		}
	}
	return s.heuristic.pick(s.trail, s.rng)
}

// handleConflict runs conflict analysis, learns the derived clause,
// backtracks, and enqueues the asserting (first-UIP) literal.
func (s *Solver) handleConflict(conflict PropBy) {
	lits := s.conflictLits(conflict)
	learnt, backLevel, glue := s.analyzer.analyze(lits)

	s.conflicts++
	s.stats.Conflicts++
	if glue <= 2 {
		s.stats.GlueClauses++
	}
	s.stats.AvgLBD += (float64(glue) - s.stats.AvgLBD) / float64(s.stats.Conflicts)
	s.restart.onConflict(glue, s.trail.Len())
	s.heuristic.bumpDecay()
	for _, l := range learnt {
		s.heuristic.bump(l.Var())
	}
	s.updateResolvedClauses(learnt)

	s.cancelUntil(backLevel)

	switch len(learnt) {
	case 1:
		s.trail.Enqueue(learnt[0], propByNull)
		if s.shared != nil {
			s.shared.PublishUnit(s.vars.ToOuter(learnt[0]))
		}
	case 2:
		s.watches.AttachBinary(learnt[0], learnt[1], true)
		s.trail.Enqueue(learnt[0], binaryReason(learnt[1], true, false, false))
		s.shareClause(learnt)
	case 3:
		s.watches.AttachTernary(learnt[0], learnt[1], learnt[2], true)
		s.trail.Enqueue(learnt[0], ternaryReason(learnt[1], learnt[2], true))
		s.shareClause(learnt)
	default:
		off := s.addLongClauseInternal(learnt, true)
		cl := s.arena.Get(off)
		cl.Stats.setGlue(glue)
		cl.Stats.introConflict = s.conflicts
		s.redundant = append(s.redundant, off)
		s.cleaner.protectFromResolution(cl, s.conflicts)
		s.trail.Enqueue(learnt[0], clauseReason(off))
		s.shareClause(learnt)
	}
	s.stats.LearnedClauses++
	s.emitLearnt(learnt)
}

// updateResolvedClauses walks the long clauses resolved during the last
// analysis: usage counters are bumped, glue is recomputed from the
// still-standing trail (it can only have improved), and a clause whose
// glue improves past the keep threshold earns a one-round protection
// from the cleaner. A clause already protected is not protected again,
// so improvement can buy at most one consecutive round of immunity.
// When the learnt clause strictly subsumes a resolved clause, the
// resolved clause is shortened to the learnt one in place.
func (s *Solver) updateResolvedClauses(learnt []Lit) {
	for _, off := range s.analyzer.lastResolved {
		cl := s.arena.Get(off)
		if cl == nil || cl.Freed || cl.Removed {
			continue
		}
		cl.Stats.usedInUIP++
		cl.Stats.conflicts++
		cl.Stats.activity += 1.0
		if cl.Red {
			if g := s.clauseGlue(cl); g > 0 && g < cl.Stats.glue {
				cl.Stats.setGlue(g)
				if g <= s.config.GlueMustKeepClauseIfBelowOrEq+1 && !cl.Stats.protectedActive {
					s.cleaner.protectFromResolution(cl, s.conflicts)
				}
			}
		}
		s.tryOnTheFlySubsume(off, cl, learnt)
	}
	s.analyzer.lastResolved = s.analyzer.lastResolved[:0]
}

// tryOnTheFlySubsume shortens a just-resolved clause to the learnt
// clause when the learnt one is strictly smaller and contained in it.
func (s *Solver) tryOnTheFlySubsume(off ClauseOffset, cl *LongClause, learnt []Lit) {
	if len(learnt) < 2 || len(learnt) >= cl.size() {
		return
	}
	if abstractionOf(learnt)&^cl.Abstraction != 0 {
		return
	}
	for _, l := range learnt {
		if !cl.containsLit(l) {
			return
		}
	}
	s.emitLearnt(learnt)
	s.emitDeleted(cl.Lits)
	oldW0, oldW1 := cl.Lits[0], cl.Lits[1]
	switch len(learnt) {
	case 2:
		cl.Removed = true
		s.watches.RemoveLong(oldW0, off)
		s.watches.RemoveLong(oldW1, off)
		s.watches.AttachBinary(learnt[0], learnt[1], cl.Red)
	case 3:
		cl.Removed = true
		s.watches.RemoveLong(oldW0, off)
		s.watches.RemoveLong(oldW1, off)
		s.watches.AttachTernary(learnt[0], learnt[1], learnt[2], cl.Red)
	default:
		cl.Lits = append(cl.Lits[:0], learnt...)
		cl.recomputeAbstraction()
		s.rewatchAfterShrink(off, oldW0, oldW1, cl)
	}
}

// clauseGlue counts the distinct non-zero decision levels among a
// clause's currently assigned literals.
func (s *Solver) clauseGlue(cl *LongClause) int {
	seen := make(map[int]bool, len(cl.Lits))
	for _, l := range cl.Lits {
		if s.trail.VarValue(l.Var()) == LUndef {
			return 0
		}
		if lvl := s.trail.Data(l.Var()).Level; lvl > 0 {
			seen[lvl] = true
		}
	}
	return len(seen)
}

// shareClause publishes a just-learned clause to SharedData if clause
// sharing is attached and the clause is short enough to be worth the
// attach cost to every peer solver.
func (s *Solver) shareClause(learnt []Lit) {
	if s.shared == nil || len(learnt) > s.config.ShareClauseMaxSize {
		return
	}
	out := make([]Literal, len(learnt))
	for i, l := range learnt {
		out[i] = s.vars.ToOuter(l)
	}
	s.shared.PublishClause(out)
}

// conflictLits returns the literals of the conflicting clause, all
// currently false, for feeding into ConflictAnalyzer.analyze.
func (s *Solver) conflictLits(p PropBy) []Lit {
	switch p.Kind {
	case propBinary:
		return []Lit{p.Ancestor, p.Lit2}
	case propTernary:
		return []Lit{p.Ancestor, p.Lit2, p.Lit3}
	case propClause:
		c := s.arena.Get(p.Offset)
		return c.Lits
	}
	return nil
}

// runInprocessEpoch runs one round of simplification passes at decision
// level 0. Returns false if a pass derives the formula is unsatisfiable.
func (s *Solver) runInprocessEpoch() bool {
	s.cancelUntil(0)
	s.stats.InprocessRuns++
	epochStart := time.Now()

	if s.shared != nil && !s.drainSharedData() {
		return false
	}

	if s.config.DoExtendedSCC {
		scc := newSCCFinder(s)
		for _, group := range scc.run() {
			if !s.applyEquivalenceGroup(group) {
				return false
			}
		}
		if s.config.DoFindAndReplaceEqLits && !s.flushReplacer() {
			return false
		}
	}
	if s.config.DoProbe {
		s.prober.Run()
		if !s.okLevel0 {
			return false
		}
	}
	if s.config.DoStamp {
		s.stamps.rebuild(s)
	}

	if s.config.DoSubsume1 {
		res := s.occur.Run()
		s.stats.ClausesReduced += int64(res.Subsumed)
	}
	if s.config.DoVarElim {
		res := s.varElim.Run(s.occur)
		s.stats.VariablesEliminated += int64(res.Eliminated)
	}
	bceRes := s.blocked.Run(s.occur)
	s.stats.ClausesReduced += int64(bceRes.Removed)
	if s.config.DoCache {
		s.cache.clean(func(l Lit) bool {
			return s.trail.Data(l.Var()).Removed == RemovedNone
		})
	}
	if s.config.DoGateFind {
		s.gates.FindGates(s.occur)
	}
	if s.config.DoFindXors {
		for _, xc := range s.xors.FindXORs(8) {
			s.gauss.AddXOR(xc)
		}
	}
	if s.proof == nil {
		// Facts derived from the XOR matrix have no one-step derivation
		// in the clause database, so they cannot be certified on a DRUP
		// stream; the matrix only feeds the solver when no proof is
		// being written.
		gr := s.gauss.Propagate()
		if gr.Conflict {
			return false
		}
		for _, gu := range gr.Units {
			if s.valueOf(gu.Lit) == LFalse {
				return false
			}
			if s.valueOf(gu.Lit) == LUndef {
				s.trail.Enqueue(gu.Lit, propByNull)
			}
		}
		for _, bc := range gr.Binaries {
			if s.valueOf(bc[0]) != LUndef || s.valueOf(bc[1]) != LUndef {
				continue
			}
			if !s.hasBinaryClause(bc[0], bc[1]) {
				s.watches.AttachBinary(bc[0], bc[1], true)
			}
		}
	}
	s.vivifier.Run()

	if conflict, _ := s.propagate(); conflict.Kind != propNull {
		return false
	}

	if keep, drop := s.cleaner.reduce(s.arena, s.redundant, s.conflicts, s.lockedReasonOffsets()); drop != nil {
		s.redundant = keep
		for _, off := range drop {
			cl := s.arena.Get(off)
			s.emitDeleted(cl.Lits)
			if len(cl.Lits) >= 2 {
				s.watches.Smudge(cl.Lits[0])
				s.watches.Smudge(cl.Lits[1])
			}
			s.arena.Free(off)
		}
		s.watches.Clean(s.arena)
		s.stats.DeletedClauses += int64(len(drop))
	}
	s.compactClauseSets()
	s.rebuildWatches()
	s.maybeConsolidate()

	if s.comps.IsSingleComponent() {
		s.stats.ComponentSplits = 0
	} else {
		// Component-isolated solving is not a separate solve path here;
		// the split count still tells callers how decomposable the live
		// formula is.
		s.stats.ComponentSplits = int64(len(s.comps.Components()))
	}
	s.stats.InprocessingTime += time.Since(epochStart).Nanoseconds()
	return true
}

// lockedReasonOffsets returns the set of long-clause offsets currently
// acting as the reason for an assigned variable. The cleaner must never
// drop those: a freed reason would leave a dangling offset in var data.
// Only meaningful at decision level 0, which is where runInprocessEpoch
// always cleans.
func (s *Solver) lockedReasonOffsets() map[ClauseOffset]bool {
	locked := make(map[ClauseOffset]bool)
	for i := 0; i < s.trail.Len(); i++ {
		v := s.trail.At(i).Var()
		if r := s.trail.Data(v).Reason; r.Kind == propClause {
			locked[r.Offset] = true
		}
	}
	return locked
}

// maybeConsolidate compacts the arena once its live/freed ratio justifies
// the cost, then rewrites every offset holder: the watch store, the
// redundant/irredundant index slices, and the reason fields in var data.
func (s *Solver) maybeConsolidate() {
	if !s.arena.ShouldConsolidate(0.5, false) {
		return
	}
	remap := s.arena.Consolidate()
	s.watches.RemapOffsets(remap)
	for i, off := range s.irredundant {
		s.irredundant[i] = remap(off)
	}
	for i, off := range s.redundant {
		s.redundant[i] = remap(off)
	}
	s.trail.RemapReasons(remap)
}

// drainSharedData folds clauses and units published by peer solvers into
// the live formula. Units are re-interned by name so a peer running the
// same problem under a different internal numbering still lines up; a
// unit already falsified at level 0 proves this formula unsatisfiable
// too. Returns false if a drained unit or clause derives a root-level
// conflict.
func (s *Solver) drainSharedData() bool {
	for _, u := range s.shared.Units() {
		ul := s.internLit(u)
		if s.valueOf(ul) == LFalse {
			s.okLevel0 = false
			return false
		}
		if s.valueOf(ul) == LUndef {
			s.trail.Enqueue(ul, propByNull)
			if conflict, _ := s.propagate(); conflict.Kind != propNull {
				s.okLevel0 = false
				return false
			}
		}
	}
	for _, lits := range s.shared.DrainClauses() {
		if err := s.addClauseInner(s.internLits(lits), true); err != nil {
			return false
		}
		if !s.okLevel0 {
			return false
		}
	}
	return true
}

func (s *Solver) internLits(lits []Literal) []Lit {
	out := make([]Lit, len(lits))
	for i, l := range lits {
		out[i] = s.internLit(l)
	}
	return out
}

// applyEquivalenceGroup unions every literal in an equivalent-literal
// SCC group, detecting the a == ¬a contradiction.
func (s *Solver) applyEquivalenceGroup(group []Lit) bool {
	if len(group) == 0 {
		return true
	}
	repr := group[0]
	for _, l := range group[1:] {
		if !s.replacer.union(repr, l) {
			return false
		}
	}
	return true
}

// gaussStep queries the XOR matrix at the current decision level and
// folds whatever it derives back into search. Forced units are enqueued
// behind a materialized reason clause (the unit disjoined with the
// negations of the row's assigned literals, one of the row's own CNF
// images), so conflict analysis can resolve through them like any other
// propagation. A falsified row is first backjumped to the highest level
// among its literals, then handed back as an ordinary conflict. Rows
// reduced to two free variables surface their implied binaries, which
// are attached only at level 0 where every assignment folded into the
// row is permanent.
func (s *Solver) gaussStep() (status SolveStatus, conflict PropBy, progressed bool) {
	gr := s.gauss.Propagate()
	if gr.Conflict {
		lits := s.gauss.clauseForConflict(gr.ConflictRow)
		top := s.maxLevelOf(lits)
		if len(lits) == 0 || top == 0 {
			return Unsat, propByNull, false
		}
		if len(lits) == 1 {
			// One assigned variable alone violates the row: its negation
			// is a root fact.
			s.cancelUntil(0)
			if s.valueOf(lits[0]) == LFalse {
				return Unsat, propByNull, false
			}
			if s.valueOf(lits[0]) == LUndef {
				s.trail.Enqueue(lits[0], propByNull)
			}
			return Unknown, propByNull, true
		}
		s.cancelUntil(top)
		switch len(lits) {
		case 2:
			if !s.hasBinaryClause(lits[0], lits[1]) {
				s.watches.AttachBinary(lits[0], lits[1], true)
			}
			return Unknown, binaryConflict(lits[0], lits[1], true), false
		case 3:
			if !s.hasTernaryClause(lits[0], lits[1], lits[2]) {
				s.watches.AttachTernary(lits[0], lits[1], lits[2], true)
			}
			return Unknown, ternaryConflict(lits[0], lits[1], lits[2], true), false
		default:
			s.orderByLevel(lits, 0)
			s.orderByLevel(lits, 1)
			off := s.addLongClauseInternal(lits, true)
			s.redundant = append(s.redundant, off)
			return Unknown, clauseReason(off), false
		}
	}

	for _, gu := range gr.Units {
		if s.valueOf(gu.Lit) != LUndef {
			continue
		}
		lits := s.gauss.clauseForUnit(gu.Row, gu.Lit)
		switch len(lits) {
		case 1:
			if s.trail.Level() > 0 {
				// The row's other variables all sit at level 0, so the
				// unit is a root fact; plant it there.
				s.cancelUntil(0)
				if s.valueOf(gu.Lit) == LUndef {
					s.trail.Enqueue(gu.Lit, propByNull)
				}
				return Unknown, propByNull, true
			}
			s.trail.Enqueue(gu.Lit, propByNull)
		case 2:
			if !s.hasBinaryClause(lits[0], lits[1]) {
				s.watches.AttachBinary(lits[0], lits[1], true)
			}
			s.trail.Enqueue(gu.Lit, binaryReason(lits[1], true, false, false))
		case 3:
			if !s.hasTernaryClause(lits[0], lits[1], lits[2]) {
				s.watches.AttachTernary(lits[0], lits[1], lits[2], true)
			}
			s.trail.Enqueue(gu.Lit, ternaryReason(lits[1], lits[2], true))
		default:
			s.orderByLevel(lits, 1)
			off := s.addLongClauseInternal(lits, true)
			s.redundant = append(s.redundant, off)
			s.trail.Enqueue(gu.Lit, clauseReason(off))
		}
		s.stats.Propagations++
		progressed = true
	}

	if s.trail.Level() == 0 {
		for _, bc := range gr.Binaries {
			if s.valueOf(bc[0]) != LUndef || s.valueOf(bc[1]) != LUndef {
				continue
			}
			if !s.hasBinaryClause(bc[0], bc[1]) {
				s.watches.AttachBinary(bc[0], bc[1], true)
			}
		}
	}
	return Unknown, propByNull, progressed
}

// maxLevelOf returns the highest decision level among the literals'
// variables (0 for an empty slice).
func (s *Solver) maxLevelOf(lits []Lit) int {
	top := 0
	for _, l := range lits {
		if lvl := s.trail.Data(l.Var()).Level; lvl > top {
			top = lvl
		}
	}
	return top
}

// orderByLevel moves the highest-level literal among lits[from:] into
// slot from, the watch position a freshly attached clause needs filled
// with the most recently falsified literal.
func (s *Solver) orderByLevel(lits []Lit, from int) {
	best := from
	for i := from + 1; i < len(lits); i++ {
		if s.trail.Data(lits[i].Var()).Level > s.trail.Data(lits[best].Var()).Level {
			best = i
		}
	}
	lits[from], lits[best] = lits[best], lits[from]
}
