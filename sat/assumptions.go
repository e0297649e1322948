package sat

// prepareAssumptions maps each assumption literal onto the live
// formula. A replaced variable's assumption is carried by its
// representative; a variable removed by elimination is first restored
// (its recorded clauses re-added) so the assumption has clauses to bite
// on. The original outer form of every assumption is remembered so the
// final conflict reports the literals the caller actually passed.
func (s *Solver) prepareAssumptions(outer []Literal) {
	s.assumptions = s.assumptions[:0]
	if s.assumpOuter == nil {
		s.assumpOuter = make(map[Lit]Literal)
	}
	for k := range s.assumpOuter {
		delete(s.assumpOuter, k)
	}
	for _, a := range outer {
		l := s.internLit(a)
		if s.trail.Data(l.Var()).Removed == RemovedEliminated {
			s.uneliminate(l.Var())
		}
		if s.trail.Data(l.Var()).Removed == RemovedReplaced {
			l = s.replacer.find(l)
		}
		s.assumptions = append(s.assumptions, l)
		if _, dup := s.assumpOuter[l]; !dup {
			s.assumpOuter[l] = a
		}
	}
}

// uneliminate restores a variable removed by bounded variable
// elimination: the clauses recorded at elimination time are re-added
// (the resolvents they left behind are implied and stay), and the
// variable becomes a free decision variable again.
func (s *Solver) uneliminate(v VarID) {
	kept := s.removalLog[:0]
	var restore [][]Lit
	for _, ev := range s.removalLog {
		if ev.kind == removalEliminated && ev.v == v {
			restore = append(restore, ev.clauses...)
			continue
		}
		kept = append(kept, ev)
	}
	s.removalLog = kept
	s.trail.Data(v).Removed = RemovedNone
	s.heuristic.onUnassign(v)
	for _, lits := range restore {
		s.emitLearnt(lits)
		s.addClauseInner(append([]Lit(nil), lits...), false)
	}
}

// assumeAll pushes the solver's current assumption literals onto the
// trail, one decision level each, stopping early (and returning false)
// if an assumption is already falsified or propagation derives a
// conflict among them. conflictAssump, if returned, is the literal at
// which the contradiction was detected.
func (s *Solver) assumeAll() (ok bool, conflictAssump Lit) {
	for _, a := range s.assumptions {
		val := s.valueOf(a)
		if val == LFalse {
			s.finalConflictLits = []Lit{a}
			return false, a
		}
		if val == LTrue {
			continue
		}
		s.trail.NewDecisionLevel()
		s.trail.Enqueue(a, propByNull)
		if conflict, _ := s.propagate(); conflict.Kind != propNull {
			s.finalConflictLits = s.conflictLits(conflict)
			return false, a
		}
	}
	s.decisionLevelAssumptions = s.trail.Level()
	return true, LitUndef
}

// finalConflict computes the subset of assumptions responsible for
// unsatisfiability, by walking back from the falsified assumption (or
// the conflicting clause, if the contradiction arose during propagation
// rather than at the assumption push itself) exactly as conflict
// analysis does, but stopping the resolution at assumption literals
// instead of continuing to the first UIP.
func (s *Solver) finalConflict(conflictLits []Lit) []Literal {
	seen := make(map[Lit]bool)
	var core []Lit
	queue := s.pool.GetLits(len(conflictLits))
	queue = append(queue, conflictLits...)

	for len(queue) > 0 {
		l := queue[len(queue)-1]
		queue = queue[:len(queue)-1]
		if seen[l] {
			continue
		}
		seen[l] = true

		// l is itself a rejected/falsified assumption: it belongs in the
		// core directly, so the literal that triggered the contradiction
		// always appears in its own explanation.
		if s.isAssumption(l) {
			core = append(core, l)
		}
		if s.isAssumption(l.Negate()) {
			core = append(core, l.Negate())
			continue
		}
		reason := s.trail.Data(l.Var()).Reason
		if reason.Kind == propNull {
			continue
		}
		queue = append(queue, s.analyzer.reasonLits(reason)...)
	}
	s.pool.PutLits(queue)

	out := make([]Literal, 0, len(core))
	for _, l := range core {
		if orig, ok := s.assumpOuter[l]; ok {
			out = append(out, orig)
		} else {
			out = append(out, s.vars.ToOuter(l))
		}
	}
	return out
}

func (s *Solver) isAssumption(l Lit) bool {
	for _, a := range s.assumptions {
		if a == l {
			return true
		}
	}
	return false
}
