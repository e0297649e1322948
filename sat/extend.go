package sat

// solutionExtender restores a value for every variable that was removed
// from the live formula by elimination or replacement, so the returned
// model covers every variable the caller introduced via NewVar. The
// removal history is replayed as one sequence in reverse chronological
// order, eliminations, replacements, and blocked-clause removals
// interleaved exactly as they happened: a clause snapshot frozen when a
// variable was eliminated may mention a variable that was only replaced
// (or eliminated) in a later epoch, and that later removal must be
// undone first so the snapshot is evaluated against known values.
type solutionExtender struct {
	s   *Solver
	log []removalEvent
}

// newSolutionExtender builds an extender over the removal history
// recorded on s so far.
func newSolutionExtender(s *Solver) *solutionExtender {
	return &solutionExtender{s: s, log: s.removalLog}
}

// Extend fills in values for every removed variable given a satisfying
// assignment for the live (reduced) formula, and returns the full
// Assignment over outer variable names.
func (e *solutionExtender) Extend() Assignment {
	s := e.s
	values := make([]TriValue, s.vars.Len())
	for v := VarID(0); v < VarID(s.vars.Len()); v++ {
		values[v] = s.trail.VarValue(v)
	}

	for i := len(e.log) - 1; i >= 0; i-- {
		ev := e.log[i]
		switch ev.kind {
		case removalBlocked:
			// If the model built so far leaves the removed clause
			// unsatisfied, force its blocking literal true. Sound because
			// blockedness means no clause containing the literal's
			// negation can be hurt by that flip.
			if !satisfiesAll(ev.clauses, values) {
				values[ev.blocked.Var()] = boolToTri(!ev.blocked.Sign())
			}
		case removalReplaced:
			rv := values[ev.repr.Var()]
			if rv == LUndef {
				// The representative ended up unconstrained; commit its
				// default now so the retired variable agrees with the
				// value the final fill-in would choose.
				rv = LTrue
				values[ev.repr.Var()] = rv
			}
			if ev.repr.Sign() {
				rv = rv.Inverse()
			}
			values[ev.v] = rv
		case removalEliminated:
			values[ev.v] = chooseSatisfyingValue(ev.v, ev.clauses, values)
		}
	}

	out := make(Assignment, s.vars.Len())
	for v := VarID(0); v < VarID(s.vars.Len()); v++ {
		val := values[v]
		if val == LUndef {
			val = LTrue // unconstrained variable: any value satisfies
		}
		out[s.vars.Name(v)] = val == LTrue
	}
	return out
}

// chooseSatisfyingValue picks True or False for v so that every
// recorded clause is satisfied, given the rest of the (already decided)
// assignment. Such a value always exists because the clauses were only
// removed after being proven satisfiable by some setting of v (that is
// the defining property of an eliminated variable's resolvents).
func chooseSatisfyingValue(v VarID, clauses [][]Lit, values []TriValue) TriValue {
	for _, want := range []bool{true, false} {
		values[v] = boolToTri(want)
		if satisfiesAll(clauses, values) {
			return values[v]
		}
	}
	return LTrue
}

func satisfiesAll(clauses [][]Lit, values []TriValue) bool {
	for _, lits := range clauses {
		sat := false
		for _, l := range lits {
			if litValue(values[l.Var()], l) == LTrue {
				sat = true
				break
			}
		}
		if !sat {
			return false
		}
	}
	return true
}
