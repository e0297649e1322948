package sat

// GateFinder detects AND/OR gate structure latent in a clause set (a
// variable v whose clauses encode v <-> (a AND b AND ...)) so other
// passes (variable elimination, vivification) can special-case gate
// outputs instead of treating them as arbitrary variables.
type GateFinder struct {
	s *Solver
}

func newGateFinder(s *Solver) *GateFinder { return &GateFinder{s: s} }

// Gate describes a detected Output <-> AND(Inputs) relationship. IsOr
// marks a gate found from the OR encoding v <-> (a OR b): there Output
// is ¬v and Inputs hold the negated operands ¬a, ¬b.
type Gate struct {
	Output  Lit
	Inputs  []Lit
	IsOr    bool
}

// FindGates scans every variable's occurrence list for the canonical
// CNF encoding of an AND/OR gate:
//
//	v <-> (a AND b): clauses {¬v,a}, {¬v,b}, {v,¬a,¬b}
//	v <-> (a OR b):  clauses {v,¬a}, {v,¬b}, {¬v,a,b}
//
// The long clause is looked up only among occ's arena clauses. A
// three-literal clause kept as an implicit ternary in the watch store
// is not seen there, so a two-input gate like the examples above is
// found only when its long clause happens to be an arena clause.
func (g *GateFinder) FindGates(occ *OccurrenceSimplifier) []Gate {
	s := g.s
	var gates []Gate
	occ.build()

	for v := VarID(0); v < VarID(s.vars.Len()); v++ {
		posLit, negLit := MkLit(v, false), MkLit(v, true)
		pos := occ.occur[posLit]
		neg := occ.occur[negLit]
		if gate, ok := g.matchAndGate(s, negLit, pos); ok {
			gates = append(gates, gate)
			continue
		}
		if gate, ok := g.matchAndGate(s, posLit, neg); ok {
			gate.IsOr = true
			gates = append(gates, gate)
		}
	}
	return gates
}

// matchAndGate looks for the AND-gate pattern rooted at notV (the
// negative occurrence side): a set of binary clauses {notV, input_i}
// for each input, plus one long clause {¬notV, ¬input_1, ..., ¬input_k}
// confirming the conjunction. Binary clauses live only in the watch
// store, never in occ's long-clause-only occurrence lists, so the
// binary side is gathered from watches[notV] directly.
func (g *GateFinder) matchAndGate(s *Solver, notV Lit, longSide []ClauseOffset) (Gate, bool) {
	var inputs []Lit
	for _, wt := range s.watches.At(notV) {
		if wt.Kind == watchBinary {
			inputs = append(inputs, wt.Other)
		}
	}
	if len(inputs) < 2 {
		return Gate{}, false
	}
	for _, off := range longSide {
		c := s.arena.Get(off)
		if c == nil || c.size() != len(inputs)+1 {
			continue
		}
		if matchesNegatedSet(c.Lits, notV.Negate(), inputs) {
			return Gate{Output: notV.Negate(), Inputs: inputs}, true
		}
	}
	return Gate{}, false
}

func matchesNegatedSet(lits []Lit, head Lit, inputs []Lit) bool {
	has := func(l Lit) bool {
		for _, x := range lits {
			if x == l {
				return true
			}
		}
		return false
	}
	if !has(head) {
		return false
	}
	for _, in := range inputs {
		if !has(in.Negate()) {
			return false
		}
	}
	return true
}
