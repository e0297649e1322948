package sat

import "sort"

// AddClause adds an irredundant clause to the formula. Tautological
// clauses are silently dropped (satisfied forever); duplicate literals
// are deduplicated; a clause that reduces to a single literal is
// enqueued as a level-0 unit instead of being stored. Ok() turns false
// if a unit's propagation or an empty clause proves the formula
// unsatisfiable at the root. An empty input clause is also reported as
// an error; a clause that only becomes empty against the level-0
// assignment is not.
func (s *Solver) AddClause(lits []Literal) error {
	if !s.okLevel0 {
		return nil
	}
	if len(lits) == 0 {
		s.okLevel0 = false
		return s.fatalf("AddClause", "empty clause")
	}
	inner := make([]Lit, len(lits))
	for i, l := range lits {
		inner[i] = s.internLit(l)
	}
	return s.addClauseInner(inner, false)
}

// addClauseInner installs an already-interned clause, routing it to the
// unit/binary/ternary/long representation its size calls for. Search
// and the in-processing passes use it directly for derived clauses.
func (s *Solver) addClauseInner(inner []Lit, redundant bool) error {
	sort.Slice(inner, func(i, j int) bool { return inner[i] < inner[j] })
	inner = dedupLits(inner)
	if tautological(inner) {
		return nil
	}
	if !redundant {
		for _, l := range inner {
			if l.Sign() {
				s.negOcc[l.Var()]++
			} else {
				s.posOcc[l.Var()]++
			}
		}
	}
	if simplified, ok := s.simplifyAgainstTrail(inner); ok {
		inner = simplified
	} else {
		return nil // satisfied by the current (level-0) trail already
	}

	switch len(inner) {
	case 0:
		s.okLevel0 = false
		return nil
	case 1:
		if s.valueOf(inner[0]) == LFalse {
			s.okLevel0 = false
			return nil
		}
		if s.valueOf(inner[0]) == LUndef {
			s.trail.Enqueue(inner[0], propByNull)
			if conflict, _ := s.propagate(); conflict.Kind != propNull {
				s.okLevel0 = false
			}
		}
		return nil
	case 2:
		s.watches.AttachBinary(inner[0], inner[1], redundant)
		if redundant {
			// binaries/ternaries have no arena entry; the redundant
			// count is tracked for statistics only.
			s.stats.LearnedClauses++
		} else {
			s.binClauses++
		}
		return nil
	case 3:
		s.watches.AttachTernary(inner[0], inner[1], inner[2], redundant)
		if !redundant {
			s.terClauses++
		}
		return nil
	default:
		off := s.addLongClauseInternal(inner, redundant)
		if !redundant {
			s.irredundant = append(s.irredundant, off)
		} else {
			s.redundant = append(s.redundant, off)
		}
		return nil
	}
}

// addLongClauseInternal allocates a LongClause in the arena and attaches
// its watches, returning the new offset.
func (s *Solver) addLongClauseInternal(lits []Lit, redundant bool) ClauseOffset {
	c := newLongClause(append([]Lit(nil), lits...), redundant)
	off, err := s.arena.Alloc(c)
	if err != nil {
		s.okLevel0 = false
		return 0
	}
	s.watches.AttachLong(off, c.Lits)
	return off
}

func dedupLits(lits []Lit) []Lit {
	if len(lits) < 2 {
		return lits
	}
	dst := lits[:1]
	for _, l := range lits[1:] {
		if l != dst[len(dst)-1] {
			dst = append(dst, l)
		}
	}
	return dst
}

// tautological reports whether the sorted, deduped literal slice
// contains both l and ¬l for some variable.
func tautological(lits []Lit) bool {
	for i := 1; i < len(lits); i++ {
		if lits[i].Var() == lits[i-1].Var() {
			return true
		}
	}
	return false
}

// simplifyAgainstTrail drops literals already falsified at level 0 and
// reports ok=false if the clause is already satisfied by a level-0
// literal (so the whole clause can be discarded).
func (s *Solver) simplifyAgainstTrail(lits []Lit) ([]Lit, bool) {
	dst := lits[:0]
	for _, l := range lits {
		v := s.trail.VarValue(l.Var())
		if s.trail.Data(l.Var()).Level != 0 || v == LUndef {
			dst = append(dst, l)
			continue
		}
		val := litValue(v, l)
		if val == LTrue {
			return nil, false
		}
		// LFalse at level 0: drop the literal.
	}
	return dst, true
}

// AddXORClause adds an XOR constraint directly, bypassing exponential
// clause expansion by handing it straight to the Gaussian engine. A
// short XOR (size <= 3) is instead expanded into regular clauses so
// ordinary propagation and in-processing can see it; its CNF form is
// small enough that the matrix buys nothing.
func (s *Solver) AddXORClause(vars []string, rhs bool) error {
	if !s.okLevel0 {
		return nil
	}
	ids := make([]VarID, len(vars))
	for i, name := range vars {
		ids[i] = s.vars.Intern(name)
	}
	s.growTo(s.vars.Len())

	if len(ids) <= 3 {
		return s.expandShortXOR(ids, rhs)
	}
	s.gauss.AddXOR(XORConstraint{Vars: ids, RHS: rhs})
	return nil
}

// expandShortXOR materializes a size<=3 XOR as its 2^(n-1) falsifying
// clauses, the inverse of xorfinder.go's recovery direction.
func (s *Solver) expandShortXOR(ids []VarID, rhs bool) error {
	n := len(ids)
	for assignment := 0; assignment < (1 << uint(n)); assignment++ {
		parity := false
		lits := make([]Literal, n)
		for i, v := range ids {
			bit := (assignment>>uint(i))&1 == 1
			if bit {
				parity = !parity
			}
			lits[i] = Literal{Variable: s.vars.Name(v), Negated: bit}
		}
		if parity != rhs {
			if err := s.AddClause(lits); err != nil {
				return err
			}
		}
	}
	return nil
}
