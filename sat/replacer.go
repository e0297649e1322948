package sat

import "sort"

// VarReplacer maintains the mapping from a replaced literal to its
// surviving representative as a per-variable (representative, sign)
// pair with path compression: repr[v] is the literal that v's positive
// polarity now means. Literal polarity rides along with every class
// merge, which a plain variable-level union-find cannot express.
type VarReplacer struct {
	repr []Lit
}

func newVarReplacer() *VarReplacer { return &VarReplacer{} }

func (r *VarReplacer) grow(n int) {
	for len(r.repr) < n {
		v := VarID(len(r.repr))
		r.repr = append(r.repr, MkLit(v, false))
	}
}

// find returns the canonical literal equivalent to l, following the
// chain with path compression.
func (r *VarReplacer) find(l Lit) Lit {
	v := l.Var()
	root := r.repr[v]
	if root.Var() == v {
		if l.Sign() {
			return root.Negate()
		}
		return root
	}
	canon := r.find(root)
	r.repr[v] = canon
	if l.Sign() {
		return canon.Negate()
	}
	return canon
}

// union merges l and m's classes, choosing the lower VarID as the
// representative so renumbering stays stable. Returns false if the
// union would force l == ¬l, a root-level contradiction.
func (r *VarReplacer) union(l, m Lit) bool {
	cl, cm := r.find(l), r.find(m)
	if cl.Var() == cm.Var() {
		return cl.Sign() == cm.Sign()
	}
	if cl.Var() < cm.Var() {
		r.repr[cm.Var()] = cl
		if cm.Sign() {
			r.repr[cm.Var()] = cl.Negate()
		}
	} else {
		r.repr[cl.Var()] = cm
		if cl.Sign() {
			r.repr[cl.Var()] = cm.Negate()
		}
	}
	return true
}

// IsReplaced reports whether v is not its own representative.
func (r *VarReplacer) IsReplaced(v VarID) bool { return r.repr[v].Var() != v }

// Rewrite maps a literal through the replacement table.
func (r *VarReplacer) Rewrite(l Lit) Lit { return r.find(l) }

// flushReplacer applies every pending replacement to the live formula:
// replaced variables are retired from decisions, their level-0 values
// migrate to the representative, and every clause mentioning a replaced
// variable, implicit binaries and ternaries included, is rewritten
// onto the representatives. Tautologies vanish, shrunken clauses are
// rerouted to their proper representation, and a rewrite that empties a
// clause proves unsatisfiability. Returns false on a root-level
// contradiction.
func (s *Solver) flushReplacer() bool {
	changed := false
	for v := VarID(0); v < VarID(s.vars.Len()); v++ {
		if !s.replacer.IsReplaced(v) || s.trail.Data(v).Removed != RemovedNone {
			continue
		}
		s.trail.Data(v).Removed = RemovedReplaced
		s.recordReplaced(v, s.replacer.find(MkLit(v, false)))
		changed = true
		if val := s.trail.VarValue(v); val != LUndef && s.trail.Data(v).Level == 0 {
			trueLit := s.replacer.find(MkLit(v, val == LFalse))
			switch s.valueOf(trueLit) {
			case LFalse:
				s.okLevel0 = false
				return false
			case LUndef:
				s.trail.Enqueue(trueLit, propByNull)
			}
		}
	}
	if !changed {
		return true
	}
	s.stamps.valid = false

	if !s.rewriteImplicitClauses() {
		return false
	}
	if !s.rewriteLongClauses() {
		return false
	}
	if conflict, _ := s.propagate(); conflict.Kind != propNull {
		s.okLevel0 = false
		return false
	}
	return true
}

// implicitRewrite is one binary or ternary clause pulled out of the
// watch store for rewriting.
type implicitRewrite struct {
	lits []Lit
	red  bool
}

// rewriteImplicitClauses rewrites every binary/ternary clause that
// touches a replaced variable. Each such clause is collected once (from
// its smallest member literal's list), detached from every endpoint,
// mapped through the replacement table, and re-added at whatever size
// it lands on.
func (s *Solver) rewriteImplicitClauses() bool {
	replacedVar := func(l Lit) bool { return s.trail.Data(l.Var()).Removed == RemovedReplaced }

	var pending []implicitRewrite
	n := s.vars.Len() * 2
	for li := 0; li < n; li++ {
		l := Lit(li)
		for _, w := range s.watches.At(l) {
			switch w.Kind {
			case watchBinary:
				if l > w.Other {
					continue
				}
				if replacedVar(l) || replacedVar(w.Other) {
					pending = append(pending, implicitRewrite{lits: []Lit{l, w.Other}, red: w.Red})
				}
			case watchTernary:
				if l > w.Lit2 || l > w.Lit3 {
					continue
				}
				if replacedVar(l) || replacedVar(w.Lit2) || replacedVar(w.Lit3) {
					pending = append(pending, implicitRewrite{lits: []Lit{l, w.Lit2, w.Lit3}, red: w.Red})
				}
			}
		}
	}

	for _, pw := range pending {
		if len(pw.lits) == 2 {
			s.watches.RemoveBinary(pw.lits[0], pw.lits[1], pw.red)
			s.watches.RemoveBinary(pw.lits[1], pw.lits[0], pw.red)
			if !pw.red {
				s.binClauses--
			}
		} else {
			s.watches.RemoveTernary(pw.lits[0], pw.lits[1], pw.lits[2], pw.red)
			if !pw.red {
				s.terClauses--
			}
		}
		mapped := make([]Lit, len(pw.lits))
		for i, l := range pw.lits {
			mapped[i] = s.replacer.Rewrite(l)
		}
		sort.Slice(mapped, func(i, j int) bool { return mapped[i] < mapped[j] })
		mapped = dedupLits(mapped)
		if tautological(mapped) {
			s.emitDeleted(pw.lits)
			continue
		}
		s.emitLearnt(mapped)
		s.emitDeleted(pw.lits)
		if err := s.addClauseInner(mapped, pw.red); err != nil {
			return false
		}
		if !s.okLevel0 {
			return false
		}
	}
	return true
}

// rewriteLongClauses maps every long clause touching a replaced
// variable onto the representatives, shrinking or rerouting in place.
func (s *Solver) rewriteLongClauses() bool {
	replacedVar := func(l Lit) bool { return s.trail.Data(l.Var()).Removed == RemovedReplaced }

	for _, offs := range [][]ClauseOffset{s.irredundant, s.redundant} {
		for _, off := range offs {
			c := s.arena.Get(off)
			if c == nil || c.Freed || c.Removed {
				continue
			}
			touched := false
			for _, l := range c.Lits {
				if replacedVar(l) {
					touched = true
					break
				}
			}
			if !touched {
				continue
			}

			mapped := make([]Lit, len(c.Lits))
			for i, l := range c.Lits {
				mapped[i] = s.replacer.Rewrite(l)
			}
			sort.Slice(mapped, func(i, j int) bool { return mapped[i] < mapped[j] })
			mapped = dedupLits(mapped)

			oldW0, oldW1 := c.Lits[0], c.Lits[1]
			if tautological(mapped) {
				s.emitDeleted(c.Lits)
				c.Removed = true
				s.watches.RemoveLong(oldW0, off)
				s.watches.RemoveLong(oldW1, off)
				continue
			}
			s.emitLearnt(mapped)
			s.emitDeleted(c.Lits)
			if len(mapped) >= 4 {
				c.Lits = mapped
				c.recomputeAbstraction()
				s.rewatchAfterShrink(off, oldW0, oldW1, c)
				continue
			}
			// The rewrite shrank the clause out of the long
			// representation; reroute it through ordinary clause
			// addition, which handles the unit/binary/ternary cases and
			// their propagation.
			c.Removed = true
			s.watches.RemoveLong(oldW0, off)
			s.watches.RemoveLong(oldW1, off)
			if err := s.addClauseInner(mapped, c.Red); err != nil {
				return false
			}
			if !s.okLevel0 {
				return false
			}
		}
	}
	return true
}
