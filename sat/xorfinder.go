package sat

import "sort"

// XORFinder recovers XOR constraints hiding in a clause set: a set of
// 2^(k-1) clauses over the same k variables whose sign patterns are
// exactly the falsifying assignments of an XOR/XNOR of those
// variables. Recovered constraints go to the Gaussian engine, which
// reasons about them far more compactly than the clause group.
type XORFinder struct {
	s *Solver
}

func newXORFinder(s *Solver) *XORFinder { return &XORFinder{s: s} }

// XORConstraint is a recovered x1 ^ x2 ^ ... ^ xn = rhs constraint over
// variables, not literals; sign is folded into rhs.
type XORConstraint struct {
	Vars    []VarID
	RHS     bool
	Sources []ClauseOffset
}

// FindXORs groups irredundant clauses of equal size by their variable
// set and checks whether the group's sign patterns form a complete
// XOR/XNOR truth table.
func (x *XORFinder) FindXORs(maxSize int) []XORConstraint {
	s := x.s
	groups := make(map[string][]ClauseOffset)
	for _, off := range s.irredundant {
		c := s.arena.Get(off)
		if c == nil || c.Freed || c.Removed || c.size() < 2 || c.size() > maxSize {
			continue
		}
		groups[varSetKey(c.Lits)] = append(groups[varSetKey(c.Lits)], off)
	}

	var out []XORConstraint
	for _, offs := range groups {
		k := s.arena.Get(offs[0]).size()
		if len(offs) != 1<<uint(k-1) {
			continue
		}
		if xc, ok := x.tryBuildXOR(offs); ok {
			out = append(out, xc)
		}
	}
	return out
}

func varSetKey(lits []Lit) string {
	vars := make([]int, len(lits))
	for i, l := range lits {
		vars[i] = int(l.Var())
	}
	sort.Ints(vars)
	key := make([]byte, 0, len(vars)*5)
	for _, v := range vars {
		key = append(key, byte(v), byte(v>>8), byte(v>>16), byte(v>>24), ',')
	}
	return string(key)
}

// tryBuildXOR checks whether offs' clauses, all over the same variable
// set, realize every even- (or every odd-) parity sign pattern exactly
// once; if so it's an XOR (or XNOR) constraint.
func (x *XORFinder) tryBuildXOR(offs []ClauseOffset) (XORConstraint, bool) {
	s := x.s
	first := s.arena.Get(offs[0])
	vars := make([]VarID, len(first.Lits))
	for i, l := range first.Lits {
		vars[i] = l.Var()
	}

	seen := make(map[uint64]bool, len(offs))
	for _, off := range offs {
		c := s.arena.Get(off)
		var mask uint64
		for _, l := range c.Lits {
			pos := indexOfVar(vars, l.Var())
			if pos < 0 {
				return XORConstraint{}, false
			}
			if !l.Sign() {
				mask |= 1 << uint(pos)
			}
		}
		seen[mask] = true
	}

	parity := uint(0)
	for m := range seen {
		p := popcount(m)
		parity = p % 2
		break
	}
	for m := range seen {
		if popcount(m)%2 != parity {
			return XORConstraint{}, false
		}
	}
	if len(seen) != 1<<uint(len(vars)-1) {
		return XORConstraint{}, false
	}

	// Each clause excludes the assignment that makes all its literals
	// false, which sets exactly its negated literals true; the XOR's RHS
	// is the parity those excluded assignments do not have.
	return XORConstraint{Vars: vars, RHS: (uint(len(vars))-parity)%2 == 0, Sources: offs}, true
}

func indexOfVar(vars []VarID, v VarID) int {
	for i, x := range vars {
		if x == v {
			return i
		}
	}
	return -1
}

func popcount(m uint64) uint {
	var c uint
	for m != 0 {
		c++
		m &= m - 1
	}
	return c
}
