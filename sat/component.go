package sat

// ComponentDetector partitions the current clause set into connected
// components over the variable-incidence graph (two variables are
// connected if they co-occur in some clause). Independent components
// can be solved separately and their models combined, which matters
// most for instances built from many disjoint sub-problems.
type ComponentDetector struct {
	s *Solver

	parent []VarID
}

func newComponentDetector(s *Solver) *ComponentDetector {
	return &ComponentDetector{s: s}
}

func (d *ComponentDetector) init() {
	n := d.s.vars.Len()
	d.parent = make([]VarID, n)
	for i := range d.parent {
		d.parent[i] = VarID(i)
	}
}

func (d *ComponentDetector) find(v VarID) VarID {
	for d.parent[v] != v {
		d.parent[v] = d.parent[d.parent[v]]
		v = d.parent[v]
	}
	return v
}

func (d *ComponentDetector) union(a, b VarID) {
	ra, rb := d.find(a), d.find(b)
	if ra != rb {
		d.parent[ra] = rb
	}
}

// Components returns the current partition as a map from a canonical
// representative VarID to the list of clause offsets belonging to its
// component.
func (d *ComponentDetector) Components() map[VarID][]ClauseOffset {
	d.init()
	s := d.s
	for _, off := range s.irredundant {
		c := s.arena.Get(off)
		if c == nil || c.Freed || c.Removed || c.size() < 2 {
			continue
		}
		first := c.Lits[0].Var()
		for _, l := range c.Lits[1:] {
			d.union(first, l.Var())
		}
	}

	out := make(map[VarID][]ClauseOffset)
	for _, off := range s.irredundant {
		c := s.arena.Get(off)
		if c == nil || c.Freed || c.Removed || len(c.Lits) == 0 {
			continue
		}
		root := d.find(c.Lits[0].Var())
		out[root] = append(out[root], off)
	}
	return out
}

// IsSingleComponent reports whether the whole live formula forms one
// connected component (the common case; skip decomposition overhead).
func (d *ComponentDetector) IsSingleComponent() bool {
	return len(d.Components()) <= 1
}
