package sat

// ClauseOffset addresses a long clause inside a ClauseArena. Offsets are
// only stable between calls to Consolidate.
type ClauseOffset uint32

// CLOffsetMax is the "no clause" sentinel offset.
const CLOffsetMax ClauseOffset = ^ClauseOffset(0)

// abstractionBits is the number of buckets the abstraction word hashes
// variables into (one bit per var mod abstractionBits).
const abstractionBits = 64

// clauseStats is the per-clause quality and usage record the cleaner
// scores against: glue and activity decide survival, the counters below
// track how often the clause actually participated in propagation and
// conflict resolution.
type clauseStats struct {
	glue            int
	activity        float64
	introConflict   int64 // conflict index at which the clause was learned
	propagations    int64
	conflicts       int64
	usedInUIP       int64
	tier            int // 0=core (glue<=2), 1=mid (glue<=6), 2=local
	protectedAt     int64
	protectedActive bool
}

func (s *clauseStats) setGlue(glue int) {
	s.glue = glue
	switch {
	case glue <= 2:
		s.tier = 0
	case glue <= 6:
		s.tier = 1
	default:
		s.tier = 2
	}
}

// LongClause is a clause of length >= 3, stored in the arena and
// referenced everywhere else by ClauseOffset. The first two literals
// are always the current watches.
type LongClause struct {
	Lits []Lit

	Red         bool // redundant (learnt)
	Removed     bool // detached, pending free
	Freed       bool // memory reclaimable at next consolidation
	Asymmed     bool // already tried by the vivifier
	OccurLinked bool // present in the occurrence lists

	Abstraction uint64
	Stats       clauseStats
}

func newLongClause(lits []Lit, red bool) *LongClause {
	c := &LongClause{Lits: append([]Lit(nil), lits...), Red: red}
	c.recomputeAbstraction()
	return c
}

// recomputeAbstraction rebuilds the abstraction word from the current
// literal set; must be called whenever Lits changes.
func (c *LongClause) recomputeAbstraction() {
	var a uint64
	for _, l := range c.Lits {
		a |= 1 << (uint(l.Var()) % abstractionBits)
	}
	c.Abstraction = a
}

// abstractionOf computes the abstraction word for an arbitrary literal
// slice, used by subsumption/SCC/BVE before a clause object exists.
func abstractionOf(lits []Lit) uint64 {
	var a uint64
	for _, l := range lits {
		a |= 1 << (uint(l.Var()) % abstractionBits)
	}
	return a
}

// size returns the clause's current literal count.
func (c *LongClause) size() int { return len(c.Lits) }

// containsLit reports whether lit is present in the clause.
func (c *LongClause) containsLit(lit Lit) bool {
	for _, l := range c.Lits {
		if l == lit {
			return true
		}
	}
	return false
}

// removeLitAt deletes the literal at index i by moving the last literal
// into slot i. Slots 0 and 1 are not protected: removing a watched
// literal changes the watched pair, so the caller must rewire the watch
// store afterwards.
func (c *LongClause) removeLitAt(i int) {
	last := len(c.Lits) - 1
	c.Lits[i] = c.Lits[last]
	c.Lits = c.Lits[:last]
	c.recomputeAbstraction()
}
