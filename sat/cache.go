package sat

// cacheEntry is one record of the implication cache: lit is implied,
// and OnlyIrredBin marks that every path proving the implication runs
// through irredundant binaries alone. Consumers that rewrite the
// irredundant formula (subsumption of an irredundant clause by an
// implied binary) may only rely on entries with the flag set; learnt
// binaries can disappear in a cleaning and take the implication with
// them.
type cacheEntry struct {
	Implied      Lit
	OnlyIrredBin bool
}

// ImplicationCache records, for each literal l, the set of literals
// known to be implied by l through some chain of binary clauses. It is
// populated by probing and consulted by conflict-clause minimization
// and vivification to avoid re-walking the binary graph.
type ImplicationCache struct {
	implied [][]cacheEntry
	index   []map[Lit]int

	// maxEntriesPerLit bounds each literal's list; once full, further
	// additions are dropped rather than evicting older entries.
	maxEntriesPerLit int
}

func newImplicationCache() ImplicationCache {
	return ImplicationCache{maxEntriesPerLit: 1024}
}

func (c *ImplicationCache) grow(n int) {
	sz := n * 2
	for len(c.implied) < sz {
		c.implied = append(c.implied, nil)
		c.index = append(c.index, nil)
	}
}

// add records that l implies other. Re-adding an entry conjoins the
// irredundant-only flag: the implication is only irredundant-provable
// if every recorded derivation of it was.
func (c *ImplicationCache) add(l, other Lit, onlyIrredBin bool) {
	if c.index[l] == nil {
		c.index[l] = make(map[Lit]int)
	}
	if i, ok := c.index[l][other]; ok {
		c.implied[l][i].OnlyIrredBin = c.implied[l][i].OnlyIrredBin && onlyIrredBin
		return
	}
	if len(c.implied[l]) >= c.maxEntriesPerLit {
		return
	}
	c.index[l][other] = len(c.implied[l])
	c.implied[l] = append(c.implied[l], cacheEntry{Implied: other, OnlyIrredBin: onlyIrredBin})
}

// Implies reports whether l is known (from the cache) to imply other.
func (c *ImplicationCache) Implies(l, other Lit) bool {
	if int(l) >= len(c.index) || c.index[l] == nil {
		return false
	}
	_, ok := c.index[l][other]
	return ok
}

// entry returns the cached record for l implying other, if present.
func (c *ImplicationCache) entry(l, other Lit) (cacheEntry, bool) {
	if int(l) >= len(c.index) || c.index[l] == nil {
		return cacheEntry{}, false
	}
	i, ok := c.index[l][other]
	if !ok {
		return cacheEntry{}, false
	}
	return c.implied[l][i], true
}

// Of returns the cached implied-literal set for l.
func (c *ImplicationCache) Of(l Lit) []cacheEntry {
	if int(l) >= len(c.implied) {
		return nil
	}
	return c.implied[l]
}

// clean drops entries whose source or target literal is no longer live
// (variable eliminated or replaced).
func (c *ImplicationCache) clean(isLive func(Lit) bool) {
	for l := range c.implied {
		if len(c.implied[l]) == 0 {
			continue
		}
		if !isLive(Lit(l)) {
			c.implied[l] = nil
			c.index[l] = nil
			continue
		}
		dst := c.implied[l][:0]
		for _, e := range c.implied[l] {
			if isLive(e.Implied) {
				dst = append(dst, e)
			}
		}
		c.implied[l] = dst
		c.index[l] = make(map[Lit]int, len(dst))
		for i, e := range dst {
			c.index[l][e.Implied] = i
		}
	}
}
