package sat

import "sort"

// Cleaner owns the learned-clause database's periodic reduction pass.
// Clauses that are locked as reasons, hold a one-round protection, or
// sit at or below the glue keep-threshold survive unconditionally; the
// remaining candidates are ranked by glue, by size, and by activity,
// and each ranking marks its configured share of keepers.
// Whatever no ranking marked is dropped. The allowance of temporary
// clauses grows by a configured factor after every round, so cleaning
// pressure relaxes as search matures.
type Cleaner struct {
	glueKeep   int
	ratios     [3]float64
	maxTemp    int
	growFactor float64

	rounds int64
}

func newCleaner(cfg Config) *Cleaner {
	return &Cleaner{
		glueKeep:   cfg.GlueMustKeepClauseIfBelowOrEq,
		ratios:     cfg.RatioKeepClauses,
		maxTemp:    cfg.MaxTemporaryLearntClauses,
		growFactor: cfg.IncMaxTempRedCls,
	}
}

// reduce decides which redundant clause offsets to drop, given the
// current redundant set and the arena holding their stats. It returns
// the surviving offsets; the caller detaches and frees the rest. A
// clause's one-round protection is consumed here: it survives this
// reduce and competes normally in the next one.
func (c *Cleaner) reduce(arena *ClauseArena, redundant []ClauseOffset, conflicts int64, lockedOffsets map[ClauseOffset]bool) (keep []ClauseOffset, drop []ClauseOffset) {
	c.rounds++

	type scored struct {
		off ClauseOffset
		cl  *LongClause
	}
	var candidates []scored
	for _, off := range redundant {
		cl := arena.Get(off)
		if cl == nil || cl.Freed || cl.Removed {
			continue
		}
		if lockedOffsets[off] {
			keep = append(keep, off)
			continue
		}
		if cl.Stats.protectedActive {
			cl.Stats.protectedActive = false
			keep = append(keep, off)
			continue
		}
		if cl.Stats.glue <= c.glueKeep {
			keep = append(keep, off)
			continue
		}
		candidates = append(candidates, scored{off, cl})
	}

	target := c.maxTemp
	if len(keep)+len(candidates) <= target {
		for _, s := range candidates {
			keep = append(keep, s.off)
		}
		c.maxTemp = int(float64(c.maxTemp) * c.growFactor)
		return keep, nil
	}

	marked := make(map[ClauseOffset]bool, len(candidates))
	mark := func(ranked []scored, share float64) {
		n := int(float64(target) * share)
		for i := 0; i < len(ranked) && i < n; i++ {
			marked[ranked[i].off] = true
		}
	}

	byGlue := append([]scored(nil), candidates...)
	sort.Slice(byGlue, func(i, j int) bool { return byGlue[i].cl.Stats.glue < byGlue[j].cl.Stats.glue })
	mark(byGlue, c.ratios[0])

	bySize := append([]scored(nil), candidates...)
	sort.Slice(bySize, func(i, j int) bool { return bySize[i].cl.size() < bySize[j].cl.size() })
	mark(bySize, c.ratios[1])

	byActivity := append([]scored(nil), candidates...)
	sort.Slice(byActivity, func(i, j int) bool {
		return byActivity[i].cl.Stats.activity > byActivity[j].cl.Stats.activity
	})
	mark(byActivity, c.ratios[2])

	for _, s := range candidates {
		if marked[s.off] {
			keep = append(keep, s.off)
		} else {
			drop = append(drop, s.off)
		}
	}

	c.maxTemp = int(float64(c.maxTemp) * c.growFactor)
	return keep, drop
}

// protectFromResolution marks a clause as participating in the most
// recent conflict's resolution (or as having just improved its glue),
// exempting it from the next reduce pass regardless of ranking.
func (c *Cleaner) protectFromResolution(cl *LongClause, conflicts int64) {
	cl.Stats.protectedActive = true
	cl.Stats.protectedAt = conflicts
}
