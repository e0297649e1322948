package sat

// StampTable records DFS discovery/finish intervals over the binary
// implication graph, answering "does a imply b" in O(1) without a graph
// walk: if b's interval nests inside a's, b sits in a's DFS subtree and
// is therefore reachable from a. Two interval sets are kept: one for
// the graph restricted to irredundant binaries (stable across learnt-
// clause cleaning), one for the full graph including learnt binaries.
type StampTable struct {
	start []int64
	end   []int64

	startRed []int64
	endRed   []int64

	clock int64

	// valid is true between a rebuild and the next structural change to
	// the binary graph; consumers must not trust stale intervals, since
	// reachability claims may refer to binaries since removed.
	valid bool
}

func newStampTable() *StampTable { return &StampTable{} }

func (t *StampTable) grow(n int) {
	sz := n * 2
	for len(t.start) < sz {
		t.start = append(t.start, 0)
		t.end = append(t.end, 0)
		t.startRed = append(t.startRed, 0)
		t.endRed = append(t.endRed, 0)
	}
}

// dominatesIrred reports whether b is reachable from a along
// irredundant binaries alone (a implies b), either directly by interval
// nesting or through the contrapositive ¬b -> ¬a.
func (t *StampTable) dominatesIrred(a, b Lit) bool {
	if int(a) >= len(t.start) || int(b) >= len(t.start) {
		return false
	}
	na, nb := a.Negate(), b.Negate()
	return (t.start[a] < t.start[b] && t.end[b] <= t.end[a] && t.end[a] != 0) ||
		(t.start[nb] < t.start[na] && t.end[na] <= t.end[nb] && t.end[nb] != 0)
}

// dominatesRed is dominatesIrred over the full binary graph, learnt
// binaries included.
func (t *StampTable) dominatesRed(a, b Lit) bool {
	if int(a) >= len(t.startRed) || int(b) >= len(t.startRed) {
		return false
	}
	na, nb := a.Negate(), b.Negate()
	return (t.startRed[a] < t.startRed[b] && t.endRed[b] <= t.endRed[a] && t.endRed[a] != 0) ||
		(t.startRed[nb] < t.startRed[na] && t.endRed[na] <= t.endRed[nb] && t.endRed[nb] != 0)
}

// clear resets all intervals; they stay invalid until the next rebuild.
func (t *StampTable) clear() {
	for i := range t.start {
		t.start[i], t.end[i] = 0, 0
		t.startRed[i], t.endRed[i] = 0, 0
	}
	t.clock = 0
	t.valid = false
}

// rebuild recomputes both interval sets with an iterative DFS over the
// binary implication graph (an edge l -> m for every binary clause
// {¬l, m}). Run at decision level 0 once the epoch's binary additions
// and removals have settled.
func (t *StampTable) rebuild(s *Solver) {
	t.grow(s.vars.Len())
	t.clear()
	n := s.vars.Len() * 2
	t.dfsAll(s, n, false)
	t.dfsAll(s, n, true)
	t.valid = true
}

type stampFrame struct {
	l    Lit
	wIdx int
}

func (t *StampTable) dfsAll(s *Solver, n int, includeRed bool) {
	start, end := t.start, t.end
	if includeRed {
		start, end = t.startRed, t.endRed
	}
	for root := 0; root < n; root++ {
		if start[root] != 0 {
			continue
		}
		stack := []stampFrame{{l: Lit(root)}}
		t.clock++
		start[root] = t.clock
		for len(stack) > 0 {
			top := &stack[len(stack)-1]
			// Edges out of l: a Binary(other) watcher at watches[¬l]
			// encodes the clause {¬l, other}, whose implication form is
			// l -> other.
			list := s.watches.At(top.l.Negate())
			advanced := false
			for top.wIdx < len(list) {
				w := list[top.wIdx]
				top.wIdx++
				if w.Kind != watchBinary || (!includeRed && w.Red) {
					continue
				}
				next := w.Other
				if start[next] != 0 {
					continue
				}
				t.clock++
				start[next] = t.clock
				stack = append(stack, stampFrame{l: next})
				advanced = true
				break
			}
			if !advanced && top.wIdx >= len(list) {
				t.clock++
				end[top.l] = t.clock
				stack = stack[:len(stack)-1]
			}
		}
	}
}
