package sat

// sccFinder runs Tarjan's SCC algorithm over the binary implication
// graph (an edge l -> m for every binary clause {¬l, m}) and returns
// groups of literals forced equal by the formula's binary skeleton:
// literals in one strongly connected component imply each other in a
// cycle, so they must share a truth value.
type sccFinder struct {
	s *Solver

	index   []int
	lowlink []int
	onStack []bool
	stack   []Lit
	indexCt int

	groups [][]Lit
}

func newSCCFinder(s *Solver) *sccFinder { return &sccFinder{s: s} }

// Run performs a full pass over all literals and returns, for every
// nontrivial SCC, the list of literals it contains. A literal and its
// negation appearing in the same SCC signals UNSAT (handled by the
// caller).
func (f *sccFinder) run() [][]Lit {
	n := f.s.vars.Len() * 2
	f.index = make([]int, n)
	f.lowlink = make([]int, n)
	f.onStack = f.s.pool.GetBools(n)
	for i := range f.index {
		f.index[i] = -1
	}
	f.groups = nil

	for l := 0; l < n; l++ {
		if f.index[l] == -1 {
			f.strongConnect(Lit(l))
		}
	}
	f.s.pool.PutBools(f.onStack)
	f.onStack = nil
	return f.groups
}

type sccFrame struct {
	v      Lit
	wIdx   int
	watchList []Watcher
}

// strongConnect is Tarjan's algorithm with an explicit work stack in
// place of recursion, since the binary graph can be large enough to
// overflow a recursive call stack on pathological inputs.
func (f *sccFinder) strongConnect(start Lit) {
	var work []sccFrame
	f.push(start)
	work = append(work, sccFrame{v: start, watchList: f.neighbors(start)})

	for len(work) > 0 {
		top := &work[len(work)-1]
		if top.wIdx < len(top.watchList) {
			w := top.watchList[top.wIdx]
			top.wIdx++
			if w.Kind != watchBinary {
				continue
			}
			next := w.Other
			if f.index[next] == -1 {
				f.push(next)
				work = append(work, sccFrame{v: next, watchList: f.neighbors(next)})
			} else if f.onStack[next] {
				if f.lowlink[top.v] > f.index[next] {
					f.lowlink[top.v] = f.index[next]
				}
			}
			continue
		}

		// children exhausted, pop and propagate lowlink to parent
		work = work[:len(work)-1]
		if len(work) > 0 {
			parent := &work[len(work)-1]
			if f.lowlink[parent.v] > f.lowlink[top.v] {
				f.lowlink[parent.v] = f.lowlink[top.v]
			}
		}
		if f.lowlink[top.v] == f.index[top.v] {
			var group []Lit
			for {
				l := f.stack[len(f.stack)-1]
				f.stack = f.stack[:len(f.stack)-1]
				f.onStack[l] = false
				group = append(group, l)
				if l == top.v {
					break
				}
			}
			if len(group) > 1 {
				f.groups = append(f.groups, group)
			}
		}
	}
}

func (f *sccFinder) push(l Lit) {
	f.index[l] = f.indexCt
	f.lowlink[l] = f.indexCt
	f.indexCt++
	f.stack = append(f.stack, l)
	f.onStack[l] = true
}

// neighbors returns l's binary-implication targets: a Binary(other)
// watcher at watches[¬l] encodes the clause {¬l, other}, whose
// implication form is the edge l -> other.
func (f *sccFinder) neighbors(l Lit) []Watcher {
	return f.s.watches.At(l.Negate())
}
