package sat

import "math/rand"

// vsidsHeuristic is the activity-based branching heuristic: variables
// touched by conflict analysis get their activity bumped, the increment
// inflates geometrically after every conflict (equivalent to decaying
// every score), and decisions pick the highest-activity unassigned
// variable off a max-heap.
type vsidsHeuristic struct {
	activity []float64
	inc      float64
	decay    float64
	decayMax float64

	order *varHeap

	randomFreq float64
	polarity   PolarityMode
}

func newVSIDSHeuristic(cfg Config) *vsidsHeuristic {
	return &vsidsHeuristic{
		inc:        cfg.VarIncStart,
		decay:      cfg.VarDecayStart,
		decayMax:   cfg.VarDecayMax,
		randomFreq: cfg.RandomVarFreq,
		polarity:   cfg.PolarityMode,
		order:      newVarHeap(),
	}
}

func (v *vsidsHeuristic) grow(n int) {
	for len(v.activity) < n {
		id := VarID(len(v.activity))
		v.activity = append(v.activity, 0)
		v.order.insert(id, 0)
	}
}

// bump increases a variable's activity, rescaling the whole table when
// the scores approach overflow.
func (v *vsidsHeuristic) bump(vr VarID) {
	v.activity[vr] += v.inc
	if v.activity[vr] > 1e100 {
		for i := range v.activity {
			v.activity[i] *= 1e-100
		}
		v.inc *= 1e-100
	}
	if v.order.inHeap(vr) {
		v.order.update(vr, v.activity[vr])
	}
}

func (v *vsidsHeuristic) bumpDecay() {
	v.inc /= v.decay
	if v.decay < v.decayMax {
		v.decay += 0.01
		if v.decay > v.decayMax {
			v.decay = v.decayMax
		}
	}
}

// pick selects the next decision variable: the highest-activity
// unassigned variable, with RandomVarFreq probability of an arbitrary
// unassigned variable instead.
func (v *vsidsHeuristic) pick(trail *Trail, rng *rand.Rand) (VarID, bool) {
	if v.randomFreq > 0 && rng.Float64() < v.randomFreq {
		if vr, ok := v.randomUnassigned(trail, rng); ok {
			return vr, true
		}
	}
	for !v.order.empty() {
		vr := v.order.peekMax()
		if trail.VarValue(vr) == LUndef && trail.Data(vr).Removed == RemovedNone {
			return vr, true
		}
		v.order.popMax()
	}
	return 0, false
}

func (v *vsidsHeuristic) randomUnassigned(trail *Trail, rng *rand.Rand) (VarID, bool) {
	n := len(v.activity)
	if n == 0 {
		return 0, false
	}
	start := VarID(rng.Intn(n))
	for i := 0; i < n; i++ {
		vr := VarID((int(start) + i) % n)
		if trail.VarValue(vr) == LUndef && trail.Data(vr).Removed == RemovedNone {
			return vr, true
		}
	}
	return 0, false
}

// decidePolarity chooses the sign for a freshly decided variable,
// returning true for the negated literal. In automatic mode it replays
// the saved phase: Polarity records the value the variable last held,
// so the literal to decide is the one that sets it back to that value.
func (v *vsidsHeuristic) decidePolarity(trail *Trail, vr VarID, rng *rand.Rand) bool {
	d := trail.Data(vr)
	switch v.polarity {
	case PolarityPositive:
		return false
	case PolarityNegative:
		return true
	case PolarityRandom:
		return rng.Intn(2) == 0
	default:
		return !d.Polarity
	}
}

// onUnassign restores activity-ordering membership for a variable
// returned to Undef by backtracking.
func (v *vsidsHeuristic) onUnassign(vr VarID) {
	if !v.order.inHeap(vr) {
		v.order.insert(vr, v.activity[vr])
	}
}

// varHeap is a binary max-heap over VarID keyed by activity, so each
// decision costs a peek plus however many stale (assigned) entries it
// pops, instead of a full re-sort.
type varHeap struct {
	heap []VarID
	pos  map[VarID]int
	act  map[VarID]float64
}

func newVarHeap() *varHeap {
	return &varHeap{pos: make(map[VarID]int), act: make(map[VarID]float64)}
}

func (h *varHeap) empty() bool { return len(h.heap) == 0 }

func (h *varHeap) inHeap(v VarID) bool {
	_, ok := h.pos[v]
	return ok
}

func (h *varHeap) insert(v VarID, activity float64) {
	h.act[v] = activity
	h.heap = append(h.heap, v)
	h.pos[v] = len(h.heap) - 1
	h.siftUp(len(h.heap) - 1)
}

func (h *varHeap) update(v VarID, activity float64) {
	h.act[v] = activity
	i, ok := h.pos[v]
	if !ok {
		h.insert(v, activity)
		return
	}
	h.siftUp(i)
	h.siftDown(i)
}

func (h *varHeap) peekMax() VarID { return h.heap[0] }

func (h *varHeap) popMax() VarID {
	top := h.heap[0]
	last := len(h.heap) - 1
	h.swap(0, last)
	h.heap = h.heap[:last]
	delete(h.pos, top)
	if len(h.heap) > 0 {
		h.siftDown(0)
	}
	return top
}

func (h *varHeap) swap(i, j int) {
	h.heap[i], h.heap[j] = h.heap[j], h.heap[i]
	h.pos[h.heap[i]] = i
	h.pos[h.heap[j]] = j
}

func (h *varHeap) siftUp(i int) {
	for i > 0 {
		parent := (i - 1) / 2
		if h.act[h.heap[parent]] >= h.act[h.heap[i]] {
			break
		}
		h.swap(i, parent)
		i = parent
	}
}

func (h *varHeap) siftDown(i int) {
	n := len(h.heap)
	for {
		l, r, largest := 2*i+1, 2*i+2, i
		if l < n && h.act[h.heap[l]] > h.act[h.heap[largest]] {
			largest = l
		}
		if r < n && h.act[h.heap[r]] > h.act[h.heap[largest]] {
			largest = r
		}
		if largest == i {
			return
		}
		h.swap(i, largest)
		i = largest
	}
}
