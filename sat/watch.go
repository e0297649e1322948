package sat

// watchKind tags which variant of Watcher is live. The fast path in
// propagate dispatches on this with a small switch; watchers are plain
// values, never interfaces, so no indirect call happens per entry.
type watchKind uint8

const (
	watchBinary watchKind = iota
	watchTernary
	watchLong
	watchIdx // used only inside XOR recovery (xorfinder.go)
)

// Watcher is the tagged union over {Binary, Ternary, Long, Idx}.
// Binary and ternary clauses live only in watch lists (no arena entry);
// long clauses are addressed by ClauseOffset.
type Watcher struct {
	Kind watchKind

	// Binary / Ternary
	Other Lit // Binary: the other literal of the pair
	Lit2  Lit // Ternary: second peer (Lit2 < Lit3)
	Lit3  Lit // Ternary: third peer
	Red   bool

	// Long
	Offset      ClauseOffset
	Blocker     Lit
	Abstraction uint64

	// Idx (XOR dedup only)
	XorIndex int
}

func binaryWatcher(other Lit, red bool) Watcher {
	return Watcher{Kind: watchBinary, Other: other, Red: red}
}

func ternaryWatcher(a, b Lit, red bool) Watcher {
	if b < a {
		a, b = b, a
	}
	return Watcher{Kind: watchTernary, Lit2: a, Lit3: b, Red: red}
}

func longWatcher(off ClauseOffset, blocker Lit, abstraction uint64) Watcher {
	return Watcher{Kind: watchLong, Offset: off, Blocker: blocker, Abstraction: abstraction}
}

// WatchStore holds, per literal, the ordered sequence of Watchers that
// must be examined when that literal's negation becomes true. Entries
// are kept in insertion order; Smudge/Clean implement lazy removal of
// entries whose backing clause has been freed.
type WatchStore struct {
	lists [][]Watcher
	dirty []bool
}

// NewWatchStore allocates a watch store sized for nvars variables (each
// variable contributes two literals).
func NewWatchStore(nvars int) *WatchStore {
	n := nvars * 2
	return &WatchStore{lists: make([][]Watcher, n), dirty: make([]bool, n)}
}

// Grow extends the store to cover newly introduced variables.
func (w *WatchStore) Grow(nvars int) {
	n := nvars * 2
	for len(w.lists) < n {
		w.lists = append(w.lists, nil)
		w.dirty = append(w.dirty, false)
	}
}

func idx(l Lit) int { return int(l) }

// At returns the watcher list for literal l. Callers must not retain the
// slice across a Clean call on the same literal.
func (w *WatchStore) At(l Lit) []Watcher { return w.lists[idx(l)] }

// Add appends a watcher to l's list.
func (w *WatchStore) Add(l Lit, wt Watcher) {
	w.lists[idx(l)] = append(w.lists[idx(l)], wt)
}

// Smudge marks a literal's list as needing compaction; used when a
// long-clause watcher's backing clause is freed but the entry itself is
// left in place for cheap batch removal later.
func (w *WatchStore) Smudge(l Lit) { w.dirty[idx(l)] = true }

// Clean compacts every smudged literal's list, dropping watchers whose
// long clause has been freed.
func (w *WatchStore) Clean(arena *ClauseArena) {
	for i, d := range w.dirty {
		if !d {
			continue
		}
		list := w.lists[i]
		kept := list[:0]
		for _, wt := range list {
			if wt.Kind == watchLong {
				c := arena.Get(wt.Offset)
				if c == nil || c.Freed || c.Removed {
					continue
				}
			}
			kept = append(kept, wt)
		}
		w.lists[i] = kept
		w.dirty[i] = false
	}
}

// Truncate shrinks l's list to its first n entries, used by propagate's
// in-place compaction once a literal's watchers have all been
// re-examined (or a conflict cut the scan short).
func (w *WatchStore) Truncate(l Lit, n int) {
	w.lists[idx(l)] = w.lists[idx(l)][:n]
}

// DropLong strips every Long watcher from every list in place, leaving
// Binary/Ternary watchers untouched. Used by rebuildWatches: binary and
// ternary clauses live only in the watch store and must survive a full
// detach/reattach of the Long watchers, which are the only variant
// addressed by a (remappable) ClauseOffset.
func (w *WatchStore) DropLong() {
	for i, list := range w.lists {
		kept := list[:0]
		for _, wt := range list {
			if wt.Kind != watchLong {
				kept = append(kept, wt)
			}
		}
		w.lists[i] = kept
	}
}

// RemoveLong deletes the single Long watcher referencing off from l's
// list, used when rewiring a watch during propagation or detaching a
// clause explicitly (rather than via smudge/clean).
func (w *WatchStore) RemoveLong(l Lit, off ClauseOffset) {
	list := w.lists[idx(l)]
	for i, wt := range list {
		if wt.Kind == watchLong && wt.Offset == off {
			list[i] = list[len(list)-1]
			w.lists[idx(l)] = list[:len(list)-1]
			return
		}
	}
}

// RemoveBinary deletes the Binary watcher {other,red} from l's list.
func (w *WatchStore) RemoveBinary(l Lit, other Lit, red bool) bool {
	list := w.lists[idx(l)]
	for i, wt := range list {
		if wt.Kind == watchBinary && wt.Other == other && wt.Red == red {
			list[i] = list[len(list)-1]
			w.lists[idx(l)] = list[:len(list)-1]
			return true
		}
	}
	return false
}

// RemoveTernary detaches the ternary clause {a,b,c} from all three
// endpoints' lists.
func (w *WatchStore) RemoveTernary(a, b, c Lit, red bool) {
	w.removeTernaryAt(a, b, c, red)
	w.removeTernaryAt(b, a, c, red)
	w.removeTernaryAt(c, a, b, red)
}

func (w *WatchStore) removeTernaryAt(l, p1, p2 Lit, red bool) {
	if p2 < p1 {
		p1, p2 = p2, p1
	}
	list := w.lists[idx(l)]
	for i, wt := range list {
		if wt.Kind == watchTernary && wt.Lit2 == p1 && wt.Lit3 == p2 && wt.Red == red {
			list[i] = list[len(list)-1]
			w.lists[idx(l)] = list[:len(list)-1]
			return
		}
	}
}

// RemapOffsets rewrites every Long watcher's offset after a consolidate.
func (w *WatchStore) RemapOffsets(remap RemapFunc) {
	for i := range w.lists {
		list := w.lists[i]
		dst := list[:0]
		for _, wt := range list {
			if wt.Kind == watchLong {
				wt.Offset = remap(wt.Offset)
				if wt.Offset == CLOffsetMax {
					continue
				}
			}
			dst = append(dst, wt)
		}
		w.lists[i] = dst
	}
}

// AttachBinary wires a binary clause {a,b} into both endpoints' watch
// lists, maintaining the invariant that a Binary(other,red) watcher at
// watches[l] has a matching Binary(l,red) watcher at watches[other].
func (w *WatchStore) AttachBinary(a, b Lit, red bool) {
	w.Add(a, binaryWatcher(b, red))
	w.Add(b, binaryWatcher(a, red))
}

// AttachTernary wires a ternary clause {a,b,c} into all three watch
// lists.
func (w *WatchStore) AttachTernary(a, b, c Lit, red bool) {
	w.Add(a, ternaryWatcher(b, c, red))
	w.Add(b, ternaryWatcher(a, c, red))
	w.Add(c, ternaryWatcher(a, b, red))
}

// AttachLong wires a long clause's two watches (lits[0], lits[1]).
func (w *WatchStore) AttachLong(off ClauseOffset, lits []Lit) {
	w.Add(lits[0], longWatcher(off, lits[1], abstractionOf(lits)))
	w.Add(lits[1], longWatcher(off, lits[0], abstractionOf(lits)))
}
