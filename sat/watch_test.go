package sat

import "testing"

func TestAttachBinarySymmetric(t *testing.T) {
	w := NewWatchStore(4)
	a, b := MkLit(0, false), MkLit(1, true)
	w.AttachBinary(a, b, false)

	aList := w.At(a)
	if len(aList) != 1 || aList[0].Kind != watchBinary || aList[0].Other != b {
		t.Fatalf("expected a's list to hold one binary watcher pointing at b, got %+v", aList)
	}
	bList := w.At(b)
	if len(bList) != 1 || bList[0].Kind != watchBinary || bList[0].Other != a {
		t.Fatalf("expected b's list to hold one binary watcher pointing at a, got %+v", bList)
	}
}

func TestAttachTernaryOrdersPeers(t *testing.T) {
	w := NewWatchStore(4)
	a, b, c := MkLit(0, false), MkLit(2, false), MkLit(1, false)
	w.AttachTernary(a, b, c, true)

	for _, l := range []Lit{a, b, c} {
		list := w.At(l)
		if len(list) != 1 || list[0].Kind != watchTernary {
			t.Fatalf("expected exactly one ternary watcher on %v, got %+v", l, list)
		}
		if list[0].Lit2 >= list[0].Lit3 {
			t.Errorf("expected Lit2 < Lit3 ordering invariant, got Lit2=%v Lit3=%v", list[0].Lit2, list[0].Lit3)
		}
	}
}

func TestRemoveLongDropsOnlyMatchingOffset(t *testing.T) {
	w := NewWatchStore(4)
	l := MkLit(0, false)
	w.Add(l, longWatcher(1, MkLit(1, false), 0))
	w.Add(l, longWatcher(2, MkLit(1, false), 0))

	w.RemoveLong(l, 1)

	list := w.At(l)
	if len(list) != 1 || list[0].Offset != 2 {
		t.Fatalf("expected only offset 2 to remain, got %+v", list)
	}
}

func TestDropLongKeepsBinaryAndTernary(t *testing.T) {
	w := NewWatchStore(4)
	a, b, c := MkLit(0, false), MkLit(1, false), MkLit(2, false)
	w.AttachBinary(a, b, false)
	w.AttachTernary(a, b, c, false)
	w.Add(a, longWatcher(5, b, 0))

	w.DropLong()

	list := w.At(a)
	for _, wt := range list {
		if wt.Kind == watchLong {
			t.Fatalf("expected DropLong to remove every Long watcher, found one in %+v", list)
		}
	}
	if len(list) != 2 {
		t.Fatalf("expected binary and ternary watchers to survive DropLong, got %+v", list)
	}
}

func TestTruncateShrinksInPlace(t *testing.T) {
	w := NewWatchStore(4)
	l := MkLit(0, false)
	w.Add(l, binaryWatcher(MkLit(1, false), false))
	w.Add(l, binaryWatcher(MkLit(2, false), false))
	w.Add(l, binaryWatcher(MkLit(3, false), false))

	w.Truncate(l, 1)

	if got := len(w.At(l)); got != 1 {
		t.Fatalf("expected list truncated to 1 entry, got %d", got)
	}
}

func TestRemapOffsetsDropsUnmapped(t *testing.T) {
	w := NewWatchStore(4)
	l := MkLit(0, false)
	w.Add(l, longWatcher(1, MkLit(1, false), 0))
	w.Add(l, longWatcher(2, MkLit(1, false), 0))

	remap := func(off ClauseOffset) ClauseOffset {
		if off == 1 {
			return 10
		}
		return CLOffsetMax
	}
	w.RemapOffsets(remap)

	list := w.At(l)
	if len(list) != 1 || list[0].Offset != 10 {
		t.Fatalf("expected only the remapped offset 10 to survive, got %+v", list)
	}
}
