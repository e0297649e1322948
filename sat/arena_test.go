package sat

import "testing"

func TestClauseArenaAllocGet(t *testing.T) {
	a := NewClauseArena()
	c1 := newLongClause([]Lit{MkLit(0, false), MkLit(1, false), MkLit(2, false)}, false)
	off, err := a.Alloc(c1)
	if err != nil {
		t.Fatalf("Alloc error: %v", err)
	}
	if got := a.Get(off); got != c1 {
		t.Fatalf("expected Get to return the allocated clause")
	}
	if a.Len() != 1 {
		t.Fatalf("expected arena length 1, got %d", a.Len())
	}
}

func TestClauseArenaGetOutOfRange(t *testing.T) {
	a := NewClauseArena()
	if got := a.Get(CLOffsetMax); got != nil {
		t.Errorf("expected nil for the sentinel offset, got %v", got)
	}
	if got := a.Get(ClauseOffset(5)); got != nil {
		t.Errorf("expected nil for an offset past the end of the arena, got %v", got)
	}
}

func TestClauseArenaConsolidateCompactsAndRemaps(t *testing.T) {
	a := NewClauseArena()
	c1 := newLongClause([]Lit{MkLit(0, false), MkLit(1, false), MkLit(2, false)}, false)
	c2 := newLongClause([]Lit{MkLit(3, false), MkLit(4, false), MkLit(5, false)}, false)
	c3 := newLongClause([]Lit{MkLit(6, false), MkLit(7, false), MkLit(8, false)}, false)
	off1, _ := a.Alloc(c1)
	off2, _ := a.Alloc(c2)
	off3, _ := a.Alloc(c3)

	a.Free(off2)

	if a.Len() != 2 {
		t.Fatalf("expected 2 live clauses before consolidation, got %d", a.Len())
	}
	if !a.ShouldConsolidate(1.0, false) {
		t.Fatalf("expected a 2/3 live ratio to be below a 1.0 threshold")
	}

	remap := a.Consolidate()

	if got := remap(off1); a.Get(got) != c1 {
		t.Errorf("expected remapped off1 to still resolve to c1")
	}
	if got := remap(off3); a.Get(got) != c3 {
		t.Errorf("expected remapped off3 to still resolve to c3")
	}
	if got := remap(off2); got != CLOffsetMax {
		t.Errorf("expected the freed clause's offset to remap to the sentinel, got %v", got)
	}
	if a.Len() != 2 {
		t.Errorf("expected 2 live clauses after consolidation, got %d", a.Len())
	}
}

func TestClauseArenaConsolidateNoOpWhenNothingFreed(t *testing.T) {
	a := NewClauseArena()
	c1 := newLongClause([]Lit{MkLit(0, false), MkLit(1, false), MkLit(2, false)}, false)
	off1, _ := a.Alloc(c1)

	remap := a.Consolidate()
	if remap(off1) != off1 {
		t.Fatalf("expected the identity remap when nothing was freed")
	}
}

func TestClauseArenaAllIteratesLiveOnly(t *testing.T) {
	a := NewClauseArena()
	c1 := newLongClause([]Lit{MkLit(0, false), MkLit(1, false), MkLit(2, false)}, false)
	c2 := newLongClause([]Lit{MkLit(3, false), MkLit(4, false), MkLit(5, false)}, false)
	_, _ = a.Alloc(c1)
	off2, _ := a.Alloc(c2)
	a.Free(off2)

	var seen []*LongClause
	a.All(func(off ClauseOffset, c *LongClause) {
		seen = append(seen, c)
	})
	if len(seen) != 1 || seen[0] != c1 {
		t.Fatalf("expected All to visit only the live clause, got %v", seen)
	}
}
