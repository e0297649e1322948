package sat

import "testing"

func TestSubsumesDetectsSupersetClause(t *testing.T) {
	a, b, c, d, e := MkLit(0, false), MkLit(1, false), MkLit(2, false), MkLit(3, false), MkLit(4, false)
	small := newLongClause([]Lit{a, b, c, d}, false)
	big := newLongClause([]Lit{a, b, c, d, e}, false)

	if !subsumes(small, big) {
		t.Fatalf("expected small to subsume big")
	}
	if subsumes(big, small) {
		t.Fatalf("a strictly larger clause must never subsume a smaller one")
	}
}

func TestSubsumesRejectsNonSubset(t *testing.T) {
	a, b, c, d := MkLit(0, false), MkLit(1, false), MkLit(2, false), MkLit(3, false)
	small := newLongClause([]Lit{a, b, c.Negate(), d}, false)
	big := newLongClause([]Lit{a, b, c, d}, false)

	if subsumes(small, big) {
		t.Fatalf("expected small not to subsume big: they disagree on c's sign")
	}
}

func TestSelfSubsumingResolventFindsSingleFlippedLiteral(t *testing.T) {
	a, b, c, d, e := MkLit(0, false), MkLit(1, false), MkLit(2, false), MkLit(3, false), MkLit(4, false)
	small := newLongClause([]Lit{a, b, c, d.Negate()}, false)
	big := newLongClause([]Lit{a, b, c, d, e}, false)

	flip, ok := selfSubsumingResolvent(small, big)
	if !ok {
		t.Fatalf("expected a self-subsuming resolvent to be found")
	}
	if flip != d {
		t.Errorf("expected the flipped literal to be d, got %v", flip)
	}
}

func TestSelfSubsumingResolventRejectsMultipleFlips(t *testing.T) {
	a, b, c, d := MkLit(0, false), MkLit(1, false), MkLit(2, false), MkLit(3, false)
	small := newLongClause([]Lit{a, b.Negate(), c.Negate(), d}, false)
	big := newLongClause([]Lit{a, b, c, d}, false)

	if _, ok := selfSubsumingResolvent(small, big); ok {
		t.Fatalf("expected no resolvent when two literals disagree in sign")
	}
}

func TestSelfSubsumingResolventRejectsUnrelatedLiteral(t *testing.T) {
	a, b, c, x := MkLit(0, false), MkLit(1, false), MkLit(2, false), MkLit(9, false)
	small := newLongClause([]Lit{a, b, x}, false)
	big := newLongClause([]Lit{a, b, c}, false)

	if _, ok := selfSubsumingResolvent(small, big); ok {
		t.Fatalf("expected no resolvent when small has a literal absent from big entirely")
	}
}

func TestResolveOnMergesAndDedupes(t *testing.T) {
	v := VarID(0)
	a, b, c := MkLit(v, false), MkLit(1, false), MkLit(2, false)
	// a v b, resolved with ~a v b v c on pivot a -> b v c (deduped).
	resolvent, taut := resolveOn(v, []Lit{a, b}, []Lit{a.Negate(), b, c})
	if taut {
		t.Fatalf("expected a non-tautological resolvent")
	}
	seen := map[Lit]bool{}
	for _, l := range resolvent {
		seen[l] = true
	}
	if len(resolvent) != 2 || !seen[b] || !seen[c] {
		t.Fatalf("expected resolvent {b, c}, got %v", resolvent)
	}
}

func TestResolveOnDetectsTautology(t *testing.T) {
	v := VarID(0)
	a, b := MkLit(v, false), MkLit(1, false)
	// a v b, resolved with ~a v ~b on pivot a -> b v ~b, a tautology.
	_, taut := resolveOn(v, []Lit{a, b}, []Lit{a.Negate(), b.Negate()})
	if !taut {
		t.Fatalf("expected resolving on a also cancelling b/~b to be flagged a tautology")
	}
}

func TestTautologousResolventDetection(t *testing.T) {
	v := VarID(0)
	a, b := MkLit(v, false), MkLit(1, false)
	if !tautologousResolvent([]Lit{a, b}, []Lit{a.Negate(), b.Negate()}, a) {
		t.Errorf("expected resolving a v b against ~a v ~b on a to be a tautology")
	}
	if tautologousResolvent([]Lit{a, b}, []Lit{a.Negate(), b}, a) {
		t.Errorf("expected resolving a v b against ~a v b on a to not be a tautology")
	}
}
