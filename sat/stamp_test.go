package sat

import "testing"

// TestStampDominatesAlongBinaryChain covers the DFS interval queries
// over a simple implication chain a -> b -> c built from the binary
// clauses {¬a,b} and {¬b,c}.
func TestStampDominatesAlongBinaryChain(t *testing.T) {
	s := NewSolver()
	for _, v := range []string{"a", "b", "c"} {
		s.NewVar(v)
	}
	la := s.internLit(lit("a", false))
	lb := s.internLit(lit("b", false))
	lc := s.internLit(lit("c", false))
	s.watches.AttachBinary(la.Negate(), lb, false) // {¬a, b}
	s.watches.AttachBinary(lb.Negate(), lc, false) // {¬b, c}

	s.stamps.rebuild(s)
	if !s.stamps.valid {
		t.Fatalf("expected stamps to be valid after rebuild")
	}

	cases := []struct {
		from, to Lit
		want     bool
	}{
		{la, lb, true},
		{la, lc, true},
		{lb, lc, true},
		{lc, la, false},
		{lb, la, false},
		// contrapositives run the other way
		{lc.Negate(), la.Negate(), true},
		{la.Negate(), lc.Negate(), false},
	}
	for _, tc := range cases {
		if got := s.stamps.dominatesIrred(tc.from, tc.to); got != tc.want {
			t.Errorf("dominatesIrred(%v, %v) = %v, want %v", tc.from, tc.to, got, tc.want)
		}
	}
}

// TestStampIgnoresRedundantBinariesInIrredSet checks that a learnt
// (redundant) binary contributes reachability only to the full-graph
// intervals, never the irredundant ones.
func TestStampIgnoresRedundantBinariesInIrredSet(t *testing.T) {
	s := NewSolver()
	s.NewVar("a")
	s.NewVar("b")
	la := s.internLit(lit("a", false))
	lb := s.internLit(lit("b", false))
	s.watches.AttachBinary(la.Negate(), lb, true) // learnt {¬a, b}

	s.stamps.rebuild(s)
	if s.stamps.dominatesIrred(la, lb) {
		t.Errorf("irredundant intervals must not see the learnt binary")
	}
	if !s.stamps.dominatesRed(la, lb) {
		t.Errorf("full-graph intervals should see the learnt binary")
	}
}
