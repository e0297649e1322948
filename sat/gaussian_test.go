package sat

import "testing"

// TestGaussPropagateTracksLaterAssignments covers the interaction
// between a cached echelon form and assignments made after it was
// computed: a row's residual parity must reflect the trail as it is
// now, not as it was when the matrix was last reduced.
func TestGaussPropagateTracksLaterAssignments(t *testing.T) {
	s := NewSolver()
	s.NewVar("a")
	s.NewVar("b")
	va := mustVar(s, "a")
	vb := mustVar(s, "b")

	s.gauss.AddXOR(XORConstraint{Vars: []VarID{va, vb}, RHS: true})

	// Nothing assigned: two live columns, no units.
	if gr := s.gauss.Propagate(); gr.Conflict || len(gr.Units) != 0 {
		t.Fatalf("expected no propagation with both variables free, got %+v", gr)
	}

	// a=true arrives after the echelonization above: a^b=1 now forces
	// b=false.
	s.trail.Enqueue(MkLit(va, false), propByNull)
	gr := s.gauss.Propagate()
	if gr.Conflict {
		t.Fatalf("unexpected conflict")
	}
	if len(gr.Units) != 1 || gr.Units[0].Lit != MkLit(vb, true) {
		t.Fatalf("expected unit ¬b from a=true under a^b=1, got %v", gr.Units)
	}
}

// TestGaussPropagateDetectsConflict covers the zero-live-columns case:
// assignments that leave a row with odd residual parity are a
// contradiction.
func TestGaussPropagateDetectsConflict(t *testing.T) {
	s := NewSolver()
	s.NewVar("a")
	s.NewVar("b")
	va := mustVar(s, "a")
	vb := mustVar(s, "b")

	s.gauss.AddXOR(XORConstraint{Vars: []VarID{va, vb}, RHS: true})
	s.trail.Enqueue(MkLit(va, false), propByNull)
	s.trail.Enqueue(MkLit(vb, false), propByNull) // a=b=true, but a^b must be 1

	if gr := s.gauss.Propagate(); !gr.Conflict {
		t.Fatalf("expected a conflict from a=b=true under a^b=1")
	}
}

// TestGaussAddXORDeduplicates covers the Idx-watcher dedup path: the
// same constraint recovered twice must only occupy one matrix row.
func TestGaussAddXORDeduplicates(t *testing.T) {
	s := NewSolver()
	s.NewVar("a")
	s.NewVar("b")
	s.NewVar("c")
	va, vb, vc := mustVar(s, "a"), mustVar(s, "b"), mustVar(s, "c")

	xc := XORConstraint{Vars: []VarID{va, vb, vc}, RHS: true}
	s.gauss.AddXOR(xc)
	s.gauss.AddXOR(XORConstraint{Vars: []VarID{vc, va, vb}, RHS: true}) // same set, reordered
	if len(s.gauss.rows) != 1 {
		t.Fatalf("expected the reordered duplicate to be dropped, got %d rows", len(s.gauss.rows))
	}

	// Same variables but the opposite parity is a different constraint.
	s.gauss.AddXOR(XORConstraint{Vars: []VarID{va, vb, vc}, RHS: false})
	if len(s.gauss.rows) != 2 {
		t.Fatalf("expected the opposite-parity constraint to be kept, got %d rows", len(s.gauss.rows))
	}
}

// TestGaussPropagateEmitsBinaries covers rows reduced to exactly two
// free variables: the residual a^b relation must surface as the pair of
// binary clauses encoding it.
func TestGaussPropagateEmitsBinaries(t *testing.T) {
	s := NewSolver()
	for _, v := range []string{"a", "b", "c"} {
		s.NewVar(v)
	}
	va, vb, vc := mustVar(s, "a"), mustVar(s, "b"), mustVar(s, "c")
	s.gauss.AddXOR(XORConstraint{Vars: []VarID{va, vb, vc}, RHS: true})

	// c=false at the root leaves a^b=1: a and b must differ.
	s.trail.Enqueue(MkLit(vc, true), propByNull)
	gr := s.gauss.Propagate()
	if gr.Conflict || len(gr.Units) != 0 {
		t.Fatalf("expected only binaries, got %+v", gr)
	}
	if len(gr.Binaries) != 2 {
		t.Fatalf("expected the two clauses of a != b, got %v", gr.Binaries)
	}
	want := map[[2]Lit]bool{
		{MkLit(va, false), MkLit(vb, false)}: true,
		{MkLit(va, true), MkLit(vb, true)}:   true,
	}
	for _, bc := range gr.Binaries {
		if !want[bc] {
			t.Errorf("unexpected binary clause %v", bc)
		}
	}
}

// TestSolveRespectsNativeXORConstraint covers the search hook: a
// 4-variable XOR lives only in the matrix (no CNF expansion), so the
// model is parity-correct only if the matrix propagates during search,
// at whatever decision level the first three variables land on.
func TestSolveRespectsNativeXORConstraint(t *testing.T) {
	s := NewSolver()
	for _, v := range []string{"a", "b", "c", "d"} {
		s.NewVar(v)
	}
	if err := s.AddXORClause([]string{"a", "b", "c", "d"}, true); err != nil {
		t.Fatalf("AddXORClause error: %v", err)
	}
	res := s.Solve(nil)
	if !res.Satisfiable {
		t.Fatalf("expected Sat, got %+v", res)
	}
	parity := false
	for _, v := range []string{"a", "b", "c", "d"} {
		if res.Assignment[v] {
			parity = !parity
		}
	}
	if !parity {
		t.Fatalf("model %v violates a^b^c^d=1", res.Assignment)
	}
}

// TestSolveDetectsNativeXORConflict pins every variable of a native XOR
// to the wrong parity via unit clauses; only the matrix can notice.
func TestSolveDetectsNativeXORConflict(t *testing.T) {
	s := NewSolver()
	for _, v := range []string{"a", "b", "c", "d"} {
		s.NewVar(v)
	}
	if err := s.AddXORClause([]string{"a", "b", "c", "d"}, true); err != nil {
		t.Fatalf("AddXORClause error: %v", err)
	}
	for _, v := range []string{"a", "b", "c", "d"} {
		if err := s.AddClause([]Literal{lit(v, false)}); err != nil {
			t.Fatalf("AddClause error: %v", err)
		}
	}
	res := s.Solve(nil)
	if res.Satisfiable {
		t.Fatalf("expected Unsat from the violated XOR, got model %v", res.Assignment)
	}
}
