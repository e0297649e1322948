package sat

import "testing"

// TestAddXORClauseShortFormExpandsToRegularClauses covers the size<=3
// XOR fast path: it must materialize as ordinary clauses usable by plain
// propagation, not only by the Gaussian engine.
func TestAddXORClauseShortFormExpandsToRegularClauses(t *testing.T) {
	s := NewSolver()
	for _, v := range []string{"x1", "x2"} {
		s.NewVar(v)
	}
	// x1 XOR x2 = true: exactly one of them holds.
	if err := s.AddXORClause([]string{"x1", "x2"}, true); err != nil {
		t.Fatalf("AddXORClause error: %v", err)
	}
	if err := s.AddClause([]Literal{lit("x1", false)}); err != nil {
		t.Fatalf("AddClause error: %v", err)
	}

	res := s.Solve(nil)
	if !res.Satisfiable {
		t.Fatalf("expected Sat")
	}
	if res.Assignment["x1"] == res.Assignment["x2"] {
		t.Errorf("expected x1 XOR x2 to hold, got x1=%v x2=%v", res.Assignment["x1"], res.Assignment["x2"])
	}
}

// TestAddXORClauseContradictionIsUnsat covers the degenerate 1-variable
// XOR: "x1 XOR = false" forces x1 false, contradicting a unit clause
// asserting x1 true.
func TestAddXORClauseContradictionIsUnsat(t *testing.T) {
	s := NewSolver()
	s.NewVar("x1")
	if err := s.AddClause([]Literal{lit("x1", false)}); err != nil {
		t.Fatalf("AddClause error: %v", err)
	}
	if err := s.AddXORClause([]string{"x1"}, false); err != nil {
		t.Fatalf("AddXORClause error: %v", err)
	}
	if s.Ok() {
		t.Fatalf("expected Ok() to be false once the XOR contradicts the unit clause")
	}
}

func TestDedupLitsCollapsesRuns(t *testing.T) {
	in := []Lit{MkLit(0, false), MkLit(0, false), MkLit(1, false), MkLit(2, false), MkLit(2, false)}
	out := dedupLits(in)
	if len(out) != 3 {
		t.Fatalf("expected 3 distinct literals, got %v", out)
	}
}

func TestTautologicalDetection(t *testing.T) {
	a := MkLit(0, false)
	if !tautological([]Lit{a, a.Negate()}) {
		t.Errorf("expected {a, ~a} to be tautological")
	}
	if tautological([]Lit{a, MkLit(1, false)}) {
		t.Errorf("expected {a, b} to not be tautological")
	}
}
