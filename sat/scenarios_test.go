package sat

import "testing"

// End-to-end scenarios over the public API: canonical small formulas
// with known outcomes, exercising the full search/in-processing stack.

// Scenario 1: {(1 2), (-1 2), (1 -2), (-1 -2)} -> Unsat with an empty
// conflict (no assumptions involved).
func TestScenario1TwoVarAllCombinationsUnsat(t *testing.T) {
	s := NewSolver()
	s.NewVar("x1")
	s.NewVar("x2")
	clauses := [][]Literal{
		{lit("x1", false), lit("x2", false)},
		{lit("x1", true), lit("x2", false)},
		{lit("x1", false), lit("x2", true)},
		{lit("x1", true), lit("x2", true)},
	}
	for _, c := range clauses {
		if err := s.AddClause(c); err != nil {
			t.Fatalf("AddClause error: %v", err)
		}
	}
	res := s.Solve(nil)
	if res.Satisfiable {
		t.Fatalf("expected Unsat, got model %v", res.Assignment)
	}
	if len(res.Conflict) != 0 {
		t.Errorf("expected an empty conflict with no assumptions, got %v", res.Conflict)
	}
}

// Scenario 2: the seven-clause formula whose only remaining assignment
// is x1=x2=x3=true.
func TestScenario2ThreeVarUniqueSatAssignment(t *testing.T) {
	s := NewSolver()
	for _, v := range []string{"x1", "x2", "x3"} {
		s.NewVar(v)
	}
	clauses := [][]Literal{
		{lit("x1", false), lit("x2", false), lit("x3", false)},
		{lit("x1", true), lit("x2", false), lit("x3", false)},
		{lit("x1", false), lit("x2", true), lit("x3", false)},
		{lit("x1", true), lit("x2", true), lit("x3", false)},
		{lit("x1", false), lit("x2", false), lit("x3", true)},
		{lit("x1", true), lit("x2", false), lit("x3", true)},
		{lit("x1", false), lit("x2", true), lit("x3", true)},
	}
	for _, c := range clauses {
		if err := s.AddClause(c); err != nil {
			t.Fatalf("AddClause error: %v", err)
		}
	}
	res := s.Solve(nil)
	if !res.Satisfiable {
		t.Fatalf("expected Sat")
	}
	if !res.Assignment["x1"] || !res.Assignment["x2"] || !res.Assignment["x3"] {
		t.Fatalf("expected x1=x2=x3=true, got %v", res.Assignment)
	}
	for _, c := range clauses {
		if !Satisfies(res.Assignment, c) {
			t.Errorf("model %v does not satisfy clause %v", res.Assignment, c)
		}
	}
}

// Scenario 3: pigeonhole PHP3 (4 pigeons, 3 holes) is unsatisfiable.
// p(i,j) true means pigeon i sits in hole j; every pigeon needs a hole
// and no hole may hold two pigeons.
func TestScenario3Pigeonhole4Into3Unsat(t *testing.T) {
	s := NewSolver()
	const pigeons, holes = 4, 3
	name := func(i, j int) string { return pigeonVar(i, j) }
	for i := 0; i < pigeons; i++ {
		for j := 0; j < holes; j++ {
			s.NewVar(name(i, j))
		}
	}
	// Every pigeon occupies at least one hole.
	for i := 0; i < pigeons; i++ {
		var c []Literal
		for j := 0; j < holes; j++ {
			c = append(c, lit(name(i, j), false))
		}
		if err := s.AddClause(c); err != nil {
			t.Fatalf("AddClause error: %v", err)
		}
	}
	// No hole holds two distinct pigeons.
	for j := 0; j < holes; j++ {
		for i1 := 0; i1 < pigeons; i1++ {
			for i2 := i1 + 1; i2 < pigeons; i2++ {
				if err := s.AddClause([]Literal{lit(name(i1, j), true), lit(name(i2, j), true)}); err != nil {
					t.Fatalf("AddClause error: %v", err)
				}
			}
		}
	}
	res := s.Solve(nil)
	if res.Satisfiable {
		t.Fatalf("expected pigeonhole PHP3 to be Unsat, got model %v", res.Assignment)
	}
}

func pigeonVar(i, j int) string {
	return "p" + itoa(i) + "_" + itoa(j)
}

func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	digits := []byte{}
	for n > 0 {
		digits = append([]byte{byte('0' + n%10)}, digits...)
		n /= 10
	}
	return string(digits)
}

// Scenario 4: the three-equation XOR cycle x1^x2=1, x2^x3=1, x3^x1=1 is
// unsatisfiable. Summing all three equations over GF(2) cancels every
// variable (each appears exactly twice) and leaves 0 = 1 on the
// right-hand side, a contradiction Gauss recovery should find directly.
func TestScenario4XORChainUnsat(t *testing.T) {
	s := NewSolver()
	for _, v := range []string{"x1", "x2", "x3"} {
		s.NewVar(v)
	}
	if err := s.AddXORClause([]string{"x1", "x2"}, true); err != nil {
		t.Fatalf("AddXORClause error: %v", err)
	}
	if err := s.AddXORClause([]string{"x2", "x3"}, true); err != nil {
		t.Fatalf("AddXORClause error: %v", err)
	}
	if err := s.AddXORClause([]string{"x3", "x1"}, true); err != nil {
		t.Fatalf("AddXORClause error: %v", err)
	}
	res := s.Solve(nil)
	if res.Satisfiable {
		t.Fatalf("expected the XOR chain to be Unsat, got model %v", res.Assignment)
	}
}

// Scenario 5: under assumptions {x1, -x1} with formula {(x2)}, Solve
// reports Unsat with conflict exactly {x1, -x1} after de-duplication.
func TestScenario5ContradictoryAssumptionsWithUnrelatedUnit(t *testing.T) {
	s := NewSolver()
	s.NewVar("x1")
	s.NewVar("x2")
	if err := s.AddClause([]Literal{lit("x2", false)}); err != nil {
		t.Fatalf("AddClause error: %v", err)
	}
	res := s.Solve([]Literal{lit("x1", false), lit("x1", true)})
	if res.Satisfiable {
		t.Fatalf("expected Unsat")
	}
	if len(res.Conflict) != 2 {
		t.Fatalf("expected exactly 2 literals in the conflict core, got %v", res.Conflict)
	}
	want := map[Literal]bool{lit("x1", false): true, lit("x1", true): true}
	for _, c := range res.Conflict {
		if !want[c] {
			t.Errorf("unexpected literal %v in conflict core", c)
		}
	}
}

// Scenario 6: cancellation under a tight conflict budget on a harder
// instance (PHP3 again) returns Unknown without corrupting solver
// state; a subsequent Solve with no budget limit on the same instance
// then resolves it definitively.
func TestScenario6CancellationThenResume(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MaxConfl = 1
	s := NewSolverWithConfig(cfg)
	const pigeons, holes = 4, 3
	name := func(i, j int) string { return pigeonVar(i, j) }
	for i := 0; i < pigeons; i++ {
		for j := 0; j < holes; j++ {
			s.NewVar(name(i, j))
		}
	}
	for i := 0; i < pigeons; i++ {
		var c []Literal
		for j := 0; j < holes; j++ {
			c = append(c, lit(name(i, j), false))
		}
		if err := s.AddClause(c); err != nil {
			t.Fatalf("AddClause error: %v", err)
		}
	}
	for j := 0; j < holes; j++ {
		for i1 := 0; i1 < pigeons; i1++ {
			for i2 := i1 + 1; i2 < pigeons; i2++ {
				if err := s.AddClause([]Literal{lit(name(i1, j), true), lit(name(i2, j), true)}); err != nil {
					t.Fatalf("AddClause error: %v", err)
				}
			}
		}
	}

	res := s.Solve(nil)
	if res.Error == nil || res.Satisfiable {
		t.Fatalf("expected an Unknown/interrupted-style result under a 1-conflict budget, got %+v", res)
	}
	if !s.Ok() {
		t.Fatalf("expected Ok() to remain true after a budget-exhausted (not root-unsat) result")
	}

	s.config.MaxConfl = 0
	res = s.Solve(nil)
	if res.Error != nil {
		t.Fatalf("expected the resumed, unbounded solve to finish cleanly, got error: %v", res.Error)
	}
	if res.Satisfiable {
		t.Fatalf("expected PHP3 to resolve to Unsat on resume, got model %v", res.Assignment)
	}
}
