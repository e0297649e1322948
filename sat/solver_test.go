package sat

import (
	"testing"
)

func lit(name string, negated bool) Literal {
	return Literal{Variable: name, Negated: negated}
}

// TestEmptyFormulaIsSat covers the boundary case of a solver that has
// never been given a clause: it must report satisfiable with an empty
// model.
func TestEmptyFormulaIsSat(t *testing.T) {
	s := NewSolver()
	res := s.Solve(nil)
	if res.Error != nil {
		t.Fatalf("Solve error: %v", res.Error)
	}
	if !res.Satisfiable {
		t.Fatalf("expected empty formula to be satisfiable")
	}
	if len(res.Assignment) != 0 {
		t.Errorf("expected empty assignment, got %v", res.Assignment)
	}
}

// TestEmptyClauseIsUnsat covers adding the empty clause directly: the
// solver must become permanently unusable at the root.
func TestEmptyClauseIsUnsat(t *testing.T) {
	s := NewSolver()
	if err := s.AddClause(nil); err == nil {
		t.Fatalf("expected error adding the empty clause")
	}
	if s.Ok() {
		t.Fatalf("expected Ok() to be false after an empty clause")
	}
	res := s.Solve(nil)
	if res.Satisfiable {
		t.Fatalf("expected Unsat once Ok() is false")
	}
}

// TestUnitClauseEnqueuesAtLevelZero covers a single-literal clause: it
// must be reflected in the final model without ever becoming a decision.
func TestUnitClauseEnqueuesAtLevelZero(t *testing.T) {
	s := NewSolver()
	s.NewVar("x1")
	if err := s.AddClause([]Literal{lit("x1", false)}); err != nil {
		t.Fatalf("AddClause error: %v", err)
	}
	res := s.Solve(nil)
	if !res.Satisfiable {
		t.Fatalf("expected Sat")
	}
	if !res.Assignment["x1"] {
		t.Errorf("expected x1=true, got assignment %v", res.Assignment)
	}
}

// TestConflictingUnitsAreUnsat covers <x1>, <not x1>: the very first
// propagation must derive the empty clause.
func TestConflictingUnitsAreUnsat(t *testing.T) {
	s := NewSolver()
	s.NewVar("x1")
	if err := s.AddClause([]Literal{lit("x1", false)}); err != nil {
		t.Fatalf("AddClause error: %v", err)
	}
	if err := s.AddClause([]Literal{lit("x1", true)}); err != nil {
		t.Fatalf("AddClause error: %v", err)
	}
	if s.Ok() {
		t.Fatalf("expected Ok() to be false after conflicting units")
	}
	res := s.Solve(nil)
	if res.Satisfiable {
		t.Fatalf("expected Unsat")
	}
}

// TestAssumptionContradictingUnitClauseIsUnsat covers assuming L against
// a formula asserting not L: Solve must report Unsat with a final
// conflict containing L.
func TestAssumptionContradictingUnitClauseIsUnsat(t *testing.T) {
	s := NewSolver()
	s.NewVar("x1")
	if err := s.AddClause([]Literal{lit("x1", true)}); err != nil {
		t.Fatalf("AddClause error: %v", err)
	}
	res := s.Solve([]Literal{lit("x1", false)})
	if res.Satisfiable {
		t.Fatalf("expected Unsat")
	}
	if len(res.Conflict) == 0 {
		t.Fatalf("expected a non-empty final conflict")
	}
	found := false
	for _, c := range res.Conflict {
		if c.Equals(lit("x1", false)) {
			found = true
		}
	}
	if !found {
		t.Errorf("expected conflict to include the rejected assumption x1, got %v", res.Conflict)
	}
}

// TestDirectlyContradictoryAssumptions covers assuming {x1, not x1}
// against a formula with no clauses on x1 at all: the conflict core
// must be exactly the two assumptions.
func TestDirectlyContradictoryAssumptions(t *testing.T) {
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
	want := map[Literal]bool{lit("x1", false): true, lit("x1", true): true}
	if len(res.Conflict) != 2 {
		t.Fatalf("expected a 2-literal conflict core, got %v", res.Conflict)
	}
	for _, c := range res.Conflict {
		if !want[c] {
			t.Errorf("unexpected literal %v in conflict core %v", c, res.Conflict)
		}
	}
}

// TestTwoVariableUnsatSquare covers the classic four-clause
// unsatisfiable square over two variables: every combination of x1,x2
// falsifies one of the clauses.
func TestTwoVariableUnsatSquare(t *testing.T) {
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
}

// TestThreeVariableSatisfiableFormula covers a small formula whose
// unique-ish solution is x1=x2=x3=true, and checks the returned model
// actually satisfies every clause.
func TestThreeVariableSatisfiableFormula(t *testing.T) {
	s := NewSolver()
	for _, v := range []string{"x1", "x2", "x3"} {
		s.NewVar(v)
	}
	clauses := [][]Literal{
		{lit("x1", false), lit("x2", false)},
		{lit("x2", false), lit("x3", false)},
		{lit("x1", true), lit("x3", false)},
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
	for _, c := range clauses {
		if !Satisfies(res.Assignment, c) {
			t.Errorf("model %v does not satisfy clause %v", res.Assignment, c)
		}
	}
}

// TestSolveLoopHonorsInterrupt covers cancellation at the solveLoop
// level (Solve itself clears the interrupt flag on entry, since it's
// meant to be raised asynchronously mid-search by another goroutine):
// an interrupt requested before entering the loop makes it return
// Unknown immediately, while leaving Ok() and all solver state intact
// for a subsequent, uninterrupted solve of the same formula.
func TestSolveLoopHonorsInterrupt(t *testing.T) {
	s := NewSolver()
	s.NewVar("x1")
	if err := s.AddClause([]Literal{lit("x1", false)}); err != nil {
		t.Fatalf("AddClause error: %v", err)
	}

	s.Interrupt()
	if status := s.solveLoop(); status != Unknown {
		t.Fatalf("expected Unknown from an interrupted solveLoop, got %v", status)
	}
	if !s.Ok() {
		t.Fatalf("expected Ok() to remain true after an interrupted solve")
	}

	res := s.Solve(nil)
	if res.Error != nil {
		t.Fatalf("expected the resumed solve to complete, got error: %v", res.Error)
	}
	if !res.Satisfiable {
		t.Fatalf("expected Sat on the resumed solve")
	}
}

// TestAddClauseAfterSatStillWorks covers the incremental-solving
// contract: clauses can be added after a Sat/Unsat result and Solve can
// be called again.
func TestAddClauseAfterSatStillWorks(t *testing.T) {
	s := NewSolver()
	s.NewVar("x1")
	if err := s.AddClause([]Literal{lit("x1", false)}); err != nil {
		t.Fatalf("AddClause error: %v", err)
	}
	if res := s.Solve(nil); !res.Satisfiable {
		t.Fatalf("expected Sat on first solve")
	}
	if err := s.AddClause([]Literal{lit("x1", true)}); err != nil {
		t.Fatalf("AddClause error: %v", err)
	}
	res := s.Solve(nil)
	if res.Satisfiable {
		t.Fatalf("expected Unsat after adding a contradicting clause")
	}
}

// TestDuplicateAndTautologicalClausesAreHarmless covers clause-addition
// simplification: a tautological clause is dropped and a clause with
// repeated literals behaves as if deduplicated.
func TestDuplicateAndTautologicalClausesAreHarmless(t *testing.T) {
	s := NewSolver()
	s.NewVar("x1")
	s.NewVar("x2")
	if err := s.AddClause([]Literal{lit("x1", false), lit("x1", true), lit("x2", false)}); err != nil {
		t.Fatalf("AddClause (tautology) error: %v", err)
	}
	if err := s.AddClause([]Literal{lit("x1", false), lit("x1", false)}); err != nil {
		t.Fatalf("AddClause (duplicate literal) error: %v", err)
	}
	if !s.Ok() {
		t.Fatalf("expected Ok() to remain true")
	}
	res := s.Solve(nil)
	if !res.Satisfiable {
		t.Fatalf("expected Sat")
	}
	if !res.Assignment["x1"] {
		t.Errorf("expected x1=true from the unit clause, got %v", res.Assignment)
	}
}

func TestSatisfiesHelper(t *testing.T) {
	clause := []Literal{lit("x1", false), lit("x2", true)}
	cases := []struct {
		name   string
		assign Assignment
		want   bool
	}{
		{"positive literal true", Assignment{"x1": true}, true},
		{"negated literal false", Assignment{"x2": false}, true},
		{"neither assigned", Assignment{}, false},
		{"both assigned falsifying", Assignment{"x1": false, "x2": true}, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Satisfies(tc.assign, clause); got != tc.want {
				t.Errorf("Satisfies(%v, %v) = %v, want %v", tc.assign, clause, got, tc.want)
			}
		})
	}
}
