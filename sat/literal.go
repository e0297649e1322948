package sat

import "fmt"

// VarID is the internal, compact identifier for a variable: 0..N-1.
// Callers never see a VarID directly; they see the Variable names that
// the renumberer (renumber.go) maps to and from VarIDs.
type VarID int32

// Lit is a signed literal encoded as 2*VarID + sign. Bit 0 is the sign
// bit: 0 = positive, 1 = negated.
// This encoding makes negation a single XOR and lets literals index
// directly into flat watch-list/stamp/cache arrays.
type Lit int32

const (
	// LitUndef is the "no literal" sentinel.
	LitUndef Lit = -1
	// LitError marks an invalid/out-of-range literal.
	LitError Lit = -2
)

// MkLit builds the literal for variable v with the given sign.
// negated=false yields the positive literal.
func MkLit(v VarID, negated bool) Lit {
	l := Lit(v) << 1
	if negated {
		l |= 1
	}
	return l
}

// Var extracts the variable a literal talks about.
func (l Lit) Var() VarID { return VarID(l >> 1) }

// Sign reports whether l is the negated literal of its variable.
func (l Lit) Sign() bool { return l&1 != 0 }

// Negate returns the complementary literal.
func (l Lit) Negate() Lit { return l ^ 1 }

// String renders a literal for debugging, e.g. "3" or "-3" (1-based,
// DIMACS-like, matching the convention the external parser uses).
func (l Lit) String() string {
	if l == LitUndef {
		return "undef"
	}
	if l.Sign() {
		return fmt.Sprintf("-%d", l.Var()+1)
	}
	return fmt.Sprintf("%d", l.Var()+1)
}

// TriValue is a three-valued truth value used throughout the engine:
// a variable is True, False, or not yet decided (Undef).
type TriValue uint8

const (
	LUndef TriValue = iota
	LTrue
	LFalse
)

// Inverse flips True/False and leaves Undef alone, for translating a
// variable's value into the truth of one of its literals.
func (t TriValue) Inverse() TriValue {
	switch t {
	case LTrue:
		return LFalse
	case LFalse:
		return LTrue
	default:
		return LUndef
	}
}

// boolToTri converts a plain Go bool into True/False.
func boolToTri(b bool) TriValue {
	if b {
		return LTrue
	}
	return LFalse
}

// litValue reports the truth value of literal l given the value of its
// variable: a negated literal flips the variable's value.
func litValue(varVal TriValue, l Lit) TriValue {
	if varVal == LUndef {
		return LUndef
	}
	if l.Sign() {
		return varVal.Inverse()
	}
	return varVal
}

// RemovedState records why a variable is no longer a free decision
// variable.
type RemovedState uint8

const (
	RemovedNone RemovedState = iota
	RemovedEliminated
	RemovedReplaced
	RemovedQueuedReplacer
	RemovedDecomposed
)

func (r RemovedState) String() string {
	switch r {
	case RemovedEliminated:
		return "eliminated"
	case RemovedReplaced:
		return "replaced"
	case RemovedQueuedReplacer:
		return "queued-replacer"
	case RemovedDecomposed:
		return "decomposed"
	default:
		return "none"
	}
}
