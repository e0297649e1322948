package sat

// GaussEngine maintains the recovered XOR constraints as a row-reduced
// matrix over GF(2) and feeds derived facts back into the solver. The
// matrix is persistent: it is echelonized lazily (folding in only
// root-level assignments, which never unwind) and every query folds the
// trail's current assignments into each row's residual parity on the
// fly. That makes the engine callable at any decision level without
// per-level snapshots: a row that has collapsed to one free column
// yields the unit the current assignment forces, a fully assigned row
// with odd residue is a conflict, and a row down to two free columns
// yields the equivalence (or anti-equivalence) of those two variables
// as a pair of binary clauses.
type GaussEngine struct {
	s *Solver

	rows  []xorRow
	colOf map[VarID]int
	varOf []VarID

	// sigs[i] is the canonical variable-set+parity signature of the
	// constraint behind rows[i] as originally added, backing the Idx
	// watcher deduplication below.
	sigs []string

	echelonValid bool
}

// xorRow is one row of the augmented matrix: the set of variable
// columns with a 1 bit, plus the RHS parity.
type xorRow struct {
	cols []int // column indices with coefficient 1, in no particular order
	rhs  bool
}

func newGaussEngine(s *Solver) *GaussEngine {
	return &GaussEngine{s: s, colOf: make(map[VarID]int)}
}

// AddXOR inserts a recovered XOR constraint into the matrix, unless an
// identical constraint is already attached. Deduplication goes through
// Idx watchers: each attached constraint leaves an Idx entry on its
// smallest variable's positive literal, so a re-recovered constraint is
// recognized with one watch-list scan instead of a search over every
// row. Echelon form is invalidated and recomputed lazily on the next
// Propagate.
func (g *GaussEngine) AddXOR(xc XORConstraint) {
	if len(xc.Vars) == 0 {
		if xc.RHS {
			g.rows = append(g.rows, xorRow{rhs: true})
			g.sigs = append(g.sigs, "")
			g.echelonValid = false
		}
		return
	}
	sig := xorSignature(xc)
	anchor := xc.Vars[0]
	for _, v := range xc.Vars[1:] {
		if v < anchor {
			anchor = v
		}
	}
	anchorLit := MkLit(anchor, false)
	for _, w := range g.s.watches.At(anchorLit) {
		if w.Kind == watchIdx && w.XorIndex < len(g.sigs) && g.sigs[w.XorIndex] == sig {
			return
		}
	}

	row := xorRow{rhs: xc.RHS}
	for _, v := range xc.Vars {
		row.cols = append(row.cols, g.column(v))
	}
	g.s.watches.Add(anchorLit, Watcher{Kind: watchIdx, XorIndex: len(g.rows)})
	g.rows = append(g.rows, row)
	g.sigs = append(g.sigs, sig)
	g.echelonValid = false
}

// xorSignature renders a constraint's sorted variable set and parity
// into a comparable key.
func xorSignature(xc XORConstraint) string {
	vars := append([]VarID(nil), xc.Vars...)
	for i := 1; i < len(vars); i++ {
		for j := i; j > 0 && vars[j] < vars[j-1]; j-- {
			vars[j], vars[j-1] = vars[j-1], vars[j]
		}
	}
	key := make([]byte, 0, len(vars)*4+1)
	for _, v := range vars {
		key = append(key, byte(v), byte(v>>8), byte(v>>16), ',')
	}
	if xc.RHS {
		key = append(key, '1')
	}
	return string(key)
}

func (g *GaussEngine) column(v VarID) int {
	if c, ok := g.colOf[v]; ok {
		return c
	}
	c := len(g.varOf)
	g.colOf[v] = c
	g.varOf = append(g.varOf, v)
	return c
}

// echelonize row-reduces the matrix via Gauss-Jordan elimination over
// GF(2). Only root-level assignments are folded in as fixed columns:
// they are permanent, whereas a decision-level assignment baked into a
// row here would survive the backtrack that undoes it and corrupt every
// later query.
func (g *GaussEngine) echelonize() {
	rows := make([]xorRow, len(g.rows))
	copy(rows, g.rows)

	for _, v := range g.varOf {
		val := g.s.trail.VarValue(v)
		if val == LUndef || g.s.trail.Data(v).Level != 0 {
			continue
		}
		col := g.colOf[v]
		for i := range rows {
			if containsCol(rows[i].cols, col) {
				rows[i].cols = removeCol(rows[i].cols, col)
				if val == LTrue {
					rows[i].rhs = !rows[i].rhs
				}
			}
		}
	}

	pivotRow := 0
	for col := 0; col < len(g.varOf) && pivotRow < len(rows); col++ {
		sel := -1
		for r := pivotRow; r < len(rows); r++ {
			if containsCol(rows[r].cols, col) {
				sel = r
				break
			}
		}
		if sel == -1 {
			continue
		}
		rows[pivotRow], rows[sel] = rows[sel], rows[pivotRow]
		for r := 0; r < len(rows); r++ {
			if r != pivotRow && containsCol(rows[r].cols, col) {
				rows[r] = xorRowAdd(rows[r], rows[pivotRow])
			}
		}
		pivotRow++
	}

	g.rows = rows
	g.echelonValid = true
}

// gaussUnit is one literal forced by the matrix, together with the row
// that forces it, so the caller can materialize a reason clause.
type gaussUnit struct {
	Lit Lit
	Row int
}

// GaussResult reports what the matrix derives under the current trail:
// forced units, a falsified row, and the implied binary clauses of rows
// reduced to exactly two free variables. Binaries are conditional on
// every assignment folded into their row, so callers may only attach
// them when those assignments are permanent (decision level 0).
type GaussResult struct {
	Units       []gaussUnit
	Binaries    [][2]Lit
	Conflict    bool
	ConflictRow int
}

// HasRows reports whether any XOR constraints are attached.
func (g *GaussEngine) HasRows() bool { return len(g.rows) > 0 }

// Propagate echelonizes if needed and classifies every row by its count
// of unassigned columns: zero with odd residual parity is a conflict,
// one is a forced unit, two is an implied (anti-)equivalence emitted as
// binary clauses. The residual parity folds in the values of the row's
// already-assigned variables, which may have changed since the last
// echelonization.
func (g *GaussEngine) Propagate() GaussResult {
	if !g.echelonValid {
		g.echelonize()
	}
	res := GaussResult{ConflictRow: -1}
	for i, row := range g.rows {
		rhs := row.rhs
		live := row.cols[:0:0]
		for _, c := range row.cols {
			switch g.s.trail.VarValue(g.varOf[c]) {
			case LUndef:
				live = append(live, c)
			case LTrue:
				rhs = !rhs
			}
		}
		switch len(live) {
		case 0:
			if rhs {
				res.Conflict = true
				res.ConflictRow = i
				return res
			}
		case 1:
			v := g.varOf[live[0]]
			res.Units = append(res.Units, gaussUnit{Lit: MkLit(v, !rhs), Row: i})
		case 2:
			a, b := g.varOf[live[0]], g.varOf[live[1]]
			if rhs {
				// a ^ b = 1: the variables differ.
				res.Binaries = append(res.Binaries,
					[2]Lit{MkLit(a, false), MkLit(b, false)},
					[2]Lit{MkLit(a, true), MkLit(b, true)})
			} else {
				// a ^ b = 0: the variables agree.
				res.Binaries = append(res.Binaries,
					[2]Lit{MkLit(a, true), MkLit(b, false)},
					[2]Lit{MkLit(a, false), MkLit(b, true)})
			}
		}
	}
	return res
}

// clauseForUnit materializes the CNF clause through which row forces u:
// u disjoined with the negations of the row's currently assigned
// literals. Every literal but u is false on the trail right now, which
// is exactly the shape an enqueue reason needs.
func (g *GaussEngine) clauseForUnit(row int, u Lit) []Lit {
	return g.appendAssignedNegations([]Lit{u}, row)
}

// clauseForConflict materializes the clause a falsified row violates:
// the negations of the row's assigned literals, all currently false.
func (g *GaussEngine) clauseForConflict(row int) []Lit {
	return g.appendAssignedNegations(nil, row)
}

func (g *GaussEngine) appendAssignedNegations(lits []Lit, row int) []Lit {
	for _, c := range g.rows[row].cols {
		v := g.varOf[c]
		switch g.s.trail.VarValue(v) {
		case LTrue:
			lits = append(lits, MkLit(v, true))
		case LFalse:
			lits = append(lits, MkLit(v, false))
		}
	}
	return lits
}

func containsCol(cols []int, col int) bool {
	for _, c := range cols {
		if c == col {
			return true
		}
	}
	return false
}

func removeCol(cols []int, col int) []int {
	out := cols[:0]
	for _, c := range cols {
		if c != col {
			out = append(out, c)
		}
	}
	return out
}

// xorRowAdd computes the GF(2) sum (symmetric difference of columns,
// XOR of RHS) of two rows.
func xorRowAdd(a, b xorRow) xorRow {
	set := make(map[int]bool, len(a.cols)+len(b.cols))
	for _, c := range a.cols {
		set[c] = true
	}
	for _, c := range b.cols {
		set[c] = !set[c]
	}
	var cols []int
	for c, v := range set {
		if v {
			cols = append(cols, c)
		}
	}
	return xorRow{cols: cols, rhs: a.rhs != b.rhs}
}
