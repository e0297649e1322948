package sat

// VarTable is the variable renumberer. It owns the outer(name) /
// inner(VarID) mapping in both directions: the public API (NewVar,
// AddClause, the returned model) speaks in caller-chosen variable
// names; every performance-sensitive internal structure (watch store,
// activity table, stamps, implication cache) is indexed by the compact
// VarID it hands out.
//
// Renumber models compaction after elimination/replacement: it produces
// a new, dense VarID space skipping removed variables and returns the
// old->new and new->old maps so every other component can follow
// along.
type VarTable struct {
	nameToID map[string]VarID
	idToName []string
}

// NewVarTable creates an empty table.
func NewVarTable() *VarTable {
	return &VarTable{nameToID: make(map[string]VarID)}
}

// Intern returns the VarID for name, creating one if it hasn't been
// seen before. Variable creation is monotone; variables never die, they
// only change removed-state.
func (t *VarTable) Intern(name string) VarID {
	if id, ok := t.nameToID[name]; ok {
		return id
	}
	id := VarID(len(t.idToName))
	t.nameToID[name] = id
	t.idToName = append(t.idToName, name)
	return id
}

// Lookup returns the VarID for an already-known name without creating
// one.
func (t *VarTable) Lookup(name string) (VarID, bool) {
	id, ok := t.nameToID[name]
	return id, ok
}

// Name maps a VarID back to its outer name.
func (t *VarTable) Name(v VarID) string { return t.idToName[v] }

// Len reports how many variables have been interned.
func (t *VarTable) Len() int { return len(t.idToName) }

// ToOuter maps an internal literal to the public Literal form.
func (t *VarTable) ToOuter(l Lit) Literal {
	return Literal{Variable: t.Name(l.Var()), Negated: l.Sign()}
}

// ToInner maps a public Literal to its internal encoding, interning the
// variable if it is new.
func (t *VarTable) ToInner(l Literal) Lit {
	return MkLit(t.Intern(l.Variable), l.Negated)
}

// Renumbering is the result of compacting the VarID space: every live
// variable gets a new, dense id; removed variables map to -1.
type Renumbering struct {
	OldToNew []VarID // indexed by old VarID; -1 if the variable was dropped
	NewToOld []VarID // indexed by new VarID
}

// Renumber builds a compaction plan that keeps only the variables for
// which keep(v) is true, preserving relative order.
func Renumber(n int, keep func(VarID) bool) *Renumbering {
	r := &Renumbering{OldToNew: make([]VarID, n)}
	next := VarID(0)
	for v := VarID(0); v < VarID(n); v++ {
		if keep(v) {
			r.OldToNew[v] = next
			r.NewToOld = append(r.NewToOld, v)
			next++
		} else {
			r.OldToNew[v] = -1
		}
	}
	return r
}

// MapLit translates a literal through a renumbering, returning
// (LitError, false) if its variable was dropped.
func (r *Renumbering) MapLit(l Lit) (Lit, bool) {
	nv := r.OldToNew[l.Var()]
	if nv < 0 {
		return LitError, false
	}
	return MkLit(nv, l.Sign()), true
}
