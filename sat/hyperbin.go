package sat

// Hyper-binary resolution and transitive reduction over probe
// propagations. With exactly one decision (the probed literal) active
// for the whole probe, that literal alone accounts for everything on
// the trail above it, so a literal x forced through a clause of size
// > 2 justifies synthesizing the binary {¬probed, x} even though the
// formula never stated it. The synthesized binary shortens implication
// chains for every later consumer of the binary graph: stamping, the
// implication cache, and conflict-clause minimization.
//
// The same propagation also exposes binaries that have become
// transitively redundant: a direct learnt binary {¬probed, x} whose
// literal x was in fact derived through some other antecedent first is
// implied by the rest of the graph and can be dropped.

// hyperBinaryResolve records a direct binary edge probed -> x for every
// literal x propagated during the probe through a clause of size > 2,
// and removes learnt binaries the probe proved transitively redundant.
func (p *Prober) hyperBinaryResolve(probed Lit, before int, res *ProbeResult, budget *workBudget) {
	s := p.s
	notProbed := probed.Negate()
	for i := before + 1; i < s.trail.Len(); i++ {
		if !budget.spend(1) {
			return
		}
		x := s.trail.At(i)
		r := s.trail.Data(x.Var()).Reason
		switch r.Kind {
		case propClause, propTernary:
			if p.findBinaryEdge(notProbed, x) != nil {
				continue
			}
			s.emitLearnt([]Lit{notProbed, x})
			s.watches.AttachBinary(notProbed, x, true)
			s.trail.Data(x.Var()).Reason = binaryReason(notProbed, true, true, false)
			s.stamps.valid = false
			res.BinariesAdded++

		case propBinary:
			// x arrived through a binary whose implying literal is not
			// the probed one: a direct learnt binary {¬probed, x}, if it
			// exists, never needed to fire and is transitively implied.
			if r.Ancestor == notProbed {
				continue
			}
			if w := p.findBinaryEdge(notProbed, x); w != nil && w.Red {
				s.watches.RemoveBinary(notProbed, x, true)
				s.watches.RemoveBinary(x, notProbed, true)
				s.emitDeleted([]Lit{notProbed, x})
				s.stamps.valid = false
				res.BinariesRemoved++
			}
		}
	}
}

// findBinaryEdge returns the Binary watcher for the clause {l, other}
// from l's list, or nil.
func (p *Prober) findBinaryEdge(l, other Lit) *Watcher {
	for i, wt := range p.s.watches.At(l) {
		if wt.Kind == watchBinary && wt.Other == other {
			return &p.s.watches.At(l)[i]
		}
	}
	return nil
}
