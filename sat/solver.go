package sat

import (
	"math/rand"
	"sync/atomic"
	"time"

	"github.com/xdarkicex/cdclsat/core"
)

// Solver is the top-level orchestrator and the package's single entry
// point: NewVar / AddClause / AddXORClause / Solve. It owns every
// component by value and hands them references to the shared trail,
// watch store, and arena; components never talk to each other except
// through the Solver.
type Solver struct {
	vars    *VarTable
	trail   *Trail
	watches *WatchStore
	arena   *ClauseArena

	binClauses int // number of irredundant binaries, for sizing heuristics
	terClauses int

	// Long clause indices, by offset, split by redundancy so the
	// cleaner only ever has to walk the redundant half.
	irredundant []ClauseOffset
	redundant   []ClauseOffset

	config Config
	rng    *rand.Rand
	stats  SolverStatistics

	heuristic *vsidsHeuristic
	restart   *RestartController
	cleaner   *Cleaner
	analyzer  *ConflictAnalyzer
	cache     ImplicationCache
	stamps    *StampTable
	replacer  *VarReplacer
	prober    *Prober
	vivifier  *Vivifier
	occur     *OccurrenceSimplifier
	varElim   *VariableEliminator
	blocked   *BlockedClauseEliminator
	gates     *GateFinder
	xors      *XORFinder
	gauss     *GaussEngine
	comps     *ComponentDetector
	proof     ProofSink
	shared    *SharedData

	assumptions              []Lit
	assumpOuter              map[Lit]Literal // canonical assumption -> the outer form the caller passed
	decisionLevelAssumptions int
	finalConflictLits        []Lit // set whenever a conflict lands at or below the assumption levels

	okLevel0 bool // false once an empty clause / level-0 conflict is seen

	interruptFlag int32 // polled via atomic; see Interrupt()

	conflicts int64
	startTime time.Time

	// hyper-binary propagation and cache maintenance disable themselves
	// globally after their first budget exhaustion; neither pays for
	// itself on instances where it keeps timing out.
	hyperBinDisabled bool
	cacheDisabled    bool

	// per-variable literal occurrence counts in the irredundant input,
	// used once to seed initial decision polarities.
	posOcc, negOcc []int32
	polaritySeeded bool

	// scratch buffers shared by every pass; each pass that dirties one
	// clears it before returning.
	pool *ScratchPool

	// removalLog is the chronological history of everything the
	// simplifiers removed from the live formula: variables eliminated by
	// resolution (with the clauses they took along), variables retired
	// by equivalence replacement (with their representative), and
	// clauses dropped by blocked-clause elimination (with their blocking
	// literal). solutionExtender.Extend replays the log once, in reverse
	// order, as a single interleaved sequence; the interleaving matters
	// because a clause snapshot frozen at elimination time can mention a
	// variable that is only replaced in a later epoch, and its value must
	// be restored before the snapshot is evaluated. The log persists on
	// the Solver because removals accumulate across many epochs before
	// the Solve call that needs them.
	removalLog []removalEvent
}

// removalKind tags what a removalEvent undid.
type removalKind uint8

const (
	removalEliminated removalKind = iota
	removalReplaced
	removalBlocked
)

// removalEvent is one entry of the removal history.
type removalEvent struct {
	kind removalKind

	v       VarID   // eliminated/replaced: the retired variable
	clauses [][]Lit // eliminated: its removed clauses; blocked: the one removed clause
	repr    Lit     // replaced: what v's positive polarity now means
	blocked Lit     // blocked: the blocking literal
}

// recordElimination saves the clauses removed when v was eliminated by
// resolution, so solutionExtender.Extend can replay them later and pick
// a value for v consistent with the rest of the model.
func (s *Solver) recordElimination(v VarID, clauses [][]Lit) {
	s.removalLog = append(s.removalLog, removalEvent{kind: removalEliminated, v: v, clauses: clauses})
}

// recordReplaced saves that v was retired in favor of repr (the literal
// v's positive polarity now means), so extension can copy the value
// back.
func (s *Solver) recordReplaced(v VarID, repr Lit) {
	s.removalLog = append(s.removalLog, removalEvent{kind: removalReplaced, v: v, repr: repr})
}

// recordBlocked saves a clause removed by blocked-clause elimination
// along with the literal it was blocked on.
func (s *Solver) recordBlocked(l Lit, lits []Lit) {
	s.removalLog = append(s.removalLog, removalEvent{kind: removalBlocked, blocked: l, clauses: [][]Lit{lits}})
}

// NewSolver creates a ready-to-use solver with default configuration.
func NewSolver() *Solver {
	return NewSolverWithConfig(DefaultConfig())
}

// NewSolverWithConfig creates a solver with explicit configuration.
func NewSolverWithConfig(cfg Config) *Solver {
	s := &Solver{
		vars:     NewVarTable(),
		trail:    NewTrail(0),
		watches:  NewWatchStore(0),
		arena:    NewClauseArena(),
		config:   cfg,
		rng:      rand.New(rand.NewSource(cfg.Seed)),
		okLevel0: true,
		cache:    newImplicationCache(),
		stamps:   newStampTable(),
		pool:     newScratchPool(),
	}
	s.heuristic = newVSIDSHeuristic(cfg)
	s.restart = newRestartController(cfg)
	s.cleaner = newCleaner(cfg)
	s.analyzer = newConflictAnalyzer(s)
	s.replacer = newVarReplacer()
	s.prober = newProber(s)
	s.vivifier = newVivifier(s)
	s.occur = newOccurrenceSimplifier(s)
	s.varElim = newVariableEliminator(s)
	s.blocked = newBlockedClauseEliminator(s)
	s.gates = newGateFinder(s)
	s.xors = newXORFinder(s)
	s.gauss = newGaussEngine(s)
	s.comps = newComponentDetector(s)
	return s
}

// NVars reports the number of variables introduced so far.
func (s *Solver) NVars() int { return s.vars.Len() }

// NewVar introduces a new Boolean variable under the given name.
// Variables are monotone: once created they never disappear, only
// change removed-state.
func (s *Solver) NewVar(name string) {
	s.vars.Intern(name)
	s.growTo(s.vars.Len())
}

func (s *Solver) growTo(n int) {
	s.trail.Grow(n)
	s.watches.Grow(n)
	s.heuristic.grow(n)
	s.stamps.grow(n)
	s.cache.grow(n)
	s.replacer.grow(n)
	s.analyzer.grow(n)
	for len(s.posOcc) < n {
		s.posOcc = append(s.posOcc, 0)
		s.negOcc = append(s.negOcc, 0)
	}
}

// seedPolarities sets each still-undecided variable's saved phase from
// its literal balance in the input: a variable appearing mostly
// positively is first tried true. Runs once, before the first search;
// phase saving takes over from there.
func (s *Solver) seedPolarities() {
	if s.polaritySeeded {
		return
	}
	s.polaritySeeded = true
	for v := VarID(0); v < VarID(s.vars.Len()); v++ {
		if s.trail.VarValue(v) == LUndef {
			s.trail.Data(v).Polarity = s.posOcc[v] >= s.negOcc[v]
		}
	}
}

// Ok reports whether the solver is still usable. Once an AddClause or
// Solve call derives that the formula is unsatisfiable at the root, Ok
// is permanently false and subsequent calls short-circuit.
func (s *Solver) Ok() bool { return s.okLevel0 }

// SetProofSink attaches a DRUP proof sink; nil disables proof logging.
func (s *Solver) SetProofSink(p ProofSink) { s.proof = p }

// SetSharedData attaches the cross-thread clause-sharing hub; nil (the
// default) disables sharing.
func (s *Solver) SetSharedData(sd *SharedData) { s.shared = sd }

// Interrupt asynchronously requests that any in-progress Solve return
// an unknown result at the next poll point.
func (s *Solver) Interrupt() {
	atomic.StoreInt32(&s.interruptFlag, 1)
}

func (s *Solver) interrupted() bool {
	return atomic.LoadInt32(&s.interruptFlag) != 0
}

func (s *Solver) clearInterrupt() {
	atomic.StoreInt32(&s.interruptFlag, 0)
}

// internLit looks up or creates the internal id for an outer literal,
// growing every backing store as needed.
func (s *Solver) internLit(l Literal) Lit {
	v := s.vars.Intern(l.Variable)
	s.growTo(s.vars.Len())
	return MkLit(v, l.Negated)
}

func (s *Solver) valueOf(l Lit) TriValue { return s.trail.Value(l) }

// fatalf builds a fatal *core.SolverError.
func (s *Solver) fatalf(op, msg string) *core.SolverError {
	return core.NewFatalError("sat", op, msg)
}
