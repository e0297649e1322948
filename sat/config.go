package sat

// PolarityMode selects how a decision variable's sign is chosen:
// automatic replays the saved phase; the other modes ignore it and fix
// the sign or pick it at random.
type PolarityMode uint8

const (
	PolarityAutomatic PolarityMode = iota
	PolarityPositive
	PolarityNegative
	PolarityRandom
)

// RestartType selects the restart schedule.
type RestartType uint8

const (
	RestartGlue RestartType = iota
	RestartGlueAgility
	RestartGeometric
	RestartAgility
	RestartNever
	RestartAutomatic
	RestartLuby
)

// Config is the struct of recognized solver options: a plain literal
// struct with a DefaultConfig constructor. The solver keeps its own
// copy: a few components copy their settings at construction, the rest
// are read from that copy while solving.
type Config struct {
	// Activity heuristic tuning.
	VarDecayStart   float64
	VarDecayMax     float64
	VarIncStart     float64
	RandomVarFreq   float64
	PolarityMode    PolarityMode

	// Restart controller.
	RestartType           RestartType
	RestartFirst          int64
	RestartInc            float64
	BurstSearchLen        int64
	BlockingRestartMultip float64
	GlueRestartK          float64 // short-window glue mean must exceed K times the long-window mean

	// Learned-clause cleaning.
	RatioKeepClauses              [3]float64 // glue, size, activity; sums <= 1.0
	GlueMustKeepClauseIfBelowOrEq int
	MaxTemporaryLearntClauses     int
	IncMaxTempRedCls              float64

	// In-processing toggles.
	DoProbe                bool
	DoCache                bool
	DoStamp                bool
	DoFindXors             bool
	DoEchelonizeXOR        bool
	DoFindAndReplaceEqLits bool
	DoExtendedSCC          bool
	DoVarElim              bool
	DoSubsume1             bool
	DoGateFind             bool
	DoBoundedVariableAddition bool

	// Work-budget multipliers, applied to each pass's base allowance of
	// abstract work units.
	XorFinderTimeLimitM       float64
	SubsumptionTimeLimitM     float64
	IntreeTimeLimitM          float64
	SubsumeImplicitTimeLimitM float64
	GlobalTimeoutMultiplier   float64

	MaxTimeSeconds float64
	MaxConfl       int64

	Seed int64

	// InprocessGap is the minimum number of conflicts between two
	// simplification epochs.
	InprocessGap int64

	// ShareClauseMaxSize bounds how large a learnt clause may be and
	// still be published to SharedData: sharing costs every peer solver
	// a watch-store attach, so only clauses short enough to likely prune
	// another solver's search are shared.
	ShareClauseMaxSize int
}

// DefaultConfig returns the defaults the solver is tuned around.
func DefaultConfig() Config {
	return Config{
		VarDecayStart: 0.8,
		VarDecayMax:   0.95,
		VarIncStart:   1.0,
		RandomVarFreq: 0.02,
		PolarityMode:  PolarityAutomatic,

		RestartType:           RestartGlue,
		RestartFirst:          100,
		RestartInc:            1.5,
		BurstSearchLen:        0,
		BlockingRestartMultip: 1.4,
		GlueRestartK:          0.8,

		RatioKeepClauses:              [3]float64{0.4, 0.3, 0.3},
		GlueMustKeepClauseIfBelowOrEq: 2,
		MaxTemporaryLearntClauses:     10000,
		IncMaxTempRedCls:              1.2,

		DoProbe:                true,
		DoCache:                true,
		DoStamp:                true,
		DoFindXors:             true,
		DoEchelonizeXOR:        true,
		DoFindAndReplaceEqLits: true,
		DoExtendedSCC:          true,
		DoVarElim:              true,
		DoSubsume1:              true,
		DoGateFind:              true,
		DoBoundedVariableAddition: false,

		XorFinderTimeLimitM:       1.0,
		SubsumptionTimeLimitM:     1.0,
		IntreeTimeLimitM:          1.0,
		SubsumeImplicitTimeLimitM: 1.0,
		GlobalTimeoutMultiplier:   1.0,

		MaxTimeSeconds: 0, // 0 = unbounded
		MaxConfl:       0, // 0 = unbounded

		Seed: 1,

		InprocessGap: 4000,

		ShareClauseMaxSize: 8,
	}
}
