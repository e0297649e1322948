package sat

// RestartController decides when search should abandon its current
// trail and back out to the assumption prefix: one flat struct holding
// the state for every schedule, selected by RestartType, rather than
// an interface per strategy.
type RestartController struct {
	kind RestartType

	// Luby / geometric schedule state.
	first int64
	inc   float64
	lubyU int64
	lubySeq []int64
	conflictsSinceRestart int64
	nextRestartAt         int64

	// Glue-based (recent average LBD vs. global average) schedule state.
	recentGlue    []int
	recentGlueIdx int
	globalGlueSum int64
	globalGlueN   int64
	glueK         float64

	// Blocking restarts: trail-size based suppression.
	blockingMultip float64
	recentTrailSum int64
	recentTrailN   int64

	burstLen    int64
	burstLeft   int64
	restarts    int64
}

const glueRecentWindow = 50

func newRestartController(cfg Config) *RestartController {
	return &RestartController{
		kind:           cfg.RestartType,
		first:          cfg.RestartFirst,
		inc:            cfg.RestartInc,
		lubyU:          1,
		nextRestartAt:  cfg.RestartFirst,
		recentGlue:     make([]int, 0, glueRecentWindow),
		glueK:          cfg.GlueRestartK,
		blockingMultip: cfg.BlockingRestartMultip,
		burstLen:       cfg.BurstSearchLen,
	}
}

// onConflict updates restart bookkeeping after every conflict; glue is
// the LBD of the just-learned clause, trailLen the trail length at the
// moment of conflict (used for blocking restarts).
func (r *RestartController) onConflict(glue int, trailLen int) {
	r.conflictsSinceRestart++

	r.globalGlueSum += int64(glue)
	r.globalGlueN++

	if len(r.recentGlue) < glueRecentWindow {
		r.recentGlue = append(r.recentGlue, glue)
	} else {
		r.recentGlue[r.recentGlueIdx] = glue
		r.recentGlueIdx = (r.recentGlueIdx + 1) % glueRecentWindow
	}

	r.recentTrailSum += int64(trailLen)
	r.recentTrailN++
}

// shouldRestart reports whether search should restart now.
func (r *RestartController) shouldRestart(trailLen int) bool {
	if r.burstLeft > 0 {
		return false
	}
	switch r.kind {
	case RestartNever:
		return false
	case RestartLuby:
		return r.conflictsSinceRestart >= r.nextRestartAt
	case RestartGeometric:
		return r.conflictsSinceRestart >= r.nextRestartAt
	case RestartGlue, RestartGlueAgility, RestartAutomatic:
		if len(r.recentGlue) < glueRecentWindow || r.globalGlueN == 0 {
			return false
		}
		if r.blockingAvailable() && trailLen > r.blockingThreshold() {
			return false
		}
		return r.recentAvg() > r.glueK*r.globalAvg()
	default:
		return r.conflictsSinceRestart >= r.nextRestartAt
	}
}

func (r *RestartController) recentAvg() float64 {
	sum := 0
	for _, g := range r.recentGlue {
		sum += g
	}
	return float64(sum) / float64(len(r.recentGlue))
}

func (r *RestartController) globalAvg() float64 {
	return float64(r.globalGlueSum) / float64(r.globalGlueN)
}

func (r *RestartController) blockingAvailable() bool { return r.recentTrailN > 0 }

func (r *RestartController) blockingThreshold() int {
	avg := float64(r.recentTrailSum) / float64(r.recentTrailN)
	return int(avg * r.blockingMultip)
}

// doRestart resets the schedule state after an actual restart. The
// recent-glue window empties so the glue criterion cannot re-fire
// before a windowful of fresh conflicts has accumulated.
func (r *RestartController) doRestart() {
	r.restarts++
	r.conflictsSinceRestart = 0
	r.recentGlue = r.recentGlue[:0]
	r.recentGlueIdx = 0
	switch r.kind {
	case RestartLuby:
		r.lubyU++
		r.nextRestartAt = r.first * lubySeq(r.lubyU)
	case RestartGeometric:
		r.nextRestartAt = int64(float64(r.nextRestartAt) * r.inc)
		if r.nextRestartAt < r.first {
			r.nextRestartAt = r.first
		}
	}
	r.burstLeft = r.burstLen
}

func (r *RestartController) onDecision() {
	if r.burstLeft > 0 {
		r.burstLeft--
	}
}

// lubySeq computes the i'th term (1-indexed) of the Luby sequence
// (1,1,2,1,1,2,4,1,1,2,1,1,2,4,8,...).
func lubySeq(i int64) int64 {
	for k := int64(1); ; k++ {
		full := int64(1)<<uint(k) - 1
		if i == full {
			return int64(1) << uint(k-1)
		}
		half := int64(1) << uint(k-1)
		if i >= half && i < full {
			return lubySeq(i - half + 1)
		}
	}
}
