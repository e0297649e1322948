package sat

import "sync"

// SharedData is the cross-solver clause-sharing hub: multiple Solver
// instances working the same (or related) problem in separate
// goroutines publish short learnt clauses here and pull in clauses
// published by their peers, the way a portfolio solver shares results
// between threads.
type SharedData struct {
	mu      sync.Mutex
	units   []Literal
	unitSet map[string]bool

	incoming chan []Literal
}

// NewSharedData creates a hub with the given incoming-clause buffer
// size.
func NewSharedData(bufSize int) *SharedData {
	return &SharedData{
		unitSet:  make(map[string]bool),
		incoming: make(chan []Literal, bufSize),
	}
}

// PublishUnit shares a level-0 unit literal with every attached solver.
// Units are deduplicated so peers don't replay the same fact twice.
func (sd *SharedData) PublishUnit(l Literal) {
	sd.mu.Lock()
	defer sd.mu.Unlock()
	key := l.String()
	if sd.unitSet[key] {
		return
	}
	sd.unitSet[key] = true
	sd.units = append(sd.units, l)
}

// PublishClause shares a short learnt clause; the caller enforces the
// size threshold below which sharing pays off.
func (sd *SharedData) PublishClause(lits []Literal) {
	select {
	case sd.incoming <- lits:
	default:
		// buffer full: drop rather than block the publishing solver.
	}
}

// DrainClauses returns and clears all clauses published by peers since
// the last drain, for the caller to fold into its own irredundant set.
func (sd *SharedData) DrainClauses() [][]Literal {
	var out [][]Literal
	for {
		select {
		case lits := <-sd.incoming:
			out = append(out, lits)
		default:
			return out
		}
	}
}

// Units returns every unit published so far (including this caller's
// own, which is harmless to re-learn).
func (sd *SharedData) Units() []Literal {
	sd.mu.Lock()
	defer sd.mu.Unlock()
	out := make([]Literal, len(sd.units))
	copy(out, sd.units)
	return out
}
