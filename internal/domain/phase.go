package domain

import "fmt"

// Phase is the current stage of a retro
type Phase string

const (
	PhaseJoining       Phase = "joining"
	PhaseBrainstorming Phase = "brainstorming"
	PhaseGrouping      Phase = "grouping"
	PhaseVoting        Phase = "voting"
	PhaseDiscussion    Phase = "discussion"
)

// Phases lists every phase in order
var Phases = []Phase{
	PhaseJoining,
	PhaseBrainstorming,
	PhaseGrouping,
	PhaseVoting,
	PhaseDiscussion,
}

// ParsePhase converts a wire state name into a Phase
func ParsePhase(s string) (Phase, error) {
	p := Phase(s)
	if p.Index() < 0 {
		return "", fmt.Errorf("unknown phase %q", s)
	}
	return p, nil
}

// String returns the string representation of the phase
func (p Phase) String() string {
	return string(p)
}

// Index is the position of p in Phases, or -1.
func (p Phase) Index() int {
	for i, candidate := range Phases {
		if candidate == p {
			return i
		}
	}
	return -1
}

// Next returns the phase that follows p
func (p Phase) Next() (Phase, bool) {
	i := p.Index()
	if i < 0 || i+1 >= len(Phases) {
		return "", false
	}
	return Phases[i+1], true
}

// CanTransitionTo checks that target is the phase right after p
func (p Phase) CanTransitionTo(target Phase) bool {
	next, ok := p.Next()
	return ok && next == target
}
