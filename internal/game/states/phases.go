package states

import "fmt"

// SessionPhase represents the current phase of a session
type SessionPhase int

const (
	// PhaseIdle - no game in progress (start screen)
	PhaseIdle SessionPhase = iota

	// PhasePlaying - commands and ticks are accepted
	PhasePlaying

	// PhaseLevelComplete - every target munched, next level being built
	PhaseLevelComplete

	// PhaseGameOver - lives exhausted, result frozen
	PhaseGameOver
)

// String returns the string representation of a SessionPhase
func (p SessionPhase) String() string {
	switch p {
	case PhaseIdle:
		return "Idle"
	case PhasePlaying:
		return "Playing"
	case PhaseLevelComplete:
		return "LevelComplete"
	case PhaseGameOver:
		return "GameOver"
	default:
		return fmt.Sprintf("Unknown(%d)", p)
	}
}

// AcceptsCommands returns true if move, munch and tick are processed in this phase
func (p SessionPhase) AcceptsCommands() bool {
	return p == PhasePlaying
}

// CanStartGame returns true if StartGame is accepted in this phase
func (p SessionPhase) CanStartGame() bool {
	return p == PhaseIdle || p == PhasePlaying
}

// AllowedTransitions returns the valid phases this phase can transition to
func (p SessionPhase) AllowedTransitions() []SessionPhase {
	switch p {
	case PhaseIdle:
		return []SessionPhase{PhasePlaying}
	case PhasePlaying:
		return []SessionPhase{PhaseLevelComplete, PhaseGameOver, PhaseIdle}
	case PhaseLevelComplete:
		return []SessionPhase{PhasePlaying}
	case PhaseGameOver:
		return []SessionPhase{PhaseIdle}
	default:
		return []SessionPhase{}
	}
}

// CanTransitionTo checks if a transition from this phase to the target phase is allowed
func (p SessionPhase) CanTransitionTo(target SessionPhase) bool {
	for _, phase := range p.AllowedTransitions() {
		if phase == target {
			return true
		}
	}
	return false
}

// ParsePhase converts a string to a SessionPhase
func ParsePhase(s string) (SessionPhase, error) {
	switch s {
	case "Idle":
		return PhaseIdle, nil
	case "Playing":
		return PhasePlaying, nil
	case "LevelComplete":
		return PhaseLevelComplete, nil
	case "GameOver":
		return PhaseGameOver, nil
	default:
		return PhaseIdle, fmt.Errorf("unknown phase %q", s)
	}
}
