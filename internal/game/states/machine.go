package states

import (
	"fmt"
	"sync"
	"time"

	"github.com/mitchelldurbincs/NumberMunchers/internal/game/events"
)

// State represents a session phase with lifecycle callbacks
type State interface {
	// Phase returns the SessionPhase this state represents
	Phase() SessionPhase

	// Enter is called when transitioning into this state
	Enter(ctx *SessionContext) error

	// Exit is called when transitioning out of this state
	Exit(ctx *SessionContext) error

	// Validate checks if the state may be entered given the context
	Validate(ctx *SessionContext) error
}

// Transition represents a state transition in the history
type Transition struct {
	From      SessionPhase
	To        SessionPhase
	Timestamp time.Time
	Reason    string
}

// StateMachine manages session phase transitions and history
type StateMachine struct {
	mu             sync.RWMutex
	currentPhase   SessionPhase
	states         map[SessionPhase]State
	context        *SessionContext
	history        []Transition
	maxHistorySize int
	publisher      events.Publisher
}

// NewStateMachine creates a state machine in PhaseIdle. publisher may be nil.
func NewStateMachine(ctx *SessionContext, publisher events.Publisher) *StateMachine {
	sm := &StateMachine{
		currentPhase:   PhaseIdle,
		states:         make(map[SessionPhase]State),
		context:        ctx,
		history:        make([]Transition, 0, 16),
		maxHistorySize: 256,
		publisher:      publisher,
	}

	sm.RegisterState(NewIdleState())
	sm.RegisterState(NewPlayingState())
	sm.RegisterState(NewLevelCompleteState())
	sm.RegisterState(NewGameOverState())

	return sm
}

// RegisterState registers a state implementation, replacing any existing one for its phase
func (sm *StateMachine) RegisterState(state State) {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	sm.states[state.Phase()] = state
}

// CurrentPhase returns the current session phase
func (sm *StateMachine) CurrentPhase() SessionPhase {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	return sm.currentPhase
}

// TransitionTo attempts to transition to the specified phase. The
// transition event is published after the machine's lock is released.
func (sm *StateMachine) TransitionTo(targetPhase SessionPhase, reason string) error {
	previousPhase, err := sm.transition(targetPhase, reason)
	if err != nil {
		return err
	}

	if sm.publisher != nil {
		sm.publisher.Publish(events.NewStateTransitionEvent(
			sm.context.SessionID,
			previousPhase.String(),
			targetPhase.String(),
			reason,
		))
	}
	return nil
}

func (sm *StateMachine) transition(targetPhase SessionPhase, reason string) (SessionPhase, error) {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if !sm.currentPhase.CanTransitionTo(targetPhase) {
		return sm.currentPhase, fmt.Errorf("invalid transition from %s to %s", sm.currentPhase, targetPhase)
	}

	currentState, hasCurrentState := sm.states[sm.currentPhase]
	targetState, hasTargetState := sm.states[targetPhase]
	if !hasTargetState {
		return sm.currentPhase, fmt.Errorf("no state implementation for phase %s", targetPhase)
	}

	if err := targetState.Validate(sm.context); err != nil {
		return sm.currentPhase, fmt.Errorf("cannot enter %s: %w", targetPhase, err)
	}

	if hasCurrentState {
		if err := currentState.Exit(sm.context); err != nil {
			sm.context.Logger.Error().
				Err(err).
				Str("from_phase", sm.currentPhase.String()).
				Str("to_phase", targetPhase.String()).
				Msg("Error exiting state")
		}
	}

	previousPhase := sm.currentPhase
	sm.currentPhase = targetPhase

	if err := targetState.Enter(sm.context); err != nil {
		sm.currentPhase = previousPhase
		return previousPhase, fmt.Errorf("failed to enter state %s: %w", targetPhase, err)
	}

	sm.addToHistory(Transition{
		From:      previousPhase,
		To:        targetPhase,
		Timestamp: time.Now(),
		Reason:    reason,
	})

	sm.context.Logger.Debug().
		Str("from_phase", previousPhase.String()).
		Str("to_phase", targetPhase.String()).
		Str("reason", reason).
		Msg("State transition completed")

	return previousPhase, nil
}

// addToHistory adds a transition to the history, maintaining max size
func (sm *StateMachine) addToHistory(transition Transition) {
	sm.history = append(sm.history, transition)
	if len(sm.history) > sm.maxHistorySize {
		sm.history = sm.history[len(sm.history)-sm.maxHistorySize:]
	}
}

// GetHistory returns a copy of the transition history
func (sm *StateMachine) GetHistory() []Transition {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	history := make([]Transition, len(sm.history))
	copy(history, sm.history)
	return history
}

// GetContext returns the session context
func (sm *StateMachine) GetContext() *SessionContext {
	return sm.context
}

// CanTransitionTo checks if a transition to the target phase is allowed
func (sm *StateMachine) CanTransitionTo(targetPhase SessionPhase) bool {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	return sm.currentPhase.CanTransitionTo(targetPhase)
}
