package events

import (
	"github.com/mitchelldurbincs/NumberMunchers/internal/game/core"
)

// Event type constants
const (
	TypeSessionStarted   = "session.started"
	TypeSessionEnded     = "session.ended"
	TypePlayerMoved      = "player.moved"
	TypeCellMunched      = "cell.munched"
	TypeLevelCompleted   = "level.completed"
	TypeAdversariesMoved = "adversaries.moved"
	TypePlayerCaught     = "player.caught"
	TypeStateTransition  = "state.transition"
)

// Reasons carried by SessionEndedEvent
const (
	EndReasonGameOver = "game_over"
	EndReasonQuit     = "quit"
)

// SessionStartedEvent is published when StartGame begins a new game
type SessionStartedEvent struct {
	BaseEvent
	Rows        int
	Cols        int
	Lives       int
	Category    string
	Adversaries int
	Restart     bool // a game was in progress and got replaced
}

func NewSessionStartedEvent(sessionID string, rows, cols, lives int, category string, adversaries int, restart bool) *SessionStartedEvent {
	return &SessionStartedEvent{
		BaseEvent:   newBase(TypeSessionStarted, sessionID),
		Rows:        rows,
		Cols:        cols,
		Lives:       lives,
		Category:    category,
		Adversaries: adversaries,
		Restart:     restart,
	}
}

// SessionEndedEvent is published on game over and on quit
type SessionEndedEvent struct {
	BaseEvent
	FinalScore int
	FinalLevel int
	Reason     string
}

func NewSessionEndedEvent(sessionID string, score, level int, reason string) *SessionEndedEvent {
	return &SessionEndedEvent{
		BaseEvent:  newBase(TypeSessionEnded, sessionID),
		FinalScore: score,
		FinalLevel: level,
		Reason:     reason,
	}
}

// PlayerMovedEvent is published after every accepted move
type PlayerMovedEvent struct {
	BaseEvent
	From core.Position
	To   core.Position
}

func NewPlayerMovedEvent(sessionID string, from, to core.Position) *PlayerMovedEvent {
	return &PlayerMovedEvent{
		BaseEvent: newBase(TypePlayerMoved, sessionID),
		From:      from,
		To:        to,
	}
}

// CellMunchedEvent is published for every munch that reached the board
type CellMunchedEvent struct {
	BaseEvent
	Position core.Position
	Value    int
	Outcome  core.MunchOutcome
	Points   int
}

func NewCellMunchedEvent(sessionID string, pos core.Position, value int, outcome core.MunchOutcome, points int) *CellMunchedEvent {
	return &CellMunchedEvent{
		BaseEvent: newBase(TypeCellMunched, sessionID),
		Position:  pos,
		Value:     value,
		Outcome:   outcome,
		Points:    points,
	}
}

// LevelCompletedEvent is published when the last target is munched
type LevelCompletedEvent struct {
	BaseEvent
	CompletedLevel int
	Bonus          int
	NewLevel       int
	NewCategory    string
}

func NewLevelCompletedEvent(sessionID string, completed, bonus, newLevel int, newCategory string) *LevelCompletedEvent {
	return &LevelCompletedEvent{
		BaseEvent:      newBase(TypeLevelCompleted, sessionID),
		CompletedLevel: completed,
		Bonus:          bonus,
		NewLevel:       newLevel,
		NewCategory:    newCategory,
	}
}

// AdversariesMovedEvent is published after each tick
type AdversariesMovedEvent struct {
	BaseEvent
	Positions []core.Position
}

func NewAdversariesMovedEvent(sessionID string, positions []core.Position) *AdversariesMovedEvent {
	cp := make([]core.Position, len(positions))
	copy(cp, positions)
	return &AdversariesMovedEvent{
		BaseEvent: newBase(TypeAdversariesMoved, sessionID),
		Positions: cp,
	}
}

// PlayerCaughtEvent is published when an adversary reaches the player
type PlayerCaughtEvent struct {
	BaseEvent
	Position  core.Position
	LivesLeft int
}

func NewPlayerCaughtEvent(sessionID string, pos core.Position, livesLeft int) *PlayerCaughtEvent {
	return &PlayerCaughtEvent{
		BaseEvent: newBase(TypePlayerCaught, sessionID),
		Position:  pos,
		LivesLeft: livesLeft,
	}
}

// StateTransitionEvent is published when the session changes phase
type StateTransitionEvent struct {
	BaseEvent
	FromState string
	ToState   string
	Reason    string
}

func NewStateTransitionEvent(sessionID, from, to, reason string) *StateTransitionEvent {
	return &StateTransitionEvent{
		BaseEvent: newBase(TypeStateTransition, sessionID),
		FromState: from,
		ToState:   to,
		Reason:    reason,
	}
}
