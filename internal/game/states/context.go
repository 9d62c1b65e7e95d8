package states

import (
	"time"

	"github.com/rs/zerolog"
)

// SessionContext carries the session facts states validate against.
// The engine keeps it current before requesting a transition.
type SessionContext struct {
	SessionID string
	Logger    zerolog.Logger

	Lives            int
	Score            int
	Level            int
	RemainingTargets int

	// StartTime is when the current game entered Playing from Idle
	StartTime time.Time
	// LevelStartTime is when the current level's board was dealt
	LevelStartTime time.Time
}

// NewSessionContext creates a new session context
func NewSessionContext(sessionID string, logger zerolog.Logger) *SessionContext {
	return &SessionContext{
		SessionID: sessionID,
		Logger:    logger.With().Str("session_id", sessionID).Logger(),
	}
}

// GetElapsedTime returns the time elapsed since the game started
func (sc *SessionContext) GetElapsedTime() time.Duration {
	if sc.StartTime.IsZero() {
		return 0
	}
	return time.Since(sc.StartTime)
}
