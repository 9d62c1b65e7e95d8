package subscribers

import (
	"encoding/json"

	"github.com/mitchelldurbincs/NumberMunchers/internal/game/events"
	"github.com/rs/zerolog"
)

// LoggerSubscriber logs events to structured logs
type LoggerSubscriber struct {
	id              string
	logger          zerolog.Logger
	logLevel        zerolog.Level
	eventTypeFilter map[string]bool // If non-nil, only log these event types
	devMode         bool            // If true, log full event details
}

// NewLoggerSubscriber creates a new logger subscriber
func NewLoggerSubscriber(id string, logger zerolog.Logger, logLevel zerolog.Level) *LoggerSubscriber {
	return &LoggerSubscriber{
		id:       id,
		logger:   logger.With().Str("subscriber", "event_logger").Logger(),
		logLevel: logLevel,
	}
}

// ID returns the subscriber's unique identifier
func (ls *LoggerSubscriber) ID() string {
	return ls.id
}

// SetEventFilter sets which event types to log (nil means log all)
func (ls *LoggerSubscriber) SetEventFilter(eventTypes []string) {
	if len(eventTypes) == 0 {
		ls.eventTypeFilter = nil
		return
	}

	ls.eventTypeFilter = make(map[string]bool)
	for _, eventType := range eventTypes {
		ls.eventTypeFilter[eventType] = true
	}
}

// SetDevMode enables or disables development mode logging
func (ls *LoggerSubscriber) SetDevMode(enabled bool) {
	ls.devMode = enabled
}

// InterestedIn returns true if the subscriber wants to receive this event type
func (ls *LoggerSubscriber) InterestedIn(eventType string) bool {
	if ls.eventTypeFilter == nil {
		return true
	}
	return ls.eventTypeFilter[eventType]
}

// HandleEvent processes an event by logging it
func (ls *LoggerSubscriber) HandleEvent(event events.Event) {
	var logEvent *zerolog.Event
	switch ls.logLevel {
	case zerolog.DebugLevel:
		logEvent = ls.logger.Debug()
	case zerolog.WarnLevel:
		logEvent = ls.logger.Warn()
	case zerolog.ErrorLevel:
		logEvent = ls.logger.Error()
	default:
		logEvent = ls.logger.Info()
	}

	logEvent.
		Str("event_type", event.Type()).
		Str("session_id", event.SessionID()).
		Time("timestamp", event.Timestamp())

	switch e := event.(type) {
	case *events.SessionStartedEvent:
		logEvent.
			Int("rows", e.Rows).
			Int("cols", e.Cols).
			Int("lives", e.Lives).
			Str("category", e.Category).
			Int("adversaries", e.Adversaries).
			Bool("restart", e.Restart)

	case *events.SessionEndedEvent:
		logEvent.
			Int("final_score", e.FinalScore).
			Int("final_level", e.FinalLevel).
			Str("reason", e.Reason)

	case *events.PlayerMovedEvent:
		logEvent.
			Int("from_row", e.From.Row).
			Int("from_col", e.From.Col).
			Int("to_row", e.To.Row).
			Int("to_col", e.To.Col)

	case *events.CellMunchedEvent:
		logEvent.
			Int("row", e.Position.Row).
			Int("col", e.Position.Col).
			Int("value", e.Value).
			Str("outcome", e.Outcome.String()).
			Int("points", e.Points)

	case *events.LevelCompletedEvent:
		logEvent.
			Int("completed_level", e.CompletedLevel).
			Int("bonus", e.Bonus).
			Int("new_level", e.NewLevel).
			Str("new_category", e.NewCategory)

	case *events.AdversariesMovedEvent:
		logEvent.Int("adversaries", len(e.Positions))

	case *events.PlayerCaughtEvent:
		logEvent.
			Int("row", e.Position.Row).
			Int("col", e.Position.Col).
			Int("lives_left", e.LivesLeft)

	case *events.StateTransitionEvent:
		logEvent.
			Str("from_state", e.FromState).
			Str("to_state", e.ToState).
			Str("reason", e.Reason)
	}

	if ls.devMode {
		if jsonData, err := json.Marshal(event); err == nil {
			logEvent.RawJSON("event_data", jsonData)
		}
	}

	logEvent.Msg("Session event")
}
