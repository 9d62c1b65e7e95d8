// Package game hosts the Number Munchers session engine: lives, score,
// levels and the Idle/Playing/LevelComplete/GameOver machine.
package game

import (
	"context"
	"math/rand"

	"github.com/mitchelldurbincs/NumberMunchers/internal/game/adversary"
	"github.com/mitchelldurbincs/NumberMunchers/internal/game/core"
	"github.com/mitchelldurbincs/NumberMunchers/internal/game/events"
	"github.com/mitchelldurbincs/NumberMunchers/internal/game/gridgen"
	"github.com/mitchelldurbincs/NumberMunchers/internal/game/rules"
	"github.com/mitchelldurbincs/NumberMunchers/internal/game/states"
	"github.com/rs/zerolog"
)

// Engine runs one player's session. It is not safe for concurrent use;
// the host serializes commands and ticks.
type Engine struct {
	config    GameConfig
	sessionID string
	logger    zerolog.Logger
	rng       *rand.Rand
	generator *gridgen.Generator

	eventBus     *events.EventBus
	stateMachine *states.StateMachine
	listener     Listener
	scorer       Scorer
	recorder     ScoreRecorder

	pool       []rules.Category // configured pool
	activePool []rules.Category // pool of the game in progress

	board       *core.Board
	player      core.Position
	adversaries []core.Position
	category    rules.Category
	score       int
	lives       int
	level       int

	result *Result
	stats  Stats
}

// NewEngine creates an idle engine; call StartGame to play
func NewEngine(ctx context.Context, cfg GameConfig) (*Engine, error) {
	return NewEngineInitializer(cfg).Initialize(ctx)
}

// SessionID returns the session identifier
func (e *Engine) SessionID() string { return e.sessionID }

// EventBus returns the bus session events are published on
func (e *Engine) EventBus() *events.EventBus { return e.eventBus }

// Phase returns the current session phase
func (e *Engine) Phase() states.SessionPhase { return e.stateMachine.CurrentPhase() }

// IsPlaying reports whether commands are currently accepted
func (e *Engine) IsPlaying() bool { return e.Phase().AcceptsCommands() }

func (e *Engine) Score() int               { return e.score }
func (e *Engine) Lives() int               { return e.lives }
func (e *Engine) Level() int               { return e.level }
func (e *Engine) Category() rules.Category { return e.category }
func (e *Engine) Player() core.Position    { return e.player }
func (e *Engine) Stats() Stats             { return e.stats }
func (e *Engine) Config() GameConfig       { return e.config }

// History returns the session's phase transitions
func (e *Engine) History() []states.Transition { return e.stateMachine.GetHistory() }

// Adversaries returns a copy of the adversary positions
func (e *Engine) Adversaries() []core.Position {
	out := make([]core.Position, len(e.adversaries))
	copy(out, e.adversaries)
	return out
}

// Board returns a copy of the current board, nil before the first game
func (e *Engine) Board() *core.Board {
	if e.board == nil {
		return nil
	}
	return e.board.Clone()
}

// Result returns the final score and level of the last finished game
func (e *Engine) Result() (Result, bool) {
	if e.result == nil {
		return Result{}, false
	}
	return *e.result, true
}

// transition moves the state machine, syncing its context first. Failures
// indicate an engine bug and are logged.
func (e *Engine) transition(to states.SessionPhase, reason string) bool {
	sc := e.stateMachine.GetContext()
	sc.Lives = e.lives
	sc.Score = e.score
	sc.Level = e.level
	sc.RemainingTargets = 0
	if e.board != nil {
		sc.RemainingTargets = e.board.RemainingCount()
	}

	if err := e.stateMachine.TransitionTo(to, reason); err != nil {
		e.logger.Error().Err(err).
			Str("to_phase", to.String()).
			Str("reason", reason).
			Msg("Session transition rejected")
		return false
	}
	return true
}

// dealLevel picks a category, generates a fresh board and places the
// player and adversaries for the current level
func (e *Engine) dealLevel() {
	e.category = e.activePool[e.rng.Intn(len(e.activePool))]
	e.board = e.generator.Generate(e.config.Rows, e.config.Cols, e.category)
	e.player = e.board.Center()
	count := adversary.Count(e.level, e.config.MaxAdversaries)
	e.adversaries = adversary.Spawn(e.rng, count, e.player, e.config.Rows, e.config.Cols)

	e.logger.Debug().
		Int("level", e.level).
		Str("category", e.category.String()).
		Int("targets", e.board.TargetCount()).
		Int("adversaries", len(e.adversaries)).
		Msg("Level dealt")
}

// recordResult hands a finished game to the score recorder
func (e *Engine) recordResult(r Result) {
	if e.recorder == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), e.config.RecordTimeout)
	defer cancel()

	if err := e.recorder.Record(ctx, e.config.PlayerName, r.Score, r.Level); err != nil {
		e.logger.Error().Err(err).
			Str("player_name", e.config.PlayerName).
			Int("score", r.Score).
			Msg("Failed to record result")
		return
	}
	e.logger.Info().
		Str("player_name", e.config.PlayerName).
		Int("score", r.Score).
		Int("level", r.Level).
		Msg("Result recorded")
}
