package states

import (
	"fmt"
	"time"
)

// IdleState is the start screen between games
type IdleState struct{}

func NewIdleState() State {
	return &IdleState{}
}

func (s *IdleState) Phase() SessionPhase {
	return PhaseIdle
}

func (s *IdleState) Enter(ctx *SessionContext) error {
	ctx.Logger.Debug().Msg("Session idle")
	ctx.StartTime = time.Time{}
	ctx.LevelStartTime = time.Time{}
	return nil
}

func (s *IdleState) Exit(ctx *SessionContext) error {
	ctx.StartTime = time.Now()
	return nil
}

func (s *IdleState) Validate(ctx *SessionContext) error {
	return nil
}

// PlayingState is active gameplay
type PlayingState struct{}

func NewPlayingState() State {
	return &PlayingState{}
}

func (s *PlayingState) Phase() SessionPhase {
	return PhasePlaying
}

func (s *PlayingState) Enter(ctx *SessionContext) error {
	ctx.LevelStartTime = time.Now()
	ctx.Logger.Info().
		Int("level", ctx.Level).
		Int("lives", ctx.Lives).
		Int("targets", ctx.RemainingTargets).
		Msg("Level in play")
	return nil
}

func (s *PlayingState) Exit(ctx *SessionContext) error {
	ctx.Logger.Debug().
		Dur("level_elapsed", time.Since(ctx.LevelStartTime)).
		Msg("Leaving play")
	return nil
}

func (s *PlayingState) Validate(ctx *SessionContext) error {
	if ctx.Lives < 1 {
		return fmt.Errorf("cannot play with %d lives", ctx.Lives)
	}
	if ctx.Level < 1 {
		return fmt.Errorf("level must be at least 1, got %d", ctx.Level)
	}
	if ctx.RemainingTargets < 1 {
		return fmt.Errorf("board has no targets to munch")
	}
	return nil
}

// LevelCompleteState is entered when the board has been cleared
type LevelCompleteState struct{}

func NewLevelCompleteState() State {
	return &LevelCompleteState{}
}

func (s *LevelCompleteState) Phase() SessionPhase {
	return PhaseLevelComplete
}

func (s *LevelCompleteState) Enter(ctx *SessionContext) error {
	ctx.Logger.Info().
		Int("level", ctx.Level).
		Int("score", ctx.Score).
		Dur("level_elapsed", time.Since(ctx.LevelStartTime)).
		Msg("Level cleared")
	return nil
}

func (s *LevelCompleteState) Exit(ctx *SessionContext) error {
	return nil
}

func (s *LevelCompleteState) Validate(ctx *SessionContext) error {
	if ctx.RemainingTargets != 0 {
		return fmt.Errorf("level complete with %d targets remaining", ctx.RemainingTargets)
	}
	return nil
}

// GameOverState freezes the final result
type GameOverState struct{}

func NewGameOverState() State {
	return &GameOverState{}
}

func (s *GameOverState) Phase() SessionPhase {
	return PhaseGameOver
}

func (s *GameOverState) Enter(ctx *SessionContext) error {
	ctx.Logger.Info().
		Int("final_score", ctx.Score).
		Int("final_level", ctx.Level).
		Dur("game_duration", ctx.GetElapsedTime()).
		Msg("Game over")
	return nil
}

func (s *GameOverState) Exit(ctx *SessionContext) error {
	return nil
}

func (s *GameOverState) Validate(ctx *SessionContext) error {
	if ctx.Lives > 0 {
		return fmt.Errorf("game over requires zero lives, have %d", ctx.Lives)
	}
	return nil
}
