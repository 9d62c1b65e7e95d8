package game

import (
	"github.com/mitchelldurbincs/NumberMunchers/internal/common"
	"github.com/mitchelldurbincs/NumberMunchers/internal/game/adversary"
	"github.com/mitchelldurbincs/NumberMunchers/internal/game/core"
	"github.com/mitchelldurbincs/NumberMunchers/internal/game/events"
	"github.com/mitchelldurbincs/NumberMunchers/internal/game/rules"
	"github.com/mitchelldurbincs/NumberMunchers/internal/game/states"
)

// StartGame begins a new game at level 1. It is accepted while Idle and,
// as a restart, while Playing. An empty pool uses the configured one;
// invalid categories are dropped. Returns false when ignored.
func (e *Engine) StartGame(pool ...rules.Category) bool {
	phase := e.Phase()
	if !phase.CanStartGame() {
		e.logger.Debug().Str("phase", phase.String()).Msg("StartGame ignored")
		return false
	}

	restart := phase == states.PhasePlaying
	if restart && !e.transition(states.PhaseIdle, "restart") {
		return false
	}

	e.activePool = e.selectPool(pool)
	e.score = 0
	e.lives = e.config.Lives
	e.level = 1
	e.stats = Stats{}
	e.dealLevel()

	if !e.transition(states.PhasePlaying, "start game") {
		return false
	}
	e.stats.StartedAt = e.stateMachine.GetContext().StartTime

	e.eventBus.Publish(events.NewSessionStartedEvent(
		e.sessionID,
		e.config.Rows,
		e.config.Cols,
		e.lives,
		e.category.Name(),
		len(e.adversaries),
		restart,
	))
	return true
}

func (e *Engine) selectPool(requested []rules.Category) []rules.Category {
	valid := make([]rules.Category, 0, len(requested))
	for _, c := range requested {
		if err := c.Validate(); err != nil {
			e.logger.Warn().Err(err).Msg("Dropping invalid category from pool")
			continue
		}
		valid = append(valid, c)
	}
	if len(valid) == 0 {
		return e.pool
	}
	return valid
}

// MovePlayer steps the player one cell along a single axis, clamped to
// the grid, then checks for adversary collisions. Diagonal or zero moves
// are ignored. Returns false when ignored.
func (e *Engine) MovePlayer(dRow, dCol int) bool {
	if !e.IsPlaying() {
		return false
	}
	dRow, dCol = common.Sign(dRow), common.Sign(dCol)
	if (dRow == 0) == (dCol == 0) {
		return false
	}

	from := e.player
	e.player = e.player.Add(dRow, dCol).Clamp(e.config.Rows, e.config.Cols)
	e.stats.Moves++
	if !from.Equal(e.player) {
		e.eventBus.Publish(events.NewPlayerMovedEvent(e.sessionID, from, e.player))
	}

	e.checkCollision()
	return true
}

// Move is MovePlayer by direction
func (e *Engine) Move(d core.Direction) bool {
	dRow, dCol := d.Delta()
	return e.MovePlayer(dRow, dCol)
}

// Munch eats the cell under the player. Returns MunchIgnored outside Playing.
func (e *Engine) Munch() core.MunchOutcome {
	if !e.IsPlaying() {
		return core.MunchIgnored
	}

	pos := e.player
	cell, _ := e.board.Cell(pos)
	outcome := e.board.Munch(pos)

	switch outcome {
	case core.MunchCorrect:
		points := e.scorer.MunchPoints(e.level)
		e.score += points
		e.stats.CorrectMunches++
		e.eventBus.Publish(events.NewCellMunchedEvent(e.sessionID, pos, cell.Value, outcome, points))
		if e.board.IsComplete() {
			e.completeLevel()
		}

	case core.MunchIncorrect:
		e.lives--
		e.stats.IncorrectMunches++
		e.eventBus.Publish(events.NewCellMunchedEvent(e.sessionID, pos, cell.Value, outcome, 0))
		e.listener.OnIncorrectMunch()
		if e.lives <= 0 {
			e.gameOver()
		}

	case core.MunchAlreadyMunched:
		// no effect
	}

	return outcome
}

// Tick advances every adversary one step and resolves collisions.
// Returns false outside Playing.
func (e *Engine) Tick() bool {
	if !e.IsPlaying() {
		return false
	}

	e.adversaries = adversary.Step(e.adversaries, e.player, e.config.Rows, e.config.Cols)
	e.stats.Ticks++
	e.eventBus.Publish(events.NewAdversariesMovedEvent(e.sessionID, e.adversaries))

	e.checkCollision()
	return true
}

// Quit abandons the game in progress without a result
func (e *Engine) Quit() bool {
	if !e.IsPlaying() {
		return false
	}
	if !e.transition(states.PhaseIdle, "quit") {
		return false
	}
	e.eventBus.Publish(events.NewSessionEndedEvent(e.sessionID, e.score, e.level, events.EndReasonQuit))
	return true
}

// checkCollision costs a life when an adversary shares the player's cell.
// The player respawns at the center; adversaries stay where they are.
func (e *Engine) checkCollision() {
	if !adversary.Caught(e.adversaries, e.player) {
		return
	}

	caughtAt := e.player
	e.lives--
	e.stats.TimesCaught++
	e.eventBus.Publish(events.NewPlayerCaughtEvent(e.sessionID, caughtAt, e.lives))
	e.listener.OnPlayerCaught()

	if e.lives <= 0 {
		e.gameOver()
		return
	}
	e.player = e.board.Center()
}

// completeLevel awards the bonus and deals the next level
func (e *Engine) completeLevel() {
	if !e.transition(states.PhaseLevelComplete, "board cleared") {
		return
	}

	completed := e.level
	bonus := e.scorer.LevelBonus(completed)
	e.score += bonus
	e.level++
	e.stats.LevelsCompleted++
	e.dealLevel()

	e.transition(states.PhasePlaying, "next level")

	e.eventBus.Publish(events.NewLevelCompletedEvent(e.sessionID, completed, bonus, e.level, e.category.Name()))
	e.listener.OnLevelComplete(bonus)
}

// gameOver freezes the result and records it before anyone is notified,
// so listeners already see it on the leaderboard. Ends in Idle.
func (e *Engine) gameOver() {
	e.lives = 0
	if !e.transition(states.PhaseGameOver, "out of lives") {
		return
	}

	r := Result{
		Score:     e.score,
		Level:     e.level,
		Category:  e.category.Name(),
		Stats:     e.stats,
		SessionID: e.sessionID,
	}
	e.result = &r

	e.recordResult(r)
	e.eventBus.Publish(events.NewSessionEndedEvent(e.sessionID, r.Score, r.Level, events.EndReasonGameOver))
	e.listener.OnGameOver(r.Score, r.Level)

	e.transition(states.PhaseIdle, "result recorded")
}
