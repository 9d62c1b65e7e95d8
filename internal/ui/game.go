// Package ui is the Ebitengine front end. It owns a local engine, turns key
// presses into engine commands and advances the adversary clock by counting
// frames.
package ui

import (
	"context"
	"errors"
	"fmt"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/rs/zerolog"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"

	"github.com/mitchelldurbincs/NumberMunchers/internal/common"
	"github.com/mitchelldurbincs/NumberMunchers/internal/config"
	"github.com/mitchelldurbincs/NumberMunchers/internal/game"
	"github.com/mitchelldurbincs/NumberMunchers/internal/game/core"
	"github.com/mitchelldurbincs/NumberMunchers/internal/ui/input"
	"github.com/mitchelldurbincs/NumberMunchers/internal/ui/renderer"
)

const (
	headerHeight  = 56
	margin        = 8
	messageFrames = 90
)

// UI configuration functions
func ScreenWidth() int {
	return config.Get().UI.Window.Width
}

func ScreenHeight() int {
	return config.Get().UI.Window.Height
}

func TileSize() int {
	return config.Get().UI.Game.TileSize
}

func TickInterval() int {
	return config.Get().UI.Game.TickIntervalMs
}

// FramesPerTick converts an adversary interval into update frames
func FramesPerTick(intervalMs int) int {
	frames := intervalMs * ebiten.DefaultTPS / 1000
	if frames < 1 {
		return 1
	}
	return frames
}

// Options tunes a MunchersGame. Zero values fall back to the UI config.
type Options struct {
	TickIntervalMs int
	RevealTargets  bool
	// HighScores, when set, is shown on the idle and game over screens
	HighScores     func() string
	Input          *input.Handler
	Logger         zerolog.Logger
}

// MunchersGame implements ebiten.Game
type MunchersGame struct {
	engine        *game.Engine
	boardRenderer *renderer.BoardRenderer
	hud           *renderer.HUD
	input         *input.Handler
	status        *StatusLine
	defaultFont   font.Face
	revealTargets bool
	highScores    func() string
	highScoreText string
	logger        zerolog.Logger

	framesPerTick int
	tickTimer     int
}

// NewMunchersGame builds the engine from cfg with the UI installed as its
// listener. Any listener already in cfg is replaced.
func NewMunchersGame(ctx context.Context, cfg game.GameConfig, opts Options) (*MunchersGame, error) {
	g := &MunchersGame{
		status:        &StatusLine{},
		defaultFont:   basicfont.Face7x13,
		revealTargets: opts.RevealTargets,
		highScores:    opts.HighScores,
		input:         opts.Input,
		logger:        opts.Logger.With().Str("component", "ui").Logger(),
	}
	if g.input == nil {
		g.input = input.NewHandler()
	}

	interval := opts.TickIntervalMs
	if interval <= 0 {
		interval = TickInterval()
	}
	g.framesPerTick = FramesPerTick(interval)

	cfg.Listener = g.callbacks()
	engine, err := game.NewEngine(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("creating engine: %w", err)
	}
	g.engine = engine

	tile := TileSize()
	offsetX := (ScreenWidth() - engine.Config().Cols*tile) / 2
	if offsetX < 0 {
		offsetX = 0
	}
	g.boardRenderer = renderer.NewBoardRenderer(tile, offsetX, headerHeight, g.defaultFont)
	g.hud = renderer.NewHUD(g.defaultFont, margin)
	g.refreshHighScores()

	return g, nil
}

// Engine exposes the underlying engine
func (g *MunchersGame) Engine() *game.Engine { return g.engine }

// Status is the message currently on screen
func (g *MunchersGame) Status() string { return g.status.Message() }

func (g *MunchersGame) callbacks() game.Callbacks {
	return game.Callbacks{
		IncorrectMunch: func() {
			g.status.Show("Oops! That one doesn't match.", messageFrames)
		},
		LevelComplete: func(bonus int) {
			g.status.Show(fmt.Sprintf("Level complete! +%d bonus", bonus), messageFrames)
		},
		PlayerCaught: func() {
			g.status.Show("Caught by a Troggle!", messageFrames)
		},
		GameOver: func(finalScore, finalLevel int) {
			g.status.Show(fmt.Sprintf("Game over: %d points on level %d", finalScore, finalLevel), messageFrames)
			g.refreshHighScores()
		},
	}
}

func (g *MunchersGame) refreshHighScores() {
	if g.highScores != nil {
		g.highScoreText = g.highScores()
	}
}

// Update proceeds the game state. Returns ebiten.Termination when the
// player quits from outside a running game.
func (g *MunchersGame) Update() error {
	for _, cmd := range g.input.Commands() {
		if err := g.apply(cmd); err != nil {
			return err
		}
	}
	g.status.Step()

	if !g.engine.IsPlaying() {
		g.tickTimer = 0
		return nil
	}
	g.tickTimer++
	if g.tickTimer < g.framesPerTick {
		return nil
	}
	g.tickTimer = 0
	g.engine.Tick()
	return nil
}

func (g *MunchersGame) apply(cmd input.Command) error {
	switch cmd.Action {
	case input.ActionMove:
		g.engine.Move(cmd.Direction)
	case input.ActionMunch:
		if g.engine.Munch() == core.MunchCorrect {
			g.logger.Debug().Int("score", g.engine.Score()).Msg("Correct munch")
		}
	case input.ActionNewGame:
		if g.engine.StartGame() {
			g.tickTimer = 0
			g.status.Show("", 0)
		}
	case input.ActionQuit:
		if g.engine.IsPlaying() {
			g.engine.Quit()
			return nil
		}
		return ebiten.Termination
	}
	return nil
}

// Draw draws the game screen.
func (g *MunchersGame) Draw(screen *ebiten.Image) {
	screen.Fill(common.BackgroundColor)
	snap := g.engine.Snapshot()
	g.boardRenderer.Draw(screen, snap, g.revealTargets)
	g.hud.Draw(screen, snap, g.status.Message(), g.highScoreText)
}

// Layout takes the outside size (e.g., the window size) and returns the (logical) screen size.
func (g *MunchersGame) Layout(outsideWidth, outsideHeight int) (int, int) {
	return ScreenWidth(), ScreenHeight()
}

// IsTermination reports whether err is the normal quit signal from Update
func IsTermination(err error) bool {
	return errors.Is(err, ebiten.Termination)
}
