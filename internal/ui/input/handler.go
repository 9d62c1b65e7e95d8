// Package input turns keyboard state into engine commands.
package input

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/mitchelldurbincs/NumberMunchers/internal/game/core"
)

// Action is what a key asks the game to do
type Action int

const (
	ActionNone Action = iota
	ActionMove
	ActionMunch
	ActionNewGame
	ActionQuit
)

func (a Action) String() string {
	switch a {
	case ActionMove:
		return "move"
	case ActionMunch:
		return "munch"
	case ActionNewGame:
		return "new_game"
	case ActionQuit:
		return "quit"
	default:
		return "none"
	}
}

// Command is one action for the current frame. Direction is only
// meaningful for ActionMove.
type Command struct {
	Action    Action
	Direction core.Direction
}

// KeyFunc reports whether a key was pressed this frame
type KeyFunc func(ebiten.Key) bool

type binding struct {
	keys    []ebiten.Key
	command Command
}

// defaultBindings are checked in order; the first match per command wins
var defaultBindings = []binding{
	{[]ebiten.Key{ebiten.KeyArrowUp, ebiten.KeyW}, Command{Action: ActionMove, Direction: core.Up}},
	{[]ebiten.Key{ebiten.KeyArrowRight, ebiten.KeyD}, Command{Action: ActionMove, Direction: core.Right}},
	{[]ebiten.Key{ebiten.KeyArrowDown, ebiten.KeyS}, Command{Action: ActionMove, Direction: core.Down}},
	{[]ebiten.Key{ebiten.KeyArrowLeft, ebiten.KeyA}, Command{Action: ActionMove, Direction: core.Left}},
	{[]ebiten.Key{ebiten.KeySpace, ebiten.KeyEnter}, Command{Action: ActionMunch}},
	{[]ebiten.Key{ebiten.KeyN}, Command{Action: ActionNewGame}},
	{[]ebiten.Key{ebiten.KeyEscape}, Command{Action: ActionQuit}},
}

type Handler struct {
	justPressed KeyFunc
	bindings    []binding
}

// NewHandler reads keys through inpututil
func NewHandler() *Handler {
	return NewHandlerWithKeys(inpututil.IsKeyJustPressed)
}

// NewHandlerWithKeys reads keys through fn, which lets tests script input
func NewHandlerWithKeys(fn KeyFunc) *Handler {
	return &Handler{
		justPressed: fn,
		bindings:    defaultBindings,
	}
}

// Commands returns the commands triggered this frame in binding order
func (h *Handler) Commands() []Command {
	var cmds []Command
	for _, b := range h.bindings {
		for _, k := range b.keys {
			if h.justPressed(k) {
				cmds = append(cmds, b.command)
				break
			}
		}
	}
	return cmds
}
